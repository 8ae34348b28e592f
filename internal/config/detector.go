// internal/config/detector.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var configFileNames = []string{"config.yaml", "config.yml", "cache-lock.yaml", "cache-lock.yml"}

// DetectBackendType determines the backend type from the configuration file.
// CACHELOCK_BACKEND_TYPE overrides the file; a file without a backend section uses redis.
func DetectBackendType(configPath string) (string, error) {
	if envType := os.Getenv(EnvPrefix + "_BACKEND_TYPE"); envType != "" {
		return normalizeBackendType(envType), nil
	}

	configFile, err := resolveConfigFilePath(configPath)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		return "", fmt.Errorf("failed to read config file: %w", err)
	}

	var config RootConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return "", fmt.Errorf("invalid configuration file: %w", err)
	}

	return normalizeBackendType(config.Backend.Type), nil
}

func normalizeBackendType(backend string) string {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", "redis":
		return BackendRedis
	case "dynamo", "dynamodb":
		return BackendDynamoDB
	case "scylla", "scylladb", "cassandra":
		return BackendScyllaDB
	default:
		return strings.ToLower(strings.TrimSpace(backend))
	}
}

// resolveConfigFilePath determines the actual configuration file path
func resolveConfigFilePath(configPath string) (string, error) {
	if configPath == "" {
		return "", fmt.Errorf("config path cannot be empty")
	}

	fileInfo, err := os.Stat(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("configuration file not found at %s", configPath)
		}
		return "", err
	}

	if !fileInfo.IsDir() {
		return configPath, nil
	}

	for _, name := range configFileNames {
		candidate := filepath.Join(configPath, name)
		if fi, err := os.Stat(candidate); err == nil && !fi.IsDir() {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("no config file found in directory %s", configPath)
}
