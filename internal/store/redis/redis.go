// internal/store/redis/redis.go
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avivl/cache-lock/internal/lockservice"
	"github.com/avivl/cache-lock/internal/observability"
	"github.com/avivl/cache-lock/internal/store"
	"github.com/redis/go-redis/v9"
)

// StoreName is the name of the store
const StoreName string = "redis"

const defaultConnectTimeout = 5 * time.Second

// ErrConfigOptionMissing is returned when no configuration is supplied.
var ErrConfigOptionMissing = errors.New("Redis requires a config option")

// Store implements store.Store on top of a single dedicated Redis connection.
// Every operation pipelines SELECT with the actual command so the configured
// database is honored even when the connection is shared with other code.
// A transport failure fails the call and swaps in a fresh connection, so the
// next call reconnects. Store is not safe for concurrent use.
type Store struct {
	client     *redis.Client
	conn       *redis.Conn
	ownsClient bool
	config     *RedisConfig
	logger     *observability.SLogger
}

// Option customizes a Store.
type Option func(*Store)

// WithClient reuses a client owned by the host process.
// Close never closes a client supplied this way.
func WithClient(client *redis.Client) Option {
	return func(s *Store) {
		s.client = client
		s.ownsClient = false
	}
}

// init registers the Redis store with the lockservice package
func init() {
	lockservice.Register(StoreName, newStore)
}

// newStore creates a new Redis store for lockservice
func newStore(ctx context.Context, options lockservice.Config, logger *observability.SLogger) (store.Store, error) {
	cfg, ok := options.(*RedisConfig)
	if !ok {
		return nil, &store.InvalidConfigurationError{Store: StoreName, Config: options}
	}

	return New(ctx, cfg, logger)
}

// New connects to Redis and verifies the connection.
// When a password is configured the client authenticates while the
// connection is initialized, before any other command is sent.
func New(ctx context.Context, cfg *RedisConfig, logger *observability.SLogger, opts ...Option) (*Store, error) {
	if cfg == nil {
		return nil, ErrConfigOptionMissing
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid Redis configuration: %w", err)
	}

	if logger == nil {
		logger = observability.NewNopLogger()
	}

	s := &Store{
		config:     cfg.Clone(),
		logger:     logger,
		ownsClient: true,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.client == nil {
		s.client = redis.NewClient(cfg.clientOptions())
	}
	s.conn = s.client.Conn()

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.conn.Ping(pingCtx).Err(); err != nil {
		s.Close()
		return nil, &store.ConnectionError{Store: StoreName, Op: "connect " + cfg.addr(), Err: err}
	}

	logger.Debugf("Connected to %s", cfg)

	return s, nil
}

// Set selects the configured database and writes value under key in one round trip.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := store.CheckKeyValue("set", key, value); err != nil {
		return err
	}

	_, err := s.pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Select(ctx, s.config.DB)
		pipe.Set(ctx, key, value, 0)
		return nil
	})
	if err != nil {
		return &store.ConnectionError{Store: StoreName, Op: "set " + key, Err: err}
	}

	return nil
}

// Get selects the configured database and reads key in one round trip.
func (s *Store) Get(ctx context.Context, key string) (store.ReadResult, error) {
	if err := store.CheckKey("get", key); err != nil {
		return store.ReadResult{}, err
	}

	cmds, err := s.pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Select(ctx, s.config.DB)
		pipe.Get(ctx, key)
		return nil
	})
	if err != nil && len(cmds) == 0 {
		return store.ReadResult{}, &store.ConnectionError{Store: StoreName, Op: "get " + key, Err: err}
	}

	result, err := readResult(cmds)
	if err != nil {
		return store.ReadResult{}, &store.ConnectionError{Store: StoreName, Op: "get " + key, Err: err}
	}

	return result, nil
}

// pipelined runs fn on the dedicated connection. go-redis never recovers a
// Conn once it has seen a network error, so such a connection is dropped
// and replaced by a lazily dialed one.
func (s *Store) pipelined(ctx context.Context, fn func(redis.Pipeliner) error) ([]redis.Cmder, error) {
	cmds, err := s.conn.Pipelined(ctx, fn)
	if isTransportError(err) {
		s.resetConn()
	}
	return cmds, err
}

func (s *Store) resetConn() {
	_ = s.conn.Close()
	s.conn = s.client.Conn()
	s.logger.Debugf("Dropped broken connection to %s", s.config)
}

// isTransportError reports whether err came from the connection rather than
// from a server reply. A GET miss and a rejected SELECT leave the connection usable.
func isTransportError(err error) bool {
	if err == nil || errors.Is(err, redis.Nil) {
		return false
	}
	var replyErr redis.Error
	return !errors.As(err, &replyErr)
}

// readResult decodes the SELECT/GET pair positionally. A failed SELECT does
// not fail the read; it is reported through ReadResult.Selected.
func readResult(cmds []redis.Cmder) (store.ReadResult, error) {
	if len(cmds) != 2 {
		return store.ReadResult{}, fmt.Errorf("unexpected pipeline reply length %d", len(cmds))
	}

	selectCmd, ok := cmds[0].(*redis.StatusCmd)
	if !ok {
		return store.ReadResult{}, fmt.Errorf("unexpected select reply %T", cmds[0])
	}
	getCmd, ok := cmds[1].(*redis.StringCmd)
	if !ok {
		return store.ReadResult{}, fmt.Errorf("unexpected get reply %T", cmds[1])
	}

	var result store.ReadResult
	value, err := getCmd.Result()
	switch {
	case errors.Is(err, redis.Nil):
	case err != nil:
		return store.ReadResult{}, err
	default:
		result.Value = value
		result.Found = true
	}

	result.Selected = selectCmd.Err() == nil

	return result, nil
}

// GetConfig returns the current store configuration
func (s *Store) GetConfig() store.StoreConfig {
	return s.config
}

// Close returns the dedicated connection. The client is closed only when
// the store created it.
func (s *Store) Close() {
	if s.conn != nil {
		_ = s.conn.Close()
	}
	if s.ownsClient && s.client != nil {
		_ = s.client.Close()
	}
}
