// internal/store/scylladb/scylladb.go
package scylladb

import (
	"context"
	"errors"
	"fmt"

	"github.com/avivl/cache-lock/internal/lockservice"
	"github.com/avivl/cache-lock/internal/observability"
	"github.com/avivl/cache-lock/internal/store"
	"github.com/gocql/gocql"
)

var ErrConfigOptionMissing = errors.New("ScyllaDB requires a config option")

// StoreName the name of the store.
const StoreName string = "scylladb"

// init registers the ScyllaDB store with the lockservice package.
func init() {
	lockservice.Register(StoreName, newStore)
}

func newStore(ctx context.Context, options lockservice.Config, logger *observability.SLogger) (store.Store, error) {
	cfg, ok := options.(*ScyllaDBConfig)
	if !ok {
		return nil, &store.InvalidConfigurationError{Store: StoreName, Config: options}
	}
	return New(ctx, cfg, logger)
}

// Store implements store.Store on a ScyllaDB table keyed by (namespace, key).
type Store struct {
	session  sessionInterface
	l        *observability.SLogger
	config   *ScyllaDBConfig
	setQuery string
	getQuery string
}

// parseConsistency converts string consistency to gocql.Consistency
func parseConsistency(c string) gocql.Consistency {
	switch c {
	case "CONSISTENCY_QUORUM":
		return gocql.Quorum
	case "CONSISTENCY_ONE":
		return gocql.One
	case "CONSISTENCY_ALL":
		return gocql.All
	case "CONSISTENCY_LOCAL_QUORUM":
		return gocql.LocalQuorum
	default:
		return gocql.Quorum
	}
}

// New connects to ScyllaDB and prepares the keyspace and the flag table.
func New(ctx context.Context, config *ScyllaDBConfig, logger *observability.SLogger) (*Store, error) {
	if config == nil {
		return nil, ErrConfigOptionMissing
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = observability.NewNopLogger()
	}

	cluster := gocql.NewCluster(config.GetEndpoints()...)
	cluster.ProtoVersion = 4
	cluster.Consistency = parseConsistency(config.Consistency)
	if config.Timeout > 0 {
		cluster.ConnectTimeout = config.Timeout
		cluster.Timeout = config.Timeout
	}
	if config.Username != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: config.Username,
			Password: config.Password,
		}
	}

	session, err := cluster.CreateSession()
	if err != nil {
		logger.Errorf("Error creating session: %v", err)
		return nil, &store.ConnectionError{Store: StoreName, Op: "create session", Err: err}
	}

	s := newWithSession(gocqlSession{session: session}, config, logger)
	if err := s.initSchema(ctx); err != nil {
		s.Close()
		return nil, &store.ConnectionError{Store: StoreName, Op: "init schema", Err: err}
	}

	return s, nil
}

func newWithSession(session sessionInterface, config *ScyllaDBConfig, logger *observability.SLogger) *Store {
	table := config.fullTableName()
	return &Store{
		session:  session,
		l:        logger,
		config:   config,
		setQuery: fmt.Sprintf(`INSERT INTO %s (namespace, "key", "value") VALUES (?, ?, ?)`, table),
		getQuery: fmt.Sprintf(`SELECT "value" FROM %s WHERE namespace = ? AND "key" = ?`, table),
	}
}

func (s *Store) initSchema(ctx context.Context) error {
	err := s.session.Query(fmt.Sprintf(`CREATE KEYSPACE IF NOT EXISTS "%s"
	WITH replication = {
		'class' : 'SimpleStrategy',
		'replication_factor' : %d
	}`, s.config.Keyspace, s.config.ReplicationFactor)).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("failed to create keyspace: %w", err)
	}

	err = s.session.Query(fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
        namespace int,
        "key" text,
        "value" text,
        PRIMARY KEY (namespace, "key")
    )`, s.config.fullTableName())).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	return nil
}

// Set writes value under key in the configured database.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := store.CheckKeyValue("set", key, value); err != nil {
		return err
	}

	err := s.session.Query(s.setQuery, s.config.Database, key, value).WithContext(ctx).Exec()
	if err != nil {
		return &store.ConnectionError{Store: StoreName, Op: "insert", Err: err}
	}
	return nil
}

// Get reads the value stored under key. A missing row is not an error.
func (s *Store) Get(ctx context.Context, key string) (store.ReadResult, error) {
	if err := store.CheckKey("get", key); err != nil {
		return store.ReadResult{}, err
	}

	var value string
	err := s.session.Query(s.getQuery, s.config.Database, key).WithContext(ctx).Scan(&value)
	switch {
	case errors.Is(err, gocql.ErrNotFound):
		return store.ReadResult{Selected: true}, nil
	case err != nil:
		return store.ReadResult{}, &store.ConnectionError{Store: StoreName, Op: "select", Err: err}
	}

	return store.ReadResult{Selected: true, Value: value, Found: true}, nil
}

// GetConfig returns the current store configuration
func (s *Store) GetConfig() store.StoreConfig {
	return s.config
}

func (s *Store) Close() {
	s.session.Close()
}
