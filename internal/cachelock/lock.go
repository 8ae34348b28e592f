// internal/cachelock/lock.go
// Package cachelock implements the cache lock flag: one boolean kept under a
// single key in one logical database of a remote store, shared by every
// process that warms or clears the cache.
//
// A Lock never returns errors. Failures are logged and reported as false.
// A Lock that could not be built is disabled for its whole lifetime.
// Acquire is a plain write, not a compare-and-swap: two callers may both
// acquire, and the last write wins.
package cachelock

import (
	"context"
	"fmt"
	"time"

	"github.com/avivl/cache-lock/internal/config"
	"github.com/avivl/cache-lock/internal/lockservice"
	"github.com/avivl/cache-lock/internal/observability"
	"github.com/avivl/cache-lock/internal/store"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	// Flag backends register themselves with lockservice.
	_ "github.com/avivl/cache-lock/internal/store/dynamodb"
	_ "github.com/avivl/cache-lock/internal/store/redis"
	_ "github.com/avivl/cache-lock/internal/store/scylladb"
)

const (
	lockedValue   = "1"
	unlockedValue = "0"

	// OperationsMetric counts lock operations by operation and result.
	OperationsMetric = "cachelock.operations"

	tracerName = "github.com/avivl/cache-lock/internal/cachelock"
)

// Lock is the cache lock flag.
// It is not safe for concurrent use; callers sharing one Lock must serialize access.
type Lock struct {
	store       store.Store
	ownsStore   bool
	enabled     bool
	cacheKey    string
	maxAttempts int
	retryTime   int64

	logger  *observability.SLogger
	metrics observability.MetricsClient
	tracer  trace.Tracer
}

type options struct {
	store   store.Store
	metrics observability.MetricsClient
	tracer  trace.Tracer
}

// Option customizes a Lock.
type Option func(*options)

// WithStore uses an already connected store instead of building one from the
// configuration. Close leaves such a store open.
func WithStore(s store.Store) Option {
	return func(o *options) {
		o.store = s
	}
}

// WithMetrics records operation counts and latency through m.
func WithMetrics(m observability.MetricsClient) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithTracer traces operations with t instead of the global tracer.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) {
		o.tracer = t
	}
}

// NewFromFile loads the configuration at path and builds a Lock from it.
// When the file is rejected the Lock is disabled but keeps the tunables the
// file sets.
func NewFromFile(ctx context.Context, path string, logger *observability.SLogger, opts ...Option) *Lock {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		l, _ := newLock(config.LoadTunables(path), logger, opts)
		l.logger.ErrorCtx(ctx, err)
		return l
	}
	return New(ctx, cfg, logger, opts...)
}

// New builds a Lock from cfg and connects to the configured backend.
// Tunables are captured even when the connection fails.
func New(ctx context.Context, cfg *config.GlobalConfig, logger *observability.SLogger, opts ...Option) *Lock {
	if cfg == nil {
		l, _ := newLock(config.Default(), logger, opts)
		l.logger.ErrorCtx(ctx, &store.ConfigurationError{Err: fmt.Errorf("no configuration supplied")})
		return l
	}

	l, o := newLock(cfg, logger, opts)
	if o.store != nil {
		l.store = o.store
		l.enabled = true
		return l
	}

	storeCfg, err := cfg.StoreConfig()
	if err != nil {
		l.logger.ErrorCtx(ctx, err)
		return l
	}

	s, err := lockservice.NewStore(ctx, cfg.BackendName(), storeCfg, l.logger)
	if err != nil {
		l.logger.ErrorCtx(ctx, fmt.Errorf("cache lock disabled: %w", err))
		return l
	}

	l.store = s
	l.ownsStore = true
	l.enabled = true
	return l
}

func newLock(cfg *config.GlobalConfig, logger *observability.SLogger, opts []Option) (*Lock, options) {
	o := options{
		metrics: observability.NopMetrics{},
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if logger == nil {
		logger = observability.NewNopLogger()
	}

	cacheKey := cfg.CacheLock.CacheKey
	if cacheKey == "" {
		cacheKey = config.DefaultCacheKey
	}

	return &Lock{
		cacheKey:    cacheKey,
		maxAttempts: cfg.CacheLock.MaxAttempts,
		retryTime:   cfg.CacheLock.RetryTime,
		logger:      logger,
		metrics:     o.metrics,
		tracer:      o.tracer,
	}, o
}

// AcquireCacheLock writes "1" under the lock key.
// It reports whether the write succeeded, not whether the lock was free.
func (l *Lock) AcquireCacheLock(ctx context.Context) bool {
	ctx, finish := l.observe(ctx, "acquire")
	ok := l.set(ctx, l.cacheKey, lockedValue)
	finish(ok)
	return ok
}

// ReleaseCacheLock writes "0" under the lock key.
func (l *Lock) ReleaseCacheLock(ctx context.Context) bool {
	ctx, finish := l.observe(ctx, "release")
	ok := l.set(ctx, l.cacheKey, unlockedValue)
	finish(ok)
	return ok
}

// IsCacheLocked reports true only when the database was selected and the
// stored value is truthy. Errors, an absent key and "0" all read as false.
func (l *Lock) IsCacheLocked(ctx context.Context) bool {
	ctx, finish := l.observe(ctx, "is_locked")
	result, ok := l.get(ctx, l.cacheKey)
	finish(ok)
	return ok && result.Locked()
}

// GetMaxAttempts returns how many times callers should poll before giving up.
func (l *Lock) GetMaxAttempts() int {
	return l.maxAttempts
}

// GetRetryTime returns the pause between polls in microseconds.
func (l *Lock) GetRetryTime() int64 {
	return l.retryTime
}

// RetryInterval returns GetRetryTime as a duration.
func (l *Lock) RetryInterval() time.Duration {
	return time.Duration(l.retryTime) * time.Microsecond
}

// CacheKey returns the key holding the flag.
func (l *Lock) CacheKey() string {
	return l.cacheKey
}

// Enabled reports whether construction succeeded.
func (l *Lock) Enabled() bool {
	return l.enabled
}

// Close releases the store connection if the Lock created it.
// The flag itself is left as it is.
func (l *Lock) Close() {
	if l.ownsStore && l.store != nil {
		l.store.Close()
	}
}

// set writes value under key. It is the only write path to the store.
func (l *Lock) set(ctx context.Context, key, value string) bool {
	if !l.enabled {
		l.logger.ErrorCtx(ctx, store.ErrStoreDisabled)
		return false
	}
	if err := store.CheckKeyValue("set", key, value); err != nil {
		l.logger.ErrorCtx(ctx, err)
		return false
	}
	if err := l.store.Set(ctx, key, value); err != nil {
		l.logger.ErrorCtx(ctx, err)
		return false
	}
	return true
}

// get reads key. The bool is false on total failure, in which case the
// result must be ignored.
func (l *Lock) get(ctx context.Context, key string) (store.ReadResult, bool) {
	if !l.enabled {
		l.logger.ErrorCtx(ctx, store.ErrStoreDisabled)
		return store.ReadResult{}, false
	}
	if err := store.CheckKey("get", key); err != nil {
		l.logger.ErrorCtx(ctx, err)
		return store.ReadResult{}, false
	}
	result, err := l.store.Get(ctx, key)
	if err != nil {
		l.logger.ErrorCtx(ctx, err)
		return store.ReadResult{}, false
	}
	return result, true
}

func (l *Lock) observe(ctx context.Context, op string) (context.Context, func(ok bool)) {
	start := time.Now()
	ctx, span := l.tracer.Start(ctx, "cachelock."+op,
		trace.WithAttributes(
			attribute.String("cachelock.key", l.cacheKey),
			attribute.Bool("cachelock.enabled", l.enabled),
		),
	)

	return ctx, func(ok bool) {
		result := "success"
		if !ok {
			result = "failure"
			span.SetStatus(codes.Error, op+" failed")
		}
		span.SetAttributes(attribute.Bool("cachelock.success", ok))
		span.End()

		l.metrics.Increment(ctx, OperationsMetric, 1, "operation", op, "result", result)
		if err := l.metrics.RecordLatency(ctx, time.Since(start), "operation", op); err != nil {
			l.logger.ErrorCtx(ctx, err)
		}
	}
}
