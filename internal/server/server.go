// internal/server/server.go
package server

import (
	"context"
	"errors"
	"net"
	"strings"
	"sync"
	"time"

	pb "github.com/avivl/cache-lock/api/cachelock/v1"
	"github.com/avivl/cache-lock/internal/cachelock"
	"github.com/avivl/cache-lock/internal/config"
	"github.com/avivl/cache-lock/internal/observability"
	"go.uber.org/zap/zapcore"
	"google.golang.org/grpc"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Server exposes a cachelock.Lock over gRPC.
// Calls are serialized because the lock shares one connection.
type Server struct {
	pb.UnimplementedCacheLockServiceServer
	mu       sync.Mutex
	server   *grpc.Server
	listener net.Listener
	logger   *observability.SLogger
	config   *config.GlobalConfig
	lock     *cachelock.Lock
	metrics  observability.MetricsClient
}

// NewServer builds a gRPC server around lock. It does not listen until Start or Serve.
func NewServer(
	config *config.GlobalConfig,
	lock *cachelock.Lock,
	logger *observability.SLogger,
	metrics observability.MetricsClient,
) (*Server, error) {
	if config == nil {
		return nil, errors.New("config is nil")
	}
	if lock == nil {
		return nil, errors.New("lock is nil")
	}
	if logger == nil {
		logger = observability.NewNopLogger()
	}
	if metrics == nil {
		metrics = observability.NopMetrics{}
	}

	s := &Server{
		logger:  logger,
		config:  config,
		lock:    lock,
		metrics: metrics,
	}

	keepaliveParams := keepalive.ServerParameters{
		MaxConnectionAge:      30 * time.Second,
		MaxConnectionAgeGrace: 10 * time.Second,
	}
	s.server = grpc.NewServer(
		grpc.KeepaliveParams(keepaliveParams),
		grpc.ChainUnaryInterceptor(s.unaryServerInterceptor()),
	)
	pb.RegisterCacheLockServiceServer(s.server, s)

	return s, nil
}

// Start listens on the configured address and serves until Stop is called.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.config.ServerAddress)
	if err != nil {
		s.logger.ErrorCtx(ctx, err)
		return err
	}
	return s.Serve(ctx, listener)
}

// Serve serves on an existing listener until Stop is called.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	if listener == nil {
		return errors.New("listener is required")
	}
	s.listener = listener

	if !s.lock.Enabled() {
		s.logger.LogWithContext(ctx, zapcore.WarnLevel, "cache lock is disabled, every lock operation will fail")
	}
	s.logger.InfoCtx(ctx, "server listening at "+listener.Addr().String())

	if err := s.server.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

// Stop drains in-flight calls and stops the server.
func (s *Server) Stop() error {
	s.logger.Info("stopping server")
	s.server.GracefulStop()
	return nil
}

// AcquireCacheLock sets the lock flag.
func (s *Server) AcquireCacheLock(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.BoolValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return wrapperspb.Bool(s.lock.AcquireCacheLock(ctx)), nil
}

// ReleaseCacheLock clears the lock flag.
func (s *Server) ReleaseCacheLock(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.BoolValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return wrapperspb.Bool(s.lock.ReleaseCacheLock(ctx)), nil
}

// GetIsCacheLocked reports whether the lock flag is set.
func (s *Server) GetIsCacheLocked(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.BoolValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return wrapperspb.Bool(s.lock.IsCacheLocked(ctx)), nil
}

// GetMaxAttempts returns the configured poll count.
func (s *Server) GetMaxAttempts(context.Context, *emptypb.Empty) (*wrapperspb.Int64Value, error) {
	return wrapperspb.Int64(int64(s.lock.GetMaxAttempts())), nil
}

// GetRetryTime returns the configured pause between polls in microseconds.
func (s *Server) GetRetryTime(context.Context, *emptypb.Empty) (*wrapperspb.Int64Value, error) {
	return wrapperspb.Int64(s.lock.GetRetryTime()), nil
}

func clientID(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if values := md.Get(pb.ClientIDHeader); len(values) > 0 {
		return values[0]
	}
	return ""
}

func (s *Server) unaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		methodName := strings.TrimPrefix(info.FullMethod, "/")

		resp, err := handler(ctx, req)

		code := status.Code(err).String()
		s.metrics.Increment(ctx, "grpc.requests.total", 1,
			"method", methodName,
			"status", code,
		)

		if err := s.metrics.RecordLatency(ctx, time.Since(start),
			"method", methodName,
			"status", code,
		); err != nil {
			s.logger.ErrorCtx(ctx, err)
		}

		s.logger.Debugw("handled request",
			"method", methodName,
			"client_id", clientID(ctx),
			"status", code,
			"duration", time.Since(start),
		)

		return resp, err
	}
}
