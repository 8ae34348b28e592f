// client/go/cachelockclient/client.go
package cachelockclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	pb "github.com/avivl/cache-lock/api/cachelock/v1"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/emptypb"
)

// ErrStillLocked is returned by WaitUntilUnlocked when every poll found the lock held.
var ErrStillLocked = errors.New("cache lock still held after max attempts")

// CacheLockClient is a client for the cache lock service
type CacheLockClient struct {
	id       string
	clClient pb.CacheLockServiceClient
	conn     *grpc.ClientConn
	sleep    func(context.Context, time.Duration) error
}

// Option is a function that configures a CacheLockClient
type Option func(*CacheLockClient)

// WithServerStub allows injecting a mock client for testing
func WithServerStub(stub pb.CacheLockServiceClient) Option {
	return func(c *CacheLockClient) {
		c.clClient = stub
	}
}

// WithClientID allows setting a specific client ID instead of generating a random one
func WithClientID(id string) Option {
	return func(c *CacheLockClient) {
		if id != "" {
			c.id = id
		}
	}
}

// NewCacheLockClient creates a new client for the cache lock service
func NewCacheLockClient(address string, opts ...Option) (*CacheLockClient, error) {
	if address == "" {
		return nil, errors.New("server address cannot be empty")
	}

	client := &CacheLockClient{
		id:    uuid.NewString(),
		sleep: sleepContext,
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.clClient == nil {
		conn, err := grpc.NewClient(
			address,
			grpc.WithTransportCredentials(insecure.NewCredentials()),
			grpc.WithKeepaliveParams(keepalive.ClientParameters{
				Time:                10 * time.Second,
				Timeout:             3 * time.Second,
				PermitWithoutStream: true,
			}))
		if err != nil {
			return nil, fmt.Errorf("could not connect to server: %w", err)
		}
		client.conn = conn
		client.clClient = pb.NewCacheLockServiceClient(conn)
	}

	return client, nil
}

// ID returns the identity sent with every request.
func (c *CacheLockClient) ID() string {
	return c.id
}

// Close releases resources held by the client
func (c *CacheLockClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func (c *CacheLockClient) outgoing(ctx context.Context) context.Context {
	return metadata.AppendToOutgoingContext(ctx, pb.ClientIDHeader, c.id)
}

// AcquireCacheLock sets the lock. A true result means the write happened,
// not that the lock was free beforehand.
func (c *CacheLockClient) AcquireCacheLock(ctx context.Context) (bool, error) {
	resp, err := c.clClient.AcquireCacheLock(c.outgoing(ctx), &emptypb.Empty{})
	if err != nil {
		return false, fmt.Errorf("failed to acquire cache lock: %w", err)
	}
	return resp.GetValue(), nil
}

// ReleaseCacheLock clears the lock.
func (c *CacheLockClient) ReleaseCacheLock(ctx context.Context) (bool, error) {
	resp, err := c.clClient.ReleaseCacheLock(c.outgoing(ctx), &emptypb.Empty{})
	if err != nil {
		return false, fmt.Errorf("failed to release cache lock: %w", err)
	}
	return resp.GetValue(), nil
}

// GetIsCacheLocked reports whether the lock is held.
func (c *CacheLockClient) GetIsCacheLocked(ctx context.Context) (bool, error) {
	resp, err := c.clClient.GetIsCacheLocked(c.outgoing(ctx), &emptypb.Empty{})
	if err != nil {
		return false, fmt.Errorf("failed to read cache lock: %w", err)
	}
	return resp.GetValue(), nil
}

// GetMaxAttempts returns how many polls WaitUntilUnlocked makes.
func (c *CacheLockClient) GetMaxAttempts(ctx context.Context) (int, error) {
	resp, err := c.clClient.GetMaxAttempts(c.outgoing(ctx), &emptypb.Empty{})
	if err != nil {
		return 0, fmt.Errorf("failed to get max attempts: %w", err)
	}
	return int(resp.GetValue()), nil
}

// GetRetryTime returns the pause between polls in microseconds.
func (c *CacheLockClient) GetRetryTime(ctx context.Context) (int64, error) {
	resp, err := c.clClient.GetRetryTime(c.outgoing(ctx), &emptypb.Empty{})
	if err != nil {
		return 0, fmt.Errorf("failed to get retry time: %w", err)
	}
	return resp.GetValue(), nil
}

// WaitUntilUnlocked polls the lock up to max attempts times, sleeping the
// retry time between polls. It returns nil as soon as a poll finds the lock
// free and ErrStillLocked when every poll found it held.
func (c *CacheLockClient) WaitUntilUnlocked(ctx context.Context) error {
	attempts, err := c.GetMaxAttempts(ctx)
	if err != nil {
		return err
	}
	retryTime, err := c.GetRetryTime(ctx)
	if err != nil {
		return err
	}
	interval := time.Duration(retryTime) * time.Microsecond

	for attempt := 1; attempt <= attempts; attempt++ {
		locked, err := c.GetIsCacheLocked(ctx)
		if err != nil {
			return err
		}
		if !locked {
			return nil
		}
		if attempt == attempts {
			break
		}
		if err := c.sleep(ctx, interval); err != nil {
			return err
		}
	}

	return ErrStillLocked
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
