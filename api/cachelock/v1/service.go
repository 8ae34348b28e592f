// api/cachelock/v1/service.go
// Package cachelockv1 describes the cachelock.v1.CacheLockService gRPC API.
// Messages are protobuf well-known types, so no generated message code is needed.
package cachelockv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ServiceName = "cachelock.v1.CacheLockService"

const (
	CacheLockService_AcquireCacheLock_FullMethodName = "/" + ServiceName + "/AcquireCacheLock"
	CacheLockService_ReleaseCacheLock_FullMethodName = "/" + ServiceName + "/ReleaseCacheLock"
	CacheLockService_GetIsCacheLocked_FullMethodName = "/" + ServiceName + "/GetIsCacheLocked"
	CacheLockService_GetMaxAttempts_FullMethodName   = "/" + ServiceName + "/GetMaxAttempts"
	CacheLockService_GetRetryTime_FullMethodName     = "/" + ServiceName + "/GetRetryTime"
)

// ClientIDHeader carries the caller's identity in request metadata.
const ClientIDHeader = "x-client-id"

// CacheLockServiceClient is the client API for CacheLockService.
type CacheLockServiceClient interface {
	AcquireCacheLock(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error)
	ReleaseCacheLock(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error)
	GetIsCacheLocked(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error)
	GetMaxAttempts(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.Int64Value, error)
	// GetRetryTime returns the pause between polls in microseconds.
	GetRetryTime(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.Int64Value, error)
}

type cacheLockServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewCacheLockServiceClient(cc grpc.ClientConnInterface) CacheLockServiceClient {
	return &cacheLockServiceClient{cc}
}

func (c *cacheLockServiceClient) AcquireCacheLock(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error) {
	out := new(wrapperspb.BoolValue)
	if err := c.cc.Invoke(ctx, CacheLockService_AcquireCacheLock_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *cacheLockServiceClient) ReleaseCacheLock(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error) {
	out := new(wrapperspb.BoolValue)
	if err := c.cc.Invoke(ctx, CacheLockService_ReleaseCacheLock_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *cacheLockServiceClient) GetIsCacheLocked(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error) {
	out := new(wrapperspb.BoolValue)
	if err := c.cc.Invoke(ctx, CacheLockService_GetIsCacheLocked_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *cacheLockServiceClient) GetMaxAttempts(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.Int64Value, error) {
	out := new(wrapperspb.Int64Value)
	if err := c.cc.Invoke(ctx, CacheLockService_GetMaxAttempts_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *cacheLockServiceClient) GetRetryTime(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.Int64Value, error) {
	out := new(wrapperspb.Int64Value)
	if err := c.cc.Invoke(ctx, CacheLockService_GetRetryTime_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// CacheLockServiceServer is the server API for CacheLockService.
// Implementations must embed UnimplementedCacheLockServiceServer.
type CacheLockServiceServer interface {
	AcquireCacheLock(context.Context, *emptypb.Empty) (*wrapperspb.BoolValue, error)
	ReleaseCacheLock(context.Context, *emptypb.Empty) (*wrapperspb.BoolValue, error)
	GetIsCacheLocked(context.Context, *emptypb.Empty) (*wrapperspb.BoolValue, error)
	GetMaxAttempts(context.Context, *emptypb.Empty) (*wrapperspb.Int64Value, error)
	GetRetryTime(context.Context, *emptypb.Empty) (*wrapperspb.Int64Value, error)
	mustEmbedUnimplementedCacheLockServiceServer()
}

// UnimplementedCacheLockServiceServer must be embedded to have forward compatible implementations.
type UnimplementedCacheLockServiceServer struct{}

func (UnimplementedCacheLockServiceServer) AcquireCacheLock(context.Context, *emptypb.Empty) (*wrapperspb.BoolValue, error) {
	return nil, status.Errorf(codes.Unimplemented, "method AcquireCacheLock not implemented")
}
func (UnimplementedCacheLockServiceServer) ReleaseCacheLock(context.Context, *emptypb.Empty) (*wrapperspb.BoolValue, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ReleaseCacheLock not implemented")
}
func (UnimplementedCacheLockServiceServer) GetIsCacheLocked(context.Context, *emptypb.Empty) (*wrapperspb.BoolValue, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetIsCacheLocked not implemented")
}
func (UnimplementedCacheLockServiceServer) GetMaxAttempts(context.Context, *emptypb.Empty) (*wrapperspb.Int64Value, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetMaxAttempts not implemented")
}
func (UnimplementedCacheLockServiceServer) GetRetryTime(context.Context, *emptypb.Empty) (*wrapperspb.Int64Value, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetRetryTime not implemented")
}
func (UnimplementedCacheLockServiceServer) mustEmbedUnimplementedCacheLockServiceServer() {}

func RegisterCacheLockServiceServer(s grpc.ServiceRegistrar, srv CacheLockServiceServer) {
	s.RegisterService(&CacheLockService_ServiceDesc, srv)
}

// unaryHandler adapts one server method to a grpc.MethodHandler.
func unaryHandler[Resp any](fullMethod string, call func(CacheLockServiceServer, context.Context, *emptypb.Empty) (Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(emptypb.Empty)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(CacheLockServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(CacheLockServiceServer), ctx, req.(*emptypb.Empty))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// CacheLockService_ServiceDesc is the grpc.ServiceDesc for CacheLockService service.
var CacheLockService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CacheLockServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "AcquireCacheLock",
			Handler:    unaryHandler(CacheLockService_AcquireCacheLock_FullMethodName, CacheLockServiceServer.AcquireCacheLock),
		},
		{
			MethodName: "ReleaseCacheLock",
			Handler:    unaryHandler(CacheLockService_ReleaseCacheLock_FullMethodName, CacheLockServiceServer.ReleaseCacheLock),
		},
		{
			MethodName: "GetIsCacheLocked",
			Handler:    unaryHandler(CacheLockService_GetIsCacheLocked_FullMethodName, CacheLockServiceServer.GetIsCacheLocked),
		},
		{
			MethodName: "GetMaxAttempts",
			Handler:    unaryHandler(CacheLockService_GetMaxAttempts_FullMethodName, CacheLockServiceServer.GetMaxAttempts),
		},
		{
			MethodName: "GetRetryTime",
			Handler:    unaryHandler(CacheLockService_GetRetryTime_FullMethodName, CacheLockServiceServer.GetRetryTime),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "cachelock/v1/cachelock.proto",
}
