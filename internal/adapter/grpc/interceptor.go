package grpc

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// RequestIDHeader is the metadata key clients use to correlate calls
const RequestIDHeader = "x-request-id"

// LoggingInterceptor returns a gRPC unary server interceptor that logs every
// call with its method, duration and status code. The request id is taken
// from metadata when the client sent one.
func LoggingInterceptor(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.Duration("duration", time.Since(start)),
			zap.String("code", status.Code(err).String()),
		}
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if ids := md.Get(RequestIDHeader); len(ids) > 0 {
				fields = append(fields, zap.String("request_id", ids[0]))
			}
		}

		if err != nil {
			log.Warn("rpc failed", append(fields, zap.Error(err))...)
		} else {
			log.Info("rpc handled", fields...)
		}
		return resp, err
	}
}

// RecoveryInterceptor returns a gRPC unary server interceptor that turns a
// panicking handler into codes.Internal instead of crashing the server.
func RecoveryInterceptor(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (resp interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("rpc panicked", zap.String("method", info.FullMethod), zap.Any("panic", r))
				resp = nil
				err = status.Error(codes.Internal, "internal error")
			}
		}()
		return handler(ctx, req)
	}
}
