package middleware

import (
	"context"
	"time"

	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/platform/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// RequestObserver records one served request.
type RequestObserver interface {
	ObserveRequest(transport, method, code string, elapsed time.Duration)
}

func LoggingInterceptor(logger *logger.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		duration := time.Since(start)
		if err != nil {
			logger.Warn("gRPC request failed", "method", info.FullMethod, "duration", duration.String(),
				"code", status.Code(err).String(), "error", err.Error())
		} else {
			logger.Info("gRPC request completed", "method", info.FullMethod, "duration", duration.String())
		}
		return resp, err
	}
}

func MetricsInterceptor(observer RequestObserver) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		observer.ObserveRequest("grpc", info.FullMethod, status.Code(err).String(), time.Since(start))
		return resp, err
	}
}
