package grpc

import (
	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/adapter/grpc/middleware"
	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/auth"
	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/platform/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// NewGRPCServer builds the server with tracing, logging, optional metrics and
// auth, and registers the listing, health and reflection services. The
// returned cleanup stops it gracefully.
func NewGRPCServer(appLogger *logger.Logger, tokens *auth.TokenManager, sessions middleware.IdentityResolver,
	observer middleware.RequestObserver, handler ListingServiceServer) (*grpc.Server, func()) {
	publicMethods := map[string]bool{
		FullMethod("SignIn"):       true,
		FullMethod("ListListings"): true,
		FullMethod("GetListing"):   true,
	}

	unaryInterceptors := []grpc.UnaryServerInterceptor{middleware.LoggingInterceptor(appLogger)}
	if observer != nil {
		unaryInterceptors = append(unaryInterceptors, middleware.MetricsInterceptor(observer))
	}
	unaryInterceptors = append(unaryInterceptors, middleware.AuthInterceptor(tokens, sessions, appLogger, publicMethods))

	server := grpc.NewServer(
		middleware.TracingServerOption(),
		grpc.ChainUnaryInterceptor(unaryInterceptors...),
	)
	RegisterListingServiceServer(server, handler)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(server, healthServer)
	healthServer.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	reflection.Register(server)

	cleanup := func() {
		appLogger.Info("Stopping gRPC server gracefully")
		healthServer.Shutdown()
		server.GracefulStop()
	}
	return server, cleanup
}
