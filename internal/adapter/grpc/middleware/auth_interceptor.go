package middleware

import (
	"context"
	"errors"

	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/auth"
	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/platform/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type contextKey string

const (
	SessionIDKey contextKey = "sessionID"
	IdentityKey  contextKey = "identity"
)

// IdentityResolver looks up who is signed in on a session.
type IdentityResolver interface {
	Identity(ctx context.Context, sessionID string) (*domain.Identity, error)
}

// SessionFromContext returns what AuthInterceptor stored. identity is nil
// when the session exists but is signed out.
func SessionFromContext(ctx context.Context) (string, *domain.Identity) {
	sessionID, _ := ctx.Value(SessionIDKey).(string)
	identity, _ := ctx.Value(IdentityKey).(*domain.Identity)
	return sessionID, identity
}

// AuthInterceptor resolves the bearer token of protected methods to a
// session. Public methods pass through untouched.
func AuthInterceptor(tokens *auth.TokenManager, sessions IdentityResolver, log *logger.Logger, publicMethods map[string]bool) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if publicMethods[info.FullMethod] {
			return handler(ctx, req)
		}

		var header string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if values := md.Get("authorization"); len(values) > 0 {
				header = values[0]
			}
		}
		token, err := auth.BearerToken(header)
		if err != nil {
			log.Warn("AuthInterceptor: missing or malformed authorization header", "method", info.FullMethod)
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}
		claims, err := tokens.Parse(token)
		if err != nil {
			log.Warn("AuthInterceptor: token validation failed", "method", info.FullMethod, "error", err.Error())
			if errors.Is(err, auth.ErrTokenExpired) {
				return nil, status.Error(codes.Unauthenticated, auth.ErrTokenExpired.Error())
			}
			return nil, status.Error(codes.Unauthenticated, auth.ErrInvalidToken.Error())
		}
		identity, err := sessions.Identity(ctx, claims.SessionID)
		if err != nil {
			log.Error("AuthInterceptor: failed to load session", "method", info.FullMethod, "error", err.Error())
			return nil, status.Error(codes.Internal, "failed to load session")
		}

		ctx = context.WithValue(ctx, SessionIDKey, claims.SessionID)
		if identity != nil {
			ctx = context.WithValue(ctx, IdentityKey, identity)
		}
		log.Debug("AuthInterceptor: session resolved", "method", info.FullMethod, "signed_in", identity != nil)
		return handler(ctx, req)
	}
}
