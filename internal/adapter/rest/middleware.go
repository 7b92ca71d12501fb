package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/auth"
	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/platform/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type contextKey string

const (
	sessionIDKey contextKey = "sessionID"
	identityKey  contextKey = "identity"
)

// RequestObserver records one served request.
type RequestObserver interface {
	ObserveRequest(transport, method, code string, elapsed time.Duration)
}

func sessionFromContext(ctx context.Context) (string, *domain.Identity) {
	sessionID, _ := ctx.Value(sessionIDKey).(string)
	identity, _ := ctx.Value(identityKey).(*domain.Identity)
	return sessionID, identity
}

func requireIdentity(ctx context.Context) (*domain.Identity, error) {
	_, identity := sessionFromContext(ctx)
	if identity == nil {
		return nil, domain.ErrNotSignedIn
	}
	return identity, nil
}

func requireSession(ctx context.Context) (string, *domain.Identity, error) {
	sessionID, identity := sessionFromContext(ctx)
	if sessionID == "" || identity == nil {
		return "", nil, domain.ErrNotSignedIn
	}
	return sessionID, identity, nil
}

// Session resolves a bearer token, when one is sent, to its session id and
// signed-in identity. Requests without a token pass through anonymously; a
// malformed or expired token is rejected.
func (h *Handler) Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}
		token, err := auth.BearerToken(header)
		if err == nil {
			var claims *auth.Claims
			claims, err = h.tokens.Parse(token)
			if err == nil {
				var identity *domain.Identity
				identity, err = h.board.Identity(r.Context(), claims.SessionID)
				if err == nil {
					ctx := context.WithValue(r.Context(), sessionIDKey, claims.SessionID)
					if identity != nil {
						ctx = context.WithValue(ctx, identityKey, identity)
					}
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}
		}
		status, msg := statusFor(err)
		h.logger.Debug("HTTP session rejected", "path", r.URL.Path, "error", err.Error())
		respondError(w, status, msg)
	})
}

// RequestLogger logs every request after it is served.
func RequestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info("HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start).String(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

// Metrics reports each request under its route pattern.
func Metrics(observer RequestObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			observer.ObserveRequest("http", r.Method+" "+route, strconv.Itoa(status), time.Since(start))
		})
	}
}
