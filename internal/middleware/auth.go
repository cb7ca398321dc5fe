package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/logging"
)

// TokenValidator resolves a bearer access token to the user id it was issued to.
type TokenValidator interface {
	Validate(ctx context.Context, accessToken string) (string, error)
}

// RequireAuth rejects requests without a valid bearer access token and stores
// the resolved viewer id on the context for downstream handlers.
func RequireAuth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token := bearerToken(r)
			if token == "" {
				unauthorized(w)
				return
			}

			userID, err := validator.Validate(ctx, token)
			if err != nil {
				logging.FromContext(ctx).Warn("access token rejected", "error", err)
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithViewer(ctx, userID)))
		})
	}
}

// OptionalAuth resolves the viewer when a valid token is present but lets
// anonymous requests through; read-side projections then render their
// viewer-conditional fields as false.
func OptionalAuth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if token := bearerToken(r); token != "" {
				if userID, err := validator.Validate(ctx, token); err == nil {
					ctx = auth.WithViewer(ctx, userID)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"statusCode":401,"data":null,"message":"authentication required","success":false}`))
}
