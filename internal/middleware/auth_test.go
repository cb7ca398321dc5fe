package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vidtube/backend/internal/auth"
)

type staticValidator struct {
	tokens map[string]string
}

func (v staticValidator) Validate(_ context.Context, accessToken string) (string, error) {
	if userID, ok := v.tokens[accessToken]; ok {
		return userID, nil
	}
	return "", auth.ErrInvalidAccessToken
}

func viewerEcho() (http.Handler, *string) {
	var viewer string
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		viewer = auth.ViewerFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}), &viewer
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	next, _ := viewerEcho()
	handler := RequireAuth(staticValidator{})(next)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d got %d", http.StatusUnauthorized, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON error body, got content type %q", ct)
	}
}

func TestRequireAuthResolvesViewer(t *testing.T) {
	next, viewer := viewerEcho()
	handler := RequireAuth(staticValidator{tokens: map[string]string{"good-token": "user-1"}})(next)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}
	if *viewer != "user-1" {
		t.Fatalf("expected viewer user-1, got %q", *viewer)
	}
}

func TestOptionalAuthLetsAnonymousThrough(t *testing.T) {
	next, viewer := viewerEcho()
	handler := OptionalAuth(staticValidator{})(next)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}
	if *viewer != "" {
		t.Fatalf("expected anonymous viewer, got %q", *viewer)
	}
}

func TestOptionalAuthIgnoresInvalidToken(t *testing.T) {
	next, viewer := viewerEcho()
	handler := OptionalAuth(staticValidator{})(next)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}
	if *viewer != "" {
		t.Fatalf("expected anonymous viewer for invalid token, got %q", *viewer)
	}
}
