package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"minflow/pkg/apperror"
	"minflow/pkg/passhash"
)

func newTestJWTManager() *passhash.JWTManager {
	return passhash.NewJWTManager(&passhash.JWTConfig{
		SecretKey:          "test-secret",
		AccessTokenExpiry:  time.Minute,
		RefreshTokenExpiry: time.Hour,
		Issuer:             "minflow-auth",
	})
}

func TestAuth_MissingHeader(t *testing.T) {
	handler := Auth(newTestJWTManager(), DefaultPublicPaths())(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("POST", "/v1/solve", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	var resp apperror.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error.Code != apperror.CodeUnauthenticated {
		t.Errorf("code = %s, want %s", resp.Error.Code, apperror.CodeUnauthenticated)
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	handler := Auth(newTestJWTManager(), DefaultPublicPaths())(okHandler())

	req := httptest.NewRequest("POST", "/v1/solve", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAuth_ValidToken(t *testing.T) {
	manager := newTestJWTManager()
	token, err := manager.GenerateAccessToken("user-123", "alice", "admin")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	var userID, username, role string
	handler := Auth(manager, DefaultPublicPaths())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID = GetUserID(r.Context())
		username = GetUsername(r.Context())
		role = GetRole(r.Context())
	}))

	req := httptest.NewRequest("POST", "/v1/solve", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if userID != "user-123" {
		t.Errorf("user id = %q, want user-123", userID)
	}
	if username != "alice" {
		t.Errorf("username = %q, want alice", username)
	}
	if role != "admin" {
		t.Errorf("role = %q, want admin", role)
	}
}

func TestAuth_WrongSecret(t *testing.T) {
	other := passhash.NewJWTManager(&passhash.JWTConfig{
		SecretKey:          "other-secret",
		AccessTokenExpiry:  time.Minute,
		RefreshTokenExpiry: time.Hour,
		Issuer:             "minflow-auth",
	})
	token, err := other.GenerateAccessToken("user-123", "alice", "admin")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	handler := Auth(newTestJWTManager(), DefaultPublicPaths())(okHandler())

	req := httptest.NewRequest("POST", "/v1/solve", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAuth_PublicPaths(t *testing.T) {
	handler := Auth(newTestJWTManager(), DefaultPublicPaths())(okHandler())

	paths := []string{"/healthz", "/readyz", "/v1/algorithms", "/v1/auth/token", "/swagger/", "/swagger/openapi.json"}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))

			if rec.Code != http.StatusOK {
				t.Errorf("status = %d, want %d for public path", rec.Code, http.StatusOK)
			}
		})
	}
}

func TestAuth_PreflightBypassed(t *testing.T) {
	handler := Auth(newTestJWTManager(), DefaultPublicPaths())(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/v1/solve", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d for preflight", rec.Code, http.StatusOK)
	}
}
