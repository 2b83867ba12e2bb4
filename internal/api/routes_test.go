package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/nareswara/svara/internal/auth"
)

var testSecret = []byte("api-signing-key")

func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()
	e := echo.New()
	InitRoutes(e, Config{
		Credentials:   CredentialStore{"client-1": "secret-1"},
		SigningSecret: testSecret,
		TokenTTL:      time.Hour,
	}, nil, zap.NewNop())
	return e
}

func postToken(t *testing.T, e *echo.Echo, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, auth.TokenPath, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestIssueToken(t *testing.T) {
	e := newTestRouter(t)

	rec := postToken(t, e, `{"client_id":"client-1","client_secret":"secret-1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response auth.TokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.AccessToken == "" {
		t.Fatal("Expected an access token")
	}

	claims, err := auth.ValidateToken(response.AccessToken, testSecret)
	if err != nil {
		t.Fatalf("Issued token failed validation: %v", err)
	}
	if claims.ClientID != "client-1" {
		t.Errorf("Expected client-1 in claims, got %s", claims.ClientID)
	}
	if response.ExpirationTime <= time.Now().Unix() {
		t.Errorf("Expected a future expiration, got %d", response.ExpirationTime)
	}
}

func TestIssueTokenRejectsBadCredentials(t *testing.T) {
	e := newTestRouter(t)

	rec := postToken(t, e, `{"client_id":"client-1","client_secret":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}

	rec = postToken(t, e, `{"client_id":"unknown","client_secret":"secret-1"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for unknown client, got %d", rec.Code)
	}

	var response ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if response.Error != "authentication_failed" {
		t.Errorf("Expected authentication_failed, got %s", response.Error)
	}
}

func TestIssueTokenRejectsMalformedRequests(t *testing.T) {
	e := newTestRouter(t)

	rec := postToken(t, e, `{"client_id":"client-1"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for missing secret, got %d", rec.Code)
	}

	rec = postToken(t, e, `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for invalid JSON, got %d", rec.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	e := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %s", body["status"])
	}
}

// The token manager should be able to drive the endpoint end to end.
func TestTokenManagerAgainstEndpoint(t *testing.T) {
	server := httptest.NewServer(newTestRouter(t))
	defer server.Close()

	manager, err := auth.NewTokenManager(auth.TokenManagerConfig{
		Path:         filepath.Join(t.TempDir(), "token.jwt"),
		AuthURL:      server.URL,
		ClientID:     "client-1",
		ClientSecret: "secret-1",
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewTokenManager returned error: %v", err)
	}

	token, err := manager.Token(context.Background())
	if err != nil {
		t.Fatalf("Token returned error: %v", err)
	}
	if _, err := auth.ValidateToken(token, testSecret); err != nil {
		t.Errorf("Fetched token failed validation: %v", err)
	}
}
