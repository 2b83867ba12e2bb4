package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// TokenPath is the path of the token endpoint relative to the auth base URL.
const TokenPath = "/api/v1/token"

const (
	defaultRefreshMargin = 60 * time.Second
	defaultHTTPTimeout   = 10 * time.Second
)

var (
	// ErrInvalidCredentials is returned when the token endpoint rejects the
	// client id/secret pair.
	ErrInvalidCredentials = errors.New("invalid client credentials")
	// ErrBadRequest is returned when the token endpoint rejects the request
	// shape itself.
	ErrBadRequest = errors.New("malformed token request")
)

// TokenRequest is the token endpoint request payload.
type TokenRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// TokenResponse is the token endpoint response payload. ExpirationTime is
// unix epoch seconds.
type TokenResponse struct {
	AccessToken    string `json:"access_token"`
	ExpirationTime int64  `json:"expiration_time"`
}

// TokenManagerConfig configures a TokenManager.
// Required fields:
// - Path: location of the on-disk token file
// - AuthURL: base URL of the authentication service
// - ClientID, ClientSecret: credentials presented on refresh
// Optional fields with defaults:
// - RefreshMargin: how close to expiry a token is considered stale (default 60s)
// - HTTPClient: client used for the refresh call (default 10s timeout)
type TokenManagerConfig struct {
	Path          string
	AuthURL       string
	ClientID      string
	ClientSecret  string
	RefreshMargin time.Duration
	HTTPClient    *http.Client
}

// TokenManager keeps a bearer token fresh: it serves the on-disk token while
// it is valid and re-requests one from the auth service when it is absent,
// unparsable, or close to expiry. The file is rewritten after every refresh.
type TokenManager struct {
	path          string
	authURL       string
	clientID      string
	clientSecret  string
	refreshMargin time.Duration
	httpClient    *http.Client
	logger        *zap.Logger

	mu           sync.Mutex
	cached       string
	cachedExpiry time.Time
}

// NewTokenManager creates a token manager.
func NewTokenManager(config TokenManagerConfig, logger *zap.Logger) (*TokenManager, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("token file path is required")
	}
	if config.AuthURL == "" {
		return nil, fmt.Errorf("auth URL is required")
	}
	if config.ClientID == "" || config.ClientSecret == "" {
		return nil, fmt.Errorf("client id and client secret are required")
	}

	refreshMargin := config.RefreshMargin
	if refreshMargin == 0 {
		refreshMargin = defaultRefreshMargin
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}

	return &TokenManager{
		path:          config.Path,
		authURL:       strings.TrimRight(config.AuthURL, "/"),
		clientID:      config.ClientID,
		clientSecret:  config.ClientSecret,
		refreshMargin: refreshMargin,
		httpClient:    httpClient,
		logger:        logger,
	}, nil
}

// Token returns a valid bearer token, refreshing it at most once.
func (m *TokenManager) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cached != "" && !m.stale(m.cachedExpiry) {
		return m.cached, nil
	}

	if raw, err := os.ReadFile(m.path); err == nil {
		token := strings.TrimSpace(string(raw))
		if expiry, err := TokenExpiry(token); err == nil && !m.stale(expiry) {
			m.cached, m.cachedExpiry = token, expiry
			return token, nil
		}
		m.logger.Info("on-disk token is stale, refreshing", zap.String("path", m.path))
	} else if !os.IsNotExist(err) {
		m.logger.Warn("failed to read token file", zap.String("path", m.path), zap.Error(err))
	}

	token, expiry, err := m.refresh(ctx)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(m.path, []byte(token), 0o600); err != nil {
		return "", fmt.Errorf("failed to write token file: %w", err)
	}

	m.cached, m.cachedExpiry = token, expiry
	m.logger.Info("access token refreshed", zap.Time("expires_at", expiry))
	return token, nil
}

func (m *TokenManager) stale(expiry time.Time) bool {
	return time.Now().Add(m.refreshMargin).After(expiry)
}

func (m *TokenManager) refresh(ctx context.Context) (string, time.Time, error) {
	payload, err := json.Marshal(TokenRequest{
		ClientID:     m.clientID,
		ClientSecret: m.clientSecret,
	})
	if err != nil {
		return "", time.Time{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.authURL+TokenPath, bytes.NewReader(payload))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusBadRequest:
		return "", time.Time{}, ErrBadRequest
	case resp.StatusCode == http.StatusUnauthorized:
		return "", time.Time{}, ErrInvalidCredentials
	default:
		return "", time.Time{}, fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
	}

	var tokenResponse TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResponse); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to decode token response: %w", err)
	}
	if tokenResponse.AccessToken == "" {
		return "", time.Time{}, fmt.Errorf("token endpoint returned an empty token")
	}

	return tokenResponse.AccessToken, time.Unix(tokenResponse.ExpirationTime, 0), nil
}
