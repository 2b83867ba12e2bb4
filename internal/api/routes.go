package api

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/nareswara/svara/internal/auth"
	"github.com/nareswara/svara/internal/websocket"
)

// CredentialStore validates client credential pairs for the token endpoint.
type CredentialStore map[string]string

// Validate checks a client_id/client_secret pair.
func (s CredentialStore) Validate(clientID, clientSecret string) bool {
	secret, ok := s[clientID]
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(secret), []byte(clientSecret)) == 1
}

// Config wires the HTTP surface.
type Config struct {
	Credentials   CredentialStore
	SigningSecret []byte
	TokenTTL      time.Duration
}

// InitRoutes initializes all API routes
func InitRoutes(e *echo.Echo, config Config, wsHandler *websocket.Handler, logger *zap.Logger) {
	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "svara-server",
		})
	})

	// API v1 routes
	v1 := e.Group("/api/v1")

	v1.POST("/token", func(c echo.Context) error {
		return issueToken(c, config, logger)
	})

	if wsHandler != nil {
		e.GET("/ws/recognize", wsHandler.HandleRecognition)
	}
}

// issueToken exchanges client credentials for a signed access token.
func issueToken(c echo.Context, config Config, logger *zap.Logger) error {
	var req auth.TokenRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind token request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	if req.ClientID == "" || req.ClientSecret == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_fields",
			Message: "Client ID and client secret are required",
		})
	}

	if !config.Credentials.Validate(req.ClientID, req.ClientSecret) {
		logger.Warn("Client authentication failed",
			zap.String("client_id", req.ClientID))
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "authentication_failed",
			Message: "Invalid client credentials",
		})
	}

	ttl := config.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	token, expiresAt, err := auth.GenerateAccessToken(req.ClientID, config.SigningSecret, ttl)
	if err != nil {
		logger.Error("Failed to generate access token",
			zap.String("client_id", req.ClientID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "token_generation_failed",
			Message: "Failed to generate authentication token",
		})
	}

	logger.Info("Client authenticated successfully",
		zap.String("client_id", req.ClientID))

	return c.JSON(http.StatusOK, auth.TokenResponse{
		AccessToken:    token,
		ExpirationTime: expiresAt.Unix(),
	})
}
