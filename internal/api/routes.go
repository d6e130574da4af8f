package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/satriahrh/penerjemah/domain/repositories"
	"github.com/satriahrh/penerjemah/internal/auth"
	"github.com/satriahrh/penerjemah/internal/websocket"
)

// VoiceLister lists the synthesis voices available to clients
type VoiceLister interface {
	Voices(ctx context.Context) ([]map[string]interface{}, error)
}

// InitRoutes initializes all API routes
func InitRoutes(e *echo.Echo, hub *websocket.Hub, deviceRepo repositories.DeviceRepository, voices VoiceLister, logger *zap.Logger) {
	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "penerjemah-server",
		})
	})

	// API v1 routes
	v1 := e.Group("/api/v1")

	// Subscription key to authorization token exchange
	v1.POST("/token", func(c echo.Context) error {
		return issueToken(c, deviceRepo, logger)
	})

	// Available synthesis voices
	v1.GET("/voices", func(c echo.Context) error {
		return listVoices(c, voices, logger)
	})

	// WebSocket endpoint with token validation
	e.GET("/ws", func(c echo.Context) error {
		return websocketWithAuth(hub, c, logger)
	})
}

// issueToken exchanges a subscription key for a short-lived authorization
// token. The token carries the device identity and region; the key itself
// never travels on the streaming connection.
func issueToken(c echo.Context, deviceRepo repositories.DeviceRepository, logger *zap.Logger) error {
	var req TokenRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind token request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	if strings.TrimSpace(req.SubscriptionKey) == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_fields",
			Message: "Subscription key is required",
		})
	}

	device, err := deviceRepo.ValidateSubscription(c.Request().Context(), req.SubscriptionKey)
	if err != nil {
		logger.Warn("Subscription key validation failed", zap.Error(err))
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "authentication_failed",
			Message: "Invalid subscription key",
		})
	}

	region := req.Region
	if region == "" {
		region = device.Region
	}

	token, expiresAt, err := auth.IssueToken(device.ID, region)
	if err != nil {
		logger.Error("Failed to issue authorization token",
			zap.String("device_id", device.ID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "token_generation_failed",
			Message: "Failed to generate authorization token",
		})
	}

	logger.Info("Authorization token issued",
		zap.String("device_id", device.ID),
		zap.String("region", region))

	return c.JSON(http.StatusOK, TokenResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		DeviceID:  device.ID,
		Region:    region,
	})
}

func listVoices(c echo.Context, voices VoiceLister, logger *zap.Logger) error {
	if voices == nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "synthesis_unavailable",
			Message: "No synthesis backend is configured",
		})
	}

	available, err := voices.Voices(c.Request().Context())
	if err != nil {
		logger.Error("Failed to list voices", zap.Error(err))
		return c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "voices_unavailable",
			Message: "Failed to retrieve voices",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"voices": available,
	})
}

// websocketWithAuth handles WebSocket connections with token validation
func websocketWithAuth(hub *websocket.Hub, c echo.Context, logger *zap.Logger) error {
	// Token in the Authorization header, query parameter as a fallback
	// for clients that cannot set headers on the upgrade request.
	var token string
	authHeader := c.Request().Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		token = strings.TrimPrefix(authHeader, "Bearer ")
	}
	if token == "" {
		token = c.QueryParam("token")
	}

	if token == "" {
		logger.Warn("WebSocket connection rejected: missing token")
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "missing_token",
			Message: "Authorization token is required",
		})
	}

	claims, err := auth.ValidateToken(token)
	if err != nil {
		logger.Warn("WebSocket connection rejected: invalid token", zap.Error(err))
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "invalid_token",
			Message: "Invalid or expired authorization token",
		})
	}

	if claims.DeviceID == "" {
		logger.Error("WebSocket connection rejected: missing device ID in token")
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_token_claims",
			Message: "Device ID not found in token",
		})
	}

	logger.Info("WebSocket connection authenticated",
		zap.String("device_id", claims.DeviceID),
		zap.String("region", claims.Region))

	return websocket.HandleConnection(hub, c, claims.DeviceID, claims.Region, token, logger)
}
