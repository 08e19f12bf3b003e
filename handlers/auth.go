package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/egi-ims/document-service/pkg/logger"
	"github.com/egi-ims/document-service/pkg/middleware"
)

// TokenRevoker stores access tokens that must be refused until they expire.
type TokenRevoker interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
}

// AuthHandler serves token lifecycle endpoints. Routes must sit behind
// middleware.AuthMiddleware.
type AuthHandler struct {
	revoker TokenRevoker
}

func NewAuthHandler(r TokenRevoker) *AuthHandler {
	return &AuthHandler{revoker: r}
}

func (h *AuthHandler) Register(rg gin.IRoutes) {
	rg.POST("/auth/logout", h.Logout)
}

// Logout revokes the presented access token for the rest of its lifetime.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := c.GetString(middleware.RawTokenKey)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	exp, err := expiry(middleware.Claims(c))
	if err != nil {
		logger.Debugf("logout: %v, nothing to revoke", err)
		c.JSON(http.StatusOK, gin.H{"message": "logged out"})
		return
	}
	if ttl := time.Until(exp); ttl > 0 {
		if err := h.revoker.Revoke(c.Request.Context(), token, ttl); err != nil {
			logger.Errorf("failed to revoke access token: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to revoke access token"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// expiry returns the exp claim as time.Time.
func expiry(claims map[string]interface{}) (time.Time, error) {
	v, ok := claims["exp"]
	if !ok {
		return time.Time{}, fmt.Errorf("exp claim not present")
	}
	// exp may be float64 (json number) or json.Number
	switch vv := v.(type) {
	case float64:
		return time.Unix(int64(vv), 0), nil
	case int64:
		return time.Unix(vv, 0), nil
	case json.Number:
		f, err := vv.Float64()
		if err != nil {
			return time.Time{}, err
		}
		return time.Unix(int64(f), 0), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported exp type %T", v)
	}
}
