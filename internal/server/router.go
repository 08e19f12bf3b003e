// Package server assembles the HTTP router of the document service.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/egi-ims/document-service/handlers"
	"github.com/egi-ims/document-service/internal/audit"
	"github.com/egi-ims/document-service/internal/config"
	"github.com/egi-ims/document-service/internal/document/handler"
	"github.com/egi-ims/document-service/internal/document/service"
	"github.com/egi-ims/document-service/pkg/middleware"
)

const readyTimeout = 2 * time.Second

// CredentialsChecker reports whether the Google service account key is usable.
type CredentialsChecker interface {
	CheckCredentials() error
}

// Revocations checks and records revoked access tokens.
type Revocations interface {
	middleware.RevocationChecker
	handlers.TokenRevoker
}

// Deps are the collaborators wired into the router. Redis, Mongo, Audit and
// Revocations are optional.
type Deps struct {
	Config      *config.Config
	Documents   service.Service
	Credentials CredentialsChecker
	Verifier    middleware.Verifier
	Revocations Revocations
	Audit       audit.Repository
	Redis       *redis.Client
	Mongo       *mongo.Client
}

// NewRouter returns the gin engine serving /docs and the operational endpoints.
func NewRouter(d Deps) *gin.Engine {
	startTime := time.Now()
	cfg := d.Config

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middleware.RequestID(), cors())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// 200 only when the dependencies /docs needs are reachable
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
		defer cancel()

		deps := map[string]bool{
			"credentials": d.Credentials != nil && d.Credentials.CheckCredentials() == nil,
			"auth":        d.Verifier != nil,
		}
		if d.Redis != nil {
			deps["redis"] = d.Redis.Ping(ctx).Err() == nil
		}
		if d.Mongo != nil {
			deps["mongodb"] = d.Mongo.Ping(ctx, nil) == nil
		}
		status, code := "ready", http.StatusOK
		for _, ok := range deps {
			if !ok {
				status, code = "not_ready", http.StatusServiceUnavailable
				break
			}
		}
		c.JSON(code, gin.H{"status": status, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	handlers.RegisterSwagger(r)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	var revoked middleware.RevocationChecker
	if d.Revocations != nil {
		revoked = d.Revocations
	}
	authed := r.Group("/")
	authed.Use(middleware.AuthMiddleware(d.Verifier, revoked))
	if d.Revocations != nil {
		handlers.NewAuthHandler(d.Revocations).Register(authed)
	}

	docs := authed.Group("/")
	docs.Use(middleware.RequireRole(cfg.Auth.RequiredRole, cfg.Auth.RoleClaim))
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && d.Redis != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			docs.Use(middleware.RedisRateLimitMiddleware(d.Redis, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			docs.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}
	handler.RegisterDocumentRoutes(docs, d.Documents, d.Audit, cfg.IMS.Group)

	return r
}

// cors sets permissive CORS headers and answers preflight requests.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Request-ID, X-Test-Stub")
		h.Set("Access-Control-Expose-Headers", "Content-Length, X-Request-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}
