package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/egi-ims/document-service/internal/audit"
	"github.com/egi-ims/document-service/internal/config"
	"github.com/egi-ims/document-service/internal/database"
	"github.com/egi-ims/document-service/internal/document/service"
	"github.com/egi-ims/document-service/internal/gdrive"
	"github.com/egi-ims/document-service/internal/oidc"
	"github.com/egi-ims/document-service/internal/revocation"
	"github.com/egi-ims/document-service/internal/server"
	"github.com/egi-ims/document-service/pkg/logger"
	"github.com/egi-ims/document-service/pkg/metrics"
	"github.com/egi-ims/document-service/pkg/middleware"
)

const mongoConnectAttempts = 5

func main() {
	// LOG_LEVEL: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: keycloak=%v mongo=%v redis=%v relocation=%s",
		cfg.Keycloak.URL != "", cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.Google.Relocation)

	ctx := context.Background()

	var rdb *redis.Client
	if cfg.Redis.Host != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
		} else {
			logger.Infof("Connected to Redis: %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
		defer rdb.Close()
	}

	var (
		mongoClient *mongo.Client
		trail       audit.Repository = audit.NewMemoryRepo(audit.DefaultMemoryCapacity)
	)
	if cfg.MongoDB.URI != "" {
		mongoClient, err = database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, mongoConnectAttempts)
		if err != nil {
			logger.Warnf("could not connect to MongoDB, keeping audit trail in memory: %v", err)
		} else {
			defer func() { _ = mongoClient.Disconnect(context.Background()) }()
			col := mongoClient.Database(cfg.MongoDB.Database).Collection("audit")
			repo, err := audit.NewMongoRepo(ctx, col)
			if err != nil {
				logger.Warnf("cannot prepare audit collection, keeping audit trail in memory: %v", err)
			} else {
				trail = repo
				logger.Infof("audit trail stored in MongoDB (%s.audit)", cfg.MongoDB.Database)
			}
		}
	}

	verifier := newVerifier(ctx, cfg)

	factory := gdrive.NewFactory(cfg.Google, afero.NewOsFs())
	if err := factory.CheckCredentials(); err != nil {
		logger.Warnf("Google credentials not usable yet (%s): %v", cfg.Google.CredentialsFile, err)
	}

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)

	router := server.NewRouter(server.Deps{
		Config:      cfg,
		Documents:   service.New(factory, cfg.Google),
		Credentials: factory,
		Verifier:    verifier,
		Revocations: revocation.NewStore(rdb),
		Audit:       trail,
		Redis:       rdb,
		Mongo:       mongoClient,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Infof("Starting document service on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
}

// newVerifier picks Keycloak, then the shared JWT secret, then the insecure
// verifier when explicitly allowed. nil means /docs rejects every request.
func newVerifier(ctx context.Context, cfg *config.Config) middleware.Verifier {
	if cfg.Keycloak.URL != "" {
		issuer := oidc.KeycloakIssuer(cfg.Keycloak.URL, cfg.Keycloak.Realm)
		ver, err := oidc.NewVerifier(ctx, issuer, cfg.Keycloak.ClientID)
		if err == nil {
			logger.Infof("verifying tokens issued by %s", issuer)
			return ver
		}
		logger.Warnf("failed to initialize OIDC verifier: %v", err)
	}
	if cfg.JWT.Secret != "" {
		ver, err := oidc.NewHMACVerifier(cfg.JWT.Secret)
		if err == nil {
			logger.Info("verifying HS256 tokens signed with JWT_SECRET")
			return ver
		}
		logger.Warnf("failed to initialize HMAC verifier: %v", err)
	}
	if cfg.Auth.AllowInsecureToken {
		logger.Warn("enabling insecure token verifier (integration mode)")
		return oidc.NewInsecureVerifier()
	}
	return nil
}
