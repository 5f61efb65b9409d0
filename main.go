package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rifathmfm/portfolio-api/handlers"
	"github.com/rifathmfm/portfolio-api/internal/config"
	"github.com/rifathmfm/portfolio-api/internal/content/handler"
	contentrepo "github.com/rifathmfm/portfolio-api/internal/content/repository"
	"github.com/rifathmfm/portfolio-api/internal/content/service"
	"github.com/rifathmfm/portfolio-api/internal/database"
	"github.com/rifathmfm/portfolio-api/internal/editor"
	"github.com/rifathmfm/portfolio-api/internal/oidc"
	"github.com/rifathmfm/portfolio-api/internal/sessions"
	"github.com/rifathmfm/portfolio-api/internal/storage"
	"github.com/rifathmfm/portfolio-api/internal/users"
	"github.com/rifathmfm/portfolio-api/pkg/logger"
	"github.com/rifathmfm/portfolio-api/pkg/metrics"
	"github.com/rifathmfm/portfolio-api/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// logging first (LOG_LEVEL env: debug|info|warn|error|fatal)
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: oidc=%v mongo=%v redis=%v", cfg.OIDC.URL != "", cfg.MongoDB.URI != "", cfg.Redis.Host != "")

	r := gin.New()

	// Lightweight CORS middleware for dev/test: set common headers and respond to OPTIONS.
	// (Keep this intentionally simple — production should use a stricter policy.)
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	})

	r.Use(gin.Logger(), gin.Recovery())

	ctx := context.Background()

	// Connect to Redis early so the blacklist, draft store and rate limiter can use it
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			sessions.SetBlacklistClient(redisClient)
			logger.Infof("Connected to Redis at %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// OIDC verifier for the admin session
	var verifier middleware.Verifier
	if cfg.OIDC.URL != "" && cfg.OIDC.ClientID != "" && cfg.OIDC.Realm != "" {
		issuer := strings.TrimRight(cfg.OIDC.URL, "/") + "/realms/" + cfg.OIDC.Realm
		if ver, err := oidc.NewVerifier(ctx, issuer, cfg.OIDC.ClientID); err != nil {
			logger.Warnf("failed to initialize OIDC verifier: %v", err)
		} else {
			verifier = ver
		}
	}
	if verifier == nil && strings.EqualFold(strings.TrimSpace(os.Getenv("ALLOW_INSECURE_TOKEN")), "true") {
		logger.Warn("enabling insecure OIDC verifier (integration mode)")
		verifier = oidc.NewInsecureVerifier()
	}

	// MongoDB: content repository plus user/session services. Falls back to
	// in-memory content storage when no database is reachable.
	var mongoClient *mongo.Client
	var contentRepository contentrepo.Repository
	var userSvc *users.Service
	var sessionsSvc *sessions.Service

	if redisClient != nil {
		sessionsSvc = sessions.NewService(sessions.NewRedisRepository(redisClient, "session:"))
		logger.Infof("Using Redis for session storage")
	}

	if cfg.MongoDB.URI != "" {
		// retry with backoff to tolerate startup races
		const maxAttempts = 5
		backoff := time.Second
		var errConn error
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			mongoClient, errConn = database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
			if errConn == nil {
				break
			}
			logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, errConn)
			if attempt < maxAttempts {
				time.Sleep(backoff)
				backoff *= 2
			}
		}
		if errConn != nil {
			logger.Warnf("could not connect to MongoDB after %d attempts: %v", maxAttempts, errConn)
		} else {
			defer func() { _ = mongoClient.Disconnect(ctx) }()
			db := mongoClient.Database(cfg.MongoDB.Database)
			contentRepository = contentrepo.NewMongoRepo(db)
			userSvc = users.NewService(users.NewMongoUserRepository(db.Collection("users")))
			if sessionsSvc == nil {
				sessionsSvc = sessions.NewService(sessions.NewMongoRepository(db.Collection("sessions")))
			}
		}
	}
	if contentRepository == nil {
		logger.Warn("no MongoDB available, content is stored in memory only")
		contentRepository = contentrepo.NewMemoryRepo()
	}

	// Blob store for section images
	var blob storage.BlobStore
	if mcfg := storage.LoadMinIOConfig(); mcfg.Endpoint != "" {
		s, err := storage.NewMinIOStorage(mcfg)
		if err != nil {
			logger.Warnf("minio unavailable, storing images in memory: %v", err)
		} else {
			blob = s
		}
	}
	if blob == nil {
		blob = storage.NewMemoryStorage()
	}

	// Draft store: Redis survives restarts, memory otherwise
	var drafts editor.DraftStore
	if redisClient != nil {
		drafts = editor.NewRedisDraftStore(redisClient, "draft:")
	} else {
		drafts = editor.NewMemoryDraftStore()
	}

	contentSvc := service.New(contentRepository)
	syncer := service.NewSyncer(contentSvc)
	syncer.RefreshAll(ctx)
	ed := editor.New(contentSvc, syncer, blob, drafts)
	deletes := editor.NewDeleteFlow(contentSvc, syncer)

	// Basic health endpoint
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness: 200 only when critical dependencies are available
	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{}

		deps["content"] = contentRepository != nil
		deps["sessions"] = sessionsSvc != nil
		if sessionsSvc == nil {
			ready = false
		}
		if cfg.OIDC.URL != "" {
			deps["oidc"] = verifier != nil
			if verifier == nil {
				ready = false
			}
		} else {
			deps["oidc"] = true
		}
		if cfg.Redis.Host != "" && cfg.RateLimit.UseRedis {
			deps["redis"] = redisClient != nil
			if redisClient == nil {
				ready = false
			}
		} else {
			deps["redis"] = true
		}

		status := http.StatusOK
		state := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			state = "not_ready"
		}
		c.JSON(status, gin.H{"status": state, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	// Auth handlers need both user and session services
	if userSvc != nil && sessionsSvc != nil {
		h := handlers.NewAuthHandler(cfg, userSvc, sessionsSvc)
		h.Register(r.Group("/"))
	} else {
		logger.Warnf("auth handlers not registered because user/sessions services are unavailable")
	}

	handlers.RegisterSwagger(r)

	requireAuth := middleware.AuthMiddleware(verifier)
	if verifier == nil {
		requireAuth = func(c *gin.Context) {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "auth not configured"})
		}
	}
	optionalAuth := middleware.OptionalAuthMiddleware(verifier)

	api := r.Group("/api/v1")
	handler.New(syncer, ed, deletes).Register(api, requireAuth, optionalAuth)
	handlers.RegisterProfileRoutes(api, requireAuth, cfg.MongoDB.URI, cfg.MongoDB.Database)
	handlers.InitProfile(ctx)

	if verifier != nil {
		api.GET("/me", middleware.AuthMiddleware(verifier), func(c *gin.Context) {
			claims, _ := c.Get("claims")
			if userSvc != nil {
				if cm, ok := claims.(map[string]interface{}); ok {
					if u, err := userSvc.UpsertFromClaims(c.Request.Context(), cm); err == nil && u != nil {
						c.JSON(http.StatusOK, gin.H{"user": u})
						return
					}
				}
			}
			c.JSON(http.StatusOK, gin.H{"claims": claims})
		})
	} else {
		api.GET("/me", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "OIDC not configured"})
		})
	}

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("Starting portfolio service on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
