package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/happymap/happymap/backend/go-services/handlers"
	"github.com/happymap/happymap/backend/go-services/internal/config"
	"github.com/happymap/happymap/backend/go-services/internal/database"
	"github.com/happymap/happymap/backend/go-services/internal/orphanage/cache"
	"github.com/happymap/happymap/backend/go-services/internal/orphanage/handler"
	"github.com/happymap/happymap/backend/go-services/internal/orphanage/repository"
	"github.com/happymap/happymap/backend/go-services/internal/orphanage/service"
	"github.com/happymap/happymap/backend/go-services/internal/storage"
	"github.com/happymap/happymap/backend/go-services/pkg/logger"
	"github.com/happymap/happymap/backend/go-services/pkg/metrics"
	"github.com/happymap/happymap/backend/go-services/pkg/middleware"
)

var startTime = time.Now()

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: mongo=%v redis=%v minio=%v", cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.Storage.MinIO.Endpoint != "")
	if cfg.Map.TileToken == "" {
		logger.Warnf("MAPBOX_TOKEN not set; map clients will render without the tile layer")
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Lightweight CORS middleware for dev/test: set common headers and respond to OPTIONS.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	})

	ctx := context.Background()

	// Redis powers the listing cache and (optionally) the distributed rate limiter.
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v — continuing without listing cache", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			logger.Infof("connected to Redis at %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	if cfg.RateLimit.Enabled {
		win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
		if cfg.RateLimit.UseRedis && redisClient != nil {
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// Blob storage: MinIO when configured, local disk otherwise.
	var blobs storage.BlobStore
	var localStore *storage.LocalStore
	if cfg.Storage.MinIO.Endpoint != "" {
		minioStore, err := storage.NewMinIOStorage(cfg.Storage.MinIO)
		if err != nil {
			logger.Fatalf("minio storage init failed: %v", err)
		}
		blobs = minioStore
		logger.Infof("storing images in MinIO bucket %q", cfg.Storage.MinIO.Bucket)
	} else {
		localStore, err = storage.NewLocalStore(cfg.Storage.UploadsDir, cfg.Server.PublicURL)
		if err != nil {
			logger.Fatalf("local storage init failed: %v", err)
		}
		blobs = localStore
		r.Static("/uploads", localStore.Dir())
		logger.Infof("storing images under %s", localStore.Dir())
	}

	// Repository: Mongo when configured, memory otherwise. Retry/backoff
	// tolerates container startup races.
	var repo repository.Repository
	var mongoClient *mongo.Client
	if cfg.MongoDB.URI != "" {
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
			logger.Fatalf("could not connect to MongoDB after %d attempts: %v", maxAttempts, errConn)
		}
		defer func() { _ = mongoClient.Disconnect(ctx) }()
		repo = repository.NewMongoRepo(mongoClient.Database(cfg.MongoDB.Database).Collection("orphanages"))
		logger.Infof("using MongoDB database %q", cfg.MongoDB.Database)
	} else {
		repo = repository.NewMemoryRepo()
		logger.Warnf("MONGODB_URI not set; using in-memory repository (listings are lost on restart)")
	}

	var listCache *cache.ListCache
	if redisClient != nil {
		listCache = cache.NewListCache(redisClient, cfg.Redis.ListTTL)
	}

	svc := service.New(repo)
	handler.New(svc, listCache).Register(r, blobs)
	handlers.RegisterSwagger(r)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{"storage": blobs != nil}
		if cfg.MongoDB.URI != "" {
			deps["mongodb"] = mongoClient != nil && mongoClient.Ping(c.Request.Context(), nil) == nil
			ready = ready && deps["mongodb"]
		}
		if cfg.Redis.Host != "" {
			deps["redis"] = redisClient != nil && redisClient.Ping(c.Request.Context()).Err() == nil
			ready = ready && deps["redis"]
		}
		status := http.StatusOK
		state := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			state = "not_ready"
		}
		c.JSON(status, gin.H{"status": state, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Infof("listing service listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	stopCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-stopCtx.Done()

	logger.Infof("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
}
