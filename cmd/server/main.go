package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restaurant_gateway/internal/config"
	"restaurant_gateway/internal/middleware"
	"restaurant_gateway/internal/repositories"
	"restaurant_gateway/internal/router"
	"restaurant_gateway/internal/session"
	"restaurant_gateway/pkg/metrics"
	"restaurant_gateway/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Initialize Logger with defaults until the config is read
	utils.InitLogger("info", "console")

	if err := godotenv.Load(); err != nil {
		utils.LogWarn(nil, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		utils.LogError(err, "Failed to load config")
		os.Exit(1)
	}
	utils.InitLogger(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.New(registry)

	validator, err := utils.NewTokenValidator(cfg.JWTSecret)
	if err != nil {
		utils.LogError(err, "Failed to create token validator")
		os.Exit(1)
	}

	api, err := repositories.NewAPIClient(cfg.BackendBaseURL, cfg.BackendTimeout, recorder)
	if err != nil {
		utils.LogError(err, "Failed to create backend client")
		os.Exit(1)
	}

	var store session.Store
	if cfg.SessionStore == config.SessionStoreRedis {
		redisStore, err := session.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			utils.LogError(err, "Failed to connect to redis session store")
			os.Exit(1)
		}
		defer func() {
			if err := redisStore.Close(); err != nil {
				utils.LogError(err, "Error closing redis")
			}
		}()
		store = redisStore
		utils.LogInfo("Sessions persisted to redis")
	}
	sessions := session.NewManager(store, cfg.SessionTTL, recorder)
	go sessions.RunJanitor(ctx, time.Minute)

	gin.SetMode(utils.Getenv("GIN_MODE", gin.ReleaseMode))
	engine := gin.New()
	engine.Use(gin.Recovery())

	// Add GinLogger middleware for request logging
	engine.Use(utils.GinLogger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.AllowCredentials = true
	engine.Use(cors.New(corsConfig))

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	router.Setup(engine, router.Deps{
		API:       api,
		Location:  cfg.Location(),
		Validator: validator,
		Sessions:  sessions,
		Cookie: middleware.SessionCookie{
			Name:   cfg.SessionCookie,
			TTL:    cfg.SessionTTL,
			Secure: cfg.SessionSecure,
		},
		Recorder: recorder,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.LogInfo("Server starting", map[string]interface{}{
			"port":        cfg.Port,
			"backend":     cfg.BackendBaseURL,
			"session":     cfg.SessionStore,
			"time_zone":   cfg.RestaurantTimezone,
			"cors_origin": cfg.CORSAllowedOrigins,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.LogError(err, "Failed to start server")
			stop()
		}
	}()

	<-ctx.Done()
	utils.LogInfo("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		utils.LogError(err, "Server shutdown failed")
	}
}
