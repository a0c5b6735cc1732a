package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/Deceus/devconnect/internal/auth"
	"github.com/Deceus/devconnect/internal/cache"
	"github.com/Deceus/devconnect/internal/config"
	"github.com/Deceus/devconnect/internal/http/handlers"
	"github.com/Deceus/devconnect/internal/http/middlewares"
	"github.com/Deceus/devconnect/internal/observability"
	"github.com/Deceus/devconnect/internal/queue"
	"github.com/Deceus/devconnect/internal/repo/postgres"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const maxRequestBody = 1 << 20 // 1 MiB

func NewRouter(cfg config.Config, log *slog.Logger, pool *pgxpool.Pool, rdb *redis.Client) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// metrics registry for this process
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := observability.NewProm(reg)

	// middleware
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("devconnect-api"))
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middlewares.RequireJSON())
	r.Use(middlewares.MaxBodyBytes(maxRequestBody))
	r.Use(prom.GinHandleMiddleware())

	// health
	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// wire up repositories
	usersRepo := postgres.NewUsersRepo(pool, prom)
	profilesRepo := postgres.NewProfilesRepo(pool, prom)

	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	authMw := middlewares.NewAuthMiddleware(jwtManager)

	producer := queue.NewProducer(rdb)
	listCache := cache.New(30 * time.Second)

	usersHandler := handlers.NewUsersHandler(usersRepo, usersRepo, jwtManager, producer, log)
	profilesHandler := handlers.NewProfilesHandler(profilesRepo, usersRepo, producer, listCache, log)

	// registration and login take the brunt of abusive traffic
	loginLimiter := middlewares.NewRateLimiter(10, time.Minute)

	api := r.Group("/api")

	users := api.Group("/users")
	users.POST("/register", loginLimiter.RateLimiterMiddleware(middlewares.KeyByIP), usersHandler.Register)
	users.POST("/login", loginLimiter.RateLimiterMiddleware(middlewares.KeyByIP), usersHandler.Login)
	users.GET("/current", authMw.RequireAuth(), usersHandler.Current)

	profiles := api.Group("/profile")
	profiles.GET("", authMw.RequireAuth(), profilesHandler.GetMine)
	profiles.POST("", authMw.RequireAuth(), profilesHandler.Upsert)
	profiles.DELETE("", authMw.RequireAuth(), profilesHandler.DeleteAccount)
	profiles.GET("/all", profilesHandler.ListAll)
	profiles.GET("/handle/:handle", profilesHandler.GetByHandle)
	profiles.GET("/user/:user_id", profilesHandler.GetByUserID)
	profiles.POST("/experience", authMw.RequireAuth(), profilesHandler.AddExperience)
	profiles.DELETE("/experience/:exp_id", authMw.RequireAuth(), profilesHandler.RemoveExperience)
	profiles.POST("/education", authMw.RequireAuth(), profilesHandler.AddEducation)
	profiles.DELETE("/education/:edu_id", authMw.RequireAuth(), profilesHandler.RemoveEducation)

	return r
}
