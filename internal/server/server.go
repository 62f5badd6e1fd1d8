package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mutazsaeed/fitzy/internal/clock"
	"github.com/mutazsaeed/fitzy/internal/config"
	"github.com/mutazsaeed/fitzy/internal/identity"
	"github.com/mutazsaeed/fitzy/internal/observability/metrics"
	reportdomain "github.com/mutazsaeed/fitzy/internal/report/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	metrics.Module,
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

type EngineParams struct {
	fx.In

	Log         *zap.Logger
	HTTPMetrics *metrics.HTTPMetrics
}

func NewEngine(p EngineParams) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(p.Log.Named("http")))
	r.Use(metrics.GinMiddleware(p.HTTPMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine  *gin.Engine
	cfg     config.Config
	log     *zap.Logger
	clock   clock.Clock
	reports reportdomain.Service
}

type ServerParams struct {
	fx.In

	Gin     *gin.Engine
	Cfg     config.Config
	Log     *zap.Logger
	Clock   clock.Clock
	Reports reportdomain.Service
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:  p.Gin,
		cfg:     p.Cfg,
		log:     p.Log.Named("server"),
		clock:   p.Clock,
		reports: p.Reports,
	}

	s.registerReportingRoutes()

	return s
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerReportingRoutes() {
	api := s.engine.Group("/api/v1", identity.Middleware(s.cfg.AuthJWTSecret))
	reporting := api.Group("/reporting")

	platform := reporting.Group("", identity.RequirePlatform())
	platform.GET("/overview", s.GetPlatformOverview)
	platform.GET("/top-gyms", s.GetTopGyms)
	platform.GET("/plan-usage", s.GetPlanUsage)
	platform.GET("/reconciliation", s.GetReconciliation)
	platform.GET("/reconciliation/export/csv", s.ExportReconciliationCSV)
	platform.GET("/reconciliation/export/pdf", s.ExportReconciliationPDF)

	gymScoped := reporting.Group("", identity.RequireGymScope(gymIDFromQuery))
	gymScoped.GET("/gym-hourly-heatmap", s.GetGymHourlyHeatmap)
	gymScoped.GET("/gym-branch-daily", s.GetGymBranchDaily)

	gymAdmin := reporting.Group("/gym-admin/:gymId", identity.RequireGymScope(gymIDFromPath))
	gymAdmin.GET("/today", s.GetGymToday)
	gymAdmin.GET("/range", s.GetGymRange)
	gymAdmin.GET("/top-users", s.GetGymTopUsers)

	users := reporting.Group("/users/:userId", identity.RequireSelf(userIDFromPath))
	users.GET("/visits", s.GetMyVisits)
	users.GET("/subscription/remaining", s.GetSubscriptionRemaining)
}

func gymIDFromQuery(c *gin.Context) int64 {
	id, _ := strconv.ParseInt(c.Query("gymId"), 10, 64)
	return id
}

func gymIDFromPath(c *gin.Context) int64 {
	id, _ := strconv.ParseInt(c.Param("gymId"), 10, 64)
	return id
}

func userIDFromPath(c *gin.Context) int64 {
	id, _ := strconv.ParseInt(c.Param("userId"), 10, 64)
	return id
}
