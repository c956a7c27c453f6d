package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"library-acquisition/backend/config"
	"library-acquisition/backend/internal/analysis"
	"library-acquisition/backend/internal/handler"
	"library-acquisition/backend/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const shutdownTimeout = 10 * time.Second

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	config.LoadEnvFile()
	cfg := config.Load()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	log.Info().Str("env", cfg.Env).Str("model", cfg.Model).Msg("starting library acquisition analyzer")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	analyzer, err := analysis.NewGemini(ctx, analysis.Config{
		APIKey:   cfg.APIKey,
		Model:    cfg.Model,
		Language: cfg.Language,
	}, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create analyzer")
	}
	if !analyzer.Ready() {
		log.Warn().Msg("GEMINI_API_KEY is not set, analysis requests will fail")
	}

	h := handler.New(analyzer)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())

	allowedOrigins := []string{}
	if gin.Mode() != gin.ReleaseMode {
		allowedOrigins = append(allowedOrigins, "http://localhost:5173")
	}
	if cfg.CloudRunURL != "" {
		allowedOrigins = append(allowedOrigins, cfg.CloudRunURL)
	}
	allowedOrigins = append(allowedOrigins, cfg.AllowedOrigins...)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	ipLimiter := middleware.NewIPRateLimiter(rate.Every(cfg.RateLimitInterval), cfg.RateLimitBurst)
	dailyQuota := middleware.NewDailyQuota(cfg.DailyQuota)
	log.Info().
		Dur("interval", cfg.RateLimitInterval).
		Int("burst", cfg.RateLimitBurst).
		Int64("dailyQuota", cfg.DailyQuota).
		Msg("rate limiting enabled")

	// Health check endpoints (outside /api group, no rate limiting)
	r.GET("/health", h.HandleHealth)
	r.GET("/ready", h.HandleReadiness)

	api := r.Group("/api")
	{
		api.POST("/analysis", middleware.RateLimitMiddleware(ipLimiter, dailyQuota), h.HandleAnalyze)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Strs("allowedOrigins", allowedOrigins).Msg("server ready")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
