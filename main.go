package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bsm/redislock"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/solos-ag-ze/Painel-sub001/internal/api"
	"github.com/solos-ag-ze/Painel-sub001/internal/config"
	"github.com/solos-ag-ze/Painel-sub001/internal/database"
	"github.com/solos-ag-ze/Painel-sub001/internal/models"
	"github.com/solos-ag-ze/Painel-sub001/internal/repository"
	"github.com/solos-ag-ze/Painel-sub001/internal/services"
	"github.com/solos-ag-ze/Painel-sub001/internal/utils"
)

func main() {
	envErr := godotenv.Load()
	cfg := config.Load()
	setupLogger(cfg)

	if envErr != nil {
		log.Info().Msg(".env not found, using process environment")
	}
	log.Info().Str("database_url", redactURL(cfg.DatabaseURL)).Str("env", cfg.Environment).Msg("configuration loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer database.ClosePostgres(db)

	if err := models.AutoMigrate(db); err != nil {
		log.Error().Err(err).Msg("migration failed, continuing without forecast history")
	}

	// Redis is optional: without it the consumption cache stays in process
	// and every replica refreshes the forecast on its own.
	var (
		cache  services.ConsumptionCache = services.NewMemoryConsumptionCache(cfg.ConsumptionTTL, nil)
		locker *redislock.Client
	)
	if cfg.RedisURL != "" || len(cfg.RedisSentinelAddrs) > 0 {
		rdb, err := database.ConnectRedis(cfg.RedisURL, cfg.RedisSentinelAddrs, cfg.RedisMasterName)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, using in-memory consumption cache")
		} else {
			defer database.CloseRedis(rdb)
			redisClient := utils.NewRedisClient(rdb)
			cache = services.NewRedisConsumptionCache(redisClient, cfg.ConsumptionTTL)
			locker = redislock.New(redisClient.Raw())
		}
	}

	hub := api.NewHub()
	go hub.Run(ctx)

	stockService := services.NewStockService(repository.NewStockRepository(db), cache, hub)
	financeService := services.NewFinanceService(repository.NewFinanceRepository(db), nil)
	notificationService := services.NewNotificationService(repository.NewNotificationRepository(db), hub, nil)
	weatherClient := services.NewWeatherClient(cfg.WeatherLatitude, cfg.WeatherLongitude, cfg.WeatherTimezone)
	weatherService := services.NewWeatherService(weatherClient, repository.NewWeatherRepository(db), nil)

	go services.NewWeatherRefresher(weatherService, locker, hub, cfg.WeatherRefresh).Run(ctx)

	if cfg.KafkaBrokers != "" {
		consumer := api.NewLedgerEventConsumer(cfg.KafkaBrokers, cfg.KafkaLedgerTopic,
			cfg.KafkaUsername, cfg.KafkaPassword, cfg.KafkaCACert,
			stockService, notificationService, hub)
		consumer.Start(ctx)
		defer consumer.Stop()
	} else {
		log.Info().Msg("KAFKA_BROKERS not set, ledger events disabled")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), api.RequestLogger(), cors.New(corsConfig(cfg)))

	api.RegisterRoutes(r, api.Handlers{
		Stock:         api.NewStockController(stockService),
		Finance:       api.NewFinanceController(financeService),
		Weather:       api.NewWeatherController(weatherService),
		Notifications: api.NewNotificationController(notificationService),
		Dashboard:     api.NewDashboardController(services.NewDashboardService(stockService, financeService, weatherService)),
		Hub:           hub,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.ServerPort).Msg("painel listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}

// setupLogger installs a console writer outside production and applies LOG_LEVEL.
func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.DefaultConfig()
	switch {
	case cfg.IsProduction() && len(cfg.CORSAllowedOrigins) == 0:
		c.AllowOriginFunc = func(string) bool { return false }
	case cfg.IsProduction():
		c.AllowOrigins = cfg.CORSAllowedOrigins
	default:
		c.AllowAllOrigins = true
	}
	c.AddAllowHeaders(api.HeaderUserID, "Authorization")
	c.AddExposeHeaders("Content-Disposition")
	return c
}

// redactURL hides credentials before a connection string is logged.
func redactURL(raw string) string {
	at := strings.Index(raw, "@")
	scheme := strings.Index(raw, "://")
	if at > 0 && scheme > 0 && scheme < at {
		return raw[:scheme+3] + "***@" + raw[at+1:]
	}
	return raw
}
