package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"mesaYaReservas/internal/bootstrap"
	"mesaYaReservas/internal/config"
	rtdomain "mesaYaReservas/internal/modules/realtime/domain"
	realtime "mesaYaReservas/internal/modules/realtime/interface"
	"mesaYaReservas/internal/modules/reservations/domain"
	reservations "mesaYaReservas/internal/modules/reservations/interface"
	"mesaYaReservas/internal/platform/broker"
	"mesaYaReservas/internal/shared/auth"
	"mesaYaReservas/internal/shared/httputil"
	"mesaYaReservas/internal/shared/logging"
)

const feedSnapshotSize = 10

func main() {
	// Attempt to load variables from .env so local runs honour configuration tweaks.
	if err := godotenv.Overload(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, ".env load warning: %v\n", err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	logFile, logger, err := logging.Setup(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: true,
		Directory: cfg.Logging.Directory,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging setup error: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	slog.SetDefault(logger)
	slog.Info("logging initialized", slog.String("directory", cfg.Logging.Directory), slog.String("level", cfg.Logging.Level), slog.String("format", cfg.Logging.Format))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		slog.Error("bootstrap failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			slog.Warn("shutdown close errors", slog.Any("error", err))
		}
	}()

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.Logger.SetOutput(log.Writer())

	validator := auth.NewJWTValidator(cfg.Security.JWTSecret, cfg.Security.JWTPublicKey)

	api := e.Group("/api")
	admin := api.Group("/admin", httputil.RequireRoles(validator, cfg.Security.AdminRoles))
	reservations.NewHandler(app.Submit, app.Listing, app.Resolver).Register(api, admin)
	admin.POST("/notices", realtime.NewNoticeHTTPHandler(app.Broadcast))

	e.GET("/ws/bookings", realtime.NewFeedHandler(app.Hub, validator, realtime.FeedConfig{
		Entity:      domain.EventEntity,
		ExtraTopics: []string{rtdomain.CreatedTopic(realtime.NoticeEntity)},
		Roles:       cfg.Security.AdminRoles,
		Snapshot: func(ctx context.Context, date string) (any, error) {
			if date != "" {
				return app.Listing.Between(ctx, date, date)
			}
			return app.Snapshots.Get(ctx, domain.EventEntity, func(ctx context.Context) (any, error) {
				return app.Listing.Recent(ctx, feedSnapshotSize)
			})
		},
	}))
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"status":  "ok",
			"clients": app.Hub.ClientCount(),
		})
	})

	// Feed consumers
	switch cfg.Events.Driver {
	case config.EventsKafka:
		if cfg.Kafka.ConsumeFeed {
			broker.StartKafkaConsumers(ctx, app.Registry, cfg.Kafka.Brokers, broker.InstanceGroupID(cfg.Kafka.GroupID, cfg.Server.InstanceID))
		}
	case config.EventsAMQP:
		broker.StartAMQPConsumer(ctx, app.Registry, cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue)
	}

	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server stopped", slog.Any("error", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	slog.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Warn("http shutdown", slog.Any("error", err))
	}
}
