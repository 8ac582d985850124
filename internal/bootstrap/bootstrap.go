package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"mesaYaReservas/internal/config"
	rthandler "mesaYaReservas/internal/modules/realtime/application/handler"
	rtusecase "mesaYaReservas/internal/modules/realtime/application/usecase"
	rtdomain "mesaYaReservas/internal/modules/realtime/domain"
	rtinfra "mesaYaReservas/internal/modules/realtime/infrastructure"
	"mesaYaReservas/internal/modules/reservations/application/port"
	"mesaYaReservas/internal/modules/reservations/application/usecase"
	"mesaYaReservas/internal/modules/reservations/domain"
	"mesaYaReservas/internal/modules/reservations/infrastructure"
	"mesaYaReservas/internal/platform/cache"
)

// Store is the full persistence surface used by the server and the CLI.
type Store interface {
	port.TableStore
	port.ReservationStore
	port.SettingsStore
	port.TableWriter
	port.SettingsWriter
	Close() error
}

type restStore struct {
	*infrastructure.PostgRESTStore
}

func (restStore) Close() error { return nil }

// OpenStore opens the backend selected by cfg.Store.Driver. The SQL backends
// apply their migrations before returning.
func OpenStore(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case config.StoreREST:
		rest := infrastructure.NewRESTClient(cfg.RESTBaseURL, cfg.RESTAPIKey, cfg.RESTTimeout, nil)
		return restStore{infrastructure.NewPostgRESTStore(rest)}, nil
	case config.StorePostgres:
		store, err := infrastructure.OpenPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.StoreSQLite:
		store, err := infrastructure.OpenSQLiteStore(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}
}

// App holds the wired components of the reservation service.
type App struct {
	Store     Store
	Settings  *infrastructure.CachedSettingsStore
	Resolver  *usecase.SettingsResolver
	Submit    *usecase.SubmitReservationUseCase
	Listing   *usecase.ListReservationsUseCase
	Hub       *rtinfra.Hub
	Registry  *rtinfra.HandlerRegistry
	Broadcast *rtusecase.BroadcastUseCase
	Snapshots *rtusecase.SnapshotCache

	closers []func() error
}

// New wires stores, caches, locks, publishers and the live feed from cfg.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	loc, err := cfg.Reservation.Location()
	if err != nil {
		return nil, err
	}

	store, err := OpenStore(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Driver, err)
	}
	app := &App{Store: store}
	app.closers = append(app.closers, store.Close)

	rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	if rdb != nil {
		app.closers = append(app.closers, rdb.Close)
	}

	app.Hub = rtinfra.NewHub()
	app.Registry = rtinfra.NewHandlerRegistry()
	app.Snapshots = rtusecase.NewSnapshotCache(cfg.Server.FeedSnapshotTTL)
	app.Broadcast = rtusecase.NewBroadcastUseCase(app.Snapshots.Observe(app.Hub))
	registerFeedHandlers(app.Registry, app.Broadcast, cfg)

	app.Settings = infrastructure.NewCachedSettingsStore(store, rdb, cfg.Redis.SettingsTTL)
	app.Resolver = usecase.NewSettingsResolver(app.Settings)

	opts := []usecase.Option{}
	publisher := app.buildPublisher(cfg)
	if publisher != nil {
		opts = append(opts, usecase.WithPublisher(publisher))
	}
	locker, err := buildLocker(cfg.Reservation, rdb)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	if locker != nil {
		opts = append(opts, usecase.WithDateLocker(locker))
	}

	app.Submit = usecase.NewSubmitReservationUseCase(app.Resolver, store, store, loc, opts...)
	app.Listing = usecase.NewListReservationsUseCase(store)

	slog.Info("reservation service wired",
		slog.String("store", cfg.Store.Driver),
		slog.String("events", cfg.Events.Driver),
		slog.String("lock", cfg.Reservation.LockDriver),
		slog.Bool("redis", rdb != nil),
		slog.String("timezone", loc.String()),
	)
	return app, nil
}

func registerFeedHandlers(registry *rtinfra.HandlerRegistry, broadcastUC *rtusecase.BroadcastUseCase, cfg config.Config) {
	actions := []string{rtdomain.ActionCreated}
	registry.Register(rthandler.NewEntityStreamHandler(domain.EventEntity, cfg.Kafka.Topic, actions, broadcastUC))
	if cfg.AMQP.Queue != "" && cfg.AMQP.Queue != cfg.Kafka.Topic {
		registry.Register(rthandler.NewEntityStreamHandler(domain.EventEntity, cfg.AMQP.Queue, actions, broadcastUC))
	}
}

func (a *App) buildPublisher(cfg config.Config) port.EventPublisher {
	local := rtinfra.NewLocalPublisher(a.Registry, cfg.Kafka.Topic)
	switch cfg.Events.Driver {
	case config.EventsLocal:
		return local
	case config.EventsKafka:
		kafka := infrastructure.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		a.closers = append(a.closers, kafka.Close)
		if cfg.Kafka.ConsumeFeed {
			return kafka
		}
		return infrastructure.MultiPublisher{kafka, local}
	case config.EventsAMQP:
		return infrastructure.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue)
	default:
		return nil
	}
}

func buildLocker(cfg config.ReservationConfig, rdb *redis.Client) (port.DateLocker, error) {
	switch cfg.LockDriver {
	case config.LockLocal:
		return infrastructure.NewLocalDateLocker(), nil
	case config.LockRedis:
		if rdb == nil {
			return nil, errors.New("redis reservation lock requires REDIS_ADDR")
		}
		return infrastructure.NewRedisDateLocker(rdb, cfg.LockTTL), nil
	default:
		return nil, nil
	}
}

// Close releases connections in reverse order of creation.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
