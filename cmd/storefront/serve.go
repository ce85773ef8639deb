package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/buttg/gateway"
	"github.com/example/buttg/pkg/cart"
	"github.com/example/buttg/pkg/config"
	"github.com/example/buttg/pkg/discovery"
	"github.com/example/buttg/pkg/events"
	grpcserver "github.com/example/buttg/pkg/grpc"
	"github.com/example/buttg/pkg/notify"
	"github.com/example/buttg/pkg/order"
	"github.com/example/buttg/pkg/repository"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP storefront and gRPC health server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		defer logger.Sync()

		return serve(cfg, logger)
	},
}

func serve(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting storefront",
		zap.String("name", cfg.Server.Name),
		zap.String("http", cfg.HTTP.Addr()),
		zap.Int("grpc_port", cfg.Server.Port))

	cat, err := openCatalog(cfg.Catalog)
	if err != nil {
		return err
	}

	health := grpcserver.NewHealthServer(&cfg.Server, logger.Named("grpc"))

	storage, closeStorage := cartStorage(ctx, cfg, logger, health)
	defer closeStorage()
	carts := cart.NewStore(storage, cfg.Cart.KeyPrefix, logger.Named("cart"))

	mailer, err := notify.NewSMTPMailer(cfg.SMTP)
	if err != nil {
		return err
	}
	dispatcher, err := notify.NewDispatcher(mailer, notify.DefaultRetryPolicy(), cfg.SMTP.DispatchTimeout, logger.Named("notify"))
	if err != nil {
		return err
	}
	defer dispatcher.Close()

	opts, closeBackends, err := orderBackends(ctx, cfg, logger, health)
	if err != nil {
		return err
	}
	defer closeBackends()

	orders := order.NewService(order.Settings{
		RestaurantName:    cfg.Restaurant.Name,
		RestaurantEmail:   cfg.RestaurantAddress(),
		RestaurantAddress: cfg.Restaurant.Address,
		RestaurantPhone:   cfg.Restaurant.Phone,
		DeliveryFee:       cfg.Restaurant.DeliveryFee,
		OrderPrefix:       cfg.Restaurant.OrderPrefix,
	}, dispatcher, logger.Named("order"), opts...)

	gw := gateway.NewGateway(cfg, logger.Named("gateway"), cat, carts, orders)
	gw.SetupRoutes()

	serverErr := make(chan error, 2)
	go func() {
		if err := gw.Start(); err != nil {
			serverErr <- fmt.Errorf("http: %w", err)
		}
	}()
	go func() {
		if err := health.Start(); err != nil {
			serverErr <- fmt.Errorf("grpc: %w", err)
		}
	}()
	health.SetServing("", true)

	instance := &discovery.ServiceInstance{
		Name: cfg.Server.Name,
		Host: advertiseHost(cfg.HTTP, os.Hostname),
		Port: cfg.HTTP.Port,
	}
	sd := register(ctx, cfg, logger, instance)

	logger.Info("Storefront started successfully")

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	case runErr = <-serverErr:
		logger.Error("Server error", zap.Error(runErr))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if sd != nil {
		if err := sd.Deregister(shutdownCtx, instance); err != nil {
			logger.Error("Failed to deregister service", zap.Error(err))
		}
		sd.Close()
	}
	if err := gw.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown failed", zap.Error(err))
	}
	health.Stop()

	logger.Info("Storefront stopped")
	return runErr
}

func cartStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger, health *grpcserver.HealthServer) (cart.Storage, func()) {
	if cfg.Cart.Storage != "redis" {
		return cart.NewMemoryStorage(), func() {}
	}

	rs := repository.NewRedisCartStorage(repository.NewRedisClient(&cfg.Redis), cfg.Cart.TTL)
	if err := rs.Ping(ctx); err != nil {
		logger.Warn("Redis connection failed", zap.Error(err))
		health.SetServing("redis", false)
	} else {
		logger.Info("Redis connected successfully")
		health.SetServing("redis", true)
	}
	return rs, func() { rs.Close() }
}

// orderBackends wires the optional order record, proof archive, event and
// audit backends. Each one is skipped when it is not configured.
func orderBackends(ctx context.Context, cfg *config.Config, logger *zap.Logger, health *grpcserver.HealthServer) ([]order.Option, func(), error) {
	var (
		opts    []order.Option
		closers []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.Database.Driver != "" {
		db, err := repository.OpenDatabase(&cfg.Database)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		opts = append(opts, order.WithRecorder(repository.NewOrderRepository(db)))
		if sqlDB, err := db.DB(); err == nil {
			closers = append(closers, func() { sqlDB.Close() })
		}
		health.SetServing("database", true)
		logger.Info("Order records enabled", zap.String("driver", cfg.Database.Driver))
	}

	if cfg.S3.Bucket != "" {
		archive, err := repository.NewS3ProofArchive(ctx, cfg.S3)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		opts = append(opts, order.WithArchiver(archive))
		logger.Info("Payment proof archive enabled", zap.String("bucket", cfg.S3.Bucket))
	}

	if len(cfg.Kafka.Brokers) > 0 {
		publisher := events.NewKafkaPublisher(cfg.Kafka)
		opts = append(opts, order.WithPublisher(publisher))
		closers = append(closers, func() {
			if err := publisher.Close(); err != nil {
				logger.Warn("Failed to close kafka writer", zap.Error(err))
			}
		})
		logger.Info("Order events enabled", zap.String("topic", cfg.Kafka.Topic))
	}

	if cfg.MongoDB.URI != "" {
		mongoRepo, err := repository.NewMongoRepository(&cfg.MongoDB, cfg.Server.Name)
		if err != nil {
			logger.Warn("MongoDB connection failed, audit log disabled", zap.Error(err))
		} else {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := mongoRepo.Ping(pingCtx)
			cancel()
			if err == nil {
				err = mongoRepo.EnsureIndexes(ctx)
			}
			if err != nil {
				logger.Warn("MongoDB not ready", zap.Error(err))
			}
			health.SetServing("mongodb", err == nil)
			opts = append(opts, order.WithAuditor(mongoRepo))
			closers = append(closers, func() { mongoRepo.Close(context.Background()) })
		}
	}

	return opts, closeAll, nil
}

// advertiseHost is the address other services dial. A wildcard listen address
// is replaced by the machine's hostname.
func advertiseHost(cfg config.HTTPConfig, hostname func() (string, error)) string {
	if cfg.AdvertiseHost != "" {
		return cfg.AdvertiseHost
	}
	switch cfg.Host {
	case "", "0.0.0.0", "::", "[::]":
		if name, err := hostname(); err == nil && name != "" {
			return name
		}
		return "127.0.0.1"
	}
	return cfg.Host
}

func register(ctx context.Context, cfg *config.Config, logger *zap.Logger, instance *discovery.ServiceInstance) *discovery.ServiceDiscovery {
	if len(cfg.Etcd.Endpoints) == 0 {
		return nil
	}

	sd, err := discovery.NewServiceDiscovery(&cfg.Etcd, logger.Named("discovery"))
	if err != nil {
		logger.Warn("Failed to connect to etcd, continuing without service discovery", zap.Error(err))
		return nil
	}
	if err := sd.Register(ctx, instance); err != nil {
		if !errors.Is(err, context.Canceled) {
			logger.Warn("Failed to register service", zap.Error(err))
		}
		sd.Close()
		return nil
	}

	logger.Info("Service registered in etcd",
		zap.String("name", instance.Name),
		zap.String("address", instance.Addr()))
	return sd
}
