package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"statuslist/internal/platform/awsclient"
	"statuslist/internal/platform/config"
	"statuslist/internal/platform/health"
	"statuslist/internal/platform/kafka"
	"statuslist/internal/platform/kafka/producer"
	redisclient "statuslist/internal/platform/redis"
	"statuslist/internal/platform/tracer"
	"statuslist/internal/statuslist/events"
	"statuslist/internal/statuslist/handler"
	"statuslist/internal/statuslist/jwks"
	"statuslist/internal/statuslist/metrics"
	"statuslist/internal/statuslist/objectstore"
	"statuslist/internal/statuslist/registry"
	"statuslist/internal/statuslist/service"
	"statuslist/internal/statuslist/signature"
	"statuslist/internal/statuslist/signer"
	httptransport "statuslist/internal/transport/http"
	"statuslist/pkg/platform/middleware/request"
)

const poolStatsInterval = 15 * time.Second

// keySigner is what both signer backends provide.
type keySigner interface {
	signature.Signer
	jwks.KeySource
}

type app struct {
	router    http.Handler
	publisher *jwks.Publisher
	closers   []func()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func buildApp(ctx context.Context, cfg config.Config, log *slog.Logger, reg *prometheus.Registry) (*app, error) {
	a := &app{}
	ok := false
	defer func() {
		if !ok {
			a.close()
		}
	}()

	statusRegistry := registry.Default()
	if cfg.RegistryFile != "" {
		loaded, err := registry.LoadFile(cfg.RegistryFile)
		if err != nil {
			return nil, err
		}
		statusRegistry = loaded
	}

	healthHandler := health.New(cfg.Server.Environment, health.WithLogger(log))

	var clients *awsclient.Clients
	if cfg.Signer == config.SignerKMS || cfg.Storage == config.StorageS3 {
		awsCfg, err := awsclient.Load(ctx, cfg.AWS)
		if err != nil {
			return nil, err
		}
		clients = awsclient.New(awsCfg, cfg.AWS)
	}

	keys, err := buildSigner(cfg, clients)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg, clients, reg, healthHandler, a)
	if err != nil {
		return nil, err
	}

	m := metrics.New(reg)
	t := tracer.NewOTel()

	publisher := events.Publisher(events.NoopPublisher{})
	if cfg.Kafka.Enabled() {
		prod, err := producer.New(kafka.DefaultProducerConfig(cfg.Kafka.Brokers), log)
		if err != nil {
			return nil, fmt.Errorf("create kafka producer: %w", err)
		}
		a.closers = append(a.closers, func() { prod.Close(5 * time.Second) })
		publisher = events.NewKafkaPublisher(prod, cfg.Kafka.Topic, log)

		checker := kafka.NewHealthChecker(cfg.Kafka.Brokers)
		healthHandler.RegisterCheck(checker.Name(), checker.Check)
	}

	svc, err := service.New(statusRegistry, signature.NewAdapter(keys, signature.WithAdapterLogger(log)), store,
		service.Config{KeyID: cfg.SigningKeyID, Bucket: cfg.StatusListBucket, SelfURL: cfg.SelfURL},
		service.WithLogger(log),
		service.WithMetrics(m),
		service.WithTracer(t),
		service.WithEvents(publisher),
	)
	if err != nil {
		return nil, err
	}

	// a nil *jwks.Publisher must not reach the handler as a non-nil interface
	var jwksRoute handler.JWKSPublisher
	if cfg.JWKSBucket != "" {
		a.publisher = jwks.NewPublisher(keys, store, cfg.SigningKeyID, cfg.JWKSBucket,
			jwks.WithLogger(log),
			jwks.WithMetrics(m),
			jwks.WithTracer(t),
		)
		jwksRoute = a.publisher
	}

	a.router = httptransport.NewRouter(httptransport.RouterDeps{
		StatusList: handler.New(svc, jwksRoute, log),
		Health:     healthHandler,
		Logger:     log,
		Latency:    request.NewMetrics(reg),
		Gatherer:   reg,
	})

	ok = true
	return a, nil
}

func buildSigner(cfg config.Config, clients *awsclient.Clients) (keySigner, error) {
	switch cfg.Signer {
	case config.SignerLocal:
		var (
			local *signer.Local
			err   error
		)
		if cfg.SigningKey != "" {
			local, err = signer.LoadLocal(cfg.SigningKey)
		} else {
			local, err = signer.NewLocal()
		}
		if err != nil {
			return nil, err
		}
		return local, nil
	default:
		return signer.NewKMS(clients.KMS), nil
	}
}

func buildStore(ctx context.Context, cfg config.Config, clients *awsclient.Clients, reg prometheus.Registerer, h *health.Handler, a *app) (objectstore.ObjectStore, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		return objectstore.NewMemoryStore(), nil
	case config.StorageRedis:
		client, err := redisclient.New(ctx, cfg.Redis, reg)
		if err != nil {
			return nil, err
		}
		statsCtx, cancel := context.WithCancel(context.Background())
		go client.RunPoolStats(statsCtx, poolStatsInterval)
		a.closers = append(a.closers, func() {
			cancel()
			_ = client.Close()
		})
		h.RegisterCheck("redis", client.Health)
		return objectstore.NewRedisStore(client.Client), nil
	default:
		return objectstore.NewS3Store(clients.S3), nil
	}
}
