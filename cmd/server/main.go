package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/pflag"

	"statuslist/internal/platform/config"
	"statuslist/internal/platform/httpserver"
	"statuslist/internal/platform/logger"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal/statuslist.
func main() {
	flags := newFlags(pflag.ExitOnError)
	_ = flags.set.Parse(os.Args[1:])

	cfg, err := config.FromEnv(os.Getenv)
	if err != nil {
		logger.New(*flags.logLevel).Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	flags.apply(&cfg)

	log := logger.New(cfg.Server.LogLevel)
	log.Info("initializing statuslist",
		"addr", cfg.Server.Addr,
		"storage", cfg.Storage,
		"signer", cfg.Signer,
		"events", cfg.Kafka.Enabled(),
		"jwks", cfg.JWKSBucket != "",
		"local", cfg.AWS.IsLocal,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	a, err := buildApp(ctx, cfg, log, reg)
	if err != nil {
		log.Error("failed to build application", "error", err)
		os.Exit(1)
	}
	defer a.close()

	if a.publisher != nil {
		if _, err := a.publisher.Publish(ctx); err != nil {
			log.Warn("initial jwks publish failed", "error", err)
		}
	}

	srv := httpserver.New(cfg.Server.Addr, a.router)
	log.Info("starting http server", "addr", cfg.Server.Addr)
	if err := httpserver.Run(ctx, srv); err != nil {
		log.Error("server error", "error", err)
		a.close()
		os.Exit(1)
	}

	log.Info("server stopped")
}

type cliFlags struct {
	set          *pflag.FlagSet
	addr         *string
	registryFile *string
	logLevel     *string
}

func newFlags(handling pflag.ErrorHandling) *cliFlags {
	set := pflag.NewFlagSet("statuslist", handling)
	return &cliFlags{
		set:          set,
		addr:         set.String("addr", config.DefaultAddr, "listen address (overrides STATUS_LIST_ADDR)"),
		registryFile: set.String("registry-file", "", "YAML status list registry (overrides STATUS_LIST_REGISTRY_FILE)"),
		logLevel:     set.String("log-level", "info", "debug, info, warn or error (overrides LOG_LEVEL)"),
	}
}

// apply lets explicitly set flags win over the environment.
func (f *cliFlags) apply(cfg *config.Config) {
	if f.set.Changed("addr") {
		cfg.Server.Addr = *f.addr
	}
	if f.set.Changed("registry-file") {
		cfg.RegistryFile = *f.registryFile
	}
	if f.set.Changed("log-level") {
		cfg.Server.LogLevel = *f.logLevel
	}
}
