// cmd/dosage-engine/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"mcp-dosage-safety/internal/catalog"
	"mcp-dosage-safety/internal/config"
	"mcp-dosage-safety/internal/engine"
	"mcp-dosage-safety/internal/events"
	"mcp-dosage-safety/internal/logger"
	"mcp-dosage-safety/internal/server"
	"mcp-dosage-safety/internal/storage"
)

const appVersion = "1.0.0"

var (
	port     = flag.Int("port", 0, "Port for HTTP transport (overrides HTTP_PORT)")
	host     = flag.String("host", "", "Host address (overrides HTTP_HOST)")
	address  = flag.String("address", "", "Address (alias for host)")
	dbPath   = flag.String("db-path", "", "Database path (overrides DB_PATH)")
	seedPath = flag.String("seed", "", "Catalog seed YAML (overrides CATALOG_SEED_PATH)")
	version  = flag.Bool("version", false, "Show version")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("mcp-dosage-safety version %s\n", appVersion)
		os.Exit(0)
	}

	bootLog := bootLogger(zap.NewProduction)
	cfg := config.Load(bootLog)
	applyFlags(&cfg)

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		bootLog.Fatal("failed to build logger", zap.Error(err))
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

// bootLogger covers config loading before the configured logger exists.
// A builder failure yields a no-op logger.
func bootLogger(build func(...zap.Option) (*zap.Logger, error)) *zap.Logger {
	l, err := build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "boot logger unavailable: %v\n", err)
		return zap.NewNop()
	}
	return l
}

func applyFlags(cfg *config.Config) {
	if *host != "" {
		cfg.Host = *host
	}
	if *address != "" {
		cfg.Host = *address
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *seedPath != "" {
		cfg.CatalogSeedPath = *seedPath
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.NewSQLiteStorage(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	if cfg.CatalogSeedPath != "" {
		if err := store.SeedFromYAML(ctx, cfg.CatalogSeedPath, log); err != nil {
			return fmt.Errorf("failed to seed catalog: %w", err)
		}
	}

	var lookup engine.Lookup = store
	if cfg.CatalogSource == config.CatalogRemote {
		lookup = catalog.NewRemoteCatalog(cfg.MCPProxyURL, cfg.MCPProxyAPIKey, cfg.CatalogServer)
		log.Info("using remote catalog", zap.String("proxy", cfg.MCPProxyURL), zap.String("server", cfg.CatalogServer))
	}

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopicAlert, log)
		log.Info("publishing high risk results", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopicAlert))
	}
	defer publisher.Close()

	srv, err := server.NewDosageServer(server.Config{
		Host:             cfg.Host,
		Port:             cfg.Port,
		RequestTimeout:   cfg.RequestTimeout,
		BatchConcurrency: cfg.BatchConcurrency,
		Version:          appVersion,
	}, server.Deps{
		Engine:    engine.New(lookup, engine.WithLogger(log)),
		Catalog:   lookup,
		History:   store,
		Publisher: publisher,
		Logger:    log,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()

	select {
	case <-ctx.Done():
		log.Info("received shutdown signal")
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer cancel()
	return srv.Stop(shutdownCtx)
}
