package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pumpfun-monitor/internal/config"
	"pumpfun-monitor/internal/discovery"
	"pumpfun-monitor/internal/ingestion"
	"pumpfun-monitor/internal/metadata"
	"pumpfun-monitor/internal/observability"
	"pumpfun-monitor/internal/solana"
	"pumpfun-monitor/internal/storage"
	csvstore "pumpfun-monitor/internal/storage/csv"
	pgstore "pumpfun-monitor/internal/storage/postgres"
)

func main() {
	cfg := config.Load()

	// Flags default to the env-derived config, so either works.
	wsEndpoint := flag.String("ws-endpoint", cfg.WSEndpoint, "Solana WebSocket endpoint")
	rpcEndpoint := flag.String("rpc-endpoint", cfg.RPCEndpoint, "Solana RPC HTTP endpoint for on-chain URI fallback (empty to disable)")
	programID := flag.String("program", cfg.ProgramID, "Program ID whose logs to subscribe to")
	commitment := flag.String("commitment", cfg.Commitment, "Subscription commitment level")
	csvPath := flag.String("csv-path", cfg.CSVPath, "CSV output file")
	postgresDSN := flag.String("postgres-dsn", cfg.PostgresDSN, "PostgreSQL connection string (overrides CSV sink)")
	metricsAddr := flag.String("metrics-addr", cfg.MetricsAddr, "Prometheus metrics HTTP address (empty to disable)")
	flag.Parse()

	cfg.WSEndpoint = *wsEndpoint
	cfg.RPCEndpoint = *rpcEndpoint
	cfg.ProgramID = *programID
	cfg.Commitment = *commitment
	cfg.CSVPath = *csvPath
	cfg.PostgresDSN = *postgresDSN
	cfg.MetricsAddr = *metricsAddr

	logger := log.New(os.Stdout, "[monitor] ", log.LstdFlags)

	if err := cfg.Validate(); err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}

	metrics := observability.NewMetrics("pumpfun_monitor")

	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})
			logger.Printf("Starting metrics server on %s", cfg.MetricsAddr)
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil && err != http.ErrServerClosed {
				logger.Printf("Metrics server error: %v", err)
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()

		sig = <-sigCh
		logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
		os.Exit(1)
	}()

	err := runRecovered(ctx, logger, metrics, cfg)
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		logger.Println("Shutdown complete")
	case errors.Is(err, ingestion.ErrRetryExhausted), errors.Is(err, errRecoveredPanic):
		logger.Printf("Restarting process in %v: %v", cfg.RestartCooldown, err)
		time.Sleep(cfg.RestartCooldown)
		restart(logger)
	default:
		logger.Fatalf("Monitor failed: %v", err)
	}
}

var errRecoveredPanic = errors.New("recovered panic")

// runRecovered turns a panic escaping the supervisor into a restartable
// error instead of a crash.
func runRecovered(ctx context.Context, logger *log.Logger, metrics *observability.Metrics, cfg *config.Config) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errRecoveredPanic, r)
		}
	}()
	return run(ctx, logger, metrics, cfg)
}

func run(ctx context.Context, logger *log.Logger, metrics *observability.Metrics, cfg *config.Config) error {
	store, cleanup, err := openStore(ctx, logger, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	var resolver ingestion.URIResolver
	if cfg.RPCEndpoint != "" {
		rpc := solana.NewHTTPClient(cfg.RPCEndpoint)
		resolver = metadata.NewOnChainResolver(rpc)
		logger.Printf("On-chain metadata fallback enabled via %s", cfg.RPCEndpoint)
	}

	pipeline := ingestion.NewPipeline(ingestion.PipelineOptions{
		Parser: discovery.NewCreateEventParser(logger, discovery.WithParserMetrics(metrics)),
		Enricher: metadata.NewEnricher(
			metadata.WithFetchTimeout(cfg.FetchTimeout),
			metadata.WithLogger(logger),
			metadata.WithMetrics(metrics),
		),
		Store:    store,
		Resolver: resolver,
		Logger:   logger,
		Metrics:  metrics,
	})

	wsConfig := solana.DefaultWSConfig()
	wsConfig.Logger = logger

	supervisor := ingestion.NewSupervisor(ingestion.SupervisorOptions{
		Dial: func(ctx context.Context) (solana.LogStream, error) {
			return solana.NewWSClient(ctx, cfg.WSEndpoint, &wsConfig)
		},
		Pipeline:    pipeline,
		Program:     cfg.ProgramID,
		Commitment:  cfg.Commitment,
		MaxRetries:  cfg.MaxRetries,
		BackoffBase: cfg.BackoffBase,
		MaxBackoff:  cfg.MaxBackoff,
		Logger:      logger,
		Metrics:     metrics,
	})

	logger.Printf("Monitoring token creations for program %s", cfg.ProgramID)
	return supervisor.Run(ctx)
}

// openStore selects the record sink: Postgres when a DSN is configured,
// otherwise the CSV file.
func openStore(ctx context.Context, logger *log.Logger, cfg *config.Config) (storage.RecordStore, func(), error) {
	if cfg.PostgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		logger.Println("Using PostgreSQL record store")
		return pgstore.NewRecordStore(pool), pool.Close, nil
	}

	logger.Printf("Appending records to %s", cfg.CSVPath)
	return csvstore.NewRecordStore(cfg.CSVPath), func() {}, nil
}

// restart replaces the current process with a fresh copy of itself so a
// poisoned connection state cannot survive the retry ceiling.
func restart(logger *log.Logger) {
	exe, err := os.Executable()
	if err != nil {
		logger.Fatalf("Cannot restart, executable path unknown: %v", err)
	}
	logger.Println("Restarting process")
	if err := syscall.Exec(exe, os.Args, os.Environ()); err != nil {
		logger.Fatalf("Restart failed: %v", err)
	}
}
