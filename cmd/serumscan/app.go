package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"serum-market-lab/internal/analytics"
	"serum-market-lab/internal/observability"
	"serum-market-lab/internal/reporting"
	"serum-market-lab/internal/serum"
	"serum-market-lab/internal/solana"
	"serum-market-lab/internal/storage"
	"serum-market-lab/internal/storage/memory"
	"serum-market-lab/internal/storage/migrations"
	pgstore "serum-market-lab/internal/storage/postgres"
	"serum-market-lab/internal/tokens"
)

// app holds the components wired for one command invocation.
type app struct {
	cfg      *config
	logger   *logrus.Entry
	pipeline *analytics.Pipeline

	cleanup []func()
}

// runCommand resolves the configuration, runs check on it, wires the
// components, runs fn and renders its report to the command's output.
// check runs before any connection is opened.
func runCommand(cmd *cobra.Command, check func(cfg *config) error, fn func(a *app) (*analytics.Report, error)) error {
	v, err := newViper(cmd)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(v)
	if err != nil {
		return err
	}
	if check != nil {
		if err := check(cfg); err != nil {
			return err
		}
	}

	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.close()

	report, err := fn(a)
	if err != nil {
		return err
	}

	return reporting.Write(cmd.OutOrStdout(), report, reporting.Options{
		Format:    cfg.Format,
		Liquidity: cfg.Liquidity,
	})
}

func newApp(ctx context.Context, cfg *config) (*app, error) {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(cfg.LogLevel)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger := logrus.NewEntry(log)

	a := &app{cfg: cfg, logger: logger}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics("", reg)
	if cfg.MetricsAddr != "" {
		a.serveMetrics(cfg.MetricsAddr, reg)
	}

	client := solana.NewHTTPClient(cfg.RPC,
		solana.WithTimeout(cfg.RPCTimeout),
		solana.WithMaxRetries(cfg.RPCRetries),
		solana.WithObserver(metrics.ObserveRPC),
	)

	resolverOpts := tokens.ResolverOptions{
		List:   tokens.NewListSource(cfg.TokenList, cfg.RPCTimeout),
		Logger: logger.WithField("component", "tokens"),
	}
	if cfg.OnChainMetadata {
		resolverOpts.OnChain = tokens.NewOnChainSource(client)
	}
	store, err := a.openTokenCache(ctx, cfg.PostgresDSN)
	if err != nil {
		a.close()
		return nil, err
	}
	resolverOpts.Store = store

	a.pipeline = analytics.New(analytics.Options{
		RPC:        client,
		Books:      analytics.SerumBooks(serum.NewLoader(client)),
		Tokens:     tokens.NewResolver(resolverOpts),
		Logger:     logger.WithField("component", "analytics"),
		Metrics:    metrics,
		Notional:   cfg.Notional,
		Delay:      delayOption(cfg.Delay),
		Threshold:  cfg.Threshold,
		SkipFailed: cfg.SkipFailed,
	})
	return a, nil
}

// delayOption maps an explicit --delay 0 to the pipeline's "no delay" value.
func delayOption(d time.Duration) time.Duration {
	if d == 0 {
		return -1
	}
	return d
}

// openTokenCache opens the Postgres token cache, or an in-process one
// when dsn is empty.
func (a *app) openTokenCache(ctx context.Context, dsn string) (storage.TokenMetadataStore, error) {
	if dsn == "" {
		return memory.NewTokenMetadataStore(), nil
	}

	pool, err := pgstore.NewPool(ctx, dsn, 4)
	if err != nil {
		return nil, fmt.Errorf("token cache: %w", err)
	}
	a.cleanup = append(a.cleanup, pool.Close)

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		return nil, fmt.Errorf("token cache: %w", err)
	}
	a.logger.Debug("token cache ready")
	return pgstore.NewTokenMetadataStore(pool), nil
}

func (a *app) serveMetrics(addr string, g prometheus.Gatherer) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler(g))
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		a.logger.WithField("addr", addr).Info("serving metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.WithError(err).Error("metrics server failed")
		}
	}()

	a.cleanup = append(a.cleanup, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
}

func (a *app) close() {
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		a.cleanup[i]()
	}
	a.cleanup = nil
}
