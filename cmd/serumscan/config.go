package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"serum-market-lab/internal/analytics"
	"serum-market-lab/internal/reporting"
)

// envPrefix maps flags to environment variables, e.g. --postgres-dsn to SERUMSCAN_POSTGRES_DSN.
const envPrefix = "SERUMSCAN"

// DefaultRPC is the public Serum RPC endpoint.
const DefaultRPC = "https://solana-api.projectserum.com"

// Flag names.
const (
	flagConfig          = "config"
	flagRPC             = "rpc"
	flagDex             = "dex"
	flagTradeable       = "tradeable"
	flagLendable        = "lendable"
	flagPriceChange     = "price-change"
	flagThreshold       = "threshold"
	flagNotional        = "notional"
	flagDelay           = "delay"
	flagLiquidity       = "liquidity"
	flagFormat          = "format"
	flagSkipFailed      = "skip-failed"
	flagTokenList       = "token-list"
	flagOnChainMetadata = "onchain-metadata"
	flagPostgresDSN     = "postgres-dsn"
	flagMetricsAddr     = "metrics-addr"
	flagLogLevel        = "log-level"
	flagWatchlist       = "watchlist"
	flagRPCTimeout      = "rpc-timeout"
	flagRPCRetries      = "rpc-retries"
)

// config is the resolved configuration of one command invocation.
type config struct {
	RPC        string
	RPCTimeout time.Duration
	RPCRetries int

	Dex         *solana.PublicKey
	Tradeable   *solana.PublicKey
	Lendable    *solana.PublicKey
	PriceChange bool

	Threshold  *decimal.Decimal
	Notional   decimal.Decimal
	Delay      time.Duration
	SkipFailed bool

	Format    reporting.Format
	Liquidity bool

	TokenList       string
	OnChainMetadata bool
	PostgresDSN     string
	MetricsAddr     string
	LogLevel        logrus.Level
	Watchlist       string
}

// addCommonFlags registers the flags shared by all commands.
func addCommonFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.String(flagConfig, "", "Config file (yaml, json or toml)")
	f.String(flagRPC, DefaultRPC, "Solana RPC HTTP endpoint")
	f.Duration(flagRPCTimeout, 30*time.Second, "Timeout of one RPC request")
	f.Int(flagRPCRetries, 3, "Retries of a failed RPC request")
	f.String(flagThreshold, "", "Drop markets whose bid or ask price change exceeds this percentage")
	f.String(flagNotional, "10000", "Quote amount of each price change tranche")
	f.Duration(flagDelay, analytics.DefaultDelay, "Pause before each market's order book is loaded")
	f.Bool(flagLiquidity, false, "Report bid and ask liquidity")
	f.String(flagFormat, string(reporting.FormatTable), "Output format: table, json, csv or markdown")
	f.Bool(flagSkipFailed, false, "Log and skip markets whose order book cannot be loaded")
	f.String(flagTokenList, "", "Token list URL or file (defaults to the SPL token list)")
	f.Bool(flagOnChainMetadata, false, "Resolve mints missing from the token list on-chain")
	f.String(flagPostgresDSN, "", "PostgreSQL connection string of the token metadata cache")
	f.String(flagMetricsAddr, "", "Serve Prometheus metrics on this address while running")
	f.String(flagLogLevel, "info", "Log level: debug, info, warn, error")
}

// newViper binds cmd's flags to a fresh viper instance backed by
// SERUMSCAN_* environment variables and the optional config file.
func newViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	if path := v.GetString(flagConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return v, nil
}

// loadConfig resolves and validates the configuration held by v.
func loadConfig(v *viper.Viper) (*config, error) {
	cfg := &config{
		RPC:             v.GetString(flagRPC),
		RPCTimeout:      v.GetDuration(flagRPCTimeout),
		RPCRetries:      v.GetInt(flagRPCRetries),
		PriceChange:     v.GetBool(flagPriceChange),
		Delay:           v.GetDuration(flagDelay),
		SkipFailed:      v.GetBool(flagSkipFailed),
		Liquidity:       v.GetBool(flagLiquidity),
		TokenList:       v.GetString(flagTokenList),
		OnChainMetadata: v.GetBool(flagOnChainMetadata),
		PostgresDSN:     v.GetString(flagPostgresDSN),
		MetricsAddr:     v.GetString(flagMetricsAddr),
		Watchlist:       v.GetString(flagWatchlist),
	}
	if cfg.RPC == "" {
		return nil, fmt.Errorf("--%s is required", flagRPC)
	}

	var err error
	if cfg.Dex, err = optionalKey(v, flagDex); err != nil {
		return nil, err
	}
	if cfg.Tradeable, err = optionalKey(v, flagTradeable); err != nil {
		return nil, err
	}
	if cfg.Lendable, err = optionalKey(v, flagLendable); err != nil {
		return nil, err
	}

	if s := v.GetString(flagThreshold); s != "" {
		threshold, err := decimal.NewFromString(s)
		if err != nil {
			return nil, fmt.Errorf("invalid --%s %q: %w", flagThreshold, s, err)
		}
		if threshold.IsNegative() {
			return nil, fmt.Errorf("invalid --%s %q: must not be negative", flagThreshold, s)
		}
		cfg.Threshold = &threshold
	}

	notional := v.GetString(flagNotional)
	if notional == "" {
		notional = "10000"
	}
	if cfg.Notional, err = decimal.NewFromString(notional); err != nil {
		return nil, fmt.Errorf("invalid --%s %q: %w", flagNotional, notional, err)
	}
	if !cfg.Notional.IsPositive() {
		return nil, fmt.Errorf("invalid --%s %q: must be positive", flagNotional, notional)
	}

	if cfg.Format, err = reporting.ParseFormat(v.GetString(flagFormat)); err != nil {
		return nil, err
	}

	if cfg.LogLevel, err = logrus.ParseLevel(v.GetString(flagLogLevel)); err != nil {
		return nil, fmt.Errorf("invalid --%s: %w", flagLogLevel, err)
	}

	return cfg, nil
}

func optionalKey(v *viper.Viper, name string) (*solana.PublicKey, error) {
	s := strings.TrimSpace(v.GetString(name))
	if s == "" {
		return nil, nil
	}
	key, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s %q: %w", name, s, err)
	}
	return &key, nil
}
