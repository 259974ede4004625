package main

import (
	"github.com/spf13/cobra"

	"serum-market-lab/internal/analytics"
	"serum-market-lab/internal/discovery"
	"serum-market-lab/internal/domain"
	"serum-market-lab/internal/watchlist"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "serumscan",
		Short:         "Discover Serum markets and measure order book price impact and liquidity",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	addCommonFlags(root)

	root.AddCommand(newSearchCmd(), newPriceChangeCmd())
	return root
}

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "List markets trading a base mint (--tradeable) or quoted in a mint (--lendable)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			check := func(cfg *config) error { return searchFilter(cfg).Validate() }
			return runCommand(cmd, check, func(a *app) (*analytics.Report, error) {
				return a.pipeline.Run(cmd.Context(), analytics.SearchRequest{
					Program:     a.cfg.Dex,
					Filter:      searchFilter(a.cfg),
					PriceChange: a.cfg.PriceChange,
				})
			})
		},
	}

	f := cmd.Flags()
	f.String(flagDex, "", "DEX program id (defaults to the Serum program of the network)")
	f.String(flagTradeable, "", "Base mint of the markets to find")
	f.String(flagLendable, "", "Quote mint of the markets to find")
	f.Bool(flagPriceChange, false, "Measure price change and liquidity of every market found")
	return cmd
}

func newPriceChangeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "price-change",
		Short: "Measure price change and liquidity of the watchlist markets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCommand(cmd, nil, func(a *app) (*analytics.Report, error) {
				markets, err := loadWatchlist(a.cfg.Watchlist)
				if err != nil {
					return nil, err
				}
				a.logger.WithField("markets", len(markets)).Info("watchlist loaded")
				return a.pipeline.RunWatchlist(cmd.Context(), markets)
			})
		},
	}

	cmd.Flags().String(flagWatchlist, "", "Watchlist JSON file (defaults to the built-in list)")
	return cmd
}

func searchFilter(cfg *config) discovery.FilterOptions {
	return discovery.FilterOptions{Tradeable: cfg.Tradeable, Lendable: cfg.Lendable}
}

func loadWatchlist(path string) ([]domain.Market, error) {
	if path == "" {
		return watchlist.Default()
	}
	return watchlist.LoadFile(path)
}
