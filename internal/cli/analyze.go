package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"crypto-trader/internal/analysis/indicators"
	"crypto-trader/internal/data"
	"crypto-trader/internal/logging"
	"crypto-trader/internal/models"
	"crypto-trader/internal/store"
	"crypto-trader/pkg/utils"
)

// newAnalyzeCmd runs a strategy over a candle window and prints the signal.
func newAnalyzeCmd(app *App) *cobra.Command {
	var (
		file      string
		stratName string
		noJournal bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <symbol>",
		Short: "Analyze a candle window and generate a trading signal",
		Long: `Analyze loads an OHLCV candle window from a CSV file, runs the selected
strategy over it and prints the resulting signal. Signals are journaled to
the local SQLite database unless --no-journal is set.

The CSV file must have a header row: timestamp,open,high,low,close,volume.
Timestamps may be RFC3339 or unix seconds.`,
		Example: `  crypto-trader analyze BTCUSDT --file btc_1m.csv --strategy momentum
  crypto-trader analyze ETHUSDT --file eth_1m.csv --strategy multi_indicator --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			symbol := strings.ToUpper(args[0])

			strat, err := app.Registry.Create(stratName)
			if err != nil {
				output.Error("%v", err)
				return err
			}

			candles, err := data.LoadCandlesCSV(file)
			if err != nil {
				output.Error("Failed to load candles: %v", err)
				return err
			}

			logger := logging.WithStrategy(logging.WithSymbol(app.Logger, symbol), strat.Name())
			logger.Debug().Int("bars", len(candles)).Str("file", file).Msg("Window loaded")

			sig := strat.Analyze(candles, symbol)
			logging.LogSignal(logger, sig)

			if app.Store != nil && !noJournal {
				ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
				defer cancel()
				if err := app.Store.SaveSignal(ctx, sig); err != nil {
					logger.Warn().Err(err).Msg("Failed to journal signal")
				}
			}

			if output.IsJSON() {
				return output.JSON(sig)
			}
			output.Signal(sig)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "CSV file with the candle window (required)")
	cmd.Flags().StringVarP(&stratName, "strategy", "s", "momentum", "strategy to run")
	cmd.Flags().BoolVar(&noJournal, "no-journal", false, "do not record the signal in the journal")
	cmd.MarkFlagRequired("file")

	return cmd
}

// newStrategiesCmd lists the registered strategies.
func newStrategiesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List available strategies",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			names := app.Registry.List()

			if output.IsJSON() {
				type stratInfo struct {
					Name    string `json:"name"`
					MinBars int    `json:"min_bars"`
				}
				infos := make([]stratInfo, 0, len(names))
				for _, name := range names {
					strat, err := app.Registry.Create(name)
					if err != nil {
						continue
					}
					infos = append(infos, stratInfo{Name: name, MinBars: strat.MinBars()})
				}
				return output.JSON(infos)
			}

			output.Bold("Available strategies")
			for _, name := range names {
				strat, err := app.Registry.Create(name)
				if err != nil {
					continue
				}
				output.Printf("  %-16s min window %d bars\n", name, strat.MinBars())
			}
			return nil
		},
	}
}

// newSignalsCmd queries the signal journal.
func newSignalsCmd(app *App) *cobra.Command {
	var (
		symbol    string
		stratName string
		action    string
		since     string
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "signals",
		Short: "Query the signal journal",
		Long:  "Signals lists previously generated signals from the local journal, newest first.",
		Example: `  crypto-trader signals --symbol BTCUSDT --limit 10
  crypto-trader signals --strategy conservative --action BUY --since 24h`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				output.Error("Signal journal is not available")
				return fmt.Errorf("signal journal not initialized")
			}

			filter := store.SignalFilter{
				Symbol:   strings.ToUpper(symbol),
				Strategy: stratName,
				Limit:    limit,
			}
			if action != "" {
				filter.Action = models.SignalAction(strings.ToUpper(action))
			}
			if since != "" {
				dur, err := time.ParseDuration(since)
				if err != nil {
					output.Error("Invalid --since duration: %v", err)
					return err
				}
				filter.From = time.Now().Add(-dur)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()
			signals, err := app.Store.GetSignals(ctx, filter)
			if err != nil {
				output.Error("Failed to query journal: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(signals)
			}

			if len(signals) == 0 {
				output.Info("No signals found")
				return nil
			}

			output.Bold("%-20s %-10s %-14s %-5s %6s %12s", "TIME", "SYMBOL", "STRATEGY", "ACT", "CONF", "PRICE")
			for _, sig := range signals {
				output.Printf("%-20s %-10s %-14s %-5s %6.2f %12s\n",
					sig.Timestamp.Format("2006-01-02 15:04:05"),
					sig.Symbol, sig.Strategy, sig.Action, sig.Confidence,
					utils.FormatPrice(sig.Price))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&symbol, "symbol", "", "filter by symbol")
	cmd.Flags().StringVar(&stratName, "strategy", "", "filter by strategy")
	cmd.Flags().StringVar(&action, "action", "", "filter by action (BUY, SELL, WAIT)")
	cmd.Flags().StringVar(&since, "since", "", "only signals newer than this duration (e.g. 24h)")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of signals to return")

	return cmd
}

// newIndicatorsCmd computes the standard indicator snapshot for a window.
func newIndicatorsCmd(app *App) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "indicators <symbol>",
		Short: "Compute indicator values for a candle window",
		Long: `Indicators runs the standard indicator set over a candle window and
prints the latest value of each, without generating a signal.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			symbol := strings.ToUpper(args[0])

			candles, err := data.LoadCandlesCSV(file)
			if err != nil {
				output.Error("Failed to load candles: %v", err)
				return err
			}

			engine := indicators.NewDefaultEngine(4)
			snapshot, err := engine.Snapshot(cmd.Context(), candles)
			if err != nil {
				output.Error("Failed to compute indicators: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"symbol":     symbol,
					"bars":       len(candles),
					"indicators": snapshot,
				})
			}

			output.Bold("%s  (%d bars, close %s)", symbol, len(candles),
				utils.FormatPrice(candles[len(candles)-1].Close))
			names := make([]string, 0, len(snapshot))
			for name := range snapshot {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				output.Printf("  %-20s %s\n", name, utils.FormatPrice(snapshot[name]))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "CSV file with the candle window (required)")
	cmd.MarkFlagRequired("file")

	return cmd
}
