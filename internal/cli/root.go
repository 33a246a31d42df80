package cli

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"crypto-trader/internal/config"
	"crypto-trader/internal/logging"
	"crypto-trader/internal/store"
	"crypto-trader/internal/strategy"
)

// Version information
const Version = "0.1.0"

// App holds the application dependencies.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Registry *strategy.Registry
	Store    store.SignalStore
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config:   cfg,
		Logger:   logger,
		Registry: cfg.Registry(),
	}

	if cfg.Store.Path != "" {
		signalStore, err := store.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize signal journal, journaling disabled")
		} else {
			app.Store = signalStore
			logger.Debug().Str("path", cfg.Store.Path).Msg("Signal journal initialized")
		}
	}

	rootCmd := &cobra.Command{
		Use:   "crypto-trader",
		Short: "Crypto strategy signal engine",
		Long: `crypto-trader turns OHLCV market data windows into trading signals.

It ships momentum, scalping, conservative and multi-indicator strategies,
each configurable through ~/.config/crypto-trader/config.yaml. Signals are
journaled to a local SQLite database for audit.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/crypto-trader)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newAnalyzeCmd(app))
	rootCmd.AddCommand(newStrategiesCmd(app))
	rootCmd.AddCommand(newSignalsCmd(app))
	rootCmd.AddCommand(newIndicatorsCmd(app))

	return rootCmd
}

// Execute runs the CLI.
func Execute() error {
	cfg, err := config.Load(configDirFromArgs(os.Args[1:]))
	if err != nil {
		cfg = config.Default()
	}

	logger := logging.NewLoggerWithConfig(logging.LogConfig{
		Level:      cfg.Logging.Level,
		Console:    cfg.Logging.Console,
		File:       cfg.Logging.File,
		FilePath:   cfg.Logging.FilePath,
		MaxSize:    100,
		MaxBackups: 7,
		MaxAge:     30,
	})

	return NewRootCmd(cfg, logger).Execute()
}

// configDirFromArgs pre-scans the raw arguments for the --config flag. The
// config directory must be known before cobra parses flags because the
// loaded config decides how the root command is wired.
func configDirFromArgs(args []string) string {
	for i, arg := range args {
		if arg == "--config" && i+1 < len(args) {
			return args[i+1]
		}
		if strings.HasPrefix(arg, "--config=") {
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	return ""
}
