package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/srcom/config"
	"github.com/s0up4200/srcom/filter"
	"github.com/s0up4200/srcom/speedrun"
)

var (
	cfgFile  string
	cfg      *config.Config
	logger   zerolog.Logger
	client   *speedrun.Client
	filters  *filter.Manager
	registry *prometheus.Registry

	// Command flags
	outputFormat string
	showMetrics  bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "srcom",
	Short: "Browse speedrun.com games, leaderboards and records",
	Long: `srcom is a CLI for the speedrun.com API. It looks up games, categories,
users and runs, and resolves leaderboards and world records, including the
subcategory defaults the website applies.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := execute(rootCmd); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// execute runs cmd and then releases the client. Cobra skips post-run hooks
// when a command fails, so cleanup happens here instead.
func execute(cmd *cobra.Command) error {
	err := cmd.Execute()
	return errors.Join(err, finalizeApp())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format: table, json or yaml")
	rootCmd.PersistentFlags().BoolVar(&showMetrics, "metrics", false, "log API request metrics on exit")
}

// initializeApp initializes the configuration and clients
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)
	if cfg.File != "" {
		logger.Debug().Str("path", cfg.File).Msg("Loaded config file")
	}

	// Override output format from command line if specified
	if cmd.Flags().Changed("output") {
		cfg.Output.Format = outputFormat
	}
	if _, err := newPrinter(cfg.Output.Format); err != nil {
		return err
	}

	registry = prometheus.NewRegistry()
	client, err = speedrun.NewClient(logger,
		speedrun.WithBaseURL(cfg.API.BaseURL),
		speedrun.WithUserAgent(cfg.API.UserAgent),
		speedrun.WithTimeout(cfg.API.Timeout),
		speedrun.WithMetrics(speedrun.NewMetrics(registry)),
	)
	if err != nil {
		return fmt.Errorf("failed to create speedrun client: %w", err)
	}

	filters = filter.NewManager()
	if err := filters.RegisterFilters(cfg.Filter.Presets); err != nil {
		return fmt.Errorf("invalid filter preset: %w", err)
	}

	return nil
}

// finalizeApp releases the client and optionally reports request metrics
func finalizeApp() error {
	if client == nil {
		return nil
	}
	defer func() {
		client.Close()
		client = nil
	}()

	if !showMetrics {
		return nil
	}

	families, err := registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		var total float64
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				total += m.GetCounter().GetValue()
			case m.GetHistogram() != nil:
				total += m.GetHistogram().GetSampleSum()
			}
		}
		logger.Info().Str("metric", mf.GetName()).Float64("value", total).Msg("API metrics")
	}
	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format, without color when stderr is not a terminal
	fd := os.Stderr.Fd()
	tty := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !tty,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}
