// Package cli provides the command-line interface for the advisor.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"btc-advisor/internal/config"
	"btc-advisor/internal/logging"
	"btc-advisor/internal/summary"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2025-07-01"
)

// App holds the application dependencies.
type App struct {
	Config     *config.Config
	Logger     zerolog.Logger
	Summarizer summary.Summarizer
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}
	app.initSummarizer()

	rootCmd := &cobra.Command{
		Use:   "advisor",
		Short: "BTC advisor - rule-based BUY/SELL/HOLD recommendations",
		Long: `BTC advisor scores a snapshot of fundamental, sentiment and technical
inputs and turns the total into a BUY, SELL or HOLD recommendation with
ATR-based stop-loss and take-profit levels.

A prose market summary can be fetched from a generative-text API. It is
independent of the recommendation and never changes it.

Use 'advisor help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if dir, _ := cmd.Flags().GetString("config"); dir != "" {
				cfg, err := config.Load(dir)
				if err != nil {
					return err
				}
				app.Config = cfg
				app.initSummarizer()
			}

			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/btc-advisor)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("no-color", !cfg.UI.ColorEnabled, "disable colored output")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	addCoreCommands(rootCmd, app)
	addAnalysisCommands(rootCmd, app)
	addSummaryCommands(rootCmd, app)
	addServeCommands(rootCmd, app)

	return rootCmd
}

// initSummarizer builds the summary client when a provider key is configured.
func (app *App) initSummarizer() {
	app.Summarizer = nil
	if !app.Config.HasLLMKey() {
		app.Logger.Debug().Msg("No LLM API key configured, market summary disabled")
		return
	}

	llm := app.Config.LLM
	app.Summarizer = summary.NewOpenAIClient(summary.ClientConfig{
		APIKey:          llm.APIKey,
		BaseURL:         llm.BaseURL,
		Model:           llm.Model,
		Provider:        llm.Provider,
		Timeout:         llm.Timeout,
		MaxTokens:       llm.MaxTokens,
		Temperature:     llm.Temperature,
		BreakerFailures: llm.BreakerFailures,
		BreakerCooldown: llm.BreakerCooldown,
	}, app.Logger)
	app.Logger.Debug().Str("provider", llm.Provider).Str("model", llm.Model).Msg("Summary client initialized")
}

// addCoreCommands adds core utility commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			}
			output.Printf("BTC advisor v%s\n", Version)
			output.Dim("Build date: %s", BuildDate)
			return nil
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and validate application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			dir, _ := cmd.Flags().GetString("config")
			if dir == "" {
				dir = config.DefaultConfigDir()
			}
			if output.IsJSON() {
				return output.JSON(map[string]string{"path": dir})
			}
			output.Println(dir)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]bool{"valid": true})
			}
			output.Success("✓ Configuration is valid")
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Analysis")
	output.Printf("  Asset:           %s\n", cfg.Analysis.Asset)
	output.Println()

	output.Bold("Market Summary")
	output.Printf("  Provider:        %s\n", cfg.LLM.Provider)
	output.Printf("  Model:           %s\n", cfg.LLM.Model)
	output.Printf("  Base URL:        %s\n", cfg.LLM.BaseURL)
	output.Printf("  API Key:         %s\n", keyStatus(cfg.LLM.APIKey))
	output.Printf("  Timeout:         %s\n", cfg.LLM.Timeout)
	output.Printf("  Retries:         %d\n", cfg.LLM.Retries)
	output.Println()

	output.Bold("Server")
	output.Printf("  Address:         %s\n", cfg.Server.Addr)
	output.Printf("  Summary Rate:    %.1f/min (burst %d)\n", cfg.Server.SummaryRatePerMinute, cfg.Server.SummaryBurst)
	output.Println()

	output.Bold("Logging")
	output.Printf("  Level:           %s\n", cfg.Logging.Level)
	output.Printf("  File:            %v\n", cfg.Logging.File)
}

func keyStatus(key string) string {
	if key == "" {
		return "not set"
	}
	return logging.MaskCredential(key)
}
