// Package root contains the root command for the application
package root

import (
	"fmt"
	"sync"

	"fjacquet/sms-ledger/internal/config"
	"fjacquet/sms-ledger/internal/container"
	"fjacquet/sms-ledger/internal/logging"
	"fjacquet/sms-ledger/internal/models"
	"fjacquet/sms-ledger/internal/ui"

	"github.com/spf13/cobra"
)

// GlobalFlags are the persistent flags shared by every command. Set flags
// override the configuration file and environment.
type GlobalFlags struct {
	ConfigFile   string
	LogLevel     string
	LogFormat    string
	DatabasePath string
	SourceType   string
	SourcePath   string
}

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// Flags holds the persistent flag values.
	Flags = GlobalFlags{}

	cfg     *config.Config
	app     *container.Container
	appOnce sync.Once
	appErr  error

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "sms-ledger",
		Short: "Turn bank SMS notifications into a personal expense ledger.",
		Long: `sms-ledger reads bank notification messages (SMS export files or a spool
directory), extracts amount, direction, date, bank and merchant, categorizes
each transaction and stores it exactly once in a local SQLite ledger.
Transactions can also be entered by hand, edited, summarized against a
monthly budget and exported to CSV.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			Close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Init initializes the root command and all flags
func Init() {
	pf := Cmd.PersistentFlags()
	pf.StringVar(&Flags.ConfigFile, "config", "", "Config file (default: config.yaml in ., .sms-ledger or $HOME/.sms-ledger)")
	pf.StringVar(&Flags.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&Flags.LogFormat, "log-format", "", "Log format (text, json)")
	pf.StringVar(&Flags.DatabasePath, "db", "", "SQLite database path")
	pf.StringVar(&Flags.SourceType, "source", "", "Message source (none, csv, xml, spool, memory)")
	pf.StringVar(&Flags.SourcePath, "source-path", "", "Message export file or spool directory")
}

func setup(cmd *cobra.Command, args []string) error {
	config.LoadEnv(Log)

	loaded, err := config.InitializeConfigFrom(Flags.ConfigFile)
	if err != nil {
		return err
	}
	applyFlags(loaded)
	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// PersistentPostRun is skipped when a command fails.
	Close()
	cfg = loaded
	Log = config.ConfigureLoggingFromConfig(cfg)
	if adapter, ok := Log.(*logging.LogrusAdapter); ok {
		adapter.SetOutput(cmd.ErrOrStderr())
	}
	appOnce = sync.Once{}
	app, appErr = nil, nil
	return nil
}

func applyFlags(c *config.Config) {
	if Flags.LogLevel != "" {
		c.Log.Level = Flags.LogLevel
	}
	if Flags.LogFormat != "" {
		c.Log.Format = Flags.LogFormat
	}
	if Flags.DatabasePath != "" {
		c.Database.Path = Flags.DatabasePath
	}
	if Flags.SourceType != "" {
		c.Source.Type = Flags.SourceType
	}
	if Flags.SourcePath != "" {
		c.Source.Path = Flags.SourcePath
	}
}

// Config returns the configuration loaded for the running command.
func Config() *config.Config {
	return cfg
}

// Container lazily wires the application, opening the database on first use.
func Container() (*container.Container, error) {
	appOnce.Do(func() {
		if cfg == nil {
			appErr = fmt.Errorf("configuration not loaded")
			return
		}
		app, appErr = container.NewContainerWithLogger(cfg, Log)
	})
	return app, appErr
}

// Close releases the container if one was created.
func Close() {
	if app == nil {
		return
	}
	if err := app.Close(); err != nil {
		Log.WithError(err).Warn("Failed to close application resources")
	}
	app = nil
	appOnce = sync.Once{}
}

// Printer returns a terminal printer writing to the command's output.
func Printer(cmd *cobra.Command) *ui.Printer {
	currency := models.DefaultCurrency
	if cfg != nil {
		currency = cfg.Currency
	}
	return ui.NewPrinter(cmd.OutOrStdout(), currency)
}
