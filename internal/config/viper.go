// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"fjacquet/sms-ledger/internal/logging"
	"fjacquet/sms-ledger/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable override, e.g.
// SMSLEDGER_DATABASE_PATH for database.path.
const EnvPrefix = "SMSLEDGER"

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Database struct {
		Path string `mapstructure:"path" yaml:"path"`
	} `mapstructure:"database" yaml:"database"`

	Ingest struct {
		BacklogLimit      int    `mapstructure:"backlog_limit" yaml:"backlog_limit"`
		QueueSize         int    `mapstructure:"queue_size" yaml:"queue_size"`
		UnparseablePolicy string `mapstructure:"unparseable_policy" yaml:"unparseable_policy"`
		MaxParseAttempts  int    `mapstructure:"max_parse_attempts" yaml:"max_parse_attempts"`
	} `mapstructure:"ingest" yaml:"ingest"`

	Source struct {
		Type string `mapstructure:"type" yaml:"type"`
		Path string `mapstructure:"path" yaml:"path"`
	} `mapstructure:"source" yaml:"source"`

	Categories struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"categories" yaml:"categories"`

	Banks struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"banks" yaml:"banks"`

	Export struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"export" yaml:"export"`

	Currency string `mapstructure:"currency" yaml:"currency"`
}

// Delimiter returns the export delimiter as a rune.
func (c *Config) Delimiter() rune {
	r, _ := utf8.DecodeRuneInString(c.Export.Delimiter)
	return r
}

// InitializeConfigFrom loads configuration hierarchically: defaults, then the
// config file, then SMSLEDGER_ environment variables. configFile replaces
// the search of the default locations when it is set.
func InitializeConfigFrom(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.sms-ledger")
		v.AddConfigPath(".sms-ledger")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless given explicitly)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if configFile != "" {
				return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
			}
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	normalize(&config)

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("database.path", "sms-ledger.db")

	v.SetDefault("ingest.backlog_limit", 1000)
	v.SetDefault("ingest.queue_size", 64)
	v.SetDefault("ingest.unparseable_policy", "retry")
	v.SetDefault("ingest.max_parse_attempts", 0)

	v.SetDefault("source.type", "none")
	v.SetDefault("source.path", "")

	v.SetDefault("categories.file", "categories.yaml")
	v.SetDefault("banks.file", "banks.yaml")

	v.SetDefault("export.delimiter", ",")
	v.SetDefault("currency", models.DefaultCurrency)
}

func normalize(config *Config) {
	config.Log.Level = strings.ToLower(strings.TrimSpace(config.Log.Level))
	config.Log.Format = strings.ToLower(strings.TrimSpace(config.Log.Format))
	config.Ingest.UnparseablePolicy = strings.ToLower(strings.TrimSpace(config.Ingest.UnparseablePolicy))
	config.Source.Type = strings.ToLower(strings.TrimSpace(config.Source.Type))
	config.Currency = strings.ToUpper(strings.TrimSpace(config.Currency))
}

// Validate normalizes and checks c, for callers that override values
// after loading (command-line flags).
func (c *Config) Validate() error {
	normalize(c)
	return validateConfig(c)
}

var sourceTypes = map[string]bool{"none": true, "csv": true, "xml": true, "spool": true, "memory": true}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	// Validate log level
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	// Validate log format
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if strings.TrimSpace(config.Database.Path) == "" {
		return fmt.Errorf("database.path must not be empty")
	}

	if config.Ingest.BacklogLimit < 1 || config.Ingest.BacklogLimit > 100000 {
		return fmt.Errorf("ingest.backlog_limit must be between 1 and 100000, got: %d", config.Ingest.BacklogLimit)
	}
	if config.Ingest.QueueSize < 1 {
		return fmt.Errorf("ingest.queue_size must be at least 1, got: %d", config.Ingest.QueueSize)
	}
	if config.Ingest.UnparseablePolicy != "retry" && config.Ingest.UnparseablePolicy != "mark" {
		return fmt.Errorf("invalid ingest.unparseable_policy: %s (must be 'retry' or 'mark')", config.Ingest.UnparseablePolicy)
	}
	if config.Ingest.MaxParseAttempts < 0 {
		return fmt.Errorf("ingest.max_parse_attempts must not be negative, got: %d", config.Ingest.MaxParseAttempts)
	}

	if !sourceTypes[config.Source.Type] {
		return fmt.Errorf("invalid source.type: %s (must be none, csv, xml, spool or memory)", config.Source.Type)
	}
	switch config.Source.Type {
	case "csv", "xml", "spool":
		if strings.TrimSpace(config.Source.Path) == "" {
			return fmt.Errorf("source.path is required for source type %s", config.Source.Type)
		}
	}

	// Validate export delimiter
	if utf8.RuneCountInString(config.Export.Delimiter) != 1 {
		return fmt.Errorf("export delimiter must be a single character, got: %s", config.Export.Delimiter)
	}

	if len(config.Currency) != 3 {
		return fmt.Errorf("currency must be a 3-letter code, got: %s", config.Currency)
	}

	return nil
}

// ConfigureLoggingFromConfig builds the application logger from config.
func ConfigureLoggingFromConfig(config *Config) logging.Logger {
	return logging.NewLogrusAdapter(config.Log.Level, config.Log.Format)
}
