package config

import (
	"os"
	"path/filepath"
	"testing"

	"fjacquet/sms-ledger/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir switches to a directory without a config.yaml for the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	originalDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(originalDir))
	})
}

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	chdir(t, dir)
	for _, key := range []string{
		"SMSLEDGER_LOG_LEVEL",
		"SMSLEDGER_LOG_FORMAT",
		"SMSLEDGER_DATABASE_PATH",
		"SMSLEDGER_INGEST_BACKLOG_LIMIT",
		"SMSLEDGER_INGEST_QUEUE_SIZE",
		"SMSLEDGER_INGEST_UNPARSEABLE_POLICY",
		"SMSLEDGER_INGEST_MAX_PARSE_ATTEMPTS",
		"SMSLEDGER_SOURCE_TYPE",
		"SMSLEDGER_SOURCE_PATH",
		"SMSLEDGER_CATEGORIES_FILE",
		"SMSLEDGER_BANKS_FILE",
		"SMSLEDGER_EXPORT_DELIMITER",
		"SMSLEDGER_CURRENCY",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	return dir
}

func TestInitializeConfigFrom_Defaults(t *testing.T) {
	isolate(t)

	config, err := InitializeConfigFrom("")
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, "sms-ledger.db", config.Database.Path)
	assert.Equal(t, 1000, config.Ingest.BacklogLimit)
	assert.Equal(t, 64, config.Ingest.QueueSize)
	assert.Equal(t, "retry", config.Ingest.UnparseablePolicy)
	assert.Equal(t, 0, config.Ingest.MaxParseAttempts)
	assert.Equal(t, "none", config.Source.Type)
	assert.Equal(t, "categories.yaml", config.Categories.File)
	assert.Equal(t, "banks.yaml", config.Banks.File)
	assert.Equal(t, ",", config.Export.Delimiter)
	assert.Equal(t, ',', config.Delimiter())
	assert.Equal(t, "INR", config.Currency)
}

func TestInitializeConfigFrom_EnvironmentVariables(t *testing.T) {
	isolate(t)

	testEnvVars := map[string]string{
		"SMSLEDGER_LOG_LEVEL":                 "debug",
		"SMSLEDGER_LOG_FORMAT":                "json",
		"SMSLEDGER_DATABASE_PATH":             "/tmp/ledger.db",
		"SMSLEDGER_INGEST_BACKLOG_LIMIT":      "250",
		"SMSLEDGER_INGEST_UNPARSEABLE_POLICY": "MARK",
		"SMSLEDGER_SOURCE_TYPE":               "spool",
		"SMSLEDGER_SOURCE_PATH":               "/var/spool/sms",
		"SMSLEDGER_EXPORT_DELIMITER":          ";",
		"SMSLEDGER_CURRENCY":                  "usd",
	}
	for key, value := range testEnvVars {
		t.Setenv(key, value)
	}

	config, err := InitializeConfigFrom("")
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, "/tmp/ledger.db", config.Database.Path)
	assert.Equal(t, 250, config.Ingest.BacklogLimit)
	assert.Equal(t, "mark", config.Ingest.UnparseablePolicy)
	assert.Equal(t, "spool", config.Source.Type)
	assert.Equal(t, "/var/spool/sms", config.Source.Path)
	assert.Equal(t, ';', config.Delimiter())
	assert.Equal(t, "USD", config.Currency)
}

func TestInitializeConfigFrom_ConfigFile(t *testing.T) {
	dir := isolate(t)

	configContent := `
log:
  level: "warn"
database:
  path: "data/ledger.db"
ingest:
  max_parse_attempts: 5
source:
  type: "csv"
  path: "messages.csv"
export:
  delimiter: "|"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(configContent), 0600))

	config, err := InitializeConfigFrom("")
	require.NoError(t, err)

	assert.Equal(t, "warn", config.Log.Level)
	assert.Equal(t, "data/ledger.db", config.Database.Path)
	assert.Equal(t, 5, config.Ingest.MaxParseAttempts)
	assert.Equal(t, "csv", config.Source.Type)
	assert.Equal(t, "messages.csv", config.Source.Path)
	assert.Equal(t, "|", config.Export.Delimiter)
	assert.Equal(t, 1000, config.Ingest.BacklogLimit, "unset keys keep defaults")
}

func TestInitializeConfigFrom_HierarchicalPrecedence(t *testing.T) {
	dir := isolate(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log:\n  level: warn\ncurrency: EUR\n"), 0600))
	t.Setenv("SMSLEDGER_LOG_LEVEL", "error")

	config, err := InitializeConfigFrom("")
	require.NoError(t, err)

	assert.Equal(t, "error", config.Log.Level, "env overrides file")
	assert.Equal(t, "EUR", config.Currency, "file overrides default")
}

func TestInitializeConfigFrom_ExplicitFile(t *testing.T) {
	dir := isolate(t)

	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  path: custom.db\n"), 0600))

	config, err := InitializeConfigFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "custom.db", config.Database.Path)

	_, err = InitializeConfigFrom(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func validConfig() *Config {
	c := &Config{}
	c.Log.Level = "info"
	c.Log.Format = "text"
	c.Database.Path = "ledger.db"
	c.Ingest.BacklogLimit = 1000
	c.Ingest.QueueSize = 64
	c.Ingest.UnparseablePolicy = "retry"
	c.Source.Type = "none"
	c.Export.Delimiter = ","
	c.Currency = "INR"
	return c
}

func TestValidateConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		errContains string
	}{
		{"Invalid log level", func(c *Config) { c.Log.Level = "verbose" }, "invalid log level"},
		{"Invalid log format", func(c *Config) { c.Log.Format = "xml" }, "invalid log format"},
		{"Empty database path", func(c *Config) { c.Database.Path = " " }, "database.path"},
		{"Backlog limit zero", func(c *Config) { c.Ingest.BacklogLimit = 0 }, "backlog_limit"},
		{"Backlog limit too large", func(c *Config) { c.Ingest.BacklogLimit = 100001 }, "backlog_limit"},
		{"Queue size zero", func(c *Config) { c.Ingest.QueueSize = 0 }, "queue_size"},
		{"Unknown policy", func(c *Config) { c.Ingest.UnparseablePolicy = "drop" }, "unparseable_policy"},
		{"Negative attempts", func(c *Config) { c.Ingest.MaxParseAttempts = -1 }, "max_parse_attempts"},
		{"Unknown source type", func(c *Config) { c.Source.Type = "imap" }, "source.type"},
		{"File source without path", func(c *Config) { c.Source.Type = "xml" }, "source.path"},
		{"Multi-character delimiter", func(c *Config) { c.Export.Delimiter = ";;" }, "single character"},
		{"Empty delimiter", func(c *Config) { c.Export.Delimiter = "" }, "single character"},
		{"Bad currency", func(c *Config) { c.Currency = "RUPEE" }, "currency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := validateConfig(c)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}

	assert.NoError(t, validateConfig(validConfig()))
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	c := validConfig()
	c.Log.Format = "json"
	logger := ConfigureLoggingFromConfig(c)
	require.NotNil(t, logger)
	_, ok := logger.(*logging.LogrusAdapter)
	assert.True(t, ok)
}

func TestLoadEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SMSLEDGER_TEST_VALUE=from-dotenv\n"), 0600))
	t.Setenv("SMSLEDGER_TEST_VALUE", "")
	require.NoError(t, os.Unsetenv("SMSLEDGER_TEST_VALUE"))

	LoadEnv(logging.NewMockLogger())
	assert.Equal(t, "from-dotenv", GetEnv("SMSLEDGER_TEST_VALUE", "fallback"))
	assert.Equal(t, "fallback", GetEnv("SMSLEDGER_TEST_MISSING", "fallback"))
}
