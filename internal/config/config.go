package config

import (
	"os"
	"strconv"
	"strings"

	"earlyvote/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Data      DataConfig
	Dashboard DashboardConfig
	Logging   LoggingConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port  string
	Debug bool
}

// DataConfig holds the spreadsheet source and the reporting days read from it
type DataConfig struct {
	ExcelFile     string
	ReportingDays string
}

// DashboardConfig holds the page defaults
type DashboardConfig struct {
	DefaultCounty   string
	CompareCounties []string
	Description     string
}

// LoggingConfig holds log verbosity
type LoggingConfig struct {
	Level string
}

// DefaultDescription is the Markdown shown under the page heading.
const DefaultDescription = `These plots are a quick look into how certain Texas Counties have been voting.
Data is collected from [The Texas Secretary of State Website.](https://earlyvoting.texas-election.com/Elections/getElectionEVDates.do)
This is not meant to be an all encompassing dashboard; just a few plots I'm making for friends.`

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:    *loadServerConfig(),
		Data:      LoadDataConfig(),
		Dashboard: *loadDashboardConfig(),
		Logging:   *loadLoggingConfig(),
	}

	if config.Server.Debug && os.Getenv("LOG_LEVEL") == "" {
		config.Logging.Level = "DEBUG"
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:  getEnvOrDefault("PORT", "8050"),
		Debug: getEnvBoolOrDefault("DEBUG", false),
	}
}

// LoadDataConfig reads only the workbook settings. Tools that never start the
// server use it so an unrelated bad PORT does not stop them.
func LoadDataConfig() DataConfig {
	return DataConfig{
		ExcelFile:     getEnvOrDefault("EXCEL_FILE", "texas_data.xlsx"),
		ReportingDays: getEnvOrDefault("REPORTING_DAYS", "Oct-4..Oct-26"),
	}
}

func loadDashboardConfig() *DashboardConfig {
	return &DashboardConfig{
		DefaultCounty:   strings.ToUpper(getEnvOrDefault("DEFAULT_COUNTY", "TRAVIS")),
		CompareCounties: getEnvListOrDefault("COMPARE_COUNTIES", []string{"HAYS", "BEXAR", "TRAVIS"}),
		Description:     getEnvOrDefault("DASHBOARD_DESCRIPTION", DefaultDescription),
	}
}

func loadLoggingConfig() *LoggingConfig {
	return &LoggingConfig{
		Level: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}
}

func validateConfig(config *Config) error {
	if config.Data.ExcelFile == "" {
		return errors.ConfigInvalid("EXCEL_FILE is required")
	}
	if config.Data.ReportingDays == "" {
		return errors.ConfigInvalid("REPORTING_DAYS is required")
	}
	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return errors.ConfigInvalid("PORT must be numeric, got " + strconv.Quote(config.Server.Port))
	}
	if config.Dashboard.DefaultCounty == "" {
		return errors.ConfigInvalid("DEFAULT_COUNTY is required")
	}
	if len(config.Dashboard.CompareCounties) == 0 {
		return errors.ConfigInvalid("COMPARE_COUNTIES must name at least one county")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvListOrDefault splits a comma separated value, upper-cased to match county keys
func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.ToUpper(part))
		}
	}
	return out
}
