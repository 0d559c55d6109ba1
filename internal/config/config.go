package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"gstexport/internal/logger"
)

type Config struct {
	// Batch export configuration
	ExportWorkers int // parallel encode workers
	BatchCap      int // maximum invoices per export call

	// Universal CSV column mapping (optional YAML file, target column -> field path)
	MappingFile string

	// Tally voucher merge strategy: "combined" (one import file) or "separate"
	TallyMerge string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		ExportWorkers: getEnvInt("EXPORT_WORKERS", 8),
		BatchCap:      getEnvInt("EXPORT_BATCH_CAP", 100),
		MappingFile:   getEnv("EXPORT_MAPPING_FILE", ""),
		TallyMerge:    getEnv("EXPORT_TALLY_MERGE", "combined"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "console"),
		LogTimeFormat: getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:     getEnv("LOG_OUTPUT", "stderr"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.ExportWorkers <= 0 {
		return fmt.Errorf("EXPORT_WORKERS must be positive, got %d", c.ExportWorkers)
	}
	if c.BatchCap <= 0 {
		return fmt.Errorf("EXPORT_BATCH_CAP must be positive, got %d", c.BatchCap)
	}
	if c.TallyMerge != "combined" && c.TallyMerge != "separate" {
		return fmt.Errorf("EXPORT_TALLY_MERGE must be 'combined' or 'separate', got %q", c.TallyMerge)
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

// LoadColumnMapping reads the universal CSV column mapping from the
// configured YAML file. It returns nil when no mapping file is configured,
// in which case the encoder falls back to its built-in mapping.
//
// The file is a flat map of target column name to source field path:
//
//	Invoice No: invoice.invoice_number
//	Item: line_item.description
func (c *Config) LoadColumnMapping() (map[string]string, error) {
	if c.MappingFile == "" {
		return nil, nil
	}

	data, err := os.ReadFile(c.MappingFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file %s: %w", c.MappingFile, err)
	}

	mapping := make(map[string]string)
	if err := yaml.Unmarshal(data, &mapping); err != nil {
		return nil, fmt.Errorf("failed to parse mapping file %s: %w", c.MappingFile, err)
	}
	if len(mapping) == 0 {
		return nil, fmt.Errorf("mapping file %s contains no columns", c.MappingFile)
	}

	return mapping, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
