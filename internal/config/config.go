// Package config loads runner configuration from defaults, an optional JSON
// config file, and positional command-line arguments.
package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// MemoryConfig holds in-memory/JSON telemetry backend settings.
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// StorageConfig selects and configures the telemetry backend.
type StorageConfig struct {
	Type   string `json:"type" mapstructure:"type"`
	Memory MemoryConfig
}

// Load reads configuration from the optional JSON file and sets default
// values. configDir is the directory searched for the config file; a missing
// file is not an error, the demo must run with defaults alone.
func Load(configDir string) error {
	// Set default values
	viper.SetDefault("host", "localhost")
	viper.SetDefault("port", 2000)
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "")

	viper.SetDefault("session.timeout", "10s")

	viper.SetDefault("blueprint.preferred", "vehicle.tesla.model3")
	viper.SetDefault("blueprint.wildcard", "vehicle.*")

	viper.SetDefault("scenario.throttle", 0.5)
	viper.SetDefault("scenario.driveTicks", 50)
	viper.SetDefault("scenario.tickInterval", "100ms")
	viper.SetDefault("scenario.brakeDuration", "2s")
	viper.SetDefault("scenario.settleDelay", "1s")

	viper.SetDefault("observer.back", 7.0)
	viper.SetDefault("observer.up", 3.0)
	viper.SetDefault("observer.pitch", -10.0)

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.memory.outputDir", ".")
	viper.SetDefault("storage.memory.compressOutput", false)
	viper.SetDefault("storage.flushInterval", "250ms")

	viper.SetDefault("db.enabled", false)
	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "driveclient")
	viper.SetDefault("db.sqlitePath", "./driveclient.db")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "driveclient")
	viper.SetDefault("influx.bucket", "scenario_runs")

	viper.SetDefault("api.enabled", false)
	viper.SetDefault("api.serverUrl", "http://localhost:5000")
	viper.SetDefault("api.apiKey", "")

	viper.SetDefault("monitor.interval", "1s")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)

	viper.SetDefault("geo.originLat", 0.0)
	viper.SetDefault("geo.originLon", 0.0)

	viper.SetConfigName("driveclient.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %v", err)
		}
	}

	return nil
}

// ApplyArgs overlays the positional invocation arguments [host [port]] on
// top of the loaded configuration. The port must parse as an unsigned
// 16-bit integer.
func ApplyArgs(args []string) error {
	if len(args) > 0 {
		viper.Set("host", args[0])
	}
	if len(args) > 1 {
		port, err := strconv.ParseUint(args[1], 10, 16)
		if err != nil {
			return fmt.Errorf("invalid port %q: %v", args[1], err)
		}
		viper.Set("port", uint16(port))
	}
	return nil
}

// Addr returns the configured server host and port.
func Addr() (string, uint16) {
	return viper.GetString("host"), uint16(viper.GetUint32("port"))
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetFloat64 returns a float config value.
func GetFloat64(key string) float64 {
	return viper.GetFloat64(key)
}

// GetDuration returns a duration config value.
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// Storage returns the telemetry storage configuration.
func Storage() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		Memory: MemoryConfig{
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
		},
	}
}
