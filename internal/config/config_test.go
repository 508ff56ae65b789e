package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"logLevel": "debug",
		"host": "sim.lab.local",
		"db": { "host": "10.0.0.1", "port": "5433" }
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "driveclient.cfg.json"), []byte(cfg), 0644))

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", viper.GetString("logLevel"))
	assert.Equal(t, "sim.lab.local", viper.GetString("host"))
	assert.Equal(t, "10.0.0.1", viper.GetString("db.host"))
	assert.Equal(t, "5433", viper.GetString("db.port"))
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "driveclient.cfg.json"), []byte(`{}`), 0644))

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "localhost", viper.GetString("host"))
	assert.Equal(t, 2000, viper.GetInt("port"))
	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, 10*time.Second, viper.GetDuration("session.timeout"))
	assert.Equal(t, "vehicle.tesla.model3", viper.GetString("blueprint.preferred"))
	assert.Equal(t, "vehicle.*", viper.GetString("blueprint.wildcard"))
	assert.Equal(t, 0.5, viper.GetFloat64("scenario.throttle"))
	assert.Equal(t, 50, viper.GetInt("scenario.driveTicks"))
	assert.Equal(t, 100*time.Millisecond, viper.GetDuration("scenario.tickInterval"))
	assert.Equal(t, 2*time.Second, viper.GetDuration("scenario.brakeDuration"))
	assert.Equal(t, time.Second, viper.GetDuration("scenario.settleDelay"))
	assert.Equal(t, 7.0, viper.GetFloat64("observer.back"))
	assert.Equal(t, 3.0, viper.GetFloat64("observer.up"))
	assert.Equal(t, -10.0, viper.GetFloat64("observer.pitch"))
	assert.Equal(t, "memory", viper.GetString("storage.type"))
	assert.Equal(t, "localhost", viper.GetString("db.host"))
	assert.Equal(t, "5432", viper.GetString("db.port"))
	assert.Equal(t, "postgres", viper.GetString("db.username"))
	assert.Equal(t, "driveclient", viper.GetString("db.database"))
	assert.Equal(t, false, viper.GetBool("influx.enabled"))
	assert.Equal(t, false, viper.GetBool("graylog.enabled"))
	assert.Equal(t, "localhost:12201", viper.GetString("graylog.address"))
	assert.Equal(t, false, viper.GetBool("api.enabled"))
	assert.Equal(t, "http://localhost:5000", viper.GetString("api.serverUrl"))
	assert.Equal(t, false, viper.GetBool("otel.enabled"))
	assert.Equal(t, true, viper.GetBool("otel.insecure"))
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "localhost", viper.GetString("host"))
	assert.Equal(t, 2000, viper.GetInt("port"))
}

func TestLoad_MalformedFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "driveclient.cfg.json"), []byte(`{not json`), 0644))

	err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestApplyArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantHost string
		wantPort uint16
		wantErr  bool
	}{
		{name: "no args keeps defaults", args: nil, wantHost: "localhost", wantPort: 2000},
		{name: "host only", args: []string{"sim.example.com"}, wantHost: "sim.example.com", wantPort: 2000},
		{name: "host and port", args: []string{"sim.example.com", "2400"}, wantHost: "sim.example.com", wantPort: 2400},
		{name: "invalid port", args: []string{"localhost", "notanumber"}, wantErr: true},
		{name: "port out of range", args: []string{"localhost", "70000"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(viper.Reset)
			require.NoError(t, Load(t.TempDir()))

			err := ApplyArgs(tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			host, port := Addr()
			assert.Equal(t, tt.wantHost, host)
			assert.Equal(t, tt.wantPort, port)
		})
	}
}

func TestStorage_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(t.TempDir()))

	cfg := Storage()
	assert.Equal(t, "memory", cfg.Type)
	assert.Equal(t, ".", cfg.Memory.OutputDir)
	assert.Equal(t, false, cfg.Memory.CompressOutput)
}

func TestStorage_Override(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"storage": {
			"type": "db",
			"memory": { "outputDir": "/tmp/out", "compressOutput": true }
		}
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "driveclient.cfg.json"), []byte(cfg), 0644))
	require.NoError(t, Load(dir))

	sc := Storage()
	assert.Equal(t, "db", sc.Type)
	assert.Equal(t, "/tmp/out", sc.Memory.OutputDir)
	assert.Equal(t, true, sc.Memory.CompressOutput)
}
