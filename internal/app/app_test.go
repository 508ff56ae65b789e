package app

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simdrive/driveclient/internal/config"
	"github.com/simdrive/driveclient/internal/simtest"
	"github.com/simdrive/driveclient/pkg/core"
	"github.com/simdrive/driveclient/pkg/sim"
)

type fakeRecorder struct {
	run     *core.RunInfo
	samples []core.Sample
	sum     *core.Summary
	stops   int
}

func (f *fakeRecorder) Start(run *core.RunInfo) error { f.run = run; return nil }
func (f *fakeRecorder) Enqueue(s core.Sample)         { f.samples = append(f.samples, s) }
func (f *fakeRecorder) Stop(sum *core.Summary) error  { f.sum = sum; f.stops++; return nil }

func setupConfig(t *testing.T) {
	t.Helper()
	viper.Reset()
	require.NoError(t, config.Load(t.TempDir()))
	// Collapse the real-time waits so the run is instant.
	viper.Set("scenario.tickInterval", "0s")
	viper.Set("scenario.brakeDuration", "0s")
	viper.Set("scenario.settleDelay", "0s")
}

func newApp(client *simtest.Client, rec *fakeRecorder) *App {
	return New(Dependencies{
		Dial: func(string, uint16, *slog.Logger) (sim.Client, error) {
			return client, nil
		},
		Recorder: rec,
		Logger:   slog.Default(),
	})
}

func TestRunHappyPath(t *testing.T) {
	setupConfig(t)
	client := simtest.NewClient()
	rec := &fakeRecorder{}

	res, err := newApp(client, rec).Run()
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, rec.sum, res.Summary)

	assert.Equal(t, 10*time.Second, client.Timeout())
	assert.True(t, client.Closed())

	require.NotNil(t, rec.run)
	assert.Equal(t, "Town01", rec.run.MapName)
	assert.Equal(t, "vehicle.tesla.model3", rec.run.BlueprintID)
	require.NotNil(t, rec.sum)
	assert.Equal(t, 50, rec.sum.Ticks)
	assert.Len(t, rec.samples, 50)

	require.Len(t, client.Fake.Spawned, 1)
	vehicle := client.Fake.Spawned[0].(*simtest.Vehicle)
	assert.Len(t, vehicle.AppliedControls(), 51)
	assert.Len(t, client.Fake.SpectatorA.SetPoseCalls, 1)
}

func TestRunDialFailure(t *testing.T) {
	setupConfig(t)
	app := New(Dependencies{
		Dial: func(string, uint16, *slog.Logger) (sim.Client, error) {
			return nil, errors.New("connection refused")
		},
		Recorder: &fakeRecorder{},
		Logger:   slog.Default(),
	})

	_, err := app.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestRunWorldFailureClosesSession(t *testing.T) {
	setupConfig(t)
	client := simtest.NewClient()
	client.WorldErr = errors.New("rpc timeout")
	rec := &fakeRecorder{}

	_, err := newApp(client, rec).Run()
	require.Error(t, err)
	assert.True(t, client.Closed())
	assert.Nil(t, rec.run)
}

func TestRunProvisionFailureSendsNoControls(t *testing.T) {
	setupConfig(t)
	client := simtest.NewClient()
	client.Fake.SpawnErr = errors.New("spawn collision")
	rec := &fakeRecorder{}

	_, err := newApp(client, rec).Run()
	require.Error(t, err)
	assert.Empty(t, client.Fake.Spawned)
	assert.Empty(t, rec.samples)
	assert.Zero(t, rec.stops)
}

func TestRunNoSpawnPointsSendsNoControls(t *testing.T) {
	setupConfig(t)
	client := simtest.NewClient()
	client.Fake.SpawnPoints = nil
	rec := &fakeRecorder{}

	_, err := newApp(client, rec).Run()
	require.Error(t, err)
	assert.True(t, client.Closed())
	assert.Empty(t, client.Fake.Spawned)
	assert.Zero(t, rec.stops)
}

func TestRunDriveFailureStillFinalizesTelemetry(t *testing.T) {
	setupConfig(t)
	client := simtest.NewClient()
	client.Fake.SpawnVelErr = errors.New("rpc timeout")
	rec := &fakeRecorder{}

	_, err := newApp(client, rec).Run()
	require.Error(t, err)
	assert.True(t, client.Closed())
	// The run was started and finalized even though the drive aborted.
	require.NotNil(t, rec.run)
	assert.Equal(t, 1, rec.stops)

	// The first throttle control was sent, the abort stopped everything after.
	vehicle := client.Fake.Spawned[0].(*simtest.Vehicle)
	assert.Len(t, vehicle.AppliedControls(), 1)
}
