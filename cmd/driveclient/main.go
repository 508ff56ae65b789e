// Command driveclient connects to a driving-simulation server, spawns a
// vehicle, and drives it through a short throttle-then-brake maneuver while
// recording telemetry.
//
// Usage: driveclient [host [port]]
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	sdklog "go.opentelemetry.io/otel/sdk/log"

	"github.com/simdrive/driveclient/internal/api"
	"github.com/simdrive/driveclient/internal/app"
	"github.com/simdrive/driveclient/internal/config"
	"github.com/simdrive/driveclient/internal/geo"
	"github.com/simdrive/driveclient/internal/influx"
	"github.com/simdrive/driveclient/internal/logging"
	"github.com/simdrive/driveclient/internal/monitor"
	intOtel "github.com/simdrive/driveclient/internal/otel"
	"github.com/simdrive/driveclient/internal/simws"
	"github.com/simdrive/driveclient/internal/telemetry"
	"github.com/simdrive/driveclient/internal/worker"
	"github.com/simdrive/driveclient/pkg/sim"
)

// Version can be set at build time via ldflags.
var Version string = "0.1.0"

const AppName = "driveclient"

var (
	SessionStartTime time.Time = time.Now()

	// SlogManager handles all slog-based logging
	SlogManager *logging.Manager

	// Logger is the slog logger (convenience reference)
	Logger *slog.Logger

	// OTelProvider handles OpenTelemetry
	OTelProvider *intOtel.Provider

	RunLogFile *os.File
)

func setupLogging() {
	// Bootstrap handler so config loading can already log.
	SlogManager = logging.NewManager()
	SlogManager.Setup(nil, nil, config.GetString("logLevel"), nil)
	Logger = SlogManager.Logger()

	logsDir := config.GetString("logsDir")
	if logsDir != "" {
		if _, err := os.Stat(logsDir); os.IsNotExist(err) {
			os.Mkdir(logsDir, 0755)
		}
		path := logging.LogFilePath(logsDir, AppName, SessionStartTime)
		f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			Logger.Error("Failed to create/open log file!", "error", err, "path", path)
		} else {
			RunLogFile = f
		}
	}

	if config.GetBool("otel.enabled") {
		var err error
		OTelProvider, err = intOtel.New(intOtel.Config{
			Enabled:      true,
			ServiceName:  AppName,
			BatchTimeout: 5 * time.Second,
			LogWriter:    RunLogFile,
			Endpoint:     config.GetString("otel.endpoint"),
			Insecure:     config.GetBool("otel.insecure"),
		})
		if err != nil {
			Logger.Error("Failed to initialize OTel provider", "error", err)
			OTelProvider = nil
		}
	}

	var gelfWriter io.Writer
	if config.GetBool("graylog.enabled") {
		w, err := logging.NewGelfWriter(config.GetString("graylog.address"))
		if err != nil {
			Logger.Warn("Graylog unreachable, GELF logging disabled", "error", err)
		} else {
			gelfWriter = w
		}
	}

	// Re-setup with file, GELF and optional OTel fan-out.
	var otelLogProvider *sdklog.LoggerProvider
	if OTelProvider != nil {
		otelLogProvider = OTelProvider.LoggerProvider()
	}
	var fileWriter io.Writer
	if RunLogFile != nil {
		fileWriter = RunLogFile
	}
	SlogManager.Setup(fileWriter, gelfWriter, config.GetString("logLevel"), otelLogProvider)
	Logger = SlogManager.Logger()
}

func run() error {
	if err := config.Load("."); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config, using defaults: %v\n", err)
	}
	if err := config.ApplyArgs(os.Args[1:]); err != nil {
		return err
	}

	setupLogging()
	Logger.Info("Starting up...", "version", Version)

	zlog := logging.NewZerolog(config.GetString("logLevel"))

	proj := geo.NewProjector(
		config.GetFloat64("geo.originLat"),
		config.GetFloat64("geo.originLon"),
	)
	backend, err := telemetry.NewBackend(config.Storage(), proj, zlog)
	if err != nil {
		return err
	}
	if err := backend.Init(); err != nil {
		return fmt.Errorf("initialize telemetry storage: %w", err)
	}
	defer backend.Close()

	var sink *influx.Sink
	s := influx.NewSink(zlog)
	switch err := s.Connect(); {
	case err == nil:
		sink = s
		defer sink.Close()
	case errors.Is(err, influx.ErrDisabled):
		// metrics sink off
	default:
		Logger.Warn("InfluxDB sink unavailable", "error", err)
	}

	recorder, err := worker.NewRecorder(worker.Dependencies{
		Backend: backend,
		Influx:  sink,
		Logger:  Logger,
	}, config.GetDuration("storage.flushInterval"))
	if err != nil {
		return err
	}

	monitorService := monitor.NewService(monitor.Dependencies{
		Recorder: recorder,
		Logger:   Logger,
	}, config.GetDuration("monitor.interval"))
	monitorService.Start()
	defer monitorService.Stop()

	application := app.New(app.Dependencies{
		Dial: func(host string, port uint16, logger *slog.Logger) (sim.Client, error) {
			return simws.Connect(host, port, logger)
		},
		Recorder: recorder,
		Logger:   Logger,
	})
	result, err := application.Run()
	if err != nil {
		return err
	}

	if exp, ok := backend.(telemetry.Exportable); ok {
		if path := exp.ExportedFilePath(); path != "" {
			Logger.Info("Telemetry exported", "path", path)
			uploadRun(path, result)
		}
	}
	return nil
}

// uploadRun ships the exported run file to the results frontend when the API
// is configured. Upload failures are logged, a recorded run on disk is still
// a successful scenario.
func uploadRun(path string, result *app.Result) {
	if !config.GetBool("api.enabled") {
		return
	}

	client := api.New(config.GetString("api.serverUrl"), config.GetString("api.apiKey"))
	if err := client.Healthcheck(); err != nil {
		Logger.Warn("Results frontend is offline, skipping upload", "error", err)
		return
	}
	if err := client.UploadRun(path, result.Run, result.Summary); err != nil {
		Logger.Warn("Failed to upload run", "error", err)
		return
	}
	Logger.Info("Run uploaded", "path", path)
}

func flushAndClose() {
	if OTelProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := OTelProvider.Flush(ctx); err != nil {
			Logger.Warn("Failed to flush OTel data", "error", err)
		}
		OTelProvider.Shutdown(ctx)
	}
	if RunLogFile != nil {
		RunLogFile.Close()
	}
}

func main() {
	err := run()
	flushAndClose()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error occurred: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Scenario completed!")
}
