// scanservd - SANE scanner capability daemon
//
// This is the main entry point for scanservd. The daemon probes a SANE
// scanner with `scanimage -A`, translates the free-text capability listing
// into a typed model, caches the result, and serves it over HTTP. Optional
// integrations publish the model via MQTT and record refresh timing in
// InfluxDB.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ad3m3r5/scanservjs/internal/api"
	"github.com/ad3m3r5/scanservjs/internal/history"
	"github.com/ad3m3r5/scanservjs/internal/infrastructure/config"
	"github.com/ad3m3r5/scanservjs/internal/infrastructure/database"
	"github.com/ad3m3r5/scanservjs/internal/infrastructure/filestore"
	"github.com/ad3m3r5/scanservjs/internal/infrastructure/influxdb"
	"github.com/ad3m3r5/scanservjs/internal/infrastructure/logging"
	"github.com/ad3m3r5/scanservjs/internal/infrastructure/mqtt"
	"github.com/ad3m3r5/scanservjs/internal/sane"
	"github.com/ad3m3r5/scanservjs/internal/scanimage"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

// historyRecordTimeout bounds the history insert done from the refresh callback.
const historyRecordTimeout = 5 * time.Second

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting scanservd",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Apply schema
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("applying database schema: %w", migrateErr)
	}
	log.Info("database schema applied")

	historyRepo := history.NewRepository(db.DB)

	// Connect to MQTT broker (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
	} else {
		log.Info("MQTT disabled")
	}

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// Build the capability provider: scanimage runner + snapshot cache
	runner := scanimage.NewRunner(scanimage.Config{
		Binary:  cfg.Scanner.Binary,
		Device:  cfg.Scanner.Device,
		Timeout: cfg.GetScannerTimeout(),
	})
	runner.SetLogger(log.With("component", "scanimage"))

	store := filestore.New(cfg.Cache.Path)

	provider := sane.NewProvider(runner, store, version)
	provider.SetLogger(log.With("component", "sane"))
	provider.SetOnRefresh(onRefresh(log, historyRepo, mqttClient, influxClient))

	// Warm the model so the first HTTP request is fast. Failure here is not
	// fatal: the scanner may be off at boot and probed again on demand.
	if dev, warmErr := provider.Get(ctx); warmErr != nil {
		log.Warn("initial capability probe failed", "error", warmErr)
	} else {
		log.Info("capability model ready",
			"device", dev.ID,
			"features", len(dev.Features),
		)
	}

	// Start API server
	server, err := api.New(api.Deps{
		Config:   cfg.API,
		Logger:   log.With("component", "api"),
		Provider: provider,
		History:  historyRepo,
		Version:  version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started", "address", fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port))

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls will run in reverse order:
	// 1. API server
	// 2. InfluxDB (if enabled)
	// 3. MQTT (if enabled)
	// 4. Database

	log.Info("scanservd stopped")
	return nil
}

// onRefresh builds the callback that fans each successful capability
// retrieval out to the history table and the optional integrations.
// Failures here are logged and swallowed: telemetry must not break retrieval.
func onRefresh(log *logging.Logger, repo *history.Repository, mqttClient *mqtt.Client, influxClient *influxdb.Client) sane.RefreshFunc {
	return func(dev *sane.Device, source string, elapsed time.Duration) {
		durationMS := float64(elapsed.Microseconds()) / 1000

		features, err := json.Marshal(dev.Features)
		if err != nil {
			log.Error("failed to marshal capability model", "error", err)
			features = json.RawMessage("{}")
		}

		ctx, cancel := context.WithTimeout(context.Background(), historyRecordTimeout)
		defer cancel()

		if err := repo.Record(ctx, history.Entry{
			DeviceID:   dev.ID,
			Version:    dev.Version,
			Source:     source,
			Features:   features,
			DurationMS: durationMS,
		}); err != nil {
			log.Error("failed to record refresh history", "error", err)
		}

		if mqttClient != nil {
			publishRefresh(log, mqttClient, dev, source, durationMS)
		}

		if influxClient != nil {
			influxClient.WriteRefreshMetric(dev.ID, source, durationMS, len(dev.Features))
		}
	}
}

// publishRefresh publishes the capability model (retained) and a refresh event.
func publishRefresh(log *logging.Logger, client *mqtt.Client, dev *sane.Device, source string, durationMS float64) {
	topics := mqtt.Topics{}

	payload, err := json.Marshal(dev)
	if err != nil {
		log.Error("failed to marshal device for MQTT", "error", err)
		return
	}
	if err := client.PublishRetained(topics.DeviceCapabilities(), payload); err != nil {
		log.Warn("failed to publish capability model", "error", err)
	}

	event, err := json.Marshal(map[string]any{
		"device_id":   dev.ID,
		"source":      source,
		"duration_ms": durationMS,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		log.Error("failed to marshal refresh event", "error", err)
		return
	}
	if err := client.Publish(topics.DeviceRefreshed(), event, 1, false); err != nil {
		log.Warn("failed to publish refresh event", "error", err)
	}
}

// getConfigPath returns the configuration file path.
// Uses SCANSERV_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("SCANSERV_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
