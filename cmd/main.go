// @title           Sprint Beacon API
// @version         1.0
// @description     Connects to a sprint timing beacon, records runs and serves live state.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"tinygo.org/x/bluetooth"

	_ "sprint_beacon/docs"
	"sprint_beacon/internal/config"
	"sprint_beacon/internal/handlers"
	"sprint_beacon/internal/link"
	"sprint_beacon/internal/link/ble"
	"sprint_beacon/internal/logger"
	"sprint_beacon/internal/loop"
	"sprint_beacon/internal/mqtt"
	"sprint_beacon/internal/repository"
	"sprint_beacon/internal/repository/db"
	"sprint_beacon/internal/run"
	"sprint_beacon/internal/server"
	"sprint_beacon/internal/service"
	"sprint_beacon/internal/sim"
	"sprint_beacon/internal/status"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// load configs/config.yml, then SPRINT_* env
	cfg, err := config.Load("configs", ".")
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	// init logger
	log := logger.Get(cfg.Log.Level)

	if cfg.Auth.SigningKey == "" {
		cfg.Auth.SigningKey = uuid.NewString()
		log.Warnw("auth.signing_key not set; tokens will not survive a restart")
	}

	// open DB
	database, err := openDB(cfg.DB, log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := database.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()
	repos := repository.NewRepository(database)

	publisher := openPublisher(cfg.MQTT, log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// wire the beacon pipeline
	events := loop.New()
	tracker := status.NewTracker()

	setup := service.NewSetupService(repos.Settings, repos.Runners)
	if err := setup.Load(ctx); err != nil {
		log.Fatalw("failed to load beacon settings", "err", err)
	}
	journal := service.NewJournal(repos.EventRepo, publisher, log)
	recorder := service.NewRunRecorder(repos.Runs, publisher, log)

	engine := run.New(events, setup, setup, recorder, run.Config{Grace: cfg.Beacon.Grace()}, log.Named("run"))
	engine.Subscribe(tracker.RunChanged)
	engine.Subscribe(journal.RunChanged)
	engine.Subscribe(setup.RunChanged)

	var workers sync.WaitGroup
	per := startPeripheral(ctx, cfg, &workers, log)
	beacon := link.New(events, per, engine, link.Config{
		PollInterval: cfg.Beacon.PollInterval(),
		MTU:          cfg.Beacon.MTU,
	}, log.Named("link"), tracker, journal)

	workers.Add(2)
	go func() {
		defer workers.Done()
		events.Run(ctx)
	}()
	go func() {
		defer workers.Done()
		journal.Run(ctx)
	}()

	services := service.NewService(repos, service.Deps{
		Exec:           events,
		Link:           beacon,
		State:          tracker,
		Settings:       setup,
		Journal:        journal,
		Publisher:      publisher,
		Auth:           cfg.Auth,
		DefaultAddress: defaultAddress(cfg.Beacon),
		Log:            log,
	})
	apiHandler := handlers.NewHandler(services, log)

	if cfg.Beacon.Demo || cfg.Beacon.Address != "" {
		if err := services.Beacon.Connect(ctx, ""); err != nil {
			log.Warnw("initial beacon connect failed", "err", err)
		}
	}

	// start HTTP server
	srv := server.New(cfg.Port, apiHandler.InitRoutes(), log)
	runHTTPServer(srv, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)

	workers.Wait()
	recorder.Wait()
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			log.Warnw("failed to close mqtt publisher", "err", err)
		}
	}
}

// openDB initializes the SQLite database using configuration.
func openDB(cfg config.DBConfig, log *logger.Logger) (*sql.DB, error) {
	path := cfg.Path
	if path == "" {
		log.Infow("db.path not set in config; using default file", "default", "sprint.db")
		path = "sprint.db"
	}
	return db.InitDB(path)
}

// openPublisher returns nil when no broker is configured.
func openPublisher(cfg config.MQTTConfig, log *logger.Logger) mqtt.Publisher {
	if cfg.Broker == "" {
		log.Infow("mqtt.broker not set; publishing disabled")
		return nil
	}
	p, err := mqtt.NewRealPublisher(mqtt.Config{
		Broker:      cfg.Broker,
		ClientID:    cfg.ClientID,
		TopicPrefix: cfg.TopicPrefix,
	}, log)
	if err != nil {
		log.Warnw("mqtt publisher unavailable", "broker", cfg.Broker, "err", err)
		return nil
	}
	return p
}

// startPeripheral picks the simulated beacon in demo mode and the BLE
// adapter otherwise, and starts its worker goroutine.
func startPeripheral(ctx context.Context, cfg config.Config, wg *sync.WaitGroup, log *logger.Logger) link.Peripheral {
	if cfg.Beacon.Demo {
		b := sim.New(sim.Config{
			Sprint:      ms(cfg.Demo.SprintMs),
			ArmDelay:    ms(cfg.Demo.ArmDelayMs),
			ReportDelay: ms(cfg.Demo.ReportDelayMs),
			RangeCm:     uint16(cfg.Demo.RangeCm),
		}, log)
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Run(ctx, ms(cfg.Demo.TickMs))
		}()
		log.Infow("using simulated beacon")
		return b
	}

	p := ble.New(bluetooth.DefaultAdapter, ble.Config{ScanTimeout: cfg.Beacon.ScanTimeout()}, log)
	if err := p.Enable(); err != nil {
		log.Fatalw("failed to enable bluetooth", "err", err)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		p.Run(ctx)
	}()
	return p
}

func defaultAddress(cfg config.BeaconConfig) string {
	if cfg.Address == "" && cfg.Demo {
		return "SIM"
	}
	return cfg.Address
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, log *logger.Logger) {
	go func() {
		if err := srv.Run(); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}

	// stop background goroutines
	cancel()
}
