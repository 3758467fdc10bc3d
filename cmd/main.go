package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"controlling_irrigation/internal/config"
	"controlling_irrigation/internal/handlers"
	"controlling_irrigation/internal/logger"
	"controlling_irrigation/internal/metrics"
	"controlling_irrigation/internal/repository"
	"controlling_irrigation/internal/repository/db"
	"controlling_irrigation/internal/server"
	"controlling_irrigation/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// load configs/config.yml and IRRIGATION_* overrides
	cfg, err := config.Load(os.Getenv("IRRIGATION_CONFIG"))
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	// init logger
	log := logger.Get(cfg.Log.Level)
	metrics.Init()

	loc, err := cfg.TimeLocation()
	if err != nil {
		log.Fatalw("invalid location", "err", err)
	}

	// open DB
	conn, err := db.InitDB(cfg.Store.Path)
	if err != nil {
		log.Fatalw("failed to init sqlite", "path", cfg.Store.Path, "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := openRepository(cfg, conn)
	graph, created, err := service.LoadOrInit(context.Background(), repos.Config, cfg.DefaultStations)
	if err != nil {
		log.Fatalw("failed to load configuration", "driver", cfg.Store.Driver, "err", err)
	}
	if created {
		log.Infow("no stored configuration; created default stations", "stations", cfg.DefaultStations)
	}

	services := service.NewService(repos, graph, log, service.WithLocation(loc))
	apiHandler := handlers.NewHandler(services, log,
		handlers.WithLocation(loc),
		handlers.WithStreamIntervals(cfg.Stream.DefaultInterval, cfg.Stream.MaxInterval),
	)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler, log)
	log.Infow("server started", "port", cfg.Port, "driver", cfg.Store.Driver, "location", loc.String())

	// reload on SIGHUP, graceful shutdown on SIGINT/SIGTERM
	waitForSignals(services, srv, log)
}

// openRepository selects the configuration store; the activity log always lives in SQLite.
func openRepository(cfg *config.Config, conn *sql.DB) *repository.Repository {
	if cfg.Store.Driver == config.DriverYAML {
		return &repository.Repository{
			Config: repository.NewConfigYAML(cfg.Store.YAMLPath),
			Events: repository.NewEventSQLite(conn),
		}
	}
	return repository.NewRepository(conn)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForSignals blocks until SIGINT or SIGTERM, reloading the stored
// configuration on every SIGHUP in between.
func waitForSignals(services *service.Service, srv *server.Server, log *logger.Logger) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	for sig := range sigs {
		if sig == syscall.SIGHUP {
			if err := services.Reload(context.Background()); err != nil {
				log.Errorw("config_reload_failed", "err", err)
				continue
			}
			log.Infow("configuration reloaded")
			continue
		}
		break
	}

	log.Infow("shutting down server...")

	// allow in-flight requests to complete
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
