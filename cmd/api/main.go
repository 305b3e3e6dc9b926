// Command api serves the published timetables over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/julienschmidt/httprouter"

	"mrt6.timetable.org/internal/app"
	"mrt6.timetable.org/internal/appconf"
	"mrt6.timetable.org/internal/config"
	"mrt6.timetable.org/internal/logging"
	"mrt6.timetable.org/internal/restapi"
	"mrt6.timetable.org/internal/webui"
	"mrt6.timetable.org/timetabledb"
)

type options struct {
	cfg            appconf.Config
	linePath       string
	reloadInterval time.Duration
}

func main() {
	var opts options
	var envFlag, apiKeysFlag, logLevel string

	flag.IntVar(&opts.cfg.Port, "port", 4000, "API server port")
	flag.StringVar(&envFlag, "env", "development", "Environment (development|test|production)")
	flag.StringVar(&apiKeysFlag, "api-keys", "test", "Comma Separated API Keys (test, etc)")
	flag.IntVar(&opts.cfg.RateLimit, "rate-limit", 100, "Requests per second per API key (-1 disables)")
	flag.StringVar(&opts.linePath, "line", "data/mrt6.yml", "Line configuration (YAML)")
	flag.StringVar(&opts.cfg.DataDir, "data-dir", ".", "Directory holding the published JSON files")
	flag.StringVar(&opts.cfg.DBPath, "db", "", "Serve from this SQLite archive instead of JSON files")
	flag.DurationVar(&opts.reloadInterval, "reload", 0, "Reload timetables on this interval (0 disables)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug|info|warn|error)")
	flag.Parse()

	opts.cfg.Env = appconf.EnvFlagToEnvironment(envFlag)
	opts.cfg.ApiKeys = parseAPIKeys(apiKeysFlag)

	logger := logging.NewStructuredLogger(os.Stdout, logging.ParseLevel(logLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, opts, logger); err != nil {
		logging.LogError(logger, "server stopped", err)
		os.Exit(1)
	}
}

func parseAPIKeys(flagValue string) []string {
	var keys []string
	for _, k := range strings.Split(flagValue, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// newApplication loads the line and its timetables. The returned cleanup
// releases the schedule store and database
func newApplication(ctx context.Context, opts options, logger *slog.Logger) (*app.Application, func(), error) {
	cfg, err := config.LoadLineConfig(opts.linePath)
	if err != nil {
		return nil, nil, err
	}
	line, policy, _, err := cfg.Build()
	if err != nil {
		return nil, nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}
	holidays, err := cfg.Holidays()
	if err != nil {
		return nil, nil, err
	}

	var source app.Source = app.JSONSource{Dir: opts.cfg.DataDir, Variants: cfg.Variants, Logger: logger}
	var db *timetabledb.Client
	if opts.cfg.DBPath != "" {
		db, err = timetabledb.NewClient(timetabledb.NewConfig(opts.cfg.DBPath, opts.cfg.Env, false), logger)
		if err != nil {
			return nil, nil, err
		}
		source = app.DBSource{Client: db}
	}

	schedules, err := app.NewScheduleStore(ctx, source, opts.reloadInterval, logger)
	if err != nil {
		if db != nil {
			logging.SafeCloseWithLogging(db, logger, "timetable_database")
		}
		return nil, nil, err
	}

	cleanup := func() {
		schedules.Shutdown()
		if db != nil {
			logging.SafeCloseWithLogging(db, logger, "timetable_database")
		}
	}

	return &app.Application{
		Config:     opts.cfg,
		Logger:     logger,
		LineConfig: cfg,
		Line:       line,
		Policy:     policy,
		Location:   loc,
		Holidays:   holidays,
		Schedules:  schedules,
	}, cleanup, nil
}

// buildHandler wires the API and, outside production, the debug pages
func buildHandler(application *app.Application) (http.Handler, *restapi.RestAPI) {
	router := httprouter.New()
	api := restapi.NewRestAPI(application)
	api.SetRoutes(router)
	if application.Config.Env != appconf.Production {
		webui.New(application).SetWebUIRoutes(router)
	}
	return api.Handler(router), api
}

func serve(ctx context.Context, opts options, logger *slog.Logger) error {
	application, cleanup, err := newApplication(ctx, opts, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	handler, api := buildHandler(application)
	defer api.Shutdown()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", opts.cfg.Port),
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		logging.LogOperation(logger, "server_starting",
			slog.String("addr", srv.Addr),
			slog.String("env", opts.cfg.Env.String()),
			slog.Any("variants", application.Schedules.Variants()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	logging.LogOperation(logger, "server_stopped")
	return nil
}
