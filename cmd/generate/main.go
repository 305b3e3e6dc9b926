// Command generate builds the published timetables of the line from its line
// configuration and slot document.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"mrt6.timetable.org/internal/appconf"
	"mrt6.timetable.org/internal/config"
	"mrt6.timetable.org/internal/gtfs"
	"mrt6.timetable.org/internal/logging"
	"mrt6.timetable.org/internal/publish"
	"mrt6.timetable.org/internal/timetable"
	"mrt6.timetable.org/timetabledb"
)

type options struct {
	linePath  string
	slotsPath string
	outDir    string
	dbPath    string
	env       appconf.Environment
	verbose   bool
}

// errVariantsFailed reports that at least one variant was not published
var errVariantsFailed = errors.New("one or more variants failed")

func main() {
	var opts options
	var envFlag, logLevel string

	flag.StringVar(&opts.linePath, "line", "data/mrt6.yml", "Line configuration (YAML)")
	flag.StringVar(&opts.slotsPath, "slots", "data/timetable-config.md", "Slot document")
	flag.StringVar(&opts.outDir, "out-dir", ".", "Directory for the published JSON files")
	flag.StringVar(&opts.dbPath, "db", "", "Also archive timetables in this SQLite database")
	flag.StringVar(&envFlag, "env", "development", "Environment (development|test|production)")
	flag.BoolVar(&opts.verbose, "verbose", false, "Log every stored database statement")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug|info|warn|error)")
	flag.Parse()

	opts.env = appconf.EnvFlagToEnvironment(envFlag)
	logger := logging.NewTextLogger(os.Stderr, logging.ParseLevel(logLevel))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := run(ctx, opts, logger); err != nil {
		logging.LogError(logger, "timetable generation failed", err)
		os.Exit(1)
	}
}

// run generates every configured variant. A failing variant is logged and
// the rest are still published; the returned error then wraps
// errVariantsFailed
func run(ctx context.Context, opts options, logger *slog.Logger) error {
	cfg, err := config.LoadLineConfig(opts.linePath)
	if err != nil {
		return err
	}
	line, policy, defaults, err := cfg.Build()
	if err != nil {
		return err
	}

	if cfg.GTFS.Source != "" {
		static, err := gtfs.LoadStatic(ctx, gtfs.Config{Source: cfg.GTFS.Source, RouteID: cfg.GTFS.RouteID}, logger)
		if err != nil {
			return err
		}
		if line, err = gtfs.ApplyToLine(line, static, cfg.GTFS.RouteID); err != nil {
			return err
		}
	}
	if err := line.Validate(); err != nil {
		return err
	}

	variants, err := config.LoadSlotDocument(opts.slotsPath, cfg, defaults, logger)
	if err != nil {
		return err
	}

	var db *timetabledb.Client
	if opts.dbPath != "" {
		db, err = timetabledb.NewClient(timetabledb.NewConfig(opts.dbPath, opts.env, opts.verbose), logger)
		if err != nil {
			return err
		}
		defer logging.SafeCloseWithLogging(db, logger, "timetable_database")
	}

	gen := &timetable.Generator{Line: line, Policy: policy, Logger: logger}
	failed := 0
	for _, result := range gen.Generate(ctx, variants) {
		if err := publishResult(ctx, cfg, opts.outDir, db, result, logger); err != nil {
			logging.LogError(logger, "variant not published", err,
				slog.String("variant", result.Variant))
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errVariantsFailed, failed, len(variants))
	}
	return nil
}

func publishResult(ctx context.Context, cfg *config.LineConfig, outDir string, db *timetabledb.Client, result timetable.Result, logger *slog.Logger) error {
	if result.Err != nil {
		return result.Err
	}

	output := result.Variant + ".json"
	if v, ok := cfg.Variant(result.Variant); ok && v.Output != "" {
		output = v.Output
	}
	path := filepath.Join(outDir, output)
	if err := publish.WriteJSON(path, result.Timetable, logger); err != nil {
		return err
	}

	attrs := []slog.Attr{
		slog.String("variant", result.Variant),
		slog.String("path", path),
	}
	for _, d := range result.Timetable.Directions {
		attrs = append(attrs, slog.Int("trains_to_"+d, result.Timetable.TrainCount(d)))
	}

	if db != nil {
		stored, err := db.StoreTimetable(ctx, result.Timetable)
		if err != nil {
			return err
		}
		attrs = append(attrs, slog.Bool("archived", stored))
	}

	logging.LogOperation(logger, "variant_published", attrs...)
	return nil
}
