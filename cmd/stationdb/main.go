// Command stationdb converts a stops.txt table or a GTFS static archive into
// the SQLite station database read by the API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/OneBusAway/go-gtfs"

	"subwaystatus.org/internal/logging"
	"subwaystatus.org/internal/stations"
)

func main() {
	var (
		input   string
		output  string
		verbose bool
	)
	flag.StringVar(&input, "in", "stops.txt", "Source table (.txt, .csv) or GTFS archive (.zip)")
	flag.StringVar(&output, "out", "stations.db", "SQLite database to create or update")
	flag.BoolVar(&verbose, "verbose", false, "Enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := logging.NewTextLogger(os.Stderr, level).With(slog.String("component", "stationdb"))

	if err := run(context.Background(), input, output, logger); err != nil {
		logging.LogError(logger, "conversion failed", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, input, output string, logger *slog.Logger) error {
	start := time.Now()

	records, skipped, err := readSource(input)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("%s contains no usable stations", input)
	}

	db, err := stations.OpenSQLite(output, false)
	if err != nil {
		return fmt.Errorf("opening %s: %w", output, err)
	}
	defer logging.SafeCloseWithLogging(db, logger, "sqlite_database")

	if err := stations.WriteSQLite(ctx, db, records); err != nil {
		return err
	}

	logging.LogOperation(logger, "stations_written",
		slog.String("input", input),
		slog.String("output", output),
		slog.Int("stations", len(records)),
		slog.Int("skipped_rows", skipped),
		slog.Duration("duration", time.Since(start)))
	return nil
}

func readSource(path string) ([]stations.StationRecord, int, error) {
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, 0, err
		}
		static, err := gtfs.ParseStatic(b, gtfs.ParseStaticOptions{})
		if err != nil {
			return nil, 0, fmt.Errorf("parsing %s: %w", path, err)
		}
		records, skipped := stations.FromStatic(static)
		return records, skipped, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = f.Close() }()

	return stations.ReadCSV(f)
}
