package stations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"subwaystatus.org/internal/logging"
)

var errUnsupportedFormat = errors.New("unsupported station source format")

// Attempt records the outcome of trying one candidate source.
type Attempt struct {
	Path string
	Err  error
}

// LoadReport describes how the index was built.
type LoadReport struct {
	// Source is the path that was loaded, or empty if every candidate failed.
	Source   string
	Loaded   int
	Skipped  int
	Attempts []Attempt
	Duration time.Duration
}

// sourceResult is what a single format loader produces.
type sourceResult struct {
	records []StationRecord
	skipped int
}

// Load tries each candidate path in order and builds the index from the
// first one that loads. It never fails: when no candidate loads, the
// returned index is empty and trip updates are served without enrichment.
func Load(ctx context.Context, candidates []string, logger *slog.Logger) (*Index, LoadReport) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "stations"))

	start := time.Now()
	report := LoadReport{}

	for _, path := range candidates {
		res, err := loadSource(ctx, path)
		report.Attempts = append(report.Attempts, Attempt{Path: path, Err: err})
		if err != nil {
			logging.LogWarn(logger, "station source unavailable", err, slog.String("path", path))
			continue
		}

		idx := NewIndex(res.records)
		report.Source = path
		report.Loaded = idx.Len()
		report.Skipped = res.skipped
		report.Duration = time.Since(start)

		logging.LogOperation(logger, "stations_loaded",
			slog.String("path", path),
			slog.Int("stations", report.Loaded),
			slog.Int("skipped_rows", report.Skipped),
			slog.Duration("duration", report.Duration))
		return idx, report
	}

	report.Duration = time.Since(start)
	logger.Warn("no station source could be loaded; continuing without station metadata",
		slog.Any("tried", candidates))
	return Empty(), report
}

func loadSource(ctx context.Context, path string) (sourceResult, error) {
	if _, err := os.Stat(path); err != nil {
		return sourceResult{}, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".csv":
		return loadCSVFile(path)
	case ".zip":
		return loadGTFSZip(path)
	case ".db", ".sqlite", ".sqlite3":
		return loadSQLite(ctx, path)
	default:
		return sourceResult{}, fmt.Errorf("%w: %s", errUnsupportedFormat, path)
	}
}
