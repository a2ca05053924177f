package app

import (
	"log/slog"

	"subwaystatus.org/internal/appconf"
	"subwaystatus.org/internal/clock"
	"subwaystatus.org/internal/feeds"
	"subwaystatus.org/internal/metrics"
	"subwaystatus.org/internal/stations"
)

// Application holds the dependencies shared by HTTP handlers and
// middleware. Everything in it is read-only once the server starts.
type Application struct {
	Config        appconf.Config
	Logger        *slog.Logger
	Stations      *stations.Index
	StationReport stations.LoadReport
	Status        *feeds.Service
	Clock         clock.Clock
	Metrics       *metrics.Metrics
}

// StationsReady reports whether trip updates can be enriched.
func (app *Application) StationsReady() bool {
	return app != nil && app.Stations.Len() > 0
}
