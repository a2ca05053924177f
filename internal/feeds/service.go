package feeds

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"subwaystatus.org/internal/clock"
	"subwaystatus.org/internal/logging"
	"subwaystatus.org/internal/metrics"
	"subwaystatus.org/internal/models"
)

const outagesFeedLabel = "outages"

var errNotJSONArray = errors.New("outage document is not a JSON array")

// Options configures a Service. Zero values fall back to production
// defaults.
type Options struct {
	Fetcher  *Fetcher
	Stations StationLookup
	Clock    clock.Clock
	Metrics  *metrics.Metrics
	Logger   *slog.Logger

	FeedBaseURL     string
	OutagesURL      string
	RealtimeTimeout time.Duration
	OutagesTimeout  time.Duration
}

// Service runs the status pipeline: resolve, fetch, decode, then project
// every entity. It holds no per-request state and is safe for concurrent use.
type Service struct {
	fetcher  *Fetcher
	stations StationLookup
	clock    clock.Clock
	metrics  *metrics.Metrics
	logger   *slog.Logger

	feedBaseURL     string
	outagesURL      string
	realtimeTimeout time.Duration
	outagesTimeout  time.Duration
}

// NewService builds a Service from opts.
func NewService(opts Options) *Service {
	s := &Service{
		fetcher:         opts.Fetcher,
		stations:        opts.Stations,
		clock:           opts.Clock,
		metrics:         opts.Metrics,
		logger:          opts.Logger,
		feedBaseURL:     opts.FeedBaseURL,
		outagesURL:      opts.OutagesURL,
		realtimeTimeout: opts.RealtimeTimeout,
		outagesTimeout:  opts.OutagesTimeout,
	}
	if s.fetcher == nil {
		s.fetcher = NewFetcher(nil)
	}
	if s.clock == nil {
		s.clock = clock.RealClock{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.feedBaseURL == "" {
		s.feedBaseURL = DefaultFeedBaseURL
	}
	if s.realtimeTimeout <= 0 {
		s.realtimeTimeout = RealtimeTimeout
	}
	if s.outagesTimeout <= 0 {
		s.outagesTimeout = OutagesTimeout
	}
	return s
}

// GetSubwayStatus returns the projected status of one feed. Resolve, fetch
// and decode failures abort the request with a *Error and no partial
// result; past decoding the request cannot fail.
func (s *Service) GetSubwayStatus(ctx context.Context, feedID string) (*models.StatusResult, error) {
	feed, err := Resolve(feedID)
	if err != nil {
		return nil, err
	}

	logger := s.requestLogger(ctx, feed.ID)
	ctx = logging.WithLogger(ctx, logger)

	start := time.Now()
	msg, err := s.fetchFeed(ctx, feed)
	if err != nil {
		var fe *Error
		if errors.As(err, &fe) {
			fe.FeedID = feedID
		}
		s.metrics.ObserveFetch(feed.ID, KindOf(err).String(), time.Since(start))
		logging.LogError(logger, "feed request failed", err,
			slog.String("kind", KindOf(err).String()),
			slog.Int("status_code", StatusCodeOf(err)))
		return nil, err
	}
	s.metrics.ObserveFetch(feed.ID, "ok", time.Since(start))

	now := s.clock.NowUnix()
	result := &models.StatusResult{
		FeedIDRequested:       feedID,
		FeedTimestamp:         msg.HeaderTimestamp,
		CurrentProcessingTime: now,
		TripUpdates:           make([]models.ProjectedTripUpdate, 0, len(msg.Entities)),
	}

	var alertEntities []*AlertEntity
	for _, e := range msg.Entities {
		switch ent := e.(type) {
		case *TripUpdateEntity:
			result.TripUpdates = append(result.TripUpdates, ProjectTripUpdate(ent.TripUpdate, s.stations, now))
		case *AlertEntity:
			alertEntities = append(alertEntities, ent)
		}
	}

	alerts, placeholders := ProjectAlerts(alertEntities, logger)
	result.Alerts = alerts

	s.metrics.ObserveEntities(feed.ID, len(result.TripUpdates), len(alerts), msg.Skipped, placeholders)
	logging.LogOperation(logger, "feed_projected",
		slog.Int("trip_updates", len(result.TripUpdates)),
		slog.Int("alerts", len(alerts)),
		slog.Int("alert_placeholders", placeholders),
		slog.Int("skipped_entities", msg.Skipped),
		slog.Duration("duration", time.Since(start)))

	return result, nil
}

// requestLogger extends the caller's request logger, falling back to the
// service logger outside an HTTP request.
func (s *Service) requestLogger(ctx context.Context, feedID string) *slog.Logger {
	return logging.FromContextOr(ctx, s.logger).With(
		slog.String("component", "feeds"),
		slog.String("feed_id", feedID))
}

func (s *Service) fetchFeed(ctx context.Context, feed Feed) (*FeedMessage, error) {
	url := feed.URL(s.feedBaseURL)
	raw, err := s.fetcher.Fetch(ctx, url, s.realtimeTimeout)
	if err != nil {
		return nil, err
	}
	msg, err := Decode(raw)
	if err != nil {
		var fe *Error
		if errors.As(err, &fe) {
			fe.URL = url
		}
		return nil, err
	}
	return msg, nil
}

// GetOutages fetches the elevator and escalator outage document and returns
// its records verbatim. HTTP 401 and 403 are reported as KindAuthorizationLikely.
func (s *Service) GetOutages(ctx context.Context) ([]json.RawMessage, error) {
	logger := s.requestLogger(ctx, outagesFeedLabel)
	ctx = logging.WithLogger(ctx, logger)

	start := time.Now()
	records, err := s.fetchOutages(ctx)
	if err != nil {
		s.metrics.ObserveFetch(outagesFeedLabel, KindOf(err).String(), time.Since(start))
		logging.LogError(logger, "outage request failed", err,
			slog.String("kind", KindOf(err).String()),
			slog.Int("status_code", StatusCodeOf(err)))
		return nil, err
	}
	s.metrics.ObserveFetch(outagesFeedLabel, "ok", time.Since(start))

	logging.LogOperation(logger, "outages_fetched", slog.Int("records", len(records)))
	return records, nil
}

func (s *Service) fetchOutages(ctx context.Context) ([]json.RawMessage, error) {
	if s.outagesURL == "" {
		return nil, &Error{Kind: KindFetchTransport, Op: "outages", Err: errors.New("no outage source configured")}
	}

	raw, err := s.fetcher.Fetch(ctx, s.outagesURL, s.outagesTimeout)
	if err != nil {
		var fe *Error
		if errors.As(err, &fe) {
			fe.Op = "outages"
			if fe.StatusCode == http.StatusUnauthorized || fe.StatusCode == http.StatusForbidden {
				fe.Kind = KindAuthorizationLikely
			}
		}
		return nil, err
	}

	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, &Error{Kind: KindDecode, Op: "outages", URL: s.outagesURL, Err: fmt.Errorf("parsing outage document: %w", err)}
	}
	if records == nil {
		return nil, &Error{Kind: KindDecode, Op: "outages", URL: s.outagesURL, Err: errNotJSONArray}
	}
	return records, nil
}
