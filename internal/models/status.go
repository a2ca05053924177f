package models

import (
	"encoding/json"
	"fmt"
)

// StatusResult is the JSON document returned for one realtime feed request.
type StatusResult struct {
	FeedIDRequested       string                `json:"feed_id_requested"`
	FeedTimestamp         int64                 `json:"feed_timestamp"`
	CurrentProcessingTime int64                 `json:"current_processing_time"`
	TripUpdates           []ProjectedTripUpdate `json:"trip_updates"`
	Alerts                []ProjectedAlert      `json:"alerts"`
}

// ProjectedTripUpdate is a trip with its next actionable stop event.
// FirstFutureStop is nil when the trip has no stop event after the
// processing time.
type ProjectedTripUpdate struct {
	TripID          string           `json:"trip_id"`
	RouteID         string           `json:"route_id"`
	StartTime       string           `json:"start_time"`
	StartDate       string           `json:"start_date"`
	Direction       *bool            `json:"direction"`
	FirstFutureStop *FirstFutureStop `json:"first_future_stop"`
}

// FirstFutureStop carries station metadata only when the stop is known to
// the station index.
type FirstFutureStop struct {
	StopID    string   `json:"stop_id"`
	Time      int64    `json:"time"`
	StopName  *string  `json:"stop_name,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// ProjectedAlert is a normalized service alert. The parsing-error placeholder
// leaves ActivePeriod and InformedEntities nil so they are left out of the
// JSON; regular alerts always carry (possibly empty) lists.
type ProjectedAlert struct {
	Header           string           `json:"header"`
	Description      string           `json:"description"`
	ActivePeriod     []ActivePeriod   `json:"active_period,omitzero"`
	InformedEntities []InformedEntity `json:"informed_entities,omitzero"`
}

// ActivePeriod is encoded as a two element array [start, end] where either
// side may be null.
type ActivePeriod struct {
	Start *int64
	End   *int64
}

func (p ActivePeriod) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]*int64{p.Start, p.End})
}

func (p *ActivePeriod) UnmarshalJSON(data []byte) error {
	var pair []*int64
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("active period must have 2 elements, got %d", len(pair))
	}
	p.Start, p.End = pair[0], pair[1]
	return nil
}

// InformedEntity is copied verbatim from the upstream selector; empty
// strings are kept.
type InformedEntity struct {
	RouteID string `json:"route_id"`
	StopID  string `json:"stop_id"`
}

// ErrorResponse is the body of every failed request. RequestID echoes the
// X-Request-ID header so a client report can be matched to server logs.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// FeedInfo describes one requestable feed identifier.
type FeedInfo struct {
	ID    string   `json:"id"`
	Lines []string `json:"lines"`
}
