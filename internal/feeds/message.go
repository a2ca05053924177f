package feeds

// FeedMessage is the decoded form of one realtime payload. It lives for a
// single request.
type FeedMessage struct {
	HeaderTimestamp int64
	Entities        []Entity
	// Skipped counts upstream entities that were neither a trip update nor an
	// alert (vehicle positions, deletions without payload).
	Skipped int
}

// Entity is one unit of a feed: exactly one of *TripUpdateEntity or
// *AlertEntity.
type Entity interface {
	EntityID() string
	isEntity()
}

// TripUpdateEntity wraps a trip update with its upstream entity id.
type TripUpdateEntity struct {
	ID         string
	TripUpdate TripUpdate
}

func (e *TripUpdateEntity) EntityID() string { return e.ID }
func (*TripUpdateEntity) isEntity()          {}

// AlertEntity wraps an alert with its upstream entity id.
type AlertEntity struct {
	ID    string
	Alert Alert
}

func (e *AlertEntity) EntityID() string { return e.ID }
func (*AlertEntity) isEntity()          {}

// TripUpdate is the realtime prediction for one vehicle run.
type TripUpdate struct {
	TripID          string
	RouteID         string
	StartTime       string
	StartDate       string
	Direction       *bool
	StopTimeUpdates []StopTimeUpdate
}

// StopTimeUpdate holds the raw optional event times as sent upstream.
// Use EventTime to apply the "set and positive" rule.
type StopTimeUpdate struct {
	StopID        string
	ArrivalTime   *int64
	DepartureTime *int64
}

// EventTime returns the arrival time, else the departure time. Upstream
// encodes "no data" as 0, so values <= 0 count as absent.
func (s StopTimeUpdate) EventTime() (int64, bool) {
	if s.ArrivalTime != nil && *s.ArrivalTime > 0 {
		return *s.ArrivalTime, true
	}
	if s.DepartureTime != nil && *s.DepartureTime > 0 {
		return *s.DepartureTime, true
	}
	return 0, false
}

// Alert is a service advisory as decoded, before normalization.
type Alert struct {
	HeaderText       []Translation
	DescriptionText  []Translation
	ActivePeriods    []TimeRange
	InformedEntities []EntitySelector
}

// Translation is one localized text. Text is nil when the upstream entry
// omitted its text field.
type Translation struct {
	Text     *string
	Language string
}

// TimeRange bounds are nil when unset upstream.
type TimeRange struct {
	Start *uint64
	End   *uint64
}

// EntitySelector is the part of an informed entity the projection keeps.
type EntitySelector struct {
	RouteID string
	StopID  string
}
