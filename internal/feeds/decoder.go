package feeds

import (
	"errors"

	gtfsrt "github.com/OneBusAway/go-gtfs/proto"
	"google.golang.org/protobuf/proto"
)

var errEmptyPayload = errors.New("empty feed payload")

// unmarshalOptions tolerates missing proto2 required fields: absence is
// surfaced to the projectors as an unset optional value.
var unmarshalOptions = proto.UnmarshalOptions{AllowPartial: true}

// Decode parses a GTFS-realtime protobuf payload. Malformed bytes fail the
// whole payload; no partial entity list is returned.
func Decode(raw []byte) (*FeedMessage, error) {
	if len(raw) == 0 {
		return nil, &Error{Kind: KindDecode, Op: "decode", Err: errEmptyPayload}
	}

	var msg gtfsrt.FeedMessage
	if err := unmarshalOptions.Unmarshal(raw, &msg); err != nil {
		return nil, &Error{Kind: KindDecode, Op: "decode", Err: err}
	}

	out := &FeedMessage{
		HeaderTimestamp: int64(msg.GetHeader().GetTimestamp()),
		Entities:        make([]Entity, 0, len(msg.GetEntity())),
	}

	for _, e := range msg.GetEntity() {
		switch {
		case e.GetTripUpdate() != nil:
			out.Entities = append(out.Entities, &TripUpdateEntity{
				ID:         e.GetId(),
				TripUpdate: convertTripUpdate(e.GetTripUpdate()),
			})
		case e.GetAlert() != nil:
			out.Entities = append(out.Entities, &AlertEntity{
				ID:    e.GetId(),
				Alert: convertAlert(e.GetAlert()),
			})
		default:
			out.Skipped++
		}
	}

	return out, nil
}

func convertTripUpdate(tu *gtfsrt.TripUpdate) TripUpdate {
	trip := tu.GetTrip()
	out := TripUpdate{
		TripID:          trip.GetTripId(),
		RouteID:         trip.GetRouteId(),
		StartTime:       trip.GetStartTime(),
		StartDate:       trip.GetStartDate(),
		StopTimeUpdates: make([]StopTimeUpdate, 0, len(tu.GetStopTimeUpdate())),
	}
	if trip != nil && trip.DirectionId != nil {
		dir := *trip.DirectionId == 1
		out.Direction = &dir
	}

	for _, stu := range tu.GetStopTimeUpdate() {
		update := StopTimeUpdate{StopID: stu.GetStopId()}
		if arr := stu.GetArrival(); arr != nil && arr.Time != nil {
			t := *arr.Time
			update.ArrivalTime = &t
		}
		if dep := stu.GetDeparture(); dep != nil && dep.Time != nil {
			t := *dep.Time
			update.DepartureTime = &t
		}
		out.StopTimeUpdates = append(out.StopTimeUpdates, update)
	}

	return out
}

func convertAlert(a *gtfsrt.Alert) Alert {
	out := Alert{
		HeaderText:       convertTranslations(a.GetHeaderText()),
		DescriptionText:  convertTranslations(a.GetDescriptionText()),
		ActivePeriods:    make([]TimeRange, 0, len(a.GetActivePeriod())),
		InformedEntities: make([]EntitySelector, 0, len(a.GetInformedEntity())),
	}

	for _, p := range a.GetActivePeriod() {
		var r TimeRange
		if p.Start != nil {
			s := *p.Start
			r.Start = &s
		}
		if p.End != nil {
			e := *p.End
			r.End = &e
		}
		out.ActivePeriods = append(out.ActivePeriods, r)
	}

	for _, ie := range a.GetInformedEntity() {
		out.InformedEntities = append(out.InformedEntities, EntitySelector{
			RouteID: ie.GetRouteId(),
			StopID:  ie.GetStopId(),
		})
	}

	return out
}

func convertTranslations(ts *gtfsrt.TranslatedString) []Translation {
	if ts == nil {
		return nil
	}
	out := make([]Translation, 0, len(ts.GetTranslation()))
	for _, tr := range ts.GetTranslation() {
		t := Translation{Language: tr.GetLanguage()}
		if tr.Text != nil {
			text := *tr.Text
			t.Text = &text
		}
		out = append(out, t)
	}
	return out
}
