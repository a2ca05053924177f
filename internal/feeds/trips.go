package feeds

import (
	"subwaystatus.org/internal/models"
	"subwaystatus.org/internal/stations"
)

// StationLookup is the read-only view of the station index the projector
// needs. A nil StationLookup disables enrichment.
type StationLookup interface {
	Get(stopID string) (stations.StationRecord, bool)
}

// ProjectTripUpdate selects the first stop, in upstream order, whose event
// time is strictly after now and enriches it from idx. A trip with no such
// stop is returned with a nil FirstFutureStop.
func ProjectTripUpdate(tu TripUpdate, idx StationLookup, now int64) models.ProjectedTripUpdate {
	out := models.ProjectedTripUpdate{
		TripID:    tu.TripID,
		RouteID:   tu.RouteID,
		StartTime: tu.StartTime,
		StartDate: tu.StartDate,
		Direction: tu.Direction,
	}

	for _, stu := range tu.StopTimeUpdates {
		eventTime, ok := stu.EventTime()
		if !ok || eventTime <= now {
			continue
		}

		stop := &models.FirstFutureStop{StopID: stu.StopID, Time: eventTime}
		if idx != nil {
			if rec, found := idx.Get(stu.StopID); found {
				name, lat, lon := rec.Name, rec.Latitude, rec.Longitude
				stop.StopName = &name
				stop.Latitude = &lat
				stop.Longitude = &lon
			}
		}
		out.FirstFutureStop = stop
		break
	}

	return out
}
