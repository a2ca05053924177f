package feeds

import (
	"bytes"
	"log/slog"
	"testing"

	gtfsrt "github.com/OneBusAway/go-gtfs/proto"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
)

// marshalFeed encodes entities under a header with the given timestamp.
// Partial messages are allowed so fixtures can omit required fields.
func marshalFeed(t *testing.T, timestamp uint64, entities ...*gtfsrt.FeedEntity) []byte {
	t.Helper()
	msg := &gtfsrt.FeedMessage{
		Header: &gtfsrt.FeedHeader{
			GtfsRealtimeVersion: proto.String("2.0"),
			Timestamp:           proto.Uint64(timestamp),
		},
		Entity: entities,
	}
	data, err := proto.MarshalOptions{AllowPartial: true}.Marshal(msg)
	require.NoError(t, err)
	return data
}

type stopEvent struct {
	stopID    string
	arrival   *int64
	departure *int64
}

func tripEntity(id, tripID, routeID string, direction *uint32, stops ...stopEvent) *gtfsrt.FeedEntity {
	updates := make([]*gtfsrt.TripUpdate_StopTimeUpdate, 0, len(stops))
	for _, s := range stops {
		stu := &gtfsrt.TripUpdate_StopTimeUpdate{StopId: proto.String(s.stopID)}
		if s.arrival != nil {
			stu.Arrival = &gtfsrt.TripUpdate_StopTimeEvent{Time: s.arrival}
		}
		if s.departure != nil {
			stu.Departure = &gtfsrt.TripUpdate_StopTimeEvent{Time: s.departure}
		}
		updates = append(updates, stu)
	}
	return &gtfsrt.FeedEntity{
		Id: proto.String(id),
		TripUpdate: &gtfsrt.TripUpdate{
			Trip: &gtfsrt.TripDescriptor{
				TripId:      proto.String(tripID),
				RouteId:     proto.String(routeID),
				StartTime:   proto.String("08:15:00"),
				StartDate:   proto.String("20231114"),
				DirectionId: direction,
			},
			StopTimeUpdate: updates,
		},
	}
}

func translated(texts ...string) *gtfsrt.TranslatedString {
	ts := &gtfsrt.TranslatedString{}
	for _, text := range texts {
		ts.Translation = append(ts.Translation, &gtfsrt.TranslatedString_Translation{
			Text:     proto.String(text),
			Language: proto.String("en"),
		})
	}
	return ts
}

func alertEntity(id string, alert *gtfsrt.Alert) *gtfsrt.FeedEntity {
	return &gtfsrt.FeedEntity{Id: proto.String(id), Alert: alert}
}

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
