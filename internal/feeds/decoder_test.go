package feeds

import (
	"testing"

	gtfsrt "github.com/OneBusAway/go-gtfs/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
)

func TestDecodeEntities(t *testing.T) {
	raw := marshalFeed(t, 1700000000,
		tripEntity("e1", "trip-1", "A", proto.Uint32(1),
			stopEvent{stopID: "A27N", arrival: proto.Int64(1700000100)},
			stopEvent{stopID: "A28N", departure: proto.Int64(1700000200)}),
		alertEntity("e2", &gtfsrt.Alert{
			HeaderText: translated("Delays"),
			ActivePeriod: []*gtfsrt.TimeRange{
				{Start: proto.Uint64(1699990000)},
			},
			InformedEntity: []*gtfsrt.EntitySelector{
				{RouteId: proto.String("A")},
			},
		}),
		&gtfsrt.FeedEntity{
			Id:      proto.String("e3"),
			Vehicle: &gtfsrt.VehiclePosition{Trip: &gtfsrt.TripDescriptor{TripId: proto.String("trip-1")}},
		},
	)

	msg, err := Decode(raw)
	require.NoError(t, err)

	assert.Equal(t, int64(1700000000), msg.HeaderTimestamp)
	assert.Equal(t, 1, msg.Skipped)
	require.Len(t, msg.Entities, 2)

	tu, ok := msg.Entities[0].(*TripUpdateEntity)
	require.True(t, ok)
	assert.Equal(t, "e1", tu.EntityID())
	assert.Equal(t, "trip-1", tu.TripUpdate.TripID)
	assert.Equal(t, "A", tu.TripUpdate.RouteID)
	assert.Equal(t, "08:15:00", tu.TripUpdate.StartTime)
	assert.Equal(t, "20231114", tu.TripUpdate.StartDate)
	require.NotNil(t, tu.TripUpdate.Direction)
	assert.True(t, *tu.TripUpdate.Direction)
	require.Len(t, tu.TripUpdate.StopTimeUpdates, 2)
	assert.Equal(t, int64(1700000100), *tu.TripUpdate.StopTimeUpdates[0].ArrivalTime)
	assert.Nil(t, tu.TripUpdate.StopTimeUpdates[0].DepartureTime)
	assert.Nil(t, tu.TripUpdate.StopTimeUpdates[1].ArrivalTime)

	al, ok := msg.Entities[1].(*AlertEntity)
	require.True(t, ok)
	assert.Equal(t, "e2", al.EntityID())
	require.Len(t, al.Alert.HeaderText, 1)
	assert.Equal(t, "Delays", *al.Alert.HeaderText[0].Text)
	assert.Nil(t, al.Alert.DescriptionText)
	require.Len(t, al.Alert.ActivePeriods, 1)
	assert.Equal(t, uint64(1699990000), *al.Alert.ActivePeriods[0].Start)
	assert.Nil(t, al.Alert.ActivePeriods[0].End)
	assert.Equal(t, []EntitySelector{{RouteID: "A"}}, al.Alert.InformedEntities)
}

func TestDecodeDirection(t *testing.T) {
	raw := marshalFeed(t, 1,
		tripEntity("n", "t0", "L", proto.Uint32(0)),
		tripEntity("u", "t1", "L", nil))

	msg, err := Decode(raw)
	require.NoError(t, err)
	require.Len(t, msg.Entities, 2)

	north := msg.Entities[0].(*TripUpdateEntity).TripUpdate
	require.NotNil(t, north.Direction)
	assert.False(t, *north.Direction)

	unknown := msg.Entities[1].(*TripUpdateEntity).TripUpdate
	assert.Nil(t, unknown.Direction)
}

func TestDecodeMissingTranslationText(t *testing.T) {
	raw := marshalFeed(t, 1, alertEntity("a", &gtfsrt.Alert{
		HeaderText: &gtfsrt.TranslatedString{
			Translation: []*gtfsrt.TranslatedString_Translation{{Language: proto.String("en")}},
		},
	}))

	msg, err := Decode(raw)
	require.NoError(t, err)
	require.Len(t, msg.Entities, 1)

	header := msg.Entities[0].(*AlertEntity).Alert.HeaderText
	require.Len(t, header, 1)
	assert.Nil(t, header[0].Text)
	assert.Equal(t, "en", header[0].Language)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
	}{
		{"empty payload", nil},
		{"garbage", []byte{0xff, 0xff, 0xff, 0xff, 0x0f}},
		{"truncated", marshalFeed(t, 1700000000, tripEntity("e1", "trip", "A", nil))[:12]},
		{"html error page", []byte("<html><body>Service Unavailable</body></html>")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := Decode(tt.raw)
			assert.Nil(t, msg)
			require.Error(t, err)
			assert.Equal(t, KindDecode, KindOf(err))
		})
	}
}
