package restapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gtfsrt "github.com/OneBusAway/go-gtfs/proto"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"

	"subwaystatus.org/internal/app"
	"subwaystatus.org/internal/appconf"
	"subwaystatus.org/internal/clock"
	"subwaystatus.org/internal/feeds"
	"subwaystatus.org/internal/metrics"
	"subwaystatus.org/internal/stations"
)

const testNow = int64(1700000000)

// testEnv bundles an API wired to a fake upstream.
type testEnv struct {
	api      *RestAPI
	upstream *httptest.Server
	logs     *bytes.Buffer
}

// createTestApi builds an API whose realtime and outage fetches go to
// upstream. RateLimit stays zero unless cfg sets it.
func createTestApi(t *testing.T, upstream http.Handler, mutate ...func(*appconf.Config)) *testEnv {
	t.Helper()

	server := httptest.NewServer(upstream)
	t.Cleanup(server.Close)

	cfg := appconf.Default()
	cfg.Env = appconf.Test
	for _, m := range mutate {
		m(&cfg)
	}

	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	clk := clock.NewMockClockUnix(testNow)
	m := metrics.New()
	idx := stations.NewIndex([]stations.StationRecord{
		{StopID: "A27N", Name: "42 St-Port Authority Bus Terminal", Latitude: 40.757308, Longitude: -73.989735},
	})

	application := &app.Application{
		Config:   cfg,
		Logger:   logger,
		Stations: idx,
		Clock:    clk,
		Metrics:  m,
		Status: feeds.NewService(feeds.Options{
			Fetcher:         feeds.NewFetcher(server.Client()),
			Stations:        idx,
			Clock:           clk,
			Metrics:         m,
			Logger:          logger,
			FeedBaseURL:     server.URL + "/feeds",
			OutagesURL:      server.URL + "/outages",
			RealtimeTimeout: 200 * time.Millisecond,
			OutagesTimeout:  200 * time.Millisecond,
		}),
	}

	api := NewRestAPI(application)
	t.Cleanup(api.Shutdown)

	return &testEnv{api: api, upstream: server, logs: &logs}
}

// serve runs one request through the full middleware chain.
func (e *testEnv) serve(t *testing.T, method, target string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	e.api.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, body io.Reader) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

// feedPayload is a small realtime feed: one trip heading for A27N and one
// alert.
func feedPayload(t *testing.T) []byte {
	t.Helper()
	msg := &gtfsrt.FeedMessage{
		Header: &gtfsrt.FeedHeader{
			GtfsRealtimeVersion: proto.String("2.0"),
			Timestamp:           proto.Uint64(uint64(testNow - 30)),
		},
		Entity: []*gtfsrt.FeedEntity{
			{
				Id: proto.String("1"),
				TripUpdate: &gtfsrt.TripUpdate{
					Trip: &gtfsrt.TripDescriptor{
						TripId:      proto.String("057850_A..N"),
						RouteId:     proto.String("A"),
						StartTime:   proto.String("09:38:30"),
						StartDate:   proto.String("20231114"),
						DirectionId: proto.Uint32(1),
					},
					StopTimeUpdate: []*gtfsrt.TripUpdate_StopTimeUpdate{
						{StopId: proto.String("A27N"), Arrival: &gtfsrt.TripUpdate_StopTimeEvent{Time: proto.Int64(testNow + 120)}},
					},
				},
			},
			{
				Id: proto.String("2"),
				Alert: &gtfsrt.Alert{
					HeaderText: &gtfsrt.TranslatedString{Translation: []*gtfsrt.TranslatedString_Translation{
						{Text: proto.String("A trains are delayed"), Language: proto.String("en")},
					}},
					ActivePeriod:   []*gtfsrt.TimeRange{{Start: proto.Uint64(uint64(testNow - 600))}},
					InformedEntity: []*gtfsrt.EntitySelector{{RouteId: proto.String("A")}},
				},
			},
		},
	}
	data, err := proto.Marshal(msg)
	require.NoError(t, err)
	return data
}
