package restapi

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"subwaystatus.org/internal/feeds"
	"subwaystatus.org/internal/logging"
	"subwaystatus.org/internal/models"
)

func setJSONResponseType(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
}

func (api *RestAPI) sendJSON(w http.ResponseWriter, r *http.Request, code int, body any) {
	setJSONResponseType(w)
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.LogError(api.logger(r), "failed to encode response", err)
	}
}

func (api *RestAPI) sendError(w http.ResponseWriter, r *http.Request, code int, message string) {
	api.sendJSON(w, r, code, models.ErrorResponse{
		Error:     message,
		RequestID: GetRequestID(r.Context()),
	})
}

func (api *RestAPI) logger(r *http.Request) *slog.Logger {
	if r != nil {
		return logging.FromContext(r.Context())
	}
	if api.Application != nil && api.Logger != nil {
		return api.Logger
	}
	return slog.Default()
}

// statusErrorResponse maps a realtime pipeline failure to an HTTP status
// and a client message.
func statusErrorResponse(feedID string, err error) (int, string) {
	switch feeds.KindOf(err) {
	case feeds.KindInvalidFeedID:
		return http.StatusBadRequest, "Invalid feed ID"
	case feeds.KindFetchTimeout:
		return http.StatusGatewayTimeout, fmt.Sprintf("Timeout fetching feed ID %s", feedID)
	case feeds.KindFetchTransport, feeds.KindDecode:
		return http.StatusBadGateway, fmt.Sprintf("Could not fetch/parse feed ID %s", feedID)
	default:
		return http.StatusInternalServerError, "Failed to retrieve subway status."
	}
}

// outageErrorResponse maps an outage fetch failure to an HTTP status and a
// client message.
func outageErrorResponse(err error) (int, string) {
	code := feeds.StatusCodeOf(err)
	switch feeds.KindOf(err) {
	case feeds.KindFetchTimeout:
		return http.StatusGatewayTimeout, "Timeout fetching accessibility data"
	case feeds.KindAuthorizationLikely:
		return http.StatusBadGateway, fmt.Sprintf("Authorization error (%d) fetching accessibility data. API Key may be required.", code)
	case feeds.KindFetchTransport:
		if code != 0 {
			return http.StatusBadGateway, fmt.Sprintf("HTTP error (%d) fetching accessibility data.", code)
		}
		return http.StatusBadGateway, "Network error fetching accessibility data"
	case feeds.KindDecode:
		return http.StatusBadGateway, "Invalid format received for accessibility data"
	default:
		return http.StatusInternalServerError, "Unexpected error fetching accessibility data"
	}
}
