package restapi

import (
	"fmt"
	"net/http"
)

// HealthResponse represents the JSON response from the health endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// healthHandler reports readiness. A missing station index degrades
// enrichment but does not make the service unavailable.
func (api *RestAPI) healthHandler(w http.ResponseWriter, r *http.Request) {
	if api.Application == nil || api.Status == nil {
		api.sendJSON(w, r, http.StatusServiceUnavailable, HealthResponse{
			Status: "unavailable",
			Detail: "status service not initialized",
		})
		return
	}

	if !api.StationsReady() {
		api.sendJSON(w, r, http.StatusOK, HealthResponse{
			Status: "degraded",
			Detail: "station index is empty; stop names and coordinates are omitted",
		})
		return
	}

	api.sendJSON(w, r, http.StatusOK, HealthResponse{
		Status: "ok",
		Detail: fmt.Sprintf("%d stations loaded", api.Stations.Len()),
	})
}
