package restapi

import (
	"net/http"

	"subwaystatus.org/internal/feeds"
	"subwaystatus.org/internal/models"
)

const defaultFeedID = "1"

func (api *RestAPI) subwayStatusHandler(w http.ResponseWriter, r *http.Request) {
	feedID := r.PathValue("feedID")
	if feedID == "" {
		feedID = defaultFeedID
	}

	result, err := api.Status.GetSubwayStatus(r.Context(), feedID)
	if err != nil {
		code, message := statusErrorResponse(feedID, err)
		api.sendError(w, r, code, message)
		return
	}

	api.sendJSON(w, r, http.StatusOK, result)
}

func (api *RestAPI) outagesHandler(w http.ResponseWriter, r *http.Request) {
	records, err := api.Status.GetOutages(r.Context())
	if err != nil {
		code, message := outageErrorResponse(err)
		api.sendError(w, r, code, message)
		return
	}

	api.sendJSON(w, r, http.StatusOK, records)
}

func (api *RestAPI) feedsHandler(w http.ResponseWriter, r *http.Request) {
	known := feeds.KnownFeeds()
	out := make([]models.FeedInfo, 0, len(known))
	for _, f := range known {
		out = append(out, models.FeedInfo{ID: f.ID, Lines: f.Lines})
	}
	api.sendJSON(w, r, http.StatusOK, out)
}
