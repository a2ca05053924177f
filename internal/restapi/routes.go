package restapi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	cacheStatic   = 300
	cacheRealtime = 0
)

func (api *RestAPI) SetRoutes(mux *http.ServeMux) {
	mux.Handle("GET /api/subway/status", CacheControlMiddleware(cacheRealtime, http.HandlerFunc(api.subwayStatusHandler)))
	mux.Handle("GET /api/subway/status/{feedID}", CacheControlMiddleware(cacheRealtime, http.HandlerFunc(api.subwayStatusHandler)))
	mux.Handle("GET /api/accessibility/outages", CacheControlMiddleware(cacheRealtime, http.HandlerFunc(api.outagesHandler)))
	mux.Handle("GET /api/feeds", CacheControlMiddleware(cacheStatic, http.HandlerFunc(api.feedsHandler)))
	mux.Handle("GET /healthz", CacheControlMiddleware(cacheRealtime, http.HandlerFunc(api.healthHandler)))

	if api.Application != nil && api.Metrics != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(api.Metrics.Registry, promhttp.HandlerOpts{}))
	}
}
