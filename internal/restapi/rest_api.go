package restapi

import (
	"net/http"
	"time"

	"subwaystatus.org/internal/app"
)

// RestAPI serves the subway status endpoints on top of an Application.
type RestAPI struct {
	*app.Application
	rateLimiter *RateLimitMiddleware
}

// NewRestAPI creates a RestAPI. Per-client rate limiting is only enabled
// when the configured limit is positive.
func NewRestAPI(app *app.Application) *RestAPI {
	api := &RestAPI{Application: app}
	if app != nil && app.Config.RateLimit > 0 {
		api.rateLimiter = NewRateLimitMiddleware(app.Config.RateLimit, time.Second, app.Clock)
	}
	return api
}

// Handler returns the routed mux wrapped in the middleware chain, outermost
// first: request id, request logging, CORS, rate limiting, compression,
// metrics.
func (api *RestAPI) Handler() http.Handler {
	mux := http.NewServeMux()
	api.SetRoutes(mux)

	var handler http.Handler = mux
	handler = MetricsHandler(api.Metrics)(handler)
	handler = CompressionMiddleware(handler)
	if api.rateLimiter != nil {
		handler = api.rateLimiter.Handler()(handler)
	}
	handler = NewCORSMiddleware(api.Config.CORSOrigins)(handler)
	handler = NewRequestLoggingMiddleware(api.Logger)(handler)
	handler = RequestIDMiddleware(handler)
	return handler
}

// Shutdown stops background work owned by the API.
func (api *RestAPI) Shutdown() {
	if api.rateLimiter != nil {
		api.rateLimiter.Stop()
	}
}
