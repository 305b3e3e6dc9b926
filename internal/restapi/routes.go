package restapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

type handlerFunc func(w http.ResponseWriter, r *http.Request)

// validateAPIKey rejects requests without a configured key before they reach
// the rate limiter
func validateAPIKey(api *RestAPI, finalHandler handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.RequestHasInvalidAPIKey(r) {
			api.invalidAPIKeyResponse(w, r)
			return
		}
		api.limit(http.HandlerFunc(finalHandler)).ServeHTTP(w, r)
	})
}

// SetRoutes registers the query endpoints on router
func (api *RestAPI) SetRoutes(router *httprouter.Router) {
	router.Handler(http.MethodGet, "/api/where/current-time.json", validateAPIKey(api, api.currentTimeHandler))
	router.Handler(http.MethodGet, "/api/where/stations.json", validateAPIKey(api, api.stationsHandler))
	router.Handler(http.MethodGet, "/api/where/variants.json", validateAPIKey(api, api.variantsHandler))
	router.Handler(http.MethodGet, "/api/where/next-trains/:station", validateAPIKey(api, api.nextTrainsHandler))
	router.Handler(http.MethodGet, "/api/where/timetable/:variant", validateAPIKey(api, api.timetableHandler))
	router.Handler(http.MethodGet, "/api/where/schedule-for-station/:station", validateAPIKey(api, api.scheduleForStationHandler))

	router.NotFound = http.HandlerFunc(api.sendNotFound)
}

// Handler wraps router with the standard middleware chain
func (api *RestAPI) Handler(router http.Handler) http.Handler {
	var h http.Handler = router
	h = CompressionMiddleware(h)
	h = securityHeaders(h)
	h = NewRequestLoggingMiddleware(api.Logger)(h)
	return h
}
