package http

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// writeLimiter caps mutating requests per client and minute.
func writeLimiter(perMinute int, metrics *Metrics) func(http.Handler) http.Handler {
	if perMinute < 1 {
		perMinute = 60
	}
	return httprate.Limit(perMinute, time.Minute,
		httprate.WithKeyFuncs(clientIPKey),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.securityEvent("rate_limited")
			writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
		}),
	)
}

func clientIPKey(r *http.Request) (string, error) {
	return "ip:" + extractClientIP(r), nil
}
