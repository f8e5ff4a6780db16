package api

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"chainopt/internal/metrics"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// LogMiddleware logs each request and records HTTP metrics.
func LogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		dur := time.Since(start)
		metrics.HTTPRequests.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(rec.status)).Inc()
		metrics.HTTPDuration.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(rec.status)).Observe(dur.Seconds())
		log.Printf("%s %s %s %d %v", r.RemoteAddr, r.Method, r.URL.Path, rec.status, dur)
	})
}

// RateLimitMiddleware applies a process-wide token bucket. Health and
// metrics endpoints are exempt so probes keep working under load.
func RateLimitMiddleware(rps float64, burst int, next http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(rps), burst)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/healthz", "/readyz", "/metrics":
			next.ServeHTTP(w, r)
			return
		}
		if !limiter.Allow() {
			writeProblem(w, http.StatusTooManyRequests, "Rate limit exceeded", "try again later", r.URL.Path)
			return
		}
		next.ServeHTTP(w, r)
	})
}
