package middleware

import (
	"fmt"
	"net/http"
	"time"

	"funlabs/internal/metrics"
	"funlabs/internal/utils"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type Middleware struct {
	Policy       *utils.OriginPolicy
	Metrics      *metrics.Metrics
	Logger       *utils.Logger
	HideInternal bool
	LogRequests  bool
}

func NewMiddleware(policy *utils.OriginPolicy, m *metrics.Metrics, logger *utils.Logger, hideInternal, logRequests bool) *Middleware {
	return &Middleware{
		Policy:       policy,
		Metrics:      m,
		Logger:       logger,
		HideInternal: hideInternal,
		LogRequests:  logRequests,
	}
}

func (m *Middleware) LogRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)

		var route string
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			route = rctx.RoutePattern()
		}
		m.Metrics.RecordRequest(r.Method, route, status, elapsed)

		if !m.LogRequests {
			return
		}

		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = "no-origin"
		}

		m.Logger.Info("request", fmt.Sprintf("%s %s %d [%s] from %s in %s",
			r.Method,
			r.URL.Path,
			status,
			origin,
			r.RemoteAddr,
			elapsed.Round(time.Microsecond)))
	})
}
