package middleware

import (
	"net/http"

	"funlabs/internal/metrics"
	"funlabs/internal/utils"
)

// CORS applies the origin policy. Rejected origins are answered with a
// CORS_REJECTED error naming the origin; allowed preflights end here with 204.
func (m *Middleware) CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.Policy.Mode() == utils.CORSModeAllowList {
			w.Header().Add("Vary", "Origin")
		}

		origin := r.Header.Get("Origin")
		decision, err := m.Policy.Resolve(origin)
		if err != nil {
			m.Metrics.RecordCORSDecision(metrics.DecisionRejected)
			m.Logger.Warning("cors", err.Error())
			utils.WriteAppError(w, err, m.HideInternal)
			return
		}

		if origin == "" {
			m.Metrics.RecordCORSDecision(metrics.DecisionNoOrigin)
			next.ServeHTTP(w, r)
			return
		}

		m.Metrics.RecordCORSDecision(metrics.DecisionAllowed)
		m.Logger.Debug("cors", "Origin "+origin+" allowed by "+decision.Rule)

		preflight := r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""
		m.Policy.ApplyHeaders(w.Header(), origin, preflight)

		if preflight {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
