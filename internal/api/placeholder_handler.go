package api

import (
	"net/http"

	"funlabs/internal/utils"
)

// PlaceholderHandler answers every method on a route group that is reserved
// but not implemented yet.
func PlaceholderHandler(feature string, logger *utils.Logger) http.HandlerFunc {
	message := feature + " routes coming soon"

	return func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("placeholder", r.Method+" "+r.URL.Path)
		utils.WriteJSON(w, http.StatusOK, map[string]string{
			"message": message,
			"method":  r.Method,
			"path":    r.URL.RequestURI(),
		})
	}
}
