package routes

import (
	"net/http"

	"funlabs/internal/api"
	"funlabs/internal/app"
	"funlabs/internal/utils"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func SetupRoutes(app *app.Application) *chi.Mux {
	router := chi.NewRouter()

	// Router-level middleware runs before route matching, so preflights are
	// answered even for paths that only register GET.
	router.Use(chimiddleware.RequestID)
	if app.Config.Server.TrustProxyHeaders {
		router.Use(chimiddleware.RealIP)
	}
	router.Use(chimiddleware.Recoverer)
	router.Use(app.Middleware.LogRequest)
	router.Use(app.Middleware.CORS)

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteNotFound(w, "Route "+r.Method+" "+r.URL.Path+" not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteMethodNotAllowed(w, "Method "+r.Method+" not allowed on "+r.URL.Path)
	})

	router.Get("/health", app.HealthHandler.HandleHealth)
	router.Method(http.MethodGet, "/metrics", app.Metrics.Handler())

	router.Route("/api", func(r chi.Router) {
		if app.RateLimiter != nil {
			r.Use(app.RateLimiter.Limit)
		}

		r.Get("/topics", app.LearningHandler.HandleListTopics)
		r.Get("/lessons/{lessonId}/questions", app.LearningHandler.HandleListLessonQuestions)

		auth := api.PlaceholderHandler("Auth", app.Logger)
		r.Handle("/auth", auth)
		r.Handle("/auth/*", auth)

		progress := api.PlaceholderHandler("Progress", app.Logger)
		r.Handle("/progress", progress)
		r.Handle("/progress/*", progress)
	})

	return router
}
