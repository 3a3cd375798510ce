package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	agentHandler "github.com/MrJamesThe3rd/finnychat/internal/http/agent"
	"github.com/MrJamesThe3rd/finnychat/internal/http/auth"
)

func New(
	jwtSecret []byte,
	allowedOrigins []string,
	agentV1 *agentHandler.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/agent", func(r chi.Router) {
			r.Use(auth.Middleware(jwtSecret))
			r.Use(middleware.AllowContentType("application/json"))
			agentV1.Routes(r)
		})
	})

	return router
}
