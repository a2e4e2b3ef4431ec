package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/negochallenge/backend/internal/handler/admin"
	negotiationHandler "github.com/negochallenge/backend/internal/handler/negotiation"
	waitlistHandler "github.com/negochallenge/backend/internal/handler/waitlist"
	middlewarePkg "github.com/negochallenge/backend/internal/middleware"
	negotiationService "github.com/negochallenge/backend/internal/service/negotiation"
	waitlistService "github.com/negochallenge/backend/internal/service/waitlist"
	"github.com/negochallenge/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(negotiationSvc *negotiationService.Service, waitlistSvc *waitlistService.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	negotiationH := negotiationHandler.New(negotiationSvc)
	negotiationWS := negotiationHandler.NewWebSocketHandler(negotiationSvc)
	waitlistH := waitlistHandler.New(waitlistSvc)
	adminH := admin.New(negotiationSvc)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]any{
			"message": "Nego Challenge API",
			"version": "1.0",
			"endpoints": map[string]string{
				"waitlist": "/api/waitlist",
				"chat":     "/api/chat",
				"sessions": "/api/sessions",
				"admin":    "/admin",
			},
		})
	})

	adminH.RegisterDashboard(r)

	r.Route("/api", func(api chi.Router) {
		negotiationH.RegisterRoutes(api)
		negotiationWS.RegisterWebSocketRoutes(api)
		waitlistH.RegisterRoutes(api)
		adminH.RegisterRoutes(api)
	})

	return r
}
