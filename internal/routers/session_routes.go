package routers

import (
	"peerprep/interview/internal/handlers"
	"peerprep/interview/internal/middleware"
	"peerprep/interview/internal/models"

	"github.com/go-chi/chi/v5"
)

func SessionRoutes(router *chi.Mux, sessionHandler *handlers.SessionHandler) {
	router.Route("/api/v1/interview", func(r chi.Router) {
		r.With(middleware.ValidateRequest[*models.StartSessionRequest]()).Post("/sessions", sessionHandler.StartHandler)
		r.With(middleware.ValidateRequest[*models.SubmitAnswerRequest]()).Post("/sessions/{sessionId}/answer", sessionHandler.SubmitAnswerHandler)
		r.Post("/sessions/{sessionId}/end", sessionHandler.EndEarlyHandler)
		r.Get("/sessions/{sessionId}/status", sessionHandler.StatusHandler)
		r.Get("/sessions/{sessionId}/report", sessionHandler.ReportHandler)
		r.Get("/users/{userId}/reports", sessionHandler.UserReportsHandler)
	})
}
