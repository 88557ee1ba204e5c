package routers

import (
	"peerprep/interview/internal/handlers"
	"peerprep/interview/internal/middleware"
	"peerprep/interview/internal/models"

	"github.com/go-chi/chi/v5"
)

func SpeechRoutes(router *chi.Mux, speechHandler *handlers.SpeechHandler) {
	router.Route("/api/v1/interview/speech", func(r chi.Router) {
		r.Post("/transcribe", speechHandler.TranscribeHandler)
		r.With(middleware.ValidateRequest[*models.SynthesizeRequest]()).Post("/synthesize", speechHandler.SynthesizeHandler)
	})
}
