package handlers

import (
	"io"
	"net/http"

	"go.uber.org/zap"

	"peerprep/interview/internal/middleware"
	"peerprep/interview/internal/models"
	"peerprep/interview/internal/speech"
	"peerprep/interview/internal/utils"
)

// 10 MB cap on uploaded audio, matching the provider's own limit.
const maxAudioBytes = 10 << 20

type SpeechHandler struct {
	service speech.Service
	logger  *zap.Logger
}

func NewSpeechHandler(service speech.Service, logger *zap.Logger) *SpeechHandler {
	return &SpeechHandler{service: service, logger: logger}
}

// TranscribeHandler accepts a multipart upload under the "audio" field
// and returns the transcription, or the browser-fallback sentinel when
// the provider cannot serve.
func (h *SpeechHandler) TranscribeHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxAudioBytes); err != nil {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "invalid_upload",
			Message: "Expected multipart form with an audio file",
		})
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "missing_audio",
			Message: "audio file field is required",
		})
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(io.LimitReader(file, maxAudioBytes))
	if err != nil {
		h.logger.Error("failed to read uploaded audio", zap.Error(err))
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "invalid_upload",
			Message: "Failed to read audio upload",
		})
		return
	}

	resp := h.service.Transcribe(r.Context(), audio, header.Header.Get("Content-Type"))
	utils.JSON(w, http.StatusOK, resp)
}

func (h *SpeechHandler) SynthesizeHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.SynthesizeRequest](r)

	resp := h.service.Synthesize(r.Context(), req.Text)
	utils.JSON(w, http.StatusOK, resp)
}
