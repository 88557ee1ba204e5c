package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"peerprep/interview/internal/middleware"
	"peerprep/interview/internal/models"
	"peerprep/interview/internal/repositories"
	"peerprep/interview/internal/session"
	"peerprep/interview/internal/utils"
)

// SessionHandler is the thin HTTP layer over the session engine.
type SessionHandler struct {
	engine  *session.Engine
	reports *repositories.ReportRepository
	logger  *zap.Logger
}

func NewSessionHandler(engine *session.Engine, reports *repositories.ReportRepository, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		engine:  engine,
		reports: reports,
		logger:  logger,
	}
}

func (h *SessionHandler) StartHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.StartSessionRequest](r)

	resp, err := h.engine.StartSession(r.Context(), req.UserID, req.CandidateName)
	if err != nil {
		h.logger.Error("failed to start session",
			zap.String("user_id", req.UserID), zap.Error(err))
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, resp)
}

func (h *SessionHandler) SubmitAnswerHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	req := middleware.GetValidatedRequest[*models.SubmitAnswerRequest](r)

	resp, err := h.engine.SubmitAnswer(r.Context(), sessionID, req.Answer)
	if err != nil {
		h.logger.Error("failed to process answer",
			zap.String("session_id", sessionID), zap.Error(err))
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, resp)
}

func (h *SessionHandler) EndEarlyHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")

	resp, err := h.engine.EndEarly(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("failed to end session",
			zap.String("session_id", sessionID), zap.Error(err))
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, resp)
}

func (h *SessionHandler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")

	resp, err := h.engine.GetStatus(r.Context(), sessionID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, resp)
}

// ReportHandler serves the persisted report for a completed session.
func (h *SessionHandler) ReportHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")

	report, err := h.reports.GetBySessionID(sessionID)
	if err != nil {
		utils.Error(w, models.NewError(models.ErrNotFound, "report not found"))
		return
	}

	utils.JSON(w, http.StatusOK, report)
}

// UserReportsHandler lists report summaries for one user, newest first.
func (h *SessionHandler) UserReportsHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	rows, err := h.reports.GetByUserID(userID)
	if err != nil {
		h.logger.Error("failed to list reports",
			zap.String("user_id", userID), zap.Error(err))
		utils.Error(w, models.WrapError(models.ErrUpstreamUnavailable, "failed to list reports", err))
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"user_id": userID,
		"reports": rows,
	})
}
