package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"peerprep/interview/internal/llm"
	"peerprep/interview/internal/memory"
	"peerprep/interview/internal/metrics"
	"peerprep/interview/internal/models"
	"peerprep/interview/internal/questions"
	"peerprep/interview/internal/repositories"
)

// Engine orchestrates interview sessions: phase transitions, the
// per-question follow-up policy, and final report assembly. All oracle
// and memory calls for a submission complete before any session state
// is mutated, so a failed request leaves the session exactly as it was
// and the same answer can be resubmitted safely.
type Engine struct {
	store     *Store
	oracle    llm.Oracle
	memory    memory.Store
	questions questions.Repository
	reports   *repositories.ReportRepository
	credits   *repositories.CreditRepository
	logger    *zap.Logger
}

func NewEngine(
	store *Store,
	oracle llm.Oracle,
	memoryStore memory.Store,
	questionRepo questions.Repository,
	reportRepo *repositories.ReportRepository,
	creditRepo *repositories.CreditRepository,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		store:     store,
		oracle:    oracle,
		memory:    memoryStore,
		questions: questionRepo,
		reports:   reportRepo,
		credits:   creditRepo,
		logger:    logger,
	}
}

// StartSession debits one credit, samples the technical questions and
// registers a fresh session in the introduction phase.
func (e *Engine) StartSession(ctx context.Context, userID, candidateName string) (*models.StartSessionResponse, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(candidateName) == "" {
		return nil, models.NewError(models.ErrInvalidInput, "user id and candidate name are required")
	}

	sampled, err := e.questions.Sample(ctx, models.TechnicalQuestionsPerSession)
	if err != nil {
		return nil, models.WrapError(models.ErrUpstreamUnavailable, "failed to sample interview questions", err)
	}

	sess := &models.InterviewSession{
		SessionID:     uuid.New().String(),
		UserID:        userID,
		CandidateName: candidateName,
		Questions:     sampled,
		Phase:         models.PhaseIntroduction,
		StartedAt:     time.Now().UTC(),
		Status:        models.SessionInProgress,
	}

	// the opening prompt is recorded before the debit so an infra outage
	// cannot spend a credit on a session that never starts; an orphaned
	// memory entry ages out via its TTL
	if err := e.memory.Append(ctx, sess.SessionID, models.MemoryIntroQuestion, models.IntroPrompt); err != nil {
		return nil, models.WrapError(models.ErrUpstreamUnavailable, "failed to record opening prompt", err)
	}

	// the debit is the last fallible step before the session goes live
	if _, err := e.credits.Debit(userID); err != nil {
		if models.KindOf(err) == models.ErrNoCreditsRemaining {
			return nil, err
		}
		return nil, models.WrapError(models.ErrUpstreamUnavailable, "failed to debit interview credit", err)
	}

	if !e.store.Put(sess) {
		return nil, models.NewError(models.ErrUpstreamUnavailable, "session id collision")
	}

	metrics.SessionStarted()
	e.logger.Info("interview session started",
		zap.String("session_id", sess.SessionID),
		zap.String("user_id", userID))

	return &models.StartSessionResponse{
		SessionID:   sess.SessionID,
		IntroPrompt: models.IntroPrompt,
	}, nil
}

// SubmitAnswer is the single mutating entry point for a candidate's
// answer. It routes by phase and returns either the next prompt or the
// completed report.
func (e *Engine) SubmitAnswer(ctx context.Context, sessionID, rawAnswer string) (*models.SubmitAnswerResponse, error) {
	answer := strings.TrimSpace(rawAnswer)
	if answer == "" {
		return nil, models.NewError(models.ErrInvalidInput, "answer must be a non-empty string")
	}

	sess, ok := e.store.Get(sessionID)
	if !ok {
		// completed sessions leave the store; a late submission for one
		// is a conflict, not a missing session
		if _, err := e.reports.GetBySessionID(sessionID); err == nil {
			return nil, models.NewError(models.ErrAlreadyCompleted, "interview already completed")
		}
		return nil, models.NewError(models.ErrNotFound, "session not found")
	}

	sess.Lock()
	defer sess.Unlock()

	if sess.Status == models.SessionCompleted {
		return nil, models.NewError(models.ErrAlreadyCompleted, "interview already completed")
	}

	switch sess.Phase {
	case models.PhaseIntroduction:
		return e.handleIntroduction(ctx, sess, answer)
	case models.PhaseIntroductionFollowUp:
		return e.handleIntroFollowUp(ctx, sess, answer)
	case models.PhaseTechnical:
		return e.handleTechnical(ctx, sess, answer)
	default:
		return nil, models.NewError(models.ErrAlreadyCompleted, "interview already completed")
	}
}

// handleIntroduction stores the candidate's self-introduction verbatim
// and asks the first contextual follow-up.
func (e *Engine) handleIntroduction(ctx context.Context, sess *models.InterviewSession, answer string) (*models.SubmitAnswerResponse, error) {
	followUp, err := e.oracle.GenerateIntroFollowUp(ctx, answer, nil)
	if err != nil {
		return nil, models.WrapError(models.ErrUpstreamUnavailable, "failed to generate introduction follow-up", err)
	}

	if err := e.appendMemory(ctx, sess.SessionID,
		memoryPair{models.MemoryIntroAnswer, answer},
		memoryPair{models.MemoryIntroQuestion, followUp},
	); err != nil {
		return nil, err
	}

	sess.IntroductionAnswer = answer
	sess.Phase = models.PhaseIntroductionFollowUp
	sess.IntroFollowUpCount = 1
	sess.PendingIntroFollowUpText = followUp

	return nextPromptResponse(sess, "introduction_followup", followUp), nil
}

// handleIntroFollowUp accumulates introduction follow-up answers and,
// once the fixed number have been asked and answered, moves the session
// into the technical phase.
func (e *Engine) handleIntroFollowUp(ctx context.Context, sess *models.InterviewSession, answer string) (*models.SubmitAnswerResponse, error) {
	exchange := models.FollowUpExchange{
		Question: sess.PendingIntroFollowUpText,
		Answer:   answer,
	}
	history := append(append([]models.FollowUpExchange{}, sess.IntroFollowUpHistory...), exchange)

	if sess.IntroFollowUpCount < models.IntroFollowUpsPerSession {
		followUp, err := e.oracle.GenerateIntroFollowUp(ctx, sess.IntroductionAnswer, history)
		if err != nil {
			return nil, models.WrapError(models.ErrUpstreamUnavailable, "failed to generate introduction follow-up", err)
		}

		if err := e.appendMemory(ctx, sess.SessionID,
			memoryPair{models.MemoryIntroAnswer, answer},
			memoryPair{models.MemoryIntroQuestion, followUp},
		); err != nil {
			return nil, err
		}

		sess.IntroFollowUpHistory = history
		sess.IntroFollowUpCount++
		sess.PendingIntroFollowUpText = followUp

		return nextPromptResponse(sess, "introduction_followup", followUp), nil
	}

	// both follow-ups answered: open the technical phase
	first := sess.Questions[0]
	if err := e.appendMemory(ctx, sess.SessionID,
		memoryPair{models.MemoryIntroAnswer, answer},
		memoryPair{models.MemoryMainQuestion, first.Text},
	); err != nil {
		return nil, err
	}

	sess.IntroFollowUpHistory = history
	sess.PendingIntroFollowUpText = ""
	sess.Phase = models.PhaseTechnical
	sess.CurrentQuestionIndex = 0
	sess.CurrentQuestionState = models.QuestionState{}

	return nextPromptResponse(sess, "question", first.Text), nil
}

// handleTechnical runs the answer pipeline for the question in
// progress.
func (e *Engine) handleTechnical(ctx context.Context, sess *models.InterviewSession, answer string) (*models.SubmitAnswerResponse, error) {
	question := sess.CurrentQuestion()
	if question == nil {
		return nil, models.NewError(models.ErrAlreadyCompleted, "no technical question in progress")
	}

	normalized := e.normalize(ctx, answer, question.Text)

	if sess.CurrentQuestionState.AwaitingFollowUpAnswer {
		return e.handleFollowUpAnswer(ctx, sess, question, answer, normalized)
	}
	return e.handleMainAnswer(ctx, sess, question, answer, normalized)
}

// handleMainAnswer evaluates the first answer to a technical question,
// records it and applies the follow-up decision policy.
func (e *Engine) handleMainAnswer(ctx context.Context, sess *models.InterviewSession, question *models.Question, answer, normalized string) (*models.SubmitAnswerResponse, error) {
	eval, err := e.oracle.EvaluateAnswer(ctx, question.Text, question.Answer, answer, normalized)
	if err != nil {
		return nil, models.WrapError(models.ErrUpstreamUnavailable, "failed to evaluate answer", err)
	}

	conversationContext, err := e.memory.FormattedContext(ctx, sess.SessionID)
	if err != nil {
		return nil, models.WrapError(models.ErrUpstreamUnavailable, "failed to read conversation context", err)
	}

	feedback, err := e.oracle.GenerateFeedback(ctx, question.Text, normalized, conversationContext)
	if err != nil {
		return nil, models.WrapError(models.ErrUpstreamUnavailable, "failed to generate feedback", err)
	}

	// decide the follow-up before mutating so a failed oracle call
	// leaves the session untouched
	var followUp *llm.FollowUp
	if question.Category == models.CategoryMaths && sess.CurrentQuestionState.FollowUpCount < models.MaxFollowUpsPerQuestion {
		followUp, err = e.requestFollowUp(ctx, sess, question, normalized, eval, sess.CurrentQuestionState.FollowUpCount, nil, conversationContext)
		if err != nil {
			return nil, err
		}
	}

	// memory commits after every oracle call has succeeded, so a failed
	// submission leaves no entries behind for the retry to duplicate
	if err := e.appendMemory(ctx, sess.SessionID,
		memoryPair{models.MemoryMainAnswer, normalized},
		memoryPair{models.MemoryEvaluation, formatEvaluation(eval)},
	); err != nil {
		return nil, err
	}

	state := &sess.CurrentQuestionState
	state.InitialEvaluation = eval
	state.LatestEvaluation = eval
	state.WasInitiallyCorrect = eval.IsCorrect
	state.Record = &models.QuestionAnswerRecord{
		Question:         *question,
		RawAnswer:        answer,
		NormalizedAnswer: normalized,
		Feedback:         feedback,
		Evaluation:       *eval,
	}

	if followUp != nil {
		return e.commitFollowUp(ctx, sess, followUp)
	}
	return e.finalizeQuestion(ctx, sess)
}

// handleFollowUpAnswer records the answer to a pending follow-up,
// re-evaluates hint answers and re-enters the decision policy.
func (e *Engine) handleFollowUpAnswer(ctx context.Context, sess *models.InterviewSession, question *models.Question, answer, normalized string) (*models.SubmitAnswerResponse, error) {
	state := &sess.CurrentQuestionState
	wasHint := state.CurrentFollowUpType == models.FollowUpHint

	exchange := models.FollowUpExchange{
		Question: state.CurrentFollowUpText,
		Answer:   normalized,
		WasHint:  wasHint,
	}

	memoryEntries := []memoryPair{{models.MemoryFollowUpAnswer, normalized}}

	latest := state.LatestEvaluation
	recovered := false
	if wasHint {
		reEval, err := e.oracle.EvaluateAnswer(ctx, question.Text, question.Answer, answer, normalized)
		if err != nil {
			return nil, models.WrapError(models.ErrUpstreamUnavailable, "failed to re-evaluate hint answer", err)
		}
		latest = reEval
		if reEval.IsCorrect && !state.GotCorrectAfterHint {
			recovered = true
		}
		memoryEntries = append(memoryEntries, memoryPair{models.MemoryEvaluation, formatEvaluation(reEval)})
	}

	// only a hint answer can draw another follow-up: the verification
	// probe after a successful hint comes out of this call (the latest
	// evaluation is now correct, so the oracle returns a probe, and it
	// consumes a regular slot), while answering a probe closes the
	// question out regardless of what else the oracle might offer.
	var followUp *llm.FollowUp
	if wasHint && question.Category == models.CategoryMaths && state.FollowUpCount < models.MaxFollowUpsPerQuestion {
		history := append(append([]models.FollowUpExchange{}, state.FollowUpHistory...), exchange)

		conversationContext, err := e.memory.FormattedContext(ctx, sess.SessionID)
		if err != nil {
			return nil, models.WrapError(models.ErrUpstreamUnavailable, "failed to read conversation context", err)
		}

		followUp, err = e.requestFollowUp(ctx, sess, question, normalized, latest, state.FollowUpCount, history, conversationContext)
		if err != nil {
			return nil, err
		}
	}

	if err := e.appendMemory(ctx, sess.SessionID, memoryEntries...); err != nil {
		return nil, err
	}

	state.FollowUpHistory = append(state.FollowUpHistory, exchange)
	state.Record.FollowUps = append(state.Record.FollowUps, exchange)
	state.LatestEvaluation = latest
	if recovered {
		state.GotCorrectAfterHint = true
	}
	state.AwaitingFollowUpAnswer = false
	state.CurrentFollowUpText = ""
	state.CurrentFollowUpType = ""

	if followUp != nil {
		return e.commitFollowUp(ctx, sess, followUp)
	}
	return e.finalizeQuestion(ctx, sess)
}

// requestFollowUp asks the oracle for the next hint or probe.
func (e *Engine) requestFollowUp(ctx context.Context, sess *models.InterviewSession, question *models.Question, latestAnswer string, eval *models.Evaluation, count int, history []models.FollowUpExchange, conversationContext string) (*llm.FollowUp, error) {
	if history == nil {
		history = sess.CurrentQuestionState.FollowUpHistory
	}

	followUp, err := e.oracle.GenerateFollowUp(ctx, &llm.FollowUpRequest{
		Question:        question.Text,
		CanonicalAnswer: question.Answer,
		LatestAnswer:    latestAnswer,
		Evaluation:      eval,
		FollowUpCount:   count,
		History:         history,
		Context:         conversationContext,
	})
	if err != nil {
		return nil, models.WrapError(models.ErrUpstreamUnavailable, "failed to generate follow-up", err)
	}
	return followUp, nil
}

// commitFollowUp stores the pending follow-up on the question state and
// returns it as the next prompt.
func (e *Engine) commitFollowUp(ctx context.Context, sess *models.InterviewSession, followUp *llm.FollowUp) (*models.SubmitAnswerResponse, error) {
	if err := e.appendMemory(ctx, sess.SessionID,
		memoryPair{models.MemoryFollowUpQuestion, followUp.Question},
	); err != nil {
		return nil, err
	}

	state := &sess.CurrentQuestionState
	state.FollowUpCount++
	state.AwaitingFollowUpAnswer = true
	state.CurrentFollowUpText = followUp.Question
	state.CurrentFollowUpType = followUp.Type

	return nextPromptResponse(sess, "follow_up", followUp.Question), nil
}

// finalizeQuestion moves the in-progress record onto the answer list,
// advances the cursor and either delivers the next question or
// completes the interview.
func (e *Engine) finalizeQuestion(ctx context.Context, sess *models.InterviewSession) (*models.SubmitAnswerResponse, error) {
	record := sess.CurrentQuestionState.Record
	if record == nil {
		return nil, models.NewError(models.ErrInvalidInput, "no answer recorded for the current question")
	}

	nextIndex := sess.CurrentQuestionIndex + 1

	if nextIndex < len(sess.Questions) {
		next := sess.Questions[nextIndex]
		if err := e.appendMemory(ctx, sess.SessionID,
			memoryPair{models.MemoryMainQuestion, next.Text},
		); err != nil {
			return nil, err
		}

		sess.Answers = append(sess.Answers, *record)
		sess.CurrentQuestionState = models.QuestionState{}
		sess.CurrentQuestionIndex = nextIndex

		return nextPromptResponse(sess, "question", next.Text), nil
	}

	// all questions answered: assemble and persist the report before
	// touching session state, so a failed completion can be retried
	answers := append(append([]models.QuestionAnswerRecord{}, sess.Answers...), *record)
	report, err := e.assembleReport(ctx, sess, answers, models.ReportCompleted)
	if err != nil {
		return nil, err
	}

	sess.Answers = answers
	sess.CurrentQuestionState = models.QuestionState{}
	sess.CurrentQuestionIndex = nextIndex
	sess.Phase = models.PhaseCompleted
	sess.Status = models.SessionCompleted
	e.store.Delete(sess.SessionID)
	e.clearMemory(ctx, sess.SessionID)

	metrics.SessionCompleted(string(models.ReportCompleted))
	e.logger.Info("interview session completed",
		zap.String("session_id", sess.SessionID),
		zap.Int("final_score", report.FinalScore))

	return &models.SubmitAnswerResponse{Done: true, Report: report}, nil
}

// EndEarly terminates a session before its natural end. A partial
// report is produced when at least one technical question has been
// answered; otherwise the session is simply discarded.
func (e *Engine) EndEarly(ctx context.Context, sessionID string) (*models.EndEarlyResponse, error) {
	sess, ok := e.store.Get(sessionID)
	if !ok {
		if _, err := e.reports.GetBySessionID(sessionID); err == nil {
			return nil, models.NewError(models.ErrAlreadyCompleted, "interview already completed")
		}
		return nil, models.NewError(models.ErrNotFound, "session not found")
	}

	sess.Lock()
	defer sess.Unlock()

	if sess.Status == models.SessionCompleted {
		return nil, models.NewError(models.ErrAlreadyCompleted, "interview already completed")
	}

	answers := append([]models.QuestionAnswerRecord{}, sess.Answers...)
	// a question whose main answer was given but whose follow-ups were
	// cut short still counts as answered
	if rec := sess.CurrentQuestionState.Record; rec != nil {
		answers = append(answers, *rec)
	}

	if len(answers) == 0 {
		sess.Status = models.SessionCompleted
		e.store.Delete(sessionID)
		e.clearMemory(ctx, sessionID)
		e.logger.Info("interview session abandoned before any answers",
			zap.String("session_id", sessionID))
		return &models.EndEarlyResponse{ReportProduced: false}, nil
	}

	report, err := e.assembleReport(ctx, sess, answers, models.ReportIncomplete)
	if err != nil {
		return nil, err
	}

	sess.Status = models.SessionCompleted
	sess.Phase = models.PhaseCompleted
	e.store.Delete(sessionID)
	e.clearMemory(ctx, sessionID)

	metrics.SessionCompleted(string(models.ReportIncomplete))
	e.logger.Info("interview session ended early",
		zap.String("session_id", sessionID),
		zap.Int("questions_answered", report.QuestionsAnswered))

	return &models.EndEarlyResponse{Report: report, ReportProduced: true}, nil
}

// GetStatus reports on a live session, falling back to durable storage
// for completed ones.
func (e *Engine) GetStatus(ctx context.Context, sessionID string) (*models.StatusResponse, error) {
	if sess, ok := e.store.Get(sessionID); ok {
		sess.Lock()
		defer sess.Unlock()

		resp := &models.StatusResponse{
			SessionID: sessionID,
			Status:    sess.Status,
			Phase:     sess.Phase,
			Progress: &models.ProgressInfo{
				Current: sess.CurrentQuestionIndex,
				Total:   len(sess.Questions),
			},
		}
		if sess.Phase == models.PhaseTechnical {
			if q := sess.CurrentQuestion(); q != nil {
				resp.CurrentQuestion = q.Text
			}
		}
		return resp, nil
	}

	report, err := e.reports.GetBySessionID(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewError(models.ErrNotFound, "session not found")
		}
		return nil, models.WrapError(models.ErrUpstreamUnavailable, "failed to look up completed session", err)
	}

	// the session itself is terminal either way; ReportStatus tells an
	// early-terminated interview apart from a finished one
	score := report.FinalScore
	return &models.StatusResponse{
		SessionID:    sessionID,
		Status:       models.SessionCompleted,
		ReportStatus: report.Status,
		Progress: &models.ProgressInfo{
			Current: report.QuestionsAnswered,
			Total:   report.TotalQuestions,
		},
		FinalScore: &score,
	}, nil
}

// normalize cleans transcription artifacts, failing open to the raw
// answer if the oracle is unavailable.
func (e *Engine) normalize(ctx context.Context, raw, question string) string {
	normalized, err := e.oracle.NormalizeAnswer(ctx, raw, question)
	if err != nil || strings.TrimSpace(normalized) == "" {
		e.logger.Warn("answer normalization failed, using raw transcription",
			zap.Error(err))
		return raw
	}
	return normalized
}

type memoryPair struct {
	entryType string
	text      string
}

func (e *Engine) appendMemory(ctx context.Context, sessionID string, entries ...memoryPair) error {
	for _, entry := range entries {
		if err := e.memory.Append(ctx, sessionID, entry.entryType, entry.text); err != nil {
			return models.WrapError(models.ErrUpstreamUnavailable, "failed to append conversation memory", err)
		}
	}
	return nil
}

func (e *Engine) clearMemory(ctx context.Context, sessionID string) {
	if err := e.memory.Clear(ctx, sessionID); err != nil {
		// entries carry a TTL; a failed cleanup only delays reclamation
		e.logger.Warn("failed to clear conversation memory",
			zap.String("session_id", sessionID), zap.Error(err))
	}
}

func nextPromptResponse(sess *models.InterviewSession, promptType, text string) *models.SubmitAnswerResponse {
	return &models.SubmitAnswerResponse{
		Next: &models.NextPrompt{
			Type:  promptType,
			Text:  text,
			Phase: sess.Phase,
			Progress: models.ProgressInfo{
				Current: sess.CurrentQuestionIndex,
				Total:   len(sess.Questions),
			},
		},
	}
}

func formatEvaluation(eval *models.Evaluation) string {
	if eval == nil {
		return "none"
	}
	verdict := "incorrect"
	if eval.IsCorrect {
		verdict = "correct"
	}
	return fmt.Sprintf("%s (%s): %s", verdict, eval.CorrectnessLevel, eval.Reasoning)
}
