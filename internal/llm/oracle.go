package llm

import (
	"context"

	"peerprep/interview/internal/models"
)

// FollowUpRequest carries everything the oracle needs to decide the next
// follow-up for a technical question.
type FollowUpRequest struct {
	Question        string
	CanonicalAnswer string
	LatestAnswer    string
	Evaluation      *models.Evaluation
	FollowUpCount   int
	History         []models.FollowUpExchange
	Context         string
}

// FollowUp is the oracle's decision: the question text and whether it is
// a hint or a probe.
type FollowUp struct {
	Question string              `json:"question"`
	Type     models.FollowUpType `json:"type"`
}

// DetailedFeedbackRequest scopes the narrative to one question only. The
// aggregated conversation context is deliberately absent so feedback for
// one question cannot bleed into another.
type DetailedFeedbackRequest struct {
	Question        string
	CanonicalAnswer string
	Answer          string
	Normalized      string
	Evaluation      *models.Evaluation
	FollowUps       []models.FollowUpExchange
}

// ReportEntry is one question/answer pair of the report input.
type ReportEntry struct {
	Question string
	Answer   string
}

// ScoredQuestion is the oracle's per-question report output.
type ScoredQuestion struct {
	Question string               `json:"question"`
	Score    models.QuestionScore `json:"score"`
	Feedback string               `json:"feedback"`
}

// ReportResult is the oracle's holistic scoring of a session.
type ReportResult struct {
	Questions       []ScoredQuestion       `json:"questions"`
	FinalScore      int                    `json:"finalScore"`
	OverallFeedback models.OverallFeedback `json:"overallFeedback"`
}

// Oracle is the NLP service the session engine depends on. Every call is
// a suspension point: implementations must honor ctx and may fail with a
// ProviderError, in which case the engine leaves session state untouched.
//
// GenerateFollowUp may return (nil, nil) to decline: no further follow-up
// would be informative and the question should finalize. The engine
// treats a decline exactly like hitting the follow-up ceiling.
type Oracle interface {
	NormalizeAnswer(ctx context.Context, raw, question string) (string, error)
	EvaluateAnswer(ctx context.Context, question, canonicalAnswer, raw, normalized string) (*models.Evaluation, error)
	GenerateFollowUp(ctx context.Context, req *FollowUpRequest) (*FollowUp, error)
	GenerateIntroFollowUp(ctx context.Context, answer string, history []models.FollowUpExchange) (string, error)
	GenerateFeedback(ctx context.Context, question, answer, conversationContext string) (string, error)
	GenerateDetailedFeedback(ctx context.Context, req *DetailedFeedbackRequest) (string, error)
	GenerateReport(ctx context.Context, candidateName, sessionID string, entries []ReportEntry) (*ReportResult, error)
	GetProviderName() string
}

// represents an error from an oracle provider
type ProviderError struct {
	Provider string
	Code     string
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return e.Provider + " error: " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Provider + " error: " + e.Message
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Common error codes
const (
	ErrCodeAPIKey       = "invalid_api_key"
	ErrCodeRateLimit    = "rate_limit_exceeded"
	ErrCodeServiceDown  = "service_unavailable"
	ErrCodeInvalidInput = "invalid_input"
	ErrCodeBadResponse  = "malformed_response"
	ErrCodeTimeout      = "timeout"
)
