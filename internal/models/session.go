package models

import (
	"sync"
	"time"
)

// Phase is the top-level stage of an interview. Transitions only move
// forward: introduction -> introduction_followup -> technical -> completed.
type Phase string

const (
	PhaseIntroduction         Phase = "introduction"
	PhaseIntroductionFollowUp Phase = "introduction_followup"
	PhaseTechnical            Phase = "technical"
	PhaseCompleted            Phase = "completed"
)

type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
)

// FollowUpType distinguishes why a follow-up was asked: a hint guides a
// candidate who answered incorrectly, a probe verifies real understanding
// after a correct (or hint-recovered) answer.
type FollowUpType string

const (
	FollowUpHint  FollowUpType = "hint"
	FollowUpProbe FollowUpType = "probe"
)

// FollowUpExchange is one follow-up question and the candidate's answer.
type FollowUpExchange struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	WasHint  bool   `json:"wasHint"`
}

// Evaluation is the oracle's verdict on one answer.
type Evaluation struct {
	IsCorrect        bool   `json:"isCorrect"`
	CorrectnessLevel string `json:"correctnessLevel"`
	Reasoning        string `json:"reasoning"`
}

// QuestionState is the transient sub-state of the technical question
// currently in progress. It is reset to its zero value whenever the
// question cursor advances.
type QuestionState struct {
	FollowUpCount     int
	InitialEvaluation *Evaluation
	// LatestEvaluation is the verdict follow-up decisions run against.
	// Starts equal to InitialEvaluation and is replaced when a hint
	// answer is re-evaluated; InitialEvaluation stays frozen.
	LatestEvaluation       *Evaluation
	AwaitingFollowUpAnswer bool
	CurrentFollowUpText    string
	CurrentFollowUpType    FollowUpType
	FollowUpHistory        []FollowUpExchange
	WasInitiallyCorrect    bool
	GotCorrectAfterHint    bool
	// Record is the in-progress answer record for this question. It is
	// moved onto InterviewSession.Answers when the question finalizes,
	// which keeps len(Answers) == CurrentQuestionIndex between requests.
	Record *QuestionAnswerRecord
}

// QuestionAnswerRecord is the finalized record for one technical question.
// Immutable once the question cursor has advanced past it.
type QuestionAnswerRecord struct {
	Question         Question           `json:"question"`
	RawAnswer        string             `json:"rawAnswer"`
	NormalizedAnswer string             `json:"normalizedAnswer"`
	Feedback         string             `json:"feedback"`
	Evaluation       Evaluation         `json:"evaluation"`
	FollowUps        []FollowUpExchange `json:"followUpQuestions"`
}

// InterviewSession is the full state of one candidate's interview.
// Owned exclusively by the session store until removed on completion.
// All mutations must hold mu: the engine serializes submissions per
// session so counters cannot be corrupted by concurrent requests.
type InterviewSession struct {
	SessionID     string
	UserID        string
	CandidateName string

	Questions            []Question
	CurrentQuestionIndex int
	Phase                Phase

	IntroductionAnswer       string
	IntroFollowUpCount       int
	IntroFollowUpHistory     []FollowUpExchange
	PendingIntroFollowUpText string

	CurrentQuestionState QuestionState
	Answers              []QuestionAnswerRecord

	StartedAt time.Time
	Status    SessionStatus

	mu sync.Mutex
}

// Lock acquires the per-session mutation lock.
func (s *InterviewSession) Lock() { s.mu.Lock() }

// Unlock releases the per-session mutation lock.
func (s *InterviewSession) Unlock() { s.mu.Unlock() }

// CurrentQuestion returns the question in progress, or nil when the
// cursor has run past the end of the list.
func (s *InterviewSession) CurrentQuestion() *Question {
	if s.CurrentQuestionIndex < 0 || s.CurrentQuestionIndex >= len(s.Questions) {
		return nil
	}
	return &s.Questions[s.CurrentQuestionIndex]
}
