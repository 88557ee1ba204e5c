package models

import (
	"time"

	"gorm.io/gorm"
)

// QuestionScore is the oracle's per-question scoring, each axis 0-5,
// total 0-10.
type QuestionScore struct {
	Correctness    int `json:"correctness"`
	Reasoning      int `json:"reasoning"`
	Clarity        int `json:"clarity"`
	ProblemSolving int `json:"problemSolving"`
	Total          int `json:"total"`
}

// QuestionReport is one question's slice of the final report.
type QuestionReport struct {
	Question         string             `json:"question"`
	Answer           string             `json:"answer"`
	NormalizedAnswer string             `json:"normalizedAnswer,omitempty"`
	Score            QuestionScore      `json:"score"`
	Feedback         string             `json:"feedback"`
	DetailedFeedback string             `json:"detailedFeedback,omitempty"`
	FollowUps        []FollowUpExchange `json:"followUps,omitempty"`
}

// OverallFeedback is the report-level qualitative summary.
type OverallFeedback struct {
	Strengths          []string `json:"strengths"`
	ImprovementAreas   []string `json:"improvementAreas"`
	SuggestedNextSteps []string `json:"suggestedNextSteps"`
}

type ReportStatus string

const (
	ReportCompleted  ReportStatus = "completed"
	ReportIncomplete ReportStatus = "incomplete"
)

// Report is the finalized evaluation artifact for one session.
type Report struct {
	SessionID         string           `json:"sessionId"`
	UserID            string           `json:"userId"`
	CandidateName     string           `json:"candidateName"`
	Status            ReportStatus     `json:"status"`
	Questions         []QuestionReport `json:"questions"`
	FinalScore        int              `json:"finalScore"`
	OverallFeedback   OverallFeedback  `json:"overallFeedback"`
	QuestionsAnswered int              `json:"questionsAnswered"`
	TotalQuestions    int              `json:"totalQuestions"`
	StartedAt         time.Time        `json:"startedAt"`
	CompletedAt       time.Time        `json:"completedAt"`
}

// InterviewReport is the durable row for a finished session. The report
// body is stored as JSON so the schema survives rubric changes.
type InterviewReport struct {
	gorm.Model
	SessionID         string     `gorm:"uniqueIndex;not null" json:"sessionId"`
	UserID            string     `gorm:"not null;index" json:"userId"`
	CandidateName     string     `json:"candidateName"`
	Status            string     `gorm:"not null" json:"status"`
	FinalScore        int        `json:"finalScore"`
	QuestionsAnswered int        `json:"questionsAnswered"`
	TotalQuestions    int        `json:"totalQuestions"`
	ReportJSON        string     `gorm:"type:text;not null" json:"-"`
	StartedAt         time.Time  `json:"startedAt"`
	CompletedAt       time.Time  `json:"completedAt"`
	Exported          bool       `gorm:"not null;default:false;index" json:"exported"`
	ExportedAt        *time.Time `json:"exported_at"`
}

// CreditAccount tracks purchased interview credits per user. One credit
// is debited per session start.
type CreditAccount struct {
	gorm.Model
	UserID    string `gorm:"uniqueIndex;not null" json:"userId"`
	Remaining int    `gorm:"not null;default:0" json:"remaining"`
}
