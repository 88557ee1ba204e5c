package models

// uniform error responses
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// lets validation errors flow straight out of Validate() methods
func (e *ErrorResponse) Error() string { return e.Message }

// StartSessionResponse is returned on interview start: the new session
// id plus the opening prompt the candidate hears first.
type StartSessionResponse struct {
	SessionID   string `json:"session_id"`
	IntroPrompt string `json:"intro_prompt"`
}

// NextPrompt is what the candidate is asked next after a submission.
type NextPrompt struct {
	Type     string       `json:"type"` // "introduction_followup", "question", "follow_up"
	Text     string       `json:"text"`
	Phase    Phase        `json:"phase"`
	Progress ProgressInfo `json:"progress"`
}

type ProgressInfo struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// SubmitAnswerResponse carries either the next prompt or, once the
// interview is over, the completed report.
type SubmitAnswerResponse struct {
	Done   bool        `json:"done"`
	Next   *NextPrompt `json:"next,omitempty"`
	Report *Report     `json:"report,omitempty"`
}

// StatusResponse answers getStatus for live and completed sessions. For
// sessions resolved from durable storage, ReportStatus distinguishes a
// naturally finished interview from an early-terminated one.
type StatusResponse struct {
	SessionID       string        `json:"session_id"`
	Status          SessionStatus `json:"status"`
	Phase           Phase         `json:"phase,omitempty"`
	Progress        *ProgressInfo `json:"progress,omitempty"`
	CurrentQuestion string        `json:"current_question,omitempty"`
	ReportStatus    ReportStatus  `json:"report_status,omitempty"`
	FinalScore      *int          `json:"final_score,omitempty"`
}

// EndEarlyResponse wraps the partial report, if one was produced.
type EndEarlyResponse struct {
	Report *Report `json:"report,omitempty"`
	// No report is produced when the session ends before any technical
	// question was answered.
	ReportProduced bool `json:"report_produced"`
}

// TranscriptionResponse mirrors the speech provider contract. When the
// provider is unreachable UseBrowserFallback is set instead of failing
// the request.
type TranscriptionResponse struct {
	Success            bool   `json:"success"`
	Text               string `json:"text,omitempty"`
	Provider           string `json:"provider,omitempty"`
	UseBrowserFallback bool   `json:"use_browser_fallback,omitempty"`
}

type SynthesisResponse struct {
	Success            bool   `json:"success"`
	AudioBase64        string `json:"audio,omitempty"`
	Provider           string `json:"provider,omitempty"`
	UseBrowserFallback bool   `json:"use_browser_fallback,omitempty"`
}
