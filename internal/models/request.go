package models

import "strings"

type StartSessionRequest struct {
	UserID        string `json:"user_id"`
	CandidateName string `json:"candidate_name"`
}

// implements the Validator interface used by the validation middleware
func (r *StartSessionRequest) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return &ErrorResponse{
			Code:    "missing_user_id",
			Message: "user_id field is required",
		}
	}

	if strings.TrimSpace(r.CandidateName) == "" {
		return &ErrorResponse{
			Code:    "missing_candidate_name",
			Message: "candidate_name field is required",
		}
	}

	return nil
}

type SubmitAnswerRequest struct {
	Answer string `json:"answer"`
}

func (r *SubmitAnswerRequest) Validate() error {
	if strings.TrimSpace(r.Answer) == "" {
		return &ErrorResponse{
			Code:    "missing_answer",
			Message: "answer field is required and must be non-empty",
		}
	}
	return nil
}

type SynthesizeRequest struct {
	Text string `json:"text"`
}

func (r *SynthesizeRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return &ErrorResponse{
			Code:    "missing_text",
			Message: "text field is required",
		}
	}
	return nil
}
