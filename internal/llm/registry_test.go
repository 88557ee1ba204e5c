package llm

import (
	"context"
	"errors"
	"testing"

	"peerprep/interview/internal/models"
)

type testOracle struct{}

func (testOracle) NormalizeAnswer(context.Context, string, string) (string, error) { return "", nil }
func (testOracle) EvaluateAnswer(context.Context, string, string, string, string) (*models.Evaluation, error) {
	return &models.Evaluation{}, nil
}
func (testOracle) GenerateFollowUp(context.Context, *FollowUpRequest) (*FollowUp, error) {
	return &FollowUp{}, nil
}
func (testOracle) GenerateIntroFollowUp(context.Context, string, []models.FollowUpExchange) (string, error) {
	return "", nil
}
func (testOracle) GenerateFeedback(context.Context, string, string, string) (string, error) {
	return "", nil
}
func (testOracle) GenerateDetailedFeedback(context.Context, *DetailedFeedbackRequest) (string, error) {
	return "", nil
}
func (testOracle) GenerateReport(context.Context, string, string, []ReportEntry) (*ReportResult, error) {
	return &ReportResult{}, nil
}
func (testOracle) GetProviderName() string { return "test" }

func TestProviderErrorError(t *testing.T) {
	err := &ProviderError{Provider: "gemini", Message: "failed"}
	if err.Error() != "gemini error: failed" {
		t.Fatalf("unexpected error message: %s", err.Error())
	}

	wrapped := &ProviderError{Provider: "gemini", Message: "failed", Err: errors.New("detail")}
	if got := wrapped.Error(); got != "gemini error: failed (detail)" {
		t.Fatalf("unexpected wrapped error message: %s", got)
	}
}

func TestRegisterAndNewProvider(t *testing.T) {
	RegisterProvider("test_provider", func() (Oracle, error) {
		return testOracle{}, nil
	})
	defer delete(providers, "test_provider")

	oracle, err := NewProvider("test_provider")
	if err != nil {
		t.Fatalf("NewProvider returned error: %v", err)
	}
	if name := oracle.GetProviderName(); name != "test" {
		t.Fatalf("unexpected provider name: %s", name)
	}
}

func TestNewProvider_Unknown(t *testing.T) {
	if _, err := NewProvider("missing"); err == nil {
		t.Fatal("expected error for unregistered provider")
	}
}
