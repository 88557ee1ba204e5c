package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"peerprep/interview/internal/llm"
	"peerprep/interview/internal/metrics"
	"peerprep/interview/internal/models"
	"peerprep/interview/internal/prompts"
	"peerprep/interview/internal/utils"
)

// Client is the Gemini-backed oracle.
type Client struct {
	client  *genai.Client
	config  *Config
	prompts prompts.PromptProvider
}

func NewClient(config *Config, promptProvider prompts.PromptProvider) (*Client, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, &llm.ProviderError{
			Provider: "gemini",
			Code:     llm.ErrCodeAPIKey,
			Message:  "Failed to create Gemini client",
			Err:      err,
		}
	}

	return &Client{
		client:  client,
		config:  config,
		prompts: promptProvider,
	}, nil
}

func (c *Client) GetProviderName() string {
	return "gemini"
}

// generate runs one prompt against the configured model and returns the
// raw response text.
func (c *Client) generate(ctx context.Context, task string, data map[string]string) (text string, err error) {
	start := time.Now()
	defer func() { metrics.ObserveOracle(task, start, err) }()

	prompt, err := c.prompts.BuildPrompt(task, data)
	if err != nil {
		return "", &llm.ProviderError{
			Provider: "gemini",
			Code:     llm.ErrCodeInvalidInput,
			Message:  "Failed to build prompt for task " + task,
			Err:      err,
		}
	}

	result, err := c.client.Models.GenerateContent(
		ctx,
		c.config.Model,
		genai.Text(prompt),
		nil,
	)
	if err != nil {
		return "", &llm.ProviderError{
			Provider: "gemini",
			Code:     llm.ErrCodeServiceDown,
			Message:  "Failed to generate content for task " + task,
			Err:      err,
		}
	}
	if result == nil {
		return "", &llm.ProviderError{
			Provider: "gemini",
			Code:     llm.ErrCodeBadResponse,
			Message:  "No response generated",
		}
	}

	text, err = result.Text()
	if err != nil {
		return "", &llm.ProviderError{
			Provider: "gemini",
			Code:     llm.ErrCodeBadResponse,
			Message:  "Failed to extract response text",
			Err:      err,
		}
	}
	if text == "" {
		return "", &llm.ProviderError{
			Provider: "gemini",
			Code:     llm.ErrCodeBadResponse,
			Message:  "Empty response generated",
		}
	}

	return text, nil
}

// generateJSON runs one prompt and decodes the JSON payload of the
// response into out.
func (c *Client) generateJSON(ctx context.Context, task string, data map[string]string, out interface{}) error {
	text, err := c.generate(ctx, task, data)
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(utils.StripFences(text)), out); err != nil {
		return &llm.ProviderError{
			Provider: "gemini",
			Code:     llm.ErrCodeBadResponse,
			Message:  "Failed to parse JSON response for task " + task,
			Err:      err,
		}
	}
	return nil
}

func (c *Client) NormalizeAnswer(ctx context.Context, raw, question string) (string, error) {
	text, err := c.generate(ctx, "normalize", map[string]string{
		"Question": question,
		"Raw":      raw,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (c *Client) EvaluateAnswer(ctx context.Context, question, canonicalAnswer, raw, normalized string) (*models.Evaluation, error) {
	var eval models.Evaluation
	err := c.generateJSON(ctx, "evaluate", map[string]string{
		"Question":        question,
		"CanonicalAnswer": canonicalAnswer,
		"Raw":             raw,
		"Normalized":      normalized,
	}, &eval)
	if err != nil {
		return nil, err
	}

	if eval.CorrectnessLevel == "" {
		eval.CorrectnessLevel = "incorrect"
		if eval.IsCorrect {
			eval.CorrectnessLevel = "correct"
		}
	}
	return &eval, nil
}

func (c *Client) GenerateFollowUp(ctx context.Context, req *llm.FollowUpRequest) (*llm.FollowUp, error) {
	var followUp llm.FollowUp
	err := c.generateJSON(ctx, "follow_up", map[string]string{
		"Question":        req.Question,
		"CanonicalAnswer": req.CanonicalAnswer,
		"LatestAnswer":    req.LatestAnswer,
		"Evaluation":      formatEvaluation(req.Evaluation),
		"FollowUpCount":   fmt.Sprintf("%d", req.FollowUpCount),
		"History":         formatExchanges(req.History),
		"Context":         req.Context,
	}, &followUp)
	if err != nil {
		return nil, err
	}

	// the model declines by answering {"type": "none"}; an empty question
	// reads the same way
	if followUp.Type == "none" || strings.TrimSpace(followUp.Question) == "" {
		return nil, nil
	}
	if followUp.Type != models.FollowUpHint && followUp.Type != models.FollowUpProbe {
		// default by correctness: incorrect answers get hints
		followUp.Type = models.FollowUpProbe
		if req.Evaluation != nil && !req.Evaluation.IsCorrect {
			followUp.Type = models.FollowUpHint
		}
	}
	return &followUp, nil
}

func (c *Client) GenerateIntroFollowUp(ctx context.Context, answer string, history []models.FollowUpExchange) (string, error) {
	text, err := c.generate(ctx, "intro_follow_up", map[string]string{
		"Answer":  answer,
		"History": formatExchanges(history),
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (c *Client) GenerateFeedback(ctx context.Context, question, answer, conversationContext string) (string, error) {
	text, err := c.generate(ctx, "feedback", map[string]string{
		"Question": question,
		"Answer":   answer,
		"Context":  conversationContext,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (c *Client) GenerateDetailedFeedback(ctx context.Context, req *llm.DetailedFeedbackRequest) (string, error) {
	text, err := c.generate(ctx, "detailed_feedback", map[string]string{
		"Question":        req.Question,
		"CanonicalAnswer": req.CanonicalAnswer,
		"Answer":          req.Answer,
		"Normalized":      req.Normalized,
		"Evaluation":      formatEvaluation(req.Evaluation),
		"FollowUps":       formatExchanges(req.FollowUps),
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (c *Client) GenerateReport(ctx context.Context, candidateName, sessionID string, entries []llm.ReportEntry) (*llm.ReportResult, error) {
	var transcript strings.Builder
	for i, entry := range entries {
		fmt.Fprintf(&transcript, "Q%d: %s\nA%d: %s\n\n", i+1, entry.Question, i+1, entry.Answer)
	}

	var report llm.ReportResult
	err := c.generateJSON(ctx, "report", map[string]string{
		"CandidateName": candidateName,
		"SessionID":     sessionID,
		"Transcript":    transcript.String(),
	}, &report)
	if err != nil {
		return nil, err
	}

	if len(report.Questions) == 0 {
		return nil, &llm.ProviderError{
			Provider: "gemini",
			Code:     llm.ErrCodeBadResponse,
			Message:  "Report response contained no questions",
		}
	}

	clampReport(&report)
	return &report, nil
}

// clampReport bounds all scores to their documented ranges.
func clampReport(report *llm.ReportResult) {
	for i := range report.Questions {
		s := &report.Questions[i].Score
		s.Correctness = clamp(s.Correctness, 0, 5)
		s.Reasoning = clamp(s.Reasoning, 0, 5)
		s.Clarity = clamp(s.Clarity, 0, 5)
		s.ProblemSolving = clamp(s.ProblemSolving, 0, 5)
		s.Total = clamp(s.Total, 0, 10)
	}
	report.FinalScore = clamp(report.FinalScore, 0, 100)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
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

func formatExchanges(history []models.FollowUpExchange) string {
	if len(history) == 0 {
		return "none"
	}
	var b strings.Builder
	for i, fu := range history {
		fmt.Fprintf(&b, "%d. Q: %s\n   A: %s\n", i+1, fu.Question, fu.Answer)
	}
	return b.String()
}
