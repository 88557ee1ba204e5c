package handlers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"peerprep/interview/internal/llm"
	"peerprep/interview/internal/memory"
	"peerprep/interview/internal/models"
	"peerprep/interview/internal/repositories"
	"peerprep/interview/internal/session"
	"peerprep/interview/internal/testhelpers"
)

// ============================================================================
// Shared test fixtures
// ============================================================================

// stubOracle returns canned values for every oracle operation.
type stubOracle struct{}

func (stubOracle) NormalizeAnswer(_ context.Context, raw, _ string) (string, error) {
	return raw, nil
}

func (stubOracle) EvaluateAnswer(_ context.Context, _, _, _, _ string) (*models.Evaluation, error) {
	return &models.Evaluation{IsCorrect: true, CorrectnessLevel: "fully_correct", Reasoning: "ok"}, nil
}

func (stubOracle) GenerateFollowUp(_ context.Context, _ *llm.FollowUpRequest) (*llm.FollowUp, error) {
	return nil, nil
}

func (stubOracle) GenerateIntroFollowUp(_ context.Context, _ string, history []models.FollowUpExchange) (string, error) {
	return fmt.Sprintf("Follow-up %d?", len(history)+1), nil
}

func (stubOracle) GenerateFeedback(_ context.Context, _, _, _ string) (string, error) {
	return "Nice work.", nil
}

func (stubOracle) GenerateDetailedFeedback(_ context.Context, _ *llm.DetailedFeedbackRequest) (string, error) {
	return "Detailed notes.", nil
}

func (stubOracle) GenerateReport(_ context.Context, _, _ string, entries []llm.ReportEntry) (*llm.ReportResult, error) {
	result := &llm.ReportResult{FinalScore: 6}
	for _, entry := range entries {
		result.Questions = append(result.Questions, llm.ScoredQuestion{
			Question: entry.Question,
			Score:    models.QuestionScore{Total: 6},
			Feedback: "Fine.",
		})
	}
	return result, nil
}

func (stubOracle) GetProviderName() string { return "stub" }

type stubQuestionRepo struct{}

func (stubQuestionRepo) Sample(_ context.Context, n int) ([]models.Question, error) {
	out := make([]models.Question, n)
	for i := range out {
		out[i] = models.Question{
			ID:       fmt.Sprintf("q%d", i+1),
			Text:     fmt.Sprintf("Question %d?", i+1),
			Answer:   "42",
			Category: models.CategoryMaths,
			Status:   models.StatusActive,
		}
	}
	return out, nil
}

func (stubQuestionRepo) GetByID(_ context.Context, _ string) (*models.Question, error) {
	return nil, fmt.Errorf("not found")
}

type testStack struct {
	engine  *session.Engine
	reports *repositories.ReportRepository
	credits *repositories.CreditRepository
	db      *gorm.DB
	redis   *redis.Client
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	db := testhelpers.SetupTestDB(t)
	reports := &repositories.ReportRepository{DB: db}
	credits := &repositories.CreditRepository{DB: db}
	if err := credits.Grant("user-1", 3); err != nil {
		t.Fatalf("failed to grant credits: %v", err)
	}

	engine := session.NewEngine(
		session.NewStore(),
		stubOracle{},
		memory.NewRedisStore(rdb, time.Hour),
		stubQuestionRepo{},
		reports,
		credits,
		zap.NewNop(),
	)

	return &testStack{engine: engine, reports: reports, credits: credits, db: db, redis: rdb}
}
