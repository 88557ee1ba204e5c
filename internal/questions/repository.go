package questions

import (
	"context"

	"peerprep/interview/internal/models"
)

// Repository is the question pool the engine samples from at session
// creation.
type Repository interface {
	// Sample draws n random active questions from the pool.
	Sample(ctx context.Context, n int) ([]models.Question, error)
	GetByID(ctx context.Context, id string) (*models.Question, error)
}
