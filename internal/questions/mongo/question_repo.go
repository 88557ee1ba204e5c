package mongo

import (
	"context"
	"fmt"
	"os"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"peerprep/interview/internal/models"
)

// Repo wraps the interview questions collection.
type Repo struct{ col *mongo.Collection }

func NewQuestionRepo(c *Client) (*Repo, error) {
	db, err := c.DB()
	if err != nil {
		return nil, err
	}

	colName := os.Getenv("QUESTIONS_COLLECTION")
	if colName == "" {
		colName = "interview_questions"
	}

	return &Repo{col: db.Collection(colName)}, nil
}

// Sample draws n random active questions using a $sample aggregation.
func (r *Repo) Sample(ctx context.Context, n int) ([]models.Question, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "status", Value: models.StatusActive}}}},
		bson.D{{Key: "$sample", Value: bson.D{{Key: "size", Value: n}}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to sample questions: %w", err)
	}
	defer cur.Close(ctx)

	var out []models.Question
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode sampled questions: %w", err)
	}
	if len(out) < n {
		return nil, fmt.Errorf("question pool too small: wanted %d active questions, found %d", n, len(out))
	}
	return out, nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (*models.Question, error) {
	var q models.Question
	if err := r.col.FindOne(ctx, bson.D{{Key: "id", Value: id}}).Decode(&q); err != nil {
		return nil, err
	}
	return &q, nil
}
