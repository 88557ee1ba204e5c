package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"peerprep/interview/internal/llm"
	"peerprep/interview/internal/models"
)

// assembleReport turns the answer records into a scored report and
// persists it. The oracle sees the normalized transcript with follow-up
// exchanges inlined per question, the same view the candidate produced.
func (e *Engine) assembleReport(ctx context.Context, sess *models.InterviewSession, answers []models.QuestionAnswerRecord, status models.ReportStatus) (*models.Report, error) {
	entries := make([]llm.ReportEntry, 0, len(answers))
	for _, record := range answers {
		entries = append(entries, llm.ReportEntry{
			Question: record.Question.Text,
			Answer:   reportAnswerText(&record),
		})
	}

	result, err := e.oracle.GenerateReport(ctx, sess.CandidateName, sess.SessionID, entries)
	if err != nil {
		return nil, models.WrapError(models.ErrUpstreamUnavailable, "failed to generate interview report", err)
	}

	report := &models.Report{
		SessionID:         sess.SessionID,
		UserID:            sess.UserID,
		CandidateName:     sess.CandidateName,
		Status:            status,
		FinalScore:        result.FinalScore,
		OverallFeedback:   result.OverallFeedback,
		QuestionsAnswered: len(answers),
		TotalQuestions:    len(sess.Questions),
		StartedAt:         sess.StartedAt,
		CompletedAt:       time.Now().UTC(),
	}

	for i, record := range answers {
		qr := models.QuestionReport{
			Question:         record.Question.Text,
			Answer:           record.RawAnswer,
			NormalizedAnswer: record.NormalizedAnswer,
			Feedback:         record.Feedback,
			FollowUps:        record.FollowUps,
		}
		if i < len(result.Questions) {
			qr.Score = result.Questions[i].Score
			if scored := strings.TrimSpace(result.Questions[i].Feedback); scored != "" {
				qr.Feedback = scored
			}
		}

		// the detailed narrative is scoped to this question alone so
		// commentary cannot bleed across questions
		detailed, err := e.oracle.GenerateDetailedFeedback(ctx, &llm.DetailedFeedbackRequest{
			Question:        record.Question.Text,
			CanonicalAnswer: record.Question.Answer,
			Answer:          record.RawAnswer,
			Normalized:      record.NormalizedAnswer,
			Evaluation:      &record.Evaluation,
			FollowUps:       record.FollowUps,
		})
		if err != nil {
			e.logger.Warn("detailed feedback unavailable for question",
				zap.String("session_id", sess.SessionID),
				zap.Int("question_index", i),
				zap.Error(err))
		} else {
			qr.DetailedFeedback = detailed
		}

		report.Questions = append(report.Questions, qr)
	}

	if err := e.reports.Create(report); err != nil {
		return nil, models.WrapError(models.ErrUpstreamUnavailable, "failed to persist interview report", err)
	}

	return report, nil
}

// reportAnswerText renders one question's transcript for the report
// oracle: the normalized answer, flagged when normalization changed the
// raw transcription, followed by any follow-up exchanges in order.
func reportAnswerText(record *models.QuestionAnswerRecord) string {
	var b strings.Builder

	b.WriteString(record.NormalizedAnswer)
	if record.NormalizedAnswer != record.RawAnswer {
		fmt.Fprintf(&b, "\n(transcribed as: %s)", record.RawAnswer)
	}

	for _, exchange := range record.FollowUps {
		kind := "Probe"
		if exchange.WasHint {
			kind = "Hint"
		}
		fmt.Fprintf(&b, "\n%s: %s\nAnswer: %s", kind, exchange.Question, exchange.Answer)
	}

	return b.String()
}
