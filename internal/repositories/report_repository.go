package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"peerprep/interview/internal/models"
)

type ReportRepository struct {
	DB *gorm.DB
}

// Create persists a finalized report. The report body is serialized to
// JSON; scalar columns are duplicated for querying without decoding.
func (r *ReportRepository) Create(report *models.Report) error {
	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	row := &models.InterviewReport{
		SessionID:         report.SessionID,
		UserID:            report.UserID,
		CandidateName:     report.CandidateName,
		Status:            string(report.Status),
		FinalScore:        report.FinalScore,
		QuestionsAnswered: report.QuestionsAnswered,
		TotalQuestions:    report.TotalQuestions,
		ReportJSON:        string(body),
		StartedAt:         report.StartedAt,
		CompletedAt:       report.CompletedAt,
	}

	// a retried completion must not produce a second row
	var existing models.InterviewReport
	err = r.DB.Where("session_id = ?", report.SessionID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return r.DB.Create(row).Error
}

// GetBySessionID retrieves one report row, decoding the stored body.
func (r *ReportRepository) GetBySessionID(sessionID string) (*models.Report, error) {
	var row models.InterviewReport
	if err := r.DB.Where("session_id = ?", sessionID).First(&row).Error; err != nil {
		return nil, err
	}

	var report models.Report
	if err := json.Unmarshal([]byte(row.ReportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to decode stored report: %w", err)
	}
	return &report, nil
}

// GetByUserID lists report rows for one user, newest first.
func (r *ReportRepository) GetByUserID(userID string) ([]models.InterviewReport, error) {
	rows := []models.InterviewReport{}
	err := r.DB.Where("user_id = ?", userID).
		Order("completed_at DESC").
		Find(&rows).Error
	return rows, err
}

// GetUnexported retrieves completed reports not yet exported by the
// exporter job.
func (r *ReportRepository) GetUnexported(limit int) ([]models.InterviewReport, error) {
	var rows []models.InterviewReport

	query := r.DB.Where("exported = ?", false).Order("completed_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get unexported reports: %w", err)
	}
	return rows, nil
}

// MarkAsExported flags report rows as exported.
func (r *ReportRepository) MarkAsExported(ids []uint) error {
	now := time.Now()
	result := r.DB.Model(&models.InterviewReport{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"exported":    true,
			"exported_at": now,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to mark reports as exported: %w", result.Error)
	}
	return nil
}
