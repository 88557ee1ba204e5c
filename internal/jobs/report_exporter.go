package jobs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"peerprep/interview/internal/repositories"
)

// ExporterConfig controls the scheduled report export.
type ExporterConfig struct {
	Schedule  string // cron schedule, e.g. "0 2 * * *" for 2 AM daily
	ExportDir string
	Enabled   bool
}

// ReportExporterJob periodically writes completed interview reports to
// JSONL files for downstream analytics, marking rows as exported so
// each report ships exactly once.
type ReportExporterJob struct {
	reports *repositories.ReportRepository
	config  *ExporterConfig
	cron    *cron.Cron
	logger  *zap.Logger
}

func NewReportExporterJob(reports *repositories.ReportRepository, config *ExporterConfig, logger *zap.Logger) *ReportExporterJob {
	return &ReportExporterJob{
		reports: reports,
		config:  config,
		cron:    cron.New(),
		logger:  logger,
	}
}

// Start schedules the export job.
func (j *ReportExporterJob) Start() error {
	if !j.config.Enabled {
		j.logger.Info("report export is disabled, skipping scheduler")
		return nil
	}

	j.logger.Info("starting report exporter", zap.String("schedule", j.config.Schedule))

	_, err := j.cron.AddFunc(j.config.Schedule, func() {
		if err := j.RunExport(); err != nil {
			j.logger.Error("report export failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule export job: %w", err)
	}

	j.cron.Start()
	return nil
}

// Stop halts the scheduler.
func (j *ReportExporterJob) Stop() {
	if j.cron != nil {
		j.cron.Stop()
		j.logger.Info("report exporter stopped")
	}
}

// exportRecord is one JSONL line of the export file.
type exportRecord struct {
	SessionID         string    `json:"session_id"`
	UserID            string    `json:"user_id"`
	Status            string    `json:"status"`
	FinalScore        int       `json:"final_score"`
	QuestionsAnswered int       `json:"questions_answered"`
	TotalQuestions    int       `json:"total_questions"`
	CompletedAt       time.Time `json:"completed_at"`
	Report            string    `json:"report"`
}

// RunExport performs a single export pass.
func (j *ReportExporterJob) RunExport() error {
	rows, err := j.reports.GetUnexported(0)
	if err != nil {
		return fmt.Errorf("failed to get unexported reports: %w", err)
	}
	if len(rows) == 0 {
		j.logger.Debug("no unexported reports found")
		return nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		record := exportRecord{
			SessionID:         row.SessionID,
			UserID:            row.UserID,
			Status:            row.Status,
			FinalScore:        row.FinalScore,
			QuestionsAnswered: row.QuestionsAnswered,
			TotalQuestions:    row.TotalQuestions,
			CompletedAt:       row.CompletedAt,
			Report:            row.ReportJSON,
		}
		if err := enc.Encode(record); err != nil {
			return fmt.Errorf("failed to encode report %s: %w", row.SessionID, err)
		}
		ids = append(ids, row.ID)
	}

	if err := os.MkdirAll(j.config.ExportDir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	filename := fmt.Sprintf("reports_%s.jsonl", time.Now().Format("20060102_150405"))
	path := filepath.Join(j.config.ExportDir, filename)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	if err := j.reports.MarkAsExported(ids); err != nil {
		return fmt.Errorf("failed to mark reports as exported: %w", err)
	}

	j.logger.Info("exported interview reports",
		zap.Int("count", len(ids)),
		zap.String("file", path))
	return nil
}
