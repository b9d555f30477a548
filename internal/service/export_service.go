package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/mentorhub/mentorhub-api/internal/models"
	appErrors "github.com/mentorhub/mentorhub-api/pkg/errors"
	"github.com/mentorhub/mentorhub-api/pkg/export"
	"github.com/mentorhub/mentorhub-api/pkg/jobs"
	"github.com/mentorhub/mentorhub-api/pkg/storage"
)

type exportRepository interface {
	Create(ctx context.Context, job *models.ExportJob) error
	FindByID(ctx context.Context, id string) (*models.ExportJob, error)
	MarkProcessing(ctx context.Context, id string) error
	MarkCompleted(ctx context.Context, id, filePath string, at time.Time) error
	MarkFailed(ctx context.Context, id, reason string, at time.Time) error
}

type exportLeaderboardSource interface {
	Leaderboard(ctx context.Context, limit, offset int) ([]models.LeaderboardEntry, int, error)
}

const (
	exportJobType      = "leaderboard_export"
	exportMaxRows      = 1000
	exportPDFTitle     = "Leaderboard"
	exportQueueWorkers = 2
)

// ExportService renders leaderboard snapshots to CSV or PDF in the
// background and hands out signed download tokens for the artifacts.
type ExportService struct {
	repo    exportRepository
	source  exportLeaderboardSource
	files   *storage.LocalStorage
	signer  *storage.SignedURLSigner
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	queue   *jobs.Queue
	logger  *zap.Logger
	enabled bool
}

// ExportServiceConfig bundles worker pool settings.
type ExportServiceConfig struct {
	Enabled     bool
	Concurrency int
	Retries     int
}

// NewExportService constructs an ExportService with its job queue. Call
// Start before enqueuing work and Stop on shutdown.
func NewExportService(repo exportRepository, source exportLeaderboardSource, files *storage.LocalStorage, signer *storage.SignedURLSigner, logger *zap.Logger, cfg ExportServiceConfig) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ExportService{
		repo:    repo,
		source:  source,
		files:   files,
		signer:  signer,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		logger:  logger,
		enabled: cfg.Enabled,
	}
	workers := cfg.Concurrency
	if workers <= 0 {
		workers = exportQueueWorkers
	}
	s.queue = jobs.NewQueue(exportJobType, s.process, jobs.QueueConfig{
		Workers:    workers,
		MaxRetries: cfg.Retries,
		Logger:     logger,
	})
	return s
}

// Start launches the background workers.
func (s *ExportService) Start(ctx context.Context) {
	if !s.enabled {
		return
	}
	s.queue.Start(ctx)
}

// Stop drains the workers.
func (s *ExportService) Stop() {
	if !s.enabled {
		return
	}
	s.queue.Stop()
}

// Enqueue records a new export job and schedules it for rendering.
func (s *ExportService) Enqueue(ctx context.Context, requestedBy string, format models.ExportFormat) (*models.ExportJob, error) {
	if !s.enabled {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "exports are disabled")
	}
	if format != models.ExportFormatCSV && format != models.ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	job := &models.ExportJob{
		RequestedBy: requestedBy,
		Format:      format,
		Status:      models.ExportStatusPending,
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create export job")
	}

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: exportJobType, Payload: job.ID}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue export job")
	}

	return job, nil
}

// Get returns an export job visible to the caller.
func (s *ExportService) Get(ctx context.Context, id, callerID string, isAdmin bool) (*models.ExportJob, error) {
	job, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load export job")
	}
	if !isAdmin && job.RequestedBy != callerID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not your export job")
	}
	return job, nil
}

// SignedURL issues a download token for a completed export.
func (s *ExportService) SignedURL(ctx context.Context, id, callerID string, isAdmin bool) (string, time.Time, error) {
	job, err := s.Get(ctx, id, callerID, isAdmin)
	if err != nil {
		return "", time.Time{}, err
	}
	if job.Status != models.ExportStatusCompleted || job.FilePath == "" {
		return "", time.Time{}, appErrors.Clone(appErrors.ErrConflict, "export is not ready")
	}
	token, expiresAt, err := s.signer.Generate(job.ID, job.FilePath)
	if err != nil {
		return "", time.Time{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download URL")
	}
	return token, expiresAt, nil
}

// OpenByToken validates a download token and opens the artifact.
func (s *ExportService) OpenByToken(token string) (*os.File, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid download token")
	}
	file, err := s.files.Open(relPath)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export file not found")
	}
	return file, nil
}

func (s *ExportService) process(ctx context.Context, job jobs.Job) error {
	id, ok := job.Payload.(string)
	if !ok {
		return fmt.Errorf("unexpected payload type %T", job.Payload)
	}

	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load export job %s: %w", id, err)
	}

	if err := s.repo.MarkProcessing(ctx, id); err != nil {
		return fmt.Errorf("mark processing: %w", err)
	}

	path, err := s.render(ctx, record)
	now := time.Now().UTC()
	if err != nil {
		if markErr := s.repo.MarkFailed(ctx, id, err.Error(), now); markErr != nil {
			s.logger.Error("failed to mark export failed", zap.Error(markErr))
		}
		return err
	}

	if err := s.repo.MarkCompleted(ctx, id, path, now); err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}

	s.logger.Info("export completed", zap.String("job_id", id), zap.String("path", path))
	return nil
}

func (s *ExportService) render(ctx context.Context, job *models.ExportJob) (string, error) {
	entries, _, err := s.source.Leaderboard(ctx, exportMaxRows, 0)
	if err != nil {
		return "", fmt.Errorf("load leaderboard: %w", err)
	}

	dataset := export.Dataset{Headers: []string{"Rank", "Name", "Points", "Tier"}}
	for _, entry := range entries {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Rank":   strconv.Itoa(entry.Rank),
			"Name":   entry.FullName,
			"Points": strconv.Itoa(entry.Total),
			"Tier":   string(models.TierForTotal(entry.Total)),
		})
	}

	var payload []byte
	switch job.Format {
	case models.ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, exportPDFTitle)
	default:
		payload, err = s.csv.Render(dataset)
	}
	if err != nil {
		return "", fmt.Errorf("render %s: %w", job.Format, err)
	}

	key := fmt.Sprintf("exports/%s.%s", job.ID, job.Format)
	if _, err := s.files.Save(key, payload); err != nil {
		return "", fmt.Errorf("store export: %w", err)
	}
	return key, nil
}
