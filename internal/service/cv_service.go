package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/mentorhub/mentorhub-api/internal/models"
	appErrors "github.com/mentorhub/mentorhub-api/pkg/errors"
	"github.com/mentorhub/mentorhub-api/pkg/storage"
)

type cvRepository interface {
	Upsert(ctx context.Context, cv *models.CV) error
	FindByUserID(ctx context.Context, userID string) (*models.CV, error)
	DeleteByUserID(ctx context.Context, userID string) error
}

const cvMimeType = "application/pdf"

// CVService stores one PDF resume per user and issues signed download
// tokens for it.
type CVService struct {
	repo     cvRepository
	files    *storage.LocalStorage
	signer   *storage.SignedURLSigner
	logger   *zap.Logger
	maxBytes int64
}

// NewCVService constructs a CVService.
func NewCVService(repo cvRepository, files *storage.LocalStorage, signer *storage.SignedURLSigner, logger *zap.Logger, maxBytes int64) *CVService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}
	return &CVService{repo: repo, files: files, signer: signer, logger: logger, maxBytes: maxBytes}
}

// Upload validates and stores the user's CV, replacing any previous one.
// Only PDF content up to the configured size limit is accepted.
func (s *CVService) Upload(ctx context.Context, userID, fileName string, r io.Reader) (*models.CV, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload")
	}
	if int64(len(data)) > s.maxBytes {
		return nil, appErrors.Clone(appErrors.ErrPayloadTooLarge, fmt.Sprintf("CV exceeds the %d byte limit", s.maxBytes))
	}
	if len(data) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "uploaded file is empty")
	}
	if http.DetectContentType(data) != cvMimeType {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedMedia, "only PDF files are accepted")
	}

	key := fmt.Sprintf("cvs/%s.pdf", userID)
	if _, err := s.files.Save(key, data); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store CV")
	}

	cv := &models.CV{
		UserID:     userID,
		FileName:   fileName,
		StorageKey: key,
		SizeBytes:  int64(len(data)),
		MimeType:   cvMimeType,
		UploadedAt: time.Now().UTC(),
	}
	if err := s.repo.Upsert(ctx, cv); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save CV metadata")
	}

	s.logger.Info("cv uploaded", zap.String("user_id", userID), zap.Int("size_bytes", len(data)))
	return cv, nil
}

// Get returns the user's CV metadata.
func (s *CVService) Get(ctx context.Context, userID string) (*models.CV, error) {
	cv, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no CV on file")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load CV")
	}
	return cv, nil
}

// SignedURL issues a time-limited download token for the user's CV.
func (s *CVService) SignedURL(ctx context.Context, userID string) (string, time.Time, error) {
	cv, err := s.Get(ctx, userID)
	if err != nil {
		return "", time.Time{}, err
	}
	token, expiresAt, err := s.signer.Generate(cv.ID, cv.StorageKey)
	if err != nil {
		return "", time.Time{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download URL")
	}
	return token, expiresAt, nil
}

// OpenByToken validates a download token and opens the referenced file.
func (s *CVService) OpenByToken(token string) (*os.File, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid download token")
	}
	file, err := s.files.Open(relPath)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "CV file not found")
	}
	return file, nil
}

// Delete removes the user's CV file and metadata.
func (s *CVService) Delete(ctx context.Context, userID string) error {
	cv, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.files.Delete(cv.StorageKey); err != nil {
		s.logger.Warn("failed to delete CV file", zap.Error(err))
	}
	if err := s.repo.DeleteByUserID(ctx, userID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete CV metadata")
	}
	return nil
}
