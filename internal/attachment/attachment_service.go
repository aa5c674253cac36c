package attachment

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"time"

	"go-hrcore/internal/metrics"
	"go-hrcore/internal/shared/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// 10 MiB, enough for a medical certificate scan.
const maxUploadBytes = 10 << 20

var ErrFileTooLarge = apperror.New(apperror.CodeInvalidInput, "attachment exceeds the 10MB size limit", 422)

type UploadInput struct {
	FileName    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

//go:generate mockgen -source=attachment_service.go -destination=mock/attachment_service_mock.go -package=mock
type Service interface {
	Upload(ctx context.Context, in UploadInput) (*Attachment, error)
	Remove(ctx context.Context, id string) error
	SweepOrphans(ctx context.Context, maxAge time.Duration) (int, error)
}

type service struct {
	repo    Repository
	storage Storage
	logger  *zap.Logger
}

func NewService(repo Repository, storage Storage, logger ...*zap.Logger) Service {
	l := zap.L().Named("attachment.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attachment.service")
	}
	return &service{repo: repo, storage: storage, logger: l}
}

func (s *service) Upload(ctx context.Context, in UploadInput) (*Attachment, error) {
	if in.Size > maxUploadBytes {
		return nil, ErrFileTooLarge
	}

	id := uuid.New()
	ref := id.String() + filepath.Ext(in.FileName)

	if err := s.storage.Store(ctx, ref, io.LimitReader(in.Reader, maxUploadBytes)); err != nil {
		s.logger.Error("store attachment failed", zap.String("ref", ref), zap.Error(err))
		return nil, err
	}

	a := &Attachment{
		ID:          id,
		FileName:    in.FileName,
		StorageRef:  ref,
		ContentType: in.ContentType,
		SizeBytes:   in.Size,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		s.logger.Error("persist attachment failed", zap.String("ref", ref), zap.Error(err))
		if delErr := s.storage.Delete(ctx, ref); delErr != nil {
			s.logger.Warn("cleanup of stored file failed", zap.String("ref", ref), zap.Error(delErr))
		}
		return nil, err
	}

	s.logger.Info("attachment uploaded",
		zap.String("attachment_id", a.ID.String()),
		zap.Int64("size_bytes", a.SizeBytes),
	)
	return a, nil
}

func (s *service) Remove(ctx context.Context, id string) error {
	a, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, ErrAttachmentNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	// The row is the source of truth; a leftover file is reclaimed later.
	if err := s.storage.Delete(ctx, a.StorageRef); err != nil {
		s.logger.Warn("delete attachment file failed",
			zap.String("attachment_id", id),
			zap.String("ref", a.StorageRef),
			zap.Error(err),
		)
	}

	return nil
}

func (s *service) SweepOrphans(ctx context.Context, maxAge time.Duration) (int, error) {
	orphans, err := s.repo.ListOrphans(ctx, time.Now().Add(-maxAge))
	if err != nil {
		return 0, err
	}

	swept := 0
	for _, a := range orphans {
		if err := s.repo.Delete(ctx, a.ID.String()); err != nil {
			s.logger.Error("delete orphan attachment failed",
				zap.String("attachment_id", a.ID.String()),
				zap.Error(err),
			)
			continue
		}
		if err := s.storage.Delete(ctx, a.StorageRef); err != nil {
			s.logger.Warn("delete orphan file failed",
				zap.String("attachment_id", a.ID.String()),
				zap.Error(err),
			)
		}
		swept++
		metrics.OrphanAttachmentsSwept.Inc()
	}

	if swept > 0 {
		s.logger.Info("orphan attachments swept", zap.Int("count", swept))
	}
	return swept, nil
}
