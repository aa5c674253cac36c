package attachment

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrAttachmentNotFound = errors.New("attachment not found")

//go:generate mockgen -source=attachment_repo.go -destination=mock/attachment_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, a *Attachment) error
	FindByID(ctx context.Context, id string) (*Attachment, error)
	Delete(ctx context.Context, id string) error
	ListOrphans(ctx context.Context, olderThan time.Time) ([]Attachment, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, a *Attachment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Attachment, error) {
	var a Attachment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAttachmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&Attachment{}).Error
}

func (r *repository) ListOrphans(ctx context.Context, olderThan time.Time) ([]Attachment, error) {
	var orphans []Attachment
	err := r.db.WithContext(ctx).
		Where("leave_id IS NULL AND created_at < ?", olderThan).
		Find(&orphans).Error
	if err != nil {
		return nil, err
	}
	return orphans, nil
}
