package notification

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=notification_repo.go -destination=mock/notification_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, n *Notification) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, n *Notification) error {
	if r.tx != nil {
		query := `
        INSERT INTO notifications (
            id, recipient_id, title, message, link
        ) VALUES ($1, $2, $3, $4, $5)
    `
		_, err := r.tx.ExecContext(ctx, query,
			n.ID, n.RecipientID, n.Title, n.Message, n.Link,
		)
		return err
	}
	return r.db.WithContext(ctx).Create(n).Error
}
