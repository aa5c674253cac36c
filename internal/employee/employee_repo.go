package employee

import (
	"context"
	"errors"

	"go-hrcore/internal/shared/apperror"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Directory interface {
	FindProfile(ctx context.Context, userID string) (Profile, error)
	ListHRUserIDs(ctx context.Context) ([]string, error)
}

type directory struct {
	db *gorm.DB
}

func NewDirectory(db *gorm.DB) Directory {
	return &directory{db: db}
}

func (d *directory) FindProfile(ctx context.Context, userID string) (Profile, error) {
	var e Employee
	err := d.db.WithContext(ctx).First(&e, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Profile{}, apperror.ErrNotFound
		}
		return Profile{}, err
	}

	p := Profile{
		UserID:   e.ID.String(),
		Gender:   e.Gender,
		HireDate: e.HireDate,
	}
	if e.DepartmentID != nil {
		p.DepartmentID = e.DepartmentID.String()
	}
	if e.ManagerID != nil {
		p.ManagerID = e.ManagerID.String()
	}
	return p, nil
}

func (d *directory) ListHRUserIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := d.db.WithContext(ctx).
		Table("user_roles").
		Select("user_roles.user_id").
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("roles.name = ?", "hr").
		Scan(&ids).Error
	return ids, err
}
