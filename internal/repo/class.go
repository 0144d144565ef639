package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/akulikov/class_registration/internal/domain"
	"github.com/akulikov/class_registration/internal/models"
)

func (r *GormRepo) GetClass(ctx context.Context, classID string) (*models.Class, error) {
	var class models.Class
	if err := r.DB.WithContext(ctx).Where("class_id = ?", classID).First(&class).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.NotFoundError{Resource: "class"}
		}
		return nil, err
	}
	return &class, nil
}

func (r *GormRepo) ListClasses(ctx context.Context) ([]models.Class, error) {
	var classes []models.Class
	if err := r.DB.WithContext(ctx).Order("class_id ASC").Find(&classes).Error; err != nil {
		return nil, err
	}
	return classes, nil
}

// UpsertClass is used by the seed process only, the core treats the
// catalog as read-only.
func (r *GormRepo) UpsertClass(ctx context.Context, class *models.Class) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "class_id"}},
		UpdateAll: true,
	}).Create(class).Error
}
