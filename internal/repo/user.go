package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/akulikov/class_registration/internal/domain"
	"github.com/akulikov/class_registration/internal/models"
)

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	if err := r.DB.WithContext(ctx).Create(u).Error; err != nil {
		if isDuplicate(err) {
			return &domain.ConflictError{Reason: "user already exists"}
		}
		return err
	}
	return nil
}

func (r *GormRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.NotFoundError{Resource: "user"}
		}
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) GetUserByID(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.NotFoundError{Resource: "user"}
		}
		return nil, err
	}
	return &user, nil
}
