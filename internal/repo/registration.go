package repo

import (
	"context"

	"github.com/akulikov/class_registration/internal/models"
)

// CreateEnrolled inserts the first registration row for a pair. A
// duplicate key means a row already exists, the caller decides whether
// that is a re-enrollment or a conflict.
func (r *GormRepo) CreateEnrolled(ctx context.Context, classID string, userID uint64, className string) (bool, error) {
	reg := models.Registration{
		ClassID:           classID,
		UserID:            userID,
		ClassName:         className,
		RegistrationState: models.StateEnrolled,
	}
	if err := r.DB.WithContext(ctx).Create(&reg).Error; err != nil {
		if isDuplicate(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// TransitionState is the conditional write guarding all state changes:
// the update applies only while the row is still in fromState, so two
// racing transitions resolve to one winner without a read-then-write
// window.
func (r *GormRepo) TransitionState(ctx context.Context, classID string, userID uint64, fromState, toState string) (bool, error) {
	res := r.DB.WithContext(ctx).
		Model(&models.Registration{}).
		Where("class_id = ? AND user_id = ? AND registration_state = ?", classID, userID, fromState).
		Update("registration_state", toState)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

type RegistrationRow struct {
	ClassID           string `json:"class_id"`
	UserID            uint64 `json:"user_id"`
	ClassName         string `json:"class_name"`
	Credits           int    `json:"credits"`
	Description       string `json:"description"`
	RegistrationState string `json:"registration_state"`
}

func (r *GormRepo) ListRegistrationsByState(ctx context.Context, userID uint64, state string) ([]RegistrationRow, error) {
	var rows []RegistrationRow
	err := r.DB.WithContext(ctx).
		Model(&models.Registration{}).
		Select("registrations.class_id, registrations.user_id, classes.class_name, classes.credits, classes.description, registrations.registration_state").
		Joins("JOIN classes ON classes.class_id = registrations.class_id").
		Where("registrations.user_id = ? AND registrations.registration_state = ?", userID, state).
		Order("registrations.class_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListAvailableClasses returns the catalog minus the user's enrolled
// set. Dropped rows do not exclude a class: only the enrolled state
// removes it from availability.
func (r *GormRepo) ListAvailableClasses(ctx context.Context, userID uint64) ([]models.Class, error) {
	var classes []models.Class
	sub := r.DB.
		Model(&models.Registration{}).
		Select("class_id").
		Where("user_id = ? AND registration_state = ?", userID, models.StateEnrolled)
	err := r.DB.WithContext(ctx).
		Where("class_id NOT IN (?)", sub).
		Order("class_id ASC").
		Find(&classes).Error
	if err != nil {
		return nil, err
	}
	return classes, nil
}
