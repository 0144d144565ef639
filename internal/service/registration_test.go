package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akulikov/class_registration/internal/domain"
	"github.com/akulikov/class_registration/internal/models"
)

const regTestUser uint64 = 1234567890

func newRegService(t *testing.T) *RegistrationService {
	t.Helper()

	r := newTestRepo(t)
	seedClasses(t, r,
		models.Class{ClassID: "IFT 593", ClassName: "Applied Project", Credits: 3},
		models.Class{ClassID: "IFT 511", ClassName: "Analysis of Algorithms", Credits: 3},
	)
	return &RegistrationService{Repo: r}
}

func TestRegistrationService_Enroll_Validation(t *testing.T) {
	t.Parallel()

	svc := newRegService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		classID string
		userID  uint64
	}{
		{name: "empty class", classID: "", userID: regTestUser},
		{name: "blank class", classID: "   ", userID: regTestUser},
		{name: "zero user", classID: "IFT 593", userID: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := svc.Enroll(ctx, tt.classID, tt.userID)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestRegistrationService_Enroll_UnknownClass(t *testing.T) {
	t.Parallel()

	svc := newRegService(t)
	_, err := svc.Enroll(context.Background(), "IFT 999", regTestUser)
	require.Error(t, err)
	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "class", notFound.Resource)
}

func TestRegistrationService_Enroll_TwiceConflicts(t *testing.T) {
	t.Parallel()

	svc := newRegService(t)
	ctx := context.Background()

	outcome, err := svc.Enroll(ctx, "IFT 593", regTestUser)
	require.NoError(t, err)
	assert.Equal(t, OutcomeEnrolled, outcome)

	_, err = svc.Enroll(ctx, "IFT 593", regTestUser)
	require.Error(t, err)
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "already enrolled", conflict.Reason)
}

func TestRegistrationService_EnrollDropReenroll_DistinctOutcomes(t *testing.T) {
	t.Parallel()

	svc := newRegService(t)
	ctx := context.Background()

	first, err := svc.Enroll(ctx, "IFT 593", regTestUser)
	require.NoError(t, err)
	assert.Equal(t, OutcomeEnrolled, first)

	second, err := svc.Unenroll(ctx, "IFT 593", regTestUser)
	require.NoError(t, err)
	assert.Equal(t, OutcomeDropped, second)

	third, err := svc.Enroll(ctx, "IFT 593", regTestUser)
	require.NoError(t, err)
	assert.Equal(t, OutcomeReEnrolled, third)
	assert.NotEqual(t, first, third)
}

func TestRegistrationService_Unenroll_NotEnrolled(t *testing.T) {
	t.Parallel()

	svc := newRegService(t)
	ctx := context.Background()

	// no row at all
	_, err := svc.Unenroll(ctx, "IFT 593", regTestUser)
	require.Error(t, err)
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "not enrolled", conflict.Reason)
}

func TestRegistrationService_Unenroll_TwiceConflicts(t *testing.T) {
	t.Parallel()

	svc := newRegService(t)
	ctx := context.Background()

	_, err := svc.Enroll(ctx, "IFT 593", regTestUser)
	require.NoError(t, err)
	_, err = svc.Unenroll(ctx, "IFT 593", regTestUser)
	require.NoError(t, err)

	// drop-then-drop always conflicts, never silently succeeds
	_, err = svc.Unenroll(ctx, "IFT 593", regTestUser)
	require.Error(t, err)
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "not enrolled", conflict.Reason)
}

func TestRegistrationService_UnknownClassBeatsStaleRow(t *testing.T) {
	t.Parallel()

	svc := newRegService(t)
	ctx := context.Background()

	// a stale registration row referencing a class missing from the
	// catalog must not mask the class lookup failure
	require.NoError(t, svc.Repo.DB.Create(&models.Registration{
		ClassID:           "GONE 101",
		UserID:            regTestUser,
		ClassName:         "Removed Class",
		RegistrationState: models.StateEnrolled,
	}).Error)

	_, err := svc.Unenroll(ctx, "GONE 101", regTestUser)
	require.Error(t, err)
	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "class", notFound.Resource)
}

func TestRegistrationService_RowIsMutatedNotRecreated(t *testing.T) {
	t.Parallel()

	svc := newRegService(t)
	ctx := context.Background()

	_, err := svc.Enroll(ctx, "IFT 593", regTestUser)
	require.NoError(t, err)
	_, err = svc.Unenroll(ctx, "IFT 593", regTestUser)
	require.NoError(t, err)
	_, err = svc.Enroll(ctx, "IFT 593", regTestUser)
	require.NoError(t, err)

	var count int64
	require.NoError(t, svc.Repo.DB.Model(&models.Registration{}).
		Where("class_id = ? AND user_id = ?", "IFT 593", regTestUser).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
