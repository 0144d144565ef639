package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/akulikov/class_registration/internal/domain"
	"github.com/akulikov/class_registration/internal/events"
	"github.com/akulikov/class_registration/internal/logging"
	"github.com/akulikov/class_registration/internal/models"
	"github.com/akulikov/class_registration/internal/repo"
)

type Outcome string

const (
	OutcomeEnrolled   Outcome = "enrolled"
	OutcomeReEnrolled Outcome = "re-enrolled"
	OutcomeDropped    Outcome = "dropped"
)

type RegistrationService struct {
	Repo     *repo.GormRepo
	Producer *events.Producer
}

func validatePair(classID string, userID uint64) error {
	if strings.TrimSpace(classID) == "" {
		return fmt.Errorf("%w: classId is required", domain.ErrValidation)
	}
	if userID == 0 {
		return fmt.Errorf("%w: userId must be a positive integer", domain.ErrValidation)
	}
	return nil
}

// Enroll moves a (class, user) pair into the enrolled state. A fresh
// pair gets a new row, a dropped pair is flipped back, an enrolled pair
// conflicts. Insert and state flip are both conditional writes, so two
// racing enrolls produce exactly one success.
func (s *RegistrationService) Enroll(ctx context.Context, classID string, userID uint64) (Outcome, error) {
	l := logging.FromContext(ctx).With("svc", "registration.enroll", "class_id", classID, "user_id", userID)

	if err := validatePair(classID, userID); err != nil {
		return "", err
	}

	class, err := s.Repo.GetClass(ctx, classID)
	if err != nil {
		return "", err
	}

	created, err := s.Repo.CreateEnrolled(ctx, classID, userID, class.ClassName)
	if err != nil {
		l.Error("enroll_failed", "status", 500, "error", err)
		return "", err
	}
	if created {
		l.Info("enrolled", "outcome", OutcomeEnrolled)
		s.publish(ctx, classID, userID, string(OutcomeEnrolled))
		return OutcomeEnrolled, nil
	}

	flipped, err := s.Repo.TransitionState(ctx, classID, userID, models.StateDropped, models.StateEnrolled)
	if err != nil {
		l.Error("enroll_failed", "status", 500, "error", err)
		return "", err
	}
	if !flipped {
		l.Warn("enroll_conflict", "status", 409)
		return "", &domain.ConflictError{Reason: "already enrolled"}
	}

	l.Info("enrolled", "outcome", OutcomeReEnrolled)
	s.publish(ctx, classID, userID, string(OutcomeReEnrolled))
	return OutcomeReEnrolled, nil
}

// Unenroll flips an enrolled pair to dropped. Missing rows and rows
// already dropped both conflict: repeating a terminal operation never
// silently succeeds.
func (s *RegistrationService) Unenroll(ctx context.Context, classID string, userID uint64) (Outcome, error) {
	l := logging.FromContext(ctx).With("svc", "registration.unenroll", "class_id", classID, "user_id", userID)

	if err := validatePair(classID, userID); err != nil {
		return "", err
	}

	if _, err := s.Repo.GetClass(ctx, classID); err != nil {
		return "", err
	}

	flipped, err := s.Repo.TransitionState(ctx, classID, userID, models.StateEnrolled, models.StateDropped)
	if err != nil {
		l.Error("unenroll_failed", "status", 500, "error", err)
		return "", err
	}
	if !flipped {
		l.Warn("unenroll_conflict", "status", 409)
		return "", &domain.ConflictError{Reason: "not enrolled"}
	}

	l.Info("dropped", "outcome", OutcomeDropped)
	s.publish(ctx, classID, userID, string(OutcomeDropped))
	return OutcomeDropped, nil
}

// publish emits the transition for downstream consumers (notifications
// and the like). Delivery failures are logged, never surfaced: the
// state change already committed.
func (s *RegistrationService) publish(ctx context.Context, classID string, userID uint64, outcome string) {
	if s.Producer == nil {
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	event := map[string]any{
		"type":     "registration_" + outcome,
		"class_id": classID,
		"user_id":  userID,
	}
	if err := s.Producer.PublishEvent(pubCtx, strconv.FormatUint(userID, 10), event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "error", err)
	}
}
