package mfa

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/akulikov/class_registration/internal/domain"
)

const (
	CodeLength   = 6
	ChallengeTTL = 10 * time.Minute
	MaxAttempts  = 3
)

// ErrNotFound is returned by stores when no challenge exists for a user.
var ErrNotFound = errors.New("mfa challenge not found")

// Challenge moves forward only: active -> locked / consumed / expired.
// A locked or expired challenge is never reopened, Issue replaces it.
type Challenge struct {
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Attempts  int       `json:"attempts"`
	Locked    bool      `json:"locked"`
}

type Store interface {
	Save(ctx context.Context, userID uint64, ch *Challenge) error
	Get(ctx context.Context, userID uint64) (*Challenge, error)
	Delete(ctx context.Context, userID uint64) error
}

type Manager struct {
	Store Store
	Now   func() time.Time
}

func NewManager(store Store) *Manager {
	return &Manager{Store: store, Now: time.Now}
}

// Issue generates a fresh numeric code for the user, superseding any
// prior challenge. The code is returned for out-of-band delivery.
func (m *Manager) Issue(ctx context.Context, userID uint64) (string, time.Time, error) {
	code, err := generateCode()
	if err != nil {
		return "", time.Time{}, err
	}

	now := m.Now()
	ch := &Challenge{
		Code:      code,
		CreatedAt: now,
		ExpiresAt: now.Add(ChallengeTTL),
	}
	if err := m.Store.Save(ctx, userID, ch); err != nil {
		return "", time.Time{}, err
	}
	return code, ch.ExpiresAt, nil
}

func (m *Manager) Verify(ctx context.Context, userID uint64, submitted string) error {
	ch, err := m.Store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return &domain.NotFoundError{Resource: "mfa challenge"}
		}
		return err
	}

	if ch.Locked {
		return domain.ErrChallengeLocked
	}
	if m.Now().After(ch.ExpiresAt) {
		if err := m.Store.Delete(ctx, userID); err != nil {
			return err
		}
		return domain.ErrChallengeExpired
	}

	if submitted != ch.Code {
		ch.Attempts++
		if ch.Attempts >= MaxAttempts {
			ch.Locked = true
		}
		if err := m.Store.Save(ctx, userID, ch); err != nil {
			return err
		}
		return &domain.InvalidCodeError{AttemptsRemaining: MaxAttempts - ch.Attempts}
	}

	if err := m.Store.Delete(ctx, userID); err != nil {
		return err
	}
	return nil
}

// Resend is a fresh Issue, attempts reset to zero. Rate limiting it is
// the caller's concern.
func (m *Manager) Resend(ctx context.Context, userID uint64) (string, time.Time, error) {
	return m.Issue(ctx, userID)
}

func generateCode() (string, error) {
	max := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
