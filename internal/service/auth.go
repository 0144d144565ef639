package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/akulikov/class_registration/internal/domain"
	"github.com/akulikov/class_registration/internal/events"
	"github.com/akulikov/class_registration/internal/hash"
	"github.com/akulikov/class_registration/internal/logging"
	"github.com/akulikov/class_registration/internal/mfa"
	"github.com/akulikov/class_registration/internal/models"
	"github.com/akulikov/class_registration/internal/repo"
	"github.com/akulikov/class_registration/internal/tokens"
)

type AuthService struct {
	Repo     *repo.GormRepo
	Tokens   *TokenService
	MFA      *mfa.Manager
	Producer *events.Producer
}

// LoginResult either carries a token pair or signals a pending MFA
// challenge whose code is delivered out of band.
type LoginResult struct {
	MFARequired bool
	UserID      uint64
	Code        string
	CodeExpires time.Time
	Pair        *Pair
}

func (h *AuthService) Register(ctx context.Context, username, email, fullName, password string) (*models.User, *Pair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register", "username", username)

	if username == "" || password == "" || fullName == "" {
		return nil, nil, fmt.Errorf("%w: username, full name and password are required", domain.ErrValidation)
	}
	if !strings.Contains(email, "@") {
		return nil, nil, fmt.Errorf("%w: invalid email", domain.ErrValidation)
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_failed", "status", 500, "reason", "cannot hash password", "error", err)
		return nil, nil, err
	}

	user, err := h.createWithFreshID(ctx, username, email, fullName, pwHash)
	if err != nil {
		return nil, nil, err
	}

	pair, err := h.Tokens.IssuePair(PairInput{UserID: user.ID, Username: user.Username, Email: user.Email})
	if err != nil {
		l.Error("register_failed", "status", 500, "error", err)
		return nil, nil, err
	}

	l.Info("register_success", "user_id", user.ID)
	return user, pair, nil
}

// createWithFreshID retries on the rare 10-digit id collision; a
// conflict on an existing username or email is surfaced as-is.
func (h *AuthService) createWithFreshID(ctx context.Context, username, email, fullName, pwHash string) (*models.User, error) {
	for attempt := 0; attempt < 3; attempt++ {
		id, err := generateUserID()
		if err != nil {
			return nil, err
		}
		user := &models.User{
			ID:           id,
			Username:     username,
			Email:        email,
			FullName:     fullName,
			PasswordHash: pwHash,
			MFAEnabled:   true,
		}
		err = h.Repo.CreateUser(ctx, user)
		if err == nil {
			return user, nil
		}

		var conflict *domain.ConflictError
		if !errors.As(err, &conflict) {
			return nil, err
		}
		if _, lookupErr := h.Repo.GetUserByUsername(ctx, username); lookupErr == nil {
			return nil, conflict
		}
	}
	return nil, &domain.ConflictError{Reason: "user already exists"}
}

func (h *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", domain.ErrValidation)
	}

	user, err := h.Repo.GetUserByUsername(ctx, username)
	if err != nil {
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			l.Warn("login_failed", "status", 401, "reason", "unknown user")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "wrong password")
		return nil, domain.ErrInvalidCredentials
	}

	if user.MFAEnabled {
		code, exp, err := h.MFA.Issue(ctx, user.ID)
		if err != nil {
			l.Error("login_failed", "status", 500, "error", err)
			return nil, err
		}
		h.deliverCode(ctx, user, code)
		l.Info("mfa_challenge_issued", "user_id", user.ID)
		return &LoginResult{MFARequired: true, UserID: user.ID, Code: code, CodeExpires: exp}, nil
	}

	pair, err := h.Tokens.IssuePair(PairInput{UserID: user.ID, Username: user.Username, Email: user.Email})
	if err != nil {
		return nil, err
	}
	l.Info("login_success", "user_id", user.ID)
	return &LoginResult{UserID: user.ID, Pair: pair}, nil
}

func (h *AuthService) VerifyMFA(ctx context.Context, userID uint64, code string) (*Pair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.verify_mfa", "user_id", userID)

	if err := h.MFA.Verify(ctx, userID, code); err != nil {
		l.Warn("mfa_verify_failed", "error", err)
		return nil, err
	}

	user, err := h.Repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	pair, err := h.Tokens.IssuePair(PairInput{UserID: user.ID, Username: user.Username, Email: user.Email})
	if err != nil {
		return nil, err
	}
	l.Info("mfa_verify_success")
	return pair, nil
}

func (h *AuthService) ResendMFA(ctx context.Context, userID uint64) (string, time.Time, error) {
	user, err := h.Repo.GetUserByID(ctx, userID)
	if err != nil {
		return "", time.Time{}, err
	}
	if !user.MFAEnabled {
		return "", time.Time{}, fmt.Errorf("%w: mfa is not enabled for this user", domain.ErrValidation)
	}
	code, exp, err := h.MFA.Resend(ctx, user.ID)
	if err != nil {
		return "", time.Time{}, err
	}
	h.deliverCode(ctx, user, code)
	return code, exp, nil
}

// deliverCode hands the challenge off to the notification pipeline. The
// code travels only on the broker, it never appears in responses or logs.
func (h *AuthService) deliverCode(ctx context.Context, user *models.User, code string) {
	if h.Producer == nil {
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	event := map[string]any{
		"type":    "mfa_code_issued",
		"user_id": user.ID,
		"email":   user.Email,
		"code":    code,
	}
	if err := h.Producer.PublishEvent(pubCtx, strconv.FormatUint(user.ID, 10), event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "error", err)
	}
}

func (h *AuthService) Logout(ctx context.Context, accessToken string) error {
	return h.Tokens.Blacklist(ctx, accessToken)
}

// Refresh rotates a refresh token: the consumed token is blacklisted so
// it cannot be replayed.
func (h *AuthService) Refresh(ctx context.Context, refreshToken string) (*Pair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := h.Tokens.Verify(ctx, refreshToken)
	if err != nil {
		l.Warn("refresh_failed", "error", err)
		return nil, err
	}
	if claims.Type != tokens.TypeRefresh {
		l.Warn("refresh_failed", "reason", "not a refresh token")
		return nil, domain.ErrTokenInvalid
	}

	pair, err := h.Tokens.IssuePair(PairInput{UserID: claims.UserID, Username: claims.Username, Email: claims.Email})
	if err != nil {
		return nil, err
	}

	if err := h.Tokens.Blacklist(ctx, refreshToken); err != nil {
		return nil, err
	}
	l.Info("refresh_success", "user_id", claims.UserID)
	return pair, nil
}

func generateUserID() (uint64, error) {
	// 10-digit ids: [1000000000, 9999999999]
	span := big.NewInt(9000000000)
	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return 0, fmt.Errorf("generate user id: %w", err)
	}
	return n.Uint64() + 1000000000, nil
}
