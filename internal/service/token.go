package service

import (
	"context"
	"fmt"
	"time"

	"github.com/akulikov/class_registration/internal/blacklist"
	"github.com/akulikov/class_registration/internal/domain"
	"github.com/akulikov/class_registration/internal/tokens"
)

const (
	AccessTTL  = 30 * time.Minute
	RefreshTTL = 7 * 24 * time.Hour

	minSecretBytes = 32
)

type TokenService struct {
	secret    []byte
	blacklist blacklist.Blacklist
	now       func() time.Time
}

// NewTokenService fails when the signing secret is absent or carries
// less than 256 bits of entropy.
func NewTokenService(secret []byte, bl blacklist.Blacklist) (*TokenService, error) {
	if len(secret) == 0 {
		return nil, &domain.ConfigError{Reason: "token secret is not set"}
	}
	if len(secret) < minSecretBytes {
		return nil, &domain.ConfigError{Reason: "token secret must be at least 256 bits"}
	}
	return &TokenService{
		secret:    secret,
		blacklist: bl,
		now:       time.Now,
	}, nil
}

type PairInput struct {
	UserID   uint64
	Username string
	Email    string
}

type Pair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	AccessExp    time.Time `json:"access_expires_at"`
	RefreshExp   time.Time `json:"refresh_expires_at"`
}

// IssuePair signs an access/refresh pair for the given identity. The
// refresh expiry always exceeds the access expiry.
func (s *TokenService) IssuePair(in PairInput) (*Pair, error) {
	if in.UserID == 0 || in.Username == "" || in.Email == "" {
		return nil, fmt.Errorf("%w: userId, username and email are required", domain.ErrValidation)
	}

	now := s.now()
	accessExp := now.Add(AccessTTL)
	refreshExp := now.Add(RefreshTTL)

	access, err := tokens.Sign(in.UserID, in.Username, in.Email, tokens.TypeAccess, now, accessExp, s.secret)
	if err != nil {
		return nil, err
	}
	refresh, err := tokens.Sign(in.UserID, in.Username, in.Email, tokens.TypeRefresh, now, refreshExp, s.secret)
	if err != nil {
		return nil, err
	}

	return &Pair{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, nil
}

// Verify rejects a token for any of three independent reasons, each
// surfaced distinctly: revocation, malformed/forged structure, expiry.
func (s *TokenService) Verify(ctx context.Context, raw string) (*tokens.Claims, error) {
	if raw == "" {
		return nil, domain.ErrNoToken
	}

	revoked, err := s.blacklist.Contains(ctx, raw)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, domain.ErrTokenRevoked
	}

	return tokens.ClaimsFromToken(raw, s.secret)
}

// Blacklist revokes a token. Re-revoking is a no-op.
func (s *TokenService) Blacklist(ctx context.Context, raw string) error {
	if raw == "" {
		return fmt.Errorf("%w: token is required", domain.ErrValidation)
	}
	return s.blacklist.Add(ctx, raw)
}

// IsBlacklisted never errors on empty input, it reports false.
func (s *TokenService) IsBlacklisted(ctx context.Context, raw string) bool {
	if raw == "" {
		return false
	}
	revoked, err := s.blacklist.Contains(ctx, raw)
	if err != nil {
		return false
	}
	return revoked
}
