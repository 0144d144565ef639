package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/akulikov/class_registration/internal/domain"
)

const (
	Issuer   = "class-registration"
	Audience = "class-registration-clients"

	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Claims is the single claims shape for both token kinds, discriminated
// by the Type field.
type Claims struct {
	UserID   uint64 `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Type     string `json:"typ"`
	jwt.RegisteredClaims
}

func Sign(userID uint64, username, email, typ string, issuedAt, expiresAt time.Time, secret []byte) (string, error) {
	claims := Claims{
		UserID:   userID,
		Username: username,
		Email:    email,
		Type:     typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Audience:  jwt.ClaimStrings{Audience},
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

// ClaimsFromToken validates signature, issuer, audience and expiry.
// Expiry is surfaced as domain.ErrTokenExpired, every other parse or
// validation failure as domain.ErrTokenInvalid.
func ClaimsFromToken(tokenStr string, secret []byte) (*Claims, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return secret, nil
	},
		jwt.WithIssuer(Issuer),
		jwt.WithAudience(Audience),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	if !tkn.Valid {
		return nil, domain.ErrTokenInvalid
	}
	if claims.Type != TypeAccess && claims.Type != TypeRefresh {
		return nil, domain.ErrTokenInvalid
	}
	return &claims, nil
}
