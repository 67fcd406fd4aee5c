package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"conferencecentral/internal/domain"
)

type jwtClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// JWT issues and verifies HS256 bearer tokens carrying the user id as subject
// and the user's email as a custom claim.
type JWT struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

var (
	_ domain.TokenIssuer   = (*JWT)(nil)
	_ domain.TokenVerifier = (*JWT)(nil)
)

// NewJWT returns a token issuer/verifier signing with secret. Issued tokens expire after expiry.
func NewJWT(secret string, expiry time.Duration) *JWT {
	return &JWT{secret: []byte(secret), expiry: expiry, now: time.Now}
}

func (j *JWT) Issue(user *domain.AuthUser) (string, error) {
	if user == nil || strings.TrimSpace(user.UserID) == "" {
		return "", fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	now := j.now()
	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.expiry)),
		},
		Email: user.Email,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

func (j *JWT) Verify(token string) (*domain.AuthUser, error) {
	claims := &jwtClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return j.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(j.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, errors.New("token has no subject"))
	}
	return &domain.AuthUser{UserID: claims.Subject, Email: claims.Email}, nil
}
