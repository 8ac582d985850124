package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
	ErrForbidden    = errors.New("forbidden")
)

// Claims are the staff token claims issued by the back office.
type Claims struct {
	SessionID string   `json:"sid"`
	Roles     []string `json:"roles"`
	jwt.RegisteredClaims
}

// HasAnyRole reports whether the claims carry at least one of roles.
// Role names compare case-insensitively.
func (c *Claims) HasAnyRole(roles ...string) bool {
	if c == nil {
		return false
	}
	for _, have := range c.Roles {
		for _, want := range roles {
			if strings.EqualFold(strings.TrimSpace(have), strings.TrimSpace(want)) {
				return true
			}
		}
	}
	return false
}

type TokenValidator interface {
	Validate(token string) (*Claims, error)
}

type JWTValidator struct {
	secret    []byte
	publicKey *rsa.PublicKey
	now       func() time.Time
}

// NewJWTValidator creates a validator. When publicKeyPEM parses, RS256 tokens
// are expected; otherwise HMAC with the shared secret is used.
func NewJWTValidator(secret, publicKeyPEM string) *JWTValidator {
	v := &JWTValidator{
		secret: []byte(strings.TrimSpace(secret)),
		now:    time.Now,
	}
	if pem := strings.TrimSpace(publicKeyPEM); pem != "" {
		if key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pem)); err == nil {
			v.publicKey = key
		}
	}
	return v
}

func (v *JWTValidator) keyFunc(t *jwt.Token) (interface{}, error) {
	if v.publicKey != nil {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v, expected RS256", t.Header["alg"])
		}
		return v.publicKey, nil
	}
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
	}
	return v.secret, nil
}

func (v *JWTValidator) Validate(token string) (*Claims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrMissingToken
	}
	if v.publicKey == nil && len(v.secret) == 0 {
		return nil, fmt.Errorf("%w: jwt key not configured", ErrInvalidToken)
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, v.keyFunc,
		jwt.WithLeeway(5*time.Second),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	if claims.SessionID == "" {
		claims.SessionID = claims.ID
	}
	if claims.SessionID == "" {
		if claims.ExpiresAt != nil {
			claims.SessionID = fmt.Sprintf("%s:%d", claims.Subject, claims.ExpiresAt.Unix())
		} else {
			claims.SessionID = claims.Subject
		}
	}

	return claims, nil
}

// Authorize validates the token and requires one of roles. An empty role list
// accepts any valid token.
func Authorize(v TokenValidator, token string, roles []string) (*Claims, error) {
	claims, err := v.Validate(token)
	if err != nil {
		return nil, err
	}
	if len(roles) > 0 && !claims.HasAnyRole(roles...) {
		return nil, fmt.Errorf("%w: subject %s lacks role", ErrForbidden, claims.Subject)
	}
	return claims, nil
}
