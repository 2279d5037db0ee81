package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMissingSecret is returned when the signing secret is empty.
var ErrMissingSecret = errors.New("jwt: empty secret")

// Claims carries the registered JWT claims plus the session identity.
// Role travels in the token so the gate can decide without a DB round-trip;
// staleness is detected separately through the role-change log.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Name      string `json:"name"`
	CompanyID string `json:"companyId,omitempty"`
	// IssuedAtNano keeps the sub-second issue time; iat is whole seconds.
	IssuedAtNano int64 `json:"iatNano,omitempty"`
}

// Subject is the identity payload signed into a token.
type Subject struct {
	UserID    string
	Email     string
	Role      string
	Name      string
	CompanyID string
}

// Generate signs an HS256 token for the subject valid for expMinutes.
func Generate(secret string, sub Subject, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", ErrMissingSecret
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   sub.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:       sub.UserID,
		Email:        sub.Email,
		Role:         sub.Role,
		Name:         sub.Name,
		CompanyID:    sub.CompanyID,
		IssuedAtNano: now.UnixNano(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse validates signature and expiry and returns the claims.
// Expired, tampered or non-HMAC tokens are rejected; there is no refresh path.
func Parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("jwt: invalid claims")
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("jwt: missing userId claim")
	}
	return claims, nil
}

// IssuedAtTime returns the precise issue time, falling back to iat or the zero time.
func (c *Claims) IssuedAtTime() time.Time {
	if c.IssuedAtNano > 0 {
		return time.Unix(0, c.IssuedAtNano).UTC()
	}
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}
