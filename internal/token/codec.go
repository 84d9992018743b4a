// Package token issues and verifies the signed bearer tokens that gate every
// protected endpoint.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrExpired means the signature checked out but the token is past its
	// expiry.
	ErrExpired = errors.New("token expired")
	// ErrMalformed covers decoding and signature failures.
	ErrMalformed = errors.New("token malformed")
	// ErrIssuerMismatch is returned when an expected issuer is configured and
	// the token names a different one.
	ErrIssuerMismatch = errors.New("token issuer mismatch")
)

// Claims is the identity payload embedded in access tokens.
type Claims struct {
	Scope string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

// Codec signs and verifies tokens with a process-wide symmetric secret. It is
// stateless and safe for concurrent use.
type Codec struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewCodec(secret, issuer string) *Codec {
	return &Codec{
		secret: []byte(secret),
		issuer: issuer,
		now:    time.Now,
	}
}

// Issue creates a signed token for subject, valid from now until now+ttl.
// Scope may be empty.
func (c *Codec) Issue(subject, scope string, ttl time.Duration) (string, error) {
	now := c.now()
	claims := Claims{
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    c.issuer,
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify decodes tokenString, checks the signature and expiry, and checks the
// issuer when one is configured. The distinct sentinel errors are for internal
// logging; callers at the HTTP boundary report them uniformly.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return c.now() }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrMalformed
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrMalformed
	}

	if c.issuer != "" && claims.Issuer != c.issuer {
		return nil, ErrIssuerMismatch
	}

	return claims, nil
}
