package token

import (
	"errors"
	"fmt"
	"time"

	"crmd/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const DefaultLifetime = 120 * time.Minute

// Claims is the only supported claims shape. TenantID and Role bind the
// token to exactly one membership at issuance time.
type Claims struct {
	jwt.RegisteredClaims
	TenantID string `json:"tenant_id"`
	Role     string `json:"role"`
}

// Codec issues and verifies HS256 session tokens. It is stateless: validity
// is bounded only by the embedded expiry and the signature.
type Codec struct {
	secret   []byte
	lifetime time.Duration
}

func NewCodec(secret string, lifetime time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: signing secret is not set", domain.ErrConfig)
	}
	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}
	return &Codec{secret: []byte(secret), lifetime: lifetime}, nil
}

func (c *Codec) Lifetime() time.Duration { return c.lifetime }

func (c *Codec) Issue(principalID, tenantID string, role domain.Role, now time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   principalID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.lifetime)),
		},
		TenantID: tenantID,
		Role:     string(role),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify checks the signature before honoring any claim, then the expiry,
// then the claim shape. Claims from a token that failed signature checking
// are never returned.
func (c *Codec) Verify(raw string, now time.Time) (domain.Identity, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return domain.Identity{}, domain.ErrInvalidSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return domain.Identity{}, domain.ErrTokenExpired
		default:
			return domain.Identity{}, domain.ErrMalformedToken
		}
	}
	if claims.Subject == "" || claims.TenantID == "" {
		return domain.Identity{}, domain.ErrMalformedToken
	}
	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return domain.Identity{}, err
	}
	return domain.Identity{
		PrincipalID: claims.Subject,
		TenantID:    claims.TenantID,
		Role:        role,
	}, nil
}
