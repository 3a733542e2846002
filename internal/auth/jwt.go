// Package auth provides password hashing, JWT issuing/verification and the
// bearer-token guard used by protected routes.
//
// AUTHENTICATION FLOW OVERVIEW:
//  1. Client POSTs /auth/register with username + password → bcrypt hash stored
//  2. Client POSTs /auth/login → credentials checked → signed JWT returned
//  3. Client sends "Authorization: Bearer <jwt>" on protected requests
//  4. RequireAuth verifies signature + expiry and puts the claims in the
//     request context before the handler runs
//
// WHY JWT?
// JWT (JSON Web Token) is stateless — the server keeps no session table.
// Everything needed (user id, username, expiry) is inside the signed token,
// and the signature means nobody can alter it without the secret key.
//
// JWT STRUCTURE (three base64-encoded parts separated by dots):
//
//	HEADER.PAYLOAD.SIGNATURE
//	- Header: algorithm + token type → {"alg":"HS256","typ":"JWT"}
//	- Payload: claims → {"sub":"userID","username":"ram","iat":...,"exp":...}
//	- Signature: HMAC-SHA256(header+"."+payload, secretKey)
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// Issuer is stamped into every token and required on verification.
	Issuer = "crudauth"

	// DefaultTokenTTL is the expiry horizon for access tokens.
	DefaultTokenTTL = time.Hour

	minSecretLength = 16
)

var (
	// ErrInvalidToken covers every verification failure: bad signature,
	// wrong algorithm, malformed input, missing subject.
	ErrInvalidToken = errors.New("auth: invalid token")
	// ErrTokenExpired is returned for a well-formed token past its exp.
	ErrTokenExpired = errors.New("auth: token expired")
)

// Claims is the JWT payload. It embeds jwt.RegisteredClaims for the
// standard fields (sub, iss, iat, exp) and adds the username so protected
// handlers do not need a database lookup to know who is calling.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// UserID returns the subject claim.
func (c *Claims) UserID() string {
	return c.Subject
}

// TokenService handles JWT creation and validation.
//
// It holds the HMAC secret used to sign and verify tokens. The secret is
// injected from configuration at startup and never appears in source.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService with the given secret and token
// lifetime. A zero ttl falls back to DefaultTokenTTL.
// Example: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("auth: JWT secret must be at least %d characters", minSecretLength)
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// TTL reports the configured token lifetime.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for the given user with the configured lifetime.
func (s *TokenService) Issue(userID, username string) (string, error) {
	return s.IssueWithTTL(userID, username, s.ttl)
}

// IssueWithTTL signs a token with a custom lifetime.
// Tests use a negative duration to mint already-expired tokens.
func (s *TokenService) IssueWithTTL(userID, username string, d time.Duration) (string, error) {
	now := time.Now()

	c := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    Issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Verify parses and verifies a JWT string and returns its claims.
//
// VALIDATION CHECKS (performed by the jwt library):
//   - Signature is valid (wasn't tampered with)
//   - Token is not expired and carries an exp at all
//   - Issuer matches Issuer
//   - Algorithm is HS256 (prevents "alg: none" and algorithm confusion)
func (s *TokenService) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	c, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if c.Subject == "" {
		return nil, fmt.Errorf("%w: no subject", ErrInvalidToken)
	}

	return c, nil
}
