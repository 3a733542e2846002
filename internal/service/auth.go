// Package service — authentication business logic.
//
//	AuthHandler (HTTP) → AuthService (business rules) → UserRepository
//	                   ↘ TokenService (JWT), PasswordService (bcrypt)
//
// KEY RESPONSIBILITIES:
//   - Register: hash the secret, refuse a taken username
//   - ValidateCredentials: fail closed, never reveal which factor was wrong
//   - Login: validate, then issue a signed access token
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/crudauth/internal/apperror"
	"github.com/sakif/crudauth/internal/auth"
	"github.com/sakif/crudauth/internal/model"
	"github.com/sakif/crudauth/internal/repository"
)

// InvalidCredentials is the one message every failed login gets.
const InvalidCredentials = "Invalid credentials"

type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	limiter   LoginLimiter
	logger    *slog.Logger
}

// LoginLimiter throttles repeated login failures for one username.
// *ratelimit.Limiter is the Redis implementation.
type LoginLimiter interface {
	Blocked(ctx context.Context, key string) (bool, error)
	Fail(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

// TooManyAttempts is the message of a throttled login.
const TooManyAttempts = "Too many failed login attempts, try again later"

func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// WithLoginLimiter enables failed-login throttling. Without it Login never
// throttles.
func (s *AuthService) WithLoginLimiter(l LoginLimiter) *AuthService {
	s.limiter = l
	return s
}

// LoginResult is the body of a successful login.
type LoginResult struct {
	AccessToken string `json:"access_token"`
}

// Register creates an account and returns it without the hash.
//
// The username is stored as given after trimming; lookups are exact.
func (s *AuthService) Register(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperror.ValidationFailed("username", "username should not be empty")
	}
	if len(password) < MinPasswordLength {
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("password must be longer than or equal to %d characters", MinPasswordLength))
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, apperror.ValidationFailed("password", "password must be 72 bytes or fewer")
		}
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{Username: username, PasswordHash: hash}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			s.logger.Info("registration refused: username taken", slog.String("username", username))
			return nil, err
		}
		return nil, fmt.Errorf("service/auth: creating user: %w", err)
	}

	s.logger.Info("user registered", slog.String("user_id", user.ID), slog.String("username", username))
	return user.Public(), nil
}

// ValidateCredentials returns the stored user (hash stripped) when the
// password matches and (nil, nil) when it doesn't.
//
// The username is trimmed the same way Register trims it, so whatever was
// accepted at registration also matches here.
//
// FAIL CLOSED:
// An unknown username, a wrong password and an unreadable stored hash all
// collapse to "no match". Only a storage failure is reported as an error.
func (s *AuthService) ValidateCredentials(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, nil
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("service/auth: looking up user: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.Warn("stored password hash unusable",
				slog.String("user_id", user.ID),
				slog.String("error", err.Error()),
			)
		}
		return nil, nil
	}

	return user.Public(), nil
}

// Login checks the credentials and issues an access token.
// Any mismatch is an apperror.Unauthorized with InvalidCredentials.
//
// THROTTLING:
// With a limiter configured, each failure counts against the username and
// a blocked username gets apperror.RateLimited before bcrypt even runs. A
// limiter outage is logged and ignored: logins keep working without Redis.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	key := strings.ToLower(strings.TrimSpace(username))

	if s.limiter != nil {
		blocked, err := s.limiter.Blocked(ctx, key)
		if err != nil {
			s.logger.Warn("login limiter unavailable", slog.String("error", err.Error()))
		} else if blocked {
			s.logger.Warn("login throttled", slog.String("username", username))
			return nil, apperror.RateLimited(TooManyAttempts)
		}
	}

	user, err := s.ValidateCredentials(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if user == nil {
		s.logger.Info("login failed", slog.String("username", username))
		if s.limiter != nil {
			if err := s.limiter.Fail(ctx, key); err != nil {
				s.logger.Warn("login limiter unavailable", slog.String("error", err.Error()))
			}
		}
		return nil, apperror.Unauthorized(InvalidCredentials)
	}

	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing token: %w", err)
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, key); err != nil {
			s.logger.Warn("login limiter unavailable", slog.String("error", err.Error()))
		}
	}

	s.logger.Info("user logged in", slog.String("user_id", user.ID))
	return &LoginResult{AccessToken: token}, nil
}

// Profile is the payload GET /auth/profile returns: the verified claims
// as the token carried them.
type Profile struct {
	UserID    string `json:"sub"`
	Username  string `json:"username"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// Profile turns verified claims into the response payload. It does not
// touch the user store: a valid token is enough.
func (s *AuthService) Profile(claims *auth.Claims) (*Profile, error) {
	if claims == nil {
		return nil, apperror.Unauthorized("Unauthorized")
	}
	p := &Profile{UserID: claims.UserID(), Username: claims.Username}
	if claims.IssuedAt != nil {
		p.IssuedAt = claims.IssuedAt.Unix()
	}
	if claims.ExpiresAt != nil {
		p.ExpiresAt = claims.ExpiresAt.Unix()
	}
	return p, nil
}
