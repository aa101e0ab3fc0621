package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/homeroot/mesh/platform/identity"
	"github.com/homeroot/mesh/services/gateway/internal/domain"
)

// SignUp creates a local account with the default role and returns the
// record together with a freshly issued token, so a new user is signed in
// immediately.
func (s *Service) SignUp(ctx context.Context, req SignUpRequest) (UserResponse, error) {
	username := strings.TrimSpace(req.Username)
	if err := domain.ValidateUsername(username); err != nil {
		return UserResponse{}, err
	}
	if err := domain.ValidatePassword(req.Password); err != nil {
		return UserResponse{}, err
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return UserResponse{}, fmt.Errorf("%w: username already taken", domain.ErrConflict)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return UserResponse{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, domain.User{
		Username:     username,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(req.FullName),
		Role:         s.cfg.DefaultRole,
		CreatedAt:    s.nowFn(),
	})
	if err != nil {
		return UserResponse{}, err
	}

	token, err := s.tokens.Issue(user.Principal(), s.cfg.TokenTTL)
	if err != nil {
		return UserResponse{}, fmt.Errorf("issue token: %w", err)
	}
	user.Token = token

	s.logger.InfoContext(ctx, "user registered",
		"operation", "sign_up",
		"outcome", "success",
		"user_id", user.ID,
	)
	return toUserResponse(user), nil
}

// Login verifies the credentials and issues a token with the service-wide
// TTL. The failure reason is deliberately identical whether the username is
// unknown or the password is wrong.
func (s *Service) Login(ctx context.Context, req LoginRequest) (UserResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return UserResponse{}, domain.ErrInvalidCredentials
	}

	lockKey := "login:" + username
	if s.lockouts != nil {
		state, err := s.lockouts.Get(ctx, lockKey)
		if err == nil && state.LockedUntil != nil && state.LockedUntil.After(s.nowFn()) {
			s.logger.WarnContext(ctx, "account lockout active",
				"operation", "login",
				"outcome", "blocked",
				"username", username,
				"locked_until", state.LockedUntil,
			)
			return UserResponse{}, domain.ErrAccountLocked
		}
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		s.recordLoginFailure(ctx, lockKey, username)
		return UserResponse{}, domain.ErrInvalidCredentials
	}
	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		s.recordLoginFailure(ctx, lockKey, username)
		return UserResponse{}, domain.ErrInvalidCredentials
	}

	if s.lockouts != nil {
		_ = s.lockouts.Clear(ctx, lockKey)
	}

	token, err := s.tokens.Issue(user.Principal(), s.cfg.TokenTTL)
	if err != nil {
		return UserResponse{}, fmt.Errorf("issue token: %w", err)
	}
	user.Token = token

	s.logger.InfoContext(ctx, "user logged in",
		"operation", "login",
		"outcome", "success",
		"user_id", user.ID,
	)
	return toUserResponse(user), nil
}

// DecodeToken is the token validation hop used by the identity middleware
// and the internal gRPC surface.
func (s *Service) DecodeToken(raw string) (identity.Principal, error) {
	return s.tokens.Decode(raw)
}

func (s *Service) recordLoginFailure(ctx context.Context, lockKey, username string) {
	if s.lockouts == nil {
		return
	}
	state, err := s.lockouts.RecordFailure(ctx, lockKey, s.nowFn(), s.cfg.FailedLoginThreshold, s.cfg.LockoutDuration)
	if err != nil {
		return
	}
	if state.LockedUntil != nil {
		s.logger.WarnContext(ctx, "account locked after repeated failures",
			"operation", "login",
			"outcome", "locked",
			"username", username,
			"failed_count", state.FailedCount,
		)
	}
}
