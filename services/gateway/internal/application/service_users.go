package application

import (
	"context"
	"fmt"

	"github.com/homeroot/mesh/platform/identity"
	"github.com/homeroot/mesh/services/gateway/internal/domain"
)

// CurrentUser returns the caller's record with a re-issued token, matching
// the login response shape.
func (s *Service) CurrentUser(ctx context.Context, p identity.Principal) (UserResponse, error) {
	if p.Anonymous() {
		return UserResponse{}, domain.ErrUnauthorized
	}
	user, err := s.users.GetByUsername(ctx, p.Username)
	if err != nil {
		return UserResponse{}, err
	}
	token, err := s.tokens.Issue(user.Principal(), s.cfg.TokenTTL)
	if err != nil {
		return UserResponse{}, fmt.Errorf("issue token: %w", err)
	}
	user.Token = token
	return toUserResponse(user), nil
}

// ChangeOwnRole lets the caller switch their own role, subject to the
// protection rules and the admin ceiling.
func (s *Service) ChangeOwnRole(ctx context.Context, p identity.Principal, newRole identity.Role) error {
	if p.Anonymous() {
		return domain.ErrUnauthorized
	}
	return s.changeRole(ctx, p.Username, p.Username, newRole)
}

// ListUsers returns every account; admin only.
func (s *Service) ListUsers(ctx context.Context, actor identity.Principal) ([]UserResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out, nil
}

// GetUser returns one account by id; admin only.
func (s *Service) GetUser(ctx context.Context, actor identity.Principal, userID int64) (UserResponse, error) {
	if !actor.IsAdmin() {
		return UserResponse{}, domain.ErrForbidden
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return UserResponse{}, err
	}
	return toUserResponse(user), nil
}

// UpdateUser lets an admin change another account's display name and role,
// subject to the protection rules. Existence is checked before the rules so
// a missing target is NotFound, never a rule violation.
func (s *Service) UpdateUser(ctx context.Context, actor identity.Principal, userID int64, req UpdateUserRequest) (UserResponse, error) {
	if !actor.IsAdmin() {
		return UserResponse{}, domain.ErrForbidden
	}
	target, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return UserResponse{}, err
	}

	newRole := target.Role
	if req.Role != "" {
		role, ok := identity.ParseRole(req.Role)
		if !ok {
			return UserResponse{}, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, req.Role)
		}
		newRole = role
	}

	if newRole != target.Role {
		if err := s.checkRoleRules(ctx, actor.Username, target, newRole); err != nil {
			return UserResponse{}, err
		}
	} else if target.Username == s.cfg.ProtectedAdmin && actor.Username != s.cfg.ProtectedAdmin {
		return UserResponse{}, fmt.Errorf("%w: the protected admin account %q cannot be modified by other users", domain.ErrRuleViolation, s.cfg.ProtectedAdmin)
	}

	fullName := target.FullName
	if req.FullName != "" {
		fullName = req.FullName
	}

	updated, err := s.users.UpdateNameAndRole(ctx, userID, fullName, newRole)
	if err != nil {
		return UserResponse{}, err
	}
	s.logger.InfoContext(ctx, "user updated by admin",
		"operation", "update_user",
		"outcome", "success",
		"actor", actor.Username,
		"user_id", userID,
	)
	return toUserResponse(updated), nil
}

// DeleteUser removes an account; admin only, and never the protected admin.
func (s *Service) DeleteUser(ctx context.Context, actor identity.Principal, userID int64) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	target, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := domain.CheckUserDelete(target.Username, s.cfg.ProtectedAdmin); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "user deleted by admin",
		"operation", "delete_user",
		"outcome", "success",
		"actor", actor.Username,
		"user_id", userID,
	)
	return nil
}

func (s *Service) changeRole(ctx context.Context, actorUsername, targetUsername string, newRole identity.Role) error {
	target, err := s.users.GetByUsername(ctx, targetUsername)
	if err != nil {
		return err
	}
	if err := s.checkRoleRules(ctx, actorUsername, target, newRole); err != nil {
		return err
	}
	if err := s.users.UpdateRole(ctx, targetUsername, newRole); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "role changed",
		"operation", "change_role",
		"outcome", "success",
		"actor", actorUsername,
		"target", targetUsername,
		"new_role", string(newRole),
	)
	return nil
}

func (s *Service) checkRoleRules(ctx context.Context, actorUsername string, target domain.User, newRole identity.Role) error {
	adminCount := int64(0)
	if newRole == identity.RoleAdmin && target.Role != identity.RoleAdmin {
		count, err := s.users.CountByRole(ctx, identity.RoleAdmin)
		if err != nil {
			return err
		}
		adminCount = count
	}
	change := domain.RoleChange{
		ActorUsername:     actorUsername,
		TargetUsername:    target.Username,
		CurrentRole:       target.Role,
		NewRole:           newRole,
		ProtectedUsername: s.cfg.ProtectedAdmin,
		AdminCount:        adminCount,
		MaxAdmins:         s.cfg.MaxAdmins,
	}
	return change.CheckRoleChange()
}
