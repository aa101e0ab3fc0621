package application_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/homeroot/mesh/platform/identity"
	"github.com/homeroot/mesh/services/gateway/internal/application"
	"github.com/homeroot/mesh/services/gateway/internal/domain"
	"github.com/homeroot/mesh/services/gateway/internal/ports"
)

func TestSignUpAndLogin(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()

	created, err := f.service.SignUp(ctx, application.SignUpRequest{
		Username: "alice",
		Password: "correct-horse",
		FullName: "Alice Doe",
	})
	if err != nil {
		t.Fatalf("sign up failed: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("sign up returned empty user id")
	}
	if created.Role != string(identity.RoleUser) {
		t.Fatalf("new accounts must get the default role, got %s", created.Role)
	}
	if created.Token == "" {
		t.Fatalf("sign up should return a token")
	}

	loggedIn, err := f.service.Login(ctx, application.LoginRequest{
		Username: "alice",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if loggedIn.Token == "" {
		t.Fatalf("login should return a token")
	}
	if loggedIn.ID != created.ID {
		t.Fatalf("login returned user %d, want %d", loggedIn.ID, created.ID)
	}

	if _, err := f.service.SignUp(ctx, application.SignUpRequest{
		Username: "alice",
		Password: "another-pass",
	}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("duplicate username should conflict, got %v", err)
	}
}

func TestSignUpValidation(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()

	cases := []application.SignUpRequest{
		{Username: "", Password: "long-enough"},
		{Username: "bob", Password: "short"},
	}
	for _, req := range cases {
		if _, err := f.service.SignUp(ctx, req); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("expected invalid input for %+v, got %v", req, err)
		}
	}
}

func TestLoginFailureIsIndistinguishable(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	f.seedUser("alice", identity.RoleUser, "correct-horse")

	_, unknownErr := f.service.Login(ctx, application.LoginRequest{
		Username: "nobody",
		Password: "whatever-pass",
	})
	_, wrongPassErr := f.service.Login(ctx, application.LoginRequest{
		Username: "alice",
		Password: "wrong-pass",
	})

	if !errors.Is(unknownErr, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown user: got %v", unknownErr)
	}
	if !errors.Is(wrongPassErr, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v", wrongPassErr)
	}
	if unknownErr.Error() != wrongPassErr.Error() {
		t.Fatalf("failure reasons must be identical: %q vs %q", unknownErr, wrongPassErr)
	}
}

func TestLoginLockoutAfterRepeatedFailures(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	f.seedUser("alice", identity.RoleUser, "correct-horse")

	for i := 0; i < 3; i++ {
		if _, err := f.service.Login(ctx, application.LoginRequest{
			Username: "alice",
			Password: "wrong-pass",
		}); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("attempt %d: got %v", i, err)
		}
	}

	// Even the correct password is rejected while the lockout holds.
	if _, err := f.service.Login(ctx, application.LoginRequest{
		Username: "alice",
		Password: "correct-horse",
	}); !errors.Is(err, domain.ErrAccountLocked) {
		t.Fatalf("expected lockout, got %v", err)
	}

	f.advance(20 * time.Minute)

	res, err := f.service.Login(ctx, application.LoginRequest{
		Username: "alice",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("login after lockout expiry failed: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected token after lockout expiry")
	}
	if f.lockouts.failCount("login:alice") != 0 {
		t.Fatalf("successful login must clear the failure counter")
	}
}

func TestChangeOwnRolePromotion(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	u := f.seedUser("alice", identity.RoleUser, "correct-horse")

	if err := f.service.ChangeOwnRole(ctx, u.Principal(), identity.RoleAdmin); err != nil {
		t.Fatalf("promotion below ceiling failed: %v", err)
	}
	got, err := f.users.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("load user: %v", err)
	}
	if got.Role != identity.RoleAdmin {
		t.Fatalf("role not persisted, got %s", got.Role)
	}

	if err := f.service.ChangeOwnRole(ctx, identity.Principal{}, identity.RoleAdmin); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("anonymous role change should be unauthorized, got %v", err)
	}
}

func TestAdminCeilingBlocksPromotion(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	f.seedUser("admin", identity.RoleAdmin, "pw-admin-1")
	f.seedUser("root2", identity.RoleAdmin, "pw-admin-2")
	f.seedUser("root3", identity.RoleAdmin, "pw-admin-3")
	u := f.seedUser("alice", identity.RoleUser, "correct-horse")

	err := f.service.ChangeOwnRole(ctx, u.Principal(), identity.RoleAdmin)
	if !errors.Is(err, domain.ErrRuleViolation) {
		t.Fatalf("expected rule violation at the admin ceiling, got %v", err)
	}
	if errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("ceiling breach must not be the generic forbidden error")
	}

	// A lateral change that does not mint a new admin is fine.
	if err := f.service.ChangeOwnRole(ctx, u.Principal(), identity.RoleUser); err != nil {
		t.Fatalf("no-op role change failed: %v", err)
	}
}

func TestProtectedAdminRules(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	protected := f.seedUser("admin", identity.RoleAdmin, "pw-admin-1")
	other := f.seedUser("root2", identity.RoleAdmin, "pw-admin-2")

	if err := f.service.DeleteUser(ctx, other.Principal(), protected.ID); !errors.Is(err, domain.ErrRuleViolation) {
		t.Fatalf("deleting the protected admin should be a rule violation, got %v", err)
	}

	if _, err := f.service.UpdateUser(ctx, other.Principal(), protected.ID, application.UpdateUserRequest{
		FullName: "Renamed",
	}); !errors.Is(err, domain.ErrRuleViolation) {
		t.Fatalf("editing the protected admin by another user should be a rule violation, got %v", err)
	}

	if err := f.service.ChangeOwnRole(ctx, protected.Principal(), identity.RoleUser); !errors.Is(err, domain.ErrRuleViolation) {
		t.Fatalf("protected admin self-demotion should be a rule violation, got %v", err)
	}

	// The protected account may still edit its own display name.
	if _, err := f.service.UpdateUser(ctx, protected.Principal(), protected.ID, application.UpdateUserRequest{
		FullName: "Head Admin",
	}); err != nil {
		t.Fatalf("protected admin self-edit failed: %v", err)
	}
}

func TestUserAdministrationIsAdminOnly(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	admin := f.seedUser("admin", identity.RoleAdmin, "pw-admin-1")
	user := f.seedUser("alice", identity.RoleUser, "correct-horse")

	if _, err := f.service.ListUsers(ctx, user.Principal()); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("list by non-admin: got %v", err)
	}
	if _, err := f.service.GetUser(ctx, user.Principal(), admin.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("get by non-admin: got %v", err)
	}
	if _, err := f.service.UpdateUser(ctx, user.Principal(), admin.ID, application.UpdateUserRequest{}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("update by non-admin: got %v", err)
	}
	if err := f.service.DeleteUser(ctx, user.Principal(), admin.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("delete by non-admin: got %v", err)
	}

	all, err := f.service.ListUsers(ctx, admin.Principal())
	if err != nil {
		t.Fatalf("list by admin failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 users, got %d", len(all))
	}
	for _, u := range all {
		if u.Token != "" {
			t.Fatalf("admin listing must not carry tokens")
		}
	}
}

func TestUpdateUserMissingTargetIsNotFound(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	admin := f.seedUser("admin", identity.RoleAdmin, "pw-admin-1")

	if _, err := f.service.UpdateUser(ctx, admin.Principal(), 9999, application.UpdateUserRequest{
		Role: "ADMIN",
	}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing target must be not found before any rule verdict, got %v", err)
	}
	if err := f.service.DeleteUser(ctx, admin.Principal(), 9999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("deleting a missing user: got %v", err)
	}
}

func TestUpdateUserRejectsUnknownRole(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	admin := f.seedUser("admin", identity.RoleAdmin, "pw-admin-1")
	user := f.seedUser("alice", identity.RoleUser, "correct-horse")

	if _, err := f.service.UpdateUser(ctx, admin.Principal(), user.ID, application.UpdateUserRequest{
		Role: "WIZARD",
	}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("unknown role must be invalid input, got %v", err)
	}
}

func TestCurrentUserReissuesToken(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	u := f.seedUser("alice", identity.RoleUser, "correct-horse")

	res, err := f.service.CurrentUser(ctx, u.Principal())
	if err != nil {
		t.Fatalf("current user failed: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("current user response should carry a fresh token")
	}
	if _, err := f.service.CurrentUser(ctx, identity.Principal{}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("anonymous current-user read: got %v", err)
	}
}

func newFixture() *fixture {
	users := &fakeUsers{
		byUsername: map[string]domain.User{},
		byID:       map[int64]domain.User{},
	}
	lockouts := &fakeLockouts{state: map[string]ports.LockoutState{}}
	tokens := &fakeTokens{}

	f := &fixture{
		users:    users,
		lockouts: lockouts,
		now:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.service = application.NewService(application.Dependencies{
		Config: application.Config{
			TokenTTL:             time.Hour,
			FailedLoginThreshold: 3,
			LockoutDuration:      15 * time.Minute,
			ProtectedAdmin:       "admin",
			MaxAdmins:            3,
			DefaultRole:          identity.RoleUser,
		},
		Users:    users,
		Lockouts: lockouts,
		Hasher:   &fakeHasher{},
		Tokens:   tokens,
		NowFn:    func() time.Time { return f.currentTime() },
	})
	return f
}

type fixture struct {
	service  *application.Service
	users    *fakeUsers
	lockouts *fakeLockouts

	mu  sync.Mutex
	now time.Time
}

func (f *fixture) currentTime() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fixture) advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func (f *fixture) seedUser(username string, role identity.Role, password string) domain.User {
	u, err := f.users.Create(context.Background(), domain.User{
		Username:     username,
		PasswordHash: "hashed:" + password,
		Role:         role,
		CreatedAt:    f.currentTime(),
	})
	if err != nil {
		panic(err)
	}
	return u
}

type fakeUsers struct {
	mu         sync.Mutex
	byUsername map[string]domain.User
	byID       map[int64]domain.User
	nextID     int64
}

func (f *fakeUsers) Create(_ context.Context, user domain.User) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byUsername[user.Username]; ok {
		return domain.User{}, domain.ErrConflict
	}
	f.nextID++
	user.ID = f.nextID
	f.byUsername[user.Username] = user
	f.byID[user.ID] = user
	return user, nil
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byUsername[username]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) List(_ context.Context) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.User, 0, len(f.byID))
	for id := int64(1); id <= f.nextID; id++ {
		if u, ok := f.byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUsers) UpdateRole(_ context.Context, username string, role identity.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byUsername[username]
	if !ok {
		return domain.ErrNotFound
	}
	u.Role = role
	f.byUsername[username] = u
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUsers) UpdateNameAndRole(_ context.Context, id int64, fullName string, role identity.Role) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	u.FullName = fullName
	u.Role = role
	f.byID[id] = u
	f.byUsername[u.Username] = u
	return u, nil
}

func (f *fakeUsers) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	delete(f.byUsername, u.Username)
	return nil
}

func (f *fakeUsers) CountByRole(_ context.Context, role identity.Role) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, u := range f.byID {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

type fakeLockouts struct {
	mu    sync.Mutex
	state map[string]ports.LockoutState
}

func (f *fakeLockouts) Get(_ context.Context, key string) (ports.LockoutState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state[key], nil
}

func (f *fakeLockouts) RecordFailure(_ context.Context, key string, now time.Time, threshold int, lockoutWindow time.Duration) (ports.LockoutState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.state[key]
	s.FailedCount++
	if s.FailedCount >= threshold {
		until := now.Add(lockoutWindow)
		s.LockedUntil = &until
	}
	f.state[key] = s
	return s, nil
}

func (f *fakeLockouts) Clear(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.state, key)
	return nil
}

func (f *fakeLockouts) failCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state[key].FailedCount
}

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return errors.New("hash mismatch")
	}
	return nil
}

type fakeTokens struct {
	mu     sync.Mutex
	issued int
}

func (f *fakeTokens) Issue(p identity.Principal, _ time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.issued++
	return fmt.Sprintf("token-%s-%d", p.Username, f.issued), nil
}

func (f *fakeTokens) Decode(raw string) (identity.Principal, error) {
	if raw == "" {
		return identity.Principal{}, errors.New("empty token")
	}
	return identity.Principal{}, errors.New("opaque test token")
}
