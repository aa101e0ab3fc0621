package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/homeroot/mesh/platform/identity"
	"github.com/homeroot/mesh/services/gateway/internal/adapters/security"
	"github.com/homeroot/mesh/services/gateway/internal/application"
	"github.com/homeroot/mesh/services/gateway/internal/domain"
	"github.com/homeroot/mesh/services/gateway/internal/ports"
)

func newTestServer(t *testing.T) (*httptest.Server, *edgeFixture) {
	t.Helper()

	codec, err := security.NewTokenCodec("0123456789abcdef0123456789abcdef")
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	users := &stubUsers{byUsername: map[string]domain.User{}, byID: map[int64]domain.User{}}
	service := application.NewService(application.Dependencies{
		Config: application.Config{
			TokenTTL:       time.Hour,
			ProtectedAdmin: "admin",
			MaxAdmins:      3,
			DefaultRole:    identity.RoleUser,
		},
		Users:  users,
		Hasher: &stubHasher{},
		Tokens: codec,
	})
	listings := &stubListingClient{}
	purchases := &stubPurchaseClient{}
	srv := httptest.NewServer(NewRouter(NewHandler(service, listings, purchases)))
	t.Cleanup(srv.Close)

	return srv, &edgeFixture{codec: codec, users: users, listings: listings, purchases: purchases}
}

type edgeFixture struct {
	codec     *security.TokenCodec
	users     *stubUsers
	listings  *stubListingClient
	purchases *stubPurchaseClient
}

func (f *edgeFixture) tokenFor(t *testing.T, id int64, username string, roles ...identity.Role) string {
	t.Helper()
	raw, err := f.codec.Issue(identity.Principal{ID: id, Username: username, Roles: roles}, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return raw
}

func (f *edgeFixture) seedUser(id int64, username string, role identity.Role) {
	f.users.mu.Lock()
	defer f.users.mu.Unlock()
	u := domain.User{ID: id, Username: username, PasswordHash: "hashed:pw", Role: role, CreatedAt: time.Now().UTC()}
	f.users.byUsername[username] = u
	f.users.byID[id] = u
}

func get(t *testing.T, url, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	return resp
}

func TestPublicReadsProceedWithoutToken(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	resp := get(t, srv.URL+"/api/listings", "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("anonymous catalog read: status %d, want 200", resp.StatusCode)
	}
}

func TestInvalidTokenFailsOpen(t *testing.T) {
	t.Parallel()

	srv, f := newTestServer(t)

	// A garbage token never turns a public read into a 401; the request just
	// proceeds anonymously.
	resp := get(t, srv.URL+"/api/listings", "not.a.token")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("garbage token on public read: status %d, want 200", resp.StatusCode)
	}

	// The same garbage token is worth nothing on a protected route.
	protected := get(t, srv.URL+"/api/users", "not.a.token")
	defer protected.Body.Close()
	if protected.StatusCode != http.StatusUnauthorized {
		t.Fatalf("garbage token on protected read: status %d, want 401", protected.StatusCode)
	}

	// An expired token behaves exactly like no token.
	expired, err := f.codec.Issue(identity.Principal{ID: 10, Username: "alice"}, -time.Minute)
	if err != nil {
		t.Fatalf("issue expired token: %v", err)
	}
	expiredResp := get(t, srv.URL+"/api/users", expired)
	defer expiredResp.Body.Close()
	if expiredResp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expired token on protected read: status %d, want 401", expiredResp.StatusCode)
	}
}

func TestProtectedRouteWithValidToken(t *testing.T) {
	t.Parallel()

	srv, f := newTestServer(t)
	f.seedUser(10, "alice", identity.RoleUser)

	resp := get(t, srv.URL+"/api/users", f.tokenFor(t, 10, "alice", identity.RoleUser))
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("current user read: status %d, want 200", resp.StatusCode)
	}
	var envelope struct {
		Status string                   `json:"status"`
		Data   application.UserResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Username != "alice" || envelope.Data.Token == "" {
		t.Fatalf("current user = %+v", envelope.Data)
	}
}

func TestSaveListingStampsCallerAsOwner(t *testing.T) {
	t.Parallel()

	srv, f := newTestServer(t)

	body := strings.NewReader(`{"name":"loft","address":"1 Main St","price":250000}`)
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/listings", body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.tokenFor(t, 10, "alice", identity.RoleUser))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("save listing: status %d, want 201", resp.StatusCode)
	}

	saved := f.listings.lastSaved()
	if saved.OwnerID != 10 {
		t.Fatalf("owner stamped as %d, want the token's user id", saved.OwnerID)
	}
	if p := f.listings.lastPrincipal(); p.ID != 10 {
		t.Fatalf("peer call missing the caller's principal, got %+v", p)
	}
}

func TestMutationsRejectAnonymousCallers(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	paths := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodPost, "/api/listings", `{"name":"loft","address":"1 Main St"}`},
		{http.MethodDelete, "/api/listings/5", ""},
		{http.MethodPost, "/api/purchases", `{"listing_id":5,"title":"loft"}`},
		{http.MethodGet, "/api/purchases/mine", ""},
		{http.MethodGet, "/api/listings/mine", ""},
	}
	for _, tc := range paths {
		req, err := http.NewRequest(tc.method, srv.URL+tc.path, strings.NewReader(tc.body))
		if err != nil {
			t.Fatalf("build request: %v", err)
		}
		if tc.body != "" {
			req.Header.Set("Content-Type", "application/json")
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("do request: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s %s without token: status %d, want 401", tc.method, tc.path, resp.StatusCode)
		}
	}
}

func TestAdminRoutesMapDomainErrors(t *testing.T) {
	t.Parallel()

	srv, f := newTestServer(t)
	f.seedUser(1, "admin", identity.RoleAdmin)
	f.seedUser(10, "alice", identity.RoleUser)

	// Non-admin gets 403 from the admin listing.
	resp := get(t, srv.URL+"/api/users/admin", f.tokenFor(t, 10, "alice", identity.RoleUser))
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("non-admin listing: status %d, want 403", resp.StatusCode)
	}

	// Deleting the protected admin is a 400 rule violation, not a 403.
	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/users/admin/1", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+f.tokenFor(t, 10, "alice", identity.RoleAdmin))
	deleteResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer deleteResp.Body.Close()
	if deleteResp.StatusCode != http.StatusBadRequest {
		t.Fatalf("protected admin delete: status %d, want 400", deleteResp.StatusCode)
	}
	var apiErr apiError
	if err := json.NewDecoder(deleteResp.Body).Decode(&apiErr); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if apiErr.Code != "RULE_VIOLATION" {
		t.Fatalf("code = %q, want RULE_VIOLATION", apiErr.Code)
	}
}

type stubUsers struct {
	mu         sync.Mutex
	byUsername map[string]domain.User
	byID       map[int64]domain.User
	nextID     int64
}

func (s *stubUsers) Create(_ context.Context, user domain.User) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byUsername[user.Username]; ok {
		return domain.User{}, domain.ErrConflict
	}
	s.nextID++
	user.ID = s.nextID + 100
	s.byUsername[user.Username] = user
	s.byID[user.ID] = user
	return user, nil
}

func (s *stubUsers) GetByUsername(_ context.Context, username string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byUsername[username]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (s *stubUsers) GetByID(_ context.Context, id int64) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (s *stubUsers) List(_ context.Context) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.User, 0, len(s.byID))
	for _, u := range s.byID {
		out = append(out, u)
	}
	return out, nil
}

func (s *stubUsers) UpdateRole(_ context.Context, username string, role identity.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byUsername[username]
	if !ok {
		return domain.ErrNotFound
	}
	u.Role = role
	s.byUsername[username] = u
	s.byID[u.ID] = u
	return nil
}

func (s *stubUsers) UpdateNameAndRole(_ context.Context, id int64, fullName string, role identity.Role) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	u.FullName = fullName
	u.Role = role
	s.byID[id] = u
	s.byUsername[u.Username] = u
	return u, nil
}

func (s *stubUsers) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(s.byID, id)
	delete(s.byUsername, u.Username)
	return nil
}

func (s *stubUsers) CountByRole(_ context.Context, role identity.Role) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, u := range s.byID {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

type stubHasher struct{}

func (stubHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (stubHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return errors.New("hash mismatch")
	}
	return nil
}

type stubListingClient struct {
	mu        sync.Mutex
	saved     []ports.Listing
	principal identity.Principal
}

func (s *stubListingClient) Save(ctx context.Context, listing ports.Listing) (ports.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	listing.ID = int64(len(s.saved) + 1)
	s.saved = append(s.saved, listing)
	s.principal = identity.CurrentPrincipal(ctx)
	return listing, nil
}

func (s *stubListingClient) Delete(_ context.Context, _ int64) error { return nil }

func (s *stubListingClient) GetByID(_ context.Context, listingID int64) (ports.Listing, error) {
	return ports.Listing{ID: listingID}, nil
}

func (s *stubListingClient) ListAll(_ context.Context) ([]ports.Listing, error) {
	return []ports.Listing{}, nil
}

func (s *stubListingClient) ListByOwner(_ context.Context, _ int64) ([]ports.Listing, error) {
	return []ports.Listing{}, nil
}

func (s *stubListingClient) lastSaved() ports.Listing {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.saved) == 0 {
		return ports.Listing{}
	}
	return s.saved[len(s.saved)-1]
}

func (s *stubListingClient) lastPrincipal() identity.Principal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.principal
}

type stubPurchaseClient struct{}

func (stubPurchaseClient) Save(_ context.Context, purchase ports.Purchase) (ports.Purchase, error) {
	purchase.ID = 1
	return purchase, nil
}

func (stubPurchaseClient) ListOfUser(_ context.Context, _ int64) ([]ports.Purchase, error) {
	return []ports.Purchase{}, nil
}
