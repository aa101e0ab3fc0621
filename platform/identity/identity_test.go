package identity

import (
	"net/http"
	"testing"
)

func TestParseRoles(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  string
		want []Role
	}{
		{"single", "USER", []Role{RoleUser}},
		{"both", "ADMIN,USER", []Role{RoleAdmin, RoleUser}},
		{"lowercase and spaces", " admin , user ", []Role{RoleAdmin, RoleUser}},
		{"unknown dropped", "USER,SUPERUSER", []Role{RoleUser}},
		{"duplicates collapsed", "USER,USER,ADMIN", []Role{RoleUser, RoleAdmin}},
		{"empty", "", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := ParseRoles(tc.raw)
			if len(got) != len(tc.want) {
				t.Fatalf("ParseRoles(%q) = %v, want %v", tc.raw, got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("ParseRoles(%q) = %v, want %v", tc.raw, got, tc.want)
				}
			}
		})
	}
}

func TestJoinRolesDeterministic(t *testing.T) {
	t.Parallel()

	if got := JoinRoles([]Role{RoleUser, RoleAdmin}); got != "ADMIN,USER" {
		t.Fatalf("JoinRoles = %q, want ADMIN,USER", got)
	}
	if got := JoinRoles(nil); got != "" {
		t.Fatalf("JoinRoles(nil) = %q, want empty", got)
	}
}

func TestCanMutate(t *testing.T) {
	t.Parallel()

	owner := Principal{ID: 7, Username: "owner", Roles: []Role{RoleUser}}
	admin := Principal{ID: 1, Username: "root", Roles: []Role{RoleAdmin}}
	other := Principal{ID: 9, Username: "other", Roles: []Role{RoleUser}}

	cases := []struct {
		name    string
		p       Principal
		ownerID int64
		want    bool
	}{
		{"owner may mutate own resource", owner, 7, true},
		{"owner may not mutate others", owner, 8, false},
		{"admin may mutate anything", admin, 7, true},
		{"admin may mutate own", admin, 1, true},
		{"other user denied", other, 7, false},
		{"anonymous denied", Principal{}, 7, false},
		{"anonymous denied even for zero owner", Principal{}, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := CanMutate(tc.p, tc.ownerID); got != tc.want {
				t.Fatalf("CanMutate(%+v, %d) = %v, want %v", tc.p, tc.ownerID, got, tc.want)
			}
		})
	}
}

func TestAttachHeadersOmittedForAnonymous(t *testing.T) {
	t.Parallel()

	h := http.Header{}
	AttachHeaders(h, Principal{})
	if _, ok := h[HeaderUserID]; ok {
		t.Fatalf("anonymous principal must not attach %s", HeaderUserID)
	}
	if _, ok := h[HeaderUserRoles]; ok {
		t.Fatalf("anonymous principal must not attach %s", HeaderUserRoles)
	}
}

func TestHeadersRoundTrip(t *testing.T) {
	t.Parallel()

	h := http.Header{}
	AttachHeaders(h, Principal{ID: 42, Username: "alice", Roles: []Role{RoleAdmin, RoleUser}})

	if got := h.Get(HeaderUserID); got != "42" {
		t.Fatalf("user id header = %q, want 42", got)
	}
	if got := h.Get(HeaderUserRoles); got != "ADMIN,USER" {
		t.Fatalf("roles header = %q, want ADMIN,USER", got)
	}

	p := PrincipalFromHeaders(h)
	if p.Anonymous() {
		t.Fatalf("expected non-anonymous principal")
	}
	if p.ID != 42 || !p.IsAdmin() || !p.HasRole(RoleUser) {
		t.Fatalf("reconstructed principal = %+v", p)
	}
}

func TestPrincipalFromHeadersMalformed(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		id    string
		roles string
	}{
		{"missing id", "", "USER"},
		{"non-numeric id", "abc", "USER"},
		{"negative id", "-3", "USER"},
		{"zero id", "0", "USER"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			h := http.Header{}
			if tc.id != "" {
				h.Set(HeaderUserID, tc.id)
			}
			h.Set(HeaderUserRoles, tc.roles)
			if p := PrincipalFromHeaders(h); !p.Anonymous() {
				t.Fatalf("expected anonymous principal, got %+v", p)
			}
		})
	}
}

func TestPrincipalFromHeadersDropsUnknownRoles(t *testing.T) {
	t.Parallel()

	h := http.Header{}
	h.Set(HeaderUserID, "5")
	h.Set(HeaderUserRoles, "USER,WIZARD")
	p := PrincipalFromHeaders(h)
	if p.Anonymous() {
		t.Fatalf("expected non-anonymous principal")
	}
	if p.IsAdmin() || !p.HasRole(RoleUser) || len(p.Roles) != 1 {
		t.Fatalf("unexpected roles: %+v", p.Roles)
	}
}
