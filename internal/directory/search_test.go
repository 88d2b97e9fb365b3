package directory

import (
	"testing"

	"github.com/go-ldap/ldap/v3"
)

func TestBuildLoginFilterEscapesUsername(t *testing.T) {
	cfg := &DomainConfig{
		SearchFilter: "(&(objectClass=user)(sAMAccountName={username}))",
	}

	got := BuildLoginFilter(cfg, "jd*oe")
	want := "(&(objectClass=user)(sAMAccountName=jd\\2aoe))"

	if got != want {
		t.Errorf("filter = %q, want %q", got, want)
	}
}

func TestEmailFilter(t *testing.T) {
	got := EmailFilter("a(b)@example.org")
	want := "(mail=a\\28b\\29@example.org)"

	if got != want {
		t.Errorf("filter = %q, want %q", got, want)
	}
}

func TestSearchRequiresBase(t *testing.T) {
	searcher := NewSearcher(keyLocalizer{})
	sess := &Session{Conn: &fakeConn{}, Server: "srv"}

	_, err := searcher.Search(sess, &DomainConfig{}, "CORP", "(mail=x)", wildcardAttributes)
	if !IsKind(err, KindSearchBaseMissing) {
		t.Fatalf("err = %v, want search base missing", err)
	}
}

func TestSearchBuildsScopedRequest(t *testing.T) {
	testCases := []struct {
		name      string
		scope     Scope
		wantScope int
	}{
		{"subtree", ScopeSubtree, ldap.ScopeWholeSubtree},
		{"one level", ScopeOneLevel, ldap.ScopeSingleLevel},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			conn := &fakeConn{searchRes: &ldap.SearchResult{
				Entries: []*ldap.Entry{ldap.NewEntry("cn=alice", nil)},
			}}

			cfg := &DomainConfig{
				BaseDN:      "dc=example",
				SearchScope: tc.scope,
			}

			entries, err := NewSearcher(keyLocalizer{}).Search(
				&Session{Conn: conn, Server: "srv"}, cfg, "CORP", "(mail=x)", loginAttributes)
			if err != nil {
				t.Fatalf("Search failed: %v", err)
			}

			if len(entries) != 1 {
				t.Fatalf("entries = %d, want 1", len(entries))
			}

			req := conn.lastRequest
			if req.BaseDN != "dc=example" {
				t.Errorf("base = %q", req.BaseDN)
			}

			if req.Scope != tc.wantScope {
				t.Errorf("scope = %d, want %d", req.Scope, tc.wantScope)
			}

			if req.Filter != "(mail=x)" {
				t.Errorf("filter = %q", req.Filter)
			}

			if len(req.Attributes) != len(loginAttributes) {
				t.Errorf("attributes = %v", req.Attributes)
			}
		})
	}
}
