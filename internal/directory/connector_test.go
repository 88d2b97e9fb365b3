package directory

import (
	"errors"
	"testing"

	"github.com/go-ldap/ldap/v3"
)

// keyLocalizer renders every message as its key, which keeps the
// assertions independent of catalog wording.
type keyLocalizer struct{}

func (keyLocalizer) Render(key string, _ map[string]string) string {
	return key
}

// fakeConn scripts the behavior of a single directory connection.
type fakeConn struct {
	bindErr     map[string]error
	anonErr     error
	searchRes   *ldap.SearchResult
	searchErr   error
	lastRequest *ldap.SearchRequest
	binds       []string
	closed      bool
}

func (c *fakeConn) Bind(username, _ string) error {
	c.binds = append(c.binds, username)
	return c.bindErr[username]
}

func (c *fakeConn) UnauthenticatedBind(_ string) error {
	return c.anonErr
}

func (c *fakeConn) Search(req *ldap.SearchRequest) (*ldap.SearchResult, error) {
	c.lastRequest = req

	if c.searchErr != nil {
		return nil, c.searchErr
	}

	if c.searchRes != nil {
		return c.searchRes, nil
	}

	return &ldap.SearchResult{}, nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

// fakeDialer maps server names to scripted connections. Servers absent
// from the map are unreachable.
func fakeDialer(conns map[string]*fakeConn) DialFunc {
	return func(_ *DomainConfig, server string) (Conn, error) {
		conn, ok := conns[server]
		if !ok {
			return nil, errors.New("connection refused")
		}

		return conn, nil
	}
}

func TestConnectPicksFirstHealthyServer(t *testing.T) {
	cfg := &DomainConfig{
		Domain:  "CORP",
		Servers: []string{"dead1", "", "alive", "alive2"},
	}

	conns := map[string]*fakeConn{
		"alive":  {},
		"alive2": {},
	}

	connector := NewConnector(keyLocalizer{}, fakeDialer(conns))

	sess, err := connector.Connect(cfg, "CORP")
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	if sess.Server != "alive" {
		t.Errorf("server = %q, want alive", sess.Server)
	}
}

func TestConnectServiceBindUsesConfiguredDN(t *testing.T) {
	cfg := &DomainConfig{
		Domain:       "CORP",
		Servers:      []string{"srv"},
		BindDN:       "cn=svc,dc=example",
		BindPassword: "hunter2",
	}

	conn := &fakeConn{}
	connector := NewConnector(keyLocalizer{}, fakeDialer(map[string]*fakeConn{"srv": conn}))

	if _, err := connector.Connect(cfg, "CORP"); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	if len(conn.binds) != 1 || conn.binds[0] != "cn=svc,dc=example" {
		t.Errorf("binds = %v", conn.binds)
	}
}

func TestConnectExhaustionClassification(t *testing.T) {
	bindRejected := errors.New("invalid credentials")

	testCases := []struct {
		name    string
		cfg     *DomainConfig
		conns   map[string]*fakeConn
		wantKey string
	}{
		{
			name:    "nothing reachable",
			cfg:     &DomainConfig{Domain: "CORP", Servers: []string{"dead1", "dead2"}},
			conns:   nil,
			wantKey: "ldapauth-no-connect",
		},
		{
			name: "anonymous bind rejected",
			cfg:  &DomainConfig{Domain: "CORP", Servers: []string{"srv"}},
			conns: map[string]*fakeConn{
				"srv": {anonErr: bindRejected},
			},
			wantKey: "ldapauth-no-bind-search",
		},
		{
			name: "service bind rejected",
			cfg: &DomainConfig{
				Domain:  "CORP",
				Servers: []string{"srv"},
				BindDN:  "cn=svc,dc=example",
			},
			conns: map[string]*fakeConn{
				"srv": {bindErr: map[string]error{"cn=svc,dc=example": bindRejected}},
			},
			wantKey: "ldapauth-no-bind-dn-search",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			connector := NewConnector(keyLocalizer{}, fakeDialer(tc.conns))

			_, err := connector.Connect(tc.cfg, "CORP")
			if !IsKind(err, KindConnectivity) {
				t.Fatalf("err = %v, want connectivity", err)
			}

			var derr *Error
			errors.As(err, &derr)

			if derr.Key != tc.wantKey {
				t.Errorf("key = %q, want %q", derr.Key, tc.wantKey)
			}
		})
	}
}

func TestConnectClosesConnectionAfterFailedBind(t *testing.T) {
	conn := &fakeConn{anonErr: errors.New("rejected")}
	connector := NewConnector(keyLocalizer{}, fakeDialer(map[string]*fakeConn{"srv": conn}))

	_, err := connector.Connect(&DomainConfig{Domain: "CORP", Servers: []string{"srv"}}, "CORP")
	if err == nil {
		t.Fatal("expected error")
	}

	if !conn.closed {
		t.Error("connection left open after failed bind")
	}
}

func TestValidateCredentials(t *testing.T) {
	conn := &fakeConn{
		bindErr: map[string]error{"mallory@CORP": errors.New("invalid credentials")},
	}

	sess := &Session{Conn: conn, Server: "srv", Encryption: EncryptionNone}
	cfg := &DomainConfig{Domain: "CORP"}
	connector := NewConnector(keyLocalizer{}, nil)

	if err := connector.ValidateCredentials(sess, cfg, "CORP", "alice", "pw"); err != nil {
		t.Fatalf("valid credentials rejected: %v", err)
	}

	if conn.binds[len(conn.binds)-1] != "alice@CORP" {
		t.Errorf("bound as %q, want alice@CORP", conn.binds[len(conn.binds)-1])
	}

	err := connector.ValidateCredentials(sess, cfg, "CORP", "mallory", "pw")
	if !IsKind(err, KindCredential) {
		t.Fatalf("err = %v, want credential", err)
	}

	var derr *Error
	errors.As(err, &derr)

	if derr.Key != "wrongpassword" {
		t.Errorf("key = %q, want wrongpassword", derr.Key)
	}

	if derr.Params["enc"] != "ldap" {
		t.Errorf("enc param = %q, want ldap", derr.Params["enc"])
	}
}
