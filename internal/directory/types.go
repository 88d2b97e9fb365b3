package directory

import (
	"time"
)

// Scope is the breadth of a directory search.
type Scope string

const (
	// ScopeSubtree searches the base entry and all of its descendants.
	ScopeSubtree Scope = "subtree"
	// ScopeOneLevel searches only the immediate children of the base entry.
	ScopeOneLevel Scope = "one-level"
)

// Encryption is the transport encryption used towards a directory server.
type Encryption string

const (
	// EncryptionNone connects over plain LDAP.
	EncryptionNone Encryption = "none"
	// EncryptionSSL connects over LDAPS.
	EncryptionSSL Encryption = "ssl"
	// EncryptionTLS connects over plain LDAP and upgrades with StartTLS.
	EncryptionTLS Encryption = "tls"
)

// DomainConfig is the complete, normalized configuration of one
// authentication domain. Records are built once at startup by the
// Resolver and are read-only afterwards.
type DomainConfig struct {
	// Domain is the realm name this record belongs to.
	Domain string `validate:"required"`
	// Servers is the ordered server fallback list. Blank entries are
	// disabled and skipped.
	Servers []string `validate:"required,min=1"`
	// BindDN is the service account used for searching. Empty means
	// anonymous bind.
	BindDN string
	// BindPassword is the password for BindDN.
	BindPassword string
	// BaseDN is the search base. A domain without one cannot perform
	// lookups; searching it is a hard configuration error.
	BaseDN string
	// SearchFilter is the login lookup filter with a {username}
	// placeholder.
	SearchFilter string `validate:"required"`
	// SearchScope selects subtree or one-level searches.
	SearchScope Scope `validate:"oneof=subtree one-level"`
	// Encryption selects the transport encryption.
	Encryption Encryption `validate:"oneof=none ssl tls"`
	// UseLocal permits falling back to local authentication when the
	// directory path is unavailable or rejects the user.
	UseLocal bool
	// IsActiveDirectory flags domains requiring nested group chain
	// resolution (not supported).
	IsActiveDirectory bool
	// CacheTTL bounds the age of cached group-membership lookups.
	CacheTTL time.Duration
	// GroupMap maps local group names to directory group identifiers.
	// Identifiers are canonicalized to lower case at ingestion.
	GroupMap map[string][]string
}

// Action is the operation an authentication request asks for.
type Action string

const (
	// ActionLogin is a primary login attempt.
	ActionLogin Action = "login"
	// ActionLink links an existing local account to a directory account.
	ActionLink Action = "link"
	// ActionCreate tests or performs account creation.
	ActionCreate Action = "create"
	// ActionRemove removes the directory credential linkage.
	ActionRemove Action = "remove"
)

// AuthenticationRequest is one immutable login attempt.
type AuthenticationRequest struct {
	Domain   string
	Username string
	Password string
	Action   Action
}

// Status is the terminal outcome of the authentication state machine.
type Status int

const (
	// StatusPass authenticates the user.
	StatusPass Status = iota + 1
	// StatusFail rejects the login attempt.
	StatusFail
	// StatusAbstain defers to another authentication method.
	StatusAbstain
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusFail:
		return "fail"
	case StatusAbstain:
		return "abstain"
	default:
		return "unknown"
	}
}

// Response is the orchestrator's answer to one authentication request.
type Response struct {
	// Status is the terminal state of the machine.
	Status Status
	// Username carries the resolved account name on pass.
	Username string
	// Message carries the localized failure text on fail.
	Message string
	// Attributes carries the extracted session attributes on pass.
	Attributes SessionAttributes
}

// Profile is the subset of directory attributes persisted for a user.
type Profile struct {
	Username    string
	DisplayName string
	Email       string
}

// User identifies a locally known user during group reconciliation.
type User struct {
	Name        string
	DisplayName string
	Email       string
	Domain      string
}

// SessionAttributes is the subset of a directory entry extracted during
// one login. The map belongs to that single request: the orchestrator
// builds it on pass, carries it out in the Response, and the caller
// hands it back for the post-authentication steps. Concurrent requests
// never share one.
type SessionAttributes map[string]string

// Session attribute keys.
const (
	SessionKeyUsername    = "LdapAuthUsername"
	SessionKeyDisplayName = "LdapAuthDisplayName"
	SessionKeyFirstName   = "LdapAuthFirstName"
	SessionKeyLastName    = "LdapAuthLastName"
	SessionKeyEmail       = "LdapAuthEmail"
	SessionKeyDomain      = "LdapAuthDomain"
)

// ConfigStore exposes raw settings, each either a scalar or a
// per-domain table, read-only from the core's perspective.
type ConfigStore interface {
	Get(name string) (any, bool)
}

// IdentityStore is the external identity storage the core hands
// profile updates and group changes to. PersistUser reports whether it
// created the account, so the caller can tell auto-creation apart from
// a returning user.
type IdentityStore interface {
	GetGroups(username string) ([]string, error)
	AddGroup(username, group string) error
	RemoveGroup(username, group string) error
	PersistUser(p Profile) (created bool, err error)
	SetUserDomain(username, domain string) error
	DeleteUserDomain(username string) error
}

// Localizer renders a message key with parameters into display text.
type Localizer interface {
	Render(key string, params map[string]string) string
}

// RoleRegistry is the host's permission registry. Mapped local groups
// are seeded into it exactly once per process lifetime, at
// configuration-normalization time.
type RoleRegistry interface {
	SeedMappedGroups(groups []string)
}

// GroupSyncer reconciles directory group membership with local group
// assignment after a successful authentication.
type GroupSyncer interface {
	Sync(user User) error
}
