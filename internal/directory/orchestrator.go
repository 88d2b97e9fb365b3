package directory

import (
	"errors"
	"sort"

	"github.com/rs/zerolog/log"
)

// Orchestrator is the top-level authentication state machine. It
// sequences connector, credential validation and search, and owns the
// pass/fail/abstain decision including the local fallback policy.
type Orchestrator struct {
	configs   map[string]*DomainConfig
	connector *Connector
	searcher  *Searcher
	store     IdentityStore
	localize  Localizer
}

// NewOrchestrator creates an Orchestrator over the normalized domain
// table.
func NewOrchestrator(
	configs map[string]*DomainConfig,
	connector *Connector,
	searcher *Searcher,
	store IdentityStore,
	localize Localizer,
) *Orchestrator {
	return &Orchestrator{
		configs:   configs,
		connector: connector,
		searcher:  searcher,
		store:     store,
		localize:  localize,
	}
}

// Login runs one authentication attempt through the pipeline:
// connect, verify credentials, locate the user in the search base,
// then extract the session attributes into the response for the caller
// to carry through the post-authentication steps.
//
// Soft failures (connectivity, credentials, user outside the search
// base) abstain when the domain permits local fallback and fail with a
// localized message otherwise. A missing search base is a configuration
// defect and fails regardless of the fallback flag.
func (o *Orchestrator) Login(req *AuthenticationRequest) Response {
	if req.Action != ActionLogin {
		return Response{Status: StatusAbstain}
	}

	cfg, ok := o.configs[req.Domain]
	if !ok {
		// not one of our domains, some other provider may handle it
		log.Debug().Str("domain", req.Domain).Msg("unknown authentication domain")

		return Response{Status: StatusAbstain}
	}

	sess, err := o.connector.Connect(cfg, req.Domain)
	if err != nil {
		return o.resolve(cfg, err)
	}

	defer sess.Close()

	if err = o.connector.ValidateCredentials(sess, cfg, req.Domain, req.Username, req.Password); err != nil {
		return o.resolve(cfg, err)
	}

	filter := BuildLoginFilter(cfg, req.Username)

	entries, err := o.searcher.Search(sess, cfg, req.Domain, filter, loginAttributes)
	if err != nil {
		return o.resolve(cfg, err)
	}

	if len(entries) == 0 {
		// The user is outside the search base - equivalent to a
		// forbidden login - however the password has already been
		// verified, so this must not read as incorrect credentials.
		return o.resolve(cfg, newError(KindNotInSearchBase, "password-login-forbidden", nil))
	}

	entry := entries[0]
	account := entry.GetAttributeValue("sAMAccountName")

	attrs := SessionAttributes{
		SessionKeyUsername:    account,
		SessionKeyDisplayName: entry.GetAttributeValue("displayName"),
		SessionKeyFirstName:   entry.GetAttributeValue("givenName"),
		SessionKeyLastName:    entry.GetAttributeValue("sn"),
		SessionKeyEmail:       entry.GetAttributeValue("mail"),
		SessionKeyDomain:      req.Domain,
	}

	return Response{Status: StatusPass, Username: account, Attributes: attrs}
}

// resolve turns a pipeline failure into the terminal response. Soft
// failures consult the domain's fallback flag; hard failures always
// fail with the localized message.
func (o *Orchestrator) resolve(cfg *DomainConfig, err error) Response {
	var derr *Error
	if !errors.As(err, &derr) {
		derr = wrapError(KindConnectivity, "error-unknown", nil, err)
	}

	if derr.Soft() && cfg.UseLocal {
		return Response{Status: StatusAbstain}
	}

	return Response{
		Status:  StatusFail,
		Message: o.localize.Render(derr.Key, derr.Params),
	}
}

// PostAuthentication runs after a PASS decision. It persists the
// directory profile carried in the request's session attributes and
// hands off group reconciliation. Reconciliation failures are logged
// and swallowed: they never reverse a completed authentication. The
// return value reports whether the local account was just created.
func (o *Orchestrator) PostAuthentication(attrs SessionAttributes, sync GroupSyncer) bool {
	user := User{
		Name:        attrs[SessionKeyUsername],
		DisplayName: attrs[SessionKeyDisplayName],
		Email:       attrs[SessionKeyEmail],
		Domain:      attrs[SessionKeyDomain],
	}

	created, err := o.store.PersistUser(Profile{
		Username:    user.Name,
		DisplayName: user.DisplayName,
		Email:       user.Email,
	})
	if err != nil {
		log.Error().Err(err).Str("user", user.Name).Msg("failed to persist directory profile")

		return false
	}

	if sync != nil {
		if err := sync.Sync(user); err != nil {
			log.Warn().Err(err).Str("user", user.Name).Msg("group reconciliation aborted")
		}
	}

	return created
}

// TestUserExists reports whether the named user exists for reservation
// purposes. The directory provider never reserves names.
func (o *Orchestrator) TestUserExists(_ string) bool {
	return false
}

// AllowsPropertyChange reports whether a user property may be changed
// through this provider.
func (o *Orchestrator) AllowsPropertyChange(_ string) bool {
	return false
}

// ChangeAuthenticationData handles credential-change requests. Only the
// remove action is supported: it deletes the user's originating-domain
// record. Everything else is an explicit unsupported failure.
func (o *Orchestrator) ChangeAuthenticationData(req *AuthenticationRequest) error {
	if req.Action != ActionRemove {
		return newError(KindUnsupported, "ldapauth-not-supported", nil)
	}

	if err := o.store.DeleteUserDomain(req.Username); err != nil {
		return wrapError(KindUnsupported, "ldapauth-not-supported",
			map[string]string{"user": req.Username}, err)
	}

	return nil
}

// TestUserForCreation checks whether an account may be auto-created by
// re-running the connect/search pipeline read-only across every domain.
func (o *Orchestrator) TestUserForCreation(username string) error {
	domains := make([]string, 0, len(o.configs))
	for domain := range o.configs {
		domains = append(domains, domain)
	}

	sort.Strings(domains)

	for _, domain := range domains {
		cfg := o.configs[domain]

		sess, err := o.connector.Connect(cfg, domain)
		if err != nil {
			continue
		}

		entries, err := o.searcher.Search(sess, cfg, domain, BuildLoginFilter(cfg, username), loginAttributes)

		sess.Close()

		if err != nil {
			continue
		}

		if len(entries) > 0 {
			return nil
		}
	}

	return newError(KindUnsupported, "ldapauth-create-not-allowed",
		map[string]string{"user": username})
}

// AutoCreatedAccount records the originating domain for a just
// auto-created user. This is the only durable state the directory core
// itself owns.
func (o *Orchestrator) AutoCreatedAccount(attrs SessionAttributes) error {
	return o.store.SetUserDomain(attrs[SessionKeyUsername], attrs[SessionKeyDomain]) //nolint:wrapcheck
}
