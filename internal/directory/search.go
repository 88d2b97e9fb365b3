package directory

import (
	"strings"

	"github.com/go-ldap/ldap/v3"
	"github.com/rs/zerolog/log"
)

// loginAttributes is the attribute set of the primary login lookup.
var loginAttributes = []string{ //nolint:gochecknoglobals
	"sAMAccountName",
	"givenName",
	"sn",
	"displayName",
	"mail",
}

// wildcardAttributes requests every attribute, including memberOf.
var wildcardAttributes = []string{"*"} //nolint:gochecknoglobals

// BuildLoginFilter substitutes the username into the domain's search
// filter template, escaping filter metacharacters.
func BuildLoginFilter(cfg *DomainConfig, username string) string {
	return strings.ReplaceAll(cfg.SearchFilter, "{username}", ldap.EscapeFilter(username))
}

// EmailFilter builds the group-sync lookup filter for an email address.
func EmailFilter(email string) string {
	return "(mail=" + ldap.EscapeFilter(email) + ")"
}

// Searcher executes scoped, filtered lookups against a directory
// session and returns the matching entries.
type Searcher struct {
	localize Localizer
}

// NewSearcher creates a Searcher.
func NewSearcher(localize Localizer) *Searcher {
	return &Searcher{localize: localize}
}

// Search runs filter against the domain's search base with its
// configured scope, requesting the given attributes. A domain without a
// search base is a configuration defect: the resulting error is hard
// and never subject to the local fallback policy.
func (s *Searcher) Search(sess *Session, cfg *DomainConfig, domain, filter string, attributes []string) ([]*ldap.Entry, error) {
	if cfg.BaseDN == "" {
		params := map[string]string{"domain": domain}
		log.Error().Msg(s.localize.Render("ldapauth-no-base", params))

		return nil, newError(KindSearchBaseMissing, "ldapauth-no-base", params)
	}

	scope := ldap.ScopeSingleLevel
	if cfg.SearchScope == ScopeSubtree {
		scope = ldap.ScopeWholeSubtree
	}

	req := ldap.NewSearchRequest(
		cfg.BaseDN,
		scope,
		ldap.NeverDerefAliases,
		0, // no size limit
		0, // no time limit
		false,
		filter,
		attributes,
		nil,
	)

	res, err := sess.Conn.Search(req)
	if err != nil {
		return nil, wrapError(KindConnectivity, "error-unknown",
			map[string]string{"domain": domain}, err)
	}

	return res.Entries, nil
}
