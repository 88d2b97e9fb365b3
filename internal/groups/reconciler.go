package groups

import (
	"sort"
	"strings"
	"time"

	"github.com/go-ldap/ldap/v3"
	"github.com/rs/zerolog/log"

	"github.com/go-ldapauth/go-ldapauth/internal/directory"
)

// memberOfAttribute is the directory attribute listing group membership.
const memberOfAttribute = "memberOf"

// GroupDiff is the set of idempotent membership changes a
// reconciliation computed. Local groups not under management by any
// domain's map never appear here.
type GroupDiff struct {
	ToAdd    []string
	ToRemove []string
}

// Empty reports whether the diff changes nothing.
func (d GroupDiff) Empty() bool {
	return len(d.ToAdd) == 0 && len(d.ToRemove) == 0
}

// Reconciler diffs directory group membership against local group
// assignment and applies the add/remove operations against the
// identity store. It runs strictly after a PASS decision; its failures
// never reverse a completed authentication.
type Reconciler struct {
	configs   map[string]*directory.DomainConfig
	connector *directory.Connector
	searcher  *directory.Searcher
	cache     *directory.SearchCache
	store     directory.IdentityStore
	localize  directory.Localizer
}

// NewReconciler creates a Reconciler over the normalized domain table.
func NewReconciler(
	configs map[string]*directory.DomainConfig,
	connector *directory.Connector,
	searcher *directory.Searcher,
	cache *directory.SearchCache,
	store directory.IdentityStore,
	localize directory.Localizer,
) *Reconciler {
	return &Reconciler{
		configs:   configs,
		connector: connector,
		searcher:  searcher,
		cache:     cache,
		store:     store,
		localize:  localize,
	}
}

// Sync locates the user's directory entry by email, computes the group
// diff for their originating domain and applies it. Missing
// prerequisites (email, domain) abort the sync with a mapping error.
func (r *Reconciler) Sync(user directory.User) error {
	if user.Email == "" {
		params := map[string]string{"user": user.Name}
		log.Warn().Msg(r.localize.Render("noemail", params))

		return mappingError("noemail", params)
	}

	if user.Domain == "" {
		params := map[string]string{"user": user.Name}
		log.Warn().Msg(r.localize.Render("ldapauth-nodomain", params))

		return mappingError("ldapauth-nodomain", params)
	}

	cfg, ok := r.configs[user.Domain]
	if !ok {
		params := map[string]string{"user": user.Name}
		log.Warn().Msg(r.localize.Render("ldapauth-nodomain", params))

		return mappingError("ldapauth-nodomain", params)
	}

	log.Info().Msg(r.localize.Render("ldapauth-fetch-data",
		map[string]string{"user": user.Name}))

	entry, err := r.fetchData(user, cfg)
	if err != nil {
		return err
	}

	// Nested group chains would have to be resolved here for Active
	// Directory domains; surfacing the gap beats silently omitting
	// nested groups.
	if cfg.IsActiveDirectory {
		return &directory.Error{
			Kind: directory.KindUnsupported,
			Key:  "ldapauth-chain-unsupported",
		}
	}

	current, err := r.store.GetGroups(user.Name)
	if err != nil {
		return err //nolint:wrapcheck
	}

	diff := Reconcile(cfg.GroupMap, entry.GetAttributeValues(memberOfAttribute), current)

	return r.apply(user.Name, diff)
}

// fetchData returns the user's directory entry, keyed by email, going
// through the TTL cache so repeated logins do not hammer the directory.
// The connection is only opened on a cache miss.
func (r *Reconciler) fetchData(user directory.User, cfg *directory.DomainConfig) (*ldap.Entry, error) {
	filter := directory.EmailFilter(user.Email)
	key := "ldapauth-groups:" + user.Domain + ":" + filter

	entries, err := r.cache.GetOrCompute(key, cfg.CacheTTL, func() ([]*ldap.Entry, error) {
		sess, err := r.connector.Connect(cfg, user.Domain)
		if err != nil {
			return nil, err
		}

		defer sess.Close()

		start := time.Now()

		found, err := r.searcher.Search(sess, cfg, user.Domain, filter, []string{"*"})
		if err != nil {
			return nil, err
		}

		log.Debug().Msg(r.localize.Render("ldapauth-ran-search", map[string]string{
			"search":  filter,
			"runtime": time.Since(start).String(),
		}))

		return found, nil
	})
	if err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		params := map[string]string{"email": user.Email}
		log.Warn().Msg(r.localize.Render("ldapauth-no-user-by-email", params))

		return nil, mappingError("ldapauth-no-user-by-email", params)
	}

	return entries[0], nil
}

// apply removes then adds, both idempotent against the store. Order
// does not affect the converged state.
func (r *Reconciler) apply(username string, diff GroupDiff) error {
	for _, group := range diff.ToRemove {
		log.Debug().Msg(r.localize.Render("ldapauth-delete-from-group",
			map[string]string{"user": username, "group": group}))

		if err := r.store.RemoveGroup(username, group); err != nil {
			return err //nolint:wrapcheck
		}
	}

	for _, group := range diff.ToAdd {
		log.Debug().Msg(r.localize.Render("ldapauth-add-to-group",
			map[string]string{"user": username, "group": group}))

		if err := r.store.AddGroup(username, group); err != nil {
			return err //nolint:wrapcheck
		}
	}

	return nil
}

// Reconcile computes the symmetric difference between directory-derived
// membership and the current local assignment. A user should hold a
// mapped local group exactly when at least one of its directory
// identifiers appears in their membership attribute. Directory
// identifiers compare case-insensitively; local group names compare
// exactly.
func Reconcile(groupMap map[string][]string, memberOf, current []string) GroupDiff {
	ldapGroups := make(map[string]bool, len(memberOf))
	for _, dn := range memberOf {
		ldapGroups[strings.ToLower(dn)] = true
	}

	currentSet := make(map[string]bool, len(current))
	for _, g := range current {
		currentSet[g] = true
	}

	var diff GroupDiff

	for group, ids := range groupMap {
		shouldHave := false

		for _, id := range ids {
			if ldapGroups[id] {
				shouldHave = true
				break
			}
		}

		switch {
		case shouldHave && !currentSet[group]:
			diff.ToAdd = append(diff.ToAdd, group)
		case !shouldHave && currentSet[group]:
			diff.ToRemove = append(diff.ToRemove, group)
		}
	}

	sort.Strings(diff.ToAdd)
	sort.Strings(diff.ToRemove)

	return diff
}

func mappingError(key string, params map[string]string) *directory.Error {
	return &directory.Error{Kind: directory.KindMapping, Key: key, Params: params}
}
