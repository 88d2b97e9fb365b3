package directory

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// normalizeFunc turns one raw setting value into a complete per-domain
// table.
type normalizeFunc func(value, def any, domains []string) (map[string]any, error)

// Resolver normalizes raw directory settings into complete per-domain
// configuration records. Normalization runs once at startup; the result
// is read-only and shared by every component afterwards.
type Resolver struct {
	validate *validator.Validate
	registry RoleRegistry

	seedOnce sync.Once
}

// NewResolver creates a Resolver. The registry may be nil when the host
// does not manage permissions.
func NewResolver(registry RoleRegistry) *Resolver {
	return &Resolver{
		validate: validator.New(),
		registry: registry,
	}
}

// Normalize builds one fully populated DomainConfig per declared domain.
// Setting-specific normalizers are looked up in an explicit table; the
// general normalizer broadcasts scalar defaults to every domain not
// already configured. Normalize is idempotent: re-running it on an
// already complete, already valid settings table yields the same result.
//
// On success the set of directory-mapped local group names is seeded
// into the role registry, exactly once per process lifetime.
func (r *Resolver) Normalize(store ConfigStore) (map[string]*DomainConfig, error) {
	raw := make(map[string]any, len(settingDefaults))

	for name, def := range settingDefaults {
		if v, ok := store.Get(name); ok {
			raw[name] = v
		} else {
			raw[name] = def
		}
	}

	domains, ok := toStringList(raw[SettingDomainNames])
	if !ok {
		return nil, newError(KindConfigValidation, "error-unknown",
			map[string]string{"setting": SettingDomainNames})
	}

	if len(domains) == 0 {
		return nil, newError(KindConfigValidation, "error-unknown",
			map[string]string{"setting": SettingDomainNames})
	}

	// Setting-specific normalizers; anything absent here uses the
	// general broadcast normalizer.
	specific := map[string]normalizeFunc{
		SettingServers:        normalizeServers,
		SettingEncryptionType: normalizeEncryptionType,
		SettingMapGroups:      normalizeMapGroups,
	}

	normalized := make(map[string]map[string]any, len(settingDefaults))

	for name, def := range settingDefaults {
		if name == SettingDomainNames {
			continue
		}

		fn, ok := specific[name]
		if !ok {
			fn = normalizeGeneral
		}

		table, err := fn(raw[name], def, domains)
		if err != nil {
			return nil, err
		}

		normalized[name] = table
	}

	configs := make(map[string]*DomainConfig, len(domains))

	for _, domain := range domains {
		cfg, err := r.assemble(domain, normalized)
		if err != nil {
			return nil, err
		}

		configs[domain] = cfg
	}

	if r.registry != nil {
		r.seedOnce.Do(func() {
			r.registry.SeedMappedGroups(mappedGroupNames(configs))
		})
	}

	return configs, nil
}

// assemble builds and validates one domain's record from the normalized
// setting tables.
func (r *Resolver) assemble(domain string, normalized map[string]map[string]any) (*DomainConfig, error) {
	fail := func(setting string) *Error {
		return newError(KindConfigValidation, "error-unknown",
			map[string]string{"domain": domain, "setting": setting})
	}

	servers, ok := toStringList(normalized[SettingServers][domain])
	if !ok {
		return nil, fail(SettingServers)
	}

	bindDN, ok := toOptionalString(normalized[SettingBindDN][domain])
	if !ok {
		return nil, fail(SettingBindDN)
	}

	bindPass, ok := toOptionalString(normalized[SettingBindPass][domain])
	if !ok {
		return nil, fail(SettingBindPass)
	}

	baseDN, ok := toOptionalString(normalized[SettingBaseDN][domain])
	if !ok {
		return nil, fail(SettingBaseDN)
	}

	filter, ok := toOptionalString(normalized[SettingSearchFilter][domain])
	if !ok {
		return nil, fail(SettingSearchFilter)
	}

	searchTree, ok := toBool(normalized[SettingSearchTree][domain])
	if !ok {
		return nil, fail(SettingSearchTree)
	}

	useLocal, ok := toBool(normalized[SettingUseLocal][domain])
	if !ok {
		return nil, fail(SettingUseLocal)
	}

	isAD, ok := toBool(normalized[SettingIsActiveDirectory][domain])
	if !ok {
		return nil, fail(SettingIsActiveDirectory)
	}

	ttl, ok := toSeconds(normalized[SettingCacheGroupMap][domain])
	if !ok {
		return nil, fail(SettingCacheGroupMap)
	}

	groupMap, ok := toGroupMap(normalized[SettingMapGroups][domain])
	if !ok {
		return nil, fail(SettingMapGroups)
	}

	scope := ScopeOneLevel
	if searchTree {
		scope = ScopeSubtree
	}

	enc, _ := toOptionalString(normalized[SettingEncryptionType][domain])

	cfg := &DomainConfig{
		Domain:            domain,
		Servers:           servers,
		BindDN:            bindDN,
		BindPassword:      bindPass,
		BaseDN:            baseDN,
		SearchFilter:      filter,
		SearchScope:       scope,
		Encryption:        Encryption(enc),
		UseLocal:          useLocal,
		IsActiveDirectory: isAD,
		CacheTTL:          time.Duration(ttl) * time.Second,
		GroupMap:          groupMap,
	}

	if err := r.validate.Struct(cfg); err != nil {
		return nil, wrapError(KindConfigValidation, "error-unknown",
			map[string]string{"domain": domain}, err)
	}

	return cfg, nil
}

// normalizeGeneral broadcasts a scalar default to every domain not
// already present as a key.
func normalizeGeneral(value, def any, domains []string) (map[string]any, error) {
	return populateDomainValues(value, def, domains), nil
}

// normalizeServers broadcasts like the general normalizer, then splits
// each domain's value into an ordered server list.
func normalizeServers(value, def any, domains []string) (map[string]any, error) {
	table := populateDomainValues(value, def, domains)

	for domain, v := range table {
		// unset stays unset: a domain without servers fails validation
		if b, ok := v.(bool); ok && !b {
			table[domain] = []string{}
			continue
		}

		list, ok := toStringList(v)
		if !ok {
			return nil, newError(KindConfigValidation, "error-unknown",
				map[string]string{"domain": domain, "setting": SettingServers})
		}

		table[domain] = list
	}

	return table, nil
}

// normalizeEncryptionType broadcasts like the general normalizer, maps
// unset values to "none" and rejects anything outside the enumerated
// encryption types.
func normalizeEncryptionType(value, def any, domains []string) (map[string]any, error) {
	table := populateDomainValues(value, def, domains)

	for domain, v := range table {
		s, ok := toOptionalString(v)
		if !ok {
			return nil, invalidEncryption(domain, v)
		}

		if s == "" {
			table[domain] = string(EncryptionNone)
			continue
		}

		switch Encryption(s) {
		case EncryptionNone, EncryptionSSL, EncryptionTLS:
			table[domain] = s
		default:
			return nil, invalidEncryption(domain, v)
		}
	}

	return table, nil
}

func invalidEncryption(domain string, value any) *Error {
	return newError(KindConfigValidation, "error-unknown", map[string]string{
		"domain":  domain,
		"setting": SettingEncryptionType,
		"value":   fmt.Sprintf("%v", value),
	})
}

// normalizeMapGroups leaves a table alone when its keys already cover
// the full domain list. Otherwise the original value is broadcast as the
// default to every missing domain. Keys that are not declared domains
// are pruned in either case.
func normalizeMapGroups(value, _ any, domains []string) (map[string]any, error) {
	table, ok := toDomainMap(value)
	if !ok {
		return nil, newError(KindConfigValidation, "error-unknown",
			map[string]string{"setting": SettingMapGroups})
	}

	declared := make(map[string]bool, len(domains))
	for _, d := range domains {
		declared[d] = true
	}

	complete := true

	for _, d := range domains {
		if _, ok := table[d]; !ok {
			complete = false
			break
		}
	}

	if !complete {
		table = populateDomainValues(table, value, domains)
	}

	// Remove non-domain keys.
	for key := range table {
		if !declared[key] {
			delete(table, key)
		}
	}

	return table, nil
}

// populateDomainValues transforms a setting value into a per-domain
// table. A scalar value becomes the default for every domain; a table
// keeps its entries and missing domains receive the default.
func populateDomainValues(value, def any, domains []string) map[string]any {
	table, ok := toDomainMap(value)
	if !ok {
		def = value
		table = make(map[string]any, len(domains))
	}

	for _, domain := range domains {
		if _, ok := table[domain]; ok {
			continue
		}

		table[domain] = def
	}

	return table
}

// mappedGroupNames collects the union of directory-mapped local group
// names across all domains, sorted for deterministic seeding.
func mappedGroupNames(configs map[string]*DomainConfig) []string {
	seen := make(map[string]bool)

	for _, cfg := range configs {
		for group := range cfg.GroupMap {
			seen[group] = true
		}
	}

	names := make([]string, 0, len(seen))
	for group := range seen {
		names = append(names, group)
	}

	sort.Strings(names)

	return names
}
