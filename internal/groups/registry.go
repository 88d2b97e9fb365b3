package groups

import (
	"sort"
	"sync"
)

const (
	// CapabilityUserRights is the self-service manual group-editing
	// capability revoked from every profile once directory mapping
	// takes over group management.
	CapabilityUserRights = "userrights"

	// baselineProfile is the profile newly mapped groups are seeded
	// from.
	baselineProfile = "user"
)

// Registry is the process-wide permission registry. Directory-mapped
// local groups are seeded into it exactly once per process lifetime, at
// configuration-normalization time; afterwards the registry is
// read-mostly shared state.
type Registry struct {
	mu     sync.Mutex
	seeded bool

	profiles    map[string]map[string]bool
	addAllow    map[string][]string
	removeAllow map[string][]string
}

// NewRegistry creates a Registry over the host's existing permission
// profiles (group name -> capability -> allowed). The profiles map is
// copied; the caller keeps ownership of its argument.
func NewRegistry(profiles map[string]map[string]bool) *Registry {
	copied := make(map[string]map[string]bool, len(profiles))
	for group, caps := range profiles {
		copied[group] = cloneProfile(caps)
	}

	return &Registry{
		profiles:    copied,
		addAllow:    make(map[string][]string),
		removeAllow: make(map[string][]string),
	}
}

// SeedMappedGroups registers the directory-mapped local groups:
// any mapped group without an existing profile is seeded from the
// baseline "user" profile, and every group that could previously edit
// group membership by hand has that capability revoked and replaced by
// an explicit add/remove allow-list covering only the unmapped groups.
//
// The mutation is idempotent and guarded: repeated calls within one
// process lifetime are no-ops.
func (r *Registry) SeedMappedGroups(mapped []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.seeded {
		return
	}

	r.seeded = true

	baseline := cloneProfile(r.profiles[baselineProfile])

	mappedSet := make(map[string]bool, len(mapped))

	for _, group := range mapped {
		mappedSet[group] = true

		if _, ok := r.profiles[group]; !ok {
			r.profiles[group] = cloneProfile(baseline)
		}
	}

	// The complement of the mapped groups stays hand-editable.
	unmapped := make([]string, 0, len(r.profiles))

	for group := range r.profiles {
		if !mappedSet[group] {
			unmapped = append(unmapped, group)
		}
	}

	sort.Strings(unmapped)

	for group, caps := range r.profiles {
		if !caps[CapabilityUserRights] {
			continue
		}

		caps[CapabilityUserRights] = false

		if _, ok := r.addAllow[group]; !ok {
			r.addAllow[group] = append([]string(nil), unmapped...)
		}

		if _, ok := r.removeAllow[group]; !ok {
			r.removeAllow[group] = append([]string(nil), unmapped...)
		}
	}
}

// Seeded reports whether the one-time seeding already ran.
func (r *Registry) Seeded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.seeded
}

// Profile returns a copy of a group's capability profile.
func (r *Registry) Profile(group string) map[string]bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return cloneProfile(r.profiles[group])
}

// AddAllowed returns the groups a member of group may add others to.
func (r *Registry) AddAllowed(group string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.addAllow[group]...)
}

// RemoveAllowed returns the groups a member of group may remove others
// from.
func (r *Registry) RemoveAllowed(group string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.removeAllow[group]...)
}

func cloneProfile(caps map[string]bool) map[string]bool {
	out := make(map[string]bool, len(caps))
	for capability, allowed := range caps {
		out[capability] = allowed
	}

	return out
}
