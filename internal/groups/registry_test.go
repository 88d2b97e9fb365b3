package groups

import (
	"reflect"
	"testing"
)

func hostProfiles() map[string]map[string]bool {
	return map[string]map[string]bool{
		"user": {"read": true},
		"admin": {
			"read":               true,
			CapabilityUserRights: true,
		},
		"volunteers": {"read": true},
	}
}

func TestSeedMappedGroups(t *testing.T) {
	reg := NewRegistry(hostProfiles())

	reg.SeedMappedGroups([]string{"editors", "admins"})

	if !reg.Seeded() {
		t.Fatal("registry not marked seeded")
	}

	// mapped groups without a profile inherit the baseline
	for _, group := range []string{"editors", "admins"} {
		profile := reg.Profile(group)
		if !profile["read"] {
			t.Errorf("%s profile = %v, want baseline copy", group, profile)
		}
	}

	// manual membership editing is revoked once mapping takes over
	if reg.Profile("admin")[CapabilityUserRights] {
		t.Error("userrights survived seeding")
	}

	// the allow-list covers exactly the unmapped groups
	want := []string{"admin", "user", "volunteers"}
	if got := reg.AddAllowed("admin"); !reflect.DeepEqual(got, want) {
		t.Errorf("AddAllowed = %v, want %v", got, want)
	}

	if got := reg.RemoveAllowed("admin"); !reflect.DeepEqual(got, want) {
		t.Errorf("RemoveAllowed = %v, want %v", got, want)
	}

	// groups that never had userrights get no allow-list
	if got := reg.AddAllowed("user"); len(got) != 0 {
		t.Errorf("AddAllowed(user) = %v, want empty", got)
	}
}

func TestSeedMappedGroupsIdempotent(t *testing.T) {
	reg := NewRegistry(hostProfiles())

	reg.SeedMappedGroups([]string{"editors"})
	first := reg.AddAllowed("admin")

	// a second seeding with a different mapping must be a no-op
	reg.SeedMappedGroups([]string{"editors", "admins", "ghosts"})

	if _, ok := reg.profiles["ghosts"]; ok {
		t.Error("second seeding mutated the registry")
	}

	if got := reg.AddAllowed("admin"); !reflect.DeepEqual(got, first) {
		t.Errorf("allow-list changed on reseed: %v vs %v", got, first)
	}
}

func TestSeedPreservesExistingProfiles(t *testing.T) {
	profiles := hostProfiles()
	profiles["editors"] = map[string]bool{"publish": true}

	reg := NewRegistry(profiles)
	reg.SeedMappedGroups([]string{"editors"})

	profile := reg.Profile("editors")
	if !profile["publish"] {
		t.Errorf("existing profile overwritten: %v", profile)
	}
}

func TestRegistryCopiesInput(t *testing.T) {
	profiles := hostProfiles()
	reg := NewRegistry(profiles)

	profiles["admin"]["read"] = false

	if !reg.Profile("admin")["read"] {
		t.Error("registry aliases the caller's map")
	}

	got := reg.Profile("admin")
	got["read"] = false

	if !reg.Profile("admin")["read"] {
		t.Error("Profile returns an aliased map")
	}
}
