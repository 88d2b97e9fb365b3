package i18n

import "testing"

func TestRender(t *testing.T) {
	catalog := NewCatalog()

	testCases := []struct {
		name   string
		key    string
		params map[string]string
		want   string
	}{
		{
			name:   "substitutes parameters",
			key:    "ldapauth-no-base",
			params: map[string]string{"domain": "CORP"},
			want:   "No search base is configured for domain CORP.",
		},
		{
			name: "no parameters",
			key:  "ldapauth-bind-success",
			want: "Successfully bound to the directory server.",
		},
		{
			name: "unknown key renders as itself",
			key:  "ldapauth-not-a-key",
			want: "ldapauth-not-a-key",
		},
		{
			name:   "unknown placeholder stays visible",
			key:    "ldapauth-no-base",
			params: map[string]string{"realm": "CORP"},
			want:   "No search base is configured for domain $domain.",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := catalog.Render(tc.key, tc.params); got != tc.want {
				t.Errorf("Render(%q) = %q, want %q", tc.key, got, tc.want)
			}
		})
	}
}

func TestCatalogOverride(t *testing.T) {
	catalog := NewCatalogWithMessages(map[string]string{
		"wrongpassword": "Nope.",
		"extra-key":     "Extra $thing.",
	})

	if got := catalog.Render("wrongpassword", nil); got != "Nope." {
		t.Errorf("override ignored: %q", got)
	}

	if got := catalog.Render("extra-key", map[string]string{"thing": "message"}); got != "Extra message." {
		t.Errorf("added key broken: %q", got)
	}

	// untouched keys fall back to the built-in catalog
	if got := catalog.Render("ldapauth-bind-success", nil); got != "Successfully bound to the directory server." {
		t.Errorf("fallback broken: %q", got)
	}
}

func TestHasKey(t *testing.T) {
	catalog := NewCatalog()

	if !catalog.HasKey("wrongpassword") {
		t.Error("HasKey(wrongpassword) = false")
	}

	if catalog.HasKey("no-such-key") {
		t.Error("HasKey(no-such-key) = true")
	}

	if len(catalog.Keys()) == 0 {
		t.Error("Keys() is empty")
	}
}
