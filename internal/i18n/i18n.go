// Package i18n renders localized messages from a static catalog.
//
// Message text uses $name placeholders which are substituted from the
// parameter map at render time. Unknown keys render as the key itself so
// a missing catalog entry never hides an error from the operator.
package i18n

import (
	"os"
)

// Localizer renders a message key with parameters into display text.
type Localizer interface {
	Render(key string, params map[string]string) string
}

// Catalog is a Localizer over a key -> template map.
type Catalog struct {
	messages map[string]string
}

// NewCatalog creates a Catalog for the built-in english messages.
func NewCatalog() *Catalog {
	return &Catalog{messages: english}
}

// NewCatalogWithMessages creates a Catalog over a caller supplied message map.
// Keys missing from the map fall back to the built-in english messages.
func NewCatalogWithMessages(messages map[string]string) *Catalog {
	merged := make(map[string]string, len(english)+len(messages))

	for k, v := range english {
		merged[k] = v
	}

	for k, v := range messages {
		merged[k] = v
	}

	return &Catalog{messages: merged}
}

// Render substitutes params into the message template for key.
func (c *Catalog) Render(key string, params map[string]string) string {
	tmpl, ok := c.messages[key]
	if !ok {
		return key
	}

	if len(params) == 0 {
		return tmpl
	}

	return os.Expand(tmpl, func(name string) string {
		if v, ok := params[name]; ok {
			return v
		}

		// leave unknown placeholders visible
		return "$" + name
	})
}

// HasKey reports whether the catalog defines the given message key.
func (c *Catalog) HasKey(key string) bool {
	_, ok := c.messages[key]
	return ok
}

// Keys returns all defined message keys, unsorted.
func (c *Catalog) Keys() []string {
	keys := make([]string, 0, len(c.messages))
	for k := range c.messages {
		keys = append(keys, k)
	}

	return keys
}
