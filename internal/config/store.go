package config

// Store exposes the raw [Directory] settings table as a read-only
// setting lookup for configuration normalization.
type Store struct {
	values map[string]any
}

// NewStore creates a setting store over the configuration's directory table.
func NewStore(c *Config) *Store {
	return &Store{values: c.Directory}
}

// Get returns the raw value of a setting and whether it was declared.
func (s *Store) Get(name string) (any, bool) {
	v, ok := s.values[name]
	return v, ok
}
