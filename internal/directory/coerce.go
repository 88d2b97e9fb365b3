package directory

import (
	"strings"
)

// listSeparators splits scalar list settings on whitespace and commas.
func splitList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == ','
	})

	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}

	return out
}

// toDomainMap copies a per-domain settings table into a map[string]any.
// Returns false if the value is not a table at all (i.e. a scalar).
func toDomainMap(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[k] = val
		}

		return out, true
	case map[string]string:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[k] = val
		}

		return out, true
	case map[string][]string:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[k] = val
		}

		return out, true
	case map[string]bool:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[k] = val
		}

		return out, true
	default:
		return nil, false
	}
}

// toStringList coerces a scalar or decoded list into []string. A scalar
// string is split on whitespace/comma.
func toStringList(value any) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return v, true
	case string:
		return splitList(v), true
	case []any:
		out := make([]string, 0, len(v))

		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}

			out = append(out, s)
		}

		return out, true
	default:
		return nil, false
	}
}

// toOptionalString coerces an optional string setting. Unset values
// (nil or false) become the empty string.
func toOptionalString(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", true
	case bool:
		if v {
			return "", false
		}

		return "", true
	case string:
		return v, true
	default:
		return "", false
	}
}

// toBool coerces a boolean setting.
func toBool(value any) (bool, bool) {
	v, ok := value.(bool)
	return v, ok
}

// toSeconds coerces a numeric TTL setting, in seconds.
func toSeconds(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

// toGroupIDList coerces one local group's directory identifiers. A
// scalar string is a single identifier: distinguished names contain
// commas, so list splitting would corrupt them.
func toGroupIDList(value any) ([]string, bool) {
	if s, ok := value.(string); ok {
		return []string{s}, true
	}

	return toStringList(value)
}

// toGroupMap coerces one domain's group mapping into local group name ->
// directory group identifiers. Identifiers are canonicalized to lower
// case here, at the ingestion boundary, so downstream comparisons are
// ordinary exact-set operations.
func toGroupMap(value any) (map[string][]string, bool) {
	raw, ok := toDomainMap(value)
	if !ok {
		return nil, false
	}

	out := make(map[string][]string, len(raw))

	for group, ids := range raw {
		list, ok := toGroupIDList(ids)
		if !ok {
			return nil, false
		}

		lowered := make([]string, len(list))
		for i, id := range list {
			lowered[i] = strings.ToLower(id)
		}

		out[group] = lowered
	}

	return out, true
}
