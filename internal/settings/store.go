// SPDX-License-Identifier: MPL-2.0

package settings

import "errors"

// ErrUnsupportedValue is returned by Set when value cannot be persisted.
var ErrUnsupportedValue = errors.New("unsupported settings value")

// Store is a persistent key/value map. Implementations must be safe for
// concurrent use.
type Store interface {
	// Get returns the value stored under key, or def when the key is absent.
	Get(key string, def any) any
	// Set stores value under key and persists it.
	Set(key string, value any) error
}

// StringList reads key as a list of strings. Values decoded from disk arrive
// as []any, so both shapes are accepted; anything else yields nil.
func StringList(s Store, key string) []string {
	switch v := s.Get(key, nil).(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	default:
		return nil
	}
}

// SetStringList stores a copy of values under key.
func SetStringList(s Store, key string, values []string) error {
	out := make([]string, len(values))
	copy(out, values)
	return s.Set(key, out)
}
