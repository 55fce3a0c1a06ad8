package querycache

import (
	"encoding/json"
	"strings"
)

// Key identifies a cached query, e.g. Key{"cart"} or Key{"product", "p1"}.
type Key []string

// String returns an unambiguous encoding of k used as the map key.
func (k Key) String() string {
	data, err := json.Marshal([]string(k))
	if err != nil {
		// Marshalling a []string cannot fail
		return strings.Join(k, "\x00")
	}

	return string(data)
}

// HasPrefix reports whether prefix matches the leading tokens of k.
// An empty prefix matches every key.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i, token := range prefix {
		if k[i] != token {
			return false
		}
	}

	return true
}
