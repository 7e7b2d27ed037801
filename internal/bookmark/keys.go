package bookmark

import "strings"

// KeyPrefix namespaces every bookmark key in the store.
const KeyPrefix = "v1:bookmark"

// Key returns the store key for a bookmark id. Distinct ids always give
// distinct keys; no escaping is applied.
func Key(id string) string {
	return KeyPrefix + id
}

// IDFromKey strips the namespace prefix from a store key.
func IDFromKey(key string) (string, bool) {
	if !strings.HasPrefix(key, KeyPrefix) {
		return "", false
	}
	return key[len(KeyPrefix):], true
}
