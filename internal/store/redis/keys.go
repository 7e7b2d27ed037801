package redis

import "strings"

// globSpecials are the characters SCAN MATCH treats as pattern syntax.
const globSpecials = `\*?[]`

// MatchPattern returns a SCAN MATCH pattern selecting every key that starts
// with prefix. Pattern metacharacters inside prefix are escaped.
func MatchPattern(prefix string) string {
	var b strings.Builder
	b.Grow(len(prefix) + 1)
	for _, r := range prefix {
		if strings.ContainsRune(globSpecials, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('*')
	return b.String()
}
