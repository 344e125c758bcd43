package catalog

import "strings"

// ToolName derives a tool name from an operation ID: every
// non-alphanumeric character becomes an underscore, runs of underscores
// collapse to one, leading/trailing underscores are stripped, and the
// result is lowercased. Deterministic and idempotent; two operation IDs
// that differ only in punctuation collapse to the same name, which the
// catalog index resolves by keeping the first.
func ToolName(operationID string) string {
	var b strings.Builder
	b.Grow(len(operationID))
	lastUnderscore := false
	for _, r := range operationID {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.Trim(b.String(), "_")
}
