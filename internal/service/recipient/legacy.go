package recipient

import "strings"

// DefaultSeparator joins the fragments of a composite legacy coach name.
const DefaultSeparator = "_"

// SplitLegacyName breaks a stored legacy coach name into its fragments.
// Empty fragments and surrounding whitespace are dropped; the order of the
// result follows the stored value.
func SplitLegacyName(name, sep string) []string {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	if sep == "" {
		sep = DefaultSeparator
	}

	parts := strings.Split(name, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
