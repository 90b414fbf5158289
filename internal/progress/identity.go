package progress

import "strings"

// Identity is a learner. ID is always re-derivable from Name; it is
// stored alongside the name only as a cache.
type Identity struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// DeriveID normalizes a display name into a storage-safe slug: lowercase,
// whitespace runs become single hyphens, everything outside [a-z0-9-] is
// stripped, hyphen runs collapse. An unusable name yields "anon".
func DeriveID(name string) string {
	fields := strings.Fields(strings.ToLower(name))
	slug := strings.Join(fields, "-")

	var b strings.Builder
	for _, r := range slug {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	out := b.String()
	for strings.Contains(out, "--") {
		out = strings.ReplaceAll(out, "--", "-")
	}
	out = strings.Trim(out, "-")
	if out == "" {
		return "anon"
	}
	return out
}
