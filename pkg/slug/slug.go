// Package slug derives URL-safe identifiers from titles. The same rule is
// applied by the storage adapter on create and by the admin form while typing,
// so a resource's address is predictable from its title.
package slug

import "strings"

// Make lower-cases the title, collapses every run of non-alphanumeric
// characters into a single hyphen and strips leading/trailing hyphens.
func Make(title string) string {
	lower := strings.ToLower(title)

	var b strings.Builder
	b.Grow(len(lower))
	pendingHyphen := false
	for _, r := range lower {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !alnum {
			pendingHyphen = true
			continue
		}
		if pendingHyphen && b.Len() > 0 {
			b.WriteByte('-')
		}
		pendingHyphen = false
		b.WriteRune(r)
	}
	return b.String()
}
