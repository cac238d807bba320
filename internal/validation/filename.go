package validation

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// SecureFilename reduces name to a flat ASCII filename safe to use on any
// filesystem: compatibility-decomposed, non-ASCII dropped, path separators
// and whitespace runs turned into "_", anything outside [A-Za-z0-9_.-]
// removed, and leading/trailing dots and underscores trimmed. The result
// may be empty.
func SecureFilename(name string) string {
	name = norm.NFKD.String(name)

	var ascii strings.Builder
	for _, r := range name {
		if r < 0x80 {
			ascii.WriteRune(r)
		}
	}

	name = strings.NewReplacer("/", " ", `\`, " ").Replace(ascii.String())
	name = strings.Join(strings.Fields(name), "_")

	var out strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out.WriteRune(r)
		case r == '_' || r == '.' || r == '-':
			out.WriteRune(r)
		}
	}

	return strings.Trim(out.String(), "._")
}
