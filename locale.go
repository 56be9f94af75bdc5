package reportkit

import (
	"strings"

	"golang.org/x/text/language"
)

// CanonicalLocale normalizes a locale tag for use in cache fingerprints,
// so that "en_US", "en-us" and "en-US" all key the same cached artifact.
// Tags that do not parse as BCP 47 are lower-cased and used as-is; the
// fingerprint treats the locale as an opaque string either way.
func CanonicalLocale(tag string) string {
	tag = strings.ReplaceAll(tag, "_", "-")
	t, err := language.Parse(tag)
	if err != nil {
		return strings.ToLower(tag)
	}
	return t.String()
}
