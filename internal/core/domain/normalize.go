package domain

import "strings"

// NormalizeDomain canonicalizes a storefront domain for comparison:
// trim, lowercase, strip scheme, strip path, strip port, strip "www.".
// The function is idempotent, so values already in canonical form pass
// through unchanged.
func NormalizeDomain(raw string) string {
	d := strings.ToLower(strings.TrimSpace(raw))

	d = strings.TrimPrefix(d, "http://")
	d = strings.TrimPrefix(d, "https://")

	if i := strings.IndexByte(d, '/'); i >= 0 {
		d = d[:i]
	}
	if i := strings.LastIndexByte(d, ':'); i >= 0 {
		d = d[:i]
	}
	d = strings.TrimPrefix(d, "www.")

	return d
}
