package hostsfile

import "regexp"

// Coarse address shapes. No range validation: "999.999.999.999" passes.
// These only separate "# 10.0.0.1 host" (a disabled mapping) from
// "# see docs for details" (a note).
var (
	ipv4Shape = regexp.MustCompile(`^(?:\d{1,3}\.){3}\d{1,3}$`)
	ipv6Shape = regexp.MustCompile(`^(?:[a-fA-F0-9:]+:+)+[a-fA-F0-9]+$`)
)

// LooksLikeAddress reports whether s has the shape of an IPv4 or IPv6 literal.
func LooksLikeAddress(s string) bool {
	return ipv4Shape.MatchString(s) || ipv6Shape.MatchString(s)
}
