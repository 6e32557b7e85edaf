package security

import (
	"net"
	"regexp"
	"strings"
)

var hostnameRe = regexp.MustCompile(`^[A-Za-z0-9.-]+$`)

// ValidateHostnameOrIP accepts a syntactically valid IP address, or a
// hostname token of letters, digits, dots and hyphens: no leading or
// trailing hyphen, no empty labels, at most 253 characters.
func ValidateHostnameOrIP(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" || len(value) > 253 {
		return false
	}
	if net.ParseIP(value) != nil {
		return true
	}
	if strings.HasPrefix(value, "-") || strings.HasSuffix(value, "-") {
		return false
	}
	if strings.Contains(value, "..") {
		return false
	}
	return hostnameRe.MatchString(value)
}
