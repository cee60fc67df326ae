package app

import (
	"net/url"
	"strings"
)

// originAllowed reports whether a browser Origin is covered by the configured
// allow list. Patterns match the host[:port] portion and may lead with "*."
// to cover subdomains or end with ":*" to cover any port, so one entry can
// admit both the deployed study frontend and its preview builds.
func originAllowed(patterns []string, origin string) bool {
	host := origin
	if u, err := url.Parse(origin); err == nil && u.Host != "" {
		host = u.Host
	}

	for _, pattern := range patterns {
		switch {
		case pattern == host:
			return true
		case strings.HasPrefix(pattern, "*.") && strings.HasSuffix(host, pattern[1:]):
			return true
		case strings.HasSuffix(pattern, ":*") && strings.HasPrefix(host, pattern[:len(pattern)-1]):
			return true
		}
	}
	return false
}
