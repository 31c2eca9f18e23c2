// Package url validates and normalizes pane navigation targets.
package url

import (
	"net"
	"net/url"
	"strings"
)

// Normalize expands command-line shorthand into an absolute URL. A bare host
// such as "example.com/docs" gets https://, and localhost or a loopback
// address gets http://. Any other input comes back trimmed for ParsePaneURL
// to accept or reject.
func Normalize(input string) string {
	input = strings.TrimSpace(input)
	if input == "" || hasScheme(input) {
		return input
	}

	host := input
	if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}
	if host == "" || strings.ContainsAny(host, " \t") {
		return input
	}
	hostname := host
	if h, _, err := net.SplitHostPort(host); err == nil {
		hostname = h
	}

	switch {
	case hostname == "localhost" || net.ParseIP(hostname).IsLoopback():
		return "http://" + input
	case strings.Contains(hostname, "."):
		return "https://" + input
	}
	return input
}

// hasScheme reports whether s starts with a scheme ParsePaneURL knows.
func hasScheme(s string) bool {
	i := strings.IndexByte(s, ':')
	if i <= 0 {
		return false
	}
	scheme := strings.ToLower(s[:i])
	if hierarchicalSchemes[scheme] {
		return strings.HasPrefix(s[i:], "://")
	}
	return opaqueSchemes[scheme]
}

// ExtractDomain returns the host of rawURL without a leading "www.", or ""
// for URLs without a host.
func ExtractDomain(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return ""
	}
	return strings.TrimPrefix(parsed.Hostname(), "www.")
}
