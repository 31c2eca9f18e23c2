package url

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/bnema/panehost/internal/domain/entity"
)

// hierarchicalSchemes require an authority and get a "/" path when none is given.
var hierarchicalSchemes = map[string]bool{
	"http":  true,
	"https": true,
	"ws":    true,
	"wss":   true,
	"ftp":   true,
}

// opaqueSchemes are accepted without a host.
var opaqueSchemes = map[string]bool{
	"about": true,
	"data":  true,
	"file":  true,
	"blob":  true,
}

// ParsePaneURL validates a navigation target and returns it in serialized form.
// The input must be absolute. Hosts are lower-cased and an empty path on a
// hierarchical URL becomes "/", so "https://Example.com" yields
// "https://example.com/", matching what the page reports after loading.
func ParsePaneURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty URL", entity.ErrInvalidURL)
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidURL, err)
	}
	if u.Scheme == "" {
		return nil, fmt.Errorf("%w: %q is not absolute", entity.ErrInvalidURL, raw)
	}

	scheme := strings.ToLower(u.Scheme)
	u.Scheme = scheme
	switch {
	case hierarchicalSchemes[scheme]:
		if u.Host == "" {
			return nil, fmt.Errorf("%w: %q has no host", entity.ErrInvalidURL, raw)
		}
		u.Host = strings.ToLower(u.Host)
		if u.Path == "" && u.Opaque == "" {
			u.Path = "/"
		}
	case opaqueSchemes[scheme]:
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", entity.ErrInvalidURL, scheme)
	}

	return u, nil
}
