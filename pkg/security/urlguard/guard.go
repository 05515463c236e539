// Package urlguard enforces navigation policy on browser sessions. It
// validates that every URL the application is asked to open uses an allowed
// scheme and, when site rules are configured, targets a permitted site.
package urlguard

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gobwas/glob"
)

// Guard validates navigation targets before the browser opens them.
type Guard struct {
	allowedSchemes map[string]bool
	allowedSites   []glob.Glob
	deniedSites    []glob.Glob
}

// NewGuard creates a guard admitting http and https URLs, filtered by the
// given site rules. Patterns are matched against the lowercased host and
// against host+path, so both "*.example.com" and "example.com/docs/*"
// work. Denied rules take precedence, and an empty allow list admits every
// site that is not denied.
func NewGuard(allowedSites, deniedSites []string) (*Guard, error) {
	g := &Guard{
		allowedSchemes: map[string]bool{"http": true, "https": true},
	}

	for _, pattern := range allowedSites {
		compiled, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid allowed site pattern '%s': %w", pattern, err)
		}
		g.allowedSites = append(g.allowedSites, compiled)
	}

	for _, pattern := range deniedSites {
		compiled, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid denied site pattern '%s': %w", pattern, err)
		}
		g.deniedSites = append(g.deniedSites, compiled)
	}

	return g, nil
}

// Validate checks a navigation target. It returns an error for anything
// other than an absolute http(s) URL to a permitted site.
func (g *Guard) Validate(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("url cannot be empty")
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url '%s': %w", raw, err)
	}

	scheme := strings.ToLower(parsed.Scheme)
	if !g.allowedSchemes[scheme] {
		return fmt.Errorf("scheme '%s' is not allowed", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("url '%s' has no host", raw)
	}

	host := strings.ToLower(parsed.Host)
	site := host + parsed.Path

	// Denied rules win over everything else
	if matchesAny(g.deniedSites, host, site) {
		return fmt.Errorf("site '%s' is denied by policy", parsed.Host)
	}

	if len(g.allowedSites) == 0 {
		return nil
	}
	if matchesAny(g.allowedSites, host, site) {
		return nil
	}

	return fmt.Errorf("site '%s' does not match allowed patterns", parsed.Host)
}

// IsAllowed reports whether the URL passes Validate.
func (g *Guard) IsAllowed(raw string) bool {
	return g.Validate(raw) == nil
}

// AllowedScriptTarget reports whether tool scripts may execute against the
// page at raw. Only http and https pages host scripts; internal surfaces
// such as about:blank or chrome:// never do, whatever the site rules say.
func AllowedScriptTarget(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(parsed.Scheme)
	return scheme == "http" || scheme == "https"
}

func matchesAny(patterns []glob.Glob, host, site string) bool {
	for _, pattern := range patterns {
		if pattern.Match(host) || pattern.Match(site) {
			return true
		}
	}
	return false
}
