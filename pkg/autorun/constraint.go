package autorun

import (
	"fmt"

	"github.com/gobwas/glob"
)

// Constraint limits auto-run dispatch to configured pages. Patterns are
// globs matched against the full page URL, for example
// "https://*.github.com/**" or "https://news.ycombinator.com/*".
type Constraint struct {
	allowed []glob.Glob
	denied  []glob.Glob
}

// NewConstraint compiles page URL patterns. Denied patterns take
// precedence; with no allowed patterns every page not denied qualifies.
func NewConstraint(allowed, denied []string) (*Constraint, error) {
	c := &Constraint{}

	for _, pattern := range allowed {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid allowed page pattern '%s': %w", pattern, err)
		}
		c.allowed = append(c.allowed, g)
	}

	for _, pattern := range denied {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid denied page pattern '%s': %w", pattern, err)
		}
		c.denied = append(c.denied, g)
	}

	return c, nil
}

// Matches reports whether auto-run dispatch should fire for the page URL.
func (c *Constraint) Matches(pageURL string) bool {
	for _, pattern := range c.denied {
		if pattern.Match(pageURL) {
			return false
		}
	}

	if len(c.allowed) == 0 {
		return true
	}

	for _, pattern := range c.allowed {
		if pattern.Match(pageURL) {
			return true
		}
	}
	return false
}
