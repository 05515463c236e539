package autorun

import "testing"

func TestNewConstraint(t *testing.T) {
	if _, err := NewConstraint([]string{"https://*.github.com/**"}, []string{"https://github.com/logout*"}); err != nil {
		t.Fatalf("NewConstraint failed for valid patterns: %v", err)
	}

	if _, err := NewConstraint([]string{"[bad"}, nil); err == nil {
		t.Error("NewConstraint should reject invalid allowed pattern")
	}
	if _, err := NewConstraint(nil, []string{"[bad"}); err == nil {
		t.Error("NewConstraint should reject invalid denied pattern")
	}
}

func TestConstraintMatches(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		denied  []string
		url     string
		want    bool
	}{
		{
			name: "no rules matches everything",
			url:  "https://example.com/any/page",
			want: true,
		},
		{
			name:    "allowed pattern matches",
			allowed: []string{"https://news.ycombinator.com/*"},
			url:     "https://news.ycombinator.com/item?id=1",
			want:    true,
		},
		{
			name:    "allowed pattern misses",
			allowed: []string{"https://news.ycombinator.com/*"},
			url:     "https://example.com",
			want:    false,
		},
		{
			name:    "denied wins over allowed",
			allowed: []string{"https://example.com/**"},
			denied:  []string{"https://example.com/admin/**"},
			url:     "https://example.com/admin/users",
			want:    false,
		},
		{
			name:   "denied only blocks its matches",
			denied: []string{"https://example.com/admin/**"},
			url:    "https://example.com/public",
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewConstraint(tt.allowed, tt.denied)
			if err != nil {
				t.Fatalf("NewConstraint failed: %v", err)
			}

			if got := c.Matches(tt.url); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}
