package resolve

import "testing"

func TestPathsMatch(t *testing.T) {
	tests := []struct {
		name    string
		claimed string
		defined string
		want    bool
	}{
		{"exact", "/api/users", "/api/users", true},
		{"named param", "/api/users/42", "/api/users/:id", true},
		{"bracket param", "/api/users/42", "/api/users/[id]", true},
		{"brace param", "/api/users/42", "/api/users/{id}", true},
		{"single wildcard", "/api/users/42", "/api/users/*", true},
		{"literal mismatch", "/api/orders/42", "/api/users/:id", false},
		{"segment count short", "/api/users", "/api/users/:id", false},
		{"segment count long", "/api/users/42/posts", "/api/users/:id", false},
		{"param in middle", "/api/users/42/posts", "/api/users/:id/posts", true},
		{"trailing slash tolerated", "/api/users/", "/api/users", true},
		// "**" consumes exactly one segment, matching the truthpack
		// generator's semantics.
		{"double wildcard one segment", "/files/a", "/files/**", true},
		{"double wildcard not multi", "/files/a/b", "/files/**", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PathsMatch(tt.claimed, tt.defined); got != tt.want {
				t.Errorf("PathsMatch(%q, %q) = %v, want %v", tt.claimed, tt.defined, got, tt.want)
			}
		})
	}
}

func TestNormalizePackageName(t *testing.T) {
	tests := []struct {
		spec string
		want string
	}{
		{"lodash", "lodash"},
		{"lodash/get", "lodash"},
		{"node:fs", "fs"},
		{"node:fs/promises", "fs"},
		{"@scope/pkg", "@scope/pkg"},
		{"@scope/pkg/deep/path", "@scope/pkg"},
	}
	for _, tt := range tests {
		if got := NormalizePackageName(tt.spec); got != tt.want {
			t.Errorf("NormalizePackageName(%q) = %q, want %q", tt.spec, got, tt.want)
		}
	}
}

func TestSplitEndpoint(t *testing.T) {
	if method, path := splitEndpoint("GET /api/users"); method != "GET" || path != "/api/users" {
		t.Errorf("unexpected split: %q %q", method, path)
	}
	if method, path := splitEndpoint("/api/users"); method != "" || path != "/api/users" {
		t.Errorf("unexpected split: %q %q", method, path)
	}
}
