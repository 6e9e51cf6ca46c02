package util

import "testing"

func TestNormalizeVersion(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"v2.8.2", "2.8.2"},
		{"2.8.2", "2.8.2"},
		{"vv1.0.0", "1.0.0"},
		{"", ""},
		{"v", ""},
		{"version", "ersion"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := NormalizeVersion(tt.input)
			if got != tt.expected {
				t.Errorf("NormalizeVersion(%q) = %q, want %q", tt.input, got, tt.expected)
			}
			if again := NormalizeVersion(got); again != got {
				t.Errorf("NormalizeVersion not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestIsValidURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"https URL", "https://ai-fresh.github.io/ccgate/", true},
		{"URL with port", "http://127.0.0.1:8080", true},
		{"empty", "", false},
		{"ftp scheme", "ftp://example.com", false},
		{"no host", "https://", false},
		{"spaces", "https://exa mple.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidURL(tt.input); got != tt.expected {
				t.Errorf("IsValidURL(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIsExternalLink(t *testing.T) {
	tests := []struct {
		link     string
		expected bool
	}{
		{"https://github.com/ai-fresh/ccgate", true},
		{"HTTP://EXAMPLE.COM", true},
		{"#features", false},
		{"/docs", false},
		{"mailto:team@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.link, func(t *testing.T) {
			if got := IsExternalLink(tt.link); got != tt.expected {
				t.Errorf("IsExternalLink(%q) = %v, want %v", tt.link, got, tt.expected)
			}
		})
	}
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		base     string
		ref      string
		expected string
	}{
		{"https://ai-fresh.github.io/ccgate/", "sitemap.xml", "https://ai-fresh.github.io/ccgate/sitemap.xml"},
		{"https://ai-fresh.github.io/ccgate/", "/og.png", "https://ai-fresh.github.io/og.png"},
		{"https://ai-fresh.github.io/ccgate/", "https://cdn.example.com/og.png", "https://cdn.example.com/og.png"},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := ResolveURL(tt.base, tt.ref)
			if err != nil {
				t.Fatalf("ResolveURL() unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("ResolveURL() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("Truncate() = %q, want %q", got, "short")
	}
	if got := Truncate("abcdefghij", 4); got != "abcd..." {
		t.Errorf("Truncate() = %q, want %q", got, "abcd...")
	}
}

func TestHost(t *testing.T) {
	if got := Host("https://github.com/ai-fresh/ccgate"); got != "github.com" {
		t.Errorf("Host() = %q, want github.com", got)
	}
	if got := Host("not a url"); got != "not a url" {
		t.Errorf("Host() = %q, want input back", got)
	}
}
