package utils

import "testing"

func TestIsLocalOrigin(t *testing.T) {
	tests := []struct {
		origin  string
		allowed bool
	}{
		{"http://localhost", true},
		{"http://localhost:5173", true},
		{"http://192.168.1.1:7777", true},
		{"http://10.0.0.1", true},
		{"http://172.31.255.255:443", true},
		{"http://127.0.0.1:3000", true},
		{"http://169.254.1.1", true},
		{"http://[::1]:8080", true},
		{"http://devbox.local", true},
		{"http://devbox:8080", true},

		{"http://example.com", false},
		{"https://api.themoviedb.org.evil.com", false},
		{"http://8.8.8.8", false},
		{"", false},
		{"not-a-url", false},
	}

	for _, tt := range tests {
		if got := IsLocalOrigin(tt.origin); got != tt.allowed {
			t.Errorf("IsLocalOrigin(%q) = %v, want %v", tt.origin, got, tt.allowed)
		}
	}
}

func TestOriginPolicy(t *testing.T) {
	p := NewOriginPolicy([]string{"https://filmpivot.app/", " https://staging.filmpivot.app "})
	if !p.Allows("https://filmpivot.app") {
		t.Error("expected configured origin allowed")
	}
	if !p.Allows("https://STAGING.filmpivot.app") {
		t.Error("expected case-insensitive match")
	}
	if p.Allows("http://localhost:3000") {
		t.Error("expected local origins rejected once an allowlist is configured")
	}

	if !NewOriginPolicy([]string{"*"}).Allows("https://anything.example") {
		t.Error("expected wildcard to allow any origin")
	}
	if NewOriginPolicy([]string{"*"}).Allows("") {
		t.Error("expected empty origin rejected")
	}
	if !NewOriginPolicy(nil).Allows("http://localhost:8081") {
		t.Error("expected local origin allowed by default")
	}
}
