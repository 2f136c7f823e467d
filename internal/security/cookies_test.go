package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestIsSecureRequest(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(r *http.Request)
		expected bool
	}{
		{
			name:     "plain http",
			setup:    func(r *http.Request) {},
			expected: false,
		},
		{
			name: "behind https proxy",
			setup: func(r *http.Request) {
				r.Header.Set("X-Forwarded-Proto", "https")
			},
			expected: true,
		},
		{
			name: "proxy forwards http",
			setup: func(r *http.Request) {
				r.Header.Set("X-Forwarded-Proto", "http")
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "http://example.com/", nil)
			tt.setup(r)
			if got := IsSecureRequest(r); got != tt.expected {
				t.Errorf("IsSecureRequest() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCreateVisitorCookie(t *testing.T) {
	r := httptest.NewRequest("GET", "http://example.com/", nil)
	cookie := CreateVisitorCookie(r, "visitor_id", "abc-123", 24*time.Hour)

	if cookie.Name != "visitor_id" || cookie.Value != "abc-123" {
		t.Errorf("cookie = %s=%s", cookie.Name, cookie.Value)
	}
	if !cookie.HttpOnly {
		t.Error("cookie is not HttpOnly")
	}
	if cookie.SameSite != http.SameSiteLaxMode {
		t.Errorf("SameSite = %v, want Lax", cookie.SameSite)
	}
	if cookie.Secure {
		t.Error("Secure set on a plain http request")
	}
	if !cookie.Expires.After(time.Now().Add(23 * time.Hour)) {
		t.Errorf("Expires = %v, want ~24h out", cookie.Expires)
	}
}

func TestGeneratedIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateSessionID()
		if id == "" {
			t.Fatal("empty session id")
		}
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
	if GenerateVisitorID() == "" {
		t.Error("empty visitor id")
	}
}
