package utils

import (
	"net/http/httptest"
	"testing"
)

func TestParseHostNoPort(t *testing.T) {
	tests := map[string]string{
		"":                "",
		"10.0.0.1:8080":   "10.0.0.1",
		"10.0.0.1":        "10.0.0.1",
		"[::1]:8080":      "::1",
		"[::1]":           "::1",
		"example.com:443": "example.com",
	}
	for in, want := range tests {
		if got := ParseHostNoPort(in); got != want {
			t.Errorf("ParseHostNoPort(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		trustProxy bool
		want       string
	}{
		{"remote addr only", nil, false, "192.0.2.1"},
		{"proxy headers ignored", map[string]string{"X-Forwarded-For": "10.0.0.1"}, false, "192.0.2.1"},
		{"cloudflare first", map[string]string{"CF-Connecting-IP": "10.0.0.9", "X-Forwarded-For": "10.0.0.1"}, true, "10.0.0.9"},
		{"left-most xff", map[string]string{"X-Forwarded-For": " 10.0.0.1 , 172.16.0.1"}, true, "10.0.0.1"},
		{"real ip", map[string]string{"X-Real-IP": "10.0.0.2"}, true, "10.0.0.2"},
		{"no headers with trust", nil, true, "192.0.2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r, tt.trustProxy); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIPMatcher(t *testing.T) {
	m := NewIPMatcher([]string{"10.0.0.0/8", " 127.0.0.1 ", "fd00::/8", "not-an-ip", ""})
	if m.IsEmpty() {
		t.Fatal("matcher should not be empty")
	}

	tests := map[string]bool{
		"10.20.30.40":      true,
		"127.0.0.1":        true,
		"::ffff:127.0.0.1": true,
		"fd12::1":          true,
		"127.0.0.2":        false,
		"192.0.2.1":        false,
		"garbage":          false,
	}
	for ip, want := range tests {
		if got := m.Allow(ip); got != want {
			t.Errorf("Allow(%q) = %v, want %v", ip, got, want)
		}
	}

	if !NewIPMatcher([]string{"bogus"}).IsEmpty() {
		t.Error("matcher with only invalid entries should be empty")
	}
}
