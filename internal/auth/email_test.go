package auth

import (
	"testing"
	"time"
)

func TestNormalizeEmail(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"ana@example.com", "ana@example.com", true},
		{"  Ana@Example.COM ", "ana@example.com", true},
		{"STRASSE@Example.de", "strasse@example.de", true},
		{"Ana <ana@example.com>", "", false},
		{"no-at-sign", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := NormalizeEmail(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("NormalizeEmail(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestLoginLimiter(t *testing.T) {
	var nilLimiter *LoginLimiter
	if !nilLimiter.Allow("x") {
		t.Error("nil limiter must allow everything")
	}
	if NewLoginLimiter(0) != nil {
		t.Error("expected nil limiter for zero rate")
	}

	l := NewLoginLimiter(3)
	now := time.Now()
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if !l.Allow("10.0.0.1") {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	if l.Allow("10.0.0.1") {
		t.Error("fourth attempt in the same instant should be denied")
	}
	if !l.Allow("10.0.0.2") {
		t.Error("other clients have their own budget")
	}

	now = now.Add(20 * time.Second)
	if !l.Allow("10.0.0.1") {
		t.Error("expected a token to refill after 20s")
	}
}
