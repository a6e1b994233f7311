package api

import (
	"strings"
	"testing"
	"time"
)

func TestSessionManagerRoundTrip(t *testing.T) {
	sm := NewSessionManager("test-secret")
	now := time.Date(2026, time.August, 27, 12, 0, 0, 0, time.UTC)

	token := sm.Issue(now)
	if !sm.Verify(token, now) {
		t.Fatal("freshly issued token should verify")
	}
	if !sm.Verify(token, now.Add(6*24*time.Hour)) {
		t.Error("token should still verify within the TTL")
	}
	if sm.Verify(token, now.Add(8*24*time.Hour)) {
		t.Error("expired token should fail")
	}
}

func TestSessionManagerRejectsTampering(t *testing.T) {
	sm := NewSessionManager("test-secret")
	now := time.Now()
	token := sm.Issue(now)

	payload, sig, _ := strings.Cut(token, ".")

	cases := map[string]string{
		"no separator":       payload + sig,
		"altered payload":    "9999999999." + sig,
		"altered signature":  payload + "." + strings.Repeat("0", len(sig)),
		"empty":              "",
		"wrong secret":       NewSessionManager("other-secret").Issue(now),
		"garbage payload":    "notanumber." + sig,
	}
	for name, tok := range cases {
		if sm.Verify(tok, now) {
			t.Errorf("%s: token %q should not verify", name, tok)
		}
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	base := time.Date(2026, time.August, 27, 12, 0, 0, 0, time.UTC)
	now := base
	rl.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if !rl.Allow("1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow("1.2.3.4") {
		t.Error("fourth request in the window should be rejected")
	}
	if !rl.Allow("5.6.7.8") {
		t.Error("a different client has its own window")
	}

	now = base.Add(61 * time.Second)
	if !rl.Allow("1.2.3.4") {
		t.Error("window rollover should reset the count")
	}
}
