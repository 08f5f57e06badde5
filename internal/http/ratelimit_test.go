package http

import (
	"testing"
)

func TestRateLimiter_AllowsUpToWindowLimit(t *testing.T) {
	rl := newRateLimiter()
	defer rl.Shutdown()

	for i := 0; i < requestsPerWindow; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("request %d denied inside the window", i+1)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Error("request over the limit allowed")
	}
}

func TestRateLimiter_ClientsAreIndependent(t *testing.T) {
	rl := newRateLimiter()
	defer rl.Shutdown()

	for i := 0; i < requestsPerWindow+5; i++ {
		rl.Allow("10.0.0.1")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("second client throttled by first client's traffic")
	}
	if rl.ActiveClients() != 2 {
		t.Errorf("ActiveClients = %d", rl.ActiveClients())
	}
}
