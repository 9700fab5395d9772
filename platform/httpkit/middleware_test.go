package httpkit

import (
	"sync"
	"testing"

	"golang.org/x/time/rate"
)

func TestGetLimiter_ConcurrentFirstRequestsShareBucket(t *testing.T) {
	rl := NewIPRateLimiter(rate.Limit(1), 1, nil)

	const goroutines = 32
	limiters := make([]*rate.Limiter, goroutines)

	var start sync.WaitGroup
	start.Add(1)
	var done sync.WaitGroup
	for n := 0; n < goroutines; n++ {
		done.Add(1)
		go func(n int) {
			defer done.Done()
			start.Wait()
			limiters[n] = rl.getLimiter("10.0.0.1")
		}(n)
	}
	start.Done()
	done.Wait()

	for n := 1; n < goroutines; n++ {
		if limiters[n] != limiters[0] {
			t.Fatalf("goroutine %d got a different limiter for the same IP", n)
		}
	}
}

func TestGetLimiter_SeparateBucketPerIP(t *testing.T) {
	rl := NewIPRateLimiter(rate.Limit(1), 1, nil)

	a := rl.getLimiter("10.0.0.1")
	b := rl.getLimiter("10.0.0.2")
	if a == b {
		t.Fatal("expected distinct limiters for distinct IPs")
	}
	if got := rl.getLimiter("10.0.0.1"); got != a {
		t.Fatal("expected the same limiter on a repeat request")
	}
}

func TestGetLimiter_BurstNotDoubled(t *testing.T) {
	rl := NewIPRateLimiter(rate.Limit(0), 1, nil)

	limiter := rl.getLimiter("10.0.0.1")
	if !limiter.Allow() {
		t.Fatal("expected the first request to pass")
	}
	if rl.getLimiter("10.0.0.1").Allow() {
		t.Fatal("expected the second request to be limited")
	}
}
