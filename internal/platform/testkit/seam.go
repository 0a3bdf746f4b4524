package testkit

import (
	"sync"
	"testing"
)

var seams sync.Mutex

// Swap replaces *target for the rest of the test; Cleanup puts the original back
func Swap[T any](t *testing.T, target *T, with T) {
	t.Helper()
	was := *target
	*target = with
	t.Cleanup(func() { *target = was })
}

// Serial holds a process wide lock until the test ends, for tests that touch package state
// such as env vars, the module registry or the root logger
func Serial(t *testing.T) {
	t.Helper()
	seams.Lock()
	t.Cleanup(seams.Unlock)
}
