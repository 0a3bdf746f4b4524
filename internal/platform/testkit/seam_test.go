package testkit

import (
	"sync"
	"testing"
	"time"
)

var (
	clock   = func() string { return "real" }
	pageCap = 50
)

func TestSwap_RestoresAfterSubtest(t *testing.T) {
	t.Run("swapped", func(t *testing.T) {
		Swap(t, &clock, func() string { return "frozen" })
		Swap(t, &pageCap, 5)
		if clock() != "frozen" || pageCap != 5 {
			t.Fatalf("swap not applied: %s %d", clock(), pageCap)
		}
	})
	if clock() != "real" || pageCap != 50 {
		t.Fatalf("swap not restored: %s %d", clock(), pageCap)
	}
}

func TestSerial_DoesNotInterleave(t *testing.T) {
	var (
		mu  sync.Mutex
		log []string
	)
	note := func(s string) {
		mu.Lock()
		log = append(log, s)
		mu.Unlock()
	}

	t.Run("group", func(t *testing.T) {
		for _, name := range []string{"a", "b"} {
			t.Run(name, func(t *testing.T) {
				t.Parallel()
				Serial(t)
				note(name + "+")
				time.Sleep(20 * time.Millisecond)
				note(name + "-")
			})
		}
	})

	if len(log) != 4 {
		t.Fatalf("log = %v", log)
	}
	// each enter must be followed by its own exit
	for i := 0; i < 4; i += 2 {
		if log[i][:1] != log[i+1][:1] || log[i][1] != '+' || log[i+1][1] != '-' {
			t.Fatalf("interleaved: %v", log)
		}
	}
}
