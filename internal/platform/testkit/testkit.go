// Package testkit holds the assertions shared by package tests
package testkit

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"
)

// MustPanic fails unless fn panics
func MustPanic(t *testing.T, fn func()) {
	t.Helper()
	if r := catch(fn); r == nil {
		t.Fatal("expected a panic")
	}
}

// MustPanicWith fails unless fn panics with a value whose text contains want
func MustPanicWith(t *testing.T, want string, fn func()) {
	t.Helper()
	r := catch(fn)
	if r == nil {
		t.Fatalf("expected a panic mentioning %q", want)
	}
	if got := fmt.Sprint(r); !strings.Contains(got, want) {
		t.Fatalf("panic %q does not mention %q", got, want)
	}
}

// MustNotPanic fails if fn panics
func MustNotPanic(t *testing.T, fn func()) {
	t.Helper()
	if r := catch(fn); r != nil {
		t.Fatalf("unexpected panic: %v", r)
	}
}

func catch(fn func()) (r any) {
	defer func() { r = recover() }()
	fn()
	return nil
}

// MustContain fails unless out contains want; long output is trimmed in the message
func MustContain(t *testing.T, out, want string) {
	t.Helper()
	if strings.Contains(out, want) {
		return
	}
	if len(out) > 2048 {
		out = out[:2048] + "..."
	}
	t.Fatalf("missing %q in:\n%s", want, out)
}

// MustJSON marshals v or fails
func MustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal %T: %v", v, err)
	}
	return string(b)
}

// Await receives from ch or fails after within
func Await[T any](t *testing.T, ch <-chan T, within time.Duration, what string) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(within):
		t.Fatalf("timed out after %s waiting for %s", within, what)
	}
	var zero T
	return zero
}
