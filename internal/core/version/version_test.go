package version

import (
	"runtime"
	"testing"

	"bazaar/internal/platform/testkit"
)

func TestInfo(t *testing.T) {
	bi := Info("bazaar-api")
	if bi.Service != "bazaar-api" || bi.Version != "dev" || bi.GoVersion != runtime.Version() {
		t.Fatalf("info = %+v", bi)
	}
	if bi.Commit == "" {
		t.Fatal("commit must never be empty")
	}
}

func TestInfo_LdflagsCommitWins(t *testing.T) {
	testkit.Swap(t, &commit, "abc123")
	if got := Info("x").Commit; got != "abc123" {
		t.Fatalf("commit = %q", got)
	}
}
