package perf

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/zintix-labs/edgesim/errs"
)

func TestRunPProfWritesProfiles(t *testing.T) {
	dir := t.TempDir()
	for _, mode := range []string{"cpu", "heap", "allocs"} {
		calls := 0
		if err := RunPProf(func() error { calls++; return nil }, mode, dir); err != nil {
			t.Fatalf("%s: %v", mode, err)
		}
		if calls != 1 {
			t.Fatalf("%s: exe called %d times", mode, calls)
		}
		if _, err := os.Stat(filepath.Join(dir, mode+".pprof")); err != nil {
			t.Fatalf("%s: profile missing: %v", mode, err)
		}
	}
}

func TestRunPProfPropagates(t *testing.T) {
	boom := errors.New("boom")
	if err := RunPProf(func() error { return boom }, "", t.TempDir()); !errors.Is(err, boom) {
		t.Fatalf("got %v", err)
	}
	if err := RunPProf(func() error { return boom }, "heap", t.TempDir()); !errors.Is(err, boom) {
		t.Fatalf("got %v", err)
	}
	if err := RunPProf(func() error { return nil }, "trace", t.TempDir()); !errs.IsValidation(err) {
		t.Fatalf("unknown mode got %v", err)
	}
}
