package janitor

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func touch(t *testing.T, path string, age time.Duration) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	when := time.Now().Add(-age)
	if err := os.Chtimes(path, when, when); err != nil {
		t.Fatal(err)
	}
}

func TestSweepRemovesOnlyStaleFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "old.pdf"), 2*time.Hour)
	touch(t, filepath.Join(dir, "fresh.pdf"), time.Minute)
	touch(t, filepath.Join(dir, ".keep"), 2*time.Hour)
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	j := New([]string{dir}, time.Hour, time.Minute, nil)
	removed, err := j.Sweep(dir)
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if _, err := os.Stat(filepath.Join(dir, "old.pdf")); !os.IsNotExist(err) {
		t.Fatalf("stale file survived")
	}
	for _, name := range []string{"fresh.pdf", ".keep", "sub"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("%s should survive the sweep: %v", name, err)
		}
	}
}

func TestSweepMissingDirectory(t *testing.T) {
	j := New(nil, time.Hour, time.Minute, nil)
	if _, err := j.Sweep(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}

func TestSweepCutoffUsesInjectedClock(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "doc.pdf"), 30*time.Minute)

	j := New([]string{dir}, time.Hour, time.Minute, nil)
	j.now = func() time.Time { return time.Now().Add(time.Hour) }

	removed, err := j.Sweep(dir)
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if removed != 1 {
		t.Fatalf("file within retention of the shifted clock should be removed")
	}
}
