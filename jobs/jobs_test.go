package jobs

import "testing"

func TestRegistryLifecycle(t *testing.T) {
	r := NewRegistry()
	r.Create("j1", "report.pdf", "/tmp/j1.pdf")

	snap, ok := r.Snapshot("j1")
	if !ok {
		t.Fatalf("job missing after Create")
	}
	if snap.Status != StatusUploaded || snap.Progress != 0 || snap.CanDownload {
		t.Fatalf("unexpected initial snapshot: %+v", snap)
	}

	if !r.Apply("j1", Patch{Status: statusPtr(StatusProcessing), Progress: intPtr(25)}) {
		t.Fatalf("patch rejected for live job")
	}
	snap, _ = r.Snapshot("j1")
	if snap.Status != StatusProcessing || snap.Progress != 25 {
		t.Fatalf("patch not applied: %+v", snap)
	}
}

func TestRegistryProgressNeverRegresses(t *testing.T) {
	r := NewRegistry()
	r.Create("j1", "a.pdf", "/tmp/a.pdf")
	r.Apply("j1", Patch{Progress: intPtr(60)})
	r.Apply("j1", Patch{Progress: intPtr(0), Message: strPtr("Error: bad page")})

	snap, _ := r.Snapshot("j1")
	if snap.Progress != 60 {
		t.Fatalf("progress regressed to %d", snap.Progress)
	}
	if snap.Message != "Error: bad page" {
		t.Fatalf("message patch should still land, got %q", snap.Message)
	}
}

func TestRegistryTerminalJobsRejectPatches(t *testing.T) {
	r := NewRegistry()
	r.Create("j1", "a.pdf", "/tmp/a.pdf")
	r.Apply("j1", Patch{Status: statusPtr(StatusCompleted), Progress: intPtr(100), OutputPath: strPtr("/tmp/out.docx")})

	if r.Apply("j1", Patch{Progress: intPtr(100), Message: strPtr("late")}) {
		t.Fatalf("terminal job accepted a patch")
	}
	snap, _ := r.Snapshot("j1")
	if !snap.CanDownload {
		t.Fatalf("completed job with output must be downloadable")
	}
}

func TestRegistryFailedJobNotDownloadable(t *testing.T) {
	r := NewRegistry()
	r.Create("j1", "a.pdf", "/tmp/a.pdf")
	r.Apply("j1", Patch{Status: statusPtr(StatusFailed), Err: strPtr("boom")})

	snap, _ := r.Snapshot("j1")
	if snap.CanDownload {
		t.Fatalf("failed job must not be downloadable")
	}
	if snap.Error != "boom" {
		t.Fatalf("error missing from snapshot: %+v", snap)
	}
}

func TestRegistryUnknownJob(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.Snapshot("nope"); ok {
		t.Fatalf("unknown job reported present")
	}
	if r.Apply("nope", Patch{Progress: intPtr(5)}) {
		t.Fatalf("patch accepted for unknown job")
	}
}

func TestRegistryDelete(t *testing.T) {
	r := NewRegistry()
	r.Create("j1", "a.pdf", "/tmp/a.pdf")
	r.Delete("j1")
	if _, ok := r.Job("j1"); ok {
		t.Fatalf("job still present after Delete")
	}
}
