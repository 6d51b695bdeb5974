// Package janitor removes stale files from the upload and output
// directories on a fixed interval, so abandoned jobs do not accumulate on
// disk.
package janitor

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/docmill/pdf2word/observability"
)

// Janitor sweeps a set of directories periodically.
type Janitor struct {
	dirs      []string
	retention time.Duration
	interval  time.Duration
	log       observability.Logger

	now func() time.Time // test seam
}

// New builds a Janitor that removes files older than retention from dirs,
// sweeping every interval.
func New(dirs []string, retention, interval time.Duration, log observability.Logger) *Janitor {
	if log == nil {
		log = observability.NopLogger{}
	}
	return &Janitor{
		dirs:      dirs,
		retention: retention,
		interval:  interval,
		log:       log,
		now:       time.Now,
	}
}

// Run sweeps on every tick until the context is canceled. An initial sweep
// happens immediately on start.
func (j *Janitor) Run(ctx context.Context) {
	j.sweepAll()
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.sweepAll()
		}
	}
}

func (j *Janitor) sweepAll() {
	for _, dir := range j.dirs {
		removed, err := j.Sweep(dir)
		if err != nil {
			j.log.Warn("sweep failed",
				observability.String("dir", dir),
				observability.Error(err))
			continue
		}
		if removed > 0 {
			j.log.Info("removed stale files",
				observability.String("dir", dir),
				observability.Int("count", removed))
		}
	}
}

// Sweep removes regular files in dir whose modification time is older than
// the retention window. Dotfiles and subdirectories are left alone. It
// returns the number of files removed.
func (j *Janitor) Sweep(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	cutoff := j.now().Add(-j.retention)

	removed := 0
	for _, e := range entries {
		if e.IsDir() || e.Name()[0] == '.' {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if err := os.Remove(path); err != nil {
			j.log.Warn("remove stale file",
				observability.String("path", path),
				observability.Error(err))
			continue
		}
		removed++
	}
	return removed, nil
}
