package db

import (
	"os"
	"sync"
	"time"
)

// Signature identifies the on-disk state of the database file by size and
// modification time. Cheap enough to recompute on every poll; content
// hashing is deliberately avoided since cloud-sync tools rewrite mtime even
// when restoring an older file, which must still count as a change.
type Signature struct {
	Exists  bool
	Size    int64
	ModTime time.Time
}

// Equal reports whether two signatures describe the same file state.
func (s Signature) Equal(other Signature) bool {
	return s.Exists == other.Exists &&
		s.Size == other.Size &&
		s.ModTime.Equal(other.ModTime)
}

// FileSignature stats the file at path. A missing file yields a zero
// signature with Exists false.
func FileSignature(path string) Signature {
	info, err := os.Stat(path)
	if err != nil {
		return Signature{}
	}
	return Signature{Exists: true, Size: info.Size(), ModTime: info.ModTime()}
}

// Watcher detects that the database file was modified by another process or
// instance (e.g. synced by a cloud-drive tool) since it was last loaded
// here. Detection only — no cross-process lock is taken; on a positive
// check the caller is expected to discard in-memory state and reload.
type Watcher struct {
	mu   sync.Mutex
	path string
	last Signature
}

// NewWatcher captures the file's current signature as the loaded baseline.
func NewWatcher(path string) *Watcher {
	return &Watcher{path: path, last: FileSignature(path)}
}

// Path returns the watched file path.
func (w *Watcher) Path() string {
	return w.path
}

// Changed recomputes the signature and compares it against the baseline.
// The file appearing or disappearing both count as changes.
func (w *Watcher) Changed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return !FileSignature(w.path).Equal(w.last)
}

// Reset re-captures the baseline, to be called after the caller has
// reloaded from disk (or written through this process itself).
func (w *Watcher) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.last = FileSignature(w.path)
}
