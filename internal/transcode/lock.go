// Package transcode implements the cache-and-transcoder dispatch of
// §4.7: a content-addressed cache directory guarded by POSIX advisory
// locks, and an ffmpeg-backed transcoder whose output fans out to the
// HTTP response and, when eligible, a new cache entry.
package transcode

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// WriteLock is held by the single process allowed to populate a cache
// entry. Acquiring it requires both creating the file (O_CREATE|O_EXCL)
// and taking the advisory lock — either failing means someone else is
// already producing this entry.
type WriteLock struct {
	file *os.File
	lock *flock.Flock
	path string
}

// AcquireWriteLock attempts to become the producer for path, creating its
// parent directories first. A non-nil error means the caller must
// transcode to the response stream only — it must not write a cache entry.
func AcquireWriteLock(path string) (*WriteLock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create cache file: %w", err)
	}
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil || !ok {
		f.Close()
		os.Remove(path)
		if err == nil {
			err = fmt.Errorf("cache file already locked")
		}
		return nil, err
	}
	return &WriteLock{file: f, lock: fl, path: path}, nil
}

func (w *WriteLock) Write(p []byte) (int, error) { return w.file.Write(p) }

// Abort deletes the partial cache file on release, per §4.7's "transcoder
// spawn failure" rule — a half-written entry is never exposed to readers.
func (w *WriteLock) Abort() {
	w.lock.Unlock()
	w.file.Close()
	os.Remove(w.path)
}

// Close releases the lock, leaving the now-complete file in place.
func (w *WriteLock) Close() error {
	w.lock.Unlock()
	return w.file.Close()
}

// ReadLock is a shared lock on an existing, fully-written cache entry.
type ReadLock struct {
	file *os.File
	lock *flock.Flock
}

// AcquireReadLock refuses a zero-length file (the producer may still be
// starting) or one still held exclusively, matching §4.7's reader rule.
func AcquireReadLock(path string) (*ReadLock, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.Size() == 0 {
		f.Close()
		return nil, fmt.Errorf("cache file empty: producer still writing")
	}
	fl := flock.New(path)
	ok, err := fl.TryRLock()
	if err != nil || !ok {
		f.Close()
		if err == nil {
			err = fmt.Errorf("cache file exclusively locked")
		}
		return nil, err
	}
	return &ReadLock{file: f, lock: fl}, nil
}

func (r *ReadLock) File() *os.File { return r.file }

func (r *ReadLock) Close() error {
	r.lock.Unlock()
	return r.file.Close()
}
