// Package objstore is the uniform interface over local POSIX filesystems
// and S3-compatible object stores that the scanner, library query and
// transcoder read music folders and presigned-URL inputs through.
package objstore

import (
	"context"
	"io"
	"time"

	"github.com/sonora-music/sonora/internal/audioformat"
)

// Entry describes one audio file discovered while scanning a folder.
type Entry struct {
	Format       audioformat.Format
	RelativePath string
	Size         int64
	LastModified time.Time
}

// Filesystem is implemented by LocalFS and S3Store. Every operation is
// fallible; a non-existent path on a stat-like call is distinguished from
// other errors so Exists can return false without error.
type Filesystem interface {
	// CheckFolder verifies the root is reachable.
	CheckFolder(ctx context.Context) error

	// ScanFolder streams Entry records for every file under prefix whose
	// size exceeds minSize and whose extension maps to a supported audio
	// format. Traversal order is unspecified. ScanFolder returns once
	// traversal finishes or ctx is cancelled; it closes out itself.
	ScanFolder(ctx context.Context, prefix string, minSize int64, out chan<- Entry) error

	// Read returns the full contents of path.
	Read(ctx context.Context, path string) ([]byte, error)

	// ReadToString is Read decoded as UTF-8 text.
	ReadToString(ctx context.Context, path string) (string, error)

	// Exists reports whether path is present, without error on absence.
	Exists(ctx context.Context, path string) (bool, error)

	// Size reports the byte length of path.
	Size(ctx context.Context, path string) (int64, error)

	// ReadRange opens path for reading starting at offset, returning the
	// total object size alongside the stream for Content-Range headers.
	ReadRange(ctx context.Context, path string, offset int64) (io.ReadCloser, int64, error)

	// TranscodeInput returns a URI the transcoder can open directly: the
	// native path for local storage, a presigned HTTPS URL for S3.
	TranscodeInput(ctx context.Context, path string) (string, error)
}

// ErrNotExist is returned by Read/Size/ReadRange for a missing path.
type ErrNotExist struct{ Path string }

func (e *ErrNotExist) Error() string { return "objstore: no such path: " + e.Path }
