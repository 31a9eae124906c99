package objstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sonora-music/sonora/internal/audioformat"
)

// LocalFS implements Filesystem over a local POSIX directory tree, rooted
// at Root. Paths passed to its methods are relative to Root.
type LocalFS struct {
	Root string
}

func NewLocalFS(root string) (*LocalFS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve local store root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create local store root: %w", err)
	}
	return &LocalFS{Root: abs}, nil
}

func (l *LocalFS) path(p string) string {
	return filepath.Join(l.Root, filepath.FromSlash(p))
}

func (l *LocalFS) CheckFolder(ctx context.Context) error {
	info, err := os.Stat(l.Root)
	if err != nil {
		return fmt.Errorf("check folder: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("check folder: %s is not a directory", l.Root)
	}
	return nil
}

func (l *LocalFS) ScanFolder(ctx context.Context, prefix string, minSize int64, out chan<- Entry) error {
	defer close(out)
	root := l.path(prefix)
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		format, ok := audioformat.FromExtension(filepath.Ext(p))
		if !ok {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.Size() <= minSize {
			return nil
		}
		rel, err := filepath.Rel(l.Root, p)
		if err != nil {
			return nil
		}
		entry := Entry{
			Format:       format,
			RelativePath: filepath.ToSlash(rel),
			Size:         info.Size(),
			LastModified: info.ModTime(),
		}
		select {
		case out <- entry:
		case <-ctx.Done():
			return ctx.Err()
		}
		return nil
	})
}

func (l *LocalFS) Read(ctx context.Context, p string) ([]byte, error) {
	b, err := os.ReadFile(l.path(p))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &ErrNotExist{Path: p}
	}
	return b, err
}

func (l *LocalFS) ReadToString(ctx context.Context, p string) (string, error) {
	b, err := l.Read(ctx, p)
	return string(b), err
}

func (l *LocalFS) Exists(ctx context.Context, p string) (bool, error) {
	_, err := os.Stat(l.path(p))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (l *LocalFS) Size(ctx context.Context, p string) (int64, error) {
	info, err := os.Stat(l.path(p))
	if errors.Is(err, fs.ErrNotExist) {
		return 0, &ErrNotExist{Path: p}
	}
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (l *LocalFS) ReadRange(ctx context.Context, p string, offset int64) (io.ReadCloser, int64, error) {
	f, err := os.Open(l.path(p))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, 0, &ErrNotExist{Path: p}
	}
	if err != nil {
		return nil, 0, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	if offset > info.Size() {
		f.Close()
		return nil, 0, fmt.Errorf("offset %d exceeds size %d", offset, info.Size())
	}
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		f.Close()
		return nil, 0, err
	}
	return f, info.Size(), nil
}

func (l *LocalFS) TranscodeInput(ctx context.Context, p string) (string, error) {
	return l.path(p), nil
}
