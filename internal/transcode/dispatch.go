package transcode

import (
	"context"
	"fmt"
	"io"

	"github.com/sonora-music/sonora/internal/audioformat"
	"github.com/sonora-music/sonora/internal/binaryresp"
	"github.com/sonora-music/sonora/internal/objstore"
	"github.com/sonora-music/sonora/internal/store"
)

// Dispatcher implements the §4.7 decision tree over one configured cache
// directory and ffmpeg binary.
type Dispatcher struct {
	FS         objstore.Filesystem
	CacheRoot  string // empty disables the cache entirely
	FFmpegPath string
}

// Request is one stream/download call.
type Request struct {
	Song store.Song

	Format            string // target format name, or "raw" for passthrough
	BitrateKbps       int
	TimeOffsetSeconds float64
	RangeHeader       string // client's Range header, only used for raw passthrough; cached transcodes are served whole
}

// Dispatch resolves req into a binaryresp.Payload ready to write, plus a
// closer the caller must defer-close once the body has been fully read
// (or the request abandoned) to release any open file or lock.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (binaryresp.Payload, io.Closer, error) {
	if req.Format == "" || req.Format == string(audioformat.Raw) {
		return d.dispatchRaw(ctx, req)
	}

	if d.CacheRoot == "" {
		return d.dispatchTranscodeMiss(ctx, req, "")
	}

	cachePath := CachePath(d.CacheRoot, req.Format, req.BitrateKbps, req.Song.ContentHash)
	rl, err := AcquireReadLock(cachePath)
	if err != nil {
		return d.dispatchTranscodeMiss(ctx, req, cachePath)
	}
	if req.TimeOffsetSeconds <= 0 {
		return d.dispatchCacheHit(rl, req)
	}
	return d.dispatchCacheHitTrim(ctx, rl, req)
}

func (d *Dispatcher) dispatchRaw(ctx context.Context, req Request) (binaryresp.Payload, io.Closer, error) {
	size, err := d.FS.Size(ctx, req.Song.RelativePath)
	if err != nil {
		return binaryresp.Payload{}, nil, fmt.Errorf("stat source: %w", err)
	}

	var rng *binaryresp.Range
	offset := int64(0)
	if req.RangeHeader != "" {
		r, err := binaryresp.ParseRange(req.RangeHeader, size)
		if err != nil {
			return binaryresp.Payload{}, nil, err
		}
		rng = &r
		offset = r.Start
	}

	body, _, err := d.FS.ReadRange(ctx, req.Song.RelativePath, offset)
	if err != nil {
		return binaryresp.Payload{}, nil, fmt.Errorf("open source: %w", err)
	}
	payload := binaryresp.Payload{
		ContentType: audioformat.Format(req.Song.Format).MIME(),
		Size:        size,
		ETag:        req.Song.ContentHash,
		Cacheable:   true,
		Body:        body,
		Range:       rng,
	}
	return payload, body, nil
}

// dispatchCacheHit streams a fully-cached transcode at offset 0.
func (d *Dispatcher) dispatchCacheHit(rl *ReadLock, req Request) (binaryresp.Payload, io.Closer, error) {
	info, err := rl.File().Stat()
	if err != nil {
		rl.Close()
		return binaryresp.Payload{}, nil, fmt.Errorf("stat cache entry: %w", err)
	}
	payload := binaryresp.Payload{
		ContentType: audioformat.Format(req.Format).MIME(),
		Size:        info.Size(),
		ETag:        req.Song.ContentHash,
		Cacheable:   true,
		Body:        rl.File(),
	}
	return payload, rl, nil
}

// dispatchCacheHitTrim uses the cached transcode as input to a trim-only
// ffmpeg invocation; the cache is read-only here, no new entry is written.
func (d *Dispatcher) dispatchCacheHitTrim(ctx context.Context, rl *ReadLock, req Request) (binaryresp.Payload, io.Closer, error) {
	stdout, wait, err := Run(ctx, Options{
		FFmpegPath:        d.FFmpegPath,
		SourceURI:         rl.File().Name(),
		Format:            req.Format,
		TimeOffsetSeconds: req.TimeOffsetSeconds,
		TrimOnly:          true,
	})
	if err != nil {
		rl.Close()
		return binaryresp.Payload{}, nil, fmt.Errorf("spawn trim transcode: %w", err)
	}

	body := Sink(stdout, nil)
	go func() {
		_ = wait()
		rl.Close()
	}()

	payload := binaryresp.Payload{
		ContentType: audioformat.Format(req.Format).MIME(),
		Size:        -1,
		Cacheable:   false,
		Body:        body,
	}
	return payload, nopCloser{}, nil
}

// dispatchTranscodeMiss is reached when no cache read lock could be taken
// (missing entry, or the cache directory is disabled): the true source is
// fetched and a full transcode is spawned. When eligible, its sink tries
// to become the cache producer concurrently with streaming the response.
func (d *Dispatcher) dispatchTranscodeMiss(ctx context.Context, req Request, cachePath string) (binaryresp.Payload, io.Closer, error) {
	source, err := d.FS.TranscodeInput(ctx, req.Song.RelativePath)
	if err != nil {
		return binaryresp.Payload{}, nil, fmt.Errorf("resolve transcode input: %w", err)
	}

	stdout, wait, err := Run(ctx, Options{
		FFmpegPath:        d.FFmpegPath,
		SourceURI:         source,
		Format:            req.Format,
		BitrateKbps:       req.BitrateKbps,
		TimeOffsetSeconds: req.TimeOffsetSeconds,
	})
	if err != nil {
		return binaryresp.Payload{}, nil, fmt.Errorf("spawn transcode: %w", err)
	}

	var wl *WriteLock
	if cachePath != "" && req.TimeOffsetSeconds <= 0 {
		wl, _ = AcquireWriteLock(cachePath) // nil on failure: stream-only, no error surfaced
	}

	body := Sink(stdout, wl)
	go func() { _ = wait() }()

	payload := binaryresp.Payload{
		ContentType: audioformat.Format(req.Format).MIME(),
		Size:        -1,
		Cacheable:   false,
		Body:        body,
	}
	return payload, nopCloser{}, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
