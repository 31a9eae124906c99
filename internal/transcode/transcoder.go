package transcode

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
)

// codecFor maps a target format name (§4.7's AAC|FLAC|MP3|Opus|WAV|WMA)
// to the ffmpeg encoder and container muxer that produce it.
var codecFor = map[string]struct{ codec, muxer string }{
	"aac":  {"aac", "adts"},
	"flac": {"flac", "flac"},
	"mp3":  {"libmp3lame", "mp3"},
	"opus": {"libopus", "opus"},
	"wav":  {"pcm_s16le", "wav"},
	"wma":  {"wmav2", "asf"},
}

// Options describes one transcode invocation.
type Options struct {
	FFmpegPath        string
	SourceURI         string // local path or presigned URL; ffmpeg reads both
	Format            string
	BitrateKbps       int
	TimeOffsetSeconds float64
	// TrimOnly is set when SourceURI is itself an already-transcoded cache
	// entry: only an atrim filter is applied, no re-encode of format
	// (§4.7's "use the cached file as transcoder input").
	TrimOnly bool
}

// Run spawns ffmpeg and returns its stdout; the caller drains it fully
// (or cancels ctx) and then calls wait to collect the exit error.
func Run(ctx context.Context, opts Options) (stdout io.ReadCloser, wait func() error, err error) {
	enc, ok := codecFor[strings.ToLower(opts.Format)]
	if !ok {
		return nil, nil, fmt.Errorf("unsupported transcode target format %q", opts.Format)
	}

	args := []string{"-hide_banner", "-v", "error", "-nostdin"}

	if opts.TrimOnly {
		args = append(args, "-i", opts.SourceURI)
		if opts.TimeOffsetSeconds > 0 {
			args = append(args, "-af", fmt.Sprintf("atrim=start=%.3f", opts.TimeOffsetSeconds))
		}
		args = append(args, "-c:a", "copy")
	} else {
		if opts.TimeOffsetSeconds > 0 {
			args = append(args, "-ss", fmt.Sprintf("%.3f", opts.TimeOffsetSeconds))
		}
		args = append(args,
			"-i", opts.SourceURI,
			"-map", "0:a:0",
			"-vn",
			"-c:a", enc.codec,
			"-b:a", strconv.Itoa(opts.BitrateKbps)+"k",
		)
	}
	args = append(args, "-f", enc.muxer, "pipe:1")

	cmd := exec.CommandContext(ctx, opts.FFmpegPath, args...)
	out, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, nil, fmt.Errorf("start ffmpeg: %w", err)
	}

	errCh := make(chan []byte, 1)
	go func() {
		b, _ := io.ReadAll(stderr)
		errCh <- b
	}()

	waitFn := func() error {
		err := cmd.Wait()
		stderrBytes := <-errCh
		if err != nil {
			slog.Error("ffmpeg transcode failed", "error", err, "stderr", string(stderrBytes))
			return fmt.Errorf("ffmpeg: %w", err)
		}
		return nil
	}
	return out, waitFn, nil
}
