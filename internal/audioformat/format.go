// Package audioformat names the audio container/codec formats the rest of
// the system understands, shared by the filesystem scanner, the tag
// extractor and the transcoder so all three agree on one vocabulary.
package audioformat

import "strings"

type Format string

const (
	FLAC Format = "flac"
	MP3  Format = "mp3"
	AAC  Format = "aac"
	Opus Format = "opus"
	Ogg  Format = "ogg"
	WAV  Format = "wav"
	WMA  Format = "wma"
	M4A  Format = "m4a"
	Raw  Format = "raw"
)

var byExtension = map[string]Format{
	".flac": FLAC,
	".mp3":  MP3,
	".m4a":  M4A,
	".m4b":  M4A,
	".aac":  AAC,
	".opus": Opus,
	".ogg":  Ogg,
	".oga":  Ogg,
	".wav":  WAV,
	".wma":  WMA,
}

// FromExtension maps a file extension (with or without leading dot, any
// case) to a known audio format. ok is false for unsupported extensions.
func FromExtension(ext string) (Format, bool) {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	f, ok := byExtension[ext]
	return f, ok
}

// MIME returns the Content-Type for a format as served over HTTP.
func (f Format) MIME() string {
	switch f {
	case FLAC:
		return "audio/flac"
	case MP3:
		return "audio/mpeg"
	case AAC, M4A:
		return "audio/mp4"
	case Opus:
		return "audio/opus"
	case Ogg:
		return "audio/ogg"
	case WAV:
		return "audio/wav"
	case WMA:
		return "audio/x-ms-wma"
	default:
		return "application/octet-stream"
	}
}

// Transcodable lists the formats the transcoder accepts as a target,
// per the streaming & transcoding component.
var Transcodable = map[Format]bool{
	AAC:  true,
	FLAC: true,
	MP3:  true,
	Opus: true,
	WAV:  true,
	WMA:  true,
}
