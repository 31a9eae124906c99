package transcode

import (
	"path/filepath"
	"strconv"
)

// CachePath builds the content-addressed cache location of §4.7:
// <cache_root>/<fmt>/<bitrate>/<song_hash_prefix>/<song_hash>.
func CachePath(root, format string, bitrateKbps int, songHash string) string {
	prefix := songHash
	if len(prefix) > 2 {
		prefix = songHash[:2]
	}
	return filepath.Join(root, format, strconv.Itoa(bitrateKbps), prefix, songHash)
}
