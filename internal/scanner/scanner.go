// Package scanner implements the discovery → extract → upsert → cleanup
// pipeline of §4.3: walking a music folder, extracting tags, upserting
// artist/album/song/genre rows, and sweeping stale rows left behind by
// files that were moved or deleted since the last scan.
package scanner

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"github.com/sonora-music/sonora/internal/audioformat"
	"github.com/sonora-music/sonora/internal/config"
	"github.com/sonora-music/sonora/internal/coverart"
	"github.com/sonora-music/sonora/internal/objstore"
	"github.com/sonora-music/sonora/internal/store"
	"github.com/sonora-music/sonora/internal/tagextract"
)

// minFileSize skips files too small to plausibly carry audio, e.g.
// zero-byte placeholders left by an interrupted copy.
const minFileSize = 1024

// Service orchestrates scans over every configured music folder. One
// instance is shared by the admin HTTP trigger and the scan CLI.
type Service struct {
	store      *store.Store
	cfg        *config.Config
	keyMapping tagextract.KeyMapping
	workers    int
}

func New(st *store.Store, cfg *config.Config) *Service {
	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	return &Service{store: st, cfg: cfg, keyMapping: tagextract.DefaultKeyMapping(), workers: workers}
}

// ScanFolder satisfies subsonic.Scanner: it launches the scan in the
// background and returns immediately, since the admin HTTP request that
// triggers it isn't expected to block for the full scan duration. An
// empty folderID scans every configured folder.
func (s *Service) ScanFolder(folderID string) {
	go func() {
		ctx := context.Background()
		if folderID == "" {
			if err := s.ScanAll(ctx); err != nil {
				slog.Error("scan all folders failed", "err", err)
			}
			return
		}
		id, err := uuid.Parse(folderID)
		if err != nil {
			slog.Error("scan: invalid folder id", "folder_id", folderID, "err", err)
			return
		}
		folder, err := s.store.GetMusicFolder(ctx, id)
		if err != nil || folder == nil {
			slog.Error("scan: folder not found", "folder_id", folderID)
			return
		}
		if err := s.scanFolder(ctx, *folder); err != nil {
			slog.Error("scan folder failed", "folder", folder.Name, "err", err)
		}
	}()
}

// ScanAll scans every music folder in turn, returning the first error
// encountered; later folders are still attempted.
func (s *Service) ScanAll(ctx context.Context) error {
	folders, err := s.store.ListAllMusicFolders(ctx)
	if err != nil {
		return fmt.Errorf("list music folders: %w", err)
	}
	var firstErr error
	for _, f := range folders {
		if err := s.scanFolder(ctx, f); err != nil {
			slog.Error("scan folder failed", "folder", f.Name, "err", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// openFilesystem builds the Filesystem backend a MusicFolder is rooted
// on, per its fs_type column.
func (s *Service) openFilesystem(ctx context.Context, folder store.MusicFolder) (objstore.Filesystem, error) {
	switch folder.FSType {
	case store.FSLocal:
		return objstore.NewLocalFS(folder.Path)
	case store.FSS3:
		return objstore.NewS3(ctx, objstore.S3Config{
			Endpoint:      s.cfg.S3Endpoint,
			AccessKey:     s.cfg.S3AccessKey,
			SecretKey:     s.cfg.S3SecretKey,
			Bucket:        folder.Path,
			UseSSL:        s.cfg.S3UseSSL,
			PresignExpiry: time.Duration(s.cfg.PresignExpiryMins) * time.Minute,
		})
	default:
		return nil, fmt.Errorf("unknown fs_type %q for folder %s", folder.FSType, folder.Name)
	}
}

// scanFolder runs one full discovery → extract → upsert → cleanup pass
// over folder. Entries are discovered by a single producer goroutine and
// fanned out to a bounded worker pool, mirroring the ingest CLI's
// producer/consumer shape.
func (s *Service) scanFolder(ctx context.Context, folder store.MusicFolder) error {
	startedAt := time.Now()
	slog.Info("scan started", "folder", folder.Name)

	fs, err := s.openFilesystem(ctx, folder)
	if err != nil {
		return fmt.Errorf("open filesystem: %w", err)
	}
	if err := fs.CheckFolder(ctx); err != nil {
		return fmt.Errorf("check folder: %w", err)
	}

	entries := make(chan objstore.Entry, s.workers*2)
	scanErrCh := make(chan error, 1)
	go func() {
		scanErrCh <- fs.ScanFolder(ctx, "", minFileSize, entries)
	}()

	var ingested, skipped, failed int64
	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for entry := range entries {
				switch err := s.processEntry(ctx, folder, fs, entry); {
				case err == nil:
					atomic.AddInt64(&ingested, 1)
				case err == errUnsupportedFormat:
					atomic.AddInt64(&skipped, 1)
				default:
					atomic.AddInt64(&failed, 1)
					slog.Warn("scan: entry failed", "folder", folder.Name, "path", entry.RelativePath, "err", err)
				}
			}
		}()
	}
	wg.Wait()

	if err := <-scanErrCh; err != nil {
		return fmt.Errorf("walk folder: %w", err)
	}

	if err := s.cleanup(ctx, folder, startedAt); err != nil {
		return fmt.Errorf("cleanup: %w", err)
	}

	slog.Info("scan complete", "folder", folder.Name, "ingested", ingested, "skipped", skipped, "failed", failed)
	return nil
}

var errUnsupportedFormat = fmt.Errorf("unsupported format for tag extraction")

// processEntry hashes, extracts and upserts one discovered file. It is
// safe to call concurrently across entries of the same folder; upserts
// rely on Postgres-level identity rules (ON CONFLICT) rather than any
// in-process locking.
func (s *Service) processEntry(ctx context.Context, folder store.MusicFolder, fs objstore.Filesystem, entry objstore.Entry) error {
	if entry.Format != audioformat.FLAC && entry.Format != audioformat.Ogg &&
		entry.Format != audioformat.Opus && entry.Format != audioformat.M4A &&
		entry.Format != audioformat.MP3 {
		return errUnsupportedFormat
	}

	data, err := fs.Read(ctx, entry.RelativePath)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}

	md, err := tagextract.Extract(entry.Format, data, s.keyMapping)
	if err != nil {
		return fmt.Errorf("extract tags: %w", err)
	}

	contentHash := contentHashOf(data)

	albumArtistID, err := s.upsertArtists(ctx, md.Artists.Album)
	if err != nil {
		return fmt.Errorf("upsert album artists: %w", err)
	}
	songArtistIDs, err := s.upsertArtists(ctx, md.Artists.Song)
	if err != nil {
		return fmt.Errorf("upsert song artists: %w", err)
	}

	var albumMBZ *string
	if md.Album.MBZID != "" {
		albumMBZ = &md.Album.MBZID
	}
	album, err := s.store.UpsertAlbum(ctx, folder.ID, md.Album.Name,
		toStoreDate(md.Album.Date), toStoreDate(md.Album.ReleaseDate), toStoreDate(md.Album.OriginalReleaseDate),
		albumMBZ)
	if err != nil {
		return fmt.Errorf("upsert album: %w", err)
	}

	var songMBZ *string
	if md.Song.MBZID != "" {
		songMBZ = &md.Song.MBZID
	}
	song, err := s.store.UpsertSong(ctx, store.UpsertSongParams{
		Title:               coalesce(md.Song.Name, entry.RelativePath),
		AlbumID:             album.ID,
		TrackNumber:         toInt32Ptr(md.Song.TrackNumber),
		TrackTotal:          toInt32Ptr(md.Song.TrackTotal),
		DiscNumber:          toInt32Ptr(md.Song.DiscNumber),
		DiscTotal:           toInt32Ptr(md.Song.DiscTotal),
		Date:                toStoreDate(md.Song.Date),
		ReleaseDate:         toStoreDate(md.Song.ReleaseDate),
		OriginalReleaseDate: toStoreDate(md.Song.OriginalReleaseDate),
		Languages:           md.Song.Languages,
		DurationSeconds:     md.Property.DurationSeconds,
		Bitrate:             int32(md.Property.Bitrate),
		BitDepth:            toInt32PtrFromInt(md.Property.BitDepth),
		SampleRate:          int32(md.Property.SampleRate),
		ChannelCount:        int32(md.Property.ChannelCount),
		Format:              string(entry.Format),
		Size:                entry.Size,
		ContentHash:         contentHash,
		RelativePath:        entry.RelativePath,
		MusicFolderID:       folder.ID,
		MBZID:               songMBZ,
	})
	if err != nil {
		return fmt.Errorf("upsert song: %w", err)
	}

	for _, artistID := range songArtistIDs {
		if err := s.store.AttachSongArtist(ctx, song.ID, artistID); err != nil {
			return fmt.Errorf("attach song artist: %w", err)
		}
	}
	for _, artistID := range albumArtistID {
		if err := s.store.AttachSongAlbumArtist(ctx, song.ID, artistID, md.Artists.Compilation); err != nil {
			return fmt.Errorf("attach album artist: %w", err)
		}
	}
	for _, genreName := range md.Genres {
		genre, err := s.store.UpsertGenre(ctx, genreName)
		if err != nil {
			return fmt.Errorf("upsert genre: %w", err)
		}
		if err := s.store.AttachSongGenre(ctx, song.ID, genre.ID); err != nil {
			return fmt.Errorf("attach genre: %w", err)
		}
	}
	for _, lyric := range md.Lyrics {
		if err := s.store.UpsertLyric(ctx, store.Lyric{
			SongID:      song.ID,
			External:    lyric.External,
			Description: lyric.Description,
			Language:    lyric.Language,
			Synced:      lyric.Synced,
			Lines:       lyric.Lines,
			SyncedLines: toStoreSyncedLines(lyric.SyncedLines),
		}); err != nil {
			return fmt.Errorf("upsert lyric: %w", err)
		}
	}

	if md.Picture != nil && len(md.Picture.Data) > 0 {
		hash := contentHashOf(md.Picture.Data)
		if err := coverart.Write(s.cfg.CoverArtRoot, hash, md.Picture.Data); err != nil {
			return fmt.Errorf("write cover art: %w", err)
		}
		if err := s.store.UpsertCoverArt(ctx, hash, int64(len(md.Picture.Data))); err != nil {
			return fmt.Errorf("upsert cover art: %w", err)
		}
		if err := s.store.SetSongCoverArt(ctx, song.ID, hash, int64(len(md.Picture.Data))); err != nil {
			return fmt.Errorf("set song cover art: %w", err)
		}
	}

	return nil
}

// upsertArtists upserts every ArtistRef in refs, applying the ignored
// articles index rule, and returns their ids in tag order.
func (s *Service) upsertArtists(ctx context.Context, refs []tagextract.ArtistRef) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(refs))
	for _, ref := range refs {
		var mbzID *string
		if ref.MBZID != "" {
			mbzID = &ref.MBZID
		}
		a, err := s.store.UpsertArtist(ctx, ref.Name, mbzID, s.cfg.IgnoredArticles)
		if err != nil {
			return nil, err
		}
		ids = append(ids, a.ID)
	}
	return ids, nil
}

// cleanup performs the mark-and-sweep pass of §4.3: anything in folder
// not re-seen (scanned_at/upserted_at older than startedAt) by this scan
// is gone, then orphaned parent rows (albums/artists/genres with no
// remaining song) are removed.
func (s *Service) cleanup(ctx context.Context, folder store.MusicFolder, startedAt time.Time) error {
	if _, err := s.store.DeleteStaleSongs(ctx, folder.ID, startedAt); err != nil {
		return fmt.Errorf("delete stale songs: %w", err)
	}
	if err := s.store.DeleteStaleSongGenres(ctx, startedAt); err != nil {
		return fmt.Errorf("delete stale song genres: %w", err)
	}
	if err := s.store.DeleteOrphanAlbums(ctx); err != nil {
		return fmt.Errorf("delete orphan albums: %w", err)
	}
	if err := s.store.DeleteOrphanArtists(ctx); err != nil {
		return fmt.Errorf("delete orphan artists: %w", err)
	}
	if err := s.store.DeleteOrphanGenres(ctx); err != nil {
		return fmt.Errorf("delete orphan genres: %w", err)
	}

	prev, ok, err := s.store.GetConfigValue(ctx, "ignored_articles")
	if err != nil {
		return fmt.Errorf("get ignored_articles config: %w", err)
	}
	current := strings.Join(s.cfg.IgnoredArticles, " ")
	if !ok || prev != current {
		if err := s.store.RebuildArtistIndices(ctx, s.cfg.IgnoredArticles); err != nil {
			return fmt.Errorf("rebuild artist indices: %w", err)
		}
		if err := s.store.SetConfigValue(ctx, "ignored_articles", current); err != nil {
			return fmt.Errorf("set ignored_articles config: %w", err)
		}
	}
	return nil
}

// contentHashOf is the song content_hash and cover-art hash function:
// blake2b-256, matching the content-addressed cache's hash width.
func contentHashOf(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func toInt32Ptr(v *int) *int32 {
	if v == nil {
		return nil
	}
	n := int32(*v)
	return &n
}

func toInt32PtrFromInt(v *int) *int32 { return toInt32Ptr(v) }

func toStoreDate(d tagextract.DateParts) store.DateParts {
	return store.DateParts{Year: toInt32Ptr(d.Year), Month: toInt32Ptr(d.Month), Day: toInt32Ptr(d.Day)}
}

func toStoreSyncedLines(lines []tagextract.SyncedLine) []store.SyncedLine {
	out := make([]store.SyncedLine, len(lines))
	for i, l := range lines {
		out[i] = store.SyncedLine{StartMS: l.StartMS, Text: l.Text}
	}
	return out
}

func coalesce(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
