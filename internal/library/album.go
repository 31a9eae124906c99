package library

import (
	"context"

	"github.com/google/uuid"

	"github.com/sonora-music/sonora/internal/apperr"
	"github.com/sonora-music/sonora/internal/store"
)

// albumSummary projects a store.Album into the wire-facing summary,
// filling in the rollup artist (§4.5's "album artists of an album"
// ordering) and the duration/song-count invariant.
func (s *Service) albumSummary(ctx context.Context, al store.Album, userID uuid.UUID) (AlbumSummary, error) {
	artists, err := s.store.ListAlbumArtists(ctx, al.ID)
	if err != nil {
		return AlbumSummary{}, apperr.Wrap(apperr.Internal, "list album artists", err)
	}
	var artistID uuid.UUID
	artistName := ""
	if len(artists) > 0 {
		artistID = artists[0].ID
		artistName = artists[0].Name
	}
	compilation, err := s.store.AlbumIsCompilation(ctx, al.ID)
	if err != nil {
		return AlbumSummary{}, apperr.Wrap(apperr.Internal, "check album compilation", err)
	}
	duration, count, err := s.store.AlbumDurationAndCount(ctx, al.ID)
	if err != nil {
		return AlbumSummary{}, apperr.Wrap(apperr.Internal, "album duration and count", err)
	}
	return AlbumSummary{
		ID:              al.ID,
		Name:            al.Name,
		Year:            al.Date.Year,
		ArtistID:        artistID,
		ArtistName:      artistName,
		SongCount:       count,
		DurationSeconds: duration,
		Created:         al.ScannedAt,
		IsCompilation:   compilation,
	}, nil
}

// Album returns one album with its songs, or NotFound if albumID doesn't
// exist or isn't visible to userID.
func (s *Service) Album(ctx context.Context, userID, albumID uuid.UUID) (*AlbumDetail, error) {
	al, songs, err := s.store.GetAlbumForUser(ctx, albumID, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "get album", err)
	}
	if al == nil {
		return nil, apperr.New(apperr.NotFound, "album not found")
	}
	summary, err := s.albumSummary(ctx, *al, userID)
	if err != nil {
		return nil, err
	}
	detail := &AlbumDetail{AlbumSummary: summary}
	for _, row := range songs {
		song, err := s.songDetail(ctx, row, summary.ArtistID, summary.ArtistName, al.Name)
		if err != nil {
			return nil, err
		}
		detail.Songs = append(detail.Songs, song)
	}
	return detail, nil
}

// AlbumListType is the closed set of getAlbumList2 list types; the
// handler validates the client string against this set before it ever
// reaches a query (§4.5, §7 BadRequest on an unrecognized type).
type AlbumListType string

const (
	AlbumListRandom      AlbumListType = "random"
	AlbumListNewest      AlbumListType = "newest"
	AlbumListFrequent    AlbumListType = "frequent"
	AlbumListRecent      AlbumListType = "recent"
	AlbumListByName      AlbumListType = "alphabeticalByName"
	AlbumListByArtist    AlbumListType = "alphabeticalByArtist"
	AlbumListByYear      AlbumListType = "byYear"
	AlbumListByGenre     AlbumListType = "byGenre"
)

var validAlbumListTypes = map[AlbumListType]bool{
	AlbumListRandom: true, AlbumListNewest: true, AlbumListFrequent: true,
	AlbumListRecent: true, AlbumListByName: true, AlbumListByArtist: true,
	AlbumListByYear: true, AlbumListByGenre: true,
}

// AlbumListParams is the validated input to AlbumList2.
type AlbumListParams struct {
	Type      AlbumListType
	Size      int
	Offset    int
	FromYear  *int
	ToYear    *int
	Genre     *string
	FolderIDs []uuid.UUID
}

func (s *Service) AlbumList2(ctx context.Context, userID uuid.UUID, p AlbumListParams) ([]AlbumSummary, error) {
	if !validAlbumListTypes[p.Type] {
		return nil, apperr.New(apperr.BadRequest, "unsupported album list type: "+string(p.Type))
	}
	folders, err := s.resolveFolders(ctx, userID, p.FolderIDs)
	if err != nil {
		return nil, err
	}
	rows, err := s.store.ListAlbumList2(ctx, userID, store.AlbumListParams{
		Type: string(p.Type), Size: p.Size, Offset: p.Offset,
		FromYear: p.FromYear, ToYear: p.ToYear, Genre: p.Genre, FolderIDs: folders,
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "list albums", err)
	}
	out := make([]AlbumSummary, 0, len(rows))
	for _, al := range rows {
		sum, err := s.albumSummary(ctx, al, userID)
		if err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	return out, nil
}
