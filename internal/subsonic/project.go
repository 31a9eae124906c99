package subsonic

import (
	"github.com/sonora-music/sonora/internal/library"
)

func projectArtist(a library.ArtistSummary) artist {
	return artist{
		ID:         ArtistID(a.ID),
		Name:       a.Name,
		CoverArt:   ArtistID(a.ID),
		AlbumCount: a.AlbumCount,
	}
}

func projectArtistWithAlbums(d library.ArtistDetail) artistWithAlbums {
	out := artistWithAlbums{artist: projectArtist(d.ArtistSummary)}
	out.Album = make([]album, len(d.Albums))
	for i, al := range d.Albums {
		out.Album[i] = projectAlbum(al)
	}
	return out
}

func projectAlbum(a library.AlbumSummary) album {
	year := 0
	if a.Year != nil {
		year = int(*a.Year)
	}
	return album{
		ID:            AlbumID(a.ID),
		Name:          a.Name,
		Artist:        a.ArtistName,
		ArtistID:      ArtistID(a.ArtistID),
		CoverArt:      AlbumID(a.ID),
		SongCount:     a.SongCount,
		Duration:      roundSeconds(a.DurationSeconds),
		Created:       a.Created.UTC().Format(iso8601),
		Year:          year,
		IsCompilation: a.IsCompilation,
	}
}

func projectAlbumWithSongs(d library.AlbumDetail) albumWithSongs {
	out := albumWithSongs{album: projectAlbum(d.AlbumSummary)}
	out.Song = make([]song, len(d.Songs))
	for i, sg := range d.Songs {
		out.Song[i] = projectSong(sg)
	}
	return out
}

func projectSong(sg library.Song) song {
	year := 0
	if sg.Year != nil {
		year = int(*sg.Year)
	}
	track := 0
	if sg.TrackNumber != nil {
		track = int(*sg.TrackNumber)
	}
	disc := 0
	if sg.DiscNumber != nil {
		disc = int(*sg.DiscNumber)
	}
	return song{
		ID:          SongID(sg.ID),
		Parent:      AlbumID(sg.AlbumID),
		IsDir:       false,
		Title:       sg.Title,
		Album:       sg.AlbumName,
		Artist:      sg.ArtistName,
		Track:       track,
		Year:        year,
		Genre:       sg.Genre,
		CoverArt:    SongID(sg.ID),
		Size:        sg.Size,
		ContentType: sg.ContentType,
		Suffix:      sg.Suffix,
		Duration:    roundSeconds(sg.DurationSeconds),
		BitRate:     int(sg.Bitrate),
		Path:        sg.Path,
		DiscNumber:  disc,
		AlbumID:     AlbumID(sg.AlbumID),
		ArtistID:    ArtistID(sg.ArtistID),
		Type:        "music",
	}
}

func projectGenre(g library.Genre) genre {
	return genre{Value: g.Value, SongCount: g.SongCount, AlbumCount: g.AlbumCount}
}

func projectPlaylist(p library.Playlist, owner string) playlist {
	return playlist{
		ID:        p.ID.String(),
		Name:      p.Name,
		Comment:   p.Comment,
		Owner:     owner,
		Public:    p.Public,
		SongCount: p.SongCount,
		Duration:  roundSeconds(p.DurationSeconds),
		Created:   p.Created.UTC().Format(iso8601),
	}
}

func roundSeconds(s float64) int {
	return int(s + 0.5)
}

const iso8601 = "2006-01-02T15:04:05.000Z"
