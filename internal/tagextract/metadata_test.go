package tagextract

import "testing"

func TestPairArtistsSurplusName(t *testing.T) {
	refs, err := pairArtists([]string{"A", "B"}, []string{"mbz-a"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(refs) != 2 || refs[0].MBZID != "mbz-a" || refs[1].MBZID != "" {
		t.Fatalf("got %+v", refs)
	}
}

func TestPairArtistsSurplusMBZID(t *testing.T) {
	if _, err := pairArtists([]string{"A"}, []string{"mbz-a", "mbz-b"}); err != ErrArtistMbzMoreThanName {
		t.Fatalf("expected ErrArtistMbzMoreThanName, got %v", err)
	}
}

func TestApplyDerivedPolicyNoAlbumArtists(t *testing.T) {
	a := &Artists{Song: []ArtistRef{{Name: "Solo Artist"}}}
	applyDerivedPolicy(a)
	if !a.Compilation {
		t.Fatal("expected compilation flag set when album artists are derived")
	}
	if len(a.Album) != 1 || a.Album[0].Name != "Solo Artist" {
		t.Fatalf("expected album artists derived from song artists, got %+v", a.Album)
	}
}

func TestApplyDerivedPolicyKeepsExplicitAlbumArtists(t *testing.T) {
	a := &Artists{
		Song:  []ArtistRef{{Name: "Featured Artist"}},
		Album: []ArtistRef{{Name: "Various Artists"}},
	}
	applyDerivedPolicy(a)
	if a.Compilation {
		t.Fatal("compilation flag should not be forced when album artists were already present")
	}
	if len(a.Album) != 1 || a.Album[0].Name != "Various Artists" {
		t.Fatalf("expected explicit album artist preserved, got %+v", a.Album)
	}
}

func TestSplitMultiSemicolon(t *testing.T) {
	got := splitMulti("Artist A; Artist B")
	want := []string{"Artist A", "Artist B"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestSplitMultiSingleValue(t *testing.T) {
	got := splitMulti("Solo Artist")
	if len(got) != 1 || got[0] != "Solo Artist" {
		t.Fatalf("got %v", got)
	}
}

func TestParseTrackDiscCombined(t *testing.T) {
	num, total, err := parseTrackDisc("3/12", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num == nil || *num != 3 || total == nil || *total != 12 {
		t.Fatalf("got num=%v total=%v", num, total)
	}
}

func TestParseTrackDiscSeparateTotal(t *testing.T) {
	num, total, err := parseTrackDisc("3", "12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *num != 3 || *total != 12 {
		t.Fatalf("got num=%v total=%v", *num, *total)
	}
}

func TestParseTrackDiscEmpty(t *testing.T) {
	num, total, err := parseTrackDisc("", "")
	if err != nil || num != nil || total != nil {
		t.Fatalf("expected nil, nil, nil; got %v %v %v", num, total, err)
	}
}
