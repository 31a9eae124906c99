package tagextract

import "testing"

func intPtr(n int) *int { return &n }

func TestParseDateEmpty(t *testing.T) {
	d, err := ParseDate("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.IsZero() {
		t.Fatalf("expected zero DateParts, got %+v", d)
	}
}

func TestParseDateYearOnly(t *testing.T) {
	d, err := ParseDate("2014")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Year == nil || *d.Year != 2014 {
		t.Fatalf("expected year 2014, got %+v", d)
	}
	if d.Month != nil || d.Day != nil {
		t.Fatalf("expected no month/day, got %+v", d)
	}
}

func TestParseDateFullWithSeparatorVariants(t *testing.T) {
	for _, s := range []string{"2014-05-21", "2014/05/21", "2014.05.21"} {
		d, err := ParseDate(s)
		if err != nil {
			t.Fatalf("parse %q: %v", s, err)
		}
		if *d.Year != 2014 || *d.Month != 5 || *d.Day != 21 {
			t.Fatalf("parse %q: got %+v", s, d)
		}
	}
}

func TestParseDateTrailingSuffixIgnored(t *testing.T) {
	d, err := ParseDate("2014-05-21T00:00:00Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *d.Year != 2014 || *d.Month != 5 || *d.Day != 21 {
		t.Fatalf("got %+v", d)
	}
}

func TestParseDateInvalidMonth(t *testing.T) {
	if _, err := ParseDate("2014-13"); err == nil {
		t.Fatal("expected error for month 13")
	}
}

func TestParseDateInvalidDay(t *testing.T) {
	if _, err := ParseDate("2014-05-32"); err == nil {
		t.Fatal("expected error for day 32")
	}
}

func TestParseDateUnrecognized(t *testing.T) {
	if _, err := ParseDate("not-a-date"); err == nil {
		t.Fatal("expected error for unrecognized date")
	}
}
