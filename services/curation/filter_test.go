package curation

import (
	"testing"

	"reelyseries/models"
)

func TestIsEligibleForTopSurfaces(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want bool
	}{
		{"plain movie", Record{Type: models.MediaTypeMovie, OriginalLanguage: "en", GenreIDs: []int64{28, 12}}, true},
		{"blocked language movie", Record{Type: models.MediaTypeMovie, OriginalLanguage: "hi"}, false},
		{"blocked language upper case", Record{Type: models.MediaTypeMovie, OriginalLanguage: " JA "}, false},
		{"animation movie", Record{Type: models.MediaTypeMovie, OriginalLanguage: "en", GenreIDs: []int64{35, 16}}, false},
		{"movie ignores origin country", Record{Type: models.MediaTypeMovie, OriginalLanguage: "en", OriginCountries: []string{"JP"}}, true},
		{"tv blocked country", Record{Type: models.MediaTypeTV, OriginalLanguage: "en", OriginCountries: []string{"US", "kr"}}, false},
		{"tv animation", Record{Type: models.MediaTypeTV, GenreIDs: []int64{16}}, false},
		{"tv allowed", Record{Type: models.MediaTypeTV, OriginalLanguage: "ro", OriginCountries: []string{"RO"}}, true},
		{"missing fields", Record{}, true},
		{"missing fields tv", Record{Type: models.MediaTypeTV}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsEligibleForTopSurfaces(tt.rec); got != tt.want {
				t.Fatalf("IsEligibleForTopSurfaces(%+v) = %v, want %v", tt.rec, got, tt.want)
			}
			// Same input, same answer.
			if again := IsEligibleForTopSurfaces(tt.rec); again != tt.want {
				t.Fatalf("second call returned %v", again)
			}
		})
	}
}

func TestFilterEligiblePreservesOrder(t *testing.T) {
	recs := []Record{
		{Type: models.MediaTypeMovie, OriginalLanguage: "en"},
		{Type: models.MediaTypeMovie, OriginalLanguage: "ko"},
		{Type: models.MediaTypeTV, OriginalLanguage: "es"},
		{Type: models.MediaTypeTV, OriginCountries: []string{"IN"}},
		{Type: models.MediaTypeMovie, OriginalLanguage: "fr"},
	}
	got := FilterEligible(recs, func(r Record) Record { return r })
	if len(got) != 3 {
		t.Fatalf("expected 3 eligible records, got %d: %+v", len(got), got)
	}
	want := []string{"en", "es", "fr"}
	for i, lang := range want {
		if got[i].OriginalLanguage != lang {
			t.Errorf("result[%d]: expected %q, got %q", i, lang, got[i].OriginalLanguage)
		}
	}
}

func TestFilterEligibleEmpty(t *testing.T) {
	got := FilterEligible([]Record(nil), func(r Record) Record { return r })
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}
