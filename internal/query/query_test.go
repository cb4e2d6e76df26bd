package query

import (
	"encoding/json"
	"errors"
	"slices"
	"testing"

	"movieshelf/internal/catalog"
)

func rated(title string, rating float64) catalog.Record {
	return catalog.Record{Title: title, Year: catalog.YearFromInt(2000), Rating: catalog.NumericRating(rating)}
}

func decodeCollection(t *testing.T, doc string) *catalog.Collection {
	t.Helper()
	coll := catalog.NewCollection()
	if err := json.Unmarshal([]byte(doc), coll); err != nil {
		t.Fatalf("decode collection: %v", err)
	}
	return coll
}

func titles(records []catalog.Record) []string {
	out := make([]string, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.Title)
	}
	return out
}

func TestListKeepsCollectionOrder(t *testing.T) {
	coll := catalog.NewCollection(rated("B", 1), rated("A", 2), rated("C", 3))
	got := titles(List(coll))
	if want := []string{"B", "A", "C"}; !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if len(List(catalog.NewCollection())) != 0 {
		t.Fatal("expected empty list for empty catalog")
	}
}

func TestSearchIsCaseInsensitiveSubstring(t *testing.T) {
	coll := catalog.NewCollection(rated("Spider-Man", 7.3), rated("Inception", 8.8))
	got := Search(coll, "man")
	if want := []string{"Spider-Man"}; !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got := Search(coll, "INCEP"); !slices.Equal(got, []string{"Inception"}) {
		t.Fatalf("upper-case query: got %v", got)
	}
}

func TestSearchNoMatchIsEmptyNotNil(t *testing.T) {
	coll := catalog.NewCollection(rated("Heat", 8.3))
	got := Search(coll, "zzz")
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty slice, got %#v", got)
	}
}

func TestSearchFoldsUnicode(t *testing.T) {
	coll := catalog.NewCollection(rated("Ponyo", 7.6), rated("Amélie", 8.3))
	if got := Search(coll, "AMÉLIE"); !slices.Equal(got, []string{"Amélie"}) {
		t.Fatalf("got %v", got)
	}
}

func TestSortByRatingDescIsStable(t *testing.T) {
	coll := catalog.NewCollection(rated("A", 5), rated("B", 9), rated("C", 5))
	sorted, malformed := SortByRatingDesc(coll)
	if len(malformed) != 0 {
		t.Fatalf("unexpected malformed %v", malformed)
	}
	if got, want := titles(sorted), []string{"B", "A", "C"}; !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSortByRatingDescExcludesMalformed(t *testing.T) {
	coll := decodeCollection(t, `{"Good": {"year": 1999, "rating": 7}, "Bad": {"year": 2001, "rating": "great"}, "Text": {"year": 2002, "rating": "8.1"}}`)
	sorted, malformed := SortByRatingDesc(coll)
	if got, want := titles(sorted), []string{"Text", "Good"}; !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if len(malformed) != 1 || malformed[0].Title != "Bad" || malformed[0].Raw != `"great"` {
		t.Fatalf("unexpected malformed %+v", malformed)
	}
}

func TestStatisticsEvenCount(t *testing.T) {
	coll := catalog.NewCollection(rated("A", 1), rated("B", 2), rated("C", 3), rated("D", 4))
	stats, malformed, err := Statistics(coll)
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if len(malformed) != 0 {
		t.Fatalf("unexpected malformed %v", malformed)
	}
	want := Stats{Count: 4, Average: 2.5, Median: 2.5, Max: 4, Min: 1}
	if stats != want {
		t.Fatalf("got %+v, want %+v", stats, want)
	}
}

func TestStatisticsOddCountUsesMiddle(t *testing.T) {
	coll := catalog.NewCollection(rated("A", 9), rated("B", 1), rated("C", 4))
	stats, _, err := Statistics(coll)
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if stats.Median != 4 {
		t.Fatalf("median = %v, want 4", stats.Median)
	}
}

func TestStatisticsSkipsMalformedWithWarning(t *testing.T) {
	coll := decodeCollection(t, `{"Only": {"year": 2010, "rating": 7}, "Broken": {"year": 2011, "rating": "n/a"}}`)
	stats, malformed, err := Statistics(coll)
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	want := Stats{Count: 1, Average: 7, Median: 7, Max: 7, Min: 7}
	if stats != want {
		t.Fatalf("got %+v, want %+v", stats, want)
	}
	if len(malformed) != 1 || malformed[0].Title != "Broken" {
		t.Fatalf("expected one malformed warning, got %+v", malformed)
	}
}

func TestStatisticsEmptyRatingSet(t *testing.T) {
	if _, _, err := Statistics(catalog.NewCollection()); !errors.Is(err, ErrEmptyRatingSet) {
		t.Fatalf("expected ErrEmptyRatingSet, got %v", err)
	}
	coll := decodeCollection(t, `{"X": {"year": 2000, "rating": null}}`)
	_, malformed, err := Statistics(coll)
	if !errors.Is(err, ErrEmptyRatingSet) {
		t.Fatalf("expected ErrEmptyRatingSet, got %v", err)
	}
	if len(malformed) != 1 {
		t.Fatalf("expected malformed entry reported, got %+v", malformed)
	}
}

type fixedPicker struct {
	index int
	calls []int
}

func (p *fixedPicker) IntN(n int) int {
	p.calls = append(p.calls, n)
	return p.index
}

func TestRandomEntryEmpty(t *testing.T) {
	if _, err := RandomEntry(catalog.NewCollection(), nil); !errors.Is(err, ErrEmptyCollection) {
		t.Fatalf("expected ErrEmptyCollection, got %v", err)
	}
}

func TestRandomEntrySingleAlwaysReturnsIt(t *testing.T) {
	coll := catalog.NewCollection(rated("Solo", 6))
	for range 20 {
		rec, err := RandomEntry(coll, nil)
		if err != nil {
			t.Fatalf("RandomEntry: %v", err)
		}
		if rec.Title != "Solo" {
			t.Fatalf("got %q", rec.Title)
		}
	}
}

func TestRandomEntryUsesPicker(t *testing.T) {
	coll := catalog.NewCollection(rated("A", 1), rated("B", 2), rated("C", 3))
	picker := &fixedPicker{index: 2}
	rec, err := RandomEntry(coll, picker)
	if err != nil {
		t.Fatalf("RandomEntry: %v", err)
	}
	if rec.Title != "C" {
		t.Fatalf("got %q, want C", rec.Title)
	}
	if !slices.Equal(picker.calls, []int{3}) {
		t.Fatalf("picker called with %v", picker.calls)
	}
}

func TestHistogramBuckets(t *testing.T) {
	coll := decodeCollection(t, `{"A": {"rating": 1}, "B": {"rating": 1.5}, "C": {"rating": 6}, "D": {"rating": 10}, "E": {"rating": 12}, "F": {"rating": "?"}}`)
	bins, malformed := Histogram(coll, 0)
	if len(bins) != 10 {
		t.Fatalf("expected 10 bins, got %d", len(bins))
	}
	if bins[0].Lower != 1 || bins[9].Upper != 10 {
		t.Fatalf("unexpected range %v..%v", bins[0].Lower, bins[9].Upper)
	}
	counts := make([]int, len(bins))
	total := 0
	for i, b := range bins {
		counts[i] = b.Count
		total += b.Count
	}
	if total != 5 {
		t.Fatalf("expected 5 counted ratings, got %d (%v)", total, counts)
	}
	if counts[0] != 2 {
		t.Fatalf("first bin = %d, want 2 (%v)", counts[0], counts)
	}
	if counts[9] != 2 {
		t.Fatalf("last bin = %d, want 2 (%v)", counts[9], counts)
	}
	if counts[5] != 1 {
		t.Fatalf("middle bin = %d, want 1 (%v)", counts[5], counts)
	}
	if len(malformed) != 1 || malformed[0].Title != "F" {
		t.Fatalf("unexpected malformed %+v", malformed)
	}
}

func TestHistogramCapsBinCount(t *testing.T) {
	coll := catalog.NewCollection(rated("A", 1), rated("B", 10))
	bins, _ := Histogram(coll, 100_000_000_000)
	if len(bins) != MaxBins {
		t.Fatalf("expected %d bins, got %d", MaxBins, len(bins))
	}
	if bins[0].Count != 1 || bins[MaxBins-1].Count != 1 {
		t.Fatalf("unexpected edge counts %+v %+v", bins[0], bins[MaxBins-1])
	}
}
