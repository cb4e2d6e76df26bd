package query

import (
	"cmp"
	"errors"
	"math/rand/v2"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"movieshelf/internal/catalog"
)

var (
	// ErrEmptyCollection reports a random pick over a catalog with no entries.
	ErrEmptyCollection = errors.New("catalog is empty")
	// ErrEmptyRatingSet reports statistics over a catalog with no numeric ratings.
	ErrEmptyRatingSet = errors.New("no numeric ratings in catalog")
)

// Malformed identifies an entry whose rating is not a number. Such entries are
// left out of sorts and aggregates instead of failing them.
type Malformed struct {
	Title string
	Raw   string
}

// Stats summarizes the numeric ratings in a catalog.
type Stats struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
	Median  float64 `json:"median"`
	Max     float64 `json:"max"`
	Min     float64 `json:"min"`
}

// Picker supplies uniform random indexes. *rand.Rand from math/rand/v2
// satisfies it; tests inject a deterministic one.
type Picker interface {
	IntN(n int) int
}

type globalPicker struct{}

func (globalPicker) IntN(n int) int { return rand.IntN(n) }

// List returns every record in collection order.
func List(coll *catalog.Collection) []catalog.Record {
	return coll.Records()
}

// Search returns the titles containing substr, compared with Unicode case
// folding. Results follow collection order; no match is an empty slice.
func Search(coll *catalog.Collection, substr string) []string {
	fold := cases.Fold()
	needle := fold.String(substr)
	matches := []string{}
	for title := range coll.All() {
		if strings.Contains(fold.String(title), needle) {
			matches = append(matches, title)
		}
	}
	return matches
}

// SortByRatingDesc returns records ordered by rating, highest first. Ties keep
// collection order. Records with malformed ratings are excluded and reported.
func SortByRatingDesc(coll *catalog.Collection) ([]catalog.Record, []Malformed) {
	rated, malformed := partition(coll)
	slices.SortStableFunc(rated, func(a, b catalog.Record) int {
		av, _ := a.Rating.Value()
		bv, _ := b.Rating.Value()
		return cmp.Compare(bv, av)
	})
	return rated, malformed
}

// Statistics computes average, median, max and min over numeric ratings.
// Malformed ratings are skipped and reported; if none remain the result is
// ErrEmptyRatingSet.
func Statistics(coll *catalog.Collection) (Stats, []Malformed, error) {
	rated, malformed := partition(coll)
	if len(rated) == 0 {
		return Stats{}, malformed, ErrEmptyRatingSet
	}

	values := make([]float64, 0, len(rated))
	var sum float64
	for _, rec := range rated {
		v, _ := rec.Rating.Value()
		values = append(values, v)
		sum += v
	}
	slices.Sort(values)

	n := len(values)
	median := values[n/2]
	if n%2 == 0 {
		median = (values[n/2-1] + values[n/2]) / 2
	}

	return Stats{
		Count:   n,
		Average: sum / float64(n),
		Median:  median,
		Max:     values[n-1],
		Min:     values[0],
	}, malformed, nil
}

// RandomEntry picks one record uniformly. A nil picker uses the
// package-level generator from math/rand/v2.
func RandomEntry(coll *catalog.Collection, picker Picker) (catalog.Record, error) {
	records := coll.Records()
	if len(records) == 0 {
		return catalog.Record{}, ErrEmptyCollection
	}
	if picker == nil {
		picker = globalPicker{}
	}
	return records[picker.IntN(len(records))], nil
}

func partition(coll *catalog.Collection) ([]catalog.Record, []Malformed) {
	rated := make([]catalog.Record, 0, coll.Len())
	var malformed []Malformed
	for title, rec := range coll.All() {
		if rec.Rating.IsNumeric() {
			rated = append(rated, rec)
			continue
		}
		malformed = append(malformed, Malformed{Title: title, Raw: rec.Rating.Raw()})
	}
	return rated, malformed
}
