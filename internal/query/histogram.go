package query

import (
	"math"

	"movieshelf/internal/catalog"
)

const (
	histogramLow  = 1.0
	histogramHigh = 10.0

	// DefaultBins is used when no bin count is given.
	DefaultBins = 10
	// MaxBins bounds the bin count.
	MaxBins = 100
)

// Bin is one equal-width bucket of the rating histogram. Lower is inclusive;
// Upper is exclusive except for the last bucket.
type Bin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Histogram buckets numeric ratings into bins equal-width ranges across the
// 1-10 rating scale. Ratings outside the scale land in the nearest edge bin.
// A non-positive bin count means DefaultBins; counts above MaxBins are capped.
func Histogram(coll *catalog.Collection, bins int) ([]Bin, []Malformed) {
	if bins <= 0 {
		bins = DefaultBins
	}
	bins = min(bins, MaxBins)
	width := (histogramHigh - histogramLow) / float64(bins)
	out := make([]Bin, bins)
	for i := range out {
		out[i] = Bin{
			Lower: histogramLow + float64(i)*width,
			Upper: histogramLow + float64(i+1)*width,
		}
	}

	rated, malformed := partition(coll)
	for _, rec := range rated {
		v, _ := rec.Rating.Value()
		idx := int(math.Floor((v - histogramLow) / width))
		idx = max(0, min(idx, bins-1))
		out[idx].Count++
	}
	return out, malformed
}
