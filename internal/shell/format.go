package shell

import (
	"fmt"
	"strconv"
	"strings"

	"movieshelf/internal/catalog"
	"movieshelf/internal/query"
)

// FormatRecord renders one record as a single menu line.
func FormatRecord(rec catalog.Record) string {
	year := rec.Year.String()
	if year == "" {
		year = "unknown"
	}
	return fmt.Sprintf("%s (%s): %s", rec.Title, year, rec.Rating)
}

// FormatHistogram draws bins as horizontal text bars.
func FormatHistogram(bins []query.Bin) string {
	var b strings.Builder
	b.WriteString("Histogram of movie ratings\n")
	for _, bin := range bins {
		fmt.Fprintf(&b, "%4.1f-%4.1f | %-*s %d\n", bin.Lower, bin.Upper, histogramWidth(bins), strings.Repeat("#", bin.Count), bin.Count)
	}
	return b.String()
}

func histogramWidth(bins []query.Bin) int {
	width := 1
	for _, bin := range bins {
		width = max(width, bin.Count)
	}
	return width
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func titlesRated(coll *catalog.Collection, score float64) []string {
	var out []string
	for title, rec := range coll.All() {
		if v, ok := rec.Rating.Value(); ok && v == score {
			out = append(out, title)
		}
	}
	return out
}

func lookupMessage(title string, err error) string {
	return fmt.Sprintf("Could not add %q: %v", title, err)
}
