package main

import (
	"fmt"
	"io"
	"log/slog"

	"movieshelf/internal/catalog"
	"movieshelf/internal/logging"
	"movieshelf/internal/query"
)

func movieRows(records []catalog.Record) [][]string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		poster, ok := rec.PosterURL()
		if !ok {
			poster = "-"
		}
		rows = append(rows, []string{rec.Title, rec.Year.String(), rec.Rating.String(), poster})
	}
	return rows
}

func renderMovieTable(out io.Writer, records []catalog.Record) {
	fmt.Fprintln(out, renderTable(
		[]string{"Title", "Year", "Rating", "Poster"},
		movieRows(records),
		[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft},
	))
}

// reportMalformed logs each skipped entry and, in table mode, prints a warning.
func reportMalformed(out io.Writer, logger *slog.Logger, malformed []query.Malformed, printWarnings bool) {
	for _, m := range malformed {
		logging.WarnWithContext(logger, "skipping movie with malformed rating",
			"malformed_rating",
			logging.String(logging.FieldTitle, m.Title),
			logging.String("rating", m.Raw),
			logging.String(logging.FieldErrorHint, "run 'movieshelf update' with a numeric rating"),
			logging.String(logging.FieldImpact, "movie excluded from the result"),
		)
		if printWarnings {
			printStatus(out, statusWarn, "skipping %q: rating %s is not a number", m.Title, m.Raw)
		}
	}
}
