package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"movieshelf/internal/catalog"
	"movieshelf/internal/query"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// movieView is the JSON shape of a record with its title inlined.
type movieView struct {
	Title  string         `json:"title"`
	Year   catalog.Year   `json:"year,omitzero"`
	Rating catalog.Rating `json:"rating,omitzero"`
	Poster *string        `json:"poster,omitempty"`
}

func newMovieView(rec catalog.Record) movieView {
	return movieView{Title: rec.Title, Year: rec.Year, Rating: rec.Rating, Poster: rec.Poster}
}

func movieViews(records []catalog.Record) []movieView {
	out := make([]movieView, 0, len(records))
	for _, rec := range records {
		out = append(out, newMovieView(rec))
	}
	return out
}

// outcomeView reports a mutation that changed nothing.
type outcomeView struct {
	Status string `json:"status"`
	Title  string `json:"title,omitempty"`
}

const (
	outcomeDeleted   = "deleted"
	outcomeUpdated   = "updated"
	outcomeDuplicate = "duplicate"
	outcomeNotFound  = "not_found"
	outcomeEmpty     = "empty"
)

// reportOutcome writes outcomeView under --json and a status line otherwise.
func reportOutcome(cmd *cobra.Command, ctx *commandContext, outcome, title string, kind statusKind, format string, args ...any) error {
	if ctx.jsonOutput() {
		return writeJSON(cmd, outcomeView{Status: outcome, Title: title})
	}
	printStatus(cmd.OutOrStdout(), kind, format, args...)
	return nil
}

type malformedView struct {
	Title  string `json:"title"`
	Rating string `json:"rating"`
}

func malformedViews(malformed []query.Malformed) []malformedView {
	out := make([]malformedView, 0, len(malformed))
	for _, m := range malformed {
		out = append(out, malformedView{Title: m.Title, Rating: m.Raw})
	}
	return out
}
