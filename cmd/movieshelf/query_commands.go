package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"movieshelf/internal/query"
	"movieshelf/internal/shell"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "search <text>",
		Short: "Find movies whose title contains text, ignoring case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore(cmd)
			if err != nil {
				return err
			}
			coll, err := store.Load()
			if err != nil {
				return err
			}
			matches := query.Search(coll, args[0])
			if ctx.jsonOutput() {
				return writeJSON(cmd, matches)
			}
			out := cmd.OutOrStdout()
			if len(matches) == 0 {
				printStatus(out, statusInfo, "no movie matches %q", args[0])
				return nil
			}
			for _, title := range matches {
				fmt.Fprintln(out, title)
			}
			return nil
		},
	}
}

func newSortCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sort",
		Short: "List movies by rating, best first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore(cmd)
			if err != nil {
				return err
			}
			coll, err := store.Load()
			if err != nil {
				return err
			}
			sorted, malformed := query.SortByRatingDesc(coll)
			out := cmd.OutOrStdout()
			reportMalformed(out, ctx.commandLogger(cmd), malformed, !ctx.jsonOutput())
			if ctx.jsonOutput() {
				return writeJSON(cmd, struct {
					Movies  []movieView     `json:"movies"`
					Skipped []malformedView `json:"skipped"`
				}{movieViews(sorted), malformedViews(malformed)})
			}
			if len(sorted) == 0 {
				printStatus(out, statusInfo, "no rated movies to sort")
				return nil
			}
			renderMovieTable(out, sorted)
			return nil
		},
	}
}

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show average, median, best and worst rating",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore(cmd)
			if err != nil {
				return err
			}
			coll, err := store.Load()
			if err != nil {
				return err
			}
			stats, malformed, err := query.Statistics(coll)
			out := cmd.OutOrStdout()
			reportMalformed(out, ctx.commandLogger(cmd), malformed, !ctx.jsonOutput())
			if errors.Is(err, query.ErrEmptyRatingSet) {
				if ctx.jsonOutput() {
					return writeJSON(cmd, struct {
						Count   int             `json:"count"`
						Skipped []malformedView `json:"skipped"`
					}{0, malformedViews(malformed)})
				}
				printStatus(out, statusInfo, "no rated movies to summarize")
				return nil
			}
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, struct {
					query.Stats
					Skipped []malformedView `json:"skipped"`
				}{stats, malformedViews(malformed)})
			}
			rows := [][]string{
				{"Movies rated", strconv.Itoa(stats.Count)},
				{"Average", formatScore(stats.Average)},
				{"Median", formatScore(stats.Median)},
				{"Best", formatScore(stats.Max)},
				{"Worst", formatScore(stats.Min)},
			}
			fmt.Fprintln(out, renderTable([]string{"Statistic", "Rating"}, rows, []columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}
}

func newRandomCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "random",
		Short: "Pick a random movie",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore(cmd)
			if err != nil {
				return err
			}
			coll, err := store.Load()
			if err != nil {
				return err
			}
			rec, err := query.RandomEntry(coll, nil)
			if errors.Is(err, query.ErrEmptyCollection) {
				return reportOutcome(cmd, ctx, outcomeEmpty, "", statusInfo, "the catalog is empty")
			}
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, newMovieView(rec))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Your movie for tonight: %s\n", shell.FormatRecord(rec))
			return nil
		},
	}
}

func newHistogramCommand(ctx *commandContext) *cobra.Command {
	var bins int

	cmd := &cobra.Command{
		Use:   "histogram",
		Short: "Show how ratings are distributed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if bins <= 0 || bins > query.MaxBins {
				return fmt.Errorf("--bins must be between 1 and %d, got %d", query.MaxBins, bins)
			}
			store, err := ctx.openStore(cmd)
			if err != nil {
				return err
			}
			coll, err := store.Load()
			if err != nil {
				return err
			}
			buckets, malformed := query.Histogram(coll, bins)
			out := cmd.OutOrStdout()
			reportMalformed(out, ctx.commandLogger(cmd), malformed, !ctx.jsonOutput())
			if ctx.jsonOutput() {
				return writeJSON(cmd, buckets)
			}
			fmt.Fprint(out, shell.FormatHistogram(buckets))
			return nil
		},
	}

	cmd.Flags().IntVar(&bins, "bins", query.DefaultBins, "Number of equal-width buckets across the 1-10 scale")
	return cmd
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
