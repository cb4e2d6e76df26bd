package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"movieshelf/internal/catalog"
	"movieshelf/internal/logging"
	"movieshelf/internal/query"
	"movieshelf/internal/shell"
)

func newInitCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create an empty catalog file if none exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore(cmd)
			if err != nil {
				return err
			}
			created, err := store.Init()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if created {
				printStatus(out, statusOK, "created empty catalog at %s", store.Path())
			} else {
				printStatus(out, statusInfo, "catalog already exists at %s", store.Path())
			}
			return nil
		},
	}
}

func newListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every movie in the catalog",
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
			records := query.List(coll)
			if ctx.jsonOutput() {
				return writeJSON(cmd, movieViews(records))
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d movies in total\n", len(records))
			if len(records) > 0 {
				renderMovieTable(out, records)
			}
			return nil
		},
	}
}

func newAddCommand(ctx *commandContext) *cobra.Command {
	var (
		yearFlag   string
		ratingFlag string
		lookupFlag bool
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a movie manually or by TMDB lookup",
		Long: `Add a movie to the catalog.

Without --lookup both --year and --rating are required unless enrichment is
enabled in the configuration, in which case the title is resolved through TMDB.
A failed lookup adds nothing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(args[0])
			if title == "" {
				return errors.New("title must not be empty")
			}
			manual := cmd.Flags().Changed("year") || cmd.Flags().Changed("rating")
			if manual && lookupFlag {
				return errors.New("--lookup cannot be combined with --year or --rating")
			}

			logger := ctx.commandLogger(cmd)
			out := cmd.OutOrStdout()

			var rec catalog.Record
			resolved := false
			if !manual {
				resolver, err := ctx.resolver(cmd, lookupFlag)
				if err != nil {
					return err
				}
				if resolver != nil {
					rec, err = resolver.Resolve(ctx.commandCtx(cmd), title)
					if err != nil {
						logger.Info("lookup failed, nothing added",
							logging.String(logging.FieldTitle, title),
							logging.Error(err),
						)
						return fmt.Errorf("add %q: %w", title, err)
					}
					resolved = true
				}
			}
			if !resolved {
				var err error
				rec, err = manualRecord(title, yearFlag, ratingFlag)
				if err != nil {
					return err
				}
			}

			store, err := ctx.openStore(cmd)
			if err != nil {
				return err
			}
			if err := store.Add(rec); err != nil {
				if errors.Is(err, catalog.ErrDuplicateKey) {
					return reportOutcome(cmd, ctx, outcomeDuplicate, rec.Title, statusWarn,
						"movie %q already exists; nothing changed", rec.Title)
				}
				return err
			}
			logger.Info("movie added",
				logging.String(logging.FieldTitle, rec.Title),
				logging.String("rating", rec.Rating.String()),
			)
			if ctx.jsonOutput() {
				return writeJSON(cmd, newMovieView(rec))
			}
			printStatus(out, statusOK, "added %q (%s) with rating %s", rec.Title, rec.Year, rec.Rating)
			return nil
		},
	}

	cmd.Flags().StringVar(&yearFlag, "year", "", "Release year")
	cmd.Flags().StringVar(&ratingFlag, "rating", "", "Rating between 1 and 10")
	cmd.Flags().BoolVar(&lookupFlag, "lookup", false, "Resolve year, rating and poster through TMDB")
	return cmd
}

func manualRecord(title, yearText, ratingText string) (catalog.Record, error) {
	if strings.TrimSpace(ratingText) == "" || strings.TrimSpace(yearText) == "" {
		return catalog.Record{}, errors.New("--year and --rating are required for a manual add (or use --lookup)")
	}
	rating, err := shell.ParseMenuRating(ratingText)
	if err != nil {
		return catalog.Record{}, err
	}
	year := catalog.YearFromText(yearText)
	if _, ok := year.Int(); !ok {
		return catalog.Record{}, fmt.Errorf("year must be a whole number, got %q", yearText)
	}
	return catalog.Record{Title: title, Year: year, Rating: rating}, nil
}

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <title>",
		Short: "Remove a movie by exact title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore(cmd)
			if err != nil {
				return err
			}
			title := args[0]
			if err := store.Delete(title); err != nil {
				if errors.Is(err, catalog.ErrNotFound) {
					return reportOutcome(cmd, ctx, outcomeNotFound, title, statusWarn,
						"movie %q is not in the catalog", title)
				}
				return err
			}
			ctx.commandLogger(cmd).Info("movie deleted", logging.String(logging.FieldTitle, title))
			return reportOutcome(cmd, ctx, outcomeDeleted, title, statusOK, "deleted %q", title)
		},
	}
}

func newUpdateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "update <title> <rating>",
		Short: "Change the rating of a movie",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rating, err := shell.ParseMenuRating(args[1])
			if err != nil {
				return err
			}
			store, err := ctx.openStore(cmd)
			if err != nil {
				return err
			}
			title := args[0]
			if err := store.UpdateRating(title, rating); err != nil {
				if errors.Is(err, catalog.ErrNotFound) {
					return reportOutcome(cmd, ctx, outcomeNotFound, title, statusWarn,
						"movie %q is not in the catalog", title)
				}
				return err
			}
			ctx.commandLogger(cmd).Info("rating updated",
				logging.String(logging.FieldTitle, title),
				logging.String("rating", rating.String()),
			)
			return reportOutcome(cmd, ctx, outcomeUpdated, title, statusOK, "updated %q to rating %s", title, rating)
		},
	}
}
