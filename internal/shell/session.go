package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"movieshelf/internal/catalog"
	"movieshelf/internal/logging"
	"movieshelf/internal/query"
	"movieshelf/internal/render"
)

// ErrExit is returned by Execute for CommandExit.
var ErrExit = errors.New("exit requested")

// Resolver resolves a free-text title into a record to add.
type Resolver interface {
	Resolve(ctx context.Context, title string) (catalog.Record, error)
}

// Options holds everything a Session needs. Only Store is required.
type Options struct {
	Store     *catalog.Store
	Resolver  Resolver
	Picker    query.Picker
	PagePath  string
	PageTitle string
	In        io.Reader
	Out       io.Writer
	Logger    *slog.Logger
}

// Session drives the interactive menu over a catalog store.
type Session struct {
	store     *catalog.Store
	resolver  Resolver
	picker    query.Picker
	pagePath  string
	pageTitle string
	in        *bufio.Reader
	out       io.Writer
	logger    *slog.Logger
}

// NewSession validates opts and builds a session.
func NewSession(opts Options) (*Session, error) {
	if opts.Store == nil {
		return nil, errors.New("catalog store required")
	}
	in := opts.In
	if in == nil {
		in = strings.NewReader("")
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Session{
		store:     opts.Store,
		resolver:  opts.Resolver,
		picker:    opts.Picker,
		pagePath:  opts.PagePath,
		pageTitle: opts.PageTitle,
		in:        bufio.NewReader(in),
		out:       out,
		logger:    logging.NewComponentLogger(logger, "shell"),
	}, nil
}

// Run prints the menu and executes choices until exit or end of input.
// Storage failures are reported and the loop continues.
func (s *Session) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(s.out, MenuText())
		line, err := s.prompt(fmt.Sprintf("Enter your choice (0-%d): ", len(commandNames)-1))
		if errors.Is(err, io.EOF) {
			s.println("Bye!")
			return nil
		}
		if err != nil {
			return err
		}
		cmd, err := ParseCommand(line)
		if err != nil {
			s.println(err.Error())
			continue
		}
		err = s.Execute(ctx, cmd)
		switch {
		case errors.Is(err, ErrExit):
			s.println("Bye!")
			return nil
		case errors.Is(err, io.EOF):
			s.println("Bye!")
			return nil
		case err != nil:
			s.logger.Error("command failed",
				logging.String(logging.FieldCommand, cmd.String()),
				logging.Error(err),
			)
			s.println("Error: " + err.Error())
		}
	}
}

// Execute runs one command, prompting for its arguments. Expected outcomes
// such as a duplicate title or an empty catalog are printed, not returned.
func (s *Session) Execute(ctx context.Context, cmd Command) error {
	switch cmd {
	case CommandExit:
		return ErrExit
	case CommandList:
		return s.list()
	case CommandAdd:
		return s.add(ctx)
	case CommandDelete:
		return s.delete()
	case CommandUpdate:
		return s.update()
	case CommandStats:
		return s.stats()
	case CommandRandom:
		return s.random()
	case CommandSearch:
		return s.search()
	case CommandSort:
		return s.sort()
	case CommandHistogram:
		return s.histogram()
	case CommandRender:
		return s.render()
	default:
		return fmt.Errorf("%w: %d", ErrInvalidChoice, int(cmd))
	}
}

func (s *Session) list() error {
	coll, err := s.store.Load()
	if err != nil {
		return err
	}
	s.printf("%d movies in total\n", coll.Len())
	for _, rec := range query.List(coll) {
		s.println(FormatRecord(rec))
	}
	return nil
}

func (s *Session) add(ctx context.Context) error {
	title, err := s.prompt("Enter new movie name: ")
	if err != nil {
		return err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		s.println("Movie name must not be empty.")
		return nil
	}

	var rec catalog.Record
	if s.resolver != nil {
		rec, err = s.resolver.Resolve(ctx, title)
		if err != nil {
			s.logger.Info("lookup failed, nothing added",
				logging.String(logging.FieldTitle, title),
				logging.Error(err),
			)
			s.println(lookupMessage(title, err))
			return nil
		}
	} else {
		rating, ok, err := s.promptRating("Enter new movie rating (1-10): ")
		if err != nil || !ok {
			return err
		}
		year, ok, err := s.promptYear("Enter new movie year: ")
		if err != nil || !ok {
			return err
		}
		rec = catalog.Record{Title: title, Year: year, Rating: rating}
	}

	if err := s.store.Add(rec); err != nil {
		if errors.Is(err, catalog.ErrDuplicateKey) {
			s.printf("Movie %q already exists!\n", rec.Title)
			return nil
		}
		return err
	}
	s.printf("Movie %q successfully added (rating %s).\n", rec.Title, rec.Rating)
	return s.echoUpdated()
}

func (s *Session) delete() error {
	input, err := s.prompt("Enter movie name to delete: ")
	if err != nil {
		return err
	}
	title, ok, err := s.resolveTitle(input)
	if err != nil || !ok {
		return err
	}
	if err := s.store.Delete(title); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			s.printf("Movie %q doesn't exist!\n", title)
			return nil
		}
		return err
	}
	s.printf("Movie %q successfully deleted.\n", title)
	return s.echoUpdated()
}

func (s *Session) update() error {
	input, err := s.prompt("Enter movie name to update: ")
	if err != nil {
		return err
	}
	title, ok, err := s.resolveTitle(input)
	if err != nil || !ok {
		return err
	}
	rating, ok, err := s.promptRating("Enter new movie rating (1-10): ")
	if err != nil || !ok {
		return err
	}
	if err := s.store.UpdateRating(title, rating); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			s.printf("Movie %q doesn't exist!\n", title)
			return nil
		}
		return err
	}
	s.printf("Movie %q rating updated to %s.\n", title, rating)
	return s.echoUpdated()
}

func (s *Session) stats() error {
	coll, err := s.store.Load()
	if err != nil {
		return err
	}
	stats, malformed, err := query.Statistics(coll)
	s.warnMalformed(malformed)
	if errors.Is(err, query.ErrEmptyRatingSet) {
		s.println("No rated movies to summarize.")
		return nil
	}
	if err != nil {
		return err
	}
	s.printf("Average rating: %s\n", formatScore(stats.Average))
	s.printf("Median rating: %s\n", formatScore(stats.Median))
	s.printf("Best rating: %s (%s)\n", formatScore(stats.Max), strings.Join(titlesRated(coll, stats.Max), ", "))
	s.printf("Worst rating: %s (%s)\n", formatScore(stats.Min), strings.Join(titlesRated(coll, stats.Min), ", "))
	return nil
}

func (s *Session) random() error {
	coll, err := s.store.Load()
	if err != nil {
		return err
	}
	rec, err := query.RandomEntry(coll, s.picker)
	if errors.Is(err, query.ErrEmptyCollection) {
		s.println("No movies found in the database.")
		return nil
	}
	if err != nil {
		return err
	}
	s.printf("Your movie for tonight: %s\n", FormatRecord(rec))
	return nil
}

func (s *Session) search() error {
	needle, err := s.prompt("Enter part of movie name: ")
	if err != nil {
		return err
	}
	coll, err := s.store.Load()
	if err != nil {
		return err
	}
	matches := query.Search(coll, strings.TrimSpace(needle))
	if len(matches) == 0 {
		s.println("No match was found for the entered movie!")
		return nil
	}
	for _, title := range matches {
		rec, _ := coll.Get(title)
		s.println(FormatRecord(rec))
	}
	return nil
}

func (s *Session) sort() error {
	coll, err := s.store.Load()
	if err != nil {
		return err
	}
	sorted, malformed := query.SortByRatingDesc(coll)
	s.warnMalformed(malformed)
	if len(sorted) == 0 {
		s.println("No rated movies to sort.")
		return nil
	}
	for _, rec := range sorted {
		s.println(FormatRecord(rec))
	}
	return nil
}

func (s *Session) histogram() error {
	coll, err := s.store.Load()
	if err != nil {
		return err
	}
	bins, malformed := query.Histogram(coll, query.DefaultBins)
	s.warnMalformed(malformed)
	fmt.Fprint(s.out, FormatHistogram(bins))
	return nil
}

func (s *Session) render() error {
	coll, err := s.store.Load()
	if err != nil {
		return err
	}
	if err := render.WritePage(s.pagePath, s.pageTitle, coll); err != nil {
		return err
	}
	s.printf("Website was generated successfully: %s\n", s.pagePath)
	return nil
}

func (s *Session) echoUpdated() error {
	s.println("Here is the updated list:")
	return s.list()
}

// resolveTitle maps user input onto a stored title: exact match first, then a
// unique case-insensitive match. Unknown input is returned as typed so the
// store reports it as not found.
func (s *Session) resolveTitle(input string) (string, bool, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		s.println("Movie name must not be empty.")
		return "", false, nil
	}
	coll, err := s.store.Load()
	if err != nil {
		return "", false, err
	}
	if coll.Has(input) {
		return input, true, nil
	}
	var candidates []string
	for title := range coll.All() {
		if strings.EqualFold(title, input) {
			candidates = append(candidates, title)
		}
	}
	switch len(candidates) {
	case 1:
		return candidates[0], true, nil
	case 0:
		return input, true, nil
	default:
		s.printf("%q matches several movies (%s); enter the exact name.\n", input, strings.Join(candidates, ", "))
		return "", false, nil
	}
}

func (s *Session) warnMalformed(malformed []query.Malformed) {
	for _, m := range malformed {
		logging.WarnWithContext(s.logger, "skipping movie with malformed rating",
			"malformed_rating",
			logging.String(logging.FieldTitle, m.Title),
			logging.String("rating", m.Raw),
			logging.String(logging.FieldErrorHint, "update the movie with a numeric rating"),
			logging.String(logging.FieldImpact, "movie excluded from the result"),
		)
		s.printf("Warning: skipping %q, rating %s is not a number.\n", m.Title, m.Raw)
	}
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func (s *Session) println(line string) {
	fmt.Fprintln(s.out, line)
}
