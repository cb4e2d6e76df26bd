package shell

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"movieshelf/internal/catalog"
)

const (
	minRating = 1
	maxRating = 10
)

// prompt writes label and reads one line. A final line without a trailing
// newline is returned normally; io.EOF is only reported when nothing was read.
func (s *Session) prompt(label string) (string, error) {
	s.printf("%s", label)
	line, err := s.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (s *Session) promptRating(label string) (catalog.Rating, bool, error) {
	line, err := s.prompt(label)
	if err != nil {
		return catalog.Rating{}, false, err
	}
	rating, err := ParseMenuRating(line)
	if err != nil {
		s.println(err.Error())
		return catalog.Rating{}, false, nil
	}
	return rating, true, nil
}

func (s *Session) promptYear(label string) (catalog.Year, bool, error) {
	line, err := s.prompt(label)
	if err != nil {
		return catalog.Year{}, false, err
	}
	year, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		s.println("Invalid year! Please enter a whole number such as 1999.")
		return catalog.Year{}, false, nil
	}
	return catalog.YearFromInt(year), true, nil
}

// ErrRatingOutOfRange reports a numeric rating outside 1-10.
var ErrRatingOutOfRange = errors.New("rating must be between 1 and 10")

// ParseMenuRating parses user input and enforces the 1-10 scale.
func ParseMenuRating(input string) (catalog.Rating, error) {
	rating, err := catalog.ParseRating(input)
	if err != nil {
		return catalog.Rating{}, err
	}
	if v, _ := rating.Value(); v < minRating || v > maxRating {
		return catalog.Rating{}, ErrRatingOutOfRange
	}
	return rating, nil
}
