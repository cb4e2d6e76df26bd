package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Record is one movie in the catalog. Title is the collection key and is not
// written inside the persisted value. Keys other than year, rating and poster
// are carried through a load/save round trip unchanged.
type Record struct {
	Title  string
	Year   Year
	Rating Rating
	Poster *string

	extra []field
}

type field struct {
	key   string
	value json.RawMessage
}

const (
	keyYear   = "year"
	keyRating = "rating"
	keyPoster = "poster"
)

// Extra returns the raw value of a key the catalog does not interpret.
func (r Record) Extra(key string) (json.RawMessage, bool) {
	for _, f := range r.extra {
		if f.key == key {
			return f.value, true
		}
	}
	return nil, false
}

func (r *Record) setExtra(key string, value json.RawMessage) {
	for i := range r.extra {
		if r.extra[i].key == key {
			r.extra[i].value = value
			return
		}
	}
	r.extra = append(r.extra, field{key: key, value: value})
}

// MarshalJSON writes year, rating and poster when present, followed by any
// uninterpreted keys in the order they were read.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	write := func(key string, value []byte) error {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		encoded, err := encodeJSON(key)
		if err != nil {
			return err
		}
		buf.Write(encoded)
		buf.WriteByte(':')
		buf.Write(value)
		return nil
	}

	if !r.Year.IsZero() {
		value, _ := r.Year.MarshalJSON()
		if err := write(keyYear, value); err != nil {
			return nil, err
		}
	}
	if !r.Rating.IsZero() {
		value, _ := r.Rating.MarshalJSON()
		if err := write(keyRating, value); err != nil {
			return nil, err
		}
	}
	if r.Poster != nil {
		value, err := encodeJSON(*r.Poster)
		if err != nil {
			return nil, err
		}
		if err := write(keyPoster, value); err != nil {
			return nil, err
		}
	}
	for _, f := range r.extra {
		if err := write(f.key, f.value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a record object. A poster that is not a string is kept
// as an uninterpreted key rather than failing the catalog.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("movie entry must be a JSON object")
	}

	next := Record{Title: r.Title}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("decode %q: %w", key, err)
		}
		switch key {
		case keyYear:
			if err := next.Year.UnmarshalJSON(raw); err != nil {
				return err
			}
		case keyRating:
			if err := next.Rating.UnmarshalJSON(raw); err != nil {
				return err
			}
		case keyPoster:
			var poster *string
			if err := json.Unmarshal(raw, &poster); err != nil {
				next.setExtra(key, raw)
				continue
			}
			next.Poster = poster
		default:
			next.setExtra(key, raw)
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*r = next
	return nil
}

// PosterURL returns the poster reference when one is present and non-blank.
func (r Record) PosterURL() (string, bool) {
	if r.Poster == nil {
		return "", false
	}
	poster := strings.TrimSpace(*r.Poster)
	return poster, poster != ""
}

// WithPoster returns a copy of r carrying the given poster reference. A blank
// reference clears the poster.
func (r Record) WithPoster(poster string) Record {
	poster = strings.TrimSpace(poster)
	if poster == "" {
		r.Poster = nil
		return r
	}
	r.Poster = &poster
	return r
}

// Rating is either a numeric score or a malformed value kept verbatim so it
// survives a load/save round trip untouched.
type Rating struct {
	value   float64
	numeric bool
	raw     json.RawMessage
}

// NumericRating builds a valid rating. Range checks belong to the caller.
func NumericRating(value float64) Rating {
	return Rating{value: value, numeric: true}
}

// ErrInvalidRating reports user input that is not a finite number.
var ErrInvalidRating = errors.New("rating must be a number")

// ParseRating converts user input such as "8.5" into a numeric rating.
func ParseRating(input string) (Rating, error) {
	value, ok := parseFinite(input)
	if !ok {
		return Rating{}, fmt.Errorf("%w: %q", ErrInvalidRating, input)
	}
	return NumericRating(value), nil
}

// Value returns the numeric score and whether the rating is numeric.
func (r Rating) Value() (float64, bool) {
	return r.value, r.numeric
}

// IsNumeric reports whether the rating parsed as a finite number.
func (r Rating) IsNumeric() bool {
	return r.numeric
}

// IsZero reports whether the rating carries no value at all.
func (r Rating) IsZero() bool {
	return !r.numeric && len(r.raw) == 0
}

// Raw returns the persisted representation, mainly for malformed ratings.
func (r Rating) Raw() string {
	if len(r.raw) > 0 {
		return string(r.raw)
	}
	if r.numeric {
		return formatFloat(r.value)
	}
	return ""
}

func (r Rating) String() string {
	if r.numeric {
		return formatFloat(r.value)
	}
	if len(r.raw) == 0 {
		return "n/a"
	}
	return string(r.raw)
}

// MarshalJSON writes the original bytes when the rating was loaded from disk.
func (r Rating) MarshalJSON() ([]byte, error) {
	if len(r.raw) > 0 {
		return r.raw, nil
	}
	if r.numeric {
		return []byte(formatFloat(r.value)), nil
	}
	return []byte("null"), nil
}

// UnmarshalJSON accepts JSON numbers and numeric strings; anything else is
// kept as a malformed rating rather than failing the whole catalog.
func (r *Rating) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	*r = Rating{raw: append(json.RawMessage(nil), raw...)}
	if len(raw) == 0 {
		return nil
	}
	switch raw[0] {
	case '"':
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil
		}
		if value, ok := parseFinite(text); ok {
			r.value, r.numeric = value, true
		}
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		if value, ok := parseFinite(string(raw)); ok {
			r.value, r.numeric = value, true
		}
	}
	return nil
}

// Year is opaque: TMDB may supply a placeholder such as "N/A" where a release
// year is unknown, so the persisted JSON value is preserved as-is.
type Year struct {
	raw json.RawMessage
}

// YearFromInt builds a numeric year.
func YearFromInt(year int) Year {
	return Year{raw: json.RawMessage(strconv.Itoa(year))}
}

// YearFromText builds a year from free text. Integer text is stored as a number.
func YearFromText(text string) Year {
	text = strings.TrimSpace(text)
	if text == "" {
		return Year{}
	}
	if year, err := strconv.Atoi(text); err == nil {
		return YearFromInt(year)
	}
	encoded, _ := json.Marshal(text)
	return Year{raw: encoded}
}

// Int returns the year as an integer when it is numeric.
func (y Year) Int() (int, bool) {
	text := y.String()
	if text == "" {
		return 0, false
	}
	year, err := strconv.Atoi(text)
	return year, err == nil
}

// IsZero reports whether no year was recorded.
func (y Year) IsZero() bool {
	return len(y.raw) == 0
}

func (y Year) String() string {
	if len(y.raw) == 0 || string(y.raw) == "null" {
		return ""
	}
	if y.raw[0] == '"' {
		var text string
		if err := json.Unmarshal(y.raw, &text); err == nil {
			return text
		}
	}
	return string(y.raw)
}

func (y Year) MarshalJSON() ([]byte, error) {
	if len(y.raw) == 0 {
		return []byte("null"), nil
	}
	return y.raw, nil
}

func (y *Year) UnmarshalJSON(data []byte) error {
	y.raw = append(json.RawMessage(nil), bytes.TrimSpace(data)...)
	return nil
}

func parseFinite(text string) (float64, bool) {
	value, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// encodeJSON marshals v without escaping &, < and > so hand-edited files keep
// their text as written.
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
