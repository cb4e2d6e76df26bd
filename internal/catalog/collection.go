package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
)

// Collection maps titles to records. Insertion order is preserved across a
// load/save round trip but carries no meaning; display ordering is computed by
// the query layer.
type Collection struct {
	order   []string
	records map[string]Record
}

// NewCollection returns an empty collection.
func NewCollection(records ...Record) *Collection {
	c := &Collection{records: make(map[string]Record, len(records))}
	for _, rec := range records {
		c.Put(rec)
	}
	return c
}

// Len returns the number of records.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// Has reports whether title is present. Comparison is case-sensitive.
func (c *Collection) Has(title string) bool {
	if c == nil {
		return false
	}
	_, ok := c.records[title]
	return ok
}

// Get returns the record stored under title.
func (c *Collection) Get(title string) (Record, bool) {
	if c == nil {
		return Record{}, false
	}
	rec, ok := c.records[title]
	return rec, ok
}

// Put inserts rec, or replaces the existing record in place.
func (c *Collection) Put(rec Record) {
	if c.records == nil {
		c.records = make(map[string]Record)
	}
	if _, exists := c.records[rec.Title]; !exists {
		c.order = append(c.order, rec.Title)
	}
	c.records[rec.Title] = rec
}

// Remove deletes title and reports whether it was present.
func (c *Collection) Remove(title string) bool {
	if c == nil {
		return false
	}
	if _, ok := c.records[title]; !ok {
		return false
	}
	delete(c.records, title)
	for i, t := range c.order {
		if t == title {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// All iterates titles and records in collection order.
func (c *Collection) All() iter.Seq2[string, Record] {
	return func(yield func(string, Record) bool) {
		if c == nil {
			return
		}
		for _, title := range c.order {
			if !yield(title, c.records[title]) {
				return
			}
		}
	}
}

// Records returns a copy of all records in collection order.
func (c *Collection) Records() []Record {
	out := make([]Record, 0, c.Len())
	for _, rec := range c.All() {
		out = append(out, rec)
	}
	return out
}

// MarshalJSON encodes the collection as a single object keyed by title, in
// collection order.
func (c *Collection) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for title, rec := range c.All() {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		key, err := encodeJSON(title)
		if err != nil {
			return nil, fmt.Errorf("encode title %q: %w", title, err)
		}
		value, err := rec.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("encode record %q: %w", title, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a title-keyed object while keeping key order. A title
// repeated in the document keeps its first position and its last value.
func (c *Collection) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("catalog must be a JSON object keyed by title")
	}

	next := NewCollection()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		title, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v", tok)
		}
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			return fmt.Errorf("decode %q: %w", title, err)
		}
		rec.Title = title
		next.Put(rec)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	if _, err := dec.Token(); err == nil {
		return errors.New("unexpected data after catalog object")
	}

	*c = *next
	return nil
}
