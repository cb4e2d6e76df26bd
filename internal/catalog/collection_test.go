package catalog

import (
	"encoding/json"
	"testing"
)

func TestCollectionPreservesInsertionOrder(t *testing.T) {
	input := `{"Zodiac": {"year": 2007, "rating": 7.7}, "Alien": {"year": 1979, "rating": 8.5}, "Memento": {"year": 2000, "rating": 8.4}}`
	coll := NewCollection()
	if err := json.Unmarshal([]byte(input), coll); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	var titles []string
	for title := range coll.All() {
		titles = append(titles, title)
	}
	want := []string{"Zodiac", "Alien", "Memento"}
	if len(titles) != len(want) {
		t.Fatalf("got %v, want %v", titles, want)
	}
	for i := range want {
		if titles[i] != want[i] {
			t.Fatalf("got %v, want %v", titles, want)
		}
	}

	out, err := json.Marshal(coll)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"Zodiac":{"year":2007,"rating":7.7},"Alien":{"year":1979,"rating":8.5},"Memento":{"year":2000,"rating":8.4}}` {
		t.Fatalf("unexpected encoding %s", out)
	}
}

func TestCollectionPutReplacesInPlace(t *testing.T) {
	coll := NewCollection(
		Record{Title: "A", Rating: NumericRating(1)},
		Record{Title: "B", Rating: NumericRating(2)},
	)
	coll.Put(Record{Title: "A", Rating: NumericRating(5)})

	recs := coll.Records()
	if len(recs) != 2 || recs[0].Title != "A" || recs[1].Title != "B" {
		t.Fatalf("unexpected order %+v", recs)
	}
	if v, _ := recs[0].Rating.Value(); v != 5 {
		t.Fatalf("expected replaced rating, got %v", v)
	}
}

func TestCollectionRemove(t *testing.T) {
	coll := NewCollection(Record{Title: "A"}, Record{Title: "B"}, Record{Title: "C"})
	if !coll.Remove("B") {
		t.Fatal("expected B to be removed")
	}
	if coll.Remove("B") {
		t.Fatal("second remove should report false")
	}
	recs := coll.Records()
	if len(recs) != 2 || recs[0].Title != "A" || recs[1].Title != "C" {
		t.Fatalf("unexpected records %+v", recs)
	}
}

func TestCollectionRejectsNonObject(t *testing.T) {
	coll := NewCollection()
	if err := json.Unmarshal([]byte(`[1, 2]`), coll); err == nil {
		t.Fatal("expected error for array document")
	}
}

func TestCollectionDuplicateKeyKeepsLastValue(t *testing.T) {
	coll := NewCollection()
	input := `{"A": {"rating": 1}, "B": {"rating": 2}, "A": {"rating": 3}}`
	if err := json.Unmarshal([]byte(input), coll); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if coll.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", coll.Len())
	}
	rec, _ := coll.Get("A")
	if v, _ := rec.Rating.Value(); v != 3 {
		t.Fatalf("expected last value, got %v", v)
	}
	if coll.Records()[0].Title != "A" {
		t.Fatal("expected first position kept")
	}
}
