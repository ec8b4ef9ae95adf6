package directory

import (
	"strings"
	"testing"
)

func TestFindByAddress_CaseInsensitive(t *testing.T) {
	d := Default()

	w := d.FindByAddress("C21R6y1fqFUNCEzNj6VcEnjTE2y6Cq7GWLfZzkbBm7a")
	if w == nil {
		t.Fatal("expected seed wallet to be found")
	}

	lower := d.FindByAddress(strings.ToLower(w.Address))
	if lower == nil {
		t.Fatal("lookup must be case-insensitive")
	}
	if lower.Label != w.Label {
		t.Fatalf("label mismatch: %s vs %s", lower.Label, w.Label)
	}
}

func TestFindByAddress_Unknown(t *testing.T) {
	d := Default()
	if w := d.FindByAddress(strings.Repeat("9", 40)); w != nil {
		t.Fatalf("expected nil for unknown address, got %+v", w)
	}
}

func TestByCategory(t *testing.T) {
	d := Default()
	whales := d.ByCategory("whale")
	if len(whales) == 0 {
		t.Fatal("expected at least one whale in the seed data")
	}
	for _, w := range whales {
		if w.Category != "whale" {
			t.Fatalf("filter leaked category %s", w.Category)
		}
	}
}

func TestValidCategory(t *testing.T) {
	for _, id := range []string{"whale", "dev", "influencer", "institution", "trader"} {
		if !ValidCategory(id) {
			t.Fatalf("%s must be a valid category", id)
		}
	}
	if ValidCategory("degen") {
		t.Fatal("unknown category must be invalid")
	}
	if ValidCategory("") {
		t.Fatal("empty category must be invalid")
	}
}
