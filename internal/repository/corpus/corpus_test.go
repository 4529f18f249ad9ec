package corpus

import (
	"testing"

	"github.com/placerank/placerank/internal/domain"
)

func TestNew_ReassignsPositionalIDs(t *testing.T) {
	c := New([]domain.Review{
		{ID: 99, PlaceID: 1, Text: "first"},
		{ID: 42, PlaceID: 2, Text: "second"},
	}, nil)

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	for i := 0; i < c.Len(); i++ {
		r, ok := c.Review(i)
		if !ok {
			t.Fatalf("Review(%d) missing", i)
		}
		if r.ID != i {
			t.Errorf("Review(%d).ID = %d, want positional", i, r.ID)
		}
	}
}

func TestReview_OutOfBounds(t *testing.T) {
	c := New([]domain.Review{{PlaceID: 1, Text: "only"}}, nil)

	if _, ok := c.Review(-1); ok {
		t.Error("Review(-1) must not exist")
	}
	if _, ok := c.Review(1); ok {
		t.Error("Review(len) must not exist")
	}
}

func TestPlace_Lookup(t *testing.T) {
	c := New(nil, []domain.Place{{ID: 7, Name: "Cafe Figaro"}})

	p, ok := c.Place(7)
	if !ok || p.Name != "Cafe Figaro" {
		t.Errorf("Place(7) = %+v, ok=%v", p, ok)
	}
	if _, ok := c.Place(8); ok {
		t.Error("Place(8) must not exist")
	}
	if c.Places() != 1 {
		t.Errorf("Places() = %d, want 1", c.Places())
	}
}
