package testutil

import (
	"testing"

	"github.com/iwvelando/divvyplan/internal/calc"
)

func TestFindDirector(t *testing.T) {
	results := []calc.DirectorResult{
		{ID: "a", Name: "Alice", TakeHome: 100},
		{ID: "b", Name: "Bob", TakeHome: 200},
	}

	tests := []struct {
		name         string
		id           string
		expectFound  bool
		expectedName string
	}{
		{name: "Find first", id: "a", expectFound: true, expectedName: "Alice"},
		{name: "Find last", id: "b", expectFound: true, expectedName: "Bob"},
		{name: "Missing id", id: "c", expectFound: false},
		{name: "Empty id", id: "", expectFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found := FindDirector(results, tt.id)
			if !tt.expectFound {
				if found != nil {
					t.Errorf("expected nil, got %+v", found)
				}
				return
			}
			if found == nil {
				t.Fatalf("expected director %q, got nil", tt.id)
			}
			if found.Name != tt.expectedName {
				t.Errorf("expected name %q, got %q", tt.expectedName, found.Name)
			}
		})
	}

	if found := FindDirector(nil, "a"); found != nil {
		t.Errorf("expected nil for empty results, got %+v", found)
	}
}

func TestFindDirectorReturnsElementPointer(t *testing.T) {
	results := []calc.DirectorResult{{ID: "a"}}
	FindDirector(results, "a").TakeHome = 42
	if results[0].TakeHome != 42 {
		t.Errorf("expected pointer into the slice, got copy")
	}
}

func TestDirectors(t *testing.T) {
	directors := Directors(3, 0.5, 0.5)
	if len(directors) != 3 {
		t.Fatalf("expected 3 directors, got %d", len(directors))
	}
	if directors[2].ID != "3" || directors[2].Name != "Director 3" {
		t.Errorf("unexpected third director %+v", directors[2])
	}
	if directors[0].SplitPercent != 0.5 || directors[2].SplitPercent != 0 {
		t.Errorf("unexpected splits %+v", directors)
	}
	if got := Directors(12)[11].ID; got != "12" {
		t.Errorf("expected id 12, got %s", got)
	}
}
