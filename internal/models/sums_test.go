package models

import (
	"testing"

	"pbcsv/internal/value"
)

func TestTreeSums(t *testing.T) {
	tree := NewTree([]string{"Time", "Score", "Note"})
	c := tree.AddCategory("Game", "game", NoCategory)

	r1 := tree.AddRun(Run{Category: c, Sums: []string{"Sum of Best"}, Values: value.Values{
		"Time":  value.Number("59.5", 59.5, 1, false),
		"Score": value.Number("100", 100, 0, false),
		"Note":  value.String("hi"),
	}})
	r2 := tree.AddRun(Run{Category: c, Sums: []string{"Sum of Best", "Any%"}, Values: value.Values{
		"Time":  value.Time("1:00.25", 60.25, 2, false),
		"Score": value.Number("5x", 50, 0, true),
	}})
	r3 := tree.AddRun(Run{Category: c, Values: value.Values{
		"Time": value.Time("10:00", 600, 0, false),
	}})

	sums := tree.Sums([]RunID{r1, r2, r3}, tree.ValueNames)
	if len(sums) != 2 {
		t.Fatalf("len(Sums) = %d, want 2", len(sums))
	}

	best := sums[0]
	if best.Label != "Sum of Best" || len(best.Runs) != 2 {
		t.Errorf("sums[0] = %q with %d runs, want %q with 2", best.Label, len(best.Runs), "Sum of Best")
	}

	tm := best.Values["Time"]
	if tm.Kind != value.KindTime || tm.Number != 119.75 || tm.Precision != 2 || tm.Approximate {
		t.Errorf("Time total = %+v, want time 119.75 precision 2", tm)
	}
	if got := tm.Formatted(); got != "1:59.75" {
		t.Errorf("Time total formatted = %q, want %q", got, "1:59.75")
	}

	score := best.Values["Score"]
	if score.Kind != value.KindNumber || score.Number != 150 || !score.Approximate {
		t.Errorf("Score total = %+v, want approximate number 150", score)
	}
	if _, ok := best.Values["Note"]; ok {
		t.Error("string column should not be totalled")
	}

	if sums[1].Label != "Any%" || sums[1].Values["Time"].Number != 60.25 {
		t.Errorf("sums[1] = %+v, want Any%% with time 60.25", sums[1])
	}
}

func TestTreeSums_None(t *testing.T) {
	tree := NewTree([]string{"Time"})
	c := tree.AddCategory("Game", "game", NoCategory)
	r := tree.AddRun(Run{Category: c})

	if sums := tree.Sums([]RunID{r}, tree.ValueNames); len(sums) != 0 {
		t.Errorf("Sums() = %v, want none", sums)
	}
}
