package gapfill

import "testing"

func Test_anchorReads_left(test *testing.T) {
	gap := 95 // lb = 90

	type testRead struct {
		read     Read
		selected bool
	}

	tests := []testRead{
		// starts in the window and crosses the boundary
		{Read{ID: "spans", Start: 45, Span: 50}, true},
		// starts exactly at the window's edge
		{Read{ID: "edge", Start: 40, Span: 55}, true},
		// starts before the window
		{Read{ID: "early", Start: 35, Span: 60}, false},
		// in the window but ends before the boundary
		{Read{ID: "short", Start: 85, Span: 4}, false},
		// starts past the boundary
		{Read{ID: "late", Start: 92, Span: 20}, false},
	}

	var reads []Read
	for _, t := range tests {
		reads = append(reads, t.read)
	}

	got := AnchorReads(reads, gap, SideLeft)

	want := map[string]bool{}
	for _, t := range tests {
		want[t.read.ID] = t.selected
	}

	seen := map[string]bool{}
	for _, r := range got {
		seen[r.ID] = true
	}
	for id, selected := range want {
		if seen[id] != selected {
			test.Errorf("left side read %s: selected=%v, want %v", id, seen[id], selected)
		}
	}
}

func Test_anchorReads_right(test *testing.T) {
	gap := 95 // rb = 110

	type testRead struct {
		read     Read
		selected bool
	}

	tests := []testRead{
		// starts just past the boundary
		{Read{ID: "close", Start: 112, Span: 30}, true},
		// starts inside the window before the boundary
		{Read{ID: "before", Start: 70, Span: 20}, true},
		// starts exactly a window past the boundary
		{Read{ID: "edge", Start: 160, Span: 10}, true},
		// too far before the boundary
		{Read{ID: "early", Start: 55, Span: 20}, false},
		// too far past the boundary
		{Read{ID: "late", Start: 165, Span: 10}, false},
	}

	var reads []Read
	for _, t := range tests {
		reads = append(reads, t.read)
	}

	got := AnchorReads(reads, gap, SideRight)

	seen := map[string]bool{}
	for _, r := range got {
		seen[r.ID] = true
	}
	for _, t := range tests {
		if seen[t.read.ID] != t.selected {
			test.Errorf("right side read %s: selected=%v, want %v", t.read.ID, seen[t.read.ID], t.selected)
		}
	}
}

func Test_anchorReads_order(test *testing.T) {
	// selection preserves the aligner's output order
	reads := []Read{
		{ID: "b", Start: 80, Span: 30},
		{ID: "a", Start: 60, Span: 40},
	}

	got := AnchorReads(reads, 95, SideLeft)
	if len(got) != 2 || got[0].ID != "b" || got[1].ID != "a" {
		test.Errorf("AnchorReads() reordered its input: %v", got)
	}
}

func Test_anchorReads_empty(test *testing.T) {
	// nothing near either boundary means neither side can extend
	reads := []Read{
		{ID: "far", Start: 500, Span: 100},
	}

	if got := AnchorReads(reads, 95, SideLeft); len(got) != 0 {
		test.Errorf("AnchorReads(left) = %v, want none", got)
	}
	if got := AnchorReads(reads, 95, SideRight); len(got) != 0 {
		test.Errorf("AnchorReads(right) = %v, want none", got)
	}
}
