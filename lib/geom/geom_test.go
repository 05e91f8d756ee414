package geom

import (
	"testing"
)

func TestBoxSpanAndCells(t *testing.T) {
	tests := []struct {
		b Box
		span IntVec
		cells int
		empty bool
	} {
		{Box{IntVec{0, 0, 0}, IntVec{0, 0, 0}}, IntVec{1, 1, 1}, 1, false},
		{Box{IntVec{0, 0, 0}, IntVec{7, 7, 7}}, IntVec{8, 8, 8}, 512, false},
		{Box{IntVec{2, 3, 4}, IntVec{5, 3, 6}}, IntVec{4, 1, 3}, 12, false},
		{Box{IntVec{1, 0, 0}, IntVec{0, 7, 7}}, IntVec{0, 8, 8}, 0, true},
	}

	for i := range tests {
		if span := tests[i].b.Span(); !tests[i].empty && span != tests[i].span {
			t.Errorf("%d) Expected span = %d, got %d.", i, tests[i].span, span)
		} else if cells := tests[i].b.NumCells(); cells != tests[i].cells {
			t.Errorf("%d) Expected %d cells, got %d.", i, tests[i].cells, cells)
		} else if empty := tests[i].b.Empty(); empty != tests[i].empty {
			t.Errorf("%d) Expected Empty() = %v, got %v.",
				i, tests[i].empty, empty)
		}
	}
}

func TestBoxIntersect(t *testing.T) {
	tests := []struct {
		b, u, isec Box
		empty bool
	} {
		{Box{IntVec{0, 0, 0}, IntVec{3, 3, 3}},
			Box{IntVec{2, 2, 2}, IntVec{5, 5, 5}},
			Box{IntVec{2, 2, 2}, IntVec{3, 3, 3}}, false},
		{Box{IntVec{0, 0, 0}, IntVec{3, 3, 3}},
			Box{IntVec{4, 0, 0}, IntVec{7, 3, 3}}, Box{ }, true},
		{Box{IntVec{0, 0, 0}, IntVec{3, 3, 3}},
			Box{IntVec{0, 0, 0}, IntVec{3, 3, 3}},
			Box{IntVec{0, 0, 0}, IntVec{3, 3, 3}}, false},
	}

	for i := range tests {
		isec := tests[i].b.Intersect(tests[i].u)
		if isec.Empty() != tests[i].empty {
			t.Errorf("%d) Expected Empty() = %v, got %v.",
				i, tests[i].empty, isec.Empty())
		} else if !isec.Empty() && isec != tests[i].isec {
			t.Errorf("%d) Expected intersection %v, got %v.",
				i, tests[i].isec, isec)
		}
	}
}

func TestAdjCell(t *testing.T) {
	b := Box{ IntVec{ 2, 2, 2 }, IntVec{ 5, 5, 5 } }

	lo := b.AdjCellLo(0, 1)
	if lo != (Box{ IntVec{ 1, 2, 2 }, IntVec{ 1, 5, 5 } }) {
		t.Errorf("AdjCellLo(0, 1) = %v", lo)
	}

	hi := b.AdjCellHi(2, 2)
	if hi != (Box{ IntVec{ 2, 2, 6 }, IntVec{ 5, 5, 7 } }) {
		t.Errorf("AdjCellHi(2, 2) = %v", hi)
	}

	if b.Intersects(lo) || b.Intersects(hi) {
		t.Errorf("Adjacent layers must lie outside the box.")
	}
}

func TestBoxIndex(t *testing.T) {
	b := Box{ IntVec{ 1, 1, 1 }, IntVec{ 4, 4, 4 } }
	seen := map[int]bool{ }
	for ix := b.Lo[0]; ix <= b.Hi[0]; ix++ {
		for iy := b.Lo[1]; iy <= b.Hi[1]; iy++ {
			for iz := b.Lo[2]; iz <= b.Hi[2]; iz++ {
				idx := b.Index(IntVec{ ix, iy, iz })
				if idx < 0 || idx >= b.NumCells() {
					t.Fatalf("Index(%d %d %d) = %d out of range.",
						ix, iy, iz, idx)
				} else if seen[idx] {
					t.Fatalf("Index(%d %d %d) = %d already used.",
						ix, iy, iz, idx)
				}
				seen[idx] = true
			}
		}
	}
}

func TestCellOfAndClamp(t *testing.T) {
	probLo := Vec{ }
	invDx := 2.0 // dx = 0.5

	tests := []struct {
		x Vec
		cell IntVec
	} {
		{Vec{0.1, 0.1, 0.1}, IntVec{0, 0, 0}},
		{Vec{0.6, 1.2, 2.4}, IntVec{1, 2, 4}},
		{Vec{-0.1, 0.1, 0.1}, IntVec{-1, 0, 0}},
	}

	for i := range tests {
		if cell := CellOf(tests[i].x, probLo, invDx); cell != tests[i].cell {
			t.Errorf("%d) Expected CellOf(%v) = %d, got %d.",
				i, tests[i].x, tests[i].cell, cell)
		}
	}

	b := Box{ IntVec{ 0, 0, 0 }, IntVec{ 7, 7, 7 } }
	if got := b.Clamp(IntVec{ -1, 3, 9 }); got != (IntVec{ 0, 3, 7 }) {
		t.Errorf("Clamp = %d", got)
	}
}

func TestNewDecompErrors(t *testing.T) {
	tests := []struct {
		cells, grids int
		width float64
		nProc int
		valid bool
	} {
		{16, 2, 16.0, 1, true},
		{16, 4, 1.0, 3, true},
		{15, 2, 16.0, 1, false},
		{0, 2, 16.0, 1, false},
		{16, 2, 0.0, 1, false},
		{16, 2, 16.0, 0, false},
	}

	for i := range tests {
		_, err := NewDecomp(tests[i].cells, tests[i].grids,
			tests[i].width, false, tests[i].nProc)
		if tests[i].valid && err != nil {
			t.Errorf("%d) Expected success, got error '%s'.", i, err.Error())
		} else if !tests[i].valid && err == nil {
			t.Errorf("%d) Expected an error, got none.", i)
		}
	}
}

func TestDecompBoxes(t *testing.T) {
	d, err := NewDecomp(16, 2, 16.0, false, 3)
	if err != nil { t.Fatalf(err.Error()) }

	if n := d.NumGrids(); n != 8 {
		t.Fatalf("Expected 8 grids, got %d.", n)
	}

	full := Box{ }
	counted := 0
	for grid := 0; grid < d.NumGrids(); grid++ {
		b := d.BoxOf(grid)
		if b.Span() != (IntVec{ 8, 8, 8 }) {
			t.Errorf("Grid %d has span %d.", grid, b.Span())
		}
		counted += b.NumCells()
		if grid == 0 {
			full = b
		} else {
			full = Box{ full.Lo, b.Hi }
		}
	}

	if counted != 16*16*16 {
		t.Errorf("Grid boxes cover %d cells, expected %d.", counted, 16*16*16)
	}
	if d.DomainBox() != (Box{ IntVec{ }, IntVec{ 15, 15, 15 } }) {
		t.Errorf("DomainBox() = %v", d.DomainBox())
	}

	owned := 0
	for proc := 0; proc < 3; proc++ {
		d.MyProc = proc
		owned += len(d.OwnedGrids())
	}
	d.MyProc = 0
	if owned != d.NumGrids() {
		t.Errorf("Processes own %d grids total, expected %d.",
			owned, d.NumGrids())
	}
}

func TestDecompShifts(t *testing.T) {
	d, _ := NewDecomp(16, 2, 16.0, false, 1)
	if len(d.PeriodicShifts()) != 1 || d.PeriodicShifts()[0] != (IntVec{ }) {
		t.Errorf("Non-periodic domain should only have the zero shift.")
	}

	d, _ = NewDecomp(16, 2, 16.0, true, 1)
	shifts := d.PeriodicShifts()
	if len(shifts) != 27 {
		t.Fatalf("Periodic domain has %d shifts, expected 27.", len(shifts))
	}
	zeros := 0
	for i := range shifts {
		if shifts[i] == (IntVec{ }) { zeros++ }
	}
	if zeros != 1 {
		t.Errorf("Expected exactly one zero shift, got %d.", zeros)
	}
}

func TestDecompIntersections(t *testing.T) {
	d, _ := NewDecomp(16, 2, 16.0, false, 1)

	// The grown box of grid 0 overlaps every other grid's box by one cell
	// layer.
	isecs := d.Intersections(d.BoxOf(0).Grow(1), 0)
	if len(isecs) != 8 {
		t.Fatalf("Expected 8 intersections, got %d.", len(isecs))
	}

	isecs = d.Intersections(d.BoxOf(0), 0)
	if len(isecs) != 1 || isecs[0].Grid != 0 {
		t.Errorf("An ungrown grid box should only intersect itself.")
	}
}
