package store

import (
	"testing"

	"github.com/phil-mansfield/mdcell/lib/eq"
)

func testTile() *Tile {
	t := NewTile(0)
	t.Append(1, 0, [3]float64{ 1, 2, 3 }, [3]float64{ 0.1, 0.2, 0.3 })
	t.Append(2, 0, [3]float64{ 4, 5, 6 }, [3]float64{ 0.4, 0.5, 0.6 })
	t.Append(3, 0, [3]float64{ 7, 8, 9 }, [3]float64{ 0.7, 0.8, 0.9 })
	return t
}

func TestAppend(t *testing.T) {
	tile := testTile()

	if tile.Owned() != 3 || tile.Imported() != 0 || tile.Total() != 3 {
		t.Fatalf("Got Owned() = %d, Imported() = %d, Total() = %d.",
			tile.Owned(), tile.Imported(), tile.Total())
	}
	if !eq.Int64s(tile.ID, []int64{ 1, 2, 3 }) {
		t.Errorf("IDs = %d.", tile.ID)
	}
	if !eq.Vec64s(tile.A, make([][3]float64, 3)) {
		t.Errorf("New particles must start with zero acceleration.")
	}
}

func TestAppendImported(t *testing.T) {
	tile := testTile()
	b := &Batch{
		ID: []int64{ 10, 11 },
		Proc: []int32{ 1, 1 },
		X: [][3]float64{ { 1, 1, 1 }, { 2, 2, 2 } },
		V: [][3]float64{ { 0, 0, 0 }, { 0, 0, 0 } },
	}

	tile.AppendImported(b, [3]float64{ })
	tile.AppendImported(b, [3]float64{ -16, 0, 0 })

	if tile.Owned() != 3 || tile.Imported() != 4 || tile.Total() != 7 {
		t.Fatalf("Got Owned() = %d, Imported() = %d, Total() = %d.",
			tile.Owned(), tile.Imported(), tile.Total())
	}
	if !eq.Int64s(tile.ID, []int64{ 1, 2, 3, 10, 11, 10, 11 }) {
		t.Errorf("IDs = %d.", tile.ID)
	}
	if tile.X[5] != ([3]float64{ -15, 1, 1 }) {
		t.Errorf("Shifted import has position %v.", tile.X[5])
	}
	// The originals must not have been shifted in place.
	if b.X[0] != ([3]float64{ 1, 1, 1 }) {
		t.Errorf("AppendImported() modified the source batch.")
	}

	tile.ClearImported()
	if tile.Owned() != 3 || tile.Imported() != 0 || tile.Total() != 3 {
		t.Errorf("After ClearImported(): Owned() = %d, Imported() = %d.",
			tile.Owned(), tile.Imported())
	}
	if !eq.Int64s(tile.ID, []int64{ 1, 2, 3 }) {
		t.Errorf("ClearImported() damaged owned particles: IDs = %d.", tile.ID)
	}
}

func TestAppendAfterImportPanics(t *testing.T) {
	tile := testTile()
	b := &Batch{ ID: []int64{ 10 }, Proc: []int32{ 1 },
		X: [][3]float64{ { } }, V: [][3]float64{ { } } }
	tile.AppendImported(b, [3]float64{ })

	defer func() {
		if recover() == nil {
			t.Errorf("Append() after AppendImported() should panic.")
		}
	}()
	tile.Append(4, 0, [3]float64{ }, [3]float64{ })
}

func TestGather(t *testing.T) {
	tile := testTile()
	b := &Batch{ }

	tile.Gather([]int32{ 2, 0 }, b)
	if b.Len() != 2 {
		t.Fatalf("Batch has %d particles, expected 2.", b.Len())
	}
	if !eq.Int64s(b.ID, []int64{ 3, 1 }) {
		t.Errorf("Batch IDs = %d.", b.ID)
	}
	if b.X[0] != ([3]float64{ 7, 8, 9 }) || b.V[1][0] != 0.1 {
		t.Errorf("Batch holds the wrong records: X = %v, V = %v.", b.X, b.V)
	}

	// Gathering again must fully replace the old contents.
	tile.Gather([]int32{ 1 }, b)
	if b.Len() != 1 || b.ID[0] != 2 {
		t.Errorf("Second Gather() left stale state: IDs = %d.", b.ID)
	}
}

func TestStoreTile(t *testing.T) {
	s := Store{ }
	tile := s.Tile(4)
	if tile.Grid != 4 {
		t.Errorf("Tile(4).Grid = %d.", tile.Grid)
	}
	if s.Tile(4) != tile {
		t.Errorf("Tile() created a second tile for the same grid.")
	}
}
