/*package store owns the particle data of the engine. Particles live in
per-grid Tiles as structure-of-arrays records. Each Tile holds the particles
the grid owns followed by a separately-tracked run of read-only copies
imported from neighboring grids during halo exchange. Imported copies only
exist to complete neighbor force calculations near a grid boundary: they are
never integrated and never written back to their origin.*/
package store

import (
	"fmt"
)

// Tile stores every particle currently resident on one grid. The first
// Owned() entries of each array are the grid's own particles; the next
// Imported() entries are halo copies. All arrays always have the same length.
type Tile struct {
	Grid int

	ID []int64
	Proc []int32
	X, V, A [][3]float64

	owned, imported int
}

// Batch is a contiguous run of particle records detached from any Tile. It is
// the unit halo exchange moves between grids. Accelerations are not carried:
// imported copies are only ever read for positions.
type Batch struct {
	ID []int64
	Proc []int32
	X, V [][3]float64
}

// Store maps grid ids to Tiles.
type Store map[int]*Tile

// NewTile creates an empty Tile for a grid.
func NewTile(grid int) *Tile {
	return &Tile{ Grid: grid,
		ID: []int64{ }, Proc: []int32{ },
		X: [][3]float64{ }, V: [][3]float64{ }, A: [][3]float64{ } }
}

// Tile returns the Tile of a grid, creating it if the grid has never stored
// particles before.
func (s Store) Tile(grid int) *Tile {
	t, ok := s[grid]
	if !ok {
		t = NewTile(grid)
		s[grid] = t
	}
	return t
}

// Owned returns the number of particles the tile's grid owns.
func (t *Tile) Owned() int { return t.owned }

// Imported returns the number of halo copies currently appended to the tile.
func (t *Tile) Imported() int { return t.imported }

// Total returns Owned() + Imported(), the populated length of the tile's
// arrays.
func (t *Tile) Total() int { return t.owned + t.imported }

// resize grows the populated length of every array to n without touching
// existing records.
func (t *Tile) resize(n int) {
	if cap(t.ID) >= n {
		t.ID, t.Proc = t.ID[:n], t.Proc[:n]
		t.X, t.V, t.A = t.X[:n], t.V[:n], t.A[:n]
		return
	}

	grow := n - len(t.ID)
	t.ID = append(t.ID, make([]int64, grow)...)
	t.Proc = append(t.Proc, make([]int32, grow)...)
	t.X = append(t.X, make([][3]float64, grow)...)
	t.V = append(t.V, make([][3]float64, grow)...)
	t.A = append(t.A, make([][3]float64, grow)...)
}

// Append adds an owned particle to the tile. Owned particles may only be
// appended while the imported region is empty, since imports always sit after
// the owned records.
func (t *Tile) Append(id int64, proc int32, x, v [3]float64) {
	if t.imported != 0 {
		panic(fmt.Sprintf("Internal error: Append() called on tile %d " +
			"while it holds %d imported particles.", t.Grid, t.imported))
	}

	t.resize(t.owned + 1)
	i := t.owned
	t.ID[i], t.Proc[i] = id, proc
	t.X[i], t.V[i], t.A[i] = x, v, [3]float64{ }
	t.owned++
}

// AppendImported appends halo copies from a Batch, translating every position
// by shift. The shift is the physical displacement of the periodic image
// through which the source grid touches this one; it is zero for ordinary
// neighbors.
func (t *Tile) AppendImported(b *Batch, shift [3]float64) {
	n := b.Len()
	base := t.owned + t.imported
	t.resize(base + n)

	for i := 0; i < n; i++ {
		j := base + i
		t.ID[j], t.Proc[j] = b.ID[i], b.Proc[i]
		t.X[j] = [3]float64{ b.X[i][0] + shift[0],
			b.X[i][1] + shift[1], b.X[i][2] + shift[2] }
		t.V[j] = b.V[i]
		t.A[j] = [3]float64{ }
	}
	t.imported += n
}

// ClearImported discards every halo copy on the tile. Owned particles are
// untouched.
func (t *Tile) ClearImported() {
	t.resize(t.owned)
	t.imported = 0
}

// Len returns the number of particles in the batch.
func (b *Batch) Len() int { return len(b.ID) }

// resize grows the populated length of every batch array to n.
func (b *Batch) resize(n int) {
	if cap(b.ID) >= n {
		b.ID, b.Proc, b.X, b.V = b.ID[:n], b.Proc[:n], b.X[:n], b.V[:n]
		return
	}

	grow := n - len(b.ID)
	b.ID = append(b.ID, make([]int64, grow)...)
	b.Proc = append(b.Proc, make([]int32, grow)...)
	b.X = append(b.X, make([][3]float64, grow)...)
	b.V = append(b.V, make([][3]float64, grow)...)
}

// Gather copies the owned particles of t at the given indices into b,
// replacing b's previous contents. The indices must address owned particles.
func (t *Tile) Gather(idx []int32, b *Batch) {
	b.resize(len(idx))
	for i := range idx {
		j := idx[i]
		if int(j) >= t.owned {
			panic(fmt.Sprintf("Internal error: Gather() on tile %d asked " +
				"for particle %d, but only %d are owned.", t.Grid, j, t.owned))
		}
		b.ID[i], b.Proc[i] = t.ID[j], t.Proc[j]
		b.X[i], b.V[i] = t.X[j], t.V[j]
	}
}
