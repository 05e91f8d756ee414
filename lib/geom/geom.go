/*package geom provides the integer box algebra and domain decomposition that
the rest of mdcell is built on. Boxes are axis-aligned, cell-indexed regions
of the simulation volume; a Decomp splits that volume into a cubic array of
boxes and answers the ownership and intersection queries the particle engine
needs.*/
package geom

import (
	"math"
)

// IntVec is a 3-vector of cell indices.
type IntVec [3]int

// Vec is a 3-vector of physical coordinates.
type Vec [3]float64

// Add returns iv + u.
func (iv IntVec) Add(u IntVec) IntVec {
	return IntVec{ iv[0] + u[0], iv[1] + u[1], iv[2] + u[2] }
}

// Sub returns iv - u.
func (iv IntVec) Sub(u IntVec) IntVec {
	return IntVec{ iv[0] - u[0], iv[1] - u[1], iv[2] - u[2] }
}

// Box is an axis-aligned rectangular region of cells. Both Lo and Hi are
// inclusive, so a Box containing a single cell has Lo == Hi.
type Box struct {
	Lo, Hi IntVec
}

// Span returns the number of cells along each axis of b.
func (b Box) Span() IntVec {
	return IntVec{ b.Hi[0] - b.Lo[0] + 1,
		b.Hi[1] - b.Lo[1] + 1, b.Hi[2] - b.Lo[2] + 1 }
}

// NumCells returns the total number of cells in b and 0 for empty boxes.
func (b Box) NumCells() int {
	if b.Empty() { return 0 }
	span := b.Span()
	return span[0] * span[1] * span[2]
}

// Empty returns true if b contains no cells.
func (b Box) Empty() bool {
	return b.Hi[0] < b.Lo[0] || b.Hi[1] < b.Lo[1] || b.Hi[2] < b.Lo[2]
}

// Contains returns true if the cell iv is inside b.
func (b Box) Contains(iv IntVec) bool {
	for dim := 0; dim < 3; dim++ {
		if iv[dim] < b.Lo[dim] || iv[dim] > b.Hi[dim] { return false }
	}
	return true
}

// Shift translates b by s cells.
func (b Box) Shift(s IntVec) Box {
	return Box{ b.Lo.Add(s), b.Hi.Add(s) }
}

// Grow expands b by n cells on every face. Negative n shrinks the box inward
// and can produce an empty Box.
func (b Box) Grow(n int) Box {
	return Box{ IntVec{ b.Lo[0] - n, b.Lo[1] - n, b.Lo[2] - n },
		IntVec{ b.Hi[0] + n, b.Hi[1] + n, b.Hi[2] + n } }
}

// Intersect returns the cells contained in both b and u. The result may be
// empty.
func (b Box) Intersect(u Box) Box {
	out := Box{ }
	for dim := 0; dim < 3; dim++ {
		out.Lo[dim] = b.Lo[dim]
		if u.Lo[dim] > out.Lo[dim] { out.Lo[dim] = u.Lo[dim] }
		out.Hi[dim] = b.Hi[dim]
		if u.Hi[dim] < out.Hi[dim] { out.Hi[dim] = u.Hi[dim] }
	}
	return out
}

// Intersects returns true if b and u share at least one cell.
func (b Box) Intersects(u Box) bool {
	return !b.Intersect(u).Empty()
}

// AdjCellLo returns the n-cell-thick layer adjacent to b's low face along the
// given axis, just outside the box.
func (b Box) AdjCellLo(axis, n int) Box {
	out := b
	out.Hi[axis] = b.Lo[axis] - 1
	out.Lo[axis] = b.Lo[axis] - n
	return out
}

// AdjCellHi returns the n-cell-thick layer adjacent to b's high face along
// the given axis, just outside the box.
func (b Box) AdjCellHi(axis, n int) Box {
	out := b
	out.Lo[axis] = b.Hi[axis] + 1
	out.Hi[axis] = b.Hi[axis] + n
	return out
}

// Index flattens the cell iv into a row-major index relative to b's low
// corner. iv must be inside b.
func (b Box) Index(iv IntVec) int {
	span := b.Span()
	d := iv.Sub(b.Lo)
	return (d[0]*span[1] + d[1])*span[2] + d[2]
}

// CellOf returns the cell containing the position x on a uniform mesh with
// lower bound probLo and inverse cell size invDx.
func CellOf(x Vec, probLo Vec, invDx float64) IntVec {
	return IntVec{
		int(math.Floor((x[0] - probLo[0]) * invDx)),
		int(math.Floor((x[1] - probLo[1]) * invDx)),
		int(math.Floor((x[2] - probLo[2]) * invDx)),
	}
}

// Clamp returns the cell of b closest to iv.
func (b Box) Clamp(iv IntVec) IntVec {
	for dim := 0; dim < 3; dim++ {
		if iv[dim] < b.Lo[dim] {
			iv[dim] = b.Lo[dim]
		} else if iv[dim] > b.Hi[dim] {
			iv[dim] = b.Hi[dim]
		}
	}
	return iv
}
