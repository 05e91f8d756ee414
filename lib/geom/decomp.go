package geom

/* decomp.go splits the simulation volume into a cubic array of equal boxes
and assigns each box to a process. It plays the role of the external domain
geometry service: the topology and exchange stages only consume it through
ownership, shift, and intersection queries. */

import (
	"fmt"
)

// Isec is a single result of an intersection query: the id of the
// intersecting grid and the intersected region.
type Isec struct {
	Grid int
	Box Box
}

// Domain is the interface the particle engine uses to ask geometry questions.
// Decomp is the only implementation in this repository, but the engine never
// relies on anything beyond this interface.
type Domain interface {
	// NumGrids returns the number of grids the volume is split into.
	NumGrids() int
	// BoxOf returns the box of cells belonging to a grid.
	BoxOf(grid int) Box
	// OwnerOf returns the rank of the process that owns a grid.
	OwnerOf(grid int) int
	// PeriodicShifts returns every cell shift under which the volume maps
	// onto itself, including the zero shift. Non-periodic domains return only
	// the zero shift.
	PeriodicShifts() []IntVec
	// Intersections returns every grid whose box, grown by grow cells,
	// intersects b, along with the intersected regions.
	Intersections(b Box, grow int) []Isec
}

// Decomp splits a cubic domain of cells^3 mesh cells into grids^3 equal
// boxes. Boxes are assigned to the nProc processes round-robin. Decomp is
// immutable once created: there is no regridding.
type Decomp struct {
	Cells int     // mesh cells per side of the full domain
	Grids int     // grid boxes per side
	Width float64 // physical side length of the domain
	Periodic bool
	NProc, MyProc int

	boxes []Box
	shifts []IntVec
}

// NewDecomp creates a Decomp. grids must evenly divide cells, and every
// process in [0, nProc) owns roughly the same number of grids.
func NewDecomp(
	cells, grids int, width float64, periodic bool, nProc int,
) (*Decomp, error) {
	if cells <= 0 || grids <= 0 {
		return nil, fmt.Errorf("The domain must have positive Cells and " +
			"Grids, but Cells = %d and Grids = %d.", cells, grids)
	} else if cells % grids != 0 {
		return nil, fmt.Errorf("Grids = %d does not evenly divide " +
			"Cells = %d.", grids, cells)
	} else if width <= 0 {
		return nil, fmt.Errorf("The domain Width must be positive, but is " +
			"%g.", width)
	} else if nProc < 1 {
		return nil, fmt.Errorf("The process count must be positive, but is " +
			"%d.", nProc)
	}

	d := &Decomp{ Cells: cells, Grids: grids, Width: width,
		Periodic: periodic, NProc: nProc }

	side := cells / grids
	d.boxes = make([]Box, grids*grids*grids)
	for i := range d.boxes {
		ix := i % grids
		iy := (i / grids) % grids
		iz := i / (grids * grids)
		lo := IntVec{ ix*side, iy*side, iz*side }
		hi := IntVec{ lo[0] + side - 1, lo[1] + side - 1, lo[2] + side - 1 }
		d.boxes[i] = Box{ lo, hi }
	}

	if periodic {
		for sz := -1; sz <= 1; sz++ {
			for sy := -1; sy <= 1; sy++ {
				for sx := -1; sx <= 1; sx++ {
					d.shifts = append(d.shifts,
						IntVec{ sx*cells, sy*cells, sz*cells })
				}
			}
		}
	} else {
		d.shifts = []IntVec{ { } }
	}

	return d, nil
}

func (d *Decomp) NumGrids() int { return len(d.boxes) }
func (d *Decomp) BoxOf(grid int) Box { return d.boxes[grid] }
func (d *Decomp) OwnerOf(grid int) int { return grid % d.NProc }
func (d *Decomp) PeriodicShifts() []IntVec { return d.shifts }

// DomainBox returns the box spanning the full simulation volume.
func (d *Decomp) DomainBox() Box {
	return Box{ IntVec{ }, IntVec{ d.Cells - 1, d.Cells - 1, d.Cells - 1 } }
}

// ProbLo returns the physical lower bound of the domain.
func (d *Decomp) ProbLo() Vec { return Vec{ } }

// ProbHi returns the physical upper bound of the domain.
func (d *Decomp) ProbHi() Vec { return Vec{ d.Width, d.Width, d.Width } }

// CellSize returns the physical side length of a single mesh cell.
func (d *Decomp) CellSize() float64 { return d.Width / float64(d.Cells) }

// InvCellSize returns 1 / CellSize().
func (d *Decomp) InvCellSize() float64 { return float64(d.Cells) / d.Width }

// PhysShift converts a cell shift to a physical translation.
func (d *Decomp) PhysShift(s IntVec) Vec {
	dx := d.CellSize()
	return Vec{ float64(s[0])*dx, float64(s[1])*dx, float64(s[2])*dx }
}

// OwnedGrids returns the ids of the grids owned by MyProc, in increasing
// order.
func (d *Decomp) OwnedGrids() []int {
	out := []int{ }
	for grid := range d.boxes {
		if d.OwnerOf(grid) == d.MyProc { out = append(out, grid) }
	}
	return out
}

func (d *Decomp) Intersections(b Box, grow int) []Isec {
	out := []Isec{ }
	for grid := range d.boxes {
		isec := d.boxes[grid].Grow(grow).Intersect(b)
		if !isec.Empty() {
			out = append(out, Isec{ grid, isec })
		}
	}
	return out
}
