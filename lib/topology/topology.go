/*package topology computes the communication geometry of each grid: the
face/edge/corner shells of its boundary region, a dense per-cell mask giving
the shell id of every boundary cell, and a table giving the remote grids that
particles in each shell must be copied to during halo exchange. The topology
only depends on the domain decomposition, so it is built once per grid and
reused for every step.*/
package topology

import (
	"fmt"

	"github.com/phil-mansfield/mdcell/lib/geom"
)

// NoShell is the mask value of cells that have no exchange destination. Cells
// in a geometrically valid shell position still get NoShell when no remote
// grid intersects that shell: particles there have nowhere to go.
const NoShell int32 = -1

// Destination is one recipient of a shell's particles. Shift is the cell
// displacement of the periodic image through which the destination touches
// the owning grid; copies must be translated by Shift (in physical units)
// when they are appended to the destination. Ordinary non-wrapped neighbors
// have a zero Shift.
type Destination struct {
	Grid int
	Shift geom.IntVec
}

// Topology is the full exchange geometry of one grid.
type Topology struct {
	Grid int
	Box geom.Box
	Halo int

	// Mask has one entry per cell of Box, holding either NoShell or a shell
	// id in [0, len(Shells)).
	Mask []int32
	// Shells holds the boundary sub-boxes, indexed by shell id.
	Shells []geom.Box
	// Dests[i] holds the destinations of shell i. Shells with no intersecting
	// remote grid have an empty destination list.
	Dests [][]Destination
}

// BoundaryBoxes returns the n-cell-deep layers adjacent to the outside of b:
// first the single-axis faces, then the two-axis edges, then the three-axis
// corners, deduplicated in first-appearance order.
func BoundaryBoxes(b geom.Box, n int) []geom.Box {
	bl := []geom.Box{ }
	seen := map[geom.Box]bool{ }
	add := func(box geom.Box) {
		if !seen[box] {
			seen[box] = true
			bl = append(bl, box)
		}
	}

	for i := 0; i < 3; i++ {
		faces := []geom.Box{ b.AdjCellHi(i, n), b.AdjCellLo(i, n) }
		add(faces[0])
		add(faces[1])
		for _, face := range faces {
			for j := 0; j < 3; j++ {
				if j == i { continue }
				edges := []geom.Box{ face.AdjCellHi(j, n), face.AdjCellLo(j, n) }
				add(edges[0])
				add(edges[1])
				for _, edge := range edges {
					for k := 0; k < 3; k++ {
						if k == i || k == j { continue }
						add(edge.AdjCellHi(k, n))
						add(edge.AdjCellLo(k, n))
					}
				}
			}
		}
	}

	return bl
}

// image is one periodic image of a remote grid that reaches into the owning
// grid's halo. region is expressed in the owning grid's coordinate frame.
type image struct {
	grid int
	region geom.Box
	shift geom.IntVec
}

// Build computes the Topology of one grid under the given domain
// decomposition and halo width. It fails when the grid's box is too small to
// carry a halo-deep boundary region on every axis, which indicates an invalid
// domain decomposition.
func Build(dom geom.Domain, grid, halo int) (*Topology, error) {
	box := dom.BoxOf(grid)
	span := box.Span()
	for dim := 0; dim < 3; dim++ {
		if span[dim] <= 2*halo {
			return nil, fmt.Errorf("Grid %d has a box with only %d cells " +
				"along axis %d, which is too small for a halo width of %d. " +
				"Use fewer grids or a finer mesh.", grid, span[dim], dim, halo)
		}
	}

	// Collect every periodic image of a remote grid that intersects this
	// grid's halo-grown box, with the image's region shifted back into this
	// grid's frame.
	images := []image{ }
	seen := map[image]bool{ }
	for _, s := range dom.PeriodicShifts() {
		shifted := box.Shift(s)
		for _, isec := range dom.Intersections(shifted, halo) {
			if isec.Grid == grid && s == (geom.IntVec{ }) { continue }

			im := image{
				grid: isec.Grid,
				region: isec.Box.Shift(geom.IntVec{ -s[0], -s[1], -s[2] }),
				shift: s,
			}
			if !seen[im] {
				seen[im] = true
				images = append(images, im)
			}
		}
	}

	shells := BoundaryBoxes(box.Grow(-halo), halo)

	top := &Topology{
		Grid: grid, Box: box, Halo: halo,
		Mask: make([]int32, box.NumCells()),
		Shells: shells,
		Dests: make([][]Destination, len(shells)),
	}
	for i := range top.Mask { top.Mask[i] = NoShell }

	for i, shell := range shells {
		dests := []Destination{ }
		destSeen := map[Destination]bool{ }
		for _, im := range images {
			if !im.region.Intersects(shell) { continue }
			d := Destination{ im.grid, im.shift }
			if !destSeen[d] {
				destSeen[d] = true
				dests = append(dests, d)
			}
		}
		top.Dests[i] = dests

		if len(dests) > 0 { top.paint(shell, int32(i)) }
	}

	return top, nil
}

// paint sets the mask to id over every cell of the shell box.
func (top *Topology) paint(shell geom.Box, id int32) {
	for ix := shell.Lo[0]; ix <= shell.Hi[0]; ix++ {
		for iy := shell.Lo[1]; iy <= shell.Hi[1]; iy++ {
			for iz := shell.Lo[2]; iz <= shell.Hi[2]; iz++ {
				top.Mask[top.Box.Index(geom.IntVec{ ix, iy, iz })] = id
			}
		}
	}
}

// ShellAt returns the shell id of the cell iv, or NoShell if the cell has no
// exchange destination. iv must be inside the grid's box.
func (top *Topology) ShellAt(iv geom.IntVec) int32 {
	return top.Mask[top.Box.Index(iv)]
}

// NumShells returns the number of shell ids, including shells with no
// destinations.
func (top *Topology) NumShells() int { return len(top.Shells) }
