/*package nbrlist builds per-particle neighbor lists from a cell list using
the classic two-pass count-then-fill pattern: the first pass counts the
qualifying partners of every owned particle, an exclusive prefix sum converts
the counts to offsets, and the second pass fills a flat index array. Both
passes walk candidates through the same traversal function, so they always
visit the same particles in the same order; duplicating that scan would risk
overrunning the slots the first pass reserved.*/
package nbrlist

import (
	"github.com/phil-mansfield/mdcell/lib/grid"
	"github.com/phil-mansfield/mdcell/lib/thread"
)

// Policy decides whether the particle at xj counts as a neighbor of the
// particle at xi. It must be symmetric: if it keeps (xi, xj) it must keep
// (xj, xi). The geometric test is a policy rather than a hard-coded formula
// so force laws with other inclusion criteria can reuse the builder.
type Policy func(xi, xj [3]float64) bool

// WithinCutoff returns the standard Policy: the pair qualifies when the
// separation is at most cutoff.
func WithinCutoff(cutoff float64) Policy {
	r2Max := cutoff * cutoff
	return func(xi, xj [3]float64) bool {
		dx := xi[0] - xj[0]
		dy := xi[1] - xj[1]
		dz := xi[2] - xj[2]
		return dx*dx + dy*dy + dz*dz <= r2Max
	}
}

// List is the neighbor list of one tile. Offsets has length owned+1 and
// Idx[Offsets[i]:Offsets[i+1]] are the indices of particle i's neighbors.
// Neighbor indices address the tile's combined owned+imported particle
// array, and the list is not symmetry-reduced: if i and j are both owned,
// each appears in the other's run.
type List struct {
	Offsets []int32
	Idx []int32

	counts []int32
}

// traverse visits every candidate neighbor of particle i in a deterministic
// order: the 3x3x3 window of bins around i's bin, clamped at the domain
// edges, in flattened bin order, and in permutation order within each bin.
// Both of Build's passes go through here and nowhere else.
func traverse(
	i int, x [][3]float64, bins *grid.Bins, keep Policy, visit func(j int32),
) {
	iv := bins.CellVec(x[i])
	lo, hi := bins.Box.Lo, bins.Box.Hi

	ix0, ix1 := iv[0] - 1, iv[0] + 1
	if ix0 < lo[0] { ix0 = lo[0] }
	if ix1 > hi[0] { ix1 = hi[0] }
	iy0, iy1 := iv[1] - 1, iv[1] + 1
	if iy0 < lo[1] { iy0 = lo[1] }
	if iy1 > hi[1] { iy1 = hi[1] }
	iz0, iz1 := iv[2] - 1, iv[2] + 1
	if iz0 < lo[2] { iz0 = lo[2] }
	if iz1 > hi[2] { iz1 = hi[2] }

	for ix := ix0; ix <= ix1; ix++ {
		for iy := iy0; iy <= iy1; iy++ {
			for iz := iz0; iz <= iz1; iz++ {
				bin := bins.Box.Index([3]int{ ix, iy, iz })
				for p := bins.Offsets[bin]; p < bins.Offsets[bin+1]; p++ {
					j := bins.Perm[p]
					if int(j) == i { continue }
					if keep(x[i], x[j]) { visit(j) }
				}
			}
		}
	}
}

// Build constructs the neighbor lists of the first owned particles in x,
// using a cell list previously built over all of x (owned and imported).
// It may be called repeatedly on the same List to reuse its arrays.
func (l *List) Build(x [][3]float64, owned int, bins *grid.Bins, keep Policy) {
	if cap(l.counts) >= owned {
		l.counts = l.counts[:owned]
	} else {
		l.counts = make([]int32, owned)
	}
	if cap(l.Offsets) >= owned + 1 {
		l.Offsets = l.Offsets[:owned+1]
	} else {
		l.Offsets = make([]int32, owned + 1)
	}

	// Pass 1: count qualifying partners.
	thread.For(owned, func(worker, lo, hi int) {
		for i := lo; i < hi; i++ {
			count := int32(0)
			traverse(i, x, bins, keep, func(j int32) { count++ })
			l.counts[i] = count
		}
	})

	grid.ExclusiveSum(l.counts, l.Offsets)

	total := int(l.Offsets[owned])
	if cap(l.Idx) >= total {
		l.Idx = l.Idx[:total]
	} else {
		l.Idx = make([]int32, total)
	}

	// Pass 2: the identical scan, this time writing each partner into the
	// slot range reserved by pass 1.
	thread.For(owned, func(worker, lo, hi int) {
		for i := lo; i < hi; i++ {
			n := l.Offsets[i]
			traverse(i, x, bins, keep, func(j int32) {
				l.Idx[n] = j
				n++
			})
		}
	})
}

// Neighbors returns the neighbor run of owned particle i.
func (l *List) Neighbors(i int) []int32 {
	return l.Idx[l.Offsets[i]:l.Offsets[i+1]]
}
