/*package grid builds the counting-sort cell list that accelerates neighbor
search. Each particle is assigned a flattened bin index from its position,
bin populations are counted atomically, an exclusive prefix sum turns the
counts into offsets, and an atomic-cursor scatter produces a permutation of
particle indices grouped by bin. The resulting structure is rebuilt from
scratch every step.*/
package grid

import (
	"sync/atomic"

	"github.com/phil-mansfield/mdcell/lib/geom"
	"github.com/phil-mansfield/mdcell/lib/thread"
)

// Bins is the cell list of one tile. After Build:
// Cell[i] is the flattened bin of particle i, Offsets has length numBins+1,
// and Perm[Offsets[b]:Offsets[b+1]] are the indices of the particles in bin
// b. The order of particles within one bin is unspecified, but the contents
// of every bin are independent of how the parallel work was scheduled.
type Bins struct {
	Box geom.Box // the bin space, aligned with the tile's mesh cells
	ProbLo geom.Vec
	InvDx float64

	Cell []int32
	Counts []int32
	Offsets []int32
	Perm []int32
}

// CellVec returns the bin coordinates of the position x, clamped into the bin
// box. Clamping (never wrapping) folds particles that float slightly outside
// the box into the nearest edge bin; wrapping would alias distant particles
// into bin 0. This is the single source of truth for bin coordinates: the
// neighbor list builder calls it too, so both of its passes and the binner
// always agree.
func (b *Bins) CellVec(x [3]float64) geom.IntVec {
	return b.Box.Clamp(geom.CellOf(x, b.ProbLo, b.InvDx))
}

// Build constructs the cell list of the n particles in x over the bin box.
// It may be called repeatedly on the same Bins to reuse its arrays.
func (b *Bins) Build(
	x [][3]float64, box geom.Box, probLo geom.Vec, invDx float64,
) {
	b.Box, b.ProbLo, b.InvDx = box, probLo, invDx
	n, nBins := len(x), box.NumCells()

	b.Cell = resizeInt32(b.Cell, n)
	b.Perm = resizeInt32(b.Perm, n)
	b.Counts = resizeInt32(b.Counts, nBins)
	b.Offsets = resizeInt32(b.Offsets, nBins + 1)
	for i := range b.Counts { b.Counts[i] = 0 }

	thread.For(n, func(worker, lo, hi int) {
		for i := lo; i < hi; i++ {
			c := int32(box.Index(b.CellVec(x[i])))
			b.Cell[i] = c
			atomic.AddInt32(&b.Counts[c], 1)
		}
	})

	ExclusiveSum(b.Counts, b.Offsets)

	// Reuse Counts as the per-bin write cursors for the scatter.
	copy(b.Counts, b.Offsets[:nBins])
	thread.For(n, func(worker, lo, hi int) {
		for i := lo; i < hi; i++ {
			j := atomic.AddInt32(&b.Counts[b.Cell[i]], 1) - 1
			b.Perm[j] = int32(i)
		}
	})
}

// ExclusiveSum writes the exclusive prefix sum of counts into out, which must
// have length len(counts) + 1. out[len(counts)] is the total.
func ExclusiveSum(counts, out []int32) {
	sum := int32(0)
	for i := range counts {
		out[i] = sum
		sum += counts[i]
	}
	out[len(counts)] = sum
}

// SortByKey counting-sorts the indices [0, n) of keys by their key values,
// which must all be in [0, numKeys). It returns offsets of length numKeys+1
// and a permutation of the indices grouped by key; the contiguous run of
// indices with key k is perm[offsets[k]:offsets[k+1]].
func SortByKey(keys []int32, numKeys int) (offsets, perm []int32) {
	counts := make([]int32, numKeys)
	offsets = make([]int32, numKeys + 1)
	perm = make([]int32, len(keys))

	for i := range keys { counts[keys[i]]++ }
	ExclusiveSum(counts, offsets)

	copy(counts, offsets[:numKeys])
	for i := range keys {
		perm[counts[keys[i]]] = int32(i)
		counts[keys[i]]++
	}
	return offsets, perm
}

func resizeInt32(x []int32, n int) []int32 {
	if cap(x) >= n { return x[:n] }
	x = x[:cap(x)]
	return append(x, make([]int32, n - len(x))...)
}
