/*package exchange populates each tile's imported-particle region with
up-to-date copies of the remote particles that fall inside the tile's halo.
Each step it sorts a grid's owned particles by the shell id of their cell
(using the topology mask), then copies each shell's contiguous run to every
destination registered for that shell. Local destinations are a direct
append; cross-process destinations go through the Transport capability.*/
package exchange

import (
	"fmt"

	"github.com/phil-mansfield/mdcell/lib/geom"
	"github.com/phil-mansfield/mdcell/lib/grid"
	"github.com/phil-mansfield/mdcell/lib/store"
	"github.com/phil-mansfield/mdcell/lib/thread"
	"github.com/phil-mansfield/mdcell/lib/topology"
)

// Transport moves particle batches to grids owned by other processes. shift
// is the physical translation the receiver must apply when appending, and
// must survive transit unchanged: the remote path has the same ordering and
// append semantics as the local one.
type Transport interface {
	Send(dst int, shift [3]float64, b *store.Batch) error
}

// Unsupported is the default Transport of single-process runs. Any attempt
// to send through it fails loudly instead of silently dropping particles.
type Unsupported struct{ }

func (Unsupported) Send(dst int, shift [3]float64, b *store.Batch) error {
	return fmt.Errorf("%d particles must be transferred to grid %d on a " +
		"remote process, but this run has no cross-process transport " +
		"configured.", b.Len(), dst)
}

// Loopback is a Transport that routes batches through the wire codec and
// back into a local Store. It exercises the full serialize/deliver/append
// path of a real network transport on a single machine.
type Loopback struct {
	Store store.Store
}

func (l Loopback) Send(dst int, shift [3]float64, b *store.Batch) error {
	data, err := EncodeBatch(dst, shift, b)
	if err != nil { return err }

	rdst, rshift, rb, err := DecodeBatch(data)
	if err != nil { return err }

	l.Store.Tile(rdst).AppendImported(rb, rshift)
	return nil
}

// Report holds the per-grid shell populations of one exchange: Report[g][k]
// is the number of grid g's particles that sat in shell k.
type Report map[int][]int

// Exchange rebuilds the imported regions of every tile owned by this
// process. All imported regions are cleared first, so the exchange is a
// from-scratch rebuild rather than an incremental update. Owned particles
// are keyed by the shell id of their cell (clamped into the grid box, since
// a particle may drift slightly out of its box between sorts), bucket-sorted
// by key, and each shell's run is copied to every registered destination.
func Exchange(
	s store.Store, tops map[int]*topology.Topology,
	dom *geom.Decomp, tr Transport,
) (Report, error) {
	owned := dom.OwnedGrids()

	for _, g := range owned {
		s.Tile(g).ClearImported()
	}

	rep := Report{ }
	probLo, invDx := dom.ProbLo(), dom.InvCellSize()
	batch := &store.Batch{ }

	for _, g := range owned {
		top := tops[g]
		tile := s.Tile(g)
		n := tile.Owned()

		// Key each owned particle by shell id + 1, so key 0 collects the
		// particles with no destination.
		keys := make([]int32, n)
		thread.For(n, func(worker, lo, hi int) {
			for i := lo; i < hi; i++ {
				iv := top.Box.Clamp(geom.CellOf(tile.X[i], probLo, invDx))
				keys[i] = top.ShellAt(iv) + 1
			}
		})

		numShells := top.NumShells()
		offsets, perm := grid.SortByKey(keys, numShells + 1)

		counts := make([]int, numShells)
		for k := 0; k < numShells; k++ {
			counts[k] = int(offsets[k+2] - offsets[k+1])
		}
		rep[g] = counts

		for k := 0; k < numShells; k++ {
			run := perm[offsets[k+1]:offsets[k+2]]
			if len(run) == 0 || len(top.Dests[k]) == 0 { continue }

			tile.Gather(run, batch)

			for _, dest := range top.Dests[k] {
				shift := dom.PhysShift(dest.Shift)
				if dom.OwnerOf(dest.Grid) == dom.MyProc {
					s.Tile(dest.Grid).AppendImported(batch, shift)
				} else if err := tr.Send(dest.Grid, shift, batch); err != nil {
					return nil, fmt.Errorf("Halo exchange failed for grid " +
						"%d, shell %d: %s", g, k, err.Error())
				}
			}
		}
	}

	return rep, nil
}
