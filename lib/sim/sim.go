/*package sim wires the engine's stages into a Simulation: halo exchange,
cell binning, neighbor list construction, force evaluation, and integration,
run in that order once per Step. Each stage finishes across every owned grid
before the next begins, so a stage can rely on the complete output of its
predecessor.*/
package sim

import (
	"fmt"
	"io"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/phil-mansfield/mdcell/lib/dynamics"
	"github.com/phil-mansfield/mdcell/lib/exchange"
	"github.com/phil-mansfield/mdcell/lib/geom"
	"github.com/phil-mansfield/mdcell/lib/grid"
	"github.com/phil-mansfield/mdcell/lib/nbrlist"
	"github.com/phil-mansfield/mdcell/lib/store"
	"github.com/phil-mansfield/mdcell/lib/topology"
)

// Simulation holds the state of one process's share of a particle run: the
// tiles of its owned grids plus the per-grid structures the stages rebuild
// every step.
type Simulation struct {
	dom *geom.Decomp
	params dynamics.Params
	policy nbrlist.Policy
	transport exchange.Transport

	store store.Store
	tops map[int]*topology.Topology
	bins map[int]*grid.Bins
	lists map[int]*nbrlist.List

	lastReport exchange.Report
	nextID int64
}

// New creates an empty Simulation over the decomposition dom. The exchange
// topology of every owned grid is computed here, since it never changes
// during a run. The halo is one cell deep: a neighbor search over adjacent
// cells requires the cell size to be at least the interaction cutoff, which
// is checked here.
func New(dom *geom.Decomp, p dynamics.Params) (*Simulation, error) {
	if err := p.Check(); err != nil { return nil, err }
	if dx := dom.CellSize(); dx < p.Cutoff {
		return nil, fmt.Errorf("The cell size %g is smaller than the force " +
			"cutoff %g, so adjacent-cell neighbor search would miss pairs. " +
			"Use a coarser mesh.", dx, p.Cutoff)
	}

	s := &Simulation{
		dom: dom, params: p,
		policy: nbrlist.WithinCutoff(p.Cutoff),
		transport: exchange.Unsupported{ },
		store: store.Store{ },
		tops: map[int]*topology.Topology{ },
		bins: map[int]*grid.Bins{ },
		lists: map[int]*nbrlist.List{ },
		nextID: int64(dom.MyProc) + 1,
	}

	for _, g := range dom.OwnedGrids() {
		top, err := topology.Build(dom, g, 1)
		if err != nil {
			return nil, fmt.Errorf("Could not build the exchange topology " +
				"of grid %d: %s", g, err.Error())
		}
		s.tops[g] = top
		s.bins[g] = &grid.Bins{ }
		s.lists[g] = &nbrlist.List{ }
	}

	return s, nil
}

// SetTransport replaces the cross-process transport. The default transport
// fails on any remote send, which is correct for single-process runs.
func (s *Simulation) SetTransport(tr exchange.Transport) { s.transport = tr }

// SetPolicy replaces the neighbor inclusion policy. The default keeps pairs
// within the force cutoff.
func (s *Simulation) SetPolicy(pol nbrlist.Policy) { s.policy = pol }

// Store returns the Simulation's particle store.
func (s *Simulation) Store() store.Store { return s.store }

// NumParticles returns the number of particles owned by this process.
func (s *Simulation) NumParticles() int {
	n := 0
	for _, g := range s.dom.OwnedGrids() {
		n += s.store.Tile(g).Owned()
	}
	return n
}

// unitCellPos returns the position of sub-particle ipart inside the unit
// cell, for an nppc[0] x nppc[1] x nppc[2] lattice with every particle
// centered in its lattice site.
func unitCellPos(nppc [3]int, ipart int) [3]float64 {
	ny, nz := nppc[1], nppc[2]
	ix := ipart / (ny * nz)
	iy := (ipart % (ny * nz)) % ny
	iz := (ipart % (ny * nz)) / ny
	return [3]float64{
		(0.5 + float64(ix)) / float64(nppc[0]),
		(0.5 + float64(iy)) / float64(nppc[1]),
		(0.5 + float64(iz)) / float64(nppc[2]),
	}
}

// InitParticles fills every cell of every owned grid with a regular lattice
// of nppc[0] x nppc[1] x nppc[2] particles and draws each velocity component
// from a Gaussian with the given mean and standard deviation.
func (s *Simulation) InitParticles(
	nppc [3]int, mean, std float64, seed uint64,
) error {
	if nppc[0] <= 0 || nppc[1] <= 0 || nppc[2] <= 0 {
		return fmt.Errorf("The per-cell particle counts must be positive, " +
			"but are (%d, %d, %d).", nppc[0], nppc[1], nppc[2])
	} else if std < 0 {
		return fmt.Errorf("The momentum standard deviation must be " +
			"non-negative, but is %g.", std)
	}

	norm := distuv.Normal{ Mu: mean, Sigma: std, Src: rand.NewSource(seed) }
	perCell := nppc[0] * nppc[1] * nppc[2]
	probLo, dx := s.dom.ProbLo(), s.dom.CellSize()

	for _, g := range s.dom.OwnedGrids() {
		tile := s.store.Tile(g)
		box := s.dom.BoxOf(g)

		for ix := box.Lo[0]; ix <= box.Hi[0]; ix++ {
			for iy := box.Lo[1]; iy <= box.Hi[1]; iy++ {
				for iz := box.Lo[2]; iz <= box.Hi[2]; iz++ {
					for p := 0; p < perCell; p++ {
						r := unitCellPos(nppc, p)
						x := [3]float64{
							probLo[0] + (float64(ix) + r[0])*dx,
							probLo[1] + (float64(iy) + r[1])*dx,
							probLo[2] + (float64(iz) + r[2])*dx,
						}
						v := [3]float64{
							norm.Rand(), norm.Rand(), norm.Rand(),
						}

						tile.Append(s.nextID, int32(s.dom.MyProc), x, v)
						s.nextID += int64(s.dom.NProc)
					}
				}
			}
		}
	}

	return nil
}

// Step advances the simulation by dt: rebuild halos, bin every particle,
// rebuild neighbor lists, accumulate forces, and integrate. Each stage runs
// to completion over every owned grid before the next starts.
func (s *Simulation) Step(dt float64) error {
	if dt <= 0 {
		return fmt.Errorf("The time step must be positive, but is %g.", dt)
	}

	rep, err := exchange.Exchange(s.store, s.tops, s.dom, s.transport)
	if err != nil { return err }
	s.lastReport = rep

	owned := s.dom.OwnedGrids()
	probLo, invDx := s.dom.ProbLo(), s.dom.InvCellSize()

	for _, g := range owned {
		tile := s.store.Tile(g)
		s.bins[g].Build(tile.X, s.dom.BoxOf(g), probLo, invDx)
	}

	for _, g := range owned {
		tile := s.store.Tile(g)
		s.lists[g].Build(tile.X, tile.Owned(), s.bins[g], s.policy)
	}

	for _, g := range owned {
		dynamics.Accel(s.store.Tile(g), s.lists[g], s.params)
	}

	lo, hi := s.dom.ProbLo(), s.dom.ProbHi()
	for _, g := range owned {
		dynamics.Move(s.store.Tile(g), dt, lo, hi)
	}

	return nil
}

// ShellReport writes the per-shell particle populations of the most recent
// exchange, along with the grids each shell feeds.
func (s *Simulation) ShellReport(w io.Writer) {
	for _, g := range s.dom.OwnedGrids() {
		top := s.tops[g]
		counts := s.lastReport[g]

		fmt.Fprintf(w, "Grid %d has\n", g)
		for k := range counts {
			if len(top.Dests[k]) == 0 { continue }
			grids := []int{ }
			for _, d := range top.Dests[k] {
				grids = append(grids, d.Grid)
			}
			fmt.Fprintf(w, "    %d particles for grids %v\n", counts[k], grids)
		}
	}
}

// CollisionReport writes, for every owned particle with at least one
// neighbor, the ids of the particles it is about to interact with. The lists
// come from the most recent Step.
func (s *Simulation) CollisionReport(w io.Writer) {
	for _, g := range s.dom.OwnedGrids() {
		tile := s.store.Tile(g)
		l := s.lists[g]
		if len(l.Offsets) == 0 { continue }

		for i := 0; i < tile.Owned(); i++ {
			nbrs := l.Neighbors(i)
			if len(nbrs) == 0 { continue }

			fmt.Fprintf(w, "Particle %d will collide with:", tile.ID[i])
			for _, j := range nbrs {
				fmt.Fprintf(w, " %d", tile.ID[j])
			}
			fmt.Fprintf(w, "\n")
		}
	}
}
