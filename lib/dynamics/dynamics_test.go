package dynamics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phil-mansfield/mdcell/lib/geom"
	"github.com/phil-mansfield/mdcell/lib/grid"
	"github.com/phil-mansfield/mdcell/lib/nbrlist"
	"github.com/phil-mansfield/mdcell/lib/store"
)

func pairTile(x0, x1 [3]float64) (*store.Tile, *nbrlist.List) {
	t := store.NewTile(0)
	t.Append(1, 0, x0, [3]float64{ })
	t.Append(2, 0, x1, [3]float64{ })

	bins := &grid.Bins{ }
	box := geom.Box{ Lo: geom.IntVec{ }, Hi: geom.IntVec{ 3, 3, 3 } }
	bins.Build(t.X, box, geom.Vec{ }, 1.0)

	l := &nbrlist.List{ }
	l.Build(t.X, t.Owned(), bins, nbrlist.WithinCutoff(1.5))
	return t, l
}

func TestParamsCheck(t *testing.T) {
	tests := []struct {
		p Params
		valid bool
	} {
		{Params{1.0, 0.01, 1.0}, true},
		{Params{0.0, 0.01, 1.0}, false},
		{Params{1.0, 0.0, 1.0}, false},
		{Params{1.0, 0.01, -1.0}, false},
	}

	for i := range tests {
		err := tests[i].p.Check()
		if tests[i].valid && err != nil {
			t.Errorf("%d) Expected %v to pass, got '%s'.",
				i, tests[i].p, err.Error())
		} else if !tests[i].valid && err == nil {
			t.Errorf("%d) Expected %v to fail.", i, tests[i].p)
		}
	}
}

// TestAccelPair checks the soft-core force of the canonical scenario: two
// particles at separation r = 1 with cutoff = 1.5 and mass = 1, so
// coef = (1 - 1.5/1)/1/1 = -0.5 and the pair attracts along x.
func TestAccelPair(t *testing.T) {
	tile, l := pairTile(
		[3]float64{ 0.5, 0.5, 0.5 }, [3]float64{ 1.5, 0.5, 0.5 })

	Accel(tile, l, Params{ Cutoff: 1.5, MinR: 0.01, Mass: 1.0 })

	assert.InDelta(t, -0.5, tile.A[0][0], 1e-14, "a0 x")
	assert.InDelta(t, 0.5, tile.A[1][0], 1e-14, "a1 x")
	assert.Equal(t, 0.0, tile.A[0][1], "a0 y")
	assert.Equal(t, 0.0, tile.A[0][2], "a0 z")

	// Accel must zero out stale accelerations before accumulating.
	Accel(tile, l, Params{ Cutoff: 1.5, MinR: 0.01, Mass: 1.0 })
	assert.InDelta(t, -0.5, tile.A[0][0], 1e-14, "a0 x after rerun")
}

// TestAccelFloor checks that near-coincident particles are clamped, not
// blown up: the separation floor caps the force magnitude.
func TestAccelFloor(t *testing.T) {
	tile, l := pairTile(
		[3]float64{ 0.5, 0.5, 0.5 }, [3]float64{ 0.5 + 1e-12, 0.5, 0.5 })

	p := Params{ Cutoff: 1.5, MinR: 0.1, Mass: 1.0 }
	Accel(tile, l, p)

	// r2 floors at MinR^2 while the direction vector keeps its tiny length,
	// so the magnitude is bounded by |1 - cutoff/minR|/minR^2 * dx.
	bound := math.Abs(1.0 - p.Cutoff/p.MinR) / (p.MinR * p.MinR) * 1e-12
	if math.Abs(tile.A[0][0]) > bound*1.000001 {
		t.Errorf("Floored force |a| = %g exceeds bound %g.",
			math.Abs(tile.A[0][0]), bound)
	}
	for dim := 0; dim < 3; dim++ {
		if math.IsInf(tile.A[0][dim], 0) || math.IsNaN(tile.A[0][dim]) {
			t.Errorf("Floored force is not finite: %v.", tile.A[0])
		}
	}
}

// TestMoveReflects checks the boundary property: a particle stepping to
// hi + eps lands at hi - eps with its velocity sign flipped on that axis and
// its magnitude unchanged.
func TestMoveReflects(t *testing.T) {
	lo := [3]float64{ 0, 0, 0 }
	hi := [3]float64{ 8, 8, 8 }
	eps := 0.125

	tile := store.NewTile(0)
	// dt = 1, v = (1, 0, 0): x steps from hi-1+eps to hi+eps.
	tile.Append(1, 0, [3]float64{ 7.0 + eps, 4, 4 }, [3]float64{ 1, 0, 0 })

	Move(tile, 1.0, lo, hi)

	assert.InDelta(t, 8.0 - eps, tile.X[0][0], 1e-14, "reflected x")
	assert.Equal(t, -1.0, tile.V[0][0], "flipped vx")
	assert.Equal(t, 0.0, tile.V[0][1], "vy untouched")
	assert.InDelta(t, 4.0, tile.X[0][1], 1e-14, "y untouched")
}

// TestMoveMultiReflect checks that a particle crossing several domain widths
// in one step reflects repeatedly instead of escaping.
func TestMoveMultiReflect(t *testing.T) {
	lo := [3]float64{ 0, 0, 0 }
	hi := [3]float64{ 1, 1, 1 }

	tile := store.NewTile(0)
	tile.Append(1, 0, [3]float64{ 0.5, 0.5, 0.5 }, [3]float64{ 3.2, 0, 0 })

	Move(tile, 1.0, lo, hi)

	if tile.X[0][0] < lo[0] || tile.X[0][0] > hi[0] {
		t.Errorf("Particle escaped to x = %g.", tile.X[0][0])
	}
	if mag := math.Abs(tile.V[0][0]); mag != 3.2 {
		t.Errorf("Speed changed to %g during reflection.", mag)
	}
}

// TestMoveSkipsImported checks that halo copies are never advanced.
func TestMoveSkipsImported(t *testing.T) {
	tile := store.NewTile(0)
	tile.Append(1, 0, [3]float64{ 0.5, 0.5, 0.5 }, [3]float64{ 0.1, 0, 0 })
	b := &store.Batch{ ID: []int64{ 9 }, Proc: []int32{ 1 },
		X: [][3]float64{ { 0.9, 0.5, 0.5 } },
		V: [][3]float64{ { 5, 5, 5 } } }
	tile.AppendImported(b, [3]float64{ })

	Move(tile, 1.0, [3]float64{ }, [3]float64{ 8, 8, 8 })

	if tile.X[1] != ([3]float64{ 0.9, 0.5, 0.5 }) {
		t.Errorf("Imported particle moved to %v.", tile.X[1])
	}
}
