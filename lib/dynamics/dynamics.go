/*package dynamics advances particles: it accumulates soft-core pairwise
forces over a tile's neighbor list and integrates velocity and position with
reflective walls at the domain boundary. Only owned particles are advanced;
imported halo copies contribute forces but are never themselves updated.*/
package dynamics

import (
	"fmt"
	"math"

	"github.com/phil-mansfield/mdcell/lib/nbrlist"
	"github.com/phil-mansfield/mdcell/lib/store"
	"github.com/phil-mansfield/mdcell/lib/thread"
)

// Params holds the process-wide force constants. They are set once at
// startup and never change during a run.
type Params struct {
	Cutoff float64 // interaction range
	MinR float64   // separation floor that soft-clamps the singularity
	Mass float64   // particle mass
}

// Check returns an error for physically meaningless parameter values.
func (p Params) Check() error {
	if p.Cutoff <= 0 {
		return fmt.Errorf("The force Cutoff must be positive, but is %g.",
			p.Cutoff)
	} else if p.MinR <= 0 {
		return fmt.Errorf("The force MinR must be positive, but is %g.",
			p.MinR)
	} else if p.Mass <= 0 {
		return fmt.Errorf("The particle Mass must be positive, but is %g.",
			p.Mass)
	}
	return nil
}

// Accel recomputes the acceleration of every owned particle in the tile by
// summing soft-core pair forces over its neighbor list. The squared
// separation is floored at MinR^2, so near-coincident particles feel a large
// but finite force instead of erroring.
func Accel(t *store.Tile, l *nbrlist.List, p Params) {
	minR2 := p.MinR * p.MinR

	thread.For(t.Owned(), func(worker, lo, hi int) {
		for i := lo; i < hi; i++ {
			t.A[i] = [3]float64{ }

			for _, j := range l.Neighbors(i) {
				dx := t.X[i][0] - t.X[j][0]
				dy := t.X[i][1] - t.X[j][1]
				dz := t.X[i][2] - t.X[j][2]

				r2 := dx*dx + dy*dy + dz*dz
				if r2 < minR2 { r2 = minR2 }
				r := math.Sqrt(r2)

				coef := (1.0 - p.Cutoff/r) / r2 / p.Mass
				t.A[i][0] += coef * dx
				t.A[i][1] += coef * dy
				t.A[i][2] += coef * dz
			}
		}
	})
}

// Move integrates every owned particle with an explicit Euler step and
// reflects it off the domain walls. The reflection loops until the position
// is inside [lo, hi] on every axis, so a particle that would tunnel several
// domain widths in one step still ends up inside with the right velocity
// sign.
func Move(t *store.Tile, dt float64, lo, hi [3]float64) {
	thread.For(t.Owned(), func(worker, i0, i1 int) {
		for i := i0; i < i1; i++ {
			for dim := 0; dim < 3; dim++ {
				t.V[i][dim] += t.A[i][dim] * dt
				t.X[i][dim] += t.V[i][dim] * dt

				for t.X[i][dim] < lo[dim] || t.X[i][dim] > hi[dim] {
					if t.X[i][dim] < lo[dim] {
						t.X[i][dim] = 2*lo[dim] - t.X[i][dim]
					} else {
						t.X[i][dim] = 2*hi[dim] - t.X[i][dim]
					}
					t.V[i][dim] = -t.V[i][dim]
				}
			}
		}
	})
}
