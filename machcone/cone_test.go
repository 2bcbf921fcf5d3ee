package machcone

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smillerc/fvleg-2d/eos"
	"github.com/smillerc/fvleg-2d/grid"
	"github.com/smillerc/fvleg-2d/limiters"
	"github.com/smillerc/fvleg-2d/reconstruction"
	"github.com/smillerc/fvleg-2d/utils"
)

func buildPointValues(t *testing.T, nx, ny int, fill func(i, j int) float64) reconstruction.PointValues {
	t.Helper()
	q := utils.NewField(nx, ny, 2)
	for i := q.Ilo(); i <= q.Ihi(); i++ {
		for j := q.Jlo(); j <= q.Jhi(); j++ {
			q.Set(i, j, fill(i, j))
		}
	}
	return reconstruction.NewPointwise(limiters.MINMOD, 1, nx).Reconstruct(q)
}

func arcSpanSum(cone *Cone) (total float64) {
	for n := range cone.Cells {
		for a := 0; a < cone.Cells[n].NArcs; a++ {
			total += cone.Cells[n].Arcs[a].DTheta
		}
	}
	return
}

func TestConeClosure(t *testing.T) {
	// Random positive states over every lattice family: the arc spans of
	// every cone must close to the full circle
	var (
		nx, ny = 6, 5
		g      = grid.NewCartesian(nx, ny, 0, 1.2, 0, 1)
		gas    = eos.NewIdealGas(1.4)
		rng    = rand.New(rand.NewSource(42))
		random = func(lo, hi float64) func(i, j int) float64 {
			return func(i, j int) float64 { return lo + (hi-lo)*rng.Float64() }
		}
		rho = buildPointValues(t, nx, ny, random(0.5, 2))
		u   = buildPointValues(t, nx, ny, random(-0.5, 0.5))
		v   = buildPointValues(t, nx, ny, random(-0.5, 0.5))
		p   = buildPointValues(t, nx, ny, random(0.5, 2))
	)
	for _, loc := range []Location{Corner, IMidpoint, JMidpoint} {
		c := NewCollection(loc, g, gas, 2)
		c.Initialize(0.01, rho, u, v, p)
		for i := 0; i < c.LNx; i++ {
			for j := 0; j < c.LNy; j++ {
				assert.Less(t, math.Abs(arcSpanSum(&c.Cones[i][j])-2*math.Pi), 1.e-12)
			}
		}
	}
}

func TestConeDegenerateTau(t *testing.T) {
	// As tau -> 0 the upwinded origin collapses onto the apex and the
	// reference state is the plain neighbor average
	var (
		g   = grid.NewCartesian(4, 4, 0, 1, 0, 1)
		gas = eos.NewIdealGas(1.4)
		rho = buildPointValues(t, 4, 4, func(i, j int) float64 { return 1.2 })
		u   = buildPointValues(t, 4, 4, func(i, j int) float64 { return 0.3 })
		v   = buildPointValues(t, 4, 4, func(i, j int) float64 { return -0.1 })
		p   = buildPointValues(t, 4, 4, func(i, j int) float64 { return 0.8 })
	)
	c := NewCollection(Corner, g, gas, 1)
	c.Initialize(1.e-20, rho, u, v, p)
	cone := &c.Cones[2][2]
	assert.Equal(t, cone.P0, cone.PPrime)
	assert.InDelta(t, 1.2, cone.RefRho, 1.e-14)
	assert.InDelta(t, 0.3, cone.RefU, 1.e-14)
	assert.InDelta(t, -0.1, cone.RefV, 1.e-14)
	assert.InDelta(t, 0.8, cone.RefP, 1.e-14)
	assert.Less(t, math.Abs(arcSpanSum(cone)-2*math.Pi), 1.e-12)
}

func TestConeRejectsNegativeState(t *testing.T) {
	var (
		g   = grid.NewCartesian(4, 4, 0, 1, 0, 1)
		gas = eos.NewIdealGas(1.4)
		pos = buildPointValues(t, 4, 4, func(i, j int) float64 { return 1 })
		neg = buildPointValues(t, 4, 4, func(i, j int) float64 { return -0.1 })
	)
	c := NewCollection(Corner, g, gas, 1)
	assert.Panics(t, func() { c.Initialize(0.01, neg, pos, pos, pos) })
	assert.Panics(t, func() { c.Initialize(0.01, pos, pos, pos, neg) })
}

func TestLatticeExtents(t *testing.T) {
	var (
		g   = grid.NewCartesian(6, 4, 0, 1, 0, 1)
		gas = eos.NewIdealGas(1.4)
	)
	c := NewCollection(Corner, g, gas, 1)
	assert.Equal(t, 7, c.LNx)
	assert.Equal(t, 5, c.LNy)
	c = NewCollection(IMidpoint, g, gas, 1)
	assert.Equal(t, 7, c.LNx)
	assert.Equal(t, 4, c.LNy)
	c = NewCollection(JMidpoint, g, gas, 1)
	assert.Equal(t, 6, c.LNx)
	assert.Equal(t, 5, c.LNy)
}
