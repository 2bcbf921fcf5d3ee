package limiters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLimiterBounds(t *testing.T) {
	// Boundedness over the admissible ratio range
	{
		for _, r := range []float64{0, 0.1, 0.5, 1, 1.5, 2, 5, 100} {
			assert.True(t, Minmod(r) >= 0 && Minmod(r) <= 1)
			assert.True(t, Superbee(r) >= 0 && Superbee(r) <= 2)
			assert.True(t, VanLeer(r) >= 0 && VanLeer(r) <= 2)
		}
	}
	// Negative ratios clamp to zero
	{
		for _, r := range []float64{-0.5, -2, -100} {
			assert.Equal(t, 0., Minmod(r))
			assert.Equal(t, 0., Superbee(r))
			assert.Equal(t, 0., VanLeer(r))
		}
	}
	// Second-order consistency at r=1
	{
		assert.Equal(t, 1., Minmod(1))
		assert.Equal(t, 1., Superbee(1))
		assert.Equal(t, 1., VanLeer(1))
	}
}

func TestBetaPolynomials(t *testing.T) {
	assert.Equal(t, 1., Beta3(1))
	assert.InDelta(t, 1., Beta5(1, 1, 1), 1.e-12)
	// Beta3 is linear in r
	assert.InDelta(t, 5./3., Beta3(2), 1.e-12)
}

func TestMLPAlpha(t *testing.T) {
	// Clipped to [1,2] for assorted inputs
	for _, args := range [][4]float64{
		{1, 1, 0, 0},
		{0.5, 2, 0.3, 0.1},
		{10, 0.1, 5, 5},
		{0, 1, 0, 10},
	} {
		alpha := MLPAlpha(args[0], args[1], args[2], args[3])
		assert.True(t, alpha >= 1 && alpha <= 2)
	}
	// No transverse gradient and a smooth ratio saturates the factor
	assert.Equal(t, 2., MLPAlpha(1, 1, 0, 0))
}

func TestNewLimiterType(t *testing.T) {
	assert.Equal(t, MINMOD, NewLimiterType("minmod"))
	assert.Equal(t, SUPERBEE, NewLimiterType("SUPERBEE"))
	assert.Equal(t, VAN_LEER, NewLimiterType("van_leer"))
	assert.Equal(t, "minmod", MINMOD.Print())
	assert.Panics(t, func() { NewLimiterType("koren") })
}
