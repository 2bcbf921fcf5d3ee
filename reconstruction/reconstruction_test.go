package reconstruction

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smillerc/fvleg-2d/limiters"
	"github.com/smillerc/fvleg-2d/utils"
)

var allSchemes = []SchemeType{TVD2, TVD3, TVD5, MLP3, MLP5, EMLP3, EMLP5}

// uniformPrimitives builds rho,u,v,p fields with constant values everywhere,
// halo included
func uniformPrimitives(nx, ny, ng int, rho0, u0, v0, p0 float64) (rho, u, v, p utils.Field) {
	rho = utils.NewField(nx, ny, ng)
	u = rho.SameShape()
	v = rho.SameShape()
	p = rho.SameShape()
	rho.Fill(rho0)
	u.Fill(u0)
	v.Fill(v0)
	p.Fill(p0)
	return
}

func TestSchemeNames(t *testing.T) {
	assert.Equal(t, TVD2, NewSchemeType("tvd2"))
	assert.Equal(t, MLP5, NewSchemeType("MLP5"))
	assert.Equal(t, EMLP3, NewSchemeType("e_mlp3"))
	assert.Panics(t, func() { NewSchemeType("weno5") })

	assert.Equal(t, 2, TVD2.GhostLayers())
	assert.Equal(t, 2, MLP3.GhostLayers())
	assert.Equal(t, 3, TVD5.GhostLayers())
	assert.Equal(t, 3, EMLP3.GhostLayers())
	assert.Equal(t, 5, EMLP5.Order())
}

func TestUniformFieldReconstruction(t *testing.T) {
	const C = 2.5
	rho, u, v, p := uniformPrimitives(6, 6, 3, C, C, C, C)
	pm := utils.NewPartitionMap(2, 6)
	sensor := DistinguishContinuousRegions(rho, u, v, p, 0.01, pm)
	for _, scheme := range allSchemes {
		m := NewMUSCL(scheme, limiters.MINMOD, 2)
		iE, jE := m.Reconstruct(rho, sensor)
		for j := 0; j < 6; j++ {
			for e := -1; e < 6; e++ {
				assert.Equal(t, C, iE.Left.At(e, j))
				assert.Equal(t, C, iE.Right.At(e, j))
				assert.Equal(t, C, jE.Left.At(j, e))
				assert.Equal(t, C, jE.Right.At(j, e))
			}
		}
	}
}

func TestLinearFieldReconstruction(t *testing.T) {
	// q = 2i + 1, exactly linear along i; every order >= 2 scheme must hit
	// the exact interface value with no limiting
	var (
		q = utils.NewField(6, 6, 3)
	)
	for i := q.Ilo(); i <= q.Ihi(); i++ {
		for j := q.Jlo(); j <= q.Jhi(); j++ {
			q.Set(i, j, 2*float64(i)+1)
		}
	}
	pm := utils.NewPartitionMap(1, 6)
	sensor := DistinguishContinuousRegions(q, q, q, q, 0.01, pm)
	for _, scheme := range allSchemes {
		m := NewMUSCL(scheme, limiters.MINMOD, 1)
		iE, _ := m.Reconstruct(q, sensor)
		for j := 0; j < 6; j++ {
			for e := -1; e < 6; e++ {
				exact := 2*float64(e) + 2 // midpoint of cells e and e+1
				assert.InDelta(t, exact, iE.Left.At(e, j), 1.e-12)
				assert.InDelta(t, exact, iE.Right.At(e, j), 1.e-12)
			}
		}
	}
}

func TestEMLPRequiresSensor(t *testing.T) {
	q := utils.NewField(4, 4, 3)
	q.Fill(1)
	m := NewMUSCL(EMLP3, limiters.MINMOD, 1)
	assert.Panics(t, func() { m.Reconstruct(q, nil) })
	// Non-sensor schemes take nil without complaint
	m = NewMUSCL(MLP3, limiters.MINMOD, 1)
	assert.NotPanics(t, func() { m.Reconstruct(q, nil) })
}

func TestContinuitySensor(t *testing.T) {
	var (
		nx, ny, ng = 8, 4, 3
		pm         = utils.NewPartitionMap(1, nx)
	)
	step := func(lo, hi float64) (f utils.Field) {
		f = utils.NewField(nx, ny, ng)
		for i := f.Ilo(); i <= f.Ihi(); i++ {
			for j := f.Jlo(); j <= f.Jhi(); j++ {
				if i < 4 {
					f.Set(i, j, lo)
				} else {
					f.Set(i, j, hi)
				}
			}
		}
		return
	}
	uniform := func(val float64) (f utils.Field) {
		f = utils.NewField(nx, ny, ng)
		f.Fill(val)
		return
	}

	// Uniform state: everything continuous
	{
		s := DistinguishContinuousRegions(uniform(1), uniform(0), uniform(0), uniform(1), 0.01, pm)
		for i := -1; i <= nx; i++ {
			for j := -1; j <= ny; j++ {
				assert.Equal(t, CONTINUOUS, s.At(i, j))
			}
		}
	}
	// Density-only jump (contact): linear discontinuity near the interface
	{
		s := DistinguishContinuousRegions(step(1, 2), uniform(0), uniform(0), uniform(1), 0.01, pm)
		assert.Equal(t, LINEAR_DISCONTINUITY, s.At(3, 1))
		assert.Equal(t, LINEAR_DISCONTINUITY, s.At(4, 1))
		assert.Equal(t, CONTINUOUS, s.At(0, 1))
		assert.Equal(t, CONTINUOUS, s.At(7, 1))
	}
	// Velocity jump (shear): linear discontinuity where the velocity is alive
	{
		s := DistinguishContinuousRegions(uniform(1), step(0, 0.5), uniform(0), uniform(1), 0.01, pm)
		assert.Equal(t, LINEAR_DISCONTINUITY, s.At(4, 1))
		assert.Equal(t, CONTINUOUS, s.At(0, 1))
	}
	// Pressure jump (shock) wins over a coincident density jump
	{
		s := DistinguishContinuousRegions(step(1, 2), uniform(0), uniform(0), step(1, 10), 0.01, pm)
		assert.Equal(t, NONLINEAR_DISCONTINUITY, s.At(3, 1))
		assert.Equal(t, NONLINEAR_DISCONTINUITY, s.At(4, 1))
		assert.Equal(t, CONTINUOUS, s.At(0, 1))
	}
}

func TestPointwiseReconstruction(t *testing.T) {
	// Linear profile: limited slopes recover the exact gradient, corner and
	// midpoint evaluations land on the linear surface
	var (
		q = utils.NewField(4, 4, 2)
	)
	for i := q.Ilo(); i <= q.Ihi(); i++ {
		for j := q.Jlo(); j <= q.Jhi(); j++ {
			q.Set(i, j, 3*float64(i)-2*float64(j))
		}
	}
	p := NewPointwise(limiters.MINMOD, 1, 4)
	pv := p.Reconstruct(q)
	assert.InDelta(t, 3., pv.Sx.At(1, 1), 1.e-12)
	assert.InDelta(t, -2., pv.Sy.At(1, 1), 1.e-12)
	// Corner (+1/2,+1/2) of cell (1,1)
	assert.InDelta(t, 3*1.5-2*1.5, pv.AtOffset(1, 1, 0.5, 0.5), 1.e-12)
	// Edge midpoint (-1/2,0)
	assert.InDelta(t, 3*0.5-2*1.0, pv.AtOffset(1, 1, -0.5, 0), 1.e-12)
}
