package timeintegration

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smillerc/fvleg-2d/bcs"
	"github.com/smillerc/fvleg-2d/eos"
	"github.com/smillerc/fvleg-2d/fluxsolvers"
	"github.com/smillerc/fvleg-2d/grid"
	"github.com/smillerc/fvleg-2d/limiters"
	"github.com/smillerc/fvleg-2d/reconstruction"
	"github.com/smillerc/fvleg-2d/sod_shock_tube"
	"github.com/smillerc/fvleg-2d/utils"
)

// constantDerivative is a stub flux solver returning a fixed d/dt for every
// cell. Both SSP-RK schemes are exact for it: the stage combinations must
// reduce to a single forward-Euler step.
type constantDerivative struct {
	d [4]float64
}

func (c *constantDerivative) Name() string      { return "constant" }
func (c *constantDerivative) GhostLayers() int  { return 2 }
func (c *constantDerivative) SetTime(t float64) {}

func (c *constantDerivative) Solve(dt float64, rho, u, v, p utils.Field) (dRho, dRhoU, dRhoV, dRhoE utils.Field) {
	var out [4]utils.Field
	for n := 0; n < 4; n++ {
		out[n] = rho.SameShape()
		for i := 0; i < rho.Nx; i++ {
			for j := 0; j < rho.Ny; j++ {
				out[n].Set(i, j, c.d[n])
			}
		}
	}
	dRho, dRhoU, dRhoV, dRhoE = out[0], out[1], out[2], out[3]
	return
}

func TestIntegratorNames(t *testing.T) {
	assert.Equal(t, SSPRK2, NewIntegratorType("SSP-RK2"))
	assert.Equal(t, SSPRK3, NewIntegratorType("ssp_rk3"))
	assert.Equal(t, "SSP-RK3", SSPRK3.Print())
	assert.Panics(t, func() { NewIntegratorType("euler") })
}

func TestStepConstantDerivative(t *testing.T) {
	var (
		nx, ny = 4, 3
		g      = grid.NewCartesian(nx, ny, 0, 1, 0, 1)
		gas    = eos.NewIdealGas(1.4)
		solver = &constantDerivative{d: [4]float64{0.1, -0.2, 0.3, 0.05}}
		dt     = 0.01
	)
	for _, scheme := range []IntegratorType{SSPRK2, SSPRK3} {
		s := NewState(nx, ny, 2)
		s.Rho.Fill(1)
		s.RhoU.Fill(0.2)
		s.RhoV.Fill(-0.1)
		s.RhoE.Fill(2.5)
		it := NewIntegrator(scheme, solver, g, gas, 2)
		resid := it.Step(&s, 0, dt)
		assert.InDelta(t, 0.1, resid, 1.e-14)
		for i := 0; i < nx; i++ {
			for j := 0; j < ny; j++ {
				assert.InDelta(t, 1+dt*0.1, s.Rho.At(i, j), 1.e-14, scheme.Print())
				assert.InDelta(t, 0.2-dt*0.2, s.RhoU.At(i, j), 1.e-14, scheme.Print())
				assert.InDelta(t, -0.1+dt*0.3, s.RhoV.At(i, j), 1.e-14, scheme.Print())
				assert.InDelta(t, 2.5+dt*0.05, s.RhoE.At(i, j), 1.e-14, scheme.Print())
			}
		}
	}
}

func TestMaxDT(t *testing.T) {
	// Quiescent gas at p=1, rho=1: the transit time is min(dx,dy)/c
	var (
		nx, ny = 10, 5
		g      = grid.NewCartesian(nx, ny, 0, 1, 0, 1)
		gas    = eos.NewIdealGas(1.4)
		s      = NewState(nx, ny, 2)
	)
	s.Rho.Fill(1)
	s.RhoE.Fill(1. / 0.4)
	it := NewIntegrator(SSPRK2, nil, g, gas, 1)
	want := 0.5 * 0.1 / math.Sqrt(1.4)
	assert.InDelta(t, want, it.MaxDT(0.5, s), 1.e-14)
}

func TestConservedTotals(t *testing.T) {
	var (
		nx, ny = 4, 3
		g      = grid.NewCartesian(nx, ny, 0, 2, 0, 1)
		s      = NewState(nx, ny, 2)
	)
	s.Rho.Fill(1.5)
	s.RhoU.Fill(0.3)
	s.RhoE.Fill(2)
	mass, xMom, yMom, energy := s.ConservedTotals(g)
	assert.InDelta(t, 1.5*2, mass, 1.e-13)
	assert.InDelta(t, 0.3*2, xMom, 1.e-13)
	assert.Zero(t, yMom)
	assert.InDelta(t, 2*2, energy, 1.e-13)
}

func sodConditions() (conditions []bcs.BoundaryCondition) {
	conditions = append(conditions, bcs.New("zero_gradient", bcs.MinusX, 0, nil))
	conditions = append(conditions, bcs.New("zero_gradient", bcs.PlusX, 0, nil))
	conditions = append(conditions, bcs.New("periodic", bcs.MinusY, 0, nil))
	conditions = append(conditions, bcs.New("periodic", bcs.PlusY, 0, nil))
	return
}

func TestSodShockStep(t *testing.T) {
	// Advance the canonical shock tube a few steps with every flux solver:
	// the interface must start moving, the far fields must stay near their
	// initial values, and the state must remain physical throughout
	var (
		nx, ny = 32, 4
		g      = grid.NewCartesian(nx, ny, 0, 1, 0, 0.125)
		gas    = eos.NewIdealGas(sod_shock_tube.Gamma)
		cfg    = fluxsolvers.Config{
			Scheme:         reconstruction.TVD2,
			Limiter:        limiters.MINMOD,
			SensorEps:      0.01,
			ParallelDegree: 2,
		}
	)
	for _, st := range []fluxsolvers.SolverType{
		fluxsolvers.ROE, fluxsolvers.AUSMPW_PLUS, fluxsolvers.SLAU, fluxsolvers.FVLEG,
	} {
		solver := fluxsolvers.New(st, g, gas, sodConditions(), cfg)
		s := NewState(nx, ny, solver.GhostLayers())
		for i := 0; i < nx; i++ {
			for j := 0; j < ny; j++ {
				x, _ := g.Centroid(i, j)
				rho, u, p := sod_shock_tube.InitialState(x)
				s.Rho.Set(i, j, rho)
				s.RhoU.Set(i, j, rho*u)
				s.RhoE.Set(i, j, gas.TotalEnergy(rho, u, 0, p))
			}
		}
		it := NewIntegrator(SSPRK2, solver, g, gas, 2)
		tNow := 0.
		for n := 0; n < 3; n++ {
			dt := it.MaxDT(0.1, s)
			resid := it.Step(&s, tNow, dt)
			assert.Greater(t, resid, 0., solver.Name())
			tNow += dt
		}
		assert.False(t, s.Rho.HasNaN(), solver.Name())
		assert.False(t, s.RhoE.HasNaN(), solver.Name())
		for i := 0; i < nx; i++ {
			for j := 0; j < ny; j++ {
				var (
					rho = s.Rho.At(i, j)
					u   = s.RhoU.At(i, j) / rho
					v   = s.RhoV.At(i, j) / rho
					p   = gas.Pressure(rho, u, v, s.RhoE.At(i, j))
				)
				assert.Greater(t, rho, 0.12, solver.Name())
				assert.Less(t, rho, 1.001, solver.Name())
				assert.Greater(t, p, 0., solver.Name())
			}
		}
		// The contact surface sits between cells 15 and 16; both must have
		// left their initial plateaus while the tube ends stay put
		assert.Greater(t, s.Rho.At(16, 1), 0.1251, solver.Name())
		assert.Less(t, s.Rho.At(15, 1), 0.9999, solver.Name())
		assert.InDelta(t, 1., s.Rho.At(0, 1), 1.e-6, solver.Name())
		assert.InDelta(t, 0.125, s.Rho.At(nx-1, 1), 1.e-6, solver.Name())
	}
}
