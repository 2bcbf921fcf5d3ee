package timeintegration

import (
	"math"
	"strings"

	"github.com/smillerc/fvleg-2d/eos"
	"github.com/smillerc/fvleg-2d/fluxsolvers"
	"github.com/smillerc/fvleg-2d/grid"
	"github.com/smillerc/fvleg-2d/utils"
)

/*
	Strong-stability-preserving Runge-Kutta drivers over the FluxSolver
	contract. Each stage is a convex combination of forward-Euler steps, so
	the spatial scheme's TVD property carries to the full update. The state
	advances in place; stage scratch fields are allocated once per
	integrator and reused.
*/

type IntegratorType uint

const (
	SSPRK2 IntegratorType = iota
	SSPRK3
)

var (
	IntegratorNames = map[string]IntegratorType{
		"ssprk2": SSPRK2,
		"ssprk3": SSPRK3,
	}
	IntegratorPrintNames = []string{"SSP-RK2", "SSP-RK3"}
)

func NewIntegratorType(label string) (it IntegratorType) {
	var (
		ok bool
	)
	label = strings.ToLower(strings.ReplaceAll(label, "-", ""))
	label = strings.ReplaceAll(label, "_", "")
	if it, ok = IntegratorNames[label]; !ok {
		utils.Fatalf("timeintegration", "NewIntegratorType", "unknown integrator named %q", label)
	}
	return
}

func (it IntegratorType) Print() (txt string) {
	txt = IntegratorPrintNames[it]
	return
}

// State is the conserved-variable set: density, momentum and total energy
// per unit volume, each with the solver's halo width
type State struct {
	Rho, RhoU, RhoV, RhoE utils.Field
}

func NewState(nx, ny, ng int) (s State) {
	s = State{
		Rho:  utils.NewField(nx, ny, ng),
		RhoU: utils.NewField(nx, ny, ng),
		RhoV: utils.NewField(nx, ny, ng),
		RhoE: utils.NewField(nx, ny, ng),
	}
	return
}

func (s State) sameShape() State {
	return State{
		Rho:  s.Rho.SameShape(),
		RhoU: s.RhoU.SameShape(),
		RhoV: s.RhoV.SameShape(),
		RhoE: s.RhoE.SameShape(),
	}
}

// Primitives converts the interior conserved state to (rho,u,v,p); halo
// cells are left for the boundary conditions to fill
func (s State) Primitives(gas eos.IdealGas, rho, u, v, p utils.Field) {
	for i := 0; i < s.Rho.Nx; i++ {
		for j := 0; j < s.Rho.Ny; j++ {
			var (
				r  = s.Rho.At(i, j)
				ui = s.RhoU.At(i, j) / r
				vi = s.RhoV.At(i, j) / r
				e  = s.RhoE.At(i, j)
			)
			rho.Set(i, j, r)
			u.Set(i, j, ui)
			v.Set(i, j, vi)
			p.Set(i, j, gas.Pressure(r, ui, vi, e))
		}
	}
}

type Integrator struct {
	Scheme         IntegratorType
	solver         fluxsolvers.FluxSolver
	gas            eos.IdealGas
	g              grid.Geometry
	parallelDegree int

	// stage scratch, allocated lazily on first Step
	u1, u2             State
	rho, uVel, vVel, p utils.Field
}

func NewIntegrator(scheme IntegratorType, solver fluxsolvers.FluxSolver, g grid.Geometry, gas eos.IdealGas, parallelDegree int) (it *Integrator) {
	if parallelDegree < 1 {
		parallelDegree = 1
	}
	it = &Integrator{
		Scheme:         scheme,
		solver:         solver,
		gas:            gas,
		g:              g,
		parallelDegree: parallelDegree,
	}
	return
}

// MaxDT is the largest stable timestep at the given CFL number, from the
// per-cell acoustic transit time min(dx,dy)/(|vel|+c)
func (it *Integrator) MaxDT(cfl float64, s State) (dt float64) {
	var (
		nx, ny = s.Rho.Nx, s.Rho.Ny
	)
	dt = math.MaxFloat64
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			var (
				rho  = s.Rho.At(i, j)
				u    = s.RhoU.At(i, j) / rho
				v    = s.RhoV.At(i, j) / rho
				p    = it.gas.Pressure(rho, u, v, s.RhoE.At(i, j))
				c    = it.gas.SoundSpeed(rho, p)
				vol  = it.g.Volume(i, j)
				dx   = vol / it.g.EdgeLength(grid.Right, i, j)
				dy   = vol / it.g.EdgeLength(grid.Top, i, j)
				wave = math.Hypot(u, v) + c
			)
			if local := math.Min(dx, dy) / wave; local < dt {
				dt = local
			}
		}
	}
	dt *= cfl
	return
}

// Step advances the state in place from t to t+dt and returns the max-norm
// density residual of the first stage
func (it *Integrator) Step(s *State, t, dt float64) (resid float64) {
	it.ensureScratch(s)
	switch it.Scheme {
	case SSPRK2:
		resid = it.rhs(s, &it.u1, t, dt) // u1 = u + dt*L(u)
		it.rhs(&it.u1, &it.u2, t+dt, dt) // u2 = u1 + dt*L(u1)
		combine2(s, &it.u2, it.parallelDegree)
	case SSPRK3:
		resid = it.rhs(s, &it.u1, t, dt)
		it.rhs(&it.u1, &it.u2, t+dt, dt)
		combine3a(s, &it.u2, &it.u1, it.parallelDegree) // u1 <- 3/4 u + 1/4 u2
		it.rhs(&it.u1, &it.u2, t+0.5*dt, dt)
		combine3b(s, &it.u2, it.parallelDegree) // u <- 1/3 u + 2/3 u2
	}
	return
}

func (it *Integrator) ensureScratch(s *State) {
	if it.u1.Rho.M != nil {
		return
	}
	it.u1 = s.sameShape()
	it.u2 = s.sameShape()
	it.rho = s.Rho.SameShape()
	it.uVel = s.Rho.SameShape()
	it.vVel = s.Rho.SameShape()
	it.p = s.Rho.SameShape()
}

// rhs evaluates one forward-Euler stage: dst = src + dt*L(src). Returns the
// max-norm of d(rho)/dt over the interior.
func (it *Integrator) rhs(src, dst *State, t, dt float64) (resid float64) {
	src.Primitives(it.gas, it.rho, it.uVel, it.vVel, it.p)
	it.solver.SetTime(t)
	dRho, dRhoU, dRhoV, dRhoE := it.solver.Solve(dt, it.rho, it.uVel, it.vVel, it.p)
	resid = dRho.MaxAbsInterior()
	var (
		nx = src.Rho.Nx
		ny = src.Rho.Ny
	)
	pm := utils.NewPartitionMap(it.parallelDegree, nx)
	pm.ParallelFor(func(iMin, iMax int) {
		for i := iMin; i < iMax; i++ {
			for j := 0; j < ny; j++ {
				dst.Rho.Set(i, j, src.Rho.At(i, j)+dt*dRho.At(i, j))
				dst.RhoU.Set(i, j, src.RhoU.At(i, j)+dt*dRhoU.At(i, j))
				dst.RhoV.Set(i, j, src.RhoV.At(i, j)+dt*dRhoV.At(i, j))
				dst.RhoE.Set(i, j, src.RhoE.At(i, j)+dt*dRhoE.At(i, j))
			}
		}
	})
	return
}

// combine2: u <- 1/2 u + 1/2 u2
func combine2(u, u2 *State, parallelDegree int) {
	axpyStates(u, []stateTerm{{0.5, u}, {0.5, u2}}, parallelDegree)
}

// combine3a: dst <- 3/4 u + 1/4 u2
func combine3a(u, u2, dst *State, parallelDegree int) {
	axpyStates(dst, []stateTerm{{0.75, u}, {0.25, u2}}, parallelDegree)
}

// combine3b: u <- 1/3 u + 2/3 u2
func combine3b(u, u2 *State, parallelDegree int) {
	axpyStates(u, []stateTerm{{1. / 3., u}, {2. / 3., u2}}, parallelDegree)
}

type stateTerm struct {
	coeff float64
	s     *State
}

func axpyStates(dst *State, terms []stateTerm, parallelDegree int) {
	var (
		nx = dst.Rho.Nx
		ny = dst.Rho.Ny
	)
	pm := utils.NewPartitionMap(parallelDegree, nx)
	pm.ParallelFor(func(iMin, iMax int) {
		for i := iMin; i < iMax; i++ {
			for j := 0; j < ny; j++ {
				var rho, rhoU, rhoV, rhoE float64
				for _, term := range terms {
					rho += term.coeff * term.s.Rho.At(i, j)
					rhoU += term.coeff * term.s.RhoU.At(i, j)
					rhoV += term.coeff * term.s.RhoV.At(i, j)
					rhoE += term.coeff * term.s.RhoE.At(i, j)
				}
				dst.Rho.Set(i, j, rho)
				dst.RhoU.Set(i, j, rhoU)
				dst.RhoV.Set(i, j, rhoV)
				dst.RhoE.Set(i, j, rhoE)
			}
		}
	})
}
