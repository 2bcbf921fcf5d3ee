package fluxsolvers

import (
	"math"

	"github.com/smillerc/fvleg-2d/bcs"
	"github.com/smillerc/fvleg-2d/eos"
	"github.com/smillerc/fvleg-2d/evolution"
	"github.com/smillerc/fvleg-2d/grid"
	"github.com/smillerc/fvleg-2d/machcone"
	"github.com/smillerc/fvleg-2d/reconstruction"
	"github.com/smillerc/fvleg-2d/utils"
)

/*
	FVLEG flux solver. Instead of a 1D Riemann solve per edge, the primitive
	state is reconstructed pointwise (limited linear profiles), evolved over
	tau = dt/2 at every cell corner and edge midpoint through the Mach-cone
	E0 operator, and the edge flux is the Simpson quadrature of the analytic
	flux over the evolved corner/midpoint/corner states. The three cone
	collections are allocated once and rebuilt every substep.
*/

type FVLEGSolver struct {
	g          grid.Geometry
	gas        eos.IdealGas
	conditions []bcs.BoundaryCondition
	cfg        Config
	pointwise  *reconstruction.Pointwise
	corners    *machcone.Collection
	iMids      *machcone.Collection
	jMids      *machcone.Collection
	time       float64
}

func newFVLEG(g grid.Geometry, gas eos.IdealGas, conditions []bcs.BoundaryCondition, cfg Config) (fv *FVLEGSolver) {
	nx, _ := g.Extents()
	fv = &FVLEGSolver{
		g:          g,
		gas:        gas,
		conditions: conditions,
		cfg:        cfg,
		pointwise:  reconstruction.NewPointwise(cfg.Limiter, cfg.ParallelDegree, nx),
		corners:    machcone.NewCollection(machcone.Corner, g, gas, cfg.ParallelDegree),
		iMids:      machcone.NewCollection(machcone.IMidpoint, g, gas, cfg.ParallelDegree),
		jMids:      machcone.NewCollection(machcone.JMidpoint, g, gas, cfg.ParallelDegree),
	}
	return
}

func (fv *FVLEGSolver) Name() string { return FVLEG.Print() }

// GhostLayers: the pointwise slopes are evaluated one ring outside the
// interior and their stencil reaches one cell further
func (fv *FVLEGSolver) GhostLayers() int  { return 2 }
func (fv *FVLEGSolver) SetTime(t float64) { fv.time = t }

func (fv *FVLEGSolver) Solve(dt float64, rho, u, v, p utils.Field) (dRho, dRhoU, dRhoV, dRhoE utils.Field) {
	if dt < math.SmallestNonzeroFloat64 {
		utils.Fatalf("fluxsolvers", "Solve", "timestep %g is below machine tiny", dt)
	}
	bcs.ApplyAll(fv.conditions, fv.time, rho, u, v, p)

	var (
		rhoPt = fv.pointwise.Reconstruct(rho)
		uPt   = fv.pointwise.Reconstruct(u)
		vPt   = fv.pointwise.Reconstruct(v)
		pPt   = fv.pointwise.Reconstruct(p)
		// Midpoint rule in time: evolve to the half step, flux once
		tau = 0.5 * dt
	)
	fv.corners.Initialize(tau, rhoPt, uPt, vPt, pPt)
	fv.iMids.Initialize(tau, rhoPt, uPt, vPt, pPt)
	fv.jMids.Initialize(tau, rhoPt, uPt, vPt, pPt)

	var (
		evC = evolution.Evolve(fv.corners, fv.cfg.ParallelDegree)
		evI = evolution.Evolve(fv.iMids, fv.cfg.ParallelDegree)
		evJ = evolution.Evolve(fv.jMids, fv.cfg.ParallelDegree)
	)

	st := newFluxState(rho)
	fv.edgeFluxes(st, evC, evI, evJ)
	dRho, dRhoU, dRhoV, dRhoE = accumulate(fv.g, st, fv.cfg.ParallelDegree)
	return
}

// edgeFluxes integrates the analytic flux of the evolved states over each
// edge with Simpson's rule: corner + 4*midpoint + corner over 6
func (fv *FVLEGSolver) edgeFluxes(st *FluxSolverState, evC, evI, evJ *evolution.Evolved) {
	var (
		nx, ny = fv.g.Extents()
	)
	simpson := func(c0, m, c1 [4]float64) (f [4]float64) {
		for n := 0; n < 4; n++ {
			f[n] = (c0[n] + 4*m[n] + c1[n]) / 6
		}
		return
	}
	pm := utils.NewPartitionMap(fv.cfg.ParallelDegree, ny)
	pm.ParallelFor(func(jMin, jMax int) {
		for j := jMin; j < jMax; j++ {
			for e := -1; e < nx; e++ {
				// Vertical edge between cells (e,j) and (e+1,j): corner nodes
				// (e+1,j),(e+1,j+1), i-midpoint (e+1,j)
				fnx, fny := fv.g.EdgeNormal(grid.Right, clamp(e, nx), j)
				c0 := physFlux(fv.gas, evC.Rho[e+1][j], evC.U[e+1][j], evC.V[e+1][j], evC.P[e+1][j], fnx, fny)
				m := physFlux(fv.gas, evI.Rho[e+1][j], evI.U[e+1][j], evI.V[e+1][j], evI.P[e+1][j], fnx, fny)
				c1 := physFlux(fv.gas, evC.Rho[e+1][j+1], evC.U[e+1][j+1], evC.V[e+1][j+1], evC.P[e+1][j+1], fnx, fny)
				f := simpson(c0, m, c1)
				for n := 0; n < 4; n++ {
					st.IFlux[n].Set(e, j, f[n])
				}
			}
		}
	})
	pmI := utils.NewPartitionMap(fv.cfg.ParallelDegree, nx)
	pmI.ParallelFor(func(iMin, iMax int) {
		for i := iMin; i < iMax; i++ {
			for e := -1; e < ny; e++ {
				// Horizontal edge between cells (i,e) and (i,e+1): corner nodes
				// (i,e+1),(i+1,e+1), j-midpoint (i,e+1)
				fnx, fny := fv.g.EdgeNormal(grid.Top, i, clamp(e, ny))
				c0 := physFlux(fv.gas, evC.Rho[i][e+1], evC.U[i][e+1], evC.V[i][e+1], evC.P[i][e+1], fnx, fny)
				m := physFlux(fv.gas, evJ.Rho[i][e+1], evJ.U[i][e+1], evJ.V[i][e+1], evJ.P[i][e+1], fnx, fny)
				c1 := physFlux(fv.gas, evC.Rho[i+1][e+1], evC.U[i+1][e+1], evC.V[i+1][e+1], evC.P[i+1][e+1], fnx, fny)
				f := simpson(c0, m, c1)
				for n := 0; n < 4; n++ {
					st.JFlux[n].Set(i, e, f[n])
				}
			}
		}
	})
}
