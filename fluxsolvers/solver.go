package fluxsolvers

import (
	"math"
	"strings"

	"github.com/smillerc/fvleg-2d/bcs"
	"github.com/smillerc/fvleg-2d/eos"
	"github.com/smillerc/fvleg-2d/grid"
	"github.com/smillerc/fvleg-2d/limiters"
	"github.com/smillerc/fvleg-2d/reconstruction"
	"github.com/smillerc/fvleg-2d/utils"
)

/*
	Flux solvers turn the primitive state into d(conserved)/dt for one
	substep. Every variant follows the same control flow: apply boundary
	conditions, reconstruct sub-cell states, compute per-edge fluxes, then
	accumulate the signed face sums into a cell-centered derivative with the
	halo rows forced to zero.

	The edge-split variants (Roe, AUSMPW+, SLAU) consume left/right MUSCL
	edge states directly; the FVLEG variant builds Mach cones and evolves
	the state locally before flux evaluation.
*/

type FluxSolver interface {
	Name() string
	GhostLayers() int
	SetTime(t float64)
	Solve(dt float64, rho, u, v, p utils.Field) (dRho, dRhoU, dRhoV, dRhoE utils.Field)
}

type SolverType uint

const (
	ROE SolverType = iota
	AUSMPW_PLUS
	SLAU
	FVLEG
)

var (
	SolverNames = map[string]SolverType{
		"roe":     ROE,
		"ausmpw+": AUSMPW_PLUS,
		"slau":    SLAU,
		"fvleg":   FVLEG,
	}
	SolverPrintNames = []string{"Roe", "AUSMPW+", "SLAU", "FVLEG"}
)

func NewSolverType(label string) (st SolverType) {
	var (
		ok bool
	)
	if st, ok = SolverNames[strings.ToLower(label)]; !ok {
		utils.Fatalf("fluxsolvers", "NewSolverType", "unknown flux solver named %q", label)
	}
	return
}

func (st SolverType) Print() (txt string) {
	txt = SolverPrintNames[st]
	return
}

// Config carries the reconstruction and solver tunables from the input deck
type Config struct {
	Scheme         reconstruction.SchemeType
	Limiter        limiters.LimiterType
	SensorEps      float64 // e-MLP continuity detection threshold
	LowMachCutoff  float64 // AUSMPW+ velocity symmetrization cutoff; 0 disables
	ParallelDegree int
}

// New builds the named flux solver over the given geometry, EOS and
// boundary conditions
func New(st SolverType, g grid.Geometry, gas eos.IdealGas, conditions []bcs.BoundaryCondition, cfg Config) (fs FluxSolver) {
	if cfg.ParallelDegree < 1 {
		cfg.ParallelDegree = 1
	}
	switch st {
	case FVLEG:
		fs = newFVLEG(g, gas, conditions, cfg)
	default:
		fs = newEdgeSplit(st, g, gas, conditions, cfg)
	}
	return
}

// EdgeState is the stencil handed to an edge-split kernel: the two
// reconstructed interface states plus the cell-centered pressures the shock
// sensors need. Along the edge direction PLL,PLC,PRC,PRR are the pressures
// of cells e-1..e+2; PT holds the four transverse neighbors.
type EdgeState struct {
	RhoL, UL, VL, PL   float64
	RhoR, UR, VR, PR   float64
	PLL, PLC, PRC, PRR float64
	PT                 [4]float64
}

type edgeKernel func(s *EdgeState, nx, ny float64) [4]float64

type EdgeSplit struct {
	stype      SolverType
	g          grid.Geometry
	gas        eos.IdealGas
	conditions []bcs.BoundaryCondition
	cfg        Config
	muscl      *reconstruction.MUSCL
	kernel     edgeKernel
	time       float64
}

func newEdgeSplit(st SolverType, g grid.Geometry, gas eos.IdealGas, conditions []bcs.BoundaryCondition, cfg Config) (es *EdgeSplit) {
	es = &EdgeSplit{
		stype:      st,
		g:          g,
		gas:        gas,
		conditions: conditions,
		cfg:        cfg,
		muscl:      reconstruction.NewMUSCL(cfg.Scheme, cfg.Limiter, cfg.ParallelDegree),
	}
	switch st {
	case ROE:
		es.kernel = es.roeKernel
	case AUSMPW_PLUS:
		es.kernel = es.ausmpwKernel
	case SLAU:
		es.kernel = es.slauKernel
	}
	return
}

func (es *EdgeSplit) Name() string      { return es.stype.Print() }
func (es *EdgeSplit) GhostLayers() int  { return es.cfg.Scheme.GhostLayers() }
func (es *EdgeSplit) SetTime(t float64) { es.time = t }

func (es *EdgeSplit) Solve(dt float64, rho, u, v, p utils.Field) (dRho, dRhoU, dRhoV, dRhoE utils.Field) {
	if dt < math.SmallestNonzeroFloat64 {
		utils.Fatalf("fluxsolvers", "Solve", "timestep %g is below machine tiny", dt)
	}
	bcs.ApplyAll(es.conditions, es.time, rho, u, v, p)

	var sensor *reconstruction.RegionSensor
	if es.cfg.Scheme == reconstruction.EMLP3 || es.cfg.Scheme == reconstruction.EMLP5 {
		pm := utils.NewPartitionMap(es.cfg.ParallelDegree, rho.Nx)
		sensor = reconstruction.DistinguishContinuousRegions(rho, u, v, p, es.cfg.SensorEps, pm)
	}

	var iE, jE [4]reconstruction.EdgeValues
	for n, f := range []utils.Field{rho, u, v, p} {
		iE[n], jE[n] = es.muscl.Reconstruct(f, sensor)
	}

	st := newFluxState(rho)
	es.computeEdgeFluxes(st, iE, jE, p)
	dRho, dRhoU, dRhoV, dRhoE = accumulate(es.g, st, es.cfg.ParallelDegree)
	return
}

// computeEdgeFluxes fills the per-edge flux arrays in both directions.
// The L state is always the lower-index cell's side of the interface.
func (es *EdgeSplit) computeEdgeFluxes(st *FluxSolverState, iE, jE [4]reconstruction.EdgeValues, p utils.Field) {
	var (
		nx, ny = p.Nx, p.Ny
	)
	pm := utils.NewPartitionMap(es.cfg.ParallelDegree, ny)
	pm.ParallelFor(func(jMin, jMax int) {
		var s EdgeState
		for j := jMin; j < jMax; j++ {
			for e := -1; e < nx; e++ {
				s = EdgeState{
					RhoL: iE[0].Left.At(e, j), UL: iE[1].Left.At(e, j), VL: iE[2].Left.At(e, j), PL: iE[3].Left.At(e, j),
					RhoR: iE[0].Right.At(e, j), UR: iE[1].Right.At(e, j), VR: iE[2].Right.At(e, j), PR: iE[3].Right.At(e, j),
					PLL: p.At(e-1, j), PLC: p.At(e, j), PRC: p.At(e+1, j), PRR: p.At(e+2, j),
					PT: [4]float64{p.At(e, j-1), p.At(e, j+1), p.At(e+1, j-1), p.At(e+1, j+1)},
				}
				fnx, fny := es.g.EdgeNormal(grid.Right, clamp(e, nx), j)
				f := es.kernel(&s, fnx, fny)
				for n := 0; n < 4; n++ {
					st.IFlux[n].Set(e, j, f[n])
				}
			}
		}
	})
	pmI := utils.NewPartitionMap(es.cfg.ParallelDegree, nx)
	pmI.ParallelFor(func(iMin, iMax int) {
		var s EdgeState
		for i := iMin; i < iMax; i++ {
			for e := -1; e < ny; e++ {
				s = EdgeState{
					RhoL: jE[0].Left.At(i, e), UL: jE[1].Left.At(i, e), VL: jE[2].Left.At(i, e), PL: jE[3].Left.At(i, e),
					RhoR: jE[0].Right.At(i, e), UR: jE[1].Right.At(i, e), VR: jE[2].Right.At(i, e), PR: jE[3].Right.At(i, e),
					PLL: p.At(i, e-1), PLC: p.At(i, e), PRC: p.At(i, e+1), PRR: p.At(i, e+2),
					PT: [4]float64{p.At(i-1, e), p.At(i+1, e), p.At(i-1, e+1), p.At(i+1, e+1)},
				}
				fnx, fny := es.g.EdgeNormal(grid.Top, i, clamp(e, ny))
				f := es.kernel(&s, fnx, fny)
				for n := 0; n < 4; n++ {
					st.JFlux[n].Set(i, e, f[n])
				}
			}
		}
	})
}

func clamp(e, n int) int {
	if e < 0 {
		return 0
	}
	if e > n-1 {
		return n - 1
	}
	return e
}

// physFlux is the analytic normal flux of a primitive state through a face
// with unit normal (nx,ny)
func physFlux(gas eos.IdealGas, rho, u, v, p, nx, ny float64) (f [4]float64) {
	var (
		E  = gas.TotalEnergy(rho, u, v, p)
		un = u*nx + v*ny
	)
	f = [4]float64{
		rho * un,
		rho*un*u + p*nx,
		rho*un*v + p*ny,
		un * (E + p),
	}
	return
}
