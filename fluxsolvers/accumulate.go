package fluxsolvers

import (
	"math"

	"github.com/smillerc/fvleg-2d/grid"
	"github.com/smillerc/fvleg-2d/utils"
)

// FluxSolverState holds the per-edge normal fluxes of one substep. IFlux[n]
// at (e,j) is conserved component n through the vertical edge between cells
// (e,j) and (e+1,j); JFlux is the horizontal-edge analog. Edge index -1 is
// the low boundary face and lives in the first halo column/row.
type FluxSolverState struct {
	IFlux, JFlux [4]utils.Field
}

func newFluxState(like utils.Field) (st *FluxSolverState) {
	st = &FluxSolverState{}
	for n := 0; n < 4; n++ {
		st.IFlux[n] = like.SameShape()
		st.JFlux[n] = like.SameShape()
	}
	return
}

const cancelEps = 1.0e-14

// cancelSafeSum adds the two signed face contributions of one direction,
// flushing the sum to zero when the operands cancel to below machine noise
// relative to their magnitude. Uniform flow then yields an exact zero
// derivative instead of accumulated roundoff.
func cancelSafeSum(a, b float64) (s float64) {
	norm := math.Max(math.Abs(a), math.Abs(b))
	if norm == 0 {
		norm = 1
	}
	s = a/norm + b/norm
	if math.Abs(s) < cancelEps {
		return 0
	}
	return s * norm
}

// accumulate folds the edge fluxes into cell-centered time derivatives of
// the conserved variables. Halo cells are left at zero.
func accumulate(g grid.Geometry, st *FluxSolverState, parallelDegree int) (dRho, dRhoU, dRhoV, dRhoE utils.Field) {
	var (
		nx, ny = g.Extents()
		out    = [4]utils.Field{}
	)
	for n := 0; n < 4; n++ {
		out[n] = st.IFlux[n].SameShape()
	}
	pm := utils.NewPartitionMap(parallelDegree, nx)
	pm.ParallelFor(func(iMin, iMax int) {
		for i := iMin; i < iMax; i++ {
			for j := 0; j < ny; j++ {
				var (
					lenL = g.EdgeLength(grid.Left, i, j)
					lenR = g.EdgeLength(grid.Right, i, j)
					lenB = g.EdgeLength(grid.Bottom, i, j)
					lenT = g.EdgeLength(grid.Top, i, j)
					oov  = 1. / g.Volume(i, j)
				)
				for n := 0; n < 4; n++ {
					iSum := cancelSafeSum(st.IFlux[n].At(i, j)*lenR, -st.IFlux[n].At(i-1, j)*lenL)
					jSum := cancelSafeSum(st.JFlux[n].At(i, j)*lenT, -st.JFlux[n].At(i, j-1)*lenB)
					out[n].Set(i, j, -(iSum+jSum)*oov)
				}
			}
		}
	})
	dRho, dRhoU, dRhoV, dRhoE = out[0], out[1], out[2], out[3]
	return
}
