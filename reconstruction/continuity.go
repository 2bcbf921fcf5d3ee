package reconstruction

import (
	"math"

	"github.com/smillerc/fvleg-2d/utils"
)

// Per-cell continuity classification used to gate the e-MLP blend. Computed
// once per interpolation call from curvature estimates of the primitive
// state, consumed immediately, never persisted.

const (
	CONTINUOUS              = 0
	LINEAR_DISCONTINUITY    = 1
	NONLINEAR_DISCONTINUITY = 2
)

// RegionSensor is a halo-indexed integer field with the same index mapping
// as the primitive Fields it classifies
type RegionSensor struct {
	Nx, Ny, Ng int
	v          []int
}

func NewRegionSensor(nx, ny, ng int) (s *RegionSensor) {
	s = &RegionSensor{
		Nx: nx,
		Ny: ny,
		Ng: ng,
		v:  make([]int, (nx+2*ng)*(ny+2*ng)),
	}
	return
}

func (s *RegionSensor) At(i, j int) int {
	return s.v[(j+s.Ng)+(i+s.Ng)*(s.Ny+2*s.Ng)]
}

func (s *RegionSensor) Set(i, j, region int) {
	s.v[(j+s.Ng)+(i+s.Ng)*(s.Ny+2*s.Ng)] = region
}

// minVelocity is the magnitude below which the velocity curvature estimate
// cannot flag a discontinuity
const minVelocity = 1.0e-6

// DistinguishContinuousRegions classifies every cell within one layer of the
// interior as continuous, linearly discontinuous (contact/shear) or
// nonlinearly discontinuous (shock), from 4th-order curvature estimates of
// density, the dominant velocity component and pressure. eps is the
// detection threshold (literature: 0.001 steady, 0.01 unsteady).
func DistinguishContinuousRegions(rho, u, v, p utils.Field, eps float64, pm *utils.PartitionMap) (s *RegionSensor) {
	s = NewRegionSensor(rho.Nx, rho.Ny, rho.Ng)
	pm.ParallelFor(func(iMin, iMax int) {
		// The partition map covers the interior rows; the single extra ring
		// the edge interpolator touches is folded into the first and last
		// buckets
		lo, hi := iMin, iMax
		if lo == 0 {
			lo = -1
		}
		if hi == rho.Nx {
			hi = rho.Nx + 1
		}
		for i := lo; i < hi; i++ {
			for j := -1; j <= rho.Ny; j++ {
				region := CONTINUOUS
				if dBar(rho, i, j) > eps {
					region = LINEAR_DISCONTINUITY
				}
				// Dominant velocity component, ties broken toward u
				vel, velField := u.At(i, j), u
				if math.Abs(v.At(i, j)) > math.Abs(vel) {
					vel, velField = v.At(i, j), v
				}
				if dBar(velField, i, j) > eps && math.Abs(vel) > minVelocity {
					region = LINEAR_DISCONTINUITY
				}
				// Pressure always wins
				if dBar(p, i, j) > eps {
					region = NONLINEAR_DISCONTINUITY
				}
				s.Set(i, j, region)
			}
		}
	})
	return
}

// dBar is the direction-averaged 4th-order curvature estimate of F at (i,j).
// A zero center value drops that direction's term.
func dBar(f utils.Field, i, j int) float64 {
	var (
		c      = f.At(i, j)
		di, dj float64
	)
	if c != 0 {
		di = math.Abs((-f.At(i-2, j)/6+2*f.At(i-1, j)/3+2*f.At(i+1, j)/3-f.At(i+2, j)/6)/c - 1)
		dj = math.Abs((-f.At(i, j-2)/6+2*f.At(i, j-1)/3+2*f.At(i, j+1)/3-f.At(i, j+2)/6)/c - 1)
	}
	return 0.5 * (di + dj)
}
