package reconstruction

import (
	"github.com/smillerc/fvleg-2d/limiters"
	"github.com/smillerc/fvleg-2d/utils"
)

/*
	Pointwise limited-linear reconstruction, used by the FVLEG path. Each cell
	carries a limited slope per direction; evaluating the linear profile at
	the four corners and four edge midpoints supplies the neighbor-cell states
	the Mach cone constructor needs.
*/

// PointValues is a per-cell linear profile: value at the centroid plus one
// limited slope per direction, in cell-width units
type PointValues struct {
	Q, Sx, Sy utils.Field
}

// AtOffset evaluates cell (i,j)'s profile at the fractional offset
// (ox,oy) from the centroid; corners are (+-1/2, +-1/2), midpoints have one
// zero component
func (pv PointValues) AtOffset(i, j int, ox, oy float64) float64 {
	return pv.Q.At(i, j) + ox*pv.Sx.At(i, j) + oy*pv.Sy.At(i, j)
}

type Pointwise struct {
	Limiter limiters.LimiterType
	pm      *utils.PartitionMap
}

func NewPointwise(limiter limiters.LimiterType, parallelDegree, nx int) (p *Pointwise) {
	p = &Pointwise{
		Limiter: limiter,
		pm:      utils.NewPartitionMap(parallelDegree, nx),
	}
	return
}

// Reconstruct computes limited slopes for every cell within one layer of the
// interior (cone lattices touch the first halo ring)
func (p *Pointwise) Reconstruct(q utils.Field) (pv PointValues) {
	pv = PointValues{Q: q, Sx: q.SameShape(), Sy: q.SameShape()}
	p.pm.ParallelFor(func(iMin, iMax int) {
		lo, hi := iMin, iMax
		if lo == 0 {
			lo = -1
		}
		if hi == q.Nx {
			hi = q.Nx + 1
		}
		for i := lo; i < hi; i++ {
			for j := -1; j <= q.Ny; j++ {
				pv.Sx.Set(i, j, p.slope(
					q.At(i, j)-q.At(i-1, j), q.At(i+1, j)-q.At(i, j)))
				pv.Sy.Set(i, j, p.slope(
					q.At(i, j)-q.At(i, j-1), q.At(i, j+1)-q.At(i, j)))
			}
		}
	})
	return
}

func (p *Pointwise) slope(dMinus, dPlus float64) float64 {
	dMinus = utils.SnapToZero(dMinus)
	dPlus = utils.SnapToZero(dPlus)
	r := utils.RegRatio(dPlus, dMinus)
	return p.Limiter.Limit(r) * dMinus
}
