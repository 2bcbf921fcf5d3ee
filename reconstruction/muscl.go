package reconstruction

import (
	"math"
	"strings"

	"github.com/smillerc/fvleg-2d/limiters"
	"github.com/smillerc/fvleg-2d/utils"
)

/*
	MUSCL edge interpolation. Given a cell-averaged scalar field with halo,
	produce the left/right reconstructed states at every cell interface in
	both grid directions. One parametrized routine covers every
	direction x order x limiter combination; direction only changes which
	neighbor offsets are used.

	"Left"/"Right" label which side of the interface the value approaches
	from (tail/head of the edge vector), not absolute x orientation: Left is
	always the lower-index cell's side.
*/

type SchemeType uint

const (
	TVD2 SchemeType = iota
	TVD3
	TVD5
	MLP3
	MLP5
	EMLP3
	EMLP5
)

var (
	SchemeNames = map[string]SchemeType{
		"tvd2":  TVD2,
		"tvd3":  TVD3,
		"tvd5":  TVD5,
		"mlp3":  MLP3,
		"mlp5":  MLP5,
		"emlp3": EMLP3,
		"emlp5": EMLP5,
	}
	SchemePrintNames = []string{"TVD2", "TVD3", "TVD5", "MLP3", "MLP5", "eMLP3", "eMLP5"}
)

func (st SchemeType) Print() (txt string) {
	txt = SchemePrintNames[st]
	return
}

func NewSchemeType(label string) (st SchemeType) {
	var (
		ok bool
	)
	label = strings.ToLower(strings.ReplaceAll(label, "_", ""))
	if st, ok = SchemeNames[label]; !ok {
		utils.Fatalf("reconstruction", "NewSchemeType", "unknown edge interpolation scheme named %q", label)
	}
	return
}

func (st SchemeType) Order() (order int) {
	switch st {
	case TVD2:
		order = 2
	case TVD3, MLP3, EMLP3:
		order = 3
	default:
		order = 5
	}
	return
}

// GhostLayers is the halo width the scheme's stencil requires. The e-MLP
// sensor widens the order-3 footprint by one layer.
func (st SchemeType) GhostLayers() (ng int) {
	switch st {
	case TVD2, TVD3, MLP3:
		ng = 2
	default:
		ng = 3
	}
	return
}

func (st SchemeType) usesMLP() bool {
	return st == MLP3 || st == MLP5 || st == EMLP3 || st == EMLP5
}

func (st SchemeType) usesSensor() bool {
	return st == EMLP3 || st == EMLP5
}

type Direction int

const (
	IDir Direction = iota
	JDir
)

func (d Direction) Offsets() (di, dj int) {
	if d == IDir {
		di = 1
	} else {
		dj = 1
	}
	return
}

// EdgeValues holds the two reconstructed states abutting each interface.
// For direction i, Left(i,j) and Right(i,j) straddle the edge between cell
// (i,j) and (i+1,j); valid edge indices run [-1, Nx-1] over interior rows.
type EdgeValues struct {
	Left, Right utils.Field
}

type MUSCL struct {
	Scheme         SchemeType
	Limiter        limiters.LimiterType // scalar limiter, order-2 path only
	parallelDegree int
}

func NewMUSCL(scheme SchemeType, limiter limiters.LimiterType, parallelDegree int) (m *MUSCL) {
	m = &MUSCL{
		Scheme:         scheme,
		Limiter:        limiter,
		parallelDegree: parallelDegree,
	}
	return
}

// Reconstruct produces the i- and j-direction edge states for q. sensor may
// be nil for every scheme except e-MLP, which requires the continuity
// classification computed from the full primitive state in the same substep.
func (m *MUSCL) Reconstruct(q utils.Field, sensor *RegionSensor) (iEdges, jEdges EdgeValues) {
	if m.Scheme.usesSensor() && sensor == nil {
		utils.Fatalf("reconstruction", "Reconstruct", "scheme %s requires a continuity sensor", m.Scheme.Print())
	}
	iEdges = m.reconstructDir(q, sensor, IDir)
	jEdges = m.reconstructDir(q, sensor, JDir)
	return
}

func (m *MUSCL) reconstructDir(q utils.Field, sensor *RegionSensor, dir Direction) (ev EdgeValues) {
	var (
		di, dj = dir.Offsets()
	)
	ev = EdgeValues{Left: q.SameShape(), Right: q.SameShape()}
	// Edge index e runs [-1, N-1] along the direction; rows in the transverse
	// direction are partitioned across goroutines with disjoint writes
	nEdge, nRow := q.Nx, q.Ny
	if dir == JDir {
		nEdge, nRow = q.Ny, q.Nx
	}
	pm := utils.NewPartitionMap(m.parallelDegree, nRow)
	pm.ParallelFor(func(rMin, rMax int) {
		for r := rMin; r < rMax; r++ {
			for e := -1; e < nEdge; e++ {
				var i, j int
				if dir == IDir {
					i, j = e, r
				} else {
					i, j = r, e
				}
				left, right := m.edgePair(q, sensor, i, j, di, dj)
				ev.Left.Set(i, j, left)
				ev.Right.Set(i, j, right)
			}
		}
	})
	return
}

// edgePair evaluates both reconstructed states at the interface between cell
// (i,j) and cell (i+di,j+dj)
func (m *MUSCL) edgePair(q utils.Field, sensor *RegionSensor, i, j, di, dj int) (left, right float64) {
	var (
		st = m.Scheme
		// Consecutive differences along the direction, snapped to zero below
		// machine epsilon before any ratio is formed
		delta = func(k int) float64 {
			return utils.SnapToZero(q.At(i+k*di, j+k*dj) - q.At(i+(k-1)*di, j+(k-1)*dj))
		}
		d0 = delta(0) // delta_{i-1/2}
		d1 = delta(1) // delta_{i+1/2}
		d2 = delta(2) // delta_{i+3/2}
	)
	rL := utils.RegRatio(d1, d0)
	rR := utils.RegRatio(d1, d2)

	var betaL, betaR float64
	switch st.Order() {
	case 3:
		betaL, betaR = limiters.Beta3(rL), limiters.Beta3(rR)
	case 5:
		dm1, d3 := delta(-1), delta(3)
		betaL = limiters.Beta5(utils.RegRatio(d0, dm1), rL, utils.RegRatio(d2, d1))
		betaR = limiters.Beta5(utils.RegRatio(d2, d3), rR, utils.RegRatio(d0, d1))
	}

	var phiL, phiR float64
	switch {
	case st == TVD2:
		phiL, phiR = m.Limiter.Limit(rL), m.Limiter.Limit(rR)
	case st == TVD3 || st == TVD5:
		phiL = math.Max(0, math.Min(2, math.Min(2*rL, betaL)))
		phiR = math.Max(0, math.Min(2, math.Min(2*rR, betaR)))
	default: // MLP / e-MLP
		tanHere := tanTheta(q, i, j, di, dj)
		tanNext := tanTheta(q, i+di, j+dj, di, dj)
		alphaL := limiters.MLPAlpha(rL, rR, tanHere, tanNext)
		alphaR := limiters.MLPAlpha(rR, rL, tanNext, tanHere)
		mlpL := math.Max(0, math.Min(alphaL*rL, math.Min(alphaL, betaL)))
		mlpR := math.Max(0, math.Min(alphaR*rR, math.Min(alphaR, betaR)))
		if !st.usesSensor() {
			phiL, phiR = mlpL, mlpR
		} else {
			phiL = blendForRegion(sensor.At(i, j), rL, betaL, mlpL)
			phiR = blendForRegion(sensor.At(i+di, j+dj), rR, betaR, mlpR)
		}
	}
	left = q.At(i, j) + 0.5*phiL*d0
	right = q.At(i+di, j+dj) - 0.5*phiR*d2
	return
}

// blendForRegion selects the e-MLP blend coefficient by cell classification:
// smooth cells run the unlimited high-order polynomial, linear
// discontinuities the TVD clamp, nonlinear discontinuities the full MLP
// three-way min.
func blendForRegion(region int, r, beta, mlp float64) (phi float64) {
	switch region {
	case CONTINUOUS:
		phi = beta
	case LINEAR_DISCONTINUITY:
		phi = math.Max(0, math.Min(2, math.Min(2*r, beta)))
	default: // NONLINEAR_DISCONTINUITY
		phi = mlp
	}
	return
}

// tanTheta is the transverse-to-streamwise gradient ratio at cell (i,j),
// formed from absolute central differences with a regularized denominator
func tanTheta(q utils.Field, i, j, di, dj int) float64 {
	var (
		tdi, tdj = dj, di // transverse offsets
		num      = math.Abs(q.At(i+tdi, j+tdj) - q.At(i-tdi, j-tdj))
		den      = math.Abs(q.At(i+di, j+dj) - q.At(i-di, j-dj))
	)
	return utils.RegRatio(num, den)
}
