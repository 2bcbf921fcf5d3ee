package limiters

import (
	"math"
	"strings"

	"github.com/smillerc/fvleg-2d/utils"
)

// Scalar slope limiters, the TVD beta polynomials and the multidimensional
// limiting (MLP) alpha factor. Every routine takes smoothness ratios that the
// caller has already formed from snapped finite differences; denominators
// here are regularized, never test-divided.

type LimiterType uint

const (
	MINMOD LimiterType = iota
	SUPERBEE
	VAN_LEER
)

var (
	LimiterNames = map[string]LimiterType{
		"minmod":   MINMOD,
		"superbee": SUPERBEE,
		"van_leer": VAN_LEER,
	}
	LimiterPrintNames = []string{"minmod", "superbee", "van_leer"}
)

func (lt LimiterType) Print() (txt string) {
	txt = LimiterPrintNames[lt]
	return
}

func NewLimiterType(label string) (lt LimiterType) {
	var (
		ok bool
	)
	label = strings.ToLower(label)
	if lt, ok = LimiterNames[label]; !ok {
		utils.Fatalf("limiters", "NewLimiterType", "unknown limiter named %q", label)
	}
	return
}

func (lt LimiterType) Limit(r float64) (phi float64) {
	switch lt {
	case MINMOD:
		phi = Minmod(r)
	case SUPERBEE:
		phi = Superbee(r)
	case VAN_LEER:
		phi = VanLeer(r)
	}
	return
}

func Minmod(r float64) float64 {
	return math.Max(0, math.Min(r, 1))
}

func Superbee(r float64) float64 {
	return math.Max(0, math.Max(math.Min(2*r, 1), math.Min(r, 2)))
}

func VanLeer(r float64) float64 {
	return (r + math.Abs(r)) / (1 + math.Abs(r))
}

// Beta3 is the third-order TVD polynomial in the smoothness ratio
func Beta3(r float64) float64 {
	return (1 + 2*r) / 3
}

// Beta5 is the fifth-order TVD polynomial; rm and rp are the ratios one cell
// behind and ahead of the interface ratio r
func Beta5(rm, r, rp float64) float64 {
	return (utils.RegRatio(-2, rm) + 11 + 24*r - 3*r*rp) / 30
}

// MLPAlpha is the multidimensional limiting factor of Kim & Kim (2005),
// Eq. 64 family. rOwn/rOpp are the interface smoothness ratios on the owning
// and opposing sides, tanHere/tanNext the transverse-to-streamwise gradient
// ratios at the cell and its interface neighbor. The result is clipped to
// [1,2].
func MLPAlpha(rOwn, rOpp, tanHere, tanNext float64) (alpha float64) {
	term := 2 * math.Max(1, rOwn) * (1 + math.Max(0, utils.RegRatio(tanNext, rOpp))) / (1 + tanHere)
	alpha = math.Max(1, math.Min(term, 2))
	return
}
