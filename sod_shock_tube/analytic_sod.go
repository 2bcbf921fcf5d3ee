package sod_shock_tube

import (
	"math"

	"github.com/smillerc/fvleg-2d/utils"
)

/*
	Analytic solution of the Sod shock tube on [0,1] with the diaphragm at
	x = 0.5: left state (1, 0, 1), right state (0.125, 0, 0.1), gamma = 1.4.
	Used as the reference for end-to-end solver tests and as the canonical
	initial condition.
*/

const (
	RhoL, PL, UL = 1., 1., 0.
	RhoR, PR, UR = 0.125, 0.1, 0.
	Gamma        = 1.4
	X0           = 0.5
)

// Solution is the self-similar wave structure at time t: a left rarefaction
// spanning [X1,X2], a contact at X3 and a shock at X4
type Solution struct {
	T               float64
	PPost, VPost    float64
	RhoPost, RhoMid float64
	VShock          float64
	X1, X2, X3, X4  float64
}

func Solve(t float64) (sol Solution) {
	var (
		mu      = math.Sqrt((Gamma - 1) / (Gamma + 1))
		cL      = math.Sqrt(Gamma * PL / RhoL)
		pPost   = fzero(sodFunc, math.Pi)
		vPost   = 2 * (math.Sqrt(Gamma) / (Gamma - 1)) * (1 - math.Pow(pPost, (Gamma-1)/(2*Gamma)))
		rhoPost = RhoR * ((pPost/PR + mu*mu) / (1 + mu*mu*(pPost/PR)))
		vShock  = vPost * (rhoPost / RhoR) / (rhoPost/RhoR - 1)
		rhoMid  = RhoL * math.Pow(pPost/PL, 1/Gamma)
		cBehind = cL - 0.5*(Gamma-1)*vPost
	)
	sol = Solution{
		T:       t,
		PPost:   pPost,
		VPost:   vPost,
		RhoPost: rhoPost,
		RhoMid:  rhoMid,
		VShock:  vShock,
		X1:      X0 - cL*t,
		X2:      X0 + t*(vPost-cBehind),
		X3:      X0 + vPost*t,
		X4:      X0 + vShock*t,
	}
	return
}

// Sample evaluates the exact primitive state at position x
func (sol Solution) Sample(x float64) (rho, u, p float64) {
	var (
		mu = math.Sqrt((Gamma - 1) / (Gamma + 1))
		cL = math.Sqrt(Gamma * PL / RhoL)
	)
	switch {
	case x < sol.X1:
		rho, u, p = RhoL, UL, PL
	case x <= sol.X2:
		// Inside the rarefaction fan
		c := mu*mu*(X0-x)/sol.T + (1-mu*mu)*cL
		rho = RhoL * math.Pow(c/cL, 2/(Gamma-1))
		p = PL * math.Pow(rho/RhoL, Gamma)
		u = (1 - mu*mu) * ((x-X0)/sol.T + cL)
	case x <= sol.X3:
		rho, u, p = sol.RhoMid, sol.VPost, sol.PPost
	case x <= sol.X4:
		rho, u, p = sol.RhoPost, sol.VPost, sol.PPost
	default:
		rho, u, p = RhoR, UR, PR
	}
	return
}

// InitialState is the t=0 discontinuous state at position x
func InitialState(x float64) (rho, u, p float64) {
	if x < X0 {
		return RhoL, UL, PL
	}
	return RhoR, UR, PR
}

// fzero finds a root of f by a damped secant iteration started at two
// points; adequate for the single smooth root of sodFunc
func fzero(f func(p float64) float64, start float64) float64 {
	var (
		tol = 0.0000001
		res float64
	)
	startOld := start / 2
	res = f(startOld)
	for math.Abs(res) > tol {
		resNew := f(start)
		deriv := (start - startOld) / (resNew - res)
		startNew := math.Abs(start - 0.01*f(start)/deriv)
		startOld = start
		start = startNew
		res = resNew
	}
	return start
}

// sodFunc is the shock-tube pressure relation whose root is the post-shock
// pressure
func sodFunc(p float64) (y float64) {
	var (
		mu  = math.Sqrt((Gamma - 1) / (Gamma + 1))
		mu2 = mu * mu
	)
	y = (p-PR)*math.Sqrt(utils.POW(1-mu2, 2)/(RhoR*(p+mu2*PR))) -
		2*(math.Sqrt(Gamma)/(Gamma-1))*(1-math.Pow(p, (Gamma-1)/(2*Gamma)))
	return
}
