package fluxsolvers

import "math"

// hartenEps sets the entropy-fix floor as a fraction of the Roe-averaged
// sound speed
const hartenEps = 0.05

// entropyFixed is the Harten-smoothed eigenvalue magnitude: below the floor
// the |lambda| cusp is replaced by a parabola so expansion shocks cannot
// survive a vanishing eigenvalue
func entropyFixed(lambda, c float64) float64 {
	var (
		delta = hartenEps * c
		al    = math.Abs(lambda)
	)
	if al < delta {
		return 0.5 * (al*al/delta + delta)
	}
	return al
}

// shockJump is the pressure-ratio shock indicator f_h: 0 below a unit
// relative jump, 1 at or above it
func shockJump(pa, pb float64) float64 {
	if math.Abs(pb-pa)/math.Min(pa, pb) < 1 {
		return 0
	}
	return 1
}

// shearSense takes the max of f_h over the edge's own face, the two
// collinear faces up/downstream, and the two parallel faces one cell to
// either transverse side. The shear-wave dissipation is active only when one
// of the five faces straddles a captured shock.
func shearSense(s *EdgeState) (fh float64) {
	fh = shockJump(s.PLC, s.PRC)
	fh = math.Max(fh, shockJump(s.PLL, s.PLC))
	fh = math.Max(fh, shockJump(s.PRC, s.PRR))
	fh = math.Max(fh, shockJump(s.PT[0], s.PT[2]))
	fh = math.Max(fh, shockJump(s.PT[1], s.PT[3]))
	return
}

// roeKernel computes the Roe flux through one face. The state is rotated
// into the face frame (normal, tangent), the characteristic decomposition is
// evaluated there, and the momentum flux is rotated back afterwards.
func (es *EdgeSplit) roeKernel(s *EdgeState, nx, ny float64) (f [4]float64) {
	var (
		GM1      = es.gas.Gamma() - 1
		unL, utL = s.UL*nx + s.VL*ny, -s.UL*ny + s.VL*nx
		unR, utR = s.UR*nx + s.VR*ny, -s.UR*ny + s.VR*nx
		eL       = es.gas.TotalEnergy(s.RhoL, unL, utL, s.PL)
		eR       = es.gas.TotalEnergy(s.RhoR, unR, utR, s.PR)
		hL       = (eL + s.PL) / s.RhoL
		hR       = (eR + s.PR) / s.RhoR
	)
	fL := [4]float64{s.RhoL * unL, s.RhoL*unL*unL + s.PL, s.RhoL * unL * utL, unL * (eL + s.PL)}
	fR := [4]float64{s.RhoR * unR, s.RhoR*unR*unR + s.PR, s.RhoR * unR * utR, unR * (eR + s.PR)}

	// Roe averages
	rhoLs, rhoRs := math.Sqrt(s.RhoL), math.Sqrt(s.RhoR)
	rhoLsRs := rhoLs + rhoRs
	rho := rhoLs * rhoRs
	u := (rhoLs*unL + rhoRs*unR) / rhoLsRs
	ut := (rhoLs*utL + rhoRs*utR) / rhoLsRs
	h := (rhoLs*hL + rhoRs*hR) / rhoLsRs
	c2 := GM1 * (h - 0.5*(u*u+ut*ut))
	c := math.Sqrt(c2)

	// Characteristic wave strengths
	dW1 := -0.5*(rho*(unR-unL))/c + 0.5*(s.PR-s.PL)/c2
	dW2 := (s.RhoR - s.RhoL) - (s.PR-s.PL)/c2
	dW3 := rho * (utR - utL)
	dW4 := 0.5*(rho*(unR-unL))/c + 0.5*(s.PR-s.PL)/c2
	dW1 *= entropyFixed(u-c, c)
	dW2 *= entropyFixed(u, c)
	dW3 *= entropyFixed(u, c) * shearSense(s)
	dW4 *= entropyFixed(u+c, c)

	var fn [4]float64
	for n := 0; n < 4; n++ {
		fn[n] = 0.5 * (fL[n] + fR[n])
	}
	fn[0] -= 0.5 * (dW1 + dW2 + dW4)
	fn[1] -= 0.5 * (dW1*(u-c) + dW2*u + dW4*(u+c))
	fn[2] -= 0.5 * (dW1*ut + dW2*ut + dW3 + dW4*ut)
	fn[3] -= 0.5 * (dW1*(h-u*c) + dW2*0.5*(u*u+ut*ut) + dW3*ut + dW4*(h+u*c))

	f = [4]float64{
		fn[0],
		fn[1]*nx - fn[2]*ny,
		fn[1]*ny + fn[2]*nx,
		fn[3],
	}
	return
}
