package fluxsolvers

import "math"

/*
	SLAU flux (Shima & Kitamura 2011). The mass flux blends the two one-sided
	advective fluxes with a density-weighted mean normal speed and a pressure
	difference term damped by chi = (1 - M_hat)^2, which drives the numerical
	dissipation to zero with the local Mach number. The pressure flux reuses
	the AUSM polynomial splittings.
*/

func (es *EdgeSplit) slauKernel(s *EdgeState, nx, ny float64) (f [4]float64) {
	var (
		unL  = s.UL*nx + s.VL*ny
		unR  = s.UR*nx + s.VR*ny
		cBar = 0.5 * (es.gas.SoundSpeed(s.RhoL, s.PL) + es.gas.SoundSpeed(s.RhoR, s.PR))
		hL   = es.gas.TotalEnthalpy(s.RhoL, s.UL, s.VL, s.PL)
		hR   = es.gas.TotalEnthalpy(s.RhoR, s.UR, s.VR, s.PR)
		mL   = unL / cBar
		mR   = unR / cBar
	)
	mHat := math.Min(1, math.Sqrt(0.5*(s.UL*s.UL+s.VL*s.VL+s.UR*s.UR+s.VR*s.VR))/cBar)
	chi := (1 - mHat) * (1 - mHat)
	g := -math.Max(math.Min(mL, 0), -1) * math.Min(math.Max(mR, 0), 1)

	vnBar := (s.RhoL*math.Abs(unL) + s.RhoR*math.Abs(unR)) / (s.RhoL + s.RhoR)
	vnBarPlus := (1-g)*vnBar + g*math.Abs(unL)
	vnBarMinus := (1-g)*vnBar + g*math.Abs(unR)

	mdot := 0.5 * (s.RhoL*(unL+vnBarPlus) + s.RhoR*(unR-vnBarMinus) - chi/cBar*(s.PR-s.PL))

	pPlusL, _ := pressureSplit(mL)
	_, pMinusR := pressureSplit(mR)
	pTilde := 0.5*(s.PL+s.PR) +
		0.5*(pPlusL-pMinusR)*(s.PL-s.PR) +
		(1-chi)*(pPlusL+pMinusR-1)*0.5*(s.PL+s.PR)

	mdotL := 0.5 * (mdot + math.Abs(mdot))
	mdotR := 0.5 * (mdot - math.Abs(mdot))
	f = [4]float64{
		mdotL + mdotR,
		mdotL*s.UL + mdotR*s.UR + pTilde*nx,
		mdotL*s.VL + mdotR*s.VR + pTilde*ny,
		mdotL*hL + mdotR*hR,
	}
	return
}
