package eos

import "math"

/*
	IdealGas supplies the polytropic equation of state relations used
	throughout the solver. An instance is constructed once from the input
	deck and passed to every component that needs gamma or a sound speed;
	nothing reaches for a package-level singleton.

	Conserved total energy E is per unit volume:
		E = p/(gamma-1) + 0.5*rho*(u^2+v^2)
*/
type IdealGas struct {
	gamma float64
}

func NewIdealGas(gamma float64) IdealGas {
	return IdealGas{gamma: gamma}
}

func (g IdealGas) Gamma() float64 { return g.gamma }

func (g IdealGas) Pressure(rho, u, v, E float64) float64 {
	return (g.gamma - 1) * (E - 0.5*rho*(u*u+v*v))
}

func (g IdealGas) TotalEnergy(rho, u, v, p float64) float64 {
	return p/(g.gamma-1) + 0.5*rho*(u*u+v*v)
}

func (g IdealGas) SoundSpeed(rho, p float64) float64 {
	return math.Sqrt(g.gamma * p / rho)
}

// TotalEnthalpy is (E+p)/rho, the quantity conserved across steady shocks
func (g IdealGas) TotalEnthalpy(rho, u, v, p float64) float64 {
	return (g.TotalEnergy(rho, u, v, p) + p) / rho
}
