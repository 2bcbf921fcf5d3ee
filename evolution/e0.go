package evolution

import (
	"math"

	"github.com/smillerc/fvleg-2d/machcone"
	"github.com/smillerc/fvleg-2d/utils"
)

/*
	E0 local evolution operator. Integrates the closed-form solution of the
	Euler equations linearized about each cone's reference state over the
	cone's angular domain, using the trig moments precomputed by the Mach
	cone constructor. The acoustic part is an integral over the sonic
	circle; the entropy wave is advected from P', which is why the cone
	carries the P' density/pressure snapshot.

	A neighbor cell whose arcs have zero span contributes nothing through
	the sin/cos difference terms; no special-case branch exists.
*/

// Evolved holds the upwinded primitive state per lattice point of one cone
// batch
type Evolved struct {
	Rho, U, V, P [][]float64
}

func newEvolved(lnx, lny int) (e *Evolved) {
	e = &Evolved{
		Rho: make([][]float64, lnx),
		U:   make([][]float64, lnx),
		V:   make([][]float64, lnx),
		P:   make([][]float64, lnx),
	}
	for i := 0; i < lnx; i++ {
		e.Rho[i] = make([]float64, lny)
		e.U[i] = make([]float64, lny)
		e.V[i] = make([]float64, lny)
		e.P[i] = make([]float64, lny)
	}
	return
}

// Evolve applies E0 to every cone in the collection
func Evolve(c *machcone.Collection, parallelDegree int) (out *Evolved) {
	out = newEvolved(c.LNx, c.LNy)
	pm := utils.NewPartitionMap(parallelDegree, c.LNx)
	pm.ParallelFor(func(iMin, iMax int) {
		for i := iMin; i < iMax; i++ {
			for j := 0; j < c.LNy; j++ {
				rho, u, v, p := evolveCone(&c.Cones[i][j])
				out.Rho[i][j] = rho
				out.U[i][j] = u
				out.V[i][j] = v
				out.P[i][j] = p
			}
		}
	})
	return
}

func evolveCone(cone *machcone.Cone) (rho, u, v, p float64) {
	var (
		oo2pi = 1. / (2 * math.Pi)
		rc    = cone.RefRho * cone.RefSound // acoustic impedance of the reference state
		oorc  = 1. / rc
	)
	for n := range cone.Cells {
		nb := &cone.Cells[n]
		for a := 0; a < nb.NArcs; a++ {
			arc := &nb.Arcs[a]
			p += nb.P*arc.DTheta - rc*(nb.U*arc.DSin-nb.V*arc.DCos)
			u += -2*nb.P*oorc*arc.DSin +
				nb.U*(arc.DTheta+0.5*arc.DSin2) -
				nb.V*0.5*arc.DCos2
			v += 2*nb.P*oorc*arc.DCos -
				nb.U*0.5*arc.DCos2 +
				nb.V*(arc.DTheta-0.5*arc.DSin2)
		}
	}
	p *= oo2pi
	u *= oo2pi
	v *= oo2pi
	// Entropy wave: density rides the streamline through P'
	rho = cone.RhoPPrime + (p-cone.PPPrime)/(cone.RefSound*cone.RefSound)
	return
}
