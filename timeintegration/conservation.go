package timeintegration

import (
	"gonum.org/v1/gonum/floats"

	"github.com/smillerc/fvleg-2d/grid"
	"github.com/smillerc/fvleg-2d/utils"
)

// ConservedTotals integrates the conserved state over the interior. The run
// loop logs the drift between the initial and final totals as a conservation
// check.
func (s State) ConservedTotals(g grid.Geometry) (mass, xMom, yMom, energy float64) {
	var (
		nx, ny = s.Rho.Nx, s.Rho.Ny
		row    = make([]float64, ny)
	)
	sum := func(f utils.Field) (total float64) {
		for i := 0; i < nx; i++ {
			for j := 0; j < ny; j++ {
				row[j] = f.At(i, j) * g.Volume(i, j)
			}
			total += floats.Sum(row)
		}
		return
	}
	mass = sum(s.Rho)
	xMom = sum(s.RhoU)
	yMom = sum(s.RhoV)
	energy = sum(s.RhoE)
	return
}
