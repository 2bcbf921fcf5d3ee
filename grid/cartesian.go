package grid

import "github.com/smillerc/fvleg-2d/utils"

// Cartesian is a uniform structured grid over [XMin,XMax]x[YMin,YMax].
// It is the only geometry provider in-tree; anything richer (body-fitted
// blocks, mesh files) stays behind the Geometry interface.
type Cartesian struct {
	Nx, Ny     int
	XMin, YMin float64
	DX, DY     float64
}

func NewCartesian(nx, ny int, xMin, xMax, yMin, yMax float64) (g *Cartesian) {
	if nx < 1 || ny < 1 || xMax <= xMin || yMax <= yMin {
		utils.Fatalf("grid", "NewCartesian", "degenerate extents: nx=%d ny=%d x=[%g,%g] y=[%g,%g]",
			nx, ny, xMin, xMax, yMin, yMax)
	}
	g = &Cartesian{
		Nx:   nx,
		Ny:   ny,
		XMin: xMin,
		YMin: yMin,
		DX:   (xMax - xMin) / float64(nx),
		DY:   (yMax - yMin) / float64(ny),
	}
	return
}

func (g *Cartesian) Extents() (nx, ny int) {
	return g.Nx, g.Ny
}

func (g *Cartesian) Volume(i, j int) float64 {
	return g.DX * g.DY
}

func (g *Cartesian) EdgeLength(e Edge, i, j int) (l float64) {
	switch e {
	case Bottom, Top:
		l = g.DX
	default:
		l = g.DY
	}
	return
}

func (g *Cartesian) EdgeNormal(e Edge, i, j int) (nx, ny float64) {
	switch e {
	case Bottom:
		ny = -1
	case Right:
		nx = 1
	case Top:
		ny = 1
	case Left:
		nx = -1
	}
	return
}

func (g *Cartesian) Centroid(i, j int) (x, y float64) {
	x = g.XMin + (float64(i)+0.5)*g.DX
	y = g.YMin + (float64(j)+0.5)*g.DY
	return
}

func (g *Cartesian) Node(i, j int) (x, y float64) {
	x = g.XMin + float64(i)*g.DX
	y = g.YMin + float64(j)*g.DY
	return
}
