package grid

// Geometry is the read-only grid accessor surface the solver core consumes.
// Cells are keyed (i,j) over the interior; edges are keyed per cell in the
// fixed order bottom, right, top, left. The corner lattice Node(i,j) runs
// [0..Nx]x[0..Ny].
type Geometry interface {
	Extents() (nx, ny int)
	Volume(i, j int) float64
	EdgeLength(e Edge, i, j int) float64
	EdgeNormal(e Edge, i, j int) (nx, ny float64)
	Centroid(i, j int) (x, y float64)
	Node(i, j int) (x, y float64)
}

type Edge int

const (
	Bottom Edge = iota
	Right
	Top
	Left
)

var edgePrintNames = []string{"bottom", "right", "top", "left"}

func (e Edge) Print() (txt string) {
	txt = edgePrintNames[e]
	return
}
