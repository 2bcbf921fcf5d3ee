package machcone

import (
	"fmt"
	"math"
	"strings"

	"github.com/smillerc/fvleg-2d/eos"
	"github.com/smillerc/fvleg-2d/grid"
	"github.com/smillerc/fvleg-2d/reconstruction"
	"github.com/smillerc/fvleg-2d/utils"
)

/*
	Mach cone construction for the FVLEG evolution path. For every point of a
	geometric lattice (cell corners, or one of the two edge-midpoint
	families) the causal domain of dependence is the circle of radius
	tau * a_ref centered on the upwinded point P' = P0 - tau*(u_ref, v_ref),
	intersected with the wedges the neighboring cells subtend at the apex P0.

	Since the wedges partition the full plane around P0, the arc spans over
	all neighbor cells must close to 2*pi; a violation is a geometry bug and
	is fatal.

	Construction is embarrassingly parallel across the lattice: each cone's
	fields are write-disjoint.
*/

type Location int

const (
	Corner Location = iota
	IMidpoint
	JMidpoint
)

var locationPrintNames = []string{"corner", "i-midpoint", "j-midpoint"}

func (l Location) Print() (txt string) {
	txt = locationPrintNames[l]
	return
}

// trigSnap zeroes trig values that should be exact zeros but carry rounding
const trigSnap = 1.0e-14

// closureTol bounds |sum of arc spans - 2*pi|
const closureTol = 1.0e-12

type Arc struct {
	ThetaB, ThetaE             float64
	SinB, CosB, SinE, CosE     float64
	DSin, DCos                 float64 // sin(theta_e)-sin(theta_b), cos(theta_e)-cos(theta_b)
	DSin2, DCos2               float64 // double-angle differences
	DTheta                     float64
}

func newArc(thetaB, thetaE float64) (a Arc) {
	snap := func(x float64) float64 {
		if math.Abs(x) < trigSnap {
			return 0
		}
		return x
	}
	a = Arc{ThetaB: thetaB, ThetaE: thetaE}
	a.SinB, a.CosB = snap(math.Sin(thetaB)), snap(math.Cos(thetaB))
	a.SinE, a.CosE = snap(math.Sin(thetaE)), snap(math.Cos(thetaE))
	a.DSin = a.SinE - a.SinB
	a.DCos = a.CosE - a.CosB
	a.DSin2 = snap(math.Sin(2*thetaE)) - snap(math.Sin(2*thetaB))
	a.DCos2 = snap(math.Cos(2*thetaE)) - snap(math.Cos(2*thetaB))
	a.DTheta = thetaE - thetaB
	return
}

// Neighbor is one cell abutting the cone apex: its reconstructed state at P0
// and the arcs of the sonic circle falling inside its wedge
type Neighbor struct {
	I, J         int
	Rho, U, V, P float64
	Arcs         [2]Arc
	NArcs        int
}

type Cone struct {
	P0, PPrime         [2]float64
	Radius             float64
	RefRho, RefU, RefV float64
	RefP, RefSound     float64
	Cells              []Neighbor
	PPrimeCell         int     // index into Cells of the wedge containing P'
	RhoPPrime, PPPrime float64 // reconstructed state snapshot at the P' owner
}

// Collection is a batch of cones over one lattice family. The backing slices
// are reused across substeps when the shape is unchanged.
type Collection struct {
	Location Location
	LNx, LNy int // lattice extents
	Tau      float64
	Cones    [][]Cone
	gas      eos.IdealGas
	g        grid.Geometry
	pm       *utils.PartitionMap
}

func NewCollection(loc Location, g grid.Geometry, gas eos.IdealGas, parallelDegree int) (c *Collection) {
	nx, ny := g.Extents()
	c = &Collection{
		Location: loc,
		gas:      gas,
		g:        g,
	}
	switch loc {
	case Corner:
		c.LNx, c.LNy = nx+1, ny+1
	case IMidpoint:
		c.LNx, c.LNy = nx+1, ny
	case JMidpoint:
		c.LNx, c.LNy = nx, ny+1
	}
	c.Cones = make([][]Cone, c.LNx)
	for i := range c.Cones {
		c.Cones[i] = make([]Cone, c.LNy)
	}
	c.pm = utils.NewPartitionMap(parallelDegree, c.LNx)
	return
}

// neighborSpec describes one wedge of a lattice point: the abutting cell
// (relative to the lattice index), the two bounding rays in CCW order, and
// the fractional offset of the lattice point within that cell
type neighborSpec struct {
	ci, cj   int
	ray1     [2]int // lattice-node offset defining the wedge's first ray
	ray2     [2]int
	ox, oy   float64
}

// wedges lists, per location, the neighbor cells in CCW order starting from
// the +x axis. Rays are directions toward adjacent corner nodes.
func (c *Collection) wedges(i, j int) (specs []neighborSpec) {
	switch c.Location {
	case Corner:
		// Node (i,j); rays +x,+y,-x,-y toward nodes (i+1,j),(i,j+1),(i-1,j),(i,j-1)
		specs = []neighborSpec{
			{ci: i, cj: j, ray1: [2]int{1, 0}, ray2: [2]int{0, 1}, ox: -0.5, oy: -0.5},
			{ci: i - 1, cj: j, ray1: [2]int{0, 1}, ray2: [2]int{-1, 0}, ox: 0.5, oy: -0.5},
			{ci: i - 1, cj: j - 1, ray1: [2]int{-1, 0}, ray2: [2]int{0, -1}, ox: 0.5, oy: 0.5},
			{ci: i, cj: j - 1, ray1: [2]int{0, -1}, ray2: [2]int{1, 0}, ox: -0.5, oy: 0.5},
		}
	case IMidpoint:
		// Midpoint of the vertical edge between cells (i-1,j) and (i,j);
		// rays run along the edge toward nodes (i,j+1) and (i,j)
		specs = []neighborSpec{
			{ci: i - 1, cj: j, ray1: [2]int{0, 1}, ray2: [2]int{0, -1}, ox: 0.5, oy: 0},
			{ci: i, cj: j, ray1: [2]int{0, -1}, ray2: [2]int{0, 1}, ox: -0.5, oy: 0},
		}
	case JMidpoint:
		// Midpoint of the horizontal edge between cells (i,j-1) and (i,j)
		specs = []neighborSpec{
			{ci: i, cj: j, ray1: [2]int{1, 0}, ray2: [2]int{-1, 0}, ox: 0, oy: -0.5},
			{ci: i, cj: j - 1, ray1: [2]int{-1, 0}, ray2: [2]int{1, 0}, ox: 0, oy: 0.5},
		}
	}
	return
}

// latticePoint returns the physical coordinates of lattice index (i,j)
func (c *Collection) latticePoint(i, j int) (x, y float64) {
	switch c.Location {
	case Corner:
		x, y = c.g.Node(i, j)
	case IMidpoint:
		x0, y0 := c.g.Node(i, j)
		x1, y1 := c.g.Node(i, j+1)
		x, y = 0.5*(x0+x1), 0.5*(y0+y1)
	case JMidpoint:
		x0, y0 := c.g.Node(i, j)
		x1, y1 := c.g.Node(i+1, j)
		x, y = 0.5*(x0+x1), 0.5*(y0+y1)
	}
	return
}

// Initialize rebuilds every cone in the batch for the evolution increment
// tau from the pointwise-reconstructed primitive state
func (c *Collection) Initialize(tau float64, rho, u, v, p reconstruction.PointValues) {
	c.Tau = tau
	c.pm.ParallelFor(func(iMin, iMax int) {
		for i := iMin; i < iMax; i++ {
			for j := 0; j < c.LNy; j++ {
				c.buildCone(i, j, tau, rho, u, v, p)
			}
		}
	})
}

func (c *Collection) buildCone(i, j int, tau float64, rho, u, v, p reconstruction.PointValues) {
	var (
		cone  = &c.Cones[i][j]
		specs = c.wedges(i, j)
	)
	cone.P0[0], cone.P0[1] = c.latticePoint(i, j)
	if cap(cone.Cells) < len(specs) {
		cone.Cells = make([]Neighbor, len(specs))
	}
	cone.Cells = cone.Cells[:len(specs)]

	// Reconstructed neighbor states at P0, validated before any geometry
	var sumRho, sumU, sumV, sumP float64
	for n, spec := range specs {
		nb := &cone.Cells[n]
		nb.I, nb.J = spec.ci, spec.cj
		nb.NArcs = 0
		nb.Rho = rho.AtOffset(spec.ci, spec.cj, spec.ox, spec.oy)
		nb.U = u.AtOffset(spec.ci, spec.cj, spec.ox, spec.oy)
		nb.V = v.AtOffset(spec.ci, spec.cj, spec.ox, spec.oy)
		nb.P = p.AtOffset(spec.ci, spec.cj, spec.ox, spec.oy)
		if nb.Rho < 0 || nb.P < 0 {
			utils.Fatalf("machcone", "Initialize",
				"negative reconstructed state entering %s cone at lattice (%d,%d), cell (%d,%d): rho=%g p=%g",
				c.Location.Print(), i, j, nb.I, nb.J, nb.Rho, nb.P)
		}
		sumRho += nb.Rho
		sumU += nb.U
		sumV += nb.V
		sumP += nb.P
	}
	oon := 1. / float64(len(specs))
	cone.RefRho, cone.RefU, cone.RefV, cone.RefP = sumRho*oon, sumU*oon, sumV*oon, sumP*oon
	cone.RefSound = c.gas.SoundSpeed(cone.RefRho, cone.RefP)
	cone.Radius = tau * cone.RefSound

	// Upwinded origin; a vanishing displacement collapses exactly onto P0
	dx, dy := tau*cone.RefU, tau*cone.RefV
	if math.Hypot(dx, dy) < utils.EpsilonDiff {
		cone.PPrime = cone.P0
	} else {
		cone.PPrime = [2]float64{cone.P0[0] - dx, cone.P0[1] - dy}
	}

	// Locate the wedge containing P' and snapshot its state
	rel := [2]float64{cone.PPrime[0] - cone.P0[0], cone.PPrime[1] - cone.P0[1]}
	cone.PPrimeCell = 0
	for n, spec := range specs {
		v1 := c.rayVector(i, j, spec.ray1)
		v2 := c.rayVector(i, j, spec.ray2)
		if cross(v1, rel) >= 0 && cross(rel, v2) >= 0 {
			cone.PPrimeCell = n
			break
		}
	}
	cone.RhoPPrime = cone.Cells[cone.PPrimeCell].Rho
	cone.PPPrime = cone.Cells[cone.PPrimeCell].P

	// Arc angles: per wedge, the sonic circle restricted to the two
	// half-planes whose intersection is the wedge
	var total float64
	for n, spec := range specs {
		nb := &cone.Cells[n]
		v1 := c.rayVector(i, j, spec.ray1)
		v2 := c.rayVector(i, j, spec.ray2)
		arcs := circleInWedge(cone.PPrime, cone.Radius, cone.P0, v1, v2)
		for _, iv := range arcs {
			if nb.NArcs == len(nb.Arcs) {
				break
			}
			nb.Arcs[nb.NArcs] = newArc(iv[0], iv[1])
			total += iv[1] - iv[0]
			nb.NArcs++
		}
	}
	if math.Abs(total-2*math.Pi) > closureTol {
		utils.Fatalf("machcone", "Initialize",
			"arc spans do not close: sum=%.17g (expected 2*pi) for %s cone at lattice (%d,%d)\n%s",
			total, c.Location.Print(), i, j, cone.dump())
	}
}

func (c *Collection) rayVector(i, j int, off [2]int) (v [2]float64) {
	x0, y0 := c.latticePoint(i, j)
	x1, y1 := c.g.Node(latticeNode(c.Location, i, j, off))
	// Rays are directions from P0 toward adjacent corner nodes; midpoints sit
	// on the segment between their two nodes so the difference is the edge
	// direction
	v[0], v[1] = x1-x0, y1-y0
	return
}

// latticeNode maps a ray offset to the corner-node index it points at
func latticeNode(loc Location, i, j int, off [2]int) (ni, nj int) {
	switch loc {
	case Corner:
		ni, nj = i+off[0], j+off[1]
	case IMidpoint:
		// Edge nodes are (i,j) and (i,j+1)
		if off[1] > 0 {
			ni, nj = i, j+1
		} else {
			ni, nj = i, j
		}
	case JMidpoint:
		if off[0] > 0 {
			ni, nj = i+1, j
		} else {
			ni, nj = i, j
		}
	}
	return
}

func cross(a, b [2]float64) float64 {
	return a[0]*b[1] - a[1]*b[0]
}

func (cone *Cone) dump() string {
	var b strings.Builder
	fmt.Fprintf(&b, "P0=(%.17g,%.17g) P'=(%.17g,%.17g) r=%.17g tau_state=[rho=%g u=%g v=%g p=%g a=%g]\n",
		cone.P0[0], cone.P0[1], cone.PPrime[0], cone.PPrime[1], cone.Radius,
		cone.RefRho, cone.RefU, cone.RefV, cone.RefP, cone.RefSound)
	for n := range cone.Cells {
		nb := &cone.Cells[n]
		fmt.Fprintf(&b, "  cell (%d,%d) rho=%g u=%g v=%g p=%g arcs=%d\n", nb.I, nb.J, nb.Rho, nb.U, nb.V, nb.P, nb.NArcs)
		for a := 0; a < nb.NArcs; a++ {
			arc := &nb.Arcs[a]
			fmt.Fprintf(&b, "    arc [%.17g, %.17g] dtheta=%.17g\n", arc.ThetaB, arc.ThetaE, arc.DTheta)
		}
	}
	return b.String()
}
