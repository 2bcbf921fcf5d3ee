package bcs

import (
	"sort"
	"strings"

	"github.com/smillerc/fvleg-2d/utils"
)

/*
	Boundary conditions mutate only the halo layer of the primitive fields,
	in place. Application order: highest priority runs FIRST, so that
	lower-priority conditions may subsequently override the corner/edge
	overlap halo cells.
*/

type BoundaryCondition interface {
	Apply(rho, u, v, p utils.Field)
	Priority() int
	SetTime(t float64)
}

type Side int

const (
	MinusX Side = iota
	PlusX
	MinusY
	PlusY
)

var sideNames = map[string]Side{
	"-x":     MinusX,
	"+x":     PlusX,
	"-y":     MinusY,
	"+y":     PlusY,
	"left":   MinusX,
	"right":  PlusX,
	"bottom": MinusY,
	"top":    PlusY,
}

func NewSide(label string) (s Side) {
	var (
		ok bool
	)
	if s, ok = sideNames[strings.ToLower(label)]; !ok {
		utils.Fatalf("bcs", "NewSide", "unknown boundary side %q", label)
	}
	return
}

// New builds a boundary condition by name. Unknown names are a fatal
// configuration error.
func New(name string, side Side, priority int, params map[string]float64) (bc BoundaryCondition) {
	switch strings.ToLower(name) {
	case "periodic":
		bc = &Periodic{side: side, priority: priority}
	case "symmetry":
		bc = &Symmetry{side: side, priority: priority}
	case "zero_gradient", "outflow":
		bc = &ZeroGradient{side: side, priority: priority}
	case "pressure_input":
		bc = &PressureInput{side: side, priority: priority, pressure: params["pressure"]}
	default:
		utils.Fatalf("bcs", "New", "unknown boundary condition named %q", name)
	}
	return
}

// ApplyAll sorts by descending priority and applies each condition at time t
func ApplyAll(conditions []BoundaryCondition, t float64, rho, u, v, p utils.Field) {
	sorted := make([]BoundaryCondition, len(conditions))
	copy(sorted, conditions)
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].Priority() > sorted[b].Priority()
	})
	for _, bc := range sorted {
		bc.SetTime(t)
		bc.Apply(rho, u, v, p)
	}
}

// haloCells visits every halo cell of the given side, including the corner
// overlap, handing the callback the ghost index and its depth k (0 = nearest
// the interior)
func haloCells(f utils.Field, side Side, visit func(i, j, k int)) {
	switch side {
	case MinusX:
		for k := 0; k < f.Ng; k++ {
			for j := f.Jlo(); j <= f.Jhi(); j++ {
				visit(-1-k, j, k)
			}
		}
	case PlusX:
		for k := 0; k < f.Ng; k++ {
			for j := f.Jlo(); j <= f.Jhi(); j++ {
				visit(f.Nx+k, j, k)
			}
		}
	case MinusY:
		for k := 0; k < f.Ng; k++ {
			for i := f.Ilo(); i <= f.Ihi(); i++ {
				visit(i, -1-k, k)
			}
		}
	case PlusY:
		for k := 0; k < f.Ng; k++ {
			for i := f.Ilo(); i <= f.Ihi(); i++ {
				visit(i, f.Ny+k, k)
			}
		}
	}
}

// clampInterior limits an index into [0,n)
func clampInterior(idx, n int) int {
	if idx < 0 {
		idx = 0
	}
	if idx > n-1 {
		idx = n - 1
	}
	return idx
}

type Periodic struct {
	side     Side
	priority int
}

func (bc *Periodic) Priority() int   { return bc.priority }
func (bc *Periodic) SetTime(float64) {}
func (bc *Periodic) Apply(rho, u, v, p utils.Field) {
	for _, f := range []utils.Field{rho, u, v, p} {
		nx, ny := f.Nx, f.Ny
		haloCells(f, bc.side, func(i, j, k int) {
			si, sj := i, j
			switch bc.side {
			case MinusX:
				si = i + nx
			case PlusX:
				si = i - nx
			case MinusY:
				sj = j + ny
			case PlusY:
				sj = j - ny
			}
			// The transverse index may itself be a halo cell; wrap it too so
			// corners come out fully periodic
			si = wrap(si, nx)
			sj = wrap(sj, ny)
			f.Set(i, j, f.At(si, sj))
		})
	}
}

func wrap(idx, n int) int {
	for idx < 0 {
		idx += n
	}
	for idx >= n {
		idx -= n
	}
	return idx
}

type Symmetry struct {
	side     Side
	priority int
}

func (bc *Symmetry) Priority() int   { return bc.priority }
func (bc *Symmetry) SetTime(float64) {}
func (bc *Symmetry) Apply(rho, u, v, p utils.Field) {
	mirror := func(f utils.Field, flip bool) {
		haloCells(f, bc.side, func(i, j, k int) {
			si, sj := i, j
			switch bc.side {
			case MinusX:
				si = k
			case PlusX:
				si = f.Nx - 1 - k
			case MinusY:
				sj = k
			case PlusY:
				sj = f.Ny - 1 - k
			}
			val := f.At(si, sj)
			if flip {
				val = -val
			}
			f.Set(i, j, val)
		})
	}
	flipU := bc.side == MinusX || bc.side == PlusX
	mirror(rho, false)
	mirror(u, flipU)
	mirror(v, !flipU)
	mirror(p, false)
}

type ZeroGradient struct {
	side     Side
	priority int
}

func (bc *ZeroGradient) Priority() int   { return bc.priority }
func (bc *ZeroGradient) SetTime(float64) {}
func (bc *ZeroGradient) Apply(rho, u, v, p utils.Field) {
	for _, f := range []utils.Field{rho, u, v, p} {
		haloCells(f, bc.side, func(i, j, k int) {
			f.Set(i, j, f.At(clampInterior(i, f.Nx), clampInterior(j, f.Ny)))
		})
	}
}

// PressureInput extrapolates density and velocity and pins the halo pressure
// to the configured input value
type PressureInput struct {
	side     Side
	priority int
	pressure float64
	time     float64
}

func (bc *PressureInput) Priority() int { return bc.priority }
func (bc *PressureInput) SetTime(t float64) { bc.time = t }
func (bc *PressureInput) Apply(rho, u, v, p utils.Field) {
	for _, f := range []utils.Field{rho, u, v} {
		haloCells(f, bc.side, func(i, j, k int) {
			f.Set(i, j, f.At(clampInterior(i, f.Nx), clampInterior(j, f.Ny)))
		})
	}
	haloCells(p, bc.side, func(i, j, k int) {
		p.Set(i, j, bc.pressure)
	})
}
