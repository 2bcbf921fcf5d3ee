package utils

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

/*
	Field is a 2D scalar field over a structured grid, allocated with a fixed
	halo (ghost cell) border. Logical cell indices run [-Ng,Nx+Ng) x [-Ng,Ny+Ng)
	with the interior occupying [0,Nx) x [0,Ny). The halo offset is carried as
	an explicit value here instead of being implicit in the array bounds, so a
	Field can be passed between components without losing its index mapping.

	The backing store is a dense gonum matrix with rows indexed by i and
	columns indexed by j.
*/
type Field struct {
	Nx, Ny int // Interior extents, halo excluded
	Ng     int // Halo layers on each side
	M      *mat.Dense
}

func NewField(nx, ny, ng int) (f Field) {
	f = Field{
		Nx: nx,
		Ny: ny,
		Ng: ng,
		M:  mat.NewDense(nx+2*ng, ny+2*ng, nil),
	}
	return
}

func (f Field) At(i, j int) float64 {
	return f.M.At(i+f.Ng, j+f.Ng)
}

func (f Field) Set(i, j int, val float64) {
	f.M.Set(i+f.Ng, j+f.Ng, val)
}

// Ilo,Ihi,Jlo,Jhi are the inclusive index bounds including the halo
func (f Field) Ilo() int { return -f.Ng }
func (f Field) Ihi() int { return f.Nx + f.Ng - 1 }
func (f Field) Jlo() int { return -f.Ng }
func (f Field) Jhi() int { return f.Ny + f.Ng - 1 }

// SameShape allocates a zeroed Field with identical extents and halo
func (f Field) SameShape() Field {
	return NewField(f.Nx, f.Ny, f.Ng)
}

func (f Field) Fill(val float64) {
	d := f.M.RawMatrix().Data
	for i := range d {
		d[i] = val
	}
}

func (f Field) CopyFrom(src Field) {
	f.M.Copy(src.M)
}

// Data exposes the raw backing slice, row (i) major
func (f Field) Data() []float64 {
	return f.M.RawMatrix().Data
}

// ZeroHalo forces every halo cell to exactly 0, leaving the interior alone
func (f Field) ZeroHalo() {
	for i := f.Ilo(); i <= f.Ihi(); i++ {
		for j := f.Jlo(); j <= f.Jhi(); j++ {
			if i < 0 || i >= f.Nx || j < 0 || j >= f.Ny {
				f.Set(i, j, 0)
			}
		}
	}
}

func (f Field) HasNaN() (found bool) {
	for _, val := range f.M.RawMatrix().Data {
		if math.IsNaN(val) {
			return true
		}
	}
	return
}

func (f Field) MaxAbsInterior() (m float64) {
	for i := 0; i < f.Nx; i++ {
		for j := 0; j < f.Ny; j++ {
			if a := math.Abs(f.At(i, j)); a > m {
				m = a
			}
		}
	}
	return
}
