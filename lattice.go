/*
 * lattice.go, part of matkit.
 *
 * Copyright 2024 The matkit developers.
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package matkit

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

const appzero float64 = 1e-12 //used to correct floating point errors.

// Vec is a cartesian or fractional vector in 3D space.
type Vec [3]float64

// Add returns v+w.
func (v Vec) Add(w Vec) Vec {
	return Vec{v[0] + w[0], v[1] + w[1], v[2] + w[2]}
}

// Sub returns v-w.
func (v Vec) Sub(w Vec) Vec {
	return Vec{v[0] - w[0], v[1] - w[1], v[2] - w[2]}
}

// Scale returns v scaled by f.
func (v Vec) Scale(f float64) Vec {
	return Vec{v[0] * f, v[1] * f, v[2] * f}
}

// Dot returns the dot product of v and w.
func (v Vec) Dot(w Vec) float64 {
	return v[0]*w[0] + v[1]*w[1] + v[2]*w[2]
}

// Norm returns the Euclidean norm of v.
func (v Vec) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// Lattice is a periodic cell given by 3 row vectors. The inverse of the cell
// matrix is computed once and cached, so a Lattice must be built with
// NewLattice or NewLatticeFromParams, never as a literal.
type Lattice struct {
	m   *mat.Dense //3x3, rows are the cell vectors
	inv *mat.Dense
}

// NewLattice builds a Lattice from its 3 cell vectors. It returns an error
// if the vectors are linearly dependent.
func NewLattice(a, b, c Vec) (*Lattice, error) {
	m := mat.NewDense(3, 3, []float64{
		a[0], a[1], a[2],
		b[0], b[1], b[2],
		c[0], c[1], c[2],
	})
	inv := mat.NewDense(3, 3, nil)
	if err := inv.Inverse(m); err != nil {
		return nil, errDecorate(err, "NewLattice")
	}
	return &Lattice{m: m, inv: inv}, nil
}

// NewLatticeFromParams builds a Lattice from cell lengths (a, b, c) and cell
// angles in degrees (alpha, beta, gamma), using the usual crystallographic
// orientation: a along x, b in the xy plane.
func NewLatticeFromParams(a, b, c, alpha, beta, gamma float64) (*Lattice, error) {
	alphaR := alpha * math.Pi / 180
	betaR := beta * math.Pi / 180
	gammaR := gamma * math.Pi / 180
	cx := c * math.Cos(betaR)
	cy := c * (math.Cos(alphaR) - math.Cos(betaR)*math.Cos(gammaR)) / math.Sin(gammaR)
	cz2 := c*c - cx*cx - cy*cy
	if cz2 < 0 {
		return nil, CError{"impossible cell angles", []string{"NewLatticeFromParams"}}
	}
	av := Vec{a, 0, 0}
	bv := Vec{b * math.Cos(gammaR), b * math.Sin(gammaR), 0}
	cv := Vec{cx, cy, math.Sqrt(cz2)}
	return NewLattice(av, bv, cv)
}

// Vector returns the i-th cell vector. Panics if i is not 0, 1 or 2.
func (L *Lattice) Vector(i int) Vec {
	if i < 0 || i > 2 {
		panic("Lattice: cell vector index out of range")
	}
	return Vec{L.m.At(i, 0), L.m.At(i, 1), L.m.At(i, 2)}
}

// Volume returns the cell volume.
func (L *Lattice) Volume() float64 {
	return math.Abs(mat.Det(L.m))
}

// Params returns the cell lengths a, b, c and the cell angles alpha, beta,
// gamma in degrees.
func (L *Lattice) Params() (a, b, c, alpha, beta, gamma float64) {
	av := L.Vector(0)
	bv := L.Vector(1)
	cv := L.Vector(2)
	a = av.Norm()
	b = bv.Norm()
	c = cv.Norm()
	alpha = angleDeg(bv, cv)
	beta = angleDeg(av, cv)
	gamma = angleDeg(av, bv)
	return a, b, c, alpha, beta, gamma
}

func angleDeg(v, w Vec) float64 {
	arg := v.Dot(w) / (v.Norm() * w.Norm())
	//Take care of floating point math errors
	if math.Abs(arg-1) <= appzero {
		arg = 1
	} else if math.Abs(arg+1) <= appzero {
		arg = -1
	}
	return math.Acos(arg) * 180 / math.Pi
}

// Cart converts a fractional coordinate to cartesian.
func (L *Lattice) Cart(frac Vec) Vec {
	var cart Vec
	for j := 0; j < 3; j++ {
		cart[j] = frac[0]*L.m.At(0, j) + frac[1]*L.m.At(1, j) + frac[2]*L.m.At(2, j)
	}
	return cart
}

// Frac converts a cartesian coordinate to fractional.
func (L *Lattice) Frac(cart Vec) Vec {
	var frac Vec
	for j := 0; j < 3; j++ {
		frac[j] = cart[0]*L.inv.At(0, j) + cart[1]*L.inv.At(1, j) + cart[2]*L.inv.At(2, j)
	}
	return frac
}

// MinImage returns the minimum-image representation of the cartesian
// displacement d, i.e. the shortest vector equivalent to d under the
// periodicity of the cell. The fractional components are first wrapped to
// [-0.5, 0.5) and then the 27 surrounding images are searched, which also
// covers strongly skewed cells where plain rounding picks a wrong image.
func (L *Lattice) MinImage(d Vec) Vec {
	f := L.Frac(d)
	for i := 0; i < 3; i++ {
		f[i] -= math.Round(f[i])
	}
	best := L.Cart(f)
	bestn := best.Norm()
	for di := -1.0; di <= 1; di++ {
		for dj := -1.0; dj <= 1; dj++ {
			for dk := -1.0; dk <= 1; dk++ {
				cand := L.Cart(Vec{f[0] + di, f[1] + dj, f[2] + dk})
				if n := cand.Norm(); n < bestn {
					best = cand
					bestn = n
				}
			}
		}
	}
	return best
}

// MinImageDistance returns the minimum-image distance between the cartesian
// points p and q.
func (L *Lattice) MinImageDistance(p, q Vec) float64 {
	return L.MinImage(q.Sub(p)).Norm()
}

// Copy returns a deep copy of the lattice.
func (L *Lattice) Copy() *Lattice {
	m := mat.DenseCopyOf(L.m)
	inv := mat.DenseCopyOf(L.inv)
	return &Lattice{m: m, inv: inv}
}
