/*
 * symop.go, part of matkit.
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

package cif

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/CodersheepY/matkit"
)

//symOp is a symmetry operation in fractional space: f' = rot*f + trans.
type symOp struct {
	rot   [3][3]float64
	trans matkit.Vec
}

func identityOp() symOp {
	return symOp{rot: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}}
}

func (op symOp) apply(f matkit.Vec) matkit.Vec {
	var out matkit.Vec
	for i := 0; i < 3; i++ {
		out[i] = op.rot[i][0]*f[0] + op.rot[i][1]*f[1] + op.rot[i][2]*f[2] + op.trans[i]
	}
	return out
}

//parseSymOp parses an xyz-style operation string such as
//"x, y, z", "-y, x-y, z+1/2" or "1/2+x, -z, y".
func parseSymOp(s string) (symOp, error) {
	var op symOp
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return op, fmt.Errorf("symmetry operation %q does not have 3 components", s)
	}
	for i, part := range parts {
		coeffs, shift, err := parseSymOpComponent(part)
		if err != nil {
			return op, fmt.Errorf("symmetry operation %q: %w", s, err)
		}
		op.rot[i] = coeffs
		op.trans[i] = shift
	}
	return op, nil
}

//parseSymOpComponent parses one component, a sum of signed terms where each
//term is a variable (x, y or z, possibly with a numeric coefficient) or a
//constant (decimal or a/b fraction).
func parseSymOpComponent(s string) ([3]float64, float64, error) {
	var coeffs [3]float64
	var shift float64
	s = strings.ToLower(strings.ReplaceAll(s, " ", ""))
	if s == "" {
		return coeffs, 0, fmt.Errorf("empty component")
	}
	sign := 1.0
	num := "" //numeric text accumulated for the current term
	flushConst := func() error {
		if num == "" {
			return nil
		}
		v, err := parseRational(num)
		if err != nil {
			return err
		}
		shift += sign * v
		num = ""
		return nil
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '+' || c == '-':
			if err := flushConst(); err != nil {
				return coeffs, 0, err
			}
			sign = 1
			if c == '-' {
				sign = -1
			}
		case c == 'x' || c == 'y' || c == 'z':
			coef := 1.0
			if num != "" {
				v, err := parseRational(num)
				if err != nil {
					return coeffs, 0, err
				}
				coef = v
				num = ""
			}
			coeffs[int(c-'x')] += sign * coef
			sign = 1
		case (c >= '0' && c <= '9') || c == '.' || c == '/':
			num += string(c)
		case c == '*':
			//tolerated between a coefficient and its variable
		default:
			return coeffs, 0, fmt.Errorf("unexpected character %q", c)
		}
	}
	if err := flushConst(); err != nil {
		return coeffs, 0, err
	}
	return coeffs, shift, nil
}

func parseRational(s string) (float64, error) {
	if i := strings.IndexByte(s, '/'); i >= 0 {
		a, err := strconv.ParseFloat(s[:i], 64)
		if err != nil {
			return 0, err
		}
		b, err := strconv.ParseFloat(s[i+1:], 64)
		if err != nil {
			return 0, err
		}
		if b == 0 {
			return 0, fmt.Errorf("zero denominator in %q", s)
		}
		return a / b, nil
	}
	return strconv.ParseFloat(s, 64)
}
