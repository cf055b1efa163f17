package forecast

import (
	"errors"
	"math"
)

// fitQuadratic fits y = c0 + c1*x + c2*x^2 by least squares (normal
// equations, 3x3 Gaussian elimination with partial pivoting).
func fitQuadratic(xs, ys []float64) ([3]float64, error) {
	var coeffs [3]float64
	if len(xs) != len(ys) || len(xs) < 2 {
		return coeffs, errors.New("need at least 2 points to fit")
	}

	// Power sums S_k = sum(x^k) and moment sums T_k = sum(y * x^k).
	var s [5]float64
	var t [3]float64
	for i, x := range xs {
		xp := 1.0
		for k := 0; k <= 4; k++ {
			s[k] += xp
			if k <= 2 {
				t[k] += ys[i] * xp
			}
			xp *= x
		}
	}

	m := [3][4]float64{
		{s[0], s[1], s[2], t[0]},
		{s[1], s[2], s[3], t[1]},
		{s[2], s[3], s[4], t[2]},
	}

	for col := 0; col < 3; col++ {
		pivot := col
		for row := col + 1; row < 3; row++ {
			if math.Abs(m[row][col]) > math.Abs(m[pivot][col]) {
				pivot = row
			}
		}
		m[col], m[pivot] = m[pivot], m[col]
		if math.Abs(m[col][col]) < 1e-12 {
			return coeffs, errors.New("singular system, cannot fit")
		}
		for row := col + 1; row < 3; row++ {
			factor := m[row][col] / m[col][col]
			for k := col; k < 4; k++ {
				m[row][k] -= factor * m[col][k]
			}
		}
	}
	for row := 2; row >= 0; row-- {
		sum := m[row][3]
		for k := row + 1; k < 3; k++ {
			sum -= m[row][k] * coeffs[k]
		}
		coeffs[row] = sum / m[row][row]
	}
	return coeffs, nil
}

// fitLinear is the degenerate fallback when the quadratic system is
// singular (only two distinct x values). The result is expressed in the
// same coefficient layout with a zero quadratic term.
func fitLinear(xs, ys []float64) ([3]float64, error) {
	var coeffs [3]float64
	n := float64(len(xs))
	if len(xs) != len(ys) || len(xs) < 2 {
		return coeffs, errors.New("need at least 2 points to fit")
	}

	var sx, sy, sxx, sxy float64
	for i, x := range xs {
		sx += x
		sy += ys[i]
		sxx += x * x
		sxy += x * ys[i]
	}
	det := n*sxx - sx*sx
	if math.Abs(det) < 1e-12 {
		return coeffs, errors.New("singular system, cannot fit")
	}
	coeffs[1] = (n*sxy - sx*sy) / det
	coeffs[0] = (sy - coeffs[1]*sx) / n
	return coeffs, nil
}

func evalQuadratic(coeffs [3]float64, x float64) float64 {
	return coeffs[0] + coeffs[1]*x + coeffs[2]*x*x
}
