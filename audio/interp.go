// SPDX-License-Identifier: EPL-2.0

package audio

import "math"

// Interpolator estimates the value at fraction x in [0, 1] between y1 and
// y2, given their neighbours y0 and y3.
type Interpolator func(y0, y1, y2, y3, x float32) float32

// Cubic is Catmull-Rom spline interpolation.
func Cubic(y0, y1, y2, y3, x float32) float32 {
	a0 := -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
	a1 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	a2 := -0.5*y0 + 0.5*y2
	return ((a0*x+a1)*x+a2)*x + y1
}

// Linear ignores the outer neighbours.
func Linear(_, y1, y2, _, x float32) float32 {
	return y1 + (y2-y1)*x
}

// lowPassAlpha is the one-pole smoothing factor for a cutoff of fc Hz at fs Hz.
func lowPassAlpha(fc, fs float64) float32 {
	return float32(1 - math.Exp(-2*math.Pi*fc/fs))
}
