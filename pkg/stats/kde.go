package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// ScottBandwidth is the Gaussian kernel width by Scott's rule, std * n^(-1/5).
func ScottBandwidth(x []float64) float64 {
	return Std(x) * math.Pow(float64(len(x)), -0.2)
}

// KDE evaluates a Gaussian kernel density estimate of x at points evenly spaced
// across the range of x. ok is false when the estimate is undefined (fewer than
// two values or no spread).
func KDE(x []float64, points int) (xs, density []float64, ok bool) {
	x = Finite(x)
	if len(x) < 2 || points < 2 || Constant(x) {
		return nil, nil, false
	}
	bw := ScottBandwidth(x)
	kernel := distuv.Normal{Mu: 0, Sigma: bw}

	lo, hi := MinMax(x)
	step := (hi - lo) / float64(points-1)
	xs = make([]float64, points)
	density = make([]float64, points)
	n := float64(len(x))
	for i := 0; i < points; i++ {
		at := lo + float64(i)*step
		sum := 0.0
		for _, v := range x {
			sum += kernel.Prob(at - v)
		}
		xs[i] = at
		density[i] = sum / n
	}
	return xs, density, true
}
