// Package curves holds the stateless response curves that map a normalized
// slider or effect value onto a nonlinear response.
package curves

import "math"

// Curve maps a normalized input to a response value.
type Curve func(x float64) float64

// Linear is the identity curve.
func Linear(x float64) float64 { return x }

// SmoothStep is the cubic Hermite smoothstep on [0,1]. Input is clamped.
func SmoothStep(x float64) float64 {
	x = Clamp01(x)
	return x * x * (3 - 2*x)
}

// SmootherStep is Perlin's quintic variant with zero first and second derivatives at the edges.
func SmootherStep(x float64) float64 {
	x = Clamp01(x)
	return x * x * x * (x*(x*6-15) + 10)
}

// InverseSmoothStep is a generalized smoothstep over [0,b]. curvature in (-3,1)
// controls the steepness, where negative values flatten the middle and positive
// values sharpen it. midpoint (fraction of b) is where the two halves meet.
// Returns 0 at x<=0 and 1 at x>=b.
func InverseSmoothStep(x, b, curvature, midpoint float64) float64 {
	if x <= 0 || b <= 0 {
		return 0
	}
	if x >= b {
		return 1
	}
	s := math.Max(-2.99, math.Min(0.99, curvature))
	p := math.Max(0, math.Min(b, midpoint*b))
	c := 2/(1-s) - 1

	if x < p {
		return math.Pow(x, c) / math.Pow(p, c-1) / b
	}
	return 1 - math.Pow(b-x, c)/math.Pow(b-p, c-1)/b
}

// Exponential blends from q at x=0 to q+b at x=1 along an exponential of rate p.
// p == 0 degenerates to a straight line.
func Exponential(x, b, p, q float64) float64 {
	if math.Abs(p) < 1e-9 {
		return b*x + q
	}
	return b*(math.Exp(p*x)-1)/(math.Exp(p)-1) + q
}

// QuadraticRegression is the fitted response used by most softness-driven settings.
func QuadraticRegression(x float64) float64 {
	return -0.173*x*x + 1.142*x + 0.031
}

// QuadraticRegressionLesser is a flatter fit used where the softness response should saturate sooner.
func QuadraticRegressionLesser(x float64) float64 {
	return -0.115*x*x + 0.9*x + 0.215
}

// TwoPiece applies Lower below Cutoff and Upper at or above it.
type TwoPiece struct {
	Cutoff float64
	Lower  Curve
	Upper  Curve
}

// Apply evaluates the two-piece curve. A nil piece acts as Linear.
func (t TwoPiece) Apply(x float64) float64 {
	if x < t.Cutoff {
		if t.Lower == nil {
			return x
		}
		return t.Lower(x)
	}
	if t.Upper == nil {
		return x
	}
	return t.Upper(x)
}

// Curve returns the two-piece curve as a plain Curve.
func (t TwoPiece) Curve() Curve {
	return t.Apply
}

// Normalize rescales c so that it maps 0 to 0 and 1 to 1. A curve that is
// flat between its endpoints cannot be rescaled and is replaced by Linear.
func Normalize(c Curve) Curve {
	if c == nil {
		return Linear
	}
	f0, f1 := c(0), c(1)
	span := f1 - f0
	if math.Abs(span) < 1e-12 || math.IsNaN(span) || math.IsInf(span, 0) {
		return Linear
	}
	return func(x float64) float64 {
		return (c(x) - f0) / span
	}
}
