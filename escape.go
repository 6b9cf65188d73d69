package fractal

import (
	"fmt"
	"math"
)

// Bailout is the escape threshold on |z|², i.e. a bailout radius of 2.
const Bailout = 4.0

// IterationResult is the outcome of iterating one point.
type IterationResult struct {
	Count int     // in [0, cap]
	Final Complex // z when the loop stopped
}

// stepFunc advances z by one iteration with additive constant c.
type stepFunc func(z, c Complex) Complex

func mandelbrotStep(z, c Complex) Complex {
	return z.Square().Add(c)
}

// burningShipStep folds both parts onto their absolute values before squaring,
// which makes the cross term 2·|zr|·|zi| always non-negative.
func burningShipStep(z, c Complex) Complex {
	return Complex{
		Re: z.Re*z.Re - z.Im*z.Im + c.Re,
		Im: 2*math.Abs(z.Re)*math.Abs(z.Im) + c.Im,
	}
}

// orbit runs step from z until |z|² exceeds Bailout or limit steps have been taken.
// The escape test happens before every step, so count is the number of steps
// taken while z stayed inside the bailout radius.
func orbit(z, c Complex, limit int, step stepFunc) IterationResult {
	count := 0
	for count < limit && z.ModulusSquared() <= Bailout {
		z = step(z, c)
		count++
	}
	return IterationResult{Count: count, Final: z}
}

// Escape iterates point under variant v with iteration cap limit.
// seed is the fixed constant of the Julia recurrence and is ignored otherwise.
//
// Mandelbrot starts at z₀ = point, Burning Ship at z₀ = 0, both add point each
// step. Julia starts at z₀ = point and adds seed. A Julia point that never
// escapes reports limit−1, never limit.
func Escape(v Variant, point, seed Complex, limit int) IterationResult {
	switch v {
	case Mandelbrot:
		return orbit(point, point, limit, mandelbrotStep)
	case BurningShip:
		return orbit(Complex{}, point, limit, burningShipStep)
	case Julia:
		return julia(point, seed, limit)
	}
	panic(fmt.Sprintf("fractal: unknown variant %d", int(v)))
}

// julia counts the index of the escaping step, testing only after each step.
// That is the shared orbit started one step ahead with one step less budget,
// which also yields limit−1 for points that never leave.
func julia(z, seed Complex, limit int) IterationResult {
	if limit <= 0 {
		return IterationResult{Count: 0, Final: z}
	}
	return orbit(mandelbrotStep(z, seed), seed, limit-1, mandelbrotStep)
}
