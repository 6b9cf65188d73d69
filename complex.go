package fractal

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Complex is a point of the complex plane.
// All operations return new values, overflow follows IEEE-754 and never panics.
type Complex struct {
	Re float64 `json:"re"`
	Im float64 `json:"im"`
}

// Add returns the componentwise sum of c and b.
func (c Complex) Add(b Complex) Complex {
	return Complex{Re: c.Re + b.Re, Im: c.Im + b.Im}
}

// Square returns c², i.e. (x²−y², 2xy) for c = x+yi.
func (c Complex) Square() Complex {
	return Complex{
		Re: c.Re*c.Re - c.Im*c.Im,
		Im: 2 * c.Re * c.Im,
	}
}

// ModulusSquared returns x²+y². It is the cheap form used by the escape test.
func (c Complex) ModulusSquared() float64 {
	return c.Re*c.Re + c.Im*c.Im
}

// Modulus returns |c|.
func (c Complex) Modulus() float64 {
	return math.Sqrt(c.ModulusSquared())
}

// String formats c rounded to 4 decimal places, e.g. "-0.7453 + 0.1127i".
func (c Complex) String() string {
	re := round4(c.Re)
	im := round4(c.Im)
	if im > 0 {
		return fmt.Sprintf("%s + %si", formatFloat(re), formatFloat(im))
	}
	return fmt.Sprintf("%s - %si", formatFloat(re), formatFloat(math.Abs(im)))
}

func round4(f float64) float64 {
	return math.Round(f*10000) / 10000
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ParseComplex parses "re,im", e.g. "-0.8,0.156". Spaces around either part are ignored.
func ParseComplex(s string) (Complex, error) {
	re, im, ok := strings.Cut(s, ",")
	if !ok {
		return Complex{}, fmt.Errorf("%w: want re,im, got %q", ErrInvalidConfiguration, s)
	}
	r, err := strconv.ParseFloat(strings.TrimSpace(re), 64)
	if err != nil {
		return Complex{}, fmt.Errorf("%w: real part: %w", ErrInvalidConfiguration, err)
	}
	i, err := strconv.ParseFloat(strings.TrimSpace(im), 64)
	if err != nil {
		return Complex{}, fmt.Errorf("%w: imaginary part: %w", ErrInvalidConfiguration, err)
	}
	return Complex{Re: r, Im: i}, nil
}
