package fractal

import (
	"fmt"
	"strings"
)

// Variant selects the recurrence iterated per pixel.
type Variant int

const (
	Mandelbrot Variant = iota
	BurningShip
	Julia
)

func (v Variant) String() string {
	switch v {
	case Mandelbrot:
		return "mandelbrot"
	case BurningShip:
		return "burningship"
	case Julia:
		return "julia"
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

func (v Variant) valid() bool {
	return v >= Mandelbrot && v <= Julia
}

// ParseVariant accepts the names produced by String, case-insensitively.
// "burning-ship" and "burning_ship" are accepted as well.
func ParseVariant(s string) (Variant, error) {
	switch strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(s)) {
	case "mandelbrot":
		return Mandelbrot, nil
	case "burningship":
		return BurningShip, nil
	case "julia":
		return Julia, nil
	}
	return 0, fmt.Errorf("%w: unknown variant %q", ErrInvalidConfiguration, s)
}

func (v Variant) MarshalText() ([]byte, error) {
	if !v.valid() {
		return nil, fmt.Errorf("%w: unknown variant %d", ErrInvalidConfiguration, int(v))
	}
	return []byte(v.String()), nil
}

func (v *Variant) UnmarshalText(text []byte) error {
	p, err := ParseVariant(string(text))
	if err != nil {
		return err
	}
	*v = p
	return nil
}
