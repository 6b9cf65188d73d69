package fractal

import (
	"errors"
	"math"
	"testing"
)

const eps = 1e-12

func near(a, b float64) bool {
	return math.Abs(a-b) <= eps*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func TestComplex_Square(t *testing.T) {
	tests := []struct {
		in, want Complex
	}{
		{Complex{3, 4}, Complex{-7, 24}},
		{Complex{0, 1}, Complex{-1, 0}},
		{Complex{-2, 0.5}, Complex{3.75, -2}},
		{Complex{}, Complex{}},
	}
	for _, tt := range tests {
		if got := tt.in.Square(); got != tt.want {
			t.Errorf("%v.Square() = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestComplex_AddLaws(t *testing.T) {
	points := []Complex{{1, 2}, {-0.5, 3.25}, {1e10, -1e-10}, {0, 0}, {-7, -24}}
	for _, a := range points {
		for _, b := range points {
			if a.Add(b) != b.Add(a) {
				t.Errorf("%v+%v not commutative", a, b)
			}
			for _, c := range points {
				l := a.Add(b).Add(c)
				r := a.Add(b.Add(c))
				if !near(l.Re, r.Re) || !near(l.Im, r.Im) {
					t.Errorf("(%v+%v)+%v = %v, %v+(%v+%v) = %v", a, b, c, l, a, b, c, r)
				}
			}
		}
	}
}

func TestComplex_Modulus(t *testing.T) {
	for _, c := range []Complex{{3, 4}, {-1.5, 0.1}, {0, -2}, {1e-3, 1e3}} {
		m := c.Modulus()
		if !near(m*m, c.ModulusSquared()) {
			t.Errorf("%v: Modulus()² = %g, ModulusSquared() = %g", c, m*m, c.ModulusSquared())
		}
	}
	if got := (Complex{3, 4}).Modulus(); got != 5 {
		t.Errorf("|3+4i| = %g, want 5", got)
	}
}

func TestComplex_Overflow(t *testing.T) {
	big := Complex{1e200, 1e200}
	sq := big.Square()
	if !math.IsInf(sq.Im, 1) {
		t.Errorf("Square overflow imag = %g, want +Inf", sq.Im)
	}
	if ms := big.ModulusSquared(); !(ms > Bailout) {
		t.Errorf("ModulusSquared of huge value = %g, want > %g", ms, Bailout)
	}
}

func TestComplex_String(t *testing.T) {
	tests := []struct {
		in   Complex
		want string
	}{
		{Complex{-0.74534, 0.11273}, "-0.7453 + 0.1127i"},
		{Complex{0.25, -0.5}, "0.25 - 0.5i"},
		{Complex{1, 0}, "1 - 0i"},
	}
	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestParseComplex(t *testing.T) {
	tests := []struct {
		in   string
		want Complex
	}{
		{"-0.8,0.156", Complex{-0.8, 0.156}},
		{" -0.75 , 0.1 ", Complex{-0.75, 0.1}},
		{"0,0", Complex{}},
	}
	for _, tt := range tests {
		got, err := ParseComplex(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseComplex(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	for _, in := range []string{"1", "1,x", "a,2", "1,2,3", ""} {
		if _, err := ParseComplex(in); !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("ParseComplex(%q): err = %v, want ErrInvalidConfiguration", in, err)
		}
	}
}
