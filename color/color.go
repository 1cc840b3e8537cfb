// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package color implements colormakers.
//
// A colormaker assigns an RGB color to each element of an
// indexed set (e.g., the instances of a buffer).
package color

import (
	"errors"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

const prefix = "color: "

// Colormaker assigns colors to elements.
type Colormaker interface {
	// Color writes the RGB color of element i into dst,
	// which must have length 3 or more.
	Color(i int, dst []float32)
}

// Params configures a scheme.
type Params struct {
	// Value is a 0xRRGGBB color.
	// Used by "uniform".
	Value uint32
	// Count is the number of elements to be colored.
	// Used by "rainbow".
	Count int
}

// Scheme creates a Colormaker from p.
type Scheme func(p Params) Colormaker

// Builtin returns the schemes provided by this package,
// keyed by name.
func Builtin() map[string]Scheme {
	return map[string]Scheme{
		"uniform": Uniform,
		"rainbow": Rainbow,
		"index":   Index,
	}
}

// Fill returns the colors of n elements.
func Fill(c Colormaker, n int) []float32 {
	s := make([]float32, n*3)
	for i := range n {
		c.Color(i, s[i*3:])
	}
	return s
}

// ParseHex parses a color of the form "#rrggbb", "0xrrggbb"
// or "rrggbb" into 0xRRGGBB.
func ParseHex(s string) (uint32, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "#")
	c, err := colorful.Hex("#" + s)
	if err != nil {
		return 0, errors.New(prefix + "invalid hex color " + s)
	}
	r, g, b := c.RGB255()
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b), nil
}

func store(c colorful.Color, dst []float32) {
	c = c.Clamped()
	dst[0] = float32(c.R)
	dst[1] = float32(c.G)
	dst[2] = float32(c.B)
}

type uniform [3]float32

func (u *uniform) Color(_ int, dst []float32) { copy(dst[:3], u[:]) }

// Uniform colors every element with p.Value.
func Uniform(p Params) Colormaker {
	return &uniform{
		float32(p.Value>>16&0xff) / 255,
		float32(p.Value>>8&0xff) / 255,
		float32(p.Value&0xff) / 255,
	}
}

type rainbow struct{ n int }

func (r rainbow) Color(i int, dst []float32) {
	var t float64
	if r.n > 1 {
		t = float64(i) / float64(r.n-1)
	}
	store(colorful.Hsv(240*t, 1, 1), dst)
}

// Rainbow sweeps the hue from red to blue over p.Count
// elements.
func Rainbow(p Params) Colormaker { return rainbow{p.Count} }

type index struct{}

// Golden angle, in degrees.
var golden = 180 * (3 - math.Sqrt(5))

func (index) Color(i int, dst []float32) {
	h := math.Mod(float64(i)*golden, 360)
	store(colorful.Hcl(h, 0.6, 0.7), dst)
}

// Index gives each element a distinct hue, so neighbors
// are easy to tell apart. It ignores p.
func Index(Params) Colormaker { return index{} }
