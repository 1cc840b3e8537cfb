// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package buffer

// Data is the per-instance data of a directional buffer.
// Position1 and Position2 hold the from and to points
// (3 float32 per instance), Color holds RGB triples and
// Radius one value per instance. Picking is optional and,
// when set, holds one picking id per instance.
//
// For partial updates (SetAttributes), nil fields are left
// unchanged.
type Data struct {
	Position1 []float32 `json:"position1" yaml:"position1" toml:"position1"`
	Position2 []float32 `json:"position2" yaml:"position2" toml:"position2"`
	Color     []float32 `json:"color" yaml:"color" toml:"color"`
	Radius    []float32 `json:"radius" yaml:"radius" toml:"radius"`
	Picking   []uint32  `json:"picking,omitempty" yaml:"picking,omitempty" toml:"picking,omitempty"`
}

// Size returns the number of instances described by d's
// endpoint data.
func (d *Data) Size() int { return len(d.Position1) / 3 }

// Params configures the template of a buffer.
type Params struct {
	RadialSegments int  `json:"radial_segments" yaml:"radial_segments" toml:"radial_segments"`
	OpenEnded      bool `json:"open_ended" yaml:"open_ended" toml:"open_ended"`
}

// DefaultRadialSegments is used when Params.RadialSegments
// is zero.
const DefaultRadialSegments = 60

// DefaultParams returns the default parameters.
func DefaultParams() Params { return Params{RadialSegments: DefaultRadialSegments} }

// Check validates p. A zero RadialSegments is valid and
// means DefaultRadialSegments.
func (p *Params) Check() error {
	if p.RadialSegments != 0 && p.RadialSegments < 3 {
		return newErr("radial segments must be at least 3")
	}
	return nil
}

func (p Params) radialSegments() int {
	if p.RadialSegments == 0 {
		return DefaultRadialSegments
	}
	return p.RadialSegments
}

// checkNew validates the data given to a constructor and
// returns the number of instances.
func checkNew(d *Data) (n int, err error) {
	var reason string
	switch {
	case d == nil:
		reason = "nil data"
	case d.Position1 == nil || d.Position2 == nil:
		reason = "missing endpoint data"
	case d.Color == nil:
		reason = "missing color data"
	case d.Radius == nil:
		reason = "missing radius data"
	default:
		n = d.Size()
		return n, checkUpdate(d, n)
	}
	err = newErr(reason)
	return
}

// checkUpdate validates the data given to SetAttributes
// against a buffer with n instances.
// Fields that are nil are not checked.
func checkUpdate(d *Data, n int) error {
	var reason string
	switch {
	case d == nil:
		reason = "nil data"
	case (d.Position1 == nil) != (d.Position2 == nil):
		reason = "position1 and position2 must be given together"
	case d.Position1 != nil && len(d.Position1) != len(d.Position2):
		reason = "position1 and position2 lengths differ"
	case d.Position1 != nil && len(d.Position1) != n*3:
		reason = "endpoint length must be 3 times the instance count"
	case d.Color != nil && len(d.Color) != n*3:
		reason = "color length must be 3 times the instance count"
	case d.Radius != nil && len(d.Radius) != n:
		reason = "radius length must match the instance count"
	case d.Picking != nil && len(d.Picking) != n:
		reason = "picking length must match the instance count"
	default:
		for _, r := range d.Radius {
			if !(r >= 0) {
				return newErr("radius must be non-negative")
			}
		}
		return nil
	}
	return newErr(reason)
}
