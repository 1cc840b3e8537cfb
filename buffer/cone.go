// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package buffer

import (
	"github.com/chewxy/math32"

	"github.com/gviegas/molview/geometry"
	"github.com/gviegas/molview/linear"
)

// Cone is a directional buffer of cones.
// Each instance has its base centered on the from point
// side and its apex pointing at the to point.
type Cone struct{ *Directional }

// NewCone creates a new cone buffer.
// data must set Position1, Position2, Color and Radius
// with consistent lengths.
func NewCone(data *Data, p Params) (*Cone, error) {
	if err := p.Check(); err != nil {
		return nil, err
	}
	geo := geometry.Cone(1, 1, p.radialSegments(), 1, p.OpenEnded)
	alongZ(geo)
	d, err := newDirectional(geo, data)
	if err != nil {
		return nil, err
	}
	return &Cone{d}, nil
}

// Cylinder is a directional buffer of cylinders, as used
// for bonds.
type Cylinder struct{ *Directional }

// NewCylinder creates a new cylinder buffer.
// data must set Position1, Position2, Color and Radius
// with consistent lengths.
func NewCylinder(data *Data, p Params) (*Cylinder, error) {
	if err := p.Check(); err != nil {
		return nil, err
	}
	geo := geometry.Cylinder(1, 1, 1, p.radialSegments(), 1, p.OpenEnded)
	alongZ(geo)
	d, err := newDirectional(geo, data)
	if err != nil {
		return nil, err
	}
	return &Cylinder{d}, nil
}

// alongZ rotates geo so that its +y axis maps to -z,
// which is the view direction of M4.LookAt.
func alongZ(geo *geometry.Geometry) {
	var q linear.Q
	q.Rotate(-math32.Pi/2, &linear.V3{1})
	var m linear.M4
	m.RotateQ(&q)
	geo.Apply(&m)
}
