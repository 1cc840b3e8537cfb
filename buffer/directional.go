// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package buffer

import (
	"github.com/gviegas/molview/geometry"
	"github.com/gviegas/molview/linear"
)

// World-up reference used to resolve the roll of
// directional instances.
var up = linear.V3{0, 1, 0}

// Directional is the instance set of buffers whose
// instances span a pair of endpoints.
// The template is expected to be a unit-height mesh
// centered at the origin and aligned with the z axis,
// with cross sections of unit radius.
type Directional struct {
	*Buffer
	from   []float32
	to     []float32
	center []float32
	radius []float32
}

// newDirectional creates a directional buffer of geo
// and ingests data.
func newDirectional(geo *geometry.Geometry, data *Data) (*Directional, error) {
	n, err := checkNew(data)
	if err != nil {
		return nil, err
	}
	d := &Directional{
		from:   make([]float32, n*3),
		to:     make([]float32, n*3),
		center: make([]float32, n*3),
		radius: make([]float32, n),
	}
	d.Buffer = newBuffer(geo, n, d)
	if err := d.SetAttributes(data, true); err != nil {
		return nil, err
	}
	return d, nil
}

// From returns the from points. It must not be modified.
func (d *Directional) From() []float32 { return d.from }

// To returns the to points. It must not be modified.
func (d *Directional) To() []float32 { return d.to }

// Center returns the midpoints of every from/to pair.
// It must not be modified.
func (d *Directional) Center() []float32 { return d.center }

// Radius returns the radii. It must not be modified.
func (d *Directional) Radius() []float32 { return d.radius }

// SetAttributes updates the instance data.
// Any subset of the fields of data may be set; endpoints
// must be given as a pair. Changes to endpoints or radii
// recompute every instance transform, while color and
// picking changes leave the instance geometry untouched.
// initNormals forces the normals to be transformed.
// On error, nothing is changed.
func (d *Directional) SetAttributes(data *Data, initNormals bool) error {
	if err := checkUpdate(data, d.size); err != nil {
		return err
	}
	a := attributes{
		color:   data.Color,
		picking: data.Picking,
	}
	if data.Position1 != nil {
		centers(data.Position1, data.Position2, d.center)
		copy(d.from, data.Position1)
		copy(d.to, data.Position2)
		a.position = d.center
	}
	if data.Radius != nil {
		copy(d.radius, data.Radius)
		a.transform = true
	}
	d.setAttributes(&a, initNormals)
	return nil
}

// SetInstance updates the endpoints and radius of the
// instance at index i and marks it for recomputation.
// The change takes effect on the next call to Update.
func (d *Directional) SetInstance(i int, from, to linear.V3, radius float32) error {
	switch {
	case i < 0 || i >= d.size:
		return newErr("instance index out of bounds")
	case !(radius >= 0):
		return newErr("radius must be non-negative")
	}
	i3 := i * 3
	from.Store(d.from, i3)
	to.Store(d.to, i3)
	var c linear.V3
	c.Add(&from, &to)
	c.Scale(0.5, &c)
	c.Store(d.center, i3)
	c.Store(d.anchor, i3)
	d.radius[i] = radius
	d.markDirty(i)
	return nil
}

// ApplyPositionTransform implements Transformer.
// It orients the template to look from the from point
// toward the to point and scales it by the radius
// across and by the span length along its axis.
// A zero-length span keeps the identity orientation and
// collapses the instance into a flat disc.
func (d *Directional) ApplyPositionTransform(m *linear.M4, i, i3 int) {
	var eye, target linear.V3
	eye.Load(d.from, i3)
	target.Load(d.to, i3)
	m.LookAt(&eye, &target, &up)
	r := d.radius[i]
	m.ScaleBy(r, r, eye.Dist(&target))
}

// UpdateNormals implements Transformer.
// Orientation changes with every endpoint update, so
// normals are always recomputed.
func (*Directional) UpdateNormals() bool { return true }

// centers writes the midpoints of from and to into dst.
func centers(from, to, dst []float32) {
	for i := range dst {
		dst[i] = (from[i] + to[i]) * 0.5
	}
}
