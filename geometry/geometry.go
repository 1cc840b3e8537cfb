// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package geometry generates template meshes.
//
// A template is the shared, non-instanced geometry that
// instanced buffers replicate once per instance, each copy
// placed by its own transform.
package geometry

import (
	"github.com/chewxy/math32"

	"github.com/gviegas/molview/linear"
)

// Geometry is an indexed triangle list.
// Position and Normal store 3 float32 per vertex.
type Geometry struct {
	Position []float32
	Normal   []float32
	Index    []uint32
}

// VertexCount returns the number of vertices in g.
func (g *Geometry) VertexCount() int { return len(g.Position) / 3 }

// Apply transforms the vertices of g by m.
// Normals are transformed by m's normal matrix and
// renormalized.
func (g *Geometry) Apply(m *linear.M4) {
	var n linear.M3
	n.Normal(m)
	var v linear.V3
	for i := 0; i < len(g.Position); i += 3 {
		v.Load(g.Position, i)
		v.Transform(m, &v)
		v.Store(g.Position, i)
		v.Load(g.Normal, i)
		v.Mul(&n, &v)
		if v.Dot(&v) != 0 {
			v.Norm(&v)
		}
		v.Store(g.Normal, i)
	}
}

// Minimum segment counts.
const (
	MinRadialSegments = 3
	MinHeightSegments = 1
)

// Cylinder creates a cylinder (or truncated cone) centered
// at the origin, whose axis is the y axis.
// The top cap lies at height/2 and the bottom cap at
// -height/2. A radius of zero collapses that end into
// a single point, in which case no cap is generated for it.
// Segment counts below the minimum are raised to it.
func Cylinder(radiusTop, radiusBottom, height float32, radialSegments, heightSegments int, openEnded bool) *Geometry {
	radialSegments = max(radialSegments, MinRadialSegments)
	heightSegments = max(heightSegments, MinHeightSegments)

	nv := (radialSegments + 1) * (heightSegments + 1)
	ni := radialSegments * heightSegments * 6
	if !openEnded {
		nv += 2 * (2*radialSegments + 1)
		ni += 2 * radialSegments * 3
	}
	g := &Geometry{
		Position: make([]float32, 0, nv*3),
		Normal:   make([]float32, 0, nv*3),
		Index:    make([]uint32, 0, ni),
	}

	half := height / 2
	slope := (radiusBottom - radiusTop) / height

	// Torso.
	for y := 0; y <= heightSegments; y++ {
		v := float32(y) / float32(heightSegments)
		r := v*(radiusBottom-radiusTop) + radiusTop
		for x := 0; x <= radialSegments; x++ {
			u := float32(x) / float32(radialSegments)
			sin, cos := math32.Sincos(u * 2 * math32.Pi)
			g.Position = append(g.Position, r*sin, -v*height+half, r*cos)
			n := linear.V3{sin, slope, cos}
			n.Norm(&n)
			g.Normal = append(g.Normal, n[:]...)
		}
	}
	row := uint32(radialSegments + 1)
	for x := uint32(0); x < uint32(radialSegments); x++ {
		for y := uint32(0); y < uint32(heightSegments); y++ {
			a := y*row + x
			b := (y+1)*row + x
			c := (y+1)*row + x + 1
			d := y*row + x + 1
			if radiusTop > 0 || y != 0 {
				g.Index = append(g.Index, a, b, d)
			}
			if radiusBottom > 0 || y != uint32(heightSegments-1) {
				g.Index = append(g.Index, b, c, d)
			}
		}
	}

	if !openEnded {
		if radiusTop > 0 {
			g.cap(radiusTop, half, 1, radialSegments)
		}
		if radiusBottom > 0 {
			g.cap(radiusBottom, half, -1, radialSegments)
		}
	}
	return g
}

// cap appends a disc of radius r at height sign*half.
func (g *Geometry) cap(r, half, sign float32, radialSegments int) {
	y := half * sign
	center := uint32(g.VertexCount())
	for x := 1; x <= radialSegments; x++ {
		g.Position = append(g.Position, 0, y, 0)
		g.Normal = append(g.Normal, 0, sign, 0)
	}
	rim := uint32(g.VertexCount())
	for x := 0; x <= radialSegments; x++ {
		u := float32(x) / float32(radialSegments)
		sin, cos := math32.Sincos(u * 2 * math32.Pi)
		g.Position = append(g.Position, r*sin, y, r*cos)
		g.Normal = append(g.Normal, 0, sign, 0)
	}
	for x := uint32(0); x < uint32(radialSegments); x++ {
		c := center + x
		i := rim + x
		if sign > 0 {
			g.Index = append(g.Index, i, i+1, c)
		} else {
			g.Index = append(g.Index, i+1, i, c)
		}
	}
}

// Cone creates a cone centered at the origin, with its
// apex at height/2 on the y axis.
func Cone(radius, height float32, radialSegments, heightSegments int, openEnded bool) *Geometry {
	return Cylinder(0, radius, height, radialSegments, heightSegments, openEnded)
}
