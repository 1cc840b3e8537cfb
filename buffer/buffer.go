// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package buffer implements instanced geometry buffers.
//
// A buffer replicates a template mesh once per instance.
// Each copy is placed by a per-instance transform that the
// concrete buffer computes from its own instance data.
package buffer

import (
	"errors"

	"github.com/gviegas/molview/geometry"
	"github.com/gviegas/molview/internal/bitvec"
	"github.com/gviegas/molview/linear"
)

const prefix = "buffer: "

func newErr(reason string) error { return errors.New(prefix + reason) }

// Transformer is implemented by the concrete buffers to
// place their template.
type Transformer interface {
	// ApplyPositionTransform computes the transform of
	// instance i into m. i3 is i*3.
	// On entry m translates the template to the anchor
	// position of the instance; the rotation and scale
	// parts of m are overwritten, not merged.
	ApplyPositionTransform(m *linear.M4, i, i3 int)

	// UpdateNormals reports whether the template normals
	// must be transformed whenever positions are.
	UpdateNormals() bool
}

// Instanced is the interface of the buffers this package
// creates.
type Instanced interface {
	Size() int
	PositionCount() int
	IndexCount() int
	Position() []float32
	Normal() []float32
	Color() []float32
	PrimitiveID() []uint32
	Index() []uint32
	Matrices() []linear.M4
	Center() []float32
	SetAttributes(data *Data, initNormals bool) error
}

var (
	_ Instanced = (*Cone)(nil)
	_ Instanced = (*Cylinder)(nil)
)

// Buffer is the base instanced geometry buffer.
// It holds the expanded mesh, i.e., the template
// transformed once per instance, and the per-instance
// transforms.
type Buffer struct {
	geo  *geometry.Geometry
	xf   Transformer
	size int

	base     linear.M4
	baseI    bool
	anchor   []float32
	matrices []linear.M4
	dirty    bitvec.V[uint64]

	position    []float32
	normal      []float32
	color       []float32
	primitiveID []uint32
	index       []uint32
}

// attributes is what the concrete buffers hand to
// Buffer.setAttributes. Nil fields are left unchanged.
type attributes struct {
	position  []float32
	color     []float32
	picking   []uint32
	transform bool
}

// newBuffer creates a buffer with size instances of geo.
func newBuffer(geo *geometry.Geometry, size int, xf Transformer) *Buffer {
	nv := geo.VertexCount()
	ni := len(geo.Index)
	b := &Buffer{
		geo:         geo,
		xf:          xf,
		size:        size,
		baseI:       true,
		anchor:      make([]float32, size*3),
		matrices:    make([]linear.M4, size),
		position:    make([]float32, size*nv*3),
		normal:      make([]float32, size*nv*3),
		color:       make([]float32, size*nv*3),
		primitiveID: make([]uint32, size*nv),
		index:       make([]uint32, size*ni),
	}
	b.base.I()
	b.dirty.GrowBits(size)
	for i := range size {
		off := uint32(i * nv)
		idx := b.index[i*ni : (i+1)*ni]
		for j, x := range geo.Index {
			idx[j] = x + off
		}
		pid := b.primitiveID[i*nv : (i+1)*nv]
		for j := range pid {
			pid[j] = uint32(i)
		}
	}
	return b
}

// Size returns the number of instances.
func (b *Buffer) Size() int { return b.size }

// PositionCount returns the number of vertices in the
// expanded mesh.
func (b *Buffer) PositionCount() int { return len(b.position) / 3 }

// IndexCount returns the number of indices in the
// expanded mesh.
func (b *Buffer) IndexCount() int { return len(b.index) }

// Template returns the template geometry.
// It must not be modified.
func (b *Buffer) Template() *geometry.Geometry { return b.geo }

// Position returns the vertex positions of the expanded
// mesh (3 per vertex). It must not be modified.
func (b *Buffer) Position() []float32 { return b.position }

// Normal returns the vertex normals of the expanded mesh.
// It must not be modified.
func (b *Buffer) Normal() []float32 { return b.normal }

// Color returns the vertex colors of the expanded mesh.
// It must not be modified.
func (b *Buffer) Color() []float32 { return b.color }

// PrimitiveID returns the picking id of every vertex.
// It must not be modified.
func (b *Buffer) PrimitiveID() []uint32 { return b.primitiveID }

// Index returns the indices of the expanded mesh.
// It must not be modified.
func (b *Buffer) Index() []uint32 { return b.index }

// Matrices returns the per-instance transforms, already
// composed with the base transform. It must not be modified.
func (b *Buffer) Matrices() []linear.M4 { return b.matrices }

// Matrix returns the base transform.
func (b *Buffer) Matrix() linear.M4 { return b.base }

// SetMatrix sets the base transform shared by every
// instance and recomputes all instances.
func (b *Buffer) SetMatrix(m *linear.M4) {
	var id linear.M4
	id.I()
	b.base = *m
	b.baseI = *m == id
	b.dirty.Fill()
	b.update(b.xf.UpdateNormals())
}

// Dirty returns the number of instances whose transforms
// are pending recomputation.
func (b *Buffer) Dirty() int {
	var n int
	for i := range b.dirty.Ones() {
		if i >= b.size {
			break
		}
		n++
	}
	return n
}

// markDirty schedules instance i for recomputation.
func (b *Buffer) markDirty(i int) { b.dirty.Set(i) }

// Update recomputes the instances marked as dirty.
func (b *Buffer) Update() { b.update(b.xf.UpdateNormals()) }

// setAttributes stores a and recomputes what changed.
func (b *Buffer) setAttributes(a *attributes, initNormals bool) {
	if a.position != nil {
		copy(b.anchor, a.position)
		a.transform = true
	}
	if a.transform {
		b.dirty.Fill()
	}
	nv := b.geo.VertexCount()
	if a.color != nil {
		for i := range b.size {
			i3 := i * 3
			dst := b.color[i*nv*3 : (i+1)*nv*3]
			for j := 0; j < len(dst); j += 3 {
				copy(dst[j:j+3], a.color[i3:i3+3])
			}
		}
	}
	if a.picking != nil {
		for i := range b.size {
			pid := b.primitiveID[i*nv : (i+1)*nv]
			for j := range pid {
				pid[j] = a.picking[i]
			}
		}
	}
	b.update(initNormals || b.xf.UpdateNormals())
}

// update recomputes dirty instances.
// Normals are transformed only if normals is true.
func (b *Buffer) update(normals bool) {
	nv := b.geo.VertexCount()
	var m linear.M4
	var n linear.M3
	var v linear.V3
	for i := range b.dirty.Ones() {
		if i >= b.size {
			break
		}
		i3 := i * 3
		m.Translate(b.anchor[i3], b.anchor[i3+1], b.anchor[i3+2])
		b.xf.ApplyPositionTransform(&m, i, i3)
		if !b.baseI {
			m.Mul(&b.base, &m)
		}
		b.matrices[i] = m

		k := i * nv * 3
		for j := 0; j < nv*3; j += 3 {
			v.Load(b.geo.Position, j)
			v.Transform(&m, &v)
			v.Store(b.position, k+j)
		}
		if !normals {
			continue
		}
		// The cofactor matrix keeps degenerate (flattened)
		// instances free of NaNs.
		n.Upper(&m)
		det := n.Det()
		n.Cofactor(&n)
		for j := 0; j < nv*3; j += 3 {
			v.Load(b.geo.Normal, j)
			v.Mul(&n, &v)
			if l := v.Len(); l != 0 {
				if det < 0 {
					l = -l
				}
				v.Scale(1/l, &v)
			}
			v.Store(b.normal, k+j)
		}
	}
	b.dirty.Clear()
}
