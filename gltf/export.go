// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package gltf

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/gviegas/molview/buffer"
	"github.com/gviegas/molview/linear"
	"github.com/gviegas/molview/scene"
)

// DataURIPrefix is the prefix of embedded buffer URIs.
const DataURIPrefix = "data:application/octet-stream;base64,"

// Builder creates a glTF asset from instanced buffers.
// All buffers share a single binary buffer and a single
// vertex-colored material. Each buffer becomes one mesh
// and one node of the default scene.
type Builder struct {
	gltf GLTF
	bin  []byte
}

// NewBuilder creates an empty builder.
func NewBuilder(generator string) *Builder {
	b := &Builder{}
	b.gltf.Asset = Asset{Generator: generator, Version: Version}
	one, rough, metal := float32(1), float32(0.6), float32(0)
	b.gltf.Materials = []Material{{
		PBRMetallicRoughness: &PBRMetallicRoughness{
			BaseColorFactor: &[4]float32{one, one, one, one},
			MetallicFactor:  &metal,
			RoughnessFactor: &rough,
		},
		// Open-ended templates expose back faces.
		DoubleSided: true,
		Name:        "vertex color",
	}}
	def := int64(0)
	b.gltf.Scene = &def
	b.gltf.Scenes = []Scene{{}}
	return b
}

// Add adds buf as a new mesh named name, placed at the
// origin of the default scene.
// It returns the index of the mesh, or -1 if buf has no
// instances, in which case nothing is added.
func (b *Builder) Add(name string, buf buffer.Instanced) int {
	if empty(buf) {
		return -1
	}
	mesh := b.mesh(name, buf)
	node := int64(len(b.gltf.Nodes))
	b.gltf.Nodes = append(b.gltf.Nodes, Node{Mesh: &mesh, Name: name})
	b.gltf.Scenes[0].Nodes = append(b.gltf.Scenes[0].Nodes, node)
	return int(mesh)
}

// AddNode adds the graph rooted at n to the default scene.
// Each scene node becomes a glTF node holding its local
// transform. A node with a single buffer holds its mesh;
// multiple buffers are placed in child nodes. Buffers
// with no instances are skipped.
// It returns the index of the root node.
func (b *Builder) AddNode(n *scene.Node) int {
	i := b.node(n)
	b.gltf.Scenes[0].Nodes = append(b.gltf.Scenes[0].Nodes, i)
	return int(i)
}

func (b *Builder) node(n *scene.Node) int64 {
	i := int64(len(b.gltf.Nodes))
	b.gltf.Nodes = append(b.gltf.Nodes, Node{Name: n.Name})
	var id linear.M4
	id.I()
	if n.Local != id {
		var m [16]float32
		for c := range n.Local {
			copy(m[c*4:], n.Local[c][:])
		}
		b.gltf.Nodes[i].Matrix = &m
	}
	var reprs []buffer.Instanced
	for _, r := range n.Reprs {
		if !empty(r) {
			reprs = append(reprs, r)
		}
	}
	var children []int64
	switch len(reprs) {
	case 0:
	case 1:
		mesh := b.mesh(n.Name, reprs[0])
		b.gltf.Nodes[i].Mesh = &mesh
	default:
		for k, r := range reprs {
			name := fmt.Sprintf("%s.%d", n.Name, k)
			mesh := b.mesh(name, r)
			children = append(children, int64(len(b.gltf.Nodes)))
			b.gltf.Nodes = append(b.gltf.Nodes, Node{Mesh: &mesh, Name: name})
		}
	}
	for _, c := range n.Children() {
		children = append(children, b.node(c))
	}
	b.gltf.Nodes[i].Children = children
	return i
}

// empty reports whether buf would produce zero-length
// accessors, which glTF disallows.
func empty(buf buffer.Instanced) bool {
	return buf.Size() == 0 || buf.IndexCount() == 0
}

func (b *Builder) mesh(name string, buf buffer.Instanced) int64 {
	pos := buf.Position()
	count := int64(len(pos) / 3)
	lo, hi := bounds(pos)
	attrs := map[string]int64{
		"POSITION": b.floats(pos, VEC3, count, lo, hi, ARRAY_BUFFER),
		"NORMAL":   b.floats(buf.Normal(), VEC3, count, nil, nil, ARRAY_BUFFER),
		"COLOR_0":  b.floats(buf.Color(), VEC3, count, nil, nil, ARRAY_BUFFER),
	}
	// Picking ids as application-specific attribute.
	ids := buf.PrimitiveID()
	fids := make([]float32, len(ids))
	for i, id := range ids {
		fids[i] = float32(id)
	}
	attrs["_PRIMITIVE_ID"] = b.floats(fids, SCALAR, count, nil, nil, ARRAY_BUFFER)

	idx := buf.Index()
	view := b.view(len(idx)*4, ELEMENT_ARRAY_BUFFER)
	for _, x := range idx {
		b.bin = binary.LittleEndian.AppendUint32(b.bin, x)
	}
	indices := b.accessor(Accessor{
		BufferView:    &view,
		ComponentType: UNSIGNED_INT,
		Count:         int64(len(idx)),
		Type:          SCALAR,
	})

	material, mode := int64(0), int64(TRIANGLES)
	mesh := int64(len(b.gltf.Meshes))
	b.gltf.Meshes = append(b.gltf.Meshes, Mesh{
		Primitives: []Primitive{{
			Attributes: attrs,
			Indices:    &indices,
			Material:   &material,
			Mode:       &mode,
		}},
		Name:   name,
		Extras: map[string]int{"instances": buf.Size()},
	})
	return mesh
}

func (b *Builder) view(n int, target int64) int64 {
	b.gltf.BufferViews = append(b.gltf.BufferViews, BufferView{
		ByteOffset: int64(len(b.bin)),
		ByteLength: int64(n),
		Target:     target,
	})
	return int64(len(b.gltf.BufferViews) - 1)
}

func (b *Builder) accessor(a Accessor) int64 {
	b.gltf.Accessors = append(b.gltf.Accessors, a)
	return int64(len(b.gltf.Accessors) - 1)
}

func (b *Builder) floats(s []float32, typ string, count int64, lo, hi []float32, target int64) int64 {
	view := b.view(len(s)*4, target)
	for _, x := range s {
		b.bin = binary.LittleEndian.AppendUint32(b.bin, math.Float32bits(x))
	}
	return b.accessor(Accessor{
		BufferView:    &view,
		ComponentType: FLOAT,
		Count:         count,
		Type:          typ,
		Min:           lo,
		Max:           hi,
	})
}

func bounds(pos []float32) (lo, hi []float32) {
	if len(pos) < 3 {
		return nil, nil
	}
	lo = []float32{pos[0], pos[1], pos[2]}
	hi = []float32{pos[0], pos[1], pos[2]}
	for i := 3; i+2 < len(pos); i += 3 {
		for j := range 3 {
			lo[j] = min(lo[j], pos[i+j])
			hi[j] = max(hi[j], pos[i+j])
		}
	}
	return
}

// Result returns the asset and its binary buffer.
// The buffer is described by Buffers[0], which has no
// URI. An asset with no meshes has no buffers and a nil
// binary buffer.
func (b *Builder) Result() (*GLTF, []byte) {
	g := b.gltf
	if len(b.bin) == 0 {
		return &g, nil
	}
	g.Buffers = []Buffer{{ByteLength: int64(len(b.bin))}}
	return &g, b.bin
}

// WriteGLTF writes the asset as JSON with the binary
// buffer embedded as a base64 data URI.
func (b *Builder) WriteGLTF(w io.Writer) error {
	g, bin := b.Result()
	if len(g.Buffers) == 0 {
		return Encode(w, g)
	}
	g.Buffers[0].URI = DataURIPrefix + base64.StdEncoding.EncodeToString(bin)
	return Encode(w, g)
}

// WriteGLB writes the asset as a GLB blob.
func (b *Builder) WriteGLB(w io.Writer) error {
	g, bin := b.Result()
	return WriteGLB(w, g, bin)
}
