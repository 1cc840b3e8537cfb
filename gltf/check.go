// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package gltf

import (
	"errors"
)

const prefix = "gltf: "

func newErr(reason string) error {
	return errors.New(prefix + reason)
}

// Check checks that f is valid glTF.
// Only the references between the modeled objects are
// checked.
func (f *GLTF) Check() error {
	if f.Asset.Version == "" {
		return newErr("missing GLTF.Asset.Version")
	}
	if s := f.Scene; s != nil && (*s < 0 || *s >= int64(len(f.Scenes))) {
		return newErr("invalid GLTF.Scene index")
	}
	for _, v := range f.BufferViews {
		if err := v.Check(f); err != nil {
			return err
		}
	}
	for _, a := range f.Accessors {
		if err := a.Check(f); err != nil {
			return err
		}
	}
	for _, m := range f.Meshes {
		if err := m.Check(f); err != nil {
			return err
		}
	}
	for _, n := range f.Nodes {
		if m := n.Mesh; m != nil && (*m < 0 || *m >= int64(len(f.Meshes))) {
			return newErr("invalid Node.Mesh index")
		}
		for _, c := range n.Children {
			if c < 0 || c >= int64(len(f.Nodes)) {
				return newErr("invalid Node.Children index")
			}
		}
	}
	for _, s := range f.Scenes {
		for _, n := range s.Nodes {
			if n < 0 || n >= int64(len(f.Nodes)) {
				return newErr("invalid Scene.Nodes index")
			}
		}
	}
	return nil
}

// Check checks that v is valid glTF.bufferViews' element.
func (v *BufferView) Check(gltf *GLTF) error {
	if v.Buffer < 0 || v.Buffer >= int64(len(gltf.Buffers)) {
		return newErr("invalid BufferView.Buffer index")
	}
	if v.ByteOffset < 0 || v.ByteLength < 1 {
		return newErr("invalid BufferView range")
	}
	if v.ByteOffset+v.ByteLength > gltf.Buffers[v.Buffer].ByteLength {
		return newErr("BufferView out of Buffer bounds")
	}
	switch v.Target {
	case 0, ARRAY_BUFFER, ELEMENT_ARRAY_BUFFER:
	default:
		return newErr("invalid BufferView.Target value")
	}
	return nil
}

// Check checks that a is valid glTF.accessors' element.
func (a *Accessor) Check(gltf *GLTF) error {
	if a.BufferView != nil {
		idx := *a.BufferView
		if idx < 0 || idx >= int64(len(gltf.BufferViews)) {
			return newErr("invalid Accessor.BufferView index")
		}
	}
	if a.ByteOffset < 0 {
		return newErr("invalid Accessor.BufferOffset value")
	}
	switch a.ComponentType {
	case BYTE, UNSIGNED_BYTE, SHORT, UNSIGNED_SHORT, UNSIGNED_INT, FLOAT:
	default:
		return newErr("invalid Accessor.ComponentType value")
	}
	if a.Count < 1 {
		return newErr("invalid Accessor.Count value")
	}
	n := components(a.Type)
	if n == 0 {
		return newErr("invalid Accessor.Type value")
	}
	if (a.Max != nil && len(a.Max) != n) || (a.Min != nil && len(a.Min) != n) {
		return newErr("invalid Accessor.Max/Min length")
	}
	if a.BufferView != nil {
		v := &gltf.BufferViews[*a.BufferView]
		if a.ByteOffset+a.Count*int64(n*size(a.ComponentType)) > v.ByteLength {
			return newErr("Accessor out of BufferView bounds")
		}
	}
	return nil
}

// Check checks that m is valid glTF.meshes' element.
func (m *Mesh) Check(gltf *GLTF) error {
	if len(m.Primitives) == 0 {
		return newErr("Mesh has no primitives")
	}
	n := int64(len(gltf.Accessors))
	for _, p := range m.Primitives {
		if _, ok := p.Attributes["POSITION"]; !ok {
			return newErr("Primitive has no POSITION")
		}
		for _, a := range p.Attributes {
			if a < 0 || a >= n {
				return newErr("invalid Primitive.Attributes index")
			}
		}
		if i := p.Indices; i != nil && (*i < 0 || *i >= n) {
			return newErr("invalid Primitive.Indices index")
		}
		if i := p.Material; i != nil && (*i < 0 || *i >= int64(len(gltf.Materials))) {
			return newErr("invalid Primitive.Material index")
		}
	}
	return nil
}

func components(typ string) int {
	switch typ {
	case SCALAR:
		return 1
	case VEC2:
		return 2
	case VEC3:
		return 3
	case VEC4, MAT2:
		return 4
	case MAT3:
		return 9
	case MAT4:
		return 16
	}
	return 0
}

func size(componentType int64) int {
	switch componentType {
	case BYTE, UNSIGNED_BYTE:
		return 1
	case SHORT, UNSIGNED_SHORT:
		return 2
	}
	return 4
}
