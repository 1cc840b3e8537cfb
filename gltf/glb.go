// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package gltf

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// GLB header.
type glbHeader [3]uint32

// Indices in glbHeader.
const (
	headerMagic   = 0
	headerVersion = 1
	headerLength  = 2
)

// GLB chunk.
type glbChunk [2]uint32

// Indices in glbChunk.
const (
	chunkLength = 0
	chunkType   = 1
	// Then payload.
)

const (
	// glbHeader[headerMagic].
	magic = 0x46546c67

	// glbChunk[chunkType].
	typeJSON = 0x4e4f534a
	typeBIN  = 0x004e4942
)

// IsGLB returns whether r refers to a binary glTF (version 2).
// It assumes that r was positioned accordingly.
func IsGLB(r io.Reader) bool {
	var h glbHeader
	err := binary.Read(r, binary.LittleEndian, h[:])
	switch {
	case err != nil, h[headerMagic] != magic, h[headerVersion] != 2:
		return false
	default:
		return true
	}
}

// SeekJSON seeks into r until it finds the beginning
// of the JSON string.
// If successful, it returns the length of the chunk.
// r must refer to an unread GLB blob.
func SeekJSON(r io.Reader) (n int, err error) {
	if !IsGLB(r) {
		err = newErr("not a GLB blob")
		return
	}
	var c glbChunk
	err = binary.Read(r, binary.LittleEndian, c[:])
	switch {
	case err != nil:
	case c[chunkLength] == 0 || c[chunkType] != typeJSON:
		err = newErr("invalid GLB chunk")
	default:
		n = int(c[chunkLength])
	}
	return
}

// ReadGLB reads a GLB blob from r.
// It returns the decoded JSON chunk and the BIN chunk,
// which is nil if not present.
func ReadGLB(r io.Reader) (*GLTF, []byte, error) {
	n, err := SeekJSON(r)
	if err != nil {
		return nil, nil, err
	}
	js := make([]byte, n)
	if _, err := io.ReadFull(r, js); err != nil {
		return nil, nil, fmt.Errorf(prefix+"GLB JSON chunk: %w", err)
	}
	gltf, err := Decode(bytes.NewReader(js))
	if err != nil {
		return nil, nil, err
	}
	var c glbChunk
	switch err := binary.Read(r, binary.LittleEndian, c[:]); {
	case errors.Is(err, io.EOF):
		return gltf, nil, nil
	case err != nil:
		return nil, nil, fmt.Errorf(prefix+"GLB BIN chunk: %w", err)
	case c[chunkType] != typeBIN:
		return nil, nil, newErr("invalid GLB chunk")
	}
	bin := make([]byte, c[chunkLength])
	if _, err := io.ReadFull(r, bin); err != nil {
		return nil, nil, fmt.Errorf(prefix+"GLB BIN chunk: %w", err)
	}
	return gltf, bin, nil
}

// WriteGLB writes gltf and bin into w as a GLB blob.
// gltf.Buffers[0], if present, must describe bin and
// have no URI. A nil bin produces no BIN chunk.
func WriteGLB(w io.Writer, gltf *GLTF, bin []byte) error {
	js, err := json.Marshal(gltf)
	if err != nil {
		return fmt.Errorf(prefix+"%w", err)
	}
	js = pad(js, ' ')
	length := 12 + 8 + len(js)
	if bin != nil {
		bin = pad(bin, 0)
		length += 8 + len(bin)
	}
	var b bytes.Buffer
	b.Grow(length)
	binary.Write(&b, binary.LittleEndian, glbHeader{magic, 2, uint32(length)})
	binary.Write(&b, binary.LittleEndian, glbChunk{uint32(len(js)), typeJSON})
	b.Write(js)
	if bin != nil {
		binary.Write(&b, binary.LittleEndian, glbChunk{uint32(len(bin)), typeBIN})
		b.Write(bin)
	}
	_, err = w.Write(b.Bytes())
	return err
}

// pad pads s to a multiple of 4 bytes.
func pad(s []byte, c byte) []byte {
	for len(s)%4 != 0 {
		s = append(s, c)
	}
	return s
}
