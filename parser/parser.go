// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package parser decodes instance data for directional
// buffers.
//
// The data is a record of flat numeric arrays keyed by
// position1, position2, color, radius and, optionally,
// picking, encoded as JSON, YAML or TOML.
package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/gviegas/molview/buffer"
)

const prefix = "parser: "

// ErrEmpty is returned when the input holds no instances.
var ErrEmpty = errors.New(prefix + "no instance data")

// Parser decodes instance data.
type Parser interface {
	Parse(r io.Reader) (*buffer.Data, error)
}

// Func adapts a function to the Parser interface.
type Func func(r io.Reader) (*buffer.Data, error)

// Parse implements Parser.
func (f Func) Parse(r io.Reader) (*buffer.Data, error) { return f(r) }

// Builtin returns the parsers provided by this package,
// keyed by file extension.
func Builtin() map[string]Parser {
	return map[string]Parser{
		"json": Func(JSON),
		"yaml": Func(YAML),
		"yml":  Func(YAML),
		"toml": Func(TOML),
	}
}

// JSON decodes JSON instance data.
func JSON(r io.Reader) (*buffer.Data, error) {
	var d buffer.Data
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf(prefix+"json: %w", err)
	}
	return check(&d)
}

// YAML decodes YAML instance data.
func YAML(r io.Reader) (*buffer.Data, error) {
	var d buffer.Data
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf(prefix+"yaml: %w", err)
	}
	return check(&d)
}

// TOML decodes TOML instance data.
func TOML(r io.Reader) (*buffer.Data, error) {
	var d buffer.Data
	md, err := toml.NewDecoder(r).Decode(&d)
	if err != nil {
		return nil, fmt.Errorf(prefix+"toml: %w", err)
	}
	if und := md.Undecoded(); len(und) > 0 {
		return nil, fmt.Errorf(prefix+"toml: unknown key %q", und[0].String())
	}
	return check(&d)
}

func check(d *buffer.Data) (*buffer.Data, error) {
	if len(d.Position1) == 0 {
		return nil, ErrEmpty
	}
	return d, nil
}
