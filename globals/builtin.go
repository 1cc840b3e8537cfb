// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package globals

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gviegas/molview/buffer"
	"github.com/gviegas/molview/color"
	"github.com/gviegas/molview/datasource"
	"github.com/gviegas/molview/parser"
	"github.com/gviegas/molview/scene"
	"github.com/gviegas/molview/shader"
)

const prefix = "globals: "

// newShape is the builtin component. It places the
// buffers of one loaded object in a new scene node.
func newShape(name string, reprs ...buffer.Instanced) any {
	return scene.New(name, reprs...)
}

func cone(d *buffer.Data, p buffer.Params) (buffer.Instanced, error) {
	c, err := buffer.NewCone(d, p)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func cylinder(d *buffer.Data, p buffer.Params) (buffer.Instanced, error) {
	c, err := buffer.NewCylinder(d, p)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ParseJob is the input of the "parse" worker.
type ParseJob struct {
	// Ext is the parser key (e.g., "json").
	Ext  string
	Data []byte
}

// RegisterBuiltins adds the implementations provided by
// this module to g's registries. New calls it; calling it
// again replaces the builtins, or fails if the registries
// are strict.
func (g *Globals) RegisterBuiltins() error {
	var errs []error
	add := func(err error) { errs = append(errs, err) }

	if _, err := shader.Register(g.Shader, shader.FS()); err != nil {
		add(err)
	}
	for k, v := range color.Builtin() {
		add(g.Colormaker.Add(k, v))
	}
	for k, v := range parser.Builtin() {
		add(g.Parser.Add(k, v))
	}
	for k, v := range datasource.Builtin() {
		add(g.Datasource.Add(k, v))
	}
	for k, v := range datasource.Decompressors() {
		add(g.Decompressor.Add(k, v))
	}
	add(g.Representation.Add("cone", cone))
	add(g.Representation.Add("cylinder", cylinder))
	add(g.Component.Add("shape", newShape))
	add(g.Worker.Add("parse", g.parseWorker))

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf(prefix+"builtins: %w", err)
	}
	return nil
}

func (g *Globals) parseWorker(_ context.Context, in any) (any, error) {
	job, ok := in.(ParseJob)
	if !ok {
		return nil, fmt.Errorf(prefix+"parse: unexpected input %T", in)
	}
	p, ok := g.Parser.Get(job.Ext)
	if !ok {
		return nil, fmt.Errorf(prefix+"no parser for %q", job.Ext)
	}
	return p.Parse(bytes.NewReader(job.Data))
}

// RunWorker runs the worker registered under name on its
// own goroutine and waits for its result. If ctx is done
// first, ctx's error is returned and the result of the
// worker is discarded.
func (g *Globals) RunWorker(ctx context.Context, name string, in any) (any, error) {
	w, ok := g.Worker.Get(name)
	if !ok {
		return nil, fmt.Errorf(prefix+"no worker %q", name)
	}
	type result struct {
		out any
		err error
	}
	ch := make(chan result, 1)
	go func() {
		out, err := w(ctx, in)
		ch <- result{out, err}
	}()
	select {
	case r := <-ch:
		return r.out, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Load reads instance data from loc.
// The data source is selected by loc's scheme. A trailing
// extension naming a registered decompressor (e.g., .gz)
// selects it, and the remaining extension selects the
// parser.
func (g *Globals) Load(ctx context.Context, loc string) (*buffer.Data, error) {
	scheme, rest := datasource.Split(loc)
	src, ok := g.Datasource.Get(scheme)
	if !ok {
		return nil, fmt.Errorf(prefix+"no datasource for scheme %q", scheme)
	}
	ext, outer := datasource.Ext(rest)
	var dec datasource.Decompressor
	if outer != "" {
		if dec, ok = g.Decompressor.Get(outer); !ok {
			ext = outer
		}
	}
	if _, ok := g.Parser.Get(ext); !ok {
		return nil, fmt.Errorf(prefix+"no parser for %q", ext)
	}

	label := "load " + loc
	g.Log.Time(label)
	defer g.Log.TimeEnd(label)
	rc, err := src.Open(ctx, rest)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	var r io.Reader = rc
	if dec != nil {
		zr, err := dec(rc)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		r = zr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf(prefix+"%s: %w", loc, err)
	}
	out, err := g.RunWorker(ctx, "parse", ParseJob{Ext: ext, Data: b})
	if err != nil {
		return nil, err
	}
	data, ok := out.(*buffer.Data)
	if !ok || data == nil {
		return nil, fmt.Errorf(prefix+"parse: unexpected output %T", out)
	}
	return data, nil
}

// Build creates the representation registered under name
// from data, using the buffer parameters of g's
// configuration.
func (g *Globals) Build(name string, data *buffer.Data) (buffer.Instanced, error) {
	repr, ok := g.Representation.Get(name)
	if !ok {
		return nil, fmt.Errorf(prefix+"no representation %q", name)
	}
	return repr(data, g.cfg.Buffer)
}
