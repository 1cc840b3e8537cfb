// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package globals implements the shared context of the
// viewer: capability flags, the logging facade and the
// registries of every extension domain.
//
// A Globals is created explicitly and passed to whatever
// needs it. Independent contexts may coexist.
package globals

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/gviegas/molview/buffer"
	"github.com/gviegas/molview/color"
	"github.com/gviegas/molview/config"
	"github.com/gviegas/molview/datasource"
	"github.com/gviegas/molview/parser"
	"github.com/gviegas/molview/registry"
)

// WebGLErrorMessage is the HTML fragment displayed when the
// host lacks WebGL support.
const WebGLErrorMessage = `<div style="display:flex;align-items:center;justify-content:center;height:100%;"><p style="padding:15px;text-align:center;">Your browser/graphics card does not seem to support <a target="_blank" href="https://en.wikipedia.org/wiki/WebGL">WebGL</a>.<br/><br/>Find out how to get it <a target="_blank" href="http://get.webgl.org/">here</a>.</p></div>`

// Representation creates an instanced buffer from data.
type Representation func(data *buffer.Data, p buffer.Params) (buffer.Instanced, error)

// Worker is a function that can be run off the calling
// goroutine by RunWorker.
type Worker func(ctx context.Context, in any) (any, error)

// Component is a constructor of scene components.
// The builtin "shape" component returns a *scene.Node.
type Component func(name string, reprs ...buffer.Instanced) any

// Globals is the shared context.
type Globals struct {
	// ID identifies the context in log output.
	ID  uuid.UUID
	Log *Log

	Worker         *registry.Registry[Worker]
	Colormaker     *registry.Registry[color.Scheme]
	Datasource     *registry.Registry[datasource.Source]
	Representation *registry.Registry[Representation]
	Parser         *registry.Registry[parser.Parser]
	Shader         *registry.Registry[string]
	Decompressor   *registry.Registry[datasource.Decompressor]
	Component      *registry.Registry[Component]

	cfg     config.Config
	browser string
	mobile  bool

	readPixelsFloat atomic.Bool
	fragDepth       atomic.Bool
	debug           atomic.Bool
}

// Option configures New.
type Option func(*options)

type options struct {
	w io.Writer
	l *slog.Logger
}

// Output sets the writer of the default logger.
// The default is os.Stderr.
func Output(w io.Writer) Option { return func(o *options) { o.w = w } }

// Logger sets the logger used by the context, in which
// case the Log section of the configuration is ignored.
func Logger(l *slog.Logger) Option { return func(o *options) { o.l = l } }

// New creates a new context from cfg and registers the
// builtin implementations of every domain.
func New(cfg config.Config, opts ...Option) (*Globals, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := options{w: os.Stderr}
	for _, f := range opts {
		f(&o)
	}
	id := uuid.New()
	l := o.l
	if l == nil {
		l = newLogger(o.w, cfg.Log)
	}
	l = l.With("context", id.String())
	ropts := []registry.Option{registry.Strict(cfg.StrictRegistries), registry.Logger(l)}

	g := &Globals{
		ID:             id,
		Log:            NewLog(l),
		Worker:         registry.New[Worker]("worker", ropts...),
		Colormaker:     registry.New[color.Scheme]("colormaker", ropts...),
		Datasource:     registry.New[datasource.Source]("datasource", ropts...),
		Representation: registry.New[Representation]("representation", ropts...),
		Parser:         registry.New[parser.Parser]("parser", ropts...),
		Shader:         registry.New[string]("shader", ropts...),
		Decompressor:   registry.New[datasource.Decompressor]("decompressor", ropts...),
		Component:      registry.New[Component]("component", ropts...),
		cfg:            cfg,
		browser:        browserOf(cfg.UserAgent),
		mobile:         mobileOf(cfg.UserAgent),
	}
	g.debug.Store(cfg.Debug || Bool(queryParam(cfg.Query, "debug")))
	if err := g.RegisterBuiltins(); err != nil {
		return nil, err
	}
	return g, nil
}

// Config returns the configuration g was created with.
func (g *Globals) Config() config.Config { return g.cfg }

// Browser returns the name of the host browser, or the
// empty string if it could not be identified.
func (g *Globals) Browser() string { return g.browser }

// Mobile reports whether the host is a mobile browser.
func (g *Globals) Mobile() bool { return g.mobile }

// SupportsReadPixelsFloat reports whether float pixels can
// be read back from the framebuffer.
func (g *Globals) SupportsReadPixelsFloat() bool { return g.readPixelsFloat.Load() }

// SetSupportsReadPixelsFloat sets the value returned by
// SupportsReadPixelsFloat.
func (g *Globals) SetSupportsReadPixelsFloat(v bool) { g.readPixelsFloat.Store(v) }

// ExtensionFragDepth reports whether the EXT_frag_depth
// extension is available.
func (g *Globals) ExtensionFragDepth() bool { return g.fragDepth.Load() }

// SetExtensionFragDepth sets the value returned by
// ExtensionFragDepth.
func (g *Globals) SetExtensionFragDepth(v bool) { g.fragDepth.Store(v) }

// Debug reports whether debug mode is on.
func (g *Globals) Debug() bool { return g.debug.Load() }

// SetDebug sets the value returned by Debug.
func (g *Globals) SetDebug(v bool) { g.debug.Store(v) }
