// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gviegas/molview/buffer"
	"github.com/gviegas/molview/color"
	"github.com/gviegas/molview/gltf"
	"github.com/gviegas/molview/linear"
	"github.com/gviegas/molview/scene"
)

type buildFlags struct {
	repr      string
	scheme    string
	color     string
	out       string
	segments  int
	openEnded bool
	quiet     bool
}

func newBuildCmd(a *app) *cobra.Command {
	var f buildFlags
	cmd := &cobra.Command{
		Use:   "build <location>",
		Short: "Build an instance buffer from instance data",
		Long: `Build loads instance data from a file path or URL, builds
the selected representation and prints the instances.

The parser is chosen by the file extension (.json, .yaml,
.yml, .toml). A trailing .gz or .zst selects a decompressor.
With --out, the buffer is exported as glTF (.gltf) or
binary glTF (.glb).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.build(cmd.Context(), cmd.OutOrStdout(), args[0], &f, cmd.Flags().Changed("segments"), cmd.Flags().Changed("open-ended"))
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&f.repr, "repr", "cone", "representation (cone, cylinder)")
	fs.StringVar(&f.scheme, "scheme", "", "color scheme; required when the data has no colors")
	fs.StringVar(&f.color, "color", "#ffffff", "color of the uniform scheme")
	fs.StringVarP(&f.out, "out", "o", "", "output file (.gltf, .glb)")
	fs.IntVar(&f.segments, "segments", buffer.DefaultRadialSegments, "radial segments of the template")
	fs.BoolVar(&f.openEnded, "open-ended", false, "omit template caps")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "do not print instances")
	return cmd
}

func (a *app) build(ctx context.Context, w io.Writer, loc string, f *buildFlags, segments, openEnded bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if f.out != "" {
		switch strings.ToLower(filepath.Ext(f.out)) {
		case ".gltf", ".glb":
		default:
			return fmt.Errorf("unsupported output file %q", f.out)
		}
	}
	g := a.g
	data, err := g.Load(ctx, loc)
	if err != nil {
		return err
	}
	if err := a.colorize(data, f); err != nil {
		return err
	}

	repr, ok := g.Representation.Get(f.repr)
	if !ok {
		return fmt.Errorf("unknown representation %q (have %s)", f.repr, strings.Join(g.Representation.Names(), ", "))
	}
	p := g.Config().Buffer
	if segments {
		p.RadialSegments = f.segments
	}
	if openEnded {
		p.OpenEnded = f.openEnded
	}
	if err := p.Check(); err != nil {
		return err
	}
	g.Log.Time("build")
	buf, err := repr(data, p)
	if err != nil {
		return err
	}
	g.Log.TimeEnd("build")
	if g.Debug() {
		g.Log.Info("built", "repr", f.repr, "instances", buf.Size(), "vertices", buf.PositionCount(), "indices", buf.IndexCount())
	}

	if !f.quiet {
		if err := printInstances(w, buf); err != nil {
			return err
		}
	}
	if f.out == "" {
		return nil
	}
	newComp, ok := g.Component.Get("shape")
	if !ok {
		return fmt.Errorf("no shape component")
	}
	name, _, _ := strings.Cut(path.Base(loc), ".")
	shape, ok := newComp(name, buf).(*scene.Node)
	if !ok {
		return fmt.Errorf("shape component is not a scene node")
	}
	return export(f.out, shape)
}

// colorize fills data.Color from the selected scheme.
// Data that carries colors is left as is unless a scheme
// was requested explicitly.
func (a *app) colorize(data *buffer.Data, f *buildFlags) error {
	if len(data.Color) != 0 && f.scheme == "" {
		return nil
	}
	name := f.scheme
	if name == "" {
		name = "uniform"
	}
	scheme, ok := a.g.Colormaker.Get(name)
	if !ok {
		return fmt.Errorf("unknown color scheme %q (have %s)", name, strings.Join(a.g.Colormaker.Names(), ", "))
	}
	v, err := color.ParseHex(f.color)
	if err != nil {
		return err
	}
	n := data.Size()
	data.Color = color.Fill(scheme(color.Params{Value: v, Count: n}), n)
	return nil
}

func printInstances(w io.Writer, buf buffer.Instanced) error {
	bw := bufio.NewWriter(w)
	c := buf.Center()
	m := buf.Matrices()
	fmt.Fprintf(bw, "%d instances, %d vertices, %d indices\n", buf.Size(), buf.PositionCount(), buf.IndexCount())
	for i := range buf.Size() {
		// Columns of the per-instance matrix hold the scaled
		// basis; their lengths are the scale factors.
		sx, sy, sz := colLen(&m[i][0]), colLen(&m[i][1]), colLen(&m[i][2])
		fmt.Fprintf(bw, "%4d center (%g %g %g) scale (%g %g %g)\n", i, c[i*3], c[i*3+1], c[i*3+2], sx, sy, sz)
	}
	return bw.Flush()
}

func colLen(c *linear.V4) float32 {
	v := linear.V3{c[0], c[1], c[2]}
	return v.Len()
}

func export(out string, shape *scene.Node) error {
	b := gltf.NewBuilder("molview")
	b.AddNode(shape)
	file, err := os.Create(out)
	if err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(out), ".glb") {
		err = b.WriteGLB(file)
	} else {
		err = b.WriteGLTF(file)
	}
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(out)
	}
	return err
}
