// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package shader provides the GLSL sources used to render
// instanced buffers.
//
// Sources are minified and stored in a string registry.
// Files whose parent directory is named shader are keyed
// shader/<name>; any other file is a chunk, keyed
// shader/chunk/<name>. Chunks are spliced into sources by
// #include directives.
package shader

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"strings"

	"github.com/gviegas/molview/registry"
)

const prefix = "shader: "

//go:embed glsl
var glsl embed.FS

// FS returns the embedded shader tree.
func FS() fs.FS {
	sub, err := fs.Sub(glsl, "glsl")
	if err != nil {
		panic(err)
	}
	return sub
}

var (
	lineComment  = regexp.MustCompile(`[ \t]*//.*\n`)
	blockComment = regexp.MustCompile(`[ \t]*/\*[\s\S]*?\*/`)
	blankLines   = regexp.MustCompile(`\n{2,}`)
	spaces       = regexp.MustCompile(` {2,}`)
	lineEdges    = regexp.MustCompile(` *\n *`)
	include      = regexp.MustCompile(`(?m)^[ \t]*#include +(\S+)[ \t]*$`)
)

// Minify removes comments and redundant white space
// from src. Line structure is kept so that preprocessor
// directives remain valid.
func Minify(src string) string {
	src = lineComment.ReplaceAllString(src, "")
	src = blockComment.ReplaceAllString(src, "")
	src = blankLines.ReplaceAllString(src, "\n")
	src = strings.ReplaceAll(src, "\t", " ")
	src = spaces.ReplaceAllString(src, " ")
	return lineEdges.ReplaceAllString(src, "\n")
}

// Key returns the registry key of the shader file at
// name.
func Key(name string) string {
	base := path.Base(name)
	if path.Base(path.Dir(name)) == "shader" {
		return "shader/" + base
	}
	return "shader/chunk/" + base
}

// IsSource reports whether name has a shader extension
// (.glsl, .frag or .vert).
func IsSource(name string) bool {
	switch path.Ext(name) {
	case ".glsl", ".frag", ".vert":
		return true
	}
	return false
}

// Register minifies every shader file in fsys and adds it
// to reg. It returns the number of files added.
func Register(reg *registry.Registry[string], fsys fs.FS) (n int, err error) {
	err = fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !IsSource(name) {
			return err
		}
		b, err := fs.ReadFile(fsys, name)
		if err != nil {
			return err
		}
		if err := reg.Add(Key(name), Minify(string(b))); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		n++
		return nil
	})
	if err != nil {
		err = fmt.Errorf(prefix+"%w", err)
	}
	return
}

// ErrInclude is returned by Source when an #include
// cannot be resolved.
var ErrInclude = errors.New(prefix + "unresolved #include")

// Source returns the registered shader key with every
// #include directive replaced by the chunk it names.
// Includes are expanded recursively; a chunk is expanded
// at most once per source.
func Source(reg *registry.Registry[string], key string) (string, error) {
	src, ok := reg.Get(key)
	if !ok {
		return "", fmt.Errorf(prefix+"%s not registered", key)
	}
	seen := make(map[string]bool)
	var expand func(string) (string, error)
	expand = func(s string) (string, error) {
		var err error
		s = include.ReplaceAllStringFunc(s, func(dir string) string {
			if err != nil {
				return ""
			}
			name := include.FindStringSubmatch(dir)[1]
			if seen[name] {
				return ""
			}
			seen[name] = true
			chunk, ok := reg.Get("shader/chunk/" + name + ".glsl")
			if !ok {
				err = fmt.Errorf("%w: %s in %s", ErrInclude, name, key)
				return ""
			}
			chunk, err = expand(chunk)
			return strings.TrimSuffix(chunk, "\n")
		})
		return s, err
	}
	return expand(src)
}
