// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/molview/buffer"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.False(t, c.Debug)
	assert.Equal(t, buffer.DefaultRadialSegments, c.Buffer.RadialSegments)
	assert.Equal(t, slog.LevelInfo, c.Log.SlogLevel())
}

func TestLoadTOML(t *testing.T) {
	p := write(t, "molview.toml", `
debug = true
query = "debug=0"
user_agent = "Mozilla/5.0 Firefox/120.0"
strict_registries = true

[log]
level = "debug"
format = "json"

[buffer]
radial_segments = 16
open_ended = true
`)
	c, err := Load(p)
	require.NoError(t, err)
	assert.True(t, c.Debug)
	assert.Equal(t, "debug=0", c.Query)
	assert.Equal(t, "Mozilla/5.0 Firefox/120.0", c.UserAgent)
	assert.True(t, c.StrictRegistries)
	assert.Equal(t, Log{Level: "debug", Format: "json"}, c.Log)
	assert.Equal(t, slog.LevelDebug, c.Log.SlogLevel())
	assert.Equal(t, buffer.Params{RadialSegments: 16, OpenEnded: true}, c.Buffer)
}

func TestLoadYAML(t *testing.T) {
	p := write(t, "molview.yaml", `
user_agent: Opera/9.80
buffer:
  open_ended: true
`)
	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "Opera/9.80", c.UserAgent)
	assert.True(t, c.Buffer.OpenEnded)
	assert.Equal(t, buffer.DefaultRadialSegments, c.Buffer.RadialSegments, "defaults are kept")
	assert.Equal(t, "text", c.Log.Format)

	c, err = Load(write(t, "empty.yml", ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoadInvalid(t *testing.T) {
	for name, content := range map[string]string{
		"a.toml": "bogus = 1\n",
		"b.yaml": "bogus: 1\n",
		"c.toml": "[log]\nlevel = \"loud\"\n",
		"d.yaml": "log:\n  format: xml\n",
		"e.toml": "[buffer]\nradial_segments = 2\n",
		"f.json": "{}",
	} {
		_, err := Load(write(t, name, content))
		assert.Error(t, err, name)
	}
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
