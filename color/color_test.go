// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package color

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHex(t *testing.T) {
	for _, x := range [...]struct {
		s    string
		want uint32
	}{
		{"#ff0000", 0xff0000},
		{"0x00ff80", 0x00ff80},
		{"123456", 0x123456},
	} {
		have, err := ParseHex(x.s)
		require.NoError(t, err, x.s)
		assert.Equal(t, x.want, have, x.s)
	}
	_, err := ParseHex("zz")
	assert.Error(t, err)
}

func TestUniform(t *testing.T) {
	c := Uniform(Params{Value: 0xff8000})
	s := Fill(c, 3)
	require.Len(t, s, 9)
	for i := 0; i < len(s); i += 3 {
		assert.InDelta(t, 1, s[i], 1e-6)
		assert.InDelta(t, 128.0/255, s[i+1], 1e-6)
		assert.InDelta(t, 0, s[i+2], 1e-6)
	}
}

func TestRainbow(t *testing.T) {
	s := Fill(Rainbow(Params{Count: 3}), 3)
	assert.InDeltaSlice(t, []float32{1, 0, 0}, s[0:3], 1e-6, "first element is red")
	assert.InDeltaSlice(t, []float32{0, 1, 0}, s[3:6], 1e-6, "middle element is green")
	assert.InDeltaSlice(t, []float32{0, 0, 1}, s[6:9], 1e-6, "last element is blue")

	one := Fill(Rainbow(Params{Count: 1}), 1)
	assert.InDeltaSlice(t, []float32{1, 0, 0}, one, 1e-6)
}

func TestIndex(t *testing.T) {
	s := Fill(Index(Params{}), 4)
	for i := 0; i < len(s); i++ {
		assert.True(t, s[i] >= 0 && s[i] <= 1, "component %d out of range: %v", i, s[i])
	}
	assert.NotEqual(t, s[0:3], s[3:6], "neighbors must differ")
}

func TestBuiltin(t *testing.T) {
	b := Builtin()
	for _, k := range []string{"uniform", "rainbow", "index"} {
		assert.Contains(t, b, k)
	}
}
