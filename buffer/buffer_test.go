// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package buffer

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/gviegas/molview/linear"
)

func approx(a, b float32) bool {
	const eps = 1e-4
	d := a - b
	return d < eps && d > -eps
}

func colLen(m *linear.M4, i int) float32 {
	v := linear.V3{m[i][0], m[i][1], m[i][2]}
	return v.Len()
}

func twoCones(t *testing.T) *Cone {
	c, err := NewCone(&Data{
		Position1: []float32{0, 0, 0, 0, 0, 0},
		Position2: []float32{0, 0, 1, 2, 0, 0},
		Color:     []float32{1, 0, 0, 0, 0, 1},
		Radius:    []float32{1, 2},
	}, Params{RadialSegments: 8})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestCone(t *testing.T) {
	c := twoCones(t)
	if n := c.Size(); n != 2 {
		t.Fatalf("Cone.Size:\nhave %d\nwant 2", n)
	}
	if ctr := c.Center(); !slices.Equal(ctr, []float32{0, 0, 0.5, 1, 0, 0}) {
		t.Fatalf("Cone.Center:\nhave %v\nwant [0 0 0.5 1 0 0]", ctr)
	}
	ms := c.Matrices()
	for i, x := range [...]struct {
		xy, z float32
		pos   linear.V4
	}{
		{1, 1, linear.V4{0, 0, 0.5, 1}},
		{2, 2, linear.V4{1, 0, 0, 1}},
	} {
		m := &ms[i]
		if l := colLen(m, 0); !approx(l, x.xy) {
			t.Fatalf("Cone: instance %d x scale:\nhave %v\nwant %v", i, l, x.xy)
		}
		if l := colLen(m, 1); !approx(l, x.xy) {
			t.Fatalf("Cone: instance %d y scale:\nhave %v\nwant %v", i, l, x.xy)
		}
		if l := colLen(m, 2); !approx(l, x.z) {
			t.Fatalf("Cone: instance %d z scale:\nhave %v\nwant %v", i, l, x.z)
		}
		if m[3] != x.pos {
			t.Fatalf("Cone: instance %d translation:\nhave %v\nwant %v", i, m[3], x.pos)
		}
	}
}

func TestConeMesh(t *testing.T) {
	c := twoCones(t)
	nv := c.Template().VertexCount()
	if n := c.PositionCount(); n != 2*nv {
		t.Fatalf("Cone.PositionCount:\nhave %d\nwant %d", n, 2*nv)
	}
	if n := c.IndexCount(); n != 2*len(c.Template().Index) {
		t.Fatalf("Cone.IndexCount:\nhave %d\nwant %d", n, 2*len(c.Template().Index))
	}
	for _, i := range c.Index() {
		if int(i) >= c.PositionCount() {
			t.Fatalf("Cone.Index: %d out of bounds", i)
		}
	}
	// The apex is the first template vertex and must land
	// on the to point.
	to := c.To()
	for i := range c.Size() {
		k := i * nv * 3
		for j := range 3 {
			if p := c.Position()[k+j]; !approx(p, to[i*3+j]) {
				t.Fatalf("Cone: instance %d apex\nhave %v\nwant %v", i, c.Position()[k:k+3], to[i*3:i*3+3])
			}
		}
	}
	for i := 0; i < len(c.Normal()); i += 3 {
		n := linear.V3{c.Normal()[i], c.Normal()[i+1], c.Normal()[i+2]}
		if l := n.Len(); !approx(l, 1) {
			t.Fatalf("Cone: normal %d length\nhave %v\nwant 1", i/3, l)
		}
	}
	for i := range c.Size() {
		col := c.Color()[i*nv*3 : (i+1)*nv*3]
		for j := 0; j < len(col); j += 3 {
			if !slices.Equal(col[j:j+3], []float32{1 - float32(i), 0, float32(i)}) {
				t.Fatalf("Cone: instance %d color\nhave %v", i, col[j:j+3])
			}
		}
	}
}

func TestCenterMidpoint(t *testing.T) {
	const n = 100
	rnd := rand.New(rand.NewSource(1))
	data := &Data{
		Position1: make([]float32, n*3),
		Position2: make([]float32, n*3),
		Color:     make([]float32, n*3),
		Radius:    make([]float32, n),
	}
	fill := func() {
		for i := range data.Position1 {
			data.Position1[i] = rnd.Float32()*20 - 10
			data.Position2[i] = rnd.Float32()*20 - 10
		}
		for i := range data.Radius {
			data.Radius[i] = rnd.Float32() * 2
		}
	}
	fill()
	c, err := NewCone(data, Params{RadialSegments: 6})
	if err != nil {
		t.Fatal(err)
	}
	check := func() {
		ctr := c.Center()
		for i := range ctr {
			if want := (data.Position1[i] + data.Position2[i]) / 2; ctr[i] != want {
				t.Fatalf("Cone.Center[%d]:\nhave %v\nwant %v", i, ctr[i], want)
			}
		}
		ms := c.Matrices()
		for i := range n {
			var from, to linear.V3
			from.Load(data.Position1, i*3)
			to.Load(data.Position2, i*3)
			if l, d := colLen(&ms[i], 2), from.Dist(&to); !approx(l, d) {
				t.Fatalf("Cone: instance %d z scale:\nhave %v\nwant %v", i, l, d)
			}
			if l, r := colLen(&ms[i], 0), data.Radius[i]; !approx(l, r) {
				t.Fatalf("Cone: instance %d x scale:\nhave %v\nwant %v", i, l, r)
			}
		}
	}
	check()
	fill()
	if err := c.SetAttributes(data, false); err != nil {
		t.Fatal(err)
	}
	check()
}

func TestColorOnly(t *testing.T) {
	c := twoCones(t)
	from := slices.Clone(c.From())
	to := slices.Clone(c.To())
	ctr := slices.Clone(c.Center())
	rad := slices.Clone(c.Radius())
	pos := slices.Clone(c.Position())
	ms := slices.Clone(c.Matrices())

	if err := c.SetAttributes(&Data{Color: []float32{0, 1, 0, 0, 1, 0}}, false); err != nil {
		t.Fatal(err)
	}
	for _, x := range [...]struct {
		name       string
		have, want []float32
	}{
		{"From", c.From(), from},
		{"To", c.To(), to},
		{"Center", c.Center(), ctr},
		{"Radius", c.Radius(), rad},
		{"Position", c.Position(), pos},
	} {
		if !slices.Equal(x.have, x.want) {
			t.Fatalf("Cone.%s changed by color update:\nhave %v\nwant %v", x.name, x.have, x.want)
		}
	}
	if !slices.Equal(c.Matrices(), ms) {
		t.Fatal("Cone.Matrices changed by color update")
	}
	for i := 0; i < len(c.Color()); i += 3 {
		if !slices.Equal(c.Color()[i:i+3], []float32{0, 1, 0}) {
			t.Fatalf("Cone.Color[%d]:\nhave %v\nwant [0 1 0]", i/3, c.Color()[i:i+3])
		}
	}
}

func TestRadiusOnly(t *testing.T) {
	c := twoCones(t)
	if err := c.SetAttributes(&Data{Radius: []float32{3, 0.5}}, false); err != nil {
		t.Fatal(err)
	}
	ms := c.Matrices()
	if l := colLen(&ms[0], 0); !approx(l, 3) {
		t.Fatalf("Cone: x scale after radius update:\nhave %v\nwant 3", l)
	}
	if l := colLen(&ms[1], 1); !approx(l, 0.5) {
		t.Fatalf("Cone: y scale after radius update:\nhave %v\nwant 0.5", l)
	}
	if l := colLen(&ms[1], 2); !approx(l, 2) {
		t.Fatalf("Cone: z scale after radius update:\nhave %v\nwant 2", l)
	}
}

func TestDegenerate(t *testing.T) {
	c, err := NewCone(&Data{
		Position1: []float32{1, 2, 3},
		Position2: []float32{1, 2, 3},
		Color:     []float32{1, 1, 1},
		Radius:    []float32{0.5},
	}, Params{})
	if err != nil {
		t.Fatal(err)
	}
	m := c.Matrices()[0]
	if l := colLen(&m, 2); l != 0 {
		t.Fatalf("Cone: degenerate z scale:\nhave %v\nwant 0", l)
	}
	if m[3] != (linear.V4{1, 2, 3, 1}) {
		t.Fatalf("Cone: degenerate translation:\nhave %v\nwant [1 2 3 1]", m[3])
	}
	for _, s := range [...][]float32{c.Position(), c.Normal()} {
		for i, f := range s {
			if f != f {
				t.Fatalf("Cone: degenerate instance produced NaN at %d", i)
			}
		}
	}
	for i := 2; i < len(c.Position()); i += 3 {
		if z := c.Position()[i]; !approx(z, 3) {
			t.Fatalf("Cone: degenerate instance is not flat:\nhave z=%v\nwant z=3", z)
		}
	}
}

func TestSetInstance(t *testing.T) {
	c := twoCones(t)
	if n := c.Dirty(); n != 0 {
		t.Fatalf("Cone.Dirty:\nhave %d\nwant 0", n)
	}
	before := c.Matrices()[0]
	if err := c.SetInstance(1, linear.V3{0, 0, 0}, linear.V3{0, 4, 0}, 1); err != nil {
		t.Fatal(err)
	}
	if n := c.Dirty(); n != 1 {
		t.Fatalf("Cone.Dirty:\nhave %d\nwant 1", n)
	}
	c.Update()
	if n := c.Dirty(); n != 0 {
		t.Fatalf("Cone.Dirty:\nhave %d\nwant 0", n)
	}
	if c.Matrices()[0] != before {
		t.Fatal("Cone.Update: clean instance changed")
	}
	m := c.Matrices()[1]
	if l := colLen(&m, 2); !approx(l, 4) {
		t.Fatalf("Cone: z scale after SetInstance:\nhave %v\nwant 4", l)
	}
	if !slices.Equal(c.Center()[3:6], []float32{0, 2, 0}) {
		t.Fatalf("Cone.Center after SetInstance:\nhave %v\nwant [0 2 0]", c.Center()[3:6])
	}
	if err := c.SetInstance(2, linear.V3{}, linear.V3{}, 1); err == nil {
		t.Fatal("Cone.SetInstance: out of bounds\nhave nil\nwant error")
	}
	if err := c.SetInstance(0, linear.V3{}, linear.V3{}, -1); err == nil {
		t.Fatal("Cone.SetInstance: negative radius\nhave nil\nwant error")
	}
}

func TestSetMatrix(t *testing.T) {
	c := twoCones(t)
	pos := slices.Clone(c.Position())
	var m linear.M4
	m.Translate(10, 0, 0)
	c.SetMatrix(&m)
	if c.Matrix() != m {
		t.Fatalf("Cone.Matrix:\nhave %v\nwant %v", c.Matrix(), m)
	}
	for i := 0; i < len(pos); i += 3 {
		if have := c.Position()[i]; !approx(have, pos[i]+10) {
			t.Fatalf("Cone.SetMatrix: vertex %d x\nhave %v\nwant %v", i/3, have, pos[i]+10)
		}
	}
	if v := c.Matrices()[1][3]; v != (linear.V4{11, 0, 0, 1}) {
		t.Fatalf("Cone.SetMatrix: translation\nhave %v\nwant [11 0 0 1]", v)
	}
}

func TestPicking(t *testing.T) {
	c := twoCones(t)
	nv := c.Template().VertexCount()
	for i, id := range c.PrimitiveID() {
		if want := uint32(i / nv); id != want {
			t.Fatalf("Cone.PrimitiveID[%d]:\nhave %d\nwant %d", i, id, want)
		}
	}
	if err := c.SetAttributes(&Data{Picking: []uint32{7, 9}}, false); err != nil {
		t.Fatal(err)
	}
	if id := c.PrimitiveID()[nv]; id != 9 {
		t.Fatalf("Cone.PrimitiveID[%d]:\nhave %d\nwant 9", nv, id)
	}
}

func TestInvalid(t *testing.T) {
	for _, x := range [...]struct {
		name string
		data *Data
	}{
		{"nil", nil},
		{"no endpoints", &Data{Color: []float32{1, 1, 1}, Radius: []float32{1}}},
		{"no color", &Data{Position1: []float32{0, 0, 0}, Position2: []float32{1, 1, 1}, Radius: []float32{1}}},
		{"no radius", &Data{Position1: []float32{0, 0, 0}, Position2: []float32{1, 1, 1}, Color: []float32{1, 1, 1}}},
		{"endpoint lengths", &Data{Position1: []float32{0, 0, 0}, Position2: []float32{1, 1, 1, 1, 1, 1}, Color: []float32{1, 1, 1}, Radius: []float32{1}}},
		{"not a triple", &Data{Position1: []float32{0, 0, 0, 0}, Position2: []float32{1, 1, 1, 1}, Color: []float32{1, 1, 1}, Radius: []float32{1}}},
		{"color length", &Data{Position1: []float32{0, 0, 0}, Position2: []float32{1, 1, 1}, Color: []float32{1, 1}, Radius: []float32{1}}},
		{"radius length", &Data{Position1: []float32{0, 0, 0}, Position2: []float32{1, 1, 1}, Color: []float32{1, 1, 1}, Radius: []float32{1, 2}}},
		{"negative radius", &Data{Position1: []float32{0, 0, 0}, Position2: []float32{1, 1, 1}, Color: []float32{1, 1, 1}, Radius: []float32{-1}}},
		{"picking length", &Data{Position1: []float32{0, 0, 0}, Position2: []float32{1, 1, 1}, Color: []float32{1, 1, 1}, Radius: []float32{1}, Picking: []uint32{1, 2}}},
	} {
		if _, err := NewCone(x.data, Params{}); err == nil {
			t.Fatalf("NewCone (%s):\nhave nil\nwant error", x.name)
		}
	}
	if _, err := NewCone(&Data{}, Params{RadialSegments: 2}); err == nil {
		t.Fatal("NewCone (2 segments):\nhave nil\nwant error")
	}

	c := twoCones(t)
	ctr := slices.Clone(c.Center())
	if err := c.SetAttributes(&Data{Position1: []float32{1, 1, 1, 1, 1, 1}}, false); err == nil {
		t.Fatal("Cone.SetAttributes (single endpoint):\nhave nil\nwant error")
	}
	if err := c.SetAttributes(&Data{Position1: []float32{1, 1, 1}, Position2: []float32{2, 2, 2}}, false); err == nil {
		t.Fatal("Cone.SetAttributes (short endpoints):\nhave nil\nwant error")
	}
	if !slices.Equal(c.Center(), ctr) {
		t.Fatal("Cone.SetAttributes: failed update changed the buffer")
	}
}

func TestCylinder(t *testing.T) {
	c, err := NewCylinder(&Data{
		Position1: []float32{0, 0, 0},
		Position2: []float32{0, 0, 3},
		Color:     []float32{0.5, 0.5, 0.5},
		Radius:    []float32{0.2},
	}, Params{RadialSegments: 12, OpenEnded: true})
	if err != nil {
		t.Fatal(err)
	}
	var lo, hi float32 = 1e9, -1e9
	for i := 2; i < len(c.Position()); i += 3 {
		lo = min(lo, c.Position()[i])
		hi = max(hi, c.Position()[i])
	}
	if !approx(lo, 0) || !approx(hi, 3) {
		t.Fatalf("Cylinder: z extent\nhave [%v %v]\nwant [0 3]", lo, hi)
	}
	for i := 0; i < len(c.Position()); i += 3 {
		v := linear.V3{c.Position()[i], c.Position()[i+1], 0}
		if l := v.Len(); !approx(l, 0.2) {
			t.Fatalf("Cylinder: vertex %d distance from axis\nhave %v\nwant 0.2", i/3, l)
		}
	}
}

func TestTransformAllocs(t *testing.T) {
	c := twoCones(t)
	var m linear.M4
	n := testing.AllocsPerRun(100, func() {
		m.Translate(1, 0, 0)
		c.ApplyPositionTransform(&m, 1, 3)
	})
	if n != 0 {
		t.Fatalf("Cone.ApplyPositionTransform: allocs\nhave %v\nwant 0", n)
	}
}

func BenchmarkSetAttributes(b *testing.B) {
	const n = 1000
	rnd := rand.New(rand.NewSource(2))
	data := &Data{
		Position1: make([]float32, n*3),
		Position2: make([]float32, n*3),
		Color:     make([]float32, n*3),
		Radius:    make([]float32, n),
	}
	for i := range data.Position1 {
		data.Position1[i] = rnd.Float32()
		data.Position2[i] = rnd.Float32() + 1
	}
	for i := range data.Radius {
		data.Radius[i] = 0.1
	}
	c, err := NewCone(data, Params{RadialSegments: 16})
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.SetAttributes(data, false)
	}
}
