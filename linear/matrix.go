// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"github.com/chewxy/math32"
)

// M3 is a column-major 3x3 matrix of float32.
type M3 [3]V3

// I makes m an identity matrix.
func (m *M3) I() { *m = M3{{1}, {0, 1}, {0, 0, 1}} }

// Mul sets m to contain l ⋅ r.
func (m *M3) Mul(l, r *M3) {
	var n M3
	for i := range n {
		for j := range n {
			for k := range n {
				n[i][j] += l[k][j] * r[i][k]
			}
		}
	}
	*m = n
}

// Transpose sets m to contain the transpose of n.
func (m *M3) Transpose(n *M3) {
	for i := range m {
		m[i][i] = n[i][i]
		for j := i + 1; j < len(m); j++ {
			m[i][j], m[j][i] = n[j][i], n[i][j]
		}
	}
}

// Invert sets m to contain the inverse of n.
func (m *M3) Invert(n *M3) {
	s0 := n[1][1]*n[2][2] - n[1][2]*n[2][1]
	s1 := n[1][0]*n[2][2] - n[1][2]*n[2][0]
	s2 := n[1][0]*n[2][1] - n[1][1]*n[2][0]
	idet := 1 / (n[0][0]*s0 - n[0][1]*s1 + n[0][2]*s2)
	var r M3
	r[0][0] = s0 * idet
	r[0][1] = -(n[0][1]*n[2][2] - n[0][2]*n[2][1]) * idet
	r[0][2] = (n[0][1]*n[1][2] - n[0][2]*n[1][1]) * idet
	r[1][0] = -s1 * idet
	r[1][1] = (n[0][0]*n[2][2] - n[0][2]*n[2][0]) * idet
	r[1][2] = -(n[0][0]*n[1][2] - n[0][2]*n[1][0]) * idet
	r[2][0] = s2 * idet
	r[2][1] = -(n[0][0]*n[2][1] - n[0][1]*n[2][0]) * idet
	r[2][2] = (n[0][0]*n[1][1] - n[0][1]*n[1][0]) * idet
	*m = r
}

// Det returns the determinant of m.
func (m *M3) Det() float32 {
	var c V3
	c.Cross(&m[1], &m[2])
	return m[0].Dot(&c)
}

// Cofactor sets m to contain the cofactor matrix of n.
// It equals det(n) times the inverse transpose of n, but
// is also defined for singular matrices.
func (m *M3) Cofactor(n *M3) {
	var c M3
	c[0].Cross(&n[1], &n[2])
	c[1].Cross(&n[2], &n[0])
	c[2].Cross(&n[0], &n[1])
	*m = c
}

// Upper sets m to contain the upper-left 3x3 part of n.
func (m *M3) Upper(n *M4) {
	for i := range m {
		copy(m[i][:], n[i][:3])
	}
}

// Normal sets m to contain the normal matrix of n, i.e.,
// the inverse transpose of its upper-left 3x3 part.
func (m *M3) Normal(n *M4) {
	m.Upper(n)
	m.Invert(m)
	m.Transpose(m)
}

// M4 is a column-major 4x4 matrix of float32.
type M4 [4]V4

// I makes m an identity matrix.
func (m *M4) I() { *m = M4{{1}, {0, 1}, {0, 0, 1}, {0, 0, 0, 1}} }

// Mul sets m to contain l ⋅ r.
func (m *M4) Mul(l, r *M4) {
	var n M4
	for i := range n {
		for j := range n {
			for k := range n {
				n[i][j] += l[k][j] * r[i][k]
			}
		}
	}
	*m = n
}

// Transpose sets m to contain the transpose of n.
func (m *M4) Transpose(n *M4) {
	for i := range m {
		m[i][i] = n[i][i]
		for j := i + 1; j < len(m); j++ {
			m[i][j], m[j][i] = n[j][i], n[i][j]
		}
	}
}

// Translate makes m a translation matrix.
func (m *M4) Translate(x, y, z float32) {
	*m = M4{{1}, {0, 1}, {0, 0, 1}, {x, y, z, 1}}
}

// Scale makes m a scale matrix.
func (m *M4) Scale(x, y, z float32) {
	*m = M4{{x}, {0, y}, {0, 0, z}, {0, 0, 0, 1}}
}

// ScaleBy sets m to contain m ⋅ S, where S is the scale
// matrix given by x, y and z.
func (m *M4) ScaleBy(x, y, z float32) {
	m[0].Scale(x, &m[0])
	m[1].Scale(y, &m[1])
	m[2].Scale(z, &m[2])
}

// RotateQ makes m a rotation matrix from unit quaternion q.
func (m *M4) RotateQ(q *Q) {
	x, y, z, w := q.V[0], q.V[1], q.V[2], q.R
	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z
	*m = M4{
		{1 - 2*(yy+zz), 2 * (xy + wz), 2 * (xz - wy)},
		{2 * (xy - wz), 1 - 2*(xx+zz), 2 * (yz + wx)},
		{2 * (xz + wy), 2 * (yz - wx), 1 - 2*(xx+yy)},
		{0, 0, 0, 1},
	}
}

// LookAt sets the rotation part of m such that its z axis
// points from target to eye, using up to resolve the roll.
// The remaining elements of m are left unchanged.
//
// When eye and target coincide the z axis defaults to +z,
// so m's rotation becomes the identity. When the view
// direction is parallel to up, it is perturbed slightly
// so that the basis is still well defined.
func (m *M4) LookAt(eye, target, up *V3) {
	var x, y, z V3
	z.Sub(eye, target)
	if z.Dot(&z) == 0 {
		z[2] = 1
	}
	z.Norm(&z)
	x.Cross(up, &z)
	if x.Dot(&x) == 0 {
		if math32.Abs(up[2]) == 1 {
			z[0] += 1e-4
		} else {
			z[2] += 1e-4
		}
		z.Norm(&z)
		x.Cross(up, &z)
	}
	x.Norm(&x)
	y.Cross(&z, &x)
	copy(m[0][:3], x[:])
	copy(m[1][:3], y[:])
	copy(m[2][:3], z[:])
}
