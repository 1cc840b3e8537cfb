// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"github.com/chewxy/math32"
)

// Q is a quaternion of float32.
type Q struct {
	V V3
	R float32
}

// Rotate sets q to contain a rotation of angle radians
// about axis. axis must be a unit vector.
func (q *Q) Rotate(angle float32, axis *V3) {
	s, c := math32.Sincos(angle * 0.5)
	q.V.Scale(s, axis)
	q.R = c
}
