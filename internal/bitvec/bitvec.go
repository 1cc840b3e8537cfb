// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package bitvec defines a bit vector type used to track
// which elements of a fixed-size set need processing
// (e.g., instances whose transforms are stale).
package bitvec

import (
	"iter"
	"math/bits"
	"unsafe"
)

// Uint represents the granularity of a bit vector.
type Uint interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// V is a growable bit vector with custom granularity.
type V[T Uint] struct {
	s   []T
	rem int
}

// nbit returns the number of bits in T.
func (*V[T]) nbit() int { return int(unsafe.Sizeof(T(0))) * 8 }

// Len returns the number of bits in the vector.
func (v *V[_]) Len() int { return len(v.s) * v.nbit() }

// Rem returns the number of unset bits in the vector.
func (v *V[_]) Rem() int { return v.rem }

// Count returns the number of set bits in the vector.
func (v *V[_]) Count() int { return v.Len() - v.rem }

// Grow resizes the vector to contain nplus additional Uints.
// The new extent is appended as a contiguous range of unset
// bits.
// It returns the value of v.Len prior to appending the new
// extent.
func (v *V[T]) Grow(nplus int) (index int) {
	index = v.Len()
	if nplus > 0 {
		v.rem += nplus * v.nbit()
		v.s = append(v.s, make([]T, nplus)...)
	}
	return
}

// GrowBits resizes the vector so that it holds at least n bits.
func (v *V[T]) GrowBits(n int) {
	nb := v.nbit()
	if need := (n + nb - 1) / nb; need > len(v.s) {
		v.Grow(need - len(v.s))
	}
}

// Set sets a given bit.
func (v *V[T]) Set(index int) {
	n := v.nbit()
	i := index / n
	b := T(1) << (index & (n - 1))
	if v.s[i]&b == 0 {
		v.s[i] |= b
		v.rem--
	}
}

// Unset unsets a given bit.
func (v *V[T]) Unset(index int) {
	n := v.nbit()
	i := index / n
	b := T(1) << (index & (n - 1))
	if v.s[i]&b != 0 {
		v.s[i] &^= b
		v.rem++
	}
}

// IsSet checks whether a given bit is set.
func (v *V[T]) IsSet(index int) bool {
	n := v.nbit()
	i := index / n
	b := T(1) << (index & (n - 1))
	return v.s[i]&b != 0
}

// Fill sets every bit in the vector.
func (v *V[T]) Fill() {
	for i := range v.s {
		v.s[i] = ^T(0)
	}
	v.rem = 0
}

// Clear unsets every bit in the vector.
func (v *V[T]) Clear() {
	n := v.Len()
	if n == v.Rem() {
		return
	}
	clear(v.s)
	v.rem = n
}

// Ones returns an iterator over the indices of set bits,
// in increasing order.
func (v *V[T]) Ones() iter.Seq[int] {
	return func(yield func(int) bool) {
		n := v.nbit()
		for i, x := range v.s {
			for x != 0 {
				b := bits.TrailingZeros64(uint64(x))
				if !yield(i*n + b) {
					return
				}
				x &= x - 1
			}
		}
	}
}

// All returns an iterator over all bits of the vector.
// The first value in the pair represents the index of the
// bit, while the second indicates whether the bit is set.
func (v *V[T]) All() iter.Seq2[int, bool] {
	return func(yield func(int, bool) bool) {
		n := v.nbit()
		for i, x := range v.s {
			for b := range n {
				if !yield(i*n+b, x&(1<<b) != 0) {
					return
				}
			}
		}
	}
}
