// File: pool/static_vector.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import "github.com/momentics/hioload-rt/api"

// StaticVector is a fixed-capacity sequence that never allocates after
// construction. Inserting into a full vector fails with ErrCapacityExceeded.
type StaticVector[T any] struct {
	items []T
	n     int
}

// NewStaticVector reserves capacity elements.
func NewStaticVector[T any](capacity int) (*StaticVector[T], error) {
	if capacity < 0 {
		return nil, api.ErrInvalidArgument.With("capacity", capacity)
	}
	return &StaticVector[T]{items: make([]T, capacity)}, nil
}

// Add appends x.
func (v *StaticVector[T]) Add(x T) error {
	if v.n == len(v.items) {
		return api.ErrCapacityExceeded.With("capacity", len(v.items))
	}
	v.items[v.n] = x
	v.n++
	return nil
}

// Insert places x at position i, shifting later elements up.
func (v *StaticVector[T]) Insert(i int, x T) error {
	if i < 0 || i > v.n {
		return api.ErrInvalidArgument.With("index", i).With("len", v.n)
	}
	if v.n == len(v.items) {
		return api.ErrCapacityExceeded.With("capacity", len(v.items))
	}
	copy(v.items[i+1:v.n+1], v.items[i:v.n])
	v.items[i] = x
	v.n++
	return nil
}

// RemoveAt deletes the element at i, shifting later elements down.
func (v *StaticVector[T]) RemoveAt(i int) error {
	if i < 0 || i >= v.n {
		return api.ErrInvalidArgument.With("index", i).With("len", v.n)
	}
	copy(v.items[i:v.n-1], v.items[i+1:v.n])
	var zero T
	v.n--
	v.items[v.n] = zero
	return nil
}

// Get returns the element at i.
func (v *StaticVector[T]) Get(i int) (T, error) {
	if i < 0 || i >= v.n {
		var zero T
		return zero, api.ErrInvalidArgument.With("index", i).With("len", v.n)
	}
	return v.items[i], nil
}

// Set overwrites the element at i.
func (v *StaticVector[T]) Set(i int, x T) error {
	if i < 0 || i >= v.n {
		return api.ErrInvalidArgument.With("index", i).With("len", v.n)
	}
	v.items[i] = x
	return nil
}

// Fill sets every live element to x.
func (v *StaticVector[T]) Fill(x T) {
	for i := 0; i < v.n; i++ {
		v.items[i] = x
	}
}

// Clear drops all elements, keeping capacity.
func (v *StaticVector[T]) Clear() {
	clear(v.items[:v.n])
	v.n = 0
}

// Len returns the element count.
func (v *StaticVector[T]) Len() int { return v.n }

// Cap returns the fixed capacity.
func (v *StaticVector[T]) Cap() int { return len(v.items) }

// Full reports whether Len equals Cap.
func (v *StaticVector[T]) Full() bool { return v.n == len(v.items) }

// Items returns the live elements. The slice aliases internal storage.
func (v *StaticVector[T]) Items() []T { return v.items[:v.n:v.n] }

// IndexFunc returns the first index whose element satisfies match, or -1.
func (v *StaticVector[T]) IndexFunc(match func(T) bool) int {
	for i := 0; i < v.n; i++ {
		if match(v.items[i]) {
			return i
		}
	}
	return -1
}
