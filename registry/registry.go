// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package registry implements named, late-bound extension
// points.
//
// A Registry maps string keys to implementations of one
// capability domain (parsers, shaders, colormakers...).
// Feature packages add themselves during start up and the
// rest of the program looks them up by name afterward.
package registry

import (
	"errors"
	"log/slog"
	"slices"
	"sync"
)

const prefix = "registry: "

// ErrDuplicate is returned by Registry.Add in strict mode
// when the key is already registered.
var ErrDuplicate = errors.New(prefix + "duplicate key")

// Registry is a mapping from string keys to values of T.
// Keys are case sensitive. Entries are never removed.
type Registry[T any] struct {
	name   string
	strict bool
	log    *slog.Logger
	mu     sync.RWMutex
	items  map[string]T
}

// Option configures a Registry.
type Option func(*options)

type options struct {
	strict bool
	log    *slog.Logger
}

// Strict makes Add reject keys that are already present.
func Strict(strict bool) Option { return func(o *options) { o.strict = strict } }

// Logger sets the logger used to report registrations.
// The default is slog.Default().
func Logger(l *slog.Logger) Option { return func(o *options) { o.log = l } }

// New creates an empty registry.
// name identifies the domain in log output only; it does
// not namespace the keys.
func New[T any](name string, opts ...Option) *Registry[T] {
	var o options
	for _, f := range opts {
		f(&o)
	}
	if o.log == nil {
		o.log = slog.Default()
	}
	return &Registry[T]{
		name:   name,
		strict: o.strict,
		log:    o.log,
		items:  make(map[string]T),
	}
}

// Name returns the domain name of r.
func (r *Registry[T]) Name() string { return r.name }

// Strict reports whether r rejects duplicate keys.
func (r *Registry[T]) Strict() bool { return r.strict }

// Add stores value under key.
// If key is already present, the previous value is
// replaced, unless r is strict, in which case the call
// fails with ErrDuplicate and r is left unchanged.
func (r *Registry[T]) Add(key string, value T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[key]; ok {
		if r.strict {
			r.log.Error("duplicate registration", "registry", r.name, "key", key)
			return ErrDuplicate
		}
		r.log.Debug("replacing registration", "registry", r.name, "key", key)
	} else {
		r.log.Debug("registering", "registry", r.name, "key", key)
	}
	r.items[key] = value
	return nil
}

// Get returns the value stored under key.
// ok is false if key is not present.
func (r *Registry[T]) Get(key string) (value T, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	value, ok = r.items[key]
	return
}

// Names returns the registered keys in ascending order.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.items))
	for k := range r.items {
		names = append(names, k)
	}
	r.mu.RUnlock()
	slices.Sort(names)
	return names
}

// Len returns the number of registered keys.
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
