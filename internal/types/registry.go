// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package types maps wire type names to Go types for the serializers that
// cannot describe a message on their own.
package types

import (
	"reflect"
	"slices"
	"strings"
	"sync"
)

// Registry maps type names to Go types. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	types map[string]reflect.Type
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]reflect.Type)}
}

// Register adds the types of values. A pointer registers the type it points
// to; a reflect.Type registers itself.
func (r *Registry) Register(values ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, value := range values {
		if typ := elemType(value); typ != nil {
			r.types[nameOf(typ)] = typ
		}
	}
}

// Deregister removes the type of value
func (r *Registry) Deregister(value any) {
	r.mu.Lock()
	delete(r.types, Name(value))
	r.mu.Unlock()
}

// Exists reports whether the type of value is registered
func (r *Registry) Exists(value any) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.types[Name(value)]
	return ok
}

// TypeOf returns the type registered under name
func (r *Registry) TypeOf(name string) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	typ, ok := r.types[normalize(name)]
	return typ, ok
}

// Names returns the registered names, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	r.mu.RUnlock()
	slices.Sort(names)
	return names
}

// Name returns the wire name of the type of value, the lowercased Go type
// without pointer indirection, or "" for nil
func Name(value any) string {
	typ := elemType(value)
	if typ == nil {
		return ""
	}
	return nameOf(typ)
}

func elemType(value any) reflect.Type {
	var typ reflect.Type
	switch v := value.(type) {
	case nil:
		return nil
	case reflect.Type:
		typ = v
	default:
		typ = reflect.TypeOf(value)
	}
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	return typ
}

func nameOf(typ reflect.Type) string {
	return normalize(typ.String())
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
