// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package semantic

import (
	"github.com/coldforge/typelang/pkg/tl/path"
	"github.com/coldforge/typelang/pkg/util"
)

// TypeRegistry maps item paths to type definitions and carries the
// configured pointer size used to size synthesized vtable pointers (and any
// other pointer region).
type TypeRegistry struct {
	pointerSize int64
	types       map[path.ItemPath]*TypeDefinition
}

// NewTypeRegistry constructs an empty registry with the given pointer size.
func NewTypeRegistry(pointerSize int64) *TypeRegistry {
	return &TypeRegistry{
		pointerSize: pointerSize,
		types:       make(map[path.ItemPath]*TypeDefinition),
	}
}

// PointerSize returns the configured byte width of a pointer region.
func (r *TypeRegistry) PointerSize() int64 {
	return r.pointerSize
}

// Get returns the entry at a given path, if any.
func (r *TypeRegistry) Get(p path.ItemPath) (*TypeDefinition, bool) {
	def, ok := r.types[p]
	return def, ok
}

// Add inserts (or overwrites) a type definition at its own path.
func (r *TypeRegistry) Add(def *TypeDefinition) {
	r.types[def.Path] = def
}

// SetResolved transitions the entry at a given path to Resolved.  It is a
// programming error to call this on a path not already present in the
// registry, or on one already Resolved (invariant 2 of the data model).
func (r *TypeRegistry) SetResolved(p path.ItemPath, resolved TypeStateResolved) {
	def := r.types[p]
	def.State = TypeState{Resolved: &resolved}
}

// SizeOf returns the resolved size of the type at a given path, if it
// exists and is resolved.
func (r *TypeRegistry) SizeOf(p path.ItemPath) (int64, bool) {
	def, ok := r.types[p]
	if !ok || def.State.Resolved == nil {
		return 0, false
	}

	return def.State.Resolved.Size, true
}

// Resolved returns every path currently in state Resolved, in sorted order.
func (r *TypeRegistry) Resolved() []path.ItemPath {
	set := util.NewAnySortedSet[path.ItemPath]()

	for p, def := range r.types {
		if def.State.IsResolved() {
			set.Insert(p)
		}
	}

	return set.ToArray()
}

// samePathSet reports whether two sorted path slices contain the same
// elements, used by the fixpoint loop to detect a pass that made no
// progress.
func samePathSet(a, b []path.ItemPath) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
