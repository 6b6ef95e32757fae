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

// Package semantic builds and resolves the semantic type graph: the type
// registry, the per-module extern-value slots, and the fixpoint resolver
// that turns unresolved grammar references into a ResolvedSemanticState.
package semantic

import (
	"github.com/coldforge/typelang/pkg/tl/ast"
	"github.com/coldforge/typelang/pkg/tl/path"
)

// Type is a resolved (or not-yet-resolved) semantic type: Raw, ConstPointer,
// MutPointer, Function or Unresolved.
type Type interface {
	typeNode()
}

// RawType names a concrete registry entry by its item path.
type RawType struct {
	Path path.ItemPath
}

func (RawType) typeNode() {}

// ConstPointerType is `* const T`.
type ConstPointerType struct {
	Elem Type
}

func (ConstPointerType) typeNode() {}

// MutPointerType is `* mut T`.
type MutPointerType struct {
	Elem Type
}

func (MutPointerType) typeNode() {}

// FunctionArg is one named, typed argument of a synthesized vtable function
// signature (`this` for a self-argument, or the field's own name).
type FunctionArg struct {
	Name string
	Type Type
}

// FunctionType describes a function pointer's signature.  It is used
// exclusively for vtable-synthesized fields; its region size is always 0,
// since it describes a pointer's pointee rather than an inline value.
type FunctionType struct {
	Args   []FunctionArg
	Return Type // nil if there is no return type
}

func (FunctionType) typeNode() {}

// UnresolvedType wraps a grammar TypeRef that has not yet been resolved
// against the registry.  It appears only on extern-value slots prior to
// finalization; resolved regions never hold one.
type UnresolvedType struct {
	Ref ast.TypeRef
}

func (UnresolvedType) typeNode() {}

// TypeCategory classifies how a registry entry came to exist.
type TypeCategory int

const (
	// Predefined marks one of the built-in primitive types seeded at
	// registry construction.
	Predefined TypeCategory = iota
	// Defined marks a type declared with `type Name { ... }` (including
	// synthesized vtable sibling types).
	Defined
	// Extern marks an opaque `extern type Name { ... }` declaration.
	Extern
)

// MetadataValue is a value stored under a type's metadata map (currently
// only `meta.singleton` produces one).
type MetadataValue interface {
	metadataNode()
}

// IntegerMetadata wraps an integer metadata value.
type IntegerMetadata int64

func (IntegerMetadata) metadataNode() {}

// Region is one contiguous slice of a resolved type's layout: a named field
// or anonymous padding.
type Region interface {
	regionNode()
	// Size returns the number of bytes this region occupies.  Padding always
	// reports its stored size; a field reports the size of its underlying
	// type, which for a pointer is the registry's configured pointer size,
	// for a raw reference is the referenced type's resolved size, and for a
	// function signature is always 0 (it describes a pointer's pointee, not
	// an inline value — the pointer itself is a separate field).
	Size(*TypeRegistry) int64
}

// FieldRegion is a named, typed region.
type FieldRegion struct {
	Name string
	Type Type
}

func (FieldRegion) regionNode() {}

// Size implements Region.
func (r FieldRegion) Size(registry *TypeRegistry) int64 {
	return typeSize(registry, r.Type)
}

// PaddingRegion is an anonymous region of a fixed byte size.
type PaddingRegion struct {
	Bytes int64
}

func (PaddingRegion) regionNode() {}

// Size implements Region.
func (r PaddingRegion) Size(*TypeRegistry) int64 {
	return r.Bytes
}

func typeSize(registry *TypeRegistry, t Type) int64 {
	switch v := t.(type) {
	case RawType:
		size, _ := registry.SizeOf(v.Path)
		return size
	case ConstPointerType:
		return registry.PointerSize()
	case MutPointerType:
		return registry.PointerSize()
	case FunctionType:
		return 0
	default:
		return 0
	}
}

// Attribute is a recognized function attribute.  Only `address(<int>)` is
// recognized.
type Attribute interface {
	attributeNode()
}

// AddressAttribute records a function's call-site address.
type AddressAttribute struct {
	Address int64
}

func (AddressAttribute) attributeNode() {}

// Argument is one resolved function argument: ConstSelf, MutSelf, or a
// named, typed Field.
type Argument interface {
	argumentNode()
}

// ConstSelfArgument is `&self`.
type ConstSelfArgument struct{}

func (ConstSelfArgument) argumentNode() {}

// MutSelfArgument is `&mut self`.
type MutSelfArgument struct{}

func (MutSelfArgument) argumentNode() {}

// FieldArgument is a named, typed argument.
type FieldArgument struct {
	Name string
	Type Type
}

func (FieldArgument) argumentNode() {}

// Function is a resolved function declaration: name, recognized attributes,
// resolved arguments and an optional resolved return type.
type Function struct {
	Name       string
	Attributes []Attribute
	Arguments  []Argument
	ReturnType Type // nil if absent
}

// TypeStateResolved is the fully resolved body of a type: its total size,
// ordered regions, function categories, and metadata.
type TypeStateResolved struct {
	Size      int64
	Regions   []Region
	Functions map[string][]Function
	Metadata  map[string]MetadataValue
}

// TypeState is either Unresolved (holding the original grammar node) or
// Resolved (holding the computed layout).  Exactly one of the two fields is
// non-nil.
type TypeState struct {
	Definition *ast.TypeDefinition
	Resolved   *TypeStateResolved
}

// IsResolved reports whether this state has transitioned to Resolved.
func (s TypeState) IsResolved() bool {
	return s.Resolved != nil
}

// TypeDefinition is a single registry entry: its path, how it came to
// exist, and its current resolution state.
type TypeDefinition struct {
	Path     path.ItemPath
	Category TypeCategory
	State    TypeState
}
