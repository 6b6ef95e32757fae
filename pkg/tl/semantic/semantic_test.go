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
	"testing"

	"github.com/coldforge/typelang/pkg/tl/parse"
	"github.com/coldforge/typelang/pkg/tl/path"
	"github.com/coldforge/typelang/pkg/util/assert"
)

const pointerSize = int64(8)

func mustAddModule(t *testing.T, s *SemanticState, p path.ItemPath, src string) {
	t.Helper()

	module, err := parse.ParseString("t.tl", src)
	assert.Equal(t, error(nil), err)

	err = s.AddModule(module, p)
	assert.Equal(t, error(nil), err)
}

func TestBuildPrimitivesOnly(t *testing.T) {
	s := New(pointerSize)
	mustAddModule(t, s, path.Empty(), `
type Point {
	x: i32,
	y: i32,
}
`)

	resolved, err := s.Build()
	assert.Equal(t, error(nil), err)

	size, ok := resolved.TypeRegistry().SizeOf(path.FromColonDelimited("Point"))
	assert.True(t, ok)
	assert.Equal(t, int64(8), size)
}

func TestBuildExplicitPaddingViaAddress(t *testing.T) {
	s := New(pointerSize)
	mustAddModule(t, s, path.Empty(), `
type Padded {
	a: u8,
	address(8) b: u32,
}
`)

	resolved, err := s.Build()
	assert.Equal(t, error(nil), err)

	size, ok := resolved.TypeRegistry().SizeOf(path.FromColonDelimited("Padded"))
	assert.True(t, ok)
	assert.Equal(t, int64(12), size)

	def, _ := resolved.TypeRegistry().Get(path.FromColonDelimited("Padded"))
	regions := def.State.Resolved.Regions
	assert.Equal(t, 3, len(regions))

	pad, ok := regions[1].(PaddingRegion)
	assert.True(t, ok)
	assert.Equal(t, int64(7), pad.Bytes)
}

func TestBuildAddressZeroProducesNoLeadingPadding(t *testing.T) {
	s := New(pointerSize)
	mustAddModule(t, s, path.Empty(), `
type AtOrigin {
	address(0) x: u32,
}
`)

	resolved, err := s.Build()
	assert.Equal(t, error(nil), err)

	def, _ := resolved.TypeRegistry().Get(path.FromColonDelimited("AtOrigin"))
	assert.Equal(t, 1, len(def.State.Resolved.Regions))

	field, ok := def.State.Resolved.Regions[0].(FieldRegion)
	assert.True(t, ok)
	assert.Equal(t, "x", field.Name)
}

func TestBuildZeroSizePaddingMacroDropped(t *testing.T) {
	s := New(pointerSize)
	mustAddModule(t, s, path.Empty(), `
type NoGap {
	a: u32,
	padding!(0),
	b: u32,
}
`)

	resolved, err := s.Build()
	assert.Equal(t, error(nil), err)

	def, _ := resolved.TypeRegistry().Get(path.FromColonDelimited("NoGap"))
	assert.Equal(t, 2, len(def.State.Resolved.Regions))
	assert.Equal(t, int64(8), def.State.Resolved.Size)
}

func TestBuildPointerToSelf(t *testing.T) {
	s := New(pointerSize)
	mustAddModule(t, s, path.Empty(), `
type Node {
	value: i32,
	next: * mut Node,
}
`)

	resolved, err := s.Build()
	assert.Equal(t, error(nil), err)

	size, ok := resolved.TypeRegistry().SizeOf(path.FromColonDelimited("Node"))
	assert.True(t, ok)
	assert.Equal(t, int64(4+pointerSize), size)
}

func TestBuildForwardDeclarationResolvesOpaque(t *testing.T) {
	s := New(pointerSize)
	mustAddModule(t, s, path.Empty(), `
type Opaque;

type Holder {
	ptr: * mut Opaque,
}
`)

	resolved, err := s.Build()
	assert.Equal(t, error(nil), err)

	opaqueSize, ok := resolved.TypeRegistry().SizeOf(path.FromColonDelimited("Opaque"))
	assert.True(t, ok)
	assert.Equal(t, int64(0), opaqueSize)

	holderSize, ok := resolved.TypeRegistry().SizeOf(path.FromColonDelimited("Holder"))
	assert.True(t, ok)
	assert.Equal(t, pointerSize, holderSize)
}

func TestBuildVftableSynthesis(t *testing.T) {
	s := New(pointerSize)
	mustAddModule(t, s, path.Empty(), `
type Shape {
	area_cache: f64,
	functions {
		vftable {
			fn area(&self) -> f64,
			fn scale(&mut self, factor: f64),
		}
	}
}
`)

	resolved, err := s.Build()
	assert.Equal(t, error(nil), err)

	shapeDef, ok := resolved.TypeRegistry().Get(path.FromColonDelimited("Shape"))
	assert.True(t, ok)

	regions := shapeDef.State.Resolved.Regions
	assert.Equal(t, 2, len(regions))

	vptr, ok := regions[0].(FieldRegion)
	assert.True(t, ok)
	assert.Equal(t, "vftable", vptr.Name)

	_, ok = vptr.Type.(ConstPointerType)
	assert.True(t, ok)

	shapeSize, ok := resolved.TypeRegistry().SizeOf(path.FromColonDelimited("Shape"))
	assert.True(t, ok)
	assert.Equal(t, pointerSize+8, shapeSize)

	vtableDef, ok := resolved.TypeRegistry().Get(path.FromColonDelimited("ShapeVftable"))
	assert.True(t, ok)
	assert.Equal(t, 2, len(vtableDef.State.Resolved.Regions))

	areaRegion := vtableDef.State.Resolved.Regions[0].(FieldRegion)
	assert.Equal(t, "area", areaRegion.Name)

	areaType := areaRegion.Type.(FunctionType)
	assert.Equal(t, 1, len(areaType.Args))
	assert.Equal(t, "this", areaType.Args[0].Name)

	_, ok = areaType.Args[0].Type.(ConstPointerType)
	assert.True(t, ok)
}

func TestBuildDuplicateVftableNameError(t *testing.T) {
	s := New(pointerSize)
	mustAddModule(t, s, path.Empty(), `
type Foo {
	functions {
		vftable {
			fn bar(&self),
		}
	}
}

type FooVftable {
	unrelated: u8,
}
`)

	_, err := s.Build()
	assert.True(t, err != nil)

	_, ok := err.(*DuplicateVftableNameError)
	assert.True(t, ok)
}

func TestBuildCrossModuleUse(t *testing.T) {
	s := New(pointerSize)
	mustAddModule(t, s, path.FromColonDelimited("geometry"), `
type Point {
	x: i32,
	y: i32,
}
`)
	mustAddModule(t, s, path.Empty(), `
use geometry::Point;

type Shape {
	origin: Point,
}
`)

	resolved, err := s.Build()
	assert.Equal(t, error(nil), err)

	size, ok := resolved.TypeRegistry().SizeOf(path.FromColonDelimited("Shape"))
	assert.True(t, ok)
	assert.Equal(t, int64(8), size)
}

func TestBuildNonTerminatingResolutionError(t *testing.T) {
	s := New(pointerSize)
	mustAddModule(t, s, path.Empty(), `
type Holder {
	missing: MissingType,
}
`)

	_, err := s.Build()
	assert.True(t, err != nil)

	nonTerm, ok := err.(*NonTerminatingResolutionError)
	assert.True(t, ok)
	assert.Equal(t, 1, len(nonTerm.Stuck))
}

func TestBuildInvalidLayoutErrorOnBackwardsAddress(t *testing.T) {
	s := New(pointerSize)
	mustAddModule(t, s, path.Empty(), `
type Bad {
	address(4) x: u32,
	address(2) y: u32,
}
`)

	_, err := s.Build()
	assert.True(t, err != nil)

	_, ok := err.(*InvalidLayoutError)
	assert.True(t, ok)
}

func TestBuildMissingSizeErrorOnExternType(t *testing.T) {
	module, err := parse.ParseString("t.tl", `
extern type Handle {
	label: 1,
}
`)
	assert.Equal(t, error(nil), err)

	s := New(pointerSize)
	err = s.AddModule(module, path.Empty())
	assert.True(t, err != nil)

	_, ok := err.(*MissingSizeError)
	assert.True(t, ok)
}

func TestBuildExternValueResolvesAfterFixpoint(t *testing.T) {
	s := New(pointerSize)
	mustAddModule(t, s, path.Empty(), `
extern global_flag: bool @ 4096;
`)

	resolved, err := s.Build()
	assert.Equal(t, error(nil), err)

	module := resolved.Modules()[path.Empty()]
	assert.Equal(t, 1, len(module.ExternValues))
	assert.Equal(t, "global_flag", module.ExternValues[0].Name)

	raw, ok := module.ExternValues[0].Type.(RawType)
	assert.True(t, ok)
	assert.Equal(t, "bool", raw.Path.String())
}

func TestBuildDuplicateFieldNameError(t *testing.T) {
	s := New(pointerSize)
	mustAddModule(t, s, path.Empty(), `
type Bad {
	a: u32,
	a: u8,
}
`)

	_, err := s.Build()
	assert.True(t, err != nil)

	_, ok := err.(*DuplicateFieldNameError)
	assert.True(t, ok)
}

func TestBuildDuplicateFunctionNameError(t *testing.T) {
	s := New(pointerSize)
	mustAddModule(t, s, path.Empty(), `
type Bad {
	functions {
		vftable {
			fn bar(&self),
			fn bar(&self, x: u32),
		}
	}
}
`)

	_, err := s.Build()
	assert.True(t, err != nil)

	_, ok := err.(*DuplicateFunctionNameError)
	assert.True(t, ok)
}
