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
package parse

import (
	"testing"

	"github.com/coldforge/typelang/pkg/tl/ast"
	"github.com/coldforge/typelang/pkg/util/assert"
)

func TestParsePrimitivesOnlyType(t *testing.T) {
	module, err := ParseString("t.tl", `
type Point {
	x: i32,
	y: i32,
}
`)
	assert.Equal(t, error(nil), err)
	assert.Equal(t, 1, len(module.Definitions))
	assert.Equal(t, "Point", string(module.Definitions[0].Name))
	assert.Equal(t, 2, len(module.Definitions[0].Statements))

	field, ok := module.Definitions[0].Statements[0].(ast.FieldStatement)
	assert.True(t, ok)
	assert.Equal(t, "x", string(field.Field.Name))
}

func TestParseExplicitPaddingViaAddress(t *testing.T) {
	module, err := ParseString("t.tl", `
type Padded {
	a: u8,
	address(8) b: u32,
}
`)
	assert.Equal(t, error(nil), err)

	addr, ok := module.Definitions[0].Statements[1].(ast.AddressStatement)
	assert.True(t, ok)
	assert.Equal(t, int64(8), addr.Offset)
	assert.Equal(t, 1, len(addr.Fields))
	assert.Equal(t, "b", string(addr.Fields[0].Name))
}

func TestParsePaddingMacro(t *testing.T) {
	module, err := ParseString("t.tl", `
type Padded {
	a: u8,
	padding!(3),
	b: u32,
}
`)
	assert.Equal(t, error(nil), err)
	assert.Equal(t, 3, len(module.Definitions[0].Statements))

	macro, ok := module.Definitions[0].Statements[1].(ast.MacroStatement)
	assert.True(t, ok)
	assert.Equal(t, "padding", string(macro.Call.Name))
	assert.Equal(t, 1, len(macro.Call.Args))
}

func TestParsePointerToSelf(t *testing.T) {
	module, err := ParseString("t.tl", `
type Node {
	value: i32,
	next: * mut Node,
}
`)
	assert.Equal(t, error(nil), err)

	field, ok := module.Definitions[0].Statements[1].(ast.FieldStatement)
	assert.True(t, ok)

	ref, ok := field.Field.TypeRef.(ast.PlainTypeRef)
	assert.True(t, ok)

	ptr, ok := ref.Type.(ast.MutPointerType)
	assert.True(t, ok)
	assert.Equal(t, ast.IdentType("Node"), ptr.Elem)
}

func TestParseVftableFunctions(t *testing.T) {
	module, err := ParseString("t.tl", `
type Shape {
	functions {
		vftable {
			fn area(&self) -> f64,
			fn scale(&mut self, factor: f64),
		}
	}
}
`)
	assert.Equal(t, error(nil), err)

	fns, ok := module.Definitions[0].Statements[0].(ast.FunctionsStatement)
	assert.True(t, ok)
	assert.Equal(t, 1, len(fns.Blocks))
	assert.Equal(t, "vftable", string(fns.Blocks[0].Category))
	assert.Equal(t, 2, len(fns.Blocks[0].Functions))

	area := fns.Blocks[0].Functions[0]
	assert.Equal(t, "area", string(area.Name))
	_, ok = area.Arguments[0].(ast.ConstSelfArg)
	assert.True(t, ok)
	assert.Equal(t, ast.IdentType("f64"), area.ReturnType)

	scale := fns.Blocks[0].Functions[1]
	_, ok = scale.Arguments[0].(ast.MutSelfArg)
	assert.True(t, ok)
}

func TestParseFunctionAddressAttribute(t *testing.T) {
	module, err := ParseString("t.tl", `
type Shape {
	functions {
		vftable {
			#[address(16)]
			fn area(&self) -> f64,
		}
	}
}
`)
	assert.Equal(t, error(nil), err)

	fn := module.Definitions[0].Statements[0].(ast.FunctionsStatement).Blocks[0].Functions[0]
	assert.Equal(t, 1, len(fn.Attributes))
	assert.Equal(t, "address", string(fn.Attributes[0].Name))
	assert.Equal(t, ast.IntLiteral(16), fn.Attributes[0].Args[0])
}

func TestParseCrossModuleUse(t *testing.T) {
	module, err := ParseString("t.tl", `
use geometry::Point;

type Shape {
	origin: Point,
}
`)
	assert.Equal(t, error(nil), err)
	assert.Equal(t, 1, len(module.Uses))
	assert.Equal(t, "geometry::Point", module.Uses[0].String())
}

func TestParseExternTypeAndValue(t *testing.T) {
	module, err := ParseString("t.tl", `
extern type Handle {
	size: 8,
}

extern global_handle: Handle @ 4096;
`)
	assert.Equal(t, error(nil), err)
	assert.Equal(t, 1, len(module.ExternTypes))
	assert.Equal(t, "Handle", string(module.ExternTypes[0].Name))

	assert.Equal(t, 1, len(module.ExternValues))
	assert.Equal(t, "global_handle", string(module.ExternValues[0].Name))
	assert.Equal(t, int64(4096), module.ExternValues[0].Address)
}

func TestParseForwardDeclaration(t *testing.T) {
	module, err := ParseString("t.tl", `type Opaque;`)
	assert.Equal(t, error(nil), err)
	assert.Equal(t, 0, len(module.Definitions[0].Statements))
}

func TestParseMetaBlock(t *testing.T) {
	module, err := ParseString("t.tl", `
type Sized {
	a: u8,
	meta {
		size: 16,
		singleton: 1,
	}
}
`)
	assert.Equal(t, error(nil), err)

	meta, ok := module.Definitions[0].Statements[1].(ast.MetaStatement)
	assert.True(t, ok)
	assert.Equal(t, 2, len(meta.Fields))
}

func TestParseUnexpectedTokenFails(t *testing.T) {
	_, err := ParseString("t.tl", `type Broken { , }`)
	assert.True(t, err != nil)

	_, ok := err.(*ParseError)
	assert.True(t, ok)
}

func TestParseSuperPathRejected(t *testing.T) {
	_, err := ParseString("t.tl", `use super::Thing;`)
	assert.True(t, err != nil)
}

func TestParseNonLiteralExternAddressFails(t *testing.T) {
	_, err := ParseString("t.tl", `extern thing: u32 @ some_const;`)
	assert.True(t, err != nil)
}

func TestParseGenericBracketIdent(t *testing.T) {
	module, err := ParseString("t.tl", `
type Holder {
	items: Vec<Item>,
}
`)
	assert.Equal(t, error(nil), err)

	field := module.Definitions[0].Statements[0].(ast.FieldStatement).Field
	ref := field.TypeRef.(ast.PlainTypeRef)
	assert.Equal(t, ast.IdentType("Vec<Item>"), ref.Type)
}
