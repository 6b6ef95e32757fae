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

// Package ast defines the grammar tree produced by parsing a single source
// file: the Module and everything it is built from.  Nodes are immutable
// once parsed; the semantic state builder consumes them but never mutates
// them.
package ast

import "github.com/coldforge/typelang/pkg/tl/path"

// Ident is a non-empty identifier, with the pragmatic extension that it may
// contain embedded `<...>` generic brackets kept syntactically opaque (e.g.
// "Vec<Foo>" is treated as a single name).
type Ident string

// MacroCall is a named macro invocation with an ordered argument list, e.g.
// `padding!(4)`.
type MacroCall struct {
	Name Ident
	Args []Expr
}

// Expr is one of IntLiteral, StringLiteral, IdentExpr or Macro.
type Expr interface {
	exprNode()
}

// IntLiteral is an integer literal expression.
type IntLiteral int64

func (IntLiteral) exprNode() {}

// StringLiteral is a string literal expression.
type StringLiteral string

func (StringLiteral) exprNode() {}

// IdentExpr is a bare identifier used as an expression.
type IdentExpr Ident

func (IdentExpr) exprNode() {}

// MacroExpr is a macro call used as an expression.
type MacroExpr struct {
	Call MacroCall
}

func (MacroExpr) exprNode() {}

// IntLiteralValue extracts the integer value of an Expr if, and only if, it
// is an IntLiteral.  This mirrors the analyzer's restriction that certain
// positions (extern-value addresses, `address(n)`, `padding!(n)`) accept
// only integer literals, not arbitrary expressions.
func IntLiteralValue(e Expr) (int64, bool) {
	if lit, ok := e.(IntLiteral); ok {
		return int64(lit), true
	}

	return 0, false
}

// Type is one of Ident, ConstPointer or MutPointer.
type Type interface {
	typeNode()
}

// IdentType is a bare type name.
type IdentType Ident

func (IdentType) typeNode() {}

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

// TypeRef is either a plain Type or a macro call appearing where a type was
// expected (disambiguated from an identifier type by fork-commit parsing).
type TypeRef interface {
	typeRefNode()
}

// PlainTypeRef wraps an ordinary Type.
type PlainTypeRef struct {
	Type Type
}

func (PlainTypeRef) typeRefNode() {}

// MacroTypeRef wraps a macro call appearing in type position (e.g.
// `padding!(4)`).
type MacroTypeRef struct {
	Call MacroCall
}

func (MacroTypeRef) typeRefNode() {}

// ExprField is a `name: expr` pair, used in `meta { ... }` and `extern type
// { ... }` bodies.
type ExprField struct {
	Name  Ident
	Value Expr
}

// TypeField is a `name: typeref` pair, used for struct fields and function
// field-arguments.
type TypeField struct {
	Name    Ident
	TypeRef TypeRef
}

// Argument is one of ConstSelf, MutSelf or Field.
type Argument interface {
	argumentNode()
}

// ConstSelfArg is `&self`.
type ConstSelfArg struct{}

func (ConstSelfArg) argumentNode() {}

// MutSelfArg is `&mut self`.
type MutSelfArg struct{}

func (MutSelfArg) argumentNode() {}

// FieldArg is a named, typed function argument.
type FieldArg struct {
	Field TypeField
}

func (FieldArg) argumentNode() {}

// Attribute is a `#[name(args...)]` annotation on a function.  Only
// `address(<int>)` is a recognized name; anything else is a hard error once
// the resolver inspects it.
type Attribute struct {
	Name Ident
	Args []Expr
}

// Function is a function declaration inside a `functions { category { ... }
// }` block.
type Function struct {
	Name       Ident
	Attributes []Attribute
	Arguments  []Argument
	ReturnType Type // nil if absent
}

// FunctionBlock is one `category { fn ..., ... }` entry inside a `functions`
// statement.
type FunctionBlock struct {
	Category  Ident
	Functions []Function
}

// TypeStatement is one of Meta, Address, Field, Functions or Macro.
type TypeStatement interface {
	typeStatementNode()
}

// MetaStatement is a `meta { ... }` block.
type MetaStatement struct {
	Fields []ExprField
}

func (MetaStatement) typeStatementNode() {}

// AddressStatement is an `address(off) { fields }` or `address(off) field`
// block.
type AddressStatement struct {
	Offset int64
	Fields []TypeField
}

func (AddressStatement) typeStatementNode() {}

// FieldStatement is a single `name: typeref` field at the next sequential
// address.
type FieldStatement struct {
	Field TypeField
}

func (FieldStatement) typeStatementNode() {}

// FunctionsStatement is a `functions { category { ... }, ... }` block.
type FunctionsStatement struct {
	Blocks []FunctionBlock
}

func (FunctionsStatement) typeStatementNode() {}

// MacroStatement is a macro call used as a type-body statement (only
// `padding!(n)` is recognized by the resolver).
type MacroStatement struct {
	Call MacroCall
}

func (MacroStatement) typeStatementNode() {}

// TypeDefinition is a `type Name { ... }` declaration, or `type Name;` for a
// forward declaration (an empty Statements list).
type TypeDefinition struct {
	Name       Ident
	Statements []TypeStatement
}

// ExternType is an `extern type Name { ... }` declaration.  The field list
// must contain an integer `size` field; other fields are kept in Fields
// as parsed, and the semantic analyzer reads only `size`.
type ExternType struct {
	Name   Ident
	Fields []ExprField
}

// ExternValue is an `extern name: Type @ address;` declaration.  The address
// must be an integer literal; this is enforced by the parser, not deferred
// to the analyzer.
type ExternValue struct {
	Name    Ident
	Type    Type
	Address int64
}

// Module is the parse output for a single source file: its use-imports,
// extern declarations and type definitions.
type Module struct {
	Uses         []path.ItemPath
	ExternTypes  []ExternType
	ExternValues []ExternValue
	Definitions  []TypeDefinition
}
