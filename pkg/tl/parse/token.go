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

// Package parse implements the lexer and recursive-descent parser that turn
// source text into an ast.Module.
package parse

// Token kinds produced by the lexer.  Kinds are deliberately coarse:
// keywords are recognized by the parser comparing an Ident token's text, not
// by the lexer emitting distinct keyword kinds, since the grammar's keyword
// set is small and this keeps the lexer a single flat table.
const (
	tokWhitespace uint = iota
	tokIdent
	tokInt
	tokString
	tokColonColon
	tokColon
	tokSemicolon
	tokComma
	tokLBrace
	tokRBrace
	tokLParen
	tokRParen
	tokLAngle
	tokRAngle
	tokStar
	tokBang
	tokAt
	tokArrow
	tokAmp
	tokHash
	tokLBracket
	tokRBracket
	tokEOF
)
