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
	"strconv"
	"strings"

	"github.com/coldforge/typelang/pkg/tl/ast"
	"github.com/coldforge/typelang/pkg/tl/path"
	"github.com/coldforge/typelang/pkg/util/source"
)

// ParseError is returned for malformed syntax: unexpected tokens, the
// rejected `super` path keyword, and non-literal extern-value addresses.  A
// character the lexer cannot tokenize is reported as a LexError instead.  It
// carries the offending position but, per the non-goal of span-rich
// diagnostics, nothing richer than that.
type ParseError struct {
	*source.SyntaxError
}

func (e *ParseError) Error() string {
	return "parse error: " + e.SyntaxError.Error()
}

// ParseString parses a single source text into a Module.  The filename is
// used only for error reporting.
func ParseString(filename string, text string) (*ast.Module, error) {
	file := source.NewSourceFile(filename, []byte(text))

	tokens, err := tokenize(file.Contents())
	if err != nil {
		return nil, err
	}

	p := &parser{file: file, tokens: tokens}

	return p.parseModule()
}

type parser struct {
	file   *source.File
	tokens []source.Token
	pos    int
}

// ----------------------------------------------------------------------------
// Low-level token helpers
// ----------------------------------------------------------------------------

func (p *parser) peek() source.Token {
	return p.tokens[p.pos]
}

func (p *parser) text(tok source.Token) string {
	span := tok.Span
	return string(p.file.Contents()[span.Start():span.End()])
}

func (p *parser) peekText() string {
	return p.text(p.peek())
}

func (p *parser) peekIs(kind uint) bool {
	return p.peek().Kind == kind
}

func (p *parser) peekIdentIs(keyword string) bool {
	return p.peekIs(tokIdent) && p.peekText() == keyword
}

// peek2 looks one token past the current one, returning the EOF token if
// that runs off the end.
func (p *parser) peek2() source.Token {
	if p.pos+1 >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}

	return p.tokens[p.pos+1]
}

func (p *parser) advance() source.Token {
	tok := p.peek()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}

	return tok
}

func (p *parser) errorf(tok source.Token, msg string) error {
	return &ParseError{p.file.SyntaxError(tok.Span, msg)}
}

func (p *parser) unexpected(tok source.Token) error {
	return p.errorf(tok, "unexpected token '"+p.text(tok)+"'")
}

// mark/reset implement the fork-and-commit speculative parsing used to
// disambiguate macro calls from identifier uses: mark the current position,
// attempt a parse, and reset back to it if that parse fails.
func (p *parser) mark() int {
	return p.pos
}

func (p *parser) reset(mark int) {
	p.pos = mark
}

func (p *parser) expect(kind uint, what string) (source.Token, error) {
	if !p.peekIs(kind) {
		return source.Token{}, p.errorf(p.peek(), "expected "+what+", found '"+p.peekText()+"'")
	}

	return p.advance(), nil
}

func (p *parser) expectIdent(keyword string) error {
	if !p.peekIdentIs(keyword) {
		return p.errorf(p.peek(), "expected '"+keyword+"', found '"+p.peekText()+"'")
	}

	p.advance()

	return nil
}

// ----------------------------------------------------------------------------
// Shared productions
// ----------------------------------------------------------------------------

// parseTypeIdent parses an identifier with the pragmatic generic-bracket
// extension: `Vec < Foo >` is consumed and concatenated into the single
// opaque name "Vec<Foo>".
func (p *parser) parseTypeIdent() (string, error) {
	tok, err := p.expect(tokIdent, "identifier")
	if err != nil {
		return "", err
	}

	var b strings.Builder

	b.WriteString(p.text(tok))

	for {
		switch {
		case p.peekIs(tokLAngle):
			p.advance()
			b.WriteByte('<')
		case p.peekIs(tokIdent):
			b.WriteString(p.text(p.advance()))
		case p.peekIs(tokRAngle):
			p.advance()
			b.WriteByte('>')
		default:
			return b.String(), nil
		}
	}
}

// parseItemPath parses a sequence of identifiers (with generic extension)
// separated by `::`.  `super` is explicitly rejected, matching the source
// grammar's restriction to absolute-only paths.
func (p *parser) parseItemPath() (path.ItemPath, error) {
	var segments []string

	for {
		switch {
		case p.peekIdentIs("super"):
			return path.ItemPath{}, p.errorf(p.peek(), "super not supported")
		case p.peekIs(tokIdent):
			segment, err := p.parseTypeIdent()
			if err != nil {
				return path.ItemPath{}, err
			}

			segments = append(segments, segment)
		case p.peekIs(tokColonColon):
			p.advance()
		default:
			return path.FromSegments(segments), nil
		}
	}
}

func (p *parser) parseType() (ast.Type, error) {
	switch {
	case p.peekIs(tokIdent):
		name, err := p.parseTypeIdent()
		if err != nil {
			return nil, err
		}

		return ast.IdentType(name), nil
	case p.peekIs(tokStar):
		p.advance()

		switch {
		case p.peekIdentIs("const"):
			p.advance()

			elem, err := p.parseType()
			if err != nil {
				return nil, err
			}

			return ast.ConstPointerType{Elem: elem}, nil
		case p.peekIdentIs("mut"):
			p.advance()

			elem, err := p.parseType()
			if err != nil {
				return nil, err
			}

			return ast.MutPointerType{Elem: elem}, nil
		default:
			return nil, p.errorf(p.peek(), "expected 'const' or 'mut'")
		}
	default:
		return nil, p.unexpected(p.peek())
	}
}

func (p *parser) parseMacroCall() (ast.MacroCall, error) {
	nameTok, err := p.expect(tokIdent, "identifier")
	if err != nil {
		return ast.MacroCall{}, err
	}

	if _, err := p.expect(tokBang, "'!'"); err != nil {
		return ast.MacroCall{}, err
	}

	if _, err := p.expect(tokLParen, "'('"); err != nil {
		return ast.MacroCall{}, err
	}

	args, err := parseCommaList(p, tokRParen, (*parser).parseExpr)
	if err != nil {
		return ast.MacroCall{}, err
	}

	if _, err := p.expect(tokRParen, "')'"); err != nil {
		return ast.MacroCall{}, err
	}

	return ast.MacroCall{Name: ast.Ident(p.text(nameTok)), Args: args}, nil
}

func (p *parser) parseExpr() (ast.Expr, error) {
	switch {
	case p.peekIs(tokIdent) && p.peek2().Kind == tokBang:
		call, err := p.parseMacroCall()
		if err != nil {
			return nil, err
		}

		return ast.MacroExpr{Call: call}, nil
	case p.peekIs(tokIdent):
		tok := p.advance()
		return ast.IdentExpr(p.text(tok)), nil
	case p.peekIs(tokInt):
		tok := p.advance()

		value, err := strconv.ParseInt(p.text(tok), 10, 64)
		if err != nil {
			return nil, p.errorf(tok, "invalid integer literal")
		}

		return ast.IntLiteral(value), nil
	case p.peekIs(tokString):
		tok := p.advance()
		return ast.StringLiteral(unquote(p.text(tok))), nil
	default:
		return nil, p.unexpected(p.peek())
	}
}

func unquote(raw string) string {
	if len(raw) >= 2 && raw[0] == '"' {
		raw = raw[1 : len(raw)-1]
	}

	return strings.ReplaceAll(raw, `\"`, `"`)
}

func (p *parser) parseTypeRef() (ast.TypeRef, error) {
	mark := p.mark()

	if call, err := p.parseMacroCall(); err == nil {
		return ast.MacroTypeRef{Call: call}, nil
	}

	p.reset(mark)

	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}

	return ast.PlainTypeRef{Type: typ}, nil
}

func (p *parser) parseExprField() (ast.ExprField, error) {
	nameTok, err := p.expect(tokIdent, "identifier")
	if err != nil {
		return ast.ExprField{}, err
	}

	if _, err := p.expect(tokColon, "':'"); err != nil {
		return ast.ExprField{}, err
	}

	value, err := p.parseExpr()
	if err != nil {
		return ast.ExprField{}, err
	}

	return ast.ExprField{Name: ast.Ident(p.text(nameTok)), Value: value}, nil
}

func (p *parser) parseTypeField() (ast.TypeField, error) {
	nameTok, err := p.expect(tokIdent, "identifier")
	if err != nil {
		return ast.TypeField{}, err
	}

	if _, err := p.expect(tokColon, "':'"); err != nil {
		return ast.TypeField{}, err
	}

	ref, err := p.parseTypeRef()
	if err != nil {
		return ast.TypeField{}, err
	}

	return ast.TypeField{Name: ast.Ident(p.text(nameTok)), TypeRef: ref}, nil
}

func (p *parser) parseOptionallyBracedTypeFields() ([]ast.TypeField, error) {
	if p.peekIs(tokLBrace) {
		p.advance()

		fields, err := parseCommaList(p, tokRBrace, (*parser).parseTypeField)
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(tokRBrace, "'}'"); err != nil {
			return nil, err
		}

		return fields, nil
	}

	field, err := p.parseTypeField()
	if err != nil {
		return nil, err
	}

	return []ast.TypeField{field}, nil
}

// ----------------------------------------------------------------------------
// Functions
// ----------------------------------------------------------------------------

func (p *parser) parseAttribute() (ast.Attribute, error) {
	if _, err := p.expect(tokHash, "'#'"); err != nil {
		return ast.Attribute{}, err
	}

	if _, err := p.expect(tokLBracket, "'['"); err != nil {
		return ast.Attribute{}, err
	}

	nameTok, err := p.expect(tokIdent, "identifier")
	if err != nil {
		return ast.Attribute{}, err
	}

	if _, err := p.expect(tokLParen, "'('"); err != nil {
		return ast.Attribute{}, err
	}

	args, err := parseCommaList(p, tokRParen, (*parser).parseExpr)
	if err != nil {
		return ast.Attribute{}, err
	}

	if _, err := p.expect(tokRParen, "')'"); err != nil {
		return ast.Attribute{}, err
	}

	if _, err := p.expect(tokRBracket, "']'"); err != nil {
		return ast.Attribute{}, err
	}

	return ast.Attribute{Name: ast.Ident(p.text(nameTok)), Args: args}, nil
}

func (p *parser) parseArgument() (ast.Argument, error) {
	if p.peekIs(tokAmp) {
		p.advance()

		switch {
		case p.peekIdentIs("mut"):
			p.advance()

			if err := p.expectIdent("self"); err != nil {
				return nil, err
			}

			return ast.MutSelfArg{}, nil
		case p.peekIdentIs("self"):
			p.advance()
			return ast.ConstSelfArg{}, nil
		default:
			return nil, p.errorf(p.peek(), "expected 'mut' or 'self'")
		}
	}

	if p.peekIs(tokIdent) {
		field, err := p.parseTypeField()
		if err != nil {
			return nil, err
		}

		return ast.FieldArg{Field: field}, nil
	}

	return nil, p.unexpected(p.peek())
}

func (p *parser) parseFunction() (ast.Function, error) {
	var attributes []ast.Attribute

	for p.peekIs(tokHash) {
		attr, err := p.parseAttribute()
		if err != nil {
			return ast.Function{}, err
		}

		attributes = append(attributes, attr)
	}

	if err := p.expectIdent("fn"); err != nil {
		return ast.Function{}, err
	}

	nameTok, err := p.expect(tokIdent, "identifier")
	if err != nil {
		return ast.Function{}, err
	}

	if _, err := p.expect(tokLParen, "'('"); err != nil {
		return ast.Function{}, err
	}

	args, err := parseCommaList(p, tokRParen, (*parser).parseArgument)
	if err != nil {
		return ast.Function{}, err
	}

	if _, err := p.expect(tokRParen, "')'"); err != nil {
		return ast.Function{}, err
	}

	var returnType ast.Type

	if p.peekIs(tokArrow) {
		p.advance()

		returnType, err = p.parseType()
		if err != nil {
			return ast.Function{}, err
		}
	}

	return ast.Function{
		Name:       ast.Ident(p.text(nameTok)),
		Attributes: attributes,
		Arguments:  args,
		ReturnType: returnType,
	}, nil
}

// ----------------------------------------------------------------------------
// Type statements & definitions
// ----------------------------------------------------------------------------

func (p *parser) parseTypeStatement() (ast.TypeStatement, error) {
	switch {
	case p.peekIdentIs("meta"):
		p.advance()

		if _, err := p.expect(tokLBrace, "'{'"); err != nil {
			return nil, err
		}

		fields, err := parseCommaList(p, tokRBrace, (*parser).parseExprField)
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(tokRBrace, "'}'"); err != nil {
			return nil, err
		}

		return ast.MetaStatement{Fields: fields}, nil

	case p.peekIdentIs("address"):
		p.advance()

		if _, err := p.expect(tokLParen, "'('"); err != nil {
			return nil, err
		}

		offTok, err := p.expect(tokInt, "integer literal")
		if err != nil {
			return nil, err
		}

		offset, err := strconv.ParseInt(p.text(offTok), 10, 64)
		if err != nil {
			return nil, p.errorf(offTok, "invalid integer literal")
		}

		if _, err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}

		fields, err := p.parseOptionallyBracedTypeFields()
		if err != nil {
			return nil, err
		}

		return ast.AddressStatement{Offset: offset, Fields: fields}, nil

	case p.peekIdentIs("functions"):
		p.advance()

		if _, err := p.expect(tokLBrace, "'{'"); err != nil {
			return nil, err
		}

		blocks, err := parseCommaList(p, tokRBrace, (*parser).parseFunctionBlock)
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(tokRBrace, "'}'"); err != nil {
			return nil, err
		}

		return ast.FunctionsStatement{Blocks: blocks}, nil

	case p.peekIs(tokIdent):
		mark := p.mark()

		if call, err := p.parseMacroCall(); err == nil {
			return ast.MacroStatement{Call: call}, nil
		}

		p.reset(mark)

		field, err := p.parseTypeField()
		if err != nil {
			return nil, err
		}

		return ast.FieldStatement{Field: field}, nil

	default:
		return nil, p.unexpected(p.peek())
	}
}

func (p *parser) parseFunctionBlock() (ast.FunctionBlock, error) {
	nameTok, err := p.expect(tokIdent, "identifier")
	if err != nil {
		return ast.FunctionBlock{}, err
	}

	if _, err := p.expect(tokLBrace, "'{'"); err != nil {
		return ast.FunctionBlock{}, err
	}

	functions, err := parseCommaList(p, tokRBrace, (*parser).parseFunction)
	if err != nil {
		return ast.FunctionBlock{}, err
	}

	if _, err := p.expect(tokRBrace, "'}'"); err != nil {
		return ast.FunctionBlock{}, err
	}

	return ast.FunctionBlock{Category: ast.Ident(p.text(nameTok)), Functions: functions}, nil
}

func (p *parser) parseTypeDefinition() (ast.TypeDefinition, error) {
	if err := p.expectIdent("type"); err != nil {
		return ast.TypeDefinition{}, err
	}

	nameTok, err := p.expect(tokIdent, "identifier")
	if err != nil {
		return ast.TypeDefinition{}, err
	}

	if p.peekIs(tokSemicolon) {
		p.advance()
		return ast.TypeDefinition{Name: ast.Ident(p.text(nameTok))}, nil
	}

	if _, err := p.expect(tokLBrace, "'{'"); err != nil {
		return ast.TypeDefinition{}, err
	}

	statements, err := parseCommaList(p, tokRBrace, (*parser).parseTypeStatement)
	if err != nil {
		return ast.TypeDefinition{}, err
	}

	if _, err := p.expect(tokRBrace, "'}'"); err != nil {
		return ast.TypeDefinition{}, err
	}

	return ast.TypeDefinition{Name: ast.Ident(p.text(nameTok)), Statements: statements}, nil
}

// ----------------------------------------------------------------------------
// Module
// ----------------------------------------------------------------------------

func (p *parser) parseModule() (*ast.Module, error) {
	module := &ast.Module{}

	for !p.peekIs(tokEOF) {
		switch {
		case p.peekIdentIs("use"):
			p.advance()

			itemPath, err := p.parseItemPath()
			if err != nil {
				return nil, err
			}

			if _, err := p.expect(tokSemicolon, "';'"); err != nil {
				return nil, err
			}

			module.Uses = append(module.Uses, itemPath)

		case p.peekIdentIs("extern"):
			p.advance()

			if p.peekIdentIs("type") {
				p.advance()

				name, err := p.parseTypeIdent()
				if err != nil {
					return nil, err
				}

				if _, err := p.expect(tokLBrace, "'{'"); err != nil {
					return nil, err
				}

				fields, err := parseCommaList(p, tokRBrace, (*parser).parseExprField)
				if err != nil {
					return nil, err
				}

				if _, err := p.expect(tokRBrace, "'}'"); err != nil {
					return nil, err
				}

				module.ExternTypes = append(module.ExternTypes, ast.ExternType{
					Name:   ast.Ident(name),
					Fields: fields,
				})
			} else {
				nameTok, err := p.expect(tokIdent, "identifier")
				if err != nil {
					return nil, err
				}

				if _, err := p.expect(tokColon, "':'"); err != nil {
					return nil, err
				}

				typ, err := p.parseType()
				if err != nil {
					return nil, err
				}

				if _, err := p.expect(tokAt, "'@'"); err != nil {
					return nil, err
				}

				addrTok := p.peek()

				addrExpr, err := p.parseExpr()
				if err != nil {
					return nil, err
				}

				address, ok := ast.IntLiteralValue(addrExpr)
				if !ok {
					return nil, p.errorf(addrTok, "expected integer literal for extern value address")
				}

				if _, err := p.expect(tokSemicolon, "';'"); err != nil {
					return nil, err
				}

				module.ExternValues = append(module.ExternValues, ast.ExternValue{
					Name:    ast.Ident(p.text(nameTok)),
					Type:    typ,
					Address: address,
				})
			}

		case p.peekIdentIs("type"):
			def, err := p.parseTypeDefinition()
			if err != nil {
				return nil, err
			}

			module.Definitions = append(module.Definitions, def)

		default:
			return nil, p.errorf(p.peek(), "unexpected keyword '"+p.peekText()+"'")
		}
	}

	return module, nil
}

// parseCommaList parses a comma-separated (with optional trailing comma)
// list of T, stopping when the closing token kind is seen.
func parseCommaList[T any](p *parser, closeKind uint, parseOne func(*parser) (T, error)) ([]T, error) {
	var items []T

	for !p.peekIs(closeKind) {
		item, err := parseOne(p)
		if err != nil {
			return nil, err
		}

		items = append(items, item)

		if p.peekIs(tokComma) {
			p.advance()
			continue
		}

		break
	}

	return items, nil
}
