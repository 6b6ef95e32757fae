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
	"unicode"

	"github.com/coldforge/typelang/pkg/util"
	"github.com/coldforge/typelang/pkg/util/source"
)

// tokenize runs the full lexer over a source file's contents, returning the
// flat token stream with whitespace tokens removed.
func tokenize(contents []rune) ([]source.Token, error) {
	scanner := source.Or[rune](
		whitespaceScanner{},
		literalScanner{tokColonColon, []rune("::")},
		literalScanner{tokArrow, []rune("->")},
		identScanner{},
		intScanner{},
		stringScanner{},
		source.One(tokColon, ':'),
		source.One(tokSemicolon, ';'),
		source.One(tokComma, ','),
		source.One(tokLBrace, '{'),
		source.One(tokRBrace, '}'),
		source.One(tokLParen, '('),
		source.One(tokRParen, ')'),
		source.One(tokLAngle, '<'),
		source.One(tokRAngle, '>'),
		source.One(tokStar, '*'),
		source.One(tokBang, '!'),
		source.One(tokAt, '@'),
		source.One(tokAmp, '&'),
		source.One(tokHash, '#'),
		source.One(tokLBracket, '['),
		source.One(tokRBracket, ']'),
	)

	lexer := source.NewLexer[rune](contents, scanner)

	var tokens []source.Token

	for lexer.HasNext() {
		tok := lexer.Next()
		if tok.Kind != tokWhitespace {
			tokens = append(tokens, tok)
		}
	}

	if lexer.Remaining() > 0 {
		return nil, &LexError{contents, lexer.Remaining()}
	}

	eofSpan := source.NewSpan(len(contents), len(contents))
	tokens = append(tokens, source.Token{Kind: tokEOF, Span: eofSpan})

	return tokens, nil
}

// LexError reports that the lexer got stuck partway through the input: no
// registered scanner recognized the character at the current position.
type LexError struct {
	contents  []rune
	remaining uint
}

// Error implements the error interface.
func (e *LexError) Error() string {
	pos := len(e.contents) - int(e.remaining)
	return "unrecognized character at position " + itoa(pos)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}

	neg := n < 0
	if neg {
		n = -n
	}

	var buf [20]byte

	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}

	if neg {
		i--
		buf[i] = '-'
	}

	return string(buf[i:])
}

// ============================================================================
// Scanners
// ============================================================================

type whitespaceScanner struct{}

func (whitespaceScanner) Scan(items []rune) util.Option[source.Token] {
	i := 0
	for i < len(items) && unicode.IsSpace(items[i]) {
		i++
	}

	if i == 0 {
		return util.None[source.Token]()
	}

	return util.Some(source.Token{Kind: tokWhitespace, Span: source.NewSpan(0, i)})
}

type identScanner struct{}

func (identScanner) Scan(items []rune) util.Option[source.Token] {
	if len(items) == 0 || !isIdentStart(items[0]) {
		return util.None[source.Token]()
	}

	i := 1
	for i < len(items) && isIdentContinue(items[i]) {
		i++
	}

	return util.Some(source.Token{Kind: tokIdent, Span: source.NewSpan(0, i)})
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentContinue(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

type intScanner struct{}

func (intScanner) Scan(items []rune) util.Option[source.Token] {
	i := 0
	for i < len(items) && unicode.IsDigit(items[i]) {
		i++
	}

	if i == 0 {
		return util.None[source.Token]()
	}

	return util.Some(source.Token{Kind: tokInt, Span: source.NewSpan(0, i)})
}

type stringScanner struct{}

func (stringScanner) Scan(items []rune) util.Option[source.Token] {
	if len(items) == 0 || items[0] != '"' {
		return util.None[source.Token]()
	}

	i := 1
	for i < len(items) && items[i] != '"' {
		if items[i] == '\\' && i+1 < len(items) {
			i++
		}

		i++
	}

	if i >= len(items) {
		// Unterminated string; consume to end of input, so the production
		// that needs a token after the string fails on the EOF token.
		return util.Some(source.Token{Kind: tokString, Span: source.NewSpan(0, i)})
	}

	return util.Some(source.Token{Kind: tokString, Span: source.NewSpan(0, i+1)})
}

// literalScanner matches an exact fixed sequence of runes as a single token,
// used for multi-character punctuation such as `::` and `->`.
type literalScanner struct {
	tag   uint
	runes []rune
}

func (p literalScanner) Scan(items []rune) util.Option[source.Token] {
	if len(items) < len(p.runes) {
		return util.None[source.Token]()
	}

	for i, r := range p.runes {
		if items[i] != r {
			return util.None[source.Token]()
		}
	}

	return util.Some(source.Token{Kind: p.tag, Span: source.NewSpan(0, len(p.runes))})
}
