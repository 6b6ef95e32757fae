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

// Package path implements the absolute, colon-delimited item path used
// throughout the type-language front end to name modules, types and extern
// values in a single flat global namespace.
package path

import (
	"path/filepath"
	"strings"
)

// Separator is the delimiter used between segments of an ItemPath both in
// source text (`a::b::c`) and in its canonical string form.
const Separator = "::"

// ItemPath is an absolute, ordered sequence of identifier segments.  It is
// backed by a single string rather than a slice so that values are directly
// comparable with == and usable as map keys, which the registry relies on
// throughout.
type ItemPath struct {
	// canonical holds the segments joined by Separator.  The empty path (the
	// root module) is the empty string.
	canonical string
}

// Empty returns the path denoting the root module.
func Empty() ItemPath {
	return ItemPath{}
}

// FromColonDelimited parses a colon-delimited path such as "a::b::c" into an
// ItemPath.  Empty segments (produced by leading/trailing/duplicate
// separators) are dropped, matching the parser's permissive path grammar.
func FromColonDelimited(s string) ItemPath {
	parts := strings.Split(s, Separator)
	segments := make([]string, 0, len(parts))

	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}

	return FromSegments(segments)
}

// FromSegments constructs an ItemPath from an explicit ordered list of
// segments.
func FromSegments(segments []string) ItemPath {
	return ItemPath{canonical: strings.Join(segments, Separator)}
}

// FromFilePath derives an ItemPath from a source file's location relative to
// a caller-provided root.  Directory segments become prefix segments and the
// file stem (basename without extension) becomes the final segment.
func FromFilePath(root string, file string) ItemPath {
	rel, err := filepath.Rel(root, file)
	if err != nil {
		rel = file
	}

	rel = filepath.ToSlash(rel)
	ext := filepath.Ext(rel)
	rel = strings.TrimSuffix(rel, ext)

	var segments []string

	for _, s := range strings.Split(rel, "/") {
		if s != "" && s != "." && s != ".." {
			segments = append(segments, s)
		}
	}

	return FromSegments(segments)
}

// IsEmpty returns true if this is the root path.
func (p ItemPath) IsEmpty() bool {
	return p.canonical == ""
}

// Segments returns the ordered list of segments making up this path.
func (p ItemPath) Segments() []string {
	if p.canonical == "" {
		return nil
	}

	return strings.Split(p.canonical, Separator)
}

// Depth returns the number of segments in this path.
func (p ItemPath) Depth() int {
	return len(p.Segments())
}

// Last returns the final segment of this path, or "" if the path is empty.
func (p ItemPath) Last() string {
	segs := p.Segments()
	if len(segs) == 0 {
		return ""
	}

	return segs[len(segs)-1]
}

// Parent returns the path with its final segment removed.  The parent of the
// root path is the root path itself.
func (p ItemPath) Parent() ItemPath {
	segs := p.Segments()
	if len(segs) == 0 {
		return p
	}

	return FromSegments(segs[:len(segs)-1])
}

// Join appends a single segment onto the end of this path, returning the
// result as a new ItemPath.
func (p ItemPath) Join(segment string) ItemPath {
	if p.canonical == "" {
		return ItemPath{canonical: segment}
	}

	return ItemPath{canonical: p.canonical + Separator + segment}
}

// String returns the canonical colon-delimited representation of this path.
func (p ItemPath) String() string {
	return p.canonical
}

// LessEq orders paths lexicographically by their canonical string form.  This
// gives the registry a total, deterministic order to iterate unresolved
// paths in, which the resolver's fixpoint loop and error messages both
// depend on for reproducibility.
func (p ItemPath) LessEq(other ItemPath) bool {
	return p.canonical <= other.canonical
}
