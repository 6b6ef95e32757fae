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
	"fmt"
	"strings"

	"github.com/coldforge/typelang/pkg/tl/path"
)

// MissingSizeError is raised when an `extern type` declaration lacks a valid
// integer `size` field.
type MissingSizeError struct {
	Path path.ItemPath
}

func (e *MissingSizeError) Error() string {
	return fmt.Sprintf("extern type %s is missing a valid integer 'size' field", e.Path.String())
}

// UnknownMacroError is raised when a macro call uses a name outside the
// closed recognized set (`padding!` is the only one recognized in a type
// body).
type UnknownMacroError struct {
	Name string
}

func (e *UnknownMacroError) Error() string {
	return fmt.Sprintf("unknown macro: %s!", e.Name)
}

// UnknownAttributeError is raised when a function attribute uses a name
// outside the closed recognized set (only `address` is recognized).
type UnknownAttributeError struct {
	Name string
}

func (e *UnknownAttributeError) Error() string {
	return fmt.Sprintf("unknown attribute: %s", e.Name)
}

// NonTerminatingResolutionError is raised when the fixpoint loop completes a
// full pass without resolving any additional type.
type NonTerminatingResolutionError struct {
	Stuck    []path.ItemPath
	Resolved []path.ItemPath
}

func (e *NonTerminatingResolutionError) Error() string {
	stuck := make([]string, len(e.Stuck))
	for i, p := range e.Stuck {
		stuck[i] = p.String()
	}

	resolved := make([]string, len(e.Resolved))
	for i, p := range e.Resolved {
		resolved[i] = p.String()
	}

	return fmt.Sprintf(
		"type resolution will not terminate, stuck on: [%s] (resolved: [%s])",
		strings.Join(stuck, ", "),
		strings.Join(resolved, ", "),
	)
}

// UnresolvedExternValueError is raised when an extern value's type is still
// unresolved once the fixpoint loop has otherwise completed.
type UnresolvedExternValueError struct {
	Module path.ItemPath
	Name   string
}

func (e *UnresolvedExternValueError) Error() string {
	return fmt.Sprintf("extern value %s::%s has an unresolved type", e.Module.String(), e.Name)
}

// InvalidLayoutError is raised when an `address(off)` offset lies behind the
// layout cursor at the point it is encountered.  The source this front end
// was distilled from silently underflowed the padding computation here;
// this is treated as a hard error instead.
type InvalidLayoutError struct {
	Path        path.ItemPath
	Offset      int64
	LastAddress int64
}

func (e *InvalidLayoutError) Error() string {
	return fmt.Sprintf(
		"invalid layout for %s: address(%d) is behind the current cursor (%d)",
		e.Path.String(), e.Offset, e.LastAddress,
	)
}

// DuplicateVftableNameError is raised when a synthesized `{Name}Vftable`
// sibling type collides with a user-declared type of the same path.
type DuplicateVftableNameError struct {
	Path path.ItemPath
}

func (e *DuplicateVftableNameError) Error() string {
	return fmt.Sprintf("synthesized vtable type %s collides with a user-declared type", e.Path.String())
}

// DuplicateFieldNameError is raised when a type declares two fields (plain
// or address-attributed) under the same name.  The grammar itself accepts
// this; catching it is the semantic analyzer's job.
type DuplicateFieldNameError struct {
	Path path.ItemPath
	Name string
}

func (e *DuplicateFieldNameError) Error() string {
	return fmt.Sprintf("type %s declares field %q more than once", e.Path.String(), e.Name)
}

// DuplicateFunctionNameError is raised when a single function-category block
// (e.g. `vftable`) declares two functions under the same name.
type DuplicateFunctionNameError struct {
	Path     path.ItemPath
	Category string
	Name     string
}

func (e *DuplicateFunctionNameError) Error() string {
	return fmt.Sprintf("type %s declares function %q more than once in category %q", e.Path.String(), e.Name, e.Category)
}
