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
	"github.com/coldforge/typelang/pkg/tl/ast"
	"github.com/coldforge/typelang/pkg/tl/path"
	"github.com/coldforge/typelang/pkg/util"
)

// ExternValueSlot is one `extern name: Type @ address;` declaration
// transcribed into the semantic tree.  Its Type starts out as an
// UnresolvedType and is finalized once the fixpoint loop completes.
type ExternValueSlot struct {
	Name    string
	Type    Type
	Address int64
}

// Module is the semantic counterpart of a parsed source file: its own path,
// the original parse tree, the set of fully-qualified paths it defines, and
// its extern-value slots.
type Module struct {
	Path            path.ItemPath
	Parse           *ast.Module
	DefinitionPaths map[path.ItemPath]struct{}
	ExternValues    []ExternValueSlot
}

// newModule constructs an (initially empty-of-definitions) semantic module
// wrapping a parsed grammar tree.
func newModule(p path.ItemPath, parsed *ast.Module) *Module {
	externValues := make([]ExternValueSlot, len(parsed.ExternValues))

	for i, ev := range parsed.ExternValues {
		externValues[i] = ExternValueSlot{
			Name:    string(ev.Name),
			Type:    UnresolvedType{Ref: ast.PlainTypeRef{Type: ev.Type}},
			Address: ev.Address,
		}
	}

	return &Module{
		Path:            p,
		Parse:           parsed,
		DefinitionPaths: make(map[path.ItemPath]struct{}),
		ExternValues:    externValues,
	}
}

// unresolvedDefinitions returns, as a sorted set, the subset of this
// module's own declared paths that are not yet Resolved in the given
// registry.
func (m *Module) unresolvedDefinitions(registry *TypeRegistry) *util.AnySortedSet[path.ItemPath] {
	set := util.NewAnySortedSet[path.ItemPath]()

	for p := range m.DefinitionPaths {
		if def, ok := registry.Get(p); ok && !def.State.IsResolved() {
			set.Insert(p)
		}
	}

	return set
}
