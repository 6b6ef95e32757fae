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
	"os"

	"github.com/coldforge/typelang/pkg/tl/ast"
	"github.com/coldforge/typelang/pkg/tl/parse"
	"github.com/coldforge/typelang/pkg/tl/path"
	"github.com/coldforge/typelang/pkg/util"
)

// predefinedTypes lists every primitive type seeded into a fresh registry,
// each Resolved at construction and immutable thereafter.
var predefinedTypes = []struct {
	name string
	size int64
}{
	{"void", 0}, {"bool", 1},
	{"u8", 1}, {"u16", 2}, {"u32", 4}, {"u64", 8}, {"u128", 16},
	{"i8", 1}, {"i16", 2}, {"i32", 4}, {"i64", 8}, {"i128", 16},
	{"f32", 4}, {"f64", 8},
}

// SemanticState aggregates parsed modules keyed by item path and owns the
// type registry while it is being built.  It is consumed by Build, which
// either yields a ResolvedSemanticState or fails with one of the error
// kinds documented on the package's error types.
type SemanticState struct {
	Modules  map[path.ItemPath]*Module
	Registry *TypeRegistry
}

// New constructs a SemanticState seeded with the root module and every
// predefined primitive type.
func New(pointerSize int64) *SemanticState {
	state := &SemanticState{
		Modules:  make(map[path.ItemPath]*Module),
		Registry: NewTypeRegistry(pointerSize),
	}

	state.Modules[path.Empty()] = newModule(path.Empty(), &ast.Module{})

	for _, pt := range predefinedTypes {
		p := path.FromColonDelimited(pt.name)
		state.Registry.Add(&TypeDefinition{
			Path:     p,
			Category: Predefined,
			State:    TypeState{Resolved: &TypeStateResolved{Size: pt.size}},
		})
	}

	return state
}

// AddFile reads, parses and registers a single source file.  Its item path
// is derived from its location relative to root.
func (s *SemanticState) AddFile(root string, filename string) error {
	contents, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	module, err := parse.ParseString(filename, string(contents))
	if err != nil {
		return err
	}

	return s.AddModule(module, path.FromFilePath(root, filename))
}

// AddModule registers an already-parsed Module at a given path: its
// definitions are entered into the registry as Unresolved, its extern types
// are sized and entered as Resolved, and its extern values are transcribed
// with their types wrapped in UnresolvedType.
func (s *SemanticState) AddModule(module *ast.Module, p path.ItemPath) error {
	s.Modules[p] = newModule(p, module)

	for _, def := range module.Definitions {
		definition := def
		defPath := p.Join(string(def.Name))

		if err := s.addType(&TypeDefinition{
			Path:     defPath,
			Category: Defined,
			State:    TypeState{Definition: &definition},
		}); err != nil {
			return err
		}
	}

	for _, et := range module.ExternTypes {
		size, ok := externTypeSize(et)
		externPath := p.Join(string(et.Name))

		if !ok {
			return &MissingSizeError{Path: externPath}
		}

		if err := s.addType(&TypeDefinition{
			Path:     externPath,
			Category: Extern,
			State:    TypeState{Resolved: &TypeStateResolved{Size: size}},
		}); err != nil {
			return err
		}
	}

	return nil
}

func externTypeSize(et ast.ExternType) (int64, bool) {
	for _, field := range et.Fields {
		if string(field.Name) == "size" {
			return ast.IntLiteralValue(field.Value)
		}
	}

	return 0, false
}

// addType inserts a type definition into the registry and records its path
// against its owning module's definition set.
func (s *SemanticState) addType(def *TypeDefinition) error {
	parentPath := def.Path.Parent()

	module, ok := s.Modules[parentPath]
	if !ok {
		return fmt.Errorf("no module registered at path %q for type %q", parentPath.String(), def.Path.String())
	}

	module.DefinitionPaths[def.Path] = struct{}{}
	s.Registry.Add(def)

	return nil
}

// Build runs the fixpoint resolver to completion, finalizes extern-value
// types, and returns the resulting read-only ResolvedSemanticState.
// Partial progress is never observable: on error the SemanticState should be
// discarded by the caller.
func (s *SemanticState) Build() (*ResolvedSemanticState, error) {
	for {
		toResolve := s.unresolvedPaths()
		if len(toResolve) == 0 {
			break
		}

		for _, p := range toResolve {
			def, ok := s.Registry.Get(p)
			if !ok || def.State.IsResolved() {
				continue
			}

			if err := s.buildType(p, def.State.Definition); err != nil {
				return nil, err
			}
		}

		if samePathSet(toResolve, s.unresolvedPaths()) {
			return nil, &NonTerminatingResolutionError{
				Stuck:    toResolve,
				Resolved: s.Registry.Resolved(),
			}
		}
	}

	for _, module := range s.Modules {
		if err := s.resolveExternValues(module); err != nil {
			return nil, err
		}
	}

	return &ResolvedSemanticState{registry: s.Registry, modules: s.Modules}, nil
}

// unresolvedPaths merges every module's own unresolved-definition set into a
// single sorted set covering the whole semantic state, giving the fixpoint
// loop its deterministic per-pass work list.
func (s *SemanticState) unresolvedPaths() []path.ItemPath {
	modules := make([]*Module, 0, len(s.Modules))
	for _, m := range s.Modules {
		modules = append(modules, m)
	}

	set := util.UnionAnySortedSets(modules, func(m *Module) *util.AnySortedSet[path.ItemPath] {
		return m.unresolvedDefinitions(s.Registry)
	})

	return set.ToArray()
}

func (s *SemanticState) resolveExternValues(module *Module) error {
	for i := range module.ExternValues {
		slot := &module.ExternValues[i]

		unresolved, ok := slot.Type.(UnresolvedType)
		if !ok {
			continue
		}

		resolved, ready, err := s.resolveTypeRef(module, unresolved.Ref)
		if err != nil {
			return err
		}

		if !ready {
			return &UnresolvedExternValueError{Module: module.Path, Name: slot.Name}
		}

		slot.Type = resolved
	}

	return nil
}

// ResolvedSemanticState is the published, read-only result of a successful
// Build().  No further mutation of the registry or module map is possible
// through this type.
type ResolvedSemanticState struct {
	registry *TypeRegistry
	modules  map[path.ItemPath]*Module
}

// TypeRegistry returns the fully resolved type registry.
func (r *ResolvedSemanticState) TypeRegistry() *TypeRegistry {
	return r.registry
}

// Modules returns the map of every module keyed by its item path.
func (r *ResolvedSemanticState) Modules() map[path.ItemPath]*Module {
	return r.modules
}
