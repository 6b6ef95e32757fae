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

// pendingRegion is a region collected from a type's statements before the
// final layout pass.  Offset is non-nil only for the padding implied by an
// `address(off)` block; its actual size is computed once the preceding
// vtable pointer (if any) has contributed to lastAddress.
type pendingRegion struct {
	offset *int64
	region Region
}

// buildType attempts to resolve a single Unresolved type.  Per the
// fixpoint's best-effort contract, if any referenced type is still
// Unresolved this returns without error and without mutating the registry;
// it is retried on the next pass.  Only grammar-level errors (unsupported
// macro or attribute name, a backwards address offset, a vtable name
// collision, a duplicate field or function name) are hard errors.
func (s *SemanticState) buildType(resolveePath path.ItemPath, definition *ast.TypeDefinition) error {
	module, ok := s.Modules[resolveePath.Parent()]
	if !ok {
		return nil
	}

	var (
		targetSize    *int64
		pending       []pendingRegion
		metadata      = make(map[string]MetadataValue)
		functions     = make(map[string][]Function)
		seenFieldName = util.NewAnySortedSet[util.Order[string]]()
	)

	buildFieldRegion := func(field ast.TypeField) (Region, bool, error) {
		name := string(field.Name)
		if seenFieldName.Contains(util.Order[string]{Item: name}) {
			return nil, false, &DuplicateFieldNameError{Path: resolveePath, Name: name}
		}

		t, ready, err := s.resolveTypeRef(module, field.TypeRef)
		if err != nil || !ready {
			return nil, ready, err
		}

		seenFieldName.Insert(util.Order[string]{Item: name})

		return FieldRegion{Name: name, Type: t}, true, nil
	}

	for _, statement := range definition.Statements {
		switch st := statement.(type) {
		case ast.MetaStatement:
			for _, field := range st.Fields {
				value, ok := ast.IntLiteralValue(field.Value)
				if !ok {
					continue
				}

				switch string(field.Name) {
				case "size":
					targetSize = &value
				case "singleton":
					metadata["singleton"] = IntegerMetadata(value)
				}
			}

		case ast.AddressStatement:
			offset := st.Offset
			pending = append(pending, pendingRegion{offset: &offset})

			for _, field := range st.Fields {
				region, ready, err := buildFieldRegion(field)
				if err != nil {
					return err
				}

				if !ready {
					return nil
				}

				pending = append(pending, pendingRegion{region: region})
			}

		case ast.FieldStatement:
			region, ready, err := buildFieldRegion(st.Field)
			if err != nil {
				return err
			}

			if !ready {
				return nil
			}

			pending = append(pending, pendingRegion{region: region})

		case ast.MacroStatement:
			size, err := paddingMacroSize(st.Call)
			if err != nil {
				return err
			}

			pending = append(pending, pendingRegion{region: PaddingRegion{Bytes: size}})

		case ast.FunctionsStatement:
			built := make(map[string][]Function, len(st.Blocks))

			for _, block := range st.Blocks {
				category := string(block.Category)
				fns := make([]Function, 0, len(block.Functions))

				for _, fn := range block.Functions {
					name := string(fn.Name)
					if util.ContainsMatching(fns, func(f Function) bool { return f.Name == name }) {
						return &DuplicateFunctionNameError{Path: resolveePath, Category: category, Name: name}
					}

					built_, ready, err := s.buildFunction(module, fn)
					if err != nil {
						return err
					}

					if !ready {
						return nil
					}

					fns = append(fns, built_)
				}

				built[category] = fns
			}

			functions = built
		}
	}

	var (
		resolvedRegions []Region
		lastAddress     int64
	)

	if vftableFns, ok := functions["vftable"]; ok {
		vtableDef, vtableRegion, vtableSize, err := s.buildVftable(resolveePath, vftableFns)
		if err != nil {
			return err
		}

		if _, exists := s.Registry.Get(vtableDef.Path); exists {
			return &DuplicateVftableNameError{Path: vtableDef.Path}
		}

		if err := s.addType(vtableDef); err != nil {
			return err
		}

		resolvedRegions = append(resolvedRegions, vtableRegion)
		lastAddress += vtableSize
	}

	for _, p := range pending {
		var region Region

		if p.offset != nil {
			size := *p.offset - lastAddress
			if size < 0 {
				return &InvalidLayoutError{Path: resolveePath, Offset: *p.offset, LastAddress: lastAddress}
			}

			region = PaddingRegion{Bytes: size}
		} else {
			region = p.region
		}

		size := region.Size(s.Registry)
		if size == 0 {
			continue
		}

		resolvedRegions = append(resolvedRegions, region)
		lastAddress += size
	}

	if targetSize != nil && lastAddress < *targetSize {
		resolvedRegions = append(resolvedRegions, PaddingRegion{Bytes: *targetSize - lastAddress})
		lastAddress = *targetSize
	}

	var totalSize int64
	for _, region := range resolvedRegions {
		totalSize += region.Size(s.Registry)
	}

	s.Registry.SetResolved(resolveePath, TypeStateResolved{
		Size:      totalSize,
		Regions:   resolvedRegions,
		Functions: functions,
		Metadata:  metadata,
	})

	return nil
}

// paddingMacroSize validates and extracts the size argument of a
// `padding!(n)` macro call.  Any other macro name, or a malformed
// `padding!` call, is an UnknownMacroError.
func paddingMacroSize(call ast.MacroCall) (int64, error) {
	if string(call.Name) != "padding" {
		return 0, &UnknownMacroError{Name: string(call.Name)}
	}

	if len(call.Args) != 1 {
		return 0, &UnknownMacroError{Name: string(call.Name)}
	}

	size, ok := ast.IntLiteralValue(call.Args[0])
	if !ok {
		return 0, &UnknownMacroError{Name: string(call.Name)}
	}

	return size, nil
}

// buildFunction resolves a single function declaration's attributes,
// arguments and return type against the enclosing module's scope.  Like
// buildType, it defers (ready=false) if any referenced type is still
// unresolved.
func (s *SemanticState) buildFunction(module *Module, fn ast.Function) (Function, bool, error) {
	attributes := make([]Attribute, 0, len(fn.Attributes))

	for _, attr := range fn.Attributes {
		if string(attr.Name) != "address" || len(attr.Args) != 1 {
			return Function{}, false, &UnknownAttributeError{Name: string(attr.Name)}
		}

		address, ok := ast.IntLiteralValue(attr.Args[0])
		if !ok {
			return Function{}, false, &UnknownAttributeError{Name: string(attr.Name)}
		}

		attributes = append(attributes, AddressAttribute{Address: address})
	}

	arguments := make([]Argument, 0, len(fn.Arguments))

	for _, arg := range fn.Arguments {
		switch a := arg.(type) {
		case ast.ConstSelfArg:
			arguments = append(arguments, ConstSelfArgument{})
		case ast.MutSelfArg:
			arguments = append(arguments, MutSelfArgument{})
		case ast.FieldArg:
			t, ready, err := s.resolveTypeRef(module, a.Field.TypeRef)
			if err != nil {
				return Function{}, false, err
			}

			if !ready {
				return Function{}, false, nil
			}

			arguments = append(arguments, FieldArgument{Name: string(a.Field.Name), Type: t})
		}
	}

	var returnType Type

	if fn.ReturnType != nil {
		t, ready := s.resolveType(module, fn.ReturnType)
		if !ready {
			return Function{}, false, nil
		}

		returnType = t
	}

	return Function{
		Name:       string(fn.Name),
		Attributes: attributes,
		Arguments:  arguments,
		ReturnType: returnType,
	}, true, nil
}

// buildVftable synthesizes the sibling `{Name}Vftable` type for a `vftable`
// function category: a zero-sized Defined type with one function-typed
// region per declared function, in order.  It returns the new definition,
// the pointer field that the owning type should prepend, and that field's
// size (the registry's configured pointer size).
func (s *SemanticState) buildVftable(owner path.ItemPath, functions []Function) (*TypeDefinition, Region, int64, error) {
	vtablePath := owner.Parent().Join(owner.Last() + "Vftable")

	regions := make([]Region, 0, len(functions))

	for _, fn := range functions {
		args := make([]FunctionArg, 0, len(fn.Arguments))

		for _, arg := range fn.Arguments {
			switch a := arg.(type) {
			case ConstSelfArgument:
				args = append(args, FunctionArg{Name: "this", Type: ConstPointerType{Elem: RawType{Path: owner}}})
			case MutSelfArgument:
				args = append(args, FunctionArg{Name: "this", Type: MutPointerType{Elem: RawType{Path: owner}}})
			case FieldArgument:
				args = append(args, FunctionArg{Name: a.Name, Type: a.Type})
			}
		}

		regions = append(regions, FieldRegion{
			Name: fn.Name,
			Type: FunctionType{Args: args, Return: fn.ReturnType},
		})
	}

	vtableDef := &TypeDefinition{
		Path:     vtablePath,
		Category: Defined,
		State: TypeState{Resolved: &TypeStateResolved{
			Size:      0,
			Regions:   regions,
			Functions: make(map[string][]Function),
			Metadata:  make(map[string]MetadataValue),
		}},
	}

	vtableField := FieldRegion{Name: "vftable", Type: ConstPointerType{Elem: RawType{Path: vtablePath}}}

	return vtableDef, vtableField, s.Registry.PointerSize(), nil
}

// ----------------------------------------------------------------------------
// Name resolution
// ----------------------------------------------------------------------------

// resolveTypeRef resolves a grammar TypeRef against a module's scope. A
// macro appearing in type-reference position is always an UnknownMacroError
// since the grammar's only recognized macros are type-body statements
// (`padding!`), never type references.
func (s *SemanticState) resolveTypeRef(module *Module, ref ast.TypeRef) (Type, bool, error) {
	switch v := ref.(type) {
	case ast.PlainTypeRef:
		t, ready := s.resolveType(module, v.Type)
		return t, ready, nil
	case ast.MacroTypeRef:
		return nil, false, &UnknownMacroError{Name: string(v.Call.Name)}
	default:
		return nil, false, nil
	}
}

// resolveType resolves a grammar Type against a module's scope.  A bare
// identifier in value position must already be Resolved, since its size is
// needed immediately.  A pointer's pointee is resolved more leniently by
// resolveElemType: a pointer's own size never depends on its pointee's
// size, so this is what lets a self-referential or mutually-referential
// structure (a node pointing to itself, two types pointing to each other)
// ever reach a fixpoint at all.
func (s *SemanticState) resolveType(module *Module, t ast.Type) (Type, bool) {
	switch v := t.(type) {
	case ast.IdentType:
		return s.resolveIdent(module, string(v))
	case ast.ConstPointerType:
		elem, ready := s.resolveElemType(module, v.Elem)
		if !ready {
			return nil, false
		}

		return ConstPointerType{Elem: elem}, true
	case ast.MutPointerType:
		elem, ready := s.resolveElemType(module, v.Elem)
		if !ready {
			return nil, false
		}

		return MutPointerType{Elem: elem}, true
	default:
		return nil, false
	}
}

// resolveElemType resolves the type behind a pointer.  It only requires the
// named type to exist in the registry, not that it has finished resolving.
func (s *SemanticState) resolveElemType(module *Module, t ast.Type) (Type, bool) {
	switch v := t.(type) {
	case ast.IdentType:
		return s.resolveIdentLoose(module, string(v))
	case ast.ConstPointerType:
		elem, ready := s.resolveElemType(module, v.Elem)
		if !ready {
			return nil, false
		}

		return ConstPointerType{Elem: elem}, true
	case ast.MutPointerType:
		elem, ready := s.resolveElemType(module, v.Elem)
		if !ready {
			return nil, false
		}

		return MutPointerType{Elem: elem}, true
	default:
		return nil, false
	}
}

// resolveIdent maps a bare identifier to a fully-qualified registry path,
// consulting in order: the module's `use` imports, the module's own
// definitions, and the root module (where predefined primitives live). The
// target must already be Resolved.
func (s *SemanticState) resolveIdent(module *Module, name string) (Type, bool) {
	if i, ok := util.FindMatching(module.Parse.Uses, func(u path.ItemPath) bool { return u.Last() == name }); ok {
		used := module.Parse.Uses[i]
		if def, ok := s.Registry.Get(used); ok && def.State.IsResolved() {
			return RawType{Path: used}, true
		}
	}

	if candidate := module.Path.Join(name); true {
		if def, ok := s.Registry.Get(candidate); ok && def.State.IsResolved() {
			return RawType{Path: candidate}, true
		}
	}

	root := path.FromSegments([]string{name})
	if def, ok := s.Registry.Get(root); ok && def.State.IsResolved() {
		return RawType{Path: root}, true
	}

	return nil, false
}

// resolveIdentLoose is the same scope lookup as resolveIdent but accepts a
// registry entry regardless of its resolution state.
func (s *SemanticState) resolveIdentLoose(module *Module, name string) (Type, bool) {
	if i, ok := util.FindMatching(module.Parse.Uses, func(u path.ItemPath) bool { return u.Last() == name }); ok {
		used := module.Parse.Uses[i]
		if _, ok := s.Registry.Get(used); ok {
			return RawType{Path: used}, true
		}
	}

	if candidate := module.Path.Join(name); true {
		if _, ok := s.Registry.Get(candidate); ok {
			return RawType{Path: candidate}, true
		}
	}

	root := path.FromSegments([]string{name})
	if _, ok := s.Registry.Get(root); ok {
		return RawType{Path: root}, true
	}

	return nil, false
}
