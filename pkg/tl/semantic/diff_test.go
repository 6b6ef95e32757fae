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
	"testing"

	"github.com/coldforge/typelang/pkg/tl/path"
	"github.com/google/go-cmp/cmp"
)

// itemPathComparer lets go-cmp compare ItemPath by its canonical string
// rather than panicking on its unexported backing field.
var itemPathComparer = cmp.Comparer(func(a, b path.ItemPath) bool {
	return a.String() == b.String()
})

// regionSummary is a comparison-friendly projection of a Region, used so a
// diff failure reads as a field name/size mismatch rather than a dump of
// interface internals.
type regionSummary struct {
	Name string
	Size int64
}

func summarizeRegions(registry *TypeRegistry, regions []Region) []regionSummary {
	summaries := make([]regionSummary, len(regions))

	for i, r := range regions {
		name := "<padding>"
		if field, ok := r.(FieldRegion); ok {
			name = field.Name
		}

		summaries[i] = regionSummary{Name: name, Size: r.Size(registry)}
	}

	return summaries
}

func TestBuildLayoutMatchesExpectedRegionsExactly(t *testing.T) {
	s := New(pointerSize)
	mustAddModule(t, s, path.Empty(), `
type Record {
	tag: u8,
	address(8) payload: u64,
}
`)

	resolved, err := s.Build()
	if err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}

	def, ok := resolved.TypeRegistry().Get(path.FromColonDelimited("Record"))
	if !ok {
		t.Fatal("Record not found in registry")
	}

	got := summarizeRegions(resolved.TypeRegistry(), def.State.Resolved.Regions)
	want := []regionSummary{
		{Name: "tag", Size: 1},
		{Name: "<padding>", Size: 7},
		{Name: "payload", Size: 8},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("resolved layout mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildRawTypePathDiffsByCanonicalString(t *testing.T) {
	s := New(pointerSize)
	mustAddModule(t, s, path.FromColonDelimited("geometry"), `
type Point {
	x: i32,
	y: i32,
}
`)
	mustAddModule(t, s, path.Empty(), `
use geometry::Point;

type Shape {
	origin: Point,
}
`)

	resolved, err := s.Build()
	if err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}

	def, ok := resolved.TypeRegistry().Get(path.FromColonDelimited("Shape"))
	if !ok {
		t.Fatal("Shape not found in registry")
	}

	origin := def.State.Resolved.Regions[0].(FieldRegion)
	raw := origin.Type.(RawType)

	if diff := cmp.Diff(path.FromColonDelimited("geometry::Point"), raw.Path, itemPathComparer); diff != "" {
		t.Errorf("origin field type path mismatch (-want +got):\n%s", diff)
	}
}
