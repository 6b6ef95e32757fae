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
package cmd

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"
)

// defaultPointerSize is used when neither the CLI flag, TLC_POINTER_SIZE nor
// the manifest specify one.
const defaultPointerSize = int64(8)

// Manifest is the `tl.toml` project file: the root directory item paths are
// derived relative to, the glob patterns identifying source files, and the
// default pointer size for the resolved registry.
type Manifest struct {
	Root        string   `toml:"root"`
	Sources     []string `toml:"sources"`
	PointerSize int64    `toml:"pointer_size"`
}

// LoadManifest reads and decodes a tl.toml file.
func LoadManifest(path string) (*Manifest, error) {
	var manifest Manifest

	if _, err := toml.DecodeFile(path, &manifest); err != nil {
		return nil, err
	}

	if manifest.Root == "" {
		manifest.Root = filepath.Dir(path)
	}

	return &manifest, nil
}

// DiscoverFiles expands the manifest's source glob patterns (relative to its
// root) into a sorted, de-duplicated list of file paths joined onto the root
// (absolute only when the root is).
func (m *Manifest) DiscoverFiles() ([]string, error) {
	seen := make(map[string]struct{})

	for _, pattern := range m.Sources {
		matches, err := doublestar.Glob(os.DirFS(m.Root), pattern)
		if err != nil {
			return nil, err
		}

		for _, match := range matches {
			seen[filepath.Join(m.Root, match)] = struct{}{}
		}
	}

	files := make([]string, 0, len(seen))
	for f := range seen {
		files = append(files, f)
	}

	sort.Strings(files)

	return files, nil
}

// resolvePointerSize combines the CLI flag, TLC_POINTER_SIZE environment
// override, manifest value and hard-coded default, in descending priority.
func resolvePointerSize(flagValue int64, manifest *Manifest) int64 {
	if flagValue > 0 {
		return flagValue
	}

	if env, ok := os.LookupEnv("TLC_POINTER_SIZE"); ok {
		if parsed, err := strconv.ParseInt(env, 10, 64); err == nil && parsed > 0 {
			return parsed
		}
	}

	if manifest != nil && manifest.PointerSize > 0 {
		return manifest.PointerSize
	}

	return defaultPointerSize
}
