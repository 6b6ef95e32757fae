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
	"fmt"
	"os"

	"github.com/coldforge/typelang/pkg/tl/semantic"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags]",
	Short: "parse and resolve every source file named by the manifest.",
	Run: func(cmd *cobra.Command, args []string) {
		configureLogging(cmd)

		state, _, err := buildSemanticState(cmd)
		if err != nil {
			fmt.Println(err.Error())
			os.Exit(1)
		}

		resolved, err := state.Build()
		if err != nil {
			fmt.Println(err.Error())
			os.Exit(1)
		}

		fmt.Printf("resolved %d type(s) across %d module(s)\n",
			len(resolved.TypeRegistry().Resolved()), len(resolved.Modules()))
	},
}

// buildSemanticState loads the manifest, discovers and registers its
// source files, and returns the unresolved SemanticState ready for Build().
func buildSemanticState(cmd *cobra.Command) (*semantic.SemanticState, *Manifest, error) {
	manifest, err := LoadManifest(GetString(cmd, "manifest"))
	if err != nil {
		return nil, nil, fmt.Errorf("error reading manifest: %w", err)
	}

	files, err := manifest.DiscoverFiles()
	if err != nil {
		return nil, nil, fmt.Errorf("error discovering source files: %w", err)
	}

	pointerSize := resolvePointerSize(GetInt64(cmd, "pointer-size"), manifest)
	log.Debugf("using pointer size %d, %d source file(s)", pointerSize, len(files))

	state := semantic.New(pointerSize)

	for _, file := range files {
		if err := state.AddFile(manifest.Root, file); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", file, err)
		}

		log.Debugf("%s: registered", file)
	}

	return state, manifest, nil
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
