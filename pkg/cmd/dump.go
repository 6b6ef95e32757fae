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
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

const (
	ansiBold  = "\x1b[1m"
	ansiReset = "\x1b[0m"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [flags]",
	Short: "resolve every source file named by the manifest and print the resulting layouts.",
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

		colorize := isatty.IsTerminal(os.Stdout.Fd())
		registry := resolved.TypeRegistry()

		for _, p := range registry.Resolved() {
			def, ok := registry.Get(p)
			if !ok {
				continue
			}

			printTypeLayout(registry, p.String(), def, colorize)
		}
	},
}

func printTypeLayout(registry *semantic.TypeRegistry, name string, def *semantic.TypeDefinition, colorize bool) {
	size := def.State.Resolved.Size

	header := fmt.Sprintf("%s (%s)", name, humanize.Bytes(uint64(size)))
	if colorize {
		header = ansiBold + header + ansiReset
	}

	fmt.Println(header)

	var offset int64

	for _, region := range def.State.Resolved.Regions {
		regionSize := region.Size(registry)

		switch r := region.(type) {
		case semantic.FieldRegion:
			fmt.Printf("  +%-6d %-20s %s\n", offset, r.Name, humanize.Bytes(uint64(regionSize)))
		case semantic.PaddingRegion:
			fmt.Printf("  +%-6d %-20s %s\n", offset, "<padding>", humanize.Bytes(uint64(regionSize)))
		}

		offset += regionSize
	}
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}
