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

	"github.com/coldforge/typelang/pkg/tl/parse"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags]",
	Short: "parse every source file named by the manifest, reporting syntax errors.",
	Run: func(cmd *cobra.Command, args []string) {
		configureLogging(cmd)

		manifest, err := LoadManifest(GetString(cmd, "manifest"))
		if err != nil {
			fmt.Printf("error reading manifest: %s\n", err.Error())
			os.Exit(1)
		}

		files, err := manifest.DiscoverFiles()
		if err != nil {
			fmt.Printf("error discovering source files: %s\n", err.Error())
			os.Exit(1)
		}

		log.Debugf("discovered %d source file(s)", len(files))

		failed := 0

		for _, file := range files {
			contents, err := os.ReadFile(file)
			if err != nil {
				fmt.Printf("%s: %s\n", file, err.Error())
				failed++

				continue
			}

			if _, err := parse.ParseString(file, string(contents)); err != nil {
				fmt.Printf("%s: %s\n", file, err.Error())
				failed++
			} else {
				log.Debugf("%s: parsed ok", file)
			}
		}

		if failed > 0 {
			fmt.Printf("%d of %d file(s) failed to parse\n", failed, len(files))
			os.Exit(1)
		}

		fmt.Printf("%d file(s) parsed ok\n", len(files))
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
