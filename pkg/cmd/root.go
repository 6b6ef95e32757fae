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

// Package cmd implements the tlc command-line front end around
// pkg/tl/parse and pkg/tl/semantic: manifest discovery, logging
// configuration and the parse/build/dump subcommands. None of this reaches
// the library itself, which stays a plain, silent Go API.
package cmd

import (
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// rootCmd is the base command when tlc is called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "tlc",
	Short: "A front end for the type-layout language.",
	Long:  "A parser, semantic analyser and layout resolver for the type-layout language.",
}

// Execute adds all child commands to rootCmd and runs it. Called once by
// cmd/tlc/main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Ignored if no .env is present; this only ever supplies an optional
	// TLC_POINTER_SIZE override for CI.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
	rootCmd.PersistentFlags().StringP("manifest", "m", "tl.toml", "project manifest file")
	rootCmd.PersistentFlags().Int64P("pointer-size", "p", 0, "override the manifest's pointer size (bytes)")
}

func configureLogging(cmd *cobra.Command) {
	if GetFlag(cmd, "verbose") {
		log.SetLevel(log.DebugLevel)
	}
}
