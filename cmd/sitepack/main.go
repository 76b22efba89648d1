// Copyright 2026 The Sitepack Authors
// SPDX-License-Identifier: Apache-2.0

// The sitepack command builds and inspects static web asset packs.
package main

import (
	"fmt"
	"os"

	"github.com/sitepack-foundation/sitepack/cmd/sitepack/cli"
	"github.com/sitepack-foundation/sitepack/lib/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	root := &cli.Command{
		Name: "sitepack",
		Description: `sitepack: build and inspect static web asset packs.

A pack bundles a directory of static assets into a single binary file
with content types, ETags, and compressed variants precomputed, ready
to be memory-mapped and served without per-request work.`,
		Subcommands: []*cli.Command{
			buildCommand(),
			inspectCommand(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ []string) error {
					fmt.Printf("sitepack %s\n", version.Full())
					return nil
				},
			},
		},
	}
	return root.Execute(os.Args[1:])
}
