// Copyright 2026 The Sitepack Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"

	"github.com/sitepack-foundation/sitepack/cmd/sitepack/cli"
	"github.com/sitepack-foundation/sitepack/lib/packer"
	"github.com/sitepack-foundation/sitepack/lib/server"
)

func buildCommand() *cli.Command {
	var (
		configPath     string
		followSymlinks bool
	)

	return &cli.Command{
		Name:    "directory-single",
		Summary: "Pack a directory tree into a single pack file",
		Description: `Walk an input directory, compute HTTP metadata and compressed
variants for every file, and write the serialized pack to a single
output file. Pack paths are the file paths relative to the input
directory, with forward slashes.`,
		Usage: "sitepack directory-single <input-dir> <output-file> [flags]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("directory-single", pflag.ContinueOnError)
			flags.StringVar(&configPath, "config", "", "JSONC build config file (thresholds, overrides, excludes)")
			flags.BoolVar(&followSymlinks, "follow-symlinks", true, "read through symlinks to regular files")
			return flags
		},
		Run: func(args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("expected <input-dir> <output-file>, got %d arguments", len(args))
			}
			return runBuild(args[0], args[1], configPath, followSymlinks, server.NewLogger())
		},
	}
}

func runBuild(inputDir, outputFile, configPath string, followSymlinks bool, logger *slog.Logger) error {
	options := packer.DefaultOptions()
	walkOptions := packer.WalkOptions{FollowSymlinks: followSymlinks}

	if configPath != "" {
		config, err := packer.ReadConfigFile(configPath)
		if err != nil {
			return err
		}
		options = config.Apply(options)
		walkOptions.Exclude = config.Exclude
	}

	sources, err := packer.CollectDirectory(inputDir, walkOptions)
	if err != nil {
		return err
	}
	logger.Info("collected input files", "directory", inputDir, "files", len(sources))

	built, err := packer.Build(sources, options)
	if err != nil {
		return err
	}

	for _, path := range built.Paths() {
		file, _ := built.Lookup(path)
		logger.Info("packed file",
			"path", path,
			"content_type", file.ContentType,
			"size", humanize.IBytes(uint64(len(file.ContentIdentity))),
			"gzip", file.ContentGzip != nil,
			"brotli", file.ContentBrotli != nil,
		)
	}

	output, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outputFile, err)
	}
	written, err := built.WriteTo(output)
	if err != nil {
		output.Close()
		return err
	}
	if err := output.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", outputFile, err)
	}

	logger.Info("pack written",
		"output", outputFile,
		"files", built.Len(),
		"size", humanize.IBytes(uint64(written)),
	)
	return nil
}
