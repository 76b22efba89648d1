// Copyright 2026 The Sitepack Authors
// SPDX-License-Identifier: Apache-2.0

// The sitepack-server command serves a pack file over HTTP. The pack
// is loaded once into an aligned in-memory buffer; every request is
// answered from that buffer with no per-request I/O.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"

	"github.com/sitepack-foundation/sitepack/lib/pack"
	"github.com/sitepack-foundation/sitepack/lib/responder"
	"github.com/sitepack-foundation/sitepack/lib/server"
	"github.com/sitepack-foundation/sitepack/lib/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		showVersion  bool
		listen       string
		packFile     string
		cacheControl string
	)
	pflag.BoolVar(&showVersion, "version", false, "print version information and exit")
	pflag.StringVar(&listen, "listen", ":8080", "TCP listen address")
	pflag.StringVar(&packFile, "pack", "", "pack file to serve (required)")
	pflag.StringVar(&cacheControl, "cache-control", "", "Cache-Control header value (default \""+responder.DefaultCacheControl+"\")")
	pflag.Parse()

	if showVersion {
		fmt.Printf("sitepack-server %s\n", version.Full())
		return nil
	}
	if packFile == "" {
		return fmt.Errorf("--pack is required")
	}

	logger := server.NewLogger()

	buffer, err := os.ReadFile(packFile)
	if err != nil {
		return fmt.Errorf("reading %s: %w", packFile, err)
	}
	// A fresh heap buffer is not guaranteed to sit at a 16-byte
	// boundary; Aligned copies only when it has to.
	archived, err := pack.Load(pack.Aligned(buffer))
	if err != nil {
		return fmt.Errorf("loading %s: %w", packFile, err)
	}
	logger.Info("pack loaded",
		"pack", packFile,
		"files", archived.Len(),
		"size", humanize.IBytes(uint64(len(buffer))),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpServer := server.NewHTTPServer(server.HTTPServerConfig{
		Address: listen,
		Handler: responder.New(archived, responder.Options{CacheControl: cacheControl}),
		Logger:  logger,
	})
	return httpServer.Serve(ctx)
}
