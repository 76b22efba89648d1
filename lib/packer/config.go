// Copyright 2026 The Sitepack Authors
// SPDX-License-Identifier: Apache-2.0

package packer

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"
)

// Config is the optional per-pack build configuration, authored on
// disk as JSONC (JSON extended with // line comments, /* block
// comments */, and trailing commas). All fields are optional;
// omitted fields keep the [DefaultOptions] values.
//
//	{
//	  // don't bother compressing tiny files
//	  "min_compress_size": 1024,
//	  "brotli": true,
//	  "gzip": true,
//	  "exclude": ["*.map", "internal/*"],
//	  "content_types": {
//	    "downloads/release.tgz": "application/gzip",
//	  },
//	}
type Config struct {
	// MinCompressSize overrides the compression threshold in bytes.
	MinCompressSize *int `json:"min_compress_size"`

	// Gzip and Brotli toggle the compressed variants.
	Gzip   *bool `json:"gzip"`
	Brotli *bool `json:"brotli"`

	// Exclude lists glob patterns of pack paths to leave out of the
	// pack.
	Exclude []string `json:"exclude"`

	// ContentTypes overrides the inferred content type per pack
	// path.
	ContentTypes map[string]string `json:"content_types"`
}

// ParseConfig strips JSONC comments and trailing commas from data and
// unmarshals the result.
func ParseConfig(data []byte) (*Config, error) {
	stripped := jsonc.ToJSON(data)

	var config Config
	if err := json.Unmarshal(stripped, &config); err != nil {
		return nil, fmt.Errorf("parsing pack config: %w", err)
	}
	if config.MinCompressSize != nil && *config.MinCompressSize < 0 {
		return nil, fmt.Errorf("pack config: min_compress_size must not be negative")
	}
	return &config, nil
}

// ReadConfigFile reads and parses a JSONC pack config from disk.
func ReadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	config, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

// Apply overlays the config's set fields onto options and returns the
// result.
func (c *Config) Apply(options Options) Options {
	if c.MinCompressSize != nil {
		options.MinCompressSize = *c.MinCompressSize
	}
	if c.Gzip != nil {
		options.Gzip = *c.Gzip
	}
	if c.Brotli != nil {
		options.Brotli = *c.Brotli
	}
	if len(c.ContentTypes) > 0 {
		merged := make(map[string]string, len(c.ContentTypes))
		for path, contentType := range c.ContentTypes {
			merged[path] = contentType
		}
		options.ContentTypes = merged
	}
	return options
}
