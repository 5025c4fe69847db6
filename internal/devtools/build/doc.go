// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Build builds a site from components and page descriptors.

# Usage

	$ go tool build [flags] [dir]

Builds the site described by config.json in the current working directory
into the specified directory dir. If dir is not provided, the SITEGEN_OUTPUT
environment variable is used, and then the build.output setting of the site
configuration, which defaults to build next to the configuration file.

The output directory is removed and recreated on every run. Pages that fail
to build are logged and skipped.

# Flags

	-config file  Read site configuration from file.
	-minify       Minify pages and assets.
*/
package main

import (
	_ "embed"

	"go.astrophena.name/base/cli"
)

//go:embed doc.go
var doc []byte

func init() { cli.SetDocComment(doc) }
