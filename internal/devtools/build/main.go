// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"path/filepath"

	"go.astrophena.name/base/cli"
	"go.astrophena.name/base/logger"
	"go.astrophena.name/sitegen/internal/site"
)

func main() { cli.Main(new(app)) }

type app struct {
	config string
	minify bool
}

func (a *app) Flags(fs *flag.FlagSet) {
	fs.StringVar(&a.config, "config", "config.json", "Read site configuration from `file`.")
	fs.BoolVar(&a.minify, "minify", false, "Minify pages and assets.")
}

func (a *app) Run(ctx context.Context) error {
	env := cli.GetEnv(ctx)
	if len(env.Args) > 1 {
		return fmt.Errorf("%w: want at most one output directory", cli.ErrInvalidArgs)
	}

	dir, err := outputDir(env.Args, env.Getenv)
	if err != nil {
		return err
	}

	res, err := site.Build(ctx, &site.Config{
		ConfigFile: a.config,
		Output:     dir,
		Minify:     a.minify,
	})
	if err != nil {
		return err
	}
	if len(res.Failed) > 0 {
		logger.Error(ctx, "some pages failed to build", slog.Any("pages", res.Failed))
	}
	return nil
}

// outputDir returns the absolute output directory from the command line or
// the environment. An empty result keeps the one from the site
// configuration.
func outputDir(args []string, getenv func(string) string) (string, error) {
	dir := getenv("SITEGEN_OUTPUT")
	if len(args) > 0 {
		dir = args[0]
	}
	if dir == "" {
		return "", nil
	}
	return filepath.Abs(dir)
}
