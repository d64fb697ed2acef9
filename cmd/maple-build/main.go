// maple-font - a builder and optimizer for the Maple Mono font family
// Copyright (C) 2024  The maple-font authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Maple-build is the optimizer and builder for the Maple Mono fonts.
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/5hes/maple-font/build"
)

func main() {
	prefix := flag.String("prefix", "", "output directory prefix")
	normal := flag.Bool("normal", false, "use the normal preset")
	cnBoth := flag.Bool("cn-both", false, "build both CN and NF CN variants")
	cnNarrow := flag.Bool("cn-narrow", false, "narrow full-width CN glyphs")
	hinted := flag.Bool("hinted", false, "use hinted fonts as base fonts")
	noHinted := flag.Bool("no-hinted", false, "use unhinted fonts as base fonts")
	release := flag.Bool("release", false, "archive the built fonts")
	configPath := flag.String("config", "config.json", "configuration file")
	jobs := flag.Int("jobs", 0, "number of parallel build tasks (0 = from config)")
	flag.Parse()

	// timestamps only when the output goes to a file
	if term.IsTerminal(int(os.Stderr.Fd())) {
		log.SetFlags(0)
	}

	if *normal {
		*configPath = "source/preset-normal.json"
	}
	cfg, err := build.LoadConfig(*configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Fatalf("cannot load %s: %v", *configPath, err)
		}
		cfg = build.DefaultConfig()
	}

	cfg.ReleaseMode = *release
	cfg.UseCNBoth = *cnBoth
	cfg.DirPrefix = *prefix
	if *cnNarrow {
		cfg.CN.Narrow = true
	}
	if *hinted {
		cfg.UseHinted = true
	}
	if *noHinted {
		cfg.UseHinted = false
	}
	if *jobs > 0 {
		cfg.PoolSize = *jobs
	}

	ftcli := &build.FTCLI{}
	if !ftcli.Available() {
		log.Fatal("ftcli is not found, please run `pip install foundrytools-cli`")
	}

	driver := build.NewDriver(cfg, build.NewPaths(cfg), ftcli)

	start := time.Now()
	if err := driver.Run(); err != nil {
		log.Fatal(err)
	}
	log.Printf("build finished in %.2fs", time.Since(start).Seconds())
}
