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

package build

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/5hes/maple-font/sfnt"
)

// variableInputs are the upstream variable-font sources.
func (d *Driver) variableInputs() []string {
	return []string{
		filepath.Join(d.Paths.SrcDir, "MapleMono-Italic[wght]-VF.ttf"),
		filepath.Join(d.Paths.SrcDir, "MapleMono[wght]-VF.ttf"),
	}
}

// Run executes the whole batch: variable renaming, static
// instantiation, the per-style pools for the mono/NF/CN variants,
// Mac-name stripping, and release packaging.
func (d *Driver) Run() error {
	cfg := d.Config
	paths := d.Paths
	paths.LoadCNDirAndSuffix(cfg.CN.WithNerdFont && cfg.NerdFont.Enable)

	os.RemoveAll(paths.OutputDir)
	os.RemoveAll(paths.OutputWoff2)
	for _, dir := range []string{paths.OutputDir, paths.OutputVariable,
		paths.OutputOTF, paths.OutputTTF, paths.OutputTTFHinted,
		paths.OutputWoff2} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	log.Print("build variable fonts")
	for _, input := range d.variableInputs() {
		if _, err := d.RenameVariable(input); err != nil {
			return err
		}
	}
	steps := [][]string{
		{"fix", "italic-angle", paths.OutputVariable},
		{"fix", "monospace", paths.OutputVariable},
		{"converter", "vf2i", paths.OutputVariable, "-out", paths.OutputTTF},
		{"fix", "italic-angle", paths.OutputTTF},
		{"fix", "monospace", paths.OutputTTF},
		{"fix", "strip-names", paths.OutputTTF},
		{"ttf", "dehint", paths.OutputTTF},
		{"ttf", "fix-contours", paths.OutputTTF},
		{"ttf", "remove-overlaps", paths.OutputTTF},
	}
	for _, args := range steps {
		if err := d.Hooks.Run(args...); err != nil {
			return err
		}
	}

	log.Print("build static styles")
	styles, err := listFonts(paths.OutputTTF)
	if err != nil {
		return err
	}
	if err := RunPool(cfg.PoolSize, styles, d.BuildMono); err != nil {
		return err
	}

	if cfg.NerdFont.Enable {
		log.Printf("build NF styles (Nerd Fonts v%s)", cfg.NerdFont.Version)
		if err := os.MkdirAll(paths.OutputNF, 0o755); err != nil {
			return err
		}
		if err := RunPool(cfg.PoolSize, styles, d.BuildNF); err != nil {
			return err
		}
	}

	if cfg.CN.Enable {
		if err := d.runCN(); err != nil {
			return err
		}
	}

	log.Print("strip Mac-platform names")
	if err := StripMacNames(paths.OutputDir); err != nil {
		return err
	}

	configData, err := cfg.Marshal()
	if err != nil {
		return err
	}
	configPath := filepath.Join(paths.OutputDir, "build-config.json")
	if err := os.WriteFile(configPath, configData, 0o644); err != nil {
		return err
	}

	if cfg.ReleaseMode {
		return d.release(configPath)
	}
	return nil
}

func (d *Driver) runCN() error {
	cfg := d.Config
	paths := d.Paths

	cnSource := filepath.Join(paths.SrcDir, "cn")
	if _, err := os.Stat(cnSource); err != nil {
		log.Print("no CN sources, skipping CN build")
		return nil
	}

	if _, err := os.Stat(paths.CNStaticDir); err != nil || cfg.CN.CleanCache {
		log.Print("instantiate CN base fonts, be patient")
		steps := [][]string{
			{"converter", "vf2i", cnSource, "-out", paths.CNStaticDir},
			{"ttf", "fix-contours", paths.CNStaticDir},
			{"ttf", "remove-overlaps", paths.CNStaticDir},
			{"utils", "del-table", "-t", "kern", "-t", "GPOS", paths.CNStaticDir},
		}
		for _, args := range steps {
			if err := d.Hooks.Run(args...); err != nil {
				return err
			}
		}
	}

	buildOne := func() error {
		if err := os.MkdirAll(paths.OutputCN, 0o755); err != nil {
			return err
		}
		bases, err := listFonts(paths.CNBaseFontDir)
		if err != nil {
			return err
		}
		if err := RunPool(cfg.PoolSize, bases, d.BuildCN); err != nil {
			return err
		}
		if cfg.CN.UseHinted {
			return d.Hooks.Run("ttf", "autohint", paths.OutputCN)
		}
		return nil
	}

	if err := buildOne(); err != nil {
		return err
	}

	// optionally build the second CN flavor (with and without icons)
	if cfg.UseCNBoth && cfg.ReleaseMode && !cfg.CN.WithNerdFont && cfg.NerdFont.Enable {
		paths.LoadCNDirAndSuffix(true)
		if err := buildOne(); err != nil {
			return err
		}
	}
	return nil
}

func (d *Driver) release(configPath string) error {
	log.Print("release mode")
	paths := d.Paths

	releaseDir := filepath.Join(paths.OutputDir, "release")
	if err := os.MkdirAll(releaseDir, 0o755); err != nil {
		return err
	}

	entries, err := os.ReadDir(paths.OutputDir)
	if err != nil {
		return err
	}
	hashes := make(map[string]string)
	for _, e := range entries {
		if !e.IsDir() || e.Name() == "release" {
			continue
		}
		extras := map[string]string{"LICENSE.txt": "OFL.txt"}
		if e.Name() != "Variable" {
			extras["config.json"] = configPath
		}
		zipPath := filepath.Join(releaseDir,
			fmt.Sprintf("%s-%s.zip", d.Config.FamilyNameCompact, e.Name()))
		sha, err := CompressDir(filepath.Join(paths.OutputDir, e.Name()), zipPath, extras)
		if err != nil {
			return err
		}
		hashes[e.Name()] = sha
		log.Printf("archive: %s", e.Name())
	}
	return WriteSHA1Manifest(filepath.Join(releaseDir, "sha1.json"), hashes)
}

// StripMacNames removes the Macintosh-platform name records from every
// font under dir.
func StripMacNames(dir string) error {
	return filepath.WalkDir(dir, func(p string, entry fs.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return err
		}
		switch strings.ToLower(filepath.Ext(p)) {
		case ".ttf", ".otf":
		default:
			return nil
		}
		font, err := sfnt.ReadFile(p)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		if font.Name == nil || len(font.Name.Mac) == 0 {
			return nil
		}
		font.Name.StripMac()
		return font.WriteFile(p)
	})
}

// listFonts returns the font file names directly under dir, sorted.
func listFonts(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".ttf", ".otf":
			files = append(files, e.Name())
		}
	}
	return files, nil
}
