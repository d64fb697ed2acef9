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
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/5hes/maple-font/freeze"
	"github.com/5hes/maple-font/merge"
	"github.com/5hes/maple-font/naming"
	"github.com/5hes/maple-font/sfnt"
	"github.com/5hes/maple-font/sfnt/name"
)

// CV98Override corrects the cv98 punctuation mapping of the CN sources,
// which authored it inconsistently with the Latin base.
// https://github.com/subframe7536/maple-font/issues/188
var CV98Override = freeze.Override{
	Tag: "cv98",
	Mapping: map[string]string{
		"emdash":   "emdash.cv98",
		"ellipsis": "ellipsis.cv98",
	},
}

// Driver builds one finished font per style.  Styles are independent:
// each task owns its Font exclusively and writes a distinct path.
type Driver struct {
	Config *Config
	Paths  *Paths
	Hooks  Hooks

	// Patcher runs the font-patcher script when the configuration
	// asks for a custom NF build.
	Patcher Hooks

	// CV98 is applied to CN merges before freezing.
	CV98 freeze.Override
}

// NewDriver wires a driver with the standard override data.
func NewDriver(cfg *Config, paths *Paths, hooks Hooks) *Driver {
	return &Driver{
		Config: cfg,
		Paths:  paths,
		Hooks:  hooks,
		Patcher: &FontPatcher{
			Bin:     cfg.NerdFont.FontForgeBin,
			Mirror:  cfg.NerdFont.GithubMirror,
			Version: cfg.NerdFont.Version,
		},
		CV98: CV98Override,
	}
}

// applyFreeze runs the freeze engine; missing-glyph failures are
// reported and skipped, anything else fails the style.
func (d *Driver) applyFreeze(font *sfnt.Font) error {
	err := freeze.Apply(font, d.Config.FeatureFreeze, freeze.MovingTags)
	if err == nil {
		return nil
	}
	if onlyMissingGlyphs(err) {
		log.Print(err)
		return nil
	}
	return err
}

// onlyMissingGlyphs reports whether every error joined into the freeze
// result is a skipped-feature MissingGlyphError.  A joined list that
// also carries a structural error must still fail the style.
func onlyMissingGlyphs(err error) bool {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			if !onlyMissingGlyphs(e) {
				return false
			}
		}
		return true
	}
	var missing *freeze.MissingGlyphError
	return errors.As(err, &missing)
}

// BuildMono produces one static style: names and identity, frozen
// features, then hinted/converted output formats via the hooks.
func (d *Driver) BuildMono(fname string) error {
	cfg := d.Config
	fontPath := filepath.Join(d.Paths.OutputTTF, fname)
	font, err := sfnt.ReadFile(fontPath)
	if err != nil {
		return err
	}

	token := StyleToken(fname)
	ns := naming.Derive(cfg.FamilyName, cfg.FamilyNameCompact, token, naming.SkipList)
	ns.Apply(font, naming.UniqueID(ns.PostScriptName, cfg.FeatureFreeze, false))

	if err := d.applyFreeze(font); err != nil {
		return err
	}
	if err := font.WriteFile(fontPath); err != nil {
		return err
	}

	hintedPath := filepath.Join(d.Paths.OutputTTFHinted,
		fmt.Sprintf("%s-AutoHint-%s.ttf", cfg.FamilyNameCompact, token))
	if err := d.Hooks.Run("ttf", "autohint", fontPath, "-out", hintedPath); err != nil {
		return err
	}
	if err := d.Hooks.Run("converter", "ttf2otf", fontPath, "-out", d.Paths.OutputOTF); err != nil {
		return err
	}
	return d.Hooks.Run("converter", "ft2wf", fontPath, "-out", d.Paths.OutputWoff2, "-f", "woff2")
}

// nfBaseFont returns the path of the prebuilt icon glyph set.
func (d *Driver) nfBaseFont() string {
	base := "MapleMono-NF-Base"
	if d.Config.NerdFont.Mono {
		base += "-Mono"
	}
	return filepath.Join(d.Paths.SrcDir, base+".ttf")
}

// mergeNF combines one built style with the prebuilt icon glyph set.
func (d *Driver) mergeNF(fname string) (*sfnt.Font, error) {
	font, err := sfnt.ReadFile(filepath.Join(d.Paths.TTFBaseDir, fname))
	if err != nil {
		return nil, err
	}
	addon, err := sfnt.ReadFile(d.nfBaseFont())
	if err != nil {
		return nil, err
	}
	if err := merge.Fonts(font, addon); err != nil {
		return nil, err
	}
	return font, nil
}

// patchNF lets the font-patcher script add the icon glyphs and loads
// the patched intermediate, which is removed again: the style's final
// name is written by BuildNF.
func (d *Driver) patchNF(fname string) (*sfnt.Font, error) {
	cfg := d.Config
	args := []string{"-l", "--careful", "--outputdir", d.Paths.OutputNF}
	args = append(args, cfg.NerdFont.Glyphs...)
	if cfg.NerdFont.Mono {
		args = append(args, "--mono")
	}
	args = append(args, cfg.NerdFont.ExtraArgs...)
	args = append(args, filepath.Join(d.Paths.TTFBaseDir, fname))
	if err := d.Patcher.Run(args...); err != nil {
		return nil, err
	}

	insert := "NerdFont"
	if cfg.NerdFont.Mono {
		insert += "Mono"
	}
	patched := filepath.Join(d.Paths.OutputNF,
		strings.Replace(fname, "-", insert+"-", 1))
	font, err := sfnt.ReadFile(patched)
	if err != nil {
		return nil, err
	}
	if err := os.Remove(patched); err != nil {
		return nil, err
	}
	return font, nil
}

// BuildNF adds the icon glyphs to one built style and renames the
// result.  The glyphs come from the prebuilt NF base font, or from a
// font-patcher run when the configuration customizes the glyph set.
func (d *Driver) BuildNF(fname string) error {
	cfg := d.Config

	var font *sfnt.Font
	var err error
	if cfg.UseFontPatcher() {
		font, err = d.patchNF(fname)
	} else {
		font, err = d.mergeNF(fname)
	}
	if err != nil {
		return err
	}

	token := StyleToken(fname)
	familyNF := cfg.FamilyName + " NF"
	compactNF := cfg.FamilyNameCompact + "-NF"
	ns := naming.Derive(familyNF, compactNF, token, naming.SkipList)
	ns.Apply(font, naming.UniqueID(ns.PostScriptName, cfg.FeatureFreeze, false))

	outPath := filepath.Join(d.Paths.OutputNF,
		fmt.Sprintf("%s-NF-%s.ttf", cfg.FamilyNameCompact, token))
	return font.WriteFile(outPath)
}

// BuildCN merges the static CN glyph set into one built style, fixes
// the metadata and freezes features in the combined feature list.
func (d *Driver) BuildCN(fname string) error {
	cfg := d.Config
	token := StyleToken(fname)

	font, err := sfnt.ReadFile(filepath.Join(d.Paths.CNBaseFontDir, fname))
	if err != nil {
		return err
	}
	addon, err := sfnt.ReadFile(filepath.Join(d.Paths.CNStaticDir,
		fmt.Sprintf("MapleMonoCN-%s.ttf", token)))
	if err != nil {
		return err
	}
	if err := merge.Fonts(font, addon); err != nil {
		return err
	}

	familyCN := cfg.FamilyName + " " + d.Paths.CNSuffix
	compactCN := cfg.FamilyNameCompact + "-" + d.Paths.CNSuffixCompact
	ns := naming.Derive(familyCN, compactCN, token, naming.SkipList)
	ns.Apply(font, naming.UniqueID(ns.PostScriptName, cfg.FeatureFreeze, cfg.CN.Narrow))

	if font.OS2 != nil {
		font.OS2.AvgCharWidth = 600
	}

	if err := freeze.ApplyOverride(font, d.CV98); err != nil {
		log.Print(err)
	}
	if err := d.applyFreeze(font); err != nil {
		return err
	}

	if cfg.CN.Narrow {
		if err := merge.NarrowWidths(font, 1200, 1000); err != nil {
			return err
		}
	}
	if cfg.CN.FixMetaTable {
		merge.FixCJKMetadata(font)
	}

	outPath := filepath.Join(d.Paths.OutputCN,
		fmt.Sprintf("%s-%s-%s.ttf", cfg.FamilyNameCompact, d.Paths.CNSuffixCompact, token))
	return font.WriteFile(outPath)
}

// RenameVariable rewrites the identity of one variable font input and
// writes it to the variable output directory.  Returns the output path.
func (d *Driver) RenameVariable(inputPath string) (string, error) {
	cfg := d.Config
	font, err := sfnt.ReadFile(inputPath)
	if err != nil {
		return "", err
	}

	font.Name.Set(name.FontFamily, cfg.FamilyName)
	font.Name.Set(name.FullName,
		strings.ReplaceAll(font.Name.Get(name.FullName), "Maple Mono", cfg.FamilyName))
	psName := strings.ReplaceAll(font.Name.Get(name.PostScriptName),
		"MapleMono", cfg.FamilyNameCompact)
	font.Name.Set(name.PostScriptName, psName)
	font.Name.Set(name.UniqueID, naming.CustomUniqueID(psName, "variable"))
	font.Name.Set(name.VariationsPSPrefix, cfg.FamilyNameCompact)

	outPath := filepath.Join(d.Paths.OutputVariable,
		strings.ReplaceAll(filepath.Base(inputPath), "MapleMono", cfg.FamilyNameCompact))
	if err := font.WriteFile(outPath); err != nil {
		return "", err
	}
	return outPath, nil
}
