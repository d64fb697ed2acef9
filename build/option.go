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
	"path/filepath"
	"strings"
)

// Paths holds every directory the build reads from or writes to.
type Paths struct {
	SrcDir          string
	OutputDir       string
	OutputOTF       string
	OutputTTF       string
	OutputTTFHinted string
	OutputVariable  string
	OutputWoff2     string
	OutputNF        string

	// TTFBaseDir is where NF/CN builds take their base fonts from.
	TTFBaseDir string

	CNStaticDir     string
	CNBaseFontDir   string
	CNSuffix        string
	CNSuffixCompact string
	OutputCN        string
}

// NewPaths lays out the build tree the way the release workflow
// expects it.
func NewPaths(cfg *Config) *Paths {
	const outputDirDefault = "fonts"
	outputDir := outputDirDefault
	if cfg.DirPrefix != "" {
		outputDir = filepath.Join(outputDirDefault, cfg.DirPrefix)
	}

	ttfBase := "TTF"
	if cfg.UseHinted {
		ttfBase = "TTF-AutoHint"
	}

	return &Paths{
		SrcDir:          "source",
		OutputDir:       outputDir,
		OutputOTF:       filepath.Join(outputDir, "OTF"),
		OutputTTF:       filepath.Join(outputDir, "TTF"),
		OutputTTFHinted: filepath.Join(outputDir, "TTF-AutoHint"),
		OutputVariable:  filepath.Join(outputDirDefault, "Variable"),
		OutputWoff2:     filepath.Join(outputDir, "Woff2"),
		OutputNF:        filepath.Join(outputDir, "NF"),
		TTFBaseDir:      filepath.Join(outputDir, ttfBase),
		CNStaticDir:     filepath.Join("source", "cn", "static"),
	}
}

// LoadCNDirAndSuffix selects whether the CN variant is built on top of
// the NF fonts or the plain TTFs.
func (p *Paths) LoadCNDirAndSuffix(withNerdFont bool) {
	if withNerdFont {
		p.CNBaseFontDir = p.OutputNF
		p.CNSuffix = "NF CN"
		p.CNSuffixCompact = "NF-CN"
	} else {
		p.CNBaseFontDir = p.OutputTTF
		p.CNSuffix = "CN"
		p.CNSuffixCompact = "CN"
	}
	p.OutputCN = filepath.Join(p.OutputDir, p.CNSuffixCompact)
}

// StyleToken extracts the style token embedded in a font file name:
// the text after the final "-" and before the extension, e.g.
// "MapleMono-BoldItalic.ttf" -> "BoldItalic".
func StyleToken(fname string) string {
	base := fname
	if i := strings.LastIndex(base, "-"); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.Index(base, "."); i >= 0 {
		base = base[:i]
	}
	return base
}
