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
	"testing"
)

func TestStyleToken(t *testing.T) {
	cases := []struct {
		fname string
		want  string
	}{
		{"MapleMono-Regular.ttf", "Regular"},
		{"MapleMono-BoldItalic.ttf", "BoldItalic"},
		{"MapleMono-NF-ExtraLightItalic.ttf", "ExtraLightItalic"},
		{"MapleMonoCN-Thin.ttf", "Thin"},
	}
	for _, c := range cases {
		if got := StyleToken(c.fname); got != c.want {
			t.Errorf("StyleToken(%q) = %q, want %q", c.fname, got, c.want)
		}
	}
}

func TestNewPaths(t *testing.T) {
	cfg := DefaultConfig()
	p := NewPaths(cfg)

	if p.OutputTTF != filepath.Join("fonts", "TTF") {
		t.Errorf("OutputTTF = %q", p.OutputTTF)
	}
	// hinted builds take their NF/CN bases from the autohinted TTFs
	if p.TTFBaseDir != filepath.Join("fonts", "TTF-AutoHint") {
		t.Errorf("TTFBaseDir = %q", p.TTFBaseDir)
	}

	cfg.UseHinted = false
	cfg.DirPrefix = "v7.0"
	p = NewPaths(cfg)
	if p.TTFBaseDir != filepath.Join("fonts", "v7.0", "TTF") {
		t.Errorf("TTFBaseDir = %q", p.TTFBaseDir)
	}
	// the variable fonts are shared across prefixed builds
	if p.OutputVariable != filepath.Join("fonts", "Variable") {
		t.Errorf("OutputVariable = %q", p.OutputVariable)
	}
}

func TestLoadCNDirAndSuffix(t *testing.T) {
	cfg := DefaultConfig()
	p := NewPaths(cfg)

	p.LoadCNDirAndSuffix(true)
	if p.CNBaseFontDir != p.OutputNF || p.CNSuffix != "NF CN" || p.CNSuffixCompact != "NF-CN" {
		t.Errorf("with NF: dir=%q suffix=%q compact=%q",
			p.CNBaseFontDir, p.CNSuffix, p.CNSuffixCompact)
	}
	if p.OutputCN != filepath.Join("fonts", "NF-CN") {
		t.Errorf("OutputCN = %q", p.OutputCN)
	}

	p.LoadCNDirAndSuffix(false)
	if p.CNBaseFontDir != p.OutputTTF || p.CNSuffix != "CN" || p.CNSuffixCompact != "CN" {
		t.Errorf("without NF: dir=%q suffix=%q compact=%q",
			p.CNBaseFontDir, p.CNSuffix, p.CNSuffixCompact)
	}
}
