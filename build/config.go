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

// Package build drives the per-style font pipeline: naming, feature
// freezing, CJK merging and serialization, plus the external fixup
// tools that run on the written files.
package build

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/5hes/maple-font/freeze"
)

// NerdFontConfig controls the icon-glyph variants.
type NerdFontConfig struct {
	// Enable turns on the NF builds.
	Enable bool `json:"enable"`
	// Version is the Nerd Fonts release used when patching externally.
	Version string `json:"version"`
	// Mono makes icon glyphs single-width.
	Mono bool `json:"mono"`
	// UseFontPatcher prefers the external font-patcher over the
	// prebuilt NF base font.
	UseFontPatcher bool `json:"use_font_patcher"`
	// Glyphs are the symbol-set arguments for font-patcher.
	Glyphs []string `json:"glyphs"`
	// ExtraArgs are appended to every font-patcher invocation.
	ExtraArgs []string `json:"extra_args"`

	FontForgeBin string `json:"font_forge_bin,omitempty"`
	GithubMirror string `json:"github_mirror,omitempty"`
}

// CNConfig controls the Chinese variants.
type CNConfig struct {
	Enable       bool `json:"enable"`
	WithNerdFont bool `json:"with_nerd_font"`
	// FixMetaTable declares the CJK language set in OS/2 and meta.
	FixMetaTable bool `json:"fix_meta_table"`
	CleanCache   bool `json:"clean_cache"`
	// Narrow renarrows full-width glyphs to match the Latin advance.
	Narrow    bool `json:"narrow"`
	UseHinted bool `json:"use_hinted"`
}

// Config is the process-wide build configuration.  It is loaded once
// and passed by value into the core functions; nothing reads it from
// ambient state.
type Config struct {
	FamilyName    string         `json:"family_name"`
	UseHinted     bool           `json:"use_hinted"`
	PoolSize      int            `json:"pool_size"`
	FeatureFreeze freeze.Policy  `json:"feature_freeze"`
	NerdFont      NerdFontConfig `json:"nerd_font"`
	CN            CNConfig       `json:"cn"`

	// FamilyNameCompact is FamilyName with the spaces removed.
	FamilyNameCompact string `json:"-"`

	// command-line only
	ReleaseMode bool   `json:"-"`
	UseCNBoth   bool   `json:"-"`
	DirPrefix   string `json:"-"`
}

// DefaultConfig returns the configuration used when no config file is
// given.
func DefaultConfig() *Config {
	poolSize := runtime.GOMAXPROCS(0)
	if poolSize > 4 {
		poolSize = 4
	}
	cfg := &Config{
		FamilyName: "Maple Mono",
		UseHinted:  true,
		PoolSize:   poolSize,
		FeatureFreeze: freeze.Policy{
			{Tag: "cv01"}, {Tag: "cv02"}, {Tag: "cv03"}, {Tag: "cv04"},
			{Tag: "cv31"}, {Tag: "cv32"}, {Tag: "cv33"}, {Tag: "cv34"},
			{Tag: "cv35"}, {Tag: "cv36"}, {Tag: "cv98"}, {Tag: "cv99"},
			{Tag: "ss01"}, {Tag: "ss02"}, {Tag: "ss03"}, {Tag: "ss04"},
			{Tag: "ss05"}, {Tag: "ss06"}, {Tag: "ss07"}, {Tag: "zero"},
		},
		NerdFont: NerdFontConfig{
			Enable:       true,
			Version:      "3.2.1",
			Glyphs:       []string{"--complete"},
			ExtraArgs:    []string{},
			GithubMirror: "github.com",
		},
		CN: CNConfig{
			Enable:       true,
			WithNerdFont: true,
			FixMetaTable: true,
		},
	}
	cfg.FamilyNameCompact = compactName(cfg.FamilyName)
	return cfg
}

// UseFontPatcher reports whether the NF build must run the external
// font-patcher script: custom glyph sets and extra arguments cannot be
// expressed by the prebuilt glyph-set merge.
func (cfg *Config) UseFontPatcher() bool {
	nf := &cfg.NerdFont
	if nf.UseFontPatcher || len(nf.ExtraArgs) > 0 {
		return true
	}
	return !slices.Equal(nf.Glyphs, []string{"--complete"})
}

// LoadConfig reads a config file over the defaults.
func LoadConfig(fname string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	cfg.FamilyNameCompact = compactName(cfg.FamilyName)
	if cfg.NerdFont.GithubMirror == "" {
		cfg.NerdFont.GithubMirror = "github.com"
	}
	if cfg.PoolSize < 1 {
		cfg.PoolSize = 1
	}
	return cfg, nil
}

// Marshal renders the effective configuration, written next to the
// built fonts for reproducibility.
func (cfg *Config) Marshal() ([]byte, error) {
	result := struct {
		FamilyName    string         `json:"family_name"`
		UseHinted     bool           `json:"use_hinted"`
		FeatureFreeze freeze.Policy  `json:"feature_freeze"`
		NerdFont      NerdFontConfig `json:"nerd_font"`
		CN            CNConfig       `json:"cn"`
	}{
		FamilyName:    cfg.FamilyName,
		UseHinted:     cfg.UseHinted,
		FeatureFreeze: cfg.FeatureFreeze,
		NerdFont:      cfg.NerdFont,
		CN:            cfg.CN,
	}
	result.NerdFont.FontForgeBin = ""
	return json.MarshalIndent(result, "", "    ")
}

func compactName(familyName string) string {
	return strings.ReplaceAll(familyName, " ", "")
}
