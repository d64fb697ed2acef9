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

// Package testfont builds small synthetic TrueType fonts for tests.
package testfont

import (
	"bytes"
	"encoding/binary"

	"github.com/5hes/maple-font/sfnt"
	"github.com/5hes/maple-font/sfnt/cmap"
	"github.com/5hes/maple-font/sfnt/funit"
	"github.com/5hes/maple-font/sfnt/glyf"
	"github.com/5hes/maple-font/sfnt/gtab"
	"github.com/5hes/maple-font/sfnt/head"
	"github.com/5hes/maple-font/sfnt/header"
	"github.com/5hes/maple-font/sfnt/hmtx"
	"github.com/5hes/maple-font/sfnt/maxp"
	"github.com/5hes/maple-font/sfnt/meta"
	"github.com/5hes/maple-font/sfnt/name"
	"github.com/5hes/maple-font/sfnt/os2"
	"github.com/5hes/maple-font/sfnt/post"
)

// GlyphSpec describes one glyph of a synthetic font.
type GlyphSpec struct {
	Name  string
	Width int16
	LSB   int16
	// Box is the outline: a rectangle from (LSB, 0) to (LSB+Box, Box).
	// Zero means a blank glyph.
	Box int16
	// Rune maps a code point to this glyph, 0 for unmapped glyphs.
	Rune rune
}

// FeatureSpec declares one GSUB feature backed by a fresh
// single-substitution lookup.
type FeatureSpec struct {
	Tag string
	// Mapping uses glyph names; names not in the glyph list are encoded
	// as out-of-range glyph IDs so substitution failures can be tested.
	Mapping map[string]string
}

// Base returns the glyph set used by most tests: Latin glyphs of width
// 600 plus a handful of full-width (1200) glyphs.
func Base() []GlyphSpec {
	return []GlyphSpec{
		{Name: ".notdef", Width: 600, LSB: 50, Box: 500},
		{Name: "space", Width: 600, Rune: ' '},
		{Name: "A", Width: 600, LSB: 50, Box: 500, Rune: 'A'},
		{Name: "B", Width: 600, LSB: 60, Box: 450, Rune: 'B'},
		{Name: "a.cv01", Width: 600, LSB: 70, Box: 400},
		{Name: "emdash", Width: 1200, LSB: 100, Box: 300, Rune: '—'},
		{Name: "ellipsis", Width: 1200, LSB: 100, Box: 250, Rune: '…'},
		{Name: "emdash.cv98", Width: 1200, LSB: 150, Box: 300},
		{Name: "ellipsis.cv98", Width: 1200, LSB: 150, Box: 250},
		{Name: "uni4E2D", Width: 1200, LSB: 100, Box: 1000, Rune: '中'},
		{Name: "uni3000", Width: 1200, Rune: '　'},
	}
}

// Features returns the feature list used by most tests.  cv02 names a
// glyph that does not exist.
func Features() []FeatureSpec {
	return []FeatureSpec{
		{Tag: "calt", Mapping: map[string]string{"B": "A"}},
		{Tag: "cv01", Mapping: map[string]string{"A": "a.cv01"}},
		{Tag: "cv02", Mapping: map[string]string{"B": "missing"}},
		{Tag: "ss03", Mapping: map[string]string{"A": "B"}},
		{Tag: "cv98", Mapping: map[string]string{"emdash": "ellipsis"}},
	}
}

// New builds a complete font from the given glyphs and features and
// passes it through a write/read round trip, so the result looks
// exactly like a font parsed from disk.
func New(glyphs []GlyphSpec, features []FeatureSpec) *sfnt.Font {
	gidByName := make(map[string]glyf.GlyphID, len(glyphs))
	for i, g := range glyphs {
		gidByName[g.Name] = glyf.GlyphID(i)
	}

	outlines := &glyf.Outlines{}
	widths := make([]int16, len(glyphs))
	lsbs := make([]int16, len(glyphs))
	names := make([]string, len(glyphs))
	runes := make(map[rune]glyf.GlyphID)
	for i, g := range glyphs {
		var outline *glyf.Glyph
		if g.Box > 0 {
			outline = glyf.NewSimple(
				[]int16{g.LSB, g.LSB + g.Box, g.LSB + g.Box, g.LSB},
				[]int16{0, 0, g.Box, g.Box})
		} else {
			outline = &glyf.Glyph{}
		}
		outlines.Glyphs = append(outlines.Glyphs, outline)
		widths[i] = g.Width
		lsbs[i] = g.LSB
		names[i] = g.Name
		if g.Rune != 0 {
			runes[g.Rune] = glyf.GlyphID(i)
		}
	}

	font := &sfnt.Font{
		ScalerType: header.ScalerTypeTrueType,
		Head: &head.Info{
			FontRevision:  0x00070000,
			UnitsPerEm:    1000,
			LowestRecPPEM: 7,
		},
		Maxp: &maxp.Info{
			NumGlyphs: len(glyphs),
			TTF:       &maxp.TTFInfo{MaxPoints: 4, MaxContours: 1, MaxZones: 2},
		},
		Glyf: outlines,
		Post: &post.Info{
			UnderlinePosition:  -100,
			UnderlineThickness: 50,
			IsFixedPitch:       true,
			Names:              names,
		},
		OS2: &os2.Info{
			Version:      4,
			AvgCharWidth: 600,
			WeightClass:  400,
			WidthClass:   5,
			VendorID:     [4]byte{'S', 'U', 'B', 'F'},
			WinAscent:    1000,
		},
		Name:   &name.Info{},
		CMap:   make(cmap.Table),
		Tables: map[string][]byte{},
	}

	font.Hmtx = &hmtx.Info{
		Ascent:          800,
		Descent:         -200,
		AdvanceWidthMax: 1200,
	}
	for i := range widths {
		font.Hmtx.Widths = append(font.Hmtx.Widths, funit.Int16(widths[i]))
		font.Hmtx.LSBs = append(font.Hmtx.LSBs, funit.Int16(lsbs[i]))
	}

	font.Name.Set(name.FontFamily, "Maple Mono")
	font.Name.Set(name.Subfamily, "Regular")
	font.CMap.SetMappings(runes)

	if len(features) > 0 {
		font.Gsub = makeGsub(features, gidByName)
	}

	var buf bytes.Buffer
	if _, err := font.Write(&buf); err != nil {
		panic(err)
	}
	parsed, err := sfnt.Read(buf.Bytes())
	if err != nil {
		panic(err)
	}
	return parsed
}

// WithMeta attaches a meta table declaring the given language list.
func WithMeta(font *sfnt.Font, languages string) {
	font.Meta = &meta.Info{}
	font.Meta.SetLanguages(meta.TagDesignLanguages, languages)
	font.Meta.SetLanguages(meta.TagSupportedLanguages, languages)
}

// Addon builds the second font for merge tests.  It carries a glyph
// colliding with Base (uni4E2D, drawn differently), a fresh simple
// glyph (uni4E16) and a composite glyph (uni4E17) referencing the
// fresh one by its local glyph ID.
func Addon() *sfnt.Font {
	font := New([]GlyphSpec{
		{Name: ".notdef", Width: 600, LSB: 50, Box: 500},
		{Name: "uni4E2D", Width: 1100, LSB: 50, Box: 900, Rune: '中'},
		{Name: "uni4E16", Width: 1200, LSB: 100, Box: 1000, Rune: '世'},
	}, nil)

	comp := glyf.NewComposite(2, 0, 0, funit.Rect{
		LLx: 100, LLy: 0, URx: 1100, URy: 1000,
	})
	font.AppendGlyph("uni4E17", comp, 1200, 100)
	runes, err := font.CMap.Mappings()
	if err != nil {
		panic(err)
	}
	runes['丗'] = 3
	font.CMap.SetMappings(runes)
	return font
}

func makeGsub(features []FeatureSpec, gidByName map[string]glyf.GlyphID) *gtab.Info {
	info := &gtab.Info{
		MajorVersion: 1,
	}

	// one lookup per feature, in declaration order
	missing := glyf.GlyphID(0xFFF0)
	for i, fs := range features {
		mapping := make(map[glyf.GlyphID]glyf.GlyphID, len(fs.Mapping))
		for oldName, newName := range fs.Mapping {
			oldGID, ok := gidByName[oldName]
			if !ok {
				oldGID = missing
				missing++
			}
			newGID, ok := gidByName[newName]
			if !ok {
				newGID = missing
				missing++
			}
			mapping[oldGID] = newGID
		}
		lookup := &gtab.LookupTable{Type: 1}
		lookup.SetSingleSubstitutions(mapping)
		info.Lookups = append(info.Lookups, lookup)
		info.Features = append(info.Features, &gtab.Feature{
			Tag:     fs.Tag,
			Lookups: []gtab.LookupIndex{gtab.LookupIndex(i)},
		})
	}

	info.ScriptList = makeScriptList(len(features))
	return info
}

// makeScriptList builds a DFLT script whose default language system
// references every feature.
func makeScriptList(featureCount int) []byte {
	// script list header + one record + script table + langsys table
	buf := make([]byte, 2+6+4+6+2*featureCount)
	binary.BigEndian.PutUint16(buf, 1)
	copy(buf[2:], "DFLT")
	binary.BigEndian.PutUint16(buf[6:], 8) // script table offset

	script := buf[8:]
	binary.BigEndian.PutUint16(script, 4) // defaultLangSys offset
	binary.BigEndian.PutUint16(script[2:], 0)

	langSys := script[4:]
	binary.BigEndian.PutUint16(langSys[2:], 0xFFFF) // no required feature
	binary.BigEndian.PutUint16(langSys[4:], uint16(featureCount))
	for i := 0; i < featureCount; i++ {
		binary.BigEndian.PutUint16(langSys[6+2*i:], uint16(i))
	}
	return buf
}
