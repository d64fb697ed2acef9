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

// Package glyf reads and writes "glyf" and "loca" tables.
// https://docs.microsoft.com/en-us/typography/opentype/spec/glyf
// https://docs.microsoft.com/en-us/typography/opentype/spec/loca
package glyf

import (
	"encoding/binary"

	"github.com/5hes/maple-font/sfnt/fonterror"
	"github.com/5hes/maple-font/sfnt/funit"
)

// GlyphID is the index of a glyph within a font.
type GlyphID uint16

// Glyph is one glyph record from the "glyf" table.  The record is kept in
// its binary form and only decoded when a mutation requires it.
type Glyph struct {
	data []byte
}

// Outlines stores the glyph data of a TrueType font.
type Outlines struct {
	// Glyphs is a slice of glyph outlines in the font, indexed by glyph ID.
	Glyphs []*Glyph
}

// Decode splits the "glyf" table into individual glyph records, using the
// offsets from the "loca" table.
func Decode(glyfData, locaData []byte, indexToLocFormat int16, numGlyphs int) (*Outlines, error) {
	offsets := make([]uint32, numGlyphs+1)
	switch indexToLocFormat {
	case 0: // short offsets
		if len(locaData) < 2*(numGlyphs+1) {
			return nil, invalid("loca table too short")
		}
		for i := range offsets {
			offsets[i] = 2 * uint32(binary.BigEndian.Uint16(locaData[2*i:]))
		}
	case 1: // long offsets
		if len(locaData) < 4*(numGlyphs+1) {
			return nil, invalid("loca table too short")
		}
		for i := range offsets {
			offsets[i] = binary.BigEndian.Uint32(locaData[4*i:])
		}
	default:
		return nil, invalid("invalid indexToLocFormat")
	}

	glyphs := make([]*Glyph, numGlyphs)
	for i := range glyphs {
		start, end := offsets[i], offsets[i+1]
		if start > end || int64(end) > int64(len(glyfData)) {
			return nil, invalid("invalid loca offsets")
		}
		g := &Glyph{}
		if end > start {
			if end-start < glyphHeaderLength {
				return nil, invalid("truncated glyph record")
			}
			g.data = glyfData[start:end]
		}
		glyphs[i] = g
	}

	return &Outlines{Glyphs: glyphs}, nil
}

// Encode assembles the "glyf" and "loca" tables.  Each glyph record is
// padded to a four-byte boundary; the loca format is chosen automatically.
func (o *Outlines) Encode() (glyfData, locaData []byte, indexToLocFormat int16) {
	offsets := make([]uint32, len(o.Glyphs)+1)
	var total uint32
	for i, g := range o.Glyphs {
		offsets[i] = total
		n := uint32(len(g.data))
		total += (n + 3) &^ 3
	}
	offsets[len(o.Glyphs)] = total

	glyfData = make([]byte, total)
	for i, g := range o.Glyphs {
		copy(glyfData[offsets[i]:], g.data)
	}

	if total/2 <= 0xFFFF {
		indexToLocFormat = 0
		locaData = make([]byte, 2*len(offsets))
		for i, off := range offsets {
			binary.BigEndian.PutUint16(locaData[2*i:], uint16(off/2))
		}
	} else {
		indexToLocFormat = 1
		locaData = make([]byte, 4*len(offsets))
		for i, off := range offsets {
			binary.BigEndian.PutUint32(locaData[4*i:], off)
		}
	}

	return glyfData, locaData, indexToLocFormat
}

// BBox returns the font bounding box, covering every glyph.
func (o *Outlines) BBox() funit.Rect {
	var bbox funit.Rect
	for _, g := range o.Glyphs {
		bbox.Extend(g.BBox())
	}
	return bbox
}

const glyphHeaderLength = 10

// IsBlank reports whether the glyph has no outline data at all.
func (g *Glyph) IsBlank() bool {
	return len(g.data) == 0
}

// NumContours returns the numberOfContours field of the glyph header.
// Blank glyphs report zero contours; composite glyphs report -1.
func (g *Glyph) NumContours() int16 {
	if g.IsBlank() {
		return 0
	}
	return int16(binary.BigEndian.Uint16(g.data))
}

// IsComposite reports whether the glyph is assembled from components.
func (g *Glyph) IsComposite() bool {
	return g.NumContours() < 0
}

// BBox returns the glyph bounding box from the glyph header.
func (g *Glyph) BBox() funit.Rect {
	if g.IsBlank() {
		return funit.Rect{}
	}
	return funit.Rect{
		LLx: funit.Int16(binary.BigEndian.Uint16(g.data[2:])),
		LLy: funit.Int16(binary.BigEndian.Uint16(g.data[4:])),
		URx: funit.Int16(binary.BigEndian.Uint16(g.data[6:])),
		URy: funit.Int16(binary.BigEndian.Uint16(g.data[8:])),
	}
}

// Clone returns an independent copy of the glyph record.
func (g *Glyph) Clone() *Glyph {
	data := make([]byte, len(g.data))
	copy(data, g.data)
	return &Glyph{data: data}
}

func invalid(reason string) error {
	return &fonterror.InvalidFontError{
		SubSystem: "sfnt/glyf",
		Reason:    reason,
	}
}
