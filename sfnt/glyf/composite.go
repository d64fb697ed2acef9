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

package glyf

import (
	"encoding/binary"

	"github.com/5hes/maple-font/sfnt/funit"
)

// Composite glyph flag bits.
const (
	flagArg1And2AreWords   = 0x0001
	flagArgsAreXYValues    = 0x0002
	flagWeHaveAScale       = 0x0008
	flagMoreComponents     = 0x0020
	flagWeHaveXAndYScale   = 0x0040
	flagWeHaveA2x2         = 0x0080
	flagWeHaveInstructions = 0x0100
)

// component is one entry of a composite glyph.
type component struct {
	flags      uint16
	glyphIndex GlyphID
	arg1, arg2 int16
	scale      []byte // raw transformation bytes, layout per flags
}

// decodeComposite parses the component list of a composite glyph.  The
// returned trailer holds any hinting instructions following the last
// component.
func (g *Glyph) decodeComposite() (comps []component, trailer []byte, err error) {
	data := g.data[glyphHeaderLength:]
	pos := 0
	haveInstr := false
	for {
		if pos+4 > len(data) {
			return nil, nil, invalid("truncated composite glyph")
		}
		var c component
		c.flags = binary.BigEndian.Uint16(data[pos:])
		c.glyphIndex = GlyphID(binary.BigEndian.Uint16(data[pos+2:]))
		pos += 4

		if c.flags&flagArg1And2AreWords != 0 {
			if pos+4 > len(data) {
				return nil, nil, invalid("truncated composite glyph")
			}
			c.arg1 = int16(binary.BigEndian.Uint16(data[pos:]))
			c.arg2 = int16(binary.BigEndian.Uint16(data[pos+2:]))
			pos += 4
		} else {
			if pos+2 > len(data) {
				return nil, nil, invalid("truncated composite glyph")
			}
			c.arg1 = int16(int8(data[pos]))
			c.arg2 = int16(int8(data[pos+1]))
			pos += 2
		}

		scaleLen := 0
		switch {
		case c.flags&flagWeHaveAScale != 0:
			scaleLen = 2
		case c.flags&flagWeHaveXAndYScale != 0:
			scaleLen = 4
		case c.flags&flagWeHaveA2x2 != 0:
			scaleLen = 8
		}
		if pos+scaleLen > len(data) {
			return nil, nil, invalid("truncated composite glyph")
		}
		c.scale = data[pos : pos+scaleLen]
		pos += scaleLen

		if c.flags&flagWeHaveInstructions != 0 {
			haveInstr = true
		}
		comps = append(comps, c)
		if c.flags&flagMoreComponents == 0 {
			break
		}
	}
	if haveInstr {
		trailer = data[pos:]
	}
	return comps, trailer, nil
}

// encodeComposite rebuilds a composite glyph record around the given
// header (bounding box) bytes.
func encodeComposite(hdr []byte, comps []component, trailer []byte) []byte {
	buf := make([]byte, 0, glyphHeaderLength+8*len(comps)+len(trailer))
	buf = append(buf, hdr[:glyphHeaderLength]...)
	for _, c := range comps {
		flags := c.flags
		if c.arg1 < -128 || c.arg1 > 127 || c.arg2 < -128 || c.arg2 > 127 {
			flags |= flagArg1And2AreWords
		}
		buf = append(buf, byte(flags>>8), byte(flags))
		buf = append(buf, byte(c.glyphIndex>>8), byte(c.glyphIndex))
		if flags&flagArg1And2AreWords != 0 {
			buf = append(buf,
				byte(uint16(c.arg1)>>8), byte(uint16(c.arg1)),
				byte(uint16(c.arg2)>>8), byte(uint16(c.arg2)))
		} else {
			buf = append(buf, byte(int8(c.arg1)), byte(int8(c.arg2)))
		}
		buf = append(buf, c.scale...)
	}
	buf = append(buf, trailer...)
	return buf
}

// translateComposite shifts a composite glyph by dx.  Component offsets
// given as point indices are anchored and left alone.
func (g *Glyph) translateComposite(dx int16) error {
	comps, trailer, err := g.decodeComposite()
	if err != nil {
		return err
	}
	for i := range comps {
		if comps[i].flags&flagArgsAreXYValues != 0 {
			comps[i].arg1 += dx
		}
	}

	hdr := make([]byte, glyphHeaderLength)
	copy(hdr, g.data[:glyphHeaderLength])
	xMin := int16(binary.BigEndian.Uint16(hdr[2:])) + dx
	xMax := int16(binary.BigEndian.Uint16(hdr[6:])) + dx
	binary.BigEndian.PutUint16(hdr[2:], uint16(xMin))
	binary.BigEndian.PutUint16(hdr[6:], uint16(xMax))

	g.data = encodeComposite(hdr, comps, trailer)
	return nil
}

// NewComposite builds a glyph made of a single component placed at
// (dx, dy).
func NewComposite(ref GlyphID, dx, dy int16, bbox funit.Rect) *Glyph {
	hdr := make([]byte, glyphHeaderLength)
	binary.BigEndian.PutUint16(hdr[0:], 0xFFFF) // numberOfContours = -1
	binary.BigEndian.PutUint16(hdr[2:], uint16(bbox.LLx))
	binary.BigEndian.PutUint16(hdr[4:], uint16(bbox.LLy))
	binary.BigEndian.PutUint16(hdr[6:], uint16(bbox.URx))
	binary.BigEndian.PutUint16(hdr[8:], uint16(bbox.URy))
	comps := []component{{
		flags:      flagArgsAreXYValues,
		glyphIndex: ref,
		arg1:       dx,
		arg2:       dy,
	}}
	return &Glyph{data: encodeComposite(hdr, comps, nil)}
}

// Components returns the glyph IDs referenced by a composite glyph, or
// nil for simple and blank glyphs.
func (g *Glyph) Components() ([]GlyphID, error) {
	if !g.IsComposite() {
		return nil, nil
	}
	comps, _, err := g.decodeComposite()
	if err != nil {
		return nil, err
	}
	gids := make([]GlyphID, len(comps))
	for i, c := range comps {
		gids[i] = c.glyphIndex
	}
	return gids, nil
}

// FixComponents rewrites component glyph indices through the given
// mapping.  Indices not present in the map are unchanged.  Simple and
// blank glyphs are ignored.
func (g *Glyph) FixComponents(mapping map[GlyphID]GlyphID) error {
	if !g.IsComposite() || len(mapping) == 0 {
		return nil
	}
	comps, trailer, err := g.decodeComposite()
	if err != nil {
		return err
	}
	changed := false
	for i := range comps {
		if newGID, ok := mapping[comps[i].glyphIndex]; ok && newGID != comps[i].glyphIndex {
			comps[i].glyphIndex = newGID
			changed = true
		}
	}
	if !changed {
		return nil
	}
	g.data = encodeComposite(g.data, comps, trailer)
	return nil
}
