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

// Simple glyph flag bits.
const (
	flagOnCurve       = 0x01
	flagXShort        = 0x02
	flagYShort        = 0x04
	flagRepeat        = 0x08
	flagXSameOrPos    = 0x10
	flagYSameOrPos    = 0x20
	flagOverlapSimple = 0x40
)

// simpleGlyph is the decoded form of a non-composite glyph record.
type simpleGlyph struct {
	endPts       []uint16
	instructions []byte
	flags        []byte // expanded, one per point
	xs, ys       []int16
}

func (g *Glyph) decodeSimple() (*simpleGlyph, error) {
	numContours := int(g.NumContours())
	if numContours <= 0 {
		panic("sfnt/glyf: not a simple glyph")
	}
	data := g.data[glyphHeaderLength:]

	if len(data) < 2*numContours+2 {
		return nil, invalid("truncated simple glyph")
	}
	endPts := make([]uint16, numContours)
	for i := range endPts {
		endPts[i] = binary.BigEndian.Uint16(data[2*i:])
	}
	numPoints := int(endPts[numContours-1]) + 1
	pos := 2 * numContours

	instrLen := int(binary.BigEndian.Uint16(data[pos:]))
	pos += 2
	if len(data) < pos+instrLen {
		return nil, invalid("truncated glyph instructions")
	}
	instructions := data[pos : pos+instrLen]
	pos += instrLen

	// expand flags
	flags := make([]byte, numPoints)
	for i := 0; i < numPoints; {
		if pos >= len(data) {
			return nil, invalid("truncated glyph flags")
		}
		f := data[pos]
		pos++
		flags[i] = f
		i++
		if f&flagRepeat != 0 {
			if pos >= len(data) {
				return nil, invalid("truncated glyph flags")
			}
			n := int(data[pos])
			pos++
			for ; n > 0 && i < numPoints; n-- {
				flags[i] = f
				i++
			}
		}
	}

	// x coordinates
	xs := make([]int16, numPoints)
	var x int16
	for i, f := range flags {
		switch {
		case f&flagXShort != 0:
			if pos >= len(data) {
				return nil, invalid("truncated x coordinates")
			}
			d := int16(data[pos])
			pos++
			if f&flagXSameOrPos == 0 {
				d = -d
			}
			x += d
		case f&flagXSameOrPos == 0:
			if pos+1 >= len(data) {
				return nil, invalid("truncated x coordinates")
			}
			x += int16(binary.BigEndian.Uint16(data[pos:]))
			pos += 2
		}
		xs[i] = x
	}

	// y coordinates
	ys := make([]int16, numPoints)
	var y int16
	for i, f := range flags {
		switch {
		case f&flagYShort != 0:
			if pos >= len(data) {
				return nil, invalid("truncated y coordinates")
			}
			d := int16(data[pos])
			pos++
			if f&flagYSameOrPos == 0 {
				d = -d
			}
			y += d
		case f&flagYSameOrPos == 0:
			if pos+1 >= len(data) {
				return nil, invalid("truncated y coordinates")
			}
			y += int16(binary.BigEndian.Uint16(data[pos:]))
			pos += 2
		}
		ys[i] = y
	}

	return &simpleGlyph{
		endPts:       endPts,
		instructions: instructions,
		flags:        flags,
		xs:           xs,
		ys:           ys,
	}, nil
}

// encode rebuilds the binary glyph record, recomputing the bounding box
// from the coordinates.
func (sg *simpleGlyph) encode() []byte {
	numPoints := len(sg.xs)

	var xMin, yMin, xMax, yMax int16
	if numPoints > 0 {
		xMin, xMax = sg.xs[0], sg.xs[0]
		yMin, yMax = sg.ys[0], sg.ys[0]
		for i := 1; i < numPoints; i++ {
			if sg.xs[i] < xMin {
				xMin = sg.xs[i]
			}
			if sg.xs[i] > xMax {
				xMax = sg.xs[i]
			}
			if sg.ys[i] < yMin {
				yMin = sg.ys[i]
			}
			if sg.ys[i] > yMax {
				yMax = sg.ys[i]
			}
		}
	}

	flags := make([]byte, numPoints)
	var xData, yData []byte
	var x, y int16
	for i := 0; i < numPoints; i++ {
		f := sg.flags[i] & (flagOnCurve | flagOverlapSimple)

		dx := sg.xs[i] - x
		x = sg.xs[i]
		switch {
		case dx == 0:
			f |= flagXSameOrPos
		case dx >= -255 && dx <= 255:
			f |= flagXShort
			if dx > 0 {
				f |= flagXSameOrPos
				xData = append(xData, byte(dx))
			} else {
				xData = append(xData, byte(-dx))
			}
		default:
			xData = append(xData, byte(uint16(dx)>>8), byte(uint16(dx)))
		}

		dy := sg.ys[i] - y
		y = sg.ys[i]
		switch {
		case dy == 0:
			f |= flagYSameOrPos
		case dy >= -255 && dy <= 255:
			f |= flagYShort
			if dy > 0 {
				f |= flagYSameOrPos
				yData = append(yData, byte(dy))
			} else {
				yData = append(yData, byte(-dy))
			}
		default:
			yData = append(yData, byte(uint16(dy)>>8), byte(uint16(dy)))
		}

		flags[i] = f
	}

	n := glyphHeaderLength + 2*len(sg.endPts) + 2 + len(sg.instructions) +
		len(flags) + len(xData) + len(yData)
	buf := make([]byte, 0, n)

	var hdr [glyphHeaderLength]byte
	binary.BigEndian.PutUint16(hdr[0:], uint16(len(sg.endPts)))
	binary.BigEndian.PutUint16(hdr[2:], uint16(xMin))
	binary.BigEndian.PutUint16(hdr[4:], uint16(yMin))
	binary.BigEndian.PutUint16(hdr[6:], uint16(xMax))
	binary.BigEndian.PutUint16(hdr[8:], uint16(yMax))
	buf = append(buf, hdr[:]...)

	for _, e := range sg.endPts {
		buf = append(buf, byte(e>>8), byte(e))
	}
	buf = append(buf, byte(len(sg.instructions)>>8), byte(len(sg.instructions)))
	buf = append(buf, sg.instructions...)
	buf = append(buf, flags...)
	buf = append(buf, xData...)
	buf = append(buf, yData...)

	return buf
}

// NewSimple builds a glyph with a single closed contour through the
// given on-curve points.
func NewSimple(xs, ys []int16) *Glyph {
	if len(xs) == 0 || len(xs) != len(ys) {
		panic("sfnt/glyf: invalid contour")
	}
	flags := make([]byte, len(xs))
	for i := range flags {
		flags[i] = flagOnCurve
	}
	sg := &simpleGlyph{
		endPts: []uint16{uint16(len(xs) - 1)},
		flags:  flags,
		xs:     xs,
		ys:     ys,
	}
	return &Glyph{data: sg.encode()}
}

// Coordinates returns the outline points of a simple glyph.  Blank
// glyphs yield nil slices.
func (g *Glyph) Coordinates() (xs, ys []int16, err error) {
	if g.IsBlank() {
		return nil, nil, nil
	}
	if g.IsComposite() {
		return nil, nil, invalid("composite glyph has no own points")
	}
	sg, err := g.decodeSimple()
	if err != nil {
		return nil, nil, err
	}
	return sg.xs, sg.ys, nil
}

// Translate moves every outline coordinate of the glyph by (dx, 0) and
// recomputes the bounding box.  Blank glyphs are unchanged.
func (g *Glyph) Translate(dx funit.Int16) error {
	if g.IsBlank() || dx == 0 {
		return nil
	}
	if g.IsComposite() {
		return g.translateComposite(int16(dx))
	}

	sg, err := g.decodeSimple()
	if err != nil {
		return err
	}
	for i := range sg.xs {
		sg.xs[i] += int16(dx)
	}
	g.data = sg.encode()
	return nil
}
