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

// Package hmtx reads and writes "hhea" and "hmtx" tables.
// The two tables are coupled through the numberOfHMetrics field and are
// treated as one unit here.
// https://docs.microsoft.com/en-us/typography/opentype/spec/hhea
// https://docs.microsoft.com/en-us/typography/opentype/spec/hmtx
package hmtx

import (
	"encoding/binary"

	"github.com/5hes/maple-font/sfnt/fonterror"
	"github.com/5hes/maple-font/sfnt/funit"
)

// Info contains the information from the "hhea" and "hmtx" tables.
// Widths and LSBs are indexed by glyph ID and always cover every glyph.
type Info struct {
	Ascent  funit.Int16
	Descent funit.Int16 // negative
	LineGap funit.Int16

	AdvanceWidthMax uint16
	MinLSB          funit.Int16
	MinRSB          funit.Int16
	XMaxExtent      funit.Int16

	CaretSlopeRise int16
	CaretSlopeRun  int16
	CaretOffset    int16

	Widths []funit.Int16
	LSBs   []funit.Int16
}

const hheaLength = 36

// Decode decodes the "hhea" and "hmtx" tables.  The number of glyphs is
// taken from the "maxp" table.
func Decode(hhea, hmtx []byte, numGlyphs int) (*Info, error) {
	if len(hhea) < hheaLength {
		return nil, invalid("hhea table too short")
	}
	version := binary.BigEndian.Uint32(hhea[:4])
	if version != 0x00010000 {
		return nil, &fonterror.NotSupportedError{
			SubSystem: "sfnt/hmtx",
			Feature:   "hhea table version",
		}
	}

	info := &Info{
		Ascent:          funit.Int16(binary.BigEndian.Uint16(hhea[4:6])),
		Descent:         funit.Int16(binary.BigEndian.Uint16(hhea[6:8])),
		LineGap:         funit.Int16(binary.BigEndian.Uint16(hhea[8:10])),
		AdvanceWidthMax: binary.BigEndian.Uint16(hhea[10:12]),
		MinLSB:          funit.Int16(binary.BigEndian.Uint16(hhea[12:14])),
		MinRSB:          funit.Int16(binary.BigEndian.Uint16(hhea[14:16])),
		XMaxExtent:      funit.Int16(binary.BigEndian.Uint16(hhea[16:18])),
		CaretSlopeRise:  int16(binary.BigEndian.Uint16(hhea[18:20])),
		CaretSlopeRun:   int16(binary.BigEndian.Uint16(hhea[20:22])),
		CaretOffset:     int16(binary.BigEndian.Uint16(hhea[22:24])),
	}

	numberOfHMetrics := int(binary.BigEndian.Uint16(hhea[34:36]))
	if numberOfHMetrics < 1 || numberOfHMetrics > numGlyphs {
		return nil, invalid("numberOfHMetrics out of range")
	}
	if len(hmtx) < 4*numberOfHMetrics+2*(numGlyphs-numberOfHMetrics) {
		return nil, invalid("hmtx table too short")
	}

	info.Widths = make([]funit.Int16, numGlyphs)
	info.LSBs = make([]funit.Int16, numGlyphs)
	for i := 0; i < numberOfHMetrics; i++ {
		info.Widths[i] = funit.Int16(binary.BigEndian.Uint16(hmtx[4*i : 4*i+2]))
		info.LSBs[i] = funit.Int16(binary.BigEndian.Uint16(hmtx[4*i+2 : 4*i+4]))
	}
	lastWidth := info.Widths[numberOfHMetrics-1]
	base := 4 * numberOfHMetrics
	for i := numberOfHMetrics; i < numGlyphs; i++ {
		k := base + 2*(i-numberOfHMetrics)
		info.Widths[i] = lastWidth
		info.LSBs[i] = funit.Int16(binary.BigEndian.Uint16(hmtx[k : k+2]))
	}

	return info, nil
}

// Encode encodes the "hhea" and "hmtx" tables.  Trailing glyphs sharing one
// advance width are collapsed into the short form of the hmtx table.
func (info *Info) Encode() (hheaData, hmtxData []byte) {
	numGlyphs := len(info.Widths)
	numberOfHMetrics := numGlyphs
	for numberOfHMetrics > 1 &&
		info.Widths[numberOfHMetrics-1] == info.Widths[numberOfHMetrics-2] {
		numberOfHMetrics--
	}

	hheaData = make([]byte, hheaLength)
	binary.BigEndian.PutUint32(hheaData[0:4], 0x00010000)
	binary.BigEndian.PutUint16(hheaData[4:6], uint16(info.Ascent))
	binary.BigEndian.PutUint16(hheaData[6:8], uint16(info.Descent))
	binary.BigEndian.PutUint16(hheaData[8:10], uint16(info.LineGap))
	binary.BigEndian.PutUint16(hheaData[10:12], info.AdvanceWidthMax)
	binary.BigEndian.PutUint16(hheaData[12:14], uint16(info.MinLSB))
	binary.BigEndian.PutUint16(hheaData[14:16], uint16(info.MinRSB))
	binary.BigEndian.PutUint16(hheaData[16:18], uint16(info.XMaxExtent))
	binary.BigEndian.PutUint16(hheaData[18:20], uint16(info.CaretSlopeRise))
	binary.BigEndian.PutUint16(hheaData[20:22], uint16(info.CaretSlopeRun))
	binary.BigEndian.PutUint16(hheaData[22:24], uint16(info.CaretOffset))
	// bytes 24-33: reserved and metricDataFormat, all zero
	binary.BigEndian.PutUint16(hheaData[34:36], uint16(numberOfHMetrics))

	hmtxData = make([]byte, 4*numberOfHMetrics+2*(numGlyphs-numberOfHMetrics))
	for i := 0; i < numberOfHMetrics; i++ {
		binary.BigEndian.PutUint16(hmtxData[4*i:], uint16(info.Widths[i]))
		binary.BigEndian.PutUint16(hmtxData[4*i+2:], uint16(info.LSBs[i]))
	}
	base := 4 * numberOfHMetrics
	for i := numberOfHMetrics; i < numGlyphs; i++ {
		binary.BigEndian.PutUint16(hmtxData[base+2*(i-numberOfHMetrics):], uint16(info.LSBs[i]))
	}

	return hheaData, hmtxData
}

func invalid(reason string) error {
	return &fonterror.InvalidFontError{
		SubSystem: "sfnt/hmtx",
		Reason:    reason,
	}
}
