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

// Package maxp reads and writes "maxp" tables.
// https://docs.microsoft.com/en-us/typography/opentype/spec/maxp
package maxp

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/5hes/maple-font/sfnt/fonterror"
)

const (
	versionCFF = 0x00005000
	versionTTF = 0x00010000
)

// Info contains information from the "maxp" table.
type Info struct {
	// NumGlyphs is the number of glyphs in the font, in the range 1 to 65535.
	NumGlyphs int

	// TTF holds the glyf-specific limits.  It is nil for CFF-based
	// fonts, whose maxp table is the short version 0.5.
	TTF *TTFInfo
}

// TTFInfo mirrors the version 1.0 fields after numGlyphs, in wire
// order.  When two glyph sets are merged the limits of the result are
// the elementwise maxima of the inputs.
type TTFInfo struct {
	MaxPoints             uint16
	MaxContours           uint16
	MaxCompositePoints    uint16
	MaxCompositeContours  uint16
	MaxZones              uint16
	MaxTwilightPoints     uint16
	MaxStorage            uint16
	MaxFunctionDefs       uint16
	MaxInstructionDefs    uint16
	MaxStackElements      uint16
	MaxSizeOfInstructions uint16
	MaxComponentElements  uint16
	MaxComponentDepth     uint16
}

// Read reads the "maxp" table.
func Read(r io.Reader) (*Info, error) {
	var header struct {
		Version   uint32
		NumGlyphs uint16
	}
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, err
	}

	switch header.Version {
	case versionCFF, versionTTF:
	default:
		return nil, &fonterror.NotSupportedError{
			SubSystem: "sfnt/maxp",
			Feature:   "maxp table version",
		}
	}
	if header.NumGlyphs == 0 {
		return nil, &fonterror.InvalidFontError{
			SubSystem: "sfnt/maxp",
			Reason:    "numGlyphs is zero",
		}
	}

	info := &Info{NumGlyphs: int(header.NumGlyphs)}
	if header.Version == versionCFF {
		return info, nil
	}

	ttf := &TTFInfo{}
	if err := binary.Read(r, binary.BigEndian, ttf); err != nil {
		return nil, err
	}
	info.TTF = ttf
	return info, nil
}

// Encode encodes the "maxp" table.
func (info *Info) Encode() []byte {
	if info.NumGlyphs < 1 || info.NumGlyphs > 0xFFFF {
		panic("sfnt/maxp: numGlyphs out of range")
	}

	version := uint32(versionCFF)
	if info.TTF != nil {
		version = versionTTF
	}

	buf := new(bytes.Buffer)
	_ = binary.Write(buf, binary.BigEndian, version)
	_ = binary.Write(buf, binary.BigEndian, uint16(info.NumGlyphs))
	if info.TTF != nil {
		_ = binary.Write(buf, binary.BigEndian, info.TTF)
	}
	return buf.Bytes()
}
