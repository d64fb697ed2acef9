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

// Package os2 reads and writes "OS/2" tables.
// https://docs.microsoft.com/en-us/typography/opentype/spec/os2
package os2

import (
	"encoding/binary"

	"github.com/5hes/maple-font/sfnt/fonterror"
	"github.com/5hes/maple-font/sfnt/funit"
)

// Code page bits for the CodePageRange1 field.
const (
	CodePageLatin1             = 1 << 0  // 1252
	CodePageJapanese           = 1 << 17 // 932, Shift-JIS
	CodePageSimplifiedChinese  = 1 << 18 // 936, PRC
	CodePageTraditionalChinese = 1 << 20 // 950, Big5
)

// Info contains the information from the "OS/2" table.
type Info struct {
	Version          uint16
	AvgCharWidth     funit.Int16
	WeightClass      uint16
	WidthClass       uint16
	Type             uint16 // embedding permissions
	SubscriptXSize   funit.Int16
	SubscriptYSize   funit.Int16
	SubscriptXOff    funit.Int16
	SubscriptYOff    funit.Int16
	SuperscriptXSize funit.Int16
	SuperscriptYSize funit.Int16
	SuperscriptXOff  funit.Int16
	SuperscriptYOff  funit.Int16
	StrikeoutSize    funit.Int16
	StrikeoutPos     funit.Int16
	FamilyClass      int16
	Panose           [10]byte
	UnicodeRange     [4]uint32
	VendorID         [4]byte
	Selection        uint16
	FirstCharIndex   uint16
	LastCharIndex    uint16
	TypoAscender     funit.Int16
	TypoDescender    funit.Int16
	TypoLineGap      funit.Int16
	WinAscent        uint16
	WinDescent       uint16

	// version 1 and above
	CodePageRange1 uint32
	CodePageRange2 uint32

	// version 2 and above
	XHeight     funit.Int16
	CapHeight   funit.Int16
	DefaultChar uint16
	BreakChar   uint16
	MaxContext  uint16

	// version 5
	LowerOpticalPointSize uint16
	UpperOpticalPointSize uint16
}

func tableLength(version uint16) int {
	switch version {
	case 0:
		return 78
	case 1:
		return 86
	case 2, 3, 4:
		return 96
	default:
		return 100
	}
}

// Decode decodes the "OS/2" table.
func Decode(data []byte) (*Info, error) {
	if len(data) < 78 {
		return nil, invalid("table too short")
	}
	version := binary.BigEndian.Uint16(data[:2])
	if version > 5 {
		return nil, &fonterror.NotSupportedError{
			SubSystem: "sfnt/os2",
			Feature:   "OS/2 table version",
		}
	}
	if len(data) < tableLength(version) {
		return nil, invalid("table too short for version")
	}

	info := &Info{
		Version:          version,
		AvgCharWidth:     funit.Int16(binary.BigEndian.Uint16(data[2:])),
		WeightClass:      binary.BigEndian.Uint16(data[4:]),
		WidthClass:       binary.BigEndian.Uint16(data[6:]),
		Type:             binary.BigEndian.Uint16(data[8:]),
		SubscriptXSize:   funit.Int16(binary.BigEndian.Uint16(data[10:])),
		SubscriptYSize:   funit.Int16(binary.BigEndian.Uint16(data[12:])),
		SubscriptXOff:    funit.Int16(binary.BigEndian.Uint16(data[14:])),
		SubscriptYOff:    funit.Int16(binary.BigEndian.Uint16(data[16:])),
		SuperscriptXSize: funit.Int16(binary.BigEndian.Uint16(data[18:])),
		SuperscriptYSize: funit.Int16(binary.BigEndian.Uint16(data[20:])),
		SuperscriptXOff:  funit.Int16(binary.BigEndian.Uint16(data[22:])),
		SuperscriptYOff:  funit.Int16(binary.BigEndian.Uint16(data[24:])),
		StrikeoutSize:    funit.Int16(binary.BigEndian.Uint16(data[26:])),
		StrikeoutPos:     funit.Int16(binary.BigEndian.Uint16(data[28:])),
		FamilyClass:      int16(binary.BigEndian.Uint16(data[30:])),
		Selection:        binary.BigEndian.Uint16(data[62:]),
		FirstCharIndex:   binary.BigEndian.Uint16(data[64:]),
		LastCharIndex:    binary.BigEndian.Uint16(data[66:]),
		TypoAscender:     funit.Int16(binary.BigEndian.Uint16(data[68:])),
		TypoDescender:    funit.Int16(binary.BigEndian.Uint16(data[70:])),
		TypoLineGap:      funit.Int16(binary.BigEndian.Uint16(data[72:])),
		WinAscent:        binary.BigEndian.Uint16(data[74:]),
		WinDescent:       binary.BigEndian.Uint16(data[76:]),
	}
	copy(info.Panose[:], data[32:42])
	for i := range info.UnicodeRange {
		info.UnicodeRange[i] = binary.BigEndian.Uint32(data[42+4*i:])
	}
	copy(info.VendorID[:], data[58:62])

	if version >= 1 {
		info.CodePageRange1 = binary.BigEndian.Uint32(data[78:])
		info.CodePageRange2 = binary.BigEndian.Uint32(data[82:])
	}
	if version >= 2 {
		info.XHeight = funit.Int16(binary.BigEndian.Uint16(data[86:]))
		info.CapHeight = funit.Int16(binary.BigEndian.Uint16(data[88:]))
		info.DefaultChar = binary.BigEndian.Uint16(data[90:])
		info.BreakChar = binary.BigEndian.Uint16(data[92:])
		info.MaxContext = binary.BigEndian.Uint16(data[94:])
	}
	if version >= 5 {
		info.LowerOpticalPointSize = binary.BigEndian.Uint16(data[96:])
		info.UpperOpticalPointSize = binary.BigEndian.Uint16(data[98:])
	}

	return info, nil
}

// Encode encodes the "OS/2" table, preserving the version it was read with.
func (info *Info) Encode() []byte {
	data := make([]byte, tableLength(info.Version))
	binary.BigEndian.PutUint16(data[0:], info.Version)
	binary.BigEndian.PutUint16(data[2:], uint16(info.AvgCharWidth))
	binary.BigEndian.PutUint16(data[4:], info.WeightClass)
	binary.BigEndian.PutUint16(data[6:], info.WidthClass)
	binary.BigEndian.PutUint16(data[8:], info.Type)
	binary.BigEndian.PutUint16(data[10:], uint16(info.SubscriptXSize))
	binary.BigEndian.PutUint16(data[12:], uint16(info.SubscriptYSize))
	binary.BigEndian.PutUint16(data[14:], uint16(info.SubscriptXOff))
	binary.BigEndian.PutUint16(data[16:], uint16(info.SubscriptYOff))
	binary.BigEndian.PutUint16(data[18:], uint16(info.SuperscriptXSize))
	binary.BigEndian.PutUint16(data[20:], uint16(info.SuperscriptYSize))
	binary.BigEndian.PutUint16(data[22:], uint16(info.SuperscriptXOff))
	binary.BigEndian.PutUint16(data[24:], uint16(info.SuperscriptYOff))
	binary.BigEndian.PutUint16(data[26:], uint16(info.StrikeoutSize))
	binary.BigEndian.PutUint16(data[28:], uint16(info.StrikeoutPos))
	binary.BigEndian.PutUint16(data[30:], uint16(info.FamilyClass))
	copy(data[32:42], info.Panose[:])
	for i, r := range info.UnicodeRange {
		binary.BigEndian.PutUint32(data[42+4*i:], r)
	}
	copy(data[58:62], info.VendorID[:])
	binary.BigEndian.PutUint16(data[62:], info.Selection)
	binary.BigEndian.PutUint16(data[64:], info.FirstCharIndex)
	binary.BigEndian.PutUint16(data[66:], info.LastCharIndex)
	binary.BigEndian.PutUint16(data[68:], uint16(info.TypoAscender))
	binary.BigEndian.PutUint16(data[70:], uint16(info.TypoDescender))
	binary.BigEndian.PutUint16(data[72:], uint16(info.TypoLineGap))
	binary.BigEndian.PutUint16(data[74:], info.WinAscent)
	binary.BigEndian.PutUint16(data[76:], info.WinDescent)

	if info.Version >= 1 {
		binary.BigEndian.PutUint32(data[78:], info.CodePageRange1)
		binary.BigEndian.PutUint32(data[82:], info.CodePageRange2)
	}
	if info.Version >= 2 {
		binary.BigEndian.PutUint16(data[86:], uint16(info.XHeight))
		binary.BigEndian.PutUint16(data[88:], uint16(info.CapHeight))
		binary.BigEndian.PutUint16(data[90:], info.DefaultChar)
		binary.BigEndian.PutUint16(data[92:], info.BreakChar)
		binary.BigEndian.PutUint16(data[94:], info.MaxContext)
	}
	if info.Version >= 5 {
		binary.BigEndian.PutUint16(data[96:], info.LowerOpticalPointSize)
		binary.BigEndian.PutUint16(data[98:], info.UpperOpticalPointSize)
	}

	return data
}

func invalid(reason string) error {
	return &fonterror.InvalidFontError{
		SubSystem: "sfnt/os2",
		Reason:    reason,
	}
}
