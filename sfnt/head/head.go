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

// Package head reads and writes "head" tables.
// https://docs.microsoft.com/en-us/typography/opentype/spec/head
package head

import (
	"bytes"
	"encoding/binary"

	"github.com/5hes/maple-font/sfnt/fonterror"
	"github.com/5hes/maple-font/sfnt/funit"
)

// Info contains information from the "head" table.
type Info struct {
	FontRevision     uint32 // Fixed 16.16, set by the font designer
	Flags            uint16
	UnitsPerEm       uint16
	Created          int64 // seconds since 1904-01-01
	Modified         int64
	BBox             funit.Rect
	MacStyle         uint16
	LowestRecPPEM    uint16
	FontDirHint      int16
	IndexToLocFormat int16 // 0 = short loca offsets, 1 = long
}

const headLength = 54

// Read decodes the "head" table.
func Read(data []byte) (*Info, error) {
	if len(data) < headLength {
		return nil, &fonterror.InvalidFontError{
			SubSystem: "sfnt/head",
			Reason:    "table too short",
		}
	}
	enc := &headEnc{}
	if err := binary.Read(bytes.NewReader(data), binary.BigEndian, enc); err != nil {
		return nil, err
	}
	if enc.Version != 0x00010000 {
		return nil, &fonterror.NotSupportedError{
			SubSystem: "sfnt/head",
			Feature:   "head table version",
		}
	}
	if enc.MagicNumber != 0x5F0F3CF5 {
		return nil, &fonterror.InvalidFontError{
			SubSystem: "sfnt/head",
			Reason:    "wrong magic number",
		}
	}

	return &Info{
		FontRevision: enc.FontRevision,
		Flags:        enc.Flags,
		UnitsPerEm:   enc.UnitsPerEm,
		Created:      enc.Created,
		Modified:     enc.Modified,
		BBox: funit.Rect{
			LLx: enc.XMin, LLy: enc.YMin,
			URx: enc.XMax, URy: enc.YMax,
		},
		MacStyle:         enc.MacStyle,
		LowestRecPPEM:    enc.LowestRecPPEM,
		FontDirHint:      enc.FontDirectionHint,
		IndexToLocFormat: enc.IndexToLocFormat,
	}, nil
}

// Encode encodes the "head" table.
// The checksum adjustment field is left as zero; it is patched when the
// complete font file is assembled.
func (info *Info) Encode() []byte {
	enc := &headEnc{
		Version:           0x00010000,
		FontRevision:      info.FontRevision,
		MagicNumber:       0x5F0F3CF5,
		Flags:             info.Flags,
		UnitsPerEm:        info.UnitsPerEm,
		Created:           info.Created,
		Modified:          info.Modified,
		XMin:              info.BBox.LLx,
		YMin:              info.BBox.LLy,
		XMax:              info.BBox.URx,
		YMax:              info.BBox.URy,
		MacStyle:          info.MacStyle,
		LowestRecPPEM:     info.LowestRecPPEM,
		FontDirectionHint: info.FontDirHint,
		IndexToLocFormat:  info.IndexToLocFormat,
	}
	buf := new(bytes.Buffer)
	_ = binary.Write(buf, binary.BigEndian, enc)
	return buf.Bytes()
}

type headEnc struct {
	Version            uint32
	FontRevision       uint32
	CheckSumAdjustment uint32
	MagicNumber        uint32
	Flags              uint16
	UnitsPerEm         uint16
	Created            int64
	Modified           int64
	XMin               funit.Int16
	YMin               funit.Int16
	XMax               funit.Int16
	YMax               funit.Int16
	MacStyle           uint16
	LowestRecPPEM      uint16
	FontDirectionHint  int16
	IndexToLocFormat   int16
	GlyphDataFormat    int16
}
