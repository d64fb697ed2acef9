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

// Package post has code for reading and writing the "post" table.
// https://docs.microsoft.com/en-us/typography/opentype/spec/post
package post

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/5hes/maple-font/sfnt/fonterror"
	"github.com/5hes/maple-font/sfnt/funit"
)

// Info contains information from the "post" table.
type Info struct {
	ItalicAngle        float64     // in degrees, negative leans right
	UnderlinePosition  funit.Int16 // negative, below the baseline
	UnderlineThickness funit.Int16
	IsFixedPitch       bool

	// Names holds one glyph name per glyph ID.  It is nil for
	// version 3 and 4 tables, which carry no names; for version 1
	// it aliases the standard Macintosh list and must not be
	// modified.
	Names []string
}

// Read reads the "post" table from r.
func Read(r io.Reader) (*Info, error) {
	var header postHeader
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, err
	}

	info := &Info{
		ItalicAngle:        float64(header.ItalicAngle) / 65536,
		UnderlinePosition:  header.UnderlinePosition,
		UnderlineThickness: header.UnderlineThickness,
		IsFixedPitch:       header.IsFixedPitch != 0,
	}

	switch header.Version {
	case 0x00010000:
		info.Names = macRoman

	case 0x00020000:
		body, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		info.Names, err = decodeNames(body)
		if err != nil {
			return nil, err
		}

	case 0x00030000, 0x00040000:
		// no glyph names

	default:
		return nil, &fonterror.NotSupportedError{
			SubSystem: "sfnt/post",
			Feature:   fmt.Sprintf("table version %08x", header.Version),
		}
	}

	return info, nil
}

// decodeNames parses the version 2 name index and string storage.
// Indices below 258 select the standard Macintosh names; higher ones
// count into the length-prefixed strings following the index.
func decodeNames(data []byte) ([]string, error) {
	if len(data) < 2 {
		return nil, invalid("glyph name index")
	}
	numGlyphs := int(binary.BigEndian.Uint16(data))
	storage := 2 + 2*numGlyphs
	if len(data) < storage {
		return nil, invalid("glyph name index")
	}

	var extra []string
	for pos := storage; pos < len(data); {
		l := int(data[pos])
		pos++
		if pos+l > len(data) {
			return nil, invalid("glyph name storage")
		}
		extra = append(extra, string(data[pos:pos+l]))
		pos += l
	}

	names := make([]string, numGlyphs)
	for i := range names {
		idx := int(binary.BigEndian.Uint16(data[2+2*i:]))
		switch {
		case idx < len(macRoman):
			names[i] = macRoman[idx]
		case idx-len(macRoman) < len(extra):
			names[i] = extra[idx-len(macRoman)]
		default:
			return nil, invalid("glyph name index out of range")
		}
	}
	return names, nil
}

// Encode encodes the "post" table.  The version is chosen from the
// name list: nil gives version 3, the standard Macintosh list gives
// version 1, anything else version 2.
func (info *Info) Encode() []byte {
	var version uint32
	switch {
	case info.Names == nil:
		version = 0x00030000
	case isMacRoman(info.Names):
		version = 0x00010000
	default:
		version = 0x00020000
	}

	header := &postHeader{
		Version:            version,
		ItalicAngle:        int32(math.Round(info.ItalicAngle * 65536)),
		UnderlinePosition:  info.UnderlinePosition,
		UnderlineThickness: info.UnderlineThickness,
	}
	if info.IsFixedPitch {
		header.IsFixedPitch = 1
	}
	buf := new(bytes.Buffer)
	_ = binary.Write(buf, binary.BigEndian, header)

	if version == 0x00020000 {
		var index []byte
		index = binary.BigEndian.AppendUint16(index, uint16(len(info.Names)))

		mac := make(map[string]int, len(macRoman))
		for i, name := range macRoman {
			mac[name] = i
		}
		var storage []byte
		numExtra := 0
		for _, name := range info.Names {
			idx, ok := mac[name]
			if !ok {
				idx = len(macRoman) + numExtra
				storage = append(storage, byte(len(name)))
				storage = append(storage, name...)
				numExtra++
			}
			index = binary.BigEndian.AppendUint16(index, uint16(idx))
		}
		buf.Write(index)
		buf.Write(storage)
	}

	return buf.Bytes()
}

func isMacRoman(names []string) bool {
	if len(names) != len(macRoman) {
		return false
	}
	for i, name := range names {
		if name != macRoman[i] {
			return false
		}
	}
	return true
}

func invalid(reason string) error {
	return &fonterror.InvalidFontError{
		SubSystem: "sfnt/post",
		Reason:    reason,
	}
}

type postHeader struct {
	Version            uint32
	ItalicAngle        int32
	UnderlinePosition  funit.Int16
	UnderlineThickness funit.Int16
	IsFixedPitch       uint32
	MinMemType42       uint32
	MaxMemType42       uint32
	MinMemType1        uint32
	MaxMemType1        uint32
}
