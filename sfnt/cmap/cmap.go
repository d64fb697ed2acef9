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

// Package cmap reads and writes "cmap" tables.
// https://docs.microsoft.com/en-us/typography/opentype/spec/cmap
package cmap

import (
	"encoding/binary"
	"sort"

	"github.com/5hes/maple-font/sfnt/fonterror"
	"github.com/5hes/maple-font/sfnt/glyf"
)

// Key identifies a subtable of a cmap table.
type Key struct {
	PlatformID uint16 // 0 = Unicode, 1 = Macintosh, 3 = Microsoft
	EncodingID uint16
	Language   uint32
}

// Table contains the subtables of a cmap table, still in binary form.
type Table map[Key][]byte

// Decode splits a cmap table into its subtables.
func Decode(data []byte) (Table, error) {
	if len(data) < 4 {
		return nil, invalid("table header")
	}
	numTables := int(binary.BigEndian.Uint16(data[2:]))
	if len(data) < 4+8*numTables {
		return nil, invalid("encoding records")
	}

	endOfHeader := uint32(4 + 8*numTables)
	endOfData := uint32(len(data))

	res := make(Table, numTables)
	for i := 0; i < numTables; i++ {
		rec := data[4+8*i:]
		platformID := binary.BigEndian.Uint16(rec)
		encodingID := binary.BigEndian.Uint16(rec[2:])
		offset := binary.BigEndian.Uint32(rec[4:])
		if offset < endOfHeader || offset+2 > endOfData {
			return nil, invalid("subtable offset")
		}

		body := data[offset:]
		length, err := subtableLength(body)
		if err != nil {
			return nil, err
		}
		body = body[:length]

		key := Key{
			PlatformID: platformID,
			EncodingID: encodingID,
			Language:   subtableLanguage(body),
		}
		res[key] = body
	}
	return res, nil
}

// Encode converts the table back to binary form.  Identical subtables
// are stored only once.
func (t Table) Encode() []byte {
	keys := make([]Key, 0, len(t))
	for key := range t {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].PlatformID != keys[j].PlatformID {
			return keys[i].PlatformID < keys[j].PlatformID
		}
		if keys[i].EncodingID != keys[j].EncodingID {
			return keys[i].EncodingID < keys[j].EncodingID
		}
		return keys[i].Language < keys[j].Language
	})

	endOfHeader := 4 + 8*len(keys)
	buf := make([]byte, endOfHeader)
	binary.BigEndian.PutUint16(buf[2:], uint16(len(keys)))

	seen := make(map[string]uint32)
	for i, key := range keys {
		body := t[key]
		offset, ok := seen[string(body)]
		if !ok {
			offset = uint32(len(buf))
			seen[string(body)] = offset
			buf = append(buf, body...)
		}
		rec := buf[4+8*i:]
		binary.BigEndian.PutUint16(rec, key.PlatformID)
		binary.BigEndian.PutUint16(rec[2:], key.EncodingID)
		binary.BigEndian.PutUint32(rec[4:], offset)
	}
	return buf
}

// unicodeKeys lists subtable slots holding Unicode mappings, in order of
// preference.
var unicodeKeys = []Key{
	{PlatformID: 3, EncodingID: 10},
	{PlatformID: 0, EncodingID: 4},
	{PlatformID: 0, EncodingID: 6},
	{PlatformID: 3, EncodingID: 1},
	{PlatformID: 0, EncodingID: 3},
	{PlatformID: 0, EncodingID: 2},
	{PlatformID: 0, EncodingID: 1},
	{PlatformID: 0, EncodingID: 0},
}

// Mappings returns the Unicode character-to-glyph mapping of the most
// complete Unicode subtable present.
func (t Table) Mappings() (map[rune]glyf.GlyphID, error) {
	for _, key := range unicodeKeys {
		body, ok := t[key]
		if !ok {
			continue
		}
		return decodeSubtable(body)
	}
	return nil, &fonterror.MissingTableError{Table: "cmap (unicode)"}
}

// SetMappings replaces all Unicode subtables with freshly encoded ones
// holding the given mapping.  Non-Unicode subtables are unchanged.
func (t Table) SetMappings(m map[rune]glyf.GlyphID) {
	for _, key := range unicodeKeys {
		delete(t, key)
	}

	bmp := make(map[rune]glyf.GlyphID)
	hasSupplementary := false
	for r, gid := range m {
		if r <= 0xFFFF {
			bmp[r] = gid
		} else {
			hasSupplementary = true
		}
	}

	format4 := encodeFormat4(bmp)
	t[Key{PlatformID: 0, EncodingID: 3}] = format4
	t[Key{PlatformID: 3, EncodingID: 1}] = format4
	if hasSupplementary {
		format12 := encodeFormat12(m)
		t[Key{PlatformID: 0, EncodingID: 4}] = format12
		t[Key{PlatformID: 3, EncodingID: 10}] = format12
	}
}

func subtableLength(body []byte) (uint32, error) {
	format := binary.BigEndian.Uint16(body)
	switch format {
	case 0, 2, 4, 6:
		if len(body) < 4 {
			return 0, invalid("subtable header")
		}
		length := uint32(binary.BigEndian.Uint16(body[2:]))
		if length < 4 || length > uint32(len(body)) {
			return 0, invalid("subtable length")
		}
		return length, nil
	case 8, 10, 12, 13:
		if len(body) < 8 {
			return 0, invalid("subtable header")
		}
		length := binary.BigEndian.Uint32(body[4:])
		if length < 8 || length > uint32(len(body)) {
			return 0, invalid("subtable length")
		}
		return length, nil
	case 14:
		if len(body) < 6 {
			return 0, invalid("subtable header")
		}
		length := binary.BigEndian.Uint32(body[2:])
		if length < 6 || length > uint32(len(body)) {
			return 0, invalid("subtable length")
		}
		return length, nil
	default:
		return 0, &fonterror.NotSupportedError{
			SubSystem: "sfnt/cmap",
			Feature:   "subtable format",
		}
	}
}

func subtableLanguage(body []byte) uint32 {
	format := binary.BigEndian.Uint16(body)
	switch format {
	case 0, 2, 4, 6:
		if len(body) >= 6 {
			return uint32(binary.BigEndian.Uint16(body[4:]))
		}
	case 8, 10, 12, 13:
		if len(body) >= 12 {
			return binary.BigEndian.Uint32(body[8:])
		}
	}
	return 0
}

func invalid(reason string) error {
	return &fonterror.InvalidFontError{
		SubSystem: "sfnt/cmap",
		Reason:    reason,
	}
}
