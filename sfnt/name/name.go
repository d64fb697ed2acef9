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

// Package name has code for reading and writing OpenType "name" tables.
// These tables contain localized strings associated with a font.
// https://docs.microsoft.com/en-us/typography/opentype/spec/name
package name

import (
	"sort"
	"unicode/utf16"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/5hes/maple-font/sfnt/fonterror"
)

// ID identifies a string in the "name" table.
type ID uint16

// Name IDs used by the build pipeline.
const (
	Copyright            ID = 0
	FontFamily           ID = 1
	Subfamily            ID = 2
	UniqueID             ID = 3
	FullName             ID = 4
	Version              ID = 5
	PostScriptName       ID = 6
	Trademark            ID = 7
	TypographicFamily    ID = 16
	TypographicSubfamily ID = 17
	VariationsPSPrefix   ID = 25
)

// Info contains information from the "name" table.
type Info struct {
	Mac     Tables
	Windows Tables
}

// Tables maps BCP 47 language tags to name tables.
type Tables map[string]*Table

// Table holds the strings for one platform/language combination.
type Table struct {
	entries map[ID]string
}

// Get returns the string with the given ID, or "" if absent.
func (t *Table) Get(id ID) string {
	if t == nil {
		return ""
	}
	return t.entries[id]
}

// Set stores a string under the given ID.
func (t *Table) Set(id ID, val string) {
	if t.entries == nil {
		t.entries = make(map[ID]string)
	}
	t.entries[id] = val
}

// Delete removes the string with the given ID, if present.
func (t *Table) Delete(id ID) {
	delete(t.entries, id)
}

func (t *Table) keys() []ID {
	keys := make([]ID, 0, len(t.entries))
	for id := range t.entries {
		keys = append(keys, id)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Decode extracts information from the "name" table.
func Decode(data []byte) (*Info, error) {
	if len(data) < 6 {
		return nil, errMalformedNames
	}
	version := uint16(data[0])<<8 | uint16(data[1])
	numRec := int(data[2])<<8 | int(data[3])
	storageOffset := int(data[4])<<8 | int(data[5])

	if version > 1 {
		return nil, errMalformedNames
	}

	recBase := 6
	endOfHeader := recBase + 12*numRec
	if endOfHeader > len(data) {
		return nil, errMalformedNames
	}

	numLang := 0
	if version > 0 {
		if endOfHeader+2 > len(data) {
			return nil, errMalformedNames
		}
		numLang = int(data[endOfHeader])<<8 | int(data[endOfHeader+1])
		endOfHeader += 2 + numLang*4
	}
	if storageOffset < endOfHeader || storageOffset > len(data) {
		return nil, errMalformedNames
	}

	macTables := make(Tables)
	msTables := make(Tables)

recLoop:
	for i := 0; i < numRec; i++ {
		pos := recBase + i*12
		platformID := uint16(data[pos])<<8 | uint16(data[pos+1])
		encodingID := uint16(data[pos+2])<<8 | uint16(data[pos+3])
		languageID := uint16(data[pos+4])<<8 | uint16(data[pos+5])
		nameID := ID(data[pos+6])<<8 | ID(data[pos+7])
		nameLen := int(data[pos+8])<<8 | int(data[pos+9])
		nameOffset := int(data[pos+10])<<8 | int(data[pos+11])

		// We only use records where we understand platformID and languageID.
		var key string
		switch platformID {
		case 1: // Macintosh
			key = appleBCP[languageID]
		case 3: // Windows
			key = msBCP[languageID]
		}
		if key == "" {
			continue
		}

		if storageOffset+nameOffset+nameLen > len(data) {
			return nil, errMalformedNames
		}
		nameBytes := data[storageOffset+nameOffset : storageOffset+nameOffset+nameLen]

		// We ignore encodings we don't understand.
		var val string
		if platformID == 3 && encodingID == 1 { // Windows, Unicode BMP
			val = utf16Decode(nameBytes)
		} else if platformID == 1 && encodingID == 0 { // Macintosh, Roman
			val = macDecode(nameBytes)
		}
		if val == "" {
			continue recLoop
		}

		switch platformID {
		case 1: // Macintosh
			t := macTables[key]
			if t == nil {
				t = &Table{}
			}
			t.Set(nameID, val)
			macTables[key] = t
		case 3: // Windows
			t := msTables[key]
			if t == nil {
				t = &Table{}
			}
			t.Set(nameID, val)
			msTables[key] = t
		}
	}

	return &Info{
		Mac:     macTables,
		Windows: msTables,
	}, nil
}

// Encode converts a "name" table into its binary form.
func (info *Info) Encode(windowsEncodingID uint16) []byte {
	type recInfo struct {
		PlatformID uint16
		EncodingID uint16
		LanguageID uint16
		NameID     uint16
		offset     uint16
		length     uint16
	}
	var records []*recInfo

	b := newNameBuilder()

	// platform ID 1 (Macintosh)
	for languageID, tag := range appleBCP {
		t := info.Mac[tag]
		if t == nil {
			continue
		}
		for _, nameID := range t.keys() {
			val := t.Get(nameID)
			offset, length := b.Add(macEncode(val))
			rec := &recInfo{
				PlatformID: 1, // Macintosh
				EncodingID: 0, // Roman
				LanguageID: languageID,
				NameID:     uint16(nameID),
				offset:     offset,
				length:     length,
			}
			records = append(records, rec)
		}
	}

	// Platform ID 3 (Windows).
	// Encoding IDs for platform 3 'name' entries must match the encoding IDs
	// used for platform 3 subtables in the 'cmap' table.
	for languageID, tag := range msBCP {
		t := info.Windows[tag]
		if t == nil {
			continue
		}
		for _, nameID := range t.keys() {
			val := t.Get(nameID)
			offset, length := b.Add(utf16Encode(val))
			rec := &recInfo{
				PlatformID: 3, // Windows
				EncodingID: windowsEncodingID,
				LanguageID: languageID,
				NameID:     uint16(nameID),
				offset:     offset,
				length:     length,
			}
			records = append(records, rec)
		}
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].PlatformID != records[j].PlatformID {
			return records[i].PlatformID < records[j].PlatformID
		}
		if records[i].EncodingID != records[j].EncodingID {
			return records[i].EncodingID < records[j].EncodingID
		}
		if records[i].LanguageID != records[j].LanguageID {
			return records[i].LanguageID < records[j].LanguageID
		}
		return records[i].NameID < records[j].NameID
	})

	numRec := len(records)
	startOfRecords := 6
	startOfStrings := startOfRecords + numRec*12
	res := make([]byte, startOfStrings+len(b.data))

	res[2] = byte(numRec >> 8)
	res[3] = byte(numRec)
	res[4] = byte(startOfStrings >> 8)
	res[5] = byte(startOfStrings)
	for i := 0; i < numRec; i++ {
		rec := records[i]
		base := startOfRecords + i*12
		res[base] = byte(rec.PlatformID >> 8)
		res[base+1] = byte(rec.PlatformID)
		res[base+2] = byte(rec.EncodingID >> 8)
		res[base+3] = byte(rec.EncodingID)
		res[base+4] = byte(rec.LanguageID >> 8)
		res[base+5] = byte(rec.LanguageID)
		res[base+6] = byte(rec.NameID >> 8)
		res[base+7] = byte(rec.NameID)
		res[base+8] = byte(rec.length >> 8)
		res[base+9] = byte(rec.length)
		res[base+10] = byte(rec.offset >> 8)
		res[base+11] = byte(rec.offset)
	}
	copy(res[startOfStrings:], b.data)

	return res
}

// Get returns the default-platform (Windows en-US) string for the given ID.
func (info *Info) Get(id ID) string {
	return info.Windows[defaultLang].Get(id)
}

// Set stores a string on the default platform.  If a Macintosh table for
// English exists, it is updated as well, so the two platforms stay in sync.
func (info *Info) Set(id ID, val string) {
	if info.Windows == nil {
		info.Windows = make(Tables)
	}
	t := info.Windows[defaultLang]
	if t == nil {
		t = &Table{}
		info.Windows[defaultLang] = t
	}
	t.Set(id, val)

	if mt := info.Mac["en"]; mt != nil {
		mt.Set(id, val)
	}
}

// Delete removes the given ID from every platform and language.
func (info *Info) Delete(id ID) {
	for _, t := range info.Windows {
		t.Delete(id)
	}
	for _, t := range info.Mac {
		t.Delete(id)
	}
}

// StripMac removes all Macintosh-platform records.
func (info *Info) StripMac() {
	info.Mac = make(Tables)
}

const defaultLang = "en-US"

type nameBuilder struct {
	data []byte
	idx  map[string]uint16
}

func newNameBuilder() *nameBuilder {
	return &nameBuilder{
		idx: make(map[string]uint16),
	}
}

func (nb *nameBuilder) Add(b []byte) (offs, length uint16) {
	key := string(b)
	if idx, ok := nb.idx[key]; ok {
		return idx, uint16(len(b))
	}
	idx := uint16(len(nb.data))
	nb.idx[key] = idx
	nb.data = append(nb.data, b...)
	return idx, uint16(len(b))
}

func utf16Encode(s string) []byte {
	rr := utf16.Encode([]rune(s))
	res := make([]byte, len(rr)*2)
	for i, r := range rr {
		res[i*2] = byte(r >> 8)
		res[i*2+1] = byte(r)
	}
	return res
}

func utf16Decode(buf []byte) string {
	var nameWords []uint16
	for i := 0; i+1 < len(buf); i += 2 {
		nameWords = append(nameWords, uint16(buf[i])<<8|uint16(buf[i+1]))
	}
	return string(utf16.Decode(nameWords))
}

func macDecode(buf []byte) string {
	res, err := charmap.Macintosh.NewDecoder().Bytes(buf)
	if err != nil {
		return ""
	}
	return string(res)
}

func macEncode(s string) []byte {
	enc := encoding.ReplaceUnsupported(charmap.Macintosh.NewEncoder())
	res, err := enc.Bytes([]byte(s))
	if err != nil {
		return nil
	}
	return res
}

var errMalformedNames = &fonterror.InvalidFontError{
	SubSystem: "sfnt/name",
	Reason:    "malformed name table",
}
