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

// Package meta reads and writes "meta" tables.
// https://docs.microsoft.com/en-us/typography/opentype/spec/meta
package meta

import (
	"encoding/binary"
	"sort"

	"github.com/5hes/maple-font/sfnt/fonterror"
)

// Tags of the text data maps holding language lists.
const (
	TagDesignLanguages    = "dlng"
	TagSupportedLanguages = "slng"
)

// Info maps data-map tags to their payload.  For "dlng" and "slng" the
// payload is a comma-separated list of ScriptLangTags.
type Info struct {
	Entries map[string][]byte
}

// Decode parses the binary form of a "meta" table.
func Decode(data []byte) (*Info, error) {
	if len(data) < 16 {
		return nil, invalid("table header")
	}
	version := binary.BigEndian.Uint32(data)
	if version != 1 {
		return nil, &fonterror.NotSupportedError{
			SubSystem: "sfnt/meta",
			Feature:   "table version",
		}
	}
	dataMapsCount := int(binary.BigEndian.Uint32(data[12:]))
	if len(data) < 16+12*dataMapsCount {
		return nil, invalid("data maps")
	}

	info := &Info{Entries: make(map[string][]byte, dataMapsCount)}
	for i := 0; i < dataMapsCount; i++ {
		rec := data[16+12*i:]
		tag := string(rec[:4])
		offset := binary.BigEndian.Uint32(rec[4:])
		length := binary.BigEndian.Uint32(rec[8:])
		if offset > uint32(len(data)) || length > uint32(len(data))-offset {
			return nil, invalid("data map extent")
		}
		info.Entries[tag] = data[offset : offset+length]
	}
	return info, nil
}

// Encode converts the table back to binary form.
func (info *Info) Encode() []byte {
	tags := make([]string, 0, len(info.Entries))
	for tag := range info.Entries {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	headerLen := 16 + 12*len(tags)
	buf := make([]byte, headerLen)
	binary.BigEndian.PutUint32(buf, 1)
	binary.BigEndian.PutUint32(buf[12:], uint32(len(tags)))
	for i, tag := range tags {
		rec := buf[16+12*i:]
		copy(rec, tag)
		binary.BigEndian.PutUint32(rec[4:], uint32(len(buf)))
		binary.BigEndian.PutUint32(rec[8:], uint32(len(info.Entries[tag])))
		buf = append(buf, info.Entries[tag]...)
	}
	return buf
}

// SetLanguages stores a language list under the given tag.
func (info *Info) SetLanguages(tag, languages string) {
	if info.Entries == nil {
		info.Entries = make(map[string][]byte)
	}
	info.Entries[tag] = []byte(languages)
}

func invalid(reason string) error {
	return &fonterror.InvalidFontError{
		SubSystem: "sfnt/meta",
		Reason:    reason,
	}
}
