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

// Package header reads and writes the sfnt table directory.
// https://docs.microsoft.com/en-us/typography/opentype/spec/otff
package header

import (
	"bytes"
	"encoding/binary"
	"io"
	"math/bits"
	"sort"

	"github.com/5hes/maple-font/sfnt/fonterror"
)

// Scaler types understood by this package.
const (
	ScalerTypeTrueType uint32 = 0x00010000
	ScalerTypeCFF      uint32 = 0x4F54544F // "OTTO"
	ScalerTypeApple    uint32 = 0x74727565 // "true"
)

// Info contains the contents of an sfnt file, split into tables.
type Info struct {
	ScalerType uint32
	Tables     map[string][]byte
}

// Read reads a complete sfnt file and splits it into tables.
func Read(data []byte) (*Info, error) {
	if len(data) < 12 {
		return nil, invalid("file too short")
	}
	scalerType := binary.BigEndian.Uint32(data[:4])
	switch scalerType {
	case ScalerTypeTrueType, ScalerTypeCFF, ScalerTypeApple:
		// pass
	default:
		return nil, &fonterror.NotSupportedError{
			SubSystem: "sfnt/header",
			Feature:   "unknown scaler type",
		}
	}

	numTables := int(binary.BigEndian.Uint16(data[4:6]))
	if len(data) < 12+16*numTables {
		return nil, invalid("truncated table directory")
	}

	tables := make(map[string][]byte, numTables)
	for i := 0; i < numTables; i++ {
		rec := data[12+16*i:]
		tag := string(rec[:4])
		offset := binary.BigEndian.Uint32(rec[8:12])
		length := binary.BigEndian.Uint32(rec[12:16])
		if int64(offset)+int64(length) > int64(len(data)) {
			return nil, invalid("table " + tag + " out of bounds")
		}
		if !isASCII(tag) {
			return nil, invalid("malformed table tag")
		}
		tables[tag] = data[offset : offset+length]
	}

	return &Info{
		ScalerType: scalerType,
		Tables:     tables,
	}, nil
}

// Write writes an sfnt file containing the given tables.
// Tables where the data is nil are not written, use a zero-length slice
// to write a table with no data.
// This changes the checksum in the "head" table in place.
func Write(w io.Writer, scalerType uint32, tables map[string][]byte) (int64, error) {
	tableNames := make([]string, 0, len(tables))
	for name, data := range tables {
		if data != nil && len(name) == 4 && isASCII(name) {
			tableNames = append(tableNames, name)
		}
	}
	numTables := len(tableNames)

	// sort the table names in the recommended order
	sort.Slice(tableNames, func(i, j int) bool {
		iPrio := ttTableOrder[tableNames[i]]
		jPrio := ttTableOrder[tableNames[j]]
		if iPrio != jPrio {
			return iPrio > jPrio
		}
		return tableNames[i] < tableNames[j]
	})

	// prepare the header
	entrySelector := bits.Len(uint(numTables)) - 1
	header := &offsets{
		ScalerType:    scalerType,
		NumTables:     uint16(numTables),
		SearchRange:   1 << (entrySelector + 4),
		EntrySelector: uint16(entrySelector),
		RangeShift:    uint16(16 * (numTables - 1<<entrySelector)),
	}

	// temporarily clear the checksum in the "head" table
	if headData, ok := tables["head"]; ok && len(headData) >= 12 {
		clearChecksum(headData)
	}

	var totalSum uint32
	offset := uint32(12 + 16*numTables)
	records := make([]rawRecord, numTables)
	for i, name := range tableNames {
		body := tables[name]
		length := uint32(len(body))
		checksum := checksum(body)

		records[i].Tag = tag{name[0], name[1], name[2], name[3]}
		records[i].CheckSum = checksum
		records[i].Offset = offset
		records[i].Length = length

		totalSum += checksum
		offset += 4 * ((length + 3) / 4)
	}
	sort.Slice(records, func(i, j int) bool {
		return bytes.Compare(records[i].Tag[:], records[j].Tag[:]) < 0
	})

	buf := &bytes.Buffer{}
	_ = binary.Write(buf, binary.BigEndian, header)
	_ = binary.Write(buf, binary.BigEndian, records)
	headerBytes := buf.Bytes()
	totalSum += checksum(headerBytes)

	// set the final checksum in the "head" table
	if headData, ok := tables["head"]; ok && len(headData) >= 12 {
		patchChecksum(headData, totalSum)
	}

	// write the tables
	var totalSize int64
	n, err := w.Write(headerBytes)
	totalSize += int64(n)
	if err != nil {
		return totalSize, err
	}
	var pad [3]byte
	for _, name := range tableNames {
		body := tables[name]
		n, err := w.Write(body)
		totalSize += int64(n)
		if err != nil {
			return totalSize, err
		}
		if k := n % 4; k != 0 {
			l, err := w.Write(pad[:4-k])
			totalSize += int64(l)
			if err != nil {
				return totalSize, err
			}
		}
	}
	return totalSize, nil
}

func checksum(data []byte) uint32 {
	var sum uint32
	for i := 0; i+3 < len(data); i += 4 {
		sum += binary.BigEndian.Uint32(data[i : i+4])
	}
	if k := len(data) % 4; k != 0 {
		var last [4]byte
		copy(last[:], data[len(data)-k:])
		sum += binary.BigEndian.Uint32(last[:])
	}
	return sum
}

// clearChecksum zeros the checksum field of the head table.
func clearChecksum(head []byte) {
	binary.BigEndian.PutUint32(head[8:12], 0)
}

// patchChecksum updates the checksum of the head table.
// The argument is the checksum of the entire font before patching.
func patchChecksum(head []byte, checksum uint32) {
	binary.BigEndian.PutUint32(head[8:12], 0xB1B0AFBA-checksum)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7E {
			return false
		}
	}
	return true
}

func invalid(reason string) error {
	return &fonterror.InvalidFontError{
		SubSystem: "sfnt/header",
		Reason:    reason,
	}
}

// The offsets sub-table forms the first part of Header.
type offsets struct {
	ScalerType    uint32
	NumTables     uint16
	SearchRange   uint16
	EntrySelector uint16
	RangeShift    uint16
}

// A rawRecord is part of the file Header.  It contains data about a single
// sfnt table.
type rawRecord struct {
	Tag      tag
	CheckSum uint32
	Offset   uint32
	Length   uint32
}

type tag [4]byte

// https://docs.microsoft.com/en-us/typography/opentype/spec/recom#optimized-table-ordering
var ttTableOrder = map[string]int{
	"head": 95,
	"hhea": 90,
	"maxp": 85,
	"OS/2": 80,
	"hmtx": 75,
	"LTSH": 70,
	"VDMX": 65,
	"hdmx": 60,
	"cmap": 55,
	"fpgm": 50,
	"prep": 45,
	"cvt ": 40,
	"loca": 35,
	"glyf": 30,
	"kern": 25,
	"name": 20,
	"post": 15,
	"gasp": 10,
	"DSIG": 5,
}
