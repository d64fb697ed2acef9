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

// Package gtab reads and writes "GSUB" tables.
// https://docs.microsoft.com/en-us/typography/opentype/spec/gsub
package gtab

import (
	"encoding/binary"
	"fmt"

	"github.com/5hes/maple-font/sfnt/fonterror"
)

// LookupIndex enumerates lookups.
// It is used as an index into the lookup list.
type LookupIndex uint16

// Feature describes an OpenType feature: a tag together with the
// lookups it activates.
// https://docs.microsoft.com/en-us/typography/opentype/spec/featuretags
type Feature struct {
	Tag     string
	Lookups []LookupIndex
}

func (f Feature) String() string {
	return fmt.Sprintf("%s:%v", f.Tag, f.Lookups)
}

// FeatureListInfo contains the contents of an OpenType "Feature List"
// table.
type FeatureListInfo []*Feature

// Info represents a decoded "GSUB" table.  The script list and the
// feature-variations table are carried through unmodified.
type Info struct {
	MajorVersion uint16
	MinorVersion uint16

	ScriptList        []byte
	Features          FeatureListInfo
	Lookups           []*LookupTable
	FeatureVariations []byte
}

// Decode parses the binary form of a "GSUB" table.
func Decode(data []byte) (*Info, error) {
	if len(data) < 10 {
		return nil, invalid("table header")
	}
	info := &Info{
		MajorVersion: binary.BigEndian.Uint16(data),
		MinorVersion: binary.BigEndian.Uint16(data[2:]),
	}
	if info.MajorVersion != 1 || info.MinorVersion > 1 {
		return nil, &fonterror.NotSupportedError{
			SubSystem: "sfnt/gtab",
			Feature:   fmt.Sprintf("GSUB version %d.%d", info.MajorVersion, info.MinorVersion),
		}
	}
	scriptListOffset := int(binary.BigEndian.Uint16(data[4:]))
	featureListOffset := int(binary.BigEndian.Uint16(data[6:]))
	lookupListOffset := int(binary.BigEndian.Uint16(data[8:]))

	if info.MinorVersion == 1 {
		if len(data) < 14 {
			return nil, invalid("table header")
		}
		fvOffset := binary.BigEndian.Uint32(data[10:])
		if fvOffset != 0 {
			if fvOffset > uint32(len(data)) {
				return nil, invalid("feature variations offset")
			}
			info.FeatureVariations = data[fvOffset:]
		}
	}

	var err error
	info.ScriptList, err = rawScriptList(data, scriptListOffset)
	if err != nil {
		return nil, err
	}
	info.Features, err = readFeatureList(data, featureListOffset)
	if err != nil {
		return nil, err
	}
	info.Lookups, err = readLookupList(data, lookupListOffset)
	if err != nil {
		return nil, err
	}
	return info, nil
}

// Encode converts the table back to binary form.
func (info *Info) Encode() ([]byte, error) {
	headerLen := 10
	minorVersion := uint16(0)
	if info.FeatureVariations != nil {
		headerLen = 14
		minorVersion = 1
	}

	scriptList := info.ScriptList
	featureList := info.Features.encode()
	lookupList, err := info.encodeLookupList()
	if err != nil {
		return nil, err
	}

	scriptListOffset := headerLen
	featureListOffset := scriptListOffset + len(scriptList)
	lookupListOffset := featureListOffset + len(featureList)
	fvOffset := lookupListOffset + len(lookupList)
	if lookupListOffset > 0xFFFF {
		// TODO(gsub): relocate the lookup list before the feature list
		// when very large script lists push it out of uint16 range.
		return nil, invalid("lookup list offset overflow")
	}

	total := fvOffset + len(info.FeatureVariations)
	buf := make([]byte, headerLen, total)
	binary.BigEndian.PutUint16(buf, 1)
	binary.BigEndian.PutUint16(buf[2:], minorVersion)
	binary.BigEndian.PutUint16(buf[4:], uint16(scriptListOffset))
	binary.BigEndian.PutUint16(buf[6:], uint16(featureListOffset))
	binary.BigEndian.PutUint16(buf[8:], uint16(lookupListOffset))
	if headerLen == 14 {
		binary.BigEndian.PutUint32(buf[10:], uint32(fvOffset))
	}
	buf = append(buf, scriptList...)
	buf = append(buf, featureList...)
	buf = append(buf, lookupList...)
	buf = append(buf, info.FeatureVariations...)
	return buf, nil
}

// Find returns the first feature with the given tag, or nil.
func (info FeatureListInfo) Find(tag string) *Feature {
	for _, f := range info {
		if f.Tag == tag {
			return f
		}
	}
	return nil
}

// rawScriptList determines the extent of the script list table and
// returns it as an opaque byte slice.
// https://docs.microsoft.com/en-us/typography/opentype/spec/chapter2#script-list-table
func rawScriptList(data []byte, pos int) ([]byte, error) {
	if pos+2 > len(data) {
		return nil, invalid("script list")
	}
	base := data[pos:]
	scriptCount := int(binary.BigEndian.Uint16(base))
	end := 2 + 6*scriptCount
	if end > len(base) {
		return nil, invalid("script list")
	}

	for i := 0; i < scriptCount; i++ {
		scriptOffset := int(binary.BigEndian.Uint16(base[2+6*i+4:]))
		if scriptOffset+4 > len(base) {
			return nil, invalid("script table")
		}
		script := base[scriptOffset:]
		defaultLangSys := int(binary.BigEndian.Uint16(script))
		langSysCount := int(binary.BigEndian.Uint16(script[2:]))
		if 4+6*langSysCount > len(script) {
			return nil, invalid("script table")
		}
		if e := scriptOffset + 4 + 6*langSysCount; e > end {
			end = e
		}

		langSysOffsets := make([]int, 0, langSysCount+1)
		if defaultLangSys != 0 {
			langSysOffsets = append(langSysOffsets, defaultLangSys)
		}
		for j := 0; j < langSysCount; j++ {
			langSysOffsets = append(langSysOffsets,
				int(binary.BigEndian.Uint16(script[4+6*j+4:])))
		}
		for _, lso := range langSysOffsets {
			if lso+6 > len(script) {
				return nil, invalid("language system table")
			}
			featureCount := int(binary.BigEndian.Uint16(script[lso+4:]))
			e := scriptOffset + lso + 6 + 2*featureCount
			if e > len(base) {
				return nil, invalid("language system table")
			}
			if e > end {
				end = e
			}
		}
	}
	return base[:end], nil
}

// https://docs.microsoft.com/en-us/typography/opentype/spec/chapter2#feature-list-table
func readFeatureList(data []byte, pos int) (FeatureListInfo, error) {
	if pos+2 > len(data) {
		return nil, invalid("feature list")
	}
	base := data[pos:]
	featureCount := int(binary.BigEndian.Uint16(base))
	if 2+6*featureCount > len(base) {
		return nil, invalid("feature records")
	}

	info := make(FeatureListInfo, 0, featureCount)
	for i := 0; i < featureCount; i++ {
		rec := base[2+6*i:]
		tag := string(rec[:4])
		offs := int(binary.BigEndian.Uint16(rec[4:]))
		if offs+4 > len(base) {
			return nil, invalid("feature table")
		}
		table := base[offs:]
		// featureParamsOffset is table[0:2]; no feature in this code
		// path carries parameters worth keeping.
		lookupCount := int(binary.BigEndian.Uint16(table[2:]))
		if 4+2*lookupCount > len(table) {
			return nil, invalid("feature table")
		}
		lookups := make([]LookupIndex, lookupCount)
		for j := range lookups {
			lookups[j] = LookupIndex(binary.BigEndian.Uint16(table[4+2*j:]))
		}
		info = append(info, &Feature{Tag: tag, Lookups: lookups})
	}
	return info, nil
}

func (info FeatureListInfo) encode() []byte {
	headerLen := 2 + 6*len(info)
	total := headerLen
	for _, f := range info {
		total += 4 + 2*len(f.Lookups)
	}

	buf := make([]byte, headerLen, total)
	binary.BigEndian.PutUint16(buf, uint16(len(info)))
	for i, f := range info {
		rec := buf[2+6*i:]
		copy(rec, f.Tag)
		binary.BigEndian.PutUint16(rec[4:], uint16(len(buf)))
		var table [4]byte
		binary.BigEndian.PutUint16(table[2:], uint16(len(f.Lookups)))
		buf = append(buf, table[:]...)
		for _, idx := range f.Lookups {
			buf = append(buf, byte(idx>>8), byte(idx))
		}
	}
	return buf
}

func invalid(reason string) error {
	return &fonterror.InvalidFontError{
		SubSystem: "sfnt/gtab",
		Reason:    reason,
	}
}
