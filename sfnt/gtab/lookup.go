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

package gtab

import (
	"encoding/binary"
	"sort"

	"github.com/5hes/maple-font/sfnt/glyf"
)

// GSUB lookup types.
const (
	lookupTypeSingle    = 1
	lookupTypeExtension = 7
)

const flagUseMarkFilteringSet = 0x0010

// LookupTable is one entry of the lookup list.  Subtables are kept in
// binary form.
type LookupTable struct {
	Type             uint16
	Flag             uint16
	MarkFilteringSet uint16
	Subtables        [][]byte
}

// https://docs.microsoft.com/en-us/typography/opentype/spec/chapter2#lookup-list-table
func readLookupList(data []byte, pos int) ([]*LookupTable, error) {
	if pos+2 > len(data) {
		return nil, invalid("lookup list")
	}
	base := data[pos:]
	lookupCount := int(binary.BigEndian.Uint16(base))
	if 2+2*lookupCount > len(base) {
		return nil, invalid("lookup list")
	}

	lookupOffsets := make([]int, lookupCount)
	for i := range lookupOffsets {
		lookupOffsets[i] = int(binary.BigEndian.Uint16(base[2+2*i:]))
	}

	// Subtable lengths are not encoded.  Fonts lay lookups and their
	// subtables out contiguously, so each subtable extends to the next
	// recorded offset after its own.
	boundaries := []int{len(base)}
	boundaries = append(boundaries, lookupOffsets...)

	type rawLookup struct {
		l       *LookupTable
		subOffs []int
	}
	raw := make([]rawLookup, lookupCount)
	for i, offs := range lookupOffsets {
		if offs+6 > len(base) {
			return nil, invalid("lookup table")
		}
		table := base[offs:]
		l := &LookupTable{
			Type: binary.BigEndian.Uint16(table),
			Flag: binary.BigEndian.Uint16(table[2:]),
		}
		subTableCount := int(binary.BigEndian.Uint16(table[4:]))
		end := 6 + 2*subTableCount
		if l.Flag&flagUseMarkFilteringSet != 0 {
			end += 2
		}
		if end > len(table) {
			return nil, invalid("lookup table")
		}
		if l.Flag&flagUseMarkFilteringSet != 0 {
			l.MarkFilteringSet = binary.BigEndian.Uint16(table[6+2*subTableCount:])
		}

		subOffs := make([]int, subTableCount)
		for j := range subOffs {
			subOffs[j] = offs + int(binary.BigEndian.Uint16(table[6+2*j:]))
			if subOffs[j] > len(base) {
				return nil, invalid("subtable offset")
			}
		}
		boundaries = append(boundaries, subOffs...)
		raw[i] = rawLookup{l: l, subOffs: subOffs}
	}
	sort.Ints(boundaries)

	lookups := make([]*LookupTable, lookupCount)
	for i, r := range raw {
		r.l.Subtables = make([][]byte, len(r.subOffs))
		for j, subOffs := range r.subOffs {
			end := len(base)
			k := sort.SearchInts(boundaries, subOffs+1)
			if k < len(boundaries) {
				end = boundaries[k]
			}
			r.l.Subtables[j] = base[subOffs:end]
		}
		lookups[i] = r.l
	}
	return lookups, nil
}

func (info *Info) encodeLookupList() ([]byte, error) {
	lookups := info.Lookups
	headerLen := 2 + 2*len(lookups)

	buf := make([]byte, headerLen)
	binary.BigEndian.PutUint16(buf, uint16(len(lookups)))
	for i, l := range lookups {
		if len(buf) > 0xFFFF {
			// TODO(gsub): wrap overflowing lookups in extension
			// subtables instead of giving up.
			return nil, invalid("lookup offset overflow")
		}
		binary.BigEndian.PutUint16(buf[2+2*i:], uint16(len(buf)))

		tableLen := 6 + 2*len(l.Subtables)
		if l.Flag&flagUseMarkFilteringSet != 0 {
			tableLen += 2
		}
		table := make([]byte, tableLen)
		binary.BigEndian.PutUint16(table, l.Type)
		binary.BigEndian.PutUint16(table[2:], l.Flag)
		binary.BigEndian.PutUint16(table[4:], uint16(len(l.Subtables)))
		if l.Flag&flagUseMarkFilteringSet != 0 {
			binary.BigEndian.PutUint16(table[6+2*len(l.Subtables):], l.MarkFilteringSet)
		}
		for j, sub := range l.Subtables {
			if tableLen > 0xFFFF {
				return nil, invalid("subtable offset overflow")
			}
			binary.BigEndian.PutUint16(table[6+2*j:], uint16(tableLen))
			tableLen += len(sub)
		}
		buf = append(buf, table...)
		for _, sub := range l.Subtables {
			buf = append(buf, sub...)
		}
	}
	return buf, nil
}

// SingleSubstitutions returns the glyph mapping of a single-substitution
// lookup (lookup type 1, possibly wrapped in extension subtables).
// The second return value is false if the lookup is of a different type.
func (l *LookupTable) SingleSubstitutions() (map[glyf.GlyphID]glyf.GlyphID, bool, error) {
	res := make(map[glyf.GlyphID]glyf.GlyphID)
	for _, sub := range l.Subtables {
		subType := l.Type
		if subType == lookupTypeExtension {
			if len(sub) < 8 || binary.BigEndian.Uint16(sub) != 1 {
				return nil, false, invalid("extension subtable")
			}
			subType = binary.BigEndian.Uint16(sub[2:])
			extOffset := binary.BigEndian.Uint32(sub[4:])
			if extOffset > uint32(len(sub)) {
				return nil, false, invalid("extension offset")
			}
			sub = sub[extOffset:]
		}
		if subType != lookupTypeSingle {
			return nil, false, nil
		}
		if err := decodeSingleSubst(sub, res); err != nil {
			return nil, false, err
		}
	}
	return res, true, nil
}

// SetSingleSubstitutions replaces the lookup's contents with a single
// freshly encoded single-substitution subtable.
func (l *LookupTable) SetSingleSubstitutions(m map[glyf.GlyphID]glyf.GlyphID) {
	l.Type = lookupTypeSingle
	l.Subtables = [][]byte{encodeSingleSubst(m)}
}

// https://docs.microsoft.com/en-us/typography/opentype/spec/gsub#lookuptype-1-single-substitution-subtable
func decodeSingleSubst(sub []byte, res map[glyf.GlyphID]glyf.GlyphID) error {
	if len(sub) < 6 {
		return invalid("single substitution subtable")
	}
	format := binary.BigEndian.Uint16(sub)
	coverageOffset := int(binary.BigEndian.Uint16(sub[2:]))
	covered, err := decodeCoverage(sub, coverageOffset)
	if err != nil {
		return err
	}

	switch format {
	case 1:
		delta := binary.BigEndian.Uint16(sub[4:])
		for _, gid := range covered {
			res[gid] = glyf.GlyphID(uint16(gid) + delta)
		}
	case 2:
		glyphCount := int(binary.BigEndian.Uint16(sub[4:]))
		if glyphCount != len(covered) || 6+2*glyphCount > len(sub) {
			return invalid("single substitution subtable")
		}
		for i, gid := range covered {
			res[gid] = glyf.GlyphID(binary.BigEndian.Uint16(sub[6+2*i:]))
		}
	default:
		return invalid("single substitution format")
	}
	return nil
}

func encodeSingleSubst(m map[glyf.GlyphID]glyf.GlyphID) []byte {
	gids := make([]glyf.GlyphID, 0, len(m))
	for gid := range m {
		gids = append(gids, gid)
	}
	sort.Slice(gids, func(i, j int) bool { return gids[i] < gids[j] })

	coverageOffset := 6 + 2*len(gids)
	buf := make([]byte, coverageOffset+4+2*len(gids))
	binary.BigEndian.PutUint16(buf, 2)
	binary.BigEndian.PutUint16(buf[2:], uint16(coverageOffset))
	binary.BigEndian.PutUint16(buf[4:], uint16(len(gids)))
	for i, gid := range gids {
		binary.BigEndian.PutUint16(buf[6+2*i:], uint16(m[gid]))
	}

	cov := buf[coverageOffset:]
	binary.BigEndian.PutUint16(cov, 1)
	binary.BigEndian.PutUint16(cov[2:], uint16(len(gids)))
	for i, gid := range gids {
		binary.BigEndian.PutUint16(cov[4+2*i:], uint16(gid))
	}
	return buf
}

// decodeCoverage returns the covered glyphs in coverage order.
// https://docs.microsoft.com/en-us/typography/opentype/spec/chapter2#coverage-table
func decodeCoverage(sub []byte, pos int) ([]glyf.GlyphID, error) {
	if pos+4 > len(sub) {
		return nil, invalid("coverage table")
	}
	cov := sub[pos:]
	format := binary.BigEndian.Uint16(cov)
	count := int(binary.BigEndian.Uint16(cov[2:]))

	switch format {
	case 1:
		if 4+2*count > len(cov) {
			return nil, invalid("coverage table")
		}
		gids := make([]glyf.GlyphID, count)
		for i := range gids {
			gids[i] = glyf.GlyphID(binary.BigEndian.Uint16(cov[4+2*i:]))
		}
		return gids, nil
	case 2:
		if 4+6*count > len(cov) {
			return nil, invalid("coverage table")
		}
		var gids []glyf.GlyphID
		for i := 0; i < count; i++ {
			rec := cov[4+6*i:]
			start := binary.BigEndian.Uint16(rec)
			end := binary.BigEndian.Uint16(rec[2:])
			if start > end {
				return nil, invalid("coverage range")
			}
			for gid := int(start); gid <= int(end); gid++ {
				gids = append(gids, glyf.GlyphID(gid))
			}
		}
		return gids, nil
	default:
		return nil, invalid("coverage format")
	}
}
