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

package cmap

import (
	"encoding/binary"
	"sort"

	"github.com/5hes/maple-font/sfnt/fonterror"
	"github.com/5hes/maple-font/sfnt/glyf"
)

func decodeSubtable(body []byte) (map[rune]glyf.GlyphID, error) {
	format := binary.BigEndian.Uint16(body)
	switch format {
	case 0:
		return decodeFormat0(body)
	case 4:
		return decodeFormat4(body)
	case 6:
		return decodeFormat6(body)
	case 12:
		return decodeFormat12(body)
	default:
		return nil, &fonterror.NotSupportedError{
			SubSystem: "sfnt/cmap",
			Feature:   "subtable format",
		}
	}
}

func decodeFormat0(body []byte) (map[rune]glyf.GlyphID, error) {
	if len(body) < 6+256 {
		return nil, invalid("format 0 subtable")
	}
	res := make(map[rune]glyf.GlyphID)
	for code := 0; code < 256; code++ {
		gid := glyf.GlyphID(body[6+code])
		if gid != 0 {
			res[rune(code)] = gid
		}
	}
	return res, nil
}

func decodeFormat4(body []byte) (map[rune]glyf.GlyphID, error) {
	if len(body) < 14 {
		return nil, invalid("format 4 subtable")
	}
	segCountX2 := int(binary.BigEndian.Uint16(body[6:]))
	if segCountX2%2 != 0 || len(body) < 16+4*segCountX2 {
		return nil, invalid("format 4 subtable")
	}
	segCount := segCountX2 / 2

	endCodes := body[14:]
	startCodes := body[16+segCountX2:]
	idDeltas := body[16+2*segCountX2:]
	idRangeOffsets := body[16+3*segCountX2:]

	res := make(map[rune]glyf.GlyphID)
	for seg := 0; seg < segCount; seg++ {
		start := binary.BigEndian.Uint16(startCodes[2*seg:])
		end := binary.BigEndian.Uint16(endCodes[2*seg:])
		delta := binary.BigEndian.Uint16(idDeltas[2*seg:])
		rangeOffset := int(binary.BigEndian.Uint16(idRangeOffsets[2*seg:]))
		if start > end {
			return nil, invalid("format 4 segment order")
		}
		for code := int(start); code <= int(end); code++ {
			if code == 0xFFFF {
				break
			}
			var gid glyf.GlyphID
			if rangeOffset == 0 {
				gid = glyf.GlyphID(uint16(code) + delta)
			} else {
				pos := 16 + 3*segCountX2 + 2*seg + rangeOffset + 2*(code-int(start))
				if pos+2 > len(body) {
					return nil, invalid("format 4 glyph index")
				}
				gid = glyf.GlyphID(binary.BigEndian.Uint16(body[pos:]))
				if gid != 0 {
					gid += glyf.GlyphID(delta)
				}
			}
			if gid != 0 {
				res[rune(code)] = gid
			}
		}
	}
	return res, nil
}

func decodeFormat6(body []byte) (map[rune]glyf.GlyphID, error) {
	if len(body) < 10 {
		return nil, invalid("format 6 subtable")
	}
	first := int(binary.BigEndian.Uint16(body[6:]))
	count := int(binary.BigEndian.Uint16(body[8:]))
	if len(body) < 10+2*count {
		return nil, invalid("format 6 subtable")
	}
	res := make(map[rune]glyf.GlyphID)
	for i := 0; i < count; i++ {
		gid := glyf.GlyphID(binary.BigEndian.Uint16(body[10+2*i:]))
		if gid != 0 {
			res[rune(first+i)] = gid
		}
	}
	return res, nil
}

func decodeFormat12(body []byte) (map[rune]glyf.GlyphID, error) {
	if len(body) < 16 {
		return nil, invalid("format 12 subtable")
	}
	numGroups := int(binary.BigEndian.Uint32(body[12:]))
	if len(body) < 16+12*numGroups {
		return nil, invalid("format 12 subtable")
	}
	res := make(map[rune]glyf.GlyphID)
	for i := 0; i < numGroups; i++ {
		group := body[16+12*i:]
		startChar := binary.BigEndian.Uint32(group)
		endChar := binary.BigEndian.Uint32(group[4:])
		startGID := binary.BigEndian.Uint32(group[8:])
		if startChar > endChar || endChar > 0x10FFFF {
			return nil, invalid("format 12 group")
		}
		for c := startChar; c <= endChar; c++ {
			gid := glyf.GlyphID(startGID + (c - startChar))
			if gid != 0 {
				res[rune(c)] = gid
			}
		}
	}
	return res, nil
}

// encodeFormat4 builds a format 4 subtable for the given BMP mapping.
func encodeFormat4(m map[rune]glyf.GlyphID) []byte {
	codes := make([]uint16, 0, len(m))
	for r := range m {
		if r < 0xFFFF {
			codes = append(codes, uint16(r))
		}
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	type segment struct {
		start, end uint16
		delta      uint16
		gids       []uint16 // nil if delta applies
	}
	var segs []segment
	for i := 0; i < len(codes); {
		j := i + 1
		for j < len(codes) && codes[j] == codes[j-1]+1 {
			j++
		}
		start, end := codes[i], codes[j-1]

		contiguous := true
		base := uint16(m[rune(start)]) - start
		for k := i + 1; k < j; k++ {
			if uint16(m[rune(codes[k])])-codes[k] != base {
				contiguous = false
				break
			}
		}
		if contiguous {
			segs = append(segs, segment{start: start, end: end, delta: base})
		} else {
			gids := make([]uint16, j-i)
			for k := i; k < j; k++ {
				gids[k-i] = uint16(m[rune(codes[k])])
			}
			segs = append(segs, segment{start: start, end: end, gids: gids})
		}
		i = j
	}
	// final sentinel segment
	segs = append(segs, segment{start: 0xFFFF, end: 0xFFFF, delta: 1})

	segCount := len(segs)
	glyphIDCount := 0
	for _, s := range segs {
		glyphIDCount += len(s.gids)
	}
	length := 16 + 8*segCount + 2*glyphIDCount

	buf := make([]byte, length)
	binary.BigEndian.PutUint16(buf, 4)
	binary.BigEndian.PutUint16(buf[2:], uint16(length))
	binary.BigEndian.PutUint16(buf[6:], uint16(2*segCount))

	searchRange := 2
	entrySelector := 0
	for searchRange*2 <= 2*segCount {
		searchRange *= 2
		entrySelector++
	}
	binary.BigEndian.PutUint16(buf[8:], uint16(searchRange))
	binary.BigEndian.PutUint16(buf[10:], uint16(entrySelector))
	binary.BigEndian.PutUint16(buf[12:], uint16(2*segCount-searchRange))

	endPos := 14
	startPos := 16 + 2*segCount
	deltaPos := 16 + 4*segCount
	rangePos := 16 + 6*segCount
	glyphPos := 16 + 8*segCount
	for i, s := range segs {
		binary.BigEndian.PutUint16(buf[endPos+2*i:], s.end)
		binary.BigEndian.PutUint16(buf[startPos+2*i:], s.start)
		if s.gids == nil {
			binary.BigEndian.PutUint16(buf[deltaPos+2*i:], s.delta)
			// idRangeOffset stays zero
		} else {
			binary.BigEndian.PutUint16(buf[rangePos+2*i:],
				uint16(glyphPos-(rangePos+2*i)))
			for _, gid := range s.gids {
				binary.BigEndian.PutUint16(buf[glyphPos:], gid)
				glyphPos += 2
			}
		}
	}
	return buf
}

// encodeFormat12 builds a format 12 subtable covering the full mapping.
func encodeFormat12(m map[rune]glyf.GlyphID) []byte {
	runes := make([]rune, 0, len(m))
	for r := range m {
		runes = append(runes, r)
	}
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })

	type group struct {
		startChar, endChar uint32
		startGID           uint32
	}
	var groups []group
	for _, r := range runes {
		gid := uint32(m[r])
		n := len(groups)
		if n > 0 &&
			uint32(r) == groups[n-1].endChar+1 &&
			gid == groups[n-1].startGID+(uint32(r)-groups[n-1].startChar) {
			groups[n-1].endChar = uint32(r)
		} else {
			groups = append(groups, group{uint32(r), uint32(r), gid})
		}
	}

	length := 16 + 12*len(groups)
	buf := make([]byte, length)
	binary.BigEndian.PutUint16(buf, 12)
	binary.BigEndian.PutUint32(buf[4:], uint32(length))
	binary.BigEndian.PutUint32(buf[12:], uint32(len(groups)))
	for i, g := range groups {
		pos := 16 + 12*i
		binary.BigEndian.PutUint32(buf[pos:], g.startChar)
		binary.BigEndian.PutUint32(buf[pos+4:], g.endChar)
		binary.BigEndian.PutUint32(buf[pos+8:], g.startGID)
	}
	return buf
}
