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

// Package merge combines the glyph repertoire of a secondary font into
// a base font and keeps advance widths self-consistent afterward.
package merge

import (
	"log"

	"github.com/5hes/maple-font/sfnt"
	"github.com/5hes/maple-font/sfnt/fonterror"
	"github.com/5hes/maple-font/sfnt/glyf"
)

// Fonts adds the addon's glyphs to base.  Base outlines and metrics win
// on glyph-name collision; a collision with disagreeing metrics is
// reported as a warning, never an error.  The addon's substitution and
// positioning tables are not merged.
func Fonts(base, addon *sfnt.Font) error {
	if base.Glyf == nil || addon.Glyf == nil {
		return &fonterror.MissingTableError{Table: "glyf"}
	}

	// addon glyph ID -> glyph ID in the merged font
	gidMap := make(map[glyf.GlyphID]glyf.GlyphID, addon.NumGlyphs())
	var added []glyf.GlyphID

	for i := 0; i < addon.NumGlyphs(); i++ {
		addonGID := glyf.GlyphID(i)
		glyphName := addon.GlyphName(addonGID)

		if baseGID, ok := base.GlyphIndex(glyphName); ok {
			gidMap[addonGID] = baseGID
			if base.Hmtx.Widths[baseGID] != addon.Hmtx.Widths[addonGID] ||
				base.Hmtx.LSBs[baseGID] != addon.Hmtx.LSBs[addonGID] {
				log.Printf("merge: %q metrics differ, keeping base", glyphName)
			}
			continue
		}

		newGID := base.AppendGlyph(glyphName,
			addon.Glyf.Glyphs[addonGID].Clone(),
			addon.Hmtx.Widths[addonGID],
			addon.Hmtx.LSBs[addonGID])
		gidMap[addonGID] = newGID
		added = append(added, newGID)

		if w := uint16(addon.Hmtx.Widths[addonGID]); w > base.Hmtx.AdvanceWidthMax {
			base.Hmtx.AdvanceWidthMax = w
		}
	}

	// Appended composites still reference addon glyph IDs.
	for _, gid := range added {
		if err := base.Glyf.Glyphs[gid].FixComponents(gidMap); err != nil {
			return err
		}
	}

	if err := mergeCMap(base, addon, gidMap); err != nil {
		return err
	}

	mergeMaxpLimits(base, addon)
	return nil
}

// mergeCMap adds the addon's character mappings for code points the
// base does not cover.
func mergeCMap(base, addon *sfnt.Font, gidMap map[glyf.GlyphID]glyf.GlyphID) error {
	if base.CMap == nil || addon.CMap == nil {
		return nil
	}
	baseMap, err := base.CMap.Mappings()
	if err != nil {
		return err
	}
	addonMap, err := addon.CMap.Mappings()
	if err != nil {
		return err
	}

	changed := false
	for r, addonGID := range addonMap {
		if _, ok := baseMap[r]; ok {
			continue
		}
		gid, ok := gidMap[addonGID]
		if !ok {
			continue
		}
		baseMap[r] = gid
		changed = true
	}
	if changed {
		base.CMap.SetMappings(baseMap)
		updateCharRange(base, baseMap)
	}
	return nil
}

func updateCharRange(font *sfnt.Font, m map[rune]glyf.GlyphID) {
	if font.OS2 == nil || len(m) == 0 {
		return
	}
	first, last := rune(0x10FFFF), rune(0)
	for r := range m {
		if r < first {
			first = r
		}
		if r > last {
			last = r
		}
	}
	if first > 0xFFFF {
		first = 0xFFFF
	}
	if last > 0xFFFF {
		last = 0xFFFF
	}
	font.OS2.FirstCharIndex = uint16(first)
	font.OS2.LastCharIndex = uint16(last)
}

// mergeMaxpLimits raises the base's interpreter limits to cover the
// addon's glyphs.
func mergeMaxpLimits(base, addon *sfnt.Font) {
	if base.Maxp == nil || addon.Maxp == nil ||
		base.Maxp.TTF == nil || addon.Maxp.TTF == nil {
		return
	}
	b, a := base.Maxp.TTF, addon.Maxp.TTF
	maxU16 := func(x, y uint16) uint16 {
		if x > y {
			return x
		}
		return y
	}
	b.MaxPoints = maxU16(b.MaxPoints, a.MaxPoints)
	b.MaxContours = maxU16(b.MaxContours, a.MaxContours)
	b.MaxCompositePoints = maxU16(b.MaxCompositePoints, a.MaxCompositePoints)
	b.MaxCompositeContours = maxU16(b.MaxCompositeContours, a.MaxCompositeContours)
	b.MaxZones = maxU16(b.MaxZones, a.MaxZones)
	b.MaxTwilightPoints = maxU16(b.MaxTwilightPoints, a.MaxTwilightPoints)
	b.MaxStorage = maxU16(b.MaxStorage, a.MaxStorage)
	b.MaxFunctionDefs = maxU16(b.MaxFunctionDefs, a.MaxFunctionDefs)
	b.MaxInstructionDefs = maxU16(b.MaxInstructionDefs, a.MaxInstructionDefs)
	b.MaxStackElements = maxU16(b.MaxStackElements, a.MaxStackElements)
	b.MaxSizeOfInstructions = maxU16(b.MaxSizeOfInstructions, a.MaxSizeOfInstructions)
	b.MaxComponentElements = maxU16(b.MaxComponentElements, a.MaxComponentElements)
	b.MaxComponentDepth = maxU16(b.MaxComponentDepth, a.MaxComponentDepth)
}
