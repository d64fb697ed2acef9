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

package merge

import (
	"math"

	"github.com/5hes/maple-font/sfnt"
	"github.com/5hes/maple-font/sfnt/fonterror"
	"github.com/5hes/maple-font/sfnt/funit"
	"github.com/5hes/maple-font/sfnt/meta"
	"github.com/5hes/maple-font/sfnt/os2"
)

// NarrowWidths renarrows every glyph whose advance width equals
// matchWidth exactly to targetWidth.  Glyphs with contours are shifted
// by half the width change so their ink stays centered; blank glyphs
// only get the new width.  All other glyphs are untouched.
func NarrowWidths(font *sfnt.Font, matchWidth, targetWidth int) error {
	if font.Glyf == nil || font.Hmtx == nil {
		return &fonterror.MissingTableError{Table: "glyf"}
	}

	font.Hmtx.AdvanceWidthMax = uint16(targetWidth)

	delta := funit.Int16(math.Round(float64(targetWidth-matchWidth) / 2))
	for gid, g := range font.Glyf.Glyphs {
		if gid >= len(font.Hmtx.Widths) ||
			int(font.Hmtx.Widths[gid]) != matchWidth {
			continue
		}
		if g.IsBlank() || g.NumContours() == 0 {
			font.Hmtx.Widths[gid] = funit.Int16(targetWidth)
			continue
		}
		if err := g.Translate(delta); err != nil {
			return err
		}
		font.Hmtx.Widths[gid] = funit.Int16(targetWidth)
		font.Hmtx.LSBs[gid] += delta
	}
	return nil
}

// CJKLanguages is the language set declared for fonts carrying a CJK
// glyph repertoire.
const CJKLanguages = "Latn, Hans, Hant, Jpan"

// FixCJKMetadata declares Latin, Japanese, Simplified-Chinese and
// Traditional-Chinese support in the code-page bitmask and attaches a
// meta table with matching design/supported language lists.
// https://learn.microsoft.com/en-us/typography/opentype/spec/meta
func FixCJKMetadata(font *sfnt.Font) {
	if font.OS2 != nil {
		font.OS2.CodePageRange1 = os2.CodePageLatin1 |
			os2.CodePageJapanese |
			os2.CodePageSimplifiedChinese |
			os2.CodePageTraditionalChinese
	}

	if font.Meta == nil {
		font.Meta = &meta.Info{}
	}
	font.Meta.SetLanguages(meta.TagDesignLanguages, CJKLanguages)
	font.Meta.SetLanguages(meta.TagSupportedLanguages, CJKLanguages)
}
