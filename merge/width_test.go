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

package merge_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/5hes/maple-font/internal/testfont"
	"github.com/5hes/maple-font/merge"
	"github.com/5hes/maple-font/sfnt/meta"
	"github.com/5hes/maple-font/sfnt/os2"
)

func TestNarrowWidths(t *testing.T) {
	font := testfont.New(testfont.Base(), nil)

	han := mustGID(t, font, "uni4E2D")
	blank := mustGID(t, font, "uni3000")
	latin := mustGID(t, font, "A")

	xsBefore, _, err := font.Glyf.Glyphs[han].Coordinates()
	if err != nil {
		t.Fatal(err)
	}

	if err := merge.NarrowWidths(font, 1200, 1000); err != nil {
		t.Fatal(err)
	}

	// full-width glyph: shifted left by 100, width and LSB adjusted
	if got := font.Hmtx.Widths[han]; got != 1000 {
		t.Errorf("width = %d, want 1000", got)
	}
	if got := font.Hmtx.LSBs[han]; got != 0 {
		t.Errorf("LSB = %d, want 0", got)
	}
	xsAfter, _, err := font.Glyf.Glyphs[han].Coordinates()
	if err != nil {
		t.Fatal(err)
	}
	want := make([]int16, len(xsBefore))
	for i, x := range xsBefore {
		want[i] = x - 100
	}
	if d := cmp.Diff(want, xsAfter); d != "" {
		t.Errorf("x coordinates (-want +got):\n%s", d)
	}

	// blank full-width glyph: only the width changes
	if got := font.Hmtx.Widths[blank]; got != 1000 {
		t.Errorf("blank width = %d, want 1000", got)
	}

	// half-width glyphs are untouched
	if got := font.Hmtx.Widths[latin]; got != 600 {
		t.Errorf("latin width = %d, want 600", got)
	}
	if got := font.Hmtx.LSBs[latin]; got != 50 {
		t.Errorf("latin LSB = %d, want 50", got)
	}

	if got := font.Hmtx.AdvanceWidthMax; got != 1000 {
		t.Errorf("advanceWidthMax = %d, want 1000", got)
	}
}

func TestFixCJKMetadata(t *testing.T) {
	font := testfont.New(testfont.Base(), nil)
	if font.Meta != nil {
		t.Fatal("test font unexpectedly has a meta table")
	}

	merge.FixCJKMetadata(font)

	var want uint32 = os2.CodePageLatin1 | os2.CodePageJapanese |
		os2.CodePageSimplifiedChinese | os2.CodePageTraditionalChinese
	if got := font.OS2.CodePageRange1; got != want {
		t.Errorf("CodePageRange1 = %#x, want %#x", got, want)
	}

	for _, tag := range []string{meta.TagDesignLanguages, meta.TagSupportedLanguages} {
		if got := string(font.Meta.Entries[tag]); got != merge.CJKLanguages {
			t.Errorf("meta %s = %q, want %q", tag, got, merge.CJKLanguages)
		}
	}
}
