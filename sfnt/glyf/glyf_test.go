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

package glyf

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/5hes/maple-font/sfnt/funit"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	outlines := &Outlines{
		Glyphs: []*Glyph{
			NewSimple([]int16{50, 550, 550, 50}, []int16{0, 0, 700, 700}),
			{}, // blank
			NewSimple([]int16{-20, 580}, []int16{-10, 710}),
		},
	}

	glyfData, locaData, format := outlines.Encode()
	decoded, err := Decode(glyfData, locaData, format, len(outlines.Glyphs))
	if err != nil {
		t.Fatal(err)
	}

	for gid, g := range outlines.Glyphs {
		wantXs, wantYs, err := g.Coordinates()
		if err != nil {
			t.Fatal(err)
		}
		gotXs, gotYs, err := decoded.Glyphs[gid].Coordinates()
		if err != nil {
			t.Fatal(err)
		}
		if d := cmp.Diff(wantXs, gotXs); d != "" {
			t.Errorf("glyph %d xs (-want +got):\n%s", gid, d)
		}
		if d := cmp.Diff(wantYs, gotYs); d != "" {
			t.Errorf("glyph %d ys (-want +got):\n%s", gid, d)
		}
	}

	// a second encode of the decoded outlines is byte-stable
	glyfData2, locaData2, format2 := decoded.Encode()
	if !bytes.Equal(glyfData, glyfData2) || !bytes.Equal(locaData, locaData2) || format != format2 {
		t.Error("re-encoding decoded outlines changed the bytes")
	}
}

func TestShortAndLongLoca(t *testing.T) {
	// a glyph over 128k forces the long loca format
	big := make([]int16, 20000)
	for i := range big {
		big[i] = int16(i % 2000)
	}
	outlines := &Outlines{Glyphs: []*Glyph{
		NewSimple(big, big),
		NewSimple(big, big),
		NewSimple(big, big),
	}}

	_, _, format := outlines.Encode()
	if format != 1 {
		t.Errorf("indexToLocFormat = %d, want 1", format)
	}

	small := &Outlines{Glyphs: []*Glyph{
		NewSimple([]int16{0, 100}, []int16{0, 100}),
	}}
	_, _, format = small.Encode()
	if format != 0 {
		t.Errorf("indexToLocFormat = %d, want 0", format)
	}
}

func TestGlyphBBox(t *testing.T) {
	g := NewSimple([]int16{50, 550, 550, 50}, []int16{0, 0, 700, 700})
	want := funit.Rect{LLx: 50, LLy: 0, URx: 550, URy: 700}
	if got := g.BBox(); got != want {
		t.Errorf("BBox = %+v, want %+v", got, want)
	}

	var blank Glyph
	if got := blank.BBox(); !got.IsZero() {
		t.Errorf("blank BBox = %+v", got)
	}
}

func TestTranslateSimple(t *testing.T) {
	g := NewSimple([]int16{100, 1100, 1100, 100}, []int16{0, 0, 800, 800})
	if err := g.Translate(-100); err != nil {
		t.Fatal(err)
	}

	xs, ys, err := g.Coordinates()
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]int16{0, 1000, 1000, 0}, xs); d != "" {
		t.Errorf("xs (-want +got):\n%s", d)
	}
	if d := cmp.Diff([]int16{0, 0, 800, 800}, ys); d != "" {
		t.Errorf("ys changed (-want +got):\n%s", d)
	}

	want := funit.Rect{LLx: 0, LLy: 0, URx: 1000, URy: 800}
	if got := g.BBox(); got != want {
		t.Errorf("BBox = %+v, want %+v", got, want)
	}
}

func TestTranslateBlank(t *testing.T) {
	var g Glyph
	if err := g.Translate(-100); err != nil {
		t.Fatal(err)
	}
	if !g.IsBlank() {
		t.Error("blank glyph gained an outline")
	}
}

func TestTranslateComposite(t *testing.T) {
	g := NewComposite(7, 30, 0, funit.Rect{LLx: 30, LLy: 0, URx: 630, URy: 700})
	if err := g.Translate(-30); err != nil {
		t.Fatal(err)
	}

	want := funit.Rect{LLx: 0, LLy: 0, URx: 600, URy: 700}
	if got := g.BBox(); got != want {
		t.Errorf("BBox = %+v, want %+v", got, want)
	}

	refs, err := g.Components()
	if err != nil {
		t.Fatal(err)
	}
	if len(refs) != 1 || refs[0] != 7 {
		t.Errorf("components = %v, want [7]", refs)
	}
}

func TestFixComponents(t *testing.T) {
	g := NewComposite(3, 0, 0, funit.Rect{URx: 100, URy: 100})
	err := g.FixComponents(map[GlyphID]GlyphID{3: 17})
	if err != nil {
		t.Fatal(err)
	}

	refs, err := g.Components()
	if err != nil {
		t.Fatal(err)
	}
	if len(refs) != 1 || refs[0] != 17 {
		t.Errorf("components = %v, want [17]", refs)
	}

	// simple and blank glyphs pass through
	s := NewSimple([]int16{0, 10}, []int16{0, 10})
	if err := s.FixComponents(map[GlyphID]GlyphID{0: 1}); err != nil {
		t.Fatal(err)
	}
	var blank Glyph
	if err := blank.FixComponents(nil); err != nil {
		t.Fatal(err)
	}
}

func TestOutlinesBBox(t *testing.T) {
	outlines := &Outlines{Glyphs: []*Glyph{
		{},
		NewSimple([]int16{50, 550}, []int16{-200, 700}),
		NewSimple([]int16{-10, 400}, []int16{0, 900}),
	}}
	want := funit.Rect{LLx: -10, LLy: -200, URx: 550, URy: 900}
	if got := outlines.BBox(); got != want {
		t.Errorf("BBox = %+v, want %+v", got, want)
	}
}
