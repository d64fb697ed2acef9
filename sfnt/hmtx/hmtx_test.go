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

package hmtx

import (
	"encoding/binary"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/5hes/maple-font/sfnt/funit"
)

func TestRoundTrip(t *testing.T) {
	info := &Info{
		Ascent:          800,
		Descent:         -200,
		LineGap:         100,
		AdvanceWidthMax: 1200,
		MinLSB:          -20,
		MinRSB:          10,
		XMaxExtent:      1180,
		CaretSlopeRise:  1,
		Widths:          []funit.Int16{600, 600, 1200, 600, 600, 600},
		LSBs:            []funit.Int16{50, 0, 100, 60, 70, 80},
	}

	hhea, hmtx := info.Encode()
	got, err := Decode(hhea, hmtx, len(info.Widths))
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(info, got); d != "" {
		t.Errorf("round trip (-want +got):\n%s", d)
	}
}

func TestEncodeCollapsesTrailingWidths(t *testing.T) {
	info := &Info{
		AdvanceWidthMax: 600,
		Widths:          []funit.Int16{600, 1200, 600, 600, 600},
		LSBs:            []funit.Int16{0, 1, 2, 3, 4},
	}

	hhea, hmtx := info.Encode()
	numberOfHMetrics := binary.BigEndian.Uint16(hhea[34:36])
	if numberOfHMetrics != 3 {
		t.Errorf("numberOfHMetrics = %d, want 3", numberOfHMetrics)
	}
	if wantLen := 4*3 + 2*2; len(hmtx) != wantLen {
		t.Errorf("len(hmtx) = %d, want %d", len(hmtx), wantLen)
	}

	got, err := Decode(hhea, hmtx, len(info.Widths))
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(info.Widths, got.Widths); d != "" {
		t.Errorf("widths (-want +got):\n%s", d)
	}
	if d := cmp.Diff(info.LSBs, got.LSBs); d != "" {
		t.Errorf("LSBs (-want +got):\n%s", d)
	}
}

func TestDecodeRejectsBadHeader(t *testing.T) {
	if _, err := Decode(make([]byte, 10), nil, 1); err == nil {
		t.Error("short hhea accepted")
	}

	hhea := make([]byte, hheaLength)
	binary.BigEndian.PutUint32(hhea, 0x00020000)
	if _, err := Decode(hhea, nil, 1); err == nil {
		t.Error("unknown hhea version accepted")
	}

	binary.BigEndian.PutUint32(hhea, 0x00010000)
	binary.BigEndian.PutUint16(hhea[34:], 5) // more metrics than glyphs
	if _, err := Decode(hhea, make([]byte, 100), 3); err == nil {
		t.Error("numberOfHMetrics > numGlyphs accepted")
	}
}
