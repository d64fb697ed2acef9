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
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/5hes/maple-font/sfnt/glyf"
)

// minimalScriptList builds a script list with a DFLT script whose
// default language system uses the given feature indices.
func minimalScriptList(featureIndices ...uint16) []byte {
	buf := make([]byte, 2+6+4+6+2*len(featureIndices))
	binary.BigEndian.PutUint16(buf, 1)
	copy(buf[2:], "DFLT")
	binary.BigEndian.PutUint16(buf[6:], 8)
	script := buf[8:]
	binary.BigEndian.PutUint16(script, 4)
	langSys := script[4:]
	binary.BigEndian.PutUint16(langSys[2:], 0xFFFF)
	binary.BigEndian.PutUint16(langSys[4:], uint16(len(featureIndices)))
	for i, fi := range featureIndices {
		binary.BigEndian.PutUint16(langSys[6+2*i:], fi)
	}
	return buf
}

func testInfo() *Info {
	calt := &LookupTable{Type: 1}
	calt.SetSingleSubstitutions(map[glyf.GlyphID]glyf.GlyphID{3: 2})
	cv01 := &LookupTable{Type: 1}
	cv01.SetSingleSubstitutions(map[glyf.GlyphID]glyf.GlyphID{2: 4, 5: 6})

	return &Info{
		MajorVersion: 1,
		ScriptList:   minimalScriptList(0, 1),
		Features: FeatureListInfo{
			{Tag: "calt", Lookups: []LookupIndex{0}},
			{Tag: "cv01", Lookups: []LookupIndex{1}},
		},
		Lookups: []*LookupTable{calt, cv01},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	info := testInfo()

	data, err := info.Encode()
	if err != nil {
		t.Fatal(err)
	}
	back, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}

	if d := cmp.Diff(info.Features, back.Features); d != "" {
		t.Errorf("features (-want +got):\n%s", d)
	}
	if !bytes.Equal(info.ScriptList, back.ScriptList) {
		t.Error("script list not carried through")
	}
	if len(back.Lookups) != 2 {
		t.Fatalf("got %d lookups, want 2", len(back.Lookups))
	}
	for i := range info.Lookups {
		want, _, err := info.Lookups[i].SingleSubstitutions()
		if err != nil {
			t.Fatal(err)
		}
		got, ok, err := back.Lookups[i].SingleSubstitutions()
		if err != nil || !ok {
			t.Fatalf("lookup %d: ok=%v err=%v", i, ok, err)
		}
		if d := cmp.Diff(want, got); d != "" {
			t.Errorf("lookup %d (-want +got):\n%s", i, d)
		}
	}

	// the second encode is byte-stable
	data2, err := back.Encode()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, data2) {
		t.Error("re-encoding changed the bytes")
	}
}

func TestFeatureVariationsPassThrough(t *testing.T) {
	info := testInfo()
	info.MinorVersion = 1
	info.FeatureVariations = []byte{0, 1, 0, 0, 0, 0, 0, 0}

	data, err := info.Encode()
	if err != nil {
		t.Fatal(err)
	}
	back, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(info.FeatureVariations, back.FeatureVariations) {
		t.Errorf("feature variations = % x, want % x",
			back.FeatureVariations, info.FeatureVariations)
	}

	// the version 1.1 header is 14 bytes: the featureVariationsOffset
	// is a uint32 at offset 10
	if got := binary.BigEndian.Uint16(data[2:]); got != 1 {
		t.Errorf("minor version = %d, want 1", got)
	}
	fvOffset := binary.BigEndian.Uint32(data[10:])
	if int(fvOffset) != len(data)-len(info.FeatureVariations) {
		t.Errorf("featureVariationsOffset = %d, want %d",
			fvOffset, len(data)-len(info.FeatureVariations))
	}
	if got := binary.BigEndian.Uint16(data[4:]); got != 14 {
		t.Errorf("scriptListOffset = %d, want 14", got)
	}
}

func TestDecodeShortVersion11Header(t *testing.T) {
	for _, n := range []int{12, 13} {
		data := make([]byte, n)
		binary.BigEndian.PutUint16(data, 1)
		binary.BigEndian.PutUint16(data[2:], 1)
		if _, err := Decode(data); err == nil {
			t.Errorf("Decode accepted a %d-byte version 1.1 header", n)
		}
	}
}

func TestFeatureListFind(t *testing.T) {
	info := testInfo()
	if f := info.Features.Find("cv01"); f == nil || f.Tag != "cv01" {
		t.Errorf("Find(cv01) = %v", f)
	}
	if f := info.Features.Find("ss99"); f != nil {
		t.Errorf("Find(ss99) = %v, want nil", f)
	}
}

func TestDecodeRejectsUnknownVersion(t *testing.T) {
	data := make([]byte, 10)
	binary.BigEndian.PutUint16(data, 2)
	if _, err := Decode(data); err == nil {
		t.Error("GSUB 2.0 accepted")
	}
}

func TestSingleSubstFormat1(t *testing.T) {
	// format 1 applies one delta to a coverage set; built by hand since
	// the encoder always writes format 2
	covOffset := 6
	sub := make([]byte, covOffset+4+2*2)
	binary.BigEndian.PutUint16(sub, 1)
	binary.BigEndian.PutUint16(sub[2:], uint16(covOffset))
	binary.BigEndian.PutUint16(sub[4:], 10) // deltaGlyphID
	cov := sub[covOffset:]
	binary.BigEndian.PutUint16(cov, 1) // coverage format 1
	binary.BigEndian.PutUint16(cov[2:], 2)
	binary.BigEndian.PutUint16(cov[4:], 5)
	binary.BigEndian.PutUint16(cov[6:], 7)

	l := &LookupTable{Type: 1, Subtables: [][]byte{sub}}
	got, ok, err := l.SingleSubstitutions()
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	want := map[glyf.GlyphID]glyf.GlyphID{5: 15, 7: 17}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("mapping (-want +got):\n%s", d)
	}
}

func TestSingleSubstExtension(t *testing.T) {
	inner := encodeSingleSubst(map[glyf.GlyphID]glyf.GlyphID{4: 9})
	ext := make([]byte, 8+len(inner))
	binary.BigEndian.PutUint16(ext, 1)     // extension format
	binary.BigEndian.PutUint16(ext[2:], 1) // wrapped lookup type: single
	binary.BigEndian.PutUint32(ext[4:], 8)
	copy(ext[8:], inner)

	l := &LookupTable{Type: 7, Subtables: [][]byte{ext}}
	got, ok, err := l.SingleSubstitutions()
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	want := map[glyf.GlyphID]glyf.GlyphID{4: 9}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("mapping (-want +got):\n%s", d)
	}
}

func TestSingleSubstitutionsNonSingle(t *testing.T) {
	l := &LookupTable{Type: 4, Subtables: [][]byte{{0, 0}}}
	_, ok, err := l.SingleSubstitutions()
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("ligature lookup reported as single substitution")
	}
}
