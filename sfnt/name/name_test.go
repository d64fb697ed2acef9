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

package name

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSetGetDelete(t *testing.T) {
	info := &Info{}
	info.Set(FontFamily, "Maple Mono")
	info.Set(Subfamily, "Regular")

	if got := info.Get(FontFamily); got != "Maple Mono" {
		t.Errorf("Get = %q", got)
	}

	info.Delete(Subfamily)
	if got := info.Get(Subfamily); got != "" {
		t.Errorf("Get after Delete = %q", got)
	}
}

func TestSetSyncsMacEnglish(t *testing.T) {
	info := &Info{
		Mac: Tables{"en": &Table{}},
	}
	info.Set(FontFamily, "Maple Mono NF")

	if got := info.Mac["en"].Get(FontFamily); got != "Maple Mono NF" {
		t.Errorf("Mac en = %q", got)
	}
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	info := &Info{
		Mac: Tables{"en": &Table{}},
	}
	info.Set(FontFamily, "Maple Mono")
	info.Set(Subfamily, "Bold Italic")
	info.Set(UniqueID, "Version 7.000;SUBF;MapleMono-BoldItalic;2024;FL830;")
	info.Set(PostScriptName, "MapleMono-BoldItalic")

	back, err := Decode(info.Encode(1))
	if err != nil {
		t.Fatal(err)
	}

	for _, id := range []ID{FontFamily, Subfamily, UniqueID, PostScriptName} {
		if got, want := back.Get(id), info.Get(id); got != want {
			t.Errorf("ID %d = %q, want %q", id, got, want)
		}
		if got, want := back.Mac["en"].Get(id), info.Get(id); got != want {
			t.Errorf("Mac ID %d = %q, want %q", id, got, want)
		}
	}
}

func TestStripMac(t *testing.T) {
	info := &Info{
		Mac: Tables{"en": &Table{}},
	}
	info.Set(FontFamily, "Maple Mono")

	info.StripMac()
	if len(info.Mac) != 0 {
		t.Error("Mac tables survived StripMac")
	}

	back, err := Decode(info.Encode(1))
	if err != nil {
		t.Fatal(err)
	}
	if len(back.Mac) != 0 {
		t.Errorf("Mac tables reappeared after encoding: %v", back.Mac)
	}
	if got := back.Get(FontFamily); got != "Maple Mono" {
		t.Errorf("Windows table lost: %q", got)
	}
}

func TestEncodeNonASCII(t *testing.T) {
	info := &Info{}
	info.Set(FontFamily, "Maple Mono 中文")

	back, err := Decode(info.Encode(1))
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff("Maple Mono 中文", back.Get(FontFamily)); d != "" {
		t.Errorf("family (-want +got):\n%s", d)
	}
}
