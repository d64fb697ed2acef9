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

package post

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRoundTripVersion2(t *testing.T) {
	info := &Info{
		ItalicAngle:        -9.5,
		UnderlinePosition:  -100,
		UnderlineThickness: 50,
		IsFixedPitch:       true,
		// mixes standard Macintosh names with custom ones
		Names: []string{".notdef", "space", "A", "a.cv01", "emdash.cv98"},
	}

	data := info.Encode()
	back, err := Read(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(info, back); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeVersions(t *testing.T) {
	for _, c := range []struct {
		names []string
		want  uint32
	}{
		{nil, 0x00030000},
		{macRoman, 0x00010000},
		{[]string{".notdef", "custom"}, 0x00020000},
	} {
		info := &Info{Names: c.names}
		data := info.Encode()
		got := uint32(data[0])<<24 | uint32(data[1])<<16 |
			uint32(data[2])<<8 | uint32(data[3])
		if got != c.want {
			t.Errorf("version = %08x, want %08x", got, c.want)
		}
	}
}

func TestDecodeNamesErrors(t *testing.T) {
	info := &Info{Names: []string{".notdef", "custom"}}
	data := info.Encode()

	// index truncated
	if _, err := Read(bytes.NewReader(data[:34])); err == nil {
		t.Error("truncated index accepted")
	}
	// string storage truncated
	if _, err := Read(bytes.NewReader(data[:len(data)-1])); err == nil {
		t.Error("truncated storage accepted")
	}
}
