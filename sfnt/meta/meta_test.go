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

package meta

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRoundTrip(t *testing.T) {
	info := &Info{}
	info.SetLanguages(TagDesignLanguages, "Latn, Hans, Hant, Jpan")
	info.SetLanguages(TagSupportedLanguages, "Latn, Hans, Hant, Jpan")

	back, err := Decode(info.Encode())
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(info, back); d != "" {
		t.Errorf("round trip (-want +got):\n%s", d)
	}
	if got := string(back.Entries["dlng"]); got != "Latn, Hans, Hant, Jpan" {
		t.Errorf("dlng = %q", got)
	}
}

func TestSetLanguagesOverwrites(t *testing.T) {
	info := &Info{}
	info.SetLanguages(TagDesignLanguages, "Latn")
	info.SetLanguages(TagDesignLanguages, "Latn, Hans")

	if got := string(info.Entries[TagDesignLanguages]); got != "Latn, Hans" {
		t.Errorf("dlng = %q", got)
	}
}
