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

package freeze

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPolicyJSONRoundTrip(t *testing.T) {
	in := `{"ss03":"enable","cv01":"disable","zero":"ignore"}`

	var p Policy
	if err := json.Unmarshal([]byte(in), &p); err != nil {
		t.Fatal(err)
	}

	want := Policy{
		{Tag: "ss03", State: Enable},
		{Tag: "cv01", State: Disable},
		{Tag: "zero", State: Ignore},
	}
	if d := cmp.Diff(want, p); d != "" {
		t.Errorf("unmarshal (-want +got):\n%s", d)
	}

	out, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != in {
		t.Errorf("marshal = %s, want %s", out, in)
	}
}

func TestPolicyGet(t *testing.T) {
	p := Policy{
		{Tag: "cv01", State: Enable},
		{Tag: "ss05", State: Disable},
	}

	cases := []struct {
		tag  string
		want State
	}{
		{"cv01", Enable},
		{"ss05", Disable},
		{"cv99", Ignore},
	}
	for _, c := range cases {
		if got := p.Get(c.tag); got != c.want {
			t.Errorf("Get(%q) = %v, want %v", c.tag, got, c.want)
		}
	}
}

func TestStateText(t *testing.T) {
	for _, s := range []State{Ignore, Enable, Disable} {
		text, err := s.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var back State
		if err := back.UnmarshalText(text); err != nil {
			t.Fatal(err)
		}
		if back != s {
			t.Errorf("round trip of %v gave %v", s, back)
		}
	}

	var s State
	if err := s.UnmarshalText([]byte("freeze")); err == nil {
		t.Error("unknown state accepted")
	}
}
