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

package naming_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/5hes/maple-font/freeze"
	"github.com/5hes/maple-font/internal/testfont"
	"github.com/5hes/maple-font/naming"
	"github.com/5hes/maple-font/sfnt/name"
)

func TestDerive(t *testing.T) {
	cases := []struct {
		style string
		want  naming.NameSet
	}{
		{
			style: "Regular",
			want: naming.NameSet{
				Family:         "Maple Mono",
				Subfamily:      "Regular",
				FullName:       "Maple Mono Regular",
				PostScriptName: "MapleMono-Regular",
				DisplayStyle:   "Regular",
			},
		},
		{
			style: "BoldItalic",
			want: naming.NameSet{
				Family:         "Maple Mono",
				Subfamily:      "Bold Italic",
				FullName:       "Maple Mono Bold Italic",
				PostScriptName: "MapleMono-BoldItalic",
				DisplayStyle:   "Bold Italic",
				IsItalic:       true,
			},
		},
		{
			// "Italic" starts with 'I', so no split
			style: "Italic",
			want: naming.NameSet{
				Family:         "Maple Mono",
				Subfamily:      "Italic",
				FullName:       "Maple Mono Italic",
				PostScriptName: "MapleMono-Italic",
				DisplayStyle:   "Italic",
				IsItalic:       true,
			},
		},
		{
			style: "Thin",
			want: naming.NameSet{
				Family:               "Maple Mono Thin",
				Subfamily:            "Regular",
				FullName:             "Maple Mono Thin",
				PostScriptName:       "MapleMono-Thin",
				TypographicFamily:    "Maple Mono",
				TypographicSubfamily: "Thin",
				FamilySuffix:         " Thin",
				DisplayStyle:         "Thin",
			},
		},
		{
			style: "ExtraLightItalic",
			want: naming.NameSet{
				Family:               "Maple Mono ExtraLight",
				Subfamily:            "Italic",
				FullName:             "Maple Mono ExtraLight Italic",
				PostScriptName:       "MapleMono-ExtraLightItalic",
				TypographicFamily:    "Maple Mono",
				TypographicSubfamily: "ExtraLight Italic",
				FamilySuffix:         " ExtraLight",
				DisplayStyle:         "ExtraLight Italic",
				IsItalic:             true,
			},
		},
	}

	for _, c := range cases {
		t.Run(c.style, func(t *testing.T) {
			got := naming.Derive("Maple Mono", "MapleMono", c.style, naming.SkipList)
			if d := cmp.Diff(c.want, got); d != "" {
				t.Errorf("Derive (-want +got):\n%s", d)
			}
		})
	}
}

func TestDeriveNF(t *testing.T) {
	got := naming.Derive("Maple Mono NF", "MapleMono-NF", "SemiBold", naming.SkipList)
	want := naming.NameSet{
		Family:               "Maple Mono NF SemiBold",
		Subfamily:            "Regular",
		FullName:             "Maple Mono NF SemiBold",
		PostScriptName:       "MapleMono-NF-SemiBold",
		TypographicFamily:    "Maple Mono NF",
		TypographicSubfamily: "SemiBold",
		FamilySuffix:         " SemiBold",
		DisplayStyle:         "SemiBold",
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("Derive (-want +got):\n%s", d)
	}
}

func TestUniqueID(t *testing.T) {
	policy := freeze.Policy{
		{Tag: "ss03", State: freeze.Enable},
		{Tag: "cv01", State: freeze.Disable},
		{Tag: "cv02", State: freeze.Ignore},
	}

	got := naming.UniqueID("MapleMono-Bold", policy, false)
	want := "Version 7.000;SUBF;MapleMono-Bold;2024;FL830;+ss03;-cv01;"
	if got != want {
		t.Errorf("UniqueID = %q, want %q", got, want)
	}
}

func TestUniqueIDNarrow(t *testing.T) {
	// the Narrow marker only applies to CN variants
	cases := []struct {
		ps     string
		narrow bool
		want   string
	}{
		{"MapleMono-CN-Bold", true, "Version 7.000;SUBF;MapleMono-CN-Bold;2024;FL830;Narrow;"},
		{"MapleMono-CN-Bold", false, "Version 7.000;SUBF;MapleMono-CN-Bold;2024;FL830;"},
		{"MapleMono-Bold", true, "Version 7.000;SUBF;MapleMono-Bold;2024;FL830;"},
	}
	for _, c := range cases {
		if got := naming.UniqueID(c.ps, nil, c.narrow); got != c.want {
			t.Errorf("UniqueID(%q, nil, %v) = %q, want %q", c.ps, c.narrow, got, c.want)
		}
	}
}

func TestCustomUniqueID(t *testing.T) {
	got := naming.CustomUniqueID("MapleMono", "variable")
	want := "Version 7.000;SUBF;MapleMono;2024;FL830;variable"
	if got != want {
		t.Errorf("CustomUniqueID = %q, want %q", got, want)
	}
}

func TestApplySkipList(t *testing.T) {
	font := testfont.New(testfont.Base(), nil)
	font.Name.Set(name.TypographicFamily, "stale")
	font.Name.Set(name.TypographicSubfamily, "stale")

	ns := naming.Derive("Maple Mono", "MapleMono", "Bold", naming.SkipList)
	ns.Apply(font, naming.UniqueID(ns.PostScriptName, nil, false))

	if got := font.Name.Get(name.FontFamily); got != "Maple Mono" {
		t.Errorf("ID 1 = %q", got)
	}
	if got := font.Name.Get(name.Subfamily); got != "Bold" {
		t.Errorf("ID 2 = %q", got)
	}
	if got := font.Name.Get(name.TypographicFamily); got != "" {
		t.Errorf("ID 16 = %q, want absent", got)
	}
	if got := font.Name.Get(name.TypographicSubfamily); got != "" {
		t.Errorf("ID 17 = %q, want absent", got)
	}
}

func TestApplyWeightOverride(t *testing.T) {
	cases := []struct {
		style string
		want  uint16
	}{
		{"Thin", 250},
		{"ThinItalic", 250},
		{"ExtraLight", 275},
		{"Bold", 400}, // untouched
	}
	for _, c := range cases {
		t.Run(c.style, func(t *testing.T) {
			font := testfont.New(testfont.Base(), nil)
			font.OS2.WeightClass = 400

			ns := naming.Derive("Maple Mono", "MapleMono", c.style, naming.SkipList)
			ns.Apply(font, "id")

			if got := font.OS2.WeightClass; got != c.want {
				t.Errorf("WeightClass = %d, want %d", got, c.want)
			}
		})
	}
}
