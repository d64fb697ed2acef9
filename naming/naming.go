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

// Package naming derives naming-table entries and the unique font
// identifier from a style token.  All functions are pure: the same
// inputs always produce the same strings.
package naming

import (
	"strings"

	"golang.org/x/exp/slices"

	"github.com/5hes/maple-font/freeze"
	"github.com/5hes/maple-font/sfnt"
	"github.com/5hes/maple-font/sfnt/name"
)

// SkipList holds the four standard subfamily tokens.  Styles on this
// list keep their full style name in name ID 2 and carry no typographic
// names (IDs 16/17).
// https://github.com/subframe7536/maple-font/issues/182
var SkipList = []string{"Regular", "Bold", "Italic", "BoldItalic"}

// NameSet holds every naming-table value derived for one style.
type NameSet struct {
	Family               string // ID 1
	Subfamily            string // ID 2
	FullName             string // ID 4
	PostScriptName       string // ID 6
	TypographicFamily    string // ID 16, empty for skip-list styles
	TypographicSubfamily string // ID 17, empty for skip-list styles

	FamilySuffix string // what was appended to Family, e.g. " Thin"
	DisplayStyle string // e.g. "Bold Italic"
	IsItalic     bool
}

// Derive computes the name set for one style.  familyName may carry a
// variant suffix ("Maple Mono NF"); compactName must contain no spaces.
// Unknown tokens are handled literally rather than rejected, since
// naming must stay total.
func Derive(familyName, compactName, styleToken string, skipList []string) NameSet {
	isItalic := strings.HasSuffix(styleToken, "Italic")

	displayStyle := styleToken
	if isItalic && styleToken[0] != 'I' {
		displayStyle = styleToken[:len(styleToken)-len("Italic")] + " Italic"
	}

	ns := NameSet{
		FullName:       familyName + " " + displayStyle,
		PostScriptName: compactName + "-" + styleToken,
		DisplayStyle:   displayStyle,
		IsItalic:       isItalic,
	}

	if slices.Contains(skipList, styleToken) {
		ns.Family = familyName
		ns.Subfamily = displayStyle
		return ns
	}

	ns.FamilySuffix = " " + strings.ReplaceAll(styleToken, "Italic", "")
	ns.Family = familyName + ns.FamilySuffix
	if isItalic {
		ns.Subfamily = "Italic"
	} else {
		ns.Subfamily = "Regular"
	}
	ns.TypographicFamily = familyName
	ns.TypographicSubfamily = displayStyle
	return ns
}

// UniqueID builds the name ID 3 value.  The feature-state suffix lists
// every non-ignored tag in the policy's declared order.  The "Narrow;"
// prefix is added for narrowed CN variants.
func UniqueID(postscriptName string, policy freeze.Policy, narrow bool) string {
	var suffix strings.Builder
	for _, ts := range policy {
		switch ts.State {
		case freeze.Enable:
			suffix.WriteString("+" + ts.Tag + ";")
		case freeze.Disable:
			suffix.WriteString("-" + ts.Tag + ";")
		}
	}
	return uniqueID(postscriptName, suffix.String(), narrow)
}

// CustomUniqueID builds a name ID 3 value with a literal suffix, used
// for the variable fonts.
func CustomUniqueID(postscriptName, suffix string) string {
	return uniqueID(postscriptName, suffix, false)
}

func uniqueID(postscriptName, suffix string, narrow bool) string {
	if strings.Contains(postscriptName, "CN") && narrow {
		suffix = "Narrow;" + suffix
	}
	return "Version 7.000;SUBF;" + postscriptName + ";2024;FL830;" + suffix
}

// Apply writes the name set and the unique identifier into the font and
// applies the weight-class overrides.  Skip-list styles have their
// typographic names removed.
func (ns NameSet) Apply(font *sfnt.Font, uniqueID string) {
	font.Name.Set(name.FontFamily, ns.Family)
	font.Name.Set(name.Subfamily, ns.Subfamily)
	font.Name.Set(name.UniqueID, uniqueID)
	font.Name.Set(name.FullName, ns.FullName)
	font.Name.Set(name.PostScriptName, ns.PostScriptName)

	if ns.TypographicFamily != "" {
		font.Name.Set(name.TypographicFamily, ns.TypographicFamily)
		font.Name.Set(name.TypographicSubfamily, ns.TypographicSubfamily)
	} else {
		font.Name.Delete(name.TypographicFamily)
		font.Name.Delete(name.TypographicSubfamily)
	}

	// Thin and ExtraLight ship with weight classes that common tooling
	// rejects as out of range for those named instances.
	// https://github.com/ftCLI/FoundryTools-CLI/issues/166
	if font.OS2 != nil {
		switch ns.FamilySuffix {
		case " Thin":
			font.OS2.WeightClass = 250
		case " ExtraLight":
			font.OS2.WeightClass = 275
		}
	}
}
