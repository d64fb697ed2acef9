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

// Package funit contains types for quantities measured in font design units.
package funit

// Int16 is a 16-bit integer in font design units.  Advance widths,
// side bearings and glyph coordinates all use this type.
type Int16 int16

// Rect is a glyph bounding box in font design units.
type Rect struct {
	LLx, LLy, URx, URy Int16
}

// IsZero reports whether the glyph leaves no marks on the page.
// Blank glyphs keep their advance width but have no box.
func (rect Rect) IsZero() bool {
	return rect == Rect{}
}

// Extend enlarges the rectangle to also cover other.  Accumulating
// glyph boxes starting from the zero value gives the union of the
// marked ones.
func (rect *Rect) Extend(other Rect) {
	if other.IsZero() {
		return
	}
	if rect.IsZero() {
		*rect = other
		return
	}
	if other.LLx < rect.LLx {
		rect.LLx = other.LLx
	}
	if other.LLy < rect.LLy {
		rect.LLy = other.LLy
	}
	if other.URx > rect.URx {
		rect.URx = other.URx
	}
	if other.URy > rect.URy {
		rect.URy = other.URy
	}
}
