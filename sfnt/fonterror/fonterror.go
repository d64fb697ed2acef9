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

// Package fonterror defines the error types shared by the sfnt table codecs.
package fonterror

import "fmt"

// InvalidFontError indicates a syntax error in a font file or table.
type InvalidFontError struct {
	SubSystem string
	Reason    string
}

func (err *InvalidFontError) Error() string {
	return fmt.Sprintf("%s: invalid font: %s", err.SubSystem, err.Reason)
}

// NotSupportedError indicates that a font uses a feature which is not
// supported by this library.
type NotSupportedError struct {
	SubSystem string
	Feature   string
}

func (err *NotSupportedError) Error() string {
	return fmt.Sprintf("%s: unsupported font feature: %s", err.SubSystem, err.Feature)
}

// MissingTableError indicates that a required sfnt table is absent.
type MissingTableError struct {
	Table string
}

func (err *MissingTableError) Error() string {
	return fmt.Sprintf("sfnt: missing %q table", err.Table)
}
