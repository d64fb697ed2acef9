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

package build

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Hooks invokes external post-processing tools on font files the
// driver has already written.  The driver does not depend on their
// internals, only on them mutating the given paths in place.
type Hooks interface {
	Run(args ...string) error
}

// FTCLI runs the foundrytools-cli tool for hinting, format conversion
// and file-level fixups.
type FTCLI struct {
	// Bin is the executable name, "ftcli" if empty.
	Bin string
}

func (ft *FTCLI) bin() string {
	if ft.Bin != "" {
		return ft.Bin
	}
	return "ftcli"
}

// Available reports whether the tool can be found.
func (ft *FTCLI) Available() bool {
	_, err := exec.LookPath(ft.bin())
	return err == nil
}

// Run executes one ftcli subcommand.
func (ft *FTCLI) Run(args ...string) error {
	cmd := exec.Command(ft.bin(), args...)
	cmd.Stdin = nil
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ftcli %s: %w\n%s",
			strings.Join(args, " "), err, out)
	}
	return nil
}

// FontPatcher drives the Nerd Fonts font-patcher script through
// FontForge.  Arguments are passed to the script unchanged.
type FontPatcher struct {
	// Bin is the FontForge executable, "fontforge" if empty.
	Bin string
	// Script is the patcher script path,
	// "FontPatcher/font-patcher" if empty.
	Script string
	// Mirror and Version name the download location reported when
	// the script is missing.
	Mirror  string
	Version string
}

func (fp *FontPatcher) bin() string {
	if fp.Bin != "" {
		return fp.Bin
	}
	return "fontforge"
}

func (fp *FontPatcher) script() string {
	if fp.Script != "" {
		return fp.Script
	}
	return filepath.Join("FontPatcher", "font-patcher")
}

// Run executes the patcher script with the given arguments.
func (fp *FontPatcher) Run(args ...string) error {
	script := fp.script()
	if _, err := os.Stat(script); err != nil {
		mirror := fp.Mirror
		if mirror == "" {
			mirror = "github.com"
		}
		return fmt.Errorf("%s not found, download https://%s/ryanoasis/nerd-fonts/releases/download/v%s/FontPatcher.zip and unzip it",
			script, mirror, fp.Version)
	}
	cmd := exec.Command(fp.bin(), append([]string{"-script", script}, args...)...)
	cmd.Stdin = nil
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("font-patcher %s: %w\n%s",
			strings.Join(args, " "), err, out)
	}
	return nil
}

// NopHooks ignores every invocation.  Used in tests and dry runs.
type NopHooks struct{}

// Run implements Hooks.
func (NopHooks) Run(args ...string) error { return nil }
