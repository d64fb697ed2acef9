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
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestRunPool(t *testing.T) {
	files := []string{
		"MapleMono-Regular.ttf",
		"MapleMono-Bold.ttf",
		"MapleMono-Italic.ttf",
		"MapleMono-BoldItalic.ttf",
	}

	var mu sync.Mutex
	seen := make(map[string]int)
	err := RunPool(3, files, func(fname string) error {
		mu.Lock()
		seen[fname]++
		mu.Unlock()
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, fname := range files {
		if seen[fname] != 1 {
			t.Errorf("%s ran %d times", fname, seen[fname])
		}
	}
}

func TestRunPoolFailures(t *testing.T) {
	files := []string{
		"MapleMono-Regular.ttf",
		"MapleMono-Bold.ttf",
		"MapleMono-Italic.ttf",
	}
	boom := errors.New("boom")

	err := RunPool(2, files, func(fname string) error {
		if strings.Contains(fname, "Bold") || strings.Contains(fname, "Italic") {
			return boom
		}
		return nil
	})

	var be *BatchError
	if !errors.As(err, &be) {
		t.Fatalf("err = %v, want BatchError", err)
	}
	if len(be.Failures) != 2 {
		t.Fatalf("got %d failures, want 2", len(be.Failures))
	}
	// sorted by style token
	if be.Failures[0].Style != "Bold" || be.Failures[1].Style != "Italic" {
		t.Errorf("failure order: %q, %q", be.Failures[0].Style, be.Failures[1].Style)
	}
	if !errors.Is(be.Failures[0].Err, boom) {
		t.Errorf("Err = %v, want boom", be.Failures[0].Err)
	}
	if !strings.Contains(err.Error(), "2 style(s) failed") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestRunPoolRecoversPanic(t *testing.T) {
	files := []string{
		"MapleMono-Regular.ttf",
		"MapleMono-Bold.ttf",
		"MapleMono-Italic.ttf",
	}

	var mu sync.Mutex
	done := make(map[string]bool)

	err := RunPool(2, files, func(fname string) error {
		if strings.Contains(fname, "Bold") {
			panic("malformed table")
		}
		mu.Lock()
		done[fname] = true
		mu.Unlock()
		return nil
	})

	var be *BatchError
	if !errors.As(err, &be) {
		t.Fatalf("err = %v, want BatchError", err)
	}
	if len(be.Failures) != 1 || be.Failures[0].Style != "Bold" {
		t.Fatalf("failures = %v, want Bold only", be.Failures)
	}
	if !strings.Contains(be.Failures[0].Err.Error(), "panic") {
		t.Errorf("Err = %v, want a recovered panic", be.Failures[0].Err)
	}
	// the other styles still ran to completion
	if !done["MapleMono-Regular.ttf"] || !done["MapleMono-Italic.ttf"] {
		t.Errorf("completed = %v", done)
	}
}

func TestRunPoolEmpty(t *testing.T) {
	err := RunPool(4, nil, func(string) error {
		t.Error("task ran for an empty file list")
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}
