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
	"archive/zip"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCompressDir(t *testing.T) {
	dir := t.TempDir()
	srcDir := filepath.Join(dir, "TTF")
	if err := os.MkdirAll(srcDir, 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"MapleMono-Regular.ttf": "regular bytes",
		"MapleMono-Bold.ttf":    "bold bytes",
	}
	for fname, body := range files {
		if err := os.WriteFile(filepath.Join(srcDir, fname), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	license := filepath.Join(dir, "OFL.txt")
	if err := os.WriteFile(license, []byte("license text"), 0o644); err != nil {
		t.Fatal(err)
	}

	zipPath := filepath.Join(dir, "MapleMono-TTF.zip")
	hash, err := CompressDir(srcDir, zipPath, map[string]string{
		"LICENSE.txt": license,
	})
	if err != nil {
		t.Fatal(err)
	}

	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		t.Fatal(err)
	}
	defer zr.Close()

	got := make(map[string]string)
	for _, f := range zr.File {
		r, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		body, err := io.ReadAll(r)
		r.Close()
		if err != nil {
			t.Fatal(err)
		}
		got[f.Name] = string(body)
	}
	want := map[string]string{
		"MapleMono-Regular.ttf": "regular bytes",
		"MapleMono-Bold.ttf":    "bold bytes",
		"LICENSE.txt":           "license text",
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("archive contents (-want +got):\n%s", d)
	}

	// the returned hash covers the archive file itself
	data, err := os.ReadFile(zipPath)
	if err != nil {
		t.Fatal(err)
	}
	sum := sha1.Sum(data)
	if hash != hex.EncodeToString(sum[:]) {
		t.Errorf("hash = %s, want %s", hash, hex.EncodeToString(sum[:]))
	}
}

func TestWriteSHA1Manifest(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "sha1.json")
	hashes := map[string]string{
		"MapleMono-TTF.zip": "aaaa",
		"MapleMono-OTF.zip": "bbbb",
	}
	if err := WriteSHA1Manifest(fname, hashes); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(fname)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]string
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(hashes, got); d != "" {
		t.Errorf("manifest (-want +got):\n%s", d)
	}
}
