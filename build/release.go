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
	"compress/flate"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// CompressDir zips srcDir into zipPath.  extras maps archive names to
// source files added alongside the fonts (license, build config).
// The SHA-1 of the finished archive is returned for the manifest.
func CompressDir(srcDir, zipPath string, extras map[string]string) (string, error) {
	out, err := os.Create(zipPath)
	if err != nil {
		return "", err
	}

	zw := zip.NewWriter(out)
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, 5)
	})

	addFile := func(srcPath, archiveName string) error {
		in, err := os.Open(srcPath)
		if err != nil {
			return err
		}
		defer in.Close()
		w, err := zw.Create(filepath.ToSlash(archiveName))
		if err != nil {
			return err
		}
		_, err = io.Copy(w, in)
		return err
	}

	err = filepath.WalkDir(srcDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(srcDir, p)
		if err != nil {
			return err
		}
		return addFile(p, rel)
	})
	if err == nil {
		names := make([]string, 0, len(extras))
		for archiveName := range extras {
			names = append(names, archiveName)
		}
		// deterministic archive layout
		sort.Strings(names)
		for _, archiveName := range names {
			if err = addFile(extras[archiveName], archiveName); err != nil {
				break
			}
		}
	}
	if err2 := zw.Close(); err == nil {
		err = err2
	}
	if err2 := out.Close(); err == nil {
		err = err2
	}
	if err != nil {
		return "", err
	}

	return fileSHA1(zipPath)
}

func fileSHA1(fname string) (string, error) {
	in, err := os.Open(fname)
	if err != nil {
		return "", err
	}
	defer in.Close()
	h := sha1.New()
	if _, err := io.Copy(h, in); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// WriteSHA1Manifest writes the archive checksums as indented JSON.
func WriteSHA1Manifest(fname string, hashes map[string]string) error {
	data, err := json.MarshalIndent(hashes, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(fname, data, 0o644)
}
