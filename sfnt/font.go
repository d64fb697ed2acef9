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

// Package sfnt reads and writes TrueType font files at the table level.
// Tables the build pipeline mutates are decoded into structured form;
// all others are carried through byte-for-byte.
package sfnt

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/5hes/maple-font/sfnt/cmap"
	"github.com/5hes/maple-font/sfnt/fonterror"
	"github.com/5hes/maple-font/sfnt/funit"
	"github.com/5hes/maple-font/sfnt/glyf"
	"github.com/5hes/maple-font/sfnt/gtab"
	"github.com/5hes/maple-font/sfnt/head"
	"github.com/5hes/maple-font/sfnt/header"
	"github.com/5hes/maple-font/sfnt/hmtx"
	"github.com/5hes/maple-font/sfnt/maxp"
	"github.com/5hes/maple-font/sfnt/meta"
	"github.com/5hes/maple-font/sfnt/name"
	"github.com/5hes/maple-font/sfnt/os2"
	"github.com/5hes/maple-font/sfnt/post"
)

// Font is the in-memory form of one font file.  A Font is owned by a
// single build task and is not safe for concurrent mutation.
type Font struct {
	ScalerType uint32

	Head *head.Info
	Maxp *maxp.Info
	Hmtx *hmtx.Info
	Name *name.Info
	OS2  *os2.Info
	Post *post.Info
	Glyf *glyf.Outlines
	CMap cmap.Table
	Gsub *gtab.Info
	Meta *meta.Info

	// Tables holds the undecoded tables, e.g. "cvt " or "GPOS".
	Tables map[string][]byte

	glyphNames []string
	nameIndex  map[string]glyf.GlyphID
}

// require removes a table that every sfnt flavor must carry.
func require(tables map[string][]byte, tag string) ([]byte, error) {
	body, ok := tables[tag]
	if !ok {
		return nil, &fonterror.MissingTableError{Table: tag}
	}
	delete(tables, tag)
	return body, nil
}

// Read decodes a complete font file.
func Read(data []byte) (*Font, error) {
	dir, err := header.Read(data)
	if err != nil {
		return nil, err
	}

	f := &Font{
		ScalerType: dir.ScalerType,
		Tables:     dir.Tables,
	}

	take := func(tag string) []byte {
		body := f.Tables[tag]
		delete(f.Tables, tag)
		return body
	}

	body, err := require(f.Tables, "head")
	if err != nil {
		return nil, err
	}
	f.Head, err = head.Read(body)
	if err != nil {
		return nil, err
	}
	body, err = require(f.Tables, "maxp")
	if err != nil {
		return nil, err
	}
	f.Maxp, err = maxp.Read(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	numGlyphs := f.Maxp.NumGlyphs

	hheaBody, err := require(f.Tables, "hhea")
	if err != nil {
		return nil, err
	}
	hmtxBody, err := require(f.Tables, "hmtx")
	if err != nil {
		return nil, err
	}
	f.Hmtx, err = hmtx.Decode(hheaBody, hmtxBody, numGlyphs)
	if err != nil {
		return nil, err
	}

	glyfBody := take("glyf")
	locaBody := take("loca")
	if glyfBody != nil && locaBody != nil {
		f.Glyf, err = glyf.Decode(glyfBody, locaBody, f.Head.IndexToLocFormat, numGlyphs)
		if err != nil {
			return nil, err
		}
	}

	if body := take("post"); body != nil {
		f.Post, err = post.Read(bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
	}
	if body := take("name"); body != nil {
		f.Name, err = name.Decode(body)
		if err != nil {
			return nil, err
		}
	}
	if body := take("OS/2"); body != nil {
		f.OS2, err = os2.Decode(body)
		if err != nil {
			return nil, err
		}
	}
	if body := take("cmap"); body != nil {
		f.CMap, err = cmap.Decode(body)
		if err != nil {
			return nil, err
		}
	}
	if body := take("GSUB"); body != nil {
		f.Gsub, err = gtab.Decode(body)
		if err != nil {
			return nil, err
		}
	}
	if body := take("meta"); body != nil {
		f.Meta, err = meta.Decode(body)
		if err != nil {
			return nil, err
		}
	}

	f.glyphNames = make([]string, numGlyphs)
	for gid := range f.glyphNames {
		if f.Post != nil && gid < len(f.Post.Names) {
			f.glyphNames[gid] = f.Post.Names[gid]
		} else {
			f.glyphNames[gid] = fmt.Sprintf("glyph%05d", gid)
		}
	}

	return f, nil
}

// ReadFile decodes the font file at the given path.
func ReadFile(fname string) (*Font, error) {
	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, err
	}
	return Read(data)
}

// NumGlyphs returns the number of glyphs in the font.
func (f *Font) NumGlyphs() int {
	return len(f.glyphNames)
}

// GlyphName returns the name of the given glyph.
func (f *Font) GlyphName(gid glyf.GlyphID) string {
	if int(gid) < len(f.glyphNames) {
		return f.glyphNames[gid]
	}
	return fmt.Sprintf("glyph%05d", gid)
}

// GlyphIndex returns the glyph ID for the given glyph name.
func (f *Font) GlyphIndex(glyphName string) (glyf.GlyphID, bool) {
	if f.nameIndex == nil {
		f.nameIndex = make(map[string]glyf.GlyphID, len(f.glyphNames))
		for gid, n := range f.glyphNames {
			f.nameIndex[n] = glyf.GlyphID(gid)
		}
	}
	gid, ok := f.nameIndex[glyphName]
	return gid, ok
}

// AppendGlyph adds a glyph at the end of the glyph store and returns
// its new glyph ID.
func (f *Font) AppendGlyph(glyphName string, g *glyf.Glyph, width, lsb funit.Int16) glyf.GlyphID {
	gid := glyf.GlyphID(len(f.glyphNames))
	f.Glyf.Glyphs = append(f.Glyf.Glyphs, g)
	f.Hmtx.Widths = append(f.Hmtx.Widths, width)
	f.Hmtx.LSBs = append(f.Hmtx.LSBs, lsb)
	if f.Post != nil && f.Post.Names != nil {
		f.Post.Names = append(f.Post.Names, glyphName)
	}
	f.glyphNames = append(f.glyphNames, glyphName)
	if f.nameIndex != nil {
		f.nameIndex[glyphName] = gid
	}
	return gid
}

// ReplaceGlyph overwrites the outline and metrics of dst with copies of
// those of src.
func (f *Font) ReplaceGlyph(dst, src glyf.GlyphID) {
	f.Glyf.Glyphs[dst] = f.Glyf.Glyphs[src].Clone()
	f.Hmtx.Widths[dst] = f.Hmtx.Widths[src]
	f.Hmtx.LSBs[dst] = f.Hmtx.LSBs[src]
}

// Write writes the font to w, re-encoding every decoded table and
// recomputing the derived header fields.
func (f *Font) Write(w io.Writer) (int64, error) {
	tables := make(map[string][]byte, len(f.Tables)+12)
	for tag, body := range f.Tables {
		tables[tag] = body
	}

	if f.Glyf != nil {
		glyfData, locaData, indexToLocFormat := f.Glyf.Encode()
		tables["glyf"] = glyfData
		tables["loca"] = locaData
		if f.Head != nil {
			f.Head.IndexToLocFormat = indexToLocFormat
			f.Head.BBox = f.Glyf.BBox()
		}
		if f.Maxp != nil {
			f.Maxp.NumGlyphs = len(f.Glyf.Glyphs)
		}
	}
	if f.Hmtx != nil {
		f.updateHmtxAggregates()
		hheaData, hmtxData := f.Hmtx.Encode()
		tables["hhea"] = hheaData
		tables["hmtx"] = hmtxData
	}
	if f.Head != nil {
		tables["head"] = f.Head.Encode()
	}
	if f.Maxp != nil {
		tables["maxp"] = f.Maxp.Encode()
	}
	if f.Post != nil {
		tables["post"] = f.Post.Encode()
	}
	if f.Name != nil {
		tables["name"] = f.Name.Encode(1)
	}
	if f.OS2 != nil {
		tables["OS/2"] = f.OS2.Encode()
	}
	if f.CMap != nil {
		tables["cmap"] = f.CMap.Encode()
	}
	if f.Gsub != nil {
		gsubData, err := f.Gsub.Encode()
		if err != nil {
			return 0, err
		}
		tables["GSUB"] = gsubData
	}
	if f.Meta != nil {
		tables["meta"] = f.Meta.Encode()
	}

	return header.Write(w, f.ScalerType, tables)
}

// WriteFile writes the font to the file with the given name.
func (f *Font) WriteFile(fname string) error {
	out, err := os.Create(fname)
	if err != nil {
		return err
	}
	_, err = f.Write(out)
	if err2 := out.Close(); err == nil {
		err = err2
	}
	return err
}

// updateHmtxAggregates recomputes the hhea extent fields from the
// outlines and side bearings.  AdvanceWidthMax is left alone: the
// width normalizer sets it explicitly.
func (f *Font) updateHmtxAggregates() {
	info := f.Hmtx
	if f.Glyf == nil {
		return
	}
	first := true
	for gid, g := range f.Glyf.Glyphs {
		if g.IsBlank() || gid >= len(info.LSBs) {
			continue
		}
		bbox := g.BBox()
		lsb := info.LSBs[gid]
		extent := lsb + funit.Int16(bbox.URx-bbox.LLx)
		rsb := funit.Int16(info.Widths[gid]) - extent
		if first {
			info.MinLSB = lsb
			info.MinRSB = rsb
			info.XMaxExtent = extent
			first = false
			continue
		}
		if lsb < info.MinLSB {
			info.MinLSB = lsb
		}
		if rsb < info.MinRSB {
			info.MinRSB = rsb
		}
		if extent > info.XMaxExtent {
			info.XMaxExtent = extent
		}
	}
}
