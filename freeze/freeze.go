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

// Package freeze permanently applies optional OpenType features, so that
// consumers without feature support see the substituted glyphs.
package freeze

import (
	"errors"
	"fmt"
	"log"
	"sort"

	"golang.org/x/exp/slices"

	"github.com/5hes/maple-font/sfnt"
	"github.com/5hes/maple-font/sfnt/fonterror"
	"github.com/5hes/maple-font/sfnt/glyf"
	"github.com/5hes/maple-font/sfnt/gtab"
)

// MovingTags lists the features that are frozen by relocating their
// substitution rules into "calt" instead of rewriting glyph data.  Their
// rules are context-sensitive and cannot be baked into outlines.
var MovingTags = []string{"ss03", "ss05", "ss07"}

// MissingGlyphError reports a substitution pair naming a glyph that is
// absent from the outline or metrics store.
type MissingGlyphError struct {
	Tag      string
	Old, New string
}

func (e *MissingGlyphError) Error() string {
	return fmt.Sprintf("freeze %s: glyph %q or %q does not exist", e.Tag, e.Old, e.New)
}

// Apply freezes features according to the policy:
//
//   - disable: the feature's lookup-index list is cleared; it stays
//     declared but becomes a no-op.
//   - enable, tag in movingTags: the feature's lookup indices are
//     appended to every "calt" feature, making the rules apply in
//     running text without opt-in.
//   - enable otherwise: each single-substitution pair of the feature's
//     lookups is baked in by overwriting the source glyph's outline and
//     metrics with the substitute's.
//   - ignore, or tag not present in the font: no change.
//
// A feature whose substitutions reference a missing glyph is skipped
// entirely and reported; features already applied are unaffected.
func Apply(font *sfnt.Font, policy Policy, movingTags []string) error {
	if font.Gsub == nil {
		return &fonterror.MissingTableError{Table: "GSUB"}
	}
	if font.Glyf == nil {
		return &fonterror.MissingTableError{Table: "glyf"}
	}
	if font.Hmtx == nil {
		return &fonterror.MissingTableError{Table: "hmtx"}
	}

	byTag := make(map[string]*gtab.Feature)
	var calt []*gtab.Feature
	for _, f := range font.Gsub.Features {
		if f.Tag == "calt" {
			calt = append(calt, f)
		} else {
			byTag[f.Tag] = f
		}
	}

	moving := make(map[string]bool, len(movingTags))
	for _, tag := range movingTags {
		moving[tag] = true
	}

	var errs []error
	for _, ts := range policy {
		target := byTag[ts.Tag]
		if target == nil || ts.State == Ignore {
			continue
		}

		if ts.State == Disable {
			target.Lookups = nil
			continue
		}

		if moving[ts.Tag] {
			// skip indices already present, so freezing an
			// already-frozen font changes nothing
			for _, c := range calt {
				for _, idx := range target.Lookups {
					if !slices.Contains(c.Lookups, idx) {
						c.Lookups = append(c.Lookups, idx)
					}
				}
			}
			continue
		}

		if err := bakeFeature(font, ts.Tag, target); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// bakeFeature validates every substitution pair of the feature before
// touching the font, so a missing glyph never leaves a partial result.
func bakeFeature(font *sfnt.Font, tag string, target *gtab.Feature) error {
	type pair struct {
		old, new glyf.GlyphID
	}
	var pairs []pair
	numGlyphs := font.NumGlyphs()

	for _, idx := range target.Lookups {
		if int(idx) >= len(font.Gsub.Lookups) {
			return &fonterror.InvalidFontError{
				SubSystem: "freeze",
				Reason:    fmt.Sprintf("feature %s references lookup %d", tag, idx),
			}
		}
		mapping, ok, err := font.Gsub.Lookups[idx].SingleSubstitutions()
		if err != nil {
			return err
		}
		if !ok {
			return &fonterror.NotSupportedError{
				SubSystem: "freeze",
				Feature:   fmt.Sprintf("non-single substitution in feature %s", tag),
			}
		}
		for oldGID, newGID := range mapping {
			if int(oldGID) >= numGlyphs || int(newGID) >= numGlyphs ||
				int(oldGID) >= len(font.Hmtx.Widths) || int(newGID) >= len(font.Hmtx.Widths) {
				return &MissingGlyphError{
					Tag: tag,
					Old: font.GlyphName(oldGID),
					New: font.GlyphName(newGID),
				}
			}
			pairs = append(pairs, pair{oldGID, newGID})
		}
	}

	sort.Slice(pairs, func(i, j int) bool { return pairs[i].old < pairs[j].old })
	for _, p := range pairs {
		font.ReplaceGlyph(p.old, p.new)
	}
	return nil
}

// Override is a forced rewrite of one feature's substitution mapping,
// keyed by glyph names.  It papers over authored mappings known to be
// wrong in specific upstream sources.
type Override struct {
	Tag     string
	Mapping map[string]string
}

// ApplyOverride replaces the contents of the first lookup of the given
// feature with the override mapping.  Fonts not declaring the feature
// are left alone.
func ApplyOverride(font *sfnt.Font, ov Override) error {
	if font.Gsub == nil {
		return &fonterror.MissingTableError{Table: "GSUB"}
	}
	feature := font.Gsub.Features.Find(ov.Tag)
	if feature == nil || len(feature.Lookups) == 0 {
		return nil
	}
	idx := feature.Lookups[0]
	if int(idx) >= len(font.Gsub.Lookups) {
		return &fonterror.InvalidFontError{
			SubSystem: "freeze",
			Reason:    fmt.Sprintf("feature %s references lookup %d", ov.Tag, idx),
		}
	}
	lookup := font.Gsub.Lookups[idx]

	mapping := make(map[glyf.GlyphID]glyf.GlyphID, len(ov.Mapping))
	for oldName, newName := range ov.Mapping {
		oldGID, ok1 := font.GlyphIndex(oldName)
		newGID, ok2 := font.GlyphIndex(newName)
		if !ok1 || !ok2 {
			return &MissingGlyphError{Tag: ov.Tag, Old: oldName, New: newName}
		}
		mapping[oldGID] = newGID
	}

	if existing, ok, err := lookup.SingleSubstitutions(); err == nil && ok {
		if !sameMapping(existing, mapping) {
			log.Printf("freeze: %s mapping differs from the assumed one, overriding", ov.Tag)
		}
	}
	lookup.SetSingleSubstitutions(mapping)
	return nil
}

func sameMapping(a, b map[glyf.GlyphID]glyf.GlyphID) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}
