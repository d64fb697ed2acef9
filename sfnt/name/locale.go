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

package name

// appleBCP maps Macintosh language IDs to BCP 47 tags.  Records with
// language IDs not listed here are ignored on read and cannot be written.
// https://docs.microsoft.com/en-us/typography/opentype/spec/name#macintosh-language-ids
var appleBCP = map[uint16]string{
	0:  "en",
	1:  "fr",
	2:  "de",
	3:  "it",
	4:  "nl",
	5:  "sv",
	6:  "es",
	7:  "da",
	8:  "pt",
	11: "ja",
	12: "ar",
	19: "zh-TW",
	23: "tr",
	32: "ru",
	33: "zh-CN",
}

// msBCP maps Windows language IDs to BCP 47 tags.
// https://docs.microsoft.com/en-us/typography/opentype/spec/name#windows-language-ids
var msBCP = map[uint16]string{
	0x0401: "ar-SA",
	0x0404: "zh-TW",
	0x0405: "cs-CZ",
	0x0406: "da-DK",
	0x0407: "de-DE",
	0x0408: "el-GR",
	0x0409: "en-US",
	0x040A: "es-ES",
	0x040B: "fi-FI",
	0x040C: "fr-FR",
	0x040E: "hu-HU",
	0x0410: "it-IT",
	0x0411: "ja-JP",
	0x0412: "ko-KR",
	0x0413: "nl-NL",
	0x0414: "nb-NO",
	0x0415: "pl-PL",
	0x0416: "pt-BR",
	0x0419: "ru-RU",
	0x041D: "sv-SE",
	0x041F: "tr-TR",
	0x0804: "zh-CN",
	0x0809: "en-GB",
	0x0816: "pt-PT",
	0x0C04: "zh-HK",
}
