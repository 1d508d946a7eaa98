/*
Copyright © 2021 the InMAP authors.
This file is part of InMAP.

InMAP is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

InMAP is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with InMAP.  If not, see <http://www.gnu.org/licenses/>.
*/

package regrid

import (
	"strings"
	"unicode/utf8"
)

// Maximum lengths of provenance notes, in bytes.
const (
	// MaxNoteLength is the capacity of the merged note of an output cell.
	MaxNoteLength = 255
	// MaxPointNoteLength is the longest note an input point may carry.
	MaxPointNoteLength = 79
)

// AppendNote merges note into the comma-separated provenance list
// existing. If note already occurs in existing, existing is returned
// unchanged. Otherwise note is appended after a comma (when existing is
// not empty), truncated at a UTF-8 boundary so the result is at most
// MaxNoteLength bytes.
func AppendNote(existing, note string) string {
	if note == "" || strings.Contains(existing, note) {
		return existing
	}
	sep := ""
	if existing != "" {
		sep = ","
	}
	room := MaxNoteLength - len(existing) - len(sep)
	if room <= 0 {
		return existing
	}
	if len(note) > room {
		i := room
		for i > 0 && !utf8.RuneStart(note[i]) {
			i--
		}
		note = note[:i]
		// A truncated note may already be present from an earlier
		// append that filled the list.
		if note == "" || strings.Contains(existing, note) {
			return existing
		}
	}
	return existing + sep + note
}
