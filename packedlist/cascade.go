package packedlist

// fieldWidth returns the number of bytes a cell's prev_entry_length field
// currently occupies (1 or 5).
func fieldWidth(w int) int { return w }

// widthFor returns the field width needed to encode prevLen: 1 byte below
// the 254-byte boundary, else the 0xFE-marker 5-byte form (§4.3).
func widthFor(prevLen int) int {
	if prevLen < 254 {
		return 1
	}
	return 5
}

// entryTotalLen returns the full on-wire byte length of cell i, including
// its prev_entry_length field.
func (l *List) entryTotalLen(i int) int {
	c := l.cells[i]
	return fieldWidth(c.prevFieldWidth) + entryEncodedLen(c.payload)
}

// cascadeFrom repairs prev_entry_length field widths starting at cell index
// i, growing (never shrinking) each successor's field until a level
// requires no change. This is the cascade update described in §4.3: an
// insertion or deletion that changes a predecessor's length may force its
// successor's prev_entry_length field to grow from 1 to 5 bytes, which
// changes the successor's own total length and may in turn force the
// entry after that to grow too. Shrinking a field back to 1 byte is never
// done, even if a later mutation would make 1 byte sufficient again — this
// is the deliberate asymmetry that avoids oscillation near the boundary.
func (l *List) cascadeFrom(i int) {
	for i > 0 && i < len(l.cells) {
		required := widthFor(l.entryTotalLen(i - 1))
		if l.cells[i].prevFieldWidth >= required {
			return
		}
		l.cells[i].prevFieldWidth = required
		i++
	}
}
