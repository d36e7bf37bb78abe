// Package packedlist implements the core's packed-list encoding (spec
// §3/§4.3): a single contiguous byte blob holding variable-length string or
// integer entries back-to-back, each carrying its predecessor's byte length
// for bidirectional traversal. Mutation is modeled over a logical cell
// slice whose serialized form (Bytes) is always byte-exact with §6's wire
// contract; the cell slice additionally tracks each entry's current
// prev_entry_length field width so the cascade-update asymmetry in §4.3
// ("deliberately does not shrink... back to 1 byte") holds across mutations
// without re-deriving widths from scratch on every call.
package packedlist

import (
	"encoding/binary"

	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("packedlist")

const headerSize = 10

// Where selects which end of the list Push operates on.
type Where int

const (
	Head Where = iota
	Tail
)

type cell struct {
	payload        []byte
	prevFieldWidth int // 1 or 5
}

// List is a packed list.
type List struct {
	cells []cell
}

// New returns an empty packed list (header + terminator only).
func New() *List {
	return &List{}
}

// Length returns the number of entries; it never scans. The u16
// sentinel in the serialized header only matters for the on-wire form
// (Bytes); the in-memory cell slice always knows its exact length.
func (l *List) Length() int { return len(l.cells) }

// Push appends payload at the given end.
func (l *List) Push(payload []byte, where Where) {
	switch where {
	case Head:
		l.InsertAt(0, payload)
	default:
		l.InsertAt(len(l.cells), payload)
	}
}

// InsertAt inserts payload immediately before cell index idx (idx ==
// len(cells) appends at the tail).
func (l *List) InsertAt(idx int, payload []byte) {
	if idx < 0 || idx > len(l.cells) {
		panic("packedlist: insert index out of range")
	}
	prevLen := 0
	if idx > 0 {
		prevLen = l.entryTotalLen(idx - 1)
	}
	c := cell{payload: append([]byte(nil), payload...), prevFieldWidth: widthFor(prevLen)}

	l.cells = append(l.cells, cell{})
	copy(l.cells[idx+1:], l.cells[idx:])
	l.cells[idx] = c

	l.cascadeFrom(idx + 1)
}

// Delete removes the entry at cursor, returning the cursor that continues
// iteration in the forward direction (the entry that now occupies that
// position, or an invalid cursor if the deleted entry was the tail).
func (l *List) Delete(cursor Cursor) Cursor {
	idx := int(cursor)
	if idx < 0 || idx >= len(l.cells) {
		return NoCursor
	}
	l.cells = append(l.cells[:idx], l.cells[idx+1:]...)
	if idx < len(l.cells) {
		l.cascadeFrom(idx)
		return Cursor(idx)
	}
	return NoCursor
}

// DeleteRange removes count entries starting at logical index (negative
// indices count from the tail, per Index).
func (l *List) DeleteRange(index, count int) {
	start, ok := l.resolveIndex(index)
	if !ok || count <= 0 {
		return
	}
	end := start + count
	if end > len(l.cells) {
		end = len(l.cells)
	}
	l.cells = append(l.cells[:start], l.cells[end:]...)
	l.cascadeFrom(start)
}

// Cursor identifies an entry. NoCursor is the invalid/absent value.
type Cursor int

const NoCursor Cursor = -1

func (l *List) resolveIndex(i int) (int, bool) {
	n := len(l.cells)
	if i < 0 {
		i = n + i
	}
	if i < 0 || i >= n {
		return 0, false
	}
	return i, true
}

// Index returns the cursor for logical index i (negative counts from the
// tail, -1 = last).
func (l *List) Index(i int) (Cursor, bool) {
	idx, ok := l.resolveIndex(i)
	if !ok {
		return NoCursor, false
	}
	return Cursor(idx), true
}

// Next returns the cursor following cursor, or NoCursor at the tail.
func (l *List) Next(cursor Cursor) (Cursor, bool) {
	idx := int(cursor) + 1
	if idx < 0 || idx >= len(l.cells) {
		return NoCursor, false
	}
	return Cursor(idx), true
}

// Prev returns the cursor preceding cursor, or NoCursor at the head.
func (l *List) Prev(cursor Cursor) (Cursor, bool) {
	idx := int(cursor) - 1
	if idx < 0 || idx >= len(l.cells) {
		return NoCursor, false
	}
	return Cursor(idx), true
}

// Get decodes the value at cursor.
func (l *List) Get(cursor Cursor) (Value, bool) {
	idx := int(cursor)
	if idx < 0 || idx >= len(l.cells) {
		return Value{}, false
	}
	return decodeValue(l.cells[idx].payload), true
}

// Compare reports whether the stored value at cursor equals b, comparing as
// integers when b parses as one and the stored value is integer-encoded
// (per §4.3's compare contract), otherwise comparing raw bytes.
func (l *List) Compare(cursor Cursor, b []byte) bool {
	v, ok := l.Get(cursor)
	if !ok {
		return false
	}
	if v.IsInt {
		if iv, isInt := canonicalInt(b); isInt {
			return iv == v.Int
		}
		return string(valueBytes(v)) == string(b)
	}
	return string(v.Bytes) == string(b)
}

// Find scans forward from cursor (inclusive) for entries equal to b and
// returns the cursor of the skip-th such entry (skip < 1 counts as 1).
func (l *List) Find(cursor Cursor, b []byte, skip int) (Cursor, bool) {
	if skip < 1 {
		skip = 1
	}
	count := 0
	for c := cursor; int(c) < len(l.cells) && c != NoCursor; {
		if l.Compare(c, b) {
			count++
			if count >= skip {
				return c, true
			}
		}
		next, ok := l.Next(c)
		if !ok {
			break
		}
		c = next
	}
	return NoCursor, false
}

// Bytes renders the list to its byte-exact wire form (§6).
func (l *List) Bytes() []byte {
	entrySize := 0
	for i := range l.cells {
		entrySize += l.entryTotalLen(i)
	}
	total := headerSize + entrySize + 1 // + terminator

	buf := make([]byte, total)
	pos := headerSize
	tailOffset := uint32(headerSize)
	for i, c := range l.cells {
		start := pos
		if c.prevFieldWidth == 1 {
			prevLen := 0
			if i > 0 {
				prevLen = l.entryTotalLen(i - 1)
			}
			buf[pos] = byte(prevLen)
			pos++
		} else {
			prevLen := 0
			if i > 0 {
				prevLen = l.entryTotalLen(i - 1)
			}
			buf[pos] = 0xFE
			binary.LittleEndian.PutUint32(buf[pos+1:pos+5], uint32(prevLen))
			pos += 5
		}
		h, body := encodeValue(c.payload)
		copy(buf[pos:], h)
		pos += len(h)
		copy(buf[pos:], body)
		pos += len(body)
		tailOffset = uint32(start)
	}
	buf[pos] = terminatorByte

	binary.LittleEndian.PutUint32(buf[0:4], uint32(total))
	binary.LittleEndian.PutUint32(buf[4:8], tailOffset)
	count := len(l.cells)
	if count >= 0xFFFF {
		binary.LittleEndian.PutUint16(buf[8:10], 0xFFFF)
	} else {
		binary.LittleEndian.PutUint16(buf[8:10], uint16(count))
	}
	return buf
}

// TailOffset returns the byte offset (within Bytes()) of the final
// non-terminator entry, or of the terminator when the list is empty.
func (l *List) TailOffset() uint32 {
	if len(l.cells) == 0 {
		return headerSize
	}
	off := headerSize
	for i := 0; i < len(l.cells)-1; i++ {
		off += l.entryTotalLen(i)
	}
	return uint32(off)
}

// TotalBytes returns the total serialized length, equal to len(Bytes()).
func (l *List) TotalBytes() uint32 {
	total := headerSize + 1
	for i := range l.cells {
		total += l.entryTotalLen(i)
	}
	return uint32(total)
}
