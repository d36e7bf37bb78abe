package packedlist

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestRoundTrip exercises property 5: iterating head-to-tail yields the
// pushed payloads in order, and tail-to-head yields the reverse.
func TestRoundTrip(t *testing.T) {
	l := New()
	payloads := [][]byte{[]byte("p1"), []byte("p2"), []byte("p3"), []byte("42")}
	for _, p := range payloads {
		l.Push(p, Tail)
	}
	require.Equal(t, len(payloads), l.Length())

	var forward [][]byte
	c, ok := l.Index(0)
	require.True(t, ok)
	for ok {
		v, _ := l.Get(c)
		forward = append(forward, valueBytes(v))
		c, ok = l.Next(c)
	}
	for i, p := range payloads {
		require.Equal(t, string(p), string(forward[i]))
	}

	var backward [][]byte
	c, ok = l.Index(-1)
	require.True(t, ok)
	for ok {
		v, _ := l.Get(c)
		backward = append(backward, valueBytes(v))
		c, ok = l.Prev(c)
	}
	for i := 0; i < len(forward); i++ {
		require.Equal(t, string(forward[i]), string(backward[len(backward)-1-i]))
	}
}

// TestScenarioS2 follows the spec's mixed-payload packed-list scenario.
func TestScenarioS2(t *testing.T) {
	l := New()
	l.Push([]byte("foo"), Tail)
	l.Push([]byte("quux"), Tail)
	l.Push([]byte("hello"), Head)
	l.Push([]byte("1024"), Tail)

	require.Equal(t, 4, l.Length())

	c0, _ := l.Index(0)
	v0, _ := l.Get(c0)
	require.False(t, v0.IsInt)
	require.Equal(t, "hello", string(v0.Bytes))

	c3, _ := l.Index(3)
	v3, _ := l.Get(c3)
	require.True(t, v3.IsInt)
	require.Equal(t, int64(1024), v3.Int)

	cLast, _ := l.Index(-1)
	require.Equal(t, c3, cLast)
}

// TestScenarioS3 follows the spec's cascade scenario: entries of length 253
// followed by a head insertion of length 300, crossing the 254-byte
// prev_entry_length boundary.
func TestScenarioS3(t *testing.T) {
	l := New()
	mk := func(n int) []byte { return []byte(strings.Repeat("x", n)) }

	// A 250-byte payload (>= 64, so it takes the 14-bit string header)
	// encodes as 1 prev_entry_length byte + 2 header bytes + 250 payload
	// bytes = 253 bytes total, just below the 254-byte prev_entry_length
	// boundary.
	for i := 0; i < 5; i++ {
		l.Push(mk(250), Tail)
	}
	for i := 1; i < l.Length(); i++ {
		require.Equal(t, 1, l.cells[i].prevFieldWidth)
	}

	// Inserting a 300-byte entry at the head forces the first successor's
	// prev_entry_length field to grow to 5 bytes. That alone adds 4 bytes
	// to the successor's own total length, pushing it from 253 to 257 —
	// back over the boundary — which forces the *next* successor to grow
	// too, and so on down the whole list.
	l.Push(mk(300), Head)

	for i := 1; i < l.Length(); i++ {
		require.Equal(t, 5, l.cells[i].prevFieldWidth, "cell %d did not cascade to 5-byte field", i)
	}

	expectedTail := headerSize
	for i := 0; i < l.Length()-1; i++ {
		expectedTail += l.entryTotalLen(i)
	}
	require.Equal(t, uint32(expectedTail), l.TailOffset())

	c, ok := l.Index(0)
	require.True(t, ok)
	v, _ := l.Get(c)
	require.Equal(t, 300, len(v.Bytes))
	for i := 1; i < l.Length(); i++ {
		c, ok = l.Next(c)
		require.True(t, ok)
		v, _ = l.Get(c)
		require.Equal(t, 250, len(v.Bytes))
	}
}

// TestCascadeInvariant exercises property 6: after any mutation, every
// entry's prev_entry_length correctly encodes its predecessor's byte
// length, and tail_offset points to the last entry.
func TestCascadeInvariant(t *testing.T) {
	l := New()
	for i := 0; i < 20; i++ {
		l.Push([]byte(strconv.Itoa(i*37)), Tail)
	}
	l.InsertAt(5, []byte(strings.Repeat("y", 400)))
	l.Delete(Cursor(10))

	for i := 1; i < l.Length(); i++ {
		want := l.entryTotalLen(i - 1)
		fw := l.cells[i].prevFieldWidth
		require.True(t, want < 254 && fw >= 1 || want >= 254 && fw == 5 || fw == 5,
			"entry %d: prevLen=%d field width=%d", i, want, fw)
	}

	buf := l.Bytes()
	gotTotal := uint32(len(buf))
	require.Equal(t, gotTotal, l.TotalBytes())
	gotTail := l.TailOffset()

	tailFromHeader := uint32(0)
	tailFromHeader |= uint32(buf[4])
	tailFromHeader |= uint32(buf[5]) << 8
	tailFromHeader |= uint32(buf[6]) << 16
	tailFromHeader |= uint32(buf[7]) << 24
	require.Equal(t, gotTail, tailFromHeader)
}

func TestBigEndianLengthQuirk(t *testing.T) {
	l := New()
	big := strings.Repeat("z", 20000)
	l.Push([]byte(big), Tail)

	buf := l.Bytes()
	// header(10) + prevLenField(1, first entry) + 1 marker byte + 4 BE
	// length bytes.
	require.Equal(t, byte(strEnc32Bit), buf[11]&0xC0)
	n := uint32(buf[12])<<24 | uint32(buf[13])<<16 | uint32(buf[14])<<8 | uint32(buf[15])
	require.Equal(t, uint32(20000), n)
}

func TestFindAndCompare(t *testing.T) {
	l := New()
	l.Push([]byte("alpha"), Tail)
	l.Push([]byte("7"), Tail)
	l.Push([]byte("alpha"), Tail)

	c0, _ := l.Index(0)
	require.True(t, l.Compare(c0, []byte("alpha")))

	found, ok := l.Find(c0, []byte("alpha"), 2)
	require.True(t, ok)
	idx2, _ := l.Index(2)
	require.Equal(t, idx2, found)
}

// TestBytesRoundTripViaParseEncodingHeader independently corroborates
// Bytes()'s wire encoding by walking the serialized buffer back apart with
// parseEncodingHeader (the decode half of the byte-exact format, §6) and
// checking it reconstructs the same values that were pushed.
func TestBytesRoundTripViaParseEncodingHeader(t *testing.T) {
	l := New()
	payloads := [][]byte{
		[]byte("alpha"),
		[]byte("7"),
		[]byte(strings.Repeat("m", 250)),
		[]byte("-1024"),
		[]byte(strings.Repeat("z", 20000)),
		[]byte("0"),
		[]byte("12"),
	}
	for _, p := range payloads {
		l.Push(p, Tail)
	}

	buf := l.Bytes()
	pos := headerSize
	prevLen := 0 // entryTotalLen of the preceding entry, 0 before the first
	for i, p := range payloads {
		want := decodeValue(p)
		fieldStart := pos

		if i == 0 {
			require.Equal(t, 1, l.cells[0].prevFieldWidth)
		}
		if l.cells[i].prevFieldWidth == 1 {
			got := int(buf[pos])
			require.Equal(t, prevLen, got, "entry %d: prev_entry_length mismatch", i)
			pos++
		} else {
			require.Equal(t, byte(0xFE), buf[pos])
			got := int(buf[pos+1]) | int(buf[pos+2])<<8 | int(buf[pos+3])<<16 | int(buf[pos+4])<<24
			require.Equal(t, prevLen, got, "entry %d: wide prev_entry_length mismatch", i)
			pos += 5
		}

		headerLen, payloadLen, value := parseEncodingHeader(buf[pos:])
		require.Equal(t, want.IsInt, value.IsInt, "entry %d", i)
		if want.IsInt {
			require.Equal(t, want.Int, value.Int, "entry %d", i)
		} else {
			require.Equal(t, string(want.Bytes), string(value.Bytes), "entry %d", i)
		}

		pos += headerLen + payloadLen
		prevLen = pos - fieldStart // this entry's full on-wire length, including its own prev field
	}

	require.Equal(t, byte(terminatorByte), buf[pos])
	require.Equal(t, len(buf), pos+1)
}

func TestDeleteRange(t *testing.T) {
	l := New()
	for i := 0; i < 6; i++ {
		l.Push([]byte(strconv.Itoa(i)), Tail)
	}
	l.DeleteRange(1, 3)
	require.Equal(t, 3, l.Length())
	c, _ := l.Index(0)
	v, _ := l.Get(c)
	require.Equal(t, int64(0), v.Int)
	c, _ = l.Index(1)
	v, _ = l.Get(c)
	require.Equal(t, int64(4), v.Int)
}
