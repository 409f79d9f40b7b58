package flow

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Cursor tracks the current position of one text source in characters
// (runes). It only ever moves forward; once the position reaches the text
// length the cursor is exhausted. A cursor is owned by exactly one
// controller and is not safe for concurrent use.
type Cursor struct {
	runes []rune
	pos   int
}

// NewCursor creates a cursor at the start of text.
func NewCursor(text string) *Cursor {
	return &Cursor{runes: []rune(text)}
}

// Pos is the current position in characters.
func (c *Cursor) Pos() int { return c.pos }

// Len is the total text length in characters.
func (c *Cursor) Len() int { return len(c.runes) }

// Exhausted reports whether all text has been consumed.
func (c *Cursor) Exhausted() bool { return c.pos >= len(c.runes) }

// Remaining returns the UTF-8 encoding of the unconsumed text. This is the
// buffer handed to the shaping engine; all byte offsets it reports are
// relative to it.
func (c *Cursor) Remaining() []byte {
	return []byte(string(c.runes[c.pos:]))
}

// Advance moves the cursor forward by chars characters. A position beyond
// the text length is clamped; the return value reports whether clamping
// occurred so the caller can log the event.
func (c *Cursor) Advance(chars int) (clamped bool) {
	c.pos += chars
	if c.pos > len(c.runes) {
		c.pos = len(c.runes)
		return true
	}
	return false
}

// AdvanceToEnd consumes all remaining text, marking the cursor exhausted.
// Used when the unconsumed tail is whitespace-only and will never produce a
// line.
func (c *Cursor) AdvanceToEnd() { c.pos = len(c.runes) }

// ErrSplitCharacter reports a byte offset from the shaping engine that does
// not fall on a character boundary. Per the engine contract line boundaries
// always are character boundaries, so this is an invariant violation, never
// a recoverable condition.
var ErrSplitCharacter = errors.New("byte offset splits a character")

// CharOffset converts a byte offset into buf to the equivalent character
// offset by decoding the byte prefix. The conversion is performed for every
// input; single-byte text is not special-cased, so multi-byte scripts take
// the exact same path.
func CharOffset(buf []byte, byteOff int) (int, error) {
	if byteOff < 0 || byteOff > len(buf) {
		return 0, fmt.Errorf("byte offset %d outside buffer of %d bytes", byteOff, len(buf))
	}
	if byteOff < len(buf) && byteOff > 0 && buf[byteOff]&0xC0 == 0x80 {
		return 0, fmt.Errorf("%w: offset %d", ErrSplitCharacter, byteOff)
	}
	return utf8.RuneCount(buf[:byteOff]), nil
}

// ByteOffset re-encodes the character prefix back into its byte length. It
// is the inverse of CharOffset for character-aligned offsets.
func ByteOffset(buf []byte, charOff int) (int, error) {
	off := 0
	for i := 0; i < charOff; i++ {
		if off >= len(buf) {
			return 0, fmt.Errorf("character offset %d outside buffer", charOff)
		}
		_, n := utf8.DecodeRune(buf[off:])
		off += n
	}
	return off, nil
}
