package flow

import (
	"bytes"
	"errors"
	"testing"
)

func TestCharOffsetMultibyte(t *testing.T) {
	buf := []byte("שלום עולם")

	// "שלום " is 4 two-byte characters plus a space.
	got, err := CharOffset(buf, 9)
	if err != nil {
		t.Fatalf("CharOffset: %v", err)
	}
	if got != 5 {
		t.Fatalf("CharOffset = %d, want 5", got)
	}

	// Whole buffer.
	got, err = CharOffset(buf, len(buf))
	if err != nil {
		t.Fatalf("CharOffset(end): %v", err)
	}
	if got != 9 {
		t.Fatalf("CharOffset(end) = %d, want 9", got)
	}
}

func TestCharOffsetASCIISamePath(t *testing.T) {
	buf := []byte("hello world")
	for _, off := range []int{0, 5, 11} {
		got, err := CharOffset(buf, off)
		if err != nil {
			t.Fatalf("CharOffset(%d): %v", off, err)
		}
		if got != off {
			t.Fatalf("CharOffset(%d) = %d", off, got)
		}
	}
}

func TestCharOffsetSplitCharacter(t *testing.T) {
	buf := []byte("של")
	_, err := CharOffset(buf, 1)
	if !errors.Is(err, ErrSplitCharacter) {
		t.Fatalf("err = %v, want ErrSplitCharacter", err)
	}
}

func TestCharOffsetOutOfBounds(t *testing.T) {
	buf := []byte("abc")
	if _, err := CharOffset(buf, -1); err == nil {
		t.Fatal("expected error for negative offset")
	}
	if _, err := CharOffset(buf, 4); err == nil {
		t.Fatal("expected error for offset past end")
	}
}

func TestByteOffsetInverse(t *testing.T) {
	buf := []byte("aש b")
	for off := 0; off <= len(buf); off++ {
		chars, err := CharOffset(buf, off)
		if errors.Is(err, ErrSplitCharacter) {
			continue
		}
		if err != nil {
			t.Fatalf("CharOffset(%d): %v", off, err)
		}
		back, err := ByteOffset(buf, chars)
		if err != nil {
			t.Fatalf("ByteOffset(%d): %v", chars, err)
		}
		if back != off {
			t.Fatalf("round trip %d -> %d -> %d", off, chars, back)
		}
	}
}

func TestCursorAdvance(t *testing.T) {
	cur := NewCursor("héllo")
	if cur.Len() != 5 {
		t.Fatalf("Len = %d, want 5", cur.Len())
	}
	if clamped := cur.Advance(2); clamped {
		t.Fatal("unexpected clamp")
	}
	if got := cur.Remaining(); !bytes.Equal(got, []byte("llo")) {
		t.Fatalf("Remaining = %q", got)
	}
	if cur.Exhausted() {
		t.Fatal("cursor exhausted early")
	}
}

func TestCursorAdvanceClamps(t *testing.T) {
	cur := NewCursor("abc")
	if clamped := cur.Advance(10); !clamped {
		t.Fatal("expected clamp")
	}
	if !cur.Exhausted() {
		t.Fatal("clamped cursor should be exhausted")
	}
	if cur.Pos() != 3 {
		t.Fatalf("Pos = %d, want 3", cur.Pos())
	}
}

func TestCursorAdvanceToEnd(t *testing.T) {
	cur := NewCursor("  \n ")
	cur.AdvanceToEnd()
	if !cur.Exhausted() {
		t.Fatal("cursor not exhausted")
	}
	if len(cur.Remaining()) != 0 {
		t.Fatalf("Remaining = %q", cur.Remaining())
	}
}
