package postings

import (
	"bytes"
	"testing"
)

func TestAppendEntryLayout(t *testing.T) {
	b := AppendEntry(nil, 0x01020304, 0x0506)
	want := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
	if !bytes.Equal(b, want) {
		t.Errorf("got % x, want % x", b, want)
	}
	if len(b) != EntrySize {
		t.Errorf("entry is %d bytes, want %d", len(b), EntrySize)
	}
}

func TestTFTruncatesTo16Bits(t *testing.T) {
	b := AppendEntry(nil, 7, 1<<16+42)
	got := DecodeList(b, 1)
	if got[0].TF != 42 {
		t.Errorf("tf %d should truncate to 42, got %d", 1<<16+42, got[0].TF)
	}
	if got[0].DocID != 7 {
		t.Errorf("doc id: got %d", got[0].DocID)
	}
}

func TestEncodeDecodeList(t *testing.T) {
	in := []Entry{
		{DocID: 1, TF: 3},
		{DocID: 0xFFFFFFFF, TF: 0xFFFF},
		{DocID: 0, TF: 0},
	}
	buf := EncodeList(in)
	if len(buf) != len(in)*EntrySize {
		t.Fatalf("encoded %d bytes, want %d", len(buf), len(in)*EntrySize)
	}
	out := DecodeList(buf, len(in))
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("entry %d: got %+v want %+v", i, out[i], in[i])
		}
	}
}

func TestDecodePartialBuffer(t *testing.T) {
	buf := EncodeList([]Entry{{DocID: 1, TF: 1}, {DocID: 2, TF: 2}})
	out := DecodeList(buf, 1)
	if len(out) != 1 || out[0].DocID != 1 {
		t.Errorf("got %+v", out)
	}
}
