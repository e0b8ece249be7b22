package board

import (
	"bytes"
	"testing"
)

func TestPackWordPadsToByteBoundary(t *testing.T) {
	// A 4-bit word "1011" packed into 1 byte should land in the low
	// nibble with the high nibble zero-padded.
	got := PackWord("1011", 4)
	want := []byte{0b00001011}
	if !bytes.Equal(got, want) {
		t.Errorf("PackWord(1011, 4) = %08b, want %08b", got, want)
	}
}

func TestPackWordExactByteMultiple(t *testing.T) {
	got := PackWord("0000000100000010", 16)
	want := []byte{1, 2}
	if !bytes.Equal(got, want) {
		t.Errorf("PackWord = %v, want %v", got, want)
	}
}

type fakeConn struct {
	buf    bytes.Buffer
	closed bool
}

func (f *fakeConn) Write(p []byte) (int, error) { return f.buf.Write(p) }
func (f *fakeConn) Read(p []byte) (int, error)  { return 0, nil }
func (f *fakeConn) Close() error                { f.closed = true; return nil }

func TestSerialProgrammerWritesAddressThenData(t *testing.T) {
	conn := &fakeConn{}
	p := NewSerialProgrammer(conn)
	if err := p.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := p.Write(1, []byte{0xAB}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := p.End(); err != nil {
		t.Fatalf("End: %v", err)
	}
	if !conn.closed {
		t.Error("End should close the underlying connection")
	}
	got := conn.buf.Bytes()
	want := []byte{0, 0, 0, 1, 0xAB}
	if !bytes.Equal(got, want) {
		t.Errorf("written bytes = %v, want %v", got, want)
	}
}

func TestNullProgrammerDiscardsEverything(t *testing.T) {
	var p Null
	if err := Program(p, []string{"0000", "1111"}, 4); err != nil {
		t.Fatalf("Program against Null: %v", err)
	}
}
