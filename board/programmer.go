// Package board implements the ROM-programming transport: packing emitted
// machine words into bytes and writing them to the target FPGA board over
// a serial connection, or discarding them when no board is attached.
//
// No repository in the reference set imports a serial-port library, so
// SerialProgrammer streams records to any io.ReadWriteCloser; the CLI opens
// the port path as a plain file handle with os.OpenFile and hands it in. That is
// the one component in this module built on stdlib rather than a
// third-party dependency, because no candidate exists in the pack to wire.
package board

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Programmer is the ROM-programming transport a board or a no-op stand-in
// implements: begin a programming session, write one address/data record,
// end the session.
type Programmer interface {
	Begin() error
	Write(addr int, data []byte) error
	End() error
}

// PackWord packs a single W-bit ASCII binary word big-endian into
// ceil(wordBits/8) bytes, per spec.md §6's ROM programming transport. The
// bit at word[0] always lands at the most significant bit of the packed
// image; any padding needed to reach a byte boundary goes in the unused
// high bits of the first byte.
func PackWord(word string, wordBits int) []byte {
	nbytes := (wordBits + 7) / 8
	pad := nbytes*8 - wordBits
	full := make([]byte, nbytes*8)
	for i := 0; i < pad; i++ {
		full[i] = '0'
	}
	copy(full[pad:], word)

	out := make([]byte, nbytes)
	for i := 0; i < nbytes; i++ {
		var b byte
		for j := 0; j < 8; j++ {
			b <<= 1
			if full[i*8+j] == '1' {
				b |= 1
			}
		}
		out[i] = b
	}
	return out
}

// Null discards every record handed to it, for use where no board is
// attached (such as tests).
type Null struct{}

func (Null) Begin() error            { return nil }
func (Null) Write(int, []byte) error { return nil }
func (Null) End() error              { return nil }

// SerialProgrammer writes packed words to a board attached over a serial
// connection, opened by the caller (typically the CLI's --port flag) and
// handed in as any io.ReadWriteCloser.
type SerialProgrammer struct {
	conn io.ReadWriteCloser
}

// NewSerialProgrammer wraps an already-open connection.
func NewSerialProgrammer(conn io.ReadWriteCloser) *SerialProgrammer {
	return &SerialProgrammer{conn: conn}
}

func (p *SerialProgrammer) Begin() error { return nil }

// Write sends one address/data record: a 4-byte big-endian address header
// followed by the word's packed bytes.
func (p *SerialProgrammer) Write(addr int, data []byte) error {
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(addr))
	if _, err := p.conn.Write(header[:]); err != nil {
		return fmt.Errorf("writing address %d: %w", addr, err)
	}
	if _, err := p.conn.Write(data); err != nil {
		return fmt.Errorf("writing data for address %d: %w", addr, err)
	}
	return nil
}

func (p *SerialProgrammer) End() error { return p.conn.Close() }

// OpenSerial opens path (a serial device path such as /dev/ttyUSB0 or COM3)
// as a plain file handle and wraps it as a SerialProgrammer. Actual serial
// line discipline (baud rate, parity) is assumed configured out-of-band by
// the board's firmware and the OS device driver; this module only frames
// the programming protocol on top of whatever byte stream the handle gives.
func OpenSerial(path string, open func(string) (io.ReadWriteCloser, error)) (*SerialProgrammer, error) {
	conn, err := open(path)
	if err != nil {
		return nil, fmt.Errorf("opening serial port %q: %w", path, err)
	}
	return NewSerialProgrammer(conn), nil
}

// Program runs a full programming session against p: Begin, one Write per
// word (addresses assigned in machine-address order starting at 0), End.
func Program(p Programmer, words []string, wordBits int) error {
	if err := p.Begin(); err != nil {
		return fmt.Errorf("beginning board programming session: %w", err)
	}
	for addr, w := range words {
		if err := p.Write(addr, PackWord(w, wordBits)); err != nil {
			_ = p.End()
			return fmt.Errorf("writing word %d: %w", addr, err)
		}
	}
	return p.End()
}
