// Package varint implements the unsigned LEB128 length prefixes used by
// the XLB bundle container.
package varint

import "errors"

var (
	ErrTruncated = errors.New("varint: truncated input")
	ErrOverflow  = errors.New("varint: value overflows 64 bits")
)

// Read decodes one unsigned LEB128 value from buf starting at off and
// returns the value together with the offset of the first byte after it.
// Each byte contributes its low 7 bits at an increasing shift; a clear
// high bit terminates the encoding.
func Read(buf []byte, off int) (uint64, int, error) {
	var val uint64
	shift := uint(0)
	for {
		if off >= len(buf) {
			return 0, off, ErrTruncated
		}
		b := buf[off]
		off++
		val |= uint64(b&0x7F) << shift
		if b&0x80 == 0 {
			return val, off, nil
		}
		shift += 7
		if shift >= 64 {
			return 0, off, ErrOverflow
		}
	}
}

// Append encodes v as unsigned LEB128 and appends it to dst.
func Append(dst []byte, v uint64) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}
