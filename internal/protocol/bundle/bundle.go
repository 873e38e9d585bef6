// Package bundle implements the XLB1 container: a versioned envelope
// combining a transaction with an optional memo and optional 32-byte
// blinder secrets.
//
// Wire layout:
//
//	magic(4) | version(1) | memo_len(varint) | memo |
//	blinders_len(varint) | blinders | transaction(remainder)
//
// The blinders section is present for every supported version; version 0
// is a legacy layout this decoder rejects outright.
package bundle

import (
	"errors"

	"github.com/Tritonn204/ledger-xelis/internal/protocol/varint"
)

const (
	// Magic is the 4-byte container signature.
	Magic = "XLB1"
	// Version is the current container version.
	Version byte = 1
	// BlinderSize is the fixed width of one blinder secret.
	BlinderSize = 32

	headerLen = len(Magic) + 1
)

var (
	ErrNotABundle         = errors.New("bundle: missing container signature")
	ErrUnsupportedVersion = errors.New("bundle: unsupported version")
	ErrInvalidLength      = errors.New("bundle: blinder section not a multiple of 32")
	ErrTruncated          = errors.New("bundle: truncated input")
)

// Bundle is one decoded container. It is immutable after decode: the
// transfer layer borrows the byte slices and never writes through them.
type Bundle struct {
	Version     byte
	Memo        []byte
	Blinders    [][]byte
	Transaction []byte
}

// Looks reports whether data carries the container signature. It is the
// classification step: a false result means "raw transaction", not a
// malformed bundle.
func Looks(data []byte) bool {
	return len(data) >= headerLen && string(data[:len(Magic)]) == Magic
}

// Load classifies data and decodes it. Input without the container
// signature is returned as a bare transaction with an empty memo and no
// blinders; input with the signature must decode cleanly.
func Load(data []byte) (Bundle, error) {
	if !Looks(data) {
		return Bundle{Version: Version, Transaction: data}, nil
	}
	return Decode(data)
}

// Decode parses a container. It fails with ErrNotABundle when the
// signature is absent; callers wanting the raw-transaction fallback use
// Load instead.
func Decode(data []byte) (Bundle, error) {
	if !Looks(data) {
		return Bundle{}, ErrNotABundle
	}
	ver := data[len(Magic)]
	if ver < 1 {
		return Bundle{}, ErrUnsupportedVersion
	}
	off := headerLen

	memoLen, off, err := varint.Read(data, off)
	if err != nil {
		return Bundle{}, ErrTruncated
	}
	if memoLen > uint64(len(data)-off) {
		return Bundle{}, ErrTruncated
	}
	memo := data[off : off+int(memoLen)]
	off += int(memoLen)

	blindersLen, off, err := varint.Read(data, off)
	if err != nil {
		return Bundle{}, ErrTruncated
	}
	if blindersLen%BlinderSize != 0 {
		return Bundle{}, ErrInvalidLength
	}
	if blindersLen > uint64(len(data)-off) {
		return Bundle{}, ErrTruncated
	}
	section := data[off : off+int(blindersLen)]
	off += int(blindersLen)

	var blinders [][]byte
	for i := 0; i < len(section); i += BlinderSize {
		blinders = append(blinders, section[i:i+BlinderSize])
	}

	return Bundle{
		Version:     ver,
		Memo:        memo,
		Blinders:    blinders,
		Transaction: data[off:],
	}, nil
}

// Encode serializes b into the container wire layout.
func Encode(b Bundle) []byte {
	out := make([]byte, 0, headerLen+len(b.Memo)+len(b.Blinders)*BlinderSize+len(b.Transaction)+10)
	out = append(out, Magic...)
	out = append(out, b.Version)
	out = varint.Append(out, uint64(len(b.Memo)))
	out = append(out, b.Memo...)
	out = varint.Append(out, uint64(len(b.Blinders)*BlinderSize))
	for _, bl := range b.Blinders {
		out = append(out, bl...)
	}
	return append(out, b.Transaction...)
}

// BlinderBytes returns the concatenated blinder section in bundle order.
func (b Bundle) BlinderBytes() []byte {
	out := make([]byte, 0, len(b.Blinders)*BlinderSize)
	for _, bl := range b.Blinders {
		out = append(out, bl...)
	}
	return out
}
