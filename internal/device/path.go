package device

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const hardenedBit = 0x80000000

// DefaultPath is the derivation path the wallet uses by convention.
const DefaultPath = "m/44'/587'/0'/0/0"

var ErrBadPath = errors.New("device: invalid bip32 path")

// ParsePath parses a textual BIP32 path ("m/44'/587'/0'/0/0") into its
// element values, with the hardened bit applied.
func ParsePath(path string) ([]uint32, error) {
	parts := strings.Split(strings.TrimSpace(path), "/")
	if len(parts) < 2 || parts[0] != "m" {
		return nil, fmt.Errorf("%w: %q", ErrBadPath, path)
	}
	elems := make([]uint32, 0, len(parts)-1)
	for _, part := range parts[1:] {
		hardened := strings.HasSuffix(part, "'")
		if hardened {
			part = strings.TrimSuffix(part, "'")
		}
		v, err := strconv.ParseUint(part, 10, 32)
		if err != nil || (hardened && v >= hardenedBit) {
			return nil, fmt.Errorf("%w: element %q", ErrBadPath, part)
		}
		if hardened {
			v |= hardenedBit
		}
		elems = append(elems, uint32(v))
	}
	return elems, nil
}

// SerializePath encodes path elements the way the device expects them:
// a count byte followed by each element as a big-endian u32.
func SerializePath(elems []uint32) []byte {
	out := make([]byte, 1, 1+4*len(elems))
	out[0] = byte(len(elems))
	for _, e := range elems {
		out = binary.BigEndian.AppendUint32(out, e)
	}
	return out
}
