// Package attest builds and persists the signed-statement record that
// binds a transaction digest, the device's public key, and the returned
// signature. No cryptography happens here: the digest function is
// supplied by the caller and the signature halves are stored as the
// device returned them.
package attest

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Tritonn204/ledger-xelis/internal/protocol/apdu"
)

// SignatureSize is the fixed signature width in the device's response
// envelope: one length byte (64) followed by the two 32-byte halves.
const SignatureSize = 64

var ErrMalformedSignature = errors.New("attest: malformed signature envelope")

// Record is one persisted attestation. Field names match the artifact
// the harness has always written.
type Record struct {
	Version       int       `json:"version"`
	Timestamp     int64     `json:"timestamp"`
	BIP32Path     string    `json:"bip32_path"`
	DevicePubkey  string    `json:"device_pubkey_hex"`
	TxLen         int       `json:"tx_len"`
	TxDigest      string    `json:"tx_sha3_512_hex"`
	Signature     Signature `json:"signature"`
	BlindersCount int       `json:"blinders_count,omitempty"`
}

// Signature carries the 64-byte signature and its two halves, in the
// device's wire order (s then e, little-endian scalars).
type Signature struct {
	Concat string `json:"concat_hex"`
	S      string `json:"s_hex"`
	E      string `json:"e_hex"`
}

// Build validates the signature response envelope and assembles a
// record. digest is the external hash primitive applied to the
// transaction bytes.
func Build(sigResp apdu.Response, pubkey, tx []byte, path string, blinders int, digest func([]byte) []byte) (Record, error) {
	data := sigResp.Data
	if len(data) < 1+SignatureSize || data[0] != SignatureSize {
		return Record{}, fmt.Errorf("%w: length=%d", ErrMalformedSignature, len(data))
	}
	sig := data[1 : 1+SignatureSize]

	return Record{
		Version:      1,
		Timestamp:    time.Now().Unix(),
		BIP32Path:    path,
		DevicePubkey: hex.EncodeToString(pubkey),
		TxLen:        len(tx),
		TxDigest:     hex.EncodeToString(digest(tx)),
		Signature: Signature{
			Concat: hex.EncodeToString(sig),
			S:      hex.EncodeToString(sig[:SignatureSize/2]),
			E:      hex.EncodeToString(sig[SignatureSize/2:]),
		},
		BlindersCount: blinders,
	}, nil
}

// WriteFile persists the record. The JSON is marshaled in full and
// synced to a temporary file before the rename, so a crash never leaves
// a partial record at path.
func (r Record) WriteFile(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("attest: marshal record: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".attest-*")
	if err != nil {
		return fmt.Errorf("attest: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("attest: write record: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("attest: sync record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("attest: close record: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("attest: publish record: %w", err)
	}
	return nil
}

// OutputPath derives the attestation path for a source bundle file:
// the extension is replaced with ".attest.json".
func OutputPath(bundlePath string) string {
	base := bundlePath[:len(bundlePath)-len(filepath.Ext(bundlePath))]
	return base + ".attest.json"
}
