package attest

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/sha3"

	"github.com/Tritonn204/ledger-xelis/internal/protocol/apdu"
)

func sha3Digest(b []byte) []byte {
	sum := sha3.Sum512(b)
	return sum[:]
}

func sigResponse() apdu.Response {
	data := append([]byte{SignatureSize}, bytes.Repeat([]byte{0x05}, 32)...)
	data = append(data, bytes.Repeat([]byte{0x0E}, 32)...)
	return apdu.Response{Data: data, SW: apdu.SWOK}
}

func TestBuildSplitsSignatureHalves(t *testing.T) {
	pub := bytes.Repeat([]byte{0xC4}, 32)
	tx := []byte("transaction bytes")

	rec, err := Build(sigResponse(), pub, tx, "m/44'/587'/0'/0/0", 2, sha3Digest)
	require.NoError(t, err)

	assert.Equal(t, 1, rec.Version)
	assert.NotZero(t, rec.Timestamp)
	assert.Equal(t, "m/44'/587'/0'/0/0", rec.BIP32Path)
	assert.Equal(t, hex.EncodeToString(pub), rec.DevicePubkey)
	assert.Equal(t, len(tx), rec.TxLen)
	assert.Equal(t, hex.EncodeToString(sha3Digest(tx)), rec.TxDigest)
	assert.Len(t, rec.TxDigest, 128, "sha3-512 is 64 bytes")
	assert.Equal(t, 2, rec.BlindersCount)

	assert.Equal(t, hex.EncodeToString(bytes.Repeat([]byte{0x05}, 32)), rec.Signature.S)
	assert.Equal(t, hex.EncodeToString(bytes.Repeat([]byte{0x0E}, 32)), rec.Signature.E)
	assert.Equal(t, rec.Signature.S+rec.Signature.E, rec.Signature.Concat)
}

func TestBuildRejectsBadEnvelope(t *testing.T) {
	cases := map[string][]byte{
		"empty":             nil,
		"missing length":    bytes.Repeat([]byte{0x01}, 64),
		"wrong length byte": append([]byte{63}, bytes.Repeat([]byte{0x01}, 64)...),
		"short signature":   append([]byte{64}, bytes.Repeat([]byte{0x01}, 63)...),
	}
	for name, data := range cases {
		_, err := Build(apdu.Response{Data: data, SW: apdu.SWOK}, nil, nil, "", 0, sha3Digest)
		assert.ErrorIs(t, err, ErrMalformedSignature, name)
	}
}

func TestBuildOmitsZeroBlinderCount(t *testing.T) {
	rec, err := Build(sigResponse(), nil, nil, "m/44'/587'/0'/0/0", 0, sha3Digest)
	require.NoError(t, err)

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "blinders_count")
}

func TestWriteFileDurable(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "tx.attest.json")

	rec, err := Build(sigResponse(), bytes.Repeat([]byte{0x01}, 32), []byte{0xAB}, "m/44'/587'/0'/0/0", 1, sha3Digest)
	require.NoError(t, err)
	require.NoError(t, rec.WriteFile(out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var back Record
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, rec, back)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "tx/poc.attest.json", OutputPath("tx/poc.bundle"))
	assert.Equal(t, "raw.attest.json", OutputPath("raw.bin"))
	assert.Equal(t, "noext.attest.json", OutputPath("noext"))
}
