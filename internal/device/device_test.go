package device

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tritonn204/ledger-xelis/internal/protocol/apdu"
	"github.com/Tritonn204/ledger-xelis/internal/stream"
)

type fakeTransport struct {
	sent      []apdu.Command
	responses []apdu.Response
}

func (f *fakeTransport) Exchange(_ context.Context, cmd apdu.Command) (apdu.Response, error) {
	f.sent = append(f.sent, cmd)
	if len(f.responses) == 0 {
		return apdu.Response{SW: apdu.SWOK}, nil
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

func (f *fakeTransport) Close() error { return nil }

func newClient(f *fakeTransport) *Client {
	return NewClient(f, 0, zerolog.Nop())
}

func TestParsePath(t *testing.T) {
	elems, err := ParsePath(DefaultPath)
	require.NoError(t, err)
	require.Equal(t, []uint32{
		0x80000000 | 44,
		0x80000000 | 587,
		0x80000000,
		0,
		0,
	}, elems)
}

func TestParsePathRejectsGarbage(t *testing.T) {
	for _, p := range []string{"", "44'/587'", "m/x", "m/4294967296", "m/2147483648'"} {
		_, err := ParsePath(p)
		assert.ErrorIs(t, err, ErrBadPath, "path %q", p)
	}
}

func TestSerializePath(t *testing.T) {
	elems, err := ParsePath("m/44'/587'/0'/0/0")
	require.NoError(t, err)
	got := SerializePath(elems)
	want := []byte{
		5,
		0x80, 0x00, 0x00, 0x2C,
		0x80, 0x00, 0x02, 0x4B,
		0x80, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
	}
	require.Equal(t, want, got)
}

func TestGetPublicKey(t *testing.T) {
	key := bytes.Repeat([]byte{0xC3}, PublicKeySize)
	f := &fakeTransport{responses: []apdu.Response{
		{Data: append([]byte{PublicKeySize}, key...), SW: apdu.SWOK},
	}}
	got, err := newClient(f).GetPublicKey(context.Background(), DefaultPath)
	require.NoError(t, err)
	require.Equal(t, key, got)

	require.Len(t, f.sent, 1)
	cmd := f.sent[0]
	assert.Equal(t, apdu.Cla, cmd.Cla)
	assert.Equal(t, apdu.InsGetPubkey, cmd.Ins)
	assert.Equal(t, byte(5), cmd.Data[0])
}

func TestGetPublicKeyBadEnvelope(t *testing.T) {
	cases := [][]byte{
		nil,
		{31},
		append([]byte{31}, bytes.Repeat([]byte{0x01}, 31)...),
		bytes.Repeat([]byte{0x01}, 32), // missing length byte
	}
	for _, data := range cases {
		f := &fakeTransport{responses: []apdu.Response{{Data: data, SW: apdu.SWOK}}}
		_, err := newClient(f).GetPublicKey(context.Background(), DefaultPath)
		assert.ErrorIs(t, err, ErrBadPublicKey, "data %x", data)
	}
}

func TestSignTransactionSendsPathThenChunks(t *testing.T) {
	f := &fakeTransport{responses: []apdu.Response{
		{SW: apdu.SWOK},
		{SW: apdu.SWOK},
		{Data: append([]byte{64}, bytes.Repeat([]byte{0x01}, 64)...), SW: apdu.SWOK},
	}}
	tx := bytes.Repeat([]byte{0xAB}, 300)
	resp, err := newClient(f).SignTransaction(context.Background(), DefaultPath, tx)
	require.NoError(t, err)
	require.Equal(t, byte(64), resp.Data[0])

	require.Len(t, f.sent, 3)
	assert.Equal(t, apdu.P1First, f.sent[0].P1)
	assert.Equal(t, apdu.P2More, f.sent[0].P2)
	assert.Equal(t, byte(5), f.sent[0].Data[0], "path element count")
	assert.Len(t, f.sent[0].Data, 21)

	var joined []byte
	for _, c := range f.sent[1:] {
		joined = append(joined, c.Data...)
	}
	require.Equal(t, tx, joined)
	assert.Equal(t, apdu.P2Last, f.sent[2].P2)
}

func TestSendBlindersGroupsSevenPerFrame(t *testing.T) {
	blinders := make([][]byte, 9)
	for i := range blinders {
		blinders[i] = bytes.Repeat([]byte{byte(i + 1)}, 32)
	}
	f := &fakeTransport{}
	require.NoError(t, newClient(f).SendBlinders(context.Background(), blinders))

	require.Len(t, f.sent, 2)
	assert.Equal(t, apdu.InsSendBlinders, f.sent[0].Ins)
	assert.Len(t, f.sent[0].Data, 7*32)
	assert.Len(t, f.sent[1].Data, 2*32)
	assert.Equal(t, apdu.P2More, f.sent[0].P2)
	assert.Equal(t, apdu.P2Last, f.sent[1].P2)
}

func TestLoadMemoSkipsEmpty(t *testing.T) {
	f := &fakeTransport{}
	require.NoError(t, newClient(f).LoadMemo(context.Background(), nil))
	require.Empty(t, f.sent)
}

func TestSendBlindersSkipsEmpty(t *testing.T) {
	f := &fakeTransport{}
	require.NoError(t, newClient(f).SendBlinders(context.Background(), nil))
	require.Empty(t, f.sent)
}

func TestRunDebugTests(t *testing.T) {
	f := &fakeTransport{responses: []apdu.Response{{Data: []byte{0x2C}, SW: apdu.SWOK}}}
	buf, err := newClient(f).RunDebugTests(context.Background())
	require.NoError(t, err)
	require.Equal(t, []byte{0x2C}, buf)
	require.Equal(t, apdu.InsDebugTests, f.sent[0].Ins)
	require.Empty(t, f.sent[0].Data)
}

func TestStatusErrorSurfaces(t *testing.T) {
	f := &fakeTransport{responses: []apdu.Response{{SW: apdu.SWDeny}}}
	_, err := newClient(f).RunDebugTests(context.Background())
	var se *apdu.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, apdu.SWDeny, se.SW)
}

func TestClientChunkSizeClamped(t *testing.T) {
	f := &fakeTransport{}
	c := NewClient(f, 4096, zerolog.Nop())
	require.Equal(t, stream.DefaultChunkSize, c.chunkSize)
}
