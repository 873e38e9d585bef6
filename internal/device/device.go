// Package device exposes the signing device's operations as typed calls
// over a transport. It owns no bytes-level framing beyond assembling
// commands; streaming is delegated to the stream package.
package device

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Tritonn204/ledger-xelis/internal/protocol/apdu"
	"github.com/Tritonn204/ledger-xelis/internal/protocol/bundle"
	"github.com/Tritonn204/ledger-xelis/internal/stream"
	"github.com/Tritonn204/ledger-xelis/internal/transport"
)

// BlinderChunkSize groups seven 32-byte blinders per frame, the largest
// whole number that fits under the 255-byte command ceiling.
const BlinderChunkSize = 7 * bundle.BlinderSize

// PublicKeySize is the compressed public key width the device returns.
const PublicKeySize = 32

var ErrBadPublicKey = errors.New("device: unexpected public key envelope")

// Client drives one device over an exclusively-owned transport. Calls
// are strictly sequential; concurrent use must be serialized by the
// caller.
type Client struct {
	t         transport.Transport
	chunkSize int
	log       zerolog.Logger
}

// NewClient wraps a transport. A non-positive chunkSize selects the
// default frame ceiling.
func NewClient(t transport.Transport, chunkSize int, log zerolog.Logger) *Client {
	if chunkSize <= 0 || chunkSize > apdu.MaxData {
		chunkSize = stream.DefaultChunkSize
	}
	return &Client{t: t, chunkSize: chunkSize, log: log}
}

// GetVersion fetches the application version string.
func (c *Client) GetVersion(ctx context.Context) ([]byte, error) {
	resp, err := c.exchange(ctx, apdu.Command{Cla: apdu.Cla, Ins: apdu.InsGetVersion})
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// GetAppName fetches the application name.
func (c *Client) GetAppName(ctx context.Context) ([]byte, error) {
	resp, err := c.exchange(ctx, apdu.Command{Cla: apdu.Cla, Ins: apdu.InsGetAppName})
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// GetPublicKey derives and returns the compressed public key for path,
// without on-device display. The response envelope is one length byte
// (32) followed by the key.
func (c *Client) GetPublicKey(ctx context.Context, path string) ([]byte, error) {
	elems, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	resp, err := c.exchange(ctx, apdu.Command{
		Cla:  apdu.Cla,
		Ins:  apdu.InsGetPubkey,
		Data: SerializePath(elems),
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) < 1+PublicKeySize || resp.Data[0] != PublicKeySize {
		return nil, fmt.Errorf("%w: %x", ErrBadPublicKey, resp.Data)
	}
	return resp.Data[1 : 1+PublicKeySize], nil
}

// LoadMemo streams the memo preview to the device. A nil memo is a
// no-op; the device refuses signing without an approved memo only when
// the bundle carried one.
func (c *Client) LoadMemo(ctx context.Context, memo []byte) error {
	if len(memo) == 0 {
		return nil
	}
	c.log.Info().Int("bytes", len(memo)).Msg("sending memo preview")
	_, err := stream.Send(ctx, c.t, apdu.InsLoadMemo, nil, memo, c.chunkSize)
	return err
}

// SendBlinders streams the blinder secrets for commitment verification,
// seven per frame, in bundle order.
func (c *Client) SendBlinders(ctx context.Context, blinders [][]byte) error {
	if len(blinders) == 0 {
		return nil
	}
	c.log.Info().Int("count", len(blinders)).Msg("sending blinders")
	section := make([]byte, 0, len(blinders)*bundle.BlinderSize)
	for _, b := range blinders {
		section = append(section, b...)
	}
	_, err := stream.Send(ctx, c.t, apdu.InsSendBlinders, nil, section, BlinderChunkSize)
	return err
}

// SignTransaction streams the serialized derivation path and then the
// transaction bytes, returning the device's final response (the
// signature envelope) once the user approves.
func (c *Client) SignTransaction(ctx context.Context, path string, tx []byte) (apdu.Response, error) {
	elems, err := ParsePath(path)
	if err != nil {
		return apdu.Response{}, err
	}
	c.log.Info().Int("bytes", len(tx)).Str("path", path).Msg("streaming transaction")
	return stream.Send(ctx, c.t, apdu.InsSignTx, SerializePath(elems), tx, c.chunkSize)
}

// RunDebugTests triggers the device's self-test command and returns the
// raw report buffer for the report decoder.
func (c *Client) RunDebugTests(ctx context.Context) ([]byte, error) {
	resp, err := c.exchange(ctx, apdu.Command{Cla: apdu.Cla, Ins: apdu.InsDebugTests})
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) exchange(ctx context.Context, cmd apdu.Command) (apdu.Response, error) {
	resp, err := c.t.Exchange(ctx, cmd)
	if err != nil {
		return apdu.Response{}, err
	}
	if err := resp.Err(); err != nil {
		var se *apdu.StatusError
		if errors.As(err, &se) {
			c.log.Warn().
				Uint32("sw", uint32(se.SW)).
				Str("cause", se.SW.Describe()).
				Msg("device refused command")
		}
		return apdu.Response{}, err
	}
	return resp, nil
}
