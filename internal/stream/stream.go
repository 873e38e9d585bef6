// Package stream drives the chunked multi-command transfer used to push
// variable-length payloads to the device. Every frame carries a
// monotonically increasing sequence byte and a continuation flag; the
// final chunk is the only end-of-stream signal.
package stream

import (
	"context"
	"errors"

	"github.com/Tritonn204/ledger-xelis/internal/protocol/apdu"
	"github.com/Tritonn204/ledger-xelis/internal/transport"
)

// DefaultChunkSize is the transport-imposed payload ceiling per frame.
const DefaultChunkSize = 250

var ErrChunkSize = errors.New("stream: chunk size must be positive")

// Chunk is one bounded frame of a larger payload.
type Chunk struct {
	Index   int
	Payload []byte
	First   bool
	Last    bool
}

// Split cuts payload into consecutive chunks of at most max bytes. The
// chunks borrow payload's backing array. A zero-length payload yields
// exactly one empty chunk so the receiver still sees a begin/end
// transition.
func Split(payload []byte, max int) ([]Chunk, error) {
	if max <= 0 {
		return nil, ErrChunkSize
	}
	if len(payload) == 0 {
		return []Chunk{{Index: 0, First: true, Last: true}}, nil
	}
	chunks := make([]Chunk, 0, (len(payload)+max-1)/max)
	for off := 0; off < len(payload); off += max {
		end := off + max
		if end > len(payload) {
			end = len(payload)
		}
		chunks = append(chunks, Chunk{
			Index:   len(chunks),
			Payload: payload[off:end],
			First:   off == 0,
			Last:    end == len(payload),
		})
	}
	return chunks, nil
}

// Send streams payload to the device under the given instruction,
// synchronously, one frame per exchange. An optional prefix (such as a
// serialized derivation path) goes out as sequence 0 with the
// continuation flag set; payload chunks follow with increasing sequence
// bytes wrapping modulo 256. The response to the final chunk is
// returned; a non-success status word at any point aborts the stream.
func Send(ctx context.Context, t transport.Transport, ins byte, prefix, payload []byte, max int) (apdu.Response, error) {
	chunks, err := Split(payload, max)
	if err != nil {
		return apdu.Response{}, err
	}

	seq := 0
	if prefix != nil {
		resp, err := t.Exchange(ctx, apdu.Command{
			Cla:  apdu.Cla,
			Ins:  ins,
			P1:   apdu.P1First,
			P2:   apdu.P2More,
			Data: prefix,
		})
		if err != nil {
			return apdu.Response{}, err
		}
		if err := resp.Err(); err != nil {
			return apdu.Response{}, err
		}
		seq = 1
	}

	var last apdu.Response
	for _, c := range chunks {
		p2 := apdu.P2More
		if c.Last {
			p2 = apdu.P2Last
		}
		resp, err := t.Exchange(ctx, apdu.Command{
			Cla:  apdu.Cla,
			Ins:  ins,
			P1:   byte(seq % 256),
			P2:   p2,
			Data: c.Payload,
		})
		if err != nil {
			return apdu.Response{}, err
		}
		if err := resp.Err(); err != nil {
			return apdu.Response{}, err
		}
		seq++
		last = resp
	}
	return last, nil
}
