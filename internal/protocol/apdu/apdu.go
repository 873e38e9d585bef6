// Package apdu implements the command/response message layer spoken to
// the signing device: fixed five-byte command header, length-prefixed
// payload, and a trailing two-byte status word on every response.
package apdu

import (
	"errors"
	"fmt"
)

// Cla is the instruction class the device accepts.
const Cla byte = 0xE0

// Instruction identifiers.
const (
	InsGetVersion   byte = 0x03
	InsGetAppName   byte = 0x04
	InsGetPubkey    byte = 0x05
	InsSignTx       byte = 0x06
	InsLoadMemo     byte = 0x10
	InsSendBlinders byte = 0x12
	InsDebugTests   byte = 0xF0
)

// Stream continuation values carried in P2, and the fixed first-chunk P1.
const (
	P1First byte = 0x00
	P2More  byte = 0x80
	P2Last  byte = 0x00
)

// MaxData is the largest payload one command can carry behind its
// single length byte.
const MaxData = 255

var (
	ErrDataTooLarge  = errors.New("apdu: command data exceeds 255 bytes")
	ErrShortResponse = errors.New("apdu: response shorter than status word")
)

// Command is one host-to-device message.
type Command struct {
	Cla  byte
	Ins  byte
	P1   byte
	P2   byte
	Data []byte
}

// Encode serializes the command as cla|ins|p1|p2|len|data.
func (c Command) Encode() ([]byte, error) {
	if len(c.Data) > MaxData {
		return nil, ErrDataTooLarge
	}
	out := make([]byte, 0, 5+len(c.Data))
	out = append(out, c.Cla, c.Ins, c.P1, c.P2, byte(len(c.Data)))
	return append(out, c.Data...), nil
}

// Response is one device-to-host message with its status word split off.
type Response struct {
	Data []byte
	SW   StatusWord
}

// ParseResponse splits raw into payload and trailing status word.
func ParseResponse(raw []byte) (Response, error) {
	if len(raw) < 2 {
		return Response{}, ErrShortResponse
	}
	n := len(raw) - 2
	return Response{
		Data: raw[:n],
		SW:   StatusWord(uint16(raw[n])<<8 | uint16(raw[n+1])),
	}, nil
}

// OK reports whether the response carries the success status word.
func (r Response) OK() bool {
	return r.SW == SWOK
}

// Err returns nil for a success status word and a *StatusError otherwise.
func (r Response) Err() error {
	if r.OK() {
		return nil
	}
	return &StatusError{SW: r.SW}
}

// StatusError is a non-success status word surfaced as an error. The
// stream layer aborts on the first one it sees.
type StatusError struct {
	SW StatusWord
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("apdu: device returned %04x (%s)", uint16(e.SW), e.SW.Describe())
}
