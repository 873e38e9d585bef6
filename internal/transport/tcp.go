package transport

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/rs/zerolog"

	"github.com/Tritonn204/ledger-xelis/internal/protocol/apdu"
)

// DefaultExchangeTimeout bounds one command/response round trip. Signing
// waits on a human pressing buttons, so the default is generous.
const DefaultExchangeTimeout = 60 * time.Second

// TCPConfig configures a connection to a device emulator.
type TCPConfig struct {
	Address         string
	ConnectTimeout  time.Duration
	ExchangeTimeout time.Duration
}

func (c TCPConfig) withDefaults() TCPConfig {
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = 10 * time.Second
	}
	if c.ExchangeTimeout <= 0 {
		c.ExchangeTimeout = DefaultExchangeTimeout
	}
	return c
}

// TCP speaks the emulator wire protocol: each direction is a 4-byte
// big-endian length prefix followed by that many bytes, with the two
// status bytes trailing the response payload outside its length.
type TCP struct {
	cfg  TCPConfig
	conn net.Conn
	log  zerolog.Logger
}

// DialTCP connects to the emulator at cfg.Address.
func DialTCP(ctx context.Context, cfg TCPConfig, log zerolog.Logger) (*TCP, error) {
	cfg = cfg.withDefaults()
	dialer := net.Dialer{Timeout: cfg.ConnectTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("transport: dial %s: %w", cfg.Address, err)
	}
	log.Debug().Str("addr", cfg.Address).Msg("device connected")
	return &TCP{cfg: cfg, conn: conn, log: log}, nil
}

func (t *TCP) Exchange(ctx context.Context, cmd apdu.Command) (apdu.Response, error) {
	if t.conn == nil {
		return apdu.Response{}, ErrClosed
	}

	msg, err := cmd.Encode()
	if err != nil {
		return apdu.Response{}, err
	}

	deadline := time.Now().Add(t.cfg.ExchangeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := t.conn.SetDeadline(deadline); err != nil {
		return apdu.Response{}, fmt.Errorf("transport: set deadline: %w", err)
	}

	t.log.Trace().Hex("apdu", msg).Msg("exchange send")

	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(msg)))
	if _, err := t.conn.Write(prefix[:]); err != nil {
		return apdu.Response{}, fmt.Errorf("transport: write length: %w", err)
	}
	if _, err := t.conn.Write(msg); err != nil {
		return apdu.Response{}, fmt.Errorf("transport: write command: %w", err)
	}

	if _, err := io.ReadFull(t.conn, prefix[:]); err != nil {
		return apdu.Response{}, fmt.Errorf("transport: read length: %w", err)
	}
	n := binary.BigEndian.Uint32(prefix[:])
	raw := make([]byte, int(n)+2)
	if _, err := io.ReadFull(t.conn, raw); err != nil {
		return apdu.Response{}, fmt.Errorf("transport: read response: %w", err)
	}

	resp, err := apdu.ParseResponse(raw)
	if err != nil {
		return apdu.Response{}, err
	}
	t.log.Trace().Hex("data", resp.Data).Uint32("sw", uint32(resp.SW)).Msg("exchange recv")
	return resp, nil
}

func (t *TCP) Close() error {
	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	return err
}
