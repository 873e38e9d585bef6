// Package transport carries encoded commands to the signing device and
// returns its responses. The byte-level contract lives in the apdu
// package; this package only moves the bytes.
package transport

import (
	"context"
	"errors"

	"github.com/Tritonn204/ledger-xelis/internal/protocol/apdu"
)

var ErrClosed = errors.New("transport: connection closed")

// Transport is the exclusively-owned device handle. One operation is in
// flight at a time; concurrent callers must serialize externally.
type Transport interface {
	// Exchange sends one command and blocks until its response arrives.
	Exchange(ctx context.Context, cmd apdu.Command) (apdu.Response, error)
	Close() error
}
