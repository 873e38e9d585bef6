// Command xeldebug runs the device's self-test command and renders the
// decoded report. Decode gaps degrade to annotated output; only
// transport failures abort.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/Tritonn204/ledger-xelis/internal/device"
	"github.com/Tritonn204/ledger-xelis/internal/logging"
	"github.com/Tritonn204/ledger-xelis/internal/protocol/report"
	"github.com/Tritonn204/ledger-xelis/internal/transport"
)

func main() {
	log := logging.Configure(logging.ProfileRuntime)

	addr := flag.String("addr", "127.0.0.1:9999", "device address")
	vectorsPath := flag.String("vectors", "", "YAML file with expected test vectors")
	flag.Parse()

	if err := run(context.Background(), log, *addr, *vectorsPath); err != nil {
		fmt.Fprintf(os.Stderr, "xeldebug: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log zerolog.Logger, addr, vectorsPath string) error {
	vec := report.DefaultVectors()
	if vectorsPath != "" {
		var err error
		if vec, err = report.LoadVectors(vectorsPath); err != nil {
			return err
		}
	}

	tr, err := transport.DialTCP(ctx, transport.TCPConfig{Address: addr}, log)
	if err != nil {
		return err
	}
	defer tr.Close()

	buf, err := device.NewClient(tr, 0, log).RunDebugTests(ctx)
	if err != nil {
		return err
	}
	log.Debug().Int("bytes", len(buf)).Msg("report received")

	rep := report.Decode(buf)
	if rep.Unknown {
		log.Warn().Uint8("kind", rep.Kind).Msg("unknown report kind")
	}
	fmt.Println(report.Render(rep, vec))
	return nil
}
