// Command xelsign loads a transaction bundle, streams it to the signing
// device, and persists the resulting attestation next to the input file.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/sha3"

	"github.com/Tritonn204/ledger-xelis/internal/attest"
	"github.com/Tritonn204/ledger-xelis/internal/device"
	"github.com/Tritonn204/ledger-xelis/internal/logging"
	"github.com/Tritonn204/ledger-xelis/internal/protocol/bundle"
	"github.com/Tritonn204/ledger-xelis/internal/transport"
)

func main() {
	log := logging.Configure(logging.ProfileRuntime)

	configPath := flag.String("config", "", "path to a TOML config file")
	pathOverride := flag.String("path", "", "bip32 derivation path override")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: xelsign [-config file] [-path bip32] <bundle-or-tx-file>")
		os.Exit(2)
	}

	cfg := defaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = loadConfig(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "xelsign: %v\n", err)
			os.Exit(1)
		}
	}
	if *pathOverride != "" {
		cfg.BIP32Path = *pathOverride
	}

	if err := run(context.Background(), log, cfg, flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "xelsign: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log zerolog.Logger, cfg config, file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	b, err := bundle.Load(data)
	if err != nil {
		return err
	}
	log.Info().
		Int("tx_bytes", len(b.Transaction)).
		Int("memo_bytes", len(b.Memo)).
		Int("blinders", len(b.Blinders)).
		Bool("container", bundle.Looks(data)).
		Msg("loaded input")

	tr, err := transport.DialTCP(ctx, transport.TCPConfig{
		Address:         cfg.Address,
		ConnectTimeout:  cfg.ConnectTimeout,
		ExchangeTimeout: cfg.ExchangeTimeout,
	}, log)
	if err != nil {
		return err
	}
	defer tr.Close()

	client := device.NewClient(tr, cfg.ChunkSize, log)

	// Device-side ordering: memo preview, blinders, then the signing
	// stream itself.
	if err := client.LoadMemo(ctx, b.Memo); err != nil {
		return fmt.Errorf("load memo: %w", err)
	}
	if err := client.SendBlinders(ctx, b.Blinders); err != nil {
		return fmt.Errorf("send blinders: %w", err)
	}

	sigResp, err := client.SignTransaction(ctx, cfg.BIP32Path, b.Transaction)
	if err != nil {
		return fmt.Errorf("sign transaction: %w", err)
	}

	pubkey, err := client.GetPublicKey(ctx, cfg.BIP32Path)
	if err != nil {
		return fmt.Errorf("get public key: %w", err)
	}

	rec, err := attest.Build(sigResp, pubkey, b.Transaction, cfg.BIP32Path, len(b.Blinders), digest)
	if err != nil {
		return err
	}
	out := attest.OutputPath(file)
	if err := rec.WriteFile(out); err != nil {
		return err
	}

	log.Info().
		Str("attestation", out).
		Str("pubkey", rec.DevicePubkey).
		Str("sig_s", rec.Signature.S).
		Str("sig_e", rec.Signature.E).
		Msg("transaction signed")
	return nil
}

func digest(b []byte) []byte {
	sum := sha3.Sum512(b)
	return sum[:]
}
