package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/Tritonn204/ledger-xelis/internal/device"
	"github.com/Tritonn204/ledger-xelis/internal/stream"
	"github.com/Tritonn204/ledger-xelis/internal/transport"
)

type config struct {
	Address         string
	ChunkSize       int
	ConnectTimeout  time.Duration
	ExchangeTimeout time.Duration
	BIP32Path       string
}

type fileConfig struct {
	Address         string `toml:"address"`
	ChunkSize       int    `toml:"chunk_size"`
	ConnectTimeout  string `toml:"connect_timeout"`
	ExchangeTimeout string `toml:"exchange_timeout"`
	BIP32Path       string `toml:"bip32_path"`
}

func defaultConfig() config {
	return config{
		Address:         "127.0.0.1:9999",
		ChunkSize:       stream.DefaultChunkSize,
		ConnectTimeout:  10 * time.Second,
		ExchangeTimeout: transport.DefaultExchangeTimeout,
		BIP32Path:       device.DefaultPath,
	}
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("address") {
		if addr := strings.TrimSpace(raw.Address); addr != "" {
			cfg.Address = addr
		}
	}

	if meta.IsDefined("chunk_size") {
		if raw.ChunkSize <= 0 {
			return config{}, fmt.Errorf("chunk_size must be positive, got %d", raw.ChunkSize)
		}
		cfg.ChunkSize = raw.ChunkSize
	}

	if meta.IsDefined("connect_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.ConnectTimeout))
		if err != nil {
			return config{}, fmt.Errorf("parse connect_timeout: %w", err)
		}
		cfg.ConnectTimeout = d
	}

	if meta.IsDefined("exchange_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.ExchangeTimeout))
		if err != nil {
			return config{}, fmt.Errorf("parse exchange_timeout: %w", err)
		}
		cfg.ExchangeTimeout = d
	}

	if meta.IsDefined("bip32_path") {
		if p := strings.TrimSpace(raw.BIP32Path); p != "" {
			cfg.BIP32Path = p
		}
	}

	return cfg, nil
}
