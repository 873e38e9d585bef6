package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
address = "10.0.0.2:40000"
chunk_size = 128
connect_timeout = "3s"
exchange_timeout = "2m"
bip32_path = "m/44'/587'/1'/0/0"
`)
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Address != "10.0.0.2:40000" {
		t.Fatalf("unexpected address: %q", cfg.Address)
	}
	if cfg.ChunkSize != 128 {
		t.Fatalf("unexpected chunk size: %d", cfg.ChunkSize)
	}
	if cfg.ConnectTimeout != 3*time.Second {
		t.Fatalf("unexpected connect timeout: %v", cfg.ConnectTimeout)
	}
	if cfg.ExchangeTimeout != 2*time.Minute {
		t.Fatalf("unexpected exchange timeout: %v", cfg.ExchangeTimeout)
	}
	if cfg.BIP32Path != "m/44'/587'/1'/0/0" {
		t.Fatalf("unexpected path: %q", cfg.BIP32Path)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	want := defaultConfig()
	if cfg != want {
		t.Fatalf("empty file must keep defaults: got=%+v want=%+v", cfg, want)
	}
}

func TestLoadConfigRejectsBadChunkSize(t *testing.T) {
	if _, err := loadConfig(writeConfig(t, "chunk_size = 0")); err == nil {
		t.Fatalf("expected error for zero chunk size")
	}
}

func TestLoadConfigRejectsBadTimeout(t *testing.T) {
	if _, err := loadConfig(writeConfig(t, `exchange_timeout = "soon"`)); err == nil {
		t.Fatalf("expected error for unparsable timeout")
	}
}
