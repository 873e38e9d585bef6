package report

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Vectors is the caller-owned table of expected results joined against a
// decoded report when rendering. The device never ships these; they are
// host-side fixture data.
type Vectors struct {
	Keys      []KeyVector     `yaml:"keys"`
	Addresses []AddressVector `yaml:"addresses"`
}

// KeyVector names one key-derivation record and its expected compressed
// public key (little-endian hex, as the device returns it).
type KeyVector struct {
	Marker uint8  `yaml:"marker"`
	Name   string `yaml:"name"`
	Public string `yaml:"public_key_hex"`
}

// AddressVector names one address-generation record and its expected
// mainnet/testnet encodings.
type AddressVector struct {
	Marker  uint8  `yaml:"marker"`
	Name    string `yaml:"name"`
	Mainnet string `yaml:"mainnet"`
	Testnet string `yaml:"testnet"`
}

// Key returns the vector registered for a key-matrix record marker.
func (v Vectors) Key(marker byte) (KeyVector, bool) {
	for _, k := range v.Keys {
		if k.Marker == marker {
			return k, true
		}
	}
	return KeyVector{}, false
}

// Address returns the vector registered for an address-matrix record marker.
func (v Vectors) Address(marker byte) (AddressVector, bool) {
	for _, a := range v.Addresses {
		if a.Marker == marker {
			return a, true
		}
	}
	return AddressVector{}, false
}

// LoadVectors reads a YAML vector table.
func LoadVectors(path string) (Vectors, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Vectors{}, fmt.Errorf("report: read vectors: %w", err)
	}
	var v Vectors
	if err := yaml.Unmarshal(data, &v); err != nil {
		return Vectors{}, fmt.Errorf("report: parse vectors: %w", err)
	}
	return v, nil
}

// DefaultVectors is the table the device application was built against.
func DefaultVectors() Vectors {
	return Vectors{
		Keys: []KeyVector{
			{Marker: MarkKeyOne, Name: "private key = 1", Public: "8c9240b456a9e6dc65c377a1048d745f94a08cdb7f44cbcd7b46f34048871134"},
			{Marker: MarkKeyTwo, Name: "private key = 2", Public: "f05bc1df2831717c2992d85b57e0cf3d123fd6c254257de5f784be369747b249"},
			{Marker: MarkKeyOnes, Name: "private key = [0x01; 32]", Public: "02064b89dc89f5c353cf2077800e24fb83300d48b1af4a3926f1fe0a1864cf06"},
			{Marker: MarkKeyFF, Name: "private key = [0xff; 32]", Public: "f6decfbf9efabc8aa59452aa570cb84eed7fcfca7daea58a93b93444400a7a73"},
		},
		Addresses: []AddressVector{
			{
				Marker:  MarkAddrOne,
				Name:    "private key = 1",
				Mainnet: "xel:3jfypdzk48ndcewrw7ssfrt5t722prxm0azvhntmgme5qjy8zy6qqckgjqg",
				Testnet: "xet:3jfypdzk48ndcewrw7ssfrt5t722prxm0azvhntmgme5qjy8zy6qqq9zzvk",
			},
			{
				Marker:  MarkAddrTwo,
				Name:    "private key = 2",
				Mainnet: "xel:7pdurhegx9chc2vjmpd40cx085frl4kz2sjhme0hsjlrd968kfysq434xga",
				Testnet: "xet:7pdurhegx9chc2vjmpd40cx085frl4kz2sjhme0hsjlrd968kfysqdzlkyr",
			},
			{
				Marker:  MarkAddrOnes,
				Name:    "private key = [0x01; 32]",
				Mainnet: "xel:qgryhzwu386ux570ypmcqr3ylwpnqr2gkxh55wfx78lq5xryeurqqza63mr",
				Testnet: "xet:qgryhzwu386ux570ypmcqr3ylwpnqr2gkxh55wfx78lq5xryeurqq6wspha",
			},
			{
				Marker:  MarkAddrFF,
				Name:    "private key = [0xff; 32]",
				Mainnet: "xel:7m0vl0u7l27g4fv52249wr9cfmkhln720kh2tz5nhy6ygsq20fesqn2udfx",
				Testnet: "xet:7m0vl0u7l27g4fv52249wr9cfmkhln720kh2tz5nhy6ygsq20fesqteka9c",
			},
		},
	}
}
