// Package keypair holds ed25519 signing keys in the 64-byte layout used
// by solana-keygen (32-byte seed followed by the 32-byte public key).
package keypair

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"

	"solana-wallet-client/internal/solana"
)

// Keypair signs transaction messages and exposes its public key as an
// address.
type Keypair struct {
	priv ed25519.PrivateKey
}

var _ solana.Signer = (*Keypair)(nil)

// FromBytes builds a keypair from the 64-byte seed+pubkey form. The
// embedded public key must match the one derived from the seed.
func FromBytes(b []byte) (*Keypair, error) {
	if len(b) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("keypair must be %d bytes, got %d", ed25519.PrivateKeySize, len(b))
	}

	priv := ed25519.NewKeyFromSeed(b[:ed25519.SeedSize])
	if !bytes.Equal(priv[ed25519.SeedSize:], b[ed25519.SeedSize:]) {
		return nil, fmt.Errorf("embedded public key does not match seed")
	}

	return &Keypair{priv: priv}, nil
}

// Generate creates a new random keypair.
func Generate() (*Keypair, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate keypair: %w", err)
	}
	return &Keypair{priv: priv}, nil
}

// LoadFile reads the JSON byte-array file format written by
// solana-keygen.
func LoadFile(path string) (*Keypair, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keypair file: %w", err)
	}

	var nums []int
	if err := json.Unmarshal(raw, &nums); err != nil {
		return nil, fmt.Errorf("parse keypair file: %w", err)
	}

	b := make([]byte, len(nums))
	for i, n := range nums {
		if n < 0 || n > 255 {
			return nil, fmt.Errorf("keypair byte %d out of range: %d", i, n)
		}
		b[i] = byte(n)
	}

	return FromBytes(b)
}

// Bytes returns a copy of the 64-byte seed+pubkey form.
func (k *Keypair) Bytes() []byte {
	out := make([]byte, len(k.priv))
	copy(out, k.priv)
	return out
}

// Public returns the public key as an address.
func (k *Keypair) Public() solana.Address {
	var addr solana.Address
	copy(addr[:], k.priv[ed25519.SeedSize:])
	return addr
}

// Sign signs the exact message bytes.
func (k *Keypair) Sign(message []byte) []byte {
	return ed25519.Sign(k.priv, message)
}
