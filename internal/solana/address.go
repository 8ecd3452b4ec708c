package solana

import (
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// AddressLen is the byte length of a public key.
const AddressLen = 32

// Address is a 32-byte public key identifying an account or program.
type Address [AddressLen]byte

// ParseAddress decodes a base58 address string. Any input that does not
// decode to exactly 32 bytes is rejected.
func ParseAddress(s string) (Address, error) {
	var addr Address
	raw, err := base58.Decode(s)
	if err != nil {
		return addr, &DecodeError{Field: "address", Err: err}
	}
	if len(raw) != AddressLen {
		return addr, &DecodeError{
			Field: "address",
			Err:   fmt.Errorf("decoded to %d bytes, want %d", len(raw), AddressLen),
		}
	}
	copy(addr[:], raw)
	return addr, nil
}

// MustAddress parses a base58 address and panics on failure.
// Intended for well-known program IDs declared as package variables.
func MustAddress(s string) Address {
	addr, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return addr
}

// String returns the canonical base58 form.
func (a Address) String() string {
	return base58.Encode(a[:])
}

// Bytes returns a copy of the raw 32 bytes.
func (a Address) Bytes() []byte {
	out := make([]byte, AddressLen)
	copy(out, a[:])
	return out
}

// IsZero reports whether the address is all zero bytes.
func (a Address) IsZero() bool {
	return a == Address{}
}

// IsOnCurve reports whether the address is a valid ed25519 curve point.
// Program-derived addresses are intentionally off-curve; wallet addresses
// backed by a keypair are always on-curve.
func (a Address) IsOnCurve() bool {
	_, err := new(edwards25519.Point).SetBytes(a[:])
	return err == nil
}

// BlockhashLen is the byte length of a blockhash.
const BlockhashLen = 32

// Blockhash is a recent block's hash, used as a transaction freshness token.
type Blockhash [BlockhashLen]byte

// ParseBlockhash decodes a base58 blockhash string. Decoded lengths other
// than exactly 32 bytes fail with ErrInvalidBlockhash.
func ParseBlockhash(s string) (Blockhash, error) {
	var h Blockhash
	raw, err := base58.Decode(s)
	if err != nil {
		return h, &DecodeError{Field: "blockhash", Err: err}
	}
	if len(raw) != BlockhashLen {
		return h, &DecodeError{Field: "blockhash", Err: ErrInvalidBlockhash}
	}
	copy(h[:], raw)
	return h, nil
}

// String returns the canonical base58 form.
func (h Blockhash) String() string {
	return base58.Encode(h[:])
}
