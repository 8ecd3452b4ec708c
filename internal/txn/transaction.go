package txn

import (
	"fmt"

	"solana-wallet-client/internal/solana"
)

// SignatureLen is the byte length of an ed25519 signature.
const SignatureLen = 64

// Transaction is a message plus one signature slot per required signer.
type Transaction struct {
	Signatures [][SignatureLen]byte
	Message    *Message
}

var _ solana.SignableTransaction = (*Transaction)(nil)

// NewUnsigned compiles instructions into an unsigned transaction with
// empty signature slots.
func NewUnsigned(payer solana.Address, instructions ...Instruction) (*Transaction, error) {
	msg, err := NewMessage(payer, instructions)
	if err != nil {
		return nil, err
	}
	return &Transaction{
		Signatures: make([][SignatureLen]byte, msg.Header.NumRequiredSignatures),
		Message:    msg,
	}, nil
}

// Sign binds the recent blockhash into the message and signs the exact
// message bytes, filling the signer's slot. Re-signing with a different
// blockhash invalidates previously filled slots, so multi-signer
// transactions must agree on the blockhash before any signature is
// collected.
func (t *Transaction) Sign(signer solana.Signer, recent solana.Blockhash) error {
	slot, err := t.signerSlot(signer.Public())
	if err != nil {
		return err
	}

	t.Message.RecentBlockhash = recent

	sig := signer.Sign(t.Message.Serialize())
	if len(sig) != SignatureLen {
		return fmt.Errorf("signer produced %d-byte signature, want %d", len(sig), SignatureLen)
	}
	copy(t.Signatures[slot][:], sig)
	return nil
}

// signerSlot finds the signature slot for a public key among the
// required signers.
func (t *Transaction) signerSlot(pub solana.Address) (int, error) {
	n := int(t.Message.Header.NumRequiredSignatures)
	for i := 0; i < n && i < len(t.Message.AccountKeys); i++ {
		if t.Message.AccountKeys[i] == pub {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%s is not a required signer", pub)
}

// IsSigned reports whether every signature slot is filled.
func (t *Transaction) IsSigned() bool {
	for _, sig := range t.Signatures {
		if sig == ([SignatureLen]byte{}) {
			return false
		}
	}
	return len(t.Signatures) > 0
}

// Serialize encodes the transaction in the legacy wire layout:
// compact-u16 signature count, signatures, message bytes.
func (t *Transaction) Serialize() ([]byte, error) {
	if !t.IsSigned() {
		return nil, fmt.Errorf("transaction has unsigned signature slots")
	}

	buf := appendCompactU16(nil, uint16(len(t.Signatures)))
	for i := range t.Signatures {
		buf = append(buf, t.Signatures[i][:]...)
	}
	buf = append(buf, t.Message.Serialize()...)
	return buf, nil
}
