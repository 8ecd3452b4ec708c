package txn

import (
	"fmt"

	"solana-wallet-client/internal/solana"
)

// MessageHeader declares how the leading account keys are interpreted.
type MessageHeader struct {
	NumRequiredSignatures       uint8
	NumReadonlySignedAccounts   uint8
	NumReadonlyUnsignedAccounts uint8
}

// CompiledInstruction references accounts by index into the message's
// key table.
type CompiledInstruction struct {
	ProgramIDIndex uint8
	AccountIndexes []uint8
	Data           []byte
}

// Message is a legacy transaction message: header, static account keys,
// recent blockhash, compiled instructions. Signatures are valid only
// over the exact serialized bytes, blockhash included.
type Message struct {
	Header          MessageHeader
	AccountKeys     []solana.Address
	RecentBlockhash solana.Blockhash
	Instructions    []CompiledInstruction
}

type keyMeta struct {
	signer   bool
	writable bool
}

// NewMessage compiles instructions against a fee payer. Keys are ordered
// writable signers, readonly signers, writable non-signers, readonly
// non-signers; the fee payer always occupies index 0. Flags merge when
// the same key appears in several roles.
func NewMessage(payer solana.Address, instructions []Instruction) (*Message, error) {
	if payer.IsZero() {
		return nil, fmt.Errorf("fee payer must be set")
	}
	if len(instructions) == 0 {
		return nil, fmt.Errorf("message needs at least one instruction")
	}

	metas := make(map[solana.Address]*keyMeta)
	var seen []solana.Address

	upsert := func(addr solana.Address, signer, writable bool) {
		m, ok := metas[addr]
		if !ok {
			m = &keyMeta{}
			metas[addr] = m
			seen = append(seen, addr)
		}
		m.signer = m.signer || signer
		m.writable = m.writable || writable
	}

	upsert(payer, true, true)
	for _, ins := range instructions {
		for _, acct := range ins.Accounts {
			upsert(acct.Pubkey, acct.Signer, acct.Writable)
		}
		upsert(ins.ProgramID, false, false)
	}

	// Partition into the four ordering classes, keeping first-seen order
	// within each and the payer at the very front.
	var writableSigners, readonlySigners, writableOthers, readonlyOthers []solana.Address
	for _, addr := range seen {
		if addr == payer {
			continue
		}
		m := metas[addr]
		switch {
		case m.signer && m.writable:
			writableSigners = append(writableSigners, addr)
		case m.signer:
			readonlySigners = append(readonlySigners, addr)
		case m.writable:
			writableOthers = append(writableOthers, addr)
		default:
			readonlyOthers = append(readonlyOthers, addr)
		}
	}

	keys := make([]solana.Address, 0, len(seen))
	keys = append(keys, payer)
	keys = append(keys, writableSigners...)
	keys = append(keys, readonlySigners...)
	keys = append(keys, writableOthers...)
	keys = append(keys, readonlyOthers...)

	if len(keys) > 256 {
		return nil, fmt.Errorf("too many account keys: %d", len(keys))
	}

	index := make(map[solana.Address]uint8, len(keys))
	for i, k := range keys {
		index[k] = uint8(i)
	}

	compiled := make([]CompiledInstruction, 0, len(instructions))
	for _, ins := range instructions {
		ci := CompiledInstruction{
			ProgramIDIndex: index[ins.ProgramID],
			AccountIndexes: make([]uint8, 0, len(ins.Accounts)),
			Data:           ins.Data,
		}
		for _, acct := range ins.Accounts {
			ci.AccountIndexes = append(ci.AccountIndexes, index[acct.Pubkey])
		}
		compiled = append(compiled, ci)
	}

	numSigners := 1 + len(writableSigners) + len(readonlySigners)
	return &Message{
		Header: MessageHeader{
			NumRequiredSignatures:       uint8(numSigners),
			NumReadonlySignedAccounts:   uint8(len(readonlySigners)),
			NumReadonlyUnsignedAccounts: uint8(len(readonlyOthers)),
		},
		AccountKeys:  keys,
		Instructions: compiled,
	}, nil
}

// Serialize encodes the message in the legacy wire layout.
func (m *Message) Serialize() []byte {
	buf := []byte{
		m.Header.NumRequiredSignatures,
		m.Header.NumReadonlySignedAccounts,
		m.Header.NumReadonlyUnsignedAccounts,
	}

	buf = appendCompactU16(buf, uint16(len(m.AccountKeys)))
	for _, k := range m.AccountKeys {
		buf = append(buf, k[:]...)
	}

	buf = append(buf, m.RecentBlockhash[:]...)

	buf = appendCompactU16(buf, uint16(len(m.Instructions)))
	for _, ins := range m.Instructions {
		buf = append(buf, ins.ProgramIDIndex)
		buf = appendCompactU16(buf, uint16(len(ins.AccountIndexes)))
		buf = append(buf, ins.AccountIndexes...)
		buf = appendCompactU16(buf, uint16(len(ins.Data)))
		buf = append(buf, ins.Data...)
	}

	return buf
}
