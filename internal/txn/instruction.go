// Package txn builds, signs, and serializes legacy Solana transactions.
package txn

import (
	"encoding/binary"

	"solana-wallet-client/internal/solana"
)

// SystemProgram is the native system program ID.
var SystemProgram = solana.MustAddress("11111111111111111111111111111111")

// AccountMeta describes how an instruction touches one account.
type AccountMeta struct {
	Pubkey   solana.Address
	Signer   bool
	Writable bool
}

// Instruction is one program invocation before compilation into a
// message.
type Instruction struct {
	ProgramID solana.Address
	Accounts  []AccountMeta
	Data      []byte
}

// System program instruction indices.
const systemTransferIndex = 2

// Transfer builds a system-program lamport transfer from one account to
// another. Data layout: u32 instruction index, u64 lamports, both
// little-endian.
func Transfer(from, to solana.Address, lamports uint64) Instruction {
	data := make([]byte, 12)
	binary.LittleEndian.PutUint32(data[0:4], systemTransferIndex)
	binary.LittleEndian.PutUint64(data[4:12], lamports)

	return Instruction{
		ProgramID: SystemProgram,
		Accounts: []AccountMeta{
			{Pubkey: from, Signer: true, Writable: true},
			{Pubkey: to, Writable: true},
		},
		Data: data,
	}
}
