package txn

import (
	"crypto/ed25519"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-wallet-client/internal/keypair"
	"solana-wallet-client/internal/solana"
)

func TestTransfer_DataLayout(t *testing.T) {
	from := solana.MustAddress("8dXas6cPLK99H2Ym6Rc64uW9zBdCYUnyxXEYASDUFZcp")
	to := solana.MustAddress("So11111111111111111111111111111111111111112")

	ins := Transfer(from, to, 1000000)

	require.Equal(t, SystemProgram, ins.ProgramID)
	require.Len(t, ins.Data, 12)
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(ins.Data[0:4]))
	assert.Equal(t, uint64(1000000), binary.LittleEndian.Uint64(ins.Data[4:12]))

	require.Len(t, ins.Accounts, 2)
	assert.True(t, ins.Accounts[0].Signer)
	assert.True(t, ins.Accounts[0].Writable)
	assert.False(t, ins.Accounts[1].Signer)
	assert.True(t, ins.Accounts[1].Writable)
}

func TestNewMessage_TransferLayout(t *testing.T) {
	from := solana.MustAddress("8dXas6cPLK99H2Ym6Rc64uW9zBdCYUnyxXEYASDUFZcp")
	to := solana.MustAddress("So11111111111111111111111111111111111111112")

	msg, err := NewMessage(from, []Instruction{Transfer(from, to, 5)})
	require.NoError(t, err)

	// Fee payer, recipient, then the readonly program.
	require.Equal(t, []solana.Address{from, to, SystemProgram}, msg.AccountKeys)
	assert.Equal(t, uint8(1), msg.Header.NumRequiredSignatures)
	assert.Equal(t, uint8(0), msg.Header.NumReadonlySignedAccounts)
	assert.Equal(t, uint8(1), msg.Header.NumReadonlyUnsignedAccounts)

	require.Len(t, msg.Instructions, 1)
	assert.Equal(t, uint8(2), msg.Instructions[0].ProgramIDIndex)
	assert.Equal(t, []uint8{0, 1}, msg.Instructions[0].AccountIndexes)
}

func TestNewMessage_MergesDuplicateKeys(t *testing.T) {
	from := solana.MustAddress("8dXas6cPLK99H2Ym6Rc64uW9zBdCYUnyxXEYASDUFZcp")

	// Self-transfer: the same key appears as sender and recipient.
	msg, err := NewMessage(from, []Instruction{Transfer(from, from, 1)})
	require.NoError(t, err)

	require.Equal(t, []solana.Address{from, SystemProgram}, msg.AccountKeys)
	assert.Equal(t, []uint8{0, 0}, msg.Instructions[0].AccountIndexes)
}

func TestNewMessage_Rejections(t *testing.T) {
	from := solana.MustAddress("8dXas6cPLK99H2Ym6Rc64uW9zBdCYUnyxXEYASDUFZcp")

	_, err := NewMessage(solana.Address{}, []Instruction{Transfer(from, from, 1)})
	assert.Error(t, err, "zero fee payer")

	_, err = NewMessage(from, nil)
	assert.Error(t, err, "no instructions")
}

func TestMessage_SerializeLayout(t *testing.T) {
	from := solana.MustAddress("8dXas6cPLK99H2Ym6Rc64uW9zBdCYUnyxXEYASDUFZcp")
	to := solana.MustAddress("So11111111111111111111111111111111111111112")

	msg, err := NewMessage(from, []Instruction{Transfer(from, to, 5)})
	require.NoError(t, err)

	var hash solana.Blockhash
	hash[0] = 0xEE
	msg.RecentBlockhash = hash

	wire := msg.Serialize()

	// header(3) + count(1) + keys(3*32) + blockhash(32) +
	// count(1) + instruction(1 + 1 + 2 + 1 + 12)
	require.Len(t, wire, 3+1+96+32+1+17)

	assert.Equal(t, byte(1), wire[0], "numRequiredSignatures")
	assert.Equal(t, byte(3), wire[3], "account key count")
	assert.Equal(t, from.Bytes(), wire[4:36])
	assert.Equal(t, byte(0xEE), wire[100], "blockhash first byte")
}

func TestTransaction_SignAndVerify(t *testing.T) {
	kp, err := keypair.Generate()
	require.NoError(t, err)

	to := solana.MustAddress("So11111111111111111111111111111111111111112")
	tx, err := NewUnsigned(kp.Public(), Transfer(kp.Public(), to, 1000000))
	require.NoError(t, err)
	require.False(t, tx.IsSigned())

	var hash solana.Blockhash
	hash[31] = 7
	require.NoError(t, tx.Sign(kp, hash))
	require.True(t, tx.IsSigned())

	assert.Equal(t, hash, tx.Message.RecentBlockhash)

	// The signature must verify against the exact serialized message.
	pub := ed25519.PublicKey(kp.Public().Bytes())
	assert.True(t, ed25519.Verify(pub, tx.Message.Serialize(), tx.Signatures[0][:]))
}

func TestTransaction_SignRejectsNonSigner(t *testing.T) {
	payer, err := keypair.Generate()
	require.NoError(t, err)
	outsider, err := keypair.Generate()
	require.NoError(t, err)

	to := solana.MustAddress("So11111111111111111111111111111111111111112")
	tx, err := NewUnsigned(payer.Public(), Transfer(payer.Public(), to, 1))
	require.NoError(t, err)

	var hash solana.Blockhash
	err = tx.Sign(outsider, hash)
	require.Error(t, err)
}

func TestTransaction_SerializeRequiresSignatures(t *testing.T) {
	kp, err := keypair.Generate()
	require.NoError(t, err)

	to := solana.MustAddress("So11111111111111111111111111111111111111112")
	tx, err := NewUnsigned(kp.Public(), Transfer(kp.Public(), to, 1))
	require.NoError(t, err)

	_, err = tx.Serialize()
	require.Error(t, err)

	var hash solana.Blockhash
	require.NoError(t, tx.Sign(kp, hash))

	wire, err := tx.Serialize()
	require.NoError(t, err)

	// compact-u16 sig count, one signature, then the message.
	assert.Equal(t, byte(1), wire[0])
	assert.Equal(t, tx.Signatures[0][:], wire[1:65])
	assert.Equal(t, tx.Message.Serialize(), wire[65:])
}
