package solana

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Account is a decoded on-chain account snapshot.
type Account struct {
	Data       []byte
	Owner      Address
	Lamports   uint64
	RentEpoch  uint64
	Executable bool
}

// BlockhashInfo pairs a recent blockhash with the last block height at
// which a transaction referencing it can still land.
type BlockhashInfo struct {
	Blockhash            Blockhash
	LastValidBlockHeight uint64
}

// ProgramAccount is one entry of a getProgramAccounts result.
type ProgramAccount struct {
	Pubkey  Address
	Account Account
}

// accountInfoWire matches the node's base64 account representation.
// Data carries a [payload, encoding-tag] pair; only the payload element
// is consumed.
type accountInfoWire struct {
	Data       []string `json:"data"`
	Executable bool     `json:"executable"`
	Lamports   uint64   `json:"lamports"`
	Owner      string   `json:"owner"`
	RentEpoch  uint64   `json:"rentEpoch"`
}

// decode converts the wire form into an Account. Any rejected field is a
// hard failure; a corrupt payload must not come back as an empty account.
func (w *accountInfoWire) decode() (Account, error) {
	if len(w.Data) < 1 {
		return Account{}, &DecodeError{
			Field: "account.data",
			Err:   fmt.Errorf("missing data pair"),
		}
	}

	data, err := base64.StdEncoding.DecodeString(w.Data[0])
	if err != nil {
		return Account{}, &DecodeError{Field: "account.data", Err: err}
	}

	owner, err := ParseAddress(w.Owner)
	if err != nil {
		return Account{}, &DecodeError{Field: "account.owner", Err: err}
	}

	return Account{
		Data:       data,
		Owner:      owner,
		Lamports:   w.Lamports,
		RentEpoch:  w.RentEpoch,
		Executable: w.Executable,
	}, nil
}

// blockhashWire matches the getLatestBlockhash value shape.
type blockhashWire struct {
	Blockhash            string `json:"blockhash"`
	LastValidBlockHeight uint64 `json:"lastValidBlockHeight"`
}

func (w *blockhashWire) decode() (BlockhashInfo, error) {
	hash, err := ParseBlockhash(w.Blockhash)
	if err != nil {
		return BlockhashInfo{}, err
	}
	return BlockhashInfo{
		Blockhash:            hash,
		LastValidBlockHeight: w.LastValidBlockHeight,
	}, nil
}

// programAccountObjectWire is the {account, pubkey} object shape emitted
// by current nodes.
type programAccountObjectWire struct {
	Account accountInfoWire `json:"account"`
	Pubkey  string          `json:"pubkey"`
}

// decodeProgramAccounts handles both getProgramAccounts wire shapes:
// a list of {account, pubkey} objects, and the older list of
// [account, pubkey] pairs. The object shape is tried first, the pair
// shape as a fallback; decode fails only if neither matches.
func decodeProgramAccounts(raw json.RawMessage) ([]ProgramAccount, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, &DecodeError{Field: "program accounts", Err: err}
	}

	out := make([]ProgramAccount, 0, len(entries))
	for i, entry := range entries {
		acctWire, pubkeyText, err := decodeProgramAccountEntry(entry)
		if err != nil {
			return nil, &DecodeError{
				Field: fmt.Sprintf("program accounts[%d]", i),
				Err:   err,
			}
		}

		pubkey, err := ParseAddress(pubkeyText)
		if err != nil {
			return nil, &DecodeError{
				Field: fmt.Sprintf("program accounts[%d].pubkey", i),
				Err:   err,
			}
		}

		acct, err := acctWire.decode()
		if err != nil {
			return nil, err
		}

		out = append(out, ProgramAccount{Pubkey: pubkey, Account: acct})
	}

	return out, nil
}

func decodeProgramAccountEntry(entry json.RawMessage) (accountInfoWire, string, error) {
	var obj programAccountObjectWire
	if err := json.Unmarshal(entry, &obj); err == nil && obj.Pubkey != "" {
		return obj.Account, obj.Pubkey, nil
	}

	var pair []json.RawMessage
	if err := json.Unmarshal(entry, &pair); err != nil {
		return accountInfoWire{}, "", fmt.Errorf("neither object nor pair shape: %w", err)
	}
	if len(pair) != 2 {
		return accountInfoWire{}, "", fmt.Errorf("pair has %d elements, want 2", len(pair))
	}

	var acct accountInfoWire
	if err := json.Unmarshal(pair[0], &acct); err != nil {
		return accountInfoWire{}, "", fmt.Errorf("pair account: %w", err)
	}
	var pubkey string
	if err := json.Unmarshal(pair[1], &pubkey); err != nil {
		return accountInfoWire{}, "", fmt.Errorf("pair pubkey: %w", err)
	}

	return acct, pubkey, nil
}
