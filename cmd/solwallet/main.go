// Package main provides a command-line front end for the RPC client:
// balance and account queries, program account listing, blockhash
// inspection, and signed lamport transfers with optional WebSocket
// confirmation.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/mr-tron/base58"

	"solana-wallet-client/internal/keypair"
	"solana-wallet-client/internal/observability"
	"solana-wallet-client/internal/solana"
	"solana-wallet-client/internal/txn"
)

func main() {
	command := flag.String("cmd", "", "Command: balance, account, blockhash, program-accounts, transfer")
	endpoint := flag.String("endpoint", solana.DevnetEndpoint, "Solana RPC HTTP endpoint")
	wsEndpoint := flag.String("ws-endpoint", "", "WebSocket endpoint; transfer waits for finalization when set")
	address := flag.String("address", "", "Account address for balance/account")
	program := flag.String("program", "", "Program address for program-accounts")
	keypairPath := flag.String("keypair", "", "Keypair file (solana-keygen JSON) for transfer")
	to := flag.String("to", "", "Recipient address for transfer")
	lamports := flag.Uint64("lamports", 0, "Lamports to transfer")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus metrics HTTP address (empty to disable)")

	flag.Parse()

	logger := log.New(os.Stdout, "[solwallet] ", log.LstdFlags)

	opts := []solana.ClientOption{}
	if *metricsAddr != "" {
		metrics := observability.NewMetrics("")
		opts = append(opts, solana.WithObserver(metrics))

		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				logger.Printf("metrics server: %v", err)
			}
		}()
	}

	client := solana.NewClient(*endpoint, opts...)
	ctx := context.Background()

	var err error
	switch *command {
	case "balance":
		err = runBalance(ctx, logger, client, *address)
	case "account":
		err = runAccount(ctx, logger, client, *address)
	case "blockhash":
		err = runBlockhash(ctx, logger, client)
	case "program-accounts":
		err = runProgramAccounts(ctx, logger, client, *program)
	case "transfer":
		err = runTransfer(ctx, logger, client, *wsEndpoint, *keypairPath, *to, *lamports)
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		logger.Fatalf("%s: %v", *command, err)
	}
}

func runBalance(ctx context.Context, logger *log.Logger, client *solana.Client, address string) error {
	addr, err := solana.ParseAddress(address)
	if err != nil {
		return err
	}

	lamports, err := client.GetBalance(ctx, addr)
	if err != nil {
		return err
	}

	logger.Printf("%s: %d lamports", addr, lamports)
	return nil
}

func runAccount(ctx context.Context, logger *log.Logger, client *solana.Client, address string) error {
	addr, err := solana.ParseAddress(address)
	if err != nil {
		return err
	}

	acct, err := client.GetAccount(ctx, addr)
	if err != nil {
		return err
	}

	logger.Printf("%s: owner=%s lamports=%d size=%d executable=%v rentEpoch=%d",
		addr, acct.Owner, acct.Lamports, len(acct.Data), acct.Executable, acct.RentEpoch)
	return nil
}

func runBlockhash(ctx context.Context, logger *log.Logger, client *solana.Client) error {
	info, err := client.GetLatestBlockhash(ctx)
	if err != nil {
		return err
	}

	logger.Printf("blockhash=%s lastValidBlockHeight=%d", info.Blockhash, info.LastValidBlockHeight)
	return nil
}

func runProgramAccounts(ctx context.Context, logger *log.Logger, client *solana.Client, program string) error {
	addr, err := solana.ParseAddress(program)
	if err != nil {
		return err
	}

	accounts, err := client.GetProgramAccounts(ctx, addr)
	if err != nil {
		return err
	}

	logger.Printf("%d accounts owned by %s", len(accounts), addr)
	for _, pa := range accounts {
		logger.Printf("  %s: lamports=%d size=%d", pa.Pubkey, pa.Account.Lamports, len(pa.Account.Data))
	}
	return nil
}

func runTransfer(ctx context.Context, logger *log.Logger, client *solana.Client, wsEndpoint, keypairPath, to string, lamports uint64) error {
	if keypairPath == "" {
		return fmt.Errorf("transfer requires -keypair")
	}
	if lamports == 0 {
		return fmt.Errorf("transfer requires -lamports")
	}

	kp, err := keypair.LoadFile(keypairPath)
	if err != nil {
		return err
	}

	toAddr, err := solana.ParseAddress(to)
	if err != nil {
		return err
	}

	tx, err := txn.NewUnsigned(kp.Public(), txn.Transfer(kp.Public(), toAddr, lamports))
	if err != nil {
		return err
	}

	if err := client.SignTransaction(ctx, tx, kp); err != nil {
		return err
	}
	logger.Printf("signed transfer of %d lamports from %s to %s", lamports, kp.Public(), toAddr)

	sig, err := client.SendTransaction(ctx, tx)
	if err != nil {
		return err
	}
	logger.Printf("submitted: %s", sig)

	if wsEndpoint == "" {
		return nil
	}

	pubsub, err := solana.NewPubSubClient(ctx, wsEndpoint, nil)
	if err != nil {
		return err
	}
	defer pubsub.Close()

	// The node subscribes by signature text; ours is slot 0 of the
	// signed transaction.
	sigText := base58.Encode(tx.Signatures[0][:])
	ch, err := pubsub.SubscribeSignature(ctx, sigText, "finalized")
	if err != nil {
		return err
	}

	logger.Printf("waiting for finalization of %s", sigText)
	select {
	case result, ok := <-ch:
		if !ok {
			return fmt.Errorf("subscription closed before confirmation")
		}
		if result.Err != nil {
			return fmt.Errorf("transaction failed on-chain: %v", result.Err)
		}
		logger.Printf("finalized in slot %d", result.Slot)
	case <-time.After(2 * time.Minute):
		return fmt.Errorf("timed out waiting for finalization")
	}

	return nil
}
