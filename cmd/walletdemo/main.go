//go:build js && wasm

// Package main is a browser demo: connect a Phantom wallet through the
// async bridge, then query the connected account's balance over the
// fetch transport. Intended to be compiled to WebAssembly and driven by
// a page's requestAnimationFrame loop.
package main

import (
	"context"
	"log"
	"syscall/js"

	"solana-wallet-client/internal/solana"
	"solana-wallet-client/internal/wallet"
)

func main() {
	log.SetPrefix("[walletdemo] ")

	client := solana.NewClient(solana.DevnetEndpoint,
		solana.WithTransport(solana.NewFetchTransport()))
	bridge := wallet.NewBridge(wallet.PhantomProvider{}, nil)

	// connectWallet is called from the page's connect button.
	js.Global().Set("connectWallet", js.FuncOf(func(this js.Value, args []js.Value) any {
		if err := bridge.Connect(context.Background()); err != nil {
			log.Printf("connect: %v", err)
		}
		return nil
	}))

	// pollWallet runs once per frame and reports completed attempts.
	js.Global().Set("pollWallet", js.FuncOf(func(this js.Value, args []js.Value) any {
		for _, ev := range bridge.Poll() {
			if ev.Err != nil {
				log.Printf("wallet connect failed: %v", ev.Err)
				continue
			}
			log.Printf("wallet connected: %s", ev.Address)

			go func(addr solana.Address) {
				lamports, err := client.GetBalance(context.Background(), addr)
				if err != nil {
					log.Printf("balance: %v", err)
					return
				}
				log.Printf("balance of %s: %d lamports", addr, lamports)
			}(ev.Address)
		}
		return nil
	}))

	// Keep the Go runtime alive for the callbacks.
	select {}
}
