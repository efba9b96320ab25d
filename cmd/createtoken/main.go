package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/youtools/youtools-backend/internal/auth"
	"github.com/youtools/youtools-backend/internal/config"
)

// createtoken mints a bearer token for the browser extension, signed with the
// configured auth secret.
func main() {
	subject := flag.String("subject", "", "user id to put in the token subject")
	email := flag.String("email", "", "optional email claim")
	ttl := flag.Duration("ttl", auth.DefaultTokenTTL, "token lifetime")
	flag.Parse()

	if *subject == "" {
		fmt.Fprintln(os.Stderr, "usage: createtoken -subject <user-id> [-email addr] [-ttl 720h]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load configuration:", err)
		os.Exit(1)
	}

	verifier := auth.NewTokenVerifier(cfg.Auth.JWTSecret, auth.DefaultIssuer)
	token, err := verifier.Mint(*subject, *email, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to mint token:", err)
		os.Exit(1)
	}

	fmt.Printf("Token for %s (valid %s):\n", *subject, ttl.String())
	fmt.Println(token)
	fmt.Println("\nSend it as: Authorization: Bearer <token>")
}
