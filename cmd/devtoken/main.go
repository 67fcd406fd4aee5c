// Package main prints a bearer token for local development.
//
//	go run ./cmd/devtoken -user user-1 -email alice@example.com
package main

import (
	"flag"
	"fmt"
	"os"

	"conferencecentral/config"
	"conferencecentral/internal/adapters/auth"
	"conferencecentral/internal/domain"
)

func main() {
	userID := flag.String("user", "", "user id placed in the token subject")
	email := flag.String("email", "", "user email")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.IsProduction() {
		fmt.Fprintln(os.Stderr, "refusing to issue development tokens in production")
		os.Exit(1)
	}

	token, err := auth.NewJWT(cfg.JWTSecret, cfg.TokenExpiry).Issue(&domain.AuthUser{UserID: *userID, Email: *email})
	if err != nil {
		fmt.Fprintf(os.Stderr, "issue token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
