package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/rustyeddy/papertrade/cmd/papertrade/cmd"
)

func main() {
	// Optional .env for local overrides (PAPERTRADE_DB, PAPERTRADE_CONFIG).
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
