package main

import (
	"os"

	"github.com/joho/godotenv"

	"scriba/internal/cli"
)

func main() {
	// .env is optional; API keys may come from flags or the environment
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
