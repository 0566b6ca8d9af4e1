// folio - command-line portfolio terminal and contribution stats
package main

import (
	"log/slog"

	"github.com/joho/godotenv"

	"github.com/ashureev/folio/internal/cli"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}
	cli.Execute()
}
