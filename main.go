package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"autoapply/cli"
)

func main() {
	// Load .env file if present (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
