package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotenvIfPresent reads a local .env file before the config is loaded.
// Variables already set in the environment win; a missing file is a no-op.
func LoadDotenvIfPresent(path string) {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("dotenv stat error: %v", err)
		}
		return
	}
	if err := godotenv.Load(path); err != nil {
		log.Printf("dotenv load error: %v", err)
	}
}
