package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Credentials are supplied via environment variables (optionally from a .env
// file). Missing required credentials abort startup before any scheduled job
// can run.
type Credentials struct {
	APIToken       string
	UserID         string
	GeneratorToken string
}

// LoadCredentials reads platform credentials from the environment. A missing
// .env file is not an error; missing variables are.
func LoadCredentials(requireGenerator bool) (*Credentials, error) {
	_ = godotenv.Load()

	creds := &Credentials{
		APIToken:       os.Getenv("POSTPILOT_API_TOKEN"),
		UserID:         os.Getenv("POSTPILOT_USER_ID"),
		GeneratorToken: os.Getenv("POSTPILOT_GENERATOR_TOKEN"),
	}

	var missing []string
	if creds.APIToken == "" {
		missing = append(missing, "POSTPILOT_API_TOKEN")
	}
	if creds.UserID == "" {
		missing = append(missing, "POSTPILOT_USER_ID")
	}
	if requireGenerator && creds.GeneratorToken == "" {
		missing = append(missing, "POSTPILOT_GENERATOR_TOKEN")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return creds, nil
}
