package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// NYTimesAPIKeyEnv holds the New York Times API key
const NYTimesAPIKeyEnv = "NYTIMES_API_KEY"

// LoadDotEnv loads variables from a .env file into the process environment.
// Variables that are already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file at '%s': %w", path, err)
	}
	return nil
}

// NYTimesAPIKey returns the API key from the environment, or "" if unset
func NYTimesAPIKey() string {
	return os.Getenv(NYTimesAPIKeyEnv)
}
