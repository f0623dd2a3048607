package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// EnvFiles returns the .env files consulted at startup, most specific first.
func EnvFiles() []string {
	files := []string{".env"}
	if dir, err := os.UserConfigDir(); err == nil {
		files = append(files, filepath.Join(dir, AppDirName, ".env"))
	}
	return files
}

// LoadEnvFiles loads the given .env files into the process environment.
// Variables already set are never overridden, and missing files are skipped.
func LoadEnvFiles(files ...string) {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			log.Warn().Err(err).Str("file", f).Msg("failed to load env file")
			continue
		}
		log.Debug().Str("file", f).Msg("loaded env file")
	}
}

// LoadAPIKey returns the API key from the environment.
func LoadAPIKey() (string, bool) {
	key := strings.TrimSpace(os.Getenv(APIKeyEnv))
	return key, key != ""
}
