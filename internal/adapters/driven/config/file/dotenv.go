package file

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads KEY=value pairs from a .env file in the working
// directory and then from configDir/.env. Variables already set in the
// environment are never overwritten, and missing files are skipped.
// It returns the files that were loaded.
func LoadDotEnv(configDir string) ([]string, error) {
	candidates := []string{".env"}
	if configDir != "" {
		candidates = append(candidates, filepath.Join(configDir, ".env"))
	}

	var loaded []string
	for _, path := range candidates {
		err := godotenv.Load(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return loaded, err
		}
		loaded = append(loaded, path)
	}
	return loaded, nil
}
