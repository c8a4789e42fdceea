// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets resolves the model API credential once at startup.
//
// The key may come from an explicit value (flag or config file), the process
// environment (optionally seeded from a .env file), or a directory of
// plain-text key files where the filename is the key name and the trimmed
// contents are the value.
package secrets

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// GeminiKeyFile is the key file name looked up in the secrets directory.
const GeminiKeyFile = "gemini-api-key"

// EnvKeys lists the environment variables consulted for the API key, in order.
var EnvKeys = []string{"GEMINI_API_KEY", "API_KEY"}

// ErrMissingAPIKey is returned when no source provides a key.
var ErrMissingAPIKey = errors.New("no Gemini API key: set GEMINI_API_KEY, API_KEY, ai.api_key, or .secrets/" + GeminiKeyFile)

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on w but do not abort.
func Load(dir string, w io.Writer) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(w, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment without overriding variables that are already set. Missing
// files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// ResolveAPIKey picks the first non-empty key from explicit, the
// environment variables in EnvKeys (read through getenv), and the
// GeminiKeyFile entry of files.
func ResolveAPIKey(explicit string, getenv func(string) string, files map[string]string) (string, error) {
	if v := strings.TrimSpace(explicit); v != "" {
		return v, nil
	}
	if getenv != nil {
		for _, k := range EnvKeys {
			if v := strings.TrimSpace(getenv(k)); v != "" {
				return v, nil
			}
		}
	}
	if v := files[GeminiKeyFile]; v != "" {
		return v, nil
	}
	return "", ErrMissingAPIKey
}
