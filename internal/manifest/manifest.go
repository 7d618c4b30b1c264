// Package manifest loads the ordered list of migrations to run from a
// YAML file. Each entry names an idempotency key and supplies its SQL
// either inline or via a referenced script file.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aqasim81/runonce/internal/script"
)

// Entry is one migration from the manifest: a key plus its ordered
// SQL statements.
type Entry struct {
	Key        string
	Statements []string
}

// yamlManifest is the raw file representation.
type yamlManifest struct {
	Migrations []yamlMigration `yaml:"migrations"`
}

type yamlMigration struct {
	Key        string   `yaml:"key"`
	Statements []string `yaml:"statements"`
	File       string   `yaml:"file"`
}

// Load reads a manifest file and returns its entries in declaration order.
// Script files referenced by entries are resolved relative to the manifest's
// directory and split into individual statements.
func Load(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	var raw yamlManifest
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}

	baseDir := filepath.Dir(path)
	entries := make([]Entry, 0, len(raw.Migrations))
	seen := make(map[string]bool, len(raw.Migrations))

	for i, m := range raw.Migrations {
		entry, err := buildEntry(baseDir, &m)
		if err != nil {
			return nil, fmt.Errorf("manifest entry %d: %w", i, err)
		}

		if seen[entry.Key] {
			return nil, fmt.Errorf("manifest entry %d (%q): %w", i, entry.Key, ErrDuplicateKey)
		}

		seen[entry.Key] = true
		entries = append(entries, entry)
	}

	return entries, nil
}

func buildEntry(baseDir string, m *yamlMigration) (Entry, error) {
	key := strings.TrimSpace(m.Key)
	if key == "" {
		return Entry{}, ErrMissingKey
	}

	if len(m.Statements) > 0 && m.File != "" {
		return Entry{}, fmt.Errorf("%q: %w", key, ErrAmbiguousSource)
	}

	statements := m.Statements

	if m.File != "" {
		data, err := os.ReadFile(filepath.Join(baseDir, m.File))
		if err != nil {
			return Entry{}, fmt.Errorf("%q: reading script %s: %w", key, m.File, err)
		}

		statements, err = script.Split(string(data))
		if err != nil {
			return Entry{}, fmt.Errorf("%q: splitting script %s: %w", key, m.File, err)
		}
	}

	if len(statements) == 0 {
		return Entry{}, fmt.Errorf("%q: %w", key, ErrNoStatements)
	}

	return Entry{Key: key, Statements: statements}, nil
}
