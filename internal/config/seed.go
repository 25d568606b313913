package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SeedAccount is one entry of the seed file. PasswordHash is a bcrypt hash
// produced by cmd/hashpw; plaintext passwords are never read from disk.
type SeedAccount struct {
	Email        string `yaml:"email"`
	Name         string `yaml:"name"`
	PasswordHash string `yaml:"password_hash"`
	Role         string `yaml:"role"`
	Active       *bool  `yaml:"active"`
}

type seedFile struct {
	Accounts []SeedAccount `yaml:"accounts"`
}

// IsActive defaults to true when the field is omitted
func (s SeedAccount) IsActive() bool {
	return s.Active == nil || *s.Active
}

// LoadSeedAccounts reads accounts from a YAML seed file
func LoadSeedAccounts(path string) ([]SeedAccount, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	for i, a := range f.Accounts {
		if a.Email == "" || a.PasswordHash == "" {
			return nil, fmt.Errorf("seed account %d: email and password_hash are required", i)
		}
	}
	return f.Accounts, nil
}
