package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fixtureCert describes one certificate instance for the mock token
// driver: enough attributes to exercise dedup, promotion, and best-match
// selection without a real ASN.1 decoder.
type fixtureCert struct {
	Token           string    `yaml:"token"`
	Handle          uint64    `yaml:"handle"`
	Label           string    `yaml:"label"`
	DER             string    `yaml:"der"`
	NotBefore       time.Time `yaml:"notBefore"`
	MatchesUsage    bool      `yaml:"matchesUsage"`
	ValidAtTime     bool      `yaml:"validAtTime"`
	TrustedForUsage bool      `yaml:"trustedForUsage"`
}

type fixture struct {
	Certificates []fixtureCert `yaml:"certificates"`
}

func loadFixture(path string) (*fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	var f fixture
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	return &f, nil
}
