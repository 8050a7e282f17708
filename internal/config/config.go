// Package config reads process configuration from the environment.
package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds everything supplied at startup from the environment. The API
// credentials authenticate every call; the Slack settings are optional and
// only enable failure notifications when set.
type Config struct {
	APIUser         string `env:"API_USER"`
	APIPass         string `env:"API_PASS"`
	SlackWebhookURL string `env:"SLACK_WEBHOOK_URL"`
	SlackChannel    string `env:"SLACK_CHANNEL"`
	Port            int    `env:"PORT" envDefault:"8080"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}

// ValidateCredentials checks that the API credentials are present. Kept
// separate from Load so tooling that never calls the API can still load config.
func (c Config) ValidateCredentials() error {
	if c.APIUser == "" || c.APIPass == "" {
		return errors.New("missing required environment variables: API_USER or API_PASS")
	}
	return nil
}
