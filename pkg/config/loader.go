package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load parses environment variables into the provided struct using its
// `env` and `envDefault` tags. A non-empty prefix is prepended to every
// variable name, so "REVIEWLAR_" turns `env:"HTTP_PORT"` into REVIEWLAR_HTTP_PORT.
func Load(cfg any, prefix string) error {
	opts := env.Options{Prefix: prefix}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
