// Package config loads the container settings from a YAML file,
// .env files and the environment, in order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/aegistudio/wart/core"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the settings of a container.
//
// CreateArgs can only be specified in the YAML file, where a
// sequence is taken as the literal arguments of the class.
type Config struct {
	Namespaces  []string               `yaml:"namespaces" env:"WART_NAMESPACES" envSeparator:","`
	AutoResolve bool                   `yaml:"autoResolve" env:"WART_AUTO_RESOLVE"`
	Separator   string                 `yaml:"separator" env:"WART_SEPARATOR"`
	Aliases     map[string]string      `yaml:"aliases" env:"WART_ALIASES" envKeyValSeparator:"="`
	CreateArgs  map[string]interface{} `yaml:"createArgs"`
}

// Default returns the settings of a container created with
// no option at all.
func Default() *Config {
	return &Config{
		AutoResolve: true,
		Separator:   ".",
	}
}

// Load reads the YAML file at path if it is not empty, then
// overrides the settings with the environment after loading
// envFiles into it. The ".env" file is loaded if it exists
// when no envFiles are specified.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %q: %w", path, err)
		}
	}
	if err := loadEnvFiles(envFiles); err != nil {
		return nil, err
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}
	return cfg, nil
}

func loadEnvFiles(envFiles []string) error {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return fmt.Errorf("config: load env files: %w", err)
		}
		return nil
	}
	// Non-fatal: .env may not exist.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: load .env: %w", err)
	}
	return nil
}

// Options converts the settings into container options.
func (c *Config) Options() []core.Option {
	opts := []core.Option{
		core.WithAutoResolve(c.AutoResolve),
		core.WithNamespaces(c.Namespaces...),
	}
	if c.Separator != "" {
		opts = append(opts, core.WithSeparator(c.Separator))
	}
	if len(c.Aliases) > 0 {
		opts = append(opts, core.WithAliases(c.Aliases))
	}
	if len(c.CreateArgs) > 0 {
		opts = append(opts, core.WithCreateArgs(c.CreateArgs))
	}
	return opts
}

// Apply updates the settings of a running container. The
// separator is only honoured at creation.
func (c *Config) Apply(container *core.Container) {
	container.SetNamespaces(c.Namespaces)
	container.SetAutoResolve(c.AutoResolve)
	container.SetAliases(c.Aliases)
	container.SetCreateArgs(c.CreateArgs)
}
