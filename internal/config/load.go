package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	DefaultEnvPrefix = "CART_"
	DefaultFile      = "config.yaml"
	dotenvFile       = ".env"
)

func defaults() map[string]any {
	return map[string]any{
		"service.name":        "minishop-cart",
		"service.env":         "dev",
		"http.port":           8080,
		"http.timeout.read":   5 * time.Second,
		"http.timeout.write":  10 * time.Second,
		"http.timeout.idle":   60 * time.Second,
		"http.timeout.header": 2 * time.Second,
		"log.level":           "info",
		"log.file":            "",
		"cart.continue":       "/",
		"cart.cookie":         "cart_session",
		"cart.session.ttl":    30 * time.Minute,
		"cart.session.sweep":  time.Minute,
		"catalog.file":        "configs/catalog.yaml",
		"shutdown.timeout":    10 * time.Second,
	}
}

// Load layers, lowest priority first: defaults, the YAML file, a .env file in
// the working directory, then environment variables carrying prefix.
// Missing files are skipped. An env var PREFIX_HTTP_PORT sets http.port.
func Load(prefix, path string) (Config, error) {
	var cfg Config
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return cfg, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("load config file %q: %w", path, err)
		}
	}

	envTransformer := func(key string) string {
		key = strings.ToLower(key)
		key = strings.TrimPrefix(key, strings.ToLower(prefix))
		return strings.ReplaceAll(key, "_", ".")
	}

	envFileMap, err := godotenv.Read(dotenvFile)
	switch {
	case err == nil:
		envMap := make(map[string]any, len(envFileMap))
		for key, value := range envFileMap {
			if !strings.HasPrefix(key, prefix) {
				continue
			}
			envMap[envTransformer(key)] = value
		}
		if err := k.Load(confmap.Provider(envMap, "."), nil); err != nil {
			return cfg, fmt.Errorf("load %s: %w", dotenvFile, err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return cfg, fmt.Errorf("read %s: %w", dotenvFile, err)
	}

	if err := k.Load(env.Provider(prefix, ".", envTransformer), nil); err != nil {
		return cfg, fmt.Errorf("load env: %w", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}
