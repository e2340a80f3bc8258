// Package configloader builds a typed config from config.yaml, .env and the process
// environment. For the inventory service the env prefix is INVENTORY_, so
// INVENTORY_DATABASE_URL sets database.url and INVENTORY_STORAGE_DRIVER picks the store.
package configloader

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Validator interface {
	Validate() error
}

const (
	configFile = "config.yaml"
	envFile    = ".env"
)

// Load merges the sources, later ones overriding earlier ones:
// config.yaml, then .env, then <SERVICE>_* process variables. Missing files are skipped.
// The result is validated before it is returned.
func Load[T Validator](serviceName string) (T, error) {
	var cfg T
	k := koanf.New(".")
	prefix := strings.ToUpper(serviceName) + "_"
	toKey := envKey(prefix)

	if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("WARN: skipping %s: %v", configFile, err)
	}
	if err := loadDotEnv(k, prefix, toKey); err != nil {
		log.Printf("WARN: skipping %s: %v", envFile, err)
	}
	if err := k.Load(env.Provider(prefix, ".", toKey), nil); err != nil {
		log.Printf("WARN: skipping %s* environment: %v", prefix, err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("error unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// envKey maps INVENTORY_DATABASE_URL to database.url.
// Keys are lower-cased, and koanf matches camelCase struct tags case-insensitively.
func envKey(prefix string) func(string) string {
	lowerPrefix := strings.ToLower(prefix)
	return func(key string) string {
		key = strings.TrimPrefix(strings.ToLower(key), lowerPrefix)
		return strings.ReplaceAll(key, "_", ".")
	}
}

// loadDotEnv applies the prefixed variables of .env. A missing file is not an error.
func loadDotEnv(k *koanf.Koanf, prefix string, toKey func(string) string) error {
	vars, err := godotenv.Read(envFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	values := make(map[string]any, len(vars))
	for key, value := range vars {
		if strings.HasPrefix(strings.ToUpper(key), prefix) {
			values[toKey(key)] = value
		}
	}
	return k.Load(confmap.Provider(values, "."), nil)
}
