package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. PYTHSCOPE_RPC.
const EnvPrefix = "PYTHSCOPE"

// FetchConfig holds configuration for the fetch command.
type FetchConfig struct {
	RPCURL       string
	Commitment   string
	Symbols      []string
	Addresses    []string
	Oracles      map[string]string
	Out          string
	Errors       string
	PGDSN        string
	Concurrency  int
	MaxRetries   int
	RetryBackoff time.Duration
	Format       string
	LogLevel     string
}

// LoadFetch merges config file, environment variables, and flags into FetchConfig.
func LoadFetch(cfgFile string, flags *pflag.FlagSet) (FetchConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"commitment":    "confirmed",
		"out":           "./data/snapshots.jsonl",
		"errors":        "./data/fetch_errors.jsonl",
		"concurrency":   4,
		"max-retries":   3,
		"retry-backoff": 500 * time.Millisecond,
		"format":        "json",
		"log-level":     "info",
	})
	if err != nil {
		return FetchConfig{}, err
	}

	oracles, err := getStringMap(v, "oracles")
	if err != nil {
		return FetchConfig{}, err
	}

	cfg := FetchConfig{
		RPCURL:       v.GetString("rpc"),
		Commitment:   v.GetString("commitment"),
		Symbols:      getStringSlice(v, "symbol"),
		Addresses:    getStringSlice(v, "address"),
		Oracles:      oracles,
		Out:          v.GetString("out"),
		Errors:       v.GetString("errors"),
		PGDSN:        v.GetString("pg-dsn"),
		Concurrency:  v.GetInt("concurrency"),
		MaxRetries:   v.GetInt("max-retries"),
		RetryBackoff: v.GetDuration("retry-backoff"),
		Format:       strings.ToLower(v.GetString("format")),
		LogLevel:     v.GetString("log-level"),
	}
	if err := ValidateFormat(cfg.Format); err != nil {
		return FetchConfig{}, err
	}

	return cfg, nil
}

// SymbolsConfig holds configuration for the symbols command.
type SymbolsConfig struct {
	Oracles  map[string]string
	LogLevel string
}

// LoadSymbols merges config file, environment variables, and flags into SymbolsConfig.
func LoadSymbols(cfgFile string, flags *pflag.FlagSet) (SymbolsConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"log-level": "info",
	})
	if err != nil {
		return SymbolsConfig{}, err
	}

	oracles, err := getStringMap(v, "oracles")
	if err != nil {
		return SymbolsConfig{}, err
	}

	return SymbolsConfig{
		Oracles:  oracles,
		LogLevel: v.GetString("log-level"),
	}, nil
}

func newViper(cfgFile string, flags *pflag.FlagSet, defaults map[string]interface{}) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return v, nil
}

func getStringSlice(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}

	val := v.Get(key)
	switch typed := val.(type) {
	case []string:
		return cleanStrings(typed)
	case string:
		return splitAndClean(typed)
	case []interface{}:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			items = append(items, fmt.Sprintf("%v", item))
		}
		return cleanStrings(items)
	default:
		return nil
	}
}

func splitAndClean(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	return cleanStrings(parts)
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}

// getStringMap reads symbol=address pairs. Viper lowercases map keys from config files,
// so callers should treat keys case-insensitively. Non-string values are rejected since
// YAML turns all-digit addresses into numbers.
func getStringMap(v *viper.Viper, key string) (map[string]string, error) {
	if !v.IsSet(key) {
		return map[string]string{}, nil
	}

	val := v.Get(key)
	switch typed := val.(type) {
	case map[string]string:
		return typed, nil
	case map[string]interface{}:
		out := make(map[string]string, len(typed))
		for k, item := range typed {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s.%s: expected a string, got %T (quote the value)", key, k, item)
			}
			out[k] = str
		}
		return out, nil
	case string:
		return parseStringMap(typed), nil
	default:
		return nil, fmt.Errorf("%s: expected a map or key=value list, got %T", key, val)
	}
}

func parseStringMap(input string) map[string]string {
	out := make(map[string]string)
	if strings.TrimSpace(input) == "" {
		return out
	}
	pairs := strings.Split(input, ",")
	for _, pair := range pairs {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" || value == "" {
			continue
		}
		out[key] = value
	}
	return out
}
