package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// Input encodings accepted by the decode command.
const (
	EncodingBase64 = "base64"
	EncodingHex    = "hex"
	EncodingRaw    = "raw"
)

// Output formats for rendered views.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// DecodeConfig holds configuration for the decode command.
type DecodeConfig struct {
	In       string
	Encoding string
	Format   string
	LogLevel string
}

// LoadDecode merges config file, environment variables, and flags into DecodeConfig.
func LoadDecode(cfgFile string, flags *pflag.FlagSet) (DecodeConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"encoding":  EncodingBase64,
		"format":    FormatJSON,
		"log-level": "info",
	})
	if err != nil {
		return DecodeConfig{}, err
	}

	cfg := DecodeConfig{
		In:       v.GetString("in"),
		Encoding: strings.ToLower(strings.TrimSpace(v.GetString("encoding"))),
		Format:   strings.ToLower(strings.TrimSpace(v.GetString("format"))),
		LogLevel: v.GetString("log-level"),
	}

	switch cfg.Encoding {
	case EncodingBase64, EncodingHex, EncodingRaw:
	default:
		return DecodeConfig{}, fmt.Errorf("unsupported encoding %q", cfg.Encoding)
	}
	if err := ValidateFormat(cfg.Format); err != nil {
		return DecodeConfig{}, err
	}

	return cfg, nil
}

// ValidateFormat rejects output formats other than json and yaml.
func ValidateFormat(format string) error {
	switch format {
	case FormatJSON, FormatYAML:
		return nil
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}
