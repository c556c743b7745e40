package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fetchFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("fetch", pflag.ContinueOnError)
	flags.String("rpc", "", "")
	flags.StringSlice("symbol", nil, "")
	flags.StringSlice("address", nil, "")
	flags.String("oracles", "", "")
	flags.Int("concurrency", 4, "")
	flags.Duration("retry-backoff", 500*time.Millisecond, "")
	flags.String("format", "json", "")
	return flags
}

func TestLoadFetchDefaults(t *testing.T) {
	cfg, err := LoadFetch("", nil)
	require.NoError(t, err)

	assert.Equal(t, "confirmed", cfg.Commitment)
	assert.Equal(t, "./data/snapshots.jsonl", cfg.Out)
	assert.Equal(t, "./data/fetch_errors.jsonl", cfg.Errors)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 500*time.Millisecond, cfg.RetryBackoff)
	assert.Equal(t, FormatJSON, cfg.Format)
	assert.Empty(t, cfg.Symbols)
	assert.Empty(t, cfg.Oracles)
}

func TestLoadFetchFlags(t *testing.T) {
	flags := fetchFlags()
	require.NoError(t, flags.Parse([]string{
		"--rpc", "http://localhost:8899",
		"--symbol", "SOL/USD,ETH/USD",
		"--oracles", "XYZ/USD=11111111111111111111111111111111, bad",
		"--concurrency", "8",
		"--format", "YAML",
	}))

	cfg, err := LoadFetch("", flags)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8899", cfg.RPCURL)
	assert.Equal(t, []string{"SOL/USD", "ETH/USD"}, cfg.Symbols)
	assert.Equal(t, map[string]string{"XYZ/USD": "11111111111111111111111111111111"}, cfg.Oracles)
	assert.Equal(t, 8, cfg.Concurrency)
	assert.Equal(t, FormatYAML, cfg.Format)
}

func TestLoadFetchEnv(t *testing.T) {
	t.Setenv("PYTHSCOPE_RPC", "http://env:8899")
	t.Setenv("PYTHSCOPE_ADDRESS", " H6ARHf6YXhGYeQfUzQNGk6rDNnLBQKrenN712K4AQJEG , ")
	t.Setenv("PYTHSCOPE_RETRY_BACKOFF", "2s")
	t.Setenv("PYTHSCOPE_PG_DSN", "postgres://localhost/pyth")

	cfg, err := LoadFetch("", fetchFlags())
	require.NoError(t, err)

	assert.Equal(t, "http://env:8899", cfg.RPCURL)
	assert.Equal(t, []string{"H6ARHf6YXhGYeQfUzQNGk6rDNnLBQKrenN712K4AQJEG"}, cfg.Addresses)
	assert.Equal(t, 2*time.Second, cfg.RetryBackoff)
	assert.Equal(t, "postgres://localhost/pyth", cfg.PGDSN)
}

func TestLoadFetchConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pythscope.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
rpc: http://file:8899
commitment: finalized
symbol:
  - BTC/USD
  - DOGE/USD
oracles:
  XYZ/USD: "11111111111111111111111111111111"
`), 0o644))

	cfg, err := LoadFetch(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "http://file:8899", cfg.RPCURL)
	assert.Equal(t, "finalized", cfg.Commitment)
	assert.Equal(t, []string{"BTC/USD", "DOGE/USD"}, cfg.Symbols)
	require.Len(t, cfg.Oracles, 1)
	for _, address := range cfg.Oracles {
		assert.Equal(t, "11111111111111111111111111111111", address)
	}
}

func TestLoadFetchRejectsNumericOracleAddress(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pythscope.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
oracles:
  XYZ/USD: 11111111111111111111111111111111
`), 0o644))

	_, err := LoadFetch(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected a string")

	_, err = LoadSymbols(path, nil)
	require.Error(t, err)
}

func TestLoadFetchMissingConfigFile(t *testing.T) {
	_, err := LoadFetch(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.Error(t, err)
}

func TestLoadFetchRejectsFormat(t *testing.T) {
	t.Setenv("PYTHSCOPE_FORMAT", "xml")
	_, err := LoadFetch("", nil)
	require.Error(t, err)
}

func TestLoadDecode(t *testing.T) {
	flags := pflag.NewFlagSet("decode", pflag.ContinueOnError)
	flags.String("in", "", "")
	flags.String("encoding", EncodingBase64, "")
	require.NoError(t, flags.Parse([]string{"--in", "dump.hex", "--encoding", "HEX"}))

	cfg, err := LoadDecode("", flags)
	require.NoError(t, err)
	assert.Equal(t, "dump.hex", cfg.In)
	assert.Equal(t, EncodingHex, cfg.Encoding)
	assert.Equal(t, FormatJSON, cfg.Format)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadDecodeRejectsEncoding(t *testing.T) {
	t.Setenv("PYTHSCOPE_ENCODING", "base32")
	_, err := LoadDecode("", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base32")
}

func TestLoadSymbols(t *testing.T) {
	t.Setenv("PYTHSCOPE_ORACLES", "ABC/USD=11111111111111111111111111111111")
	cfg, err := LoadSymbols("", nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"ABC/USD": "11111111111111111111111111111111"}, cfg.Oracles)
}

func TestParseStringMap(t *testing.T) {
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, parseStringMap(" a=1 ,b = 2,c=, =3,x"))
	assert.Empty(t, parseStringMap("  "))
}
