package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"pythscope/internal/config"
)

func main() {
	root := &cobra.Command{
		Use:          "pythscope",
		Short:        "Pyth oracle price account decoder",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	decodeCmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode a price account dump",
		RunE:  runDecode,
	}

	decodeCmd.Flags().String("in", "", "input file holding account bytes, - for stdin")
	decodeCmd.Flags().String("encoding", config.EncodingBase64, "input encoding (base64, hex, raw)")
	decodeCmd.Flags().String("format", config.FormatJSON, "output format (json, yaml)")
	decodeCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(decodeCmd)

	fetchCmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch, decode and store price accounts",
		RunE:  runFetch,
	}

	fetchCmd.Flags().String("rpc", "", "Solana RPC URL")
	fetchCmd.Flags().String("commitment", "confirmed", "commitment level (processed, confirmed, finalized)")
	fetchCmd.Flags().StringSlice("symbol", nil, "price symbols such as SOL/USD (comma-separated)")
	fetchCmd.Flags().StringSlice("address", nil, "price account addresses (comma-separated)")
	fetchCmd.Flags().String("oracles", "", "extra symbol->address mappings (comma-separated key=value)")
	fetchCmd.Flags().String("out", "./data/snapshots.jsonl", "output snapshots JSONL")
	fetchCmd.Flags().String("errors", "./data/fetch_errors.jsonl", "fetch errors JSONL")
	fetchCmd.Flags().String("pg-dsn", "", "optional Postgres DSN")
	fetchCmd.Flags().Int("concurrency", 4, "concurrent account fetches")
	fetchCmd.Flags().Int("max-retries", 3, "maximum retry attempts")
	fetchCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	fetchCmd.Flags().String("format", config.FormatJSON, "output format (json, yaml)")
	fetchCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(fetchCmd)

	symbolsCmd := &cobra.Command{
		Use:   "symbols",
		Short: "List known price symbols and their accounts",
		RunE:  runSymbols,
	}

	symbolsCmd.Flags().String("oracles", "", "extra symbol->address mappings (comma-separated key=value)")
	symbolsCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(symbolsCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
