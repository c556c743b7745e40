package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pythscope/internal/chain"
	"pythscope/internal/config"
	"pythscope/internal/oracle"
	"pythscope/internal/snapshot"
	"pythscope/internal/storage"
	"pythscope/internal/storage/postgres"
	"pythscope/internal/symbols"
)

func runFetch(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadFetch(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}

	table, err := symbols.NewTable(cfg.Oracles)
	if err != nil {
		return err
	}
	entries, err := table.Resolve(append(append([]string{}, cfg.Symbols...), cfg.Addresses...))
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("at least one symbol or address is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL, chain.WithCommitment(cfg.Commitment))
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	sinks := storage.Multi{}
	if cfg.Out != "" {
		sinks = append(sinks, storage.NewJsonlStorage(cfg.Out))
	}
	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
		if err := store.EnsureSchema(ctx); err != nil {
			return err
		}
		sinks = append(sinks, store)
	}

	runner := snapshot.NewRunner(snapshot.RunConfig{
		Concurrency:  cfg.Concurrency,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
	}, chainClient, sinks, logger)

	logger.Info("fetch start",
		zap.String("rpc", cfg.RPCURL),
		zap.String("commitment", cfg.Commitment),
		zap.Int("accounts", len(entries)),
		zap.Int("concurrency", cfg.Concurrency),
		zap.String("out", cfg.Out),
		zap.Bool("postgres", cfg.PGDSN != ""),
	)

	report, err := runner.Run(ctx, entries)
	if err != nil {
		return err
	}

	if err := render(cmd.OutOrStdout(), cfg.Format, reportViews(report)); err != nil {
		return err
	}

	failures := report.Failures()
	if len(failures) == 0 {
		return nil
	}
	if cfg.Errors != "" {
		errWriter, err := newJSONLWriter(cfg.Errors, true)
		if err != nil {
			return err
		}
		for _, failure := range failures {
			if err := errWriter.Write(failure); err != nil {
				errWriter.Close()
				return err
			}
		}
		if err := errWriter.Close(); err != nil {
			return err
		}
	}
	return fmt.Errorf("%d of %d accounts failed", len(failures), len(entries))
}

// reportViews renders one ordered entry per requested account.
func reportViews(report snapshot.Report) []oracle.View {
	out := make([]oracle.View, 0, len(report.Results))
	for _, res := range report.Results {
		view := oracle.View{
			{Key: "symbol", Value: res.Entry.Symbol},
			{Key: "account", Value: res.Entry.Address.String()},
		}
		if res.Err != nil {
			view = append(view, oracle.Field{Key: "error", Value: res.Err.Error()})
		} else {
			view = append(view, oracle.Field{Key: "oracle", Value: res.Account.View()})
		}
		out = append(out, view)
	}
	return out
}
