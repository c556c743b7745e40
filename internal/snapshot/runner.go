package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pythscope/internal/chain"
	"pythscope/internal/model"
	"pythscope/internal/oracle"
	"pythscope/internal/storage"
	"pythscope/internal/symbols"
)

// Fetcher loads raw account bytes by address.
type Fetcher interface {
	FetchAccountBytes(ctx context.Context, address solana.PublicKey) ([]byte, error)
}

// LoadAccount fetches an oracle account and returns it at display precision.
// Fetch errors are returned unchanged; decode errors are wrapped with the address.
func LoadAccount(ctx context.Context, fetcher Fetcher, address solana.PublicKey) (oracle.NormalizedAccount, error) {
	data, err := fetcher.FetchAccountBytes(ctx, address)
	if err != nil {
		return oracle.NormalizedAccount{}, err
	}
	acct, err := oracle.Parse(data)
	if err != nil {
		return oracle.NormalizedAccount{}, fmt.Errorf("decode %s: %w", address, err)
	}
	return acct, nil
}

// RunConfig holds runtime settings for a snapshot run.
type RunConfig struct {
	Concurrency  int
	MaxRetries   int
	RetryBackoff time.Duration
}

// Result is the outcome for one requested account.
type Result struct {
	Entry    symbols.Entry
	Account  oracle.NormalizedAccount
	Snapshot model.PriceSnapshot
	Err      error
}

// Report collects the results of a run in request order.
type Report struct {
	RunID   string
	Results []Result
}

// Snapshots returns the snapshots of successful results.
func (r Report) Snapshots() []model.PriceSnapshot {
	out := make([]model.PriceSnapshot, 0, len(r.Results))
	for _, res := range r.Results {
		if res.Err == nil {
			out = append(out, res.Snapshot)
		}
	}
	return out
}

// Failures returns one record per failed account.
func (r Report) Failures() []model.FetchError {
	var out []model.FetchError
	for _, res := range r.Results {
		if res.Err == nil {
			continue
		}
		out = append(out, model.FetchError{
			RunID:   r.RunID,
			Symbol:  res.Entry.Symbol,
			Account: res.Entry.Address.String(),
			Error:   res.Err.Error(),
		})
	}
	return out
}

// Runner fetches oracle accounts, normalizes them and writes snapshots to storage.
type Runner struct {
	cfg     RunConfig
	fetcher Fetcher
	storage storage.Storage
	logger  *zap.Logger
	now     func() time.Time
}

// NewRunner builds a Runner with its dependencies. storageSink may be nil.
func NewRunner(cfg RunConfig, fetcher Fetcher, storageSink storage.Storage, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg:     cfg,
		fetcher: fetcher,
		storage: storageSink,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Run processes every entry once. Per-account failures are reported in the Report;
// the returned error covers invalid input and storage failures.
func (r *Runner) Run(ctx context.Context, entries []symbols.Entry) (Report, error) {
	if r.fetcher == nil {
		return Report{}, fmt.Errorf("fetcher is nil")
	}
	if len(entries) == 0 {
		return Report{}, fmt.Errorf("at least one account is required")
	}

	report := Report{
		RunID:   uuid.NewString(),
		Results: make([]Result, len(entries)),
	}

	var g errgroup.Group
	if r.cfg.Concurrency > 0 {
		g.SetLimit(r.cfg.Concurrency)
	}
	for i, entry := range entries {
		i, entry := i, entry
		g.Go(func() error {
			report.Results[i] = r.process(ctx, report.RunID, entry)
			return nil
		})
	}
	_ = g.Wait()

	snapshots := report.Snapshots()
	if r.storage != nil && len(snapshots) > 0 {
		if err := r.storage.PutSnapshots(ctx, snapshots); err != nil {
			return report, fmt.Errorf("store snapshots: %w", err)
		}
	}

	r.logger.Info("snapshot run complete",
		zap.String("run_id", report.RunID),
		zap.Int("requested", len(entries)),
		zap.Int("stored", len(snapshots)),
		zap.Int("failed", len(entries)-len(snapshots)),
	)

	return report, nil
}

func (r *Runner) process(ctx context.Context, runID string, entry symbols.Entry) Result {
	res := Result{Entry: entry}
	fields := []zap.Field{zap.String("symbol", entry.Symbol), zap.String("account", entry.Address.String())}

	acct, err := LoadAccount(ctx, retryingFetcher{runner: r}, entry.Address)
	if err != nil {
		r.logger.Warn("load account failed", append(fields, zap.Error(err))...)
		res.Err = err
		return res
	}
	if !acct.HasMagic() {
		r.logger.Warn("unexpected account magic", append(fields, zap.Uint32("magic", acct.Magic))...)
	}

	res.Account = acct
	res.Snapshot = buildSnapshot(runID, entry, acct, r.now())

	r.logger.Debug("account decoded", append(fields,
		zap.String("price", acct.Price().String()),
		zap.Int32("exponent", acct.Exponent),
		zap.Int("components", len(acct.PriceComponents)),
	)...)
	return res
}

// retryingFetcher retries transport failures of the runner's fetcher.
type retryingFetcher struct {
	runner *Runner
}

func (f retryingFetcher) FetchAccountBytes(ctx context.Context, address solana.PublicKey) ([]byte, error) {
	r := f.runner
	var data []byte
	err := withRetry(ctx, r.cfg.MaxRetries, r.cfg.RetryBackoff, retryable, func(ctx context.Context) error {
		var err error
		data, err = r.fetcher.FetchAccountBytes(ctx, address)
		if err != nil && retryable(err) {
			r.logger.Debug("fetch attempt failed", zap.String("account", address.String()), zap.Error(err))
		}
		return err
	})
	return data, err
}

// retryable reports whether a fetch error may succeed on a later attempt.
func retryable(err error) bool {
	if chain.IsAccountNotFound(err) {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func buildSnapshot(runID string, entry symbols.Entry, acct oracle.NormalizedAccount, fetchedAt time.Time) model.PriceSnapshot {
	return model.PriceSnapshot{
		RunID:       runID,
		Symbol:      entry.Symbol,
		Account:     entry.Address.String(),
		FetchedAt:   fetchedAt,
		Exponent:    acct.Exponent,
		Price:       acct.Aggregate.Price,
		Confidence:  acct.Aggregate.Confidence,
		TWAP:        acct.TWAP.Value,
		TWAC:        acct.TWAC.Value,
		Status:      acct.Aggregate.Status,
		PublishSlot: acct.Aggregate.PublishSlot,
		ValidSlot:   acct.ValidSlot,
		Components:  len(acct.PriceComponents),
	}
}
