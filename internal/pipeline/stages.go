package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"

	"github.com/couchcryptid/nuclide-data/internal/domain"
)

// maxBackoff caps the delay between attempts to open a source table.
const maxBackoff = 5 * time.Second

func (l *Loader) readWeights(ctx context.Context) ([]domain.WeightEntry, error) {
	rc, err := l.open(ctx, l.opts.WeightsName)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	entries, err := domain.ParseWeightTable(rc)
	if err != nil {
		return nil, &stageError{stage: "parse", err: fmt.Errorf("parse %s: %w", l.opts.WeightsName, err)}
	}
	l.logger.Debug("parsed atomic-weight table", "name", l.opts.WeightsName, "entries", len(entries))
	return entries, nil
}

func (l *Loader) readWallet(ctx context.Context) ([]domain.WalletEntry, error) {
	rc, err := l.open(ctx, l.opts.WalletName)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	entries, err := domain.ParseWalletCards(rc)
	if err != nil {
		return nil, &stageError{stage: "parse", err: fmt.Errorf("parse %s: %w", l.opts.WalletName, err)}
	}
	l.logger.Debug("parsed wallet-card table", "name", l.opts.WalletName, "entries", len(entries))
	return entries, nil
}

func (l *Loader) readMATs(ctx context.Context) ([]domain.MATEntry, error) {
	rc, err := l.open(ctx, l.opts.MATName)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	entries, err := domain.ParseMATList(rc)
	if err != nil {
		return nil, &stageError{stage: "parse", err: fmt.Errorf("parse %s: %w", l.opts.MATName, err)}
	}
	l.logger.Debug("parsed ENDF MAT list", "name", l.opts.MATName, "entries", len(entries))
	return entries, nil
}

// open opens a source table, retrying transient failures with exponential
// backoff. Missing tables and cancellation are not retried.
func (l *Loader) open(ctx context.Context, name string) (io.ReadCloser, error) {
	backoff := l.opts.RetryBackoff
	for attempt := 1; ; attempt++ {
		rc, err := l.opener.Open(ctx, name)
		if err == nil {
			return rc, nil
		}
		if attempt >= l.opts.Retries || errors.Is(err, fs.ErrNotExist) || ctx.Err() != nil {
			return nil, &stageError{stage: "open", err: fmt.Errorf("open %s: %w", name, err)}
		}

		l.logger.Warn("open source failed, retrying", "name", name, "attempt", attempt, "backoff", backoff, "error", err)
		l.metrics.SourceOpenRetries.Inc()
		if !retry.SleepWithContext(ctx, backoff) {
			return nil, &stageError{stage: "open", err: fmt.Errorf("open %s: %w", name, ctx.Err())}
		}
		backoff = retry.NextBackoff(backoff, maxBackoff)
	}
}
