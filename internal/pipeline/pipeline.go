package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/couchcryptid/nuclide-data/internal/domain"
	"github.com/couchcryptid/nuclide-data/internal/observability"
)

// Opener returns a reader for a named source table.
type Opener interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// Options names the source tables and tunes the build.
type Options struct {
	WeightsName     string
	WalletName      string
	MATName         string  // optional ENDF MAT listing
	EnergyTolerance float64 // MeV; zero keeps the domain default

	// Attempts to open each table, at least 1, and the initial retry delay.
	Retries      int
	RetryBackoff time.Duration
}

// Loader orchestrates the open-parse-normalize-build sequence that turns the
// two source tables into immutable lookup tables.
type Loader struct {
	opener  Opener
	opts    Options
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates a Loader with the given source and observability.
func New(opener Opener, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Loader {
	if opts.Retries < 1 {
		opts.Retries = 1
	}
	return &Loader{
		opener:  opener,
		opts:    opts,
		logger:  logger,
		metrics: metrics,
	}
}

// stageError tags a failure with the stage it happened in.
type stageError struct {
	stage string
	err   error
}

func (e *stageError) Error() string { return e.err.Error() }
func (e *stageError) Unwrap() error { return e.err }

// Load builds the tables. It fails fast: the first format error, missing
// source or cancelled context aborts the load and no partial tables are
// returned. Data-consistency findings are logged and kept on the result.
func (l *Loader) Load(ctx context.Context) (*domain.Tables, error) {
	start := domain.Now()
	l.logger.Info("loading nuclide tables", "weights", l.opts.WeightsName, "wallet", l.opts.WalletName)

	tables, err := l.load(ctx)
	l.metrics.LoadDuration.Observe(domain.Now().Sub(start).Seconds())
	if err != nil {
		stage := "unknown"
		var se *stageError
		if errors.As(err, &se) {
			stage = se.stage
		}
		l.metrics.LoadFailures.WithLabelValues(stage).Inc()
		l.logger.Error("load failed", "stage", stage, "error", err)
		return nil, err
	}

	for _, w := range tables.Warnings() {
		l.logger.Warn("data consistency", "key", w.Key, "detail", w.Detail)
	}
	l.metrics.ConsistencyWarnings.Add(float64(len(tables.Warnings())))
	l.metrics.NuclidesBuilt.Set(float64(tables.Len()))
	l.metrics.ElementsBuilt.Set(float64(len(tables.Elements())))
	l.metrics.LastLoadTimestamp.Set(float64(tables.LoadedAt().Unix()))

	l.logger.Info("nuclide tables loaded",
		"elements", len(tables.Elements()),
		"nuclides", tables.Len(),
		"warnings", len(tables.Warnings()),
		"duration", domain.Now().Sub(start),
	)
	return tables, nil
}

func (l *Loader) load(ctx context.Context) (*domain.Tables, error) {
	weights, err := l.readWeights(ctx)
	if err != nil {
		return nil, err
	}
	l.metrics.WeightEntriesParsed.Add(float64(len(weights)))

	cards, err := l.readWallet(ctx)
	if err != nil {
		return nil, err
	}
	l.metrics.WalletEntriesParsed.Add(float64(len(cards)))

	normalized, err := domain.Normalize(weights, cards)
	if err != nil {
		return nil, &stageError{stage: "normalize", err: fmt.Errorf("normalize: %w", err)}
	}

	var opts []domain.Option
	if l.opts.EnergyTolerance > 0 {
		opts = append(opts, domain.WithEnergyTolerance(l.opts.EnergyTolerance))
	}
	if l.opts.MATName != "" {
		mats, err := l.readMATs(ctx)
		if err != nil {
			return nil, err
		}
		l.metrics.MATEntriesParsed.Add(float64(len(mats)))
		opts = append(opts, domain.WithMATs(mats))
	}
	tables, err := domain.BuildTables(normalized, opts...)
	if err != nil {
		return nil, &stageError{stage: "build", err: err}
	}
	return tables, nil
}
