package cli

import (
	"context"

	"github.com/couchcryptid/nuclide-data/internal/adapter/source"
	"github.com/couchcryptid/nuclide-data/internal/config"
	"github.com/couchcryptid/nuclide-data/internal/domain"
	"github.com/couchcryptid/nuclide-data/internal/pipeline"
)

// loadTables runs the loader under LOAD_TIMEOUT. The metrics textfile is
// written whether or not the load succeeds, so failures are visible too.
func (a *app) loadTables(ctx context.Context) (*domain.Tables, error) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.LoadTimeout)
	defer cancel()

	opener, err := a.opener(ctx)
	if err != nil {
		return nil, err
	}

	loader := pipeline.New(opener, pipeline.Options{
		WeightsName:     a.cfg.WeightsPath,
		WalletName:      a.cfg.WalletPath,
		MATName:         a.cfg.MATPath,
		EnergyTolerance: a.cfg.EnergyToleranceMeV(),
		Retries:         a.cfg.LoadRetries,
		RetryBackoff:    a.cfg.LoadRetryBackoff,
	}, a.logger, a.metrics)

	tables, err := loader.Load(ctx)

	if a.cfg.MetricsTextfile != "" {
		if werr := a.metrics.WriteTextfile(a.cfg.MetricsTextfile); werr != nil {
			a.logger.Error("failed to write metrics textfile", "path", a.cfg.MetricsTextfile, "error", werr)
		}
	}
	return tables, err
}

func (a *app) opener(ctx context.Context) (pipeline.Opener, error) {
	if a.cfg.SourceDriver != config.DriverS3 {
		return source.NewFiles(""), nil
	}
	s3, err := source.NewS3(ctx, source.S3Config{
		Bucket:    a.cfg.S3Bucket,
		Region:    a.cfg.S3Region,
		Endpoint:  a.cfg.S3Endpoint,
		PathStyle: a.cfg.S3PathStyle,
	})
	if err != nil {
		return nil, err
	}
	a.logger.Info("reading tables from s3", "bucket", a.cfg.S3Bucket)
	return s3, nil
}
