package app

import (
	"fmt"
	"io"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/JakeFAU/sitestamp/internal/clock"
	"github.com/JakeFAU/sitestamp/internal/clock/system"
	"github.com/JakeFAU/sitestamp/internal/config"
	"github.com/JakeFAU/sitestamp/internal/id/uuid"
	"github.com/JakeFAU/sitestamp/internal/metadata"
	"github.com/JakeFAU/sitestamp/internal/metrics"
	"github.com/JakeFAU/sitestamp/internal/report"
	"github.com/JakeFAU/sitestamp/internal/sitemap"
	"github.com/JakeFAU/sitestamp/internal/storage"
	"github.com/JakeFAU/sitestamp/internal/storage/local"
)

// FromConfig assembles an App from loaded configuration. A nil fsys means the host
// filesystem; status lines go to out.
func FromConfig(cfg config.Config, fsys afero.Fs, out io.Writer, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	store, err := local.New(fsys, local.Config{Root: cfg.Site.Root})
	if err != nil {
		return nil, fmt.Errorf("open site root: %w", err)
	}
	var files storage.Files = store
	if cfg.Run.DryRun {
		files = storage.ReadOnly{Files: store}
	}

	scope, err := cfg.Scope()
	if err != nil {
		return nil, err
	}
	pinned, err := cfg.PinnedAt()
	if err != nil {
		return nil, err
	}
	var clk clock.Clock = system.New()
	if !pinned.IsZero() {
		clk = system.NewPinned(pinned)
	}

	opts := Options{
		Sitemap: Target{
			Enabled: cfg.Sitemap.Enabled,
			Name:    cfg.Sitemap.Path,
			Path:    store.Resolve(cfg.Sitemap.Path),
		},
		Metadata: Target{
			Enabled: cfg.Metadata.Enabled,
			Name:    cfg.Metadata.Path,
			Path:    store.Resolve(cfg.Metadata.Path),
		},
		UTCOffset:       cfg.Metadata.UTCOffset,
		DryRun:          cfg.Run.DryRun,
		MetricsTextfile: cfg.Metrics.Textfile,
	}

	logger.Debug("site resolved",
		zap.String("root", store.Root()),
		zap.String("sitemap", opts.Sitemap.Path),
		zap.String("metadata", opts.Metadata.Path),
		zap.String("scope", string(scope)))

	return New(opts, Deps{
		Clock:    clk,
		IDs:      uuid.New(),
		Sitemap:  sitemap.NewUpdater(files, logger.Named(StepSitemap)),
		Metadata: metadata.NewUpdater(files, scope, logger.Named(StepMetadata)),
		Reporter: report.New(out),
		Recorder: metrics.NewRecorder(),
		Logger:   logger,
	})
}
