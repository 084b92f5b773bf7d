// Package app wires the sitemap and metadata updaters into a single run and holds
// the services they share: clock, run IDs, status reporter, metrics and logger.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/sitestamp/internal/clock"
	"github.com/JakeFAU/sitestamp/internal/metadata"
	"github.com/JakeFAU/sitestamp/internal/metrics"
	"github.com/JakeFAU/sitestamp/internal/report"
	"github.com/JakeFAU/sitestamp/internal/sitemap"
	"github.com/JakeFAU/sitestamp/internal/stamp"
	"github.com/JakeFAU/sitestamp/internal/storage"
)

// Step names used in logs and metric labels.
const (
	StepSitemap  = "sitemap"
	StepMetadata = "metadata"
)

// SitemapUpdater stamps lastmod fields.
type SitemapUpdater interface {
	Update(ctx context.Context, path, stamp string) (sitemap.Result, error)
}

// MetadataUpdater stamps datePublished/dateModified values.
type MetadataUpdater interface {
	Update(ctx context.Context, path, stamp string) (metadata.Result, error)
}

// IDGenerator yields a run ID.
type IDGenerator interface {
	NewID() (string, error)
}

// Target names one artifact.
type Target struct {
	Enabled bool
	// Name is the path as configured, used in status lines.
	Name string
	// Path is the absolute path the updater works on.
	Path string
}

// Options controls a run.
type Options struct {
	Sitemap         Target
	Metadata        Target
	UTCOffset       time.Duration
	DryRun          bool
	MetricsTextfile string
}

// Deps are the services a run depends on.
type Deps struct {
	Clock    clock.Clock
	IDs      IDGenerator
	Sitemap  SitemapUpdater
	Metadata MetadataUpdater
	Reporter *report.Reporter
	Recorder *metrics.Recorder
	Logger   *zap.Logger
}

// StepSummary describes how one step ended.
type StepSummary struct {
	Outcome string
	Path    string
	Updated int
	Changed bool
}

// Summary describes a whole run.
type Summary struct {
	RunID    string
	Stamps   stamp.Stamps
	Sitemap  StepSummary
	Metadata StepSummary
}

// App runs both steps in order against one clock snapshot.
type App struct {
	opts     Options
	clock    clock.Clock
	ids      IDGenerator
	sitemap  SitemapUpdater
	metadata MetadataUpdater
	reporter *report.Reporter
	recorder *metrics.Recorder
	logger   *zap.Logger
}

// New validates deps and returns an App.
func New(opts Options, deps Deps) (*App, error) {
	switch {
	case deps.Clock == nil:
		return nil, errors.New("clock is required")
	case deps.IDs == nil:
		return nil, errors.New("id generator is required")
	case deps.Reporter == nil:
		return nil, errors.New("reporter is required")
	case opts.Sitemap.Enabled && deps.Sitemap == nil:
		return nil, errors.New("sitemap updater is required when the sitemap step is enabled")
	case opts.Metadata.Enabled && deps.Metadata == nil:
		return nil, errors.New("metadata updater is required when the metadata step is enabled")
	}
	if deps.Recorder == nil {
		deps.Recorder = metrics.NewRecorder()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &App{
		opts:     opts,
		clock:    deps.Clock,
		ids:      deps.IDs,
		sitemap:  deps.Sitemap,
		metadata: deps.Metadata,
		reporter: deps.Reporter,
		recorder: deps.Recorder,
		logger:   deps.Logger,
	}, nil
}

// Recorder exposes the run metrics.
func (a *App) Recorder() *metrics.Recorder {
	return a.recorder
}

// Run stamps the sitemap, then the metadata document. A missing file is reported
// and does not stop the other step; any other failure ends the run with an error.
func (a *App) Run(ctx context.Context) (Summary, error) {
	stamps, err := stamp.New(a.clock.Now(), a.opts.UTCOffset)
	if err != nil {
		return Summary{}, fmt.Errorf("compute stamps: %w", err)
	}
	runID, err := a.ids.NewID()
	if err != nil {
		return Summary{}, err
	}
	sum := Summary{RunID: runID, Stamps: stamps}
	logger := a.logger.With(zap.String("run_id", runID))
	a.recorder.SetRun(stamps.At, a.opts.DryRun)

	logger.Info("run started",
		zap.String("utc_stamp", stamps.UTC),
		zap.String("local_stamp", stamps.Local),
		zap.Bool("dry_run", a.opts.DryRun))

	sum.Sitemap, err = a.runSitemap(ctx, logger, stamps.UTC)
	if err != nil {
		a.flushMetrics(logger)
		return sum, err
	}

	if err := ctx.Err(); err != nil {
		a.flushMetrics(logger)
		return sum, fmt.Errorf("run interrupted: %w", err)
	}

	sum.Metadata, err = a.runMetadata(ctx, logger, stamps.Local)
	a.flushMetrics(logger)
	if err != nil {
		return sum, err
	}

	logger.Info("run finished",
		zap.String("sitemap", sum.Sitemap.Outcome),
		zap.String("metadata", sum.Metadata.Outcome))
	return sum, nil
}

func (a *App) runSitemap(ctx context.Context, logger *zap.Logger, utc string) (StepSummary, error) {
	t := a.opts.Sitemap
	if !t.Enabled {
		return a.disabled(StepSitemap), nil
	}
	logger = logger.With(zap.String("step", StepSitemap), zap.String("path", t.Path))

	res, err := a.sitemap.Update(ctx, t.Path, utc)
	if outcome, handled := a.classify(StepSitemap, t, logger, err); handled {
		return StepSummary{Outcome: outcome, Path: t.Path}, nil
	} else if err != nil {
		return StepSummary{Outcome: outcome, Path: t.Path}, fmt.Errorf("update sitemap %s: %w", t.Path, err)
	}

	a.recorder.ObserveStep(StepSitemap, metrics.OutcomeUpdated)
	a.recorder.AddFields(StepSitemap, "lastmod", res.Updated)
	a.reporter.SitemapUpdated(t.Path, utc, res.Updated, res.URLs, a.opts.DryRun)
	logger.Info("sitemap stamped",
		zap.Int("urls", res.URLs),
		zap.Int("lastmod_updated", res.Updated),
		zap.Bool("changed", res.Changed))
	return StepSummary{
		Outcome: metrics.OutcomeUpdated,
		Path:    t.Path,
		Updated: res.Updated,
		Changed: res.Changed,
	}, nil
}

func (a *App) runMetadata(ctx context.Context, logger *zap.Logger, local string) (StepSummary, error) {
	t := a.opts.Metadata
	if !t.Enabled {
		return a.disabled(StepMetadata), nil
	}
	logger = logger.With(zap.String("step", StepMetadata), zap.String("path", t.Path))

	res, err := a.metadata.Update(ctx, t.Path, local)
	if outcome, handled := a.classify(StepMetadata, t, logger, err); handled {
		return StepSummary{Outcome: outcome, Path: t.Path}, nil
	} else if err != nil {
		return StepSummary{Outcome: outcome, Path: t.Path}, fmt.Errorf("update metadata %s: %w", t.Path, err)
	}

	a.recorder.ObserveStep(StepMetadata, metrics.OutcomeUpdated)
	a.recorder.AddFields(StepMetadata, "datePublished", res.Published)
	a.recorder.AddFields(StepMetadata, "dateModified", res.Modified)
	a.reporter.MetadataUpdated(t.Path, local, res.Published, res.Modified, a.opts.DryRun)
	logger.Info("metadata stamped",
		zap.Int("date_published", res.Published),
		zap.Int("date_modified", res.Modified),
		zap.Bool("changed", res.Changed))
	return StepSummary{
		Outcome: metrics.OutcomeUpdated,
		Path:    t.Path,
		Updated: res.Updated(),
		Changed: res.Changed,
	}, nil
}

// classify records a failed step. It reports handled=true for the one error kind a
// run survives: the artifact not existing.
func (a *App) classify(step string, t Target, logger *zap.Logger, err error) (string, bool) {
	switch {
	case err == nil:
		return metrics.OutcomeUpdated, false
	case errors.Is(err, storage.ErrNotFound):
		a.recorder.ObserveStep(step, metrics.OutcomeNotFound)
		a.reporter.NotFound(t.Name, t.Path)
		logger.Warn("artifact not found, skipping step")
		return metrics.OutcomeNotFound, true
	default:
		a.recorder.ObserveStep(step, metrics.OutcomeFailed)
		logger.Error("step failed", zap.Error(err))
		return metrics.OutcomeFailed, false
	}
}

func (a *App) disabled(step string) StepSummary {
	a.recorder.ObserveStep(step, metrics.OutcomeDisabled)
	a.reporter.Disabled(step)
	a.logger.Debug("step disabled", zap.String("step", step))
	return StepSummary{Outcome: metrics.OutcomeDisabled}
}

func (a *App) flushMetrics(logger *zap.Logger) {
	if a.opts.MetricsTextfile == "" {
		return
	}
	if err := a.recorder.WriteTextfile(a.opts.MetricsTextfile); err != nil {
		logger.Warn("failed to write metrics textfile", zap.Error(err))
		return
	}
	logger.Debug("metrics textfile written", zap.String("path", a.opts.MetricsTextfile))
}
