package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"smokecheck/internal/config"
	"smokecheck/internal/extract"
	"smokecheck/internal/fetch"
	"smokecheck/internal/log"
	"smokecheck/internal/model"
	"smokecheck/internal/util"
	"smokecheck/pkg/report"
)

var (
	ErrFetchRelease = errors.New("failed to fetch latest release")
	ErrFetchPage    = errors.New("failed to fetch landing page")
)

// Options tune a single run.
type Options struct {
	// ExpectedVersion overrides the version the page is compared against.
	// It does not change which release's assets and tag are validated.
	ExpectedVersion string
	RunID           string
}

// Runner fetches the release and the landing page, runs every check in
// order and reports the outcome.
type Runner struct {
	cfg     *config.Config
	fetcher fetch.Fetcher
	printer *report.Printer
	checks  []Check
}

func NewRunner(cfg *config.Config, fetcher fetch.Fetcher, printer *report.Printer) *Runner {
	return &Runner{
		cfg:     cfg,
		fetcher: fetcher,
		printer: printer,
		checks:  DefaultChecks(),
	}
}

// Run returns an error only when the release or the landing page cannot be
// fetched; no check runs in that case. Check failures are reported through
// the summary.
func (r *Runner) Run(ctx context.Context, opts Options) (*model.Summary, error) {
	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	logger := log.Logger.With(zap.String("run_id", runID))

	summary := &model.Summary{RunID: runID, StartedAt: time.Now()}

	r.printer.Banner("Post-Release Validation")
	r.printer.Step("Fetching release metadata and landing page...")

	in, err := r.fetchInputs(ctx)
	if err != nil {
		logger.Error("smoke test aborted", zap.Error(err))
		return nil, err
	}

	in.ExpectedVersion = util.NormalizeVersion(in.Release.TagName)
	summary.ReleaseTag = in.Release.TagName

	r.printer.Fact("Latest release", in.Release.TagName)
	if !in.Release.PublishedAt.IsZero() {
		r.printer.Fact("Published", in.Release.PublishedAt.UTC().Format("2006-01-02 15:04 MST"))
	}
	r.printer.Fact("Landing page", r.cfg.LandingPage)
	if opts.ExpectedVersion != "" {
		in.ExpectedVersion = util.NormalizeVersion(opts.ExpectedVersion)
		r.printer.Warn("Testing against custom version: " + in.ExpectedVersion)
	}
	summary.ExpectedVersion = in.ExpectedVersion

	logger.Info("running checks",
		zap.String("tag", in.Release.TagName),
		zap.String("expected_version", in.ExpectedVersion),
		zap.Int("checks", len(r.checks)),
	)

	for _, c := range r.checks {
		start := time.Now()
		result := c.Run(ctx, in)
		result.Name = c.Name
		result.Section = c.Section

		logger.Debug("check finished",
			zap.String("check", c.Name),
			zap.Bool("passed", result.Passed),
			zap.Duration("duration", time.Since(start)),
		)

		r.printer.Result(result)
		summary.Results = append(summary.Results, result)
	}

	summary.Duration = time.Since(summary.StartedAt)
	r.printer.Summary(summary)

	logger.Info("smoke test finished",
		zap.Int("passed", summary.Passed()),
		zap.Int("total", summary.Total()),
		zap.Duration("duration", summary.Duration),
	)

	return summary, nil
}

func (r *Runner) fetchInputs(ctx context.Context) (*Inputs, error) {
	var release model.Release
	if err := r.fetcher.GetJSON(ctx, r.cfg.LatestReleaseURL(), &release); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchRelease, err)
	}
	if release.TagName == "" {
		return nil, fmt.Errorf("%w: response has no tag_name", ErrFetchRelease)
	}

	rawHTML, err := r.fetcher.GetText(ctx, r.cfg.LandingPage)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchPage, err)
	}

	doc, err := extract.Parse(rawHTML)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchPage, err)
	}

	return &Inputs{
		Config:  r.cfg,
		Fetcher: r.fetcher,
		Release: &release,
		Doc:     doc,
	}, nil
}
