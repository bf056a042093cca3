package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/customer-pipeline/internal/config"
	"github.com/sells-group/customer-pipeline/internal/enrich"
	"github.com/sells-group/customer-pipeline/internal/export"
	"github.com/sells-group/customer-pipeline/internal/model"
	"github.com/sells-group/customer-pipeline/internal/store"
	"github.com/sells-group/customer-pipeline/internal/summary"
	"github.com/sells-group/customer-pipeline/pkg/reqres"
)

// Pipeline orchestrates the fetch, enrich, summarize, and export phases.
type Pipeline struct {
	cfg      *config.Config
	store    store.Store
	client   reqres.Client
	enricher *enrich.Enricher
	exporter *export.Exporter
}

// New creates a new Pipeline with all dependencies.
func New(
	cfg *config.Config,
	st store.Store,
	client reqres.Client,
	enricher *enrich.Enricher,
	exporter *export.Exporter,
) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		store:    st,
		client:   client,
		enricher: enricher,
		exporter: exporter,
	}
}

// Run executes the full pipeline for a single batch.
func (p *Pipeline) Run(ctx context.Context) (*model.RunResult, error) {
	log := zap.L()
	log.Info("pipeline: starting run")

	result := &model.RunResult{}

	// Create run record.
	run, err := p.store.CreateRun(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: create run")
	}
	result.RunID = run.ID
	log = log.With(zap.String("run_id", run.ID))

	// Update status helper.
	setStatus := func(status model.RunStatus) {
		if statusErr := p.store.UpdateRunStatus(ctx, run.ID, status); statusErr != nil {
			log.Warn("pipeline: failed to update status", zap.Error(statusErr))
		}
	}

	// Phase tracking helper.
	trackPhase := func(name string, status model.RunStatus, fn func() error) error {
		setStatus(status)
		start := time.Now()
		fnErr := fn()
		duration := time.Since(start).Milliseconds()

		phase := model.PhaseResult{
			Name:     name,
			Status:   model.PhaseStatusComplete,
			Duration: duration,
		}
		if fnErr != nil {
			phase.Status = model.PhaseStatusFailed
			phase.Error = fnErr.Error()
			log.Error("pipeline: phase failed",
				zap.String("phase", name),
				zap.Int64("duration_ms", duration),
				zap.Error(fnErr),
			)
		} else {
			log.Info("pipeline: phase complete",
				zap.String("phase", name),
				zap.Int64("duration_ms", duration),
			)
		}
		result.Phases = append(result.Phases, phase)
		return fnErr
	}

	// Failure helper: persist the failed result and surface the error.
	fail := func(phaseErr error, msg string) (*model.RunResult, error) {
		result.Error = phaseErr.Error()
		if markErr := p.store.MarkRunFailed(ctx, run.ID, phaseErr); markErr != nil {
			log.Warn("pipeline: failed to mark run failed", zap.Error(markErr))
		}
		return result, eris.Wrap(phaseErr, msg)
	}

	// ===== Phase 1: Fetch =====
	var raw []model.RawCustomer
	if err := trackPhase("fetch", model.RunStatusFetching, func() error {
		var fetchErr error
		raw, fetchErr = p.client.FetchAll(ctx)
		return fetchErr
	}); err != nil {
		return fail(err, "pipeline: fetch")
	}
	result.TotalFetched = len(raw)

	// ===== Phase 2: Enrich =====
	var unique []model.EnrichedCustomer
	_ = trackPhase("enrich", model.RunStatusEnriching, func() error {
		enriched := p.enricher.EnrichAll(raw)
		result.TotalEnriched = len(enriched)
		unique = enrich.Resolve(enriched)
		result.TotalUnique = len(unique)
		return nil
	})

	// ===== Phase 3: Summarize =====
	_ = trackPhase("summarize", model.RunStatusSummarizing, func() error {
		report := summary.Summarize(unique)
		result.AverageQualityScore = report.AverageQualityScore
		result.Quality = report.QualitySummary
		return nil
	})

	// ===== Phase 4: Export =====
	if err := trackPhase("export", model.RunStatusExporting, func() error {
		paths, exportErr := p.exporter.ExportAll(unique, p.cfg.Export.OutputDir)
		if exportErr != nil {
			return exportErr
		}
		result.OutputFiles = paths
		return nil
	}); err != nil {
		return fail(err, "pipeline: export")
	}

	// Persist the final result.
	if err := p.store.UpdateRunResult(ctx, run.ID, result); err != nil {
		log.Warn("pipeline: failed to persist result", zap.Error(err))
	}

	log.Info("pipeline: run complete",
		zap.Int("total_fetched", result.TotalFetched),
		zap.Int("total_unique", result.TotalUnique),
		zap.Float64("average_quality_score", result.AverageQualityScore),
		zap.Strings("output_files", result.OutputFiles),
	)
	return result, nil
}
