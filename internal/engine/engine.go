// Package engine orchestrates the analysis pipeline: extraction fans out
// over a worker pool, graph building, complexity scoring and pattern
// detection run concurrently over the immutable model, then freshness
// scoring and artifact generation close the run.
package engine

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"docsync/internal/complexity"
	"docsync/internal/config"
	"docsync/internal/extract"
	"docsync/internal/freshness"
	"docsync/internal/graph"
	"docsync/internal/model"
	"docsync/internal/output"
	"docsync/internal/patterns"
	"docsync/internal/storage"
)

// Engine runs the documentation synchronization pipeline.
type Engine struct {
	cfg     *config.Config
	logger  *slog.Logger
	history *storage.DB
}

// New creates an engine. history may be nil to skip run recording.
func New(cfg *config.Config, logger *slog.Logger, history *storage.DB) *Engine {
	return &Engine{cfg: cfg, logger: logger, history: history}
}

// Result is what one completed run produced.
type Result struct {
	Analysis *output.AnalysisResult
	Drift    []freshness.DriftRecord
	Files    int

	// ParseErrorCount distinguishes a clean run from one completed with
	// recoverable parse failures.
	ParseErrorCount int
}

// Analyze runs the full pipeline and regenerates all artifacts. The
// fingerprint store is read once before parsing and written once after
// scoring; cancellation at any stage leaves it untouched.
func (e *Engine) Analyze(ctx context.Context) (*Result, error) {
	started := time.Now()
	runID := uuid.NewString()
	e.logger.Info("starting analysis", "run", runID, "root", e.cfg.Root)

	store, err := freshness.Load(e.storePath())
	if err != nil {
		return nil, err
	}

	m, err := e.extract(ctx)
	if err != nil {
		return nil, err
	}

	analysis, err := e.analyze(ctx, m, runID)
	if err != nil {
		return nil, err
	}

	current := freshness.CurrentFingerprints(m)
	scorer := freshness.Scorer{}
	drift := scorer.Score(store, current)
	analysis.Drift = drift

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	writer, err := output.NewWriter(e.outputDir(), e.cfg.Export.Compress, e.logger)
	if err != nil {
		return nil, err
	}
	writeErr := e.writeArtifacts(writer, analysis)

	// Re-score against the artifacts just written so the report and the
	// store agree on the new baseline.
	now := time.Now()
	store.SetFingerprints(current)
	allPaths := m.Paths()
	for name, sources := range writer.Written {
		if len(sources) == 0 {
			sources = allPaths
		}
		store.RecordArtifact(name, sources, current, now)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := store.Save(e.storePath()); err != nil {
		return nil, err
	}

	result := &Result{
		Analysis:        analysis,
		Drift:           drift,
		Files:           m.Len(),
		ParseErrorCount: m.ParseErrorCount(),
	}
	e.recordRun(runID, "analyze", started, result)
	e.logger.Info("analysis complete", "run", runID,
		"files", m.Len(), "parseErrors", result.ParseErrorCount,
		"cycles", len(analysis.Cycles), "patterns", len(analysis.Patterns))

	if writeErr != nil {
		return result, writeErr
	}
	return result, nil
}

// Drift re-scores artifact freshness without regenerating artifacts.
// Matching artifacts advance their LastMatched time; drifted records keep
// aging until the next Analyze rebuilds them.
func (e *Engine) Drift(ctx context.Context) (*Result, error) {
	started := time.Now()
	runID := uuid.NewString()
	e.logger.Info("starting drift check", "run", runID, "root", e.cfg.Root)

	store, err := freshness.Load(e.storePath())
	if err != nil {
		return nil, err
	}

	m, err := e.extract(ctx)
	if err != nil {
		return nil, err
	}

	current := freshness.CurrentFingerprints(m)
	scorer := freshness.Scorer{}
	drift := scorer.Score(store, current)

	now := time.Now()
	store.SetFingerprints(current)
	for _, rec := range drift {
		if !rec.Drifted {
			store.MarkMatched(rec.Artifact, now)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := store.Save(e.storePath()); err != nil {
		return nil, err
	}

	result := &Result{
		Drift:           drift,
		Files:           m.Len(),
		ParseErrorCount: m.ParseErrorCount(),
	}
	e.recordRun(runID, "drift", started, result)
	return result, nil
}

func (e *Engine) extract(ctx context.Context) (*model.ProjectModel, error) {
	extractor := extract.New(extract.Options{
		Root:         e.cfg.Root,
		Excludes:     e.cfg.Excludes,
		Workers:      e.cfg.Extract.Workers,
		ParseTimeout: time.Duration(e.cfg.Extract.ParseTimeoutMs) * time.Millisecond,
		MaxFileSize:  int64(e.cfg.Extract.MaxFileSizeBytes),
	}, e.logger)
	return extractor.Extract(ctx)
}

// analyze fans the three read-only stages out over the immutable model.
func (e *Engine) analyze(ctx context.Context, m *model.ProjectModel, runID string) (*output.AnalysisResult, error) {
	// Rules load from disk up front; the fan-out stages below operate on
	// in-memory structures only.
	rules, err := e.loadRules()
	if err != nil {
		return nil, err
	}

	var (
		g          *graph.DependencyGraph
		cycles     []graph.Cycle
		records    map[string]complexity.Record
		files      []complexity.FileSummary
		matches    []patterns.Match
		ruleErrors []patterns.RuleError
	)

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		g = graph.Build(m)
		cycles = g.Cycles()
		return gctx.Err()
	})
	group.Go(func() error {
		records = complexity.Analyze(m)
		files = complexity.Summarize(m, records)
		return gctx.Err()
	})
	group.Go(func() error {
		detector := patterns.NewDetector(rules, e.logger)
		matches, ruleErrors = detector.Detect(m)
		return gctx.Err()
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	parseErrors := map[string][]model.ParseError{}
	m.Each(func(unit *model.SourceUnit) {
		if len(unit.Errors) > 0 {
			parseErrors[unit.Path] = unit.Errors
		}
	})

	return &output.AnalysisResult{
		RunID:       runID,
		GeneratedAt: time.Now().UTC(),
		Root:        e.cfg.Root,
		Model:       m,
		Graph:       g,
		Complexity:  records,
		Files:       files,
		Cycles:      cycles,
		Patterns:    matches,
		RuleErrors:  ruleErrors,
		ParseErrors: parseErrors,
	}, nil
}

func (e *Engine) loadRules() ([]patterns.Rule, error) {
	rulesCfg, err := patterns.LoadRulesConfig(e.rulesPath())
	if err != nil {
		return nil, err
	}
	rules := patterns.BuiltinRules(rulesCfg)
	if len(e.cfg.Patterns.Enabled) > 0 {
		enabled := map[string]bool{}
		for _, id := range e.cfg.Patterns.Enabled {
			enabled[id] = true
		}
		filtered := rules[:0]
		for _, r := range rules {
			if enabled[r.ID] {
				filtered = append(filtered, r)
			}
		}
		rules = filtered
	}
	return rules, nil
}

// writeArtifacts renders and writes every artifact, continuing past
// individual write failures.
func (e *Engine) writeArtifacts(writer *output.Writer, analysis *output.AnalysisResult) error {
	pages := output.RenderPages(analysis.Model, analysis.Graph, analysis.Complexity, analysis.Patterns)
	firstErr := writer.WritePages(pages)

	report := output.RenderDriftReport(analysis.Drift)
	if err := writer.WriteFile("drift-report.md", report, nil); err != nil {
		e.logger.Error("failed to write drift report", "error", err)
		if firstErr == nil {
			firstErr = err
		}
	}

	diagram := output.RenderMermaid(analysis.Graph, analysis.Cycles)
	if err := writer.WriteFile("dependencies.mmd", diagram, nil); err != nil {
		e.logger.Error("failed to write dependency diagram", "error", err)
		if firstErr == nil {
			firstErr = err
		}
	}

	encoded, err := output.DeterministicEncode(analysis.Serializable())
	if err != nil {
		e.logger.Error("failed to encode analysis result", "error", err)
		if firstErr == nil {
			firstErr = err
		}
	} else if err := writer.WriteCompressed("analysis.json", encoded, nil); err != nil {
		e.logger.Error("failed to write analysis result", "error", err)
		if firstErr == nil {
			firstErr = err
		}
	}

	if e.cfg.Export.SCIP {
		index, err := output.ExportSCIP(analysis.Model, e.cfg.Root)
		if err != nil {
			e.logger.Error("failed to build SCIP index", "error", err)
			if firstErr == nil {
				firstErr = err
			}
		} else if err := writer.WriteFile("index.scip", index, nil); err != nil {
			e.logger.Error("failed to write SCIP index", "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (e *Engine) recordRun(runID, command string, started time.Time, result *Result) {
	if e.history == nil {
		return
	}
	symbols := 0
	cycles := 0
	if result.Analysis != nil {
		result.Analysis.Model.EachSymbol(func(*model.SourceUnit, *model.Symbol) { symbols++ })
		cycles = len(result.Analysis.Cycles)
	}
	drifted := 0
	for _, rec := range result.Drift {
		if rec.Drifted {
			drifted++
		}
	}
	status := "ok"
	if result.ParseErrorCount > 0 {
		status = "parse-errors"
	}
	run := storage.Run{
		ID:          runID,
		Command:     command,
		StartedAt:   started,
		FinishedAt:  time.Now(),
		Files:       result.Files,
		Symbols:     symbols,
		ParseErrors: result.ParseErrorCount,
		Cycles:      cycles,
		Drifted:     drifted,
		Status:      status,
	}
	if err := e.history.InsertRun(run); err != nil {
		e.logger.Warn("failed to record run", "run", runID, "error", err)
	}
}

func (e *Engine) storePath() string {
	return resolve(e.cfg.Root, e.cfg.FingerprintPath)
}

func (e *Engine) outputDir() string {
	return resolve(e.cfg.Root, e.cfg.OutputDir)
}

func (e *Engine) rulesPath() string {
	return resolve(e.cfg.Root, e.cfg.Patterns.RulesPath)
}

func resolve(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
