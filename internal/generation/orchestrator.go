package generation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"cardforge/internal/domain"
	"cardforge/internal/events"
	"cardforge/internal/exporter"
	"cardforge/internal/history"
	"cardforge/internal/normalizer"
	"cardforge/internal/settings"
	"cardforge/internal/template"
)

// Pipeline stage names used in failure reporting.
const (
	StagePrompting   = "prompting"
	StageNormalizing = "normalizing"
	StageExporting   = "exporting"
)

// HistoryStore records completed generation runs.
type HistoryStore interface {
	Save(ctx context.Context, rec history.Record) error
}

// SettingsSource supplies the current runtime settings. When set, its
// snapshot overrides the startup defaults for request fields the caller
// left unset, so settings changes take effect without a restart.
type SettingsSource interface {
	Current() settings.Snapshot
}

// Config carries the pipeline defaults the orchestrator applies to
// requests that leave them unset.
type Config struct {
	DefaultCardCount int
	DefaultTemplate  string
	DefaultFormats   []domain.ExportFormat
	ExportDirectory  string
}

// Orchestrator drives a generation request through its stages: pending,
// prompting, normalizing, exporting, done. It emits a progress event on
// every transition and keeps the result of each request for status
// queries.
type Orchestrator struct {
	generator  Generator
	prompts    *PromptBuilder
	normalizer *normalizer.Normalizer
	registry   *template.Registry
	exporter   *exporter.Exporter
	emitter    events.Emitter
	history    HistoryStore
	logger     *slog.Logger
	cfg        Config
	settings   SettingsSource

	mu      sync.RWMutex
	results map[uuid.UUID]*Result
}

// NewOrchestrator wires the pipeline collaborators together.
func NewOrchestrator(
	generator Generator,
	prompts *PromptBuilder,
	norm *normalizer.Normalizer,
	registry *template.Registry,
	exp *exporter.Exporter,
	emitter events.Emitter,
	historyStore HistoryStore,
	cfg Config,
	logger *slog.Logger,
) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		generator:  generator,
		prompts:    prompts,
		normalizer: norm,
		registry:   registry,
		exporter:   exp,
		emitter:    emitter,
		history:    historyStore,
		logger:     logger.With("component", "orchestrator"),
		cfg:        cfg,
		results:    make(map[uuid.UUID]*Result),
	}
}

// SetSettingsSource attaches a runtime settings provider. Must be called
// before workers start running requests.
func (o *Orchestrator) SetSettingsSource(src SettingsSource) {
	o.settings = src
}

// Accept registers a request as pending so status queries resolve before
// a worker picks it up.
func (o *Orchestrator) Accept(req Request) {
	o.mu.Lock()
	o.results[req.ID] = &Result{
		RequestID: req.ID,
		Status:    domain.RequestStatusPending,
		CreatedAt: req.CreatedAt,
	}
	o.mu.Unlock()

	o.emit(context.Background(), req.ID, domain.RequestStatusPending, "request accepted", 0, 0)
}

// Status returns a snapshot of the request's current result.
func (o *Orchestrator) Status(id uuid.UUID) (Result, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	res, ok := o.results[id]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrRequestNotFound, id)
	}
	return res.clone(), nil
}

// Run executes the request pipeline. It always returns the final result;
// the error is non-nil only when the request failed.
func (o *Orchestrator) Run(ctx context.Context, req Request) (Result, error) {
	o.applyDefaults(&req)
	logger := o.logger.With("request_id", req.ID)

	o.ensureResult(req)

	tmpl, err := o.registry.Get(req.TemplateName)
	if err != nil {
		return o.fail(ctx, req, StagePrompting, err)
	}

	// Prompting.
	o.transition(ctx, req.ID, domain.RequestStatusPrompting, "building prompt and calling model", 0, 0)

	prompt, err := o.prompts.Build(PromptData{
		Content:      req.Content,
		CardCount:    req.CardCount,
		Difficulty:   req.Difficulty,
		TemplateName: tmpl.Name,
		FieldList:    fieldList(tmpl),
		DeckName:     req.DeckName,
		IsCloze:      tmpl.IsCloze,
	})
	if err != nil {
		return o.fail(ctx, req, StagePrompting, err)
	}

	// A request cancelled while queued is abandoned without spending a
	// model call. That is a caller decision, not a pipeline failure.
	if ctx.Err() != nil {
		return o.cancel(ctx, req)
	}

	raw, err := o.generator.GenerateCompletion(ctx, prompt)
	if err != nil {
		return o.fail(ctx, req, StagePrompting, err)
	}

	// Normalizing.
	o.transition(ctx, req.ID, domain.RequestStatusNormalizing, "normalizing model response", 0, 0)

	records, warnings := o.normalizer.Normalize(raw, tmpl, req.CardCount)
	if len(records) == 0 {
		o.updateResult(req.ID, func(r *Result) { r.Warnings = warnings })
		return o.fail(ctx, req, StageNormalizing, domain.ErrNoCardsProduced)
	}
	records = o.applyRequestTags(records, req.Tags)

	o.updateResult(req.ID, func(r *Result) {
		r.Records = records
		r.Warnings = warnings
	})

	// Exporting.
	o.transition(ctx, req.ID, domain.RequestStatusExporting, "writing export artifacts",
		len(records), len(warnings))

	artifacts, exportErrs := o.exporter.Export(exporter.Request{
		Records:   records,
		Template:  tmpl,
		Formats:   req.Formats,
		Directory: o.cfg.ExportDirectory,
		DeckName:  req.DeckName,
	})
	if len(artifacts) == 0 && len(exportErrs) > 0 {
		o.recordExportErrors(req.ID, exportErrs)
		return o.fail(ctx, req, StageExporting, &exportErrs[0])
	}
	o.recordExportErrors(req.ID, exportErrs)

	// History last, after all export attempts. A history write failure
	// is logged, not fatal: the artifacts already exist on disk.
	if o.history != nil {
		rec := history.NewRecord(req.ID, req.DeckName, req.Content, artifacts)
		rec.SourceFiles = req.SourceFiles
		if err := o.history.Save(ctx, rec); err != nil {
			logger.Error("failed to save history record", "error", err)
		}
	}

	summary := exporter.Summarize(records, artifacts, req.DeckName)
	o.updateResult(req.ID, func(r *Result) {
		r.Status = domain.RequestStatusDone
		r.Artifacts = artifacts
		r.Summary = &summary
		r.CompletedAt = time.Now().UTC()
	})
	o.emit(ctx, req.ID, domain.RequestStatusDone, "generation complete", len(records), len(warnings))

	logger.Info("generation request completed",
		"card_count", len(records),
		"warning_count", len(warnings),
		"artifact_count", len(artifacts),
		"export_failures", len(exportErrs))

	res, _ := o.Status(req.ID)
	return res, nil
}

func (o *Orchestrator) applyDefaults(req *Request) {
	defaults := o.cfg
	if o.settings != nil {
		snap := o.settings.Current()
		if snap.DefaultCardCount > 0 {
			defaults.DefaultCardCount = snap.DefaultCardCount
		}
		if snap.DefaultTemplate != "" {
			defaults.DefaultTemplate = snap.DefaultTemplate
		}
		if len(snap.DefaultFormats) > 0 {
			defaults.DefaultFormats = snap.DefaultFormats
		}
		if req.Difficulty == "" {
			req.Difficulty = snap.DefaultDifficulty
		}
	}
	if req.CardCount <= 0 {
		req.CardCount = defaults.DefaultCardCount
	}
	if req.TemplateName == "" {
		req.TemplateName = defaults.DefaultTemplate
	}
	if len(req.Formats) == 0 {
		req.Formats = append([]domain.ExportFormat(nil), defaults.DefaultFormats...)
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}
}

// applyRequestTags merges request-level tags into every record.
func (o *Orchestrator) applyRequestTags(records []domain.CardRecord, tags []string) []domain.CardRecord {
	if len(tags) == 0 {
		return records
	}
	for i := range records {
		records[i].Tags = domain.NormalizeTags(append(records[i].Tags, tags...))
	}
	return records
}

func (o *Orchestrator) ensureResult(req Request) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.results[req.ID]; !ok {
		o.results[req.ID] = &Result{
			RequestID: req.ID,
			Status:    domain.RequestStatusPending,
			CreatedAt: req.CreatedAt,
		}
	}
}

func (o *Orchestrator) updateResult(id uuid.UUID, update func(*Result)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if res, ok := o.results[id]; ok {
		update(res)
	}
}

func (o *Orchestrator) recordExportErrors(id uuid.UUID, errs []exporter.ExportError) {
	if len(errs) == 0 {
		return
	}
	o.updateResult(id, func(r *Result) {
		for i := range errs {
			r.ExportErrors = append(r.ExportErrors, errs[i].Error())
		}
	})
}

func (o *Orchestrator) transition(ctx context.Context, id uuid.UUID, status domain.RequestStatus, message string, cards, warns int) {
	o.updateResult(id, func(r *Result) { r.Status = status })
	o.emit(ctx, id, status, message, cards, warns)
}

// cancel discards a request whose caller gave up before the model was
// called. No failure stage or cause is recorded.
func (o *Orchestrator) cancel(ctx context.Context, req Request) (Result, error) {
	o.updateResult(req.ID, func(r *Result) {
		r.Status = domain.RequestStatusCancelled
		r.CompletedAt = time.Now().UTC()
	})
	o.emit(ctx, req.ID, domain.RequestStatusCancelled, "request cancelled before model call", 0, 0)

	o.logger.Info("generation request cancelled", "request_id", req.ID)

	res, _ := o.Status(req.ID)
	return res, nil
}

func (o *Orchestrator) fail(ctx context.Context, req Request, stage string, cause error) (Result, error) {
	stageErr := &StageError{Stage: stage, Err: cause}

	o.updateResult(req.ID, func(r *Result) {
		r.Status = domain.RequestStatusFailed
		r.FailedStage = stage
		r.Error = cause.Error()
		r.CompletedAt = time.Now().UTC()
	})
	o.emit(ctx, req.ID, domain.RequestStatusFailed, stageErr.Error(), 0, 0)

	o.logger.Error("generation request failed",
		"request_id", req.ID,
		"stage", stage,
		"error", cause)

	res, _ := o.Status(req.ID)
	return res, stageErr
}

func (o *Orchestrator) emit(ctx context.Context, id uuid.UUID, status domain.RequestStatus, message string, cards, warns int) {
	if o.emitter == nil {
		return
	}
	event := events.NewProgressEvent(id, status, message)
	event.CardCount = cards
	event.WarningCount = warns
	if err := o.emitter.Emit(ctx, event); err != nil {
		o.logger.Warn("failed to emit progress event",
			"request_id", id,
			"status", status,
			"error", err)
	}
}

func fieldList(tmpl domain.TemplateDefinition) string {
	out := ""
	for i, f := range tmpl.Fields {
		if i > 0 {
			out += ", "
		}
		out += `"` + f + `"`
	}
	return out
}
