// Package pipeline orchestrates the full document flow: chunk, extract,
// merge, validate, reconcile, render.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/velocitatem/concordia/internal/cache"
	"github.com/velocitatem/concordia/internal/extract"
	"github.com/velocitatem/concordia/internal/llm"
	"github.com/velocitatem/concordia/internal/merge"
	"github.com/velocitatem/concordia/internal/model"
	"github.com/velocitatem/concordia/internal/reconcile"
	"github.com/velocitatem/concordia/internal/validate"
	"github.com/velocitatem/concordia/internal/worker"
)

// Pipeline orchestrates the complete reconciliation process
type Pipeline struct {
	chunker   *extract.Chunker
	extractor *extract.Extractor
	processor *worker.ChunkProcessor
	merger    *merge.Engine
	engine    *reconcile.Engine
	renderer  *Renderer
	config    *model.Config
	logger    zerolog.Logger
}

// NewPipeline creates a new pipeline with the given configuration. The LLM
// provider and cache are optional; without a provider only pre-extracted
// records can be processed.
func NewPipeline(cfg *model.Config, logger zerolog.Logger) (*Pipeline, error) {
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("init LLM provider: %w", err)
	}

	var c cache.Cache
	if cfg.Cache.Enabled {
		c, err = cache.New(cfg.Cache)
		if err != nil {
			return nil, fmt.Errorf("init cache: %w", err)
		}
	}

	validator, err := validate.NewValidator()
	if err != nil {
		return nil, fmt.Errorf("init validator: %w", err)
	}

	extractor := extract.NewExtractor(provider, c, cfg.Cache.TTL, logger)
	limiter := worker.NewLimiter(cfg.Concurrency.RequestsPerSecond, cfg.Concurrency.Burst)

	providerName := ""
	if provider != nil {
		providerName = provider.Name()
	}

	return &Pipeline{
		chunker:   extract.NewChunker(cfg.Extraction),
		extractor: extractor,
		processor: worker.NewChunkProcessor(extractor, limiter, providerName, cfg.Concurrency.ExtractionWorkers),
		merger:    merge.NewEngine(cfg.Merge, validator, logger),
		engine:    reconcile.NewEngine(cfg, logger),
		renderer:  NewRenderer(cfg.Output.Pretty),
		config:    cfg,
		logger:    logger,
	}, nil
}

// ProcessDocument runs one document through chunking, concurrent extraction
// and consensus merge. Failed chunks are logged and treated as absent; the
// merge proceeds on whatever succeeded.
func (p *Pipeline) ProcessDocument(ctx context.Context, docID, kind string, pages []model.PageText) (*model.MergedRecord, error) {
	runID := uuid.NewString()
	log := p.logger.With().Str("run_id", runID).Str("document_id", docID).Logger()

	chunks := p.chunker.ChunkPages(pages)
	if len(chunks) == 0 {
		return nil, model.NewContractError("pages")
	}
	log.Info().Int("chunks", len(chunks)).Msg("document chunked")

	results := p.processor.ProcessChunks(ctx, chunks, kind)

	var extractions []model.ChunkExtraction
	failed := 0
	for _, res := range results {
		if res.Error != nil {
			failed++
			log.Warn().Err(res.Error).Str("chunk", res.Chunk.ID()).Msg("chunk extraction failed")
			continue
		}
		if res.Extraction != nil {
			extractions = append(extractions, *res.Extraction)
		}
	}
	if len(extractions) == 0 {
		return nil, fmt.Errorf("document %s: all %d chunks failed", docID, len(chunks))
	}
	if failed > 0 {
		log.Warn().Int("failed", failed).Int("total", len(chunks)).Msg("merging partial extraction set")
	}

	merged, err := p.merger.Merge(extractions)
	if err != nil {
		return nil, fmt.Errorf("merge document %s: %w", docID, err)
	}
	merged.DocumentID = docID

	log.Info().
		Int("sellers", len(merged.Sellers)).
		Int("buyers", len(merged.Buyers)).
		Int("properties", len(merged.Properties)).
		Msg("document merged")

	return merged, nil
}

// MergeExtractions builds the consensus record for a set of already-made
// partial extractions, without re-running the LLM.
func (p *Pipeline) MergeExtractions(chunks []model.ChunkExtraction) (*model.MergedRecord, error) {
	return p.merger.Merge(chunks)
}

// RenderRecord writes a merged record as a Markdown summary.
func (p *Pipeline) RenderRecord(rec *model.MergedRecord, mdPath string) error {
	return p.renderer.RenderRecordMarkdown(rec, mdPath)
}

// Reconcile compares a deed against its tax forms and returns one report
// per deed property plus one per orphan form.
func (p *Pipeline) Reconcile(deed *model.SourceRecord, forms []*model.SourceRecord) ([]model.ComparisonReport, error) {
	return p.engine.Run(deed, forms)
}

// RenderReports renders reports to the configured outputs
func (p *Pipeline) RenderReports(reports []model.ComparisonReport, jsonPath, mdPath string) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(reports, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if p.config.Output.Verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(reports, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if p.config.Output.Verbose {
			fmt.Printf("✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	p.renderer.RenderSummary(reports)
	return nil
}
