package worker

import (
	"context"
	"sort"

	"github.com/velocitatem/concordia/internal/extract"
	"github.com/velocitatem/concordia/internal/model"
)

// ChunkExtractor defines the interface for extracting one chunk
type ChunkExtractor interface {
	Extract(ctx context.Context, chunk extract.Chunk, kind string) (*model.ChunkExtraction, error)
}

// ChunkJob represents one chunk extraction job
type ChunkJob struct {
	Chunk     extract.Chunk
	Kind      string
	Provider  string
	Extractor ChunkExtractor
	Limiter   *Limiter
}

// Execute executes the extraction job
func (j *ChunkJob) Execute(ctx context.Context) Result {
	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx, j.Provider); err != nil {
			return &ChunkResult{Index: j.Chunk.Index, Chunk: j.Chunk, Error: err}
		}
	}

	extraction, err := j.Extractor.Extract(ctx, j.Chunk, j.Kind)
	return &ChunkResult{
		Index:      j.Chunk.Index,
		Chunk:      j.Chunk,
		Extraction: extraction,
		Error:      err,
	}
}

// ChunkResult represents the result of one chunk extraction
type ChunkResult struct {
	Index      int
	Chunk      extract.Chunk
	Extraction *model.ChunkExtraction
	Error      error
}

// GetError returns the error from the chunk result
func (r *ChunkResult) GetError() error {
	return r.Error
}

// ChunkProcessor extracts a document's chunks concurrently
type ChunkProcessor struct {
	extractor   ChunkExtractor
	limiter     *Limiter
	provider    string
	concurrency int
}

// NewChunkProcessor creates a new chunk processor
func NewChunkProcessor(extractor ChunkExtractor, limiter *Limiter, provider string, concurrency int) *ChunkProcessor {
	return &ChunkProcessor{
		extractor:   extractor,
		limiter:     limiter,
		provider:    provider,
		concurrency: concurrency,
	}
}

// ProcessChunks extracts all chunks concurrently. Results come back in
// chunk order regardless of completion order; a failed chunk keeps its slot
// with Error set so the caller can decide what a gap costs.
func (p *ChunkProcessor) ProcessChunks(ctx context.Context, chunks []extract.Chunk, kind string) []*ChunkResult {
	if len(chunks) == 0 {
		return []*ChunkResult{}
	}

	pool := NewPool(p.concurrency)
	pool.Start()

	for _, chunk := range chunks {
		pool.Submit(&ChunkJob{
			Chunk:     chunk,
			Kind:      kind,
			Provider:  p.provider,
			Extractor: p.extractor,
			Limiter:   p.limiter,
		})
	}

	results := pool.Wait()

	chunkResults := make([]*ChunkResult, 0, len(results))
	for _, result := range results {
		chunkResults = append(chunkResults, result.(*ChunkResult))
	}
	sort.Slice(chunkResults, func(i, j int) bool {
		return chunkResults[i].Index < chunkResults[j].Index
	})

	return chunkResults
}
