package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/velocitatem/concordia/internal/cache"
	"github.com/velocitatem/concordia/internal/extract/adapters"
	"github.com/velocitatem/concordia/internal/llm"
	"github.com/velocitatem/concordia/internal/model"
)

const cacheNamespace = "extract"

// Extractor turns one chunk of document text into a partial record. Results
// are cached by prompt content, so identical chunks across reruns cost one
// LLM call total.
type Extractor struct {
	provider llm.Provider
	cache    cache.Cache
	registry *adapters.Registry
	ttl      time.Duration
	logger   zerolog.Logger
}

// NewExtractor creates an Extractor. cache may be nil to disable caching.
func NewExtractor(provider llm.Provider, c cache.Cache, ttl time.Duration, logger zerolog.Logger) *Extractor {
	return &Extractor{
		provider: provider,
		cache:    c,
		registry: adapters.NewRegistry(),
		ttl:      ttl,
		logger:   logger,
	}
}

// Extract runs one chunk through the configured provider and decodes the
// JSON output. kind may be empty, in which case the adapter is chosen from
// the chunk text.
func (e *Extractor) Extract(ctx context.Context, chunk Chunk, kind string) (*model.ChunkExtraction, error) {
	if e.provider == nil {
		return nil, fmt.Errorf("no LLM provider configured")
	}

	adapter := e.registry.FindAdapter(kind, chunk.Text)
	prompt := adapter.Instruction() + "\n\nDocument fragment:\n" + chunk.Text
	key := cache.Key(cacheNamespace, adapter.SystemPrompt()+"\x00"+prompt)

	if e.cache != nil {
		if data, found := e.cache.Get(key); found {
			var cached model.ChunkExtraction
			if err := json.Unmarshal(data, &cached); err == nil {
				e.logger.Debug().Str("chunk", chunk.ID()).Msg("extraction cache hit")
				return &cached, nil
			}
			// A corrupt entry is re-extracted, not fatal
			_ = e.cache.Delete(key)
		}
	}

	resp, err := e.provider.Complete(ctx, llm.CompleteRequest{
		System: adapter.SystemPrompt(),
		Prompt: prompt,
	})
	if err != nil {
		return nil, fmt.Errorf("extract chunk %s: %w", chunk.ID(), err)
	}

	extraction, err := decodeExtraction(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("decode chunk %s: %w", chunk.ID(), err)
	}

	e.logger.Debug().
		Str("chunk", chunk.ID()).
		Str("adapter", adapter.Name()).
		Str("model", resp.Model).
		Int("tokens", resp.TokensUsed).
		Msg("chunk extracted")

	if e.cache != nil {
		if data, err := json.Marshal(extraction); err == nil {
			_ = e.cache.Set(key, data, e.ttl)
		}
	}

	return extraction, nil
}

// decodeExtraction parses the model output, tolerating markdown code fences
// some models wrap around JSON despite instructions.
func decodeExtraction(content string) (*model.ChunkExtraction, error) {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx >= 0 {
			content = content[:idx]
		}
		content = strings.TrimSpace(content)
	}

	var extraction model.ChunkExtraction
	if err := json.Unmarshal([]byte(content), &extraction); err != nil {
		return nil, fmt.Errorf("unmarshal extraction: %w", err)
	}
	return &extraction, nil
}
