// Package extract turns raw document text into structured records through an
// LLM backend: pages are chunked, each chunk is extracted independently, and
// the merge engine later reconciles the partial results.
package extract

import (
	"fmt"

	"github.com/velocitatem/concordia/internal/model"
)

// Chunk is one extraction unit: a page section plus enough identity to keep
// results ordered after concurrent processing.
type Chunk struct {
	Index   int    // position in the document-wide chunk sequence
	Page    int    // source page number
	Section string // top, middle, bottom, or full
	Text    string
}

// Chunker splits pages into overlapping sections. The overlap keeps fields
// that straddle a section boundary visible to at least one chunk.
type Chunker struct {
	subPage        bool
	overlapPercent int
}

// NewChunker creates a Chunker from the extraction configuration.
func NewChunker(cfg model.ExtractionConfig) *Chunker {
	overlap := cfg.OverlapPercent
	if overlap < 0 {
		overlap = 0
	}
	return &Chunker{
		subPage:        cfg.SubPageChunking,
		overlapPercent: overlap,
	}
}

// ChunkPages splits the document. With sub-page chunking each page yields a
// top, middle and bottom section; otherwise one chunk per page. Pages too
// short to split meaningfully stay whole.
func (c *Chunker) ChunkPages(pages []model.PageText) []Chunk {
	var chunks []Chunk
	for _, page := range pages {
		if !c.subPage || len([]rune(page.Text)) < minSplitRunes {
			chunks = append(chunks, Chunk{
				Index:   len(chunks),
				Page:    page.Page,
				Section: "full",
				Text:    page.Text,
			})
			continue
		}
		for _, part := range c.splitThree(page.Text) {
			chunks = append(chunks, Chunk{
				Index:   len(chunks),
				Page:    page.Page,
				Section: part.section,
				Text:    part.text,
			})
		}
	}
	return chunks
}

const minSplitRunes = 300

type pagePart struct {
	section string
	text    string
}

// splitThree cuts text into thirds with overlapPercent of a third repeated
// on each side of an interior boundary.
func (c *Chunker) splitThree(text string) []pagePart {
	runes := []rune(text)
	third := len(runes) / 3
	overlap := third * c.overlapPercent / 100

	top := runes[:third+overlap]
	mid := runes[third-overlap : 2*third+overlap]
	bottom := runes[2*third-overlap:]

	return []pagePart{
		{section: "top", text: string(top)},
		{section: "middle", text: string(mid)},
		{section: "bottom", text: string(bottom)},
	}
}

// ID returns a stable identifier for logging and cache diagnostics.
func (ch Chunk) ID() string {
	return fmt.Sprintf("p%d-%s", ch.Page, ch.Section)
}
