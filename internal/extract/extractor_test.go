package extract

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/velocitatem/concordia/internal/cache"
	"github.com/velocitatem/concordia/internal/llm"
)

// fakeProvider returns a canned completion and counts calls.
type fakeProvider struct {
	content string
	err     error
	calls   int
}

var _ llm.Provider = (*fakeProvider)(nil)

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(ctx context.Context, req llm.CompleteRequest) (*llm.CompleteResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &llm.CompleteResponse{Content: f.content, Model: "fake-1"}, nil
}

func (f *fakeProvider) IsAvailable(ctx context.Context) bool { return true }

func testChunk() Chunk {
	return Chunk{Index: 0, Page: 1, Section: "full", Text: "ESCRITURA DE COMPRAVENTA ..."}
}

func TestExtract(t *testing.T) {
	p := &fakeProvider{content: `{"sale_date": "15-03-2024", "sellers": [{"name": "Juan García"}]}`}
	e := NewExtractor(p, nil, 0, zerolog.Nop())

	got, err := e.Extract(context.Background(), testChunk(), "deed")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got.SaleDate == nil || *got.SaleDate != "15-03-2024" {
		t.Errorf("SaleDate = %v", got.SaleDate)
	}
	if len(got.Sellers) != 1 || got.Sellers[0].Name != "Juan García" {
		t.Errorf("Sellers = %+v", got.Sellers)
	}
}

func TestExtract_CacheHit(t *testing.T) {
	p := &fakeProvider{content: `{"sale_date": "15-03-2024"}`}
	c := cache.NewMemoryCache(time.Minute, time.Minute)
	e := NewExtractor(p, c, time.Minute, zerolog.Nop())

	ctx := context.Background()
	first, err := e.Extract(ctx, testChunk(), "deed")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	second, err := e.Extract(ctx, testChunk(), "deed")
	if err != nil {
		t.Fatalf("Extract (cached): %v", err)
	}

	if p.calls != 1 {
		t.Errorf("provider calls = %d, the second extraction must hit the cache", p.calls)
	}
	if *first.SaleDate != *second.SaleDate {
		t.Error("cached extraction differs from the original")
	}
}

func TestExtract_CorruptCacheEntryReextracted(t *testing.T) {
	p := &fakeProvider{content: `{"sale_date": "15-03-2024"}`}
	c := cache.NewMemoryCache(time.Minute, time.Minute)
	e := NewExtractor(p, c, time.Minute, zerolog.Nop())

	chunk := testChunk()
	adapter := e.registry.FindAdapter("deed", chunk.Text)
	prompt := adapter.Instruction() + "\n\nDocument fragment:\n" + chunk.Text
	key := cache.Key(cacheNamespace, adapter.SystemPrompt()+"\x00"+prompt)
	c.Set(key, []byte("{not json"), 0)

	got, err := e.Extract(context.Background(), chunk, "deed")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got.SaleDate == nil || *got.SaleDate != "15-03-2024" {
		t.Errorf("SaleDate = %v, corrupt entry must be replaced", got.SaleDate)
	}
	if p.calls != 1 {
		t.Errorf("provider calls = %d, want 1", p.calls)
	}
}

func TestExtract_NoProvider(t *testing.T) {
	e := NewExtractor(nil, nil, 0, zerolog.Nop())
	if _, err := e.Extract(context.Background(), testChunk(), ""); err == nil {
		t.Error("Extract without a provider must fail")
	}
}

func TestExtract_ProviderError(t *testing.T) {
	p := &fakeProvider{err: errors.New("rate limited")}
	e := NewExtractor(p, nil, 0, zerolog.Nop())
	if _, err := e.Extract(context.Background(), testChunk(), ""); err == nil {
		t.Error("Extract must surface provider errors")
	}
}

func TestDecodeExtraction(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"plain object", `{"document_id": "d1"}`, false},
		{"fenced json", "```json\n{\"document_id\": \"d1\"}\n```", false},
		{"fenced bare", "```\n{\"document_id\": \"d1\"}\n```", false},
		{"whitespace", "  \n{\"document_id\": \"d1\"}\n  ", false},
		{"prose", "Here is the data you asked for", true},
		{"empty", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeExtraction(tt.content)
			if (err != nil) != tt.wantErr {
				t.Fatalf("decodeExtraction() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got.DocumentID != "d1" {
				t.Errorf("DocumentID = %q, want d1", got.DocumentID)
			}
		})
	}
}
