package merge

import (
	"github.com/velocitatem/concordia/internal/model"
	"github.com/velocitatem/concordia/internal/normalize"
)

// vote returns the plurality winner among the observed values. Ties break
// toward the most recently observed candidate, which keeps the result
// deterministic for any input order.
func vote[T comparable](values []T) (T, bool) {
	var zero T
	if len(values) == 0 {
		return zero, false
	}
	counts := make(map[T]int, len(values))
	lastSeen := make(map[T]int, len(values))
	for i, v := range values {
		counts[v]++
		lastSeen[v] = i
	}
	winner, bestCount, bestLast := zero, 0, -1
	for v, c := range counts {
		if c > bestCount || (c == bestCount && lastSeen[v] > bestLast) {
			winner, bestCount, bestLast = v, c, lastSeen[v]
		}
	}
	return winner, true
}

func voteString(values []string) string {
	v, _ := vote(values)
	return v
}

// votePtr votes over dereferenced non-nil pointers; the winner is returned
// as a fresh pointer so the merged record never aliases chunk storage.
func votePtr[T comparable](ptrs []*T) *T {
	values := make([]T, 0, len(ptrs))
	for _, p := range ptrs {
		if p != nil {
			values = append(values, *p)
		}
	}
	v, ok := vote(values)
	if !ok {
		return nil
	}
	return &v
}

func voteAmount(ptrs []*model.Amount) *model.Amount {
	return votePtr(ptrs)
}

func appendAmount(dst []*model.Amount, a *model.Amount) []*model.Amount {
	if a != nil {
		dst = append(dst, a)
	}
	return dst
}

func collectStrings(chunks []model.ChunkExtraction, get func(*model.ChunkExtraction) string) []string {
	var out []string
	for i := range chunks {
		if v := get(&chunks[i]); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func collectPtrs[T comparable](chunks []model.ChunkExtraction, get func(*model.ChunkExtraction) *T) []*T {
	var out []*T
	for i := range chunks {
		if p := get(&chunks[i]); p != nil {
			out = append(out, p)
		}
	}
	return out
}

func normalizeID(s string) string  { return normalize.ID(s) }
func normalizeRef(s string) string { return normalize.CadastralRef(s) }
