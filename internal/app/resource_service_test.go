package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathfinder/internal/ai"
	"pathfinder/internal/search"
)

func TestFindResources_UsesModelQuery(t *testing.T) {
	searcher := &fakeSearcher{results: []search.Result{
		{Title: "Goroutines by Example", URL: "https://example.com/goroutines", Snippet: "intro"},
		{Title: "Concurrency Patterns", URL: "https://example.com/patterns", Snippet: "deep dive"},
	}}
	llm := &fakeLLM{replies: []string{`"golang goroutines tutorial"`}}
	svc := NewResourceService(searcher, llm, testLLMConfig(), 3)

	results, err := svc.FindResources(context.Background(), "Goroutines", "Go")

	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, "Goroutines by Example", results[0].Title)
	require.Len(t, searcher.queries, 1)
	assert.Equal(t, "golang goroutines tutorial", searcher.queries[0])
}

func TestFindResources_FallbackQueryWhenModelFails(t *testing.T) {
	searcher := &fakeSearcher{results: []search.Result{
		{Title: "Goroutines", URL: "https://example.com/g"},
	}}
	llm := &fakeLLM{errs: []error{ai.ErrRateLimited}}
	svc := NewResourceService(searcher, llm, testLLMConfig(), 3)

	_, err := svc.FindResources(context.Background(), "Goroutines", "Go")

	require.NoError(t, err)
	require.Len(t, searcher.queries, 1)
	assert.Equal(t, "Goroutines Go tutorial beginner", searcher.queries[0])
}

func TestFindResources_EmptyResultSet(t *testing.T) {
	searcher := &fakeSearcher{}
	llm := &fakeLLM{replies: []string{"obscure query"}}
	svc := NewResourceService(searcher, llm, testLLMConfig(), 3)

	_, err := svc.FindResources(context.Background(), "Monads", "Haskell")

	assert.ErrorIs(t, err, ErrNoResources)
	assert.NotErrorIs(t, err, ErrSearchUnavailable)
}

func TestFindResources_SearchFailure(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("quota exceeded")}
	llm := &fakeLLM{replies: []string{"query"}}
	svc := NewResourceService(searcher, llm, testLLMConfig(), 3)

	_, err := svc.FindResources(context.Background(), "Goroutines", "Go")

	assert.ErrorIs(t, err, ErrSearchUnavailable)
	assert.NotErrorIs(t, err, ErrNoResources)
}

func TestFindResources_NotConfigured(t *testing.T) {
	searcher := &fakeSearcher{err: search.ErrNotConfigured}
	llm := &fakeLLM{replies: []string{"query"}}
	svc := NewResourceService(searcher, llm, testLLMConfig(), 3)

	_, err := svc.FindResources(context.Background(), "Goroutines", "Go")

	assert.ErrorIs(t, err, ErrSearchUnavailable)
}

func TestFindResources_InvalidInput(t *testing.T) {
	searcher := &fakeSearcher{}
	llm := &fakeLLM{}
	svc := NewResourceService(searcher, llm, testLLMConfig(), 3)

	_, err := svc.FindResources(context.Background(), " ", "Go")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.FindResources(context.Background(), "Goroutines", "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Empty(t, searcher.queries)
}
