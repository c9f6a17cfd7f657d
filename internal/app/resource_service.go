package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pathfinder/internal/ai"
	"pathfinder/internal/search"
)

var (
	ErrNoResources       = errors.New("no resources found")
	ErrSearchUnavailable = errors.New("search provider unavailable")
)

type ResourceSearcher interface {
	Search(ctx context.Context, query string, count int) ([]search.Result, error)
}

type ResourceService struct {
	searcher    ResourceSearcher
	llm         TextCompleter
	llmCfg      ai.ChatConfig
	resultCount int
}

func NewResourceService(searcher ResourceSearcher, llm TextCompleter, llmCfg ai.ChatConfig, resultCount int) *ResourceService {
	if resultCount <= 0 {
		resultCount = 3
	}
	return &ResourceService{
		searcher:    searcher,
		llm:         llm,
		llmCfg:      llmCfg,
		resultCount: resultCount,
	}
}

// FindResources asks the model for one search query for the concept/topic
// pair and runs it against the search provider. An empty result set is
// ErrNoResources; a provider or configuration failure is
// ErrSearchUnavailable. Callers must not conflate the two.
func (s *ResourceService) FindResources(ctx context.Context, concept, topic string) ([]search.Result, error) {
	concept = strings.TrimSpace(concept)
	topic = strings.TrimSpace(topic)
	if concept == "" || topic == "" {
		return nil, ErrInvalidInput
	}

	query := s.searchQuery(ctx, concept, topic)

	results, err := s.searcher.Search(ctx, query, s.resultCount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchUnavailable, err)
	}
	if len(results) == 0 {
		return nil, ErrNoResources
	}
	return results, nil
}

func (s *ResourceService) searchQuery(ctx context.Context, concept, topic string) string {
	prompt := fmt.Sprintf(
		"Generate ONE web search query for learning %q in the context of %q. Return ONLY the search query text.",
		concept, topic,
	)

	reply, err := s.llm.Complete(ctx, s.llmCfg, singleUserPrompt(prompt))
	if err != nil {
		return fmt.Sprintf("%s %s tutorial beginner", concept, topic)
	}

	query := strings.Trim(strings.TrimSpace(reply), `"`)
	if query == "" {
		return fmt.Sprintf("%s %s tutorial beginner", concept, topic)
	}
	return query
}
