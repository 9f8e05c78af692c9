// Package index builds an in-memory full-text index over the HR policy
// documents and serves ranked passage lookups for the retrieval path.
package index

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Nkromin/CustomerCareRAG/internal/agent/model"
	errx "github.com/Nkromin/CustomerCareRAG/internal/core/error"
	logx "github.com/Nkromin/CustomerCareRAG/pkg/logger"
)

// DefaultQueryCacheSize bounds the query result cache when the configured
// size is invalid.
const DefaultQueryCacheSize = 256

// PolicyIndex is a memory-only bleve index over policy document chunks with
// an LRU cache in front of repeated queries.
type PolicyIndex struct {
	index bleve.Index
	cache *lru.Cache[string, []model.Passage]
}

var _ model.DocumentIndex = (*PolicyIndex)(nil)

// New loads the policy documents under cfg.DocsDir, chunks them, and indexes
// every chunk. The index lives in memory and is rebuilt on each startup.
func New(cfg model.IndexConfig) (*PolicyIndex, error) {
	docs, err := loadPolicyChunks(cfg.DocsDir, cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return nil, errx.New(err, 500, errx.IndexErrorMessage)
	}
	if len(docs) == 0 {
		logx.Warn().Str("dir", cfg.DocsDir).Msg("No policy documents found, retrieval will always fall back")
	}

	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, errx.New(fmt.Errorf("create index: %w", err), 500, errx.IndexErrorMessage)
	}

	batch := idx.NewBatch()
	for i, doc := range docs {
		if err := batch.Index(fmt.Sprintf("chunk-%d", i), doc); err != nil {
			return nil, errx.New(fmt.Errorf("index chunk %d: %w", i, err), 500, errx.IndexErrorMessage)
		}
	}
	if err := idx.Batch(batch); err != nil {
		return nil, errx.New(fmt.Errorf("apply index batch: %w", err), 500, errx.IndexErrorMessage)
	}

	cacheSize := cfg.CacheSize
	if cacheSize <= 0 {
		cacheSize = DefaultQueryCacheSize
	}
	cache, err := lru.New[string, []model.Passage](cacheSize)
	if err != nil {
		return nil, errx.New(fmt.Errorf("create query cache: %w", err), 500, errx.IndexErrorMessage)
	}

	logx.Info().Int("chunks", len(docs)).Msg("Policy index ready")
	return &PolicyIndex{index: idx, cache: cache}, nil
}

// Search returns up to k passages ranked by relevance. An empty query yields
// no passages rather than an error.
func (p *PolicyIndex) Search(ctx context.Context, query string, k int) ([]model.Passage, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	if k <= 0 {
		k = 10
	}

	cacheKey := fmt.Sprintf("%d|%s", k, query)
	if cached, ok := p.cache.Get(cacheKey); ok {
		return cached, nil
	}

	req := bleve.NewSearchRequestOptions(bleve.NewMatchQuery(query), k, 0, false)
	req.Fields = []string{"text", "section"}

	result, err := p.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, errx.New(fmt.Errorf("search: %w", err), 500, errx.IndexErrorMessage)
	}

	passages := make([]model.Passage, 0, len(result.Hits))
	for _, hit := range result.Hits {
		text, _ := hit.Fields["text"].(string)
		sectionName, _ := hit.Fields["section"].(string)
		if text == "" {
			continue
		}
		passages = append(passages, model.Passage{Text: text, Section: sectionName})
	}

	p.cache.Add(cacheKey, passages)
	return passages, nil
}

// Close releases the underlying index resources.
func (p *PolicyIndex) Close() error {
	return p.index.Close()
}
