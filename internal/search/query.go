package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
	"golang.org/x/text/cases"

	"github.com/shelfwise/shelfwise-server/internal/store"
)

// ErrEmptyQuery is returned for a blank query string.
var ErrEmptyQuery = errors.New("search query is empty")

// Result is one page of matching book ids in relevance order.
type Result struct {
	IDs   []string
	Total int
}

// Search runs a full-text query over title, author, genre and description.
func (s *BookIndex) Search(ctx context.Context, q string, page store.PageRequest) (*Result, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, ErrEmptyQuery
	}
	page = page.Normalize()

	s.mu.RLock()
	defer s.mu.RUnlock()

	req := bleve.NewSearchRequestOptions(buildSearchQuery(q), page.Limit, page.Offset(), false)
	req.SortBy([]string{"-_score", "_id"})

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	out := &Result{
		IDs:   make([]string, 0, len(res.Hits)),
		Total: int(res.Total),
	}
	for _, hit := range res.Hits {
		out.IDs = append(out.IDs, hit.ID)
	}
	return out, nil
}

// buildSearchQuery ORs analyzed matches on every field, weighted toward title
// and author, plus fuzzy and prefix matches on the title for typos and partial words.
func buildSearchQuery(q string) query.Query {
	folded := cases.Fold().String(q)

	titleMatch := bleve.NewMatchQuery(q)
	titleMatch.SetField("title")
	titleMatch.SetBoost(3.0)

	authorMatch := bleve.NewMatchQuery(q)
	authorMatch.SetField("author")
	authorMatch.SetBoost(2.0)

	genreMatch := bleve.NewMatchQuery(q)
	genreMatch.SetField("genre")
	genreMatch.SetBoost(1.5)

	descMatch := bleve.NewMatchQuery(q)
	descMatch.SetField("description")

	queries := []query.Query{titleMatch, authorMatch, genreMatch, descMatch}

	// Fuzzy and prefix queries are not analyzed, so they only make sense for single terms.
	if !strings.ContainsAny(folded, " \t") {
		fuzzy := bleve.NewFuzzyQuery(folded)
		fuzzy.SetFuzziness(1)
		fuzzy.SetField("title")
		fuzzy.SetBoost(0.8)
		queries = append(queries, fuzzy)

		if len([]rune(folded)) >= 2 {
			prefix := bleve.NewPrefixQuery(folded)
			prefix.SetField("title")
			prefix.SetBoost(0.5)
			queries = append(queries, prefix)
		}
	}

	return bleve.NewDisjunctionQuery(queries...)
}
