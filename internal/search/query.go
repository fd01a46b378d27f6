package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/listenupapp/librarian/internal/domain"
)

// DefaultLimit is the number of hits returned when Params.Limit is zero.
const DefaultLimit = 20

// Params configures a search.
type Params struct {
	Query string

	// Filters
	Tags    []string // Every tag must be present
	MinYear int
	MaxYear int

	Limit int
}

// Hit is one matching book.
type Hit struct {
	Book  *domain.Book
	Score float64
}

// Result is the outcome of a search, best match first.
type Result struct {
	Query string
	Total uint64
	Hits  []Hit
}

// Search runs params against the index.
func (i *Index) Search(ctx context.Context, params Params) (*Result, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	req := bleve.NewSearchRequestOptions(buildQuery(params), limit, 0, false)
	req.SortBy([]string{"-_score", "_id"})

	res, err := i.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &Result{
		Query: params.Query,
		Total: res.Total,
		Hits:  make([]Hit, 0, len(res.Hits)),
	}
	for _, h := range res.Hits {
		pos, err := strconv.Atoi(h.ID)
		if err != nil || pos < 0 || pos >= len(i.books) {
			i.logger.Warn("search hit has no matching book", "doc_id", h.ID)
			continue
		}
		result.Hits = append(result.Hits, Hit{Book: i.books[pos], Score: h.Score})
	}
	return result, nil
}

// Query returns the identity tuples of the books matching text, best match first.
func (i *Index) Query(ctx context.Context, text string, limit int) ([]domain.Key, error) {
	res, err := i.Search(ctx, Params{Query: text, Limit: limit})
	if err != nil {
		return nil, err
	}
	keys := make([]domain.Key, len(res.Hits))
	for n, h := range res.Hits {
		keys[n] = h.Book.Key()
	}
	return keys, nil
}

// buildQuery constructs the Bleve query from params.
func buildQuery(params Params) query.Query {
	var queries []query.Query

	if text := strings.TrimSpace(params.Query); text != "" {
		titleMatch := bleve.NewMatchQuery(text)
		titleMatch.SetField("title")
		titleMatch.SetBoost(3.0)

		authorMatch := bleve.NewMatchQuery(text)
		authorMatch.SetField("author")
		authorMatch.SetBoost(2.0)

		genreTerm := bleve.NewTermQuery(strings.ToLower(text))
		genreTerm.SetField("genre")

		tagTerm := bleve.NewTermQuery(text)
		tagTerm.SetField("tags")

		// Typo tolerance on titles
		fuzzy := bleve.NewFuzzyQuery(strings.ToLower(text))
		fuzzy.SetFuzziness(1)
		fuzzy.SetField("title")
		fuzzy.SetBoost(0.8)

		textQueries := []query.Query{titleMatch, authorMatch, genreTerm, tagTerm, fuzzy}

		if len(text) >= 2 {
			prefix := bleve.NewPrefixQuery(strings.ToLower(text))
			prefix.SetField("title")
			prefix.SetBoost(0.5)
			textQueries = append(textQueries, prefix)
		}

		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	for _, tag := range params.Tags {
		tq := bleve.NewTermQuery(tag)
		tq.SetField("tags")
		queries = append(queries, tq)
	}

	if params.MinYear > 0 || params.MaxYear > 0 {
		minYear := float64(params.MinYear)
		maxYear := float64(params.MaxYear)
		if params.MaxYear == 0 {
			maxYear = 10000
		}
		inclusive := true
		rangeQuery := bleve.NewNumericRangeInclusiveQuery(&minYear, &maxYear, &inclusive, &inclusive)
		rangeQuery.SetField("year")
		queries = append(queries, rangeQuery)
	}

	switch len(queries) {
	case 0:
		return bleve.NewMatchAllQuery()
	case 1:
		return queries[0]
	default:
		return bleve.NewConjunctionQuery(queries...)
	}
}
