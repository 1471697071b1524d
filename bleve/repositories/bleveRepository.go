package repositories

import (
	"strings"

	bleveindex "movein-backend/bleve/services"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

const (
	NoticesIndex = "notices"
	CardsIndex   = "move_in_cards"

	defaultSearchSize = 20
)

type BleveRepository struct {
	indexer bleveindex.IndexingServiceInterface
}

func NewBleveRepository(indexer bleveindex.IndexingServiceInterface) *BleveRepository {
	return &BleveRepository{indexer: indexer}
}

// ResetAll empties both indexes before a full reindex.
func (r *BleveRepository) ResetAll() error {
	for _, name := range []string{NoticesIndex, CardsIndex} {
		if err := r.indexer.ResetIndex(name); err != nil {
			return err
		}
	}
	return nil
}

// Counts reports how many documents each index holds.
func (r *BleveRepository) Counts() (map[string]uint64, error) {
	counts := make(map[string]uint64, 2)
	for _, name := range []string{NoticesIndex, CardsIndex} {
		n, err := r.indexer.DocCount(name)
		if err != nil {
			return nil, err
		}
		counts[name] = n
	}
	return counts, nil
}

// textQuery matches q against fields as an analyzed match, a prefix or a
// one-edit fuzzy term, in falling order of weight.
func textQuery(q string, fields []string) query.Query {
	lower := strings.ToLower(q)

	var clauses []query.Query
	for _, field := range fields {
		match := bleve.NewMatchQuery(q)
		match.SetField(field)
		match.SetBoost(3.0)

		prefix := bleve.NewPrefixQuery(lower)
		prefix.SetField(field)
		prefix.SetBoost(2.0)

		fuzzy := bleve.NewFuzzyQuery(lower)
		fuzzy.SetField(field)
		fuzzy.SetFuzziness(1)
		fuzzy.SetBoost(1.0)

		clauses = append(clauses, match, prefix, fuzzy)
	}
	return bleve.NewDisjunctionQuery(clauses...)
}

// SearchHit is a search result with the stored document fields.
type SearchHit struct {
	ID     string                 `json:"id"`
	Score  float64                `json:"score"`
	Fields map[string]interface{} `json:"fields,omitempty"`
}

type SearchResponse struct {
	Hits  []SearchHit `json:"hits"`
	Total uint64      `json:"total"`
}

func toResponse(result *bleve.SearchResult) *SearchResponse {
	resp := &SearchResponse{Hits: make([]SearchHit, 0, len(result.Hits)), Total: result.Total}
	for _, hit := range result.Hits {
		resp.Hits = append(resp.Hits, SearchHit{ID: hit.ID, Score: hit.Score, Fields: hit.Fields})
	}
	return resp
}
