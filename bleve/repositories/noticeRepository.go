package repositories

import (
	"strings"
	"time"

	"movein-backend/config"
	"movein-backend/db/models"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
	"go.uber.org/zap"
)

var noticeSearchFields = []string{"title", "content"}

type noticeDocument struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	IsImportant bool      `json:"is_important"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
}

func toNoticeDocument(n models.Notice) noticeDocument {
	return noticeDocument{
		ID:          n.ID.String(),
		Title:       n.Title,
		Content:     n.Content,
		IsImportant: n.IsImportant,
		IsPublished: n.IsPublished,
		CreatedAt:   n.CreatedAt,
	}
}

func (r *BleveRepository) IndexNotice(notice models.Notice) error {
	if err := r.indexer.IndexDocument(NoticesIndex, notice.ID.String(), toNoticeDocument(notice)); err != nil {
		config.Logger.Error("Failed to index notice", zap.String("notice_id", notice.ID.String()), zap.Error(err))
		return err
	}
	return nil
}

func (r *BleveRepository) IndexExistingNotices(notices []models.Notice) error {
	docs := make(map[string]interface{}, len(notices))
	for _, n := range notices {
		docs[n.ID.String()] = toNoticeDocument(n)
	}
	return r.indexer.BulkIndexDocuments(NoticesIndex, docs)
}

func (r *BleveRepository) DeleteNotice(noticeID string) error {
	return r.indexer.DeleteDocument(NoticesIndex, noticeID)
}

// SearchNotices matches title and content. Drafts are excluded unless includeDrafts.
func (r *BleveRepository) SearchNotices(q string, includeDrafts bool) (*SearchResponse, error) {
	q = strings.TrimSpace(q)

	var clauses []query.Query
	if q != "" {
		clauses = append(clauses, textQuery(q, noticeSearchFields))
	} else {
		clauses = append(clauses, bleve.NewMatchAllQuery())
	}
	if !includeDrafts {
		published := bleve.NewBoolFieldQuery(true)
		published.SetField("is_published")
		clauses = append(clauses, published)
	}

	result, err := r.indexer.SearchIndex(NoticesIndex, bleve.NewConjunctionQuery(clauses...), defaultSearchSize)
	if err != nil {
		return nil, err
	}
	return toResponse(result), nil
}
