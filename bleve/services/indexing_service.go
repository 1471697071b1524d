package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
	"go.uber.org/zap"
)

type IndexingServiceInterface interface {
	IndexDocument(indexName, id string, document interface{}) error
	BulkIndexDocuments(indexName string, documents map[string]interface{}) error
	DeleteDocument(indexName, id string) error
	SearchIndex(indexName string, q query.Query, size int) (*bleve.SearchResult, error)
	DocCount(indexName string) (uint64, error)
	ResetIndex(indexName string) error
	Close() error
}

// IndexingService keeps one on-disk bleve index per name under basePath.
// Indexes are opened lazily and stay open until Close or ResetIndex.
type IndexingService struct {
	mu       sync.Mutex
	open     map[string]bleve.Index
	logger   *zap.Logger
	basePath string
}

func NewIndexingService(logger *zap.Logger, basePath string) *IndexingService {
	return &IndexingService{
		open:     make(map[string]bleve.Index),
		logger:   logger,
		basePath: basePath,
	}
}

func (s *IndexingService) pathFor(name string) string {
	return filepath.Join(s.basePath, name+".bleve")
}

func (s *IndexingService) acquire(name string) (bleve.Index, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx, ok := s.open[name]; ok {
		return idx, nil
	}
	if err := os.MkdirAll(s.basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create index directory %s: %w", s.basePath, err)
	}

	path := s.pathFor(name)
	idx, err := bleve.Open(path)
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		idx, err = bleve.New(path, bleve.NewIndexMapping())
	}
	if err != nil {
		return nil, fmt.Errorf("open index %s: %w", path, err)
	}
	s.open[name] = idx
	return idx, nil
}

// withIndex runs fn against the named index and logs any failure once.
func (s *IndexingService) withIndex(name, op string, fn func(bleve.Index) error) error {
	idx, err := s.acquire(name)
	if err == nil {
		err = fn(idx)
	}
	if err != nil {
		s.logger.Error("Search index operation failed",
			zap.String("index", name),
			zap.String("op", op),
			zap.Error(err),
		)
	}
	return err
}

// SearchIndex returns at most size hits with every stored field loaded.
func (s *IndexingService) SearchIndex(name string, q query.Query, size int) (*bleve.SearchResult, error) {
	var result *bleve.SearchResult
	err := s.withIndex(name, "search", func(idx bleve.Index) error {
		req := bleve.NewSearchRequestOptions(q, size, 0, false)
		req.Fields = []string{"*"}
		var err error
		result, err = idx.Search(req)
		return err
	})
	return result, err
}

// IndexDocument adds the document, replacing any earlier one with the same id.
func (s *IndexingService) IndexDocument(name, id string, document interface{}) error {
	return s.withIndex(name, "index", func(idx bleve.Index) error {
		return idx.Index(id, document)
	})
}

func (s *IndexingService) BulkIndexDocuments(name string, documents map[string]interface{}) error {
	if len(documents) == 0 {
		return nil
	}
	err := s.withIndex(name, "bulk", func(idx bleve.Index) error {
		batch := idx.NewBatch()
		for id, doc := range documents {
			if err := batch.Index(id, doc); err != nil {
				return fmt.Errorf("batch document %s: %w", id, err)
			}
		}
		return idx.Batch(batch)
	})
	if err == nil {
		s.logger.Info("Bulk indexed documents", zap.String("index", name), zap.Int("count", len(documents)))
	}
	return err
}

func (s *IndexingService) DeleteDocument(name, id string) error {
	return s.withIndex(name, "delete", func(idx bleve.Index) error {
		return idx.Delete(id)
	})
}

func (s *IndexingService) DocCount(name string) (uint64, error) {
	var n uint64
	err := s.withIndex(name, "count", func(idx bleve.Index) error {
		var err error
		n, err = idx.DocCount()
		return err
	})
	return n, err
}

// ResetIndex closes the index and deletes its files; the next call recreates it empty.
func (s *IndexingService) ResetIndex(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx, ok := s.open[name]; ok {
		delete(s.open, name)
		if err := idx.Close(); err != nil {
			return fmt.Errorf("close index %s: %w", name, err)
		}
	}
	if err := os.RemoveAll(s.pathFor(name)); err != nil {
		return fmt.Errorf("remove index %s: %w", name, err)
	}
	s.logger.Info("Search index reset", zap.String("index", name))
	return nil
}

func (s *IndexingService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for name, idx := range s.open {
		if err := idx.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close index %s: %w", name, err)
		}
	}
	s.open = make(map[string]bleve.Index)
	return firstErr
}
