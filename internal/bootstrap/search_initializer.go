package bootstrap

import (
	"fmt"

	bleveRepositories "movein-backend/bleve/repositories"
	"movein-backend/config"
	"movein-backend/db/models"

	"go.uber.org/zap"
)

type cardSource interface {
	ListAll() ([]models.MoveInCard, error)
}

type noticeSource interface {
	ListAll(offset, limit int) ([]models.Notice, int64, error)
}

type searchIndex interface {
	ResetAll() error
	IndexExistingCards(cards []models.MoveInCard) error
	IndexExistingNotices(notices []models.Notice) error
	Counts() (map[string]uint64, error)
}

var _ searchIndex = (*bleveRepositories.BleveRepository)(nil)

// IndexSearchData rebuilds the search indexes from the database. A failure to
// load one entity type is logged and does not stop the other.
func IndexSearchData(cards cardSource, notices noticeSource, index searchIndex) error {
	if err := index.ResetAll(); err != nil {
		return fmt.Errorf("reset search indexes: %w", err)
	}

	// Move-in cards
	if all, err := cards.ListAll(); err != nil {
		config.Logger.Error("Error fetching move-in cards for search indexing", zap.Error(err))
	} else if err := index.IndexExistingCards(all); err != nil {
		config.Logger.Error("Failed to index move-in cards", zap.Error(err))
	} else {
		config.Logger.Info("Indexed move-in cards", zap.Int("count", len(all)))
	}

	// Notices, drafts included. A limit of -1 means no limit.
	if all, _, err := notices.ListAll(0, -1); err != nil {
		config.Logger.Error("Error fetching notices for search indexing", zap.Error(err))
	} else if err := index.IndexExistingNotices(all); err != nil {
		config.Logger.Error("Failed to index notices", zap.Error(err))
	} else {
		config.Logger.Info("Indexed notices", zap.Int("count", len(all)))
	}

	counts, err := index.Counts()
	if err != nil {
		return fmt.Errorf("count indexed documents: %w", err)
	}
	config.Logger.Info("Search indexes rebuilt",
		zap.Uint64(bleveRepositories.CardsIndex, counts[bleveRepositories.CardsIndex]),
		zap.Uint64(bleveRepositories.NoticesIndex, counts[bleveRepositories.NoticesIndex]),
	)
	return nil
}
