package repository

import (
	"encoding/json"

	"marketdash/internal/domain"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

type HoldingsRepository interface {
	// Load returns the persisted lots, or an empty list when nothing was
	// stored or the stored value does not parse. A corrupt record must not
	// fail startup.
	Load() ([]domain.HoldingEntry, error)
	Save(holdings []domain.HoldingEntry) error
}

type holdingsRepositoryHandler struct {
	Db  *bolt.DB
	Log *zap.SugaredLogger
}

func NewHoldingsRepository(db *bolt.DB, log *zap.SugaredLogger) HoldingsRepository {
	return holdingsRepositoryHandler{Db: db, Log: log}
}

func (h holdingsRepositoryHandler) Load() ([]domain.HoldingEntry, error) {
	value, err := loadRecord(h.Db, holdingsKey)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return []domain.HoldingEntry{}, nil
	}

	holdings := []domain.HoldingEntry{}
	if err := json.Unmarshal(value, &holdings); err != nil {
		h.Log.Warnf("stored portfolio is unreadable, starting empty: %v", err)
		return []domain.HoldingEntry{}, nil
	}
	return holdings, nil
}

func (h holdingsRepositoryHandler) Save(holdings []domain.HoldingEntry) error {
	if holdings == nil {
		holdings = []domain.HoldingEntry{}
	}
	value, err := json.Marshal(holdings)
	if err != nil {
		return err
	}
	return saveRecord(h.Db, holdingsKey, value)
}
