package repository

import (
	"encoding/json"

	"marketdash/internal/domain"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

type FavoritesRepository interface {
	Load() (domain.FavoriteSet, error)
	Save(favorites domain.FavoriteSet) error
}

type favoritesRepositoryHandler struct {
	Db  *bolt.DB
	Log *zap.SugaredLogger
}

func NewFavoritesRepository(db *bolt.DB, log *zap.SugaredLogger) FavoritesRepository {
	return favoritesRepositoryHandler{Db: db, Log: log}
}

func (h favoritesRepositoryHandler) Load() (domain.FavoriteSet, error) {
	value, err := loadRecord(h.Db, favoritesKey)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return domain.NewFavoriteSet(), nil
	}

	ids := []string{}
	if err := json.Unmarshal(value, &ids); err != nil {
		h.Log.Warnf("stored favorites are unreadable, starting empty: %v", err)
		return domain.NewFavoriteSet(), nil
	}
	return domain.NewFavoriteSet(ids...), nil
}

func (h favoritesRepositoryHandler) Save(favorites domain.FavoriteSet) error {
	value, err := json.Marshal(favorites.IDs())
	if err != nil {
		return err
	}
	return saveRecord(h.Db, favoritesKey, value)
}
