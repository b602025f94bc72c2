package domain

import (
	"encoding/json"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HoldingEntry is a single recorded lot: quantity acquired at a price.
// Adding the same asset twice creates two lots; lots are never merged.
// Quantity and CostBasisPrice are immutable after creation - only
// CurrentPrice is re-synced as new catalogs arrive.
type HoldingEntry struct {
	LotID          uuid.UUID       `json:"lotId"`
	AssetID        string          `json:"assetId"`
	Symbol         string          `json:"symbol"`
	Name           string          `json:"name"`
	Quantity       decimal.Decimal `json:"quantity"`
	CostBasisPrice decimal.Decimal `json:"costBasisPrice"`
	CurrentPrice   decimal.Decimal `json:"currentPrice"`
}

// FavoriteSet tracks asset IDs marked for the watchlist. Membership is
// idempotent: toggling twice returns the set to its original state.
type FavoriteSet map[string]struct{}

func NewFavoriteSet(ids ...string) FavoriteSet {
	f := FavoriteSet{}
	for _, id := range ids {
		f[id] = struct{}{}
	}
	return f
}

func (f FavoriteSet) Has(id string) bool {
	_, ok := f[id]
	return ok
}

// Toggle flips membership and reports whether the id is a favorite after
// the call.
func (f FavoriteSet) Toggle(id string) bool {
	if f.Has(id) {
		delete(f, id)
		return false
	}
	f[id] = struct{}{}
	return true
}

func (f FavoriteSet) IDs() []string {
	ids := make([]string, 0, len(f))
	for id := range f {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (f FavoriteSet) DeepCopy() FavoriteSet {
	out := make(FavoriteSet, len(f))
	for id := range f {
		out[id] = struct{}{}
	}
	return out
}

func (f FavoriteSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.IDs())
}

func (f *FavoriteSet) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*f = NewFavoriteSet(ids...)
	return nil
}
