package domain

import (
	"time"
)

// DashboardSnapshot is the aggregate root the UI reads. It is owned by the
// dashboard service; everything handed out is a deep copy.
type DashboardSnapshot struct {
	Assets          []Asset        `json:"assets"`
	Holdings        []HoldingEntry `json:"holdings"`
	Favorites       FavoriteSet    `json:"favorites"`
	IsRefreshing    bool           `json:"isRefreshing"`
	LastRefreshedAt *time.Time     `json:"lastRefreshedAt"`
}

func (s DashboardSnapshot) DeepCopy() DashboardSnapshot {
	out := DashboardSnapshot{
		Assets:       make([]Asset, len(s.Assets)),
		Holdings:     make([]HoldingEntry, len(s.Holdings)),
		Favorites:    s.Favorites.DeepCopy(),
		IsRefreshing: s.IsRefreshing,
	}
	copy(out.Assets, s.Assets)
	for i, a := range s.Assets {
		if a.Sparkline != nil {
			out.Assets[i].Sparkline = append([]float64{}, a.Sparkline...)
		}
	}
	copy(out.Holdings, s.Holdings)
	if s.LastRefreshedAt != nil {
		t := *s.LastRefreshedAt
		out.LastRefreshedAt = &t
	}
	return out
}
