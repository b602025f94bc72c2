package api

import (
	"marketdash/internal/domain"

	"github.com/gin-gonic/gin"
)

type getFavoritesResponse struct {
	FavoriteIDs []string `json:"favoriteIds"`
	// Assets holds the catalog records for favorites still present in the
	// catalog; a favorite can outlive its asset and then appears only in
	// FavoriteIDs.
	Assets []domain.Asset `json:"assets"`
}

func (h ApiHandler) getFavorites(c *gin.Context) {
	snapshot := h.DashboardService.Snapshot()

	assets := []domain.Asset{}
	byID := domain.AssetsByID(snapshot.Assets)
	for _, id := range snapshot.Favorites.IDs() {
		if asset, ok := byID[id]; ok {
			assets = append(assets, asset)
		}
	}

	c.JSON(200, getFavoritesResponse{
		FavoriteIDs: snapshot.Favorites.IDs(),
		Assets:      assets,
	})
}

type toggleFavoriteResponse struct {
	AssetID    string `json:"assetId"`
	IsFavorite bool   `json:"isFavorite"`
}

// toggleFavorite flips watchlist membership for the asset id. The id does
// not need to exist in the catalog - a favorite can outlive its asset.
func (h ApiHandler) toggleFavorite(c *gin.Context) {
	assetID := c.Param("assetId")
	updated := h.DashboardService.ToggleFavorite(assetID)
	c.JSON(200, toggleFavoriteResponse{
		AssetID:    assetID,
		IsFavorite: updated.Favorites.Has(assetID),
	})
}
