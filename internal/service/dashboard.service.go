package service

import (
	"sync"
	"time"

	"marketdash/internal/domain"
	"marketdash/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DashboardService is the single owner of the dashboard snapshot. Every
// mutation happens under one lock, returns a deep copy of the new state, and
// writes through to the repositories it touches. Callers validate quantities
// before dispatch; the store does not re-validate.
type DashboardService struct {
	mu       sync.Mutex
	snapshot domain.DashboardSnapshot

	holdingsRepository  repository.HoldingsRepository
	favoritesRepository repository.FavoritesRepository
	log                 *zap.SugaredLogger
}

// NewDashboardService loads persisted holdings and favorites exactly once,
// before any mutation can be accepted, so durable state is never clobbered
// by an empty initial snapshot.
func NewDashboardService(
	holdingsRepository repository.HoldingsRepository,
	favoritesRepository repository.FavoritesRepository,
	log *zap.SugaredLogger,
) *DashboardService {
	holdings, err := holdingsRepository.Load()
	if err != nil {
		log.Errorf("failed to load holdings, starting empty: %v", err)
		holdings = []domain.HoldingEntry{}
	}
	favorites, err := favoritesRepository.Load()
	if err != nil {
		log.Errorf("failed to load favorites, starting empty: %v", err)
		favorites = domain.NewFavoriteSet()
	}

	return &DashboardService{
		snapshot: domain.DashboardSnapshot{
			Assets:       []domain.Asset{},
			Holdings:     holdings,
			Favorites:    favorites,
			IsRefreshing: true,
		},
		holdingsRepository:  holdingsRepository,
		favoritesRepository: favoritesRepository,
		log:                 log,
	}
}

func (s *DashboardService) Snapshot() domain.DashboardSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot.DeepCopy()
}

// SetAssets replaces the catalog, clears the refreshing flag, and re-syncs
// each holding's live price view. Quantity and cost basis never change here,
// and favorites are untouched. A smaller catalog than before is accepted as
// the new truth.
func (s *DashboardService) SetAssets(assets []domain.Asset) domain.DashboardSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Assets = assets
	s.snapshot.IsRefreshing = false

	byID := domain.AssetsByID(assets)
	changed := false
	for i, entry := range s.snapshot.Holdings {
		if asset, ok := byID[entry.AssetID]; ok && !entry.CurrentPrice.Equal(asset.CurrentPrice) {
			s.snapshot.Holdings[i].CurrentPrice = asset.CurrentPrice
			changed = true
		}
	}
	// the persisted record carries the live price too, so a price re-sync
	// writes through like any other holdings change
	if changed {
		s.persistHoldings()
	}
	return s.snapshot.DeepCopy()
}

// AddHolding appends a new lot. Each add creates a discrete lot even for an
// asset already held - lots are never merged.
func (s *DashboardService) AddHolding(entry domain.HoldingEntry) domain.DashboardSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.LotID == uuid.Nil {
		entry.LotID = uuid.New()
	}
	s.snapshot.Holdings = append(s.snapshot.Holdings, entry)
	s.persistHoldings()
	return s.snapshot.DeepCopy()
}

// RemoveHolding removes the single lot with the given id. Removing an
// unknown lot is a no-op.
func (s *DashboardService) RemoveHolding(lotID uuid.UUID) domain.DashboardSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.snapshot.Holdings[:0]
	removed := false
	for _, entry := range s.snapshot.Holdings {
		if entry.LotID == lotID {
			removed = true
			continue
		}
		kept = append(kept, entry)
	}
	s.snapshot.Holdings = kept
	if removed {
		s.persistHoldings()
	}
	return s.snapshot.DeepCopy()
}

// RemoveHoldingsByAsset removes every lot referencing the asset. This is the
// deterministic answer to "remove by asset" when multiple lots exist: all of
// them go, never an unspecified first match.
func (s *DashboardService) RemoveHoldingsByAsset(assetID string) domain.DashboardSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.snapshot.Holdings[:0]
	removed := false
	for _, entry := range s.snapshot.Holdings {
		if entry.AssetID == assetID {
			removed = true
			continue
		}
		kept = append(kept, entry)
	}
	s.snapshot.Holdings = kept
	if removed {
		s.persistHoldings()
	}
	return s.snapshot.DeepCopy()
}

// ToggleFavorite flips watchlist membership for the asset id.
func (s *DashboardService) ToggleFavorite(assetID string) domain.DashboardSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Favorites.Toggle(assetID)
	if err := s.favoritesRepository.Save(s.snapshot.Favorites); err != nil {
		s.log.Errorf("failed to persist favorites: %v", err)
	}
	return s.snapshot.DeepCopy()
}

func (s *DashboardService) SetRefreshing(refreshing bool) domain.DashboardSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.IsRefreshing = refreshing
	return s.snapshot.DeepCopy()
}

func (s *DashboardService) SetLastRefreshedAt(t time.Time) domain.DashboardSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.LastRefreshedAt = &t
	return s.snapshot.DeepCopy()
}

// persistHoldings is called with the lock held. A failed write keeps the
// committed in-memory state and logs; the next successful save heals it.
func (s *DashboardService) persistHoldings() {
	if err := s.holdingsRepository.Save(s.snapshot.Holdings); err != nil {
		s.log.Errorf("failed to persist holdings: %v", err)
	}
}
