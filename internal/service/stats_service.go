package service

import (
	"log/slog"

	"github.com/ticketbari/ticketbari/internal/model"
)

// StatsStore is the aggregate-query surface the stats service needs.
type StatsStore interface {
	GetVendorStats(vendorEmail string) (*model.VendorStats, error)
}

// StatsCache is the Redis surface the stats service needs.
type StatsCache interface {
	GetVendorStatsCache(vendorEmail string) (*model.VendorStats, bool, error)
	SetVendorStatsCache(stats *model.VendorStats) error
}

type StatsService struct {
	store StatsStore
	cache StatsCache
}

func NewStatsService(store StatsStore, cache StatsCache) *StatsService {
	return &StatsService{store: store, cache: cache}
}

// VendorStats returns the revenue overview for one vendor, reading
// through the cache. The cache entry is dropped whenever one of the
// vendor's bookings is paid.
func (s *StatsService) VendorStats(vendorEmail string) (*model.VendorStats, error) {
	if stats, hit, err := s.cache.GetVendorStatsCache(vendorEmail); err == nil && hit {
		return stats, nil
	} else if err != nil {
		slog.Warn("vendor stats cache read failed", "vendor", vendorEmail, "error", err)
	}

	stats, err := s.store.GetVendorStats(vendorEmail)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetVendorStatsCache(stats); err != nil {
		slog.Warn("vendor stats cache write failed", "vendor", vendorEmail, "error", err)
	}
	return stats, nil
}
