package service

import (
	"context"
	"time"

	"payhub-backend/internal/domains/billing/model"
	"payhub-backend/pkg/cache"
	"payhub-backend/pkg/logger"
)

const billCachePrefix = "bill:"

type billService struct {
	fetcher BillFetcher
	cache   cache.Cache
	ttl     time.Duration
}

func NewBillService(fetcher BillFetcher, c cache.Cache, ttl time.Duration) BillService {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &billService{
		fetcher: fetcher,
		cache:   c,
		ttl:     ttl,
	}
}

func cacheKey(billKey string) string {
	return billCachePrefix + billKey
}

// Fetch serves a bill from the cache, falling through to the provider
// on a miss or when forceRefresh is set.
//
// Cache read errors degrade to a provider call; cache write errors are
// logged and the fresh bill is still returned.
func (s *billService) Fetch(ctx context.Context, category, subscriberKey string, forceRefresh bool) (*model.Bill, bool, error) {
	if category == "" || subscriberKey == "" {
		return nil, false, model.ErrInvalidBillQuery
	}

	key := cacheKey(model.BillKey(category, subscriberKey))

	if !forceRefresh {
		var cached model.Bill
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			logger.Warn("bill cache read failed, falling through to provider", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		} else if found {
			return &cached, true, nil
		}
	}

	bill, err := s.fetcher.FetchBill(ctx, category, subscriberKey)
	if err != nil {
		return nil, false, err
	}
	bill.FetchedAt = time.Now().UTC()

	if err := s.cache.Set(ctx, key, bill, s.ttl); err != nil {
		logger.Warn("bill cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}

	return bill, false, nil
}

func (s *billService) InvalidateKey(ctx context.Context, billKey string) error {
	return s.cache.Delete(ctx, cacheKey(billKey))
}
