package app

import (
	"context"
	"fmt"
	"strings"

	"app_reviews/internal/domain"
)

// reviewSet is the normalized, unfiltered result of one fetch. It is what the
// cache stores; filtering always runs per request.
type reviewSet struct {
	Reviews []domain.Review   `json:"reviews"`
	Fetched int               `json:"fetched"`
	Skipped domain.SkipCounts `json:"skipped"`
}

func cacheKey(ref domain.AppReference, limit int) string {
	return fmt.Sprintf("reviews:%s:%s:%s:%d", ref.Marketplace, ref.AppID, strings.ToLower(ref.Country), limit)
}

// collect is a read-through over the cache. Partial or failed fetches are
// returned but never cached.
func (s *ExtractionService) collect(ctx context.Context, src domain.ReviewSource, ref domain.AppReference, limit int) (reviewSet, error) {
	key := cacheKey(ref, limit)
	if s.cache != nil && s.cacheTTL > 0 {
		var cached reviewSet
		if ok, _ := s.cache.Get(ctx, key, &cached); ok {
			return cached, nil
		}
	}

	raw, err := src.Fetch(ctx, ref, limit)
	if len(raw) > limit {
		raw = raw[:limit]
	}
	revs, skipped := Normalize(ref.Marketplace, raw)
	out := reviewSet{Reviews: revs, Fetched: len(raw), Skipped: skipped}
	if err != nil {
		return out, fetchError(ref.Marketplace, err)
	}

	if s.cache != nil && s.cacheTTL > 0 {
		_ = s.cache.Set(ctx, key, copyReviewSet(out), int(s.cacheTTL.Seconds()))
	}
	return out, nil
}

// copyReviewSet avoids aliasing the slice handed to the cache.
func copyReviewSet(in reviewSet) reviewSet {
	out := in
	if n := len(in.Reviews); n > 0 {
		out.Reviews = make([]domain.Review, n)
		copy(out.Reviews, in.Reviews)
	}
	return out
}
