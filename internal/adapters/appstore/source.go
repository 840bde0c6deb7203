package appstore

import (
	"context"

	"app_reviews/internal/adapters/observability"
	"app_reviews/internal/domain"
)

type reviewer interface {
	Reviews(ctx context.Context, ref domain.AppReference, count int) ([]domain.RawReview, error)
}

// Source fetches App Store reviews in a single bulk request, no pagination.
type Source struct {
	client   reviewer
	maxCount int
}

func NewSource(c reviewer, maxCount int) *Source {
	if maxCount <= 0 || maxCount > MaxCount {
		maxCount = MaxCount
	}
	return &Source{client: c, maxCount: maxCount}
}

func (s *Source) Marketplace() domain.Marketplace { return domain.AppStore }

func (s *Source) Fetch(ctx context.Context, ref domain.AppReference, limit int) ([]domain.RawReview, error) {
	if ref.AppID == "" {
		return nil, domain.ErrMissingAppID
	}
	if ref.AppName == "" {
		return nil, domain.ErrMissingAppName
	}
	if limit <= 0 || limit > s.maxCount {
		limit = s.maxCount
	}
	out, err := s.client.Reviews(ctx, ref, limit)
	if err != nil {
		return nil, err
	}
	observability.ObservePage(string(domain.AppStore))
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
