package playstore

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"app_reviews/internal/adapters/observability"
	"app_reviews/internal/domain"
)

const (
	DefaultPageSize = 200
	DefaultMaxPages = 50
)

type pager interface {
	Page(ctx context.Context, appID, country string, count int, token string) (Page, error)
}

// Source paginates through continuation tokens until the backend is
// exhausted, the caller's soft cap is reached, or a page guard trips.
type Source struct {
	pages    pager
	pageSize int
	maxPages int
}

func NewSource(p pager, pageSize, maxPages int) *Source {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &Source{pages: p, pageSize: pageSize, maxPages: maxPages}
}

func (s *Source) Marketplace() domain.Marketplace { return domain.PlayStore }

// Fetch returns raw reviews newest first. On a mid-stream failure the pages
// read so far are returned together with the error.
func (s *Source) Fetch(ctx context.Context, ref domain.AppReference, limit int) ([]domain.RawReview, error) {
	if ref.AppID == "" {
		return nil, domain.ErrMissingAppID
	}
	if limit <= 0 {
		limit = s.pageSize
	}

	var (
		out   []domain.RawReview
		token string
		seen  = map[string]struct{}{}
	)
	for page := 0; page < s.maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		count := min(s.pageSize, limit-len(out))

		p, err := s.pages.Page(ctx, ref.AppID, ref.Country, count, token)
		if err != nil {
			return out, fmt.Errorf("page %d: %w", page+1, err)
		}
		observability.ObservePage(string(domain.PlayStore))
		if len(p.Reviews) == 0 {
			break
		}
		out = append(out, p.Reviews...)

		if len(out) >= limit {
			out = out[:limit]
			break
		}
		if p.Token == "" {
			break
		}
		if _, dup := seen[p.Token]; dup {
			log.Warn().Str("app_id", ref.AppID).Int("page", page+1).Msg("continuation token repeated, stopping")
			break
		}
		seen[p.Token] = struct{}{}
		token = p.Token

		if page == s.maxPages-1 {
			log.Warn().Str("app_id", ref.AppID).Int("pages", s.maxPages).Msg("page limit reached, stopping")
		}
	}
	return out, nil
}
