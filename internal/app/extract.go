package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"app_reviews/internal/domain"
)

type Options struct {
	DefaultCountry string
	MaxReviews     int // soft cap applied when a request asks for more (or for none)
	CacheTTL       time.Duration
	TopTerms       int
}

type ExtractionService struct {
	classifier Classifier
	sources    map[domain.Marketplace]domain.ReviewSource
	cache      domain.Cache
	cacheTTL   time.Duration
	maxReviews int
	topTerms   int
}

func NewExtractionService(opts Options, cache domain.Cache, sources ...domain.ReviewSource) *ExtractionService {
	if opts.MaxReviews <= 0 {
		opts.MaxReviews = 1000
	}
	s := &ExtractionService{
		classifier: NewClassifier(opts.DefaultCountry),
		sources:    make(map[domain.Marketplace]domain.ReviewSource, len(sources)),
		cache:      cache,
		cacheTTL:   opts.CacheTTL,
		maxReviews: opts.MaxReviews,
		topTerms:   opts.TopTerms,
	}
	for _, src := range sources {
		s.sources[src.Marketplace()] = src
	}
	return s
}

// Classify exposes the URL classifier so callers can reject input early.
func (s *ExtractionService) Classify(url string) (domain.AppReference, error) {
	return s.classifier.Classify(url)
}

// Extract runs classify -> fetch -> normalize -> filter -> aggregate for one
// request. Classification and criteria errors are returned before any network
// call. Fetch failures are folded into the result as a warning.
func (s *ExtractionService) Extract(ctx context.Context, req domain.ExtractRequest) (domain.Extraction, error) {
	if err := req.Criteria.Validate(); err != nil {
		return domain.Extraction{}, err
	}
	ref, err := s.classifier.Classify(req.URL)
	if err != nil {
		return domain.Extraction{}, err
	}
	src, ok := s.sources[ref.Marketplace]
	if !ok {
		return domain.Extraction{}, fmt.Errorf("%w: no source configured for %s", domain.ErrUnknownMarketplace, ref.Marketplace)
	}

	ex := domain.Extraction{ID: uuid.NewString(), App: ref}
	set, ferr := s.collect(ctx, src, ref, s.limit(req.Limit))
	ex.Fetched = set.Fetched
	ex.Skipped = set.Skipped
	ex.Reviews = Filter(set.Reviews, req.Criteria)
	ex.Monthly = AggregateByMonthAndRating(ex.Reviews)
	ex.Versions = Versions(set.Reviews)
	ex.Terms = TopTerms(ex.Reviews, s.topTerms)

	switch {
	case ferr != nil:
		ex.Outcome = domain.OutcomeFetchFailed
		ex.Warning = fmt.Sprintf("could not fetch reviews, check the URL and try again (%v)", ferr)
		log.Warn().Err(ferr).
			Str("extraction", ex.ID).
			Str("marketplace", string(ref.Marketplace)).
			Str("app_id", ref.AppID).
			Int("partial", set.Fetched).
			Msg("fetch failed")
	case len(ex.Reviews) == 0:
		ex.Outcome = domain.OutcomeEmpty
		ex.Notice = "no reviews found for the selected filters"
	default:
		ex.Outcome = domain.OutcomeOK
		ex.Notice = fmt.Sprintf("%d reviews found in the selected period", len(ex.Reviews))
	}

	log.Info().
		Str("extraction", ex.ID).
		Str("marketplace", string(ref.Marketplace)).
		Str("app_id", ref.AppID).
		Str("country", ref.Country).
		Int("fetched", ex.Fetched).
		Int("skipped", ex.Skipped.Total()).
		Int("kept", len(ex.Reviews)).
		Str("outcome", string(ex.Outcome)).
		Msg("extraction done")
	return ex, nil
}

func (s *ExtractionService) limit(n int) int {
	if n <= 0 || n > s.maxReviews {
		return s.maxReviews
	}
	return n
}

// fetchError normalizes a source error into a *domain.FetchError.
func fetchError(m domain.Marketplace, err error) error {
	var fe *domain.FetchError
	if errors.As(err, &fe) {
		return err
	}
	return &domain.FetchError{Marketplace: m, Err: err}
}
