package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"app_reviews/internal/domain"
)

// BatchResult pairs one request with its extraction or rejection.
type BatchResult struct {
	Request    domain.ExtractRequest
	Extraction domain.Extraction
	Err        error
}

// ExtractAll runs the requests with at most workers in flight. Results keep
// the input order.
func (s *ExtractionService) ExtractAll(ctx context.Context, reqs []domain.ExtractRequest, workers int) []BatchResult {
	if workers <= 0 {
		workers = 1
	}
	out := make([]BatchResult, len(reqs))
	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup

	for i, req := range reqs {
		out[i].Request = req

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			out[i].Err = err
			continue
		}

		wg.Add(1)
		go func(i int, req domain.ExtractRequest) {
			defer wg.Done()
			defer sem.Release(1)

			ex, err := s.Extract(ctx, req)
			out[i].Extraction, out[i].Err = ex, err
			if err != nil {
				log.Warn().Str("url", req.URL).Err(err).Msg("extraction rejected")
			}
		}(i, req)
	}

	wg.Wait()
	return out
}
