package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"app_reviews/internal/app"
	"app_reviews/internal/domain"
)

type stubExtractor struct {
	got     []domain.ExtractRequest
	workers int
	results []app.BatchResult
}

func (s *stubExtractor) ExtractAll(ctx context.Context, reqs []domain.ExtractRequest, workers int) []app.BatchResult {
	s.got, s.workers = reqs, workers
	return s.results
}

func TestRun_WritesOneFilePerApp(t *testing.T) {
	dir := t.TempDir()
	ref := domain.AppReference{Marketplace: domain.PlayStore, AppID: "com.nu.production", Country: "br"}
	x := &stubExtractor{results: []app.BatchResult{
		{Request: domain.ExtractRequest{URL: "u1"}, Extraction: domain.Extraction{
			App: ref, Outcome: domain.OutcomeOK, Notice: "1 reviews found in the selected period",
			Reviews: []domain.Review{{Author: "Ana", Rating: 5, Text: "bom", Date: domain.Date{Year: 2024, Month: time.February, Day: 3}}},
		}},
		{Request: domain.ExtractRequest{URL: "u2"}, Err: domain.ErrUnknownMarketplace},
	}}
	var out bytes.Buffer
	f := flags{from: "2024-02-01", to: "2024-02-29", minRating: 3, format: "csv", outDir: dir, workers: 3, limit: 100}

	require.NoError(t, run(context.Background(), x, f, []string{"u1", " u2 "}, &out))

	require.Len(t, x.got, 2)
	assert.Equal(t, "u2", x.got[1].URL)
	assert.Equal(t, 3, x.got[0].Criteria.MinRating)
	assert.Equal(t, 100, x.got[0].Limit)
	assert.Equal(t, 3, x.workers)

	fh, err := os.Open(filepath.Join(dir, "reviews_play_store_com.nu.production.csv"))
	require.NoError(t, err)
	defer fh.Close()
	recs, err := csv.NewReader(fh).ReadAll()
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	assert.Contains(t, out.String(), "u2: ")
	assert.Contains(t, out.String(), "1 reviews found")
}

func TestRun_RejectsBadFlags(t *testing.T) {
	x := &stubExtractor{}
	dir := t.TempDir()
	var out bytes.Buffer

	assert.Error(t, run(context.Background(), x, flags{format: "pdf", outDir: dir}, []string{"u"}, &out))
	assert.Error(t, run(context.Background(), x, flags{format: "csv", from: "yesterday", outDir: dir}, []string{"u"}, &out))
	err := run(context.Background(), x, flags{format: "csv", from: "2024-03-01", to: "2024-01-01", outDir: dir}, []string{"u"}, &out)
	assert.True(t, errors.Is(err, domain.ErrInvalidCriteria))
	assert.Nil(t, x.got, "nothing extracted on bad flags")
}

func TestRun_FailsWhenNothingWritten(t *testing.T) {
	x := &stubExtractor{results: []app.BatchResult{{
		Request:    domain.ExtractRequest{URL: "u1"},
		Extraction: domain.Extraction{Outcome: domain.OutcomeFetchFailed, Warning: "could not fetch reviews"},
	}}}
	var out bytes.Buffer
	err := run(context.Background(), x, flags{format: "xlsx", outDir: t.TempDir()}, []string{"u1"}, &out)
	assert.Error(t, err)
	assert.Contains(t, out.String(), "could not fetch reviews")
}
