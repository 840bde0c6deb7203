package app_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"app_reviews/internal/app"
	"app_reviews/internal/domain"
)

func TestNormalize_PlayStore(t *testing.T) {
	in := []domain.RawReview{
		{"userName": "Ana", "score": 5.0, "content": "ótimo", "at": 1706745600.0, "reviewCreatedVersion": "1.2.3", "replyContent": "valeu"},
		{"userName": "Bob", "score": 2.0, "content": "", "at": 1706832000.0},
	}
	out, skipped := app.Normalize(domain.PlayStore, in)
	require.Len(t, out, 2)
	assert.Zero(t, skipped.Total())

	assert.Equal(t, "Ana", out[0].Author)
	assert.Equal(t, 5, out[0].Rating)
	assert.Equal(t, domain.Date{Year: 2024, Month: time.February, Day: 1}, out[0].Date)
	require.NotNil(t, out[0].Version)
	assert.Equal(t, "1.2.3", *out[0].Version)
	require.NotNil(t, out[0].Reply)
	assert.Nil(t, out[0].Title, "play store has no title")

	assert.Nil(t, out[1].Version, "absent version stays absent")
	assert.Nil(t, out[1].Reply)
	assert.Equal(t, "", out[1].Text)
}

func TestNormalize_AppStore(t *testing.T) {
	in := []domain.RawReview{
		{"userName": "ana", "rating": 4.0, "review": "bom", "date": "2024-02-10T12:00:00Z", "title": "",
			"developerResponse": map[string]any{"body": "obrigado"}},
		{"userName": "bob", "rating": 3.0, "review": "ok", "date": "2024-02-11T23:30:00-03:00"},
	}
	out, skipped := app.Normalize(domain.AppStore, in)
	require.Len(t, out, 2)
	assert.Zero(t, skipped.Total())

	require.NotNil(t, out[0].Title, "present but empty title is kept as present")
	assert.Equal(t, "", *out[0].Title)
	assert.Equal(t, "obrigado", *out[0].Reply)
	assert.Nil(t, out[0].Version, "app store has no version")

	assert.Nil(t, out[1].Title)
	assert.Equal(t, domain.Date{Year: 2024, Month: time.February, Day: 12}, out[1].Date, "dates are taken in UTC")
}

func TestNormalize_DropsBadRows(t *testing.T) {
	in := []domain.RawReview{
		{"score": 5.0, "at": "not a date"},
		{"score": 5.0},
		{"score": 0.0, "at": 1706745600.0},
		{"score": 6.0, "at": 1706745600.0},
		{"score": 3.5, "at": 1706745600.0},
		{"score": "cinco", "at": 1706745600.0},
		{"score": nil, "at": 1706745600.0},
		{"score": "4", "at": "2024-02-01"},
		nil,
	}
	out, skipped := app.Normalize(domain.PlayStore, in)
	require.Len(t, out, 1)
	assert.Equal(t, 4, out[0].Rating)
	assert.Equal(t, 3, skipped.Date)
	assert.Equal(t, 5, skipped.Rating)
}

func TestNormalize_UnknownMarketplace(t *testing.T) {
	out, _ := app.Normalize(domain.Marketplace("other"), []domain.RawReview{{"score": 5.0}})
	assert.Empty(t, out)
}

// Whatever the provider sends, every emitted row is valid.
func TestNormalize_NeverEmitsInvalidRow(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ratings := []any{nil, "x", "3", 1.0, 2.0, 3.0, 4.0, 5.0, 0.0, 7.0, -1.0, 2.5, int64(4), true}
	dates := []any{nil, "", "2024-13-01", "2024-02-30", "2024-02-29", 1706745600.0, -5.0, "2023-12-31T23:59:59Z", 42}

	var in []domain.RawReview
	for i := 0; i < 500; i++ {
		in = append(in, domain.RawReview{
			"score":   ratings[rng.Intn(len(ratings))],
			"at":      dates[rng.Intn(len(dates))],
			"content": "x",
		})
	}
	out, skipped := app.Normalize(domain.PlayStore, in)
	assert.Equal(t, len(in), len(out)+skipped.Total())
	for _, r := range out {
		assert.GreaterOrEqual(t, r.Rating, 1)
		assert.LessOrEqual(t, r.Rating, 5)
		assert.True(t, r.Date.Valid(), r.Date.String())
	}
}
