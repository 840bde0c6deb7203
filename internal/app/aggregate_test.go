package app_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"app_reviews/internal/app"
	"app_reviews/internal/domain"
)

func TestAggregateByMonthAndRating(t *testing.T) {
	in := []domain.Review{
		{Rating: 5, Date: day(time.March, 2)},
		{Rating: 1, Date: day(time.January, 5)},
		{Rating: 5, Date: day(time.January, 20)},
		{Rating: 1, Date: day(time.January, 31)},
		{Rating: 5, Date: domain.Date{Year: 2023, Month: time.December, Day: 31}},
	}
	got := app.AggregateByMonthAndRating(in)
	assert.Equal(t, []domain.MonthlyCount{
		{Month: "2023-12", Rating: 5, Count: 1},
		{Month: "2024-01", Rating: 1, Count: 2},
		{Month: "2024-01", Rating: 5, Count: 1},
		{Month: "2024-03", Rating: 5, Count: 1},
	}, got, "no zero-filled rows")

	assert.Empty(t, app.AggregateByMonthAndRating(nil))
}

func TestVersions(t *testing.T) {
	in := []domain.Review{
		{Version: ptr("2.0")}, {Version: ptr("1.0")}, {}, {Version: ptr("2.0")}, {Version: ptr("")},
	}
	assert.Equal(t, []string{"1.0", "2.0"}, app.Versions(in))
}

func TestTopTerms(t *testing.T) {
	in := []domain.Review{
		{Text: "O app trava, trava demais!"},
		{Text: "Trava no login e não abre"},
		{Text: "login lento"},
	}
	got := app.TopTerms(in, 3)
	assert.Equal(t, []domain.TermCount{
		{Term: "trava", Count: 3},
		{Term: "login", Count: 2},
		{Term: "abre", Count: 1},
	}, got)
	assert.Nil(t, app.TopTerms(in, 0))
}
