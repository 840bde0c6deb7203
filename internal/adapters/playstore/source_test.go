package playstore_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"app_reviews/internal/adapters/playstore"
	"app_reviews/internal/domain"
)

type scriptedPager struct {
	pages  []playstore.Page
	errAt  int // 1-based call that fails; 0 = never
	calls  int
	tokens []string
	counts []int
}

func (p *scriptedPager) Page(ctx context.Context, appID, country string, count int, token string) (playstore.Page, error) {
	p.calls++
	p.tokens = append(p.tokens, token)
	p.counts = append(p.counts, count)
	if p.errAt == p.calls {
		return playstore.Page{}, errors.New("boom")
	}
	if p.calls > len(p.pages) {
		return playstore.Page{}, nil
	}
	return p.pages[p.calls-1], nil
}

func rawPage(n, offset int, token string) playstore.Page {
	p := playstore.Page{Token: token}
	for i := 0; i < n; i++ {
		p.Reviews = append(p.Reviews, domain.RawReview{"reviewId": fmt.Sprintf("r-%d", offset+i)})
	}
	return p
}

var ref = domain.AppReference{Marketplace: domain.PlayStore, AppID: "com.example.app", Country: "br"}

func TestFetch_ThreeFullPagesThenEmpty(t *testing.T) {
	pg := &scriptedPager{pages: []playstore.Page{
		rawPage(200, 0, "t1"),
		rawPage(200, 200, "t2"),
		rawPage(200, 400, "t3"),
		{}, // empty page, null token
	}}
	src := playstore.NewSource(pg, 200, 50)

	out, err := src.Fetch(context.Background(), ref, 1000)
	require.NoError(t, err)
	assert.Len(t, out, 600)
	assert.Equal(t, 4, pg.calls)
	assert.Equal(t, []string{"", "t1", "t2", "t3"}, pg.tokens, "no page is requested twice")

	ids := map[any]struct{}{}
	for _, r := range out {
		ids[r["reviewId"]] = struct{}{}
	}
	assert.Len(t, ids, 600)
}

func TestFetch_NonEmptyPageWithNullTokenStops(t *testing.T) {
	pg := &scriptedPager{pages: []playstore.Page{
		rawPage(200, 0, "t1"),
		rawPage(50, 200, ""),
		rawPage(200, 250, "never"),
	}}
	out, err := playstore.NewSource(pg, 200, 50).Fetch(context.Background(), ref, 1000)
	require.NoError(t, err)
	assert.Len(t, out, 250)
	assert.Equal(t, 2, pg.calls)
}

func TestFetch_SoftCapTruncatesAndShrinksLastPage(t *testing.T) {
	pg := &scriptedPager{pages: []playstore.Page{
		rawPage(200, 0, "t1"),
		rawPage(50, 200, "t2"),
	}}
	out, err := playstore.NewSource(pg, 200, 50).Fetch(context.Background(), ref, 250)
	require.NoError(t, err)
	assert.Len(t, out, 250)
	assert.Equal(t, []int{200, 50}, pg.counts)
}

func TestFetch_RepeatedTokenStops(t *testing.T) {
	pg := &scriptedPager{pages: []playstore.Page{
		rawPage(10, 0, "loop"),
		rawPage(10, 10, "loop"),
		rawPage(10, 20, "loop"),
	}}
	out, err := playstore.NewSource(pg, 10, 50).Fetch(context.Background(), ref, 1000)
	require.NoError(t, err)
	assert.Len(t, out, 20)
	assert.Equal(t, 2, pg.calls)
}

func TestFetch_MaxPagesGuard(t *testing.T) {
	var pages []playstore.Page
	for i := 0; i < 10; i++ {
		pages = append(pages, rawPage(5, i*5, fmt.Sprintf("t%d", i)))
	}
	pg := &scriptedPager{pages: pages}
	out, err := playstore.NewSource(pg, 5, 3).Fetch(context.Background(), ref, 1000)
	require.NoError(t, err)
	assert.Len(t, out, 15)
	assert.Equal(t, 3, pg.calls)
}

func TestFetch_ErrorReturnsPartial(t *testing.T) {
	pg := &scriptedPager{pages: []playstore.Page{
		rawPage(200, 0, "t1"),
		rawPage(200, 200, "t2"),
	}, errAt: 2}
	out, err := playstore.NewSource(pg, 200, 50).Fetch(context.Background(), ref, 1000)
	require.Error(t, err)
	assert.Len(t, out, 200)
}

func TestFetch_CanceledBetweenPages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pg := &cancelingPager{cancel: cancel}
	out, err := playstore.NewSource(pg, 10, 50).Fetch(ctx, ref, 1000)
	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, out, 10)
	assert.Equal(t, 1, pg.calls)
}

type cancelingPager struct {
	cancel func()
	calls  int
}

func (p *cancelingPager) Page(ctx context.Context, appID, country string, count int, token string) (playstore.Page, error) {
	p.calls++
	p.cancel()
	return rawPage(10, 0, "next"), nil
}

func TestFetch_MissingAppID(t *testing.T) {
	_, err := playstore.NewSource(&scriptedPager{}, 200, 50).Fetch(context.Background(), domain.AppReference{Marketplace: domain.PlayStore}, 10)
	require.ErrorIs(t, err, domain.ErrMissingAppID)
}
