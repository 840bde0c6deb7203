package appstore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"app_reviews/internal/adapters/transport"
	"app_reviews/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// MaxCount bounds the single bulk request.
const MaxCount = 1000

var (
	ErrNoToken   = errors.New("appstore: bearer token not found on app page")
	ErrMalformed = errors.New("appstore: malformed response")
)

var tokenRe = regexp.MustCompile(`token%22%3A%22(.+?)%22`)

type Client struct {
	pageBase string
	apiBase  string
	hc       *transport.Client
}

func NewClient(pageBase, apiBase string, t *transport.Client) *Client {
	return &Client{
		pageBase: strings.TrimRight(pageBase, "/"),
		apiBase:  strings.TrimRight(apiBase, "/"),
		hc:       t,
	}
}

func (c *Client) pageURL(ref domain.AppReference) string {
	slug := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(ref.AppName)), " ", "-")
	return fmt.Sprintf("%s/%s/app/%s/id%s", c.pageBase, ref.Country, url.PathEscape(slug), ref.AppID)
}

// token scrapes the web player bearer token embedded in the app page.
func (c *Client) token(ctx context.Context, ref domain.AppReference) (string, error) {
	b, err := c.hc.Get(ctx, c.pageURL(ref), "app_page", nil)
	if err != nil {
		return "", err
	}
	m := tokenRe.FindSubmatch(b)
	if m == nil {
		return "", ErrNoToken
	}
	return string(m[1]), nil
}

type reviewsResponse struct {
	Data []struct {
		ID         string         `json:"id"`
		Attributes map[string]any `json:"attributes"`
	} `json:"data"`
}

// Reviews issues one request for up to count reviews. The backend may return
// fewer than asked.
func (c *Client) Reviews(ctx context.Context, ref domain.AppReference, count int) ([]domain.RawReview, error) {
	tok, err := c.token(ctx, ref)
	if err != nil {
		return nil, err
	}

	q := url.Values{
		"l":                   {"en-GB"},
		"offset":              {"0"},
		"limit":               {strconv.Itoa(count)},
		"platform":            {"web"},
		"additionalPlatforms": {"appletv,ipad,iphone,mac"},
	}
	u := fmt.Sprintf("%s/v1/catalog/%s/apps/%s/reviews?%s", c.apiBase, ref.Country, ref.AppID, q.Encode())

	h := http.Header{}
	h.Set("Authorization", "Bearer "+tok)
	h.Set("Accept", "application/json")
	h.Set("Origin", "https://apps.apple.com")
	h.Set("Referer", c.pageURL(ref))

	b, err := c.hc.Get(ctx, u, "reviews", h)
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return nil, nil
	}
	var resp reviewsResponse
	if err := json.Unmarshal(b, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	out := make([]domain.RawReview, 0, len(resp.Data))
	for _, d := range resp.Data {
		if d.Attributes == nil {
			continue
		}
		rv := domain.RawReview(d.Attributes)
		if d.ID != "" {
			rv["id"] = d.ID
		}
		out = append(out, rv)
	}
	return out, nil
}
