package playstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"app_reviews/internal/adapters/transport"
	"app_reviews/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	rpcID      = "UsvDTd"
	sortNewest = 2
	xssiPrefix = ")]}'"
)

var ErrMalformed = errors.New("playstore: malformed response")

// Page is one batch of raw reviews plus the continuation token ("" when the
// backend signals no more data).
type Page struct {
	Reviews []domain.RawReview
	Token   string
}

type Client struct {
	base string
	lang string
	hc   *transport.Client
}

func NewClient(base, lang string, t *transport.Client) *Client {
	if lang == "" {
		lang = "pt"
	}
	return &Client{base: strings.TrimRight(base, "/"), lang: lang, hc: t}
}

// Page requests one batch of reviews sorted newest first.
func (c *Client) Page(ctx context.Context, appID, country string, count int, token string) (Page, error) {
	q := url.Values{"hl": {c.lang}, "gl": {country}}
	u := c.base + "/_/PlayStoreUi/data/batchexecute?" + q.Encode()

	freq, err := requestPayload(appID, count, token)
	if err != nil {
		return Page{}, err
	}
	body := url.Values{"f.req": {freq}}.Encode()

	b, err := c.hc.Post(ctx, u, "batchexecute", "application/x-www-form-urlencoded;charset=UTF-8", []byte(body), nil)
	if err != nil {
		return Page{}, err
	}
	return parsePage(b)
}

func requestPayload(appID string, count int, token string) (string, error) {
	tok := "null"
	if token != "" {
		t, err := json.Marshal(token)
		if err != nil {
			return "", err
		}
		tok = string(t)
	}
	id, err := json.Marshal(appID)
	if err != nil {
		return "", err
	}
	inner := fmt.Sprintf(`[null,null,[2,%d,[%d,null,%s],null,[]],[%s,7]]`, sortNewest, count, tok, id)
	outer, err := json.Marshal([][][]any{{{rpcID, inner, nil, "generic"}}})
	if err != nil {
		return "", err
	}
	return string(outer), nil
}

// parsePage unwraps the XSSI-guarded envelope: [["wrb.fr","UsvDTd","<json>",...]].
// The inner document holds the reviews at [0] and the token at [-2][-1].
func parsePage(b []byte) (Page, error) {
	b = bytes.TrimSpace(b)
	b = bytes.TrimPrefix(b, []byte(xssiPrefix))

	var envelope []any
	if err := json.NewDecoder(bytes.NewReader(b)).Decode(&envelope); err != nil {
		return Page{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	payload, ok := dig(envelope, 0, 2).(string)
	if !ok {
		// a null payload is how the backend answers past the last page
		if len(envelope) > 0 && dig(envelope, 0, 0) == "wrb.fr" {
			return Page{}, nil
		}
		return Page{}, ErrMalformed
	}
	var data []any
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return Page{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(data) == 0 {
		return Page{}, nil
	}

	var p Page
	items, _ := data[0].([]any)
	p.Reviews = make([]domain.RawReview, 0, len(items))
	for _, it := range items {
		if rv := mapReview(it); rv != nil {
			p.Reviews = append(p.Reviews, rv)
		}
	}
	if len(data) >= 2 {
		if tail, ok := data[len(data)-2].([]any); ok && len(tail) > 0 {
			if tok, ok := tail[len(tail)-1].(string); ok {
				p.Token = tok
			}
		}
	}
	return p, nil
}

// mapReview flattens one positional review array into named fields. Absent
// positions are left out of the map rather than set to zero values.
func mapReview(v any) domain.RawReview {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := domain.RawReview{}
	set := func(k string, val any) {
		if val != nil {
			out[k] = val
		}
	}
	set("reviewId", dig(arr, 0))
	set("userName", dig(arr, 1, 0))
	set("userImage", dig(arr, 1, 1, 3, 2))
	set("score", dig(arr, 2))
	set("content", dig(arr, 4))
	set("at", dig(arr, 5, 0))
	set("thumbsUpCount", dig(arr, 6))
	set("replyContent", dig(arr, 7, 1))
	set("repliedAt", dig(arr, 7, 2, 0))
	set("reviewCreatedVersion", dig(arr, 10))
	set("appVersion", dig(arr, 10))
	return out
}

// dig walks nested arrays by index, returning nil on any miss.
func dig(v any, path ...int) any {
	cur := v
	for _, i := range path {
		arr, ok := cur.([]any)
		if !ok || i < 0 || i >= len(arr) {
			return nil
		}
		cur = arr[i]
	}
	return cur
}
