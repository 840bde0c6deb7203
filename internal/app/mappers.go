package app

import (
	"math"
	"strconv"
	"strings"
	"time"

	"app_reviews/internal/domain"
)

/********** field tables (one per marketplace) **********/

type fieldTable struct {
	author  []string
	rating  []string
	text    []string
	date    []string
	version []string
	title   []string
	reply   []string
}

var reviewFields = map[domain.Marketplace]fieldTable{
	domain.PlayStore: {
		author:  []string{"userName"},
		rating:  []string{"score"},
		text:    []string{"content"},
		date:    []string{"at"},
		version: []string{"reviewCreatedVersion", "appVersion"},
		reply:   []string{"replyContent"},
	},
	domain.AppStore: {
		author: []string{"userName"},
		rating: []string{"rating"},
		text:   []string{"review"},
		date:   []string{"date"},
		title:  []string{"title"},
		reply:  []string{"developerResponse.body"},
	},
}

// HasVersion and HasTitle report whether the marketplace schema carries the
// optional column at all.
func HasVersion(m domain.Marketplace) bool { return len(reviewFields[m].version) > 0 }
func HasTitle(m domain.Marketplace) bool   { return len(reviewFields[m].title) > 0 }

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// firstString returns the first string value found under paths. A key that is
// present with an empty string still counts as present.
func firstString(m map[string]any, paths []string) (string, bool) {
	for _, p := range paths {
		if s, ok := lookupAny(m, p).(string); ok {
			return s, true
		}
	}
	return "", false
}

func firstStringPtr(m map[string]any, paths []string) *string {
	if s, ok := firstString(m, paths); ok {
		return &s
	}
	return nil
}

/********** coercion **********/

// coerceRating accepts whole numbers in [1,5] given as numbers or numeric
// strings. Anything else rejects the row.
func coerceRating(v any) (int, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case string:
		p, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = p
	default:
		return 0, false
	}
	if math.IsNaN(f) || f != math.Trunc(f) || f < 1 || f > 5 {
		return 0, false
	}
	return int(f), true
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	domain.DateLayout,
}

// coerceDate maps epoch seconds, time.Time or common textual timestamps to a
// UTC calendar date.
func coerceDate(v any) (domain.Date, bool) {
	switch x := v.(type) {
	case time.Time:
		if x.IsZero() {
			return domain.Date{}, false
		}
		return domain.DateOf(x.UTC()), true
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) || x <= 0 {
			return domain.Date{}, false
		}
		return domain.DateOf(time.Unix(int64(x), 0).UTC()), true
	case int64:
		if x <= 0 {
			return domain.Date{}, false
		}
		return domain.DateOf(time.Unix(x, 0).UTC()), true
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return domain.DateOf(t.UTC()), true
			}
		}
	}
	return domain.Date{}, false
}

/********** normalizer **********/

// Normalize maps provider records to the canonical schema. Rows with an
// unparsable date or an unusable rating are dropped and tallied, never
// defaulted.
func Normalize(m domain.Marketplace, in []domain.RawReview) ([]domain.Review, domain.SkipCounts) {
	var skipped domain.SkipCounts
	ft, ok := reviewFields[m]
	if !ok {
		return nil, skipped
	}
	out := make([]domain.Review, 0, len(in))
	for _, r := range in {
		if r == nil {
			skipped.Date++
			continue
		}
		raw := map[string]any(r)

		var d domain.Date
		var dateOK bool
		for _, p := range ft.date {
			if d, dateOK = coerceDate(lookupAny(raw, p)); dateOK {
				break
			}
		}
		if !dateOK {
			skipped.Date++
			continue
		}

		var rating int
		var ratingOK bool
		for _, p := range ft.rating {
			if rating, ratingOK = coerceRating(lookupAny(raw, p)); ratingOK {
				break
			}
		}
		if !ratingOK {
			skipped.Rating++
			continue
		}

		rv := domain.Review{Rating: rating, Date: d}
		rv.Author, _ = firstString(raw, ft.author)
		rv.Text, _ = firstString(raw, ft.text)
		if len(ft.version) > 0 {
			rv.Version = firstStringPtr(raw, ft.version)
		}
		if len(ft.title) > 0 {
			rv.Title = firstStringPtr(raw, ft.title)
		}
		rv.Reply = firstStringPtr(raw, ft.reply)

		out = append(out, rv)
	}
	return out, skipped
}
