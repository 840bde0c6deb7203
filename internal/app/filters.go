package app

import (
	"strings"

	"app_reviews/internal/domain"
)

// Predicate decides whether one review survives a filter step. Predicates
// only read immutable fields of a single row, so any order gives the same set.
type Predicate func(domain.Review) bool

func DateRange(start, end domain.Date) Predicate {
	return func(r domain.Review) bool {
		if !start.IsZero() && r.Date.Before(start) {
			return false
		}
		if !end.IsZero() && r.Date.After(end) {
			return false
		}
		return true
	}
}

func MinRating(min int) Predicate {
	return func(r domain.Review) bool { return r.Rating >= min }
}

// Keyword matches case-insensitively against the review text.
func Keyword(kw string) Predicate {
	needle := strings.ToLower(kw)
	return func(r domain.Review) bool {
		if r.Text == "" {
			return false
		}
		return strings.Contains(strings.ToLower(r.Text), needle)
	}
}

// VersionIn drops rows with no version once any version is selected.
func VersionIn(versions []string) Predicate {
	set := make(map[string]struct{}, len(versions))
	for _, v := range versions {
		set[v] = struct{}{}
	}
	return func(r domain.Review) bool {
		if r.Version == nil {
			return false
		}
		_, ok := set[*r.Version]
		return ok
	}
}

// Predicates builds the active steps for c, narrowest first.
func Predicates(c domain.FilterCriteria) []Predicate {
	ps := []Predicate{DateRange(c.DateStart, c.DateEnd)}
	if c.MinRating > 1 {
		ps = append(ps, MinRating(c.MinRating))
	}
	if kw := strings.TrimSpace(c.Keyword); kw != "" {
		ps = append(ps, Keyword(kw))
	}
	if vs := nonEmpty(c.Versions); len(vs) > 0 {
		ps = append(ps, VersionIn(vs))
	}
	return ps
}

// Apply runs each step in turn; every step yields a fresh slice and the input
// is never modified.
func Apply(in []domain.Review, ps ...Predicate) []domain.Review {
	cur := in
	for _, p := range ps {
		next := make([]domain.Review, 0, len(cur))
		for _, r := range cur {
			if p(r) {
				next = append(next, r)
			}
		}
		cur = next
	}
	if len(ps) == 0 {
		cur = append(make([]domain.Review, 0, len(in)), in...)
	}
	return cur
}

func Filter(in []domain.Review, c domain.FilterCriteria) []domain.Review {
	return Apply(in, Predicates(c)...)
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}
