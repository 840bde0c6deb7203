package app

import (
	"sort"
	"strings"
	"unicode"

	"app_reviews/internal/domain"
)

// AggregateByMonthAndRating counts rows per (YYYY-MM, rating), ordered by
// month then rating. Only pairs that occur are emitted.
func AggregateByMonthAndRating(in []domain.Review) []domain.MonthlyCount {
	type key struct {
		month  string
		rating int
	}
	counts := make(map[key]int)
	for _, r := range in {
		counts[key{r.Date.MonthKey(), r.Rating}]++
	}
	out := make([]domain.MonthlyCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, domain.MonthlyCount{Month: k.month, Rating: k.rating, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Month != out[j].Month {
			return out[i].Month < out[j].Month
		}
		return out[i].Rating < out[j].Rating
	})
	return out
}

// Versions lists the distinct versions present, sorted.
func Versions(in []domain.Review) []string {
	seen := make(map[string]struct{})
	for _, r := range in {
		if r.Version != nil && *r.Version != "" {
			seen[*r.Version] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

var stopwords = func() map[string]struct{} {
	words := strings.Fields(`
a o e é de da do das dos em no na nos nas um uma uns umas que se por para com sem não nao mais mas
muito muita como ao aos à às ou eu ele ela eles elas meu minha seu sua isso isto esse essa este esta
já ja tem ter foi ser está esta são sao pra pro app aplicativo
the a an and or of to in on for with is it this that was are be my i you not but have has at as so
`)
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()

// TopTerms returns the n most frequent words across review texts, ignoring
// stopwords and words shorter than three letters. Ties break alphabetically.
func TopTerms(in []domain.Review, n int) []domain.TermCount {
	if n <= 0 {
		return nil
	}
	counts := make(map[string]int)
	for _, r := range in {
		words := strings.FieldsFunc(strings.ToLower(r.Text), func(c rune) bool {
			return !unicode.IsLetter(c)
		})
		for _, w := range words {
			if len([]rune(w)) < 3 {
				continue
			}
			if _, stop := stopwords[w]; stop {
				continue
			}
			counts[w]++
		}
	}
	out := make([]domain.TermCount, 0, len(counts))
	for t, c := range counts {
		out = append(out, domain.TermCount{Term: t, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Term < out[j].Term
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
