// Package export writes the filtered review table as CSV or an XLSX workbook.
// Optional columns are emitted only when the marketplace schema has them.
package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"app_reviews/internal/app"
	"app_reviews/internal/domain"
)

type Format string

const (
	CSV  Format = "csv"
	XLSX Format = "xlsx"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case CSV, "":
		return CSV, nil
	case XLSX, "excel":
		return XLSX, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

func (f Format) ContentType() string {
	if f == XLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// FileName is reviews_<marketplace>_<app id>.<ext>.
func FileName(ref domain.AppReference, f Format) string {
	id := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			return r
		}
		return '_'
	}, ref.AppID)
	return fmt.Sprintf("reviews_%s_%s.%s", ref.Marketplace, id, f)
}

type column struct {
	name string
	get  func(domain.Review) any
}

func optional(p *string) any {
	if p == nil {
		return ""
	}
	return *p
}

// Columns lists the header for m in output order.
func Columns(m domain.Marketplace) []string {
	cs := columns(m)
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.name
	}
	return out
}

func columns(m domain.Marketplace) []column {
	cs := []column{
		{"date", func(r domain.Review) any { return r.Date.String() }},
		{"rating", func(r domain.Review) any { return r.Rating }},
		{"author", func(r domain.Review) any { return r.Author }},
		{"text", func(r domain.Review) any { return r.Text }},
	}
	if app.HasVersion(m) {
		cs = append(cs, column{"version", func(r domain.Review) any { return optional(r.Version) }})
	}
	if app.HasTitle(m) {
		cs = append(cs, column{"title", func(r domain.Review) any { return optional(r.Title) }})
	}
	return append(cs, column{"reply", func(r domain.Review) any { return optional(r.Reply) }})
}

// Write dispatches on f.
func Write(w io.Writer, f Format, m domain.Marketplace, reviews []domain.Review) error {
	switch f {
	case XLSX:
		return WriteXLSX(w, m, reviews)
	default:
		return WriteCSV(w, m, reviews)
	}
}

func cellString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	default:
		return fmt.Sprint(x)
	}
}
