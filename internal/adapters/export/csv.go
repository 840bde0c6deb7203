package export

import (
	"encoding/csv"
	"io"

	"app_reviews/internal/domain"
)

func WriteCSV(w io.Writer, m domain.Marketplace, reviews []domain.Review) error {
	cw := csv.NewWriter(w)
	cols := columns(m)

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.name
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	rec := make([]string, len(cols))
	for _, r := range reviews {
		for i, c := range cols {
			rec[i] = cellString(c.get(r))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
