package export

import (
	"io"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"app_reviews/internal/domain"
)

const SheetName = "Reviews"

func WriteXLSX(w io.Writer, m domain.Marketplace, reviews []domain.Review) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Error().Err(err).Msg("close workbook failed")
		}
	}()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}
	cols := columns(m)

	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c.name
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return err
	}

	for i, r := range reviews {
		row := make([]any, len(cols))
		for j, c := range cols {
			row[j] = c.get(r)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return err
		}
	}
	return f.Write(w)
}
