package domain

import "fmt"

// FilterCriteria bounds are inclusive. A zero DateStart/DateEnd leaves that
// side open; MinRating 0 is treated as 1.
type FilterCriteria struct {
	DateStart Date     `json:"date_start"`
	DateEnd   Date     `json:"date_end"`
	MinRating int      `json:"min_rating"`
	Keyword   string   `json:"keyword,omitempty"`
	Versions  []string `json:"versions,omitempty"`
}

func (c FilterCriteria) Validate() error {
	if !c.DateStart.IsZero() && !c.DateStart.Valid() {
		return fmt.Errorf("%w: invalid start date", ErrInvalidCriteria)
	}
	if !c.DateEnd.IsZero() && !c.DateEnd.Valid() {
		return fmt.Errorf("%w: invalid end date", ErrInvalidCriteria)
	}
	if !c.DateStart.IsZero() && !c.DateEnd.IsZero() && c.DateStart.After(c.DateEnd) {
		return fmt.Errorf("%w: start date %s is after end date %s", ErrInvalidCriteria, c.DateStart, c.DateEnd)
	}
	if c.MinRating < 0 || c.MinRating > 5 {
		return fmt.Errorf("%w: min rating must be between 1 and 5", ErrInvalidCriteria)
	}
	return nil
}
