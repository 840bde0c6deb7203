package domain

// RawReview is a provider-native record as decoded from the marketplace
// backend. Keys differ per marketplace.
type RawReview map[string]any

type Review struct {
	Author  string  `json:"author"`
	Rating  int     `json:"rating"`
	Text    string  `json:"text"`
	Date    Date    `json:"date"`
	Version *string `json:"version,omitempty"` // play store only
	Title   *string `json:"title,omitempty"`   // app store only
	Reply   *string `json:"reply,omitempty"`
}

type MonthlyCount struct {
	Month  string `json:"month"` // YYYY-MM
	Rating int    `json:"rating"`
	Count  int    `json:"count"`
}

type TermCount struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}
