package domain

import "encoding/json"

// ProductMetadata is one projected product record, keyed by ASIN.
// Only the fields selected at index-build time are populated; everything
// else stays nil so the output serialiser renders JSON null.
//
// Entries are created once during index construction and are immutable
// for the rest of the run. If the source contains the same ASIN twice,
// the last row wins.
type ProductMetadata struct {
	ASIN       string          `json:"asin"`
	Title      *string         `json:"title,omitempty"`
	Brand      *string         `json:"brand,omitempty"`
	MainCat    *string         `json:"main_cat,omitempty"`
	Categories []string        `json:"category,omitempty"`
	Price      *float64        `json:"price,omitempty"`
	Rank       json.RawMessage `json:"rank,omitempty"`
	AlsoBuy    []string        `json:"also_buy,omitempty"`
	AlsoView   []string        `json:"also_view,omitempty"`
}

// PrimaryCategory returns the first category if any, falling back to the
// main category, then the empty string.
func (p *ProductMetadata) PrimaryCategory() string {
	if p == nil {
		return ""
	}
	if len(p.Categories) > 0 {
		return p.Categories[0]
	}
	if p.MainCat != nil {
		return *p.MainCat
	}
	return ""
}

// TitleOrEmpty returns the title or the empty string.
func (p *ProductMetadata) TitleOrEmpty() string {
	if p == nil || p.Title == nil {
		return ""
	}
	return *p.Title
}

// BrandOrEmpty returns the brand or the empty string.
func (p *ProductMetadata) BrandOrEmpty() string {
	if p == nil || p.Brand == nil {
		return ""
	}
	return *p.Brand
}
