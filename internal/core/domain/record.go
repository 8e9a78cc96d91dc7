package domain

// JoinedRecord is the output unit: one JSON line per accepted review.
// Field order here is the wire order.
type JoinedRecord struct {
	ID            string     `json:"id"`
	ASIN          string     `json:"asin"`
	EmbeddingText string     `json:"embedding_text"`
	Meta          RecordMeta `json:"meta"`
}

// RecordMeta bundles the selected product fields with the selected review
// fields. Pointers and nil slices serialise as JSON null; fields that were
// not retained at index-build time therefore come out null rather than
// being omitted.
type RecordMeta struct {
	ProductTitle  *string  `json:"product_title"`
	Brand         *string  `json:"brand"`
	MainCat       *string  `json:"main_cat"`
	Categories    []string `json:"categories"`
	Price         *float64 `json:"price"`
	AlsoBuy       []string `json:"also_buy"`
	AlsoView      []string `json:"also_view"`
	ReviewTime    *string  `json:"review_time"`
	Rating        *float64 `json:"rating"`
	Verified      *bool    `json:"verified"`
	ReviewSummary *string  `json:"review_summary"`
	ReviewText    *string  `json:"review_text"`
}

// JoinStats holds the counters accumulated over one join run.
//
// The invariant Written+MissingMeta <= Read always holds; review rows
// without an ASIN are counted as read but neither written nor missing.
type JoinStats struct {
	Read        int64 `json:"read"`
	Written     int64 `json:"written"`
	MissingMeta int64 `json:"missing_meta"`
}
