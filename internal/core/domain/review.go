package domain

import "strconv"

// Review is one row of the review dataset. Every field except ASIN is
// optional; pointer fields distinguish absent/null from zero values,
// which matters for epoch timestamps and zero ratings.
type Review struct {
	ASIN           string   `json:"asin"`
	ReviewerID     string   `json:"reviewerID"`
	UnixReviewTime *int64   `json:"unixReviewTime"`
	ReviewTime     string   `json:"reviewTime"`
	Overall        *float64 `json:"overall"`
	Verified       *bool    `json:"verified"`
	Summary        *string  `json:"summary"`
	ReviewText     *string  `json:"reviewText"`
}

// RecordID builds the output record identifier
// "{asin}_{reviewerID}_{unixReviewTime}" with empty-string substitution
// for missing components. Not guaranteed globally unique when both
// reviewer and timestamp are absent.
func (r *Review) RecordID() string {
	ts := ""
	if r.UnixReviewTime != nil {
		ts = strconv.FormatInt(*r.UnixReviewTime, 10)
	}
	return r.ASIN + "_" + r.ReviewerID + "_" + ts
}

// IsVerified reports whether the review is marked as a verified purchase.
func (r *Review) IsVerified() bool {
	return r.Verified != nil && *r.Verified
}

// SummaryOrEmpty returns the summary or the empty string.
func (r *Review) SummaryOrEmpty() string {
	if r.Summary == nil {
		return ""
	}
	return *r.Summary
}

// BodyOrEmpty returns the review body or the empty string.
func (r *Review) BodyOrEmpty() string {
	if r.ReviewText == nil {
		return ""
	}
	return *r.ReviewText
}
