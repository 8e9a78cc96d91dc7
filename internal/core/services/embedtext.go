package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/embedprep-cli/internal/core/domain"
)

// defaultCategory is the category line fallback when the product carries
// neither a category sequence nor a main category.
const defaultCategory = "Toys & Games"

// BuildEmbeddingText renders the one string sent to the embedding model
// for a product+review pair. The template is deterministic: identical
// inputs always produce identical output.
//
// One component per line, empty components omitted, except the final
// "Full Review:" line which is always present so the structural template
// stays consistent even for body-less reviews. meta may be nil when the
// join runs with the keep-missing-metadata policy.
func BuildEmbeddingText(meta *domain.ProductMetadata, rev *domain.Review) string {
	title := meta.TitleOrEmpty()
	if title == "" {
		title = "ASIN " + rev.ASIN
	}
	product := "Product: " + title
	if brand := meta.BrandOrEmpty(); brand != "" {
		product += " (Brand: " + brand + ")"
	}

	category := meta.PrimaryCategory()
	if category == "" {
		category = defaultCategory
	}

	parts := []string{product, "Category: " + category}

	if rev.Overall != nil {
		rating := fmt.Sprintf("Rating: %d stars", int(*rev.Overall))
		if rev.IsVerified() {
			rating += " (Verified Purchase)"
		}
		parts = append(parts, rating)
	}

	if summary := strings.TrimSpace(rev.SummaryOrEmpty()); summary != "" {
		parts = append(parts, "Review Summary: "+summary)
	}

	parts = append(parts, "Full Review: "+strings.TrimSpace(rev.BodyOrEmpty()))

	return strings.TrimSpace(strings.Join(parts, "\n"))
}
