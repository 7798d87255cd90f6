package boost

import "marketSearch/domain"

// relatedCategories is a static heuristic table mapping a category to
// adjacent categories with a hand-tuned similarity score. Lookups are
// lowercase.
var relatedCategories = map[string][]domain.CategorySimilarity{
	"laptops": {
		{Category: "computer accessories", Similarity: 0.7},
		{Category: "monitors", Similarity: 0.5},
		{Category: "tablets", Similarity: 0.4},
	},
	"smartphones": {
		{Category: "phone accessories", Similarity: 0.8},
		{Category: "tablets", Similarity: 0.5},
		{Category: "smartwatches", Similarity: 0.4},
	},
	"tablets": {
		{Category: "laptops", Similarity: 0.4},
		{Category: "smartphones", Similarity: 0.5},
		{Category: "computer accessories", Similarity: 0.4},
	},
	"monitors": {
		{Category: "laptops", Similarity: 0.5},
		{Category: "computer accessories", Similarity: 0.6},
	},
	"headphones": {
		{Category: "speakers", Similarity: 0.6},
		{Category: "phone accessories", Similarity: 0.4},
	},
	"speakers": {
		{Category: "headphones", Similarity: 0.6},
		{Category: "home audio", Similarity: 0.7},
	},
	"gaming": {
		{Category: "laptops", Similarity: 0.5},
		{Category: "monitors", Similarity: 0.5},
		{Category: "computer accessories", Similarity: 0.6},
	},
	"cameras": {
		{Category: "camera accessories", Similarity: 0.8},
		{Category: "smartphones", Similarity: 0.3},
	},
	"smartwatches": {
		{Category: "smartphones", Similarity: 0.4},
		{Category: "fitness trackers", Similarity: 0.7},
	},
	"kitchen appliances": {
		{Category: "home appliances", Similarity: 0.7},
		{Category: "cookware", Similarity: 0.6},
	},
	"home appliances": {
		{Category: "kitchen appliances", Similarity: 0.7},
	},
	"running shoes": {
		{Category: "sportswear", Similarity: 0.6},
		{Category: "fitness trackers", Similarity: 0.4},
	},
	"sportswear": {
		{Category: "running shoes", Similarity: 0.6},
		{Category: "fitness trackers", Similarity: 0.3},
	},
}

// RelatedCategories returns the adjacency list for a category with
// similarity at or above threshold, capped at max entries. Nil when the
// category is unknown.
func RelatedCategories(category string, threshold float64, max int) []domain.CategorySimilarity {
	entries, ok := relatedCategories[category]
	if !ok {
		return nil
	}
	out := make([]domain.CategorySimilarity, 0, len(entries))
	for _, e := range entries {
		if e.Similarity < threshold {
			continue
		}
		out = append(out, e)
		if max > 0 && len(out) >= max {
			break
		}
	}
	return out
}
