package preference

import (
	"time"

	"marketSearch/domain"
)

// History lists are capped and kept newest-first.

func pushSearch(p *domain.PreferenceProfile, query string, at time.Time, maxSize int) {
	p.RecentSearches = append([]domain.SearchRecord{{Query: query, SearchedAt: at}}, p.RecentSearches...)
	if maxSize > 0 && len(p.RecentSearches) > maxSize {
		p.RecentSearches = p.RecentSearches[:maxSize]
	}
}

// pushViewed de-duplicates by product id: a re-viewed item moves to the
// front instead of appearing twice.
func pushViewed(p *domain.PreferenceProfile, productID string, at time.Time, maxSize int) {
	filtered := make([]domain.ViewedProduct, 0, len(p.RecentlyViewed)+1)
	filtered = append(filtered, domain.ViewedProduct{ProductID: productID, ViewedAt: at})
	for _, v := range p.RecentlyViewed {
		if v.ProductID == productID {
			continue
		}
		filtered = append(filtered, v)
	}
	if maxSize > 0 && len(filtered) > maxSize {
		filtered = filtered[:maxSize]
	}
	p.RecentlyViewed = filtered
}

func pushPurchase(p *domain.PreferenceProfile, rec domain.PurchaseRecord, maxSize int) {
	p.PurchaseHistory = append([]domain.PurchaseRecord{rec}, p.PurchaseHistory...)
	if maxSize > 0 && len(p.PurchaseHistory) > maxSize {
		p.PurchaseHistory = p.PurchaseHistory[:maxSize]
	}
}

// bumpWeight adds inc to m[key], ignoring empty keys.
func bumpWeight(m map[string]float64, key string, inc float64) {
	if key == "" {
		return
	}
	m[key] += inc
}
