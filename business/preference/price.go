package preference

import (
	"sort"

	"marketSearch/domain"
)

// priceBuckets is the fixed six-band table prices are bucketed into before
// weighting. The last band is open-ended. The table is independent of the
// actual catalog price distribution.
var priceBuckets = []domain.PriceRangeWeight{
	{MinPrice: 0, MaxPrice: 25},
	{MinPrice: 25, MaxPrice: 50},
	{MinPrice: 50, MaxPrice: 100},
	{MinPrice: 100, MaxPrice: 200},
	{MinPrice: 200, MaxPrice: 500},
	{MinPrice: 500, MaxPrice: -1},
}

// bucketFor returns the band bounds for a price, or false for negative
// prices.
func bucketFor(price float64) (domain.PriceRangeWeight, bool) {
	if price < 0 {
		return domain.PriceRangeWeight{}, false
	}
	for _, b := range priceBuckets {
		if b.Contains(price) {
			return b, true
		}
	}
	return domain.PriceRangeWeight{}, false
}

// bumpPriceRange adds weight to the band containing price, keeping the list
// sorted descending by weight and truncated to maxRanges.
func bumpPriceRange(p *domain.PreferenceProfile, price, inc float64, maxRanges int) {
	bucket, ok := bucketFor(price)
	if !ok {
		return
	}

	found := false
	for i := range p.PriceRanges {
		if p.PriceRanges[i].MinPrice == bucket.MinPrice && p.PriceRanges[i].MaxPrice == bucket.MaxPrice {
			p.PriceRanges[i].Weight += inc
			found = true
			break
		}
	}
	if !found {
		p.PriceRanges = append(p.PriceRanges, domain.PriceRangeWeight{
			MinPrice: bucket.MinPrice,
			MaxPrice: bucket.MaxPrice,
			Weight:   inc,
		})
	}

	sort.SliceStable(p.PriceRanges, func(i, j int) bool {
		return p.PriceRanges[i].Weight > p.PriceRanges[j].Weight
	})

	if maxRanges > 0 && len(p.PriceRanges) > maxRanges {
		p.PriceRanges = p.PriceRanges[:maxRanges]
	}
}
