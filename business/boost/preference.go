package boost

import (
	"fmt"
	"sort"
	"strings"

	"marketSearch/domain"
)

const (
	topPreferenceCount = 5

	categoryBoostMultiplier = 2.0
	brandBoostMultiplier    = 1.5
	priceBoostMultiplier    = 1.2

	relatedWeightFraction = 0.5
)

// rankedPreference is one weighted key after sorting.
type rankedPreference struct {
	Key    string
	Weight float64
}

// topPreferences sorts a weight map descending, breaking weight ties by key
// so the result is deterministic, and keeps the first n entries.
func topPreferences(m map[string]float64, n int) []rankedPreference {
	ranked := make([]rankedPreference, 0, len(m))
	for k, w := range m {
		if w <= 0 {
			continue
		}
		ranked = append(ranked, rankedPreference{Key: k, Weight: w})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Weight != ranked[j].Weight {
			return ranked[i].Weight > ranked[j].Weight
		}
		return ranked[i].Key < ranked[j].Key
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// progressiveBoost maps rank 0..n-1 within n entries to 1 + (n-rank)/n, so
// the top entry gets the full step and the last a 1/n step above neutral.
func progressiveBoost(rank, n int) float64 {
	return 1.0 + float64(n-rank)/float64(n)
}

// preferencePredicates turns a profile's learned weights into boost
// functions: the top categories and brands with progressive multipliers,
// related categories at half the source weight scaled by similarity, and
// the learned price bands.
func preferencePredicates(p *domain.PreferenceProfile, similarityThreshold float64, maxRelated int) []domain.BoostFunction {
	if p == nil {
		return nil
	}
	var fns []domain.BoostFunction

	topCategories := topPreferences(p.Categories, topPreferenceCount)
	n := len(topCategories)
	for rank, pref := range topCategories {
		fns = append(fns, domain.BoostFunction{
			Predicate: &domain.BoostPredicate{
				Field:  "category",
				Value:  pref.Key,
				Weight: pref.Weight,
			},
			Weight: progressiveBoost(rank, n) * categoryBoostMultiplier,
		})
	}

	// related categories ride on the source category's weight, halved and
	// scaled by similarity. The similarity table is keyed lowercase while
	// profile keys preserve client casing, so lookups normalize.
	seen := make(map[string]bool, n)
	for _, pref := range topCategories {
		seen[strings.ToLower(pref.Key)] = true
	}
	for _, pref := range topCategories {
		for _, rel := range RelatedCategories(strings.ToLower(pref.Key), similarityThreshold, maxRelated) {
			if seen[rel.Category] {
				continue
			}
			seen[rel.Category] = true
			fns = append(fns, domain.BoostFunction{
				Predicate: &domain.BoostPredicate{
					Field:  "category",
					Value:  rel.Category,
					Weight: pref.Weight * relatedWeightFraction * rel.Similarity,
				},
				Weight: categoryBoostMultiplier * relatedWeightFraction,
			})
		}
	}

	topBrands := topPreferences(p.Brands, topPreferenceCount)
	n = len(topBrands)
	for rank, pref := range topBrands {
		fns = append(fns, domain.BoostFunction{
			Predicate: &domain.BoostPredicate{
				Field:  "brand",
				Value:  pref.Key,
				Weight: pref.Weight,
			},
			Weight: progressiveBoost(rank, n) * brandBoostMultiplier,
		})
	}

	for _, pr := range p.PriceRanges {
		if pr.Weight <= 0 {
			continue
		}
		fns = append(fns, domain.BoostFunction{
			Predicate: &domain.BoostPredicate{
				Field:  "price",
				Value:  priceRangeValue(pr),
				Weight: pr.Weight,
			},
			Weight: priceBoostMultiplier,
		})
	}

	return fns
}

// priceRangeValue renders a band as "min-max", with the open top band as
// "min-".
func priceRangeValue(pr domain.PriceRangeWeight) string {
	if pr.MaxPrice < 0 {
		return fmt.Sprintf("%g-", pr.MinPrice)
	}
	return fmt.Sprintf("%g-%g", pr.MinPrice, pr.MaxPrice)
}
