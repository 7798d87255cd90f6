package preference

import (
	"time"

	"marketSearch/domain"
	"marketSearch/pkg/logger"
)

// applyEvent routes one event to the profile updates for its kind and
// reports whether anything was written. Malformed sub-payloads skip only the
// update they feed; independent parts of the same event still apply.
func (s *Service) applyEvent(p *domain.PreferenceProfile, event domain.InteractionEvent, now time.Time) bool {
	switch event.Type {
	case domain.InteractionSearch:
		return s.applySearch(p, event, now)
	case domain.InteractionViewProduct:
		return s.applyProductSignal(p, event, s.cfg.ViewIncrement, now, productSignalView)
	case domain.InteractionAddToCart:
		return s.applyProductSignal(p, event, s.cfg.CartIncrement, now, productSignalCart)
	case domain.InteractionPurchase:
		return s.applyProductSignal(p, event, s.cfg.PurchaseIncrement, now, productSignalPurchase)
	case domain.InteractionClickCategory:
		return s.applyClick(p, event, p.Categories)
	case domain.InteractionClickBrand:
		return s.applyClick(p, event, p.Brands)
	case domain.InteractionFilterApply:
		return s.applyFilter(p, event)
	case domain.InteractionImpression, domain.InteractionDwellTime:
		// logged for analysis; no durable increment
		return false
	default:
		// session-only kinds carry no profile update
		return false
	}
}

func (s *Service) applySearch(p *domain.PreferenceProfile, event domain.InteractionEvent, now time.Time) bool {
	var payload domain.SearchPayload
	if err := event.DecodePayload(&payload); err != nil {
		logger.Warn("skipping malformed search payload", "user_id", event.UserID, "error", err)
		return false
	}
	if payload.Query == "" {
		return false
	}

	pushSearch(p, payload.Query, now, s.cfg.MaxRecentSearches)
	bumpWeight(p.Categories, payload.Category, s.cfg.SearchIncrement)
	bumpWeight(p.Brands, payload.Brand, s.cfg.SearchIncrement)
	bumpWeight(p.Values, payload.Value, s.cfg.SearchIncrement)
	return true
}

type productSignalKind int

const (
	productSignalView productSignalKind = iota
	productSignalCart
	productSignalPurchase
)

// applyProductSignal covers view, add-to-cart and purchase: the same fields
// get weighted, only the increment and the history list differ.
func (s *Service) applyProductSignal(p *domain.PreferenceProfile, event domain.InteractionEvent, inc float64, now time.Time, kind productSignalKind) bool {
	var payload domain.ProductPayload
	if err := event.DecodePayload(&payload); err != nil {
		logger.Warn("skipping malformed product payload", "user_id", event.UserID, "event_type", event.Type, "error", err)
		return false
	}

	touched := false

	for _, c := range payload.Categories {
		if c == "" {
			continue
		}
		bumpWeight(p.Categories, c, inc)
		touched = true
	}
	if payload.Brand != "" {
		bumpWeight(p.Brands, payload.Brand, inc)
		touched = true
	}
	for _, v := range payload.Values {
		if v == "" {
			continue
		}
		bumpWeight(p.Values, v, inc)
		touched = true
	}
	if payload.Price > 0 {
		bumpPriceRange(p, payload.Price, inc, s.cfg.MaxPriceRanges)
		touched = true
	}

	// history updates need a product id; the weight updates above stand on
	// their own when it is missing
	if payload.ProductID != "" {
		switch kind {
		case productSignalView:
			pushViewed(p, payload.ProductID, now, s.cfg.MaxRecentlyViewed)
			touched = true
		case productSignalPurchase:
			pushPurchase(p, domain.PurchaseRecord{
				ProductID:   payload.ProductID,
				Categories:  payload.Categories,
				Brand:       payload.Brand,
				Price:       payload.Price,
				PurchasedAt: now,
			}, s.cfg.MaxPurchaseHistory)
			touched = true
		}
	} else if kind != productSignalCart {
		logger.Debug("product event without product_id, history skipped", "user_id", event.UserID, "event_type", event.Type)
	}

	return touched
}

func (s *Service) applyClick(p *domain.PreferenceProfile, event domain.InteractionEvent, target map[string]float64) bool {
	var payload domain.ClickPayload
	if err := event.DecodePayload(&payload); err != nil {
		logger.Warn("skipping malformed click payload", "user_id", event.UserID, "event_type", event.Type, "error", err)
		return false
	}
	if payload.Target == "" {
		return false
	}

	bumpWeight(target, payload.Target, s.cfg.ClickIncrement)
	return true
}

func (s *Service) applyFilter(p *domain.PreferenceProfile, event domain.InteractionEvent) bool {
	var payload domain.FilterPayload
	if err := event.DecodePayload(&payload); err != nil {
		logger.Warn("skipping malformed filter payload", "user_id", event.UserID, "error", err)
		return false
	}

	touched := false
	for dimension, value := range payload.Filters {
		if value == "" {
			continue
		}
		switch dimension {
		case "category":
			bumpWeight(p.Categories, value, s.cfg.FilterIncrement)
		case "brand":
			bumpWeight(p.Brands, value, s.cfg.FilterIncrement)
		default:
			bumpWeight(p.Values, value, s.cfg.FilterIncrement)
		}
		touched = true
	}
	return touched
}
