package boost

import "marketSearch/domain"

// minIntentConfidence is the floor below which extracted entities are too
// noisy to act on.
const minIntentConfidence = 0.5

// entityFields maps entity types to the index fields their predicates
// target. Unknown types are skipped.
var entityFields = map[string]string{
	"category":  "category",
	"brand":     "brand",
	"attribute": "attributes",
	"color":     "attributes.color",
	"material":  "attributes.material",
}

// intentPredicates turns extracted query intent into boost functions,
// weighting each entity by its confidence. Low-confidence entities are
// dropped rather than down-weighted.
func intentPredicates(intent *domain.QueryIntent) []domain.BoostFunction {
	if intent == nil {
		return nil
	}
	var fns []domain.BoostFunction
	for _, e := range intent.Entities {
		if e.Confidence < minIntentConfidence {
			continue
		}
		field, ok := entityFields[e.Type]
		if !ok {
			continue
		}
		fns = append(fns, domain.BoostFunction{
			Predicate: &domain.BoostPredicate{
				Field:  field,
				Value:  e.Value,
				Weight: e.Confidence,
			},
			Weight: 1.0 + e.Confidence,
		})
	}
	return fns
}
