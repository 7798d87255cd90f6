package domain

// CombineMode declares how individual scoring functions are combined with
// each other.
type CombineMode string

const (
	CombineSum      CombineMode = "sum"
	CombineMultiply CombineMode = "multiply"
	CombineAvg      CombineMode = "avg"
	CombineMax      CombineMode = "max"
	CombineMin      CombineMode = "min"
)

// BoostMode declares how the combined function score is folded into the
// base relevance score.
type BoostMode string

const (
	BoostMultiply BoostMode = "multiply"
	BoostReplace  BoostMode = "replace"
	BoostSum      BoostMode = "sum"
	BoostAvg      BoostMode = "avg"
	BoostMax      BoostMode = "max"
	BoostMin      BoostMode = "min"
)

// SearchQuery is the base query handed to the composer. The composer never
// mutates it; callers may share one instance across requests.
type SearchQuery struct {
	Query    string            `json:"query"`
	Filters  map[string]string `json:"filters,omitempty"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// Clone returns a deep copy.
func (q SearchQuery) Clone() SearchQuery {
	out := q
	if q.Filters != nil {
		out.Filters = make(map[string]string, len(q.Filters))
		for k, v := range q.Filters {
			out.Filters[k] = v
		}
	}
	return out
}

// BoostPredicate is a (filter, weight) pair raising the rank of matching
// documents.
type BoostPredicate struct {
	Field  string  `json:"field"`
	Value  string  `json:"value"`
	Weight float64 `json:"weight"`
}

// FieldValueFactor scales relevance by a numeric document field, optionally
// through a modifier (sqrt, log1p).
type FieldValueFactor struct {
	Field    string  `json:"field"`
	Factor   float64 `json:"factor"`
	Modifier string  `json:"modifier,omitempty"`
}

// DecayFunction is a time-decay keyed to a date field.
type DecayFunction struct {
	Field  string  `json:"field"`
	Scale  string  `json:"scale"`
	Offset string  `json:"offset,omitempty"`
	Decay  float64 `json:"decay"`
}

// BoostFunction is one scoring function: exactly one of the three shapes is
// set.
type BoostFunction struct {
	Predicate        *BoostPredicate   `json:"predicate,omitempty"`
	FieldValueFactor *FieldValueFactor `json:"field_value_factor,omitempty"`
	Decay            *DecayFunction    `json:"decay,omitempty"`
	Weight           float64           `json:"weight"`
}

func (f BoostFunction) clone() BoostFunction {
	out := f
	if f.Predicate != nil {
		p := *f.Predicate
		out.Predicate = &p
	}
	if f.FieldValueFactor != nil {
		fv := *f.FieldValueFactor
		out.FieldValueFactor = &fv
	}
	if f.Decay != nil {
		d := *f.Decay
		out.Decay = &d
	}
	return out
}

// ScoringProfile is a named, mostly-static specification of field boosts and
// scoring functions. Profiles are selected, not mutated, per request; the
// composer copies one before extending it.
type ScoringProfile struct {
	Name             string             `json:"name"`
	FieldBoosts      map[string]float64 `json:"field_boosts,omitempty"`
	Functions        []BoostFunction    `json:"functions,omitempty"`
	ScoreCombination CombineMode        `json:"score_combination"`
	BoostCombination BoostMode          `json:"boost_combination"`
}

// Clone returns a deep copy.
func (p ScoringProfile) Clone() ScoringProfile {
	out := p
	if p.FieldBoosts != nil {
		out.FieldBoosts = make(map[string]float64, len(p.FieldBoosts))
		for k, v := range p.FieldBoosts {
			out.FieldBoosts[k] = v
		}
	}
	if p.Functions != nil {
		out.Functions = make([]BoostFunction, len(p.Functions))
		for i, f := range p.Functions {
			out.Functions[i] = f.clone()
		}
	}
	return out
}

// BoostedQuery is the scored-query specification consumed by the external
// full-text index.
type BoostedQuery struct {
	Base             SearchQuery        `json:"base"`
	Profile          string             `json:"profile"`
	FieldBoosts      map[string]float64 `json:"field_boosts,omitempty"`
	Functions        []BoostFunction    `json:"functions,omitempty"`
	ScoreCombination CombineMode        `json:"score_combination"`
	BoostCombination BoostMode          `json:"boost_combination"`
}

// SearchResult is the external index's answer: ordered document ids plus the
// total hit count and an opaque continuation cursor.
type SearchResult struct {
	IDs    []string `json:"ids"`
	Total  int64    `json:"total"`
	Cursor string   `json:"cursor,omitempty"`
}

// CategorySimilarity is one entry of the static related-category table.
type CategorySimilarity struct {
	Category   string  `json:"category"`
	Similarity float64 `json:"similarity"`
}
