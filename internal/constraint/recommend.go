package constraint

// RecommendationTemplate is the fixed guidance for one classification
// category.
type RecommendationTemplate struct {
	Rationale string         `json:"rationale"`
	Primary   ResourceBlock  `json:"primary"`
	Secondary ResourceBlock  `json:"secondary"`
	Tertiary  *ResourceBlock `json:"tertiary,omitempty"`
}

// RecommendationTemplates holds one template per classification
// category. Passed into the engine rather than kept as hidden package
// state so deployments can localize asset mixes.
type RecommendationTemplates struct {
	Transmission  RecommendationTemplate `json:"transmission"`
	Generation    RecommendationTemplate `json:"generation"`
	Both          RecommendationTemplate `json:"both"`
	Unconstrained RecommendationTemplate `json:"unconstrained"`
}

// DefaultRecommendationTemplates returns the standard category table
func DefaultRecommendationTemplates() RecommendationTemplates {
	return RecommendationTemplates{
		Transmission: RecommendationTemplate{
			Rationale: "Congestion pricing indicates the zone is import-limited during stressed hours. " +
				"Resources that shift or shave load at the constrained interface deliver the most value.",
			Primary: ResourceBlock{
				Category: CategoryDispatchable,
				Reason:   "Dispatchable resources relieve the constrained interface exactly when congestion prices spike.",
				Assets:   []string{"battery storage", "demand response"},
			},
			Secondary: ResourceBlock{
				Category: CategoryConsistent,
				Reason:   "Persistent load reduction lowers baseline flows across the constraint.",
				Assets:   []string{"energy efficiency", "weatherization"},
			},
			Tertiary: &ResourceBlock{
				Category: CategoryVariable,
				Reason:   "Local generation offsets imports during daylight hours.",
				Assets:   []string{"solar"},
			},
		},
		Generation: RecommendationTemplate{
			Rationale: "Energy-component pricing indicates local supply scarcity rather than delivery limits. " +
				"Reducing and diversifying underlying energy demand addresses the root driver.",
			Primary: ResourceBlock{
				Category: CategoryConsistent,
				Reason:   "Structural demand reduction directly offsets scarce local supply.",
				Assets:   []string{"energy efficiency", "weatherization", "combined heat and power"},
			},
			Secondary: ResourceBlock{
				Category: CategoryVariable,
				Reason:   "New variable generation expands the local supply base.",
				Assets:   []string{"solar", "wind"},
			},
			Tertiary: &ResourceBlock{
				Category: CategoryDispatchable,
				Reason:   "Storage and demand response firm variable output during scarcity hours.",
				Assets:   []string{"battery storage", "demand response"},
			},
		},
		Both: RecommendationTemplate{
			Rationale: "Both delivery limits and local supply scarcity price into this zone. " +
				"A stacked portfolio captures transmission and energy value simultaneously.",
			Primary: ResourceBlock{
				Category: CategoryDispatchable,
				Reason:   "Dispatchable assets monetize both congestion relief and energy arbitrage.",
				Assets:   []string{"battery storage", "demand response"},
			},
			Secondary: ResourceBlock{
				Category: CategoryConsistent,
				Reason:   "Persistent reduction lowers exposure on both drivers.",
				Assets:   []string{"energy efficiency", "weatherization"},
			},
			Tertiary: &ResourceBlock{
				Category: CategoryVariable,
				Reason:   "Local variable generation supplements imports and scarce supply.",
				Assets:   []string{"solar", "wind"},
			},
		},
		Unconstrained: RecommendationTemplate{
			Rationale: "No material constraint signal in this zone's pricing. " +
				"Low-cost efficiency measures remain worthwhile; locational value is limited.",
			Primary: ResourceBlock{
				Category: CategoryConsistent,
				Reason:   "Efficiency delivers value independent of locational pricing.",
				Assets:   []string{"energy efficiency"},
			},
			Secondary: ResourceBlock{
				Category: CategoryVariable,
				Reason:   "Variable generation earns energy value without a congestion premium.",
				Assets:   []string{"solar"},
			},
		},
	}
}

// RecommendationEngine maps zone classifications to resource-deployment
// guidance. Pure lookup over the template table; no statistics.
type RecommendationEngine struct {
	templates RecommendationTemplates
}

// NewRecommendationEngine creates a recommendation engine with the
// given templates
func NewRecommendationEngine(templates RecommendationTemplates) *RecommendationEngine {
	return &RecommendationEngine{templates: templates}
}

// Recommend builds the DER recommendation for one classified zone. An
// unmapped classification value falls back to the unconstrained
// template rather than failing.
func (e *RecommendationEngine) Recommend(zc ZoneClassification) Recommendation {
	var tpl RecommendationTemplate
	switch zc.Classification {
	case ClassificationTransmission:
		tpl = e.templates.Transmission
	case ClassificationGeneration:
		tpl = e.templates.Generation
	case ClassificationBoth:
		tpl = e.templates.Both
	case ClassificationUnconstrained:
		tpl = e.templates.Unconstrained
	default:
		tpl = e.templates.Unconstrained
	}

	return Recommendation{
		Zone:           zc.Zone,
		Classification: zc.Classification,
		Rationale:      tpl.Rationale,
		Primary:        tpl.Primary,
		Secondary:      tpl.Secondary,
		Tertiary:       tpl.Tertiary,

		AnnualConstrainedHours: zc.Metrics.CongestedHoursPct * float64(zc.Metrics.HourCount),
		CongestionValuePerMWh:  zc.Metrics.MeanAbsCongestion,
	}
}
