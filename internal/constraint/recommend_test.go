package constraint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendCategories(t *testing.T) {
	engine := NewRecommendationEngine(DefaultRecommendationTemplates())

	tests := []struct {
		name            string
		classification  Classification
		wantPrimary     EACCategory
		wantSecondary   EACCategory
		wantTertiary    *EACCategory
		wantPrimaryAsset string
	}{
		{
			name:             "transmission leads with dispatchable",
			classification:   ClassificationTransmission,
			wantPrimary:      CategoryDispatchable,
			wantSecondary:    CategoryConsistent,
			wantTertiary:     categoryPtr(CategoryVariable),
			wantPrimaryAsset: "battery storage",
		},
		{
			name:             "generation leads with consistent",
			classification:   ClassificationGeneration,
			wantPrimary:      CategoryConsistent,
			wantSecondary:    CategoryVariable,
			wantTertiary:     categoryPtr(CategoryDispatchable),
			wantPrimaryAsset: "energy efficiency",
		},
		{
			name:             "both stacks dispatchable first",
			classification:   ClassificationBoth,
			wantPrimary:      CategoryDispatchable,
			wantSecondary:    CategoryConsistent,
			wantTertiary:     categoryPtr(CategoryVariable),
			wantPrimaryAsset: "battery storage",
		},
		{
			name:             "unconstrained has no tertiary",
			classification:   ClassificationUnconstrained,
			wantPrimary:      CategoryConsistent,
			wantSecondary:    CategoryVariable,
			wantTertiary:     nil,
			wantPrimaryAsset: "energy efficiency",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := engine.Recommend(ZoneClassification{
				Zone:           "Z",
				Classification: tt.classification,
			})

			assert.Equal(t, tt.classification, rec.Classification)
			assert.Equal(t, tt.wantPrimary, rec.Primary.Category)
			assert.Equal(t, tt.wantSecondary, rec.Secondary.Category)
			assert.NotEmpty(t, rec.Rationale)
			assert.Contains(t, rec.Primary.Assets, tt.wantPrimaryAsset)

			if tt.wantTertiary == nil {
				assert.Nil(t, rec.Tertiary)
			} else {
				require.NotNil(t, rec.Tertiary)
				assert.Equal(t, *tt.wantTertiary, rec.Tertiary.Category)
			}
		})
	}
}

func TestRecommendDerivedMetrics(t *testing.T) {
	engine := NewRecommendationEngine(DefaultRecommendationTemplates())

	rec := engine.Recommend(ZoneClassification{
		Zone:           "Z",
		Classification: ClassificationTransmission,
		Metrics: ZoneMetrics{
			HourCount:         8760,
			CongestedHoursPct: 0.25,
			MeanAbsCongestion: 4.2,
		},
	})

	assert.InDelta(t, 2190.0, rec.AnnualConstrainedHours, 1e-9)
	assert.InDelta(t, 4.2, rec.CongestionValuePerMWh, 1e-9)
}

func TestRecommendUnknownClassificationFallsBack(t *testing.T) {
	engine := NewRecommendationEngine(DefaultRecommendationTemplates())

	rec := engine.Recommend(ZoneClassification{
		Zone:           "Z",
		Classification: Classification(99),
	})

	// Unmapped values get the unconstrained template, never a panic
	assert.Equal(t, CategoryConsistent, rec.Primary.Category)
	assert.Nil(t, rec.Tertiary)
}

func categoryPtr(c EACCategory) *EACCategory {
	return &c
}
