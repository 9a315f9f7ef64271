package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeanRating(t *testing.T) {
	tests := []struct {
		name     string
		members  []*int
		expected *float64
	}{
		{name: "all nil yields nil", members: []*int{nil, nil}, expected: nil},
		{name: "single member", members: []*int{intPtr(4)}, expected: floatPtr(4)},
		{name: "nil members are skipped", members: []*int{intPtr(3), nil, intPtr(5)}, expected: floatPtr(4)},
		{name: "fractional mean", members: []*int{intPtr(3), intPtr(4)}, expected: floatPtr(3.5)},
		{name: "zero ratings still count", members: []*int{intPtr(0), intPtr(4)}, expected: floatPtr(2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := meanRating(tt.members...)
			if tt.expected == nil {
				assert.Nil(t, result)
			} else {
				require.NotNil(t, result)
				assert.InDelta(t, *tt.expected, *result, 1e-9)
			}
		})
	}
}

func TestScoreCategories(t *testing.T) {
	r := Ratings{
		Revenue:   intPtr(3),
		MarketCap: intPtr(4),

		PEG: intPtr(5),

		PEIndustry: intPtr(2),
		RevenueMC:  intPtr(1),
		EVEBIT:     intPtr(3),
		CMPFCF:     intPtr(2),

		ROIC: intPtr(5),
		ROE:  intPtr(4),

		NetDebtProfit: intPtr(4),
		QuickRatio:    intPtr(2),
	}

	cs := ScoreCategories(r)

	require.NotNil(t, cs.Scale)
	assert.InDelta(t, 3.5, *cs.Scale, 1e-9)
	// CAGR is missing, growth falls back to PEG alone.
	require.NotNil(t, cs.Growth)
	assert.InDelta(t, 5, *cs.Growth, 1e-9)
	require.NotNil(t, cs.Value)
	assert.InDelta(t, 2, *cs.Value, 1e-9)
	require.NotNil(t, cs.Quality)
	assert.InDelta(t, 4.5, *cs.Quality, 1e-9)
	assert.Nil(t, cs.Risk)
	require.NotNil(t, cs.Balance)
	assert.InDelta(t, 3, *cs.Balance, 1e-9)
}

func TestFinalScore(t *testing.T) {
	tests := []struct {
		name     string
		cs       CategoryScores
		expected *float64
	}{
		{
			name:     "all categories missing",
			cs:       CategoryScores{},
			expected: nil,
		},
		{
			name: "all categories present",
			cs: CategoryScores{
				Scale:   floatPtr(3),
				Growth:  floatPtr(4),
				Value:   floatPtr(2),
				Quality: floatPtr(5),
				Risk:    floatPtr(3),
				Balance: floatPtr(4),
			},
			// 0.15*3 + 0.15*4 + 0.25*2 + 0.25*5 + 0.10*3 + 0.10*4
			expected: floatPtr(3.5),
		},
		{
			name: "missing categories renormalize",
			cs: CategoryScores{
				Value:   floatPtr(4),
				Quality: floatPtr(2),
			},
			expected: floatPtr(3),
		},
		{
			name: "single category dominates",
			cs: CategoryScores{
				Risk: floatPtr(1.5),
			},
			expected: floatPtr(1.5),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FinalScore(tt.cs)
			if tt.expected == nil {
				assert.Nil(t, result)
			} else {
				require.NotNil(t, result)
				assert.InDelta(t, *tt.expected, *result, 1e-9)
			}
		})
	}
}
