package estimate

import (
	"testing"

	"github.com/alexanderramin/costwise/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWeights() domain.WeightTable {
	return domain.WeightTable{
		domain.TableProbability: {"LIKELY": 0.4, "RARE": 0.1},
		domain.TableSeverity:    {"MAJOR": 0.5, "MINOR": 0.2},
	}
}

func TestExposure_WorkedExample(t *testing.T) {
	exp, err := Exposure(10000, 0.4, 0.5)
	require.NoError(t, err)
	assert.InDelta(t, 2000.0, exp, 1e-9)
}

func TestExposure_RejectsOutOfRange(t *testing.T) {
	_, err := Exposure(-5, 0.4, 0.5)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "risk_cost", ve.Field)

	_, err = Exposure(100, 1.2, 0.5)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "probability_weight", ve.Field)
}

func TestRiskExposure_ResolvesCodes(t *testing.T) {
	r := &domain.Risk{ID: 1, RiskCost: 10000, ProbabilityCode: "LIKELY", SeverityCode: "MAJOR"}
	exp, err := RiskExposure(r, testWeights())
	require.NoError(t, err)
	assert.InDelta(t, 2000.0, exp, 1e-9)
}

func TestRiskExposure_UnknownCodeIsUnresolved(t *testing.T) {
	tests := []struct {
		name  string
		risk  domain.Risk
		table domain.ReferenceTable
	}{
		{"unknown probability", domain.Risk{RiskCost: 1, ProbabilityCode: "NOPE", SeverityCode: "MAJOR"}, domain.TableProbability},
		{"missing severity", domain.Risk{RiskCost: 1, ProbabilityCode: "RARE"}, domain.TableSeverity},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := RiskExposure(&tc.risk, testWeights())
			var ue *domain.UnresolvedWeightError
			require.ErrorAs(t, err, &ue)
			assert.Equal(t, tc.table, ue.Table)
		})
	}
}
