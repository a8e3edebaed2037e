package bandit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workflowAdvisor/domain"
)

func sampleContext() domain.AcquisitionContext {
	return domain.AcquisitionContext{
		AcquisitionType:       "sole_source",
		Phase:                 "solicitation",
		EstimatedValue:        250000,
		Complexity:            0.4,
		TimePressure:          0.7,
		UserExperience:        0.3,
		HistoricalSuccessRate: 0.8,
		DocumentCount:         12,
		Extra:                 map[string]float64{"clause_count": 0.25},
	}
}

func TestEncode_Deterministic(t *testing.T) {
	actx := sampleContext()

	first := Encode(actx)
	for i := 0; i < 50; i++ {
		again := Encode(actx)
		require.True(t, first.Equal(again), "iteration %d", i)
		require.Equal(t, first.Hash(), again.Hash())
	}
}

func TestEncode_KeySetStableForShape(t *testing.T) {
	a := Encode(sampleContext())

	other := sampleContext()
	other.AcquisitionType = "competitive"
	other.EstimatedValue = 10
	other.Complexity = 0.9
	b := Encode(other)

	assert.Equal(t, a.Keys(), b.Keys())
	assert.Contains(t, a, "x_clause_count")
	assert.Equal(t, 1.0, a[FeatureBias])
}

func TestEncode_ClampsAndScales(t *testing.T) {
	fv := Encode(domain.AcquisitionContext{
		EstimatedValue: -5,
		Complexity:     1.7,
		TimePressure:   -0.2,
		DocumentCount:  1000,
	})

	assert.Equal(t, 0.0, fv[FeatureValueScale])
	assert.Equal(t, 1.0, fv[FeatureComplexity])
	assert.Equal(t, 0.0, fv[FeatureTimePressure])
	assert.Equal(t, 1.0, fv[FeatureDocumentLoad])
	assert.Equal(t, 0.0, fv[FeatureAcquisitionType], "empty category encodes to 0")

	big := Encode(domain.AcquisitionContext{EstimatedValue: 1e12})
	assert.Equal(t, 1.0, big[FeatureValueScale])
}

func TestEncode_MalformedInputYieldsPartialVector(t *testing.T) {
	fv := Encode(domain.AcquisitionContext{
		AcquisitionType:       "idiq",
		EstimatedValue:        math.NaN(),
		Complexity:            math.Inf(1),
		HistoricalSuccessRate: math.NaN(),
		Extra:                 map[string]float64{"bad": math.Inf(-1), "": 1, "ok": 2},
	})

	require.NotEmpty(t, fv)
	assert.NotContains(t, fv, FeatureValueScale)
	assert.NotContains(t, fv, FeatureComplexity)
	assert.NotContains(t, fv, FeatureHistoricalSuccess)
	assert.NotContains(t, fv, "x_bad")
	assert.NotContains(t, fv, "x_")
	assert.Equal(t, 2.0, fv["x_ok"])
	assert.Contains(t, fv, FeatureBias)
}

func TestHash_DistinguishesContextsOfSameSize(t *testing.T) {
	a := FeatureVector{"complexity": 0.2, "time_pressure": 0.9}
	b := FeatureVector{"complexity": 0.9, "time_pressure": 0.2}
	c := FeatureVector{"complexity": 0.2, "user_experience": 0.9}

	assert.NotEqual(t, a.Hash(), b.Hash(), "swapped values must not collide")
	assert.NotEqual(t, a.Hash(), c.Hash(), "different keys must not collide")
}

func TestHash_IndependentOfInsertionOrder(t *testing.T) {
	a := FeatureVector{}
	a["z"] = 1
	a["a"] = 2
	a["m"] = 3

	b := FeatureVector{"m": 3, "a": 2, "z": 1}

	assert.Equal(t, a.Hash(), b.Hash())
}

func TestHash_ResolutionBucketsNearbyValues(t *testing.T) {
	a := FeatureVector{"complexity": 0.41}
	b := FeatureVector{"complexity": 0.44}
	c := FeatureVector{"complexity": 0.61}

	assert.NotEqual(t, a.Hash(), b.Hash())
	assert.Equal(t, a.hashWithResolution(0.1), b.hashWithResolution(0.1))
	assert.NotEqual(t, a.hashWithResolution(0.1), c.hashWithResolution(0.1))
}

func TestHash_NegativeZeroFoldsIntoZero(t *testing.T) {
	a := FeatureVector{"k": 0}
	b := FeatureVector{"k": math.Copysign(0, -1)}
	assert.Equal(t, a.Hash(), b.Hash())
}

func TestFeatureVector_CloneIsIndependent(t *testing.T) {
	fv := Encode(sampleContext())
	cp := fv.Clone()
	cp[FeatureBias] = 42

	assert.Equal(t, 1.0, fv[FeatureBias])
	assert.Nil(t, FeatureVector(nil).Clone())
}
