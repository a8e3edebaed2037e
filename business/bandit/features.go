package bandit

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"sort"

	"workflowAdvisor/domain"
)

// Feature keys produced by Encode.
const (
	FeatureBias              = "bias"
	FeatureAcquisitionType   = "acquisition_type"
	FeaturePhase             = "phase"
	FeatureValueScale        = "value_scale"
	FeatureComplexity        = "complexity"
	FeatureTimePressure      = "time_pressure"
	FeatureUserExperience    = "user_experience"
	FeatureHistoricalSuccess = "historical_success"
	FeatureDocumentLoad      = "document_load"

	extraFeaturePrefix = "x_"

	// neutral value for confidence inputs missing from a vector
	defaultFeatureValue = 0.5
)

// FeatureVector maps feature keys to values. Treat it as immutable once built;
// use Clone before handing it to anything that might keep it.
type FeatureVector map[string]float64

// Clone returns an independent copy.
func (fv FeatureVector) Clone() FeatureVector {
	if fv == nil {
		return nil
	}
	out := make(FeatureVector, len(fv))
	for k, v := range fv {
		out[k] = v
	}
	return out
}

// Equal reports structural equality.
func (fv FeatureVector) Equal(other FeatureVector) bool {
	if len(fv) != len(other) {
		return false
	}
	for k, v := range fv {
		ov, ok := other[k]
		if !ok || math.Float64bits(ov) != math.Float64bits(v) {
			return false
		}
	}
	return true
}

// Keys returns the feature keys in ascending order.
func (fv FeatureVector) Keys() []string {
	keys := make([]string, 0, len(fv))
	for k := range fv {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value for key, or def when the key is absent.
func (fv FeatureVector) Get(key string, def float64) float64 {
	if v, ok := fv[key]; ok {
		return v
	}
	return def
}

// Hash is the context fingerprint: FNV-64a over the sorted key/value pairs.
func (fv FeatureVector) Hash() uint64 {
	return fv.hashWithResolution(0)
}

// hashWithResolution snaps every value to a grid of the given step before
// hashing. A step <= 0 hashes the exact bit pattern.
func (fv FeatureVector) hashWithResolution(step float64) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	for _, k := range fv.Keys() {
		v := fv[k]
		if step > 0 {
			v = math.Round(v/step) * step
		}
		if v == 0 {
			v = 0 // fold -0 into +0
		}
		_, _ = h.Write([]byte(k))
		_, _ = h.Write([]byte{0})
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(v))
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}

// Encode maps an acquisition context onto a FeatureVector. It never fails:
// non-finite inputs are left out so the caller still gets a usable, partial
// vector, and "bias" is always present.
func Encode(actx domain.AcquisitionContext) FeatureVector {
	fv := FeatureVector{
		FeatureBias:            1.0,
		FeatureAcquisitionType: hashToUnit(categoryKey("type", actx.AcquisitionType)),
		FeaturePhase:           hashToUnit(categoryKey("phase", actx.Phase)),
	}

	if isFinite(actx.EstimatedValue) {
		fv[FeatureValueScale] = valueScale(actx.EstimatedValue)
	}
	putUnit(fv, FeatureComplexity, actx.Complexity)
	putUnit(fv, FeatureTimePressure, actx.TimePressure)
	putUnit(fv, FeatureUserExperience, actx.UserExperience)
	putUnit(fv, FeatureHistoricalSuccess, actx.HistoricalSuccessRate)
	fv[FeatureDocumentLoad] = documentLoad(actx.DocumentCount)

	for name, v := range actx.Extra {
		if name == "" || !isFinite(v) {
			continue
		}
		fv[extraFeaturePrefix+name] = v
	}

	return fv
}

func categoryKey(kind, label string) string {
	if label == "" {
		return ""
	}
	return kind + ":" + label
}

// hashToUnit deterministically hashes a string into [0, 1].
func hashToUnit(s string) float64 {
	if s == "" {
		return 0
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return float64(h.Sum32()) / float64(^uint32(0))
}

// valueScale compresses a monetary value into [0, 1] on a log scale;
// one billion and above saturate.
func valueScale(v float64) float64 {
	if v <= 0 {
		return 0
	}
	return clamp01(math.Log10(1+v) / 9.0)
}

func documentLoad(n int) float64 {
	if n <= 0 {
		return 0
	}
	return clamp01(float64(n) / 100.0)
}

func putUnit(fv FeatureVector, key string, v float64) {
	if !isFinite(v) {
		return
	}
	fv[key] = clamp01(v)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
