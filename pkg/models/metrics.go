package models

import "math"

// ComplexityLevel buckets cyclomatic complexity for reporting.
type ComplexityLevel string

const (
	ComplexitySimple      ComplexityLevel = "simple"       // CC <= 10
	ComplexityModerate    ComplexityLevel = "moderate"     // 11-20
	ComplexityComplex     ComplexityLevel = "complex"      // 21-50
	ComplexityVeryComplex ComplexityLevel = "very_complex" // > 50
)

// MaintainabilityStatus classifies the raw (unnormalized) maintainability index.
type MaintainabilityStatus string

const (
	MaintainabilityGood      MaintainabilityStatus = "good"      // raw >= 85
	MaintainabilityModerate  MaintainabilityStatus = "moderate"  // 65 <= raw < 85
	MaintainabilityDifficult MaintainabilityStatus = "difficult" // 0 <= raw < 65
	MaintainabilityCritical  MaintainabilityStatus = "critical"  // raw < 0
)

// LOCMetrics is the line-of-code partition of a source file.
// Program + Comment + Blank always equals Physical.
type LOCMetrics struct {
	Physical int `json:"physical"`
	Program  int `json:"program"`
	Comment  int `json:"comment"`
	Blank    int `json:"blank"`
}

// HalsteadMetrics represents Halstead software science metrics.
type HalsteadMetrics struct {
	OperatorsUnique int     `json:"operators_unique"` // n1: distinct operators
	OperandsUnique  int     `json:"operands_unique"`  // n2: distinct operands
	OperatorsTotal  int     `json:"operators_total"`  // N1: total operators
	OperandsTotal   int     `json:"operands_total"`   // N2: total operands
	Vocabulary      int     `json:"vocabulary"`       // n = n1 + n2
	Length          int     `json:"length"`           // N = N1 + N2
	Volume          float64 `json:"volume"`           // V = N * log2(n)
	Difficulty      float64 `json:"difficulty"`       // D = (n1/2) * (N2/max(1,n2))
	Effort          float64 `json:"effort"`           // E = D * V
	Time            float64 `json:"time"`             // T = E / 18 (seconds)
	Bugs            float64 `json:"bugs"`             // B = V / 3000
}

// NewHalsteadMetrics creates Halstead metrics from base counts and
// calculates the derived values. A vocabulary of one token or fewer yields
// zero volume so downstream maintainability math never sees NaN or Inf.
func NewHalsteadMetrics(operatorsUnique, operandsUnique, operatorsTotal, operandsTotal int) HalsteadMetrics {
	h := HalsteadMetrics{
		OperatorsUnique: operatorsUnique,
		OperandsUnique:  operandsUnique,
		OperatorsTotal:  operatorsTotal,
		OperandsTotal:   operandsTotal,
	}
	h.Vocabulary = operatorsUnique + operandsUnique
	h.Length = operatorsTotal + operandsTotal

	if h.Vocabulary > 1 {
		h.Volume = float64(h.Length) * math.Log2(float64(h.Vocabulary))
	}
	h.Difficulty = (float64(operatorsUnique) / 2.0) *
		(float64(operandsTotal) / math.Max(1, float64(operandsUnique)))
	h.Effort = h.Volume * h.Difficulty
	h.Time = h.Effort / 18.0
	h.Bugs = h.Volume / 3000.0
	return h
}

// CodeMetrics is the full lexical metric set for a single file. Valid is
// false when the file could not be read or holds binary content, in which
// case every numeric field is zero but the file stays in the result set.
type CodeMetrics struct {
	LOC        LOCMetrics      `json:"loc"`
	Halstead   HalsteadMetrics `json:"halstead"`
	Cyclomatic int             `json:"cyclomatic"`
	Level      ComplexityLevel `json:"complexity_level"`
	MIRaw      float64         `json:"mi_raw"`
	MI         float64         `json:"mi"` // normalized to [0,100]
	MIStatus   MaintainabilityStatus `json:"mi_status"`
	Valid      bool                  `json:"valid"`
}

// ClassifyComplexity maps a cyclomatic complexity value to its level.
func ClassifyComplexity(cc int) ComplexityLevel {
	switch {
	case cc <= 10:
		return ComplexitySimple
	case cc <= 20:
		return ComplexityModerate
	case cc <= 50:
		return ComplexityComplex
	default:
		return ComplexityVeryComplex
	}
}
