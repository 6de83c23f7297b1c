// Package maintain derives the Maintainability Index from lexical metrics.
package maintain

import (
	"math"

	"github.com/kersley/repogauge/pkg/models"
)

// Score fills the maintainability fields of metrics in place. The raw index
// follows the classic three-term formula with a comment-weight bonus:
//
//	raw = 171 - 5.2*ln(V) - 0.23*CC - 16.2*ln(LOCpro) + 50*sin(sqrt(2.4*CR))
//
// where V and LOCpro are floored at 1 so the logarithms stay finite, and CR
// is the comment-to-program line ratio. The normalized value rescales raw
// onto [0,100] and clips negatives to zero; classification happens on the
// raw value so files that fall below zero still surface as critical.
func Score(m *models.CodeMetrics) {
	volume := math.Max(1, m.Halstead.Volume)
	locProgram := math.Max(1, float64(m.LOC.Program))
	commentRatio := float64(m.LOC.Comment) / math.Max(1, float64(m.LOC.Program))

	raw := 171 -
		5.2*math.Log(volume) -
		0.23*float64(m.Cyclomatic) -
		16.2*math.Log(locProgram) +
		50*math.Sin(math.Sqrt(2.4*commentRatio))

	m.MIRaw = raw
	m.MI = math.Max(0, raw*100/171)
	m.MIStatus = Classify(raw)
}

// Classify buckets a raw maintainability index.
func Classify(raw float64) models.MaintainabilityStatus {
	switch {
	case raw >= 85:
		return models.MaintainabilityGood
	case raw >= 65:
		return models.MaintainabilityModerate
	case raw >= 0:
		return models.MaintainabilityDifficult
	default:
		return models.MaintainabilityCritical
	}
}
