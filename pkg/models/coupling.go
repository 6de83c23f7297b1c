package models

// CouplingZone places a file relative to the main sequence in the
// abstractness/instability plane.
type CouplingZone string

const (
	// ZoneMainSequence covers distance < 0.2.
	ZoneMainSequence CouplingZone = "main_sequence"
	// ZoneBalanced covers 0.2 <= distance <= 0.4. Reported but not treated
	// as a problem zone.
	ZoneBalanced CouplingZone = "balanced"
	// ZoneOfPain is distance > 0.4 with low abstractness and low instability.
	ZoneOfPain CouplingZone = "zone_of_pain"
	// ZoneOfUselessness is distance > 0.4 with high abstractness and high
	// instability.
	ZoneOfUselessness CouplingZone = "zone_of_uselessness"
	// ZoneDrifting is distance > 0.4 that matches neither problem quadrant.
	ZoneDrifting CouplingZone = "drifting"
)

// CouplingMetrics is the structural analysis of a single file in a language
// with a class (or equivalent) concept.
type CouplingMetrics struct {
	Path         string       `json:"path"`
	Language     string       `json:"language"`
	Classes      int          `json:"classes"`
	Abstract     int          `json:"abstract"`   // abstract classes + interfaces
	Interfaces   int          `json:"interfaces"` // interface-like declarations
	Methods      int          `json:"methods"`
	Attributes   int          `json:"attributes"`
	Afferent     int          `json:"afferent_coupling"` // Ca: inbound
	Efferent     int          `json:"efferent_coupling"` // Ce: outbound
	Instability  float64      `json:"instability"`       // I = Ce / (Ce + Ca)
	Abstractness float64      `json:"abstractness"`      // A = abstract / max(1, classes)
	Distance     float64      `json:"distance"`          // D = |A + I - 1|
	Zone         CouplingZone `json:"zone"`
}

// CouplingReport aggregates structural metrics across all analyzable files.
type CouplingReport struct {
	Files           []CouplingMetrics `json:"files"`
	AverageDistance float64           `json:"average_distance"`
	ZoneCounts      map[CouplingZone]int `json:"zone_counts"`
	Recommendations []string          `json:"recommendations"`
}

// InZoneOfPain counts files classified in the zone of pain.
func (r *CouplingReport) InZoneOfPain() int {
	return r.ZoneCounts[ZoneOfPain]
}

// InZoneOfUselessness counts files classified in the zone of uselessness.
func (r *CouplingReport) InZoneOfUselessness() int {
	return r.ZoneCounts[ZoneOfUselessness]
}
