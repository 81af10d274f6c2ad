package duality

// Severity describes the severity tier of incoming damage.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityMinor
	SeverityMajor
	SeveritySevere
)

func (s Severity) String() string {
	switch s {
	case SeverityMinor:
		return "Minor"
	case SeverityMajor:
		return "Major"
	case SeveritySevere:
		return "Severe"
	default:
		return "None"
	}
}

// DamageOutcome is the result of pushing raw damage through the threshold
// table: how many hit points the target loses and how much stress it gains.
type DamageOutcome struct {
	Severity     Severity
	Mitigated    int // damage remaining after armor
	HPLost       int
	StressGained int
}

// ThresholdRule converts raw rolled damage and a target's armor into hit-point
// loss and stress gain. The rule is a collaborator so campaign variants can
// swap the table without touching resolution plumbing.
type ThresholdRule interface {
	Resolve(raw, armor int) DamageOutcome
}

// Default damage thresholds for the standard rule.
const (
	DefaultMajorThreshold  = 5
	DefaultSevereThreshold = 10
)

// StandardThresholds is the baseline threshold table.
//
// Armor subtracts flatly from raw damage. Fully absorbed hits still rattle
// the target for one stress; otherwise the mitigated amount maps to one, two,
// or three hit points against the major and severe thresholds.
type StandardThresholds struct {
	Major  int
	Severe int
}

// NewStandardThresholds returns the rule with the default table.
func NewStandardThresholds() StandardThresholds {
	return StandardThresholds{
		Major:  DefaultMajorThreshold,
		Severe: DefaultSevereThreshold,
	}
}

// Resolve implements ThresholdRule.
func (t StandardThresholds) Resolve(raw, armor int) DamageOutcome {
	if armor < 0 {
		armor = 0
	}
	mitigated := raw - armor
	if mitigated < 0 {
		mitigated = 0
	}

	if raw <= 0 {
		return DamageOutcome{Severity: SeverityNone}
	}
	if mitigated == 0 {
		// Absorbed entirely by armor. The impact still costs a stress.
		return DamageOutcome{Severity: SeverityNone, StressGained: 1}
	}

	switch {
	case mitigated >= t.Severe:
		return DamageOutcome{Severity: SeveritySevere, Mitigated: mitigated, HPLost: 3, StressGained: 1}
	case mitigated >= t.Major:
		return DamageOutcome{Severity: SeverityMajor, Mitigated: mitigated, HPLost: 2}
	default:
		return DamageOutcome{Severity: SeverityMinor, Mitigated: mitigated, HPLost: 1}
	}
}
