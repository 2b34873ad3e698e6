package protocol

import (
	"github.com/recoverly/riskcore/internal/domain/risk"
	"github.com/recoverly/riskcore/internal/domain/symptom"
)

// RuleConditionKind is the closed set of conditions a protocol rule can
// express. Conditions are structured variants evaluated by dispatch; the
// rule's Description exists purely for display and reporting.
type RuleConditionKind string

const (
	ConditionPainAbove        RuleConditionKind = "pain_above"
	ConditionTemperatureAbove RuleConditionKind = "temperature_above"
	ConditionMobilityBelow    RuleConditionKind = "mobility_below"
)

func (k RuleConditionKind) IsValid() bool {
	switch k {
	case ConditionPainAbove, ConditionTemperatureAbove, ConditionMobilityBelow:
		return true
	}
	return false
}

type RuleCondition struct {
	Kind      RuleConditionKind `json:"kind"`
	Threshold float64           `json:"threshold"`
	// AfterDay gates pain/mobility conditions to later recovery days.
	// Ignored for temperature conditions.
	AfterDay int `json:"after_day,omitempty"`
}

// Matches evaluates the condition against the current report on the given
// recovery day. Absent optional vitals never match.
func (c RuleCondition) Matches(report symptom.Report, day int) bool {
	switch c.Kind {
	case ConditionPainAbove:
		return day > c.AfterDay && float64(report.PainLevel) > c.Threshold
	case ConditionTemperatureAbove:
		return report.Temperature != nil && *report.Temperature > c.Threshold
	case ConditionMobilityBelow:
		return day > c.AfterDay && report.MobilityScore != nil && float64(*report.MobilityScore) < c.Threshold
	}
	return false
}

// RiskRule is a protocol-specific conditional finding. MinDay/MaxDay form
// an optional inclusive applicability window; a rule without a window
// applies on every recovery day.
type RiskRule struct {
	ID          string        `json:"id"`
	Condition   RuleCondition `json:"condition"`
	Description string        `json:"description"`
	Level       risk.Level    `json:"level"`
	Action      string        `json:"action"`
	MinDay      *int          `json:"min_day,omitempty"`
	MaxDay      *int          `json:"max_day,omitempty"`
}
