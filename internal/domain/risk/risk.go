package risk

import (
	"time"

	"github.com/google/uuid"
)

type Level string

const (
	LevelLow      Level = "low"
	LevelModerate Level = "moderate"
	LevelHigh     Level = "high"
	LevelCritical Level = "critical"
)

func (l Level) IsValid() bool {
	switch l {
	case LevelLow, LevelModerate, LevelHigh, LevelCritical:
		return true
	}
	return false
}

type Urgency string

const (
	UrgencyLow       Urgency = "low"
	UrgencyMedium    Urgency = "medium"
	UrgencyHigh      Urgency = "high"
	UrgencyImmediate Urgency = "immediate"
)

type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// SeverityFor maps a protocol rule's declared risk level to the severity
// of the factor it emits.
func SeverityFor(l Level) Severity {
	switch l {
	case LevelLow:
		return SeverityMild
	case LevelModerate:
		return SeverityModerate
	default:
		return SeveritySevere
	}
}

type FactorType string

const (
	FactorPain         FactorType = "pain"
	FactorMobility     FactorType = "mobility"
	FactorWound        FactorType = "wound"
	FactorTemperature  FactorType = "temperature"
	FactorProtocolRule FactorType = "protocol_rule"
)

// Factor is one contributing finding of a risk assessment.
type Factor struct {
	ID                   string     `json:"id"`
	Type                 FactorType `json:"type"`
	Severity             Severity   `json:"severity"`
	Description          string     `json:"description"`
	ClinicalSignificance string     `json:"clinical_significance"`
	GuidelineRef         string     `json:"guideline_ref,omitempty"`
	DayDeviation         *float64   `json:"day_deviation,omitempty"`
}

// Assessment is the structured output of one engine run. It is produced
// fresh on every call and retained only in the engine's capped history.
type Assessment struct {
	ID                uuid.UUID `json:"id"`
	PatientID         string    `json:"patient_id"`
	SurgeryType       string    `json:"surgery_type"`
	RecoveryDay       int       `json:"recovery_day"`
	OverallRiskLevel  Level     `json:"overall_risk_level"`
	Factors           []Factor  `json:"factors"`
	Recommendations   []string  `json:"recommendations"`
	Urgency           Urgency   `json:"urgency"`
	AssessedAt        time.Time `json:"assessed_at"`
	NextReviewInHours int       `json:"next_review_in_hours"`
}
