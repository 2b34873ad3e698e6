package symptom

import "time"

type WoundCondition string

const (
	WoundNormal    WoundCondition = "normal"
	WoundRedness   WoundCondition = "redness"
	WoundSwelling  WoundCondition = "swelling"
	WoundDischarge WoundCondition = "discharge"
	WoundInfection WoundCondition = "infection"
)

func (w WoundCondition) IsValid() bool {
	switch w {
	case WoundNormal, WoundRedness, WoundSwelling, WoundDischarge, WoundInfection:
		return true
	}
	return false
}

// Report is a single point-in-time observation of a patient's recovery
// signals. Reports are treated as immutable once validated; a patient
// update archives the previous current report rather than mutating it.
type Report struct {
	PainLevel      int            `json:"pain_level"`
	MobilityScore  *int           `json:"mobility_score,omitempty"`
	WoundCondition WoundCondition `json:"wound_condition"`
	Temperature    *float64       `json:"temperature,omitempty"`
	Notes          string         `json:"notes,omitempty"`
	ReportedAt     time.Time      `json:"reported_at"`
}

func (r *Report) Validate() error {
	if !ValidatePainLevel(r.PainLevel) {
		return ErrInvalidPainLevel
	}
	if !ValidateMobilityScore(r.MobilityScore) {
		return ErrInvalidMobilityScore
	}
	if !ValidateTemperature(r.Temperature) {
		return ErrInvalidTemperature
	}
	if !r.WoundCondition.IsValid() {
		return ErrInvalidWoundCondition
	}
	if r.ReportedAt.IsZero() {
		return ErrMissingReportedAt
	}
	return nil
}
