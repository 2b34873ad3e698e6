package protocol

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/recoverly/riskcore/internal/domain"
	"github.com/recoverly/riskcore/internal/domain/patient"
)

// Range is an inclusive expected-value band on the 0-10 clinical scales.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

func (r Range) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// RecoveryPoint describes the expected state on one post-operative day.
// The curve is sparse; days between points are interpolated.
type RecoveryPoint struct {
	Day              int      `json:"day"`
	ExpectedPain     Range    `json:"expected_pain"`
	ExpectedMobility *Range   `json:"expected_mobility,omitempty"`
	WarningSigns     []string `json:"warning_signs,omitempty"`
	Complications    []string `json:"complications,omitempty"`
}

type Metadata struct {
	DisplayName         string   `json:"display_name"`
	Description         string   `json:"description"`
	TypicalDurationDays int      `json:"typical_duration_days"`
	CommonComplications []string `json:"common_complications,omitempty"`
	WarningSigns        []string `json:"warning_signs,omitempty"`
}

// SurgeryProtocol is the per-surgery-type reference data the assessment
// engine evaluates patients against: an expected recovery curve plus a
// set of day-windowed risk rules.
type SurgeryProtocol struct {
	ID            string              `json:"id"`
	SurgeryType   patient.SurgeryType `json:"surgery_type"`
	Metadata      Metadata            `json:"metadata"`
	RecoveryCurve []RecoveryPoint     `json:"recovery_curve"`
	RiskRules     []RiskRule          `json:"risk_rules"`
	IsActive      bool                `json:"is_active"`
	Version       string              `json:"version"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

type NewProtocolParams struct {
	ID            string
	SurgeryType   patient.SurgeryType
	Metadata      Metadata
	RecoveryCurve []RecoveryPoint
	RiskRules     []RiskRule
	Version       string
}

func New(params NewProtocolParams) (*SurgeryProtocol, error) {
	now := time.Now()
	p := &SurgeryProtocol{
		ID:            params.ID,
		SurgeryType:   params.SurgeryType,
		Metadata:      params.Metadata,
		RecoveryCurve: params.RecoveryCurve,
		RiskRules:     params.RiskRules,
		IsActive:      true,
		Version:       params.Version,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	sort.Slice(p.RecoveryCurve, func(i, j int) bool {
		return p.RecoveryCurve[i].Day < p.RecoveryCurve[j].Day
	})
	return p, nil
}

// Validate collects every violated invariant into one joined error.
func (p *SurgeryProtocol) Validate() error {
	var errs []string

	if p.ID == "" {
		errs = append(errs, "id is required")
	}
	if !p.SurgeryType.IsValid() {
		errs = append(errs, fmt.Sprintf("unknown surgery type %q", p.SurgeryType))
	}
	if p.Metadata.DisplayName == "" {
		errs = append(errs, "metadata.display_name is required")
	}
	if p.Metadata.Description == "" {
		errs = append(errs, "metadata.description is required")
	}
	if p.Metadata.TypicalDurationDays <= 0 {
		errs = append(errs, "metadata.typical_duration_days must be positive")
	}

	if len(p.RecoveryCurve) == 0 {
		errs = append(errs, "recovery curve must have at least one point")
	}
	for i, pt := range p.RecoveryCurve {
		if pt.Day < 0 {
			errs = append(errs, fmt.Sprintf("curve point %d: day must be non-negative", i))
		}
		if pt.ExpectedPain.Min < 0 || pt.ExpectedPain.Max > 10 || pt.ExpectedPain.Min > pt.ExpectedPain.Max {
			errs = append(errs, fmt.Sprintf("curve point %d: invalid expected pain range [%d,%d]",
				i, pt.ExpectedPain.Min, pt.ExpectedPain.Max))
		}
		if m := pt.ExpectedMobility; m != nil && (m.Min < 0 || m.Max > 10 || m.Min > m.Max) {
			errs = append(errs, fmt.Sprintf("curve point %d: invalid expected mobility range [%d,%d]",
				i, m.Min, m.Max))
		}
	}

	for i, r := range p.RiskRules {
		if r.ID == "" {
			errs = append(errs, fmt.Sprintf("risk rule %d: id is required", i))
		}
		if !r.Condition.Kind.IsValid() {
			errs = append(errs, fmt.Sprintf("risk rule %d: unknown condition kind %q", i, r.Condition.Kind))
		}
		if r.Action == "" {
			errs = append(errs, fmt.Sprintf("risk rule %d: action is required", i))
		}
		if !r.Level.IsValid() {
			errs = append(errs, fmt.Sprintf("risk rule %d: unrecognized risk level %q", i, r.Level))
		}
		if r.MinDay != nil && r.MaxDay != nil && *r.MinDay > *r.MaxDay {
			errs = append(errs, fmt.Sprintf("risk rule %d: min_day exceeds max_day", i))
		}
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Fields: errs}
	}
	return nil
}

// ExpectedRecovery resolves the expected state for a day: the exact curve
// point when one exists, linear interpolation between the two neighboring
// points otherwise, and the closest point unmodified when the day falls
// outside the curve. Returns nil only for an empty curve, which
// construction guards against.
func (p *SurgeryProtocol) ExpectedRecovery(day int) *RecoveryPoint {
	if len(p.RecoveryCurve) == 0 {
		return nil
	}

	var lower, upper *RecoveryPoint
	for i := range p.RecoveryCurve {
		pt := &p.RecoveryCurve[i]
		if pt.Day == day {
			out := *pt
			return &out
		}
		if pt.Day < day {
			lower = pt
		}
		if pt.Day > day && upper == nil {
			upper = pt
		}
	}

	if lower == nil || upper == nil {
		return p.closestPoint(day)
	}

	ratio := float64(day-lower.Day) / float64(upper.Day-lower.Day)
	out := &RecoveryPoint{
		Day: day,
		ExpectedPain: Range{
			Min: lerp(lower.ExpectedPain.Min, upper.ExpectedPain.Min, ratio),
			Max: lerp(lower.ExpectedPain.Max, upper.ExpectedPain.Max, ratio),
		},
		WarningSigns:  union(lower.WarningSigns, upper.WarningSigns),
		Complications: union(lower.Complications, upper.Complications),
	}
	if lower.ExpectedMobility != nil && upper.ExpectedMobility != nil {
		out.ExpectedMobility = &Range{
			Min: lerp(lower.ExpectedMobility.Min, upper.ExpectedMobility.Min, ratio),
			Max: lerp(lower.ExpectedMobility.Max, upper.ExpectedMobility.Max, ratio),
		}
	}
	return out
}

func (p *SurgeryProtocol) closestPoint(day int) *RecoveryPoint {
	best := &p.RecoveryCurve[0]
	for i := range p.RecoveryCurve[1:] {
		pt := &p.RecoveryCurve[i+1]
		if abs(pt.Day-day) < abs(best.Day-day) {
			best = pt
		}
	}
	out := *best
	return &out
}

// IsPainWithinExpectedRange is permissive when no curve data exists for
// the day.
func (p *SurgeryProtocol) IsPainWithinExpectedRange(day, painLevel int) bool {
	expected := p.ExpectedRecovery(day)
	if expected == nil {
		return true
	}
	return expected.ExpectedPain.Contains(painLevel)
}

// PainDeviation returns 0 inside the expected range, otherwise the
// distance to the nearer bound. Never negative.
func (p *SurgeryProtocol) PainDeviation(day, painLevel int) int {
	expected := p.ExpectedRecovery(day)
	if expected == nil {
		return 0
	}
	switch {
	case painLevel > expected.ExpectedPain.Max:
		return painLevel - expected.ExpectedPain.Max
	case painLevel < expected.ExpectedPain.Min:
		return expected.ExpectedPain.Min - painLevel
	default:
		return 0
	}
}

// ApplicableRiskRules returns rules with no day window plus rules whose
// window contains day, inclusive on both ends.
func (p *SurgeryProtocol) ApplicableRiskRules(day int) []RiskRule {
	var out []RiskRule
	for _, r := range p.RiskRules {
		if r.MinDay != nil && day < *r.MinDay {
			continue
		}
		if r.MaxDay != nil && day > *r.MaxDay {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Update merges the provided fields and re-validates before committing,
// so an invalid update leaves the protocol untouched.
func (p *SurgeryProtocol) Update(meta *Metadata, curve []RecoveryPoint, rules []RiskRule) error {
	candidate := *p
	if meta != nil {
		candidate.Metadata = *meta
	}
	if curve != nil {
		candidate.RecoveryCurve = curve
	}
	if rules != nil {
		candidate.RiskRules = rules
	}

	if err := candidate.Validate(); err != nil {
		return err
	}

	sort.Slice(candidate.RecoveryCurve, func(i, j int) bool {
		return candidate.RecoveryCurve[i].Day < candidate.RecoveryCurve[j].Day
	})
	candidate.UpdatedAt = time.Now()
	*p = candidate
	return nil
}

func (p *SurgeryProtocol) Activate()   { p.IsActive = true }
func (p *SurgeryProtocol) Deactivate() { p.IsActive = false }

func lerp(a, b int, ratio float64) int {
	return int(math.Round(float64(a) + (float64(b)-float64(a))*ratio))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func union(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, s := range append(append([]string{}, a...), b...) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
