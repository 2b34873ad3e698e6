package engine

import (
	"fmt"

	"github.com/recoverly/riskcore/internal/domain/patient"
	"github.com/recoverly/riskcore/internal/domain/protocol"
	"github.com/recoverly/riskcore/internal/domain/risk"
	"github.com/recoverly/riskcore/internal/domain/symptom"
)

// scanAll runs the five independent risk scanners in a fixed order so
// factor lists are deterministic for identical inputs.
func scanAll(proto *protocol.SurgeryProtocol, inputs patient.RiskInputs) []risk.Factor {
	var factors []risk.Factor
	factors = append(factors, scanPain(proto, inputs.RecoveryDay, inputs.Symptoms, inputs.PreviousSymptoms)...)
	factors = append(factors, scanMobility(proto, inputs.RecoveryDay, inputs.Symptoms)...)
	factors = append(factors, scanWound(inputs.Symptoms)...)
	factors = append(factors, scanSystemic(inputs.Symptoms)...)
	factors = append(factors, scanProtocolRules(proto, inputs.RecoveryDay, inputs.Symptoms)...)
	return factors
}

// deviationSeverity keys severity to how far a value sits outside the
// expected curve: 1 point mild, 2 moderate, 3 or more severe.
func deviationSeverity(points int) risk.Severity {
	switch {
	case points >= 3:
		return risk.SeveritySevere
	case points == 2:
		return risk.SeverityModerate
	default:
		return risk.SeverityMild
	}
}

func scanPain(proto *protocol.SurgeryProtocol, day int, cur symptom.Report, previous []symptom.Report) []risk.Factor {
	var out []risk.Factor

	severeFromDeviation := false
	if expected := proto.ExpectedRecovery(day); expected != nil && cur.PainLevel > expected.ExpectedPain.Max {
		deviation := cur.PainLevel - expected.ExpectedPain.Max
		severity := deviationSeverity(deviation)
		severeFromDeviation = severity == risk.SeveritySevere

		dev := float64(deviation)
		out = append(out, risk.Factor{
			ID:       "pain-deviation",
			Type:     risk.FactorPain,
			Severity: severity,
			Description: fmt.Sprintf("Pain level %d exceeds the expected maximum of %d for day %d",
				cur.PainLevel, expected.ExpectedPain.Max, day),
			ClinicalSignificance: "Pain above the expected recovery curve can indicate a surgical complication",
			DayDeviation:         &dev,
		})
	}

	// High absolute pain is reported separately unless the deviation scan
	// already produced a severe pain factor.
	if cur.PainLevel >= 8 && !severeFromDeviation {
		out = append(out, risk.Factor{
			ID:                   "high-pain",
			Type:                 risk.FactorPain,
			Severity:             risk.SeveritySevere,
			Description:          fmt.Sprintf("Severe absolute pain level of %d", cur.PainLevel),
			ClinicalSignificance: "Pain of 8 or more requires clinical review regardless of the recovery stage",
		})
	}

	if len(previous) >= 2 {
		prev := previous[len(previous)-1]
		increase := cur.PainLevel - prev.PainLevel
		switch {
		case increase >= 5:
			out = append(out, risk.Factor{
				ID:                   "pain-trend",
				Type:                 risk.FactorPain,
				Severity:             risk.SeveritySevere,
				Description:          fmt.Sprintf("Pain increased by %d points since the previous report", increase),
				ClinicalSignificance: "A sharp pain increase suggests an acute complication",
			})
		case increase >= 3:
			out = append(out, risk.Factor{
				ID:                   "pain-trend",
				Type:                 risk.FactorPain,
				Severity:             risk.SeverityModerate,
				Description:          fmt.Sprintf("Pain increased by %d points since the previous report", increase),
				ClinicalSignificance: "Worsening pain against the expected downward trend",
			})
		}
	}

	return out
}

func scanMobility(proto *protocol.SurgeryProtocol, day int, cur symptom.Report) []risk.Factor {
	if cur.MobilityScore == nil {
		return nil
	}
	score := *cur.MobilityScore

	var out []risk.Factor
	severeFromDeviation := false

	expected := proto.ExpectedRecovery(day)
	if expected != nil && expected.ExpectedMobility != nil && score < expected.ExpectedMobility.Min {
		deviation := expected.ExpectedMobility.Min - score
		severity := deviationSeverity(deviation)
		severeFromDeviation = severity == risk.SeveritySevere

		dev := float64(deviation)
		out = append(out, risk.Factor{
			ID:       "mobility-deviation",
			Type:     risk.FactorMobility,
			Severity: severity,
			Description: fmt.Sprintf("Mobility score %d is below the expected minimum of %d for day %d",
				score, expected.ExpectedMobility.Min, day),
			ClinicalSignificance: "Mobility below the expected recovery curve delays functional recovery",
			DayDeviation:         &dev,
		})
	}

	// Only a severe deviation suppresses the standalone factor, so a mild
	// or moderate deviation can emit alongside it.
	if score <= 3 && !severeFromDeviation {
		out = append(out, risk.Factor{
			ID:                   "low-mobility",
			Type:                 risk.FactorMobility,
			Severity:             risk.SeverityModerate,
			Description:          fmt.Sprintf("Very low mobility score of %d", score),
			ClinicalSignificance: "Prolonged immobility raises thrombosis and deconditioning risk",
		})
	}

	return out
}

func scanWound(cur symptom.Report) []risk.Factor {
	var severity risk.Severity
	switch cur.WoundCondition {
	case symptom.WoundRedness, symptom.WoundSwelling:
		severity = risk.SeverityMild
	case symptom.WoundDischarge:
		severity = risk.SeverityModerate
	case symptom.WoundInfection:
		severity = risk.SeveritySevere
	default:
		return nil
	}

	return []risk.Factor{{
		ID:                   "wound-" + string(cur.WoundCondition),
		Type:                 risk.FactorWound,
		Severity:             severity,
		Description:          fmt.Sprintf("Wound condition reported as %s", cur.WoundCondition),
		ClinicalSignificance: "Abnormal wound findings can progress to surgical site infection",
	}}
}

func scanSystemic(cur symptom.Report) []risk.Factor {
	if cur.Temperature == nil {
		return nil
	}
	t := *cur.Temperature

	switch {
	case t >= 38.5:
		return []risk.Factor{{
			ID:                   "high-fever",
			Type:                 risk.FactorTemperature,
			Severity:             risk.SeveritySevere,
			Description:          fmt.Sprintf("High fever of %.1f°C", t),
			ClinicalSignificance: "Temperature of 38.5°C or above suggests systemic infection",
		}}
	case t >= 37.5:
		return []risk.Factor{{
			ID:                   "low-grade-fever",
			Type:                 risk.FactorTemperature,
			Severity:             risk.SeverityMild,
			Description:          fmt.Sprintf("Low-grade fever of %.1f°C", t),
			ClinicalSignificance: "A low-grade fever warrants closer temperature monitoring",
		}}
	}
	return nil
}

func scanProtocolRules(proto *protocol.SurgeryProtocol, day int, cur symptom.Report) []risk.Factor {
	var out []risk.Factor
	for _, rule := range proto.ApplicableRiskRules(day) {
		if !rule.Condition.Matches(cur, day) {
			continue
		}
		out = append(out, risk.Factor{
			ID:                   rule.ID,
			Type:                 risk.FactorProtocolRule,
			Severity:             risk.SeverityFor(rule.Level),
			Description:          rule.Description,
			ClinicalSignificance: rule.Action,
		})
	}
	return out
}
