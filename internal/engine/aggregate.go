package engine

import "github.com/recoverly/riskcore/internal/domain/risk"

func countBySeverity(factors []risk.Factor) (severe, moderate int) {
	for _, f := range factors {
		switch f.Severity {
		case risk.SeveritySevere:
			severe++
		case risk.SeverityModerate:
			moderate++
		}
	}
	return severe, moderate
}

func overallRiskLevel(factors []risk.Factor) risk.Level {
	severe, moderate := countBySeverity(factors)
	switch {
	case severe >= 4:
		return risk.LevelCritical
	case severe >= 1 || moderate >= 3:
		return risk.LevelHigh
	case moderate >= 1:
		return risk.LevelModerate
	default:
		return risk.LevelLow
	}
}

// urgencyFor is computed independently of the overall risk level; the two
// can diverge (a single fever factor yields high urgency but not
// necessarily high overall risk).
func urgencyFor(factors []risk.Factor) risk.Urgency {
	severe, moderate := countBySeverity(factors)

	var feverFactor, infectedWound bool
	for _, f := range factors {
		if f.Type == risk.FactorTemperature {
			feverFactor = true
		}
		if f.Type == risk.FactorWound && f.ID == "wound-infection" {
			infectedWound = true
		}
	}

	switch {
	case severe >= 4 || (feverFactor && infectedWound):
		return risk.UrgencyImmediate
	case feverFactor || severe >= 1:
		return risk.UrgencyHigh
	case moderate >= 2:
		return risk.UrgencyMedium
	default:
		return risk.UrgencyLow
	}
}

var recommendationTemplates = map[risk.FactorType]map[risk.Severity]string{
	risk.FactorPain: {
		risk.SeveritySevere:   "Contact your surgical team today to review pain management",
		risk.SeverityModerate: "Take prescribed analgesia regularly and reassess pain in 4 hours",
		risk.SeverityMild:     "Monitor pain levels and continue prescribed pain medication",
	},
	risk.FactorMobility: {
		risk.SeveritySevere:   "Stop unassisted walking and request a physiotherapy review",
		risk.SeverityModerate: "Increase assisted mobilization gradually and track daily progress",
		risk.SeverityMild:     "Continue the prescribed mobility exercise plan",
	},
	risk.FactorWound: {
		risk.SeveritySevere:   "Keep the wound covered and seek urgent wound care review",
		risk.SeverityModerate: "Keep the wound clean and dry and arrange a wound check within 24 hours",
		risk.SeverityMild:     "Monitor the incision site for spreading redness or discharge",
	},
	risk.FactorTemperature: {
		risk.SeveritySevere:   "Check temperature every 4 hours and report readings above 38.5°C",
		risk.SeverityModerate: "Recheck temperature in 2 hours and maintain hydration",
		risk.SeverityMild:     "Recheck temperature in 2 hours and maintain hydration",
	},
}

var recommendationOrder = []risk.FactorType{
	risk.FactorPain,
	risk.FactorMobility,
	risk.FactorWound,
	risk.FactorTemperature,
}

func severityRank(s risk.Severity) int {
	switch s {
	case risk.SeveritySevere:
		return 3
	case risk.SeverityModerate:
		return 2
	default:
		return 1
	}
}

// recommendations groups factors by type, emits one template per type at
// its highest observed severity, then appends the global guidance for the
// overall risk level.
func recommendations(factors []risk.Factor, overall risk.Level) []string {
	highest := make(map[risk.FactorType]risk.Severity)
	for _, f := range factors {
		if cur, ok := highest[f.Type]; !ok || severityRank(f.Severity) > severityRank(cur) {
			highest[f.Type] = f.Severity
		}
	}

	var out []string
	for _, t := range recommendationOrder {
		if sev, ok := highest[t]; ok {
			out = append(out, recommendationTemplates[t][sev])
		}
	}

	switch overall {
	case risk.LevelCritical:
		out = append(out, "Seek immediate medical evaluation now - contact your surgical team or emergency services")
	case risk.LevelHigh:
		out = append(out, "Arrange an immediate medical evaluation with your care team within 24 hours")
	case risk.LevelModerate:
		out = append(out, "Schedule a follow-up review at your next available appointment")
	default:
		out = append(out, "Continue current recovery plan and report any new symptoms")
	}

	return out
}

// nextReviewHours shortens the review interval as risk rises; low-risk
// patients past the first week move to a 48-hour cadence.
func nextReviewHours(overall risk.Level, recoveryDay int) int {
	switch overall {
	case risk.LevelCritical:
		return 2
	case risk.LevelHigh:
		return 4
	case risk.LevelModerate:
		return 12
	default:
		if recoveryDay <= 7 {
			return 24
		}
		return 48
	}
}
