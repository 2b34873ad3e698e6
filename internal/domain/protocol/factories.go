package protocol

import (
	"github.com/recoverly/riskcore/internal/domain/patient"
	"github.com/recoverly/riskcore/internal/domain/risk"
)

func intPtr(i int) *int       { return &i }
func rangePtr(r Range) *Range { return &r }

// KneeReplacement builds the built-in reference protocol for total knee
// replacement recovery.
func KneeReplacement() *SurgeryProtocol {
	p, err := New(NewProtocolParams{
		ID:          "proto-knee-replacement",
		SurgeryType: patient.SurgeryKneeReplacement,
		Metadata: Metadata{
			DisplayName:         "Total Knee Replacement",
			Description:         "Expected recovery trajectory after total knee arthroplasty",
			TypicalDurationDays: 90,
			CommonComplications: []string{"deep vein thrombosis", "joint stiffness", "prosthesis infection"},
			WarningSigns:        []string{"calf swelling", "persistent fever", "wound drainage"},
		},
		RecoveryCurve: []RecoveryPoint{
			{Day: 1, ExpectedPain: Range{Min: 6, Max: 9}, ExpectedMobility: rangePtr(Range{Min: 1, Max: 3}),
				WarningSigns: []string{"uncontrolled pain", "excessive bleeding"}},
			{Day: 3, ExpectedPain: Range{Min: 5, Max: 8}, ExpectedMobility: rangePtr(Range{Min: 2, Max: 4}),
				WarningSigns: []string{"increasing swelling"}},
			{Day: 7, ExpectedPain: Range{Min: 4, Max: 6}, ExpectedMobility: rangePtr(Range{Min: 3, Max: 6}),
				Complications: []string{"early infection"}},
			{Day: 14, ExpectedPain: Range{Min: 2, Max: 5}, ExpectedMobility: rangePtr(Range{Min: 5, Max: 8})},
			{Day: 30, ExpectedPain: Range{Min: 1, Max: 3}, ExpectedMobility: rangePtr(Range{Min: 7, Max: 10})},
		},
		RiskRules: []RiskRule{
			{
				ID:          "knee-pain-plateau",
				Condition:   RuleCondition{Kind: ConditionPainAbove, Threshold: 7, AfterDay: 7},
				Description: "Pain level > 7 after day 7",
				Level:       risk.LevelHigh,
				Action:      "Contact the surgical team for pain reassessment",
				MinDay:      intPtr(7),
				MaxDay:      intPtr(90),
			},
			{
				ID:          "knee-fever",
				Condition:   RuleCondition{Kind: ConditionTemperatureAbove, Threshold: 38},
				Description: "Temperature > 38",
				Level:       risk.LevelHigh,
				Action:      "Screen for prosthetic joint infection",
			},
			{
				ID:          "knee-mobility-stall",
				Condition:   RuleCondition{Kind: ConditionMobilityBelow, Threshold: 3, AfterDay: 14},
				Description: "Mobility score < 3 after day 14",
				Level:       risk.LevelModerate,
				Action:      "Refer to physiotherapy for manipulation assessment",
				MinDay:      intPtr(14),
				MaxDay:      intPtr(90),
			},
		},
		Version: "1.0",
	})
	if err != nil {
		panic("built-in knee replacement protocol invalid: " + err.Error())
	}
	return p
}

// AbdominalSurgery builds the built-in reference protocol for open
// abdominal surgery recovery.
func AbdominalSurgery() *SurgeryProtocol {
	p, err := New(NewProtocolParams{
		ID:          "proto-abdominal-surgery",
		SurgeryType: patient.SurgeryAbdominalSurgery,
		Metadata: Metadata{
			DisplayName:         "Abdominal Surgery",
			Description:         "Expected recovery trajectory after open abdominal surgery",
			TypicalDurationDays: 60,
			CommonComplications: []string{"surgical site infection", "ileus", "incisional hernia"},
			WarningSigns:        []string{"wound dehiscence", "persistent vomiting", "fever"},
		},
		RecoveryCurve: []RecoveryPoint{
			{Day: 1, ExpectedPain: Range{Min: 5, Max: 8}, ExpectedMobility: rangePtr(Range{Min: 2, Max: 4}),
				WarningSigns: []string{"severe abdominal distension"}},
			{Day: 3, ExpectedPain: Range{Min: 5, Max: 7}, ExpectedMobility: rangePtr(Range{Min: 3, Max: 5})},
			{Day: 7, ExpectedPain: Range{Min: 3, Max: 6}, ExpectedMobility: rangePtr(Range{Min: 4, Max: 7}),
				Complications: []string{"surgical site infection"}},
			{Day: 14, ExpectedPain: Range{Min: 2, Max: 4}, ExpectedMobility: rangePtr(Range{Min: 6, Max: 9})},
			{Day: 30, ExpectedPain: Range{Min: 1, Max: 2}, ExpectedMobility: rangePtr(Range{Min: 8, Max: 10})},
		},
		RiskRules: []RiskRule{
			{
				ID:          "abdo-pain-persistent",
				Condition:   RuleCondition{Kind: ConditionPainAbove, Threshold: 6, AfterDay: 10},
				Description: "Pain level > 6 after day 10",
				Level:       risk.LevelHigh,
				Action:      "Evaluate for deep surgical site infection or abscess",
				MinDay:      intPtr(10),
				MaxDay:      intPtr(60),
			},
			{
				ID:          "abdo-fever",
				Condition:   RuleCondition{Kind: ConditionTemperatureAbove, Threshold: 38.3},
				Description: "Temperature > 38.3",
				Level:       risk.LevelCritical,
				Action:      "Urgent clinical review for intra-abdominal sepsis",
			},
			{
				ID:          "abdo-mobility-stall",
				Condition:   RuleCondition{Kind: ConditionMobilityBelow, Threshold: 4, AfterDay: 7},
				Description: "Mobility score < 4 after day 7",
				Level:       risk.LevelModerate,
				Action:      "Assess for ileus and escalate mobilization plan",
				MinDay:      intPtr(7),
				MaxDay:      intPtr(60),
			},
		},
		Version: "1.0",
	})
	if err != nil {
		panic("built-in abdominal surgery protocol invalid: " + err.Error())
	}
	return p
}
