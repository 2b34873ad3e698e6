package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/recoverly/riskcore/internal/domain/patient"
	"github.com/recoverly/riskcore/internal/domain/protocol"
	"github.com/recoverly/riskcore/internal/domain/risk"
	"github.com/recoverly/riskcore/internal/domain/symptom"
)

func ptrInt(i int) *int           { return &i }
func ptrFloat(f float64) *float64 { return &f }

func newTestEngine(limit int) *Engine {
	e := New(zap.NewNop(), nil, limit)
	e.RegisterProtocol(protocol.KneeReplacement())
	e.RegisterProtocol(protocol.AbdominalSurgery())
	return e
}

func kneePatient(t *testing.T, recoveryDay int, report symptom.Report) *patient.Patient {
	t.Helper()
	p, err := patient.New(patient.NewPatientParams{
		ID: "pat-001",
		Profile: patient.Profile{
			FirstName: "Maja",
			LastName:  "Kovac",
			Age:       58,
			Email:     "maja.kovac@example.com",
		},
		SurgeryType:     patient.SurgeryKneeReplacement,
		SurgeryDate:     time.Now().Add(-time.Duration(recoveryDay)*24*time.Hour - time.Hour),
		InitialSymptoms: report,
	})
	if err != nil {
		t.Fatalf("building patient: %v", err)
	}
	return p
}

func report(pain int, mobility *int, temp *float64, wound symptom.WoundCondition) symptom.Report {
	return symptom.Report{
		PainLevel:      pain,
		MobilityScore:  mobility,
		Temperature:    temp,
		WoundCondition: wound,
		ReportedAt:     time.Now(),
	}
}

func hasRecommendation(recs []string, phrase string) bool {
	for _, r := range recs {
		if strings.Contains(strings.ToLower(r), strings.ToLower(phrase)) {
			return true
		}
	}
	return false
}

func TestHighRiskScenario(t *testing.T) {
	// Day 5 after knee replacement: pain 9 with normal temperature and
	// wound. The absolute-pain rule alone should drive a high outcome.
	e := newTestEngine(0)
	p := kneePatient(t, 5, report(9, ptrInt(5), ptrFloat(37), symptom.WoundNormal))

	res, err := e.AssessPatientRisk(context.Background(), p)
	if err != nil {
		t.Fatalf("assessment failed: %v", err)
	}
	if res.OverallRiskLevel != risk.LevelHigh {
		t.Errorf("got risk level %q, want high", res.OverallRiskLevel)
	}
	if res.Urgency != risk.UrgencyHigh {
		t.Errorf("got urgency %q, want high", res.Urgency)
	}
	if !hasRecommendation(res.Recommendations, "immediate medical evaluation") {
		t.Errorf("recommendations missing immediate-evaluation guidance: %v", res.Recommendations)
	}
}

func TestLowRiskScenario(t *testing.T) {
	e := newTestEngine(0)
	p := kneePatient(t, 10, report(2, ptrInt(8), ptrFloat(36.8), symptom.WoundNormal))

	res, err := e.AssessPatientRisk(context.Background(), p)
	if err != nil {
		t.Fatalf("assessment failed: %v", err)
	}
	if res.OverallRiskLevel != risk.LevelLow {
		t.Errorf("got risk level %q, want low; factors: %+v", res.OverallRiskLevel, res.Factors)
	}
	if res.Urgency != risk.UrgencyLow {
		t.Errorf("got urgency %q, want low", res.Urgency)
	}
	if res.NextReviewInHours != 48 {
		t.Errorf("got next review %dh, want 48 for a low-risk patient past day 7", res.NextReviewInHours)
	}
	if !hasRecommendation(res.Recommendations, "continue current recovery") {
		t.Errorf("recommendations missing continue-recovery guidance: %v", res.Recommendations)
	}
}

func TestFeverWithInfectionIsImmediate(t *testing.T) {
	e := newTestEngine(0)
	p := kneePatient(t, 5, report(5, ptrInt(5), ptrFloat(39), symptom.WoundInfection))

	res, err := e.AssessPatientRisk(context.Background(), p)
	if err != nil {
		t.Fatalf("assessment failed: %v", err)
	}
	if res.Urgency != risk.UrgencyImmediate {
		t.Errorf("got urgency %q, want immediate", res.Urgency)
	}
}

func TestUnregisteredSurgeryType(t *testing.T) {
	e := New(zap.NewNop(), nil, 0)
	p := kneePatient(t, 5, report(4, ptrInt(5), nil, symptom.WoundNormal))

	_, err := e.AssessPatientRisk(context.Background(), p)
	if !errors.Is(err, ErrProtocolNotRegistered) {
		t.Fatalf("got %v, want ErrProtocolNotRegistered", err)
	}
	if len(e.AssessmentHistory(p.ID)) != 0 {
		t.Error("failed assessment must not record history")
	}
}

func TestHistoryCap(t *testing.T) {
	e := newTestEngine(30)
	p := kneePatient(t, 10, report(3, ptrInt(7), nil, symptom.WoundNormal))

	var ids []string
	for i := 0; i < 40; i++ {
		res, err := e.AssessPatientRisk(context.Background(), p)
		if err != nil {
			t.Fatalf("assessment %d failed: %v", i, err)
		}
		ids = append(ids, res.ID.String())
	}

	history := e.AssessmentHistory(p.ID)
	if len(history) != 30 {
		t.Fatalf("got %d history entries, want 30", len(history))
	}
	if history[0].ID.String() != ids[10] {
		t.Error("oldest retained entry should be the 11th assessment")
	}
	if history[29].ID.String() != ids[39] {
		t.Error("newest retained entry should be the 40th assessment")
	}
}

func TestClearHistory(t *testing.T) {
	e := newTestEngine(0)
	p := kneePatient(t, 10, report(3, ptrInt(7), nil, symptom.WoundNormal))
	if _, err := e.AssessPatientRisk(context.Background(), p); err != nil {
		t.Fatalf("assessment failed: %v", err)
	}

	e.ClearHistory()
	if len(e.AssessmentHistory(p.ID)) != 0 {
		t.Error("expected empty history after ClearHistory")
	}
}

func TestRegisteredProtocols(t *testing.T) {
	e := newTestEngine(0)
	types := e.RegisteredProtocols()
	if len(types) != 2 {
		t.Fatalf("got %d registered types, want 2", len(types))
	}
	if types[0] != patient.SurgeryAbdominalSurgery || types[1] != patient.SurgeryKneeReplacement {
		t.Errorf("unexpected registered types %v", types)
	}

	// Re-registering the same surgery type is an upsert, not a duplicate.
	e.RegisterProtocol(protocol.KneeReplacement())
	if got := len(e.RegisteredProtocols()); got != 2 {
		t.Errorf("got %d registered types after re-registration, want 2", got)
	}
}

func TestOverallRiskLevelThresholds(t *testing.T) {
	severe := risk.Factor{Severity: risk.SeveritySevere}
	moderate := risk.Factor{Severity: risk.SeverityModerate}
	mild := risk.Factor{Severity: risk.SeverityMild}

	cases := []struct {
		name    string
		factors []risk.Factor
		want    risk.Level
	}{
		{"four severe", []risk.Factor{severe, severe, severe, severe}, risk.LevelCritical},
		{"one severe", []risk.Factor{severe}, risk.LevelHigh},
		{"three moderate", []risk.Factor{moderate, moderate, moderate}, risk.LevelHigh},
		{"one moderate", []risk.Factor{moderate}, risk.LevelModerate},
		{"only mild", []risk.Factor{mild, mild}, risk.LevelLow},
		{"no factors", nil, risk.LevelLow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := overallRiskLevel(tc.factors); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestUrgencyThresholds(t *testing.T) {
	fever := risk.Factor{ID: "high-fever", Type: risk.FactorTemperature, Severity: risk.SeveritySevere}
	infection := risk.Factor{ID: "wound-infection", Type: risk.FactorWound, Severity: risk.SeveritySevere}
	moderate := risk.Factor{Severity: risk.SeverityModerate}

	cases := []struct {
		name    string
		factors []risk.Factor
		want    risk.Urgency
	}{
		{"fever plus infection", []risk.Factor{fever, infection}, risk.UrgencyImmediate},
		{"fever alone", []risk.Factor{{ID: "low-grade-fever", Type: risk.FactorTemperature, Severity: risk.SeverityMild}}, risk.UrgencyHigh},
		{"one severe", []risk.Factor{{Severity: risk.SeveritySevere}}, risk.UrgencyHigh},
		{"two moderate", []risk.Factor{moderate, moderate}, risk.UrgencyMedium},
		{"one moderate", []risk.Factor{moderate}, risk.UrgencyLow},
		{"nothing", nil, risk.UrgencyLow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := urgencyFor(tc.factors); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNextReviewHours(t *testing.T) {
	cases := []struct {
		level risk.Level
		day   int
		want  int
	}{
		{risk.LevelCritical, 3, 2},
		{risk.LevelHigh, 3, 4},
		{risk.LevelModerate, 3, 12},
		{risk.LevelLow, 5, 24},
		{risk.LevelLow, 7, 24},
		{risk.LevelLow, 8, 48},
	}
	for _, tc := range cases {
		if got := nextReviewHours(tc.level, tc.day); got != tc.want {
			t.Errorf("level %q day %d: got %dh, want %dh", tc.level, tc.day, got, tc.want)
		}
	}
}

func TestPainScannerGuardsDoubleCounting(t *testing.T) {
	// Day 30 after knee replacement the expected maximum is 3, so pain 9
	// deviates by 6 and is already severe; the absolute-pain factor must
	// not be emitted on top of it.
	proto := protocol.KneeReplacement()
	factors := scanPain(proto, 30, report(9, nil, nil, symptom.WoundNormal), nil)

	var deviation, highPain int
	for _, f := range factors {
		switch f.ID {
		case "pain-deviation":
			deviation++
		case "high-pain":
			highPain++
		}
	}
	if deviation != 1 {
		t.Errorf("got %d deviation factors, want 1", deviation)
	}
	if highPain != 0 {
		t.Errorf("severe deviation should suppress the absolute-pain factor, got %d", highPain)
	}
}

func TestPainTrendFactor(t *testing.T) {
	proto := protocol.KneeReplacement()
	previous := []symptom.Report{
		report(2, nil, nil, symptom.WoundNormal),
		report(3, nil, nil, symptom.WoundNormal),
	}

	factors := scanPain(proto, 30, report(8, nil, nil, symptom.WoundNormal), previous)
	var trend *risk.Factor
	for i := range factors {
		if factors[i].ID == "pain-trend" {
			trend = &factors[i]
		}
	}
	if trend == nil {
		t.Fatal("expected a pain trend factor for a 5-point increase")
	}
	if trend.Severity != risk.SeveritySevere {
		t.Errorf("got trend severity %q, want severe", trend.Severity)
	}

	// A single prior report is not enough to establish a trend.
	factors = scanPain(proto, 30, report(8, nil, nil, symptom.WoundNormal), previous[:1])
	for _, f := range factors {
		if f.ID == "pain-trend" {
			t.Error("trend factor requires at least two prior reports")
		}
	}
}

func TestMobilityScannerDoubleEmission(t *testing.T) {
	proto := protocol.KneeReplacement()

	// Day 7 expected mobility minimum is 3: a score of 1 deviates by 2
	// (moderate) and is also <= 3, so both factors are emitted.
	factors := scanMobility(proto, 7, report(4, ptrInt(1), nil, symptom.WoundNormal))
	if len(factors) != 2 {
		t.Fatalf("got %d mobility factors, want 2 (deviation plus standalone), %+v", len(factors), factors)
	}

	// Day 30 expected minimum is 7: a score of 1 deviates by 6 (severe)
	// and the standalone factor is suppressed.
	factors = scanMobility(proto, 30, report(4, ptrInt(1), nil, symptom.WoundNormal))
	if len(factors) != 1 {
		t.Fatalf("got %d mobility factors, want 1, %+v", len(factors), factors)
	}
	if factors[0].ID != "mobility-deviation" || factors[0].Severity != risk.SeveritySevere {
		t.Errorf("unexpected factor %+v", factors[0])
	}

	if got := scanMobility(proto, 7, report(4, nil, nil, symptom.WoundNormal)); got != nil {
		t.Errorf("absent mobility score must not emit factors, got %+v", got)
	}
}

func TestWoundScannerSeverities(t *testing.T) {
	cases := []struct {
		wound symptom.WoundCondition
		want  risk.Severity
	}{
		{symptom.WoundRedness, risk.SeverityMild},
		{symptom.WoundSwelling, risk.SeverityMild},
		{symptom.WoundDischarge, risk.SeverityModerate},
		{symptom.WoundInfection, risk.SeveritySevere},
	}
	for _, tc := range cases {
		factors := scanWound(report(3, nil, nil, tc.wound))
		if len(factors) != 1 {
			t.Fatalf("wound %q: got %d factors, want 1", tc.wound, len(factors))
		}
		if factors[0].Severity != tc.want {
			t.Errorf("wound %q: got severity %q, want %q", tc.wound, factors[0].Severity, tc.want)
		}
	}
	if got := scanWound(report(3, nil, nil, symptom.WoundNormal)); got != nil {
		t.Errorf("normal wound must not emit factors, got %+v", got)
	}
}

func TestSystemicScannerThresholds(t *testing.T) {
	if got := scanSystemic(report(3, nil, ptrFloat(38.5), symptom.WoundNormal)); len(got) != 1 || got[0].Severity != risk.SeveritySevere {
		t.Errorf("38.5°C should be a severe factor, got %+v", got)
	}
	if got := scanSystemic(report(3, nil, ptrFloat(37.8), symptom.WoundNormal)); len(got) != 1 || got[0].Severity != risk.SeverityMild {
		t.Errorf("37.8°C should be a mild factor, got %+v", got)
	}
	if got := scanSystemic(report(3, nil, ptrFloat(37.2), symptom.WoundNormal)); got != nil {
		t.Errorf("37.2°C should not emit factors, got %+v", got)
	}
	if got := scanSystemic(report(3, nil, nil, symptom.WoundNormal)); got != nil {
		t.Errorf("absent temperature should not emit factors, got %+v", got)
	}
}

func TestProtocolRuleScanner(t *testing.T) {
	proto := protocol.KneeReplacement()

	// Day 10, pain 8 trips the windowed pain rule; temperature 38.6 trips
	// the unwindowed fever rule.
	factors := scanProtocolRules(proto, 10, report(8, ptrInt(5), ptrFloat(38.6), symptom.WoundNormal))
	if len(factors) != 2 {
		t.Fatalf("got %d protocol rule factors, want 2: %+v", len(factors), factors)
	}
	for _, f := range factors {
		if f.Type != risk.FactorProtocolRule {
			t.Errorf("unexpected factor type %q", f.Type)
		}
		if f.Severity != risk.SeveritySevere {
			t.Errorf("high-level rules should map to severe factors, got %q", f.Severity)
		}
	}

	// Day 3 is outside the pain rule window.
	factors = scanProtocolRules(proto, 3, report(8, ptrInt(5), nil, symptom.WoundNormal))
	if len(factors) != 0 {
		t.Errorf("got %d factors on day 3, want 0: %+v", len(factors), factors)
	}
}
