package symptom

import (
	"errors"
	"testing"
	"time"
)

func ptrInt(i int) *int           { return &i }
func ptrFloat(f float64) *float64 { return &f }

func validReport() Report {
	return Report{
		PainLevel:      4,
		MobilityScore:  ptrInt(6),
		WoundCondition: WoundNormal,
		Temperature:    ptrFloat(36.8),
		ReportedAt:     time.Now(),
	}
}

func TestReportValidate(t *testing.T) {
	r := validReport()
	if err := r.Validate(); err != nil {
		t.Fatalf("expected valid report, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Report)
		want   error
	}{
		{"pain too high", func(r *Report) { r.PainLevel = 11 }, ErrInvalidPainLevel},
		{"pain too low", func(r *Report) { r.PainLevel = 0 }, ErrInvalidPainLevel},
		{"bad mobility", func(r *Report) { r.MobilityScore = ptrInt(0) }, ErrInvalidMobilityScore},
		{"bad temperature", func(r *Report) { r.Temperature = ptrFloat(45) }, ErrInvalidTemperature},
		{"missing wound condition", func(r *Report) { r.WoundCondition = "" }, ErrInvalidWoundCondition},
		{"unknown wound condition", func(r *Report) { r.WoundCondition = "gangrene" }, ErrInvalidWoundCondition},
		{"zero timestamp", func(r *Report) { r.ReportedAt = time.Time{} }, ErrMissingReportedAt},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := validReport()
			tc.mutate(&r)
			if err := r.Validate(); !errors.Is(err, tc.want) {
				t.Errorf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestReportOptionalVitals(t *testing.T) {
	r := validReport()
	r.MobilityScore = nil
	r.Temperature = nil
	if err := r.Validate(); err != nil {
		t.Fatalf("expected report without optional vitals to be valid, got %v", err)
	}
}

func TestWoundConditionIsValid(t *testing.T) {
	valid := []WoundCondition{WoundNormal, WoundRedness, WoundSwelling, WoundDischarge, WoundInfection}
	for _, w := range valid {
		if !w.IsValid() {
			t.Errorf("expected %q to be valid", w)
		}
	}
	if WoundCondition("necrosis").IsValid() {
		t.Error("expected unknown wound condition to be invalid")
	}
}
