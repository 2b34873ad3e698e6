package patient

import (
	"fmt"
	"strings"
	"time"

	"github.com/recoverly/riskcore/internal/domain"
	"github.com/recoverly/riskcore/internal/domain/symptom"
)

type SurgeryType string

const (
	SurgeryKneeReplacement    SurgeryType = "knee_replacement"
	SurgeryHipReplacement     SurgeryType = "hip_replacement"
	SurgeryShoulderSurgery    SurgeryType = "shoulder_surgery"
	SurgerySpinalFusion       SurgeryType = "spinal_fusion"
	SurgeryACLReconstruction  SurgeryType = "acl_reconstruction"
	SurgeryRotatorCuffRepair  SurgeryType = "rotator_cuff_repair"
	SurgeryAbdominalSurgery   SurgeryType = "abdominal_surgery"
	SurgeryAppendectomy       SurgeryType = "appendectomy"
	SurgeryGallbladderRemoval SurgeryType = "gallbladder_removal"
	SurgeryHerniaRepair       SurgeryType = "hernia_repair"
	SurgeryCardiacBypass      SurgeryType = "cardiac_bypass"
	SurgeryCataractSurgery    SurgeryType = "cataract_surgery"
	SurgeryCesareanSection    SurgeryType = "cesarean_section"
	SurgeryHysterectomy       SurgeryType = "hysterectomy"
	SurgeryProstatectomy      SurgeryType = "prostatectomy"
)

func (t SurgeryType) IsValid() bool {
	switch t {
	case SurgeryKneeReplacement, SurgeryHipReplacement, SurgeryShoulderSurgery,
		SurgerySpinalFusion, SurgeryACLReconstruction, SurgeryRotatorCuffRepair,
		SurgeryAbdominalSurgery, SurgeryAppendectomy, SurgeryGallbladderRemoval,
		SurgeryHerniaRepair, SurgeryCardiacBypass, SurgeryCataractSurgery,
		SurgeryCesareanSection, SurgeryHysterectomy, SurgeryProstatectomy:
		return true
	}
	return false
}

type AgeGroup string

const (
	AgeGroupYoung  AgeGroup = "young"
	AgeGroupAdult  AgeGroup = "adult"
	AgeGroupSenior AgeGroup = "senior"
)

type EmergencyContact struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`
}

type Profile struct {
	FirstName        string            `json:"first_name"`
	LastName         string            `json:"last_name"`
	Age              int               `json:"age"`
	Email            string            `json:"email"`
	Phone            string            `json:"phone,omitempty"`
	EmergencyContact *EmergencyContact `json:"emergency_contact,omitempty"`
}

func (p Profile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

type MedicalHistory struct {
	PreviousSurgeries []string `json:"previous_surgeries,omitempty"`
	Allergies         []string `json:"allergies,omitempty"`
	Medications       []string `json:"medications,omitempty"`
	ChronicConditions []string `json:"chronic_conditions,omitempty"`
}

// Patient owns identity, profile, surgery metadata, and the full symptom
// report history. SymptomHistory is ordered oldest first and always ends
// with the current report.
type Patient struct {
	ID              string           `json:"id"`
	Profile         Profile          `json:"profile"`
	MedicalHistory  MedicalHistory   `json:"medical_history,omitempty"`
	SurgeryType     SurgeryType      `json:"surgery_type"`
	SurgeryDate     time.Time        `json:"surgery_date"`
	CurrentSymptoms symptom.Report   `json:"current_symptoms"`
	SymptomHistory  []symptom.Report `json:"symptom_history"`
	DoctorID        string           `json:"doctor_id,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

type NewPatientParams struct {
	ID              string
	Profile         Profile
	SurgeryType     SurgeryType
	SurgeryDate     time.Time
	InitialSymptoms symptom.Report
	MedicalHistory  MedicalHistory
	DoctorID        string
}

func New(params NewPatientParams) (*Patient, error) {
	now := time.Now()
	p := &Patient{
		ID:              params.ID,
		Profile:         params.Profile,
		MedicalHistory:  params.MedicalHistory,
		SurgeryType:     params.SurgeryType,
		SurgeryDate:     params.SurgeryDate,
		CurrentSymptoms: params.InitialSymptoms,
		SymptomHistory:  []symptom.Report{params.InitialSymptoms},
		DoctorID:        params.DoctorID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate re-checks every construction invariant. It is pure and can be
// called at any point in the patient's lifecycle.
func (p *Patient) Validate() error {
	var errs []string

	if strings.TrimSpace(p.ID) == "" {
		errs = append(errs, "id is required")
	}
	if strings.TrimSpace(p.Profile.FirstName) == "" {
		errs = append(errs, "first_name is required")
	}
	if strings.TrimSpace(p.Profile.LastName) == "" {
		errs = append(errs, "last_name is required")
	}
	if p.Profile.Age < 0 || p.Profile.Age > 150 {
		errs = append(errs, "age must be between 0 and 150")
	}
	if strings.TrimSpace(p.Profile.Email) == "" {
		errs = append(errs, "email is required")
	}
	if !p.SurgeryType.IsValid() {
		errs = append(errs, fmt.Sprintf("unknown surgery type %q", p.SurgeryType))
	}
	if p.SurgeryDate.IsZero() {
		errs = append(errs, "surgery_date is required")
	}
	if err := p.CurrentSymptoms.Validate(); err != nil {
		errs = append(errs, "current_symptoms: "+err.Error())
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Fields: errs}
	}
	return nil
}

// RecoveryDay returns whole days elapsed since surgery, floored at zero
// for surgeries dated in the future.
func (p *Patient) RecoveryDay() int {
	days := int(time.Since(p.SurgeryDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

func (p *Patient) AgeGroup() AgeGroup {
	switch {
	case p.Profile.Age < 40:
		return AgeGroupYoung
	case p.Profile.Age < 65:
		return AgeGroupAdult
	default:
		return AgeGroupSenior
	}
}

// HasHighRiskFactors evaluates the current report only.
func (p *Patient) HasHighRiskFactors() bool {
	cur := p.CurrentSymptoms
	if cur.PainLevel >= 8 {
		return true
	}
	if cur.Temperature != nil && *cur.Temperature > 38 {
		return true
	}
	if cur.WoundCondition == symptom.WoundInfection {
		return true
	}
	if cur.MobilityScore != nil && *cur.MobilityScore <= 3 {
		return true
	}
	return false
}

// UpdateSymptoms replaces the current report after strict validation.
// Out-of-range input is always rejected; bulk loaders that need clamping
// must use ImportSymptomReport with an explicit policy.
func (p *Patient) UpdateSymptoms(report symptom.Report) error {
	if err := report.Validate(); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidSymptomReport, err)
	}
	p.CurrentSymptoms = report
	p.SymptomHistory = append(p.SymptomHistory, report)
	p.UpdatedAt = time.Now()
	return nil
}

// ImportPolicy selects how out-of-range values are handled when symptom
// reports are bulk-loaded from an external source.
type ImportPolicy int

const (
	// ImportRejectOutOfRange validates exactly like UpdateSymptoms.
	ImportRejectOutOfRange ImportPolicy = iota
	// ImportClampOutOfRange clamps the pain level into the valid range
	// instead of rejecting the report.
	ImportClampOutOfRange
)

// ImportSymptomReport is the bulk-ingestion path for seeded or migrated
// data. The caller chooses the out-of-range policy explicitly; there is
// no timing heuristic.
func (p *Patient) ImportSymptomReport(report symptom.Report, policy ImportPolicy) error {
	if policy == ImportClampOutOfRange {
		if report.PainLevel > symptom.PainLevelMax {
			report.PainLevel = symptom.PainLevelMax
		}
		if report.PainLevel < symptom.PainLevelMin {
			report.PainLevel = symptom.PainLevelMin
		}
	}
	return p.UpdateSymptoms(report)
}

// RiskInputs bundles everything the assessment engine reads from a patient.
type RiskInputs struct {
	SurgeryType      SurgeryType
	RecoveryDay      int
	Symptoms         symptom.Report
	PreviousSymptoms []symptom.Report
}

func (p *Patient) GetRiskInputs() RiskInputs {
	var previous []symptom.Report
	if n := len(p.SymptomHistory); n > 1 {
		previous = make([]symptom.Report, n-1)
		copy(previous, p.SymptomHistory[:n-1])
	}
	return RiskInputs{
		SurgeryType:      p.SurgeryType,
		RecoveryDay:      p.RecoveryDay(),
		Symptoms:         p.CurrentSymptoms,
		PreviousSymptoms: previous,
	}
}
