package patient

import "encoding/json"

// UnmarshalJSON reconstructs the patient through the constructor so a
// loaded document fails validation exactly like direct construction.
// Dates travel as RFC 3339 strings, enums as their string values.
func (p *Patient) UnmarshalJSON(data []byte) error {
	type alias Patient
	var dto alias
	if err := json.Unmarshal(data, &dto); err != nil {
		return err
	}

	rebuilt, err := New(NewPatientParams{
		ID:              dto.ID,
		Profile:         dto.Profile,
		SurgeryType:     dto.SurgeryType,
		SurgeryDate:     dto.SurgeryDate,
		InitialSymptoms: dto.CurrentSymptoms,
		MedicalHistory:  dto.MedicalHistory,
		DoctorID:        dto.DoctorID,
	})
	if err != nil {
		return err
	}

	if len(dto.SymptomHistory) > 0 {
		rebuilt.SymptomHistory = dto.SymptomHistory
	}
	if !dto.CreatedAt.IsZero() {
		rebuilt.CreatedAt = dto.CreatedAt
	}
	if !dto.UpdatedAt.IsZero() {
		rebuilt.UpdatedAt = dto.UpdatedAt
	}

	*p = *rebuilt
	return nil
}
