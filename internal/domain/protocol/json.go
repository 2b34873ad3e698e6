package protocol

import "encoding/json"

// UnmarshalJSON rebuilds the protocol through the constructor, so a
// loaded document is validated exactly like direct construction.
func (p *SurgeryProtocol) UnmarshalJSON(data []byte) error {
	type alias SurgeryProtocol
	var dto alias
	if err := json.Unmarshal(data, &dto); err != nil {
		return err
	}

	rebuilt, err := New(NewProtocolParams{
		ID:            dto.ID,
		SurgeryType:   dto.SurgeryType,
		Metadata:      dto.Metadata,
		RecoveryCurve: dto.RecoveryCurve,
		RiskRules:     dto.RiskRules,
		Version:       dto.Version,
	})
	if err != nil {
		return err
	}

	rebuilt.IsActive = dto.IsActive
	if !dto.CreatedAt.IsZero() {
		rebuilt.CreatedAt = dto.CreatedAt
	}
	if !dto.UpdatedAt.IsZero() {
		rebuilt.UpdatedAt = dto.UpdatedAt
	}

	*p = *rebuilt
	return nil
}
