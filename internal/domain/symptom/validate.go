package symptom

// Clinically valid bounds for self-reported recovery vitals.
const (
	PainLevelMin = 1
	PainLevelMax = 10

	MobilityScoreMin = 1
	MobilityScoreMax = 10

	TemperatureMin = 35.0
	TemperatureMax = 42.0
)

// ValidatePainLevel reports whether n is a valid 1-10 pain score.
func ValidatePainLevel(n int) bool {
	return n >= PainLevelMin && n <= PainLevelMax
}

// ValidateMobilityScore reports whether n is absent or a valid 1-10 score.
func ValidateMobilityScore(n *int) bool {
	if n == nil {
		return true
	}
	return *n >= MobilityScoreMin && *n <= MobilityScoreMax
}

// ValidateTemperature reports whether c is absent or within 35-42°C.
func ValidateTemperature(c *float64) bool {
	if c == nil {
		return true
	}
	return *c >= TemperatureMin && *c <= TemperatureMax
}
