package symptom

import "errors"

var (
	ErrInvalidPainLevel      = errors.New("pain level must be between 1 and 10")
	ErrInvalidMobilityScore  = errors.New("mobility score must be between 1 and 10")
	ErrInvalidTemperature    = errors.New("temperature must be between 35 and 42°C")
	ErrInvalidWoundCondition = errors.New("invalid wound condition")
	ErrMissingReportedAt     = errors.New("reported_at timestamp is required")
)
