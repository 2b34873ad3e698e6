package patient

import "errors"

var (
	ErrInvalidSymptomReport = errors.New("invalid symptom report")
)
