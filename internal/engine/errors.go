package engine

import "errors"

// ErrProtocolNotRegistered distinguishes a configuration gap (no protocol
// for the patient's surgery type) from validation errors raised by entity
// construction.
var ErrProtocolNotRegistered = errors.New("no protocol registered for surgery type")
