package services

import "errors"

// ErrInvalidOperation marks caller errors: missing or unknown identifiers,
// duplicate registration, travel to the current city. These surface to the
// caller and cause no state change. Operational conditions (missing
// capacity, stock or funds, unreachable collaborators) are deliberately not
// errors; they leave state unchanged and emit no event.
var ErrInvalidOperation = errors.New("invalid operation")
