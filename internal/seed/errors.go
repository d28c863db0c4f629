package seed

import "errors"

// SeedRequiredError is returned when a run that continues an existing scene
// is started without a seed.
type SeedRequiredError struct{}

// Error implements the error interface.
func (e *SeedRequiredError) Error() string {
	return "running tasks on an already generated scene requires a seed, or results will not be view-consistent"
}

// IsSeedRequired returns true if err is or wraps a SeedRequiredError.
func IsSeedRequired(err error) bool {
	var se *SeedRequiredError
	return errors.As(err, &se)
}
