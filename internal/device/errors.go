package device

import (
	"errors"
	"fmt"
)

// NoDeviceFoundError is returned when GPU rendering was requested but the
// backend reports no devices at all, even after a refresh.
type NoDeviceFoundError struct {
	// Kinds are the backend kinds that were refreshed.
	Kinds []Kind
}

// Error implements the error interface.
func (e *NoDeviceFoundError) Error() string {
	return fmt.Sprintf("no compute devices found after refreshing backends %v", e.Kinds)
}

// IsNoDeviceFound returns true if err is or wraps a NoDeviceFoundError.
func IsNoDeviceFound(err error) bool {
	var ne *NoDeviceFoundError
	return errors.As(err, &ne)
}
