package routerenroll

import "errors"

var (
	// ErrInvalidParam represents an invalid parameter error
	ErrInvalidParam = errors.New("invalid parameter")

	// ErrConfiguration represents a submitter construction failure
	ErrConfiguration = errors.New("configuration error")

	// ErrOriginNotFound is returned when the originating chain id is missing from a router table
	ErrOriginNotFound = errors.New("originating chain id not found in router table")

	// ErrDuplicateChainID is returned when a router table lists a chain id twice
	ErrDuplicateChainID = errors.New("duplicate chain id in router table")

	// ErrAddressTooLong is returned when an address does not fit in 32 bytes
	ErrAddressTooLong = errors.New("address longer than 32 bytes")
)

// InvalidParamError represents an invalid parameter error with context
type InvalidParamError struct {
	Message string
}

func (e *InvalidParamError) Error() string {
	return e.Message
}

func (e *InvalidParamError) Is(target error) bool {
	return target == ErrInvalidParam
}

// ConfigurationError represents a failure to build the signing or reading client
type ConfigurationError struct {
	Message string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}
