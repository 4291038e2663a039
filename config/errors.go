package config

import "errors"

var (
	// ErrConfigUnmarshal is returned when config unmarshalling fails
	ErrConfigUnmarshal = errors.New("failed to unmarshal configuration")
	// ErrInvalidConfig is returned when the loaded configuration fails validation
	ErrInvalidConfig = errors.New("invalid configuration")
)
