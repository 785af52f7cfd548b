package domain

import "errors"

var (
	ErrNeuralUnavailable = errors.New("neural provider unavailable")
	ErrBrandRequired     = errors.New("brand identifier is required")
	ErrTextRequired      = errors.New("text is required")
)
