package mc

import "errors"

var (
	// ErrConstruction is returned when a simulation is assembled from a missing component
	// or a non-positive scalar.
	ErrConstruction = errors.New("invalid simulation setup")
	// ErrInvalidStepSize is returned by a scheme asked to advance with dt <= 0.
	ErrInvalidStepSize = errors.New("time step must be positive")
	// ErrNegativeAssetPrice aborts a run whose simulated state dropped below zero.
	ErrNegativeAssetPrice = errors.New("negative asset price")
	// ErrInvalidConfiguration is returned when T/N does not give a positive step.
	ErrInvalidConfiguration = errors.New("invalid simulation configuration")
)
