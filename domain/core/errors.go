package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound         = errors.New("resource not found")
	ErrArtifactNotFound = fmt.Errorf("%w: artifact", ErrNotFound)
	ErrStepNotFound     = fmt.Errorf("%w: step", ErrNotFound)

	// Artifact errors
	ErrUnsupportedFormat = errors.New("unsupported artifact format")
	ErrEmptyArtifact     = errors.New("artifact has no header row")

	// Statistics errors
	ErrUnsupportedShape = errors.New("unsupported table shape")
	ErrUnsupportedCell  = errors.New("unsupported cell type")
)

// Error constructors with context
func NewShapeError(dataset string, reason string) error {
	return fmt.Errorf("%w: dataset %s: %s", ErrUnsupportedShape, dataset, reason)
}

func NewCellError(dataset, column string, value interface{}) error {
	return fmt.Errorf("%w: dataset %s column %s: %T", ErrUnsupportedCell, dataset, column, value)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsGeneratorError reports whether the statistics generator rejected its input
func IsGeneratorError(err error) bool {
	return errors.Is(err, ErrUnsupportedShape) || errors.Is(err, ErrUnsupportedCell)
}
