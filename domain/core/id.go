package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// StepID identifies an executed pipeline step
type StepID ID

func (id StepID) String() string { return ID(id).String() }

// NewStepID generates a fresh step identifier
func NewStepID() StepID { return StepID(NewID()) }

// ParseStepID parses a string into StepID
func ParseStepID(s string) (StepID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("step ID cannot be empty")
	}
	return StepID(s), nil
}
