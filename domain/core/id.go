package core

import (
	"github.com/google/uuid"
)

// RunID identifies one batch run across logs and diagnostic output.
type RunID string

// NewRunID creates a time-ordered identifier for a batch run.
// UUID v7 keeps diagnostic rows sortable by run start.
func NewRunID() RunID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return RunID(id.String())
}

func (id RunID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty.
func (id RunID) IsEmpty() bool {
	return id == ""
}
