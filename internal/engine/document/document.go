// Package document defines the shared document types: lifecycle status,
// stored metadata, and the scored query result.
package document

import (
	"fmt"
	"strings"
)

// Status is the lifecycle tag of a document. It is used only as a query
// filter, never as a removal mechanism.
type Status int

const (
	StatusActual Status = iota
	StatusIrrelevant
	StatusBanned
	StatusRemoved
)

var statusNames = [...]string{"ACTUAL", "IRRELEVANT", "BANNED", "REMOVED"}

func (s Status) String() string {
	if s < StatusActual || s > StatusRemoved {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

// ParseStatus converts a case-insensitive status name to a Status.
func ParseStatus(name string) (Status, error) {
	switch strings.ToUpper(name) {
	case "ACTUAL":
		return StatusActual, nil
	case "IRRELEVANT":
		return StatusIrrelevant, nil
	case "BANNED":
		return StatusBanned, nil
	case "REMOVED":
		return StatusRemoved, nil
	default:
		return StatusActual, fmt.Errorf("unknown document status %q", name)
	}
}

// Metadata is the per-document record kept by the store.
type Metadata struct {
	Rating int
	Status Status
}

// Scored is a ranked query result. It is ephemeral: produced per query and
// never persisted.
type Scored struct {
	ID        int     `json:"id"`
	Relevance float64 `json:"relevance"`
	Rating    int     `json:"rating"`
}
