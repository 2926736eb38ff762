package domain

import (
	"time"

	"github.com/google/uuid"
)

// ExportRequest identifies the DOM subtree to export and the name of the
// produced artifact. It is passed by value and never mutated.
type ExportRequest struct {
	TargetElementID string `json:"targetElementId"`
	Filename        string `json:"filename"`
}

// GenerationState is the controller's single-flight flag.
type GenerationState int

const (
	StateIdle GenerationState = iota
	StateInFlight
)

func (s GenerationState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInFlight:
		return "in_flight"
	default:
		return "unknown"
	}
}

const (
	StatusInFlight  = "in_flight"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// ExportRecord is the persisted trace of one accepted activation.
type ExportRecord struct {
	ID              uuid.UUID  `json:"id"`
	TargetElementID string     `json:"target_element_id"`
	Filename        string     `json:"filename"`
	Status          string     `json:"status"`
	ErrorKind       string     `json:"error_kind,omitempty"`
	ErrorMessage    string     `json:"error_message,omitempty"`
	ArtifactPath    string     `json:"artifact_path,omitempty"`
	ArtifactSize    int64      `json:"artifact_size,omitempty"`
	StartedAt       time.Time  `json:"started_at"`
	FinishedAt      *time.Time `json:"finished_at,omitempty"`
}

func NewExportRecord(req ExportRequest) *ExportRecord {
	return &ExportRecord{
		ID:              uuid.New(),
		TargetElementID: req.TargetElementID,
		Filename:        req.Filename,
		Status:          StatusInFlight,
		StartedAt:       time.Now(),
	}
}

// Artifact describes a delivered document.
type Artifact struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Size int64  `json:"size"`
}
