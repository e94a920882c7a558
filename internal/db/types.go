package db

import (
	"time"

	"github.com/google/uuid"
)

// Run status constants
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusPartial   = "partial"
	RunStatusFailed    = "failed"
)

// Variant status constants
const (
	VariantStatusWritten = "written"
	VariantStatusFailed  = "failed"
)

// Run source constants
const (
	SourceSample   = "sample"
	SourceInput    = "input"
	SourceDatabase = "database"
)

// Run represents one generator invocation
type Run struct {
	ID          uuid.UUID  `json:"id"`
	VATNumber   string     `json:"vat_number"`
	PrimaryID   string     `json:"primary_id"`
	Source      string     `json:"source"`
	OutputDir   string     `json:"output_dir"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// RunInput holds the values recorded when a run starts
type RunInput struct {
	VATNumber string
	PrimaryID string
	Source    string
	OutputDir string
}

// VariantOutput is the outcome of one encoding variant within a run
type VariantOutput struct {
	Name         string  `json:"name"`
	Encoding     string  `json:"encoding"`
	Status       string  `json:"status"`
	INIPath      *string `json:"ini_path,omitempty"`
	DataPath     *string `json:"data_path,omitempty"`
	ArchivePath  *string `json:"archive_path,omitempty"`
	Records      int     `json:"records"`
	ErrorMessage *string `json:"error_message,omitempty"`
}
