// Package domain defines the data model shared by the conversion pipeline.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the terminal state of a document conversion.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// ErrorKind classifies a per-document conversion failure. The set is
// closed: every Failure outcome carries exactly one of these values.
type ErrorKind string

const (
	ErrKindUnreadable ErrorKind = "unreadable" // missing file, permission denied, not a PDF
	ErrKindCorrupt    ErrorKind = "corrupt"    // the library could not open or parse the document
	ErrKindTimeout    ErrorKind = "timeout"    // per-document conversion deadline exceeded
	ErrKindResource   ErrorKind = "resource"   // out of memory or allocation failure
	ErrKindPanic      ErrorKind = "panic"      // recovered fault of any other kind
	ErrKindConversion ErrorKind = "conversion" // remaining converter errors
)

// Document represents one input PDF selected for conversion. Created by
// the selector, immutable thereafter. Path is the identity within a run;
// Index is the position in the selection order.
type Document struct {
	Path  string
	Name  string
	Size  int64
	Index int
}

// Features describes the structural features detected in a converted
// document. Pages is reported by the converter; the rest comes from the
// markdown scan.
type Features struct {
	HasTables bool `json:"has_tables"`
	HasImages bool `json:"has_images"`
	HasLinks  bool `json:"has_links"`
	Headings  int  `json:"headings"`
	Words     int  `json:"words"`
	Pages     int  `json:"pages"`
}

// MarkdownDocument is the converted form of one input document.
type MarkdownDocument struct {
	Content  string
	Features Features
}

// Outcome is the terminal result of converting one document: either a
// markdown document or a classified failure. Exactly one Outcome exists
// per selected Document. Build one with SuccessOutcome or FailureOutcome.
type Outcome struct {
	Status       Status
	Markdown     *MarkdownDocument // nil on failure
	ErrorKind    ErrorKind
	ErrorMessage string
	Elapsed      time.Duration
}

// SuccessOutcome builds a successful outcome.
func SuccessOutcome(md *MarkdownDocument, elapsed time.Duration) Outcome {
	return Outcome{
		Status:   StatusSuccess,
		Markdown: md,
		Elapsed:  elapsed,
	}
}

// FailureOutcome builds a failed outcome with a classified error kind.
func FailureOutcome(kind ErrorKind, message string, elapsed time.Duration) Outcome {
	return Outcome{
		Status:       StatusFailed,
		ErrorKind:    kind,
		ErrorMessage: message,
		Elapsed:      elapsed,
	}
}

// Succeeded reports whether the outcome is a success.
func (o Outcome) Succeeded() bool {
	return o.Status == StatusSuccess
}

// DocumentResult pairs a document with its terminal outcome. Workers
// return these by value; nothing downstream mutates them.
type DocumentResult struct {
	Document Document
	Outcome  Outcome
}

// DocumentRecord is the per-document entry of a BatchReport.
type DocumentRecord struct {
	Name         string    `json:"original_name"`
	Path         string    `json:"pdf_path"`
	Size         int64     `json:"size"`
	Status       Status    `json:"status"`
	ErrorKind    ErrorKind `json:"error_kind,omitempty"`
	Error        string    `json:"error,omitempty"`
	ElapsedMS    int64     `json:"elapsed_ms"`
	MarkdownPath string    `json:"markdown_path,omitempty"`
}

// BatchReport summarizes one pipeline run. Documents are ordered by
// selection order. A report is only ever built after every selected
// document has a terminal outcome.
type BatchReport struct {
	RunID       uuid.UUID        `json:"run_id"`
	Discovered  int              `json:"total"`
	Attempted   int              `json:"attempted"`
	Succeeded   int              `json:"success"`
	Failed      int              `json:"failed"`
	Workers     int              `json:"max_workers"`
	OutputDir   string           `json:"output_folder"`
	StartedAt   time.Time        `json:"started_at"`
	CompletedAt time.Time        `json:"completed_at"`
	DurationMS  int64            `json:"duration_ms"`
	Documents   []DocumentRecord `json:"processed"`
}

// Message is one chat message of a request payload.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// FeatureEntry is the per-document record of a FeatureIndex: detected
// features plus a ready-made request payload for the load-testing client.
type FeatureEntry struct {
	MarkdownFile string    `json:"markdown_file"`
	Features     Features  `json:"features"`
	Messages     []Message `json:"messages"`
}

// FeatureIndex maps document identity (original file name) to its feature
// entry. Only successfully converted documents appear; it is persisted
// once, after the batch is complete.
type FeatureIndex struct {
	GeneratedAt time.Time               `json:"generated_at"`
	Documents   map[string]FeatureEntry `json:"documents"`
}
