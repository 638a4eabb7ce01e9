package handler

import (
	"errors"

	"github.com/neatml/neatml/internal/loc"
	"github.com/neatml/neatml/internal/sourcemap"
)

// Handler accumulates diagnostics during a scan. Warnings are the non-fatal
// lint diagnostics; errors record the fatal condition (if any) that aborted
// the scan. Appends are cheap and offset-only; line/column resolution is
// deferred to Diagnostics, once the full source is known, which keeps the
// handler usable for chunk-fed scans.
type Handler struct {
	filename string
	errors   []error
	warnings []error
}

func NewHandler(filename string) *Handler {
	return &Handler{
		filename: filename,
		errors:   make([]error, 0),
		warnings: make([]error, 0),
	}
}

func (h *Handler) Filename() string {
	return h.filename
}

func (h *Handler) HasErrors() bool {
	return len(h.errors) > 0
}

func (h *Handler) AppendError(err error) {
	h.errors = append(h.errors, err)
}

func (h *Handler) AppendWarning(err error) {
	h.warnings = append(h.warnings, err)
}

// WarningCount and TruncateWarnings let the tokenizer roll back diagnostics
// appended while scanning a token that was suspended at a chunk boundary;
// the rescan after the next Feed re-appends them if still applicable.
func (h *Handler) WarningCount() int {
	return len(h.warnings)
}

func (h *Handler) TruncateWarnings(n int) {
	if n >= 0 && n <= len(h.warnings) {
		h.warnings = h.warnings[:n]
	}
}

// Diagnostics resolves the collected warnings against source, in the order
// their triggering constructs were encountered.
func (h *Handler) Diagnostics(source string) []loc.DiagnosticMessage {
	table := sourcemap.GenerateLineTable(source)
	msgs := make([]loc.DiagnosticMessage, 0, len(h.warnings))
	for _, err := range h.warnings {
		if err != nil {
			msgs = append(msgs, errorToMessage(loc.WarningType, err, table))
		}
	}
	return msgs
}

func errorToMessage(severity loc.DiagnosticSeverity, err error, table *sourcemap.LineTable) loc.DiagnosticMessage {
	var rangedError *loc.ErrorWithRange
	if errors.As(err, &rangedError) {
		message := rangedError.ToMessage(table.Position(rangedError.Range.Loc.Start))
		message.Severity = severity
		return message
	}
	return loc.DiagnosticMessage{Severity: severity, Text: err.Error()}
}
