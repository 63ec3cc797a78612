package utils

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	// PreviewRunes is how much of an email the history listing shows
	PreviewRunes = 100

	// NoSubject stands in for an entry submitted without a subject
	NoSubject = "Sem assunto"

	ellipsis = "..."
)

// TextProcessor provides utilities for preparing text for display and upload
type TextProcessor struct {
	logger *zap.Logger
}

// NewTextProcessor creates a new TextProcessor
func NewTextProcessor(logger *zap.Logger) *TextProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TextProcessor{
		logger: logger,
	}
}

// Preview cuts text to at most maxRunes characters, appending "..." when
// anything was cut. Line breaks are flattened so a preview fits one row.
func (tp *TextProcessor) Preview(text string, maxRunes int) string {
	flat := strings.Join(strings.Fields(text), " ")
	if maxRunes <= 0 || utf8.RuneCountInString(flat) <= maxRunes {
		return flat
	}

	runes := []rune(flat)
	return strings.TrimRight(string(runes[:maxRunes]), " ") + ellipsis
}

// SubjectOrPlaceholder returns subject, or the placeholder when it is blank
func (tp *TextProcessor) SubjectOrPlaceholder(subject string) string {
	if s := strings.TrimSpace(subject); s != "" {
		return s
	}
	return NoSubject
}

// SanitizeUTF8 drops invalid UTF-8 sequences
func (tp *TextProcessor) SanitizeUTF8(text string) string {
	if utf8.ValidString(text) {
		return text
	}

	sanitized := strings.ToValidUTF8(text, "")
	tp.logger.Debug("Text sanitized",
		zap.Int("original_size", len(text)),
		zap.Int("sanitized_size", len(sanitized)))

	return sanitized
}
