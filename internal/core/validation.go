package core

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mikey/email-triage/internal/allowlist"
	"golang.org/x/text/unicode/norm"
)

const (
	// DefaultMinContentChars is the shortest pasted text worth classifying
	DefaultMinContentChars = 10
	// DefaultMaxUploadBytes caps uploaded files at 10 MiB
	DefaultMaxUploadBytes = 10 << 20
)

var (
	DefaultUploadExtensions = []string{".txt", ".pdf"}
	DefaultUploadMediaTypes = []string{"text/plain", "application/pdf"}
)

// Validator checks submission preconditions before anything reaches the network
type Validator struct {
	minContentChars int
	maxUploadBytes  int64
	uploads         *allowlist.Checker
}

// NewValidator creates a validator. Non-positive limits fall back to defaults.
func NewValidator(minContentChars int, maxUploadBytes int64, uploads *allowlist.Checker) *Validator {
	if minContentChars <= 0 {
		minContentChars = DefaultMinContentChars
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	if uploads == nil {
		uploads = allowlist.NewChecker(DefaultUploadExtensions, DefaultUploadMediaTypes, nil)
	}
	return &Validator{
		minContentChars: minContentChars,
		maxUploadBytes:  maxUploadBytes,
		uploads:         uploads,
	}
}

// DefaultValidator returns a validator with the service's published limits
func DefaultValidator() *Validator {
	return NewValidator(0, 0, nil)
}

// Validate returns a *ValidationError when input may not be submitted
func (v *Validator) Validate(input ClassificationInput) error {
	switch input.Kind {
	case InputText:
		return v.validateText(input.Content)
	case InputFile:
		return v.validateFile(input.File)
	default:
		return &ValidationError{Field: "kind", Reason: fmt.Sprintf("unknown input kind %q", input.Kind)}
	}
}

// ContentLength counts the characters of trimmed content, composing
// combining sequences first so "e" + U+0301 counts once.
func ContentLength(content string) int {
	return utf8.RuneCountInString(norm.NFC.String(strings.TrimSpace(content)))
}

func (v *Validator) validateText(content string) error {
	if n := ContentLength(content); n < v.minContentChars {
		return &ValidationError{
			Field:  "content",
			Reason: fmt.Sprintf("must have at least %d characters, got %d", v.minContentChars, n),
		}
	}
	return nil
}

func (v *Validator) validateFile(file *FileBlob) error {
	if file == nil {
		return &ValidationError{Field: "file", Reason: "no file provided"}
	}
	if !v.uploads.Allows(file.Name, file.ContentType) {
		return &ValidationError{
			Field:  "file",
			Reason: fmt.Sprintf("unsupported format %q, use %s", file.Name, strings.Join(v.uploads.Extensions(), " or ")),
		}
	}
	if file.Size() == 0 {
		return &ValidationError{Field: "file", Reason: "file is empty"}
	}
	if file.Size() > v.maxUploadBytes {
		return &ValidationError{
			Field:  "file",
			Reason: fmt.Sprintf("file is %d bytes, limit is %d", file.Size(), v.maxUploadBytes),
		}
	}
	return nil
}
