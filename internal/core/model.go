package core

import (
	"time"
)

// Category is the label the classification service assigns to an email
type Category string

const (
	// CategoryProductive marks emails that need an action or a reply
	CategoryProductive Category = "Produtivo"
	// CategoryUnproductive marks emails that need no action
	CategoryUnproductive Category = "Improdutivo"
)

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	return c == CategoryProductive || c == CategoryUnproductive
}

// InputKind tags the variant held by a ClassificationInput
type InputKind string

const (
	InputText InputKind = "text"
	InputFile InputKind = "file"
)

// FileBlob is an uploaded email file
type FileBlob struct {
	Name        string
	ContentType string
	Data        []byte
}

// Size returns the blob size in bytes
func (b *FileBlob) Size() int64 {
	return int64(len(b.Data))
}

// ClassificationInput is either pasted text or an uploaded file, plus an
// optional subject.
type ClassificationInput struct {
	Kind    InputKind
	Content string
	File    *FileBlob
	Subject string
}

// TextInput builds a text submission
func TextInput(content, subject string) ClassificationInput {
	return ClassificationInput{Kind: InputText, Content: content, Subject: subject}
}

// FileInput builds a file submission
func FileInput(file *FileBlob, subject string) ClassificationInput {
	return ClassificationInput{Kind: InputFile, File: file, Subject: subject}
}

// ClassificationResult is what the remote service returns for one email.
// It is never modified after it has been received.
type ClassificationResult struct {
	Category          Category
	Confidence        float64
	SuggestedResponse string
	OriginalContent   string
	ProcessedAt       time.Time
}

// HistoryEntry is a ledger record: a result plus the subject it was
// submitted with.
type HistoryEntry struct {
	ClassificationResult
	Subject string
}

// Theme is the persisted visual mode preference
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether t is a known theme tag
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Settings are the user preferences consumed by the dashboard
type Settings struct {
	MinutesPerEmail int
	Theme           Theme
}

const (
	DefaultMinutesPerEmail = 2
	MinMinutesPerEmail     = 1
	MaxMinutesPerEmail     = 60
	DefaultTheme           = ThemeDark
)

// DefaultSettings returns the settings used when nothing valid is persisted
func DefaultSettings() Settings {
	return Settings{
		MinutesPerEmail: DefaultMinutesPerEmail,
		Theme:           DefaultTheme,
	}
}
