package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestPreview(t *testing.T) {
	tp := NewTextProcessor(nil)

	assert.Equal(t, "short text", tp.Preview("short text", PreviewRunes))
	assert.Equal(t, "line one line two", tp.Preview("line one\n\n  line two", PreviewRunes))

	long := strings.Repeat("ção ", 40)
	got := tp.Preview(long, PreviewRunes)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, utf8.RuneCountInString(strings.TrimSuffix(got, "...")), PreviewRunes)
	assert.True(t, utf8.ValidString(got))

	exact := strings.Repeat("a", PreviewRunes)
	assert.Equal(t, exact, tp.Preview(exact, PreviewRunes))
	assert.Equal(t, strings.TrimSpace(long), tp.Preview(long, 0))
}

func TestSubjectOrPlaceholder(t *testing.T) {
	tp := NewTextProcessor(nil)
	assert.Equal(t, NoSubject, tp.SubjectOrPlaceholder(""))
	assert.Equal(t, NoSubject, tp.SubjectOrPlaceholder("   "))
	assert.Equal(t, "Reunião", tp.SubjectOrPlaceholder(" Reunião "))
}

func TestSanitizeUTF8(t *testing.T) {
	tp := NewTextProcessor(nil)
	assert.Equal(t, "olá", tp.SanitizeUTF8("olá"))
	assert.Equal(t, "ab", tp.SanitizeUTF8("a\xffb"))
}
