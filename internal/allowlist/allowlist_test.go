package allowlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChecker_Allows(t *testing.T) {
	c := NewChecker([]string{".txt", "PDF"}, []string{"text/plain", "application/pdf"}, nil)

	tests := []struct {
		name        string
		file        string
		contentType string
		want        bool
	}{
		{"txt extension", "mail.txt", "", true},
		{"pdf extension uppercase", "REPORT.PDF", "", true},
		{"plain media type with charset", "mail", "text/plain; charset=utf-8", true},
		{"pdf media type", "upload.bin", "application/pdf", true},
		{"docx rejected", "mail.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", false},
		{"no extension no type", "mail", "", false},
		{"html rejected", "mail.html", "text/html", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Allows(tt.file, tt.contentType))
		})
	}
}

func TestChecker_NormalizesExtensions(t *testing.T) {
	c := NewChecker([]string{" TXT ", "", ".Pdf"}, nil, nil)
	assert.Equal(t, []string{".txt", ".pdf"}, c.Extensions())
}
